// Package bunstore backs the whole-collection store contract with an embedded
// SQLite database via bun. Collections keep their replace-on-save semantics:
// a save runs delete-all plus bulk insert inside one transaction, so readers
// observe either the old collection or the new one.
package bunstore

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	_ "github.com/uptrace/bun/driver/sqliteshim"

	"ms-booking/internal/models"
)

type Store struct {
	Bun *bun.DB
}

// Open connects to the SQLite file at dsn (":memory:" works for tests) and
// creates the collection tables when missing.
func Open(ctx context.Context, dsn string) (*Store, error) {
	sqldb, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", dsn, err)
	}
	bunDB := bun.NewDB(sqldb, sqlitedialect.New())

	s := &Store{Bun: bunDB}
	if err := s.init(ctx); err != nil {
		bunDB.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) init(ctx context.Context) error {
	if _, err := s.Bun.NewCreateTable().Model((*models.Event)(nil)).IfNotExists().Exec(ctx); err != nil {
		return fmt.Errorf("create events table: %w", err)
	}
	if _, err := s.Bun.NewCreateTable().Model((*models.Booking)(nil)).IfNotExists().Exec(ctx); err != nil {
		return fmt.Errorf("create bookings table: %w", err)
	}
	return nil
}

func (s *Store) Close() error {
	return s.Bun.Close()
}

func (s *Store) LoadEvents(ctx context.Context) ([]models.Event, error) {
	events := []models.Event{}
	err := s.Bun.NewSelect().
		Model(&events).
		Order("created_at ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("load events: %w", err)
	}
	return events, nil
}

func (s *Store) SaveEvents(ctx context.Context, events []models.Event) error {
	err := s.Bun.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.NewDelete().Model((*models.Event)(nil)).Where("1 = 1").Exec(ctx); err != nil {
			return err
		}
		if len(events) == 0 {
			return nil
		}
		_, err := tx.NewInsert().Model(&events).Exec(ctx)
		return err
	})
	if err != nil {
		return fmt.Errorf("save events: %w", err)
	}
	return nil
}

func (s *Store) LoadBookings(ctx context.Context) ([]models.Booking, error) {
	bookings := []models.Booking{}
	err := s.Bun.NewSelect().
		Model(&bookings).
		Order("booking_time ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("load bookings: %w", err)
	}
	return bookings, nil
}

func (s *Store) SaveBookings(ctx context.Context, bookings []models.Booking) error {
	err := s.Bun.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.NewDelete().Model((*models.Booking)(nil)).Where("1 = 1").Exec(ctx); err != nil {
			return err
		}
		if len(bookings) == 0 {
			return nil
		}
		_, err := tx.NewInsert().Model(&bookings).Exec(ctx)
		return err
	})
	if err != nil {
		return fmt.Errorf("save bookings: %w", err)
	}
	return nil
}
