// Package jsonfile is the flat-file store driver: one pretty-printed JSON
// array per collection under a data directory. It is the default substrate
// for single-instance deployments.
package jsonfile

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"ms-booking/internal/models"
)

type Store struct {
	eventsPath   string
	bookingsPath string
}

// New creates the data directory if needed and returns a store reading
// events.json and bookings.json inside it.
func New(dataDir string) (*Store, error) {
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir %s: %w", dataDir, err)
	}
	return &Store{
		eventsPath:   filepath.Join(dataDir, "events.json"),
		bookingsPath: filepath.Join(dataDir, "bookings.json"),
	}, nil
}

func (s *Store) LoadEvents(ctx context.Context) ([]models.Event, error) {
	var events []models.Event
	if err := readCollection(s.eventsPath, &events); err != nil {
		return nil, err
	}
	return events, nil
}

func (s *Store) SaveEvents(ctx context.Context, events []models.Event) error {
	return writeCollection(s.eventsPath, events)
}

func (s *Store) LoadBookings(ctx context.Context) ([]models.Booking, error) {
	var bookings []models.Booking
	if err := readCollection(s.bookingsPath, &bookings); err != nil {
		return nil, err
	}
	return bookings, nil
}

func (s *Store) SaveBookings(ctx context.Context, bookings []models.Booking) error {
	return writeCollection(s.bookingsPath, bookings)
}

// readCollection treats a missing file as a genuinely empty collection and
// seeds it with "[]". Every other failure propagates: a corrupt or unreadable
// file must surface as a storage error, not masquerade as an empty store.
func readCollection(path string, out interface{}) error {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		if writeErr := os.WriteFile(path, []byte("[]"), 0o644); writeErr != nil {
			return fmt.Errorf("seed %s: %w", path, writeErr)
		}
		return nil
	}
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}

// writeCollection replaces the file contents through a rename so a crash
// mid-write never leaves a truncated collection behind.
func writeCollection(path string, in interface{}) error {
	data, err := json.MarshalIndent(in, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("replace %s: %w", path, err)
	}
	return nil
}
