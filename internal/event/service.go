package event

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"ms-booking/internal/logger"
	"ms-booking/internal/models"
	"ms-booking/internal/seatmap"
	"ms-booking/internal/store"
)

// Grids are capped at 50x50 at creation time.
const maxGridDimension = 50

var (
	ErrInvalidEvent       = errors.New("invalid event")
	ErrNotFound           = errors.New("event not found")
	ErrStorageUnavailable = errors.New("storage unavailable")
)

// Service handles event creation and the public read side. The seat grid is
// generated exactly once here; afterwards only the reservation engine touches
// it, cell by cell. Writes run under the shared events collection guard, since
// saving replaces the whole collection and a stale load would write back seat
// grids as they were before a concurrent booking committed.
type Service struct {
	Events      store.EventStore
	Collections *store.Guards
	Logger      *logger.Logger
}

func NewService(events store.EventStore, collections *store.Guards, log *logger.Logger) *Service {
	return &Service{Events: events, Collections: collections, Logger: log}
}

func (s *Service) CreateEvent(ctx context.Context, req models.CreateEventRequest) (*models.Event, error) {
	if req.Name == "" || req.Description == "" || req.Date == "" || req.Location == "" {
		return nil, fmt.Errorf("%w: missing required fields", ErrInvalidEvent)
	}
	if req.Rows < 1 || req.Cols < 1 || req.Rows > maxGridDimension || req.Cols > maxGridDimension {
		return nil, fmt.Errorf("%w: rows and cols must be between 1 and %d", ErrInvalidEvent, maxGridDimension)
	}

	date, err := time.Parse(time.RFC3339, req.Date)
	if err != nil {
		return nil, fmt.Errorf("%w: date must be RFC 3339, got %q", ErrInvalidEvent, req.Date)
	}

	newEvent := models.Event{
		ID:             uuid.NewString(),
		Name:           req.Name,
		Description:    req.Description,
		Date:           date,
		Location:       req.Location,
		LocationURL:    req.LocationURL,
		Capacity:       req.Rows * req.Cols,
		Price:          req.Price,
		Category:       req.Category,
		PosterImageURL: req.PosterImageURL,
		BannerImageURL: req.BannerImageURL,
		Published:      req.Published,
		Rows:           req.Rows,
		Cols:           req.Cols,
		Seats:          seatmap.Generate(req.Rows, req.Cols),
		CreatedAt:      time.Now().UTC(),
	}

	s.Collections.Events.Lock()
	defer s.Collections.Events.Unlock()

	events, err := s.Events.LoadEvents(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}

	events = append(events, newEvent)
	if err := s.Events.SaveEvents(ctx, events); err != nil {
		return nil, fmt.Errorf("save event %s: %w", newEvent.ID, err)
	}

	s.Logger.LogEvent("CREATE", newEvent.ID, fmt.Sprintf("%q with %dx%d grid", newEvent.Name, newEvent.Rows, newEvent.Cols))
	return &newEvent, nil
}

// ListPublished returns the public listing: published events only, with a
// live availability count and without the full grid.
func (s *Service) ListPublished(ctx context.Context) ([]models.EventSummary, error) {
	events, err := s.Events.LoadEvents(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}

	summaries := []models.EventSummary{}
	for i := range events {
		if !events[i].Published {
			continue
		}
		summaries = append(summaries, models.EventSummary{
			EventDetails:   events[i].Details(),
			AvailableSeats: events[i].AvailableSeats(),
		})
	}
	return summaries, nil
}

// GetEvent returns the full event including its seat grid, for the seat-map view.
func (s *Service) GetEvent(ctx context.Context, eventID string) (*models.Event, error) {
	events, err := s.Events.LoadEvents(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}

	for i := range events {
		if events[i].ID == eventID {
			return &events[i], nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrNotFound, eventID)
}

func (s *Service) SetPublished(ctx context.Context, eventID string, published bool) (*models.Event, error) {
	s.Collections.Events.Lock()
	defer s.Collections.Events.Unlock()

	events, err := s.Events.LoadEvents(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}

	for i := range events {
		if events[i].ID == eventID {
			events[i].Published = published
			if err := s.Events.SaveEvents(ctx, events); err != nil {
				return nil, fmt.Errorf("save event %s: %w", eventID, err)
			}
			s.Logger.LogEvent("PUBLISH", eventID, fmt.Sprintf("published=%t", published))
			return &events[i], nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrNotFound, eventID)
}
