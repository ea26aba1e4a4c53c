package event

import (
	"context"
	"time"
)

// Repository defines the storage interface for events.
type Repository interface {
	// CreateEvent adds a new event and sets its ID.
	CreateEvent(ctx context.Context, e *Event) error

	// CreateEvents adds or updates events in a batch. Events with a UID
	// replace the stored event with the same source and UID.
	CreateEvents(ctx context.Context, events []*Event) error

	// GetEvent retrieves an event by ID. Returns ErrEventNotFound if missing.
	GetEvent(ctx context.Context, id int64) (*Event, error)

	// DeleteEvent removes an event by ID. Returns ErrEventNotFound if missing.
	DeleteEvent(ctx context.Context, id int64) error

	// ListEventsBetween returns events overlapping [from, to), ordered by start.
	ListEventsBetween(ctx context.Context, from, to time.Time) ([]*Event, error)

	// Close releases any resources held by the repository.
	Close() error
}
