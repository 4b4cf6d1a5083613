package domain

import (
	"context"
	"time"
)

// OrganizerSummary is the subset of User embedded in event responses.
// swagger:model OrganizerSummary
type OrganizerSummary struct {
	ID        string `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// CategorySummary is the subset of Category embedded in event responses.
// swagger:model CategorySummary
type CategorySummary struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Event represents a published event owned by its organizer.
// Organizer and Category are populated summaries of the referenced user and
// category; either may be nil if the reference is dangling.
// swagger:model Event
type Event struct {
	ID            string            `json:"id"`
	Title         string            `json:"title"`
	Description   string            `json:"description"`
	Location      string            `json:"location"`
	ImageURL      string            `json:"image_url"`
	StartDateTime time.Time         `json:"start_date_time"`
	EndDateTime   time.Time         `json:"end_date_time"`
	Price         string            `json:"price"`
	IsFree        bool              `json:"is_free"`
	URL           string            `json:"url"`
	CategoryID    string            `json:"category_id"`
	OrganizerID   string            `json:"organizer_id"`
	CreatedAt     time.Time         `json:"created_at"`
	Organizer     *OrganizerSummary `json:"organizer,omitempty"`
	Category      *CategorySummary  `json:"category,omitempty"`
}

// EventInput holds the caller-supplied fields for creating or updating an event.
type EventInput struct {
	Title         string
	Description   string
	Location      string
	ImageURL      string
	StartDateTime time.Time
	EndDateTime   time.Time
	Price         string
	IsFree        bool
	URL           string
	CategoryID    string
}

// EventFilter describes the conditions of an event list query. Zero-valued
// fields apply no constraint; set fields are combined with AND.
type EventFilter struct {
	// TitleQuery requires a case-insensitive substring match on the title.
	TitleQuery string
	// CategoryID requires exact category equality.
	CategoryID string
	// OrganizerID requires exact organizer equality.
	OrganizerID string
	// ExcludeEventID excludes a single event id from the results.
	ExcludeEventID string
}

// EventPage is one page of populated events plus the page count over the
// whole (pre-pagination) result set.
type EventPage struct {
	Data       []*Event `json:"data"`
	TotalPages int      `json:"total_pages"`
	Total      int      `json:"total"`
}

// EventSearchParams are the caller-facing search parameters: free-text title
// query and category name, both optional, plus pagination.
type EventSearchParams struct {
	Query    string
	Category string
	Page     int
	PageSize int
}

// EventRepository defines the interface for event storage. All reads return
// events with organizer and category summaries populated.
type EventRepository interface {
	Create(ctx context.Context, event *Event) error
	GetByID(ctx context.Context, id string) (*Event, error)
	// Search returns one page of events matching the filter, newest first,
	// and the total number of matches before pagination.
	Search(ctx context.Context, filter EventFilter, p PaginationParams) ([]*Event, int, error)
	Update(ctx context.Context, event *Event) (*Event, error)
	Delete(ctx context.Context, id string) error
}

// EventService defines the business logic for event commands and queries.
type EventService interface {
	// Create persists a new event for the organizer identified by the
	// external identity token. Returns ErrNotFound if no such user exists.
	Create(ctx context.Context, organizerExternalID string, in EventInput, path string) (*Event, error)
	// Update modifies an existing event. Returns ErrNotFound if the event is
	// missing and ErrUnauthorized if the acting user is not its organizer.
	Update(ctx context.Context, organizerExternalID, eventID string, in EventInput, path string) (*Event, error)
	// Delete removes an event by id. Deleting a nonexistent event is a no-op.
	Delete(ctx context.Context, eventID, path string) error
	GetByID(ctx context.Context, id string) (*Event, error)
	// Search runs the filtered, paginated event query. An unresolvable
	// category name yields an empty page rather than an unfiltered one.
	Search(ctx context.Context, params EventSearchParams) (*EventPage, error)
	ListByOrganizer(ctx context.Context, organizerID string, p PaginationParams) (*EventPage, error)
	ListRelatedByCategory(ctx context.Context, categoryID, excludeEventID string, p PaginationParams) (*EventPage, error)
}

// PathInvalidator signals the frontend to discard cached rendering for a
// route so it re-fetches fresh data.
type PathInvalidator interface {
	Invalidate(ctx context.Context, path string) error
}
