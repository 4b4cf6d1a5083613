package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"evently/internal/domain"
	"evently/internal/metrics"
)

type eventService struct {
	eventRepo      domain.EventRepository
	categoryRepo   domain.CategoryRepository
	userRepo       domain.UserRepository
	invalidator    domain.PathInvalidator
	emailService   domain.EmailService
	logger         *slog.Logger
	contextTimeout time.Duration
}

func NewEventService(
	eventRepo domain.EventRepository,
	categoryRepo domain.CategoryRepository,
	userRepo domain.UserRepository,
	invalidator domain.PathInvalidator,
	emailService domain.EmailService,
	logger *slog.Logger,
	timeout time.Duration,
) domain.EventService {
	return &eventService{
		eventRepo:      eventRepo,
		categoryRepo:   categoryRepo,
		userRepo:       userRepo,
		invalidator:    invalidator,
		emailService:   emailService,
		logger:         logger,
		contextTimeout: timeout,
	}
}

func (s *eventService) Create(ctx context.Context, organizerExternalID string, in domain.EventInput, path string) (*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	organizer, err := s.userRepo.GetByExternalID(ctx, organizerExternalID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("organizer: %w", domain.ErrNotFound)
		}
		return nil, fmt.Errorf("resolve organizer: %w", err)
	}

	// The store does not enforce references, so category existence is
	// checked here before the write.
	if _, err := s.categoryRepo.GetByID(ctx, in.CategoryID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("category: %w", domain.ErrNotFound)
		}
		return nil, fmt.Errorf("resolve category: %w", err)
	}

	event := &domain.Event{
		Title:         in.Title,
		Description:   in.Description,
		Location:      in.Location,
		ImageURL:      in.ImageURL,
		StartDateTime: in.StartDateTime,
		EndDateTime:   in.EndDateTime,
		Price:         in.Price,
		IsFree:        in.IsFree,
		URL:           in.URL,
		CategoryID:    in.CategoryID,
		OrganizerID:   organizer.ID,
		CreatedAt:     time.Now(),
	}
	if err := s.eventRepo.Create(ctx, event); err != nil {
		return nil, fmt.Errorf("create event: %w", err)
	}
	metrics.EventsCreated.Inc()

	s.invalidatePath(ctx, path)
	s.notifyCreated(ctx, organizer, event)

	return event, nil
}

func (s *eventService) Update(ctx context.Context, organizerExternalID, eventID string, in domain.EventInput, path string) (*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	existing, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}

	organizer, err := s.userRepo.GetByExternalID(ctx, organizerExternalID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrUnauthorized
		}
		return nil, fmt.Errorf("resolve organizer: %w", err)
	}
	if existing.OrganizerID != organizer.ID {
		return nil, domain.ErrUnauthorized
	}

	if _, err := s.categoryRepo.GetByID(ctx, in.CategoryID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("category: %w", domain.ErrNotFound)
		}
		return nil, fmt.Errorf("resolve category: %w", err)
	}

	existing.Title = in.Title
	existing.Description = in.Description
	existing.Location = in.Location
	existing.ImageURL = in.ImageURL
	existing.StartDateTime = in.StartDateTime
	existing.EndDateTime = in.EndDateTime
	existing.Price = in.Price
	existing.IsFree = in.IsFree
	existing.URL = in.URL
	existing.CategoryID = in.CategoryID

	updated, err := s.eventRepo.Update(ctx, existing)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("update event: %w", err)
	}
	metrics.EventsUpdated.Inc()

	s.invalidatePath(ctx, path)
	return updated, nil
}

// Delete removes an event by id. A missing event is a no-op: the outcome the
// caller asked for already holds, so no error is returned and no path is
// invalidated.
func (s *eventService) Delete(ctx context.Context, eventID, path string) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if err := s.eventRepo.Delete(ctx, eventID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil
		}
		return fmt.Errorf("delete event: %w", err)
	}
	metrics.EventsDeleted.Inc()

	s.invalidatePath(ctx, path)
	return nil
}

func (s *eventService) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := s.eventRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	return event, nil
}

// Search runs the filtered event query. A category name that resolves to no
// category yields an empty page: silently dropping the filter would return
// every event under a filter the caller believes is active.
func (s *eventService) Search(ctx context.Context, params domain.EventSearchParams) (*domain.EventPage, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	metrics.EventSearches.Inc()

	filter := domain.EventFilter{TitleQuery: params.Query}
	if params.Category != "" {
		category, err := s.categoryRepo.FindByName(ctx, params.Category)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return &domain.EventPage{Data: []*domain.Event{}, TotalPages: 0}, nil
			}
			return nil, fmt.Errorf("resolve category: %w", err)
		}
		filter.CategoryID = category.ID
	}

	return s.page(ctx, filter, domain.PaginationParams{Page: params.Page, PageSize: params.PageSize})
}

func (s *eventService) ListByOrganizer(ctx context.Context, organizerID string, p domain.PaginationParams) (*domain.EventPage, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	return s.page(ctx, domain.EventFilter{OrganizerID: organizerID}, p)
}

func (s *eventService) ListRelatedByCategory(ctx context.Context, categoryID, excludeEventID string, p domain.PaginationParams) (*domain.EventPage, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	filter := domain.EventFilter{
		CategoryID:     categoryID,
		ExcludeEventID: excludeEventID,
	}
	return s.page(ctx, filter, p)
}

func (s *eventService) page(ctx context.Context, filter domain.EventFilter, p domain.PaginationParams) (*domain.EventPage, error) {
	events, total, err := s.eventRepo.Search(ctx, filter, p)
	if err != nil {
		return nil, fmt.Errorf("search events: %w", err)
	}
	return &domain.EventPage{
		Data:       events,
		Total:      total,
		TotalPages: domain.TotalPages(total, p.PageSize),
	}, nil
}

// invalidatePath signals the frontend cache. Failures are logged and never
// fail the command that triggered them.
func (s *eventService) invalidatePath(ctx context.Context, path string) {
	if s.invalidator == nil || path == "" {
		return
	}
	if err := s.invalidator.Invalidate(ctx, path); err != nil {
		s.logger.WarnContext(ctx, "path invalidation failed", "path", path, "err", err)
	}
}

// notifyCreated sends the organizer a confirmation email, best effort.
func (s *eventService) notifyCreated(ctx context.Context, organizer *domain.User, event *domain.Event) {
	if s.emailService == nil || organizer.Email == "" {
		return
	}
	data := &domain.EventCreatedEmailData{
		Email:      organizer.Email,
		FirstName:  organizer.FirstName,
		EventTitle: event.Title,
		EventID:    event.ID,
	}
	if err := s.emailService.SendEventCreated(ctx, data); err != nil {
		s.logger.WarnContext(ctx, "event created email failed", "event_id", event.ID, "err", err)
	}
}
