package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"strings"
	"testing"
	"time"

	"evently/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fakeEventRepo is an in-memory EventRepository for tests.
type fakeEventRepo struct {
	byID        map[string]*domain.Event
	nextID      int
	err         error // if set, every method returns this error
	searchCalls int
}

func newFakeEventRepo() *fakeEventRepo {
	return &fakeEventRepo{
		byID:   make(map[string]*domain.Event),
		nextID: 1,
	}
}

func (f *fakeEventRepo) Create(ctx context.Context, e *domain.Event) error {
	if f.err != nil {
		return f.err
	}
	e.ID = fmt.Sprintf("ev-%d", f.nextID)
	f.nextID++
	stored := *e
	f.byID[e.ID] = &stored
	return nil
}

func (f *fakeEventRepo) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	if f.err != nil {
		return nil, f.err
	}
	if e, ok := f.byID[id]; ok {
		copied := *e
		return &copied, nil
	}
	return nil, domain.ErrNotFound
}

func (f *fakeEventRepo) Search(ctx context.Context, filter domain.EventFilter, p domain.PaginationParams) ([]*domain.Event, int, error) {
	f.searchCalls++
	if f.err != nil {
		return nil, 0, f.err
	}
	var matched []*domain.Event
	for _, e := range f.byID {
		if filter.TitleQuery != "" && !strings.Contains(strings.ToLower(e.Title), strings.ToLower(filter.TitleQuery)) {
			continue
		}
		if filter.CategoryID != "" && e.CategoryID != filter.CategoryID {
			continue
		}
		if filter.OrganizerID != "" && e.OrganizerID != filter.OrganizerID {
			continue
		}
		if filter.ExcludeEventID != "" && e.ID == filter.ExcludeEventID {
			continue
		}
		matched = append(matched, e)
	}
	sort.Slice(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})
	total := len(matched)
	offset := p.Offset()
	if offset > total {
		offset = total
	}
	end := offset + p.PageSize
	if end > total {
		end = total
	}
	page := make([]*domain.Event, 0, end-offset)
	for _, e := range matched[offset:end] {
		copied := *e
		page = append(page, &copied)
	}
	return page, total, nil
}

func (f *fakeEventRepo) Update(ctx context.Context, e *domain.Event) (*domain.Event, error) {
	if f.err != nil {
		return nil, f.err
	}
	if _, ok := f.byID[e.ID]; !ok {
		return nil, domain.ErrNotFound
	}
	stored := *e
	f.byID[e.ID] = &stored
	copied := stored
	return &copied, nil
}

func (f *fakeEventRepo) Delete(ctx context.Context, id string) error {
	if f.err != nil {
		return f.err
	}
	if _, ok := f.byID[id]; !ok {
		return domain.ErrNotFound
	}
	delete(f.byID, id)
	return nil
}

// fakeCategoryRepo is an in-memory CategoryRepository for tests.
type fakeCategoryRepo struct {
	byID map[string]*domain.Category
	err  error
}

func newFakeCategoryRepo(categories ...*domain.Category) *fakeCategoryRepo {
	f := &fakeCategoryRepo{byID: make(map[string]*domain.Category)}
	for _, c := range categories {
		f.byID[c.ID] = c
	}
	return f
}

func (f *fakeCategoryRepo) Create(ctx context.Context, c *domain.Category) error {
	if f.err != nil {
		return f.err
	}
	for _, existing := range f.byID {
		if strings.EqualFold(existing.Name, c.Name) {
			return domain.ErrDuplicate
		}
	}
	c.ID = fmt.Sprintf("cat-%d", len(f.byID)+1)
	f.byID[c.ID] = c
	return nil
}

func (f *fakeCategoryRepo) GetByID(ctx context.Context, id string) (*domain.Category, error) {
	if f.err != nil {
		return nil, f.err
	}
	if c, ok := f.byID[id]; ok {
		return c, nil
	}
	return nil, domain.ErrNotFound
}

func (f *fakeCategoryRepo) FindByName(ctx context.Context, name string) (*domain.Category, error) {
	if f.err != nil {
		return nil, f.err
	}
	for _, c := range f.byID {
		if strings.Contains(strings.ToLower(c.Name), strings.ToLower(name)) {
			return c, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (f *fakeCategoryRepo) List(ctx context.Context) ([]*domain.Category, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []*domain.Category
	for _, c := range f.byID {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// fakeUserRepo is an in-memory UserRepository for tests.
type fakeUserRepo struct {
	byExternalID map[string]*domain.User
	err          error
}

func newFakeUserRepo(users ...*domain.User) *fakeUserRepo {
	f := &fakeUserRepo{byExternalID: make(map[string]*domain.User)}
	for _, u := range users {
		f.byExternalID[u.ExternalID] = u
	}
	return f
}

func (f *fakeUserRepo) Create(ctx context.Context, u *domain.User) error {
	if f.err != nil {
		return f.err
	}
	u.ID = fmt.Sprintf("user-%d", len(f.byExternalID)+1)
	f.byExternalID[u.ExternalID] = u
	return nil
}

func (f *fakeUserRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	for _, u := range f.byExternalID {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (f *fakeUserRepo) GetByExternalID(ctx context.Context, externalID string) (*domain.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	if u, ok := f.byExternalID[externalID]; ok {
		return u, nil
	}
	return nil, domain.ErrNotFound
}

func (f *fakeUserRepo) Update(ctx context.Context, u *domain.User) (*domain.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	existing, ok := f.byExternalID[u.ExternalID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	u.ID = existing.ID
	f.byExternalID[u.ExternalID] = u
	return u, nil
}

func (f *fakeUserRepo) DeleteByExternalID(ctx context.Context, externalID string) error {
	if f.err != nil {
		return f.err
	}
	if _, ok := f.byExternalID[externalID]; !ok {
		return domain.ErrNotFound
	}
	delete(f.byExternalID, externalID)
	return nil
}

// fakeInvalidator records invalidated paths.
type fakeInvalidator struct {
	paths []string
	err   error
}

func (f *fakeInvalidator) Invalidate(ctx context.Context, path string) error {
	if f.err != nil {
		return f.err
	}
	f.paths = append(f.paths, path)
	return nil
}

// fakeEmailService records sent notifications.
type fakeEmailService struct {
	sent []*domain.EventCreatedEmailData
	err  error
}

func (f *fakeEmailService) SendEventCreated(ctx context.Context, data *domain.EventCreatedEmailData) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, data)
	return nil
}

type eventServiceFixture struct {
	eventRepo    *fakeEventRepo
	categoryRepo *fakeCategoryRepo
	userRepo     *fakeUserRepo
	invalidator  *fakeInvalidator
	email        *fakeEmailService
	svc          domain.EventService
}

func newEventServiceFixture() *eventServiceFixture {
	f := &eventServiceFixture{
		eventRepo: newFakeEventRepo(),
		categoryRepo: newFakeCategoryRepo(
			&domain.Category{ID: "cat-1", Name: "Tech"},
			&domain.Category{ID: "cat-2", Name: "Music"},
		),
		userRepo: newFakeUserRepo(
			&domain.User{ID: "user-1", ExternalID: "ext-1", Email: "ada@example.com", FirstName: "Ada", LastName: "Lovelace"},
			&domain.User{ID: "user-2", ExternalID: "ext-2", Email: "grace@example.com", FirstName: "Grace", LastName: "Hopper"},
		),
		invalidator: &fakeInvalidator{},
		email:       &fakeEmailService{},
	}
	f.svc = NewEventService(f.eventRepo, f.categoryRepo, f.userRepo, f.invalidator, f.email, testLogger(), 5*time.Second)
	return f
}

func validInput() domain.EventInput {
	return domain.EventInput{
		Title:         "Tech Summit",
		Description:   "annual summit",
		Location:      "Berlin",
		StartDateTime: time.Date(2025, 6, 1, 18, 0, 0, 0, time.UTC),
		EndDateTime:   time.Date(2025, 6, 1, 20, 0, 0, 0, time.UTC),
		Price:         "25",
		URL:           "https://example.com",
		CategoryID:    "cat-1",
	}
}

func TestEventService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("success resolves organizer and keeps fields", func(t *testing.T) {
		f := newEventServiceFixture()
		event, err := f.svc.Create(ctx, "ext-1", validInput(), "/events")
		require.NoError(t, err)
		require.NotEmpty(t, event.ID)
		assert.Equal(t, "Tech Summit", event.Title)
		assert.Equal(t, "cat-1", event.CategoryID)
		assert.Equal(t, "user-1", event.OrganizerID)
		assert.False(t, event.CreatedAt.IsZero())

		stored, err := f.svc.GetByID(ctx, event.ID)
		require.NoError(t, err)
		assert.Equal(t, event.Title, stored.Title)
		assert.Equal(t, event.OrganizerID, stored.OrganizerID)

		require.Equal(t, []string{"/events"}, f.invalidator.paths)
		require.Len(t, f.email.sent, 1)
		assert.Equal(t, "ada@example.com", f.email.sent[0].Email)
		assert.Equal(t, "Tech Summit", f.email.sent[0].EventTitle)
	})

	t.Run("unknown organizer is fatal", func(t *testing.T) {
		f := newEventServiceFixture()
		event, err := f.svc.Create(ctx, "ext-unknown", validInput(), "/events")
		require.Nil(t, event)
		require.True(t, errors.Is(err, domain.ErrNotFound))
		assert.Empty(t, f.eventRepo.byID)
		assert.Empty(t, f.invalidator.paths)
	})

	t.Run("unknown category is fatal", func(t *testing.T) {
		f := newEventServiceFixture()
		in := validInput()
		in.CategoryID = "cat-unknown"
		event, err := f.svc.Create(ctx, "ext-1", in, "/events")
		require.Nil(t, event)
		require.True(t, errors.Is(err, domain.ErrNotFound))
		assert.Empty(t, f.eventRepo.byID)
	})

	t.Run("invalidation failure does not fail the create", func(t *testing.T) {
		f := newEventServiceFixture()
		f.invalidator.err = errors.New("frontend down")
		event, err := f.svc.Create(ctx, "ext-1", validInput(), "/events")
		require.NoError(t, err)
		require.NotEmpty(t, event.ID)
	})

	t.Run("email failure does not fail the create", func(t *testing.T) {
		f := newEventServiceFixture()
		f.email.err = errors.New("ses down")
		event, err := f.svc.Create(ctx, "ext-1", validInput(), "/events")
		require.NoError(t, err)
		require.NotEmpty(t, event.ID)
	})
}

func TestEventService_Update(t *testing.T) {
	ctx := context.Background()

	t.Run("organizer can update", func(t *testing.T) {
		f := newEventServiceFixture()
		created, err := f.svc.Create(ctx, "ext-1", validInput(), "/events")
		require.NoError(t, err)

		in := validInput()
		in.Title = "Tech Summit 2025"
		in.CategoryID = "cat-2"
		updated, err := f.svc.Update(ctx, "ext-1", created.ID, in, "/events/"+created.ID)
		require.NoError(t, err)
		assert.Equal(t, "Tech Summit 2025", updated.Title)
		assert.Equal(t, "cat-2", updated.CategoryID)
		assert.Contains(t, f.invalidator.paths, "/events/"+created.ID)
	})

	t.Run("non-organizer is refused and event unmodified", func(t *testing.T) {
		f := newEventServiceFixture()
		created, err := f.svc.Create(ctx, "ext-1", validInput(), "/events")
		require.NoError(t, err)

		in := validInput()
		in.Title = "Hijacked"
		updated, err := f.svc.Update(ctx, "ext-2", created.ID, in, "/events")
		require.Nil(t, updated)
		require.True(t, errors.Is(err, domain.ErrUnauthorized))

		current, err := f.svc.GetByID(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, "Tech Summit", current.Title)
	})

	t.Run("unknown identity is refused", func(t *testing.T) {
		f := newEventServiceFixture()
		created, err := f.svc.Create(ctx, "ext-1", validInput(), "/events")
		require.NoError(t, err)

		updated, err := f.svc.Update(ctx, "ext-unknown", created.ID, validInput(), "/events")
		require.Nil(t, updated)
		require.True(t, errors.Is(err, domain.ErrUnauthorized))
	})

	t.Run("missing event", func(t *testing.T) {
		f := newEventServiceFixture()
		updated, err := f.svc.Update(ctx, "ext-1", "ev-missing", validInput(), "/events")
		require.Nil(t, updated)
		require.True(t, errors.Is(err, domain.ErrNotFound))
	})

	t.Run("unknown category is fatal", func(t *testing.T) {
		f := newEventServiceFixture()
		created, err := f.svc.Create(ctx, "ext-1", validInput(), "/events")
		require.NoError(t, err)

		in := validInput()
		in.CategoryID = "cat-unknown"
		updated, err := f.svc.Update(ctx, "ext-1", created.ID, in, "/events")
		require.Nil(t, updated)
		require.True(t, errors.Is(err, domain.ErrNotFound))
	})
}

func TestEventService_Delete(t *testing.T) {
	ctx := context.Background()

	t.Run("removes and invalidates", func(t *testing.T) {
		f := newEventServiceFixture()
		created, err := f.svc.Create(ctx, "ext-1", validInput(), "/events")
		require.NoError(t, err)
		f.invalidator.paths = nil

		require.NoError(t, f.svc.Delete(ctx, created.ID, "/profile"))
		_, err = f.svc.GetByID(ctx, created.ID)
		require.True(t, errors.Is(err, domain.ErrNotFound))
		require.Equal(t, []string{"/profile"}, f.invalidator.paths)
	})

	t.Run("nonexistent id is a no-op", func(t *testing.T) {
		f := newEventServiceFixture()
		require.NoError(t, f.svc.Delete(ctx, "ev-missing", "/profile"))
		assert.Empty(t, f.invalidator.paths)
	})

	t.Run("store failure surfaces", func(t *testing.T) {
		f := newEventServiceFixture()
		f.eventRepo.err = errors.New("connection refused")
		require.Error(t, f.svc.Delete(ctx, "ev-1", "/profile"))
	})
}

func TestEventService_Search(t *testing.T) {
	ctx := context.Background()

	seed := func(f *eventServiceFixture, n int, categoryID string) []*domain.Event {
		var out []*domain.Event
		for i := 0; i < n; i++ {
			in := validInput()
			in.Title = fmt.Sprintf("Event %02d", i)
			in.CategoryID = categoryID
			e, err := f.svc.Create(ctx, "ext-1", in, "")
			if err != nil {
				panic(err)
			}
			// Spread creation times so ordering is deterministic.
			f.eventRepo.byID[e.ID].CreatedAt = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC).Add(time.Duration(i) * time.Hour)
			out = append(out, e)
		}
		return out
	}

	t.Run("empty query pages newest first", func(t *testing.T) {
		f := newEventServiceFixture()
		seed(f, 10, "cat-1")

		page, err := f.svc.Search(ctx, domain.EventSearchParams{Page: 1, PageSize: 6})
		require.NoError(t, err)
		require.Len(t, page.Data, 6)
		assert.Equal(t, 2, page.TotalPages)
		assert.Equal(t, 10, page.Total)
		assert.Equal(t, "Event 09", page.Data[0].Title)

		page2, err := f.svc.Search(ctx, domain.EventSearchParams{Page: 2, PageSize: 6})
		require.NoError(t, err)
		require.Len(t, page2.Data, 4)
	})

	t.Run("title match is case-insensitive substring", func(t *testing.T) {
		f := newEventServiceFixture()
		seed(f, 3, "cat-1")
		in := validInput()
		in.Title = "Jazz Night"
		_, err := f.svc.Create(ctx, "ext-1", in, "")
		require.NoError(t, err)

		page, err := f.svc.Search(ctx, domain.EventSearchParams{Query: "jAzZ", Page: 1, PageSize: 6})
		require.NoError(t, err)
		require.Len(t, page.Data, 1)
		assert.Equal(t, "Jazz Night", page.Data[0].Title)
	})

	t.Run("category name resolves case-insensitively", func(t *testing.T) {
		f := newEventServiceFixture()
		seed(f, 2, "cat-1")
		seed(f, 3, "cat-2")

		page, err := f.svc.Search(ctx, domain.EventSearchParams{Category: "mus", Page: 1, PageSize: 6})
		require.NoError(t, err)
		require.Len(t, page.Data, 3)
		for _, e := range page.Data {
			assert.Equal(t, "cat-2", e.CategoryID)
		}
	})

	t.Run("unresolved category fails closed", func(t *testing.T) {
		f := newEventServiceFixture()
		seed(f, 5, "cat-1")
		f.eventRepo.searchCalls = 0

		page, err := f.svc.Search(ctx, domain.EventSearchParams{Category: "Nonexistent", Page: 1, PageSize: 6})
		require.NoError(t, err)
		assert.Empty(t, page.Data)
		assert.Zero(t, page.TotalPages)
		assert.Zero(t, f.eventRepo.searchCalls, "unresolved category must not query the event store")
	})

	t.Run("zero matches yields zero total pages", func(t *testing.T) {
		f := newEventServiceFixture()
		page, err := f.svc.Search(ctx, domain.EventSearchParams{Query: "nothing", Page: 1, PageSize: 6})
		require.NoError(t, err)
		assert.Empty(t, page.Data)
		assert.Zero(t, page.TotalPages)
	})

	t.Run("store failure surfaces", func(t *testing.T) {
		f := newEventServiceFixture()
		f.eventRepo.err = errors.New("connection refused")
		page, err := f.svc.Search(ctx, domain.EventSearchParams{Page: 1, PageSize: 6})
		require.Error(t, err)
		require.Nil(t, page)
	})
}

func TestEventService_ListByOrganizer(t *testing.T) {
	ctx := context.Background()
	f := newEventServiceFixture()

	for i := 0; i < 3; i++ {
		_, err := f.svc.Create(ctx, "ext-1", validInput(), "")
		require.NoError(t, err)
	}
	_, err := f.svc.Create(ctx, "ext-2", validInput(), "")
	require.NoError(t, err)

	page, err := f.svc.ListByOrganizer(ctx, "user-1", domain.PaginationParams{Page: 1, PageSize: 6})
	require.NoError(t, err)
	require.Len(t, page.Data, 3)
	assert.Equal(t, 1, page.TotalPages)
	for _, e := range page.Data {
		assert.Equal(t, "user-1", e.OrganizerID)
	}
}

func TestEventService_ListRelatedByCategory(t *testing.T) {
	ctx := context.Background()
	f := newEventServiceFixture()

	var ids []string
	for i := 0; i < 4; i++ {
		e, err := f.svc.Create(ctx, "ext-1", validInput(), "")
		require.NoError(t, err)
		ids = append(ids, e.ID)
	}

	page, err := f.svc.ListRelatedByCategory(ctx, "cat-1", ids[0], domain.PaginationParams{Page: 1, PageSize: 6})
	require.NoError(t, err)
	require.Len(t, page.Data, 3)
	for _, e := range page.Data {
		assert.NotEqual(t, ids[0], e.ID)
		assert.Equal(t, "cat-1", e.CategoryID)
	}
}
