package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"evently/internal/domain"
)

type eventRepository struct {
	DB *sql.DB
}

func NewEventRepository(db *sql.DB) domain.EventRepository {
	return &eventRepository{
		DB: db,
	}
}

// eventColumns is the populated select list shared by all event reads.
// Organizer and category are joined so reads return embedded summaries.
const eventColumns = `
	e.id, e.title, e.description, e.location, e.image_url,
	e.start_date_time, e.end_date_time, e.price, e.is_free, e.url,
	e.category_id, e.organizer_id, e.created_at,
	u.id, u.first_name, u.last_name,
	c.id, c.name
`

const eventJoins = `
	FROM events e
	LEFT JOIN users u ON u.id = e.organizer_id
	LEFT JOIN categories c ON c.id = e.category_id
`

func (r *eventRepository) Create(ctx context.Context, e *domain.Event) error {
	query := `
		INSERT INTO events (title, description, location, image_url, start_date_time, end_date_time, price, is_free, url, category_id, organizer_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING id
	`
	err := r.DB.QueryRowContext(ctx, query,
		e.Title, e.Description, e.Location, e.ImageURL,
		e.StartDateTime, e.EndDateTime, e.Price, e.IsFree, e.URL,
		e.CategoryID, e.OrganizerID, e.CreatedAt,
	).Scan(&e.ID)
	if err != nil {
		return fmt.Errorf("insert event: %w", err)
	}
	return nil
}

func (r *eventRepository) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	query := `SELECT ` + eventColumns + eventJoins + ` WHERE e.id = $1`
	e, err := scanEvent(r.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return e, nil
}

// buildConditions turns an EventFilter into a WHERE clause and its args.
// Placeholders are numbered starting at startN.
func buildConditions(f domain.EventFilter, startN int) (string, []any) {
	var conds []string
	var args []any
	n := startN
	if f.TitleQuery != "" {
		conds = append(conds, fmt.Sprintf("e.title ILIKE '%%' || $%d || '%%'", n))
		args = append(args, f.TitleQuery)
		n++
	}
	if f.CategoryID != "" {
		conds = append(conds, fmt.Sprintf("e.category_id = $%d", n))
		args = append(args, f.CategoryID)
		n++
	}
	if f.OrganizerID != "" {
		conds = append(conds, fmt.Sprintf("e.organizer_id = $%d", n))
		args = append(args, f.OrganizerID)
		n++
	}
	if f.ExcludeEventID != "" {
		conds = append(conds, fmt.Sprintf("e.id <> $%d", n))
		args = append(args, f.ExcludeEventID)
		n++
	}
	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

func (r *eventRepository) Search(ctx context.Context, f domain.EventFilter, p domain.PaginationParams) ([]*domain.Event, int, error) {
	where, args := buildConditions(f, 1)

	countQuery := `SELECT COUNT(*) FROM events e` + where
	var total int
	if err := r.DB.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count events: %w", err)
	}

	n := len(args) + 1
	query := `SELECT ` + eventColumns + eventJoins + where +
		fmt.Sprintf(" ORDER BY e.created_at DESC OFFSET $%d LIMIT $%d", n, n+1)
	args = append(args, p.Offset(), p.PageSize)

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("query events: %w", err)
	}
	defer rows.Close()

	events := make([]*domain.Event, 0)
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, 0, err
		}
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return events, total, nil
}

func (r *eventRepository) Update(ctx context.Context, e *domain.Event) (*domain.Event, error) {
	query := `
		UPDATE events
		SET title = $1, description = $2, location = $3, image_url = $4,
		    start_date_time = $5, end_date_time = $6, price = $7, is_free = $8,
		    url = $9, category_id = $10
		WHERE id = $11
	`
	result, err := r.DB.ExecContext(ctx, query,
		e.Title, e.Description, e.Location, e.ImageURL,
		e.StartDateTime, e.EndDateTime, e.Price, e.IsFree, e.URL,
		e.CategoryID, e.ID,
	)
	if err != nil {
		return nil, fmt.Errorf("update event: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return nil, domain.ErrNotFound
	}
	return r.GetByID(ctx, e.ID)
}

func (r *eventRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM events WHERE id = $1`
	result, err := r.DB.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete event: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// scanEvent scans one populated event row. Joined organizer and category
// columns are nullable; a dangling reference yields a nil summary.
func scanEvent(row rowScanner) (*domain.Event, error) {
	e := &domain.Event{}
	var orgID, orgFirst, orgLast sql.NullString
	var catID, catName sql.NullString
	err := row.Scan(
		&e.ID, &e.Title, &e.Description, &e.Location, &e.ImageURL,
		&e.StartDateTime, &e.EndDateTime, &e.Price, &e.IsFree, &e.URL,
		&e.CategoryID, &e.OrganizerID, &e.CreatedAt,
		&orgID, &orgFirst, &orgLast,
		&catID, &catName,
	)
	if err != nil {
		return nil, err
	}
	if orgID.Valid {
		e.Organizer = &domain.OrganizerSummary{
			ID:        orgID.String,
			FirstName: orgFirst.String,
			LastName:  orgLast.String,
		}
	}
	if catID.Valid {
		e.Category = &domain.CategorySummary{
			ID:   catID.String,
			Name: catName.String,
		}
	}
	return e, nil
}
