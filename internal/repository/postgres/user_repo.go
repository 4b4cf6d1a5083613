package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"evently/internal/domain"
)

type userRepository struct {
	DB *sql.DB
}

func NewUserRepository(db *sql.DB) domain.UserRepository {
	return &userRepository{DB: db}
}

const userColumns = `id, external_id, email, username, first_name, last_name, photo_url, created_at, updated_at`

func (r *userRepository) Create(ctx context.Context, u *domain.User) error {
	query := `
		INSERT INTO users (external_id, email, username, first_name, last_name, photo_url, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id
	`
	err := r.DB.QueryRowContext(ctx, query,
		u.ExternalID, u.Email, u.Username, u.FirstName, u.LastName, u.PhotoURL,
		u.CreatedAt, u.UpdatedAt,
	).Scan(&u.ID)
	if err != nil {
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return r.scanOne(r.DB.QueryRowContext(ctx, query, id))
}

func (r *userRepository) GetByExternalID(ctx context.Context, externalID string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE external_id = $1`
	return r.scanOne(r.DB.QueryRowContext(ctx, query, externalID))
}

func (r *userRepository) Update(ctx context.Context, u *domain.User) (*domain.User, error) {
	query := `
		UPDATE users
		SET email = $1, username = $2, first_name = $3, last_name = $4, photo_url = $5, updated_at = NOW()
		WHERE external_id = $6
		RETURNING ` + userColumns
	return r.scanOne(r.DB.QueryRowContext(ctx, query,
		u.Email, u.Username, u.FirstName, u.LastName, u.PhotoURL, u.ExternalID,
	))
}

func (r *userRepository) DeleteByExternalID(ctx context.Context, externalID string) error {
	query := `DELETE FROM users WHERE external_id = $1`
	result, err := r.DB.ExecContext(ctx, query, externalID)
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *userRepository) scanOne(row *sql.Row) (*domain.User, error) {
	u := &domain.User{}
	err := row.Scan(
		&u.ID, &u.ExternalID, &u.Email, &u.Username,
		&u.FirstName, &u.LastName, &u.PhotoURL,
		&u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return u, nil
}
