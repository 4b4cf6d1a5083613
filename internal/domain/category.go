package domain

import (
	"context"
	"time"
)

// Category groups events. Names are unique; lookup is case-insensitive.
// swagger:model Category
type Category struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// CategoryRepository defines the interface for category storage.
type CategoryRepository interface {
	Create(ctx context.Context, category *Category) error
	GetByID(ctx context.Context, id string) (*Category, error)
	// FindByName returns at most one category whose name contains the given
	// string, case-insensitively, or ErrNotFound if none matches. When
	// several match, which one is returned is up to the store's ordering.
	FindByName(ctx context.Context, name string) (*Category, error)
	List(ctx context.Context) ([]*Category, error)
}

// CategoryService defines the business logic for categories.
type CategoryService interface {
	Create(ctx context.Context, name string) (*Category, error)
	GetByID(ctx context.Context, id string) (*Category, error)
	List(ctx context.Context) ([]*Category, error)
}
