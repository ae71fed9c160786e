package repositories

import (
	"context"

	"bookvault/internal/models"
)

// CategoryRepository defines the interface for category data access.
// GetByID and the list operations skip soft-deleted rows unless stated.
type CategoryRepository interface {
	Create(ctx context.Context, category *models.Category) error
	Update(ctx context.Context, category *models.Category) error
	GetByID(ctx context.Context, id string) (*models.Category, error)
	// GetByIDUnscoped includes soft-deleted rows.
	GetByIDUnscoped(ctx context.Context, id string) (*models.Category, error)
	// NameTaken reports whether another category, deleted or not, uses name.
	NameTaken(ctx context.Context, name, exceptID string) (bool, error)
	ListActive(ctx context.Context) ([]models.Category, error)
	ListDeleted(ctx context.Context) ([]models.Category, error)
	Search(ctx context.Context, keyword string) ([]models.Category, error)
	SoftDelete(ctx context.Context, id string) error
	Restore(ctx context.Context, id string) error
	Delete(ctx context.Context, id string) error
	DeleteMany(ctx context.Context, ids []string) (int64, error)
}
