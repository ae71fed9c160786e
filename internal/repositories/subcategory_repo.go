package repositories

import (
	"context"

	"bookvault/internal/models"
)

// SubCategoryFilter narrows a sub-category search. Zero fields match everything.
type SubCategoryFilter struct {
	Keyword          string
	ParentCategoryID string
	Status           *bool
	Featured         *bool
	Offset           int
	Limit            int
}

// SubCategoryRepository defines the interface for sub-category data access.
// GetByID and the list operations skip soft-deleted rows unless stated.
type SubCategoryRepository interface {
	Create(ctx context.Context, sub *models.SubCategory) error
	Update(ctx context.Context, sub *models.SubCategory) error
	GetByID(ctx context.Context, id string) (*models.SubCategory, error)
	// GetByIDUnscoped includes soft-deleted rows.
	GetByIDUnscoped(ctx context.Context, id string) (*models.SubCategory, error)
	// ListByIDsUnscoped returns the rows among ids that exist, deleted or not.
	ListByIDsUnscoped(ctx context.Context, ids []string) ([]models.SubCategory, error)
	// NameTaken reports whether another sub-category, deleted or not, uses name.
	NameTaken(ctx context.Context, name, exceptID string) (bool, error)
	ListActive(ctx context.Context) ([]models.SubCategory, error)
	ListDeleted(ctx context.Context) ([]models.SubCategory, error)
	// Search returns one page of matches, newest first, and the total match count.
	Search(ctx context.Context, filter SubCategoryFilter) ([]models.SubCategory, int64, error)
	SoftDelete(ctx context.Context, id string) error
	Restore(ctx context.Context, id string) error
	// Delete and DeleteMany also detach the removed sub-categories from their books.
	Delete(ctx context.Context, id string) error
	DeleteMany(ctx context.Context, ids []string) (int64, error)
}
