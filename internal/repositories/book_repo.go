package repositories

import (
	"context"

	"bookvault/internal/models"
)

// BookRepository defines the interface for book data access, including the
// per-user like and bookmark rows.
type BookRepository interface {
	Create(ctx context.Context, book *models.Book) error
	Update(ctx context.Context, book *models.Book) error
	GetByID(ctx context.Context, id string) (*models.Book, error)
	GetByIDUnscoped(ctx context.Context, id string) (*models.Book, error)
	GetByIDs(ctx context.Context, ids []string) ([]models.Book, error)
	List(ctx context.Context) ([]models.Book, error)
	ListByCategory(ctx context.Context, categoryID string) ([]models.Book, error)
	// ListBySubCategory returns the visible books of a sub-category.
	ListBySubCategory(ctx context.Context, subCategoryID string) ([]models.Book, error)
	ListDeleted(ctx context.Context) ([]models.Book, error)
	// Search matches keyword against name, author and description. An empty
	// access type matches every book.
	Search(ctx context.Context, keyword string, access models.AccessType) ([]models.Book, error)
	SoftDelete(ctx context.Context, id string) error
	Restore(ctx context.Context, id string) error
	// Delete removes the book together with its episodes, likes and bookmarks.
	Delete(ctx context.Context, id string) error

	ToggleLike(ctx context.Context, bookID, userID string) (liked bool, count int64, err error)
	ToggleBookmark(ctx context.Context, bookID, userID string) (bookmarked bool, err error)
	ListBookmarked(ctx context.Context, userID string) ([]models.Book, error)
}
