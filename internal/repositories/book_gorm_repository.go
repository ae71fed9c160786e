package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"bookvault/internal/models"
)

// GORMBookRepository is a GORM implementation of BookRepository.
type GORMBookRepository struct {
	db *gorm.DB
}

// NewGORMBookRepository creates a new instance of GORMBookRepository.
func NewGORMBookRepository(db *gorm.DB) *GORMBookRepository {
	return &GORMBookRepository{db: db}
}

func (r *GORMBookRepository) Create(ctx context.Context, book *models.Book) error {
	if book.ID == "" {
		book.ID = uuid.New().String()
	}
	return translate(r.db.WithContext(ctx).Create(book).Error, "create book")
}

func (r *GORMBookRepository) Update(ctx context.Context, book *models.Book) error {
	return translate(r.db.WithContext(ctx).Save(book).Error, "update book "+book.ID)
}

func (r *GORMBookRepository) GetByID(ctx context.Context, id string) (*models.Book, error) {
	var book models.Book
	if err := r.db.WithContext(ctx).First(&book, "id = ?", id).Error; err != nil {
		return nil, translate(err, "get book "+id)
	}
	return &book, nil
}

func (r *GORMBookRepository) GetByIDUnscoped(ctx context.Context, id string) (*models.Book, error) {
	var book models.Book
	if err := r.db.WithContext(ctx).Unscoped().First(&book, "id = ?", id).Error; err != nil {
		return nil, translate(err, "get book "+id)
	}
	return &book, nil
}

func (r *GORMBookRepository) GetByIDs(ctx context.Context, ids []string) ([]models.Book, error) {
	var books []models.Book
	if len(ids) == 0 {
		return books, nil
	}
	err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&books).Error
	return books, translate(err, "get books by ids")
}

func (r *GORMBookRepository) List(ctx context.Context) ([]models.Book, error) {
	var books []models.Book
	err := r.db.WithContext(ctx).Order("created_at DESC").Find(&books).Error
	return books, translate(err, "list books")
}

func (r *GORMBookRepository) ListByCategory(ctx context.Context, categoryID string) ([]models.Book, error) {
	var books []models.Book
	err := r.db.WithContext(ctx).Where("category_id = ?", categoryID).Order("created_at DESC").Find(&books).Error
	return books, translate(err, "list books by category")
}

func (r *GORMBookRepository) ListBySubCategory(ctx context.Context, subCategoryID string) ([]models.Book, error) {
	var books []models.Book
	err := r.db.WithContext(ctx).Where("sub_category_id = ? AND status = ?", subCategoryID, true).Order("created_at DESC").Find(&books).Error
	return books, translate(err, "list books by sub-category")
}

func (r *GORMBookRepository) ListDeleted(ctx context.Context) ([]models.Book, error) {
	var books []models.Book
	err := r.db.WithContext(ctx).Unscoped().Where("deleted_at IS NOT NULL").Order("deleted_at DESC").Find(&books).Error
	return books, translate(err, "list deleted books")
}

func (r *GORMBookRepository) Search(ctx context.Context, keyword string, access models.AccessType) ([]models.Book, error) {
	var books []models.Book
	q := r.db.WithContext(ctx)
	if keyword != "" {
		p := likePattern(keyword)
		q = q.Where("LOWER(name) LIKE ? OR LOWER(author) LIKE ? OR LOWER(description) LIKE ?", p, p, p)
	}
	if access != "" {
		q = q.Where("access_type = ?", access)
	}
	err := q.Order("created_at DESC").Find(&books).Error
	return books, translate(err, "search books")
}

func (r *GORMBookRepository) SoftDelete(ctx context.Context, id string) error {
	return softDelete(ctx, r.db, &models.Book{}, id, "soft delete book")
}

func (r *GORMBookRepository) Restore(ctx context.Context, id string) error {
	return restore(ctx, r.db, &models.Book{}, id, "restore book")
}

func (r *GORMBookRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		episodeIDs := tx.Model(&models.Episode{}).Select("id").Where("book_id = ?", id)
		if err := tx.Where("episode_id IN (?)", episodeIDs).Delete(&models.EpisodeLike{}).Error; err != nil {
			return translate(err, "delete episode likes of book "+id)
		}
		if err := tx.Where("book_id = ?", id).Delete(&models.Episode{}).Error; err != nil {
			return translate(err, "delete episodes of book "+id)
		}
		if err := tx.Where("book_id = ?", id).Delete(&models.BookLike{}).Error; err != nil {
			return translate(err, "delete likes of book "+id)
		}
		if err := tx.Where("book_id = ?", id).Delete(&models.BookBookmark{}).Error; err != nil {
			return translate(err, "delete bookmarks of book "+id)
		}
		return hardDelete(ctx, tx, &models.Book{}, id, "delete book")
	})
}

func (r *GORMBookRepository) ToggleLike(ctx context.Context, bookID, userID string) (bool, int64, error) {
	var (
		liked bool
		count int64
	)
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		liked, err = toggleRow(tx, &models.BookLike{BookID: bookID, UserID: userID}, "book_id = ? AND user_id = ?", bookID, userID)
		if err != nil {
			return err
		}
		return tx.Model(&models.BookLike{}).Where("book_id = ?", bookID).Count(&count).Error
	})
	if err != nil {
		return false, 0, translate(err, "toggle book like")
	}
	return liked, count, nil
}

func (r *GORMBookRepository) ToggleBookmark(ctx context.Context, bookID, userID string) (bool, error) {
	var bookmarked bool
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		bookmarked, err = toggleRow(tx, &models.BookBookmark{BookID: bookID, UserID: userID}, "book_id = ? AND user_id = ?", bookID, userID)
		return err
	})
	if err != nil {
		return false, translate(err, "toggle book bookmark")
	}
	return bookmarked, nil
}

func (r *GORMBookRepository) ListBookmarked(ctx context.Context, userID string) ([]models.Book, error) {
	var books []models.Book
	bookIDs := r.db.Model(&models.BookBookmark{}).Select("book_id").Where("user_id = ?", userID)
	err := r.db.WithContext(ctx).Where("id IN (?)", bookIDs).Order("created_at DESC").Find(&books).Error
	return books, translate(err, "list bookmarked books")
}

// toggleRow deletes the row matching query or, when none exists, inserts row.
// It reports whether the row exists afterwards.
func toggleRow(tx *gorm.DB, row any, query string, args ...any) (bool, error) {
	res := tx.Where(query, args...).Delete(row)
	if res.Error != nil {
		return false, res.Error
	}
	if res.RowsAffected > 0 {
		return false, nil
	}
	if err := tx.Create(row).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return false, fmt.Errorf("concurrent toggle: %w", err)
		}
		return false, err
	}
	return true, nil
}
