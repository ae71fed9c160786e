package repositories

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"bookvault/internal/models"
)

// GORMCategoryRepository is a GORM implementation of CategoryRepository.
type GORMCategoryRepository struct {
	db *gorm.DB
}

// NewGORMCategoryRepository creates a new instance of GORMCategoryRepository.
func NewGORMCategoryRepository(db *gorm.DB) *GORMCategoryRepository {
	return &GORMCategoryRepository{db: db}
}

func (r *GORMCategoryRepository) Create(ctx context.Context, category *models.Category) error {
	if category.ID == "" {
		category.ID = uuid.New().String()
	}
	return translate(r.db.WithContext(ctx).Create(category).Error, "create category")
}

func (r *GORMCategoryRepository) Update(ctx context.Context, category *models.Category) error {
	return translate(r.db.WithContext(ctx).Save(category).Error, "update category "+category.ID)
}

func (r *GORMCategoryRepository) GetByID(ctx context.Context, id string) (*models.Category, error) {
	var category models.Category
	if err := r.db.WithContext(ctx).First(&category, "id = ?", id).Error; err != nil {
		return nil, translate(err, "get category "+id)
	}
	return &category, nil
}

func (r *GORMCategoryRepository) GetByIDUnscoped(ctx context.Context, id string) (*models.Category, error) {
	var category models.Category
	if err := r.db.WithContext(ctx).Unscoped().First(&category, "id = ?", id).Error; err != nil {
		return nil, translate(err, "get category "+id)
	}
	return &category, nil
}

func (r *GORMCategoryRepository) NameTaken(ctx context.Context, name, exceptID string) (bool, error) {
	var count int64
	q := r.db.WithContext(ctx).Unscoped().Model(&models.Category{}).Where("LOWER(name) = LOWER(?)", name)
	if exceptID != "" {
		q = q.Where("id <> ?", exceptID)
	}
	if err := q.Count(&count).Error; err != nil {
		return false, translate(err, "check category name")
	}
	return count > 0, nil
}

// ListActive returns visible categories, newest first.
func (r *GORMCategoryRepository) ListActive(ctx context.Context) ([]models.Category, error) {
	var categories []models.Category
	err := r.db.WithContext(ctx).Where("status = ?", true).Order("created_at DESC").Find(&categories).Error
	return categories, translate(err, "list categories")
}

func (r *GORMCategoryRepository) ListDeleted(ctx context.Context) ([]models.Category, error) {
	var categories []models.Category
	err := r.db.WithContext(ctx).Unscoped().Where("deleted_at IS NOT NULL").Order("deleted_at DESC").Find(&categories).Error
	return categories, translate(err, "list deleted categories")
}

func (r *GORMCategoryRepository) Search(ctx context.Context, keyword string) ([]models.Category, error) {
	var categories []models.Category
	p := likePattern(keyword)
	err := r.db.WithContext(ctx).
		Where("LOWER(name) LIKE ? OR LOWER(description) LIKE ?", p, p).
		Order("created_at DESC").Find(&categories).Error
	return categories, translate(err, "search categories")
}

func (r *GORMCategoryRepository) SoftDelete(ctx context.Context, id string) error {
	return softDelete(ctx, r.db, &models.Category{}, id, "soft delete category")
}

func (r *GORMCategoryRepository) Restore(ctx context.Context, id string) error {
	return restore(ctx, r.db, &models.Category{}, id, "restore category")
}

func (r *GORMCategoryRepository) Delete(ctx context.Context, id string) error {
	return hardDelete(ctx, r.db, &models.Category{}, id, "delete category")
}

func (r *GORMCategoryRepository) DeleteMany(ctx context.Context, ids []string) (int64, error) {
	res := r.db.WithContext(ctx).Unscoped().Delete(&models.Category{}, "id IN ?", ids)
	return res.RowsAffected, translate(res.Error, "delete categories")
}
