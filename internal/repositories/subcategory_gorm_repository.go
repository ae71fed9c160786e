package repositories

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"bookvault/internal/models"
)

// GORMSubCategoryRepository is a GORM implementation of SubCategoryRepository.
type GORMSubCategoryRepository struct {
	db *gorm.DB
}

func NewGORMSubCategoryRepository(db *gorm.DB) *GORMSubCategoryRepository {
	return &GORMSubCategoryRepository{db: db}
}

func (r *GORMSubCategoryRepository) Create(ctx context.Context, sub *models.SubCategory) error {
	if sub.ID == "" {
		sub.ID = uuid.New().String()
	}
	return translate(r.db.WithContext(ctx).Create(sub).Error, "create sub-category")
}

func (r *GORMSubCategoryRepository) Update(ctx context.Context, sub *models.SubCategory) error {
	return translate(r.db.WithContext(ctx).Save(sub).Error, "update sub-category "+sub.ID)
}

func (r *GORMSubCategoryRepository) GetByID(ctx context.Context, id string) (*models.SubCategory, error) {
	var sub models.SubCategory
	if err := r.db.WithContext(ctx).First(&sub, "id = ?", id).Error; err != nil {
		return nil, translate(err, "get sub-category "+id)
	}
	return &sub, nil
}

func (r *GORMSubCategoryRepository) GetByIDUnscoped(ctx context.Context, id string) (*models.SubCategory, error) {
	var sub models.SubCategory
	if err := r.db.WithContext(ctx).Unscoped().First(&sub, "id = ?", id).Error; err != nil {
		return nil, translate(err, "get sub-category "+id)
	}
	return &sub, nil
}

func (r *GORMSubCategoryRepository) ListByIDsUnscoped(ctx context.Context, ids []string) ([]models.SubCategory, error) {
	var subs []models.SubCategory
	err := r.db.WithContext(ctx).Unscoped().Where("id IN ?", ids).Find(&subs).Error
	return subs, translate(err, "list sub-categories by id")
}

func (r *GORMSubCategoryRepository) NameTaken(ctx context.Context, name, exceptID string) (bool, error) {
	var count int64
	q := r.db.WithContext(ctx).Unscoped().Model(&models.SubCategory{}).Where("LOWER(name) = LOWER(?)", name)
	if exceptID != "" {
		q = q.Where("id <> ?", exceptID)
	}
	if err := q.Count(&count).Error; err != nil {
		return false, translate(err, "check sub-category name")
	}
	return count > 0, nil
}

func (r *GORMSubCategoryRepository) ListActive(ctx context.Context) ([]models.SubCategory, error) {
	var subs []models.SubCategory
	err := r.db.WithContext(ctx).Where("status = ?", true).Order("created_at DESC").Find(&subs).Error
	return subs, translate(err, "list sub-categories")
}

func (r *GORMSubCategoryRepository) ListDeleted(ctx context.Context) ([]models.SubCategory, error) {
	var subs []models.SubCategory
	err := r.db.WithContext(ctx).Unscoped().Where("deleted_at IS NOT NULL").Order("deleted_at DESC").Find(&subs).Error
	return subs, translate(err, "list deleted sub-categories")
}

func (r *GORMSubCategoryRepository) Search(ctx context.Context, f SubCategoryFilter) ([]models.SubCategory, int64, error) {
	matching := func() *gorm.DB {
		q := r.db.WithContext(ctx).Model(&models.SubCategory{})
		if f.Keyword != "" {
			p := likePattern(f.Keyword)
			q = q.Where("LOWER(name) LIKE ? OR LOWER(description) LIKE ?", p, p)
		}
		if f.ParentCategoryID != "" {
			q = q.Where("parent_category_id = ?", f.ParentCategoryID)
		}
		if f.Status != nil {
			q = q.Where("status = ?", *f.Status)
		}
		if f.Featured != nil {
			q = q.Where("featured = ?", *f.Featured)
		}
		return q
	}

	var total int64
	if err := matching().Count(&total).Error; err != nil {
		return nil, 0, translate(err, "count sub-categories")
	}
	var subs []models.SubCategory
	page := matching().Order("created_at DESC").Offset(f.Offset)
	if f.Limit > 0 {
		page = page.Limit(f.Limit)
	}
	if err := page.Find(&subs).Error; err != nil {
		return nil, 0, translate(err, "search sub-categories")
	}
	return subs, total, nil
}

func (r *GORMSubCategoryRepository) SoftDelete(ctx context.Context, id string) error {
	return softDelete(ctx, r.db, &models.SubCategory{}, id, "soft delete sub-category")
}

func (r *GORMSubCategoryRepository) Restore(ctx context.Context, id string) error {
	return restore(ctx, r.db, &models.SubCategory{}, id, "restore sub-category")
}

func (r *GORMSubCategoryRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := detachBooks(tx, []string{id}); err != nil {
			return err
		}
		return hardDelete(ctx, tx, &models.SubCategory{}, id, "delete sub-category")
	})
}

func (r *GORMSubCategoryRepository) DeleteMany(ctx context.Context, ids []string) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := detachBooks(tx, ids); err != nil {
			return err
		}
		res := tx.Unscoped().Delete(&models.SubCategory{}, "id IN ?", ids)
		n = res.RowsAffected
		return translate(res.Error, "delete sub-categories")
	})
	return n, err
}

// detachBooks clears the sub-category of every book, deleted or not, that points at ids.
func detachBooks(tx *gorm.DB, ids []string) error {
	err := tx.Unscoped().Model(&models.Book{}).
		Where("sub_category_id IN ?", ids).
		Update("sub_category_id", "").Error
	return translate(err, "detach books from sub-categories")
}
