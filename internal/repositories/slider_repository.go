package repositories

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"bookvault/internal/models"
)

// SliderRepository defines the interface for homepage slider data access.
type SliderRepository interface {
	Create(ctx context.Context, slider *models.Slider) error
	GetByIDUnscoped(ctx context.Context, id string) (*models.Slider, error)
	ListActive(ctx context.Context) ([]models.Slider, error)
	ListDeleted(ctx context.Context) ([]models.Slider, error)
	Search(ctx context.Context, keyword string) ([]models.Slider, error)
	SoftDelete(ctx context.Context, id string) error
	Restore(ctx context.Context, id string) error
	Delete(ctx context.Context, id string) error
}

// GORMSliderRepository is a GORM implementation of SliderRepository.
type GORMSliderRepository struct {
	db *gorm.DB
}

// NewGORMSliderRepository creates a new instance of GORMSliderRepository.
func NewGORMSliderRepository(db *gorm.DB) *GORMSliderRepository {
	return &GORMSliderRepository{db: db}
}

func (r *GORMSliderRepository) Create(ctx context.Context, slider *models.Slider) error {
	if slider.ID == "" {
		slider.ID = uuid.New().String()
	}
	return translate(r.db.WithContext(ctx).Create(slider).Error, "create slider")
}

func (r *GORMSliderRepository) GetByIDUnscoped(ctx context.Context, id string) (*models.Slider, error) {
	var slider models.Slider
	if err := r.db.WithContext(ctx).Unscoped().First(&slider, "id = ?", id).Error; err != nil {
		return nil, translate(err, "get slider "+id)
	}
	return &slider, nil
}

// ListActive returns visible sliders in display order.
func (r *GORMSliderRepository) ListActive(ctx context.Context) ([]models.Slider, error) {
	var sliders []models.Slider
	err := r.db.WithContext(ctx).Where("status = ?", true).
		Order("sort_order ASC").Order("created_at DESC").Find(&sliders).Error
	return sliders, translate(err, "list sliders")
}

func (r *GORMSliderRepository) ListDeleted(ctx context.Context) ([]models.Slider, error) {
	var sliders []models.Slider
	err := r.db.WithContext(ctx).Unscoped().Where("deleted_at IS NOT NULL").Order("deleted_at DESC").Find(&sliders).Error
	return sliders, translate(err, "list deleted sliders")
}

func (r *GORMSliderRepository) Search(ctx context.Context, keyword string) ([]models.Slider, error) {
	var sliders []models.Slider
	p := likePattern(keyword)
	err := r.db.WithContext(ctx).
		Where("LOWER(title) LIKE ? OR LOWER(subtitle) LIKE ? OR LOWER(description) LIKE ?", p, p, p).
		Order("sort_order ASC").Find(&sliders).Error
	return sliders, translate(err, "search sliders")
}

func (r *GORMSliderRepository) SoftDelete(ctx context.Context, id string) error {
	return softDelete(ctx, r.db, &models.Slider{}, id, "soft delete slider")
}

func (r *GORMSliderRepository) Restore(ctx context.Context, id string) error {
	return restore(ctx, r.db, &models.Slider{}, id, "restore slider")
}

func (r *GORMSliderRepository) Delete(ctx context.Context, id string) error {
	return hardDelete(ctx, r.db, &models.Slider{}, id, "delete slider")
}
