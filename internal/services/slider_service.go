package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"bookvault/internal/models"
	"bookvault/internal/repositories"
	"bookvault/internal/storage"
)

const sliderFolder = "sliders"

// SliderService manages homepage banners.
type SliderService struct {
	repo  repositories.SliderRepository
	store storage.ObjectStore
	log   *zap.Logger
}

func NewSliderService(repo repositories.SliderRepository, store storage.ObjectStore, log *zap.Logger) *SliderService {
	return &SliderService{repo: repo, store: store, log: log}
}

type SliderInput struct {
	Title       string
	Subtitle    string
	Description string
	Link        string
	Order       int
	Status      *bool
}

func (s *SliderService) Create(ctx context.Context, actor *models.User, in SliderInput, image *Upload) (*models.Slider, error) {
	if image == nil {
		return nil, Validation("Image file is required")
	}
	if strings.TrimSpace(in.Title) == "" {
		return nil, Validation("Title is required")
	}

	obj, err := uploadImage(ctx, s.store, sliderFolder, image)
	if err != nil {
		return nil, err
	}
	slider := &models.Slider{
		Title:       strings.TrimSpace(in.Title),
		Subtitle:    strings.TrimSpace(in.Subtitle),
		Description: strings.TrimSpace(in.Description),
		Link:        strings.TrimSpace(in.Link),
		ImageURL:    obj.URL,
		ImageID:     obj.PublicID,
		Order:       in.Order,
		Status:      true,
		CreatedBy:   models.Creator{UserID: actor.ID, Role: actor.Role},
	}
	if in.Status != nil {
		slider.Status = *in.Status
	}
	if err := s.repo.Create(ctx, slider); err != nil {
		destroyQuietly(ctx, s.store, s.log, obj.PublicID)
		return nil, fmt.Errorf("failed to create slider: %w", err)
	}
	return slider, nil
}

func (s *SliderService) ListActive(ctx context.Context) ([]models.Slider, error) {
	return s.repo.ListActive(ctx)
}

func (s *SliderService) ListDeleted(ctx context.Context) ([]models.Slider, error) {
	return s.repo.ListDeleted(ctx)
}

func (s *SliderService) Search(ctx context.Context, keyword string) ([]models.Slider, error) {
	if strings.TrimSpace(keyword) == "" {
		return nil, Validation("Please provide a search keyword")
	}
	return s.repo.Search(ctx, keyword)
}

func (s *SliderService) get(ctx context.Context, id string) (*models.Slider, error) {
	slider, err := s.repo.GetByIDUnscoped(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrSliderNotFound
		}
		return nil, err
	}
	return slider, nil
}

func (s *SliderService) SoftDelete(ctx context.Context, id string) error {
	slider, err := s.get(ctx, id)
	if err != nil {
		return err
	}
	if slider.DeletedAt.Valid {
		return Invalid("Slider already deleted")
	}
	return s.repo.SoftDelete(ctx, id)
}

func (s *SliderService) Restore(ctx context.Context, id string) error {
	slider, err := s.get(ctx, id)
	if err != nil {
		return err
	}
	if !slider.DeletedAt.Valid {
		return Invalid("Slider is not deleted")
	}
	return s.repo.Restore(ctx, id)
}

// Delete permanently removes the slider and then its image.
func (s *SliderService) Delete(ctx context.Context, id string) error {
	slider, err := s.get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete slider: %w", err)
	}
	destroyQuietly(ctx, s.store, s.log, slider.ImageID)
	return nil
}

func (s *SliderService) DeleteMany(ctx context.Context, ids []string) (int, error) {
	if len(ids) == 0 {
		return 0, ErrIDsRequired
	}
	deleted := 0
	for _, id := range ids {
		err := s.Delete(ctx, id)
		switch {
		case err == nil:
			deleted++
		case errors.Is(err, ErrSliderNotFound):
		default:
			return deleted, err
		}
	}
	return deleted, nil
}
