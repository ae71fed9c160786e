package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"bookvault/internal/models"
	"bookvault/internal/repositories"
)

// CategoryService manages book categories.
type CategoryService struct {
	repo repositories.CategoryRepository
	log  *zap.Logger
}

func NewCategoryService(repo repositories.CategoryRepository, log *zap.Logger) *CategoryService {
	return &CategoryService{repo: repo, log: log}
}

// CategoryInput is used for create and partial update. Nil fields are left
// unchanged on update and default on create.
type CategoryInput struct {
	Name        *string
	Description *string
	Status      *bool
	Featured    *bool
}

func (s *CategoryService) Create(ctx context.Context, actor *models.User, in CategoryInput) (*models.Category, error) {
	if in.Name == nil || strings.TrimSpace(*in.Name) == "" {
		return nil, Validation("Name is required")
	}
	name := strings.TrimSpace(*in.Name)
	if err := s.ensureNameFree(ctx, name, ""); err != nil {
		return nil, err
	}

	category := &models.Category{
		Name:      name,
		Status:    true,
		CreatedBy: models.Creator{UserID: actor.ID, Role: actor.Role},
	}
	applyCategoryInput(category, in)
	if err := s.repo.Create(ctx, category); err != nil {
		if errors.Is(err, repositories.ErrDuplicateKey) {
			return nil, ErrCategoryExists
		}
		return nil, fmt.Errorf("failed to create category: %w", err)
	}
	return category, nil
}

func (s *CategoryService) ensureNameFree(ctx context.Context, name, exceptID string) error {
	taken, err := s.repo.NameTaken(ctx, name, exceptID)
	if err != nil {
		return err
	}
	if taken {
		return ErrCategoryExists
	}
	return nil
}

func applyCategoryInput(c *models.Category, in CategoryInput) {
	if in.Name != nil && strings.TrimSpace(*in.Name) != "" {
		c.Name = strings.TrimSpace(*in.Name)
	}
	if in.Description != nil {
		c.Description = strings.TrimSpace(*in.Description)
	}
	if in.Status != nil {
		c.Status = *in.Status
	}
	if in.Featured != nil {
		c.Featured = *in.Featured
	}
}

// ListActive returns the categories visible on the site.
func (s *CategoryService) ListActive(ctx context.Context) ([]models.Category, error) {
	return s.repo.ListActive(ctx)
}

// GetActive returns a visible, non-deleted category.
func (s *CategoryService) GetActive(ctx context.Context, id string) (*models.Category, error) {
	category, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !category.Status {
		return nil, NotFound("Category not found or inactive")
	}
	return category, nil
}

func (s *CategoryService) get(ctx context.Context, id string) (*models.Category, error) {
	category, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, err
	}
	return category, nil
}

func (s *CategoryService) Search(ctx context.Context, keyword string) ([]models.Category, error) {
	if strings.TrimSpace(keyword) == "" {
		return nil, Validation("Please provide a search keyword")
	}
	return s.repo.Search(ctx, keyword)
}

func (s *CategoryService) ListDeleted(ctx context.Context) ([]models.Category, error) {
	return s.repo.ListDeleted(ctx)
}

func (s *CategoryService) Update(ctx context.Context, id string, in CategoryInput) (*models.Category, error) {
	category, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.Name != nil && strings.TrimSpace(*in.Name) != "" && !strings.EqualFold(strings.TrimSpace(*in.Name), category.Name) {
		if err := s.ensureNameFree(ctx, strings.TrimSpace(*in.Name), id); err != nil {
			return nil, err
		}
	}
	applyCategoryInput(category, in)
	if err := s.repo.Update(ctx, category); err != nil {
		if errors.Is(err, repositories.ErrDuplicateKey) {
			return nil, ErrCategoryExists
		}
		return nil, fmt.Errorf("failed to update category: %w", err)
	}
	return category, nil
}

func (s *CategoryService) SetStatus(ctx context.Context, id string, status bool) (*models.Category, error) {
	return s.Update(ctx, id, CategoryInput{Status: &status})
}

func (s *CategoryService) SetFeatured(ctx context.Context, id string, featured bool) (*models.Category, error) {
	return s.Update(ctx, id, CategoryInput{Featured: &featured})
}

func (s *CategoryService) SoftDelete(ctx context.Context, id string) error {
	category, err := s.getUnscoped(ctx, id)
	if err != nil {
		return err
	}
	if category.DeletedAt.Valid {
		return Invalid("Category already deleted")
	}
	return s.repo.SoftDelete(ctx, id)
}

func (s *CategoryService) Restore(ctx context.Context, id string) error {
	category, err := s.getUnscoped(ctx, id)
	if err != nil {
		return err
	}
	if !category.DeletedAt.Valid {
		return Invalid("Category is not deleted")
	}
	return s.repo.Restore(ctx, id)
}

func (s *CategoryService) getUnscoped(ctx context.Context, id string) (*models.Category, error) {
	category, err := s.repo.GetByIDUnscoped(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, err
	}
	return category, nil
}

// Delete permanently removes a category, deleted or not.
func (s *CategoryService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrCategoryNotFound
		}
		return err
	}
	return nil
}

// DeleteMany permanently removes the given categories and reports how many existed.
func (s *CategoryService) DeleteMany(ctx context.Context, ids []string) (int64, error) {
	if len(ids) == 0 {
		return 0, ErrIDsRequired
	}
	n, err := s.repo.DeleteMany(ctx, ids)
	if err != nil {
		return 0, err
	}
	s.log.Info("categories deleted", zap.Int64("count", n))
	return n, nil
}
