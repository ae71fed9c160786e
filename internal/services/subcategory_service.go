package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode"

	"go.uber.org/zap"

	"bookvault/internal/models"
	"bookvault/internal/repositories"
	"bookvault/internal/storage"
)

const (
	subCategoryFolder = "subcategories"

	defaultSearchLimit = 10
	maxSearchLimit     = 100
)

// SubCategoryService manages the sub-categories nested under categories.
type SubCategoryService struct {
	repo       repositories.SubCategoryRepository
	categories repositories.CategoryRepository
	store      storage.ObjectStore
	log        *zap.Logger
}

func NewSubCategoryService(
	repo repositories.SubCategoryRepository,
	categories repositories.CategoryRepository,
	store storage.ObjectStore,
	log *zap.Logger,
) *SubCategoryService {
	return &SubCategoryService{repo: repo, categories: categories, store: store, log: log}
}

// SubCategoryInput is used for create and partial update. Nil fields are left
// unchanged on update and default on create.
type SubCategoryInput struct {
	Name             *string
	Description      *string
	ParentCategoryID *string
	Status           *bool
	Featured         *bool
}

func (s *SubCategoryService) Create(ctx context.Context, actor *models.User, in SubCategoryInput, image *Upload) (*models.SubCategory, error) {
	if isBlank(in.Name) || isBlank(in.Description) || isBlank(in.ParentCategoryID) {
		return nil, Validation("Name, description and parentCategoryId are required")
	}
	sub := &models.SubCategory{
		Status:    true,
		CreatedBy: models.Creator{UserID: actor.ID, Role: actor.Role},
	}
	if err := s.apply(ctx, sub, in); err != nil {
		return nil, err
	}

	if image != nil {
		obj, err := uploadImage(ctx, s.store, subCategoryFolder, image)
		if err != nil {
			return nil, err
		}
		sub.Image, sub.ImageID = obj.URL, obj.PublicID
	}
	if err := s.repo.Create(ctx, sub); err != nil {
		destroyQuietly(ctx, s.store, s.log, sub.ImageID)
		if errors.Is(err, repositories.ErrDuplicateKey) {
			return nil, ErrSubCategoryExists
		}
		return nil, fmt.Errorf("failed to create sub-category: %w", err)
	}
	return sub, nil
}

// apply validates and copies the set fields of in onto sub. A new name also
// renews the slug.
func (s *SubCategoryService) apply(ctx context.Context, sub *models.SubCategory, in SubCategoryInput) error {
	if !isBlank(in.Name) {
		name := strings.TrimSpace(*in.Name)
		if !strings.EqualFold(name, sub.Name) {
			taken, err := s.repo.NameTaken(ctx, name, sub.ID)
			if err != nil {
				return err
			}
			if taken {
				return ErrSubCategoryExists
			}
		}
		slug := slugify(name)
		if slug == "" {
			return Validation("Name must contain letters or digits")
		}
		sub.Name, sub.Slug = name, slug
	}
	if !isBlank(in.ParentCategoryID) {
		parentID := strings.TrimSpace(*in.ParentCategoryID)
		if _, err := s.categories.GetByID(ctx, parentID); err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				return ErrNoParentCategory
			}
			return err
		}
		sub.ParentCategoryID = parentID
	}
	if in.Description != nil {
		sub.Description = strings.TrimSpace(*in.Description)
	}
	if in.Status != nil {
		sub.Status = *in.Status
	}
	if in.Featured != nil {
		sub.Featured = *in.Featured
	}
	return nil
}

// slugify lowercases name and joins its runs of letters and digits with dashes.
func slugify(name string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(name) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if dash && b.Len() > 0 {
				b.WriteByte('-')
			}
			b.WriteRune(r)
			dash = false
			continue
		}
		dash = true
	}
	return b.String()
}

// ListActive returns the sub-categories visible on the site.
func (s *SubCategoryService) ListActive(ctx context.Context) ([]models.SubCategory, error) {
	return s.repo.ListActive(ctx)
}

func (s *SubCategoryService) Get(ctx context.Context, id string) (*models.SubCategory, error) {
	sub, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrSubCategoryNotFound
		}
		return nil, err
	}
	return sub, nil
}

// SubCategoryQuery is a search request. Page starts at 1.
type SubCategoryQuery struct {
	Keyword          string
	ParentCategoryID string
	Status           *bool
	Featured         *bool
	Page             int
	Limit            int
}

// SubCategoryPage is one page of search results.
type SubCategoryPage struct {
	SubCategories []models.SubCategory
	Total         int64
	Page          int
	Limit         int
	TotalPages    int64
}

// Search matches the keyword against name and description. An empty keyword
// matches every sub-category the other filters allow.
func (s *SubCategoryService) Search(ctx context.Context, q SubCategoryQuery) (*SubCategoryPage, error) {
	if q.Page < 1 {
		q.Page = 1
	}
	switch {
	case q.Limit < 1:
		q.Limit = defaultSearchLimit
	case q.Limit > maxSearchLimit:
		q.Limit = maxSearchLimit
	}

	subs, total, err := s.repo.Search(ctx, repositories.SubCategoryFilter{
		Keyword:          strings.TrimSpace(q.Keyword),
		ParentCategoryID: strings.TrimSpace(q.ParentCategoryID),
		Status:           q.Status,
		Featured:         q.Featured,
		Offset:           (q.Page - 1) * q.Limit,
		Limit:            q.Limit,
	})
	if err != nil {
		return nil, err
	}
	limit := int64(q.Limit)
	return &SubCategoryPage{
		SubCategories: subs,
		Total:         total,
		Page:          q.Page,
		Limit:         q.Limit,
		TotalPages:    (total + limit - 1) / limit,
	}, nil
}

func (s *SubCategoryService) ListDeleted(ctx context.Context) ([]models.SubCategory, error) {
	return s.repo.ListDeleted(ctx)
}

// Update applies in and replaces the image if one is sent. The old image is
// destroyed once the sub-category is saved.
func (s *SubCategoryService) Update(ctx context.Context, id string, in SubCategoryInput, image *Upload) (*models.SubCategory, error) {
	sub, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.apply(ctx, sub, in); err != nil {
		return nil, err
	}

	oldImage := sub.ImageID
	if image != nil {
		obj, err := uploadImage(ctx, s.store, subCategoryFolder, image)
		if err != nil {
			return nil, err
		}
		sub.Image, sub.ImageID = obj.URL, obj.PublicID
	}
	if err := s.repo.Update(ctx, sub); err != nil {
		if image != nil {
			destroyQuietly(ctx, s.store, s.log, sub.ImageID)
		}
		if errors.Is(err, repositories.ErrDuplicateKey) {
			return nil, ErrSubCategoryExists
		}
		return nil, fmt.Errorf("failed to update sub-category: %w", err)
	}
	if image != nil {
		destroyQuietly(ctx, s.store, s.log, oldImage)
	}
	return sub, nil
}

func (s *SubCategoryService) SetStatus(ctx context.Context, id string, status bool) (*models.SubCategory, error) {
	return s.Update(ctx, id, SubCategoryInput{Status: &status}, nil)
}

func (s *SubCategoryService) SetFeatured(ctx context.Context, id string, featured bool) (*models.SubCategory, error) {
	return s.Update(ctx, id, SubCategoryInput{Featured: &featured}, nil)
}

func (s *SubCategoryService) getUnscoped(ctx context.Context, id string) (*models.SubCategory, error) {
	sub, err := s.repo.GetByIDUnscoped(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrSubCategoryNotFound
		}
		return nil, err
	}
	return sub, nil
}

func (s *SubCategoryService) SoftDelete(ctx context.Context, id string) error {
	sub, err := s.getUnscoped(ctx, id)
	if err != nil {
		return err
	}
	if sub.DeletedAt.Valid {
		return Invalid("Sub-category already deleted")
	}
	return s.repo.SoftDelete(ctx, id)
}

func (s *SubCategoryService) Restore(ctx context.Context, id string) error {
	sub, err := s.getUnscoped(ctx, id)
	if err != nil {
		return err
	}
	if !sub.DeletedAt.Valid {
		return Invalid("Sub-category is not deleted")
	}
	return s.repo.Restore(ctx, id)
}

// Delete permanently removes a sub-category, deleted or not, and its image.
// Books that referenced it keep their category and lose the sub-category.
func (s *SubCategoryService) Delete(ctx context.Context, id string) error {
	sub, err := s.getUnscoped(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrSubCategoryNotFound
		}
		return fmt.Errorf("failed to delete sub-category: %w", err)
	}
	destroyQuietly(ctx, s.store, s.log, sub.ImageID)
	return nil
}

// DeleteMany permanently removes the given sub-categories with their images
// and reports how many existed.
func (s *SubCategoryService) DeleteMany(ctx context.Context, ids []string) (int64, error) {
	if len(ids) == 0 {
		return 0, ErrIDsRequired
	}
	subs, err := s.repo.ListByIDsUnscoped(ctx, ids)
	if err != nil {
		return 0, err
	}
	n, err := s.repo.DeleteMany(ctx, ids)
	if err != nil {
		return 0, err
	}
	for _, sub := range subs {
		destroyQuietly(ctx, s.store, s.log, sub.ImageID)
	}
	s.log.Info("sub-categories deleted", zap.Int64("count", n))
	return n, nil
}
