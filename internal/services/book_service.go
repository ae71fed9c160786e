package services

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"

	"go.uber.org/zap"

	"bookvault/internal/models"
	"bookvault/internal/repositories"
	"bookvault/internal/storage"
)

const (
	coverFolder = "books/covers"
	pdfFolder   = "books/pdfs"
)

// BookService manages the catalog of books and per-user likes and bookmarks.
type BookService struct {
	books         repositories.BookRepository
	categories    repositories.CategoryRepository
	subCategories repositories.SubCategoryRepository
	episodes      repositories.EpisodeRepository
	store         storage.ObjectStore
	log           *zap.Logger
}

func NewBookService(
	books repositories.BookRepository,
	categories repositories.CategoryRepository,
	subCategories repositories.SubCategoryRepository,
	episodes repositories.EpisodeRepository,
	store storage.ObjectStore,
	log *zap.Logger,
) *BookService {
	return &BookService{
		books:         books,
		categories:    categories,
		subCategories: subCategories,
		episodes:      episodes,
		store:         store,
		log:           log,
	}
}

// BookInput is used for create and partial update. Nil fields are left
// unchanged on update. An empty SubCategoryID detaches the sub-category.
type BookInput struct {
	Name              *string
	Description       *string
	CategoryID        *string
	SubCategoryID     *string
	Author            *string
	Price             *float64
	MRP               *float64
	AccessType        *models.AccessType
	Featured          *bool
	Status            *bool
	AvailableForOrder *bool
}

// BookMedia are the optional files sent with a create or update.
type BookMedia struct {
	Cover *Upload
	PDF   *Upload
}

func (s *BookService) Create(ctx context.Context, actor *models.User, in BookInput, media BookMedia) (*models.Book, error) {
	if isBlank(in.Name) || isBlank(in.Author) || isBlank(in.CategoryID) || in.Price == nil {
		return nil, Validation("Name, author, categoryId and price are required")
	}

	book := &models.Book{
		AccessType:        models.AccessFree,
		Status:            true,
		AvailableForOrder: true,
		CreatedBy:         models.Creator{UserID: actor.ID, Role: actor.Role},
	}
	if err := s.apply(ctx, book, in); err != nil {
		return nil, err
	}

	uploaded, err := s.storeMedia(ctx, book, media)
	if err != nil {
		return nil, err
	}
	if err := s.books.Create(ctx, book); err != nil {
		destroyQuietly(ctx, s.store, s.log, uploaded...)
		return nil, fmt.Errorf("failed to create book: %w", err)
	}
	return book, nil
}

func isBlank(v *string) bool {
	return v == nil || strings.TrimSpace(*v) == ""
}

// apply validates and copies the set fields of in onto book.
func (s *BookService) apply(ctx context.Context, book *models.Book, in BookInput) error {
	if in.Price != nil && *in.Price < 0 {
		return Validation("Price must not be negative")
	}
	if in.MRP != nil && *in.MRP < 0 {
		return Validation("MRP must not be negative")
	}
	if in.AccessType != nil {
		switch *in.AccessType {
		case models.AccessFree, models.AccessPremium, models.AccessPaid:
		default:
			return Validation("accessType must be one of free, premium or paid")
		}
	}
	if !isBlank(in.CategoryID) {
		categoryID := strings.TrimSpace(*in.CategoryID)
		if _, err := s.categories.GetByID(ctx, categoryID); err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				return ErrCategoryNotFound
			}
			return err
		}
		book.CategoryID = categoryID
	}
	if in.SubCategoryID != nil {
		book.SubCategoryID = strings.TrimSpace(*in.SubCategoryID)
	}
	if (in.SubCategoryID != nil || in.CategoryID != nil) && book.SubCategoryID != "" {
		sub, err := s.subCategories.GetByID(ctx, book.SubCategoryID)
		if err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				return ErrSubCategoryNotFound
			}
			return err
		}
		if sub.ParentCategoryID != book.CategoryID {
			return ErrSubCategoryParent
		}
	}

	if !isBlank(in.Name) {
		book.Name = strings.TrimSpace(*in.Name)
	}
	if !isBlank(in.Author) {
		book.Author = strings.TrimSpace(*in.Author)
	}
	if in.Description != nil {
		book.Description = strings.TrimSpace(*in.Description)
	}
	if in.Price != nil {
		book.Price = *in.Price
	}
	if in.MRP != nil {
		book.MRP = *in.MRP
	}
	if in.AccessType != nil {
		book.AccessType = *in.AccessType
	}
	if in.Featured != nil {
		book.Featured = *in.Featured
	}
	if in.Status != nil {
		book.Status = *in.Status
	}
	if in.AvailableForOrder != nil {
		book.AvailableForOrder = *in.AvailableForOrder
	}
	return nil
}

// storeMedia uploads the given files and points book at them. It returns the
// public ids of the new objects so callers can clean up if saving fails.
func (s *BookService) storeMedia(ctx context.Context, book *models.Book, media BookMedia) ([]string, error) {
	var uploaded []string
	if media.Cover != nil {
		obj, err := uploadImage(ctx, s.store, coverFolder, media.Cover)
		if err != nil {
			return nil, err
		}
		book.CoverImage, book.CoverImageID = obj.URL, obj.PublicID
		uploaded = append(uploaded, obj.PublicID)
	}
	if media.PDF != nil {
		if !isPDF(media.PDF) {
			destroyQuietly(ctx, s.store, s.log, uploaded...)
			return nil, Validation("bookPdf must be a PDF document")
		}
		obj, err := uploadFile(ctx, s.store, pdfFolder, media.PDF)
		if err != nil {
			destroyQuietly(ctx, s.store, s.log, uploaded...)
			return nil, err
		}
		book.BookPDF, book.BookPDFID = obj.URL, obj.PublicID
		uploaded = append(uploaded, obj.PublicID)
	}
	return uploaded, nil
}

func isPDF(up *Upload) bool {
	return up.ContentType == "application/pdf" || strings.EqualFold(path.Ext(up.Filename), ".pdf")
}

// List returns every non-deleted book, newest first.
func (s *BookService) List(ctx context.Context) ([]models.Book, error) {
	return s.books.List(ctx)
}

func (s *BookService) Get(ctx context.Context, id string) (*models.Book, error) {
	book, err := s.books.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrBookNotFound
		}
		return nil, err
	}
	return book, nil
}

func (s *BookService) ByCategory(ctx context.Context, categoryID string) ([]models.Book, error) {
	return s.books.ListByCategory(ctx, categoryID)
}

// BySubCategory returns the visible books of a sub-category.
func (s *BookService) BySubCategory(ctx context.Context, subCategoryID string) ([]models.Book, error) {
	return s.books.ListBySubCategory(ctx, subCategoryID)
}

func (s *BookService) Search(ctx context.Context, keyword string, access models.AccessType) ([]models.Book, error) {
	if strings.TrimSpace(keyword) == "" && access == "" {
		return nil, Validation("Please provide a search keyword or accessType")
	}
	return s.books.Search(ctx, keyword, access)
}

func (s *BookService) ListDeleted(ctx context.Context) ([]models.Book, error) {
	return s.books.ListDeleted(ctx)
}

// Update applies in and replaces any media sent along. Replaced objects are
// destroyed once the book is saved.
func (s *BookService) Update(ctx context.Context, id string, in BookInput, media BookMedia) (*models.Book, error) {
	book, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.apply(ctx, book, in); err != nil {
		return nil, err
	}

	oldCover, oldPDF := book.CoverImageID, book.BookPDFID
	uploaded, err := s.storeMedia(ctx, book, media)
	if err != nil {
		return nil, err
	}
	if err := s.books.Update(ctx, book); err != nil {
		destroyQuietly(ctx, s.store, s.log, uploaded...)
		return nil, fmt.Errorf("failed to update book: %w", err)
	}
	if media.Cover != nil {
		destroyQuietly(ctx, s.store, s.log, oldCover)
	}
	if media.PDF != nil {
		destroyQuietly(ctx, s.store, s.log, oldPDF)
	}
	return book, nil
}

func (s *BookService) SetStatus(ctx context.Context, id string, status bool) (*models.Book, error) {
	return s.Update(ctx, id, BookInput{Status: &status}, BookMedia{})
}

func (s *BookService) SetFeatured(ctx context.Context, id string, featured bool) (*models.Book, error) {
	return s.Update(ctx, id, BookInput{Featured: &featured}, BookMedia{})
}

func (s *BookService) getUnscoped(ctx context.Context, id string) (*models.Book, error) {
	book, err := s.books.GetByIDUnscoped(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrBookNotFound
		}
		return nil, err
	}
	return book, nil
}

func (s *BookService) SoftDelete(ctx context.Context, id string) error {
	book, err := s.getUnscoped(ctx, id)
	if err != nil {
		return err
	}
	if book.DeletedAt.Valid {
		return Invalid("Book already deleted")
	}
	return s.books.SoftDelete(ctx, id)
}

func (s *BookService) Restore(ctx context.Context, id string) error {
	book, err := s.getUnscoped(ctx, id)
	if err != nil {
		return err
	}
	if !book.DeletedAt.Valid {
		return Invalid("Book is not deleted")
	}
	return s.books.Restore(ctx, id)
}

// Delete permanently removes a book with its episodes, then its stored media.
func (s *BookService) Delete(ctx context.Context, id string) error {
	book, err := s.getUnscoped(ctx, id)
	if err != nil {
		return err
	}
	episodes, err := s.episodes.ListByBook(ctx, id)
	if err != nil {
		return err
	}
	if err := s.books.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete book: %w", err)
	}

	media := []string{book.CoverImageID, book.BookPDFID}
	for _, e := range episodes {
		media = append(media, e.AudioID)
	}
	destroyQuietly(ctx, s.store, s.log, media...)
	return nil
}

// DeleteMany permanently removes the given books, skipping unknown ids, and
// reports how many were removed.
func (s *BookService) DeleteMany(ctx context.Context, ids []string) (int, error) {
	if len(ids) == 0 {
		return 0, ErrIDsRequired
	}
	deleted := 0
	for _, id := range ids {
		err := s.Delete(ctx, id)
		switch {
		case err == nil:
			deleted++
		case errors.Is(err, ErrBookNotFound):
		default:
			return deleted, err
		}
	}
	return deleted, nil
}

// ToggleLike flips the user's like on the book and returns the new state and count.
func (s *BookService) ToggleLike(ctx context.Context, bookID, userID string) (bool, int64, error) {
	if _, err := s.Get(ctx, bookID); err != nil {
		return false, 0, err
	}
	return s.books.ToggleLike(ctx, bookID, userID)
}

func (s *BookService) ToggleBookmark(ctx context.Context, bookID, userID string) (bool, error) {
	if _, err := s.Get(ctx, bookID); err != nil {
		return false, err
	}
	return s.books.ToggleBookmark(ctx, bookID, userID)
}

func (s *BookService) Bookmarks(ctx context.Context, userID string) ([]models.Book, error) {
	return s.books.ListBookmarked(ctx, userID)
}
