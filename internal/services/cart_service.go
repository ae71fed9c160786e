package services

import (
	"context"
	"errors"

	"bookvault/internal/models"
	"bookvault/internal/repositories"
)

// CartService manages the single cart each user owns.
type CartService struct {
	carts repositories.CartRepository
	books repositories.BookRepository
}

func NewCartService(carts repositories.CartRepository, books repositories.BookRepository) *CartService {
	return &CartService{carts: carts, books: books}
}

// Get returns the user's cart with the referenced books resolved. Lines whose
// book no longer exists keep a nil Book.
func (s *CartService) Get(ctx context.Context, userID string) (*models.Cart, error) {
	cart, err := s.carts.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(cart.Items) == 0 {
		return cart, nil
	}

	ids := make([]string, len(cart.Items))
	for i, item := range cart.Items {
		ids[i] = item.BookID
	}
	books, err := s.books.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]*models.Book, len(books))
	for i := range books {
		byID[books[i].ID] = &books[i]
	}
	for i := range cart.Items {
		cart.Items[i].Book = byID[cart.Items[i].BookID]
	}
	return cart, nil
}

// Add puts quantity copies of the book in the cart, merging with an existing
// line. A zero quantity means one.
func (s *CartService) Add(ctx context.Context, userID, bookID string, quantity int) (*models.Cart, error) {
	if bookID == "" {
		return nil, Validation("bookId is required")
	}
	if quantity == 0 {
		quantity = 1
	}
	if quantity < 1 {
		return nil, Validation("quantity must be at least 1")
	}
	if _, err := s.books.GetByID(ctx, bookID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrBookNotFound
		}
		return nil, err
	}

	cart, err := s.carts.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := s.carts.AddItem(ctx, cart.ID, bookID, quantity); err != nil {
		return nil, err
	}
	return s.Get(ctx, userID)
}

func (s *CartService) UpdateQuantity(ctx context.Context, userID, bookID string, quantity int) (*models.Cart, error) {
	if bookID == "" {
		return nil, Validation("bookId is required")
	}
	if quantity < 1 {
		return nil, Validation("quantity must be at least 1")
	}
	cart, err := s.carts.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := s.carts.SetItemQuantity(ctx, cart.ID, bookID, quantity); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrNotInCart
		}
		return nil, err
	}
	return s.Get(ctx, userID)
}

func (s *CartService) Remove(ctx context.Context, userID, bookID string) (*models.Cart, error) {
	cart, err := s.carts.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := s.carts.RemoveItem(ctx, cart.ID, bookID); err != nil {
		return nil, err
	}
	return s.Get(ctx, userID)
}

func (s *CartService) Clear(ctx context.Context, userID string) (*models.Cart, error) {
	cart, err := s.carts.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := s.carts.Clear(ctx, cart.ID); err != nil {
		return nil, err
	}
	cart.Items = []models.CartItem{}
	return cart, nil
}
