package repositories

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"bookvault/internal/models"
)

// CartRepository defines the interface for cart data access.
type CartRepository interface {
	// GetOrCreate returns the user's cart with its items, creating an empty
	// cart on first use.
	GetOrCreate(ctx context.Context, userID string) (*models.Cart, error)
	// AddItem adds quantity to the book's line, inserting the line if needed.
	AddItem(ctx context.Context, cartID, bookID string, quantity int) error
	// SetItemQuantity fails with ErrNotFound when the book is not in the cart.
	SetItemQuantity(ctx context.Context, cartID, bookID string, quantity int) error
	RemoveItem(ctx context.Context, cartID, bookID string) error
	Clear(ctx context.Context, cartID string) error
}

// GORMCartRepository is a GORM implementation of CartRepository.
type GORMCartRepository struct {
	db *gorm.DB
}

// NewGORMCartRepository creates a new instance of GORMCartRepository.
func NewGORMCartRepository(db *gorm.DB) *GORMCartRepository {
	return &GORMCartRepository{db: db}
}

func (r *GORMCartRepository) GetOrCreate(ctx context.Context, userID string) (*models.Cart, error) {
	db := r.db.WithContext(ctx)
	var cart models.Cart
	err := db.Preload("Items", func(tx *gorm.DB) *gorm.DB {
		return tx.Order("created_at ASC")
	}).First(&cart, "user_id = ?", userID).Error
	if err == nil {
		return &cart, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, translate(err, "get cart")
	}

	cart = models.Cart{ID: uuid.New().String(), UserID: userID, Items: []models.CartItem{}}
	if err := db.Create(&cart).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			// Lost a race with a concurrent first request.
			return r.GetOrCreate(ctx, userID)
		}
		return nil, translate(err, "create cart")
	}
	return &cart, nil
}

func (r *GORMCartRepository) AddItem(ctx context.Context, cartID, bookID string, quantity int) error {
	item := models.CartItem{ID: uuid.New().String(), CartID: cartID, BookID: bookID, Quantity: quantity}
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "cart_id"}, {Name: "book_id"}},
		DoUpdates: clause.Assignments(map[string]any{
			"quantity":   gorm.Expr("cart_items.quantity + ?", quantity),
			"updated_at": gorm.Expr("CURRENT_TIMESTAMP"),
		}),
	}).Create(&item).Error
	return translate(err, "add cart item")
}

func (r *GORMCartRepository) SetItemQuantity(ctx context.Context, cartID, bookID string, quantity int) error {
	res := r.db.WithContext(ctx).Model(&models.CartItem{}).
		Where("cart_id = ? AND book_id = ?", cartID, bookID).
		Update("quantity", quantity)
	if res.Error != nil {
		return translate(res.Error, "update cart item")
	}
	if res.RowsAffected == 0 {
		return translate(gorm.ErrRecordNotFound, "update cart item")
	}
	return nil
}

func (r *GORMCartRepository) RemoveItem(ctx context.Context, cartID, bookID string) error {
	err := r.db.WithContext(ctx).Where("cart_id = ? AND book_id = ?", cartID, bookID).Delete(&models.CartItem{}).Error
	return translate(err, "remove cart item")
}

func (r *GORMCartRepository) Clear(ctx context.Context, cartID string) error {
	err := r.db.WithContext(ctx).Where("cart_id = ?", cartID).Delete(&models.CartItem{}).Error
	return translate(err, "clear cart")
}
