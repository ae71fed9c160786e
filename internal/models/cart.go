package models

import "time"

// CartItem is a single book line within a cart.
type CartItem struct {
	ID        string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	CartID    string    `json:"cartId" gorm:"type:varchar(36);uniqueIndex:idx_cart_book;not null"`
	BookID    string    `json:"bookId" gorm:"type:varchar(36);uniqueIndex:idx_cart_book;not null"`
	Quantity  int       `json:"quantity" gorm:"not null"`
	Book      *Book     `json:"book,omitempty" gorm:"-"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Cart holds the books a user intends to buy. Each user has at most one.
type Cart struct {
	ID        string     `json:"id" gorm:"primaryKey;type:varchar(36)"`
	UserID    string     `json:"userId" gorm:"uniqueIndex;type:varchar(36);not null"`
	Items     []CartItem `json:"items" gorm:"foreignKey:CartID"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
}
