package models

import (
	"time"

	"gorm.io/gorm"
)

// Creator records who created a catalog entry.
type Creator struct {
	UserID string `json:"userId" gorm:"type:varchar(36)"`
	Role   Role   `json:"role" gorm:"type:varchar(20)"`
}

// Category groups books on the storefront.
type Category struct {
	ID          string         `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Name        string         `json:"name" gorm:"uniqueIndex;type:varchar(100);not null"`
	Description string         `json:"description" gorm:"type:text"`
	Status      bool           `json:"status"`   // visible on site
	Featured    bool           `json:"featured"` // shown on the homepage
	CreatedBy   Creator        `json:"createdBy" gorm:"embedded;embeddedPrefix:created_by_"`
	CreatedAt   time.Time      `json:"createdAt"`
	UpdatedAt   time.Time      `json:"updatedAt"`
	DeletedAt   gorm.DeletedAt `json:"deletedAt" gorm:"index"`
}

// SubCategory narrows a category. Slug is derived from Name.
type SubCategory struct {
	ID               string         `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Name             string         `json:"name" gorm:"uniqueIndex;type:varchar(100);not null"`
	Slug             string         `json:"slug" gorm:"uniqueIndex;type:varchar(120);not null"`
	Description      string         `json:"description" gorm:"type:text"`
	Image            string         `json:"image" gorm:"type:varchar(512)"`
	ImageID          string         `json:"-" gorm:"type:varchar(512)"`
	ParentCategoryID string         `json:"parentCategoryId" gorm:"type:varchar(36);index;not null"`
	Status           bool           `json:"status"`
	Featured         bool           `json:"featured"`
	CreatedBy        Creator        `json:"createdBy" gorm:"embedded;embeddedPrefix:created_by_"`
	CreatedAt        time.Time      `json:"createdAt"`
	UpdatedAt        time.Time      `json:"updatedAt"`
	DeletedAt        gorm.DeletedAt `json:"deletedAt" gorm:"index"`
}

// AccessType controls who may read or listen to a book.
type AccessType string

const (
	AccessFree    AccessType = "free"
	AccessPremium AccessType = "premium"
	AccessPaid    AccessType = "paid"
)

// Book is a title in the catalog, optionally with a PDF and audio episodes.
type Book struct {
	ID                string         `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Name              string         `json:"name" gorm:"type:varchar(255);not null"`
	Description       string         `json:"description" gorm:"type:text"`
	CategoryID        string         `json:"categoryId" gorm:"type:varchar(36);index;not null"`
	SubCategoryID     string         `json:"subCategoryId,omitempty" gorm:"type:varchar(36);index"`
	Author            string         `json:"author" gorm:"type:varchar(255);not null"`
	CoverImage        string         `json:"coverImage" gorm:"type:varchar(512)"`
	CoverImageID      string         `json:"-" gorm:"type:varchar(512)"`
	BookPDF           string         `json:"bookPdf" gorm:"column:book_pdf;type:varchar(512)"`
	BookPDFID         string         `json:"-" gorm:"column:book_pdf_id;type:varchar(512)"`
	Price             float64        `json:"price" gorm:"not null"`
	MRP               float64        `json:"mrp" gorm:"column:mrp"`
	AccessType        AccessType     `json:"accessType" gorm:"type:varchar(20);not null"`
	Featured          bool           `json:"featured"`
	Status            bool           `json:"status"`
	AvailableForOrder bool           `json:"availableForOrder"`
	CreatedBy         Creator        `json:"createdBy" gorm:"embedded;embeddedPrefix:created_by_"`
	CreatedAt         time.Time      `json:"createdAt"`
	UpdatedAt         time.Time      `json:"updatedAt"`
	DeletedAt         gorm.DeletedAt `json:"deletedAt" gorm:"index"`
}

// BookLike marks that a user liked a book.
type BookLike struct {
	BookID    string    `json:"bookId" gorm:"primaryKey;type:varchar(36)"`
	UserID    string    `json:"userId" gorm:"primaryKey;type:varchar(36)"`
	CreatedAt time.Time `json:"createdAt"`
}

// BookBookmark marks that a user bookmarked a book.
type BookBookmark struct {
	BookID    string    `json:"bookId" gorm:"primaryKey;type:varchar(36)"`
	UserID    string    `json:"userId" gorm:"primaryKey;type:varchar(36);index"`
	CreatedAt time.Time `json:"createdAt"`
}

// Episode is one audio chapter of a book.
type Episode struct {
	ID            string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	BookID        string    `json:"bookId" gorm:"type:varchar(36);index;not null"`
	Title         string    `json:"title" gorm:"type:varchar(255);not null"`
	Description   string    `json:"description" gorm:"type:text"`
	AudioURL      string    `json:"audioUrl" gorm:"type:varchar(512);not null"`
	AudioID       string    `json:"-" gorm:"type:varchar(512);not null"`
	Duration      string    `json:"duration" gorm:"type:varchar(32)"`
	EpisodeNumber int       `json:"episodeNumber" gorm:"not null"`
	Listens       int       `json:"listens"`
	Likes         int64     `json:"likes" gorm:"-"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// EpisodeLike marks that a user liked an episode.
type EpisodeLike struct {
	EpisodeID string    `json:"episodeId" gorm:"primaryKey;type:varchar(36)"`
	UserID    string    `json:"userId" gorm:"primaryKey;type:varchar(36)"`
	CreatedAt time.Time `json:"createdAt"`
}

// Slider is a homepage banner.
type Slider struct {
	ID          string         `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Title       string         `json:"title" gorm:"type:varchar(255);not null"`
	Subtitle    string         `json:"subtitle" gorm:"type:varchar(255)"`
	Description string         `json:"description" gorm:"type:text"`
	ImageURL    string         `json:"imageUrl" gorm:"type:varchar(512);not null"`
	ImageID     string         `json:"-" gorm:"type:varchar(512);not null"`
	Link        string         `json:"link" gorm:"type:varchar(512)"`
	Status      bool           `json:"status"`
	Order       int            `json:"order" gorm:"column:sort_order"`
	CreatedBy   Creator        `json:"createdBy" gorm:"embedded;embeddedPrefix:created_by_"`
	CreatedAt   time.Time      `json:"createdAt"`
	UpdatedAt   time.Time      `json:"updatedAt"`
	DeletedAt   gorm.DeletedAt `json:"deletedAt" gorm:"index"`
}
