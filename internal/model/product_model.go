package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Product struct {
	ID          uuid.UUID       `json:"id"`
	Title       string          `json:"title"`
	Slug        string          `json:"slug"`
	Description *string         `json:"description"`
	Price       decimal.Decimal `json:"price"`
	IsActive    bool            `json:"isActive"`
	CategoryID  *uuid.UUID      `json:"categoryId"`
	Category    *Category       `json:"category"`
	Images      []Image         `json:"images"`
	Tags        []Tag           `json:"tags"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

// Image is a row of product_images or news_images.
type Image struct {
	ID        uuid.UUID `json:"id"`
	URL       string    `json:"url"`
	Alt       *string   `json:"alt"`
	SortOrder int       `json:"sortOrder"`
}
