package model

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// ProductStore defines persistence operations for products.
type ProductStore interface {
	Create(ctx context.Context, product Product) (Product, error)
	GetByID(ctx context.Context, id uuid.UUID) (Product, error)
	// List returns active products. An empty category matches all of them.
	List(ctx context.Context, category string) ([]Product, error)
	SetImage(ctx context.Context, id uuid.UUID, image string) (Product, error)
}

// Product is a catalog item.
type Product struct {
	ID              uuid.UUID
	Name            string
	Description     string
	Price           float64
	Discount        float64
	FinalPrice      float64
	Image           string
	BackgroundColor string
	Category        string
	Stock           int
	Tags            []string
	IsActive        bool
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// CreateProductParams holds the fields of a new product.
type CreateProductParams struct {
	Name            string
	Description     string
	Price           float64
	Discount        float64
	// Image is an external URL. Uploaded images replace it.
	Image           string
	BackgroundColor string
	Category        string
	Stock           int
	Tags            []string
}
