package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dtroode/storefront-server/internal/apierror"
	"github.com/dtroode/storefront-server/internal/logger"
	"github.com/dtroode/storefront-server/internal/model"
)

const (
	defaultBackgroundColor = "#FFFFFF"
	// categoryAll lists every category.
	categoryAll = "all"
	// maxPrice is the largest value a NUMERIC(12,2) price column holds.
	maxPrice = 9_999_999_999.99
)

// Product serves the catalog and its images.
type Product struct {
	productStore model.ProductStore
	storage      model.Storage
	logger       *logger.Logger
}

// NewProduct creates the product service. A nil storage disables images.
func NewProduct(productStore model.ProductStore, storage model.Storage, logger *logger.Logger) *Product {
	return &Product{productStore: productStore, storage: storage, logger: logger}
}

// List returns active products of the category, or of every category
// when it is empty or "all".
func (s *Product) List(ctx context.Context, category string) ([]model.Product, error) {
	category = strings.TrimSpace(category)
	if strings.EqualFold(category, categoryAll) {
		category = ""
	}

	products, err := s.productStore.List(ctx, category)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	return products, nil
}

func (s *Product) Get(ctx context.Context, id uuid.UUID) (model.Product, error) {
	product, err := s.productStore.GetByID(ctx, id)
	if errors.Is(err, model.ErrNotFound) {
		return model.Product{}, apierror.NewErrProductNotFound()
	}
	if err != nil {
		return model.Product{}, fmt.Errorf("failed to get product: %w", err)
	}
	return product, nil
}

func (s *Product) Create(ctx context.Context, params model.CreateProductParams) (model.Product, error) {
	name := strings.TrimSpace(params.Name)
	category := strings.TrimSpace(params.Category)
	price := roundCents(params.Price)
	discount := roundCents(params.Discount)

	switch {
	case name == "":
		return model.Product{}, apierror.NewErrValidation("name is required")
	case category == "":
		return model.Product{}, apierror.NewErrValidation("category is required")
	case !(price > 0):
		return model.Product{}, apierror.NewErrValidation("price must be at least 0.01")
	case price > maxPrice:
		return model.Product{}, apierror.NewErrValidationf("price must not exceed %.2f", maxPrice)
	case discount < 0 || discount > 100 || math.IsNaN(discount):
		return model.Product{}, apierror.NewErrValidation("discount must be between 0 and 100")
	case params.Stock < 0:
		return model.Product{}, apierror.NewErrValidation("stock must not be negative")
	}

	color := strings.TrimSpace(params.BackgroundColor)
	if color == "" {
		color = defaultBackgroundColor
	}
	tags := params.Tags
	if tags == nil {
		tags = []string{}
	}

	now := time.Now().UTC()
	product, err := s.productStore.Create(ctx, model.Product{
		ID:              uuid.New(),
		Name:            name,
		Description:     strings.TrimSpace(params.Description),
		Price:           price,
		Discount:        discount,
		FinalPrice:      FinalPrice(price, discount),
		Image:           strings.TrimSpace(params.Image),
		BackgroundColor: color,
		Category:        category,
		Stock:           params.Stock,
		Tags:            tags,
		IsActive:        true,
		CreatedAt:       now,
		UpdatedAt:       now,
	})
	if err != nil {
		s.logger.Error("Product service: failed to create product",
			"name", name,
			"error", err.Error())
		return model.Product{}, fmt.Errorf("failed to create product: %w", err)
	}

	s.logger.Info("Product service: product created",
		"product_id", product.ID)

	return product, nil
}

// SetImage stores the image and points the product at it.
func (s *Product) SetImage(ctx context.Context, id uuid.UUID, r io.Reader, size int64, contentType string) (model.Product, error) {
	if s.storage == nil {
		return model.Product{}, apierror.NewErrStorageUnavailable()
	}

	if _, err := s.Get(ctx, id); err != nil {
		return model.Product{}, err
	}

	if err := s.storage.Upload(ctx, imageKey(id), r, size, contentType); err != nil {
		s.logger.Error("Product service: failed to upload image",
			"product_id", id,
			"error", err.Error())
		return model.Product{}, fmt.Errorf("failed to upload image: %w", err)
	}

	product, err := s.productStore.SetImage(ctx, id, imageURL(id))
	if err != nil {
		s.removeImage(ctx, id)
		if errors.Is(err, model.ErrNotFound) {
			return model.Product{}, apierror.NewErrProductNotFound()
		}
		return model.Product{}, fmt.Errorf("failed to set product image: %w", err)
	}

	s.logger.Info("Product service: image uploaded",
		"product_id", id,
		"size", size)

	return product, nil
}

// OpenImage returns the stored image. The caller closes it.
func (s *Product) OpenImage(ctx context.Context, id uuid.UUID) (io.ReadCloser, error) {
	if s.storage == nil {
		return nil, apierror.NewErrStorageUnavailable()
	}

	product, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if product.Image == "" {
		return nil, apierror.NewErrProductNotFound()
	}

	rc, err := s.storage.Download(ctx, imageKey(id))
	if errors.Is(err, model.ErrNotFound) {
		return nil, apierror.NewErrProductNotFound()
	}
	if err != nil {
		return nil, fmt.Errorf("failed to download image: %w", err)
	}
	return rc, nil
}

// removeImage deletes an uploaded object the product row does not point at.
func (s *Product) removeImage(ctx context.Context, id uuid.UUID) {
	if err := s.storage.Delete(context.WithoutCancel(ctx), imageKey(id)); err != nil {
		s.logger.Warn("Product service: failed to remove orphaned image",
			"product_id", id,
			"key", imageKey(id),
			"error", err.Error())
	}
}

func roundCents(v float64) float64 {
	return math.Round(v*100) / 100
}

// FinalPrice applies a percentage discount and rounds to cents.
func FinalPrice(price, discount float64) float64 {
	return math.Round((price-price*discount/100)*100) / 100
}

func imageKey(id uuid.UUID) string {
	return "products/" + id.String()
}

func imageURL(id uuid.UUID) string {
	return "/products/" + id.String() + "/image"
}
