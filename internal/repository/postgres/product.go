package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/dtroode/storefront-server/internal/model"
)

var _ model.ProductStore = (*ProductRepository)(nil)

const productColumns = `id, name, description, price, discount, final_price, image, background_color,
	category, stock, tags, is_active, created_at, updated_at`

type ProductRepository struct {
	db *Connection
}

func NewProductRepository(db *Connection) *ProductRepository {
	return &ProductRepository{
		db: db,
	}
}

func scanProduct(row pgx.Row) (model.Product, error) {
	var p model.Product
	err := row.Scan(
		&p.ID, &p.Name, &p.Description, &p.Price, &p.Discount, &p.FinalPrice, &p.Image, &p.BackgroundColor,
		&p.Category, &p.Stock, &p.Tags, &p.IsActive, &p.CreatedAt, &p.UpdatedAt,
	)
	return p, err
}

func (r *ProductRepository) Create(ctx context.Context, p model.Product) (model.Product, error) {
	query := `INSERT INTO products (` + productColumns + `)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
			  RETURNING ` + productColumns

	saved, err := scanProduct(r.db.QueryRow(ctx, query,
		p.ID, p.Name, p.Description, p.Price, p.Discount, p.FinalPrice, p.Image, p.BackgroundColor,
		p.Category, p.Stock, p.Tags, p.IsActive, p.CreatedAt, p.UpdatedAt,
	))
	if err != nil {
		return model.Product{}, fmt.Errorf("failed to create product: %w", err)
	}

	return saved, nil
}

func (r *ProductRepository) GetByID(ctx context.Context, id uuid.UUID) (model.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1`

	p, err := scanProduct(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Product{}, model.ErrNotFound
		}
		return model.Product{}, fmt.Errorf("failed to get product by id: %w", err)
	}

	return p, nil
}

func (r *ProductRepository) List(ctx context.Context, category string) ([]model.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products
			  WHERE is_active AND ($1 = '' OR category = $1)
			  ORDER BY created_at DESC`

	rows, err := r.db.Query(ctx, query, category)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	defer rows.Close()

	products := []model.Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate products: %w", err)
	}

	return products, nil
}

func (r *ProductRepository) SetImage(ctx context.Context, id uuid.UUID, image string) (model.Product, error) {
	query := `UPDATE products SET image = $2, updated_at = now() WHERE id = $1 RETURNING ` + productColumns

	p, err := scanProduct(r.db.QueryRow(ctx, query, id, image))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Product{}, model.ErrNotFound
		}
		return model.Product{}, fmt.Errorf("failed to set product image: %w", err)
	}

	return p, nil
}
