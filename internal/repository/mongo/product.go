package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/dtroode/storefront-server/internal/model"
)

var _ model.ProductStore = (*ProductRepository)(nil)

type productDocument struct {
	ID              string    `bson:"_id"`
	Name            string    `bson:"name"`
	Description     string    `bson:"description"`
	Price           float64   `bson:"price"`
	Discount        float64   `bson:"discount"`
	FinalPrice      float64   `bson:"finalPrice"`
	Image           string    `bson:"image"`
	BackgroundColor string    `bson:"backgroundColor"`
	Category        string    `bson:"category"`
	Stock           int       `bson:"stock"`
	Tags            []string  `bson:"tags"`
	IsActive        bool      `bson:"isActive"`
	CreatedAt       time.Time `bson:"createdAt"`
	UpdatedAt       time.Time `bson:"updatedAt"`
}

func toProductDocument(p model.Product) productDocument {
	return productDocument{
		ID:              p.ID.String(),
		Name:            p.Name,
		Description:     p.Description,
		Price:           p.Price,
		Discount:        p.Discount,
		FinalPrice:      p.FinalPrice,
		Image:           p.Image,
		BackgroundColor: p.BackgroundColor,
		Category:        p.Category,
		Stock:           p.Stock,
		Tags:            p.Tags,
		IsActive:        p.IsActive,
		CreatedAt:       p.CreatedAt,
		UpdatedAt:       p.UpdatedAt,
	}
}

func (d productDocument) toModel() (model.Product, error) {
	id, err := uuid.Parse(d.ID)
	if err != nil {
		return model.Product{}, fmt.Errorf("invalid product id %q: %w", d.ID, err)
	}
	tags := d.Tags
	if tags == nil {
		tags = []string{}
	}
	return model.Product{
		ID:              id,
		Name:            d.Name,
		Description:     d.Description,
		Price:           d.Price,
		Discount:        d.Discount,
		FinalPrice:      d.FinalPrice,
		Image:           d.Image,
		BackgroundColor: d.BackgroundColor,
		Category:        d.Category,
		Stock:           d.Stock,
		Tags:            tags,
		IsActive:        d.IsActive,
		CreatedAt:       d.CreatedAt,
		UpdatedAt:       d.UpdatedAt,
	}, nil
}

type ProductRepository struct {
	products *mongo.Collection
	now      func() time.Time
}

func NewProductRepository(conn *Connection) *ProductRepository {
	return &ProductRepository{products: conn.collection(productsCollection), now: time.Now}
}

func (r *ProductRepository) Create(ctx context.Context, p model.Product) (model.Product, error) {
	doc := toProductDocument(p)
	if _, err := r.products.InsertOne(ctx, doc); err != nil {
		return model.Product{}, fmt.Errorf("failed to create product: %w", err)
	}
	return doc.toModel()
}

func (r *ProductRepository) GetByID(ctx context.Context, id uuid.UUID) (model.Product, error) {
	var doc productDocument
	err := r.products.FindOne(ctx, bson.M{"_id": id.String()}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return model.Product{}, model.ErrNotFound
	}
	if err != nil {
		return model.Product{}, fmt.Errorf("failed to get product by id: %w", err)
	}
	return doc.toModel()
}

func (r *ProductRepository) List(ctx context.Context, category string) ([]model.Product, error) {
	filter := bson.M{"isActive": true}
	if category != "" {
		filter["category"] = category
	}

	cur, err := r.products.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}

	var docs []productDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode products: %w", err)
	}

	products := make([]model.Product, 0, len(docs))
	for _, d := range docs {
		p, err := d.toModel()
		if err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, nil
}

func (r *ProductRepository) SetImage(ctx context.Context, id uuid.UUID, image string) (model.Product, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	update := bson.M{"$set": bson.M{"image": image, "updatedAt": r.now().UTC()}}

	var doc productDocument
	err := r.products.FindOneAndUpdate(ctx, bson.M{"_id": id.String()}, update, opts).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return model.Product{}, model.ErrNotFound
	}
	if err != nil {
		return model.Product{}, fmt.Errorf("failed to set product image: %w", err)
	}
	return doc.toModel()
}
