package handler

import (
	"time"

	"github.com/google/uuid"

	"github.com/dtroode/storefront-server/internal/model"
)

type userView struct {
	ID        uuid.UUID     `json:"id"`
	Fullname  string        `json:"fullname"`
	Email     string        `json:"email"`
	IsAdmin   bool          `json:"isAdmin"`
	Address   model.Address `json:"address"`
	CreatedAt time.Time     `json:"createdAt"`
	UpdatedAt time.Time     `json:"updatedAt"`
}

func newUserView(u model.User) userView {
	return userView{
		ID:        u.ID,
		Fullname:  u.Fullname,
		Email:     u.Email,
		IsAdmin:   u.IsAdmin,
		Address:   u.Address,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

type productView struct {
	ID              uuid.UUID `json:"id"`
	Name            string    `json:"name"`
	Description     string    `json:"description"`
	Price           float64   `json:"price"`
	Discount        float64   `json:"discount"`
	FinalPrice      float64   `json:"finalPrice"`
	Image           string    `json:"image"`
	BackgroundColor string    `json:"backgroundColor"`
	Category        string    `json:"category"`
	Stock           int       `json:"stock"`
	Tags            []string  `json:"tags"`
	IsActive        bool      `json:"isActive"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

func newProductView(p model.Product) productView {
	tags := p.Tags
	if tags == nil {
		tags = []string{}
	}
	return productView{
		ID:              p.ID,
		Name:            p.Name,
		Description:     p.Description,
		Price:           p.Price,
		Discount:        p.Discount,
		FinalPrice:      p.FinalPrice,
		Image:           p.Image,
		BackgroundColor: p.BackgroundColor,
		Category:        p.Category,
		Stock:           p.Stock,
		Tags:            tags,
		IsActive:        p.IsActive,
		CreatedAt:       p.CreatedAt,
		UpdatedAt:       p.UpdatedAt,
	}
}
