package handler

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/dtroode/storefront-server/internal/api/http/response"
	"github.com/dtroode/storefront-server/internal/apierror"
	"github.com/dtroode/storefront-server/internal/logger"
	"github.com/dtroode/storefront-server/internal/model"
)

// MaxImageBytes caps the size of an uploaded product image.
const MaxImageBytes = 5 << 20

// Product serves the /products routes.
type Product struct {
	productService ProductService
	logger         *logger.Logger
	debug          bool
}

func NewProduct(productService ProductService, logger *logger.Logger, debug bool) *Product {
	return &Product{
		productService: productService,
		logger:         logger,
		debug:          debug,
	}
}

type createProductRequest struct {
	Name            string   `json:"name"`
	Description     string   `json:"description"`
	Price           float64  `json:"price"`
	Discount        float64  `json:"discount"`
	Image           string   `json:"image"`
	BackgroundColor string   `json:"backgroundColor"`
	Category        string   `json:"category"`
	Stock           int      `json:"stock"`
	Tags            []string `json:"tags"`
	// FinalPrice is accepted from older clients and ignored; it is derived
	// from price and discount.
	FinalPrice *float64 `json:"finalPrice"`
}

func (h *Product) List(w http.ResponseWriter, r *http.Request) {
	products, err := h.productService.List(r.Context(), r.URL.Query().Get("category"))
	if err != nil {
		handleError(w, r, h.logger, err, h.debug)
		return
	}

	views := make([]productView, 0, len(products))
	for _, p := range products {
		views = append(views, newProductView(p))
	}

	response.WriteJSON(w, http.StatusOK, map[string]any{
		"success":  true,
		"products": views,
	})
}

func (h *Product) Get(w http.ResponseWriter, r *http.Request) {
	id, err := productID(r)
	if err != nil {
		handleError(w, r, h.logger, err, h.debug)
		return
	}

	product, err := h.productService.Get(r.Context(), id)
	if err != nil {
		handleError(w, r, h.logger, err, h.debug)
		return
	}

	response.WriteJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"product": newProductView(product),
	})
}

// Create adds a product. Admin only.
func (h *Product) Create(w http.ResponseWriter, r *http.Request) {
	var req createProductRequest
	if err := response.DecodeJSON(r, &req); err != nil {
		handleError(w, r, h.logger, err, h.debug)
		return
	}

	product, err := h.productService.Create(r.Context(), model.CreateProductParams{
		Name:            req.Name,
		Description:     req.Description,
		Price:           req.Price,
		Discount:        req.Discount,
		Image:           req.Image,
		BackgroundColor: req.BackgroundColor,
		Category:        req.Category,
		Stock:           req.Stock,
		Tags:            req.Tags,
	})
	if err != nil {
		handleError(w, r, h.logger, err, h.debug)
		return
	}

	response.WriteJSON(w, http.StatusCreated, map[string]any{
		"success": true,
		"product": newProductView(product),
	})
}

// UploadImage stores the raw request body as the product image. Admin only.
func (h *Product) UploadImage(w http.ResponseWriter, r *http.Request) {
	id, err := productID(r)
	if err != nil {
		handleError(w, r, h.logger, err, h.debug)
		return
	}

	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, MaxImageBytes))
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			handleError(w, r, h.logger,
				apierror.NewErrValidationf("image must be at most %d bytes", MaxImageBytes), h.debug)
			return
		}
		handleError(w, r, h.logger, fmt.Errorf("failed to read image: %w", err), h.debug)
		return
	}
	if len(data) == 0 {
		handleError(w, r, h.logger, apierror.NewErrValidation("image body is empty"), h.debug)
		return
	}

	contentType := imageContentType(r.Header.Get("Content-Type"), data)
	if !strings.HasPrefix(contentType, "image/") {
		handleError(w, r, h.logger,
			apierror.NewErrValidationf("unsupported content type %q", contentType), h.debug)
		return
	}

	product, err := h.productService.SetImage(r.Context(), id, bytes.NewReader(data), int64(len(data)), contentType)
	if err != nil {
		handleError(w, r, h.logger, err, h.debug)
		return
	}

	response.WriteJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"product": newProductView(product),
	})
}

// GetImage streams the stored product image.
func (h *Product) GetImage(w http.ResponseWriter, r *http.Request) {
	id, err := productID(r)
	if err != nil {
		handleError(w, r, h.logger, err, h.debug)
		return
	}

	rc, err := h.productService.OpenImage(r.Context(), id)
	if err != nil {
		handleError(w, r, h.logger, err, h.debug)
		return
	}
	defer rc.Close()

	br := bufio.NewReaderSize(rc, 512)
	head, err := br.Peek(512)
	if err != nil && !errors.Is(err, io.EOF) {
		handleError(w, r, h.logger, fmt.Errorf("failed to read image: %w", err), h.debug)
		return
	}

	w.Header().Set("Content-Type", http.DetectContentType(head))
	w.Header().Set("Cache-Control", "private, max-age=300")
	w.WriteHeader(http.StatusOK)
	if _, err := io.Copy(w, br); err != nil {
		h.logger.Warn("Product handler: image stream interrupted",
			"product_id", id,
			"error", err.Error())
	}
}

func productID(r *http.Request) (uuid.UUID, error) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		return uuid.Nil, apierror.NewErrValidation("invalid product id")
	}
	return id, nil
}

func imageContentType(header string, data []byte) string {
	if header != "" {
		if mediaType, _, err := mime.ParseMediaType(header); err == nil && mediaType != "application/octet-stream" {
			return mediaType
		}
	}
	return http.DetectContentType(data)
}
