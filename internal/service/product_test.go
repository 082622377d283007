package service

import (
	"bytes"
	"context"
	"errors"
	"io"
	"math"
	"net/http"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	servermocks "github.com/dtroode/storefront-server/internal/mocks"
	"github.com/dtroode/storefront-server/internal/model"
	"github.com/dtroode/storefront-server/internal/testutil"
)

func TestFinalPrice(t *testing.T) {
	t.Parallel()

	tests := []struct {
		price, discount, want float64
	}{
		{100, 0, 100},
		{100, 25, 75},
		{19.99, 10, 17.99},
		{10, 100, 0},
		{33.33, 33, 22.33},
	}
	for _, tt := range tests {
		assert.InDelta(t, tt.want, FinalPrice(tt.price, tt.discount), 1e-9, "price=%v discount=%v", tt.price, tt.discount)
	}
}

func TestProduct_List_CategoryAllMeansNoFilter(t *testing.T) {
	ctx := context.Background()
	store := servermocks.NewProductStore(t)
	store.On("List", ctx, "").Return([]model.Product{{Name: "a"}}, nil).Times(3)
	store.On("List", ctx, "shoes").Return([]model.Product{}, nil).Once()

	svc := NewProduct(store, nil, testutil.MakeNoopLogger())

	for _, c := range []string{"", "all", "ALL"} {
		_, err := svc.List(ctx, c)
		require.NoError(t, err)
	}
	_, err := svc.List(ctx, "shoes")
	require.NoError(t, err)
}

func TestProduct_Create(t *testing.T) {
	ctx := context.Background()
	store := servermocks.NewProductStore(t)
	store.On("Create", ctx, mock.MatchedBy(func(p model.Product) bool {
		return p.Name == "Bag" &&
			p.FinalPrice == 80 &&
			p.BackgroundColor == "#FFFFFF" &&
			p.IsActive &&
			p.Tags != nil
	})).Return(func(_ context.Context, p model.Product) (model.Product, error) {
		return p, nil
	}).Once()

	svc := NewProduct(store, nil, testutil.MakeNoopLogger())

	p, err := svc.Create(ctx, model.CreateProductParams{Name: "Bag", Price: 100, Discount: 20, Category: "bags"})
	require.NoError(t, err)
	assert.Equal(t, 80.0, p.FinalPrice)
}

func TestProduct_Create_RoundsAndKeepsImageURL(t *testing.T) {
	ctx := context.Background()
	store := servermocks.NewProductStore(t)
	store.On("Create", ctx, mock.MatchedBy(func(p model.Product) bool {
		return p.Price == 19.99 &&
			p.Discount == 12.5 &&
			p.Image == "https://cdn.example.com/bag.png"
	})).Return(func(_ context.Context, p model.Product) (model.Product, error) {
		return p, nil
	}).Once()

	svc := NewProduct(store, nil, testutil.MakeNoopLogger())

	p, err := svc.Create(ctx, model.CreateProductParams{
		Name:     "Bag",
		Price:    19.989,
		Discount: 12.499,
		Image:    " https://cdn.example.com/bag.png ",
		Category: "bags",
	})
	require.NoError(t, err)
	assert.Equal(t, FinalPrice(19.99, 12.5), p.FinalPrice)
}

func TestProduct_Create_Validation(t *testing.T) {
	t.Parallel()

	valid := model.CreateProductParams{Name: "Bag", Price: 10, Category: "bags"}
	tests := []struct {
		name   string
		modify func(*model.CreateProductParams)
	}{
		{"missing name", func(p *model.CreateProductParams) { p.Name = " " }},
		{"missing category", func(p *model.CreateProductParams) { p.Category = "" }},
		{"zero price", func(p *model.CreateProductParams) { p.Price = 0 }},
		{"negative price", func(p *model.CreateProductParams) { p.Price = -1 }},
		{"discount over 100", func(p *model.CreateProductParams) { p.Discount = 101 }},
		{"negative discount", func(p *model.CreateProductParams) { p.Discount = -5 }},
		{"negative stock", func(p *model.CreateProductParams) { p.Stock = -1 }},
		{"price rounds to zero", func(p *model.CreateProductParams) { p.Price = 0.001 }},
		{"price above column range", func(p *model.CreateProductParams) { p.Price = 1e12 }},
		{"infinite price", func(p *model.CreateProductParams) { p.Price = math.Inf(1) }},
		{"nan price", func(p *model.CreateProductParams) { p.Price = math.NaN() }},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			params := valid
			tt.modify(&params)

			svc := NewProduct(servermocks.NewProductStore(t), nil, testutil.MakeNoopLogger())
			_, err := svc.Create(context.Background(), params)
			requireAPIError(t, err, http.StatusBadRequest, "validation_failed")
		})
	}
}

func TestProduct_Get_NotFound(t *testing.T) {
	store := servermocks.NewProductStore(t)
	store.On("GetByID", mock.Anything, mock.Anything).Return(model.Product{}, model.ErrNotFound).Once()

	svc := NewProduct(store, nil, testutil.MakeNoopLogger())

	_, err := svc.Get(context.Background(), uuid.New())
	requireAPIError(t, err, http.StatusNotFound, "product_not_found")
}

func TestProduct_SetImage(t *testing.T) {
	ctx := context.Background()
	id := uuid.New()
	store := servermocks.NewProductStore(t)
	storage := servermocks.NewStorage(t)
	body := strings.NewReader("png-bytes")

	store.On("GetByID", ctx, id).Return(model.Product{ID: id}, nil).Once()
	storage.On("Upload", ctx, "products/"+id.String(), body, int64(9), "image/png").Return(nil).Once()
	store.On("SetImage", ctx, id, "/products/"+id.String()+"/image").
		Return(model.Product{ID: id, Image: "/products/" + id.String() + "/image"}, nil).Once()

	svc := NewProduct(store, storage, testutil.MakeNoopLogger())

	p, err := svc.SetImage(ctx, id, body, 9, "image/png")
	require.NoError(t, err)
	assert.Equal(t, "/products/"+id.String()+"/image", p.Image)
}

func TestProduct_SetImage_StoreFailureRemovesUpload(t *testing.T) {
	tests := []struct {
		name      string
		storeErr  error
		deleteErr error
		wantCode  string
	}{
		{name: "store failure", storeErr: errors.New("db down")},
		{name: "store failure and delete failure", storeErr: errors.New("db down"), deleteErr: errors.New("minio down")},
		{name: "product deleted meanwhile", storeErr: model.ErrNotFound, wantCode: "product_not_found"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			id := uuid.New()
			key := "products/" + id.String()
			store := servermocks.NewProductStore(t)
			storage := servermocks.NewStorage(t)

			store.On("GetByID", ctx, id).Return(model.Product{ID: id}, nil).Once()
			storage.On("Upload", ctx, key, mock.Anything, int64(3), "image/png").Return(nil).Once()
			store.On("SetImage", ctx, id, "/products/"+id.String()+"/image").Return(model.Product{}, tt.storeErr).Once()
			storage.On("Delete", mock.Anything, key).Return(tt.deleteErr).Once()

			svc := NewProduct(store, storage, testutil.MakeNoopLogger())

			_, err := svc.SetImage(ctx, id, strings.NewReader("png"), 3, "image/png")
			if tt.wantCode != "" {
				requireAPIError(t, err, http.StatusNotFound, tt.wantCode)
				return
			}
			require.ErrorIs(t, err, tt.storeErr)
		})
	}
}

func TestProduct_SetImage_UploadFailureSkipsRemoval(t *testing.T) {
	ctx := context.Background()
	id := uuid.New()
	store := servermocks.NewProductStore(t)
	storage := servermocks.NewStorage(t)

	store.On("GetByID", ctx, id).Return(model.Product{ID: id}, nil).Once()
	storage.On("Upload", ctx, "products/"+id.String(), mock.Anything, int64(3), "image/png").Return(errors.New("minio down")).Once()

	svc := NewProduct(store, storage, testutil.MakeNoopLogger())

	_, err := svc.SetImage(ctx, id, strings.NewReader("png"), 3, "image/png")
	require.Error(t, err)
	storage.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	store.AssertNotCalled(t, "SetImage", mock.Anything, mock.Anything, mock.Anything)
}

func TestProduct_Images_StorageUnavailable(t *testing.T) {
	svc := NewProduct(servermocks.NewProductStore(t), nil, testutil.MakeNoopLogger())

	_, err := svc.SetImage(context.Background(), uuid.New(), strings.NewReader("x"), 1, "image/png")
	requireAPIError(t, err, http.StatusServiceUnavailable, "storage_unavailable")

	_, err = svc.OpenImage(context.Background(), uuid.New())
	requireAPIError(t, err, http.StatusServiceUnavailable, "storage_unavailable")
}

func TestProduct_OpenImage(t *testing.T) {
	ctx := context.Background()
	id := uuid.New()
	store := servermocks.NewProductStore(t)
	storage := servermocks.NewStorage(t)

	store.On("GetByID", ctx, id).Return(model.Product{ID: id, Image: "/products/" + id.String() + "/image"}, nil).Once()
	storage.On("Download", ctx, "products/"+id.String()).Return(io.NopCloser(bytes.NewReader([]byte("img"))), nil).Once()

	svc := NewProduct(store, storage, testutil.MakeNoopLogger())

	rc, err := svc.OpenImage(ctx, id)
	require.NoError(t, err)
	defer rc.Close()

	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, "img", string(data))
}

func TestProduct_OpenImage_NoImage(t *testing.T) {
	id := uuid.New()
	store := servermocks.NewProductStore(t)
	store.On("GetByID", mock.Anything, id).Return(model.Product{ID: id}, nil).Once()

	svc := NewProduct(store, servermocks.NewStorage(t), testutil.MakeNoopLogger())

	_, err := svc.OpenImage(context.Background(), id)
	requireAPIError(t, err, http.StatusNotFound, "product_not_found")
}
