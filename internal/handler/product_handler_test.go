package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"fashion-shop/internal/model"
	"fashion-shop/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockProductService is a mock implementation of service.ProductService.
type MockProductService struct {
	mock.Mock
}

func (m *MockProductService) List(ctx context.Context, filter model.ProductFilter) ([]model.Product, *model.Pagination, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).([]model.Product), args.Get(1).(*model.Pagination), args.Error(2)
}

func (m *MockProductService) GetByID(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Product), args.Error(1)
}

func (m *MockProductService) Create(ctx context.Context, req *model.CreateProductRequest, uploads []service.ImageUpload) (*model.Product, error) {
	args := m.Called(ctx, req, uploads)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Product), args.Error(1)
}

func (m *MockProductService) Update(ctx context.Context, id uuid.UUID, req *model.UpdateProductRequest, uploads []service.ImageUpload) (*model.Product, error) {
	args := m.Called(ctx, id, req, uploads)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Product), args.Error(1)
}

func (m *MockProductService) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func productTestRouter(mockService *MockProductService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewProductHandler(mockService, zerolog.Nop())

	r := gin.New()
	r.GET("/api/products", h.List)
	r.GET("/api/products/:id", h.Get)
	return r
}

func TestProductHandler_List_ParsesFilters(t *testing.T) {
	categoryID := uuid.New()

	mockService := new(MockProductService)
	mockService.On("List", mock.Anything, mock.MatchedBy(func(f model.ProductFilter) bool {
		return f.CategoryID != nil && *f.CategoryID == categoryID &&
			f.MinPrice != nil && *f.MinPrice == 100 &&
			f.MaxPrice != nil && *f.MaxPrice == 900 &&
			f.SortBy == model.SortPriceAsc &&
			f.InStock &&
			f.Search == "shirt"
	})).Return([]model.Product{}, model.NewPagination(0, 1, 12), nil)

	r := productTestRouter(mockService)

	req := httptest.NewRequest(http.MethodGet,
		"/api/products?category="+categoryID.String()+"&minPrice=100&maxPrice=900&sort=price_asc&inStock=true&search=shirt", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	mockService.AssertExpectations(t)
}

func TestProductHandler_List_InvalidCategoryFilter(t *testing.T) {
	mockService := new(MockProductService)
	r := productTestRouter(mockService)

	req := httptest.NewRequest(http.MethodGet, "/api/products?category=lingerie", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	mockService.AssertNotCalled(t, "List", mock.Anything, mock.Anything)
}

func TestProductHandler_List_EmptyResultIsJSONArray(t *testing.T) {
	mockService := new(MockProductService)
	mockService.On("List", mock.Anything, mock.Anything).
		Return([]model.Product{}, model.NewPagination(0, 1, 12), nil)

	r := productTestRouter(mockService)

	req := httptest.NewRequest(http.MethodGet, "/api/products", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"data":[]`)
}

func TestProductHandler_Get_Success(t *testing.T) {
	id := uuid.New()
	product := &model.Product{ID: id, Name: "Linen Shirt", Slug: "linen-shirt"}

	mockService := new(MockProductService)
	mockService.On("GetByID", mock.Anything, id).Return(product, nil)

	r := productTestRouter(mockService)

	req := httptest.NewRequest(http.MethodGet, "/api/products/"+id.String(), nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var body model.Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.True(t, body.Success)
}

func TestProductHandler_Get_NotFound(t *testing.T) {
	id := uuid.New()

	mockService := new(MockProductService)
	mockService.On("GetByID", mock.Anything, id).Return(nil, model.NewNotFoundError("product not found"))

	r := productTestRouter(mockService)

	req := httptest.NewRequest(http.MethodGet, "/api/products/"+id.String(), nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}
