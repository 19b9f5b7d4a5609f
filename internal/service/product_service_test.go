package service

import (
	"context"
	"strings"
	"testing"

	"fashion-shop/internal/config"
	"fashion-shop/internal/model"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var testUpload = config.UploadConfig{
	MaxFileSize:  5 * 1024 * 1024,
	MaxFiles:     5,
	AllowedTypes: []string{"image/jpeg", "image/png", "image/jpg", "image/webp"},
}

func newProductServiceForTest() (ProductService, *MockProductRepository, *MockCategoryRepository, *MockStore) {
	mockProductRepo := new(MockProductRepository)
	mockCategoryRepo := new(MockCategoryRepository)
	mockStore := new(MockStore)
	svc := NewProductService(mockProductRepo, mockCategoryRepo, mockStore, testUpload, zerolog.Nop())
	return svc, mockProductRepo, mockCategoryRepo, mockStore
}

func TestProductService_List_NeverReturnsNil(t *testing.T) {
	ctx := context.Background()

	svc, mockProductRepo, _, _ := newProductServiceForTest()
	mockProductRepo.On("List", ctx, mock.MatchedBy(func(f model.ProductFilter) bool {
		return f.Page == 1 && f.Limit == 12
	})).Return([]model.Product(nil), int64(0), nil)

	products, pagination, err := svc.List(ctx, model.ProductFilter{})

	require.NoError(t, err)
	require.NotNil(t, products)
	assert.Empty(t, products)
	assert.Equal(t, 0, pagination.Pages)
}

func TestProductService_GetByID_BumpsViews(t *testing.T) {
	ctx := context.Background()
	id := uuid.New()

	svc, mockProductRepo, _, _ := newProductServiceForTest()
	mockProductRepo.On("GetByID", ctx, id).Return(&model.Product{ID: id, Views: 41}, nil)
	mockProductRepo.On("IncrementViews", ctx, id).Return(nil)

	product, err := svc.GetByID(ctx, id)

	require.NoError(t, err)
	assert.Equal(t, int64(42), product.Views)
	mockProductRepo.AssertExpectations(t)
}

func TestProductService_GetByID_NotFound(t *testing.T) {
	ctx := context.Background()
	id := uuid.New()

	svc, mockProductRepo, _, _ := newProductServiceForTest()
	mockProductRepo.On("GetByID", ctx, id).Return(nil, nil)

	_, err := svc.GetByID(ctx, id)

	require.Error(t, err)
	de, ok := model.AsDomainError(err)
	require.True(t, ok)
	assert.Equal(t, model.KindNotFound, de.Kind)
	mockProductRepo.AssertNotCalled(t, "IncrementViews", mock.Anything, mock.Anything)
}

func TestProductService_Create_Success(t *testing.T) {
	ctx := context.Background()
	categoryID := uuid.New()

	svc, mockProductRepo, mockCategoryRepo, mockStore := newProductServiceForTest()

	mockCategoryRepo.On("GetByID", ctx, categoryID).Return(&model.Category{ID: categoryID, Name: "Shirts"}, nil)
	mockStore.On("Put", ctx, mock.AnythingOfType("string"), "image/jpeg", mock.Anything).
		Return("https://cdn.example.com/products/a.jpg", nil)
	mockProductRepo.On("Create", ctx, mock.MatchedBy(func(p *model.Product) bool {
		return p.Slug == "linen-summer-shirt" && p.IsActive && len(p.Images) == 1 &&
			p.ID != uuid.Nil && !p.CreatedAt.IsZero() && !p.UpdatedAt.IsZero()
	})).Return(nil)

	product, err := svc.Create(ctx, &model.CreateProductRequest{
		Name:       "Linen Summer Shirt",
		Price:      120000,
		Stock:      10,
		CategoryID: categoryID.String(),
	}, []ImageUpload{{
		Filename:    "a.jpg",
		ContentType: "image/jpeg",
		Size:        1024,
		Body:        strings.NewReader("fake-jpeg"),
	}})

	require.NoError(t, err)
	assert.Equal(t, "linen-summer-shirt", product.Slug)
	mockProductRepo.AssertExpectations(t)
	mockStore.AssertExpectations(t)
}

func TestProductService_Create_UnknownCategory(t *testing.T) {
	ctx := context.Background()
	categoryID := uuid.New()

	svc, mockProductRepo, mockCategoryRepo, _ := newProductServiceForTest()
	mockCategoryRepo.On("GetByID", ctx, categoryID).Return(nil, nil)

	_, err := svc.Create(ctx, &model.CreateProductRequest{
		Name:       "Linen Shirt",
		Price:      100,
		CategoryID: categoryID.String(),
	}, nil)

	require.Error(t, err)
	de, ok := model.AsDomainError(err)
	require.True(t, ok)
	assert.Equal(t, model.KindValidation, de.Kind)
	mockProductRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestProductService_Create_RejectsDisallowedImageType(t *testing.T) {
	ctx := context.Background()

	svc, mockProductRepo, _, mockStore := newProductServiceForTest()

	_, err := svc.Create(ctx, &model.CreateProductRequest{
		Name:       "Linen Shirt",
		Price:      100,
		CategoryID: uuid.NewString(),
	}, []ImageUpload{{
		Filename:    "notes.pdf",
		ContentType: "application/pdf",
		Size:        1024,
	}})

	require.Error(t, err)
	de, ok := model.AsDomainError(err)
	require.True(t, ok)
	assert.Equal(t, model.KindValidation, de.Kind)
	mockStore.AssertNotCalled(t, "Put", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	mockProductRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestProductService_Create_RejectsTooManyImages(t *testing.T) {
	ctx := context.Background()

	uploads := make([]ImageUpload, 6)
	for i := range uploads {
		uploads[i] = ImageUpload{Filename: "a.jpg", ContentType: "image/jpeg", Size: 10}
	}

	svc, _, _, mockStore := newProductServiceForTest()

	_, err := svc.Create(ctx, &model.CreateProductRequest{
		Name:       "Linen Shirt",
		Price:      100,
		CategoryID: uuid.NewString(),
	}, uploads)

	require.Error(t, err)
	de, ok := model.AsDomainError(err)
	require.True(t, ok)
	assert.Equal(t, model.KindValidation, de.Kind)
	mockStore.AssertNotCalled(t, "Put", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestProductService_Delete_RemovesStoredImages(t *testing.T) {
	ctx := context.Background()
	id := uuid.New()

	product := &model.Product{
		ID: id,
		Images: []model.Image{
			{Key: "products/a.jpg", URL: "https://cdn.example.com/products/a.jpg"},
			{Key: "products/b.jpg", URL: "https://cdn.example.com/products/b.jpg"},
		},
	}

	svc, mockProductRepo, _, mockStore := newProductServiceForTest()
	mockProductRepo.On("GetByID", ctx, id).Return(product, nil)
	mockProductRepo.On("Delete", ctx, id).Return(nil)
	mockStore.On("Delete", ctx, "products/a.jpg").Return(nil).Once()
	mockStore.On("Delete", ctx, "products/b.jpg").Return(nil).Once()

	err := svc.Delete(ctx, id)

	require.NoError(t, err)
	mockProductRepo.AssertExpectations(t)
	mockStore.AssertExpectations(t)
}
