package service

import (
	"context"
	"errors"
	"testing"

	"fashion-shop/internal/config"
	"fashion-shop/internal/model"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var testPricing = config.OrderConfig{
	ShippingFlatFee:       30000,
	FreeShippingThreshold: 500000,
}

func testPrincipal() model.Principal {
	return model.Principal{
		UserID:   uuid.New(),
		Email:    "jane@example.com",
		FullName: "Jane Doe",
		Roles:    []model.Role{model.RoleUser},
	}
}

func validShipping() model.ShippingAddress {
	return model.ShippingAddress{
		FullName: "Jane Doe",
		Phone:    "0901234567",
		Street:   "12 Elm Street",
		City:     "Springfield",
	}
}

func newOrderServiceForTest() (OrderService, *MockOrderRepository, *MockProductRepository, *MockCartRepository, *MockPublisher) {
	mockOrderRepo := new(MockOrderRepository)
	mockProductRepo := new(MockProductRepository)
	mockCartRepo := new(MockCartRepository)
	mockPublisher := new(MockPublisher)
	svc := NewOrderService(mockOrderRepo, mockProductRepo, mockCartRepo, mockPublisher, testPricing, zerolog.Nop())
	return svc, mockOrderRepo, mockProductRepo, mockCartRepo, mockPublisher
}

func TestOrderService_Checkout_Success(t *testing.T) {
	ctx := context.Background()
	principal := testPrincipal()
	productA := uuid.New()
	productB := uuid.New()

	req := &model.CheckoutRequest{
		Items: []model.CheckoutItem{
			{ProductID: productA.String(), Quantity: 2, Size: "M"},
			{ProductID: productB.String(), Quantity: 1},
		},
		ShippingAddress: validShipping(),
		PaymentMethod:   model.PaymentCOD,
	}

	svc, mockOrderRepo, mockProductRepo, mockCartRepo, mockPublisher := newOrderServiceForTest()
	mockTx := new(MockTx)

	mockOrderRepo.On("BeginTx", ctx).Return(mockTx, nil)
	mockOrderRepo.On("NextOrderNumber", ctx, mockTx).Return(int64(42), nil)
	mockProductRepo.On("ReserveStock", ctx, mockTx, productA, 2).Return("Linen Shirt", 120000.0, nil)
	mockProductRepo.On("ReserveStock", ctx, mockTx, productB, 1).Return("Denim Jacket", 80000.0, nil)
	mockOrderRepo.On("CreateOrder", ctx, mockTx, mock.AnythingOfType("*model.Order")).Return(nil)
	mockOrderRepo.On("CreateOrderItems", ctx, mockTx, mock.AnythingOfType("[]model.OrderItem")).Return(nil)
	mockOrderRepo.On("AppendStatusHistory", ctx, mockTx, mock.AnythingOfType("uuid.UUID"), mock.AnythingOfType("model.StatusChange")).Return(nil)
	mockTx.On("Commit", ctx).Return(nil)
	mockCartRepo.On("DeleteByUserID", ctx, principal.UserID).Return(nil)
	mockPublisher.On("Publish", ctx, mock.AnythingOfType("mail.Event")).Return(nil)

	order, err := svc.Checkout(ctx, principal, req)

	require.NoError(t, err)
	require.NotNil(t, order)
	// 2*120000 + 1*80000 = 320000, below the free-shipping threshold.
	assert.Equal(t, 320000.0, order.Subtotal)
	assert.Equal(t, 30000.0, order.ShippingFee)
	assert.Equal(t, 350000.0, order.Total)
	assert.Equal(t, model.StatusPending, order.Status)
	assert.Equal(t, model.PaymentPending, order.PaymentStatus)
	assert.Len(t, order.Items, 2)
	assert.Equal(t, "Linen Shirt", order.Items[0].Name)
	assert.Equal(t, 240000.0, order.Items[0].Subtotal)
	assert.NotEmpty(t, order.OrderNumber)
	assert.Contains(t, order.OrderNumber, "ORD")
	require.Len(t, order.StatusHistory, 1)
	assert.Equal(t, model.StatusPending, order.StatusHistory[0].Status)

	mockOrderRepo.AssertExpectations(t)
	mockProductRepo.AssertExpectations(t)
	mockCartRepo.AssertExpectations(t)
	mockPublisher.AssertExpectations(t)
	mockTx.AssertExpectations(t)
	assert.True(t, mockTx.committed)
}

func TestOrderService_Checkout_FreeShippingAboveThreshold(t *testing.T) {
	ctx := context.Background()
	principal := testPrincipal()
	productA := uuid.New()

	req := &model.CheckoutRequest{
		Items:           []model.CheckoutItem{{ProductID: productA.String(), Quantity: 3}},
		ShippingAddress: validShipping(),
		PaymentMethod:   model.PaymentBankTransfer,
	}

	svc, mockOrderRepo, mockProductRepo, mockCartRepo, mockPublisher := newOrderServiceForTest()
	mockTx := new(MockTx)

	mockOrderRepo.On("BeginTx", ctx).Return(mockTx, nil)
	mockOrderRepo.On("NextOrderNumber", ctx, mockTx).Return(int64(7), nil)
	mockProductRepo.On("ReserveStock", ctx, mockTx, productA, 3).Return("Wool Coat", 200000.0, nil)
	mockOrderRepo.On("CreateOrder", ctx, mockTx, mock.AnythingOfType("*model.Order")).Return(nil)
	mockOrderRepo.On("CreateOrderItems", ctx, mockTx, mock.AnythingOfType("[]model.OrderItem")).Return(nil)
	mockOrderRepo.On("AppendStatusHistory", ctx, mockTx, mock.AnythingOfType("uuid.UUID"), mock.AnythingOfType("model.StatusChange")).Return(nil)
	mockTx.On("Commit", ctx).Return(nil)
	mockCartRepo.On("DeleteByUserID", ctx, principal.UserID).Return(nil)
	mockPublisher.On("Publish", ctx, mock.AnythingOfType("mail.Event")).Return(nil)

	order, err := svc.Checkout(ctx, principal, req)

	require.NoError(t, err)
	assert.Equal(t, 600000.0, order.Subtotal)
	assert.Equal(t, 0.0, order.ShippingFee)
	assert.Equal(t, 600000.0, order.Total)
}

func TestOrderService_Checkout_InsufficientStock(t *testing.T) {
	ctx := context.Background()
	principal := testPrincipal()
	productA := uuid.New()

	req := &model.CheckoutRequest{
		Items:           []model.CheckoutItem{{ProductID: productA.String(), Quantity: 5}},
		ShippingAddress: validShipping(),
		PaymentMethod:   model.PaymentCOD,
	}

	svc, mockOrderRepo, mockProductRepo, mockCartRepo, _ := newOrderServiceForTest()
	mockTx := new(MockTx)

	stockErr := model.NewInsufficientStockError("Linen Shirt", 2)
	mockOrderRepo.On("BeginTx", ctx).Return(mockTx, nil)
	mockOrderRepo.On("NextOrderNumber", ctx, mockTx).Return(int64(8), nil)
	mockProductRepo.On("ReserveStock", ctx, mockTx, productA, 5).Return("", 0.0, stockErr)
	mockTx.On("Rollback", ctx).Return(nil)

	order, err := svc.Checkout(ctx, principal, req)

	require.Error(t, err)
	assert.Nil(t, order)
	de, ok := model.AsDomainError(err)
	require.True(t, ok)
	assert.Equal(t, model.KindInsufficientStock, de.Kind)
	assert.Contains(t, de.Message, "Linen Shirt")
	assert.Contains(t, de.Message, "2 available")

	mockOrderRepo.AssertNotCalled(t, "CreateOrder", mock.Anything, mock.Anything, mock.Anything)
	mockCartRepo.AssertNotCalled(t, "DeleteByUserID", mock.Anything, mock.Anything)
	assert.True(t, mockTx.rolledBack)
}

func TestOrderService_Checkout_EmptyItems(t *testing.T) {
	ctx := context.Background()

	req := &model.CheckoutRequest{
		Items:           []model.CheckoutItem{},
		ShippingAddress: validShipping(),
		PaymentMethod:   model.PaymentCOD,
	}

	svc, mockOrderRepo, _, _, _ := newOrderServiceForTest()

	order, err := svc.Checkout(ctx, testPrincipal(), req)

	require.Error(t, err)
	assert.Nil(t, order)
	de, ok := model.AsDomainError(err)
	require.True(t, ok)
	assert.Equal(t, model.KindValidation, de.Kind)

	mockOrderRepo.AssertNotCalled(t, "BeginTx", mock.Anything)
}

func TestOrderService_Checkout_InvalidShippingAddress(t *testing.T) {
	ctx := context.Background()

	req := &model.CheckoutRequest{
		Items:           []model.CheckoutItem{{ProductID: uuid.NewString(), Quantity: 1}},
		ShippingAddress: model.ShippingAddress{FullName: "Jane Doe"},
		PaymentMethod:   model.PaymentCOD,
	}

	svc, mockOrderRepo, _, _, _ := newOrderServiceForTest()

	_, err := svc.Checkout(ctx, testPrincipal(), req)

	require.Error(t, err)
	de, ok := model.AsDomainError(err)
	require.True(t, ok)
	assert.Equal(t, model.KindValidation, de.Kind)
	mockOrderRepo.AssertNotCalled(t, "BeginTx", mock.Anything)
}

func TestOrderService_Checkout_UnknownPaymentMethod(t *testing.T) {
	ctx := context.Background()

	req := &model.CheckoutRequest{
		Items:           []model.CheckoutItem{{ProductID: uuid.NewString(), Quantity: 1}},
		ShippingAddress: validShipping(),
		PaymentMethod:   model.PaymentMethod("cheque"),
	}

	svc, mockOrderRepo, _, _, _ := newOrderServiceForTest()

	_, err := svc.Checkout(ctx, testPrincipal(), req)

	require.Error(t, err)
	de, ok := model.AsDomainError(err)
	require.True(t, ok)
	assert.Equal(t, model.KindValidation, de.Kind)
	mockOrderRepo.AssertNotCalled(t, "BeginTx", mock.Anything)
}

func TestOrderService_Checkout_CartClearFailureIsNotFatal(t *testing.T) {
	ctx := context.Background()
	principal := testPrincipal()
	productA := uuid.New()

	req := &model.CheckoutRequest{
		Items:           []model.CheckoutItem{{ProductID: productA.String(), Quantity: 1}},
		ShippingAddress: validShipping(),
		PaymentMethod:   model.PaymentEWallet,
	}

	svc, mockOrderRepo, mockProductRepo, mockCartRepo, mockPublisher := newOrderServiceForTest()
	mockTx := new(MockTx)

	mockOrderRepo.On("BeginTx", ctx).Return(mockTx, nil)
	mockOrderRepo.On("NextOrderNumber", ctx, mockTx).Return(int64(9), nil)
	mockProductRepo.On("ReserveStock", ctx, mockTx, productA, 1).Return("Silk Scarf", 50000.0, nil)
	mockOrderRepo.On("CreateOrder", ctx, mockTx, mock.AnythingOfType("*model.Order")).Return(nil)
	mockOrderRepo.On("CreateOrderItems", ctx, mockTx, mock.AnythingOfType("[]model.OrderItem")).Return(nil)
	mockOrderRepo.On("AppendStatusHistory", ctx, mockTx, mock.AnythingOfType("uuid.UUID"), mock.AnythingOfType("model.StatusChange")).Return(nil)
	mockTx.On("Commit", ctx).Return(nil)
	mockCartRepo.On("DeleteByUserID", ctx, principal.UserID).Return(errors.New("cart table hiccup"))
	mockPublisher.On("Publish", ctx, mock.AnythingOfType("mail.Event")).Return(errors.New("broker down"))

	order, err := svc.Checkout(ctx, principal, req)

	require.NoError(t, err)
	require.NotNil(t, order)
	mockCartRepo.AssertExpectations(t)
	mockPublisher.AssertExpectations(t)
}

func TestOrderService_Cancel_RestoresStock(t *testing.T) {
	ctx := context.Background()
	principal := testPrincipal()
	orderID := uuid.New()
	productA := uuid.New()
	productB := uuid.New()

	pending := &model.Order{
		ID:          orderID,
		OrderNumber: "ORD202608000042",
		UserID:      principal.UserID,
		Status:      model.StatusPending,
	}
	cancelled := &model.Order{
		ID:     orderID,
		UserID: principal.UserID,
		Status: model.StatusCancelled,
	}
	items := []model.OrderItem{
		{OrderID: orderID, ProductID: &productA, Quantity: 2},
		{OrderID: orderID, ProductID: &productB, Quantity: 1},
	}

	svc, mockOrderRepo, mockProductRepo, _, _ := newOrderServiceForTest()
	mockTx := new(MockTx)

	mockOrderRepo.On("BeginTx", ctx).Return(mockTx, nil)
	mockOrderRepo.On("GetForUpdate", ctx, mockTx, orderID, principal.UserID).Return(pending, nil)
	mockOrderRepo.On("UpdateStatus", ctx, mockTx, orderID, model.StatusCancelled, "changed my mind").Return(nil)
	mockOrderRepo.On("AppendStatusHistory", ctx, mockTx, orderID, mock.AnythingOfType("model.StatusChange")).Return(nil)
	mockOrderRepo.On("ListItems", ctx, mockTx, orderID).Return(items, nil)
	mockProductRepo.On("RestoreStock", ctx, mockTx, productA, 2).Return(nil).Once()
	mockProductRepo.On("RestoreStock", ctx, mockTx, productB, 1).Return(nil).Once()
	mockTx.On("Commit", ctx).Return(nil)
	mockOrderRepo.On("GetByIDForUser", ctx, orderID, principal.UserID).Return(cancelled, nil)

	order, err := svc.Cancel(ctx, principal, orderID, &model.CancelOrderRequest{Reason: "changed my mind"})

	require.NoError(t, err)
	assert.Equal(t, model.StatusCancelled, order.Status)
	mockOrderRepo.AssertExpectations(t)
	mockProductRepo.AssertExpectations(t)
	assert.True(t, mockTx.committed)
}

func TestOrderService_Cancel_NonOwnerSeesNotFound(t *testing.T) {
	ctx := context.Background()
	principal := testPrincipal()
	orderID := uuid.New()

	svc, mockOrderRepo, mockProductRepo, _, _ := newOrderServiceForTest()
	mockTx := new(MockTx)

	// The ownership filter makes someone else's order invisible.
	mockOrderRepo.On("BeginTx", ctx).Return(mockTx, nil)
	mockOrderRepo.On("GetForUpdate", ctx, mockTx, orderID, principal.UserID).Return(nil, nil)
	mockTx.On("Rollback", ctx).Return(nil)

	_, err := svc.Cancel(ctx, principal, orderID, &model.CancelOrderRequest{})

	require.Error(t, err)
	de, ok := model.AsDomainError(err)
	require.True(t, ok)
	assert.Equal(t, model.KindNotFound, de.Kind)
	mockProductRepo.AssertNotCalled(t, "RestoreStock", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestOrderService_Cancel_OnlyFromPending(t *testing.T) {
	ctx := context.Background()
	principal := testPrincipal()
	orderID := uuid.New()

	shipped := &model.Order{
		ID:          orderID,
		OrderNumber: "ORD202608000043",
		UserID:      principal.UserID,
		Status:      model.StatusShipping,
	}

	svc, mockOrderRepo, mockProductRepo, _, _ := newOrderServiceForTest()
	mockTx := new(MockTx)

	mockOrderRepo.On("BeginTx", ctx).Return(mockTx, nil)
	mockOrderRepo.On("GetForUpdate", ctx, mockTx, orderID, principal.UserID).Return(shipped, nil)
	mockTx.On("Rollback", ctx).Return(nil)

	_, err := svc.Cancel(ctx, principal, orderID, &model.CancelOrderRequest{})

	require.Error(t, err)
	de, ok := model.AsDomainError(err)
	require.True(t, ok)
	assert.Equal(t, model.KindInvalidState, de.Kind)
	mockOrderRepo.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	mockProductRepo.AssertNotCalled(t, "RestoreStock", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestOrderService_SetStatus_Delivered(t *testing.T) {
	ctx := context.Background()
	admin := model.Principal{UserID: uuid.New(), Roles: []model.Role{model.RoleAdmin}}
	orderID := uuid.New()

	shipping := &model.Order{
		ID:          orderID,
		OrderNumber: "ORD202608000044",
		Status:      model.StatusShipping,
	}
	delivered := &model.Order{
		ID:            orderID,
		Status:        model.StatusDelivered,
		PaymentStatus: model.PaymentPaid,
	}

	svc, mockOrderRepo, _, _, _ := newOrderServiceForTest()
	mockTx := new(MockTx)

	mockOrderRepo.On("BeginTx", ctx).Return(mockTx, nil)
	mockOrderRepo.On("GetForUpdate", ctx, mockTx, orderID, uuid.Nil).Return(shipping, nil)
	mockOrderRepo.On("UpdateStatus", ctx, mockTx, orderID, model.StatusDelivered, "").Return(nil)
	mockOrderRepo.On("AppendStatusHistory", ctx, mockTx, orderID, mock.MatchedBy(func(c model.StatusChange) bool {
		return c.Status == model.StatusDelivered && c.ActorID != nil && *c.ActorID == admin.UserID
	})).Return(nil)
	mockTx.On("Commit", ctx).Return(nil)
	mockOrderRepo.On("GetByID", ctx, orderID).Return(delivered, nil)

	order, err := svc.SetStatus(ctx, admin, orderID, &model.UpdateOrderStatusRequest{Status: model.StatusDelivered})

	require.NoError(t, err)
	assert.Equal(t, model.StatusDelivered, order.Status)
	assert.Equal(t, model.PaymentPaid, order.PaymentStatus)
	mockOrderRepo.AssertExpectations(t)
}

func TestOrderService_SetStatus_SameStatusAppendsHistory(t *testing.T) {
	ctx := context.Background()
	admin := model.Principal{UserID: uuid.New(), Roles: []model.Role{model.RoleAdmin}}
	orderID := uuid.New()

	confirmed := &model.Order{
		ID:          orderID,
		OrderNumber: "ORD202608000045",
		Status:      model.StatusConfirmed,
	}

	svc, mockOrderRepo, _, _, _ := newOrderServiceForTest()
	mockTx := new(MockTx)

	mockOrderRepo.On("BeginTx", ctx).Return(mockTx, nil)
	mockOrderRepo.On("GetForUpdate", ctx, mockTx, orderID, uuid.Nil).Return(confirmed, nil)
	mockOrderRepo.On("UpdateStatus", ctx, mockTx, orderID, model.StatusConfirmed, "").Return(nil)
	mockOrderRepo.On("AppendStatusHistory", ctx, mockTx, orderID, mock.MatchedBy(func(c model.StatusChange) bool {
		return c.Status == model.StatusConfirmed && c.ActorID != nil && *c.ActorID == admin.UserID
	})).Return(nil)
	mockTx.On("Commit", ctx).Return(nil)
	mockOrderRepo.On("GetByID", ctx, orderID).Return(confirmed, nil)

	order, err := svc.SetStatus(ctx, admin, orderID, &model.UpdateOrderStatusRequest{Status: model.StatusConfirmed})

	require.NoError(t, err)
	assert.Equal(t, model.StatusConfirmed, order.Status)
	mockOrderRepo.AssertExpectations(t)
}

func TestOrderService_SetStatus_RejectsUnknownStatus(t *testing.T) {
	ctx := context.Background()

	svc, mockOrderRepo, _, _, _ := newOrderServiceForTest()

	_, err := svc.SetStatus(ctx, testPrincipal(), uuid.New(), &model.UpdateOrderStatusRequest{Status: "teleported"})

	require.Error(t, err)
	de, ok := model.AsDomainError(err)
	require.True(t, ok)
	assert.Equal(t, model.KindValidation, de.Kind)
	mockOrderRepo.AssertNotCalled(t, "BeginTx", mock.Anything)
}

func TestOrderService_GetMine_NotFoundForNonOwner(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()
	orderID := uuid.New()

	svc, mockOrderRepo, _, _, _ := newOrderServiceForTest()
	mockOrderRepo.On("GetByIDForUser", ctx, orderID, userID).Return(nil, nil)

	_, err := svc.GetMine(ctx, userID, orderID)

	require.Error(t, err)
	de, ok := model.AsDomainError(err)
	require.True(t, ok)
	assert.Equal(t, model.KindNotFound, de.Kind)
}

func TestOrderService_ListMine_ClampsPagination(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	svc, mockOrderRepo, _, _, _ := newOrderServiceForTest()
	mockOrderRepo.On("ListByUser", ctx, userID, 1, 100).Return([]model.Order{}, int64(0), nil)

	orders, pagination, err := svc.ListMine(ctx, userID, 0, 500)

	require.NoError(t, err)
	assert.NotNil(t, orders)
	assert.Equal(t, 1, pagination.Page)
	assert.Equal(t, 100, pagination.Limit)
	mockOrderRepo.AssertExpectations(t)
}
