package cart

import (
	"context"
	"testing"

	"tokoria-be/internal/apperr"
	"tokoria-be/internal/product"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) GetByUserID(ctx context.Context, userID uint) (*Cart, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Cart), args.Error(1)
}

func (m *MockRepository) GetItem(ctx context.Context, userID uint, variantID string) (*CartItem, error) {
	args := m.Called(ctx, userID, variantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*CartItem), args.Error(1)
}

func (m *MockRepository) UpsertItem(ctx context.Context, params AddItemParams) (*CartItem, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*CartItem), args.Error(1)
}

func (m *MockRepository) UpdateQuantity(ctx context.Context, params UpdateQuantityParams) error {
	args := m.Called(ctx, params)
	return args.Error(0)
}

func (m *MockRepository) RemoveItem(ctx context.Context, userID uint, variantID string) error {
	args := m.Called(ctx, userID, variantID)
	return args.Error(0)
}

func (m *MockRepository) Clear(ctx context.Context, userID uint) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) GetVariantByID(ctx context.Context, opts product.GetVariantOptions) (*product.Variant, error) {
	args := m.Called(ctx, opts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*product.Variant), args.Error(1)
}

func (m *MockProductRepository) ListVariants(ctx context.Context, limit, offset int32) ([]*product.Variant, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*product.Variant), args.Error(1)
}

func TestService_AddItem(t *testing.T) {
	ctx := context.Background()
	userID := uint(1)

	variant := &product.Variant{ID: "var-1", Price: 100, Stock: 5, Active: true}

	t.Run("NewLine", func(t *testing.T) {
		mockRepo := new(MockRepository)
		mockProd := new(MockProductRepository)
		svc := NewService(mockRepo, mockProd)

		mockProd.On("GetVariantByID", ctx, product.GetVariantOptions{VariantID: "var-1", OnlyActive: true}).
			Return(variant, nil)
		mockRepo.On("GetItem", ctx, userID, "var-1").Return(nil, nil)
		mockRepo.On("UpsertItem", ctx, AddItemParams{UserID: userID, VariantID: "var-1", Quantity: 2}).
			Return(&CartItem{ID: 1, VariantID: "var-1", Quantity: 2}, nil)

		item, err := svc.AddItem(ctx, AddItemParams{UserID: userID, VariantID: "var-1", Quantity: 2})
		assert.NoError(t, err)
		assert.Equal(t, 2, item.Quantity)
		mockRepo.AssertExpectations(t)
	})

	t.Run("MergedQuantityExceedsStock", func(t *testing.T) {
		mockRepo := new(MockRepository)
		mockProd := new(MockProductRepository)
		svc := NewService(mockRepo, mockProd)

		mockProd.On("GetVariantByID", ctx, mock.Anything).Return(variant, nil)
		mockRepo.On("GetItem", ctx, userID, "var-1").Return(&CartItem{Quantity: 4}, nil)

		_, err := svc.AddItem(ctx, AddItemParams{UserID: userID, VariantID: "var-1", Quantity: 2})
		assert.True(t, apperr.IsCode(err, apperr.CodeInsufficientStock))
	})

	t.Run("VariantMissing", func(t *testing.T) {
		mockRepo := new(MockRepository)
		mockProd := new(MockProductRepository)
		svc := NewService(mockRepo, mockProd)

		mockProd.On("GetVariantByID", ctx, mock.Anything).Return(nil, nil)

		_, err := svc.AddItem(ctx, AddItemParams{UserID: userID, VariantID: "ghost", Quantity: 1})
		assert.True(t, apperr.IsCode(err, apperr.CodeProductVariantNotFound))
	})

	t.Run("ZeroQuantity", func(t *testing.T) {
		svc := NewService(new(MockRepository), new(MockProductRepository))

		_, err := svc.AddItem(ctx, AddItemParams{UserID: userID, VariantID: "var-1", Quantity: 0})
		assert.True(t, apperr.IsCode(err, apperr.CodeInvalidInput))
	})
}

func TestService_UpdateQuantity(t *testing.T) {
	ctx := context.Background()
	userID := uint(1)
	variant := &product.Variant{ID: "var-1", Price: 100, Stock: 5, Active: true}

	t.Run("ZeroRemovesLine", func(t *testing.T) {
		mockRepo := new(MockRepository)
		svc := NewService(mockRepo, new(MockProductRepository))

		mockRepo.On("RemoveItem", ctx, userID, "var-1").Return(nil)

		err := svc.UpdateQuantity(ctx, UpdateQuantityParams{UserID: userID, VariantID: "var-1", Quantity: 0})
		assert.NoError(t, err)
		mockRepo.AssertExpectations(t)
	})

	t.Run("ExceedsStock", func(t *testing.T) {
		mockRepo := new(MockRepository)
		mockProd := new(MockProductRepository)
		svc := NewService(mockRepo, mockProd)

		mockProd.On("GetVariantByID", ctx, mock.Anything).Return(variant, nil)

		err := svc.UpdateQuantity(ctx, UpdateQuantityParams{UserID: userID, VariantID: "var-1", Quantity: 9})
		assert.True(t, apperr.IsCode(err, apperr.CodeInsufficientStock))
	})

	t.Run("Success", func(t *testing.T) {
		mockRepo := new(MockRepository)
		mockProd := new(MockProductRepository)
		svc := NewService(mockRepo, mockProd)

		mockProd.On("GetVariantByID", ctx, mock.Anything).Return(variant, nil)
		mockRepo.On("UpdateQuantity", ctx, UpdateQuantityParams{UserID: userID, VariantID: "var-1", Quantity: 3}).Return(nil)

		err := svc.UpdateQuantity(ctx, UpdateQuantityParams{UserID: userID, VariantID: "var-1", Quantity: 3})
		assert.NoError(t, err)
	})
}

func TestService_GetCart_EmptyIsNotAnError(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockRepository)
	svc := NewService(mockRepo, new(MockProductRepository))

	mockRepo.On("GetByUserID", ctx, uint(1)).Return(nil, nil)

	cart, err := svc.GetCart(ctx, 1)
	assert.NoError(t, err)
	assert.Empty(t, cart.Items)
	assert.Equal(t, uint(1), cart.UserID)
}
