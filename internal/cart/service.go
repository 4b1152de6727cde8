package cart

import (
	"context"

	"tokoria-be/internal/apperr"
	"tokoria-be/internal/product"
)

// Service defines the business logic for carts.
type Service interface {
	AddItem(ctx context.Context, params AddItemParams) (*CartItem, error)
	GetCart(ctx context.Context, userID uint) (*Cart, error)
	UpdateQuantity(ctx context.Context, params UpdateQuantityParams) error
	RemoveItem(ctx context.Context, userID uint, variantID string) error
	Clear(ctx context.Context, userID uint) error
}

type service struct {
	repo        Repository
	productRepo product.Repository
}

func NewService(repo Repository, productRepo product.Repository) Service {
	return &service{repo: repo, productRepo: productRepo}
}

// AddItem stages a variant in the user's cart, merging with any
// existing line for the same variant. Stock is validated against the
// merged quantity; checkout re-validates it at commit time.
func (s *service) AddItem(ctx context.Context, params AddItemParams) (*CartItem, error) {
	if params.Quantity <= 0 {
		return nil, apperr.New(apperr.CodeInvalidInput, "quantity must be greater than zero")
	}

	variant, err := s.productRepo.GetVariantByID(ctx, product.GetVariantOptions{
		VariantID:  params.VariantID,
		OnlyActive: true,
	})
	if err != nil {
		return nil, err
	}
	if variant == nil {
		return nil, apperr.New(apperr.CodeProductVariantNotFound, "product variant not found").
			With("variant_id", params.VariantID)
	}

	existing, err := s.repo.GetItem(ctx, params.UserID, params.VariantID)
	if err != nil {
		return nil, err
	}

	finalQty := params.Quantity
	if existing != nil {
		finalQty += existing.Quantity
	}

	if variant.Stock < finalQty {
		return nil, apperr.New(apperr.CodeInsufficientStock, "insufficient stock").
			With("variant_id", params.VariantID).
			With("requested", finalQty).
			With("available", variant.Stock)
	}

	return s.repo.UpsertItem(ctx, params)
}

func (s *service) GetCart(ctx context.Context, userID uint) (*Cart, error) {
	cart, err := s.repo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if cart == nil {
		return &Cart{UserID: userID}, nil
	}
	return cart, nil
}

func (s *service) UpdateQuantity(ctx context.Context, params UpdateQuantityParams) error {
	if params.VariantID == "" {
		return apperr.New(apperr.CodeInvalidInput, "variant ID is required")
	}

	if params.Quantity <= 0 {
		// zero or negative quantity removes the line
		return s.repo.RemoveItem(ctx, params.UserID, params.VariantID)
	}

	variant, err := s.productRepo.GetVariantByID(ctx, product.GetVariantOptions{
		VariantID:  params.VariantID,
		OnlyActive: true,
	})
	if err != nil {
		return err
	}
	if variant == nil {
		return apperr.New(apperr.CodeProductVariantNotFound, "product variant not found").
			With("variant_id", params.VariantID)
	}
	if variant.Stock < params.Quantity {
		return apperr.New(apperr.CodeInsufficientStock, "insufficient stock").
			With("variant_id", params.VariantID).
			With("requested", params.Quantity).
			With("available", variant.Stock)
	}

	return s.repo.UpdateQuantity(ctx, params)
}

func (s *service) RemoveItem(ctx context.Context, userID uint, variantID string) error {
	if variantID == "" {
		return apperr.New(apperr.CodeInvalidInput, "variant ID is required")
	}
	return s.repo.RemoveItem(ctx, userID, variantID)
}

func (s *service) Clear(ctx context.Context, userID uint) error {
	return s.repo.Clear(ctx, userID)
}
