package cart

import (
	"context"
	"database/sql"
	"errors"
)

type Repository interface {
	GetByUserID(ctx context.Context, userID uint) (*Cart, error)
	GetItem(ctx context.Context, userID uint, variantID string) (*CartItem, error)
	UpsertItem(ctx context.Context, params AddItemParams) (*CartItem, error)
	UpdateQuantity(ctx context.Context, params UpdateQuantityParams) error
	RemoveItem(ctx context.Context, userID uint, variantID string) error
	Clear(ctx context.Context, userID uint) error
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

// GetByUserID returns nil when the user has no cart items at all.
func (r *repository) GetByUserID(ctx context.Context, userID uint) (*Cart, error) {
	query := `
		SELECT c.id, c.variant_id, c.quantity, c.created_at, c.updated_at,
			v.name, p.name, v.price, v.stock
		FROM cart_items c
		INNER JOIN variants v ON v.id = c.variant_id
		INNER JOIN products p ON p.id = v.product_id
		WHERE c.user_id = $1
		ORDER BY c.created_at
	`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	cart := &Cart{UserID: userID}
	for rows.Next() {
		var item CartItem
		if err := rows.Scan(
			&item.ID, &item.VariantID, &item.Quantity, &item.CreatedAt, &item.UpdatedAt,
			&item.VariantName, &item.ProductName, &item.UnitPrice, &item.Stock,
		); err != nil {
			return nil, err
		}
		cart.Items = append(cart.Items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if len(cart.Items) == 0 {
		return nil, nil
	}
	return cart, nil
}

func (r *repository) GetItem(ctx context.Context, userID uint, variantID string) (*CartItem, error) {
	query := `
		SELECT id, variant_id, quantity, created_at, updated_at
		FROM cart_items
		WHERE user_id = $1 AND variant_id = $2
	`

	var item CartItem
	err := r.db.QueryRowContext(ctx, query, userID, variantID).Scan(
		&item.ID, &item.VariantID, &item.Quantity, &item.CreatedAt, &item.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *repository) UpsertItem(ctx context.Context, params AddItemParams) (*CartItem, error) {
	query := `
		INSERT INTO cart_items (user_id, variant_id, quantity)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id, variant_id)
		DO UPDATE SET quantity = cart_items.quantity + EXCLUDED.quantity, updated_at = NOW()
		RETURNING id, variant_id, quantity, created_at, updated_at
	`

	var item CartItem
	err := r.db.QueryRowContext(ctx, query, params.UserID, params.VariantID, params.Quantity).
		Scan(&item.ID, &item.VariantID, &item.Quantity, &item.CreatedAt, &item.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *repository) UpdateQuantity(ctx context.Context, params UpdateQuantityParams) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE cart_items
		SET quantity = $3, updated_at = NOW()
		WHERE user_id = $1 AND variant_id = $2
	`, params.UserID, params.VariantID, params.Quantity)
	return err
}

func (r *repository) RemoveItem(ctx context.Context, userID uint, variantID string) error {
	_, err := r.db.ExecContext(ctx, `
		DELETE FROM cart_items WHERE user_id = $1 AND variant_id = $2
	`, userID, variantID)
	return err
}

func (r *repository) Clear(ctx context.Context, userID uint) error {
	_, err := r.db.ExecContext(ctx, `
		DELETE FROM cart_items WHERE user_id = $1
	`, userID)
	return err
}
