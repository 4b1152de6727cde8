package order

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"tokoria-be/internal/apperr"
	"tokoria-be/internal/logger"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type Repository interface {
	// CreateOrderTx persists the order, its line items, the conditional
	// stock decrements and the cart wipe in a single transaction.
	CreateOrderTx(ctx context.Context, o *Order) error
	GetByID(ctx context.Context, id uuid.UUID) (*Order, error)
	GetByGatewayRef(ctx context.Context, ref string) (*Order, error)
	FetchOrders(ctx context.Context, userID uint, isAdmin bool, filter *FilterInput, limit, offset int32) ([]*Order, error)
	CountOrders(ctx context.Context, userID uint, isAdmin bool, filter *FilterInput) (int64, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status Status, reason *string) error
	SavePaymentSession(ctx context.Context, id uuid.UUID, checkoutURL, gatewayRef string) error
	RestoreStock(ctx context.Context, items []LineItem) error
	CompensateStock(ctx context.Context, items []LineItem) error
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

func (r *repository) CreateOrderTx(ctx context.Context, o *Order) error {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "CreateOrderTx"),
		zap.String("order_code", o.OrderCode),
		zap.Int("item_count", len(o.Items)),
	)

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		log.Error("failed to begin transaction", zap.Error(err))
		return err
	}

	committed := false
	defer func() {
		if !committed {
			if rbErr := tx.Rollback(); rbErr != nil {
				log.Error("failed to rollback transaction", zap.Error(rbErr))
			}
		}
	}()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO orders (
			id, order_code, user_id, shipping_address, payment_method,
			shipping_method, status, note, total_amount, created_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
	`,
		o.ID, o.OrderCode, o.UserID, o.ShippingAddress, o.PaymentMethod,
		o.ShippingMethod, o.Status, o.Note, o.TotalAmount, o.CreatedAt,
	)
	if err != nil {
		log.Error("failed to insert order", zap.Error(err))
		return err
	}

	for i, item := range o.Items {
		// the conditional decrement re-validates sufficiency at commit
		// time; a concurrent checkout that got there first makes this a
		// zero-row update instead of driving stock negative
		res, err := tx.ExecContext(ctx, `
			UPDATE variants
			SET stock = stock - $1
			WHERE id = $2 AND stock >= $1
		`, item.Quantity, item.VariantID)
		if err != nil {
			log.Error("failed to reserve stock",
				zap.Int("item_index", i),
				zap.String("variant_id", item.VariantID),
				zap.Error(err),
			)
			return err
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if affected == 0 {
			log.Warn("stock reservation lost race",
				zap.String("variant_id", item.VariantID),
				zap.Int("quantity", item.Quantity),
			)
			return apperr.New(apperr.CodeInsufficientStock, "insufficient stock").
				With("variant_id", item.VariantID).
				With("requested", item.Quantity)
		}

		_, err = tx.ExecContext(ctx, `
			INSERT INTO order_items (
				order_id, variant_id, variant_name, product_name,
				quantity, unit_price, subtotal
			) VALUES ($1,$2,$3,$4,$5,$6,$7)
		`,
			o.ID, item.VariantID, item.VariantName, item.ProductName,
			item.Quantity, item.UnitPrice, item.Subtotal,
		)
		if err != nil {
			log.Error("failed to insert order item",
				zap.Int("item_index", i),
				zap.Error(err),
			)
			return err
		}
	}

	// the cart is consumed by the same commit that creates the order
	if _, err := tx.ExecContext(ctx, `
		DELETE FROM cart_items WHERE user_id = $1
	`, o.UserID); err != nil {
		log.Error("failed to clear cart", zap.Error(err))
		return err
	}

	if err := tx.Commit(); err != nil {
		log.Error("failed to commit order transaction", zap.Error(err))
		return err
	}

	committed = true
	log.Info("order committed", zap.Int64("total_amount", o.TotalAmount))
	return nil
}

const orderColumns = `
	id, order_code, user_id, shipping_address, payment_method,
	shipping_method, status, note, checkout_url, gateway_ref,
	cancel_reason, total_amount, created_at, updated_at
`

func (r *repository) scanOrder(row *sql.Row) (*Order, error) {
	var o Order
	err := row.Scan(
		&o.ID, &o.OrderCode, &o.UserID, &o.ShippingAddress, &o.PaymentMethod,
		&o.ShippingMethod, &o.Status, &o.Note, &o.CheckoutURL, &o.GatewayRef,
		&o.CancelReason, &o.TotalAmount, &o.CreatedAt, &o.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*Order, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+orderColumns+` FROM orders WHERE id = $1`, id)

	o, err := r.scanOrder(row)
	if err != nil || o == nil {
		return o, err
	}
	if err := r.loadItems(ctx, o); err != nil {
		return nil, err
	}
	return o, nil
}

func (r *repository) GetByGatewayRef(ctx context.Context, ref string) (*Order, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+orderColumns+` FROM orders WHERE gateway_ref = $1`, ref)

	o, err := r.scanOrder(row)
	if err != nil || o == nil {
		return o, err
	}
	if err := r.loadItems(ctx, o); err != nil {
		return nil, err
	}
	return o, nil
}

func (r *repository) loadItems(ctx context.Context, o *Order) error {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, order_id, variant_id, variant_name, product_name,
			quantity, unit_price, subtotal
		FROM order_items
		WHERE order_id = $1
		ORDER BY id
	`, o.ID)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var item LineItem
		if err := rows.Scan(
			&item.ID, &item.OrderID, &item.VariantID, &item.VariantName,
			&item.ProductName, &item.Quantity, &item.UnitPrice, &item.Subtotal,
		); err != nil {
			return err
		}
		o.Items = append(o.Items, item)
	}
	return rows.Err()
}

func buildListQuery(base string, userID uint, isAdmin bool, filter *FilterInput) (string, []any) {
	query := base + ` WHERE 1=1`
	args := []any{}
	argIndex := 1

	if !isAdmin {
		query += fmt.Sprintf(" AND o.user_id = $%d", argIndex)
		args = append(args, userID)
		argIndex++
	}

	if filter != nil {
		if filter.Search != nil && *filter.Search != "" {
			query += fmt.Sprintf(" AND o.order_code ILIKE $%d", argIndex)
			args = append(args, "%"+*filter.Search+"%")
			argIndex++
		}
		if filter.Status != nil && *filter.Status != "" {
			query += fmt.Sprintf(" AND o.status = $%d", argIndex)
			args = append(args, *filter.Status)
			argIndex++
		}
		if filter.DateFrom != nil {
			query += fmt.Sprintf(" AND o.created_at >= $%d", argIndex)
			args = append(args, *filter.DateFrom)
			argIndex++
		}
		if filter.DateTo != nil {
			query += fmt.Sprintf(" AND o.created_at <= $%d", argIndex)
			args = append(args, *filter.DateTo)
			argIndex++
		}
	}

	return query, args
}

func (r *repository) FetchOrders(ctx context.Context, userID uint, isAdmin bool, filter *FilterInput, limit, offset int32) ([]*Order, error) {
	base := `
		SELECT o.id, o.order_code, o.user_id, o.status,
			o.payment_method, o.shipping_method, o.total_amount,
			o.created_at, o.updated_at
		FROM orders o
	`

	query, args := buildListQuery(base, userID, isAdmin, filter)
	query += fmt.Sprintf(" ORDER BY o.created_at DESC LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []*Order
	for rows.Next() {
		var o Order
		if err := rows.Scan(
			&o.ID, &o.OrderCode, &o.UserID, &o.Status,
			&o.PaymentMethod, &o.ShippingMethod, &o.TotalAmount,
			&o.CreatedAt, &o.UpdatedAt,
		); err != nil {
			return nil, err
		}
		orders = append(orders, &o)
	}
	return orders, rows.Err()
}

func (r *repository) CountOrders(ctx context.Context, userID uint, isAdmin bool, filter *FilterInput) (int64, error) {
	query, args := buildListQuery(`SELECT COUNT(*) FROM orders o`, userID, isAdmin, filter)

	var total int64
	err := r.db.QueryRowContext(ctx, query, args...).Scan(&total)
	return total, err
}

func (r *repository) UpdateStatus(ctx context.Context, id uuid.UUID, status Status, reason *string) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE orders
		SET status = $2, cancel_reason = COALESCE($3, cancel_reason), updated_at = NOW()
		WHERE id = $1
	`, id, status, reason)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return apperr.New(apperr.CodeOrderNotFound, "order not found").
			With("order_id", id.String())
	}
	return nil
}

func (r *repository) SavePaymentSession(ctx context.Context, id uuid.UUID, checkoutURL, gatewayRef string) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE orders
		SET checkout_url = $2, gateway_ref = $3, updated_at = NOW()
		WHERE id = $1
	`, id, checkoutURL, gatewayRef)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return apperr.New(apperr.CodeOrderNotFound, "order not found").
			With("order_id", id.String())
	}
	return nil
}

// RestoreStock gives reserved quantities back to the variants of a
// cancelled order.
func (r *repository) RestoreStock(ctx context.Context, items []LineItem) error {
	return r.adjustStock(ctx, items, +1)
}

// CompensateStock re-applies the reservation after a failed upstream
// cancellation, returning stock to its pre-restore state. Unlike the
// checkout decrement it is unconditional: it only ever takes back
// quantities this order restored moments earlier.
func (r *repository) CompensateStock(ctx context.Context, items []LineItem) error {
	return r.adjustStock(ctx, items, -1)
}

func (r *repository) adjustStock(ctx context.Context, items []LineItem, sign int) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	for _, item := range items {
		if _, err := tx.ExecContext(ctx, `
			UPDATE variants SET stock = stock + $1 WHERE id = $2
		`, sign*item.Quantity, item.VariantID); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}
