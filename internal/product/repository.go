package product

import (
	"context"
	"database/sql"
	"errors"
)

type Repository interface {
	GetVariantByID(ctx context.Context, opts GetVariantOptions) (*Variant, error)
	ListVariants(ctx context.Context, limit, offset int32) ([]*Variant, error)
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

func (r *repository) GetVariantByID(ctx context.Context, opts GetVariantOptions) (*Variant, error) {
	query := `
		SELECT v.id, v.product_id, p.name, v.name, v.price, v.stock, v.image_url, v.active
		FROM variants v
		INNER JOIN products p ON p.id = v.product_id
		WHERE v.id = $1
	`
	args := []any{opts.VariantID}
	if opts.OnlyActive {
		query += " AND v.active = TRUE"
	}

	var v Variant
	err := r.db.QueryRowContext(ctx, query, args...).Scan(
		&v.ID, &v.ProductID, &v.ProductName, &v.Name,
		&v.Price, &v.Stock, &v.ImageURL, &v.Active,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func (r *repository) ListVariants(ctx context.Context, limit, offset int32) ([]*Variant, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	query := `
		SELECT v.id, v.product_id, p.name, v.name, v.price, v.stock, v.image_url, v.active
		FROM variants v
		INNER JOIN products p ON p.id = v.product_id
		WHERE v.active = TRUE
		ORDER BY p.name, v.name
		LIMIT $1 OFFSET $2
	`

	rows, err := r.db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var variants []*Variant
	for rows.Next() {
		var v Variant
		if err := rows.Scan(
			&v.ID, &v.ProductID, &v.ProductName, &v.Name,
			&v.Price, &v.Stock, &v.ImageURL, &v.Active,
		); err != nil {
			return nil, err
		}
		variants = append(variants, &v)
	}

	return variants, rows.Err()
}
