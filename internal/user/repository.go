package user

import (
	"context"
	"database/sql"
	"errors"

	"tokoria-be/internal/apperr"
	"tokoria-be/internal/logger"

	"github.com/lib/pq"
	"go.uber.org/zap"
)

type Repository interface {
	Create(ctx context.Context, u *User) error
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetProfile(ctx context.Context, userID uint) (*Profile, error)
	CreateProfile(ctx context.Context, p *Profile) (*Profile, error)
	UpdateProfile(ctx context.Context, params UpdateProfileParams) (*Profile, error)
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, u *User) error {
	query := `
		INSERT INTO users (email, password, role)
		VALUES ($1, $2, $3)
		RETURNING id
	`

	err := r.db.QueryRowContext(ctx, query, u.Email, u.Password, u.Role).Scan(&u.ID)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
			return apperr.New(apperr.CodeEmailAlreadyRegistered, "email already registered")
		}
		return err
	}
	return nil
}

func (r *repository) GetByEmail(ctx context.Context, email string) (*User, error) {
	query := `
		SELECT id, email, password, role
		FROM users
		WHERE email = $1
	`

	var u User
	err := r.db.QueryRowContext(ctx, query, email).
		Scan(&u.ID, &u.Email, &u.Password, &u.Role)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// GetProfile fetches a user's profile by user ID.
func (r *repository) GetProfile(ctx context.Context, userID uint) (*Profile, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "GetProfile"),
		zap.Uint("user_id", userID),
	)

	query := `
		SELECT p.id, p.user_id, p.full_name, p.phone, p.street, p.city,
			p.province, p.postal_code, p.created_at, p.updated_at, u.email
		FROM profiles p
		INNER JOIN users u ON p.user_id = u.id
		WHERE p.user_id = $1
	`
	row := r.db.QueryRowContext(ctx, query, userID)

	var p Profile
	err := row.Scan(
		&p.ID, &p.UserID, &p.FullName, &p.Phone, &p.Street, &p.City,
		&p.Province, &p.PostalCode, &p.CreatedAt, &p.UpdatedAt, &p.Email,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Info("profile not found")
			return nil, apperr.New(apperr.CodeUserProfileNotFound, "profile not found").
				With("user_id", userID)
		}
		log.Error("failed to scan profile", zap.Error(err))
		return nil, err
	}

	return &p, nil
}

// CreateProfile creates a new profile for a user.
func (r *repository) CreateProfile(ctx context.Context, p *Profile) (*Profile, error) {
	query := `
		INSERT INTO profiles (user_id, full_name, phone, street, city, province, postal_code)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at
	`
	err := r.db.QueryRowContext(ctx, query,
		p.UserID, p.FullName, p.Phone, p.Street, p.City, p.Province, p.PostalCode,
	).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return p, nil
}

// UpdateProfile updates an existing profile.
func (r *repository) UpdateProfile(ctx context.Context, params UpdateProfileParams) (*Profile, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "UpdateProfile"),
		zap.Uint("user_id", params.UserID),
	)

	// COALESCE keeps existing values when the input field is nil
	query := `
		UPDATE profiles
		SET full_name = COALESCE($2, full_name),
			phone = COALESCE($3, phone),
			street = COALESCE($4, street),
			city = COALESCE($5, city),
			province = COALESCE($6, province),
			postal_code = COALESCE($7, postal_code),
			updated_at = NOW()
		WHERE user_id = $1
		RETURNING id, user_id, full_name, phone, street, city, province, postal_code, created_at, updated_at
	`

	var p Profile
	err := r.db.QueryRowContext(ctx, query,
		params.UserID, params.FullName, params.Phone, params.Street,
		params.City, params.Province, params.PostalCode,
	).Scan(
		&p.ID, &p.UserID, &p.FullName, &p.Phone, &p.Street, &p.City,
		&p.Province, &p.PostalCode, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.New(apperr.CodeUserProfileNotFound, "profile not found").
				With("user_id", params.UserID)
		}
		log.Error("failed to update profile", zap.Error(err))
		return nil, err
	}

	return &p, nil
}
