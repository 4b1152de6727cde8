package user

import (
	"context"
	"strings"

	"tokoria-be/internal/apperr"
	"tokoria-be/internal/logger"

	"go.uber.org/zap"
)

type Service interface {
	Register(ctx context.Context, email, password string) (*User, error)
	Login(ctx context.Context, email, password string) (string, *User, error)
	GetProfile(ctx context.Context, userID uint) (*Profile, error)
	UpdateProfile(ctx context.Context, params UpdateProfileParams) (*Profile, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) Register(ctx context.Context, email, password string) (*User, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" || len(password) < 8 {
		return nil, apperr.New(apperr.CodeInvalidInput, "email and a password of at least 8 characters are required")
	}

	hash, err := HashPassword(password)
	if err != nil {
		return nil, err
	}

	u := &User{Email: email, Password: hash, Role: RoleUser}
	if err := s.repo.Create(ctx, u); err != nil {
		return nil, err
	}

	// every user gets an empty profile to fill in before checkout
	if _, err := s.repo.CreateProfile(ctx, &Profile{UserID: u.ID}); err != nil {
		logger.FromCtx(ctx).Error("failed to create initial profile",
			zap.Uint("user_id", u.ID),
			zap.Error(err),
		)
		return nil, err
	}

	return u, nil
}

func (s *service) Login(ctx context.Context, email, password string) (string, *User, error) {
	email = strings.TrimSpace(strings.ToLower(email))

	u, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		return "", nil, err
	}
	if u == nil || !CheckPasswordHash(password, u.Password) {
		return "", nil, apperr.New(apperr.CodeInvalidCredentials, "invalid email or password")
	}

	token, err := GenerateJWT(u.ID, string(u.Role), u.Email)
	if err != nil {
		return "", nil, err
	}

	return token, u, nil
}

func (s *service) GetProfile(ctx context.Context, userID uint) (*Profile, error) {
	return s.repo.GetProfile(ctx, userID)
}

func (s *service) UpdateProfile(ctx context.Context, params UpdateProfileParams) (*Profile, error) {
	return s.repo.UpdateProfile(ctx, params)
}
