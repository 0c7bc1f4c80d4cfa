package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/yigit/materias/internal/app/models"
	"github.com/yigit/materias/internal/app/models/dto"
	"github.com/yigit/materias/internal/pkg/apperrors"
	"github.com/yigit/materias/internal/pkg/auth"
	"github.com/yigit/materias/internal/pkg/logger"
)

// TokenIssuer signs access tokens
type TokenIssuer interface {
	GenerateAccessToken(user *models.User) (string, int64, error)
}

// AuthService handles authentication operations
type AuthService interface {
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, error)
}

type authServiceImpl struct {
	accounts AccountStore
	tokens   TokenIssuer
}

// NewAuthService creates a new AuthService
func NewAuthService(accounts AccountStore, tokens TokenIssuer) AuthService {
	return &authServiceImpl{
		accounts: accounts,
		tokens:   tokens,
	}
}

// Login checks the credentials and issues an access token. Unknown emails and wrong
// passwords are indistinguishable to the caller.
func (s *authServiceImpl) Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	user, err := s.accounts.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apperrors.ErrResourceNotFound) {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	if !auth.CheckPassword(user.Password, req.Password) {
		return nil, apperrors.ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, apperrors.ErrAccountDisabled
	}

	token, expiresIn, err := s.tokens.GenerateAccessToken(user)
	if err != nil {
		return nil, err
	}

	if err := s.accounts.UpdateLastLogin(ctx, user.ID); err != nil {
		logger.Warn().Err(err).Int64("userID", user.ID).Msg("Failed to record last login")
	}

	logger.Info().Int64("userID", user.ID).Str("role", string(user.RoleType)).Msg("User logged in")
	return &dto.AuthResponse{
		Token: dto.TokenResponse{
			AccessToken: token,
			TokenType:   "Bearer",
			ExpiresIn:   expiresIn,
		},
		User: dto.FromUser(user),
	}, nil
}
