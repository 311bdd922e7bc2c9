package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/tallyhq/tally/internal/auth"
	"github.com/tallyhq/tally/internal/models"
	"github.com/tallyhq/tally/internal/storage"
)

// AuthService wires an Authenticator and a JWT manager into the account
// operations the HTTP layer exposes.
type AuthService struct {
	authenticator auth.Authenticator
	tokens        *auth.JWTManager
	store         storage.Store
}

// NewAuthService creates a new AuthService.
func NewAuthService(authenticator auth.Authenticator, tokens *auth.JWTManager, store storage.Store) *AuthService {
	return &AuthService{
		authenticator: authenticator,
		tokens:        tokens,
		store:         store,
	}
}

// Register creates a new account and returns the user with a session
// token.
func (s *AuthService) Register(ctx context.Context, email, displayName, password string) (*models.User, string, error) {
	user, err := s.authenticator.Register(ctx, email, displayName, password)
	if err != nil {
		return nil, "", err
	}

	token, err := s.tokens.Generate(user)
	if err != nil {
		return nil, "", err
	}
	slog.Info("user registered", "user_id", user.ID, "email", user.Email)
	return user, token, nil
}

// Login verifies the credentials and returns the user with a session
// token.
func (s *AuthService) Login(ctx context.Context, email, password string) (*models.User, string, error) {
	user, err := s.authenticator.Authenticate(ctx, email, password)
	if err != nil {
		return nil, "", err
	}

	token, err := s.tokens.Generate(user)
	if err != nil {
		return nil, "", err
	}
	slog.Info("user logged in", "user_id", user.ID)
	return user, token, nil
}

// CurrentUser loads the account behind an authenticated request.
func (s *AuthService) CurrentUser(ctx context.Context, userID string) (*models.User, error) {
	user, err := s.store.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, fmt.Errorf("%w: user %s", storage.ErrNotFound, userID)
	}
	return user, nil
}
