package auth

import (
	"context"

	"github.com/tallyhq/tally/internal/models"
)

// Authenticator abstracts over authentication methods so the HTTP layer
// does not care whether credentials are passwords, OAuth tokens, or
// something else.
type Authenticator interface {
	// Register creates a new user account with the given credential.
	Register(ctx context.Context, email, displayName, credential string) (*models.User, error)

	// Authenticate verifies the credentials and returns the user if valid.
	Authenticate(ctx context.Context, email, credential string) (*models.User, error)

	// ValidateCredential checks whether the credential meets the
	// implementation's requirements before any account is touched.
	ValidateCredential(credential string) error
}
