package ports

import (
	"context"

	"github.com/shopverse/storefront/internal/core/domain"
)

// RegisterInput carries the fields of a registration request.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
	Role     string
}

// TokenClaims is the verified identity extracted from a bearer token.
type TokenClaims struct {
	UserID string
	Name   string
	Role   domain.Role
}

// TokenVerifier validates a signed bearer token and returns its claims.
// Expired, malformed, or foreign-issued tokens yield an error, never a panic.
type TokenVerifier interface {
	Verify(token string) (*TokenClaims, error)
}

// AuthService defines registration, login, and token verification.
type AuthService interface {
	Register(ctx context.Context, input RegisterInput) (*domain.User, error)
	Login(ctx context.Context, email, password string) (string, *domain.User, error)
	TokenVerifier
}
