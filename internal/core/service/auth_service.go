package service

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/shopverse/storefront/internal/core/domain"
	"github.com/shopverse/storefront/internal/core/ports"
)

// TokenSettings configures JWT issuance and verification. Secret must be
// non-empty; main refuses to start without it.
type TokenSettings struct {
	Secret   string
	Issuer   string
	Audience string
	TTL      time.Duration
}

// AuthService implements registration, login, and token verification.
type AuthService struct {
	repo   ports.AuthRepository
	tokens TokenSettings
}

func NewAuthService(repo ports.AuthRepository, tokens TokenSettings) *AuthService {
	if tokens.TTL <= 0 {
		tokens.TTL = 24 * time.Hour
	}
	return &AuthService{repo: repo, tokens: tokens}
}

func (s *AuthService) Register(ctx context.Context, input ports.RegisterInput) (*domain.User, error) {
	if input.Name == "" || input.Email == "" || input.Password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	role, err := domain.ParseRole(input.Role)
	if err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		Name:         input.Name,
		Email:        input.Email,
		PasswordHash: string(hash),
		Role:         role,
		CreatedAt:    time.Now().UTC(),
	}

	return s.repo.Create(ctx, user)
}

// Login verifies credentials and returns a signed token plus the user.
// Unknown email and wrong password are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, *domain.User, error) {
	if email == "" || password == "" {
		return "", nil, domain.ErrInvalidCredentials
	}

	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return "", nil, domain.ErrInvalidCredentials
		}
		return "", nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return "", nil, domain.ErrInvalidCredentials
	}

	token, err := s.issueToken(user)
	if err != nil {
		return "", nil, err
	}

	return token, user, nil
}

// userClaims embeds the registered claim set; the user id travels as the
// subject, matching how the verifier reads it back.
type userClaims struct {
	Name string `json:"name"`
	Role string `json:"role"`
	jwt.RegisteredClaims
}

func (s *AuthService) issueToken(user *domain.User) (string, error) {
	now := time.Now()
	claims := userClaims{
		Name: user.Name,
		Role: string(user.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			Issuer:    s.tokens.Issuer,
			Audience:  jwt.ClaimStrings{s.tokens.Audience},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.tokens.TTL)),
		},
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(s.tokens.Secret))
}

// Verify checks signature, issuer, audience, and expiry with zero clock-skew
// leeway. Any failure yields ErrInvalidCredentials.
func (s *AuthService) Verify(token string) (*ports.TokenClaims, error) {
	claims := &userClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return []byte(s.tokens.Secret), nil
	},
		jwt.WithIssuer(s.tokens.Issuer),
		jwt.WithAudience(s.tokens.Audience),
		jwt.WithExpirationRequired(),
	)
	if err != nil || !parsed.Valid {
		return nil, domain.ErrInvalidCredentials
	}

	role, err := domain.ParseRole(claims.Role)
	if err != nil {
		return nil, domain.ErrInvalidCredentials
	}
	if claims.Subject == "" {
		return nil, domain.ErrInvalidCredentials
	}

	return &ports.TokenClaims{
		UserID: claims.Subject,
		Name:   claims.Name,
		Role:   role,
	}, nil
}
