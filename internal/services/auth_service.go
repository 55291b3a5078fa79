package services

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"tradelink-chat/config"
	"tradelink-chat/internal/repository"
	tradelink_errors "tradelink-chat/pkg/errors"
)

// AuthService is the thin shim over the upstream identity provider.
// Token issuance lives upstream; this service only verifies bearer
// tokens and resolves the identity they name.
type AuthService struct {
	identityRepo repository.IdentityRepository
	jwtSecret    []byte
}

func NewAuthService(identityRepo repository.IdentityRepository, cfg *config.Config) *AuthService {
	return &AuthService{
		identityRepo: identityRepo,
		jwtSecret:    []byte(cfg.JWTSecret),
	}
}

type AccessClaims struct {
	UserID   string `json:"sub"`
	Username string `json:"name"`
	jwt.RegisteredClaims
}

func (s *AuthService) ParseAccessToken(token string) (AccessClaims, error) {
	if token == "" {
		return AccessClaims{}, tradelink_errors.ErrUnauthorized
	}

	claims := AccessClaims{}
	parsed, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return s.jwtSecret, nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	if err != nil || !parsed.Valid {
		return AccessClaims{}, tradelink_errors.ErrUnauthorized
	}
	if claims.ExpiresAt != nil && claims.ExpiresAt.Before(time.Now()) {
		return AccessClaims{}, tradelink_errors.ErrUnauthorized
	}
	return claims, nil
}

// Authenticate verifies a bearer token and resolves it to a known user.
// A token naming an identity absent from the catalog is rejected.
func (s *AuthService) Authenticate(ctx context.Context, token string) (AuthUser, error) {
	claims, err := s.ParseAccessToken(token)
	if err != nil {
		return AuthUser{}, err
	}

	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		return AuthUser{}, tradelink_errors.ErrUnauthorized
	}

	u, err := s.identityRepo.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, tradelink_errors.ErrNotFound) {
			return AuthUser{}, tradelink_errors.ErrUnauthorized
		}
		return AuthUser{}, err
	}

	return AuthUser{ID: u.ID, Username: u.Username}, nil
}
