package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	"github.com/noah-isme/makeup-api/internal/models"
	appErrors "github.com/noah-isme/makeup-api/pkg/errors"
)

// IdentityConfig describes how session tokens from the identity provider are verified.
type IdentityConfig struct {
	Secret string
	Issuer string
}

type accountResolver interface {
	Resolve(ctx context.Context, email, name string) (*models.Principal, error)
}

// IdentityService turns a provider session token into a principal.
type IdentityService struct {
	cfg      IdentityConfig
	accounts accountResolver
	logger   *zap.Logger
}

// NewIdentityService constructs the service.
func NewIdentityService(cfg IdentityConfig, accounts accountResolver, logger *zap.Logger) *IdentityService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &IdentityService{cfg: cfg, accounts: accounts, logger: logger}
}

// ValidateToken verifies the HS256 signature, expiry and issuer and returns the claims.
func (s *IdentityService) ValidateToken(tokenString string) (*models.SessionClaims, error) {
	opts := []jwt.ParserOption{jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()})}
	if s.cfg.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(s.cfg.Issuer))
	}
	token, err := jwt.ParseWithClaims(tokenString, &models.SessionClaims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.cfg.Secret), nil
	}, opts...)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrUnauthenticated.Code, appErrors.ErrUnauthenticated.Status, "invalid session token")
	}

	claims, ok := token.Claims.(*models.SessionClaims)
	if !ok || !token.Valid {
		return nil, appErrors.Clone(appErrors.ErrUnauthenticated, "invalid session claims")
	}
	claims.Email = strings.TrimSpace(claims.Email)
	if claims.Email == "" {
		return nil, appErrors.Clone(appErrors.ErrUnauthenticated, "session carries no email")
	}
	return claims, nil
}

// Authenticate validates the token and resolves the caller's account type.
func (s *IdentityService) Authenticate(ctx context.Context, tokenString string) (*models.Principal, error) {
	claims, err := s.ValidateToken(tokenString)
	if err != nil {
		return nil, err
	}
	return s.accounts.Resolve(ctx, claims.Email, claims.Name)
}
