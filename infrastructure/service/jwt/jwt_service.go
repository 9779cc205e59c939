package jwt

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/fundbridge/fundbridge/application/port/outbound"
	"github.com/fundbridge/fundbridge/domain"
)

// Service issues and validates HS256 access tokens carrying the principal.
type Service struct {
	secret []byte
	issuer string
	ttl    time.Duration
}

type claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// NewService creates a token service.
func NewService(secret, issuer string, ttl time.Duration) (outbound.TokenService, error) {
	if secret == "" {
		return nil, errors.New("jwt secret is required")
	}
	return &Service{secret: []byte(secret), issuer: issuer, ttl: ttl}, nil
}

// Issue signs an access token for the principal.
func (s *Service) Issue(principal domain.Principal) (string, int, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		Role: string(principal.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   principal.ID,
			Issuer:    s.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	})

	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", 0, fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, int(s.ttl.Seconds()), nil
}

// Validate parses a token and returns the principal it carries.
func (s *Service) Validate(tokenString string) (*domain.Principal, error) {
	token, err := jwt.ParseWithClaims(tokenString, &claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("invalid token: %w", err)
	}

	c, ok := token.Claims.(*claims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token claims")
	}
	return &domain.Principal{ID: c.Subject, Role: domain.Role(c.Role)}, nil
}
