package authenticating

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/pkg/errors"

	"github.com/vfg2006/rental-analytics/internal/config"
	"github.com/vfg2006/rental-analytics/internal/domain"
)

// Authenticator emite e valida os tokens de acesso à API
type Authenticator interface {
	GenerateToken(name, role string, ttl time.Duration) (string, error)
	ValidateToken(tokenString string) (*domain.Claims, error)
}

type Service struct {
	secret []byte
	now    func() time.Time
}

func NewService(cfg config.Auth) *Service {
	return &Service{
		secret: []byte(cfg.Secret),
		now:    time.Now,
	}
}

func validRole(role string) bool {
	return role == domain.RoleAdmin || role == domain.RoleAnalyst
}

func (s *Service) GenerateToken(name, role string, ttl time.Duration) (string, error) {
	if len(s.secret) == 0 {
		return "", ErrAuthDisabled
	}
	if !validRole(role) {
		return "", errors.Wrapf(ErrInvalidRole, "%q", role)
	}

	now := s.now()
	claims := domain.Claims{
		Name: name,
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   name,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

func (s *Service) ValidateToken(tokenString string) (*domain.Claims, error) {
	if len(s.secret) == 0 {
		return nil, ErrAuthDisabled
	}

	token, err := jwt.ParseWithClaims(tokenString, &domain.Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	}, jwt.WithTimeFunc(s.now))
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*domain.Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	if !validRole(claims.Role) {
		return nil, errors.Wrapf(ErrInvalidRole, "%q", claims.Role)
	}

	return claims, nil
}
