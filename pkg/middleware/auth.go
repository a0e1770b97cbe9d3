package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"github.com/vfg2006/rental-analytics/internal/domain"
	"github.com/vfg2006/rental-analytics/internal/usecases/authenticating"
	"github.com/vfg2006/rental-analytics/pkg/apiErrors"
	"github.com/vfg2006/rental-analytics/pkg/log"
)

type contextKey string

const (
	ContextKeyUser contextKey = "user"
)

// TokenValidator valida o bearer token da requisição
type TokenValidator interface {
	ValidateToken(tokenString string) (*domain.Claims, error)
}

var publicPaths = map[string]struct{}{
	"/healthcheck": {},
}

// AuthMiddleware exige um bearer token válido em todas as rotas não públicas
func AuthMiddleware(validator TokenValidator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, public := publicPaths[r.URL.Path]; public {
				next.ServeHTTP(w, r)
				return
			}

			authHeader := r.Header.Get("Authorization")
			tokenString := strings.TrimPrefix(authHeader, "Bearer ")
			if authHeader == "" || tokenString == authHeader {
				apiErrors.WriteError(w, apiErrors.ErrInvalidToken, "Bearer token é obrigatório", nil)
				return
			}

			claims, err := validator.ValidateToken(tokenString)
			if err != nil {
				log.L.WithContext(r.Context()).WithError(err).Warn("Token rejeitado")

				switch {
				case errors.Is(err, authenticating.ErrAuthDisabled):
					apiErrors.WriteError(w, apiErrors.ErrAuthDisabled, "Autenticação não configurada", nil)
				case errors.Is(err, jwt.ErrTokenExpired):
					apiErrors.WriteError(w, apiErrors.ErrExpiredToken, "Token expirado", nil)
				default:
					apiErrors.WriteError(w, apiErrors.ErrInvalidToken, "Token inválido", nil)
				}
				return
			}

			ctx := context.WithValue(r.Context(), ContextKeyUser, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// ClaimsFromContext devolve as claims gravadas pelo AuthMiddleware
func ClaimsFromContext(ctx context.Context) (*domain.Claims, bool) {
	claims, ok := ctx.Value(ContextKeyUser).(*domain.Claims)
	return claims, ok
}
