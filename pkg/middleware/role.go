package middleware

import (
	"net/http"
	"slices"

	"github.com/sirupsen/logrus"

	"github.com/vfg2006/rental-analytics/internal/domain"
	"github.com/vfg2006/rental-analytics/pkg/apiErrors"
)

// RoleMiddleware restringe o acesso aos papéis informados
func RoleMiddleware(allowedRoles ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, ok := ClaimsFromContext(r.Context())
			if !ok {
				logrus.Warning("Tentativa de acesso sem autenticação")
				apiErrors.WriteError(w, apiErrors.ErrInvalidToken, "Usuário não autenticado", nil)
				return
			}

			if !slices.Contains(allowedRoles, claims.Role) {
				logrus.Warningf("Acesso negado para %s, papel=%s", claims.Name, claims.Role)
				apiErrors.WriteError(w, apiErrors.ErrInsufficientPrivilege, "Você não tem permissão para acessar este recurso", nil)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// AdminOnly permite acesso apenas para administradores
func AdminOnly() func(http.Handler) http.Handler {
	return RoleMiddleware(domain.RoleAdmin)
}

// AnalystOrAdmin permite acesso aos relatórios
func AnalystOrAdmin() func(http.Handler) http.Handler {
	return RoleMiddleware(domain.RoleAnalyst, domain.RoleAdmin)
}
