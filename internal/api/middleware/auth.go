package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/agrienhance/farmplot/internal/domain"
)

type contextKey string

const tenantContextKey contextKey = "tenant"

// TenantFromContext returns the authenticated tenant, or nil outside the
// authenticated route tree.
func TenantFromContext(ctx context.Context) *domain.Tenant {
	t, _ := ctx.Value(tenantContextKey).(*domain.Tenant)
	return t
}

// TenantAuthenticator resolves a presented API key to its tenant.
type TenantAuthenticator interface {
	Authenticate(ctx context.Context, apiKey string) (*domain.Tenant, error)
}

// APIKeyAuth authenticates requests with "Authorization: Bearer <api key>"
// and stores the resolved tenant in the request context. Every failure mode
// answers 401 without distinguishing unknown from malformed keys.
func APIKeyAuth(auth TenantAuthenticator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				writeUnauthorized(w, r, "missing authorization header")
				return
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
				writeUnauthorized(w, r, "invalid authorization header format")
				return
			}

			tenant, err := auth.Authenticate(r.Context(), parts[1])
			if err != nil {
				writeUnauthorized(w, r, "invalid API key")
				return
			}

			ctx := context.WithValue(r.Context(), tenantContextKey, tenant)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func writeUnauthorized(w http.ResponseWriter, r *http.Request, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"timestamp": time.Now().UTC(),
		"status":    http.StatusUnauthorized,
		"error":     http.StatusText(http.StatusUnauthorized),
		"message":   msg,
		"path":      r.URL.Path,
	})
}
