package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/fundbridge/fundbridge/application/port/outbound"
	"github.com/fundbridge/fundbridge/domain"
	"github.com/fundbridge/fundbridge/infrastructure/http/response"
)

type principalKey struct{}

// AuthMiddleware resolves the bearer token into a principal and enforces
// role capabilities. The engine behind it trusts the principal as given.
type AuthMiddleware struct {
	tokenService outbound.TokenService
}

func NewAuthMiddleware(tokenService outbound.TokenService) *AuthMiddleware {
	return &AuthMiddleware{tokenService: tokenService}
}

// RequireAuth rejects requests without a valid bearer token and stores the
// resolved principal in the request context.
func (m *AuthMiddleware) RequireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			response.Unauthorized(w, "Authorization header required")
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			response.Unauthorized(w, "Invalid authorization header format")
			return
		}

		token := parts[1]
		if token == "" {
			response.Unauthorized(w, "Token cannot be empty")
			return
		}

		principal, err := m.tokenService.Validate(token)
		if err != nil {
			response.Unauthorized(w, "Invalid or expired token")
			return
		}

		ctx := context.WithValue(r.Context(), principalKey{}, principal)
		next.ServeHTTP(w, r.WithContext(ctx))
	}
}

// Capability selects one check from the role policy.
type Capability func(domain.Policy) bool

var (
	CanInitiateTransfers Capability = domain.Policy.CanInitiateTransfers
	CanDecideApprovals   Capability = domain.Policy.CanDecideApprovals
	CanViewTransfers     Capability = domain.Policy.CanViewTransfers
	CanViewAuditTrail    Capability = domain.Policy.CanViewAuditTrail
)

// Require wraps RequireAuth with a capability check against the principal's
// role policy.
func (m *AuthMiddleware) Require(capability Capability, next http.HandlerFunc) http.HandlerFunc {
	return m.RequireAuth(func(w http.ResponseWriter, r *http.Request) {
		principal := GetPrincipal(r.Context())
		if principal == nil {
			response.Unauthorized(w, "Not authenticated")
			return
		}
		if !capability(domain.PolicyFor(principal.Role)) {
			response.Forbidden(w, "Insufficient role for this operation")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// GetPrincipal retrieves the authenticated principal from the context.
func GetPrincipal(ctx context.Context) *domain.Principal {
	if principal, ok := ctx.Value(principalKey{}).(*domain.Principal); ok {
		return principal
	}
	return nil
}
