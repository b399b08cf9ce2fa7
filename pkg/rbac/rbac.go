// Package rbac provides role-based access control middleware.
package rbac

import (
	"net/http"

	"github.com/shashiranjanraj/cakeshop/pkg/auth"
	"github.com/shashiranjanraj/cakeshop/pkg/response"
)

// HasRole returns middleware that allows access only to users with one of
// the given roles. middleware.Auth must run first.
func HasRole(roles ...string) func(http.Handler) http.Handler {
	allowed := make(map[string]bool, len(roles))
	for _, r := range roles {
		allowed[r] = true
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, ok := auth.IdentityFrom(r.Context())
			if !ok {
				response.Unauthorized(w, "Not authenticated")
				return
			}
			if !allowed[id.Role] {
				response.Forbidden(w, "Admin only")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireAdmin is HasRole(auth.RoleAdmin).
func RequireAdmin(next http.Handler) http.Handler {
	return HasRole(auth.RoleAdmin)(next)
}
