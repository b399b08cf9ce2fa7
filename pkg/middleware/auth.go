package middleware

import (
	"context"
	"net/http"

	"github.com/shashiranjanraj/cakeshop/pkg/auth"
	"github.com/shashiranjanraj/cakeshop/pkg/response"
)

// Authenticator resolves an Authorization header to a live identity.
type Authenticator interface {
	Authenticate(ctx context.Context, header string) (auth.Identity, error)
}

// Auth rejects requests whose Authorization header does not resolve to a
// stored user and attaches the identity to the request context otherwise.
func Auth(a Authenticator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, err := a.Authenticate(r.Context(), r.Header.Get("Authorization"))
			if err != nil {
				response.Fail(w, err)
				return
			}

			next.ServeHTTP(w, r.WithContext(auth.WithIdentity(r.Context(), id)))
		})
	}
}
