package middleware

import (
	"context"
	"net/http"
	"strings"

	"homebound-backend/internal/auth"
	"homebound-backend/internal/transport"
)

// Resolver turns a raw bearer token into a verified principal. The
// implementation re-reads the user record, so tokens for deleted
// accounts stop working immediately.
type Resolver interface {
	Resolve(ctx context.Context, token string) (*auth.Principal, error)
}

type principalKey struct{}

func Auth(resolver Resolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)
			if token == "" {
				transport.WriteError(w, http.StatusUnauthorized, "missing bearer token", nil)
				return
			}

			principal, err := resolver.Resolve(r.Context(), token)
			if err != nil {
				transport.WriteError(w, http.StatusUnauthorized, "could not validate credentials", nil)
				return
			}

			ctx := context.WithValue(r.Context(), principalKey{}, principal)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		principal := PrincipalFromContext(r.Context())
		if !principal.IsAdmin() {
			transport.WriteError(w, http.StatusForbidden, "admin access required", nil)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func PrincipalFromContext(ctx context.Context) *auth.Principal {
	if v := ctx.Value(principalKey{}); v != nil {
		if p, ok := v.(*auth.Principal); ok {
			return p
		}
	}
	return nil
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
