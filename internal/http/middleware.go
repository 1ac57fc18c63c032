package http

import (
	"net/http"
	"strings"

	"github.com/budgie-app/budgie/internal/http/respond"
)

// TokenVerifier checks a bearer token and returns its subject.
// *auth.Service satisfies it.
type TokenVerifier interface {
	Verify(token string) (string, error)
}

// requireAuth rejects requests without a valid bearer token.
func requireAuth(verifier TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")

			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || token == "" {
				respond.Error(w, http.StatusUnauthorized, "Unauthorized")
				return
			}

			if _, err := verifier.Verify(token); err != nil {
				respond.Error(w, http.StatusUnauthorized, "Unauthorized")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
