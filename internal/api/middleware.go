package api

import (
	"context"
	"net/http"
	"strings"

	"github.com/bumpbuddy/backend/internal/auth"
	"github.com/bumpbuddy/backend/internal/domain"
)

type contextKey string

const userContextKey contextKey = "currentUser"

// requireAuth verifies the bearer token and loads the account it names into
// the request context. The token is otherwise opaque to handlers.
func (a *API) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if header == "" || !strings.HasPrefix(header, "Bearer ") {
			respondError(w, auth.ErrInvalidToken)
			return
		}

		email, err := a.tokens.Verify(strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			respondError(w, err)
			return
		}

		user, err := a.store.GetUserByEmail(r.Context(), email)
		if err != nil {
			// A valid token for a deleted account is still a rejection.
			respondError(w, auth.ErrInvalidToken)
			return
		}

		ctx := context.WithValue(r.Context(), userContextKey, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// currentUser returns the authenticated account requireAuth stored.
func currentUser(r *http.Request) *domain.User {
	user, _ := r.Context().Value(userContextKey).(*domain.User)
	return user
}
