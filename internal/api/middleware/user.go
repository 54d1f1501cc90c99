package middleware

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/lexikon/lexikon-api/internal/api/shared"
)

// UserIDHeader is the header the presentation layer uses to identify the
// requesting user. Authentication itself happens upstream and is out of
// scope here; this middleware only makes the identity available to
// handlers.
const UserIDHeader = "X-User-ID"

// RequireUserID extracts the user ID from the request header and stores it
// in the context. Requests without a valid UUID are rejected with 400.
func RequireUserID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw := r.Header.Get(UserIDHeader)
		if raw == "" {
			shared.RespondWithError(w, r, http.StatusBadRequest, "Missing "+UserIDHeader+" header")
			return
		}

		userID, err := uuid.Parse(raw)
		if err != nil || userID == uuid.Nil {
			shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid "+UserIDHeader+" header")
			return
		}

		ctx := context.WithValue(r.Context(), shared.UserIDContextKey, userID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
