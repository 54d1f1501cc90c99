package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lexikon/lexikon-api/internal/api/shared"
)

func TestRequireUserID(t *testing.T) {
	t.Parallel()

	validID := uuid.New()

	tests := []struct {
		name       string
		header     string
		wantStatus int
	}{
		{name: "valid user ID", header: validID.String(), wantStatus: http.StatusOK},
		{name: "missing header", header: "", wantStatus: http.StatusBadRequest},
		{name: "malformed UUID", header: "not-a-uuid", wantStatus: http.StatusBadRequest},
		{name: "nil UUID", header: uuid.Nil.String(), wantStatus: http.StatusBadRequest},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			var gotUserID uuid.UUID
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				gotUserID, _ = shared.UserIDFromContext(r.Context())
				w.WriteHeader(http.StatusOK)
			})

			r := httptest.NewRequest(http.MethodGet, "/decks", nil)
			if tc.header != "" {
				r.Header.Set(UserIDHeader, tc.header)
			}
			w := httptest.NewRecorder()

			RequireUserID(next).ServeHTTP(w, r)

			require.Equal(t, tc.wantStatus, w.Code)
			if tc.wantStatus == http.StatusOK {
				assert.Equal(t, validID, gotUserID)
			}
		})
	}
}

func TestTraceMiddlewareInjectsTraceID(t *testing.T) {
	t.Parallel()

	var gotTraceID string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotTraceID = shared.GetTraceID(r.Context())
		w.WriteHeader(http.StatusOK)
	})

	r := httptest.NewRequest(http.MethodGet, "/decks", nil)
	w := httptest.NewRecorder()

	NewTraceMiddleware(nil).Handler(next).ServeHTTP(w, r)

	assert.Len(t, gotTraceID, shared.TraceIDLength*2)
}
