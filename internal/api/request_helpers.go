package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/lexikon/lexikon-api/internal/api/shared"
)

// decodeAndValidate decodes the JSON request body into v and runs struct
// validation. On failure it writes a 400 response and returns false; the
// caller should simply return. An empty body leaves v at its zero value,
// which lets optional payloads fall back to defaults.
func decodeAndValidate(w http.ResponseWriter, r *http.Request, validate *validator.Validate, v interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		if !errors.Is(err, io.EOF) {
			shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
			return false
		}
	}

	if err := validate.Struct(v); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request: "+err.Error())
		return false
	}

	return true
}

// requireUserID extracts the requesting user's ID from the context. A
// missing ID means the user middleware is not in front of the handler;
// respond with 500 rather than guessing an identity.
func requireUserID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	userID, ok := shared.UserIDFromContext(r.Context())
	if !ok {
		shared.RespondWithError(w, r, http.StatusInternalServerError, "User identity not found in request context")
		return uuid.Nil, false
	}
	return userID, true
}
