// Package httputil writes JSON responses and translates domain errors into
// the service's {"message": "..."} envelope.
package httputil

import (
	"encoding/json"
	"errors"
	"net/http"

	dErrors "storefront/pkg/domain-errors"
)

// MessageResponse is the envelope for both acknowledgements and errors.
type MessageResponse struct {
	Message string `json:"message"`
}

// WriteJSON encodes v with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteMessage writes a {"message": msg} body.
func WriteMessage(w http.ResponseWriter, status int, msg string) {
	WriteJSON(w, status, MessageResponse{Message: msg})
}

// WriteError maps err onto a status and message. Coded domain errors carry a
// client-safe message; anything else is reported as a generic internal error.
func WriteError(w http.ResponseWriter, err error) {
	var de *dErrors.Error
	if !errors.As(err, &de) {
		WriteMessage(w, http.StatusInternalServerError, "internal server error")
		return
	}
	msg := de.Message
	if msg == "" {
		msg = "internal server error"
	}
	WriteMessage(w, dErrors.ToHTTPStatus(de.Code), msg)
}
