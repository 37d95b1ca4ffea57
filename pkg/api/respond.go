package api

import (
	"encoding/json"
	"net/http"

	"github.com/heyjunin/maaw/pkg/errors"
	"github.com/heyjunin/maaw/pkg/logger"
)

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logger.Warn("Failed to write response", "api", map[string]interface{}{
			"error": err.Error(),
		})
	}
}

// writeError answers with {error, error_type}. prefix is prepended to the
// message of server-side failures.
func writeError(w http.ResponseWriter, err error, prefix string) {
	status := http.StatusInternalServerError
	errType := string(errors.SystemError)
	message := err.Error()
	if structured, ok := errors.As(err); ok {
		status = errors.HTTPStatus(structured.Type)
		errType = string(structured.Type)
		message = structured.Message
		if structured.Details != "" {
			message += " " + structured.Details
		}
	}
	if status >= http.StatusInternalServerError && prefix != "" {
		message = prefix + ": " + message
	}
	writeJSON(w, status, map[string]interface{}{
		"error":      message,
		"error_type": errType,
	})
}

func methodNotAllowed(w http.ResponseWriter) {
	writeJSON(w, http.StatusMethodNotAllowed, map[string]interface{}{
		"error":      "Method not allowed",
		"error_type": string(errors.ValidationError),
	})
}
