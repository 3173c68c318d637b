package httputil

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

// ErrorResponse represents a standard error response
type ErrorResponse struct {
	Error   string   `json:"error"`
	Code    string   `json:"code,omitempty"`
	Details []string `json:"details,omitempty"`
}

// RespondJSON writes data as a JSON body with the given status. The body is
// encoded before any header is sent, so an unencodable value becomes a 500
// rather than a truncated 2xx.
func RespondJSON(w http.ResponseWriter, data any, statusCode int) {
	body, err := json.Marshal(data)
	if err != nil {
		slog.Error("failed to encode JSON response", "error", err.Error())
		statusCode = http.StatusInternalServerError
		body = []byte(`{"error":"internal server error","code":"` + CodeInternalError + `"}`)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_, _ = w.Write(append(body, '\n'))
}

// RespondErrorWithCode sends a JSON error response with a machine-readable error code.
func RespondErrorWithCode(w http.ResponseWriter, message string, code string, statusCode int) {
	RespondJSON(w, ErrorResponse{Error: message, Code: code}, statusCode)
}

// RespondCreated answers 201 with a Location header and no body.
func RespondCreated(w http.ResponseWriter, location string) {
	w.Header().Set("Location", location)
	w.WriteHeader(http.StatusCreated)
}

// RespondNoContent answers 204.
func RespondNoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}

// DecodeJSON decodes the request body into dst. A malformed body yields a
// 400 *Error.
func DecodeJSON(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return &Error{
			Status:  http.StatusBadRequest,
			Code:    CodeInvalidRequestBody,
			Message: "invalid request body",
			Err:     err,
		}
	}
	return nil
}
