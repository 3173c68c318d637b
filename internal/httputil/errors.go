package httputil

import (
	"errors"
	"net/http"

	"github.com/redmonkez12/course-api/internal/logging"
	"github.com/redmonkez12/course-api/internal/validation"
)

// Error is an error that knows how it should be rendered over HTTP.
type Error struct {
	Status  int
	Code    string
	Message string
	Details []string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// NewError builds an *Error without an underlying cause.
func NewError(status int, code, message string) *Error {
	return &Error{Status: status, Code: code, Message: message}
}

// ValidationError converts a validation failure into a 400.
func ValidationError(err *validation.Error) *Error {
	return &Error{
		Status:  http.StatusBadRequest,
		Code:    CodeValidationFailed,
		Message: "validation failed",
		Details: err.Messages(),
		Err:     err,
	}
}

// HandlerFunc is an http.HandlerFunc that reports failures by returning them.
type HandlerFunc func(w http.ResponseWriter, r *http.Request) error

// Handle adapts fn to http.HandlerFunc. Returned errors are rendered as JSON:
// *Error and *validation.Error keep their status, anything else is logged and
// answered with 500.
func Handle(fn HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		err := fn(w, r)
		if err == nil {
			return
		}

		logger := logging.GetLoggerFromContext(r.Context())

		var verr *validation.Error
		if errors.As(err, &verr) {
			err = ValidationError(verr)
		}

		var herr *Error
		if errors.As(err, &herr) {
			if herr.Status >= http.StatusInternalServerError {
				logger.Error("request failed", "error", err.Error())
			} else {
				logger.Warn("request rejected", "code", herr.Code, "error", err.Error())
			}
			RespondJSON(w, ErrorResponse{Error: herr.Message, Code: herr.Code, Details: herr.Details}, herr.Status)
			return
		}

		logger.Error("request failed: internal error", "error", err.Error())
		RespondErrorWithCode(w, "internal server error", CodeInternalError, http.StatusInternalServerError)
	}
}
