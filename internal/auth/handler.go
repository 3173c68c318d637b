package auth

import (
	"errors"
	"net/http"

	"github.com/redmonkez12/course-api/internal/httputil"
	"github.com/redmonkez12/course-api/internal/logging"
	"github.com/redmonkez12/course-api/internal/ratelimit"
	"github.com/redmonkez12/course-api/internal/user"
)

// Handler contains HTTP handlers for user endpoints
type Handler struct {
	service     *Service
	rateLimiter RateLimiter
}

func NewHandler(service *Service, rateLimiter RateLimiter) *Handler {
	return &Handler{
		service:     service,
		rateLimiter: rateLimiter,
	}
}

// CurrentUserResponse represents the authenticated user in API responses
type CurrentUserResponse struct {
	FirstName    string `json:"firstName"`
	LastName     string `json:"lastName"`
	EmailAddress string `json:"emailAddress"`
}

// CurrentUser returns the authenticated user
// @Summary      Get current user
// @Description  Return the user whose Basic credentials authenticated the request
// @Tags         users
// @Produce      json
// @Security     BasicAuth
// @Success      200 {object} CurrentUserResponse
// @Failure      401 {object} httputil.ErrorResponse "Access denied"
// @Failure      429 {object} httputil.ErrorResponse "Too many failed attempts"
// @Router       /api/users [get]
func (h *Handler) CurrentUser(w http.ResponseWriter, r *http.Request) error {
	u, ok := CurrentUser(r.Context())
	if !ok {
		return httputil.NewError(http.StatusUnauthorized, httputil.CodeAccessDenied, "Access Denied")
	}

	httputil.RespondJSON(w, CurrentUserResponse{
		FirstName:    u.FirstName,
		LastName:     u.LastName,
		EmailAddress: u.EmailAddress,
	}, http.StatusOK)
	return nil
}

// Register handles user registration
// @Summary      Register a new user
// @Description  Create a user account. The password is stored as a bcrypt hash.
// @Tags         users
// @Accept       json
// @Param        request body RegisterRequest true "New user"
// @Success      201 "Location header is set to /"
// @Failure      400 {object} httputil.ErrorResponse "Invalid request or validation error"
// @Failure      409 {object} httputil.ErrorResponse "Email already exists"
// @Failure      429 {object} httputil.ErrorResponse "Too many requests"
// @Failure      500 {object} httputil.ErrorResponse "Internal server error"
// @Router       /api/users [post]
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) error {
	logger := logging.GetLoggerFromContext(r.Context())

	ip := httputil.ClientIP(r)
	allowed, err := h.rateLimiter.AllowIPRequestWithPurpose(r.Context(), ip, ratelimit.PurposeRegister)
	if err != nil {
		logger.Error("failed to apply IP rate limit", "error", err.Error())
	} else if !allowed {
		logger.Warn("IP rate limit exceeded for register", "ip", ip)
		return httputil.NewError(http.StatusTooManyRequests, httputil.CodeTooManyRequests, "too many requests, please try again later")
	}

	var req RegisterRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		logger.Warn("invalid registration request body", "error", err.Error())
		return err
	}

	logger = logger.WithFields(map[string]any{"email": req.EmailAddress})

	newUser, err := h.service.Register(r.Context(), req)
	if err != nil {
		if errors.Is(err, user.ErrDuplicateEmail) {
			logger.Warn("registration failed: email already exists")
			return httputil.NewError(http.StatusConflict, httputil.CodeEmailAlreadyExists, "The email address you entered is already in use")
		}
		return err
	}

	logger.Info("user registered successfully", "user_id", newUser.ID)

	httputil.RespondCreated(w, "/")
	return nil
}
