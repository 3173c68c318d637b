package auth

import (
	"context"
	"errors"
	"net/http"

	"github.com/redmonkez12/course-api/internal/httputil"
	"github.com/redmonkez12/course-api/internal/logging"
	"github.com/redmonkez12/course-api/internal/ratelimit"
	"github.com/redmonkez12/course-api/internal/user"
)

// ContextKey is a type for context keys to avoid collisions
type ContextKey string

const CurrentUserContextKey ContextKey = "current_user"

// Middleware authenticates requests with HTTP Basic credentials
type Middleware struct {
	service *Service
	limiter RateLimiter
}

func NewMiddleware(service *Service, limiter RateLimiter) *Middleware {
	return &Middleware{service: service, limiter: limiter}
}

// RequireAuth checks the Basic credentials (email address and password) and
// attaches the authenticated user to the request context.
//
// Every attempt takes a slot in the client's auth window before the store is
// touched; a successful login clears the window, so only consecutive
// failures add up to a lockout.
func (m *Middleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		logger := logging.GetLoggerFromContext(ctx)
		ip := httputil.ClientIP(r)

		allowed, err := m.limiter.AllowIPRequestWithPurpose(ctx, ip, ratelimit.PurposeAuth)
		if err != nil {
			logger.Error("failed to apply IP rate limit", "error", err.Error())
		} else if !allowed {
			logger.Warn("IP rate limit exceeded for authentication", "ip", ip)
			httputil.RespondErrorWithCode(w, "too many failed authentication attempts, please try again later", httputil.CodeTooManyRequests, http.StatusTooManyRequests)
			return
		}

		email, password, ok := r.BasicAuth()
		if !ok {
			logger.Warn("Authentication header not found")
			denyAccess(w)
			return
		}

		u, err := m.service.Authenticate(ctx, email, password)
		if err != nil {
			switch {
			case errors.Is(err, ErrUnknownUser):
				logger.Warn("User not found", "email", email)
			case errors.Is(err, ErrWrongPassword):
				logger.Warn("Authentication failure for username", "email", email)
			default:
				logger.Error("authentication failed: internal error", "error", err.Error())
				httputil.RespondErrorWithCode(w, "internal server error", httputil.CodeInternalError, http.StatusInternalServerError)
				return
			}
			denyAccess(w)
			return
		}

		if err := m.limiter.ResetIPWithPurpose(ctx, ip, ratelimit.PurposeAuth); err != nil {
			logger.Error("failed to reset IP rate limit", "error", err.Error())
		}

		logging.AddRequestAttrs(ctx, "user_id", u.ID.String())
		ctx = logging.WithLogger(ctx, logger.WithFields(map[string]any{"user_id": u.ID.String()}))

		next.ServeHTTP(w, r.WithContext(WithCurrentUser(ctx, u)))
	})
}

func denyAccess(w http.ResponseWriter) {
	httputil.RespondErrorWithCode(w, "Access Denied", httputil.CodeAccessDenied, http.StatusUnauthorized)
}

// WithCurrentUser returns a copy of ctx carrying the authenticated user
func WithCurrentUser(ctx context.Context, u *user.User) context.Context {
	return context.WithValue(ctx, CurrentUserContextKey, u)
}

// CurrentUser extracts the authenticated user from the request context
func CurrentUser(ctx context.Context) (*user.User, bool) {
	u, ok := ctx.Value(CurrentUserContextKey).(*user.User)
	return u, ok && u != nil
}
