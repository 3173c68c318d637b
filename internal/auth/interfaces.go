package auth

import (
	"context"

	"github.com/redmonkez12/course-api/internal/user"
)

// UserStore defines the user persistence the auth package relies on.
// Implemented by user.Repository (Bun) and user.MongoRepository.
type UserStore interface {
	Create(ctx context.Context, nu user.NewUser) (*user.User, error)
	GetByEmail(ctx context.Context, email string) (*user.User, error)
}

// RateLimiter counts requests per client IP and purpose.
// Implemented by ratelimit.Limiter.
type RateLimiter interface {
	AllowIPRequestWithPurpose(ctx context.Context, ip, purpose string) (bool, error)
	ResetIPWithPurpose(ctx context.Context, ip, purpose string) error
}
