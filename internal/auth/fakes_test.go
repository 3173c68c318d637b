package auth

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/redmonkez12/course-api/internal/user"
)

type memoryUserStore struct {
	mu    sync.Mutex
	users map[string]*user.User
}

func newMemoryUserStore() *memoryUserStore {
	return &memoryUserStore{users: make(map[string]*user.User)}
}

func (s *memoryUserStore) Create(ctx context.Context, nu user.NewUser) (*user.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := nu.EmailAddress
	if _, ok := s.users[key]; ok {
		return nil, user.ErrDuplicateEmail
	}

	now := time.Now().UTC()
	u := &user.User{
		ID:           uuid.New(),
		FirstName:    nu.FirstName,
		LastName:     nu.LastName,
		EmailAddress: nu.EmailAddress,
		PasswordHash: nu.PasswordHash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	s.users[key] = u
	return u, nil
}

func (s *memoryUserStore) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[email]
	if !ok {
		return nil, user.ErrNotFound
	}
	return u, nil
}

type memoryLimiter struct {
	mu     sync.Mutex
	max    int
	counts map[string]int
}

func newMemoryLimiter(max int) *memoryLimiter {
	return &memoryLimiter{max: max, counts: make(map[string]int)}
}

func (l *memoryLimiter) AllowIPRequestWithPurpose(ctx context.Context, ip, purpose string) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.counts[purpose+":"+ip]++
	return l.counts[purpose+":"+ip] <= l.max, nil
}

func (l *memoryLimiter) ResetIPWithPurpose(ctx context.Context, ip, purpose string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.counts, purpose+":"+ip)
	return nil
}

func (l *memoryLimiter) count(ip, purpose string) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.counts[purpose+":"+ip]
}
