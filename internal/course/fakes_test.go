package course

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/redmonkez12/course-api/internal/user"
)

// memoryStore keeps courses in a map and populates owners from known users.
type memoryStore struct {
	mu      sync.Mutex
	courses map[uuid.UUID]Course
	users   map[uuid.UUID]*user.User
}

func newMemoryStore(users ...*user.User) *memoryStore {
	s := &memoryStore{
		courses: make(map[uuid.UUID]Course),
		users:   make(map[uuid.UUID]*user.User),
	}
	for _, u := range users {
		s.users[u.ID] = u
	}
	return s
}

func (s *memoryStore) Create(ctx context.Context, c *Course) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := *c
	stored.Owner = nil
	s.courses[c.ID] = stored
	return nil
}

func (s *memoryStore) List(ctx context.Context) ([]Course, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Course, 0, len(s.courses))
	for _, c := range s.courses {
		out = append(out, s.populate(c))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (s *memoryStore) GetByID(ctx context.Context, id uuid.UUID) (*Course, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.courses[id]
	if !ok {
		return nil, ErrNotFound
	}
	c = s.populate(c)
	return &c, nil
}

func (s *memoryStore) Update(ctx context.Context, c *Course) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.courses[c.ID]; !ok {
		return ErrNotFound
	}
	stored := *c
	stored.Owner = nil
	s.courses[c.ID] = stored
	return nil
}

func (s *memoryStore) Delete(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.courses[id]; !ok {
		return ErrNotFound
	}
	delete(s.courses, id)
	return nil
}

func (s *memoryStore) populate(c Course) Course {
	if u, ok := s.users[c.UserID]; ok {
		c.Owner = &Owner{ID: u.ID, FirstName: u.FirstName, LastName: u.LastName}
	}
	return c
}

func (s *memoryStore) len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.courses)
}

var (
	joe   = &user.User{ID: uuid.New(), FirstName: "Joe", LastName: "Smith", EmailAddress: "joe@smith.com"}
	sally = &user.User{ID: uuid.New(), FirstName: "Sally", LastName: "Jones", EmailAddress: "sally@jones.com"}
)

func strPtr(s string) *string { return &s }
