package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/redmonkez12/course-api/internal/logging"
	"github.com/redmonkez12/course-api/internal/user"
	"github.com/redmonkez12/course-api/internal/validation"
)

var (
	ErrUnknownUser   = errors.New("user not found")
	ErrWrongPassword = errors.New("password does not match")
)

// RegisterRequest represents the registration request body
type RegisterRequest struct {
	FirstName    string `json:"firstName" validate:"required"`
	LastName     string `json:"lastName" validate:"required"`
	EmailAddress string `json:"emailAddress" validate:"required,email,max=254"`
	Password     string `json:"password" validate:"required,max=72"`
}

// dummyPassword is hashed once per Service so that lookups of unknown
// addresses still pay for a bcrypt comparison.
const dummyPassword = "not-a-real-password"

// Service handles registration and credential checks
type Service struct {
	users      UserStore
	validator  *validation.Validator
	logger     *logging.Logger
	bcryptCost int
	dummyHash  []byte
}

func NewService(users UserStore, validator *validation.Validator, logger *logging.Logger, bcryptCost int) (*Service, error) {
	dummyHash, err := bcrypt.GenerateFromPassword([]byte(dummyPassword), bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare password hashing: %w", err)
	}

	return &Service{
		users:      users,
		validator:  validator,
		logger:     logger,
		bcryptCost: bcryptCost,
		dummyHash:  dummyHash,
	}, nil
}

// Register validates the request, rejects known email addresses and stores
// the user with a bcrypt password hash
func (s *Service) Register(ctx context.Context, req RegisterRequest) (*user.User, error) {
	req.FirstName = strings.TrimSpace(req.FirstName)
	req.LastName = strings.TrimSpace(req.LastName)
	req.EmailAddress = strings.TrimSpace(req.EmailAddress)

	if err := s.validator.Struct(req); err != nil {
		return nil, err
	}

	// Uniqueness is checked here first; the store's unique index only
	// catches concurrent registrations.
	_, err := s.users.GetByEmail(ctx, req.EmailAddress)
	switch {
	case err == nil:
		return nil, user.ErrDuplicateEmail
	case !errors.Is(err, user.ErrNotFound):
		return nil, fmt.Errorf("failed to check existing user: %w", err)
	}

	passwordHash, err := s.hashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	newUser, err := s.users.Create(ctx, user.NewUser{
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		EmailAddress: req.EmailAddress,
		PasswordHash: passwordHash,
	})
	if err != nil {
		if errors.Is(err, user.ErrDuplicateEmail) {
			s.logger.Warn("duplicate email rejected by store", "email", req.EmailAddress)
			return nil, user.ErrDuplicateEmail
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return newUser, nil
}

// Authenticate returns the user whose email and password match
func (s *Service) Authenticate(ctx context.Context, email, password string) (*user.User, error) {
	existingUser, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			// Same cost as a wrong password, so response times do not
			// reveal which addresses are registered.
			_ = bcrypt.CompareHashAndPassword(s.dummyHash, []byte(password))
			return nil, ErrUnknownUser
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	if !verifyPassword(existingUser.PasswordHash, password) {
		return nil, ErrWrongPassword
	}

	return existingUser, nil
}

// hashPassword creates a bcrypt hash of the password
func (s *Service) hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return "", &validation.Error{Fields: []validation.FieldError{{
				Field:   "password",
				Message: "password must be at most 72 bytes",
			}}}
		}
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

// verifyPassword checks if a password matches the stored hash
func verifyPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
