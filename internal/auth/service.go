package auth

import (
	"context"
	"errors"
	"regexp"
	"strings"

	"gorm.io/gorm"
)

var (
	// ErrInvalidCredentials covers both unknown email and wrong password so
	// login failures never reveal which half was wrong.
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrDuplicateEmail     = errors.New("email already registered")
	ErrUserNotFound       = errors.New("user not found")
)

// ValidationError reports the first rejected signup constraint.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string { return e.Reason }

var emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

const minPasswordLen = 6

// Service registers and authenticates users. It is the only writer of the
// users table.
type Service struct {
	DB *gorm.DB
}

// Register creates a user with a freshly hashed password. Emails are stored
// lowercased, which is what makes the unique index case-insensitive.
func (s *Service) Register(ctx context.Context, email, password string) (*User, error) {
	email = strings.TrimSpace(strings.ToLower(email))

	if email == "" || password == "" {
		return nil, &ValidationError{Reason: "email and password are required"}
	}
	if len(password) < minPasswordLen {
		return nil, &ValidationError{Reason: "password must be at least 6 characters"}
	}
	if !emailRe.MatchString(email) {
		return nil, &ValidationError{Reason: "invalid email address"}
	}

	var existing User
	err := s.DB.WithContext(ctx).Where("email = ?", email).First(&existing).Error
	if err == nil {
		return nil, ErrDuplicateEmail
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	hash, err := HashPassword(password)
	if err != nil {
		return nil, err
	}

	u := User{Email: email, PasswordHash: hash}
	if err := s.DB.WithContext(ctx).Create(&u).Error; err != nil {
		// two concurrent signups can both pass the pre-check; the unique
		// index decides the race
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrDuplicateEmail
		}
		return nil, err
	}
	return &u, nil
}

func (s *Service) Authenticate(ctx context.Context, email, password string) (*User, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" || password == "" {
		return nil, &ValidationError{Reason: "email and password are required"}
	}

	var u User
	if err := s.DB.WithContext(ctx).Where("email = ?", email).First(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !ComparePassword(u.PasswordHash, password) {
		return nil, ErrInvalidCredentials
	}
	return &u, nil
}

// UserByID resolves a verified token subject back to a live user record. A
// deleted account holding a still-valid token fails here.
func (s *Service) UserByID(ctx context.Context, id uint64) (*User, error) {
	var u User
	if err := s.DB.WithContext(ctx).First(&u, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &u, nil
}
