// Package auth implements account registration and bearer-token sessions
// on top of the credential store. Accounts are keyed by email only.
package auth

import (
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/iammorganparry/taskplanner/internal/store"
)

var (
	// ErrInvalidCredentials is returned on login when email and password
	// do not match an account. The message never says which was wrong.
	ErrInvalidCredentials = errors.New("invalid email or password")

	emailPattern = regexp.MustCompile(`\S+@\S+\.\S+`)
)

// ValidationError reports malformed registration input as a field-level
// message.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Service manages accounts and session tokens.
type Service struct {
	users    *store.UserStore
	tokens   *store.TokenStore
	tokenTTL time.Duration
	logger   *slog.Logger
}

func NewService(users *store.UserStore, tokens *store.TokenStore, tokenTTL time.Duration, logger *slog.Logger) *Service {
	return &Service{users: users, tokens: tokens, tokenTTL: tokenTTL, logger: logger}
}

// Register creates a new account. Fails with ValidationError on malformed
// input and store.ErrEmailTaken when the email is already registered.
func (s *Service) Register(name, email, password string) error {
	name = strings.TrimSpace(name)
	email = strings.TrimSpace(email)

	if name == "" {
		return &ValidationError{Field: "name", Message: "full name is required"}
	}
	if len(name) < 2 {
		return &ValidationError{Field: "name", Message: "name must be at least 2 characters"}
	}
	if email == "" {
		return &ValidationError{Field: "email", Message: "email is required"}
	}
	if !emailPattern.MatchString(email) {
		return &ValidationError{Field: "email", Message: "please enter a valid email"}
	}
	if len(password) < 6 {
		return &ValidationError{Field: "password", Message: "password must be at least 6 characters"}
	}

	salt, err := newSalt()
	if err != nil {
		return err
	}

	err = s.users.Create(&store.User{
		Email:        email,
		Name:         name,
		PasswordHash: hashPassword(password, salt),
		Salt:         salt,
	})
	if err != nil {
		return err
	}

	s.logger.Info("account registered", "email", email)
	return nil
}

// Login verifies credentials and issues a fresh bearer token.
func (s *Service) Login(email, password string) (*store.Token, *store.User, error) {
	email = strings.TrimSpace(email)

	user, err := s.users.GetByEmail(email)
	if err != nil {
		return nil, nil, err
	}
	if user == nil || !verifyPassword(password, user.Salt, user.PasswordHash) {
		return nil, nil, ErrInvalidCredentials
	}

	now := time.Now()
	token := &store.Token{
		Token:     uuid.New().String(),
		Email:     user.Email,
		ExpiresAt: now.Add(s.tokenTTL).Unix(),
	}
	if err := s.tokens.Insert(token); err != nil {
		return nil, nil, err
	}
	if err := s.users.TouchLogin(user.Email, now); err != nil {
		s.logger.Warn("failed to record login time", "email", user.Email, "error", err)
	}

	// Opportunistic cleanup; stale tokens are also rejected at lookup.
	if _, err := s.tokens.DeleteExpired(now); err != nil {
		s.logger.Warn("failed to prune expired tokens", "error", err)
	}

	return token, user, nil
}

// Authenticate resolves a bearer token to the account email. ok is false
// for unknown or expired tokens.
func (s *Service) Authenticate(token string) (email string, ok bool, err error) {
	t, err := s.tokens.Lookup(token)
	if err != nil {
		return "", false, err
	}
	if t == nil || t.ExpiresAt < time.Now().Unix() {
		return "", false, nil
	}
	return t.Email, true, nil
}

// SignOut revokes a token. Unknown tokens are a no-op.
func (s *Service) SignOut(token string) error {
	return s.tokens.Delete(token)
}
