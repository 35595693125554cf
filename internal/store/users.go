package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// ErrEmailTaken is returned when registering an email that already exists.
var ErrEmailTaken = errors.New("email already registered")

// User is a registered account in the credential store, keyed by email.
type User struct {
	Email        string
	Name         string
	PasswordHash string
	Salt         string
	CreatedAt    int64
	LastLoginAt  *int64
}

// UserStore manages the credential store.
type UserStore struct {
	db *DB
}

func NewUserStore(db *DB) *UserStore {
	return &UserStore{db: db}
}

// Create inserts a new account. Fails with ErrEmailTaken on duplicates.
func (s *UserStore) Create(u *User) error {
	existing, err := s.GetByEmail(u.Email)
	if err != nil {
		return err
	}
	if existing != nil {
		return ErrEmailTaken
	}

	_, err = s.db.Exec(
		`INSERT INTO users (email, name, password_hash, salt, created_at) VALUES (?, ?, ?, ?, ?)`,
		u.Email, u.Name, u.PasswordHash, u.Salt, time.Now().Unix(),
	)
	if err != nil {
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

// GetByEmail returns the account for the email, or nil when not found.
func (s *UserStore) GetByEmail(email string) (*User, error) {
	var u User
	err := s.db.QueryRow(
		`SELECT email, name, password_hash, salt, created_at, last_login_at FROM users WHERE email = ?`,
		email,
	).Scan(&u.Email, &u.Name, &u.PasswordHash, &u.Salt, &u.CreatedAt, &u.LastLoginAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	return &u, nil
}

// TouchLogin records the most recent successful login.
func (s *UserStore) TouchLogin(email string, when time.Time) error {
	_, err := s.db.Exec(`UPDATE users SET last_login_at = ? WHERE email = ?`, when.Unix(), email)
	if err != nil {
		return fmt.Errorf("touch login: %w", err)
	}
	return nil
}
