package store

import (
	"database/sql"
	"fmt"
	"time"
)

// Token is a bearer session token issued at login.
type Token struct {
	Token     string
	Email     string
	ExpiresAt int64
}

// TokenStore manages issued session tokens.
type TokenStore struct {
	db *DB
}

func NewTokenStore(db *DB) *TokenStore {
	return &TokenStore{db: db}
}

// Insert stores a freshly issued token.
func (s *TokenStore) Insert(t *Token) error {
	_, err := s.db.Exec(
		`INSERT INTO tokens (token, email, expires_at) VALUES (?, ?, ?)`,
		t.Token, t.Email, t.ExpiresAt,
	)
	if err != nil {
		return fmt.Errorf("insert token: %w", err)
	}
	return nil
}

// Lookup returns the token row, or nil when unknown.
func (s *TokenStore) Lookup(token string) (*Token, error) {
	var t Token
	err := s.db.QueryRow(
		`SELECT token, email, expires_at FROM tokens WHERE token = ?`,
		token,
	).Scan(&t.Token, &t.Email, &t.ExpiresAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("lookup token: %w", err)
	}
	return &t, nil
}

// Delete removes a token, e.g. on sign-out.
func (s *TokenStore) Delete(token string) error {
	if _, err := s.db.Exec(`DELETE FROM tokens WHERE token = ?`, token); err != nil {
		return fmt.Errorf("delete token: %w", err)
	}
	return nil
}

// DeleteExpired prunes tokens past their expiry.
func (s *TokenStore) DeleteExpired(now time.Time) (int64, error) {
	res, err := s.db.Exec(`DELETE FROM tokens WHERE expires_at < ?`, now.Unix())
	if err != nil {
		return 0, fmt.Errorf("delete expired tokens: %w", err)
	}
	return res.RowsAffected()
}
