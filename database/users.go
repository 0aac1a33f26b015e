package database

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"golang.org/x/crypto/bcrypt"
)

var (
	ErrUserExists   = errors.New("user already exists")
	ErrUnknownToken = errors.New("unknown token")
)

// CreateUser stores an admin account with a bcrypt hash of password.
func (s *Store) CreateUser(ctx context.Context, username, password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO admin_user (username, password_hash, created_at) VALUES (?, ?, ?)
		ON CONFLICT (username) DO NOTHING`,
		username,
		hash,
		time.Now().UTC(),
	)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n < 1 {
		return ErrUserExists
	}
	return nil
}

// CheckPassword returns nil when password matches the stored hash for username.
func (s *Store) CheckPassword(ctx context.Context, username, password string) error {
	var hash []byte
	err := s.db.
		QueryRowContext(ctx, "SELECT password_hash FROM admin_user WHERE username = ?", username).
		Scan(&hash)
	if err != nil {
		return err
	}
	return bcrypt.CompareHashAndPassword(hash, []byte(password))
}

func (s *Store) StoreToken(ctx context.Context, username, tokenID, refreshTokenID string, expiration time.Time) error {
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO token (username, token_id, refresh_token_id, expiration) VALUES (?, ?, ?, ?)",
		username,
		tokenID,
		refreshTokenID,
		expiration.Unix(),
	)
	return err
}

// ConsumeToken deletes the token and returns its expiration.
// A token can be consumed once.
func (s *Store) ConsumeToken(ctx context.Context, username, tokenID, refreshTokenID string) (time.Time, error) {
	var expiration int64
	err := s.db.
		QueryRowContext(ctx, `
			DELETE FROM token
			WHERE username = ?
				AND token_id = ?
				AND refresh_token_id = ?
			RETURNING expiration`,
			username,
			tokenID,
			refreshTokenID,
		).
		Scan(&expiration)
	if errors.Is(err, sql.ErrNoRows) {
		return time.Time{}, ErrUnknownToken
	}
	if err != nil {
		return time.Time{}, err
	}
	return time.Unix(expiration, 0), nil
}
