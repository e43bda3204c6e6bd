package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/agentry-dev/agentry/internal/domain/user"
)

func (s *Store) CreateUser(ctx context.Context, u *user.User) error {
	u.CreatedAt = time.Now().UTC()
	_, err := s.pool.Exec(ctx, `
		INSERT INTO users (id, username, email, password_hash, active, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		u.ID, u.Username, u.Email, u.PasswordHash, u.Active, u.CreatedAt,
	)
	if err != nil {
		return conflictWrap(err, "create user %s", u.Username)
	}
	return nil
}

func (s *Store) GetUserByUsername(ctx context.Context, username string) (*user.User, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT id, username, email, password_hash, active, created_at
		FROM users WHERE username = $1`, username)

	u, err := scanUser(row)
	if err != nil {
		return nil, notFoundWrap(err, "get user %q", username)
	}
	return &u, nil
}

func (s *Store) GetUser(ctx context.Context, id string) (*user.User, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT id, username, email, password_hash, active, created_at
		FROM users WHERE id = $1`, id)

	u, err := scanUser(row)
	if err != nil {
		return nil, notFoundWrap(err, "get user %s", id)
	}
	return &u, nil
}

func scanUser(row scannable) (user.User, error) {
	var u user.User
	err := row.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.Active, &u.CreatedAt)
	if err != nil {
		return u, err
	}
	return u, nil
}

func (s *Store) CreateAPIKey(ctx context.Context, k *user.APIKey) error {
	k.CreatedAt = time.Now().UTC()
	_, err := s.pool.Exec(ctx, `
		INSERT INTO api_keys (id, user_id, name, key_hash, active, created_at, last_used)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		k.ID, k.UserID, k.Name, k.KeyHash, k.Active, k.CreatedAt, nullTime(k.LastUsed),
	)
	if err != nil {
		return fmt.Errorf("create api key: %w", err)
	}
	return nil
}

func (s *Store) GetAPIKeyByHash(ctx context.Context, hash string) (*user.APIKey, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT id, user_id, name, key_hash, active, created_at, last_used
		FROM api_keys WHERE key_hash = $1`, hash)

	var k user.APIKey
	var lastUsed sql.NullTime
	err := row.Scan(&k.ID, &k.UserID, &k.Name, &k.KeyHash, &k.Active, &k.CreatedAt, &lastUsed)
	if err != nil {
		return nil, notFoundWrap(err, "get api key")
	}
	if lastUsed.Valid {
		k.LastUsed = lastUsed.Time
	}
	return &k, nil
}

func (s *Store) TouchAPIKey(ctx context.Context, id string) error {
	tag, err := s.pool.Exec(ctx, `
		UPDATE api_keys SET last_used = $2 WHERE id = $1`,
		id, time.Now().UTC())
	return execExpectOne(tag, err, "touch api key %s", id)
}
