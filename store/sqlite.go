package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/onehilltech/gatekeeper-go/token"
)

const schema = `
CREATE TABLE IF NOT EXISTS user_token (
	username      TEXT PRIMARY KEY,
	access_token  TEXT NOT NULL,
	refresh_token TEXT,
	expiration    INTEGER
);`

// SQLiteStore persists the user token in a SQLite database. The
// user_token table holds at most one row.
type SQLiteStore struct {
	db *sql.DB
}

var _ TokenStore = (*SQLiteStore)(nil)

// NewSQLiteStore opens (creating if needed) the token database at dsn.
func NewSQLiteStore(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("store: open sqlite: %w", err)
	}

	if _, err := db.ExecContext(context.Background(), schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("store: create schema: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Close releases the underlying database handle.
func (s *SQLiteStore) Close() error { return s.db.Close() }

// Load implements TokenStore.
func (s *SQLiteStore) Load(ctx context.Context) (*token.UserToken, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT username, access_token, refresh_token, expiration FROM user_token LIMIT 1`)

	var (
		t          token.UserToken
		refresh    sql.NullString
		expiration sql.NullInt64
	)
	err := row.Scan(&t.Username, &t.AccessToken, &refresh, &expiration)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("store: load token: %w", err)
	}

	if refresh.Valid {
		t.RefreshToken = refresh.String
	}
	if expiration.Valid {
		t.Expiration = time.Unix(expiration.Int64, 0).UTC()
	}
	return &t, nil
}

// Save implements TokenStore. The single-row invariant is enforced by
// clearing the table inside the same transaction as the insert.
func (s *SQLiteStore) Save(ctx context.Context, t *token.UserToken) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("store: save token: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM user_token`); err != nil {
		return fmt.Errorf("store: save token: %w", err)
	}

	var refresh sql.NullString
	if t.RefreshToken != "" {
		refresh = sql.NullString{String: t.RefreshToken, Valid: true}
	}
	var expiration sql.NullInt64
	if !t.Expiration.IsZero() {
		expiration = sql.NullInt64{Int64: t.Expiration.Unix(), Valid: true}
	}

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO user_token (username, access_token, refresh_token, expiration) VALUES (?, ?, ?, ?)`,
		t.Username, t.AccessToken, refresh, expiration); err != nil {
		return fmt.Errorf("store: save token: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("store: save token: %w", err)
	}
	return nil
}

// Delete implements TokenStore.
func (s *SQLiteStore) Delete(ctx context.Context, username string) error {
	if _, err := s.db.ExecContext(ctx,
		`DELETE FROM user_token WHERE username = ?`, username); err != nil {
		return fmt.Errorf("store: delete token: %w", err)
	}
	return nil
}
