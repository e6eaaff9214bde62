package store

import (
	"database/sql"
	"errors"
	"fmt"
)

const tokenKey = "access_token"

// Token returns the persisted session credential, or "" when absent.
// No local expiry tracking happens here: a stale token is only found out
// when the server rejects it.
func (l *Local) Token() (string, error) {
	var value string
	err := l.db.QueryRow(`SELECT value FROM session WHERE key = ?`, tokenKey).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("get token: %w", err)
	}
	return value, nil
}

// SetToken stores the session credential, replacing any previous one.
func (l *Local) SetToken(token string) error {
	_, err := l.db.Exec(
		`INSERT INTO session (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		tokenKey, token,
	)
	return err
}

// ClearToken removes the session credential. Called on logout.
func (l *Local) ClearToken() error {
	_, err := l.db.Exec(`DELETE FROM session WHERE key = ?`, tokenKey)
	return err
}
