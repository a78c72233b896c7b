package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// ErrNoAuth is returned when no Logbook login has been stored yet
var ErrNoAuth = errors.New("no logbook authentication stored")

// The auth table holds exactly one row: the Concept2 Logbook user this
// database belongs to.
const authRowID = 1

// GetAuth returns the stored Logbook tokens
func (db *DB) GetAuth() (*Auth, error) {
	var auth Auth
	var expiresAt int64
	err := db.QueryRow(`
		SELECT user_id, access_token, refresh_token, expires_at
		FROM auth
		WHERE id = ?
	`, authRowID).Scan(&auth.UserID, &auth.AccessToken, &auth.RefreshToken, &expiresAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNoAuth
	}
	if err != nil {
		return nil, fmt.Errorf("reading auth: %w", err)
	}

	auth.ExpiresAt = time.Unix(expiresAt, 0)
	return &auth, nil
}

// SaveAuth replaces the stored login, including the Logbook user ID
func (db *DB) SaveAuth(auth *Auth) error {
	_, err := db.Exec(`
		INSERT INTO auth (id, user_id, access_token, refresh_token, expires_at, updated_at)
		VALUES (?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(id) DO UPDATE SET
			user_id = excluded.user_id,
			access_token = excluded.access_token,
			refresh_token = excluded.refresh_token,
			expires_at = excluded.expires_at,
			updated_at = CURRENT_TIMESTAMP
	`, authRowID, auth.UserID, auth.AccessToken, auth.RefreshToken, auth.ExpiresAt.Unix())
	if err != nil {
		return fmt.Errorf("saving auth for user %d: %w", auth.UserID, err)
	}
	return nil
}

// UpdateTokens persists a refreshed token pair. It fails with ErrNoAuth if
// nobody has logged in.
func (db *DB) UpdateTokens(accessToken, refreshToken string, expiresAt time.Time) error {
	result, err := db.Exec(`
		UPDATE auth
		SET access_token = ?, refresh_token = ?, expires_at = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`, accessToken, refreshToken, expiresAt.Unix(), authRowID)
	if err != nil {
		return fmt.Errorf("updating tokens: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrNoAuth
	}
	return nil
}
