package db

import (
	"database/sql"
	"fmt"
	"time"
)

// PutBlob stores value under key, replacing any previous value.
func PutBlob(db *sql.DB, key string, value []byte) error {
	_, err := db.Exec(
		`INSERT INTO blobs (key, value, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET value=excluded.value, updated_at=excluded.updated_at`,
		key, value, time.Now().UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("failed to put blob %q: %w", key, err)
	}
	return nil
}

// GetBlob returns the value stored under key, or (nil, nil) when absent.
func GetBlob(db *sql.DB, key string) ([]byte, error) {
	var value []byte
	err := db.QueryRow(`SELECT value FROM blobs WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get blob %q: %w", key, err)
	}
	return value, nil
}

// DeleteBlob removes the value stored under key. Deleting a missing key is
// not an error.
func DeleteBlob(db *sql.DB, key string) error {
	if _, err := db.Exec(`DELETE FROM blobs WHERE key = ?`, key); err != nil {
		return fmt.Errorf("failed to delete blob %q: %w", key, err)
	}
	return nil
}
