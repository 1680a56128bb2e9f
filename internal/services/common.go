package services

import (
	"database/sql"
	"errors"
	"fmt"
)

var (
	// ErrConfirmationRequired guards irreversible deletes that were not explicitly confirmed.
	ErrConfirmationRequired = errors.New("confirmation required for this action")
	ErrDateFormat           = errors.New("invalid date format, please use YYYY-MM-DD")
)

// withTx runs fn inside a transaction, committing only when fn succeeds.
func withTx(db *sql.DB, fn func(tx *sql.Tx) error) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback() // Rollback if not committed

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}
