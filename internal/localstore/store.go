// Package localstore is the device-local fallback used before an account is
// approved. Each device keeps one JSON document per slot, replaced as a whole
// on every save, plus a log of rows already copied into the record store.
package localstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// Slot names one locally persisted collection.
type Slot string

const (
	SlotClients Slot = "clients"
	SlotSales   Slot = "sales"
)

// IsValidSlot reports whether s names a known collection.
func IsValidSlot(s string) bool {
	return Slot(s) == SlotClients || Slot(s) == SlotSales
}

var ErrStore = errors.New("local store error")

// Store persists the per-device slots.
type Store interface {
	LoadSlot(ctx context.Context, deviceID string, slot Slot) (json.RawMessage, error)
	SaveSlot(ctx context.Context, deviceID string, slot Slot, payload json.RawMessage) error
	ClearSlot(ctx context.Context, deviceID string, slot Slot) error
	IsMigrated(ctx context.Context, deviceID string, slot Slot, localID string) (bool, error)
	MarkMigrated(ctx context.Context, deviceID string, slot Slot, localID, remoteID string) error
	UnmarkMigrated(ctx context.Context, deviceID string, slot Slot, localID string) error
	Close() error
}

type SQLiteStore struct {
	db *sql.DB
}

// Open creates the database file if needed and applies the schema.
func Open(dbPath string) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create local store directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	// SQLite allows one writer at a time.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping local store: %w", err)
	}

	if err := runMigrations(dbPath); err != nil {
		db.Close()
		return nil, err
	}
	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// LoadSlot returns the stored document, or an empty JSON array when nothing was saved yet.
func (s *SQLiteStore) LoadSlot(ctx context.Context, deviceID string, slot Slot) (json.RawMessage, error) {
	var payload string
	err := s.db.QueryRowContext(ctx,
		`SELECT payload FROM slots WHERE device_id = ? AND slot = ?`, deviceID, string(slot),
	).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return json.RawMessage("[]"), nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: loading slot %s: %v", ErrStore, slot, err)
	}
	return json.RawMessage(payload), nil
}

// SaveSlot replaces the whole document. Last write wins.
func (s *SQLiteStore) SaveSlot(ctx context.Context, deviceID string, slot Slot, payload json.RawMessage) error {
	if !json.Valid(payload) {
		return fmt.Errorf("%w: slot %s payload is not valid JSON", ErrStore, slot)
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO slots (device_id, slot, payload, updated_at) VALUES (?, ?, ?, ?)
		 ON CONFLICT (device_id, slot) DO UPDATE SET payload = excluded.payload, updated_at = excluded.updated_at`,
		deviceID, string(slot), string(payload), time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("%w: saving slot %s: %v", ErrStore, slot, err)
	}
	return nil
}

// ClearSlot drops the document. The migration log is kept so ids stay known.
func (s *SQLiteStore) ClearSlot(ctx context.Context, deviceID string, slot Slot) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM slots WHERE device_id = ? AND slot = ?`, deviceID, string(slot))
	if err != nil {
		return fmt.Errorf("%w: clearing slot %s: %v", ErrStore, slot, err)
	}
	return nil
}

func (s *SQLiteStore) IsMigrated(ctx context.Context, deviceID string, slot Slot, localID string) (bool, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM migrated_items WHERE device_id = ? AND slot = ? AND local_id = ?`,
		deviceID, string(slot), localID,
	).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("%w: checking migrated item: %v", ErrStore, err)
	}
	return n > 0, nil
}

// MarkMigrated records that localID now lives in the record store as remoteID.
func (s *SQLiteStore) MarkMigrated(ctx context.Context, deviceID string, slot Slot, localID, remoteID string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO migrated_items (device_id, slot, local_id, remote_id, migrated_at) VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT (device_id, slot, local_id) DO NOTHING`,
		deviceID, string(slot), localID, remoteID, time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("%w: recording migrated item: %v", ErrStore, err)
	}
	return nil
}

// UnmarkMigrated forgets a migration record whose remote insert did not commit.
func (s *SQLiteStore) UnmarkMigrated(ctx context.Context, deviceID string, slot Slot, localID string) error {
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM migrated_items WHERE device_id = ? AND slot = ? AND local_id = ?`,
		deviceID, string(slot), localID,
	)
	if err != nil {
		return fmt.Errorf("%w: dropping migrated item: %v", ErrStore, err)
	}
	return nil
}
