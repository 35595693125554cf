package store

import (
	"database/sql"
	"fmt"
	"time"
)

// SnapshotStore persists the full serialized task collection under a
// single named slot. The whole payload is written on every mutation and
// read back in full at session start.
type SnapshotStore struct {
	db *DB
}

func NewSnapshotStore(db *DB) *SnapshotStore {
	return &SnapshotStore{db: db}
}

// Save upserts the payload for the named slot.
func (s *SnapshotStore) Save(name string, payload []byte) error {
	_, err := s.db.Exec(
		`INSERT INTO snapshots (name, payload, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(name) DO UPDATE SET payload = excluded.payload, updated_at = excluded.updated_at`,
		name, string(payload), time.Now().Unix(),
	)
	if err != nil {
		return fmt.Errorf("save snapshot %q: %w", name, err)
	}
	return nil
}

// Load returns the payload for the named slot. The second return value is
// false when no snapshot has been written yet.
func (s *SnapshotStore) Load(name string) ([]byte, bool, error) {
	var payload string
	err := s.db.QueryRow(`SELECT payload FROM snapshots WHERE name = ?`, name).Scan(&payload)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("load snapshot %q: %w", name, err)
	}
	return []byte(payload), true, nil
}
