package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"sync"
	"time"
)

// Area selects one of the two key-value partitions. The local area holds
// fast-changing transient state that never leaves the machine; the synced
// area holds settings and stats that are replicated across devices with
// last-write-wins semantics.
type Area string

const (
	AreaLocal  Area = "local"
	AreaSynced Area = "synced"
)

// ChangeFunc receives a change notification after a successful write.
// oldValue is nil when the key did not previously exist.
type ChangeFunc func(area Area, key string, oldValue, newValue json.RawMessage)

// Store is a JSON key-value store over SQLite with in-process change
// notifications. It is the single source of truth for all coordinator
// state.
type Store struct {
	db *sql.DB

	mu   sync.Mutex
	subs map[int]ChangeFunc
	next int
}

func New(db *sql.DB) *Store {
	return &Store{db: db, subs: make(map[int]ChangeFunc)}
}

func tableFor(area Area) string {
	if area == AreaSynced {
		return "kv_synced"
	}
	return "kv_local"
}

// Get decodes the value stored under key into dest. It returns false with
// a nil error when the key is absent; dest is left untouched in that case.
func (s *Store) Get(ctx context.Context, area Area, key string, dest interface{}) (bool, error) {
	var raw string
	err := s.db.QueryRowContext(
		ctx,
		fmt.Sprintf(`SELECT value FROM %s WHERE key = ?`, tableFor(area)),
		key,
	).Scan(&raw)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("get %s/%s: %w", area, key, err)
	}
	if err := json.Unmarshal([]byte(raw), dest); err != nil {
		return false, fmt.Errorf("decode %s/%s: %w", area, key, err)
	}
	return true, nil
}

// Set JSON-encodes value and writes it under key, then notifies
// subscribers. The read of the previous value and the write happen in one
// transaction so the notification always carries the value actually
// replaced.
func (s *Store) Set(ctx context.Context, area Area, key string, value interface{}) error {
	encoded, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode %s/%s: %w", area, key, err)
	}

	table := tableFor(area)
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin set %s/%s: %w", area, key, err)
	}
	defer tx.Rollback()

	var old sql.NullString
	err = tx.QueryRowContext(
		ctx,
		fmt.Sprintf(`SELECT value FROM %s WHERE key = ?`, table),
		key,
	).Scan(&old)
	if err != nil && err != sql.ErrNoRows {
		return fmt.Errorf("read previous %s/%s: %w", area, key, err)
	}

	if _, err := tx.ExecContext(
		ctx,
		fmt.Sprintf(
			`INSERT INTO %s (key, value, updated_at) VALUES (?, ?, ?)
			 ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
			table,
		),
		key,
		string(encoded),
		time.Now().UTC().Format(time.RFC3339Nano),
	); err != nil {
		return fmt.Errorf("set %s/%s: %w", area, key, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit set %s/%s: %w", area, key, err)
	}

	var oldRaw json.RawMessage
	if old.Valid {
		oldRaw = json.RawMessage(old.String)
	}
	s.notify(area, key, oldRaw, json.RawMessage(encoded))
	return nil
}

// Delete removes key from the area. Deleting an absent key is a no-op and
// fires no notification.
func (s *Store) Delete(ctx context.Context, area Area, key string) error {
	result, err := s.db.ExecContext(
		ctx,
		fmt.Sprintf(`DELETE FROM %s WHERE key = ?`, tableFor(area)),
		key,
	)
	if err != nil {
		return fmt.Errorf("delete %s/%s: %w", area, key, err)
	}
	if affected, err := result.RowsAffected(); err == nil && affected > 0 {
		s.notify(area, key, nil, nil)
	}
	return nil
}

// Subscribe registers a change callback and returns a cancel function.
// Callbacks run synchronously on the writer's goroutine after the write
// commits; they must not write back into the store.
func (s *Store) Subscribe(fn ChangeFunc) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.next
	s.next++
	s.subs[id] = fn
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.subs, id)
	}
}

func (s *Store) notify(area Area, key string, oldValue, newValue json.RawMessage) {
	s.mu.Lock()
	fns := make([]ChangeFunc, 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.mu.Unlock()

	for _, fn := range fns {
		fn(area, key, oldValue, newValue)
	}
}
