package internal

import (
	"context"
	"database/sql"
	"errors"
	"sync"
)

// Keys mirrored from the session into durable storage. Nothing else is
// persisted.
const (
	KeyToken     = "token"
	KeyUserEmail = "userEmail"
)

// PersistenceBridge mirrors the session token and user email to durable
// storage so a restart keeps the user logged in.
type PersistenceBridge interface {
	// Write stores both values. An error means the session is not durable.
	Write(token, email string) error
	// Read returns both values, or ok=false unless both are present.
	Read() (token, email string, ok bool, err error)
	// Clear removes both values.
	Clear() error
}

// SQLiteBridge persists the session fields in a SQLite key/value table
type SQLiteBridge struct {
	db   *sql.DB
	path string
}

// OpenSQLiteBridge opens the bridge database at path
func OpenSQLiteBridge(path string) (*SQLiteBridge, error) {
	db, err := OpenDatabase(path)
	if err != nil {
		return nil, &StorageError{Path: path, Op: "open", Err: err}
	}
	return &SQLiteBridge{db: db, path: path}, nil
}

// NewSQLiteBridge wraps an already opened database
func NewSQLiteBridge(db *sql.DB, path string) *SQLiteBridge {
	return &SQLiteBridge{db: db, path: path}
}

// Path returns the database path
func (b *SQLiteBridge) Path() string {
	return b.path
}

func (b *SQLiteBridge) Write(token, email string) error {
	err := UpsertKV(context.Background(), b.db,
		KeyValuePair{Key: KeyToken, Value: token},
		KeyValuePair{Key: KeyUserEmail, Value: email},
	)
	if err != nil {
		return &StorageError{Path: b.path, Op: "write", Err: err}
	}
	return nil
}

func (b *SQLiteBridge) Read() (string, string, bool, error) {
	values, err := QueryKV(context.Background(), b.db, KeyToken, KeyUserEmail)
	if err != nil {
		return "", "", false, &StorageError{Path: b.path, Op: "read", Err: err}
	}

	token, hasToken := values[KeyToken]
	email, hasEmail := values[KeyUserEmail]
	if !hasToken || !hasEmail || token == "" {
		return "", "", false, nil
	}
	return token, email, true, nil
}

func (b *SQLiteBridge) Clear() error {
	if err := DeleteKV(context.Background(), b.db, KeyToken, KeyUserEmail); err != nil {
		return &StorageError{Path: b.path, Op: "clear", Err: err}
	}
	return nil
}

// Close closes the underlying database
func (b *SQLiteBridge) Close() error {
	return b.db.Close()
}

// ErrStorageDisabled is returned by a MemoryBridge whose writes are disabled.
var ErrStorageDisabled = errors.New("storage disabled")

// MemoryBridge keeps the session fields in memory. Used for --ephemeral
// runs and tests.
type MemoryBridge struct {
	mu       sync.Mutex
	values   map[string]string
	writeErr error
}

// NewMemoryBridge creates an empty in-memory bridge
func NewMemoryBridge() *MemoryBridge {
	return &MemoryBridge{values: make(map[string]string)}
}

// FailWrites makes subsequent writes fail with err (nil restores writes).
func (b *MemoryBridge) FailWrites(err error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.writeErr = err
}

func (b *MemoryBridge) Write(token, email string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.writeErr != nil {
		return &StorageError{Path: ":memory:", Op: "write", Err: b.writeErr}
	}
	b.values[KeyToken] = token
	b.values[KeyUserEmail] = email
	return nil
}

func (b *MemoryBridge) Read() (string, string, bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	token, hasToken := b.values[KeyToken]
	email, hasEmail := b.values[KeyUserEmail]
	if !hasToken || !hasEmail || token == "" {
		return "", "", false, nil
	}
	return token, email, true, nil
}

func (b *MemoryBridge) Clear() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.values, KeyToken)
	delete(b.values, KeyUserEmail)
	return nil
}
