// Package sqlite implements the SQLite storage backend for the opportunity
// tracker. Every operation opens its own connection to the database file,
// runs one statement, and closes it again; no pool is held between calls.
package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	_ "modernc.org/sqlite"

	"github.com/mesh-intelligence/presales/pkg/types"
)

// driverName is the database/sql driver registered by modernc.org/sqlite.
const driverName = "sqlite"

// Compile-time interface checks.
var (
	_ types.Backend  = (*Backend)(nil)
	_ types.Archiver = (*Backend)(nil)
)

// Backend implements types.Store on a single SQLite file.
type Backend struct {
	mu       sync.RWMutex
	attached bool
	config   types.Config
	dbPath   string
}

// NewBackend creates a new SQLite backend instance.
// The backend is not attached; call Attach with a Config to initialize.
func NewBackend() *Backend {
	return &Backend{}
}

// Attach validates config, creates DataDir if needed, and ensures the
// opportunities table exists in DataDir/opportunities.db. Existing data is
// kept. Returns ErrAlreadyAttached if already attached.
func (b *Backend) Attach(config types.Config) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.attached {
		return types.ErrAlreadyAttached
	}

	if err := config.Validate(); err != nil {
		return err
	}

	dataDir := config.DataDir
	if dataDir == "" {
		dataDir = "."
	}
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return &types.StorageError{Op: "create data dir", Err: err}
	}

	dbPath := filepath.Join(dataDir, types.DatabaseFile)
	if err := initialize(dbPath); err != nil {
		return err
	}

	b.config = config
	b.dbPath = dbPath
	b.attached = true
	return nil
}

// Detach releases the backend. After Detach, all operations return
// ErrDetached. Detach is idempotent.
func (b *Backend) Detach() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.attached = false
	b.dbPath = ""
	return nil
}

// Path returns the database file path, or "" when detached.
func (b *Backend) Path() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.dbPath
}

// Initialize ensures the opportunities table exists. Idempotent.
func (b *Backend) Initialize() error {
	path, err := b.path()
	if err != nil {
		return err
	}
	return initialize(path)
}

func initialize(path string) error {
	return withDB(path, "initialize schema", func(db *sql.DB) error {
		_, err := db.Exec(createOpportunities)
		return err
	})
}

// path returns the attached database path or ErrDetached.
func (b *Backend) path() (string, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if !b.attached {
		return "", types.ErrDetached
	}
	return b.dbPath, nil
}

// withDB opens a connection to path, runs fn, and closes the connection.
// Driver failures come back as *types.StorageError tagged with op;
// ErrNotFound passes through unwrapped.
func withDB(path, op string, fn func(db *sql.DB) error) error {
	db, err := sql.Open(driverName, path)
	if err != nil {
		return &types.StorageError{Op: op, Err: err}
	}
	db.SetMaxOpenConns(1)

	fnErr := fn(db)
	closeErr := db.Close()

	if fnErr != nil {
		if errors.Is(fnErr, types.ErrNotFound) {
			return fnErr
		}
		return &types.StorageError{Op: op, Err: fnErr}
	}
	if closeErr != nil {
		return &types.StorageError{Op: op, Err: fmt.Errorf("close: %w", closeErr)}
	}
	return nil
}

// run resolves the attached path and delegates to withDB.
func (b *Backend) run(op string, fn func(db *sql.DB) error) error {
	path, err := b.path()
	if err != nil {
		return err
	}
	return withDB(path, op, fn)
}
