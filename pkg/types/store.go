package types

// DatabaseFile is the fixed name of the SQLite file inside the data directory.
const DatabaseFile = "opportunities.db"

// TableOpportunities is the name of the single persisted table.
const TableOpportunities = "opportunities"

// Store is the storage contract behind the presentation loop and the CLI.
// Each call is a single statement; implementations do not validate drafts.
type Store interface {
	// Initialize ensures the opportunities table exists. Idempotent.
	Initialize() error

	// Create appends a row and returns the assigned ID.
	Create(d Draft) (int64, error)

	// ListAll returns every row in scan order. The slice is never nil.
	ListAll() ([]Opportunity, error)

	// Get returns the row with the given ID or ErrNotFound.
	Get(id int64) (Opportunity, error)

	// Update replaces every mutable field of the row with the given ID.
	// A missing ID is a silent no-op.
	Update(id int64, d Draft) error

	// Delete removes the row with the given ID. A missing ID is a silent no-op.
	Delete(id int64) error
}

// Backend is a Store with an attach/detach lifecycle.
type Backend interface {
	Store

	// Attach connects to the storage described by config and initializes
	// the schema. Returns ErrAlreadyAttached if called while attached.
	Attach(config Config) error

	// Detach releases the backend. Idempotent. Afterwards every Store call
	// returns ErrDetached.
	Detach() error
}

// Archiver moves rows between a Store and a JSONL file, one opportunity per
// line.
type Archiver interface {
	// Export writes every row to path and returns the number written.
	Export(path string) (int, error)

	// Import reads path in a single transaction. Records with an ID
	// overwrite that row; records without one are appended. Malformed lines
	// are skipped. Returns the number of rows written.
	Import(path string) (int, error)
}
