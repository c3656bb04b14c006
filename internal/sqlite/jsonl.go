// This file provides JSONL export and import of the opportunities table, with
// atomic persistence on export.
package sqlite

import (
	"bufio"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mesh-intelligence/presales/pkg/types"
)

// Export writes every opportunity to path as one JSON object per line and
// returns the number of rows written. The file is replaced atomically.
func (b *Backend) Export(path string) (int, error) {
	opps, err := b.ListAll()
	if err != nil {
		return 0, err
	}

	records := make([]json.RawMessage, 0, len(opps))
	for _, o := range opps {
		rec, err := json.Marshal(o)
		if err != nil {
			return 0, fmt.Errorf("marshal opportunity %d: %w", o.ID, err)
		}
		records = append(records, rec)
	}

	if err := writeJSONL(path, records); err != nil {
		return 0, err
	}
	return len(records), nil
}

// Import reads opportunities from a JSONL file and upserts them in one
// transaction: all rows land or none do. Records without an ID are appended
// with a fresh one. Blank and malformed lines are skipped. Returns the number
// of rows written.
func (b *Backend) Import(path string) (int, error) {
	records, err := readJSONL(path)
	if err != nil {
		return 0, err
	}

	opps := make([]types.Opportunity, 0, len(records))
	for _, rec := range records {
		var o types.Opportunity
		if err := json.Unmarshal(rec, &o); err != nil {
			continue
		}
		opps = append(opps, o)
	}

	err = b.run("import opportunities", func(db *sql.DB) error {
		tx, err := db.Begin()
		if err != nil {
			return fmt.Errorf("beginning import transaction: %w", err)
		}
		defer tx.Rollback()

		for _, o := range opps {
			args := dehydrate(o.Draft())
			if o.ID == 0 {
				_, err = tx.Exec(insertOpportunity, args...)
			} else {
				_, err = tx.Exec(upsertOpportunity, append([]any{o.ID}, args...)...)
			}
			if err != nil {
				return fmt.Errorf("importing opportunity %d: %w", o.ID, err)
			}
		}

		if err := tx.Commit(); err != nil {
			return fmt.Errorf("committing import transaction: %w", err)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return len(opps), nil
}

// readJSONL reads a JSONL file and returns each non-empty, parseable line as
// a json.RawMessage. Malformed lines are skipped.
func readJSONL(path string) ([]json.RawMessage, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	var records []json.RawMessage
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		if !json.Valid(line) {
			continue
		}
		cp := make([]byte, len(line))
		copy(cp, line)
		records = append(records, json.RawMessage(cp))
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scanning %s: %w", path, err)
	}
	return records, nil
}

// writeJSONL atomically replaces path with records, one per line, using the
// temp-file, fsync, rename pattern. The temp file is removed on any failure.
func writeJSONL(path string, records []json.RawMessage) (err error) {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".jsonl-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	w := bufio.NewWriter(tmp)
	for _, rec := range records {
		if _, err = w.Write(rec); err != nil {
			return fmt.Errorf("writing record: %w", err)
		}
		if err = w.WriteByte('\n'); err != nil {
			return fmt.Errorf("writing newline: %w", err)
		}
	}
	if err = w.Flush(); err != nil {
		return fmt.Errorf("flushing buffer: %w", err)
	}
	if err = tmp.Sync(); err != nil {
		return fmt.Errorf("syncing temp file: %w", err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err = os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}
