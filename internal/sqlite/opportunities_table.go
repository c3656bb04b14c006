// This file implements the opportunities table accessor for the SQLite backend.
// Each operation hydrates/dehydrates between SQLite rows and types.Opportunity.
package sqlite

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/mesh-intelligence/presales/pkg/types"
)

// Create inserts a row for d and returns the ID SQLite assigned to it.
// The draft is stored verbatim; validation is the caller's responsibility.
func (b *Backend) Create(d types.Draft) (int64, error) {
	var id int64
	err := b.run("insert opportunity", func(db *sql.DB) error {
		res, err := db.Exec(insertOpportunity, dehydrate(d)...)
		if err != nil {
			return err
		}
		id, err = res.LastInsertId()
		return err
	})
	if err != nil {
		return 0, err
	}
	return id, nil
}

// ListAll returns every opportunity in table scan order.
func (b *Backend) ListAll() ([]types.Opportunity, error) {
	result := []types.Opportunity{}
	err := b.run("list opportunities", func(db *sql.DB) error {
		rows, err := db.Query(selectOpportunities)
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			o, err := hydrateOpportunity(rows)
			if err != nil {
				return err
			}
			result = append(result, o)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Get retrieves the opportunity with the given ID.
// Returns ErrNotFound if no row matches.
func (b *Backend) Get(id int64) (types.Opportunity, error) {
	var o types.Opportunity
	err := b.run("get opportunity", func(db *sql.DB) error {
		var err error
		o, err = hydrateOpportunity(db.QueryRow(selectOpportunity, id))
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("opportunity %d: %w", id, types.ErrNotFound)
		}
		return err
	})
	if err != nil {
		return types.Opportunity{}, err
	}
	return o, nil
}

// Update replaces all mutable fields of the row with the given ID. A missing
// ID matches no row and is not an error.
func (b *Backend) Update(id int64, d types.Draft) error {
	return b.run("update opportunity", func(db *sql.DB) error {
		_, err := db.Exec(updateOpportunity, append(dehydrate(d), id)...)
		return err
	})
}

// Delete removes the row with the given ID. A missing ID is not an error.
func (b *Backend) Delete(id int64) error {
	return b.run("delete opportunity", func(db *sql.DB) error {
		_, err := db.Exec(deleteOpportunity, id)
		return err
	})
}

// dehydrate returns the statement arguments for d in column order
// (scope, client, description, price, status).
func dehydrate(d types.Draft) []any {
	return []any{
		d.Scope,
		d.Client,
		d.Description,
		d.Price.InexactFloat64(),
		d.Status,
	}
}

// scanner is satisfied by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

// hydrateOpportunity scans one row. NULL text columns become "" and a NULL
// price becomes zero, so rows written outside this package still load.
func hydrateOpportunity(s scanner) (types.Opportunity, error) {
	var (
		o           types.Opportunity
		scope       sql.NullString
		client      sql.NullString
		description sql.NullString
		price       sql.NullFloat64
		status      sql.NullString
	)
	if err := s.Scan(&o.ID, &scope, &client, &description, &price, &status); err != nil {
		return types.Opportunity{}, err
	}
	o.Scope = scope.String
	o.Client = client.String
	o.Description = description.String
	o.Price = decimal.NewFromFloat(price.Float64)
	o.Status = status.String
	return o, nil
}
