package sqlite

// Schema DDL. Scope and status membership is not enforced here; the input
// forms own that invariant.
const createOpportunities = `CREATE TABLE IF NOT EXISTS opportunities (
    id INTEGER PRIMARY KEY,
    scope TEXT,
    client TEXT,
    description TEXT,
    price REAL,
    status TEXT
);`

// Statements, one per Store operation.
const (
	insertOpportunity = `INSERT INTO opportunities (scope, client, description, price, status)
VALUES (?, ?, ?, ?, ?)`

	selectOpportunities = `SELECT id, scope, client, description, price, status FROM opportunities`

	selectOpportunity = selectOpportunities + ` WHERE id = ?`

	updateOpportunity = `UPDATE opportunities
SET scope = ?, client = ?, description = ?, price = ?, status = ?
WHERE id = ?`

	deleteOpportunity = `DELETE FROM opportunities WHERE id = ?`

	upsertOpportunity = `INSERT INTO opportunities (id, scope, client, description, price, status)
VALUES (?, ?, ?, ?, ?, ?)
ON CONFLICT(id) DO UPDATE SET
    scope = excluded.scope,
    client = excluded.client,
    description = excluded.description,
    price = excluded.price,
    status = excluded.status`
)
