// Package postgres provides PostgreSQL-backed implementations of the
// store interfaces. All stores operate through store.DBTX so they work
// both with a *sql.DB and inside a transaction started by
// store.RunInTransaction; the WithTx methods rebind a store to an open
// transaction.
//
// JSON-valued fields (task parameters and results, trend hashtags and
// metadata, content keywords and platforms) are persisted as JSONB
// columns. Database errors are translated to the sentinel errors in the
// store package via MapError so callers never depend on driver types.
package postgres
