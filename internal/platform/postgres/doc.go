// Package postgres implements the store contracts against PostgreSQL.
// Repositories read and write through the store.DBTX they are constructed
// with, so the same implementation serves both pooled connections and the
// unit of work's transaction. Driver errors are classified into store
// sentinels close to their origin via MapError.
package postgres
