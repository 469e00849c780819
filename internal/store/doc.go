// Package store defines the persistence contracts of the account service:
// entity repositories, the transactional unit of work that binds them to a
// single commit/rollback decision, and the sentinel errors callers use to
// classify storage failures. Implementations live under platform/postgres.
package store
