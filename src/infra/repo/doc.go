// Package repo contains the PostgreSQL implementation of the repository and
// unit-of-work ports defined in src/core/ports.
//
// The repository is generic: one PostgresRepository[T] serves any aggregate
// through a Schema[T] descriptor (table, columns, scan/values functions).
// Repositories never write to the database directly; they stage changes into
// the owning unit of work, which applies them in a single pgx transaction on
// Commit.
//
// The soft-delete filter is composed into every read statement here, at the
// repository boundary, rather than relying on a database feature.
package repo
