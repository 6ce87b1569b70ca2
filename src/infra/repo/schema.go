package repo

import (
	"github.com/jackc/pgx/v5"

	"prodcatalog/src/core/domain"
)

// Schema describes how one aggregate type maps onto its table. It is the only
// per-aggregate piece the generic repository needs; adding an aggregate means
// writing a Schema and exposing an accessor on the unit of work.
//
// Column conventions the generic code assumes: IDColumn is a bigserial
// primary key, and the table carries created_at, updated_at, and is_deleted
// audit columns managed here rather than by triggers.
type Schema[T domain.Aggregate] struct {
	// Table is the table name.
	Table string

	// IDColumn is the primary key column.
	IDColumn string

	// DataColumns are the entity-specific mutable columns, in the order
	// DataValues returns them.
	DataColumns []string

	// DataValues extracts the values for DataColumns from an entity.
	DataValues func(entity T) []any

	// SelectList is the full select list: id, data columns, then
	// created_at, updated_at, is_deleted. Scan must match it.
	SelectList string

	// Scan reads one row in SelectList order into a new entity.
	Scan func(row pgx.Row) (T, error)

	// Clone returns a detached copy used for rollback snapshots.
	Clone func(entity T) T

	// Restore copies src's state into dst in place, reverting a tracked
	// entity to its snapshot.
	Restore func(dst, src T)

	// NotFound builds the domain error for a missed lookup on this table.
	NotFound func(id int64) domain.Error
}
