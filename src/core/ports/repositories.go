// Package ports defines interfaces (ports) that connect core domain to infrastructure.
// These interfaces follow the ports and adapters (hexagonal) architecture pattern.
//
// Ports are defined here in the core layer, while implementations (adapters)
// live in src/infra/repo. This ensures the core has no dependency on infrastructure.
package ports

import (
	"context"
	"errors"

	"prodcatalog/src/core/domain"
)

// Pagination bounds. Page sizes above the ceiling are clamped, never honored,
// so a caller cannot request an unbounded result set.
const (
	DefaultPageSize = 10
	MaxPageSize     = 100
)

// ErrAmbiguousMatch is returned by SingleOrDefault when a predicate matches
// more than one entity.
var ErrAmbiguousMatch = errors.New("ambiguous match: predicate matched more than one entity")

// Predicate filters entities in memory. The soft-delete filter is always
// applied before any predicate runs; predicates only ever see live entities.
type Predicate[T domain.Aggregate] func(T) bool

// Less orders two entities; used for sorting and paging.
type Less[T domain.Aggregate] func(a, b T) bool

// Page is one page of results plus the total count of the filtered
// (not paginated) set, so callers can compute page counts.
type Page[T any] struct {
	Items      []T
	TotalCount int64
	PageNumber int
	PageSize   int
}

// NormalizePage clamps page number and size into valid bounds:
// page < 1 becomes 1, size < 1 becomes DefaultPageSize, size above
// MaxPageSize is capped at MaxPageSize.
func NormalizePage(pageNumber, pageSize int) (int, int) {
	if pageNumber < 1 {
		pageNumber = 1
	}
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}
	if pageSize > MaxPageSize {
		pageSize = MaxPageSize
	}
	return pageNumber, pageSize
}

// Repository gives CRUD and query access to one aggregate type.
//
// All write methods only stage changes into the owning unit of work's pending
// change set; nothing touches durable storage until UnitOfWork.Commit. That is
// what lets writes across several repositories commit atomically.
type Repository[T domain.Aggregate] interface {
	// Query returns a composable, lazily evaluated query over all live
	// (non-deleted) entities. No I/O happens until a terminal method runs.
	Query() Query[T]

	// GetByID returns the live entity with the given id, or a NotFound domain
	// error. The entity is tracked: its persisted state is snapshotted so a
	// later Rollback can revert in-memory mutations.
	GetByID(ctx context.Context, id int64) (T, error)

	// GetAll materializes every live entity.
	GetAll(ctx context.Context) ([]T, error)

	// Find materializes the live entities matching pred.
	Find(ctx context.Context, pred Predicate[T]) ([]T, error)

	// SingleOrDefault returns the single live entity matching pred, the zero
	// value when nothing matches, and ErrAmbiguousMatch when more than one does.
	SingleOrDefault(ctx context.Context, pred Predicate[T]) (T, error)

	// Exists reports whether any live entity matches pred.
	Exists(ctx context.Context, pred Predicate[T]) (bool, error)

	// Count counts live entities matching pred; a nil pred counts all of them.
	Count(ctx context.Context, pred Predicate[T]) (int64, error)

	// GetPaged returns one page of live entities matching pred (nil for all),
	// ordered by less (nil for storage order), ascending or descending.
	// Page arguments are normalized per NormalizePage. TotalCount reflects the
	// filtered set before offset/limit.
	GetPaged(ctx context.Context, pageNumber, pageSize int, pred Predicate[T], less Less[T], ascending bool) (Page[T], error)

	// Add stages the entity for insertion.
	Add(entity T)

	// AddRange stages every entity for insertion.
	AddRange(entities []T)

	// Update stages the entity (all fields) as modified.
	Update(entity T)

	// Delete soft-deletes: flips the delete flag, refreshes the update
	// timestamp, and stages the entity as modified. The row is not removed.
	Delete(entity T)

	// HardDelete stages physical removal of the row.
	HardDelete(entity T)

	// DeleteRange soft-deletes every entity in the collection.
	DeleteRange(entities []T)
}
