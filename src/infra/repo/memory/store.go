// Package memory contains an in-memory implementation of the repository and
// unit-of-work ports. It backs tests and storage-free local runs with the
// same staging, soft-delete, and atomic-commit semantics as the PostgreSQL
// implementation in the parent package.
package memory

import (
	"sort"
	"sync"
	"time"

	"prodcatalog/src/core/domain"
)

// Config describes one aggregate type to the memory backend, mirroring the
// role of the pg Schema descriptor.
type Config[T domain.Aggregate] struct {
	// Clone returns a detached copy; the store only holds and hands out clones.
	Clone func(entity T) T

	// Restore copies src's state into dst in place.
	Restore func(dst, src T)

	// Check validates a row against storage constraints before it is applied.
	// Nil means no constraints.
	Check func(entity T) error

	// NotFound builds the domain error for a missed lookup.
	NotFound func(id int64) domain.Error
}

type opKind int

const (
	opInsert opKind = iota
	opUpdate
	opHardDelete
)

type op[T domain.Aggregate] struct {
	kind   opKind
	entity T
}

// Store is the durable state for one aggregate type: a map of rows (clones,
// soft-deleted ones included) plus an id sequence. It outlives individual
// units of work the way a database outlives connections.
type Store[T domain.Aggregate] struct {
	mu     sync.RWMutex
	cfg    Config[T]
	rows   map[int64]T
	nextID int64
}

// NewStore creates an empty store.
func NewStore[T domain.Aggregate](cfg Config[T]) *Store[T] {
	return &Store[T]{
		cfg:  cfg,
		rows: make(map[int64]T),
	}
}

// liveList returns clones of all non-deleted rows in id order.
func (s *Store[T]) liveList() []T {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := make([]T, 0, len(s.rows))
	for _, row := range s.rows {
		if !row.Base().IsDeleted {
			items = append(items, s.cfg.Clone(row))
		}
	}
	sort.Slice(items, func(i, j int) bool { return items[i].Base().ID < items[j].Base().ID })
	return items
}

// load returns a clone of the live row with the given id.
func (s *Store[T]) load(id int64) (T, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var zero T
	row, ok := s.rows[id]
	if !ok || row.Base().IsDeleted {
		return zero, false
	}
	return s.cfg.Clone(row), true
}

// Peek returns a clone of the row with the given id, bypassing the
// soft-delete filter. It exists so callers can observe that a soft-deleted
// row is still data, not removal.
func (s *Store[T]) Peek(id int64) (T, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var zero T
	row, ok := s.rows[id]
	if !ok {
		return zero, false
	}
	return s.cfg.Clone(row), true
}

// Len returns the number of rows, soft-deleted ones included.
func (s *Store[T]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.rows)
}

// apply runs all ops atomically: every op is validated before any is applied,
// so a constraint violation anywhere leaves the store untouched. Applied
// inserts assign ids and creation timestamps onto the live entities.
func (s *Store[T]) apply(ops []op[T]) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cfg.Check != nil {
		for _, o := range ops {
			if o.kind == opHardDelete {
				continue
			}
			if err := s.cfg.Check(o.entity); err != nil {
				return 0, err
			}
		}
	}

	var affected int64
	for _, o := range ops {
		base := o.entity.Base()
		switch o.kind {
		case opInsert:
			s.nextID++
			base.AssignID(s.nextID)
			base.CreatedAt = time.Now().UTC()
			s.rows[base.ID] = s.cfg.Clone(o.entity)
			affected++
		case opUpdate:
			if _, ok := s.rows[base.ID]; !ok {
				continue
			}
			base.Touch()
			s.rows[base.ID] = s.cfg.Clone(o.entity)
			affected++
		case opHardDelete:
			if _, ok := s.rows[base.ID]; !ok {
				continue
			}
			delete(s.rows, base.ID)
			affected++
		}
	}
	return affected, nil
}

type snapshot[T domain.Aggregate] struct {
	rows   map[int64]T
	nextID int64
}

// snapshotState captures the whole store for an explicit transaction.
func (s *Store[T]) snapshotState() snapshot[T] {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows := make(map[int64]T, len(s.rows))
	for id, row := range s.rows {
		rows[id] = s.cfg.Clone(row)
	}
	return snapshot[T]{rows: rows, nextID: s.nextID}
}

// restoreState rewinds the store to a snapshot.
func (s *Store[T]) restoreState(snap snapshot[T]) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rows = snap.rows
	s.nextID = snap.nextID
}
