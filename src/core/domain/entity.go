package domain

import (
	"reflect"
	"time"
)

// EntityBase carries the identity and audit state shared by all entities.
// Embed it by pointer receiver semantics into concrete entities.
//
// The ID is assigned by storage on first persist and immutable afterwards.
// CreatedAt is stamped on first persist, UpdatedAt on every later persist.
// IsDeleted marks a soft-deleted row; reads filter it out at the repository
// boundary, the row itself stays in storage.
type EntityBase struct {
	ID        int64
	CreatedAt time.Time
	UpdatedAt *time.Time
	IsDeleted bool
}

// Base exposes the embedded EntityBase to generic infrastructure code.
func (e *EntityBase) Base() *EntityBase { return e }

// IsTransient reports whether the entity has not been persisted yet.
func (e *EntityBase) IsTransient() bool { return e.ID == 0 }

// AssignID records the storage-generated identity. Assigning over an existing
// identity is ignored; identity never changes once set.
func (e *EntityBase) AssignID(id int64) {
	if e.ID == 0 {
		e.ID = id
	}
}

// Touch refreshes the update timestamp.
func (e *EntityBase) Touch() {
	now := time.Now().UTC()
	e.UpdatedAt = &now
}

// MarkDeleted soft-deletes the entity: flips the flag and refreshes the
// update timestamp. The caller still has to stage the change.
func (e *EntityBase) MarkDeleted() {
	e.IsDeleted = true
	e.Touch()
}

// Aggregate marks an aggregate root. Only aggregate roots get repositories;
// non-root entities are reached through their root.
type Aggregate interface {
	Base() *EntityBase
	IsAggregateRoot()
}

// SameIdentity reports entity equality: two entities are equal iff they are
// the same concrete type and share a non-zero ID. A transient entity (ID 0)
// equals nothing but itself.
func SameIdentity(a, b Aggregate) bool {
	if a == nil || b == nil {
		return false
	}
	if reflect.TypeOf(a) != reflect.TypeOf(b) {
		return false
	}
	if a.Base().IsTransient() || b.Base().IsTransient() {
		return a == b
	}
	return a.Base().ID == b.Base().ID
}
