// Package domain contains the core domain model for the catalog.
//
// This package defines:
//   - EntityBase: shared identity, audit timestamps, and soft-delete state
//   - Aggregate: the marker for aggregate roots, which alone get repositories
//   - Product: the catalog aggregate, constructed only through its factory
//   - Error / Result: expected failures as values, never as panics
//
// Rules for this package:
//   - No external dependencies except the standard library
//   - No infrastructure concerns (database, HTTP, etc.)
//   - Entities validate their own invariants; factories aggregate every
//     violation instead of stopping at the first one
package domain
