package ports

import (
	"context"
	"sort"

	"prodcatalog/src/core/domain"
)

// Source fetches the live entities a Query evaluates against. Repositories
// provide it; the soft-delete filter is already applied inside.
type Source[T domain.Aggregate] func(ctx context.Context) ([]T, error)

// Query is a composable, lazily evaluated query over an aggregate type.
// Builder methods return a modified copy, so partial queries can be shared
// and extended independently. Nothing hits storage until a terminal method
// (ToList, Count, First) runs.
type Query[T domain.Aggregate] struct {
	source Source[T]
	preds  []Predicate[T]
	less   Less[T]
	desc   bool
	skip   int
	take   int
}

// NewQuery builds a query over the given source. Used by repository
// implementations; services obtain queries from Repository.Query.
func NewQuery[T domain.Aggregate](source Source[T]) Query[T] {
	return Query[T]{source: source, take: -1}
}

// Where adds a filter predicate. Multiple predicates are ANDed.
func (q Query[T]) Where(pred Predicate[T]) Query[T] {
	preds := make([]Predicate[T], len(q.preds), len(q.preds)+1)
	copy(preds, q.preds)
	q.preds = append(preds, pred)
	return q
}

// OrderBy sorts ascending by the given ordering.
func (q Query[T]) OrderBy(less Less[T]) Query[T] {
	q.less = less
	q.desc = false
	return q
}

// OrderByDescending sorts descending by the given ordering.
func (q Query[T]) OrderByDescending(less Less[T]) Query[T] {
	q.less = less
	q.desc = true
	return q
}

// Skip drops the first n results.
func (q Query[T]) Skip(n int) Query[T] {
	if n < 0 {
		n = 0
	}
	q.skip = n
	return q
}

// Take keeps at most n results.
func (q Query[T]) Take(n int) Query[T] {
	if n < 0 {
		n = 0
	}
	q.take = n
	return q
}

// ToList evaluates the query and materializes the results.
func (q Query[T]) ToList(ctx context.Context) ([]T, error) {
	items, err := q.evaluate(ctx)
	if err != nil {
		return nil, err
	}
	if q.skip >= len(items) {
		return []T{}, nil
	}
	items = items[q.skip:]
	if q.take >= 0 && q.take < len(items) {
		items = items[:q.take]
	}
	return items, nil
}

// Count evaluates the query and returns the number of matches, ignoring
// Skip/Take so the count reflects the filtered set.
func (q Query[T]) Count(ctx context.Context) (int64, error) {
	items, err := q.evaluate(ctx)
	if err != nil {
		return 0, err
	}
	return int64(len(items)), nil
}

// First evaluates the query and returns the first match, or the zero value
// and false when nothing matches.
func (q Query[T]) First(ctx context.Context) (T, bool, error) {
	var zero T
	items, err := q.Take(1).ToList(ctx)
	if err != nil || len(items) == 0 {
		return zero, false, err
	}
	return items[0], true, nil
}

func (q Query[T]) evaluate(ctx context.Context) ([]T, error) {
	all, err := q.source(ctx)
	if err != nil {
		return nil, err
	}
	items := make([]T, 0, len(all))
	for _, item := range all {
		if q.matches(item) {
			items = append(items, item)
		}
	}
	if q.less != nil {
		less := q.less
		if q.desc {
			sort.SliceStable(items, func(i, j int) bool { return less(items[j], items[i]) })
		} else {
			sort.SliceStable(items, func(i, j int) bool { return less(items[i], items[j]) })
		}
	}
	return items, nil
}

func (q Query[T]) matches(item T) bool {
	for _, pred := range q.preds {
		if !pred(item) {
			return false
		}
	}
	return true
}
