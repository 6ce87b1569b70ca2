package memory

import (
	"context"

	"prodcatalog/src/core/domain"
	"prodcatalog/src/core/ports"
)

type trackedEntry[T domain.Aggregate] struct {
	live T
	snap T
}

// Repository implements ports.Repository[T] over a Store. Writes stage into
// the repository's change set; the owning unit of work flushes them.
type Repository[T domain.Aggregate] struct {
	store   *Store[T]
	staged  []op[T]
	tracked map[int64]*trackedEntry[T]
}

func newRepository[T domain.Aggregate](store *Store[T]) *Repository[T] {
	return &Repository[T]{
		store:   store,
		tracked: make(map[int64]*trackedEntry[T]),
	}
}

func (r *Repository[T]) source(ctx context.Context) ([]T, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return r.store.liveList(), nil
}

func (r *Repository[T]) Query() ports.Query[T] {
	return ports.NewQuery(r.source)
}

func (r *Repository[T]) GetByID(ctx context.Context, id int64) (T, error) {
	var zero T
	if err := ctx.Err(); err != nil {
		return zero, err
	}
	if entry, ok := r.tracked[id]; ok {
		return entry.live, nil
	}
	entity, ok := r.store.load(id)
	if !ok {
		return zero, r.store.cfg.NotFound(id)
	}
	r.track(entity)
	return entity, nil
}

func (r *Repository[T]) GetAll(ctx context.Context) ([]T, error) {
	return r.Query().ToList(ctx)
}

func (r *Repository[T]) Find(ctx context.Context, pred ports.Predicate[T]) ([]T, error) {
	return r.Query().Where(pred).ToList(ctx)
}

func (r *Repository[T]) SingleOrDefault(ctx context.Context, pred ports.Predicate[T]) (T, error) {
	var zero T
	items, err := r.Find(ctx, pred)
	if err != nil {
		return zero, err
	}
	switch len(items) {
	case 0:
		return zero, nil
	case 1:
		return items[0], nil
	default:
		return zero, ports.ErrAmbiguousMatch
	}
}

func (r *Repository[T]) Exists(ctx context.Context, pred ports.Predicate[T]) (bool, error) {
	n, err := r.Count(ctx, pred)
	return n > 0, err
}

func (r *Repository[T]) Count(ctx context.Context, pred ports.Predicate[T]) (int64, error) {
	q := r.Query()
	if pred != nil {
		q = q.Where(pred)
	}
	return q.Count(ctx)
}

func (r *Repository[T]) GetPaged(ctx context.Context, pageNumber, pageSize int, pred ports.Predicate[T], less ports.Less[T], ascending bool) (ports.Page[T], error) {
	pageNumber, pageSize = ports.NormalizePage(pageNumber, pageSize)

	q := r.Query()
	if pred != nil {
		q = q.Where(pred)
	}
	if less != nil {
		if ascending {
			q = q.OrderBy(less)
		} else {
			q = q.OrderByDescending(less)
		}
	} else if !ascending {
		q = q.OrderByDescending(func(a, b T) bool { return a.Base().ID < b.Base().ID })
	}

	total, err := q.Count(ctx)
	if err != nil {
		return ports.Page[T]{}, err
	}
	items, err := q.Skip((pageNumber - 1) * pageSize).Take(pageSize).ToList(ctx)
	if err != nil {
		return ports.Page[T]{}, err
	}
	return ports.Page[T]{Items: items, TotalCount: total, PageNumber: pageNumber, PageSize: pageSize}, nil
}

func (r *Repository[T]) Add(entity T) {
	r.staged = append(r.staged, op[T]{kind: opInsert, entity: entity})
}

func (r *Repository[T]) AddRange(entities []T) {
	for _, entity := range entities {
		r.Add(entity)
	}
}

func (r *Repository[T]) Update(entity T) {
	r.staged = append(r.staged, op[T]{kind: opUpdate, entity: entity})
}

func (r *Repository[T]) Delete(entity T) {
	entity.Base().MarkDeleted()
	r.Update(entity)
}

func (r *Repository[T]) HardDelete(entity T) {
	r.staged = append(r.staged, op[T]{kind: opHardDelete, entity: entity})
}

func (r *Repository[T]) DeleteRange(entities []T) {
	for _, entity := range entities {
		r.Delete(entity)
	}
}

func (r *Repository[T]) track(entity T) {
	base := entity.Base()
	if base.IsTransient() {
		return
	}
	if _, ok := r.tracked[base.ID]; !ok {
		r.tracked[base.ID] = &trackedEntry[T]{live: entity, snap: r.store.cfg.Clone(entity)}
	}
}

func (r *Repository[T]) pending() int {
	return len(r.staged)
}

func (r *Repository[T]) flush(ctx context.Context) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	affected, err := r.store.apply(r.staged)
	if err != nil {
		return 0, err
	}
	for _, o := range r.staged {
		if o.kind == opInsert {
			r.track(o.entity)
		}
		if o.kind == opHardDelete {
			delete(r.tracked, o.entity.Base().ID)
		}
	}
	r.staged = nil
	for _, entry := range r.tracked {
		entry.snap = r.store.cfg.Clone(entry.live)
	}
	return affected, nil
}

func (r *Repository[T]) discard() {
	r.staged = nil
	for _, entry := range r.tracked {
		r.store.cfg.Restore(entry.live, entry.snap)
	}
}

var _ ports.Repository[*domain.Product] = (*Repository[*domain.Product])(nil)
