package repo

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"prodcatalog/src/core/domain"
	"prodcatalog/src/core/ports"
)

// querier is the read/write surface shared by pgxpool.Pool and pgx.Tx, so
// reads transparently join an explicit transaction when one is open.
type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// txStager is what the unit of work sees of each repository's change set.
type txStager interface {
	flush(ctx context.Context, tx pgx.Tx) (int64, error)
	discard()
	pending() int
}

type changeKind int

const (
	changeInsert changeKind = iota
	changeUpdate
	changeHardDelete
)

type pendingChange[T domain.Aggregate] struct {
	kind   changeKind
	entity T
}

// trackedEntry pairs a live entity handed to the caller with a snapshot of
// its last-known-persisted state, so Rollback can revert in place.
type trackedEntry[T domain.Aggregate] struct {
	live T
	snap T
}

// PostgresRepository implements ports.Repository[T] for one aggregate type,
// driven entirely by its Schema. Writes stage into the repository's change
// set; the owning unit of work flushes them inside a transaction.
type PostgresRepository[T domain.Aggregate] struct {
	uow     *PostgresUnitOfWork
	schema  Schema[T]
	log     *slog.Logger
	staged  []pendingChange[T]
	tracked map[int64]*trackedEntry[T]
}

func newPostgresRepository[T domain.Aggregate](uow *PostgresUnitOfWork, schema Schema[T], log *slog.Logger) *PostgresRepository[T] {
	return &PostgresRepository[T]{
		uow:     uow,
		schema:  schema,
		log:     log,
		tracked: make(map[int64]*trackedEntry[T]),
	}
}

func (r *PostgresRepository[T]) selectLiveSQL() string {
	return fmt.Sprintf("SELECT %s FROM %s WHERE NOT is_deleted", r.schema.SelectList, r.schema.Table)
}

// fetchLive reads every live row in primary-key order. Predicates and
// orderings compose on top of it in memory, which keeps the soft-delete
// filter and the predicate semantics portable across backends.
func (r *PostgresRepository[T]) fetchLive(ctx context.Context) ([]T, error) {
	q := r.selectLiveSQL() + " ORDER BY " + r.schema.IDColumn
	rows, err := r.uow.querier().Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", r.schema.Table, err)
	}
	defer rows.Close()

	var items []T
	for rows.Next() {
		item, err := r.schema.Scan(rows)
		if err != nil {
			return nil, fmt.Errorf("scan %s: %w", r.schema.Table, err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate %s: %w", r.schema.Table, err)
	}
	return items, nil
}

func (r *PostgresRepository[T]) Query() ports.Query[T] {
	return ports.NewQuery(r.fetchLive)
}

func (r *PostgresRepository[T]) GetByID(ctx context.Context, id int64) (T, error) {
	var zero T
	if entry, ok := r.tracked[id]; ok {
		return entry.live, nil
	}

	q := r.selectLiveSQL() + fmt.Sprintf(" AND %s = $1", r.schema.IDColumn)
	entity, err := r.schema.Scan(r.uow.querier().QueryRow(ctx, q, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return zero, r.schema.NotFound(id)
		}
		return zero, fmt.Errorf("get %s by id: %w", r.schema.Table, err)
	}
	r.track(entity)
	return entity, nil
}

func (r *PostgresRepository[T]) GetAll(ctx context.Context) ([]T, error) {
	return r.Query().ToList(ctx)
}

func (r *PostgresRepository[T]) Find(ctx context.Context, pred ports.Predicate[T]) ([]T, error) {
	return r.Query().Where(pred).ToList(ctx)
}

func (r *PostgresRepository[T]) SingleOrDefault(ctx context.Context, pred ports.Predicate[T]) (T, error) {
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

func (r *PostgresRepository[T]) Exists(ctx context.Context, pred ports.Predicate[T]) (bool, error) {
	if pred == nil {
		q := fmt.Sprintf("SELECT EXISTS (SELECT 1 FROM %s WHERE NOT is_deleted)", r.schema.Table)
		var exists bool
		if err := r.uow.querier().QueryRow(ctx, q).Scan(&exists); err != nil {
			return false, fmt.Errorf("exists %s: %w", r.schema.Table, err)
		}
		return exists, nil
	}
	n, err := r.Query().Where(pred).Count(ctx)
	return n > 0, err
}

func (r *PostgresRepository[T]) Count(ctx context.Context, pred ports.Predicate[T]) (int64, error) {
	if pred == nil {
		q := fmt.Sprintf("SELECT COUNT(*) FROM %s WHERE NOT is_deleted", r.schema.Table)
		var n int64
		if err := r.uow.querier().QueryRow(ctx, q).Scan(&n); err != nil {
			return 0, fmt.Errorf("count %s: %w", r.schema.Table, err)
		}
		return n, nil
	}
	return r.Query().Where(pred).Count(ctx)
}

func (r *PostgresRepository[T]) GetPaged(ctx context.Context, pageNumber, pageSize int, pred ports.Predicate[T], less ports.Less[T], ascending bool) (ports.Page[T], error) {
	pageNumber, pageSize = ports.NormalizePage(pageNumber, pageSize)
	offset := (pageNumber - 1) * pageSize

	// Unfiltered, id-ordered pages push limit/offset down to SQL.
	if pred == nil && less == nil {
		total, err := r.Count(ctx, nil)
		if err != nil {
			return ports.Page[T]{}, err
		}
		dir := "ASC"
		if !ascending {
			dir = "DESC"
		}
		q := fmt.Sprintf("%s ORDER BY %s %s LIMIT $1 OFFSET $2", r.selectLiveSQL(), r.schema.IDColumn, dir)
		rows, err := r.uow.querier().Query(ctx, q, pageSize, offset)
		if err != nil {
			return ports.Page[T]{}, fmt.Errorf("page %s: %w", r.schema.Table, err)
		}
		defer rows.Close()

		items := make([]T, 0, pageSize)
		for rows.Next() {
			item, err := r.schema.Scan(rows)
			if err != nil {
				return ports.Page[T]{}, fmt.Errorf("scan %s: %w", r.schema.Table, err)
			}
			items = append(items, item)
		}
		if err := rows.Err(); err != nil {
			return ports.Page[T]{}, fmt.Errorf("iterate %s: %w", r.schema.Table, err)
		}
		return ports.Page[T]{Items: items, TotalCount: total, PageNumber: pageNumber, PageSize: pageSize}, nil
	}

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
	}
	total, err := q.Count(ctx)
	if err != nil {
		return ports.Page[T]{}, err
	}
	items, err := q.Skip(offset).Take(pageSize).ToList(ctx)
	if err != nil {
		return ports.Page[T]{}, err
	}
	return ports.Page[T]{Items: items, TotalCount: total, PageNumber: pageNumber, PageSize: pageSize}, nil
}

func (r *PostgresRepository[T]) Add(entity T) {
	r.staged = append(r.staged, pendingChange[T]{kind: changeInsert, entity: entity})
}

func (r *PostgresRepository[T]) AddRange(entities []T) {
	for _, entity := range entities {
		r.Add(entity)
	}
}

func (r *PostgresRepository[T]) Update(entity T) {
	r.staged = append(r.staged, pendingChange[T]{kind: changeUpdate, entity: entity})
}

func (r *PostgresRepository[T]) Delete(entity T) {
	entity.Base().MarkDeleted()
	r.Update(entity)
}

func (r *PostgresRepository[T]) HardDelete(entity T) {
	r.staged = append(r.staged, pendingChange[T]{kind: changeHardDelete, entity: entity})
}

func (r *PostgresRepository[T]) DeleteRange(entities []T) {
	for _, entity := range entities {
		r.Delete(entity)
	}
}

func (r *PostgresRepository[T]) track(entity T) {
	base := entity.Base()
	if base.IsTransient() {
		return
	}
	if _, ok := r.tracked[base.ID]; !ok {
		r.tracked[base.ID] = &trackedEntry[T]{live: entity, snap: r.schema.Clone(entity)}
	}
}

func (r *PostgresRepository[T]) pending() int {
	return len(r.staged)
}

// flush applies every staged change on the given transaction, in staging
// order. Entity state (generated ids, audit timestamps, snapshots) is only
// updated after the whole batch applied, so a failed flush leaves the staged
// set and the tracked entities untouched for a retry or Rollback.
func (r *PostgresRepository[T]) flush(ctx context.Context, tx pgx.Tx) (int64, error) {
	var affected int64
	var applied []func()

	for _, change := range r.staged {
		entity := change.entity
		base := entity.Base()

		switch change.kind {
		case changeInsert:
			createdAt := time.Now().UTC()
			cols := append(append([]string{}, r.schema.DataColumns...), "created_at", "is_deleted")
			args := append(r.schema.DataValues(entity), createdAt, base.IsDeleted)
			q := fmt.Sprintf(
				"INSERT INTO %s (%s) VALUES (%s) RETURNING %s",
				r.schema.Table, strings.Join(cols, ", "), placeholders(len(cols)), r.schema.IDColumn,
			)
			var id int64
			if err := tx.QueryRow(ctx, q, args...).Scan(&id); err != nil {
				return 0, fmt.Errorf("insert %s: %w", r.schema.Table, err)
			}
			affected++
			applied = append(applied, func() {
				base.AssignID(id)
				base.CreatedAt = createdAt
				r.track(entity)
			})

		case changeUpdate:
			updatedAt := time.Now().UTC()
			sets := make([]string, 0, len(r.schema.DataColumns)+2)
			for i, col := range r.schema.DataColumns {
				sets = append(sets, fmt.Sprintf("%s = $%d", col, i+1))
			}
			n := len(r.schema.DataColumns)
			sets = append(sets, fmt.Sprintf("updated_at = $%d", n+1), fmt.Sprintf("is_deleted = $%d", n+2))
			args := append(r.schema.DataValues(entity), updatedAt, base.IsDeleted, base.ID)
			q := fmt.Sprintf(
				"UPDATE %s SET %s WHERE %s = $%d",
				r.schema.Table, strings.Join(sets, ", "), r.schema.IDColumn, n+3,
			)
			tag, err := tx.Exec(ctx, q, args...)
			if err != nil {
				return 0, fmt.Errorf("update %s: %w", r.schema.Table, err)
			}
			affected += tag.RowsAffected()
			applied = append(applied, func() {
				base.UpdatedAt = &updatedAt
			})

		case changeHardDelete:
			q := fmt.Sprintf("DELETE FROM %s WHERE %s = $1", r.schema.Table, r.schema.IDColumn)
			tag, err := tx.Exec(ctx, q, base.ID)
			if err != nil {
				return 0, fmt.Errorf("delete %s: %w", r.schema.Table, err)
			}
			affected += tag.RowsAffected()
			id := base.ID
			applied = append(applied, func() {
				delete(r.tracked, id)
			})
		}
	}

	for _, fn := range applied {
		fn()
	}
	r.staged = nil
	for _, entry := range r.tracked {
		entry.snap = r.schema.Clone(entry.live)
	}
	return affected, nil
}

// discard drops staged changes and reverts tracked entities to their
// last-known-persisted snapshots. Storage is not touched.
func (r *PostgresRepository[T]) discard() {
	r.staged = nil
	for _, entry := range r.tracked {
		r.schema.Restore(entry.live, entry.snap)
	}
}

func placeholders(n int) string {
	ps := make([]string, n)
	for i := range ps {
		ps[i] = fmt.Sprintf("$%d", i+1)
	}
	return strings.Join(ps, ", ")
}
