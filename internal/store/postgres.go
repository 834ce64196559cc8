package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/lib/pq"
	"github.com/santalucia-health/hospital-admin-service/internal/model"
)

// querier is satisfied by both *sql.DB and *sql.Tx.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Postgres persists records in one table per kind. Uniqueness-scoped columns
// carry partial unique indexes over active rows, so a concurrent writer that
// races past the service-level check still fails here with a 23505.
type Postgres struct {
	db *sql.DB
	q  querier
}

func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db, q: db}
}

func wrapPgErr(err error) error {
	if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
		return &UniqueViolationError{Constraint: pqErr.Constraint}
	}
	return err
}

func (p *Postgres) Create(ctx context.Context, rec model.Record) error {
	spec, err := specFor(rec.Kind())
	if err != nil {
		return err
	}
	cols := append(envelopeColumns(), spec.columns...)
	placeholders := make([]string, len(cols))
	for i := range cols {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
	}
	query := fmt.Sprintf(
		"INSERT INTO %s (%s) VALUES (%s)",
		spec.table, strings.Join(cols, ", "), strings.Join(placeholders, ", "),
	)
	args := append(envelopeArgs(rec), spec.args(rec)...)
	if _, err := p.q.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("create %s: %w", rec.Kind(), wrapPgErr(err))
	}
	return nil
}

func (p *Postgres) Get(ctx context.Context, kind model.Kind, id string) (model.Record, error) {
	spec, err := specFor(kind)
	if err != nil {
		return nil, err
	}
	query := fmt.Sprintf("%s WHERE id = $1", selectClause(spec))
	rec, err := scanOne(p.q.QueryRowContext(ctx, query, id), spec)
	if err != nil {
		return nil, err
	}
	return rec, nil
}

func (p *Postgres) FindBy(ctx context.Context, kind model.Kind, field, value string) (model.Record, error) {
	spec, err := specFor(kind)
	if err != nil {
		return nil, err
	}
	col, ok := spec.fieldCols[field]
	if !ok {
		return nil, fmt.Errorf("%s has no field %q", kind, field)
	}
	query := fmt.Sprintf("%s WHERE active AND %s = $1 LIMIT 1", selectClause(spec), col)
	return scanOne(p.q.QueryRowContext(ctx, query, value), spec)
}

func (p *Postgres) List(ctx context.Context, kind model.Kind, q Query) ([]model.Record, error) {
	spec, err := specFor(kind)
	if err != nil {
		return nil, err
	}
	where, args, err := buildWhere(spec, q)
	if err != nil {
		return nil, err
	}
	query := fmt.Sprintf("%s %s ORDER BY created_at, id", selectClause(spec), where)
	if q.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", q.Limit)
	}
	if q.Offset > 0 {
		query += fmt.Sprintf(" OFFSET %d", q.Offset)
	}

	rows, err := p.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", kind, err)
	}
	defer rows.Close()

	var out []model.Record
	for rows.Next() {
		rec, err := spec.scan(rows)
		if err != nil {
			return nil, fmt.Errorf("scan %s: %w", kind, err)
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list %s: %w", kind, err)
	}
	return out, nil
}

func (p *Postgres) Count(ctx context.Context, kind model.Kind, q Query) (int, error) {
	spec, err := specFor(kind)
	if err != nil {
		return 0, err
	}
	where, args, err := buildWhere(spec, q)
	if err != nil {
		return 0, err
	}
	var n int
	query := fmt.Sprintf("SELECT COUNT(*) FROM %s %s", spec.table, where)
	if err := p.q.QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("count %s: %w", kind, err)
	}
	return n, nil
}

func (p *Postgres) Update(ctx context.Context, rec model.Record) error {
	spec, err := specFor(rec.Kind())
	if err != nil {
		return err
	}
	cols := append(envelopeColumns()[1:], spec.columns...) // skip immutable id
	sets := make([]string, len(cols))
	for i, col := range cols {
		sets[i] = fmt.Sprintf("%s = $%d", col, i+1)
	}
	query := fmt.Sprintf(
		"UPDATE %s SET %s WHERE id = $%d",
		spec.table, strings.Join(sets, ", "), len(cols)+1,
	)
	args := append(envelopeArgs(rec)[1:], spec.args(rec)...)
	args = append(args, rec.Env().ID)

	res, err := p.q.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update %s: %w", rec.Kind(), wrapPgErr(err))
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

func (p *Postgres) Delete(ctx context.Context, kind model.Kind, id string) (bool, error) {
	spec, err := specFor(kind)
	if err != nil {
		return false, err
	}
	res, err := p.q.ExecContext(ctx, fmt.Sprintf("DELETE FROM %s WHERE id = $1", spec.table), id)
	if err != nil {
		return false, fmt.Errorf("delete %s: %w", kind, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete %s: %w", kind, err)
	}
	return n > 0, nil
}

// InTx wraps fn in a serializable transaction so that the check-then-write
// sequences of the service layer commit as one atomic unit.
func (p *Postgres) InTx(ctx context.Context, fn func(Store) error) error {
	if _, nested := p.q.(*sql.Tx); nested {
		return fn(p)
	}
	tx, err := p.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelSerializable})
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if err := fn(&Postgres{db: p.db, q: tx}); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", wrapPgErr(err))
	}
	return nil
}

func buildWhere(spec *tableSpec, q Query) (string, []any, error) {
	conds := []string{"TRUE"}
	if !q.IncludeInactive {
		conds = []string{"active"}
	}
	var args []any
	for _, f := range q.Filters {
		col, ok := spec.fieldCols[f.Field]
		if !ok {
			if f.Field == "id" {
				col = "id"
			} else {
				return "", nil, fmt.Errorf("no field %q on %s", f.Field, spec.table)
			}
		}
		op := "="
		if f.Not {
			op = "<>"
		}
		args = append(args, f.Value)
		conds = append(conds, fmt.Sprintf("%s %s $%d", col, op, len(args)))
	}
	return "WHERE " + strings.Join(conds, " AND "), args, nil
}

func selectClause(spec *tableSpec) string {
	cols := append(envelopeColumns(), spec.columns...)
	return fmt.Sprintf("SELECT %s FROM %s", strings.Join(cols, ", "), spec.table)
}

func scanOne(row *sql.Row, spec *tableSpec) (model.Record, error) {
	rec, err := spec.scanRow(row)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get from %s: %w", spec.table, err)
	}
	return rec, nil
}
