// Package store defines the persistence boundary. The validation and
// lifecycle layer above it only ever talks to this interface; the Postgres
// implementation is the production backend, the in-memory one backs tests.
package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/santalucia-health/hospital-admin-service/internal/model"
)

// ErrNotFound is returned by Get and FindBy when no record matches.
var ErrNotFound = errors.New("record not found")

// UniqueViolationError surfaces a database unique-index rejection. It is the
// final backstop against concurrent writers slipping past the in-transaction
// uniqueness checks.
type UniqueViolationError struct {
	Constraint string
}

func (e *UniqueViolationError) Error() string {
	return fmt.Sprintf("unique constraint violated: %s", e.Constraint)
}

// Filter matches one logical field against a value. With Not set the filter
// inverts to field != value.
type Filter struct {
	Field string
	Value string
	Not   bool
}

// Query narrows a List or Count. Soft-deleted records are excluded unless
// IncludeInactive is set. Limit 0 means no limit.
type Query struct {
	Filters         []Filter
	IncludeInactive bool
	Limit           int
	Offset          int
}

// Store is the transactional record store. Get addresses a record by id
// regardless of its active flag; FindBy searches active records only, which
// is what scopes uniqueness to live data.
type Store interface {
	Create(ctx context.Context, rec model.Record) error
	Get(ctx context.Context, kind model.Kind, id string) (model.Record, error)
	FindBy(ctx context.Context, kind model.Kind, field, value string) (model.Record, error)
	List(ctx context.Context, kind model.Kind, q Query) ([]model.Record, error)
	Count(ctx context.Context, kind model.Kind, q Query) (int, error)
	Update(ctx context.Context, rec model.Record) error
	Delete(ctx context.Context, kind model.Kind, id string) (bool, error)

	// InTx runs fn against a transactional view of the store. Any error
	// returned by fn rolls back every write made inside it.
	InTx(ctx context.Context, fn func(Store) error) error
}
