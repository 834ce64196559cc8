package service

import (
	"errors"
	"fmt"

	"github.com/santalucia-health/hospital-admin-service/internal/model"
)

// ErrNoLifecycle is returned when a transition is requested for a kind that
// only carries the active/inactive flag.
var ErrNoLifecycle = errors.New("entity kind has no lifecycle states")

// DuplicateError reports a uniqueness violation on an active record.
type DuplicateError struct {
	Kind  model.Kind
	Field string
	Value string
}

func (e *DuplicateError) Error() string {
	if e.Value == "" {
		return fmt.Sprintf("%s: duplicate %s", e.Kind, e.Field)
	}
	return fmt.Sprintf("%s: %s %q is already in use", e.Kind, e.Field, e.Value)
}

// NotFoundError reports a missing record, either the operation's subject or a
// referenced related entity.
type NotFoundError struct {
	Kind model.Kind
	ID   string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Kind, e.ID)
}

// ConflictError reports a scheduling or occupancy overlap.
type ConflictError struct {
	Kind   model.Kind
	Reason string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("%s conflict: %s", e.Kind, e.Reason)
}
