package service

import (
	"context"

	"github.com/santalucia-health/hospital-admin-service/internal/lifecycle"
	"github.com/santalucia-health/hospital-admin-service/internal/model"
	"github.com/santalucia-health/hospital-admin-service/internal/store"
)

// FieldValue pairs a logical field name with its (cleaned) value.
type FieldValue struct {
	Field string
	Value string
}

// Reference names a foreign key carried by a record. A non-optional reference
// with an empty ID fails validation; a non-empty ID must resolve in the store.
type Reference struct {
	Field    string
	Kind     model.Kind
	ID       string
	Optional bool
}

// Cascade names a child kind removed together with its parent on permanent
// deletion, matched through the child's reference field.
type Cascade struct {
	Kind     model.Kind
	RefField string
}

// Descriptor parameterizes the generic Service for one entity kind. This is
// what replaces the per-entity copy-pasted CRUD classes: the create/update/
// lifecycle algorithms live once in Service, the per-kind variation lives
// here as data and small functions.
type Descriptor[T model.Record, P any] struct {
	Kind model.Kind

	// New returns an empty record, used when decoding requests.
	New func() T

	// Validate cleans and checks every field. Pure: no store access.
	Validate func(T) error

	// Apply validates a patch and applies it, returning the logical names of
	// the fields that actually changed.
	Apply func(T, P) ([]string, error)

	// Unique lists the uniqueness-scoped fields with their current values.
	Unique func(T) []FieldValue

	// Refs lists the record's foreign references.
	Refs func(T) []Reference

	// Conflict runs the kind's overlap check (double booking, room
	// occupancy). excludeID is the record's own id on update, empty on create.
	Conflict func(ctx context.Context, st store.Store, rec T, excludeID string) error

	// Machine and Status are set together for stateful kinds; Status returns
	// a pointer to the record's status field.
	Machine *lifecycle.Machine
	Status  func(T) *model.Status

	// AfterWrite runs inside the same transaction after a successful create
	// or update, for derived data such as invoice totals.
	AfterWrite func(ctx context.Context, st store.Store, rec T) error

	// AfterDelete runs inside the same transaction after a successful
	// permanent delete of this record.
	AfterDelete func(ctx context.Context, st store.Store, rec T) error

	// Children are cascade-deleted with the record.
	Children []Cascade
}
