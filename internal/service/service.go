// Package service implements the validation and lifecycle layer: field
// validation, uniqueness and referential-integrity guards, scheduling and
// occupancy conflict checks, state-machine transitions and soft-delete
// semantics, composed over the Store for every entity kind.
package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/santalucia-health/hospital-admin-service/internal/messaging"
	"github.com/santalucia-health/hospital-admin-service/internal/model"
	"github.com/santalucia-health/hospital-admin-service/internal/pagination"
	"github.com/santalucia-health/hospital-admin-service/internal/store"
	"github.com/santalucia-health/hospital-admin-service/internal/validate"
)

// Service implements create/read/update/lifecycle operations for one entity
// kind, parameterized by its Descriptor. Every check-then-write sequence runs
// inside a single store transaction.
type Service[T model.Record, P any] struct {
	st   store.Store
	desc Descriptor[T, P]
	pub  messaging.EventPublisher
	now  func() time.Time
}

func New[T model.Record, P any](st store.Store, desc Descriptor[T, P], pub messaging.EventPublisher) *Service[T, P] {
	return &Service[T, P]{st: st, desc: desc, pub: pub, now: time.Now}
}

// Kind returns the entity kind this service manages.
func (s *Service[T, P]) Kind() model.Kind { return s.desc.Kind }

// NewRecord returns an empty record for request decoding.
func (s *Service[T, P]) NewRecord() T { return s.desc.New() }

// Create validates the record, enforces uniqueness, referential integrity and
// conflict rules, assigns the envelope and persists, all in one transaction.
func (s *Service[T, P]) Create(ctx context.Context, rec T, creatorID string) (T, error) {
	var zero T
	if err := s.desc.Validate(rec); err != nil {
		return zero, err
	}

	now := s.now().UTC()
	env := rec.Env()
	env.ID = uuid.New().String()
	env.Active = true
	env.CreatedAt = now
	env.UpdatedAt = now
	env.CreatedBy = creatorID
	env.UpdatedBy = ""
	if s.desc.Machine != nil {
		*s.desc.Status(rec) = s.desc.Machine.Initial
	}

	err := s.st.InTx(ctx, func(tx store.Store) error {
		if err := s.checkUnique(ctx, tx, rec, "", nil); err != nil {
			return err
		}
		if err := s.checkRefs(ctx, tx, rec); err != nil {
			return err
		}
		if s.desc.Conflict != nil {
			if err := s.desc.Conflict(ctx, tx, rec, ""); err != nil {
				return err
			}
		}
		if err := tx.Create(ctx, rec); err != nil {
			return s.mapStoreErr(err)
		}
		if s.desc.AfterWrite != nil {
			return s.desc.AfterWrite(ctx, tx, rec)
		}
		return nil
	})
	if err != nil {
		return zero, err
	}

	s.publish(ctx, messaging.ActionCreated, rec, creatorID)
	return rec, nil
}

// Get returns the record by id. Soft-deleted records stay addressable here;
// only listings and FindBy exclude them.
func (s *Service[T, P]) Get(ctx context.Context, id string) (T, error) {
	return s.fetch(ctx, s.st, id)
}

// ListOptions narrow a listing. Soft-deleted records are excluded unless
// IncludeInactive is set.
type ListOptions struct {
	Status          model.Status
	IncludeInactive bool
	Filters         []store.Filter
	Page            pagination.Params
}

// List returns one page of records plus the total match count.
func (s *Service[T, P]) List(ctx context.Context, opts ListOptions) ([]T, int, error) {
	opts.Page.Validate()
	q := store.Query{
		Filters:         opts.Filters,
		IncludeInactive: opts.IncludeInactive,
	}
	if opts.Status != "" {
		q.Filters = append(q.Filters, store.Filter{Field: "status", Value: string(opts.Status)})
	}

	var out []T
	var total int
	err := s.st.InTx(ctx, func(tx store.Store) error {
		n, err := tx.Count(ctx, s.desc.Kind, q)
		if err != nil {
			return err
		}
		total = n

		paged := q
		paged.Limit = opts.Page.Limit
		paged.Offset = opts.Page.CalculateOffset()
		recs, err := tx.List(ctx, s.desc.Kind, paged)
		if err != nil {
			return err
		}
		for _, raw := range recs {
			rec, err := s.assert(raw)
			if err != nil {
				return err
			}
			out = append(out, rec)
		}
		return nil
	})
	if err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

// Update applies a typed patch. Changed uniqueness-scoped fields are
// re-checked excluding the record itself; an empty patch with no editor id is
// a no-op that neither writes nor bumps the modification timestamp.
func (s *Service[T, P]) Update(ctx context.Context, id, editorID string, patch P) (T, error) {
	var out T
	wrote := false
	err := s.st.InTx(ctx, func(tx store.Store) error {
		rec, err := s.fetch(ctx, tx, id)
		if err != nil {
			return err
		}
		changed, err := s.desc.Apply(rec, patch)
		if err != nil {
			return err
		}
		if len(changed) == 0 && editorID == "" {
			out = rec
			return nil
		}

		changedSet := map[string]bool{}
		for _, f := range changed {
			changedSet[f] = true
		}
		if err := s.checkUnique(ctx, tx, rec, id, changedSet); err != nil {
			return err
		}
		if err := s.checkRefs(ctx, tx, rec); err != nil {
			return err
		}
		if s.desc.Conflict != nil && len(changed) > 0 {
			if err := s.desc.Conflict(ctx, tx, rec, id); err != nil {
				return err
			}
		}

		env := rec.Env()
		env.UpdatedBy = editorID
		env.UpdatedAt = s.now().UTC()
		if err := tx.Update(ctx, rec); err != nil {
			return s.mapStoreErr(err)
		}
		if s.desc.AfterWrite != nil {
			if err := s.desc.AfterWrite(ctx, tx, rec); err != nil {
				return err
			}
		}
		wrote = true
		out = rec
		return nil
	})
	if err != nil {
		return out, err
	}
	if wrote {
		s.publish(ctx, messaging.ActionUpdated, out, editorID)
	}
	return out, nil
}

// Transition applies a state-machine action (cancel, complete, pay, ...).
func (s *Service[T, P]) Transition(ctx context.Context, id string, action model.Action, editorID string) (T, error) {
	var out T
	if s.desc.Machine == nil {
		return out, ErrNoLifecycle
	}
	err := s.st.InTx(ctx, func(tx store.Store) error {
		rec, err := s.fetch(ctx, tx, id)
		if err != nil {
			return err
		}
		current := *s.desc.Status(rec)
		next, err := s.desc.Machine.Step(current, action)
		if err != nil {
			return err
		}
		*s.desc.Status(rec) = next

		env := rec.Env()
		env.UpdatedBy = editorID
		env.UpdatedAt = s.now().UTC()
		if err := tx.Update(ctx, rec); err != nil {
			return s.mapStoreErr(err)
		}
		out = rec
		return nil
	})
	if err != nil {
		return out, err
	}
	s.publish(ctx, messaging.ActionStatusChanged, out, editorID)
	return out, nil
}

// Deactivate soft-deletes the record. Deactivating an inactive record is a
// no-op success that leaves timestamps untouched.
func (s *Service[T, P]) Deactivate(ctx context.Context, id, editorID string) (T, error) {
	return s.setActive(ctx, id, editorID, false)
}

// Reactivate restores a soft-deleted record. Uniqueness and conflict rules
// are re-checked: a record whose email or room was reused while it was
// inactive cannot come back until the clash is resolved.
func (s *Service[T, P]) Reactivate(ctx context.Context, id, editorID string) (T, error) {
	return s.setActive(ctx, id, editorID, true)
}

func (s *Service[T, P]) setActive(ctx context.Context, id, editorID string, active bool) (T, error) {
	var out T
	wrote := false
	err := s.st.InTx(ctx, func(tx store.Store) error {
		rec, err := s.fetch(ctx, tx, id)
		if err != nil {
			return err
		}
		if rec.Env().Active == active {
			out = rec
			return nil
		}
		rec.Env().Active = active

		if active {
			if err := s.checkUnique(ctx, tx, rec, id, nil); err != nil {
				return err
			}
			if s.desc.Conflict != nil {
				if err := s.desc.Conflict(ctx, tx, rec, id); err != nil {
					return err
				}
			}
		}

		env := rec.Env()
		env.UpdatedBy = editorID
		env.UpdatedAt = s.now().UTC()
		if err := tx.Update(ctx, rec); err != nil {
			return s.mapStoreErr(err)
		}
		wrote = true
		out = rec
		return nil
	})
	if err != nil {
		return out, err
	}
	if wrote {
		action := messaging.ActionDeactivated
		if active {
			action = messaging.ActionReactivated
		}
		s.publish(ctx, action, out, editorID)
	}
	return out, nil
}

// PermanentlyDelete removes the record and its owned children irreversibly.
// The whole cascade commits or rolls back as one unit: a failed child delete
// leaves the parent and the other children in place.
func (s *Service[T, P]) PermanentlyDelete(ctx context.Context, id, actorID string) error {
	var deleted T
	err := s.st.InTx(ctx, func(tx store.Store) error {
		rec, err := s.fetch(ctx, tx, id)
		if err != nil {
			return err
		}
		for _, child := range s.desc.Children {
			q := store.Query{
				Filters:         []store.Filter{{Field: child.RefField, Value: id}},
				IncludeInactive: true,
			}
			children, err := tx.List(ctx, child.Kind, q)
			if err != nil {
				return fmt.Errorf("list %s children: %w", child.Kind, err)
			}
			for _, c := range children {
				if _, err := tx.Delete(ctx, child.Kind, c.Env().ID); err != nil {
					return fmt.Errorf("cascade delete %s %s: %w", child.Kind, c.Env().ID, err)
				}
			}
		}
		ok, err := tx.Delete(ctx, s.desc.Kind, id)
		if err != nil {
			return fmt.Errorf("delete %s %s: %w", s.desc.Kind, id, err)
		}
		if !ok {
			return &NotFoundError{Kind: s.desc.Kind, ID: id}
		}
		if s.desc.AfterDelete != nil {
			if err := s.desc.AfterDelete(ctx, tx, rec); err != nil {
				return err
			}
		}
		deleted = rec
		return nil
	})
	if err != nil {
		return err
	}
	s.publish(ctx, messaging.ActionDeleted, deleted, actorID)
	return nil
}

// checkUnique enforces the uniqueness-scoped fields against active records.
// With only set, fields outside it are skipped (update path re-checks changed
// fields exclusively).
func (s *Service[T, P]) checkUnique(ctx context.Context, tx store.Store, rec T, excludeID string, only map[string]bool) error {
	if s.desc.Unique == nil {
		return nil
	}
	for _, fv := range s.desc.Unique(rec) {
		if fv.Value == "" {
			continue
		}
		if only != nil && !only[fv.Field] {
			continue
		}
		existing, err := tx.FindBy(ctx, s.desc.Kind, fv.Field, fv.Value)
		if errors.Is(err, store.ErrNotFound) {
			continue
		}
		if err != nil {
			return fmt.Errorf("uniqueness lookup on %s: %w", fv.Field, err)
		}
		if existing.Env().ID != excludeID {
			return &DuplicateError{Kind: s.desc.Kind, Field: fv.Field, Value: fv.Value}
		}
	}
	return nil
}

// checkRefs verifies every referenced entity id resolves to an existing
// record. Lookups go through Get so references to soft-deleted records stay
// valid; only nonexistent ids are rejected.
func (s *Service[T, P]) checkRefs(ctx context.Context, tx store.Store, rec T) error {
	if s.desc.Refs == nil {
		return nil
	}
	for _, ref := range s.desc.Refs(rec) {
		if ref.ID == "" {
			if ref.Optional {
				continue
			}
			return &validate.ValidationError{Field: ref.Field, Reason: "is required"}
		}
		if _, err := tx.Get(ctx, ref.Kind, ref.ID); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return &NotFoundError{Kind: ref.Kind, ID: ref.ID}
			}
			return fmt.Errorf("reference lookup %s: %w", ref.Field, err)
		}
	}
	return nil
}

func (s *Service[T, P]) fetch(ctx context.Context, tx store.Store, id string) (T, error) {
	var zero T
	raw, err := tx.Get(ctx, s.desc.Kind, id)
	if errors.Is(err, store.ErrNotFound) {
		return zero, &NotFoundError{Kind: s.desc.Kind, ID: id}
	}
	if err != nil {
		return zero, err
	}
	return s.assert(raw)
}

func (s *Service[T, P]) assert(raw model.Record) (T, error) {
	rec, ok := raw.(T)
	if !ok {
		var zero T
		return zero, fmt.Errorf("store returned %T for kind %s", raw, s.desc.Kind)
	}
	return rec, nil
}

// mapStoreErr converts a database unique-index rejection, the backstop for
// races between concurrent writers, into the same DuplicateError the
// in-transaction check produces.
func (s *Service[T, P]) mapStoreErr(err error) error {
	var uv *store.UniqueViolationError
	if errors.As(err, &uv) {
		return &DuplicateError{Kind: s.desc.Kind, Field: uv.Constraint}
	}
	return err
}

func (s *Service[T, P]) publish(ctx context.Context, action string, rec T, actorID string) {
	if s.pub == nil {
		return
	}
	var status model.Status
	if s.desc.Status != nil {
		status = *s.desc.Status(rec)
	}
	env := rec.Env()
	evt := messaging.NewRecordEvent(action, s.desc.Kind, env.ID, status, env.Active, actorID)
	if err := s.pub.Publish(ctx, messaging.RoutingKey(s.desc.Kind, action), evt); err != nil {
		log.Printf("Warning: failed to publish %s event for %s %s: %v", action, s.desc.Kind, env.ID, err)
	}
}
