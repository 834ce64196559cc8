// Package lifecycle drives the per-kind status state machines. Transitions
// are one-directional: once a record reaches a terminal status nothing can
// reopen it.
package lifecycle

import (
	"fmt"

	"github.com/santalucia-health/hospital-admin-service/internal/model"
)

// TransitionError reports an illegal state change. To is empty when the
// requested action does not exist for the kind at all.
type TransitionError struct {
	Kind   model.Kind
	From   model.Status
	Action model.Action
	To     model.Status
}

func (e *TransitionError) Error() string {
	if e.To == "" {
		return fmt.Sprintf("%s: action %q is not allowed from status %q", e.Kind, e.Action, e.From)
	}
	return fmt.Sprintf("%s: cannot move from %q to %q", e.Kind, e.From, e.To)
}

// Machine is the transition table for one entity kind.
type Machine struct {
	Kind        model.Kind
	Initial     model.Status
	transitions map[model.Status]map[model.Action]model.Status
}

// Step resolves the target status for action from the current status.
func (m *Machine) Step(from model.Status, action model.Action) (model.Status, error) {
	if targets, ok := m.transitions[from]; ok {
		if to, ok := targets[action]; ok {
			return to, nil
		}
	}
	// Name the target in the error when the action exists elsewhere in the
	// table, so "cannot move from cancelled to completed" reads correctly.
	for _, targets := range m.transitions {
		if to, ok := targets[action]; ok {
			return "", &TransitionError{Kind: m.Kind, From: from, Action: action, To: to}
		}
	}
	return "", &TransitionError{Kind: m.Kind, From: from, Action: action}
}

// Terminal reports whether no transition leaves the given status.
func (m *Machine) Terminal(s model.Status) bool {
	return len(m.transitions[s]) == 0
}

var (
	// Appointments: scheduled -> completed | cancelled.
	Appointments = &Machine{
		Kind:    model.KindAppointment,
		Initial: model.StatusScheduled,
		transitions: map[model.Status]map[model.Action]model.Status{
			model.StatusScheduled: {
				model.ActionComplete: model.StatusCompleted,
				model.ActionCancel:   model.StatusCancelled,
			},
		},
	}

	// Hospitalizations: active -> completed | cancelled.
	Hospitalizations = &Machine{
		Kind:    model.KindHospitalization,
		Initial: model.StatusAdmitted,
		transitions: map[model.Status]map[model.Action]model.Status{
			model.StatusAdmitted: {
				model.ActionComplete: model.StatusCompleted,
				model.ActionCancel:   model.StatusCancelled,
			},
		},
	}

	// Invoices: pending -> paid | cancelled | overdue. Overdue is not
	// terminal: an overdue invoice can still be paid or cancelled.
	Invoices = &Machine{
		Kind:    model.KindInvoice,
		Initial: model.StatusPending,
		transitions: map[model.Status]map[model.Action]model.Status{
			model.StatusPending: {
				model.ActionPay:         model.StatusPaid,
				model.ActionCancel:      model.StatusCancelled,
				model.ActionMarkOverdue: model.StatusOverdue,
			},
			model.StatusOverdue: {
				model.ActionPay:    model.StatusPaid,
				model.ActionCancel: model.StatusCancelled,
			},
		},
	}

	// MedicalRecords: open -> closed | archived, closed -> archived.
	MedicalRecords = &Machine{
		Kind:    model.KindMedicalRecord,
		Initial: model.StatusOpen,
		transitions: map[model.Status]map[model.Action]model.Status{
			model.StatusOpen: {
				model.ActionClose:   model.StatusClosed,
				model.ActionArchive: model.StatusArchived,
			},
			model.StatusClosed: {
				model.ActionArchive: model.StatusArchived,
			},
		},
	}
)

// ForKind returns the machine for a stateful kind, or nil for kinds that only
// carry the active/inactive flag.
func ForKind(k model.Kind) *Machine {
	switch k {
	case model.KindAppointment:
		return Appointments
	case model.KindHospitalization:
		return Hospitalizations
	case model.KindInvoice:
		return Invoices
	case model.KindMedicalRecord:
		return MedicalRecords
	default:
		return nil
	}
}
