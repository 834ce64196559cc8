package lifecycle

import (
	"errors"
	"testing"

	"github.com/santalucia-health/hospital-admin-service/internal/model"
)

func TestStep_LegalTransitions(t *testing.T) {
	cases := []struct {
		name    string
		machine *Machine
		from    model.Status
		action  model.Action
		want    model.Status
	}{
		{"appointment complete", Appointments, model.StatusScheduled, model.ActionComplete, model.StatusCompleted},
		{"appointment cancel", Appointments, model.StatusScheduled, model.ActionCancel, model.StatusCancelled},
		{"hospitalization discharge", Hospitalizations, model.StatusAdmitted, model.ActionComplete, model.StatusCompleted},
		{"invoice pay", Invoices, model.StatusPending, model.ActionPay, model.StatusPaid},
		{"invoice overdue", Invoices, model.StatusPending, model.ActionMarkOverdue, model.StatusOverdue},
		{"overdue invoice still payable", Invoices, model.StatusOverdue, model.ActionPay, model.StatusPaid},
		{"overdue invoice cancellable", Invoices, model.StatusOverdue, model.ActionCancel, model.StatusCancelled},
		{"record close", MedicalRecords, model.StatusOpen, model.ActionClose, model.StatusClosed},
		{"closed record archivable", MedicalRecords, model.StatusClosed, model.ActionArchive, model.StatusArchived},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := tc.machine.Step(tc.from, tc.action)
			if err != nil {
				t.Fatalf("Expected no error, got: %v", err)
			}
			if got != tc.want {
				t.Errorf("Expected status %q, got %q", tc.want, got)
			}
		})
	}
}

func TestStep_TerminalStatesAreFinal(t *testing.T) {
	cases := []struct {
		name    string
		machine *Machine
		from    model.Status
		action  model.Action
	}{
		{"completed appointment cannot cancel", Appointments, model.StatusCompleted, model.ActionCancel},
		{"cancelled appointment cannot complete", Appointments, model.StatusCancelled, model.ActionComplete},
		{"paid invoice cannot go overdue", Invoices, model.StatusPaid, model.ActionMarkOverdue},
		{"cancelled invoice cannot be paid", Invoices, model.StatusCancelled, model.ActionPay},
		{"archived record cannot close", MedicalRecords, model.StatusArchived, model.ActionClose},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := tc.machine.Step(tc.from, tc.action)
			var te *TransitionError
			if !errors.As(err, &te) {
				t.Fatalf("Expected TransitionError, got %v", err)
			}
			if te.From != tc.from || te.Action != tc.action {
				t.Errorf("Error reports from=%q action=%q, want from=%q action=%q",
					te.From, te.Action, tc.from, tc.action)
			}
		})
	}
}

func TestStep_UnknownAction(t *testing.T) {
	_, err := Appointments.Step(model.StatusScheduled, model.ActionPay)
	var te *TransitionError
	if !errors.As(err, &te) {
		t.Fatalf("Expected TransitionError, got %v", err)
	}
	if te.To != "" {
		t.Errorf("Expected empty target for unknown action, got %q", te.To)
	}
}

func TestTerminal(t *testing.T) {
	if Appointments.Terminal(model.StatusScheduled) {
		t.Error("scheduled should not be terminal")
	}
	if !Appointments.Terminal(model.StatusCompleted) {
		t.Error("completed should be terminal")
	}
	if Invoices.Terminal(model.StatusOverdue) {
		t.Error("overdue should not be terminal")
	}
	if !MedicalRecords.Terminal(model.StatusArchived) {
		t.Error("archived should be terminal")
	}
}

func TestForKind(t *testing.T) {
	if ForKind(model.KindInvoice) != Invoices {
		t.Error("Expected invoice machine")
	}
	if ForKind(model.KindPatient) != nil {
		t.Error("Expected no machine for patients")
	}
}
