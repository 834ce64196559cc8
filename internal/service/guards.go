package service

import (
	"context"
	"fmt"
	"time"

	"github.com/santalucia-health/hospital-admin-service/internal/model"
	"github.com/santalucia-health/hospital-admin-service/internal/store"
)

// appointmentConflict rejects a second non-cancelled appointment for the same
// practitioner or the same patient at the identical start time. The match is
// exact-time equality only: overlapping but unequal slots pass, which keeps
// compatibility with existing callers. Callers needing interval overlap must
// check it themselves.
func appointmentConflict(ctx context.Context, st store.Store, appt *model.Appointment, excludeID string) error {
	ts := appt.StartTime.UTC().Format(time.RFC3339)
	parties := []struct {
		field string
		value string
		label string
	}{
		{"practitionerId", appt.PractitionerID, "practitioner"},
		{"patientId", appt.PatientID, "patient"},
	}
	for _, party := range parties {
		q := store.Query{Filters: []store.Filter{
			{Field: party.field, Value: party.value},
			{Field: "startTime", Value: ts},
			{Field: "status", Value: string(model.StatusCancelled), Not: true},
		}}
		others, err := st.List(ctx, model.KindAppointment, q)
		if err != nil {
			return fmt.Errorf("appointment conflict scan: %w", err)
		}
		for _, other := range others {
			if other.Env().ID == excludeID {
				continue
			}
			return &ConflictError{
				Kind:   model.KindAppointment,
				Reason: fmt.Sprintf("%s already has an appointment at %s", party.label, ts),
			}
		}
	}
	return nil
}

// roomConflict enforces one active hospitalization per room number.
func roomConflict(ctx context.Context, st store.Store, h *model.Hospitalization, excludeID string) error {
	q := store.Query{Filters: []store.Filter{
		{Field: "roomNumber", Value: h.RoomNumber},
		{Field: "status", Value: string(model.StatusAdmitted)},
	}}
	others, err := st.List(ctx, model.KindHospitalization, q)
	if err != nil {
		return fmt.Errorf("room occupancy scan: %w", err)
	}
	for _, other := range others {
		if other.Env().ID == excludeID {
			continue
		}
		return &ConflictError{
			Kind:   model.KindHospitalization,
			Reason: fmt.Sprintf("room %s is already occupied", h.RoomNumber),
		}
	}
	return nil
}

// openRecordConflict enforces at most one open medical record per patient.
func openRecordConflict(ctx context.Context, st store.Store, rec *model.MedicalRecord, excludeID string) error {
	if rec.Status != "" && rec.Status != model.StatusOpen {
		return nil
	}
	q := store.Query{Filters: []store.Filter{
		{Field: "patientId", Value: rec.PatientID},
		{Field: "status", Value: string(model.StatusOpen)},
	}}
	others, err := st.List(ctx, model.KindMedicalRecord, q)
	if err != nil {
		return fmt.Errorf("open record scan: %w", err)
	}
	for _, other := range others {
		if other.Env().ID == excludeID {
			continue
		}
		return &ConflictError{
			Kind:   model.KindMedicalRecord,
			Reason: fmt.Sprintf("patient %s already has an open medical record", rec.PatientID),
		}
	}
	return nil
}
