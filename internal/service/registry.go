package service

import (
	"context"
	"strings"
	"time"

	"github.com/santalucia-health/hospital-admin-service/internal/lifecycle"
	"github.com/santalucia-health/hospital-admin-service/internal/messaging"
	"github.com/santalucia-health/hospital-admin-service/internal/model"
	"github.com/santalucia-health/hospital-admin-service/internal/store"
	"github.com/santalucia-health/hospital-admin-service/internal/validate"
)

// Registry wires one Service per entity kind over a shared store and
// publisher. This is the single composition point callers go through.
type Registry struct {
	Patients         *Service[*model.Patient, model.PatientPatch]
	Practitioners    *Service[*model.Practitioner, model.PractitionerPatch]
	Nurses           *Service[*model.Nurse, model.NursePatch]
	Appointments     *Service[*model.Appointment, model.AppointmentPatch]
	Hospitalizations *Service[*model.Hospitalization, model.HospitalizationPatch]
	Invoices         *Service[*model.Invoice, model.InvoicePatch]
	InvoiceItems     *Service[*model.InvoiceLineItem, model.InvoiceLineItemPatch]
	Records          *Service[*model.MedicalRecord, model.MedicalRecordPatch]
	RecordEntries    *Service[*model.MedicalRecordEntry, model.MedicalRecordEntryPatch]
	Users            *Service[*model.User, model.UserPatch]
}

func NewRegistry(st store.Store, pub messaging.EventPublisher) *Registry {
	return &Registry{
		Patients:         New(st, patientDescriptor(), pub),
		Practitioners:    New(st, practitionerDescriptor(), pub),
		Nurses:           New(st, nurseDescriptor(), pub),
		Appointments:     New(st, appointmentDescriptor(), pub),
		Hospitalizations: New(st, hospitalizationDescriptor(), pub),
		Invoices:         New(st, invoiceDescriptor(), pub),
		InvoiceItems:     New(st, invoiceItemDescriptor(), pub),
		Records:          New(st, medicalRecordDescriptor(), pub),
		RecordEntries:    New(st, recordEntryDescriptor(), pub),
		Users:            New(st, userDescriptor(), pub),
	}
}

// setField applies a patch pointer when present, recording the logical field
// name if the value actually changed.
func setField[V comparable](dst *V, src *V, field string, changed *[]string) {
	if src != nil && *src != *dst {
		*dst = *src
		*changed = append(*changed, field)
	}
}

func applyPerson(p *model.Person, pp model.PersonPatch, changed *[]string) {
	setField(&p.FirstName, pp.FirstName, "firstName", changed)
	setField(&p.LastName, pp.LastName, "lastName", changed)
	setField(&p.Email, pp.Email, "email", changed)
	setField(&p.Phone, pp.Phone, "phone", changed)
	setField(&p.Address, pp.Address, "address", changed)
	setField(&p.BirthDate, pp.BirthDate, "birthDate", changed)
}

func optIdent(field, value string) (string, error) {
	v := strings.TrimSpace(value)
	if v == "" {
		return "", nil
	}
	if err := validate.MaxLen(field, v, validate.MaxIdentLen); err != nil {
		return "", err
	}
	return v, nil
}

func requireTime(field string, t time.Time) error {
	if t.IsZero() {
		return &validate.ValidationError{Field: field, Reason: "is required"}
	}
	return nil
}

func patientDescriptor() Descriptor[*model.Patient, model.PatientPatch] {
	return Descriptor[*model.Patient, model.PatientPatch]{
		Kind:     model.KindPatient,
		New:      func() *model.Patient { return &model.Patient{} },
		Validate: validatePatient,
		Apply: func(p *model.Patient, patch model.PatientPatch) ([]string, error) {
			var changed []string
			applyPerson(&p.Person, patch.PersonPatch, &changed)
			setField(&p.BloodType, patch.BloodType, "bloodType", &changed)
			setField(&p.InsuranceNumber, patch.InsuranceNumber, "insuranceNumber", &changed)
			if err := validatePatient(p); err != nil {
				return nil, err
			}
			return changed, nil
		},
		Unique: func(p *model.Patient) []FieldValue {
			return []FieldValue{{"email", p.Email}}
		},
	}
}

func validatePatient(p *model.Patient) error {
	if err := validate.PersonFields(&p.Person); err != nil {
		return err
	}
	var err error
	if p.BloodType, err = optIdent("bloodType", p.BloodType); err != nil {
		return err
	}
	if p.InsuranceNumber, err = optIdent("insuranceNumber", p.InsuranceNumber); err != nil {
		return err
	}
	return nil
}

func practitionerDescriptor() Descriptor[*model.Practitioner, model.PractitionerPatch] {
	return Descriptor[*model.Practitioner, model.PractitionerPatch]{
		Kind:     model.KindPractitioner,
		New:      func() *model.Practitioner { return &model.Practitioner{} },
		Validate: validatePractitioner,
		Apply: func(p *model.Practitioner, patch model.PractitionerPatch) ([]string, error) {
			var changed []string
			applyPerson(&p.Person, patch.PersonPatch, &changed)
			setField(&p.LicenseNumber, patch.LicenseNumber, "licenseNumber", &changed)
			setField(&p.Specialty, patch.Specialty, "specialty", &changed)
			if err := validatePractitioner(p); err != nil {
				return nil, err
			}
			return changed, nil
		},
		Unique: func(p *model.Practitioner) []FieldValue {
			return []FieldValue{{"email", p.Email}, {"licenseNumber", p.LicenseNumber}}
		},
	}
}

func validatePractitioner(p *model.Practitioner) error {
	if err := validate.PersonFields(&p.Person); err != nil {
		return err
	}
	var err error
	if p.LicenseNumber, err = validate.Ident("licenseNumber", p.LicenseNumber); err != nil {
		return err
	}
	if p.Specialty, err = validate.Text("specialty", p.Specialty); err != nil {
		return err
	}
	return nil
}

func nurseDescriptor() Descriptor[*model.Nurse, model.NursePatch] {
	return Descriptor[*model.Nurse, model.NursePatch]{
		Kind:     model.KindNurse,
		New:      func() *model.Nurse { return &model.Nurse{} },
		Validate: validateNurse,
		Apply: func(n *model.Nurse, patch model.NursePatch) ([]string, error) {
			var changed []string
			applyPerson(&n.Person, patch.PersonPatch, &changed)
			setField(&n.LicenseNumber, patch.LicenseNumber, "licenseNumber", &changed)
			setField(&n.Ward, patch.Ward, "ward", &changed)
			if err := validateNurse(n); err != nil {
				return nil, err
			}
			return changed, nil
		},
		Unique: func(n *model.Nurse) []FieldValue {
			return []FieldValue{{"email", n.Email}, {"licenseNumber", n.LicenseNumber}}
		},
	}
}

func validateNurse(n *model.Nurse) error {
	if err := validate.PersonFields(&n.Person); err != nil {
		return err
	}
	var err error
	if n.LicenseNumber, err = validate.Ident("licenseNumber", n.LicenseNumber); err != nil {
		return err
	}
	if n.Ward, err = optIdent("ward", n.Ward); err != nil {
		return err
	}
	return nil
}

func appointmentDescriptor() Descriptor[*model.Appointment, model.AppointmentPatch] {
	return Descriptor[*model.Appointment, model.AppointmentPatch]{
		Kind:     model.KindAppointment,
		New:      func() *model.Appointment { return &model.Appointment{} },
		Validate: validateAppointment,
		Apply: func(a *model.Appointment, patch model.AppointmentPatch) ([]string, error) {
			var changed []string
			setField(&a.StartTime, patch.StartTime, "startTime", &changed)
			setField(&a.Reason, patch.Reason, "reason", &changed)
			setField(&a.Notes, patch.Notes, "notes", &changed)
			if err := validateAppointment(a); err != nil {
				return nil, err
			}
			return changed, nil
		},
		Refs: func(a *model.Appointment) []Reference {
			return []Reference{
				{Field: "patientId", Kind: model.KindPatient, ID: a.PatientID},
				{Field: "practitionerId", Kind: model.KindPractitioner, ID: a.PractitionerID},
			}
		},
		Conflict: appointmentConflict,
		Machine:  lifecycle.Appointments,
		Status:   func(a *model.Appointment) *model.Status { return &a.Status },
	}
}

func validateAppointment(a *model.Appointment) error {
	if err := requireTime("startTime", a.StartTime); err != nil {
		return err
	}
	// Conflict detection compares start times for exact equality; normalize
	// to whole minutes in UTC so equal slots always compare equal.
	a.StartTime = a.StartTime.UTC().Truncate(time.Minute)
	var err error
	if a.Reason, err = validate.Text("reason", a.Reason); err != nil {
		return err
	}
	if a.Notes, err = validate.Text("notes", a.Notes); err != nil {
		return err
	}
	return nil
}

func hospitalizationDescriptor() Descriptor[*model.Hospitalization, model.HospitalizationPatch] {
	return Descriptor[*model.Hospitalization, model.HospitalizationPatch]{
		Kind:     model.KindHospitalization,
		New:      func() *model.Hospitalization { return &model.Hospitalization{} },
		Validate: validateHospitalization,
		Apply: func(h *model.Hospitalization, patch model.HospitalizationPatch) ([]string, error) {
			var changed []string
			setField(&h.NurseID, patch.NurseID, "nurseId", &changed)
			setField(&h.RoomNumber, patch.RoomNumber, "roomNumber", &changed)
			setField(&h.Diagnosis, patch.Diagnosis, "diagnosis", &changed)
			if err := validateHospitalization(h); err != nil {
				return nil, err
			}
			return changed, nil
		},
		Refs: func(h *model.Hospitalization) []Reference {
			return []Reference{
				{Field: "patientId", Kind: model.KindPatient, ID: h.PatientID},
				{Field: "practitionerId", Kind: model.KindPractitioner, ID: h.PractitionerID},
				{Field: "nurseId", Kind: model.KindNurse, ID: h.NurseID, Optional: true},
			}
		},
		Conflict: roomConflict,
		Machine:  lifecycle.Hospitalizations,
		Status:   func(h *model.Hospitalization) *model.Status { return &h.Status },
	}
}

func validateHospitalization(h *model.Hospitalization) error {
	var err error
	if h.RoomNumber, err = validate.Ident("roomNumber", h.RoomNumber); err != nil {
		return err
	}
	if err = requireTime("admittedAt", h.AdmittedAt); err != nil {
		return err
	}
	h.AdmittedAt = h.AdmittedAt.UTC().Truncate(time.Minute)
	if h.Diagnosis, err = validate.Text("diagnosis", h.Diagnosis); err != nil {
		return err
	}
	return nil
}

func invoiceDescriptor() Descriptor[*model.Invoice, model.InvoicePatch] {
	return Descriptor[*model.Invoice, model.InvoicePatch]{
		Kind:     model.KindInvoice,
		New:      func() *model.Invoice { return &model.Invoice{} },
		Validate: validateInvoice,
		Apply: func(i *model.Invoice, patch model.InvoicePatch) ([]string, error) {
			var changed []string
			setField(&i.DueDate, patch.DueDate, "dueDate", &changed)
			if err := validateInvoice(i); err != nil {
				return nil, err
			}
			return changed, nil
		},
		Unique: func(i *model.Invoice) []FieldValue {
			return []FieldValue{{"invoiceNumber", i.InvoiceNumber}}
		},
		Refs: func(i *model.Invoice) []Reference {
			return []Reference{{Field: "patientId", Kind: model.KindPatient, ID: i.PatientID}}
		},
		Machine: lifecycle.Invoices,
		Status:  func(i *model.Invoice) *model.Status { return &i.Status },
		Children: []Cascade{
			{Kind: model.KindInvoiceLineItem, RefField: "invoiceId"},
		},
	}
}

func validateInvoice(i *model.Invoice) error {
	var err error
	if i.InvoiceNumber, err = validate.Ident("invoiceNumber", i.InvoiceNumber); err != nil {
		return err
	}
	if err = requireTime("issuedAt", i.IssuedAt); err != nil {
		return err
	}
	if err = requireTime("dueDate", i.DueDate); err != nil {
		return err
	}
	i.IssuedAt = i.IssuedAt.UTC()
	i.DueDate = i.DueDate.UTC()
	if i.DueDate.Before(i.IssuedAt) {
		return &validate.ValidationError{Field: "dueDate", Reason: "must not precede issuedAt"}
	}
	if err = validate.NonNegative("totalCents", i.TotalCents); err != nil {
		return err
	}
	return nil
}

func invoiceItemDescriptor() Descriptor[*model.InvoiceLineItem, model.InvoiceLineItemPatch] {
	return Descriptor[*model.InvoiceLineItem, model.InvoiceLineItemPatch]{
		Kind:     model.KindInvoiceLineItem,
		New:      func() *model.InvoiceLineItem { return &model.InvoiceLineItem{} },
		Validate: validateInvoiceItem,
		Apply: func(l *model.InvoiceLineItem, patch model.InvoiceLineItemPatch) ([]string, error) {
			var changed []string
			setField(&l.Description, patch.Description, "description", &changed)
			setField(&l.Quantity, patch.Quantity, "quantity", &changed)
			setField(&l.UnitPriceCents, patch.UnitPriceCents, "unitPriceCents", &changed)
			if err := validateInvoiceItem(l); err != nil {
				return nil, err
			}
			return changed, nil
		},
		Refs: func(l *model.InvoiceLineItem) []Reference {
			return []Reference{{Field: "invoiceId", Kind: model.KindInvoice, ID: l.InvoiceID}}
		},
		AfterWrite: func(ctx context.Context, st store.Store, l *model.InvoiceLineItem) error {
			return recomputeInvoiceTotal(ctx, st, l.InvoiceID)
		},
		AfterDelete: func(ctx context.Context, st store.Store, l *model.InvoiceLineItem) error {
			return recomputeInvoiceTotal(ctx, st, l.InvoiceID)
		},
	}
}

func validateInvoiceItem(l *model.InvoiceLineItem) error {
	v, err := validate.Required("description", l.Description)
	if err != nil {
		return err
	}
	if err := validate.MaxLen("description", v, 200); err != nil {
		return err
	}
	l.Description = v
	if err := validate.Positive("quantity", l.Quantity); err != nil {
		return err
	}
	if err := validate.NonNegative("unitPriceCents", l.UnitPriceCents); err != nil {
		return err
	}
	l.AmountCents = l.Quantity * l.UnitPriceCents
	return nil
}

func medicalRecordDescriptor() Descriptor[*model.MedicalRecord, model.MedicalRecordPatch] {
	return Descriptor[*model.MedicalRecord, model.MedicalRecordPatch]{
		Kind:     model.KindMedicalRecord,
		New:      func() *model.MedicalRecord { return &model.MedicalRecord{} },
		Validate: validateMedicalRecord,
		Apply: func(m *model.MedicalRecord, patch model.MedicalRecordPatch) ([]string, error) {
			var changed []string
			setField(&m.Summary, patch.Summary, "summary", &changed)
			if err := validateMedicalRecord(m); err != nil {
				return nil, err
			}
			return changed, nil
		},
		Unique: func(m *model.MedicalRecord) []FieldValue {
			return []FieldValue{{"recordNumber", m.RecordNumber}}
		},
		Refs: func(m *model.MedicalRecord) []Reference {
			return []Reference{{Field: "patientId", Kind: model.KindPatient, ID: m.PatientID}}
		},
		Conflict: openRecordConflict,
		Machine:  lifecycle.MedicalRecords,
		Status:   func(m *model.MedicalRecord) *model.Status { return &m.Status },
		Children: []Cascade{
			{Kind: model.KindMedicalRecordEntry, RefField: "recordId"},
		},
	}
}

func validateMedicalRecord(m *model.MedicalRecord) error {
	var err error
	if m.RecordNumber, err = validate.Ident("recordNumber", m.RecordNumber); err != nil {
		return err
	}
	if m.Summary, err = validate.Text("summary", m.Summary); err != nil {
		return err
	}
	return nil
}

func recordEntryDescriptor() Descriptor[*model.MedicalRecordEntry, model.MedicalRecordEntryPatch] {
	return Descriptor[*model.MedicalRecordEntry, model.MedicalRecordEntryPatch]{
		Kind:     model.KindMedicalRecordEntry,
		New:      func() *model.MedicalRecordEntry { return &model.MedicalRecordEntry{} },
		Validate: validateRecordEntry,
		Apply: func(e *model.MedicalRecordEntry, patch model.MedicalRecordEntryPatch) ([]string, error) {
			var changed []string
			setField(&e.Note, patch.Note, "note", &changed)
			setField(&e.ObservedAt, patch.ObservedAt, "observedAt", &changed)
			if err := validateRecordEntry(e); err != nil {
				return nil, err
			}
			return changed, nil
		},
		Refs: func(e *model.MedicalRecordEntry) []Reference {
			return []Reference{
				{Field: "recordId", Kind: model.KindMedicalRecord, ID: e.RecordID},
				{Field: "practitionerId", Kind: model.KindPractitioner, ID: e.PractitionerID},
			}
		},
	}
}

func validateRecordEntry(e *model.MedicalRecordEntry) error {
	v, err := validate.Required("note", e.Note)
	if err != nil {
		return err
	}
	if err := validate.MaxLen("note", v, validate.MaxTextLen); err != nil {
		return err
	}
	e.Note = v
	if err := requireTime("observedAt", e.ObservedAt); err != nil {
		return err
	}
	e.ObservedAt = e.ObservedAt.UTC()
	return nil
}

func userDescriptor() Descriptor[*model.User, model.UserPatch] {
	return Descriptor[*model.User, model.UserPatch]{
		Kind:     model.KindUser,
		New:      func() *model.User { return &model.User{} },
		Validate: validateUser,
		Apply: func(u *model.User, patch model.UserPatch) ([]string, error) {
			var changed []string
			applyPerson(&u.Person, patch.PersonPatch, &changed)
			setField(&u.IsAdmin, patch.IsAdmin, "isAdmin", &changed)
			if err := validateUser(u); err != nil {
				return nil, err
			}
			return changed, nil
		},
		Unique: func(u *model.User) []FieldValue {
			return []FieldValue{{"username", u.Username}, {"email", u.Email}}
		},
	}
}

func validateUser(u *model.User) error {
	if err := validate.PersonFields(&u.Person); err != nil {
		return err
	}
	var err error
	if u.Username, err = validate.Username("username", u.Username); err != nil {
		return err
	}
	return nil
}
