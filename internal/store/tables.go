package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/santalucia-health/hospital-admin-service/internal/model"
)

const schema = "hospital"

type scanner interface {
	Scan(dest ...any) error
}

// tableSpec maps one entity kind onto its table: the entity columns that
// follow the envelope columns, the logical-field-to-column mapping used by
// filters, and insert/scan codecs.
type tableSpec struct {
	table     string
	columns   []string
	fieldCols map[string]string
	args      func(model.Record) []any
	scan      func(sc scanner) (model.Record, error)
}

func (s *tableSpec) scanRow(row *sql.Row) (model.Record, error) {
	return s.scan(row)
}

func envelopeColumns() []string {
	return []string{"id", "active", "created_at", "updated_at", "created_by", "updated_by"}
}

func envelopeArgs(rec model.Record) []any {
	e := rec.Env()
	return []any{e.ID, e.Active, e.CreatedAt, nullTime(e.UpdatedAt), nullStr(e.CreatedBy), nullStr(e.UpdatedBy)}
}

type envScan struct {
	updatedAt sql.NullTime
	createdBy sql.NullString
	updatedBy sql.NullString
}

func (s *envScan) dest(e *model.Envelope) []any {
	return []any{&e.ID, &e.Active, &e.CreatedAt, &s.updatedAt, &s.createdBy, &s.updatedBy}
}

func (s *envScan) apply(e *model.Envelope) {
	if s.updatedAt.Valid {
		e.UpdatedAt = s.updatedAt.Time
	}
	e.CreatedBy = s.createdBy.String
	e.UpdatedBy = s.updatedBy.String
}

func nullTime(t time.Time) sql.NullTime {
	return sql.NullTime{Time: t, Valid: !t.IsZero()}
}

func nullStr(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

var personCols = []string{"first_name", "last_name", "email", "phone", "address", "birth_date"}

var personFieldCols = map[string]string{
	"firstName": "first_name",
	"lastName":  "last_name",
	"email":     "email",
	"phone":     "phone",
}

func personArgs(p *model.Person) []any {
	return []any{p.FirstName, p.LastName, p.Email, p.Phone, p.Address, p.BirthDate}
}

func personDest(p *model.Person) []any {
	return []any{&p.FirstName, &p.LastName, &p.Email, &p.Phone, &p.Address, &p.BirthDate}
}

func mergeFieldCols(maps ...map[string]string) map[string]string {
	out := map[string]string{}
	for _, m := range maps {
		for k, v := range m {
			out[k] = v
		}
	}
	return out
}

var tableSpecs = map[model.Kind]*tableSpec{
	model.KindPatient: {
		table:     schema + ".patients",
		columns:   append(personCols[:len(personCols):len(personCols)], "blood_type", "insurance_number"),
		fieldCols: personFieldCols,
		args: func(rec model.Record) []any {
			p := rec.(*model.Patient)
			return append(personArgs(&p.Person), p.BloodType, p.InsuranceNumber)
		},
		scan: func(sc scanner) (model.Record, error) {
			var p model.Patient
			var env envScan
			dest := append(env.dest(&p.Envelope), personDest(&p.Person)...)
			dest = append(dest, &p.BloodType, &p.InsuranceNumber)
			if err := sc.Scan(dest...); err != nil {
				return nil, err
			}
			env.apply(&p.Envelope)
			return &p, nil
		},
	},

	model.KindPractitioner: {
		table:   schema + ".practitioners",
		columns: append(personCols[:len(personCols):len(personCols)], "license_number", "specialty"),
		fieldCols: mergeFieldCols(personFieldCols, map[string]string{
			"licenseNumber": "license_number",
			"specialty":     "specialty",
		}),
		args: func(rec model.Record) []any {
			p := rec.(*model.Practitioner)
			return append(personArgs(&p.Person), p.LicenseNumber, p.Specialty)
		},
		scan: func(sc scanner) (model.Record, error) {
			var p model.Practitioner
			var env envScan
			dest := append(env.dest(&p.Envelope), personDest(&p.Person)...)
			dest = append(dest, &p.LicenseNumber, &p.Specialty)
			if err := sc.Scan(dest...); err != nil {
				return nil, err
			}
			env.apply(&p.Envelope)
			return &p, nil
		},
	},

	model.KindNurse: {
		table:   schema + ".nurses",
		columns: append(personCols[:len(personCols):len(personCols)], "license_number", "ward"),
		fieldCols: mergeFieldCols(personFieldCols, map[string]string{
			"licenseNumber": "license_number",
			"ward":          "ward",
		}),
		args: func(rec model.Record) []any {
			n := rec.(*model.Nurse)
			return append(personArgs(&n.Person), n.LicenseNumber, n.Ward)
		},
		scan: func(sc scanner) (model.Record, error) {
			var n model.Nurse
			var env envScan
			dest := append(env.dest(&n.Envelope), personDest(&n.Person)...)
			dest = append(dest, &n.LicenseNumber, &n.Ward)
			if err := sc.Scan(dest...); err != nil {
				return nil, err
			}
			env.apply(&n.Envelope)
			return &n, nil
		},
	},

	model.KindAppointment: {
		table:   schema + ".appointments",
		columns: []string{"patient_id", "practitioner_id", "start_time", "reason", "notes", "status"},
		fieldCols: map[string]string{
			"patientId":      "patient_id",
			"practitionerId": "practitioner_id",
			"startTime":      "start_time",
			"status":         "status",
		},
		args: func(rec model.Record) []any {
			a := rec.(*model.Appointment)
			return []any{a.PatientID, a.PractitionerID, a.StartTime.UTC(), a.Reason, a.Notes, string(a.Status)}
		},
		scan: func(sc scanner) (model.Record, error) {
			var a model.Appointment
			var env envScan
			var status string
			dest := append(env.dest(&a.Envelope),
				&a.PatientID, &a.PractitionerID, &a.StartTime, &a.Reason, &a.Notes, &status)
			if err := sc.Scan(dest...); err != nil {
				return nil, err
			}
			env.apply(&a.Envelope)
			a.Status = model.Status(status)
			return &a, nil
		},
	},

	model.KindHospitalization: {
		table:   schema + ".hospitalizations",
		columns: []string{"patient_id", "practitioner_id", "nurse_id", "room_number", "admitted_at", "diagnosis", "status"},
		fieldCols: map[string]string{
			"patientId":      "patient_id",
			"practitionerId": "practitioner_id",
			"nurseId":        "nurse_id",
			"roomNumber":     "room_number",
			"status":         "status",
		},
		args: func(rec model.Record) []any {
			h := rec.(*model.Hospitalization)
			return []any{h.PatientID, h.PractitionerID, h.NurseID, h.RoomNumber, h.AdmittedAt.UTC(), h.Diagnosis, string(h.Status)}
		},
		scan: func(sc scanner) (model.Record, error) {
			var h model.Hospitalization
			var env envScan
			var status string
			dest := append(env.dest(&h.Envelope),
				&h.PatientID, &h.PractitionerID, &h.NurseID, &h.RoomNumber, &h.AdmittedAt, &h.Diagnosis, &status)
			if err := sc.Scan(dest...); err != nil {
				return nil, err
			}
			env.apply(&h.Envelope)
			h.Status = model.Status(status)
			return &h, nil
		},
	},

	model.KindInvoice: {
		table:   schema + ".invoices",
		columns: []string{"patient_id", "invoice_number", "issued_at", "due_date", "total_cents", "status"},
		fieldCols: map[string]string{
			"patientId":     "patient_id",
			"invoiceNumber": "invoice_number",
			"status":        "status",
		},
		args: func(rec model.Record) []any {
			i := rec.(*model.Invoice)
			return []any{i.PatientID, i.InvoiceNumber, i.IssuedAt.UTC(), i.DueDate.UTC(), i.TotalCents, string(i.Status)}
		},
		scan: func(sc scanner) (model.Record, error) {
			var i model.Invoice
			var env envScan
			var status string
			dest := append(env.dest(&i.Envelope),
				&i.PatientID, &i.InvoiceNumber, &i.IssuedAt, &i.DueDate, &i.TotalCents, &status)
			if err := sc.Scan(dest...); err != nil {
				return nil, err
			}
			env.apply(&i.Envelope)
			i.Status = model.Status(status)
			return &i, nil
		},
	},

	model.KindInvoiceLineItem: {
		table:   schema + ".invoice_line_items",
		columns: []string{"invoice_id", "description", "quantity", "unit_price_cents", "amount_cents"},
		fieldCols: map[string]string{
			"invoiceId":   "invoice_id",
			"description": "description",
		},
		args: func(rec model.Record) []any {
			l := rec.(*model.InvoiceLineItem)
			return []any{l.InvoiceID, l.Description, l.Quantity, l.UnitPriceCents, l.AmountCents}
		},
		scan: func(sc scanner) (model.Record, error) {
			var l model.InvoiceLineItem
			var env envScan
			dest := append(env.dest(&l.Envelope),
				&l.InvoiceID, &l.Description, &l.Quantity, &l.UnitPriceCents, &l.AmountCents)
			if err := sc.Scan(dest...); err != nil {
				return nil, err
			}
			env.apply(&l.Envelope)
			return &l, nil
		},
	},

	model.KindMedicalRecord: {
		table:   schema + ".medical_records",
		columns: []string{"patient_id", "record_number", "summary", "status"},
		fieldCols: map[string]string{
			"patientId":    "patient_id",
			"recordNumber": "record_number",
			"status":       "status",
		},
		args: func(rec model.Record) []any {
			m := rec.(*model.MedicalRecord)
			return []any{m.PatientID, m.RecordNumber, m.Summary, string(m.Status)}
		},
		scan: func(sc scanner) (model.Record, error) {
			var m model.MedicalRecord
			var env envScan
			var status string
			dest := append(env.dest(&m.Envelope), &m.PatientID, &m.RecordNumber, &m.Summary, &status)
			if err := sc.Scan(dest...); err != nil {
				return nil, err
			}
			env.apply(&m.Envelope)
			m.Status = model.Status(status)
			return &m, nil
		},
	},

	model.KindMedicalRecordEntry: {
		table:   schema + ".medical_record_entries",
		columns: []string{"record_id", "practitioner_id", "note", "observed_at"},
		fieldCols: map[string]string{
			"recordId":       "record_id",
			"practitionerId": "practitioner_id",
		},
		args: func(rec model.Record) []any {
			e := rec.(*model.MedicalRecordEntry)
			return []any{e.RecordID, e.PractitionerID, e.Note, e.ObservedAt.UTC()}
		},
		scan: func(sc scanner) (model.Record, error) {
			var e model.MedicalRecordEntry
			var env envScan
			dest := append(env.dest(&e.Envelope), &e.RecordID, &e.PractitionerID, &e.Note, &e.ObservedAt)
			if err := sc.Scan(dest...); err != nil {
				return nil, err
			}
			env.apply(&e.Envelope)
			return &e, nil
		},
	},

	model.KindUser: {
		table:   schema + ".users",
		columns: append(personCols[:len(personCols):len(personCols)], "username", "is_admin"),
		fieldCols: mergeFieldCols(personFieldCols, map[string]string{
			"username": "username",
		}),
		args: func(rec model.Record) []any {
			u := rec.(*model.User)
			return append(personArgs(&u.Person), u.Username, u.IsAdmin)
		},
		scan: func(sc scanner) (model.Record, error) {
			var u model.User
			var env envScan
			dest := append(env.dest(&u.Envelope), personDest(&u.Person)...)
			dest = append(dest, &u.Username, &u.IsAdmin)
			if err := sc.Scan(dest...); err != nil {
				return nil, err
			}
			env.apply(&u.Envelope)
			return &u, nil
		},
	},
}

func specFor(kind model.Kind) (*tableSpec, error) {
	spec, ok := tableSpecs[kind]
	if !ok {
		return nil, fmt.Errorf("unknown entity kind %q", kind)
	}
	return spec, nil
}
