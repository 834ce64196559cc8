package model

import "time"

func ts(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

// Patient is a person receiving care. Email is unique among active patients.
type Patient struct {
	Envelope
	Person
	BloodType       string `json:"bloodType,omitempty"`
	InsuranceNumber string `json:"insuranceNumber,omitempty"`
}

func (p *Patient) Kind() Kind { return KindPatient }

func (p *Patient) Fields() map[string]string { return p.personFields() }

func (p *Patient) Clone() Record {
	c := *p
	return &c
}

// Practitioner is a doctor. Email and license number are unique among active
// practitioners.
type Practitioner struct {
	Envelope
	Person
	LicenseNumber string `json:"licenseNumber"`
	Specialty     string `json:"specialty,omitempty"`
}

func (p *Practitioner) Kind() Kind { return KindPractitioner }

func (p *Practitioner) Fields() map[string]string {
	f := p.personFields()
	f["licenseNumber"] = p.LicenseNumber
	f["specialty"] = p.Specialty
	return f
}

func (p *Practitioner) Clone() Record {
	c := *p
	return &c
}

// Nurse mirrors Practitioner with its own license namespace.
type Nurse struct {
	Envelope
	Person
	LicenseNumber string `json:"licenseNumber"`
	Ward          string `json:"ward,omitempty"`
}

func (n *Nurse) Kind() Kind { return KindNurse }

func (n *Nurse) Fields() map[string]string {
	f := n.personFields()
	f["licenseNumber"] = n.LicenseNumber
	f["ward"] = n.Ward
	return f
}

func (n *Nurse) Clone() Record {
	c := *n
	return &c
}

// Appointment books a patient with a practitioner at a point in time.
// Scheduling conflicts are detected on exact start-time equality among
// non-cancelled appointments of either party.
type Appointment struct {
	Envelope
	PatientID      string    `json:"patientId"`
	PractitionerID string    `json:"practitionerId"`
	StartTime      time.Time `json:"startTime"`
	Reason         string    `json:"reason,omitempty"`
	Notes          string    `json:"notes,omitempty"`
	Status         Status    `json:"status"`
}

func (a *Appointment) Kind() Kind { return KindAppointment }

func (a *Appointment) Fields() map[string]string {
	return map[string]string{
		"patientId":      a.PatientID,
		"practitionerId": a.PractitionerID,
		"startTime":      ts(a.StartTime),
		"status":         string(a.Status),
	}
}

func (a *Appointment) Clone() Record {
	c := *a
	return &c
}

// Hospitalization is an inpatient stay. A room number may be held by at most
// one hospitalization in state "active" at a time.
type Hospitalization struct {
	Envelope
	PatientID      string    `json:"patientId"`
	PractitionerID string    `json:"practitionerId"`
	NurseID        string    `json:"nurseId,omitempty"`
	RoomNumber     string    `json:"roomNumber"`
	AdmittedAt     time.Time `json:"admittedAt"`
	Diagnosis      string    `json:"diagnosis,omitempty"`
	Status         Status    `json:"status"`
}

func (h *Hospitalization) Kind() Kind { return KindHospitalization }

func (h *Hospitalization) Fields() map[string]string {
	return map[string]string{
		"patientId":      h.PatientID,
		"practitionerId": h.PractitionerID,
		"nurseId":        h.NurseID,
		"roomNumber":     h.RoomNumber,
		"admittedAt":     ts(h.AdmittedAt),
		"status":         string(h.Status),
	}
}

func (h *Hospitalization) Clone() Record {
	c := *h
	return &c
}

// Invoice bills a patient. TotalCents is derived from its line items.
type Invoice struct {
	Envelope
	PatientID     string    `json:"patientId"`
	InvoiceNumber string    `json:"invoiceNumber"`
	IssuedAt      time.Time `json:"issuedAt"`
	DueDate       time.Time `json:"dueDate"`
	TotalCents    int64     `json:"totalCents"`
	Status        Status    `json:"status"`
}

func (i *Invoice) Kind() Kind { return KindInvoice }

func (i *Invoice) Fields() map[string]string {
	return map[string]string{
		"patientId":     i.PatientID,
		"invoiceNumber": i.InvoiceNumber,
		"status":        string(i.Status),
	}
}

func (i *Invoice) Clone() Record {
	c := *i
	return &c
}

// InvoiceLineItem is one billed position on an invoice. AmountCents is always
// Quantity * UnitPriceCents.
type InvoiceLineItem struct {
	Envelope
	InvoiceID      string `json:"invoiceId"`
	Description    string `json:"description"`
	Quantity       int64  `json:"quantity"`
	UnitPriceCents int64  `json:"unitPriceCents"`
	AmountCents    int64  `json:"amountCents"`
}

func (l *InvoiceLineItem) Kind() Kind { return KindInvoiceLineItem }

func (l *InvoiceLineItem) Fields() map[string]string {
	return map[string]string{
		"invoiceId":   l.InvoiceID,
		"description": l.Description,
	}
}

func (l *InvoiceLineItem) Clone() Record {
	c := *l
	return &c
}

// MedicalRecord is a patient's chart. A patient has at most one record in
// state "open" at a time; record numbers are unique among active records.
type MedicalRecord struct {
	Envelope
	PatientID    string `json:"patientId"`
	RecordNumber string `json:"recordNumber"`
	Summary      string `json:"summary,omitempty"`
	Status       Status `json:"status"`
}

func (m *MedicalRecord) Kind() Kind { return KindMedicalRecord }

func (m *MedicalRecord) Fields() map[string]string {
	return map[string]string{
		"patientId":    m.PatientID,
		"recordNumber": m.RecordNumber,
		"status":       string(m.Status),
	}
}

func (m *MedicalRecord) Clone() Record {
	c := *m
	return &c
}

// MedicalRecordEntry is one practitioner note inside a medical record.
type MedicalRecordEntry struct {
	Envelope
	RecordID       string    `json:"recordId"`
	PractitionerID string    `json:"practitionerId"`
	Note           string    `json:"note"`
	ObservedAt     time.Time `json:"observedAt"`
}

func (e *MedicalRecordEntry) Kind() Kind { return KindMedicalRecordEntry }

func (e *MedicalRecordEntry) Fields() map[string]string {
	return map[string]string{
		"recordId":       e.RecordID,
		"practitionerId": e.PractitionerID,
		"observedAt":     ts(e.ObservedAt),
	}
}

func (e *MedicalRecordEntry) Clone() Record {
	c := *e
	return &c
}

// User is a backend operator account. Username and email are unique among
// active users.
type User struct {
	Envelope
	Person
	Username string `json:"username"`
	IsAdmin  bool   `json:"isAdmin"`
}

func (u *User) Kind() Kind { return KindUser }

func (u *User) Fields() map[string]string {
	f := u.personFields()
	f["username"] = u.Username
	return f
}

func (u *User) Clone() Record {
	c := *u
	return &c
}
