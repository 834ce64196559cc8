package model

// Kind identifies an entity type managed by the service.
type Kind string

const (
	KindPatient            Kind = "patient"
	KindPractitioner       Kind = "practitioner"
	KindNurse              Kind = "nurse"
	KindAppointment        Kind = "appointment"
	KindHospitalization    Kind = "hospitalization"
	KindInvoice            Kind = "invoice"
	KindInvoiceLineItem    Kind = "invoice_line_item"
	KindMedicalRecord      Kind = "medical_record"
	KindMedicalRecordEntry Kind = "medical_record_entry"
	KindUser               Kind = "user"
)

// Status is a lifecycle state value. Each stateful kind uses a subset.
type Status string

const (
	// Appointment
	StatusScheduled Status = "scheduled"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"

	// Hospitalization
	StatusAdmitted Status = "active"

	// Invoice
	StatusPending Status = "pending"
	StatusPaid    Status = "paid"
	StatusOverdue Status = "overdue"

	// Medical record
	StatusOpen     Status = "open"
	StatusClosed   Status = "closed"
	StatusArchived Status = "archived"
)

// Action names a requested state transition.
type Action string

const (
	ActionComplete    Action = "complete"
	ActionCancel      Action = "cancel"
	ActionPay         Action = "pay"
	ActionMarkOverdue Action = "mark_overdue"
	ActionClose       Action = "close"
	ActionArchive     Action = "archive"
)
