package model

import "time"

// Patch structs list the legal updatable fields per entity. Nil means "leave
// unchanged". Status and envelope fields are deliberately absent: status moves
// only through lifecycle transitions, the envelope only through the service.

// PersonPatch covers the shared contact fields.
type PersonPatch struct {
	FirstName *string `json:"firstName,omitempty"`
	LastName  *string `json:"lastName,omitempty"`
	Email     *string `json:"email,omitempty"`
	Phone     *string `json:"phone,omitempty"`
	Address   *string `json:"address,omitempty"`
	BirthDate *string `json:"birthDate,omitempty"`
}

type PatientPatch struct {
	PersonPatch
	BloodType       *string `json:"bloodType,omitempty"`
	InsuranceNumber *string `json:"insuranceNumber,omitempty"`
}

type PractitionerPatch struct {
	PersonPatch
	LicenseNumber *string `json:"licenseNumber,omitempty"`
	Specialty     *string `json:"specialty,omitempty"`
}

type NursePatch struct {
	PersonPatch
	LicenseNumber *string `json:"licenseNumber,omitempty"`
	Ward          *string `json:"ward,omitempty"`
}

type AppointmentPatch struct {
	StartTime *time.Time `json:"startTime,omitempty"`
	Reason    *string    `json:"reason,omitempty"`
	Notes     *string    `json:"notes,omitempty"`
}

type HospitalizationPatch struct {
	NurseID    *string `json:"nurseId,omitempty"`
	RoomNumber *string `json:"roomNumber,omitempty"`
	Diagnosis  *string `json:"diagnosis,omitempty"`
}

type InvoicePatch struct {
	DueDate *time.Time `json:"dueDate,omitempty"`
}

type InvoiceLineItemPatch struct {
	Description    *string `json:"description,omitempty"`
	Quantity       *int64  `json:"quantity,omitempty"`
	UnitPriceCents *int64  `json:"unitPriceCents,omitempty"`
}

type MedicalRecordPatch struct {
	Summary *string `json:"summary,omitempty"`
}

type MedicalRecordEntryPatch struct {
	Note       *string    `json:"note,omitempty"`
	ObservedAt *time.Time `json:"observedAt,omitempty"`
}

type UserPatch struct {
	PersonPatch
	IsAdmin *bool `json:"isAdmin,omitempty"`
}
