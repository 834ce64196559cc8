package model

import "time"

// Envelope carries the bookkeeping fields shared by every persisted entity.
// Active is the soft-delete flag; CreatedBy/UpdatedBy reference the User who
// performed the write (UpdatedBy is empty until the first edit).
type Envelope struct {
	ID        string    `json:"id"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
	CreatedBy string    `json:"createdBy,omitempty"`
	UpdatedBy string    `json:"updatedBy,omitempty"`
}

// Env exposes the envelope for generic code working through the Record interface.
func (e *Envelope) Env() *Envelope { return e }

// Record is implemented by every entity struct. Fields returns the entity's
// scalar fields keyed by their logical (JSON) names; the Store uses it for
// field-equality scans and uniqueness lookups without knowing entity types.
type Record interface {
	Env() *Envelope
	Kind() Kind
	Fields() map[string]string
	Clone() Record
}
