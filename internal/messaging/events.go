package messaging

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/santalucia-health/hospital-admin-service/internal/model"
)

// Event actions; routing keys are "<kind>.<action>", e.g. "appointment.status_changed".
const (
	ActionCreated       = "created"
	ActionUpdated       = "updated"
	ActionStatusChanged = "status_changed"
	ActionDeactivated   = "deactivated"
	ActionReactivated   = "reactivated"
	ActionDeleted       = "deleted"
)

// RoutingKey builds the topic key for a kind/action pair.
func RoutingKey(kind model.Kind, action string) string {
	return fmt.Sprintf("%s.%s", kind, action)
}

// BaseEvent contains common fields for all events.
type BaseEvent struct {
	EventType   string    `json:"event_type"`
	EventID     string    `json:"event_id"`
	Timestamp   time.Time `json:"timestamp"`
	ServiceName string    `json:"service_name"`
}

// NewBaseEvent creates a BaseEvent with generated id and UTC timestamp.
func NewBaseEvent(eventType string) BaseEvent {
	return BaseEvent{
		EventType:   eventType,
		EventID:     uuid.New().String(),
		Timestamp:   time.Now().UTC(),
		ServiceName: "hospital-admin-service",
	}
}

// RecordEvent is published after every successful write.
type RecordEvent struct {
	BaseEvent
	Data RecordEventData `json:"data"`
}

type RecordEventData struct {
	Kind       model.Kind   `json:"kind"`
	ID         string       `json:"id"`
	Status     model.Status `json:"status,omitempty"`
	Active     bool         `json:"active"`
	ActorID    string       `json:"actor_id,omitempty"`
	OccurredAt time.Time    `json:"occurred_at"`
}

// NewRecordEvent builds the event for one record write.
func NewRecordEvent(action string, kind model.Kind, id string, status model.Status, active bool, actorID string) RecordEvent {
	return RecordEvent{
		BaseEvent: NewBaseEvent(RoutingKey(kind, action)),
		Data: RecordEventData{
			Kind:       kind,
			ID:         id,
			Status:     status,
			Active:     active,
			ActorID:    actorID,
			OccurredAt: time.Now().UTC(),
		},
	}
}
