package events

import (
	"time"

	"github.com/spec-kit/civic-report/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventComplaintCreated       EventType = "complaint_created"
	EventComplaintStatusChanged EventType = "complaint_status_changed"
	EventComplaintResolved      EventType = "complaint_resolved"
	EventComplaintDeleted       EventType = "complaint_deleted"
	EventUserRegistered         EventType = "user_registered"
)

// Actor encapsulates actor metadata for an event.
type Actor struct {
	UserID string      `json:"user_id"`
	Role   domain.Role `json:"role"`
}

// Event represents a domain event emitted by services.
type Event struct {
	ID          string      `json:"id"`
	Type        EventType   `json:"type"`
	ComplaintID string      `json:"complaint_id,omitempty"`
	Actor       Actor       `json:"actor"`
	Timestamp   time.Time   `json:"timestamp"`
	Payload     interface{} `json:"payload"`
}

// ComplaintCreatedPayload payload.
type ComplaintCreatedPayload struct {
	Department domain.DepartmentCode `json:"department"`
	Title      string                `json:"title"`
	Location   string                `json:"location"`
}

// ComplaintStatusChangedPayload payload.
type ComplaintStatusChangedPayload struct {
	OldStatus domain.ComplaintStatus `json:"old_status"`
	NewStatus domain.ComplaintStatus `json:"new_status"`
}

// ComplaintResolvedPayload payload.
type ComplaintResolvedPayload struct {
	Department    domain.DepartmentCode `json:"department"`
	ResolvedImage string                `json:"resolved_image"`
	ResolvedAt    time.Time             `json:"resolved_at"`
}

// ComplaintDeletedPayload payload.
type ComplaintDeletedPayload struct {
	Department domain.DepartmentCode `json:"department"`
}

// UserRegisteredPayload payload.
type UserRegisteredPayload struct {
	Role       domain.Role `json:"role"`
	Department string      `json:"department,omitempty"`
}
