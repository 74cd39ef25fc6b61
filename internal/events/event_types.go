package events

import (
	"time"

	"github.com/spec-kit/claims-service/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventClaimCreated       EventType = "claim_created"
	EventClaimStatusChanged EventType = "claim_status_changed"
	EventSurveyorAssigned   EventType = "surveyor_assigned"
	EventClaimAssessed      EventType = "claim_assessed"
	EventPaymentUpdated     EventType = "payment_updated"
	EventClaimDeleted       EventType = "claim_deleted"
)

// Actor encapsulates actor metadata for an event.
type Actor struct {
	ID   string      `json:"id"`
	Role domain.Role `json:"role"`
}

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	ClaimID   string      `json:"claim_id"`
	Actor     Actor       `json:"actor"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// ClaimCreatedPayload payload.
type ClaimCreatedPayload struct {
	Reference     string  `json:"reference"`
	PolicyNumber  string  `json:"policy_number"`
	EstimatedLoss float64 `json:"estimated_loss"`
}

// ClaimStatusChangedPayload payload.
type ClaimStatusChangedPayload struct {
	OldStatus domain.ClaimStatus `json:"old_status"`
	NewStatus domain.ClaimStatus `json:"new_status"`
}

// SurveyorAssignedPayload payload.
type SurveyorAssignedPayload struct {
	SurveyorID string `json:"surveyor_id"`
}

// ClaimAssessedPayload payload.
type ClaimAssessedPayload struct {
	LossAdjusterID  string   `json:"loss_adjuster_id"`
	FinalLossAmount *float64 `json:"final_loss_amount,omitempty"`
}

// PaymentUpdatedPayload payload.
type PaymentUpdatedPayload struct {
	PaymentStatus domain.PaymentStatus `json:"payment_status"`
	PaymentAmount *float64             `json:"payment_amount,omitempty"`
}
