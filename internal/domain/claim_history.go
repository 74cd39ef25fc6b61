package domain

import "time"

// ChangeType classifies audit trail entries.
type ChangeType string

const (
	ChangeTypeStatus   ChangeType = "status"
	ChangeTypeSurveyor ChangeType = "surveyor"
	ChangeTypePayment  ChangeType = "payment"
	ChangeTypeFields   ChangeType = "fields"
)

// ClaimHistory records a single change made to a claim.
type ClaimHistory struct {
	ID            string
	ClaimID       string
	ChangedByID   *string
	ChangedByRole Role
	ChangeType    ChangeType
	OldValue      map[string]any
	NewValue      map[string]any
	CreatedAt     time.Time
}
