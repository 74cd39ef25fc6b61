package domain

import "time"

// ClaimStatus enumerates lifecycle states for claims.
type ClaimStatus string

const (
	ClaimStatusPending       ClaimStatus = "pending"
	ClaimStatusAssigned      ClaimStatus = "assigned"
	ClaimStatusInvestigating ClaimStatus = "investigating"
	ClaimStatusCompleted     ClaimStatus = "completed"
	ClaimStatusUnderReview   ClaimStatus = "under_review"
	ClaimStatusAssessed      ClaimStatus = "assessed"
	ClaimStatusApproved      ClaimStatus = "approved"
	ClaimStatusFinanceReview ClaimStatus = "finance_review"
	ClaimStatusPaid          ClaimStatus = "paid"
	ClaimStatusClosed        ClaimStatus = "closed"
	ClaimStatusRejected      ClaimStatus = "rejected"
)

// AllClaimStatuses lists every valid status value.
var AllClaimStatuses = []ClaimStatus{
	ClaimStatusPending,
	ClaimStatusAssigned,
	ClaimStatusInvestigating,
	ClaimStatusCompleted,
	ClaimStatusUnderReview,
	ClaimStatusAssessed,
	ClaimStatusApproved,
	ClaimStatusFinanceReview,
	ClaimStatusPaid,
	ClaimStatusClosed,
	ClaimStatusRejected,
}

// IsValid reports whether the status is one of the defined values.
func (s ClaimStatus) IsValid() bool {
	for _, candidate := range AllClaimStatuses {
		if s == candidate {
			return true
		}
	}
	return false
}

// PaymentStatus tracks the finance sub-state of a claim.
type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusProcessed PaymentStatus = "processed"
	PaymentStatusFailed    PaymentStatus = "failed"
	PaymentStatusPaid      PaymentStatus = "paid"
	PaymentStatusReceived  PaymentStatus = "received"
)

// IsValid reports whether the payment status is recognized.
func (s PaymentStatus) IsValid() bool {
	switch s {
	case PaymentStatusPending, PaymentStatusProcessed, PaymentStatusFailed, PaymentStatusPaid, PaymentStatusReceived:
		return true
	}
	return false
}

// PaymentMethod enumerates how a claim payout is made.
type PaymentMethod string

const (
	PaymentMethodBankTransfer PaymentMethod = "bank_transfer"
	PaymentMethodCheque       PaymentMethod = "cheque"
	PaymentMethodMobileMoney  PaymentMethod = "mobile_money"
	PaymentMethodOther        PaymentMethod = "other"
)

// AdminDecision captures the admin review outcome.
type AdminDecision string

const (
	AdminDecisionApproved           AdminDecision = "approved"
	AdminDecisionRejected           AdminDecision = "rejected"
	AdminDecisionForwardedToFinance AdminDecision = "forwarded_to_finance"
)

// Recommendation is the loss adjuster's suggested outcome.
type Recommendation string

const (
	RecommendationApprove Recommendation = "approve"
	RecommendationReject  Recommendation = "reject"
	RecommendationReview  Recommendation = "review"
)

// EvidenceFile is an opaque attachment reference on a claim.
type EvidenceFile struct {
	ID         string
	ClaimID    string
	FileName   string
	FileURL    string
	UploadedAt time.Time
}

// Claim is the aggregate tracking an insurance loss report through its lifecycle.
type Claim struct {
	ID     string
	UserID string

	// Claimant information.
	FullName     string
	Phone        string
	Email        string
	PolicyNumber string

	Reference string

	// Cargo / voyage info.
	VesselName       string
	VoyageRoute      *string
	CargoDescription *string
	BillOfLading     *string

	// Incident details.
	IncidentDate  string
	IncidentPlace string
	TypeOfLoss    string
	CauseOfLoss   *string
	EstimatedLoss float64
	Description   *string

	Status ClaimStatus

	// Surveyor section.
	SurveyorID         *string
	InvestigationNotes *string

	// Loss adjuster section.
	LossAdjusterID  *string
	AssessmentNotes *string
	FinalLossAmount *float64
	Recommendation  *Recommendation
	AssessmentDate  *time.Time

	// Admin approval.
	AdminID       *string
	AdminDecision *AdminDecision
	AdminNotes    *string

	// Finance section.
	FinanceID        *string
	FinanceNotes     *string
	PaymentStatus    PaymentStatus
	PaymentReference *string
	PaymentAmount    *float64
	PaymentDate      *time.Time
	PaymentMethod    *PaymentMethod

	// Finalization.
	FinalReport *string
	ClosedDate  *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}
