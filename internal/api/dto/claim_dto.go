package dto

import (
	"time"

	"github.com/spec-kit/claims-service/internal/domain"
)

// CreateClaimRequest payload.
type CreateClaimRequest struct {
	FullName         string  `json:"full_name"`
	Phone            string  `json:"phone"`
	Email            string  `json:"email"`
	PolicyNumber     string  `json:"policy_number"`
	VesselName       string  `json:"vessel_name"`
	VoyageRoute      *string `json:"voyage_route"`
	CargoDescription *string `json:"cargo_description"`
	BillOfLading     *string `json:"bill_of_lading"`
	IncidentDate     string  `json:"incident_date"`
	IncidentPlace    string  `json:"incident_place"`
	TypeOfLoss       string  `json:"type_of_loss"`
	CauseOfLoss      *string `json:"cause_of_loss"`
	EstimatedLoss    float64 `json:"estimated_loss"`
	Description      *string `json:"description"`
}

// UpdateClaimRequest payload for non-status field edits. Pointer fields are
// applied only when present.
type UpdateClaimRequest struct {
	FullName           *string  `json:"full_name"`
	Phone              *string  `json:"phone"`
	Email              *string  `json:"email"`
	VesselName         *string  `json:"vessel_name"`
	VoyageRoute        *string  `json:"voyage_route"`
	CargoDescription   *string  `json:"cargo_description"`
	BillOfLading       *string  `json:"bill_of_lading"`
	IncidentDate       *string  `json:"incident_date"`
	IncidentPlace      *string  `json:"incident_place"`
	TypeOfLoss         *string  `json:"type_of_loss"`
	CauseOfLoss        *string  `json:"cause_of_loss"`
	EstimatedLoss      *float64 `json:"estimated_loss"`
	Description        *string  `json:"description"`
	InvestigationNotes *string  `json:"investigation_notes"`
	FinalReport        *string  `json:"final_report"`
}

// UpdateStatusRequest payload.
type UpdateStatusRequest struct {
	Status domain.ClaimStatus `json:"status"`
}

// AssignSurveyorRequest payload.
type AssignSurveyorRequest struct {
	SurveyorID string `json:"surveyor_id"`
}

// AssessClaimRequest payload.
type AssessClaimRequest struct {
	FinalLossAmount *float64               `json:"final_loss_amount"`
	AssessmentNotes *string                `json:"assessment_notes"`
	Recommendation  *domain.Recommendation `json:"recommendation"`
}

// AdminDecisionRequest payload.
type AdminDecisionRequest struct {
	Decision   domain.AdminDecision `json:"decision"`
	AdminNotes *string              `json:"admin_notes"`
}

// UpdateClaimPaymentRequest payload.
type UpdateClaimPaymentRequest struct {
	PaymentStatus    domain.PaymentStatus  `json:"payment_status"`
	PaymentReference *string               `json:"payment_reference"`
	PaymentMethod    *domain.PaymentMethod `json:"payment_method"`
	FinanceNotes     *string               `json:"finance_notes"`
}

// AddEvidenceRequest payload.
type AddEvidenceRequest struct {
	FileName string `json:"file_name"`
	FileURL  string `json:"file_url"`
}

// ClaimSummary response for listings.
type ClaimSummary struct {
	ID            string               `json:"id"`
	Reference     string               `json:"reference"`
	FullName      string               `json:"full_name"`
	PolicyNumber  string               `json:"policy_number"`
	VesselName    string               `json:"vessel_name"`
	TypeOfLoss    string               `json:"type_of_loss"`
	EstimatedLoss float64              `json:"estimated_loss"`
	Status        domain.ClaimStatus   `json:"status"`
	PaymentStatus domain.PaymentStatus `json:"payment_status"`
	SurveyorID    *string              `json:"surveyor_id"`
	CreatedAt     time.Time            `json:"created_at"`
	UpdatedAt     time.Time            `json:"updated_at"`
}

// ClaimDetailResponse provides full claim info.
type ClaimDetailResponse struct {
	ID                 string                 `json:"id"`
	UserID             string                 `json:"user_id"`
	Reference          string                 `json:"reference"`
	FullName           string                 `json:"full_name"`
	Phone              string                 `json:"phone"`
	Email              string                 `json:"email"`
	PolicyNumber       string                 `json:"policy_number"`
	VesselName         string                 `json:"vessel_name"`
	VoyageRoute        *string                `json:"voyage_route"`
	CargoDescription   *string                `json:"cargo_description"`
	BillOfLading       *string                `json:"bill_of_lading"`
	IncidentDate       string                 `json:"incident_date"`
	IncidentPlace      string                 `json:"incident_place"`
	TypeOfLoss         string                 `json:"type_of_loss"`
	CauseOfLoss        *string                `json:"cause_of_loss"`
	EstimatedLoss      float64                `json:"estimated_loss"`
	Description        *string                `json:"description"`
	Status             domain.ClaimStatus     `json:"status"`
	SurveyorID         *string                `json:"surveyor_id"`
	InvestigationNotes *string                `json:"investigation_notes"`
	LossAdjusterID     *string                `json:"loss_adjuster_id"`
	AssessmentNotes    *string                `json:"assessment_notes"`
	FinalLossAmount    *float64               `json:"final_loss_amount"`
	Recommendation     *domain.Recommendation `json:"recommendation"`
	AssessmentDate     *time.Time             `json:"assessment_date"`
	AdminID            *string                `json:"admin_id"`
	AdminDecision      *domain.AdminDecision  `json:"admin_decision"`
	AdminNotes         *string                `json:"admin_notes"`
	FinanceID          *string                `json:"finance_id"`
	FinanceNotes       *string                `json:"finance_notes"`
	PaymentStatus      domain.PaymentStatus   `json:"payment_status"`
	PaymentReference   *string                `json:"payment_reference"`
	PaymentAmount      *float64               `json:"payment_amount"`
	PaymentDate        *time.Time             `json:"payment_date"`
	PaymentMethod      *domain.PaymentMethod  `json:"payment_method"`
	FinalReport        *string                `json:"final_report"`
	ClosedDate         *time.Time             `json:"closed_date"`
	Evidence           []EvidenceResponse     `json:"evidence"`
	CreatedAt          time.Time              `json:"created_at"`
	UpdatedAt          time.Time              `json:"updated_at"`
}

// EvidenceResponse metadata.
type EvidenceResponse struct {
	ID         string    `json:"id"`
	FileName   string    `json:"file_name"`
	FileURL    string    `json:"file_url"`
	UploadedAt time.Time `json:"uploaded_at"`
}

// ClaimHistoryResponse is a single audit trail entry.
type ClaimHistoryResponse struct {
	ID            string            `json:"id"`
	ChangedByID   *string           `json:"changed_by_id"`
	ChangedByRole domain.Role       `json:"changed_by_role"`
	ChangeType    domain.ChangeType `json:"change_type"`
	OldValue      map[string]any    `json:"old_value,omitempty"`
	NewValue      map[string]any    `json:"new_value,omitempty"`
	CreatedAt     time.Time         `json:"created_at"`
}

// Pagination wraps paging metadata in list responses.
type Pagination struct {
	Total int64 `json:"total"`
	Page  int   `json:"page"`
	Pages int   `json:"pages"`
}
