package workflow

import (
	"fmt"
	"time"

	"github.com/spec-kit/claims-service/internal/domain"
	apperrors "github.com/spec-kit/claims-service/pkg/util"
)

// Action identifies an attempted claim mutation.
type Action string

const (
	ActionSetStatus      Action = "set_status"
	ActionAssignSurveyor Action = "assign_surveyor"
	ActionAssess         Action = "assess"
	ActionAdminDecision  Action = "admin_decision"
	ActionUpdatePayment  Action = "update_payment"
	ActionUpdateFields   Action = "update_fields"
	ActionDelete         Action = "delete"
)

// Request carries the requested transition and its action-specific fields.
type Request struct {
	Action Action

	// set_status
	Status domain.ClaimStatus

	// assign_surveyor
	SurveyorID string

	// assess
	FinalLossAmount *float64
	AssessmentNotes *string
	Recommendation  *domain.Recommendation

	// admin_decision
	Decision   domain.AdminDecision
	AdminNotes *string

	// update_payment
	PaymentStatus    domain.PaymentStatus
	PaymentReference *string
	PaymentMethod    *domain.PaymentMethod
	FinanceNotes     *string
}

// Mutation is the accepted outcome of an Authorize call. Status and its
// mandated side effects must be persisted atomically.
type Mutation struct {
	NewStatus domain.ClaimStatus
	apply     func(claim *domain.Claim, now time.Time)
}

// Apply writes the mutation onto the claim. The closedDate invariant is
// enforced here: non-nil iff the resulting status is closed.
func (m *Mutation) Apply(claim *domain.Claim, now time.Time) {
	if m.apply != nil {
		m.apply(claim, now)
	}
	claim.Status = m.NewStatus
	if m.NewStatus == domain.ClaimStatusClosed {
		if claim.ClosedDate == nil {
			closed := now
			claim.ClosedDate = &closed
		}
	} else {
		claim.ClosedDate = nil
	}
}

// ownershipCheck validates the actor's relation to the claim.
type ownershipCheck func(actor domain.Actor, claim *domain.Claim) bool

// rule is one row of the policy table: which statuses a role may write for
// an action, under which ownership and status preconditions.
type rule struct {
	statuses     map[domain.ClaimStatus]struct{}
	ownership    ownershipCheck
	precondition map[domain.ClaimStatus]struct{}
}

func statusSet(statuses ...domain.ClaimStatus) map[domain.ClaimStatus]struct{} {
	set := make(map[domain.ClaimStatus]struct{}, len(statuses))
	for _, s := range statuses {
		set[s] = struct{}{}
	}
	return set
}

func surveyorOwns(actor domain.Actor, claim *domain.Claim) bool {
	return claim.SurveyorID != nil && *claim.SurveyorID == actor.ID
}

func clientOwns(actor domain.Actor, claim *domain.Claim) bool {
	return claim.UserID == actor.ID
}

// policy is the authoritative (role, action) permission table. Adding a role
// or widening a permission is a data change here, not new branching.
var policy = map[domain.Role]map[Action]rule{
	domain.RoleAdmin: {
		ActionSetStatus:      {statuses: statusSet(domain.AllClaimStatuses...)},
		ActionAssignSurveyor: {},
		ActionAdminDecision:  {},
		ActionUpdateFields:   {},
		ActionDelete:         {},
	},
	domain.RoleClaimAnalyst: {
		ActionSetStatus: {statuses: statusSet(
			domain.ClaimStatusApproved,
			domain.ClaimStatusRejected,
			domain.ClaimStatusUnderReview,
			domain.ClaimStatusClosed,
		)},
		ActionAssignSurveyor: {},
	},
	domain.RoleSurveyor: {
		ActionSetStatus: {
			statuses:  statusSet(domain.ClaimStatusInvestigating, domain.ClaimStatusCompleted),
			ownership: surveyorOwns,
		},
	},
	domain.RoleLossAdjuster: {
		ActionAssess: {
			precondition: statusSet(domain.ClaimStatusCompleted, domain.ClaimStatusAssigned),
		},
	},
	domain.RoleFinance: {
		ActionUpdatePayment: {},
	},
	domain.RoleClient: {
		ActionUpdateFields: {ownership: clientOwns},
	},
	// service_manager: no claim-mutating actions defined.
}

// Authorize decides whether the actor may perform the requested transition on
// the claim. Value validation happens before role and ownership checks; an
// unrecognized value is rejected for every role.
func Authorize(actor domain.Actor, claim *domain.Claim, req Request) (*Mutation, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	actions, ok := policy[actor.Role]
	if !ok {
		return nil, apperrors.NewForbidden(fmt.Sprintf("role %s may not modify claims", actor.Role))
	}
	r, ok := actions[req.Action]
	if !ok {
		return nil, apperrors.NewForbidden(fmt.Sprintf("role %s may not perform %s", actor.Role, req.Action))
	}

	if req.Action == ActionSetStatus {
		if _, allowed := r.statuses[req.Status]; !allowed {
			return nil, apperrors.NewForbidden(fmt.Sprintf("role %s may not set status %s", actor.Role, req.Status))
		}
	}
	if r.ownership != nil && !r.ownership(actor, claim) {
		return nil, apperrors.NewForbidden("ownership precondition failed")
	}
	if r.precondition != nil {
		if _, ok := r.precondition[claim.Status]; !ok {
			return nil, apperrors.NewForbidden(fmt.Sprintf("action %s not allowed from status %s", req.Action, claim.Status))
		}
	}

	return buildMutation(actor, claim, req), nil
}

func validateRequest(req Request) error {
	switch req.Action {
	case ActionSetStatus:
		if !req.Status.IsValid() {
			return apperrors.NewValidationError("unknown claim status", map[string]any{"status": string(req.Status)})
		}
	case ActionAssignSurveyor:
		if req.SurveyorID == "" {
			return apperrors.NewValidationError("surveyor_id required", nil)
		}
	case ActionAdminDecision:
		switch req.Decision {
		case domain.AdminDecisionApproved, domain.AdminDecisionRejected, domain.AdminDecisionForwardedToFinance:
		default:
			return apperrors.NewValidationError("unknown admin decision", map[string]any{"decision": string(req.Decision)})
		}
	case ActionUpdatePayment:
		if !req.PaymentStatus.IsValid() {
			return apperrors.NewValidationError("unknown payment status", map[string]any{"payment_status": string(req.PaymentStatus)})
		}
	case ActionAssess, ActionUpdateFields, ActionDelete:
	default:
		return apperrors.NewValidationError("unknown action", map[string]any{"action": string(req.Action)})
	}
	return nil
}

func buildMutation(actor domain.Actor, claim *domain.Claim, req Request) *Mutation {
	switch req.Action {
	case ActionSetStatus:
		return &Mutation{NewStatus: req.Status}

	case ActionAssignSurveyor:
		surveyorID := req.SurveyorID
		return &Mutation{
			NewStatus: domain.ClaimStatusAssigned,
			apply: func(c *domain.Claim, _ time.Time) {
				c.SurveyorID = &surveyorID
			},
		}

	case ActionAssess:
		actorID := actor.ID
		return &Mutation{
			NewStatus: domain.ClaimStatusAssessed,
			apply: func(c *domain.Claim, now time.Time) {
				c.LossAdjusterID = &actorID
				assessed := now
				c.AssessmentDate = &assessed
				if req.FinalLossAmount != nil {
					c.FinalLossAmount = req.FinalLossAmount
				}
				if req.AssessmentNotes != nil {
					c.AssessmentNotes = req.AssessmentNotes
				}
				if req.Recommendation != nil {
					c.Recommendation = req.Recommendation
				}
			},
		}

	case ActionAdminDecision:
		actorID := actor.ID
		decision := req.Decision
		newStatus := domain.ClaimStatusApproved
		switch decision {
		case domain.AdminDecisionRejected:
			newStatus = domain.ClaimStatusRejected
		case domain.AdminDecisionForwardedToFinance:
			newStatus = domain.ClaimStatusFinanceReview
		}
		return &Mutation{
			NewStatus: newStatus,
			apply: func(c *domain.Claim, _ time.Time) {
				c.AdminID = &actorID
				c.AdminDecision = &decision
				if req.AdminNotes != nil {
					c.AdminNotes = req.AdminNotes
				}
			},
		}

	case ActionUpdatePayment:
		actorID := actor.ID
		newStatus := claim.Status
		if req.PaymentStatus == domain.PaymentStatusPaid {
			newStatus = domain.ClaimStatusPaid
		}
		return &Mutation{
			NewStatus: newStatus,
			apply: func(c *domain.Claim, now time.Time) {
				c.FinanceID = &actorID
				c.PaymentStatus = req.PaymentStatus
				if req.PaymentReference != nil {
					c.PaymentReference = req.PaymentReference
				}
				if req.PaymentMethod != nil {
					c.PaymentMethod = req.PaymentMethod
				}
				if req.FinanceNotes != nil {
					c.FinanceNotes = req.FinanceNotes
				}
				if req.PaymentStatus == domain.PaymentStatusPaid {
					paid := now
					c.PaymentDate = &paid
					c.PaymentAmount = c.FinalLossAmount
				}
			},
		}

	default:
		// update_fields and delete leave the status untouched.
		return &Mutation{NewStatus: claim.Status}
	}
}
