package workflow

import "github.com/spec-kit/claims-service/internal/domain"

// Visibility is the subset of claims a role may list or view. Caller-supplied
// filters are ANDed with it and can never widen it.
type Visibility struct {
	All        bool
	None       bool
	OwnerID    *string
	SurveyorID *string
	Statuses   []domain.ClaimStatus
}

// ScopeFor computes the visibility predicate for an actor.
func ScopeFor(actor domain.Actor) Visibility {
	switch actor.Role {
	case domain.RoleAdmin, domain.RoleClaimAnalyst:
		return Visibility{All: true}
	case domain.RoleClient:
		id := actor.ID
		return Visibility{OwnerID: &id}
	case domain.RoleSurveyor:
		id := actor.ID
		return Visibility{SurveyorID: &id}
	case domain.RoleLossAdjuster:
		return Visibility{Statuses: []domain.ClaimStatus{
			domain.ClaimStatusAssigned,
			domain.ClaimStatusCompleted,
			domain.ClaimStatusAssessed,
		}}
	case domain.RoleFinance:
		return Visibility{Statuses: []domain.ClaimStatus{
			domain.ClaimStatusAssessed,
			domain.ClaimStatusApproved,
			domain.ClaimStatusPaid,
		}}
	default:
		// service_manager and unknown roles see nothing.
		return Visibility{None: true}
	}
}

// CanView reports whether a single claim falls inside the actor's scope.
func (v Visibility) CanView(claim *domain.Claim) bool {
	if v.None {
		return false
	}
	if v.All {
		return true
	}
	if v.OwnerID != nil && claim.UserID != *v.OwnerID {
		return false
	}
	if v.SurveyorID != nil && (claim.SurveyorID == nil || *claim.SurveyorID != *v.SurveyorID) {
		return false
	}
	if len(v.Statuses) > 0 {
		for _, s := range v.Statuses {
			if claim.Status == s {
				return true
			}
		}
		return false
	}
	return true
}
