package workflow

import (
	"testing"

	"github.com/spec-kit/claims-service/internal/domain"
)

func TestScopeForVisibility(t *testing.T) {
	surveyorID := "surveyor-1"
	ownClaim := &domain.Claim{ID: "c1", UserID: "client-1", Status: domain.ClaimStatusPending}
	otherClaim := &domain.Claim{ID: "c2", UserID: "client-2", Status: domain.ClaimStatusPending}
	assignedClaim := &domain.Claim{ID: "c3", UserID: "client-2", Status: domain.ClaimStatusAssigned, SurveyorID: &surveyorID}
	assessedClaim := &domain.Claim{ID: "c4", UserID: "client-2", Status: domain.ClaimStatusAssessed}
	paidClaim := &domain.Claim{ID: "c5", UserID: "client-2", Status: domain.ClaimStatusPaid}

	cases := []struct {
		name  string
		actor domain.Actor
		claim *domain.Claim
		want  bool
	}{
		{"admin sees everything", domain.Actor{ID: "a", Role: domain.RoleAdmin}, otherClaim, true},
		{"analyst sees everything", domain.Actor{ID: "a", Role: domain.RoleClaimAnalyst}, otherClaim, true},
		{"client sees own claim", domain.Actor{ID: "client-1", Role: domain.RoleClient}, ownClaim, true},
		{"client blocked from foreign claim", domain.Actor{ID: "client-1", Role: domain.RoleClient}, otherClaim, false},
		{"surveyor sees assigned claim", domain.Actor{ID: surveyorID, Role: domain.RoleSurveyor}, assignedClaim, true},
		{"surveyor blocked from unassigned", domain.Actor{ID: surveyorID, Role: domain.RoleSurveyor}, otherClaim, false},
		{"adjuster sees assigned status", domain.Actor{ID: "la", Role: domain.RoleLossAdjuster}, assignedClaim, true},
		{"adjuster blocked from pending", domain.Actor{ID: "la", Role: domain.RoleLossAdjuster}, otherClaim, false},
		{"finance sees assessed", domain.Actor{ID: "f", Role: domain.RoleFinance}, assessedClaim, true},
		{"finance sees paid", domain.Actor{ID: "f", Role: domain.RoleFinance}, paidClaim, true},
		{"finance blocked from pending", domain.Actor{ID: "f", Role: domain.RoleFinance}, otherClaim, false},
		{"service manager sees nothing", domain.Actor{ID: "sm", Role: domain.RoleServiceManager}, ownClaim, false},
		{"unknown role sees nothing", domain.Actor{ID: "x", Role: domain.Role("ghost")}, ownClaim, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := ScopeFor(tc.actor).CanView(tc.claim); got != tc.want {
				t.Fatalf("expected %v, got %v", tc.want, got)
			}
		})
	}
}

func TestScopeForListPredicates(t *testing.T) {
	t.Run("client scope pins owner", func(t *testing.T) {
		scope := ScopeFor(domain.Actor{ID: "client-1", Role: domain.RoleClient})
		if scope.OwnerID == nil || *scope.OwnerID != "client-1" {
			t.Fatalf("expected owner scope client-1, got %+v", scope)
		}
	})
	t.Run("surveyor scope pins assignment", func(t *testing.T) {
		scope := ScopeFor(domain.Actor{ID: "surveyor-1", Role: domain.RoleSurveyor})
		if scope.SurveyorID == nil || *scope.SurveyorID != "surveyor-1" {
			t.Fatalf("expected surveyor scope surveyor-1, got %+v", scope)
		}
	})
	t.Run("service manager scope is empty", func(t *testing.T) {
		scope := ScopeFor(domain.Actor{ID: "sm", Role: domain.RoleServiceManager})
		if !scope.None {
			t.Fatalf("expected empty scope, got %+v", scope)
		}
	})
}
