package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/spec-kit/claims-service/internal/domain"
	"github.com/spec-kit/claims-service/internal/events"
	apperrors "github.com/spec-kit/claims-service/pkg/util"
)

func newClaimServiceForTest() (*ClaimService, *fakeClaimRepo, *fakeUserRepo, *fakeHistoryRepo, *recordingDispatcher) {
	claims := newFakeClaimRepo()
	users := newFakeUserRepo()
	history := &fakeHistoryRepo{}
	dispatcher := &recordingDispatcher{}
	svc := NewClaimService(ClaimDependencies{
		ClaimRepo:    claims,
		EvidenceRepo: &fakeEvidenceRepo{},
		HistoryRepo:  history,
		UserRepo:     users,
		Dispatcher:   dispatcher,
	})
	return svc, claims, users, history, dispatcher
}

func seedClaim(claims *fakeClaimRepo, id, ownerID string, status domain.ClaimStatus) *domain.Claim {
	claim := &domain.Claim{
		ID:            id,
		UserID:        ownerID,
		FullName:      "Jane Mwangi",
		PolicyNumber:  "POL-001",
		Reference:     "CLM-TEST01",
		IncidentDate:  "2025-02-10",
		IncidentPlace: "Mombasa port",
		TypeOfLoss:    "cargo_damage",
		Status:        status,
		PaymentStatus: domain.PaymentStatusPending,
	}
	claims.put(claim)
	return claim
}

func TestCreateClaim(t *testing.T) {
	svc, _, _, _, dispatcher := newClaimServiceForTest()
	ctx := context.Background()
	client := domain.Actor{ID: "client-1", Role: domain.RoleClient}

	t.Run("client creates pending claim with reference", func(t *testing.T) {
		claim, err := svc.CreateClaim(ctx, client, ClaimCreateInput{
			FullName:      "Jane Mwangi",
			PolicyNumber:  "POL-001",
			IncidentDate:  "2025-02-10",
			IncidentPlace: "Mombasa port",
			TypeOfLoss:    "cargo_damage",
			EstimatedLoss: 50000,
		})
		if err != nil {
			t.Fatalf("expected success, got %v", err)
		}
		if claim.Status != domain.ClaimStatusPending {
			t.Fatalf("expected status pending, got %s", claim.Status)
		}
		if !strings.HasPrefix(claim.Reference, "CLM-") {
			t.Fatalf("expected CLM- reference, got %s", claim.Reference)
		}
		if claim.UserID != client.ID {
			t.Fatalf("expected owner %s, got %s", client.ID, claim.UserID)
		}
		if got := dispatcher.byType(events.EventClaimCreated); len(got) != 1 {
			t.Fatalf("expected 1 claim_created event, got %d", len(got))
		}
	})

	t.Run("non-clients may not file", func(t *testing.T) {
		_, err := svc.CreateClaim(ctx, domain.Actor{ID: "admin-1", Role: domain.RoleAdmin}, ClaimCreateInput{
			FullName: "x", PolicyNumber: "y", IncidentDate: "d", IncidentPlace: "p", TypeOfLoss: "t",
		})
		if !apperrors.IsCode(err, "FORBIDDEN") {
			t.Fatalf("expected FORBIDDEN, got %v", err)
		}
	})

	t.Run("missing fields rejected", func(t *testing.T) {
		_, err := svc.CreateClaim(ctx, client, ClaimCreateInput{FullName: "Jane"})
		if !apperrors.IsCode(err, "VALIDATION_FAILED") {
			t.Fatalf("expected VALIDATION_FAILED, got %v", err)
		}
	})
}

func TestClaimLifecycle(t *testing.T) {
	svc, claims, users, history, dispatcher := newClaimServiceForTest()
	ctx := context.Background()

	users.put(&domain.User{ID: "surveyor-1", Role: domain.RoleSurveyor, Status: domain.UserStatusActive})
	seedClaim(claims, "claim-1", "client-1", domain.ClaimStatusPending)

	admin := domain.Actor{ID: "admin-1", Role: domain.RoleAdmin}
	surveyor := domain.Actor{ID: "surveyor-1", Role: domain.RoleSurveyor}
	adjuster := domain.Actor{ID: "adjuster-1", Role: domain.RoleLossAdjuster}
	finance := domain.Actor{ID: "finance-1", Role: domain.RoleFinance}

	claim, err := svc.AssignSurveyor(ctx, admin, "claim-1", "surveyor-1")
	if err != nil {
		t.Fatalf("assign: %v", err)
	}
	if claim.Status != domain.ClaimStatusAssigned {
		t.Fatalf("expected assigned, got %s", claim.Status)
	}

	if claim, err = svc.UpdateStatus(ctx, surveyor, "claim-1", domain.ClaimStatusInvestigating); err != nil {
		t.Fatalf("investigating: %v", err)
	}
	if claim, err = svc.UpdateStatus(ctx, surveyor, "claim-1", domain.ClaimStatusCompleted); err != nil {
		t.Fatalf("completed: %v", err)
	}

	amount := 42000.0
	rec := domain.RecommendationApprove
	if claim, err = svc.Assess(ctx, adjuster, "claim-1", AssessInput{FinalLossAmount: &amount, Recommendation: &rec}); err != nil {
		t.Fatalf("assess: %v", err)
	}
	if claim.Status != domain.ClaimStatusAssessed || claim.AssessmentDate == nil {
		t.Fatalf("assess side effects missing: %+v", claim)
	}

	if claim, err = svc.Decide(ctx, admin, "claim-1", domain.AdminDecisionApproved, nil); err != nil {
		t.Fatalf("decide: %v", err)
	}
	if claim.Status != domain.ClaimStatusApproved {
		t.Fatalf("expected approved, got %s", claim.Status)
	}

	if claim, err = svc.UpdatePayment(ctx, finance, "claim-1", PaymentUpdateInput{PaymentStatus: domain.PaymentStatusPaid}); err != nil {
		t.Fatalf("payment: %v", err)
	}
	if claim.Status != domain.ClaimStatusPaid {
		t.Fatalf("expected paid, got %s", claim.Status)
	}
	if claim.PaymentAmount == nil || *claim.PaymentAmount != amount {
		t.Fatalf("expected payment_amount %v, got %v", amount, claim.PaymentAmount)
	}

	// assigned, investigating, completed, assessed, approved, paid
	entries, _ := history.ListByClaim(ctx, "claim-1", 0, 0)
	if len(entries) != 6 {
		t.Fatalf("expected 6 status history entries, got %d", len(entries))
	}
	if got := dispatcher.byType(events.EventClaimStatusChanged); len(got) != 6 {
		t.Fatalf("expected 6 status events, got %d", len(got))
	}
}

func TestAssignSurveyorValidation(t *testing.T) {
	svc, claims, users, _, _ := newClaimServiceForTest()
	ctx := context.Background()
	admin := domain.Actor{ID: "admin-1", Role: domain.RoleAdmin}
	seedClaim(claims, "claim-1", "client-1", domain.ClaimStatusPending)

	t.Run("unknown surveyor", func(t *testing.T) {
		_, err := svc.AssignSurveyor(ctx, admin, "claim-1", "nope")
		if !apperrors.IsCode(err, "NOT_FOUND") {
			t.Fatalf("expected NOT_FOUND, got %v", err)
		}
	})

	t.Run("wrong role", func(t *testing.T) {
		users.put(&domain.User{ID: "client-9", Role: domain.RoleClient, Status: domain.UserStatusActive})
		_, err := svc.AssignSurveyor(ctx, admin, "claim-1", "client-9")
		if !apperrors.IsCode(err, "VALIDATION_FAILED") {
			t.Fatalf("expected VALIDATION_FAILED, got %v", err)
		}
	})

	t.Run("inactive surveyor", func(t *testing.T) {
		users.put(&domain.User{ID: "surveyor-2", Role: domain.RoleSurveyor, Status: domain.UserStatusSuspended})
		_, err := svc.AssignSurveyor(ctx, admin, "claim-1", "surveyor-2")
		if !apperrors.IsCode(err, "CONFLICT") {
			t.Fatalf("expected CONFLICT, got %v", err)
		}
	})
}

func TestTransitionRetriesOnStatusConflict(t *testing.T) {
	svc, claims, _, _, _ := newClaimServiceForTest()
	ctx := context.Background()
	admin := domain.Actor{ID: "admin-1", Role: domain.RoleAdmin}
	seedClaim(claims, "claim-1", "client-1", domain.ClaimStatusPending)

	// Another writer flips the status between read and guarded write. The
	// first attempt must miss; the retry re-reads and succeeds.
	claims.beforeGuarded = func(call int) {
		if call == 1 {
			stored, _ := claims.GetByID(ctx, "claim-1")
			stored.Status = domain.ClaimStatusUnderReview
			claims.put(stored)
		}
	}

	claim, err := svc.UpdateStatus(ctx, admin, "claim-1", domain.ClaimStatusClosed)
	if err != nil {
		t.Fatalf("expected retry to succeed, got %v", err)
	}
	if claim.Status != domain.ClaimStatusClosed {
		t.Fatalf("expected closed, got %s", claim.Status)
	}
	if claims.guardedCalls != 2 {
		t.Fatalf("expected 2 guarded attempts, got %d", claims.guardedCalls)
	}
}

func TestTransitionGivesUpAfterRetry(t *testing.T) {
	svc, claims, _, _, _ := newClaimServiceForTest()
	ctx := context.Background()
	admin := domain.Actor{ID: "admin-1", Role: domain.RoleAdmin}
	seedClaim(claims, "claim-1", "client-1", domain.ClaimStatusPending)

	// Every attempt loses the race.
	flip := domain.ClaimStatusUnderReview
	claims.beforeGuarded = func(int) {
		stored, _ := claims.GetByID(ctx, "claim-1")
		if stored.Status == flip {
			flip = domain.ClaimStatusPending
		}
		stored.Status = flip
		claims.put(stored)
	}

	_, err := svc.UpdateStatus(ctx, admin, "claim-1", domain.ClaimStatusClosed)
	if !apperrors.IsCode(err, "CONFLICT") {
		t.Fatalf("expected CONFLICT after exhausted retries, got %v", err)
	}
}

func TestTransitionSurvivesHistoryWriteFailure(t *testing.T) {
	claims := newFakeClaimRepo()
	history := &fakeHistoryRepo{failErr: errors.New("history store down")}
	svc := NewClaimService(ClaimDependencies{
		ClaimRepo:   claims,
		HistoryRepo: history,
		UserRepo:    newFakeUserRepo(),
		Dispatcher:  &recordingDispatcher{},
		Logger:      zap.NewNop(),
	})
	ctx := context.Background()
	seedClaim(claims, "claim-1", "client-1", domain.ClaimStatusPending)

	// The audit trail is best effort; a failing write must not undo or fail
	// the transition itself.
	claim, err := svc.UpdateStatus(ctx, domain.Actor{ID: "admin-1", Role: domain.RoleAdmin}, "claim-1", domain.ClaimStatusUnderReview)
	if err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	if claim.Status != domain.ClaimStatusUnderReview {
		t.Fatalf("expected under_review, got %s", claim.Status)
	}
	stored, _ := claims.GetByID(ctx, "claim-1")
	if stored.Status != domain.ClaimStatusUnderReview {
		t.Fatalf("expected persisted under_review, got %s", stored.Status)
	}
}

func TestGetClaimVisibility(t *testing.T) {
	svc, claims, _, _, _ := newClaimServiceForTest()
	ctx := context.Background()
	seedClaim(claims, "claim-1", "client-1", domain.ClaimStatusPending)

	t.Run("owner sees own claim", func(t *testing.T) {
		claim, _, err := svc.GetClaim(ctx, domain.Actor{ID: "client-1", Role: domain.RoleClient}, "claim-1")
		if err != nil {
			t.Fatalf("expected success, got %v", err)
		}
		if claim.ID != "claim-1" {
			t.Fatalf("wrong claim returned: %s", claim.ID)
		}
	})

	t.Run("foreign client is forbidden", func(t *testing.T) {
		_, _, err := svc.GetClaim(ctx, domain.Actor{ID: "client-2", Role: domain.RoleClient}, "claim-1")
		if !apperrors.IsCode(err, "FORBIDDEN") {
			t.Fatalf("expected FORBIDDEN, got %v", err)
		}
	})

	t.Run("missing claim is not found", func(t *testing.T) {
		_, _, err := svc.GetClaim(ctx, domain.Actor{ID: "admin-1", Role: domain.RoleAdmin}, "nope")
		if !apperrors.IsCode(err, "NOT_FOUND") {
			t.Fatalf("expected NOT_FOUND, got %v", err)
		}
	})
}

func TestListHistoryVisibility(t *testing.T) {
	svc, claims, _, history, _ := newClaimServiceForTest()
	ctx := context.Background()
	seedClaim(claims, "claim-1", "client-1", domain.ClaimStatusPending)
	_ = history.Create(ctx, &domain.ClaimHistory{
		ClaimID:    "claim-1",
		ChangeType: domain.ChangeTypeStatus,
	})

	t.Run("owning client reads own audit trail", func(t *testing.T) {
		entries, err := svc.ListHistory(ctx, domain.Actor{ID: "client-1", Role: domain.RoleClient}, "claim-1", 0, 0)
		if err != nil {
			t.Fatalf("expected success, got %v", err)
		}
		if len(entries) != 1 {
			t.Fatalf("expected 1 entry, got %d", len(entries))
		}
	})

	t.Run("foreign client is forbidden", func(t *testing.T) {
		_, err := svc.ListHistory(ctx, domain.Actor{ID: "client-2", Role: domain.RoleClient}, "claim-1", 0, 0)
		if !apperrors.IsCode(err, "FORBIDDEN") {
			t.Fatalf("expected FORBIDDEN, got %v", err)
		}
	})
}

func TestListClaimsScoping(t *testing.T) {
	svc, claims, _, _, _ := newClaimServiceForTest()
	ctx := context.Background()
	seedClaim(claims, "claim-1", "client-1", domain.ClaimStatusPending)
	seedClaim(claims, "claim-2", "client-2", domain.ClaimStatusAssessed)

	t.Run("client sees only own", func(t *testing.T) {
		page, err := svc.ListClaims(ctx, domain.Actor{ID: "client-1", Role: domain.RoleClient}, ClaimListFilter{})
		if err != nil {
			t.Fatalf("expected success, got %v", err)
		}
		if len(page.Claims) != 1 || page.Claims[0].ID != "claim-1" {
			t.Fatalf("expected only claim-1, got %+v", page.Claims)
		}
	})

	t.Run("finance sees assessed only", func(t *testing.T) {
		page, err := svc.ListClaims(ctx, domain.Actor{ID: "finance-1", Role: domain.RoleFinance}, ClaimListFilter{})
		if err != nil {
			t.Fatalf("expected success, got %v", err)
		}
		if len(page.Claims) != 1 || page.Claims[0].ID != "claim-2" {
			t.Fatalf("expected only claim-2, got %+v", page.Claims)
		}
	})

	t.Run("service manager gets empty page", func(t *testing.T) {
		page, err := svc.ListClaims(ctx, domain.Actor{ID: "sm", Role: domain.RoleServiceManager}, ClaimListFilter{})
		if err != nil {
			t.Fatalf("expected success, got %v", err)
		}
		if len(page.Claims) != 0 || page.Total != 0 {
			t.Fatalf("expected empty page, got %+v", page)
		}
	})
}

func TestDeleteClaim(t *testing.T) {
	svc, claims, _, _, dispatcher := newClaimServiceForTest()
	ctx := context.Background()
	seedClaim(claims, "claim-1", "client-1", domain.ClaimStatusPending)

	t.Run("non-admin forbidden", func(t *testing.T) {
		err := svc.DeleteClaim(ctx, domain.Actor{ID: "client-1", Role: domain.RoleClient}, "claim-1")
		if !apperrors.IsCode(err, "FORBIDDEN") {
			t.Fatalf("expected FORBIDDEN, got %v", err)
		}
	})

	t.Run("admin deletes and event fires", func(t *testing.T) {
		if err := svc.DeleteClaim(ctx, domain.Actor{ID: "admin-1", Role: domain.RoleAdmin}, "claim-1"); err != nil {
			t.Fatalf("expected success, got %v", err)
		}
		if _, err := claims.GetByID(ctx, "claim-1"); err == nil {
			t.Fatal("expected claim removed")
		}
		if got := dispatcher.byType(events.EventClaimDeleted); len(got) != 1 {
			t.Fatalf("expected 1 claim_deleted event, got %d", len(got))
		}
	})
}
