package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/claims-service/internal/domain"
	"github.com/spec-kit/claims-service/internal/events"
	"github.com/spec-kit/claims-service/internal/repository"
	"github.com/spec-kit/claims-service/internal/workflow"
	apperrors "github.com/spec-kit/claims-service/pkg/util"
)

// ClaimService coordinates claim workflows around the transition policy.
type ClaimService struct {
	claims     repository.ClaimRepository
	evidence   repository.EvidenceRepository
	history    repository.ClaimHistoryRepository
	users      repository.UserRepository
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// ClaimDependencies bundles repositories for claim service.
type ClaimDependencies struct {
	ClaimRepo    repository.ClaimRepository
	EvidenceRepo repository.EvidenceRepository
	HistoryRepo  repository.ClaimHistoryRepository
	UserRepo     repository.UserRepository
	Dispatcher   events.Dispatcher
	Logger       *zap.Logger
}

// NewClaimService constructs the service.
func NewClaimService(deps ClaimDependencies) *ClaimService {
	return &ClaimService{
		claims:     deps.ClaimRepo,
		evidence:   deps.EvidenceRepo,
		history:    deps.HistoryRepo,
		users:      deps.UserRepo,
		dispatcher: deps.Dispatcher,
		logger:     deps.Logger,
	}
}

// ClaimCreateInput describes claim creation payload.
type ClaimCreateInput struct {
	FullName         string
	Phone            string
	Email            string
	PolicyNumber     string
	VesselName       string
	VoyageRoute      *string
	CargoDescription *string
	BillOfLading     *string
	IncidentDate     string
	IncidentPlace    string
	TypeOfLoss       string
	CauseOfLoss      *string
	EstimatedLoss    float64
	Description      *string
}

// ClaimUpdateInput describes a non-status field edit.
type ClaimUpdateInput struct {
	FullName           *string
	Phone              *string
	Email              *string
	VesselName         *string
	VoyageRoute        *string
	CargoDescription   *string
	BillOfLading       *string
	IncidentDate       *string
	IncidentPlace      *string
	TypeOfLoss         *string
	CauseOfLoss        *string
	EstimatedLoss      *float64
	Description        *string
	InvestigationNotes *string
	FinalReport        *string
}

// AssessInput carries the loss adjuster's assessment.
type AssessInput struct {
	FinalLossAmount *float64
	AssessmentNotes *string
	Recommendation  *domain.Recommendation
}

// PaymentUpdateInput carries the finance payment sub-field update.
type PaymentUpdateInput struct {
	PaymentStatus    domain.PaymentStatus
	PaymentReference *string
	PaymentMethod    *domain.PaymentMethod
	FinanceNotes     *string
}

// ClaimListFilter describes caller-supplied listing filters. The role scope
// is applied on top and cannot be widened by these.
type ClaimListFilter struct {
	Status  *domain.ClaimStatus
	Search  *string
	SortAsc bool
	Page    int
	Limit   int
	All     bool
}

// ClaimPage is a paginated listing result.
type ClaimPage struct {
	Claims []domain.Claim
	Total  int64
	Page   int
	Pages  int
}

// CreateClaim files a new claim for a client. New claims always start pending.
func (s *ClaimService) CreateClaim(ctx context.Context, actor domain.Actor, input ClaimCreateInput) (*domain.Claim, error) {
	if actor.Role != domain.RoleClient {
		return nil, apperrors.NewForbidden("only clients may file claims")
	}
	if strings.TrimSpace(input.FullName) == "" || strings.TrimSpace(input.PolicyNumber) == "" {
		return nil, apperrors.NewValidationError("full_name and policy_number required", nil)
	}
	if strings.TrimSpace(input.IncidentDate) == "" || strings.TrimSpace(input.IncidentPlace) == "" || strings.TrimSpace(input.TypeOfLoss) == "" {
		return nil, apperrors.NewValidationError("incident_date, incident_place and type_of_loss required", nil)
	}

	claim := &domain.Claim{
		UserID:           actor.ID,
		FullName:         strings.TrimSpace(input.FullName),
		Phone:            strings.TrimSpace(input.Phone),
		Email:            strings.TrimSpace(input.Email),
		PolicyNumber:     strings.TrimSpace(input.PolicyNumber),
		Reference:        generateClaimReference(),
		VesselName:       strings.TrimSpace(input.VesselName),
		VoyageRoute:      input.VoyageRoute,
		CargoDescription: input.CargoDescription,
		BillOfLading:     input.BillOfLading,
		IncidentDate:     input.IncidentDate,
		IncidentPlace:    input.IncidentPlace,
		TypeOfLoss:       input.TypeOfLoss,
		CauseOfLoss:      input.CauseOfLoss,
		EstimatedLoss:    input.EstimatedLoss,
		Description:      input.Description,
		Status:           domain.ClaimStatusPending,
		PaymentStatus:    domain.PaymentStatusPending,
	}
	if err := s.claims.Create(ctx, claim); err != nil {
		return nil, apperrors.MapError(err)
	}
	s.publishEvent(ctx, actor, events.Event{
		Type:    events.EventClaimCreated,
		ClaimID: claim.ID,
		Payload: events.ClaimCreatedPayload{
			Reference:     claim.Reference,
			PolicyNumber:  claim.PolicyNumber,
			EstimatedLoss: claim.EstimatedLoss,
		},
	})
	return claim, nil
}

// ListClaims returns claims visible to the actor, with optional filters.
func (s *ClaimService) ListClaims(ctx context.Context, actor domain.Actor, filter ClaimListFilter) (*ClaimPage, error) {
	scope := workflow.ScopeFor(actor)
	if scope.None {
		return &ClaimPage{Claims: []domain.Claim{}, Page: 1}, nil
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 10
	}
	page := filter.Page
	if page <= 0 {
		page = 1
	}

	repoFilter := repository.ClaimFilter{
		OwnerID:       scope.OwnerID,
		SurveyorID:    scope.SurveyorID,
		ScopeStatuses: scope.Statuses,
		Status:        filter.Status,
		Search:        filter.Search,
		SortAsc:       filter.SortAsc,
		Limit:         limit,
		Offset:        (page - 1) * limit,
		All:           filter.All,
	}

	claims, err := s.claims.ListWithFilter(ctx, repoFilter)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	total, err := s.claims.CountWithFilter(ctx, repoFilter)
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	pages := int((total + int64(limit) - 1) / int64(limit))
	if filter.All {
		page, pages = 1, 1
	}
	if claims == nil {
		claims = []domain.Claim{}
	}
	return &ClaimPage{Claims: claims, Total: total, Page: page, Pages: pages}, nil
}

// GetClaim fetches a claim the actor is allowed to see, with its evidence.
func (s *ClaimService) GetClaim(ctx context.Context, actor domain.Actor, claimID string) (*domain.Claim, []domain.EvidenceFile, error) {
	claim, err := s.getClaim(ctx, claimID)
	if err != nil {
		return nil, nil, err
	}
	if !workflow.ScopeFor(actor).CanView(claim) {
		return nil, nil, apperrors.NewForbidden("access denied")
	}
	files, err := s.evidence.ListByClaim(ctx, claim.ID)
	if err != nil {
		return nil, nil, apperrors.MapError(err)
	}
	return claim, files, nil
}

// UpdateClaim edits non-status fields. Clients may edit their own claims;
// admins may edit any.
func (s *ClaimService) UpdateClaim(ctx context.Context, actor domain.Actor, claimID string, input ClaimUpdateInput) (*domain.Claim, error) {
	claim, err := s.getClaim(ctx, claimID)
	if err != nil {
		return nil, err
	}
	if _, err := workflow.Authorize(actor, claim, workflow.Request{Action: workflow.ActionUpdateFields}); err != nil {
		return nil, err
	}

	applyFieldUpdates(claim, input)
	if err := s.claims.Update(ctx, claim); err != nil {
		return nil, apperrors.MapError(err)
	}
	s.recordChange(ctx, actor, claim.ID, domain.ChangeTypeFields, nil, map[string]any{"edited": true})
	return claim, nil
}

// UpdateStatus performs a direct status transition through the policy table.
func (s *ClaimService) UpdateStatus(ctx context.Context, actor domain.Actor, claimID string, status domain.ClaimStatus) (*domain.Claim, error) {
	return s.transition(ctx, actor, claimID, workflow.Request{
		Action: workflow.ActionSetStatus,
		Status: status,
	})
}

// AssignSurveyor assigns an active surveyor to a claim, moving it to assigned.
func (s *ClaimService) AssignSurveyor(ctx context.Context, actor domain.Actor, claimID, surveyorID string) (*domain.Claim, error) {
	surveyor, err := s.users.GetByID(ctx, surveyorID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("surveyor", map[string]any{"surveyor_id": surveyorID})
		}
		return nil, apperrors.MapError(err)
	}
	if surveyor.Role != domain.RoleSurveyor {
		return nil, apperrors.NewValidationError("user is not a surveyor", map[string]any{"surveyor_id": surveyorID})
	}
	if surveyor.Status != domain.UserStatusActive {
		return nil, apperrors.NewConflict("surveyor inactive", map[string]any{"surveyor_id": surveyorID})
	}
	return s.transition(ctx, actor, claimID, workflow.Request{
		Action:     workflow.ActionAssignSurveyor,
		SurveyorID: surveyorID,
	})
}

// Assess records the loss adjuster's assessment, moving the claim to assessed.
func (s *ClaimService) Assess(ctx context.Context, actor domain.Actor, claimID string, input AssessInput) (*domain.Claim, error) {
	return s.transition(ctx, actor, claimID, workflow.Request{
		Action:          workflow.ActionAssess,
		FinalLossAmount: input.FinalLossAmount,
		AssessmentNotes: input.AssessmentNotes,
		Recommendation:  input.Recommendation,
	})
}

// Decide records the admin decision (approve, reject, forward to finance).
func (s *ClaimService) Decide(ctx context.Context, actor domain.Actor, claimID string, decision domain.AdminDecision, notes *string) (*domain.Claim, error) {
	return s.transition(ctx, actor, claimID, workflow.Request{
		Action:     workflow.ActionAdminDecision,
		Decision:   decision,
		AdminNotes: notes,
	})
}

// UpdatePayment updates the finance payment sub-fields. A paid payment status
// forces the claim status to paid.
func (s *ClaimService) UpdatePayment(ctx context.Context, actor domain.Actor, claimID string, input PaymentUpdateInput) (*domain.Claim, error) {
	return s.transition(ctx, actor, claimID, workflow.Request{
		Action:           workflow.ActionUpdatePayment,
		PaymentStatus:    input.PaymentStatus,
		PaymentReference: input.PaymentReference,
		PaymentMethod:    input.PaymentMethod,
		FinanceNotes:     input.FinanceNotes,
	})
}

// DeleteClaim removes a claim unconditionally. Admin only.
func (s *ClaimService) DeleteClaim(ctx context.Context, actor domain.Actor, claimID string) error {
	claim, err := s.getClaim(ctx, claimID)
	if err != nil {
		return err
	}
	if _, err := workflow.Authorize(actor, claim, workflow.Request{Action: workflow.ActionDelete}); err != nil {
		return err
	}
	if err := s.claims.Delete(ctx, claimID); err != nil {
		return apperrors.MapError(err)
	}
	s.publishEvent(ctx, actor, events.Event{Type: events.EventClaimDeleted, ClaimID: claimID})
	return nil
}

// AddEvidence attaches an evidence file reference to a claim the actor can see.
func (s *ClaimService) AddEvidence(ctx context.Context, actor domain.Actor, claimID, fileName, fileURL string) (*domain.EvidenceFile, error) {
	if strings.TrimSpace(fileName) == "" || strings.TrimSpace(fileURL) == "" {
		return nil, apperrors.NewValidationError("file_name and file_url required", nil)
	}
	claim, err := s.getClaim(ctx, claimID)
	if err != nil {
		return nil, err
	}
	if !workflow.ScopeFor(actor).CanView(claim) {
		return nil, apperrors.NewForbidden("access denied")
	}
	file := &domain.EvidenceFile{
		ClaimID:  claim.ID,
		FileName: fileName,
		FileURL:  fileURL,
	}
	if err := s.evidence.Create(ctx, file); err != nil {
		return nil, apperrors.MapError(err)
	}
	return file, nil
}

// ListHistory returns the audit trail for a claim the actor can see.
func (s *ClaimService) ListHistory(ctx context.Context, actor domain.Actor, claimID string, limit, offset int) ([]domain.ClaimHistory, error) {
	claim, err := s.getClaim(ctx, claimID)
	if err != nil {
		return nil, err
	}
	if !workflow.ScopeFor(actor).CanView(claim) {
		return nil, apperrors.NewForbidden("access denied")
	}
	entries, err := s.history.ListByClaim(ctx, claimID, limit, offset)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return entries, nil
}

// transition runs an authorize-apply-persist cycle with a compare-and-set on
// the claim's current status. On a lost race it re-reads and re-authorizes
// once against the fresh state before giving up.
func (s *ClaimService) transition(ctx context.Context, actor domain.Actor, claimID string, req workflow.Request) (*domain.Claim, error) {
	claim, err := s.getClaim(ctx, claimID)
	if err != nil {
		return nil, err
	}

	for attempt := 0; attempt < 2; attempt++ {
		mutation, err := workflow.Authorize(actor, claim, req)
		if err != nil {
			return nil, err
		}

		oldStatus := claim.Status
		updated := *claim
		mutation.Apply(&updated, time.Now())

		err = s.claims.UpdateStatusGuarded(ctx, &updated, oldStatus)
		if errors.Is(err, repository.ErrStatusConflict) {
			claim, err = s.getClaim(ctx, claimID)
			if err != nil {
				return nil, err
			}
			continue
		}
		if err != nil {
			return nil, apperrors.MapError(err)
		}

		s.recordTransition(ctx, actor, &updated, req, oldStatus)
		s.publishTransitionEvent(ctx, actor, &updated, req, oldStatus)
		return &updated, nil
	}
	return nil, apperrors.NewConflict("claim was modified concurrently", map[string]any{"claim_id": claimID})
}

func (s *ClaimService) getClaim(ctx context.Context, claimID string) (*domain.Claim, error) {
	claim, err := s.claims.GetByID(ctx, claimID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("claim", map[string]any{"claim_id": claimID})
		}
		return nil, apperrors.MapError(err)
	}
	return claim, nil
}

func (s *ClaimService) recordTransition(ctx context.Context, actor domain.Actor, claim *domain.Claim, req workflow.Request, oldStatus domain.ClaimStatus) {
	oldValue := map[string]any{"status": oldStatus}
	newValue := map[string]any{"status": claim.Status}

	changeType := domain.ChangeTypeStatus
	switch req.Action {
	case workflow.ActionAssignSurveyor:
		changeType = domain.ChangeTypeSurveyor
		newValue["surveyor_id"] = req.SurveyorID
	case workflow.ActionUpdatePayment:
		changeType = domain.ChangeTypePayment
		newValue["payment_status"] = claim.PaymentStatus
	default:
		if oldStatus == claim.Status {
			return
		}
	}
	s.recordChange(ctx, actor, claim.ID, changeType, oldValue, newValue)
}

func (s *ClaimService) publishTransitionEvent(ctx context.Context, actor domain.Actor, claim *domain.Claim, req workflow.Request, oldStatus domain.ClaimStatus) {
	switch req.Action {
	case workflow.ActionAssignSurveyor:
		s.publishEvent(ctx, actor, events.Event{
			Type:    events.EventSurveyorAssigned,
			ClaimID: claim.ID,
			Payload: events.SurveyorAssignedPayload{SurveyorID: req.SurveyorID},
		})
	case workflow.ActionAssess:
		s.publishEvent(ctx, actor, events.Event{
			Type:    events.EventClaimAssessed,
			ClaimID: claim.ID,
			Payload: events.ClaimAssessedPayload{
				LossAdjusterID:  actor.ID,
				FinalLossAmount: claim.FinalLossAmount,
			},
		})
	case workflow.ActionUpdatePayment:
		s.publishEvent(ctx, actor, events.Event{
			Type:    events.EventPaymentUpdated,
			ClaimID: claim.ID,
			Payload: events.PaymentUpdatedPayload{
				PaymentStatus: claim.PaymentStatus,
				PaymentAmount: claim.PaymentAmount,
			},
		})
	}
	if oldStatus != claim.Status {
		s.publishEvent(ctx, actor, events.Event{
			Type:    events.EventClaimStatusChanged,
			ClaimID: claim.ID,
			Payload: events.ClaimStatusChangedPayload{OldStatus: oldStatus, NewStatus: claim.Status},
		})
	}
}

func (s *ClaimService) recordChange(ctx context.Context, actor domain.Actor, claimID string, changeType domain.ChangeType, oldValue, newValue map[string]any) {
	if s.history == nil {
		return
	}
	actorID := actor.ID
	err := s.history.Create(ctx, &domain.ClaimHistory{
		ClaimID:       claimID,
		ChangedByID:   &actorID,
		ChangedByRole: actor.Role,
		ChangeType:    changeType,
		OldValue:      oldValue,
		NewValue:      newValue,
	})
	// The audit trail is best effort; the transition itself is already
	// persisted.
	if err != nil && s.logger != nil {
		s.logger.Warn("failed to record claim history",
			zap.String("claim_id", claimID),
			zap.String("change_type", string(changeType)),
			zap.Error(err))
	}
}

func (s *ClaimService) publishEvent(ctx context.Context, actor domain.Actor, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	event.Actor = events.Actor{ID: actor.ID, Role: actor.Role}
	_ = s.dispatcher.Publish(ctx, event)
}

func applyFieldUpdates(claim *domain.Claim, input ClaimUpdateInput) {
	if input.FullName != nil {
		claim.FullName = strings.TrimSpace(*input.FullName)
	}
	if input.Phone != nil {
		claim.Phone = strings.TrimSpace(*input.Phone)
	}
	if input.Email != nil {
		claim.Email = strings.TrimSpace(*input.Email)
	}
	if input.VesselName != nil {
		claim.VesselName = strings.TrimSpace(*input.VesselName)
	}
	if input.VoyageRoute != nil {
		claim.VoyageRoute = input.VoyageRoute
	}
	if input.CargoDescription != nil {
		claim.CargoDescription = input.CargoDescription
	}
	if input.BillOfLading != nil {
		claim.BillOfLading = input.BillOfLading
	}
	if input.IncidentDate != nil {
		claim.IncidentDate = *input.IncidentDate
	}
	if input.IncidentPlace != nil {
		claim.IncidentPlace = *input.IncidentPlace
	}
	if input.TypeOfLoss != nil {
		claim.TypeOfLoss = *input.TypeOfLoss
	}
	if input.CauseOfLoss != nil {
		claim.CauseOfLoss = input.CauseOfLoss
	}
	if input.EstimatedLoss != nil {
		claim.EstimatedLoss = *input.EstimatedLoss
	}
	if input.Description != nil {
		claim.Description = input.Description
	}
	if input.InvestigationNotes != nil {
		claim.InvestigationNotes = input.InvestigationNotes
	}
	if input.FinalReport != nil {
		claim.FinalReport = input.FinalReport
	}
}

func generateClaimReference() string {
	return "CLM-" + strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
}
