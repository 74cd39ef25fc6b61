package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/claims-service/internal/api/dto"
	"github.com/spec-kit/claims-service/internal/auth"
	"github.com/spec-kit/claims-service/internal/domain"
	"github.com/spec-kit/claims-service/internal/service"
	apperrors "github.com/spec-kit/claims-service/pkg/util"
)

// ClaimsHandler exposes the claim lifecycle endpoints.
type ClaimsHandler struct {
	service *service.ClaimService
}

// NewClaimsHandler constructs handler.
func NewClaimsHandler(claimService *service.ClaimService) *ClaimsHandler {
	return &ClaimsHandler{service: claimService}
}

// CreateClaim POST /api/claims.
func (h *ClaimsHandler) CreateClaim(c *fiber.Ctx) error {
	principal, err := requirePrincipal(c)
	if err != nil {
		return err
	}
	var req dto.CreateClaimRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	claim, err := h.service.CreateClaim(c.Context(), principal.Actor, service.ClaimCreateInput{
		FullName:         req.FullName,
		Phone:            req.Phone,
		Email:            req.Email,
		PolicyNumber:     req.PolicyNumber,
		VesselName:       req.VesselName,
		VoyageRoute:      req.VoyageRoute,
		CargoDescription: req.CargoDescription,
		BillOfLading:     req.BillOfLading,
		IncidentDate:     req.IncidentDate,
		IncidentPlace:    req.IncidentPlace,
		TypeOfLoss:       req.TypeOfLoss,
		CauseOfLoss:      req.CauseOfLoss,
		EstimatedLoss:    req.EstimatedLoss,
		Description:      req.Description,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": claimSummary(claim)})
}

// ListClaims GET /api/claims.
func (h *ClaimsHandler) ListClaims(c *fiber.Ctx) error {
	principal, err := requirePrincipal(c)
	if err != nil {
		return err
	}
	page, err := h.service.ListClaims(c.Context(), principal.Actor, parseClaimListQuery(c))
	if err != nil {
		return err
	}
	items := make([]dto.ClaimSummary, 0, len(page.Claims))
	for i := range page.Claims {
		items = append(items, claimSummary(&page.Claims[i]))
	}
	return c.JSON(fiber.Map{
		"data":       items,
		"pagination": dto.Pagination{Total: page.Total, Page: page.Page, Pages: page.Pages},
	})
}

// GetClaim GET /api/claims/:id.
func (h *ClaimsHandler) GetClaim(c *fiber.Ctx) error {
	principal, err := requirePrincipal(c)
	if err != nil {
		return err
	}
	claim, evidence, err := h.service.GetClaim(c.Context(), principal.Actor, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": claimDetail(claim, evidence)})
}

// UpdateClaim PATCH /api/claims/:id.
func (h *ClaimsHandler) UpdateClaim(c *fiber.Ctx) error {
	principal, err := requirePrincipal(c)
	if err != nil {
		return err
	}
	var req dto.UpdateClaimRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	claim, err := h.service.UpdateClaim(c.Context(), principal.Actor, c.Params("id"), service.ClaimUpdateInput{
		FullName:           req.FullName,
		Phone:              req.Phone,
		Email:              req.Email,
		VesselName:         req.VesselName,
		VoyageRoute:        req.VoyageRoute,
		CargoDescription:   req.CargoDescription,
		BillOfLading:       req.BillOfLading,
		IncidentDate:       req.IncidentDate,
		IncidentPlace:      req.IncidentPlace,
		TypeOfLoss:         req.TypeOfLoss,
		CauseOfLoss:        req.CauseOfLoss,
		EstimatedLoss:      req.EstimatedLoss,
		Description:        req.Description,
		InvestigationNotes: req.InvestigationNotes,
		FinalReport:        req.FinalReport,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": claimSummary(claim)})
}

// UpdateStatus PATCH /api/claims/:id/status.
func (h *ClaimsHandler) UpdateStatus(c *fiber.Ctx) error {
	principal, err := requirePrincipal(c)
	if err != nil {
		return err
	}
	var req dto.UpdateStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	claim, err := h.service.UpdateStatus(c.Context(), principal.Actor, c.Params("id"), req.Status)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": claimSummary(claim)})
}

// AssignSurveyor PATCH /api/claims/:id/assign, also POST /api/surveyors/assign/:id.
func (h *ClaimsHandler) AssignSurveyor(c *fiber.Ctx) error {
	principal, err := requirePrincipal(c)
	if err != nil {
		return err
	}
	var req dto.AssignSurveyorRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	claim, err := h.service.AssignSurveyor(c.Context(), principal.Actor, c.Params("id"), req.SurveyorID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": claimSummary(claim)})
}

// Assess POST /api/claims/:id/assess.
func (h *ClaimsHandler) Assess(c *fiber.Ctx) error {
	principal, err := requirePrincipal(c)
	if err != nil {
		return err
	}
	var req dto.AssessClaimRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	claim, err := h.service.Assess(c.Context(), principal.Actor, c.Params("id"), service.AssessInput{
		FinalLossAmount: req.FinalLossAmount,
		AssessmentNotes: req.AssessmentNotes,
		Recommendation:  req.Recommendation,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": claimSummary(claim)})
}

// Decide PATCH /api/claims/:id/decision.
func (h *ClaimsHandler) Decide(c *fiber.Ctx) error {
	principal, err := requirePrincipal(c)
	if err != nil {
		return err
	}
	var req dto.AdminDecisionRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	claim, err := h.service.Decide(c.Context(), principal.Actor, c.Params("id"), req.Decision, req.AdminNotes)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": claimSummary(claim)})
}

// UpdatePayment PATCH /api/claims/:id/payment.
func (h *ClaimsHandler) UpdatePayment(c *fiber.Ctx) error {
	principal, err := requirePrincipal(c)
	if err != nil {
		return err
	}
	var req dto.UpdateClaimPaymentRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	claim, err := h.service.UpdatePayment(c.Context(), principal.Actor, c.Params("id"), service.PaymentUpdateInput{
		PaymentStatus:    req.PaymentStatus,
		PaymentReference: req.PaymentReference,
		PaymentMethod:    req.PaymentMethod,
		FinanceNotes:     req.FinanceNotes,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": claimSummary(claim)})
}

// DeleteClaim DELETE /api/claims/:id.
func (h *ClaimsHandler) DeleteClaim(c *fiber.Ctx) error {
	principal, err := requirePrincipal(c)
	if err != nil {
		return err
	}
	if err := h.service.DeleteClaim(c.Context(), principal.Actor, c.Params("id")); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"deleted": true}})
}

// AddEvidence POST /api/claims/:id/evidence.
func (h *ClaimsHandler) AddEvidence(c *fiber.Ctx) error {
	principal, err := requirePrincipal(c)
	if err != nil {
		return err
	}
	var req dto.AddEvidenceRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	file, err := h.service.AddEvidence(c.Context(), principal.Actor, c.Params("id"), req.FileName, req.FileURL)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": evidenceResponse(file)})
}

// ListEvidence GET /api/claims/:id/evidence.
func (h *ClaimsHandler) ListEvidence(c *fiber.Ctx) error {
	principal, err := requirePrincipal(c)
	if err != nil {
		return err
	}
	_, evidence, err := h.service.GetClaim(c.Context(), principal.Actor, c.Params("id"))
	if err != nil {
		return err
	}
	items := make([]dto.EvidenceResponse, 0, len(evidence))
	for i := range evidence {
		items = append(items, evidenceResponse(&evidence[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// ListHistory GET /api/claims/:id/history.
func (h *ClaimsHandler) ListHistory(c *fiber.Ctx) error {
	principal, err := requirePrincipal(c)
	if err != nil {
		return err
	}
	limit := parseInt(c.Query("limit"), 50)
	page := parseInt(c.Query("page"), 1)
	entries, err := h.service.ListHistory(c.Context(), principal.Actor, c.Params("id"), limit, (page-1)*limit)
	if err != nil {
		return err
	}
	items := make([]dto.ClaimHistoryResponse, 0, len(entries))
	for i := range entries {
		entry := &entries[i]
		items = append(items, dto.ClaimHistoryResponse{
			ID:            entry.ID,
			ChangedByID:   entry.ChangedByID,
			ChangedByRole: entry.ChangedByRole,
			ChangeType:    entry.ChangeType,
			OldValue:      entry.OldValue,
			NewValue:      entry.NewValue,
			CreatedAt:     entry.CreatedAt,
		})
	}
	return c.JSON(fiber.Map{"data": items})
}

func requirePrincipal(c *fiber.Ctx) (*auth.Principal, error) {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return nil, apperrors.NewUnauthorized("authentication required")
	}
	return principal, nil
}

func parseClaimListQuery(c *fiber.Ctx) service.ClaimListFilter {
	filter := service.ClaimListFilter{
		Page:    parseInt(c.Query("page"), 1),
		Limit:   parseInt(c.Query("limit"), 10),
		SortAsc: strings.EqualFold(c.Query("sort"), "asc"),
		All:     strings.EqualFold(c.Query("all"), "true"),
	}
	if status := c.Query("status"); status != "" {
		parsed := domain.ClaimStatus(strings.TrimSpace(status))
		filter.Status = &parsed
	}
	if search := c.Query("search"); search != "" {
		filter.Search = &search
	}
	return filter
}

func parseInt(value string, fallback int) int {
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil || parsed <= 0 {
		return fallback
	}
	return parsed
}

func claimSummary(claim *domain.Claim) dto.ClaimSummary {
	return dto.ClaimSummary{
		ID:            claim.ID,
		Reference:     claim.Reference,
		FullName:      claim.FullName,
		PolicyNumber:  claim.PolicyNumber,
		VesselName:    claim.VesselName,
		TypeOfLoss:    claim.TypeOfLoss,
		EstimatedLoss: claim.EstimatedLoss,
		Status:        claim.Status,
		PaymentStatus: claim.PaymentStatus,
		SurveyorID:    claim.SurveyorID,
		CreatedAt:     claim.CreatedAt,
		UpdatedAt:     claim.UpdatedAt,
	}
}

func claimDetail(claim *domain.Claim, evidence []domain.EvidenceFile) dto.ClaimDetailResponse {
	files := make([]dto.EvidenceResponse, 0, len(evidence))
	for i := range evidence {
		files = append(files, evidenceResponse(&evidence[i]))
	}
	return dto.ClaimDetailResponse{
		ID:                 claim.ID,
		UserID:             claim.UserID,
		Reference:          claim.Reference,
		FullName:           claim.FullName,
		Phone:              claim.Phone,
		Email:              claim.Email,
		PolicyNumber:       claim.PolicyNumber,
		VesselName:         claim.VesselName,
		VoyageRoute:        claim.VoyageRoute,
		CargoDescription:   claim.CargoDescription,
		BillOfLading:       claim.BillOfLading,
		IncidentDate:       claim.IncidentDate,
		IncidentPlace:      claim.IncidentPlace,
		TypeOfLoss:         claim.TypeOfLoss,
		CauseOfLoss:        claim.CauseOfLoss,
		EstimatedLoss:      claim.EstimatedLoss,
		Description:        claim.Description,
		Status:             claim.Status,
		SurveyorID:         claim.SurveyorID,
		InvestigationNotes: claim.InvestigationNotes,
		LossAdjusterID:     claim.LossAdjusterID,
		AssessmentNotes:    claim.AssessmentNotes,
		FinalLossAmount:    claim.FinalLossAmount,
		Recommendation:     claim.Recommendation,
		AssessmentDate:     claim.AssessmentDate,
		AdminID:            claim.AdminID,
		AdminDecision:      claim.AdminDecision,
		AdminNotes:         claim.AdminNotes,
		FinanceID:          claim.FinanceID,
		FinanceNotes:       claim.FinanceNotes,
		PaymentStatus:      claim.PaymentStatus,
		PaymentReference:   claim.PaymentReference,
		PaymentAmount:      claim.PaymentAmount,
		PaymentDate:        claim.PaymentDate,
		PaymentMethod:      claim.PaymentMethod,
		FinalReport:        claim.FinalReport,
		ClosedDate:         claim.ClosedDate,
		Evidence:           files,
		CreatedAt:          claim.CreatedAt,
		UpdatedAt:          claim.UpdatedAt,
	}
}

func evidenceResponse(file *domain.EvidenceFile) dto.EvidenceResponse {
	return dto.EvidenceResponse{
		ID:         file.ID,
		FileName:   file.FileName,
		FileURL:    file.FileURL,
		UploadedAt: file.UploadedAt,
	}
}
