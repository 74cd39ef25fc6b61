package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/claims-service/internal/api/dto"
	"github.com/spec-kit/claims-service/internal/domain"
	"github.com/spec-kit/claims-service/internal/service"
	apperrors "github.com/spec-kit/claims-service/pkg/util"
)

// PaymentsHandler exposes the standalone payout ledger endpoints.
type PaymentsHandler struct {
	service *service.PaymentService
}

// NewPaymentsHandler constructs handler.
func NewPaymentsHandler(paymentService *service.PaymentService) *PaymentsHandler {
	return &PaymentsHandler{service: paymentService}
}

// CreatePayment POST /api/payments.
func (h *PaymentsHandler) CreatePayment(c *fiber.Ctx) error {
	var req dto.CreatePaymentRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	payment, err := h.service.Record(c.Context(), service.PaymentCreateInput{
		Reference: req.Reference,
		Claimant:  req.Claimant,
		Amount:    req.Amount,
		Method:    req.Method,
		Date:      req.Date,
		Status:    req.Status,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": paymentResponse(payment)})
}

// ListPayments GET /api/payments.
func (h *PaymentsHandler) ListPayments(c *fiber.Ctx) error {
	var search *string
	if raw := c.Query("search"); raw != "" {
		search = &raw
	}
	page, err := h.service.List(c.Context(), search,
		parseInt(c.Query("page"), 1), parseInt(c.Query("limit"), 5))
	if err != nil {
		return err
	}
	items := make([]dto.PaymentResponse, 0, len(page.Payments))
	for i := range page.Payments {
		items = append(items, paymentResponse(&page.Payments[i]))
	}
	return c.JSON(fiber.Map{
		"data":       items,
		"pagination": dto.Pagination{Total: page.Total, Page: page.Page, Pages: page.Pages},
	})
}

// DeletePayment DELETE /api/payments/:id.
func (h *PaymentsHandler) DeletePayment(c *fiber.Ctx) error {
	if err := h.service.Delete(c.Context(), c.Params("id")); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"deleted": true}})
}

func paymentResponse(payment *domain.Payment) dto.PaymentResponse {
	return dto.PaymentResponse{
		ID:        payment.ID,
		Reference: payment.Reference,
		Claimant:  payment.Claimant,
		Amount:    payment.Amount,
		Method:    payment.Method,
		Date:      payment.Date,
		Status:    payment.Status,
		CreatedAt: payment.CreatedAt,
	}
}
