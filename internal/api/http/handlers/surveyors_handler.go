package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/claims-service/internal/api/dto"
	"github.com/spec-kit/claims-service/internal/service"
)

// SurveyorsHandler lists active surveyors for assignment pickers.
type SurveyorsHandler struct {
	service *service.AdminService
}

// NewSurveyorsHandler constructs handler.
func NewSurveyorsHandler(adminService *service.AdminService) *SurveyorsHandler {
	return &SurveyorsHandler{service: adminService}
}

// ListSurveyors GET /api/surveyors.
func (h *SurveyorsHandler) ListSurveyors(c *fiber.Ctx) error {
	var search *string
	if raw := c.Query("search"); raw != "" {
		search = &raw
	}
	page, err := h.service.ListSurveyors(c.Context(), search,
		parseInt(c.Query("page"), 1), parseInt(c.Query("limit"), 5))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"data":       usersResponse(page.Users),
		"pagination": dto.Pagination{Total: page.Total, Page: page.Page, Pages: page.Pages},
	})
}
