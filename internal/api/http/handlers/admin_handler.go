package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/claims-service/internal/api/dto"
	"github.com/spec-kit/claims-service/internal/domain"
	"github.com/spec-kit/claims-service/internal/service"
	apperrors "github.com/spec-kit/claims-service/pkg/util"
)

// AdminHandler exposes user administration and dashboard endpoints.
type AdminHandler struct {
	service *service.AdminService
}

// NewAdminHandler constructs handler.
func NewAdminHandler(adminService *service.AdminService) *AdminHandler {
	return &AdminHandler{service: adminService}
}

// ListUsers GET /api/admin/users.
func (h *AdminHandler) ListUsers(c *fiber.Ctx) error {
	var role *domain.Role
	if raw := c.Query("role"); raw != "" {
		parsed := domain.Role(strings.TrimSpace(raw))
		role = &parsed
	}
	var status *domain.UserStatus
	if raw := c.Query("status"); raw != "" {
		parsed := domain.UserStatus(strings.TrimSpace(raw))
		status = &parsed
	}
	var search *string
	if raw := c.Query("search"); raw != "" {
		search = &raw
	}

	page, err := h.service.ListUsers(c.Context(), role, status, search,
		parseInt(c.Query("page"), 1), parseInt(c.Query("limit"), 5))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"data":       usersResponse(page.Users),
		"pagination": dto.Pagination{Total: page.Total, Page: page.Page, Pages: page.Pages},
	})
}

// UpdateUserStatus PATCH /api/admin/users/:id/status.
func (h *AdminHandler) UpdateUserStatus(c *fiber.Ctx) error {
	var req dto.UpdateUserStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	user, err := h.service.UpdateUserStatus(c.Context(), c.Params("id"), req.Status)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": userResponse(user)})
}

// DeleteUser DELETE /api/admin/users/:id.
func (h *AdminHandler) DeleteUser(c *fiber.Ctx) error {
	principal, err := requirePrincipal(c)
	if err != nil {
		return err
	}
	if err := h.service.DeleteUser(c.Context(), principal.User.ID, c.Params("id")); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"deleted": true}})
}

// Summary GET /api/admin/summary.
func (h *AdminHandler) Summary(c *fiber.Ctx) error {
	summary, err := h.service.Summary(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": summary})
}

func usersResponse(users []domain.User) []dto.UserResponse {
	items := make([]dto.UserResponse, 0, len(users))
	for i := range users {
		items = append(items, userResponse(&users[i]))
	}
	return items
}
