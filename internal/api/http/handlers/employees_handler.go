package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/claims-service/internal/api/dto"
	"github.com/spec-kit/claims-service/internal/domain"
	"github.com/spec-kit/claims-service/internal/service"
	apperrors "github.com/spec-kit/claims-service/pkg/util"
)

// EmployeesHandler exposes the staff directory endpoints.
type EmployeesHandler struct {
	service *service.EmployeeService
}

// NewEmployeesHandler constructs handler.
func NewEmployeesHandler(employeeService *service.EmployeeService) *EmployeesHandler {
	return &EmployeesHandler{service: employeeService}
}

// AddEmployee POST /api/employees/add.
func (h *EmployeesHandler) AddEmployee(c *fiber.Ctx) error {
	var req dto.CreateEmployeeRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	employee, err := h.service.Add(c.Context(), service.EmployeeCreateInput{
		FullName: req.FullName,
		Email:    req.Email,
		Phone:    req.Phone,
		Position: req.Position,
		Password: req.Password,
		Salary:   req.Salary,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": employeeResponse(employee)})
}

// ListEmployees GET /api/employees.
func (h *EmployeesHandler) ListEmployees(c *fiber.Ctx) error {
	employees, err := h.service.List(c.Context())
	if err != nil {
		return err
	}
	items := make([]dto.EmployeeResponse, 0, len(employees))
	for i := range employees {
		items = append(items, employeeResponse(&employees[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

func employeeResponse(employee *domain.Employee) dto.EmployeeResponse {
	return dto.EmployeeResponse{
		ID:        employee.ID,
		FullName:  employee.FullName,
		Email:     employee.Email,
		Phone:     employee.Phone,
		Position:  employee.Position,
		Salary:    employee.Salary,
		CreatedAt: employee.CreatedAt,
	}
}
