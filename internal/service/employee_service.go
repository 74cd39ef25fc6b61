package service

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/claims-service/internal/auth"
	"github.com/spec-kit/claims-service/internal/domain"
	"github.com/spec-kit/claims-service/internal/repository"
	apperrors "github.com/spec-kit/claims-service/pkg/util"
)

// EmployeeService manages the internal staff directory.
type EmployeeService struct {
	employees  repository.EmployeeRepository
	bcryptCost int
}

// NewEmployeeService constructs the service.
func NewEmployeeService(employees repository.EmployeeRepository, bcryptCost int) *EmployeeService {
	return &EmployeeService{employees: employees, bcryptCost: bcryptCost}
}

// EmployeeCreateInput describes a directory entry payload.
type EmployeeCreateInput struct {
	FullName string
	Email    string
	Phone    string
	Position string
	Password string
	Salary   *float64
}

// Add registers a new employee, rejecting duplicate emails.
func (s *EmployeeService) Add(ctx context.Context, input EmployeeCreateInput) (*domain.Employee, error) {
	fullName := strings.TrimSpace(input.FullName)
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if fullName == "" || email == "" || input.Password == "" {
		return nil, apperrors.NewValidationError("full_name, email and password are required", nil)
	}
	if !emailPattern.MatchString(email) {
		return nil, apperrors.NewValidationError("invalid email format", nil)
	}

	if _, err := s.employees.GetByEmail(ctx, email); err == nil {
		return nil, apperrors.NewValidationError("employee already exists", nil)
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.MapError(err)
	}

	hash, err := auth.HashPassword(input.Password, s.bcryptCost)
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	employee := &domain.Employee{
		FullName:     fullName,
		Email:        email,
		Phone:        strings.TrimSpace(input.Phone),
		Position:     strings.TrimSpace(input.Position),
		PasswordHash: hash,
		Salary:       input.Salary,
	}
	if err := s.employees.Create(ctx, employee); err != nil {
		return nil, apperrors.MapError(err)
	}
	return employee, nil
}

// List returns every directory entry, newest first. Password hashes never
// leave the service layer through DTOs.
func (s *EmployeeService) List(ctx context.Context) ([]domain.Employee, error) {
	employees, err := s.employees.List(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	if employees == nil {
		employees = []domain.Employee{}
	}
	return employees, nil
}
