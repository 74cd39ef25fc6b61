package service

import (
	"context"
	"testing"

	"github.com/spec-kit/claims-service/internal/auth"
	apperrors "github.com/spec-kit/claims-service/pkg/util"
)

func TestEmployeeAdd(t *testing.T) {
	ctx := context.Background()

	t.Run("creates employee with hashed password", func(t *testing.T) {
		repo := &fakeEmployeeRepo{}
		svc := NewEmployeeService(repo, 4)

		salary := 52000.0
		employee, err := svc.Add(ctx, EmployeeCreateInput{
			FullName: "Jane Achieng",
			Email:    "Jane.Achieng@Example.com",
			Phone:    "0711000000",
			Position: "claims officer",
			Password: "secret123",
			Salary:   &salary,
		})
		if err != nil {
			t.Fatalf("expected success, got %v", err)
		}
		if employee.Email != "jane.achieng@example.com" {
			t.Fatalf("expected lowercased email, got %q", employee.Email)
		}
		if employee.PasswordHash == "" || employee.PasswordHash == "secret123" {
			t.Fatalf("expected bcrypt hash, got %q", employee.PasswordHash)
		}
		if err := auth.ComparePassword(employee.PasswordHash, "secret123"); err != nil {
			t.Fatalf("stored hash does not match password: %v", err)
		}
	})

	t.Run("rejects missing required fields", func(t *testing.T) {
		svc := NewEmployeeService(&fakeEmployeeRepo{}, 4)
		_, err := svc.Add(ctx, EmployeeCreateInput{Email: "jane@example.com", Password: "secret123"})
		if !apperrors.IsCode(err, "VALIDATION_FAILED") {
			t.Fatalf("expected validation error, got %v", err)
		}
	})

	t.Run("rejects duplicate email", func(t *testing.T) {
		repo := &fakeEmployeeRepo{}
		svc := NewEmployeeService(repo, 4)

		input := EmployeeCreateInput{
			FullName: "Jane Achieng",
			Email:    "jane@example.com",
			Password: "secret123",
		}
		if _, err := svc.Add(ctx, input); err != nil {
			t.Fatalf("first add failed: %v", err)
		}
		_, err := svc.Add(ctx, input)
		if !apperrors.IsCode(err, "VALIDATION_FAILED") {
			t.Fatalf("expected validation error for duplicate email, got %v", err)
		}
	})
}

func TestEmployeeList(t *testing.T) {
	ctx := context.Background()
	repo := &fakeEmployeeRepo{}
	svc := NewEmployeeService(repo, 4)

	if _, err := svc.Add(ctx, EmployeeCreateInput{
		FullName: "Jane Achieng",
		Email:    "jane@example.com",
		Password: "secret123",
	}); err != nil {
		t.Fatalf("add failed: %v", err)
	}

	employees, err := svc.List(ctx)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(employees) != 1 {
		t.Fatalf("expected 1 employee, got %d", len(employees))
	}
	if employees[0].PasswordHash == "" {
		t.Fatalf("expected stored hash on domain record")
	}
}
