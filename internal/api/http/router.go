package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/claims-service/internal/api/http/handlers"
	"github.com/spec-kit/claims-service/internal/auth"
	"github.com/spec-kit/claims-service/internal/domain"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Claims         *handlers.ClaimsHandler
	Surveyors      *handlers.SurveyorsHandler
	Payments       *handlers.PaymentsHandler
	Admin          *handlers.AdminHandler
	Employees      *handlers.EmployeesHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	api := app.Group("/api")

	authGroup := api.Group("/auth")
	authGroup.Post("/register", cfg.Auth.Register)
	authGroup.Post("/login", cfg.Auth.Login)
	authGroup.Post("/password/reset/request", cfg.Auth.RequestPasswordReset)
	authGroup.Post("/password/reset/confirm", cfg.Auth.ConfirmPasswordReset)

	authProtected := authGroup.Group("", cfg.AuthMiddleware.Handle, auth.RequireAuthenticated())
	authProtected.Get("/me", cfg.Auth.Me)
	authProtected.Post("/password/change", cfg.Auth.ChangePassword)

	claims := api.Group("/claims", cfg.AuthMiddleware.Handle, auth.RequireAuthenticated())
	claims.Post("", cfg.Claims.CreateClaim)
	claims.Get("", cfg.Claims.ListClaims)
	claims.Get("/:id", cfg.Claims.GetClaim)
	claims.Patch("/:id", cfg.Claims.UpdateClaim)
	claims.Delete("/:id", auth.RequireRole(domain.RoleAdmin), cfg.Claims.DeleteClaim)
	claims.Patch("/:id/status", cfg.Claims.UpdateStatus)
	claims.Patch("/:id/assign", auth.RequireRole(domain.RoleAdmin, domain.RoleClaimAnalyst), cfg.Claims.AssignSurveyor)
	claims.Post("/:id/assess", auth.RequireRole(domain.RoleLossAdjuster), cfg.Claims.Assess)
	claims.Patch("/:id/decision", auth.RequireRole(domain.RoleAdmin), cfg.Claims.Decide)
	claims.Patch("/:id/payment", auth.RequireRole(domain.RoleFinance), cfg.Claims.UpdatePayment)
	claims.Post("/:id/evidence", cfg.Claims.AddEvidence)
	claims.Get("/:id/evidence", cfg.Claims.ListEvidence)
	claims.Get("/:id/history", cfg.Claims.ListHistory)

	surveyors := api.Group("/surveyors", cfg.AuthMiddleware.Handle,
		auth.RequireRole(domain.RoleAdmin, domain.RoleClaimAnalyst))
	surveyors.Get("", cfg.Surveyors.ListSurveyors)
	surveyors.Post("/assign/:id", cfg.Claims.AssignSurveyor)

	payments := api.Group("/payments", cfg.AuthMiddleware.Handle, auth.RequireRole(domain.RoleAdmin))
	payments.Post("", cfg.Payments.CreatePayment)
	payments.Get("", cfg.Payments.ListPayments)
	payments.Delete("/:id", cfg.Payments.DeletePayment)

	employees := api.Group("/employees", cfg.AuthMiddleware.Handle, auth.RequireRole(domain.RoleAdmin))
	employees.Post("/add", cfg.Employees.AddEmployee)
	employees.Get("", cfg.Employees.ListEmployees)

	admin := api.Group("/admin", cfg.AuthMiddleware.Handle, auth.RequireRole(domain.RoleAdmin))
	admin.Get("/users", cfg.Admin.ListUsers)
	admin.Patch("/users/:id/status", cfg.Admin.UpdateUserStatus)
	admin.Delete("/users/:id", cfg.Admin.DeleteUser)
	admin.Get("/summary", cfg.Admin.Summary)
}
