package service

import (
	"context"
	"testing"

	"github.com/spec-kit/claims-service/internal/auth"
	"github.com/spec-kit/claims-service/internal/config"
	"github.com/spec-kit/claims-service/internal/domain"
	apperrors "github.com/spec-kit/claims-service/pkg/util"
)

func newAuthServiceForTest(t *testing.T) (*AuthService, *fakeUserRepo) {
	t.Helper()
	users := newFakeUserRepo()
	cfg := config.Config{
		Auth: config.AuthConfig{
			JWTSecret:               "test-secret",
			AccessTokenTTLMinutes:   60,
			PasswordResetTTLMinutes: 30,
			BcryptCost:              4,
		},
	}
	return NewAuthService(cfg, AuthDependencies{UserRepo: users}), users
}

func seedUser(t *testing.T, users *fakeUserRepo, id, email, password string, role domain.Role, status domain.UserStatus) {
	t.Helper()
	hash, err := auth.HashPassword(password, 4)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	users.put(&domain.User{ID: id, Name: "Test", Email: email, PasswordHash: hash, Role: role, Status: status})
}

func TestRegister(t *testing.T) {
	svc, _ := newAuthServiceForTest(t)
	ctx := context.Background()

	t.Run("defaults to pending client", func(t *testing.T) {
		user, err := svc.Register(ctx, "Jane", "jane@example.com", "secret1", "")
		if err != nil {
			t.Fatalf("expected success, got %v", err)
		}
		if user.Role != domain.RoleClient {
			t.Fatalf("expected role client, got %s", user.Role)
		}
		if user.Status != domain.UserStatusPending {
			t.Fatalf("expected status pending, got %s", user.Status)
		}
	})

	t.Run("admin starts active", func(t *testing.T) {
		user, err := svc.Register(ctx, "Root", "root@example.com", "secret1", domain.RoleAdmin)
		if err != nil {
			t.Fatalf("expected success, got %v", err)
		}
		if user.Status != domain.UserStatusActive {
			t.Fatalf("expected status active, got %s", user.Status)
		}
	})

	t.Run("duplicate email rejected", func(t *testing.T) {
		_, err := svc.Register(ctx, "Jane", "jane@example.com", "secret1", "")
		if !apperrors.IsCode(err, "VALIDATION_FAILED") {
			t.Fatalf("expected VALIDATION_FAILED, got %v", err)
		}
	})

	t.Run("short password rejected", func(t *testing.T) {
		_, err := svc.Register(ctx, "Joe", "joe@example.com", "abc", "")
		if !apperrors.IsCode(err, "VALIDATION_FAILED") {
			t.Fatalf("expected VALIDATION_FAILED, got %v", err)
		}
	})

	t.Run("bad email rejected", func(t *testing.T) {
		_, err := svc.Register(ctx, "Joe", "not-an-email", "secret1", "")
		if !apperrors.IsCode(err, "VALIDATION_FAILED") {
			t.Fatalf("expected VALIDATION_FAILED, got %v", err)
		}
	})
}

func TestLoginSourceGating(t *testing.T) {
	svc, users := newAuthServiceForTest(t)
	ctx := context.Background()

	seedUser(t, users, "admin-1", "admin@example.com", "secret1", domain.RoleAdmin, domain.UserStatusActive)
	seedUser(t, users, "client-1", "client@example.com", "secret1", domain.RoleClient, domain.UserStatusActive)
	seedUser(t, users, "surveyor-1", "surveyor@example.com", "secret1", domain.RoleSurveyor, domain.UserStatusActive)
	seedUser(t, users, "pending-1", "pending@example.com", "secret1", domain.RoleClient, domain.UserStatusPending)

	cases := []struct {
		name     string
		email    string
		source   LoginSource
		wantCode string
	}{
		{"admin via web", "admin@example.com", LoginSourceWeb, ""},
		{"client via web blocked", "client@example.com", LoginSourceWeb, "FORBIDDEN"},
		{"client via mobile", "client@example.com", LoginSourceMobile, ""},
		{"surveyor via mobile", "surveyor@example.com", LoginSourceMobile, ""},
		{"admin via mobile blocked", "admin@example.com", LoginSourceMobile, "FORBIDDEN"},
		{"pending account blocked", "pending@example.com", LoginSourceMobile, "FORBIDDEN"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, token, _, err := svc.Login(ctx, tc.email, "secret1", tc.source)
			if tc.wantCode == "" {
				if err != nil {
					t.Fatalf("expected success, got %v", err)
				}
				if token == "" {
					t.Fatal("expected a token")
				}
				return
			}
			if !apperrors.IsCode(err, tc.wantCode) {
				t.Fatalf("expected %s, got %v", tc.wantCode, err)
			}
		})
	}

	t.Run("wrong password is unauthorized", func(t *testing.T) {
		_, _, _, err := svc.Login(ctx, "admin@example.com", "wrong", LoginSourceWeb)
		if !apperrors.IsCode(err, "UNAUTHORIZED") {
			t.Fatalf("expected UNAUTHORIZED, got %v", err)
		}
	})

	t.Run("unknown email is unauthorized", func(t *testing.T) {
		_, _, _, err := svc.Login(ctx, "ghost@example.com", "secret1", LoginSourceWeb)
		if !apperrors.IsCode(err, "UNAUTHORIZED") {
			t.Fatalf("expected UNAUTHORIZED, got %v", err)
		}
	})
}

func TestChangePassword(t *testing.T) {
	svc, users := newAuthServiceForTest(t)
	ctx := context.Background()
	seedUser(t, users, "client-1", "client@example.com", "secret1", domain.RoleClient, domain.UserStatusActive)

	if err := svc.ChangePassword(ctx, "client-1", "secret1", "newsecret"); err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	if _, _, _, err := svc.Login(ctx, "client@example.com", "newsecret", LoginSourceMobile); err != nil {
		t.Fatalf("login with new password failed: %v", err)
	}

	if err := svc.ChangePassword(ctx, "client-1", "wrong", "another1"); !apperrors.IsCode(err, "UNAUTHORIZED") {
		t.Fatalf("expected UNAUTHORIZED, got %v", err)
	}
}
