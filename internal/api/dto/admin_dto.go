package dto

import "github.com/spec-kit/claims-service/internal/domain"

// UpdateUserStatusRequest payload.
type UpdateUserStatusRequest struct {
	Status domain.UserStatus `json:"status"`
}
