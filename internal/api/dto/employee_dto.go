package dto

import "time"

// CreateEmployeeRequest payload.
type CreateEmployeeRequest struct {
	FullName string   `json:"full_name"`
	Email    string   `json:"email"`
	Phone    string   `json:"phone"`
	Position string   `json:"position"`
	Password string   `json:"password"`
	Salary   *float64 `json:"salary"`
}

// EmployeeResponse is the directory view. The password hash is never exposed.
type EmployeeResponse struct {
	ID        string    `json:"id"`
	FullName  string    `json:"full_name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	Position  string    `json:"position"`
	Salary    *float64  `json:"salary"`
	CreatedAt time.Time `json:"created_at"`
}
