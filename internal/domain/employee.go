package domain

import "time"

// Employee is an internal staff directory record. Employees are not login
// accounts; access to the system goes through User.
type Employee struct {
	ID           string
	FullName     string
	Email        string
	Phone        string
	Position     string
	PasswordHash string
	Salary       *float64
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
