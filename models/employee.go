package models

import "time"

type Employee struct {
	ID           int64     `json:"id"`
	EmployeeID   string    `json:"employee_id"`
	PasswordHash string    `json:"-"`
	Name         string    `json:"name"`
	Email        string    `json:"email,omitempty"`
	Position     string    `json:"position,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}
