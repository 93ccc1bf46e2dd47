package models

import (
	"strings"
)

type UserRole string

const (
	RoleEmployee UserRole = "employee"
	RoleAdmin    UserRole = "admin"
)

// IsValid checks if the role is one a session may carry
func (r UserRole) IsValid() bool {
	switch r {
	case RoleEmployee, RoleAdmin:
		return true
	default:
		return false
	}
}

// Employee is a department member who answers questionnaires.
type Employee struct {
	ID           uint        `json:"id" gorm:"primaryKey"`
	Username     string      `json:"username" gorm:"size:32;uniqueIndex;not null"`
	PasswordHash string      `json:"-" gorm:"column:password;size:255;not null"`
	DepartmentID uint        `json:"department_id" gorm:"not null;index"`
	Department   *Department `json:"department,omitempty" gorm:"foreignKey:DepartmentID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT"`
}

// TableName specifies the table name for the Employee model
func (Employee) TableName() string {
	return "employees"
}

// Admin authors questionnaires. Usernames are unique among admins only.
type Admin struct {
	ID           uint   `json:"id" gorm:"primaryKey"`
	Username     string `json:"username" gorm:"size:32;uniqueIndex;not null"`
	PasswordHash string `json:"-" gorm:"column:password;size:255;not null"`
}

// TableName specifies the table name for the Admin model
func (Admin) TableName() string {
	return "admins"
}

// EmployeeRequest represents the request structure for creating/updating employees.
// Password may be empty on update to keep the current one.
type EmployeeRequest struct {
	Username     string `json:"username" binding:"required,max=32"`
	Password     string `json:"password" binding:"omitempty,min=6,max=72"`
	DepartmentID uint   `json:"department_id" binding:"required"`
}

// AdminRequest represents the request structure for creating/updating admins
type AdminRequest struct {
	Username string `json:"username" binding:"required,max=32"`
	Password string `json:"password" binding:"omitempty,min=6,max=72"`
}

// NormalizeUsername trims surrounding whitespace the way login input is cleaned.
func NormalizeUsername(username string) string {
	return strings.TrimSpace(username)
}
