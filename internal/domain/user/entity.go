package user

import "time"

type Role string

const (
	RoleAdmin    Role = "admin"    // HR admin - full access
	RoleManager  Role = "manager"  // Can approve check clocks
	RoleEmployee Role = "employee" // Records own check clocks
)

type User struct {
	ID           string
	CompanyID    *string
	EmployeeID   *string
	Email        string
	PasswordHash *string
	Role         Role
	CreatedAt    time.Time
	UpdatedAt    time.Time
	DeletedAt    *time.Time
}

// IsAdmin checks if user is an HR admin
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// IsManager checks if user is manager or admin
func (u *User) IsManager() bool {
	return u.Role == RoleManager || u.Role == RoleAdmin
}
