package employee

import "time"

type Employee struct {
	ID               string
	CompanyID        string
	BranchID         *string
	PositionID       *string
	EmployeeCode     string
	FullName         string
	EmploymentStatus EmploymentStatus
	CreatedAt        time.Time
	UpdatedAt        time.Time
	DeletedAt        *time.Time

	// Joined
	PositionName *string
}

type EmploymentStatus string

const (
	EmploymentStatusActive     EmploymentStatus = "active"
	EmploymentStatusResigned   EmploymentStatus = "resigned"
	EmploymentStatusTerminated EmploymentStatus = "terminated"
)

// Option is the compact shape used by employee pickers.
type Option struct {
	ID           string  `json:"id"`
	EmployeeCode string  `json:"employee_code"`
	FullName     string  `json:"full_name"`
	Position     *string `json:"position"`
}

func (e Employee) ToOption() Option {
	return Option{
		ID:           e.ID,
		EmployeeCode: e.EmployeeCode,
		FullName:     e.FullName,
		Position:     e.PositionName,
	}
}
