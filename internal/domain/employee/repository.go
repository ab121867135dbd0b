package employee

import "context"

type EmployeeRepository interface {
	GetByID(ctx context.Context, id string, companyID string) (Employee, error)
	// FindActiveEmployees lists active employees ordered by name, skipping the ids in excluding.
	FindActiveEmployees(ctx context.Context, companyID string, excluding []string) ([]Employee, error)
}
