package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/cmlabs-hris/hris-checkclock-go/internal/domain/employee"
	"github.com/cmlabs-hris/hris-checkclock-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type employeeRepositoryImpl struct {
	db *database.DB
}

func NewEmployeeRepository(db *database.DB) employee.EmployeeRepository {
	return &employeeRepositoryImpl{db: db}
}

const employeeColumns = `
	e.id, e.company_id, e.branch_id, e.position_id, e.employee_code, e.full_name,
	e.employment_status, e.created_at, e.updated_at, e.deleted_at, p.name
`

func scanEmployee(row pgx.Row) (employee.Employee, error) {
	var emp employee.Employee
	err := row.Scan(
		&emp.ID, &emp.CompanyID, &emp.BranchID, &emp.PositionID, &emp.EmployeeCode, &emp.FullName,
		&emp.EmploymentStatus, &emp.CreatedAt, &emp.UpdatedAt, &emp.DeletedAt, &emp.PositionName,
	)
	return emp, err
}

// GetByID implements employee.EmployeeRepository.
func (e *employeeRepositoryImpl) GetByID(ctx context.Context, id string, companyID string) (employee.Employee, error) {
	q := GetQuerier(ctx, e.db)

	query := `SELECT ` + employeeColumns + `
		FROM employees e
		LEFT JOIN positions p ON p.id = e.position_id
		WHERE e.id = $1 AND e.company_id = $2 AND e.deleted_at IS NULL
	`

	emp, err := scanEmployee(q.QueryRow(ctx, query, id, companyID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return employee.Employee{}, employee.ErrEmployeeNotFound
		}
		return employee.Employee{}, fmt.Errorf("failed to get employee by id: %w", err)
	}
	return emp, nil
}

// FindActiveEmployees implements employee.EmployeeRepository.
func (e *employeeRepositoryImpl) FindActiveEmployees(ctx context.Context, companyID string, excluding []string) ([]employee.Employee, error) {
	q := GetQuerier(ctx, e.db)

	if excluding == nil {
		excluding = []string{}
	}

	query := `SELECT ` + employeeColumns + `
		FROM employees e
		LEFT JOIN positions p ON p.id = e.position_id
		WHERE e.company_id = $1
		  AND e.employment_status = $2
		  AND e.deleted_at IS NULL
		  AND NOT (e.id::text = ANY($3))
		ORDER BY e.full_name ASC
	`

	rows, err := q.Query(ctx, query, companyID, employee.EmploymentStatusActive, excluding)
	if err != nil {
		return nil, fmt.Errorf("failed to find active employees: %w", err)
	}
	defer rows.Close()

	var employees []employee.Employee
	for rows.Next() {
		emp, err := scanEmployee(rows)
		if err != nil {
			return nil, err
		}
		employees = append(employees, emp)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return employees, nil
}
