package postgresql

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cmlabs-hris/hris-checkclock-go/internal/domain/checkclock"
	"github.com/cmlabs-hris/hris-checkclock-go/internal/pkg/database"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type checkClockRepositoryImpl struct {
	db *database.DB
}

func NewCheckClockRepository(db *database.DB) checkclock.CheckClockRepository {
	return &checkClockRepositoryImpl{db: db}
}

// Times are selected as text so they scan into *string as HH:MM:SS.
const checkClockColumns = `
	cc.id, cc.company_id, cc.employee_id, cc.ck_settings_id, cc.branch_id, cc.check_clock_type,
	cc.check_clock_date, cc.check_clock_time::text, cc.check_out_time::text, cc.start_date, cc.end_date,
	cc.status, cc.approved, cc.location, cc.address, cc.latitude, cc.longitude, cc.photo,
	cc.created_at, cc.updated_at, cc.deleted_at,
	e.full_name, p.name
`

const checkClockFrom = `
	FROM check_clocks cc
	JOIN employees e ON e.id = cc.employee_id
	LEFT JOIN positions p ON p.id = e.position_id
`

func scanCheckClock(row pgx.Row) (checkclock.CheckClock, error) {
	var c checkclock.CheckClock
	err := row.Scan(
		&c.ID, &c.CompanyID, &c.EmployeeID, &c.SettingID, &c.BranchID, &c.Type,
		&c.Date, &c.ClockTime, &c.CheckOutTime, &c.StartDate, &c.EndDate,
		&c.Status, &c.Approved, &c.Location, &c.Address, &c.Latitude, &c.Longitude, &c.Photo,
		&c.CreatedAt, &c.UpdatedAt, &c.DeletedAt,
		&c.EmployeeName, &c.PositionName,
	)
	return c, err
}

func (r *checkClockRepositoryImpl) queryList(ctx context.Context, where string, args ...interface{}) ([]checkclock.CheckClock, error) {
	q := GetQuerier(ctx, r.db)

	query := "SELECT " + checkClockColumns + checkClockFrom + where
	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []checkclock.CheckClock
	for rows.Next() {
		c, err := scanCheckClock(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// Create implements checkclock.CheckClockRepository.
func (r *checkClockRepositoryImpl) Create(ctx context.Context, c checkclock.CheckClock) (checkclock.CheckClock, error) {
	q := GetQuerier(ctx, r.db)

	id, err := uuid.NewV7()
	if err != nil {
		return checkclock.CheckClock{}, fmt.Errorf("failed to generate id: %w", err)
	}
	c.ID = id.String()

	query := `
		INSERT INTO check_clocks (
			id, company_id, employee_id, ck_settings_id, branch_id, check_clock_type,
			check_clock_date, check_clock_time, check_out_time, start_date, end_date,
			status, approved, location, address, latitude, longitude, photo
		) VALUES (
			$1, $2, $3, $4, $5, $6,
			$7, $8, $9, $10, $11,
			$12, $13, $14, $15, $16, $17, $18
		)
		RETURNING created_at, updated_at
	`

	err = q.QueryRow(ctx, query,
		c.ID, c.CompanyID, c.EmployeeID, c.SettingID, c.BranchID, c.Type,
		c.Date, c.ClockTime, c.CheckOutTime, c.StartDate, c.EndDate,
		c.Status, c.Approved, c.Location, c.Address, c.Latitude, c.Longitude, c.Photo,
	).Scan(&c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return checkclock.CheckClock{}, fmt.Errorf("failed to create check clock: %w", err)
	}

	return c, nil
}

// GetByID implements checkclock.CheckClockRepository.
func (r *checkClockRepositoryImpl) GetByID(ctx context.Context, id string, companyID string) (checkclock.CheckClock, error) {
	q := GetQuerier(ctx, r.db)

	query := "SELECT " + checkClockColumns + checkClockFrom + `
		WHERE cc.id = $1 AND cc.company_id = $2 AND cc.deleted_at IS NULL
	`

	c, err := scanCheckClock(q.QueryRow(ctx, query, id, companyID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return checkclock.CheckClock{}, checkclock.ErrCheckClockNotFound
		}
		return checkclock.CheckClock{}, fmt.Errorf("failed to get check clock by id: %w", err)
	}
	return c, nil
}

// UpdateDecision implements checkclock.CheckClockRepository.
func (r *checkClockRepositoryImpl) UpdateDecision(ctx context.Context, id string, companyID string, approved bool, status checkclock.Status) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE check_clocks
		SET approved = $1, status = $2, updated_at = NOW()
		WHERE id = $3 AND company_id = $4 AND deleted_at IS NULL
	`

	tag, err := q.Exec(ctx, query, approved, status, id, companyID)
	if err != nil {
		return fmt.Errorf("failed to update check clock decision: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return checkclock.ErrCheckClockNotFound
	}
	return nil
}

// SoftDelete implements checkclock.CheckClockRepository.
func (r *checkClockRepositoryImpl) SoftDelete(ctx context.Context, id string, companyID string) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE check_clocks
		SET deleted_at = NOW(), updated_at = NOW()
		WHERE id = $1 AND company_id = $2 AND deleted_at IS NULL
	`

	tag, err := q.Exec(ctx, query, id, companyID)
	if err != nil {
		return fmt.Errorf("failed to delete check clock: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return checkclock.ErrCheckClockNotFound
	}
	return nil
}

// FindCheckInsByDateRange implements checkclock.CheckClockRepository.
func (r *checkClockRepositoryImpl) FindCheckInsByDateRange(ctx context.Context, companyID string, start, end time.Time, positions []string, statuses []string) ([]checkclock.CheckClock, error) {
	var where strings.Builder
	where.WriteString(`
		WHERE cc.company_id = $1
		  AND cc.check_clock_type = $2
		  AND cc.check_clock_date BETWEEN $3 AND $4
		  AND cc.deleted_at IS NULL`)
	args := []interface{}{companyID, checkclock.TypeCheckIn, start, end}
	argIdx := 5

	if len(positions) > 0 {
		where.WriteString(fmt.Sprintf(" AND p.name = ANY($%d)", argIdx))
		args = append(args, positions)
		argIdx++
	}
	if len(statuses) > 0 {
		where.WriteString(fmt.Sprintf(" AND cc.status = ANY($%d)", argIdx))
		args = append(args, statuses)
	}
	where.WriteString(" ORDER BY cc.check_clock_date DESC, cc.check_clock_time ASC")

	result, err := r.queryList(ctx, where.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to find check-ins: %w", err)
	}
	return result, nil
}

// FindCheckOutsByDateRange implements checkclock.CheckClockRepository.
func (r *checkClockRepositoryImpl) FindCheckOutsByDateRange(ctx context.Context, companyID string, start, end time.Time) ([]checkclock.CheckClock, error) {
	result, err := r.queryList(ctx, `
		WHERE cc.company_id = $1
		  AND cc.check_clock_type = $2
		  AND cc.check_clock_date BETWEEN $3 AND $4
		  AND cc.deleted_at IS NULL
	`, companyID, checkclock.TypeCheckOut, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to find check-outs: %w", err)
	}
	return result, nil
}

// FindCheckOuts implements checkclock.CheckClockRepository.
func (r *checkClockRepositoryImpl) FindCheckOuts(ctx context.Context, companyID string, employeeID string, date time.Time) ([]checkclock.CheckClock, error) {
	result, err := r.queryList(ctx, `
		WHERE cc.company_id = $1
		  AND cc.employee_id = $2
		  AND cc.check_clock_type = $3
		  AND cc.check_clock_date = $4
		  AND cc.deleted_at IS NULL
	`, companyID, employeeID, checkclock.TypeCheckOut, date)
	if err != nil {
		return nil, fmt.Errorf("failed to find check-outs for employee: %w", err)
	}
	return result, nil
}

// FindByEmployeeAndDate implements checkclock.CheckClockRepository.
func (r *checkClockRepositoryImpl) FindByEmployeeAndDate(ctx context.Context, companyID string, employeeID string, date time.Time) ([]checkclock.CheckClock, error) {
	result, err := r.queryList(ctx, `
		WHERE cc.company_id = $1
		  AND cc.employee_id = $2
		  AND cc.check_clock_date = $3
		  AND cc.deleted_at IS NULL
		ORDER BY cc.created_at ASC
	`, companyID, employeeID, date)
	if err != nil {
		return nil, fmt.Errorf("failed to find check clocks by employee and date: %w", err)
	}
	return result, nil
}

// FindEmployeeIDsWithEvents implements checkclock.CheckClockRepository.
func (r *checkClockRepositoryImpl) FindEmployeeIDsWithEvents(ctx context.Context, companyID string, date time.Time) ([]string, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT DISTINCT employee_id
		FROM check_clocks
		WHERE company_id = $1 AND check_clock_date = $2 AND deleted_at IS NULL
	`

	rows, err := q.Query(ctx, query, companyID, date)
	if err != nil {
		return nil, fmt.Errorf("failed to find employees with events: %w", err)
	}

	ids, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("failed to scan employee ids: %w", err)
	}
	return ids, nil
}
