package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/cmlabs-hris/hris-checkclock-go/internal/domain/setting"
	"github.com/cmlabs-hris/hris-checkclock-go/internal/pkg/database"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type settingRepositoryImpl struct {
	db *database.DB
}

func NewSettingRepository(db *database.DB) setting.SettingRepository {
	return &settingRepositoryImpl{db: db}
}

const settingColumns = `
	id, company_id, branch_id, location_name, latitude, longitude, radius,
	created_at, updated_at, deleted_at
`

func scanSetting(row pgx.Row) (setting.LocationSetting, error) {
	var s setting.LocationSetting
	err := row.Scan(
		&s.ID, &s.CompanyID, &s.BranchID, &s.LocationName, &s.Latitude, &s.Longitude, &s.Radius,
		&s.CreatedAt, &s.UpdatedAt, &s.DeletedAt,
	)
	return s, err
}

// Create implements setting.SettingRepository.
func (r *settingRepositoryImpl) Create(ctx context.Context, s setting.LocationSetting) (setting.LocationSetting, error) {
	q := GetQuerier(ctx, r.db)

	id, err := uuid.NewV7()
	if err != nil {
		return setting.LocationSetting{}, fmt.Errorf("failed to generate id: %w", err)
	}

	query := `
		INSERT INTO check_clock_settings (id, company_id, branch_id, location_name, latitude, longitude, radius)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING ` + settingColumns

	created, err := scanSetting(q.QueryRow(ctx, query,
		id.String(), s.CompanyID, s.BranchID, s.LocationName, s.Latitude, s.Longitude, s.Radius,
	))
	if err != nil {
		return setting.LocationSetting{}, fmt.Errorf("failed to create check clock setting: %w", err)
	}
	return created, nil
}

// Update implements setting.SettingRepository.
func (r *settingRepositoryImpl) Update(ctx context.Context, s setting.LocationSetting) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE check_clock_settings
		SET branch_id = $1, location_name = $2, latitude = $3, longitude = $4, radius = $5, updated_at = NOW()
		WHERE id = $6 AND company_id = $7 AND deleted_at IS NULL
	`

	tag, err := q.Exec(ctx, query, s.BranchID, s.LocationName, s.Latitude, s.Longitude, s.Radius, s.ID, s.CompanyID)
	if err != nil {
		return fmt.Errorf("failed to update check clock setting: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return setting.ErrSettingNotFound
	}
	return nil
}

// GetByID implements setting.SettingRepository.
func (r *settingRepositoryImpl) GetByID(ctx context.Context, id string, companyID string) (setting.LocationSetting, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + settingColumns + `
		FROM check_clock_settings
		WHERE id = $1 AND company_id = $2 AND deleted_at IS NULL
	`

	s, err := scanSetting(q.QueryRow(ctx, query, id, companyID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return setting.LocationSetting{}, setting.ErrSettingNotFound
		}
		return setting.LocationSetting{}, fmt.Errorf("failed to get check clock setting: %w", err)
	}
	return s, nil
}

// GetByBranch implements setting.SettingRepository.
func (r *settingRepositoryImpl) GetByBranch(ctx context.Context, companyID string, branchID *string) (setting.LocationSetting, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + settingColumns + `
		FROM check_clock_settings
		WHERE company_id = $1 AND branch_id IS NOT DISTINCT FROM $2 AND deleted_at IS NULL
		LIMIT 1
	`

	s, err := scanSetting(q.QueryRow(ctx, query, companyID, branchID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return setting.LocationSetting{}, setting.ErrSettingNotFound
		}
		return setting.LocationSetting{}, fmt.Errorf("failed to get check clock setting by branch: %w", err)
	}
	return s, nil
}

// List implements setting.SettingRepository.
func (r *settingRepositoryImpl) List(ctx context.Context, companyID string) ([]setting.LocationSetting, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + settingColumns + `
		FROM check_clock_settings
		WHERE company_id = $1 AND deleted_at IS NULL
		ORDER BY branch_id NULLS FIRST, created_at ASC
	`

	rows, err := q.Query(ctx, query, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to list check clock settings: %w", err)
	}
	defer rows.Close()

	var settings []setting.LocationSetting
	for rows.Next() {
		s, err := scanSetting(rows)
		if err != nil {
			return nil, err
		}
		settings = append(settings, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return settings, nil
}

// SoftDelete implements setting.SettingRepository.
func (r *settingRepositoryImpl) SoftDelete(ctx context.Context, id string, companyID string) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE check_clock_settings
		SET deleted_at = NOW(), updated_at = NOW()
		WHERE id = $1 AND company_id = $2 AND deleted_at IS NULL
	`

	tag, err := q.Exec(ctx, query, id, companyID)
	if err != nil {
		return fmt.Errorf("failed to delete check clock setting: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return setting.ErrSettingNotFound
	}
	return nil
}

type windowRepositoryImpl struct {
	db *database.DB
}

func NewWindowRepository(db *database.DB) setting.WindowRepository {
	return &windowRepositoryImpl{db: db}
}

const windowColumns = `
	id, ck_settings_id, day,
	clock_in_start::text, clock_in_end::text, clock_in_on_time_limit::text,
	clock_out_start::text, clock_out_end::text, work_day,
	created_at, updated_at, deleted_at
`

func scanWindow(row pgx.Row) (setting.ScheduleWindow, error) {
	var w setting.ScheduleWindow
	err := row.Scan(
		&w.ID, &w.SettingID, &w.Day,
		&w.ClockInStart, &w.ClockInEnd, &w.ClockInOnTimeLimit,
		&w.ClockOutStart, &w.ClockOutEnd, &w.WorkDay,
		&w.CreatedAt, &w.UpdatedAt, &w.DeletedAt,
	)
	return w, err
}

// CreateBatch implements setting.WindowRepository.
func (r *windowRepositoryImpl) CreateBatch(ctx context.Context, settingID string, windows []setting.ScheduleWindow) ([]setting.ScheduleWindow, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO check_clock_setting_times (
			id, ck_settings_id, day, clock_in_start, clock_in_end, clock_in_on_time_limit,
			clock_out_start, clock_out_end, work_day
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING ` + windowColumns

	created := make([]setting.ScheduleWindow, 0, len(windows))
	for _, w := range windows {
		id, err := uuid.NewV7()
		if err != nil {
			return nil, fmt.Errorf("failed to generate id: %w", err)
		}

		cw, err := scanWindow(q.QueryRow(ctx, query,
			id.String(), settingID, w.Day, w.ClockInStart, w.ClockInEnd, w.ClockInOnTimeLimit,
			w.ClockOutStart, w.ClockOutEnd, w.WorkDay,
		))
		if err != nil {
			return nil, fmt.Errorf("failed to create schedule window for %s: %w", w.Day, err)
		}
		created = append(created, cw)
	}
	return created, nil
}

// DeleteBySetting implements setting.WindowRepository.
func (r *windowRepositoryImpl) DeleteBySetting(ctx context.Context, settingID string) error {
	q := GetQuerier(ctx, r.db)

	if _, err := q.Exec(ctx, `DELETE FROM check_clock_setting_times WHERE ck_settings_id = $1`, settingID); err != nil {
		return fmt.Errorf("failed to delete schedule windows: %w", err)
	}
	return nil
}

// SoftDeleteBySetting implements setting.WindowRepository.
func (r *windowRepositoryImpl) SoftDeleteBySetting(ctx context.Context, settingID string) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE check_clock_setting_times
		SET deleted_at = NOW(), updated_at = NOW()
		WHERE ck_settings_id = $1 AND deleted_at IS NULL
	`
	if _, err := q.Exec(ctx, query, settingID); err != nil {
		return fmt.Errorf("failed to soft delete schedule windows: %w", err)
	}
	return nil
}

// ListBySetting implements setting.WindowRepository.
func (r *windowRepositoryImpl) ListBySetting(ctx context.Context, settingID string) ([]setting.ScheduleWindow, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + windowColumns + `
		FROM check_clock_setting_times
		WHERE ck_settings_id = $1 AND deleted_at IS NULL
		ORDER BY array_position(ARRAY['Monday','Tuesday','Wednesday','Thursday','Friday','Saturday','Sunday'], day)
	`

	rows, err := q.Query(ctx, query, settingID)
	if err != nil {
		return nil, fmt.Errorf("failed to list schedule windows: %w", err)
	}
	defer rows.Close()

	windows := []setting.ScheduleWindow{}
	for rows.Next() {
		w, err := scanWindow(rows)
		if err != nil {
			return nil, err
		}
		windows = append(windows, w)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return windows, nil
}

// FindScheduleWindow implements setting.WindowRepository. It returns nil when the
// setting has no window for day.
func (r *windowRepositoryImpl) FindScheduleWindow(ctx context.Context, settingID string, day setting.Day) (*setting.ScheduleWindow, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + windowColumns + `
		FROM check_clock_setting_times
		WHERE ck_settings_id = $1 AND day = $2 AND deleted_at IS NULL
		LIMIT 1
	`

	w, err := scanWindow(q.QueryRow(ctx, query, settingID, day))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find schedule window: %w", err)
	}
	return &w, nil
}
