package setting

import "context"

type SettingRepository interface {
	Create(ctx context.Context, s LocationSetting) (LocationSetting, error)
	Update(ctx context.Context, s LocationSetting) error
	GetByID(ctx context.Context, id string, companyID string) (LocationSetting, error)
	// GetByBranch resolves the setting of a branch; a nil branchID selects the head office.
	GetByBranch(ctx context.Context, companyID string, branchID *string) (LocationSetting, error)
	List(ctx context.Context, companyID string) ([]LocationSetting, error)
	SoftDelete(ctx context.Context, id string, companyID string) error
}

type WindowRepository interface {
	CreateBatch(ctx context.Context, settingID string, windows []ScheduleWindow) ([]ScheduleWindow, error)
	DeleteBySetting(ctx context.Context, settingID string) error
	SoftDeleteBySetting(ctx context.Context, settingID string) error
	ListBySetting(ctx context.Context, settingID string) ([]ScheduleWindow, error)
	FindScheduleWindow(ctx context.Context, settingID string, day Day) (*ScheduleWindow, error)
}
