package setting

import "context"

type SettingService interface {
	Create(ctx context.Context, companyID string, req SaveSettingRequest) (SettingResponse, error)
	Update(ctx context.Context, companyID string, id string, req SaveSettingRequest) (SettingResponse, error)
	Get(ctx context.Context, companyID string, id string) (SettingResponse, error)
	List(ctx context.Context, companyID string) ([]SettingResponse, error)
	Delete(ctx context.Context, companyID string, id string) error
	GetOrCreateDefault(ctx context.Context, companyID string, branchID *string) (SettingResponse, error)
}
