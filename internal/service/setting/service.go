package setting

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/cmlabs-hris/hris-checkclock-go/internal/domain/setting"
	"github.com/cmlabs-hris/hris-checkclock-go/internal/pkg/database"
	"github.com/cmlabs-hris/hris-checkclock-go/internal/repository/postgresql"
)

type settingServiceImpl struct {
	transactor  database.Transactor
	settingRepo setting.SettingRepository
	windowRepo  setting.WindowRepository
}

func NewSettingService(
	transactor database.Transactor,
	settingRepo setting.SettingRepository,
	windowRepo setting.WindowRepository,
) setting.SettingService {
	return &settingServiceImpl{
		transactor:  transactor,
		settingRepo: settingRepo,
		windowRepo:  windowRepo,
	}
}

// Create implements setting.SettingService.
func (s *settingServiceImpl) Create(ctx context.Context, companyID string, req setting.SaveSettingRequest) (setting.SettingResponse, error) {
	if companyID == "" {
		return setting.SettingResponse{}, setting.ErrCompanyIDMissing
	}
	if err := req.Validate(); err != nil {
		return setting.SettingResponse{}, err
	}

	branchID := req.NormalizedBranchID()
	if _, err := s.settingRepo.GetByBranch(ctx, companyID, branchID); err == nil {
		return setting.SettingResponse{}, setting.ErrSettingExists
	} else if !errors.Is(err, setting.ErrSettingNotFound) {
		return setting.SettingResponse{}, fmt.Errorf("failed to check existing setting: %w", err)
	}

	created, err := s.create(ctx, setting.LocationSetting{
		CompanyID:    companyID,
		BranchID:     branchID,
		LocationName: req.ResolveLocationName(),
		Latitude:     *req.Latitude,
		Longitude:    *req.Longitude,
		Radius:       *req.Radius,
	}, req.ToWindows())
	if err != nil {
		return setting.SettingResponse{}, err
	}

	return setting.NewSettingResponse(created), nil
}

// create inserts the setting and its windows atomically.
func (s *settingServiceImpl) create(ctx context.Context, ls setting.LocationSetting, windows []setting.ScheduleWindow) (setting.LocationSetting, error) {
	var created setting.LocationSetting
	err := s.transactor.WithinTransaction(ctx, func(txCtx context.Context) error {
		var err error
		created, err = s.settingRepo.Create(txCtx, ls)
		if err != nil {
			if postgresql.IsUniqueViolation(err) {
				return setting.ErrSettingExists
			}
			return fmt.Errorf("failed to create check clock setting: %w", err)
		}

		created.Windows, err = s.windowRepo.CreateBatch(txCtx, created.ID, windows)
		if err != nil {
			return fmt.Errorf("failed to create schedule windows: %w", err)
		}
		return nil
	})
	if err != nil {
		return setting.LocationSetting{}, err
	}
	return created, nil
}

// Update implements setting.SettingService.
func (s *settingServiceImpl) Update(ctx context.Context, companyID string, id string, req setting.SaveSettingRequest) (setting.SettingResponse, error) {
	if companyID == "" {
		return setting.SettingResponse{}, setting.ErrCompanyIDMissing
	}
	if err := req.Validate(); err != nil {
		return setting.SettingResponse{}, err
	}

	existing, err := s.settingRepo.GetByID(ctx, id, companyID)
	if err != nil {
		return setting.SettingResponse{}, err
	}

	existing.BranchID = req.NormalizedBranchID()
	existing.LocationName = req.ResolveLocationName()
	existing.Latitude = *req.Latitude
	existing.Longitude = *req.Longitude
	existing.Radius = *req.Radius

	err = s.transactor.WithinTransaction(ctx, func(txCtx context.Context) error {
		if err := s.settingRepo.Update(txCtx, existing); err != nil {
			if postgresql.IsUniqueViolation(err) {
				return setting.ErrSettingExists
			}
			return fmt.Errorf("failed to update check clock setting: %w", err)
		}
		if err := s.windowRepo.DeleteBySetting(txCtx, existing.ID); err != nil {
			return fmt.Errorf("failed to clear schedule windows: %w", err)
		}

		windows, err := s.windowRepo.CreateBatch(txCtx, existing.ID, req.ToWindows())
		if err != nil {
			return fmt.Errorf("failed to create schedule windows: %w", err)
		}
		existing.Windows = windows
		return nil
	})
	if err != nil {
		return setting.SettingResponse{}, err
	}

	return setting.NewSettingResponse(existing), nil
}

// Get implements setting.SettingService.
func (s *settingServiceImpl) Get(ctx context.Context, companyID string, id string) (setting.SettingResponse, error) {
	ls, err := s.settingRepo.GetByID(ctx, id, companyID)
	if err != nil {
		return setting.SettingResponse{}, err
	}
	if err := s.loadWindows(ctx, &ls); err != nil {
		return setting.SettingResponse{}, err
	}
	return setting.NewSettingResponse(ls), nil
}

// List implements setting.SettingService.
func (s *settingServiceImpl) List(ctx context.Context, companyID string) ([]setting.SettingResponse, error) {
	settings, err := s.settingRepo.List(ctx, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to list check clock settings: %w", err)
	}

	responses := make([]setting.SettingResponse, 0, len(settings))
	for i := range settings {
		if err := s.loadWindows(ctx, &settings[i]); err != nil {
			return nil, err
		}
		responses = append(responses, setting.NewSettingResponse(settings[i]))
	}
	return responses, nil
}

// Delete implements setting.SettingService.
func (s *settingServiceImpl) Delete(ctx context.Context, companyID string, id string) error {
	existing, err := s.settingRepo.GetByID(ctx, id, companyID)
	if err != nil {
		return err
	}

	return s.transactor.WithinTransaction(ctx, func(txCtx context.Context) error {
		if err := s.windowRepo.SoftDeleteBySetting(txCtx, existing.ID); err != nil {
			return fmt.Errorf("failed to delete schedule windows: %w", err)
		}
		return s.settingRepo.SoftDelete(txCtx, existing.ID, companyID)
	})
}

// GetOrCreateDefault implements setting.SettingService.
func (s *settingServiceImpl) GetOrCreateDefault(ctx context.Context, companyID string, branchID *string) (setting.SettingResponse, error) {
	if companyID == "" {
		return setting.SettingResponse{}, setting.ErrCompanyIDMissing
	}
	if branchID != nil && *branchID == "" {
		branchID = nil
	}

	existing, err := s.settingRepo.GetByBranch(ctx, companyID, branchID)
	if err == nil {
		if err := s.loadWindows(ctx, &existing); err != nil {
			return setting.SettingResponse{}, err
		}
		return setting.NewSettingResponse(existing), nil
	}
	if !errors.Is(err, setting.ErrSettingNotFound) {
		return setting.SettingResponse{}, fmt.Errorf("failed to get check clock setting: %w", err)
	}

	name := setting.DefaultHeadOfficeName
	if branchID != nil {
		name = setting.DefaultBranchOfficeName
	}

	created, err := s.create(ctx, setting.LocationSetting{
		CompanyID:    companyID,
		BranchID:     branchID,
		LocationName: name,
		Radius:       setting.DefaultRadius,
	}, setting.DefaultWindows())
	if errors.Is(err, setting.ErrSettingExists) {
		// lost the race against a concurrent default creation
		slog.Debug("Default check clock setting created concurrently", "company_id", companyID)
		winner, err := s.settingRepo.GetByBranch(ctx, companyID, branchID)
		if err != nil {
			return setting.SettingResponse{}, fmt.Errorf("failed to get check clock setting: %w", err)
		}
		if err := s.loadWindows(ctx, &winner); err != nil {
			return setting.SettingResponse{}, err
		}
		return setting.NewSettingResponse(winner), nil
	}
	if err != nil {
		return setting.SettingResponse{}, err
	}

	slog.Info("Created default check clock setting", "company_id", companyID, "setting_id", created.ID)
	return setting.NewSettingResponse(created), nil
}

func (s *settingServiceImpl) loadWindows(ctx context.Context, ls *setting.LocationSetting) error {
	windows, err := s.windowRepo.ListBySetting(ctx, ls.ID)
	if err != nil {
		return fmt.Errorf("failed to load schedule windows: %w", err)
	}
	ls.Windows = windows
	return nil
}
