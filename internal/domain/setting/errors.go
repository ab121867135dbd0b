package setting

import "errors"

var (
	ErrSettingNotFound  = errors.New("check clock setting not found")
	ErrSettingExists    = errors.New("check clock setting already exists for this branch")
	ErrWindowNotFound   = errors.New("schedule window not found")
	ErrCompanyIDMissing = errors.New("company id is required")
)
