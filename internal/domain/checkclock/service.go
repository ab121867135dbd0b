package checkclock

import (
	"context"

	"github.com/cmlabs-hris/hris-checkclock-go/internal/domain/employee"
)

type CheckClockService interface {
	DailyView(ctx context.Context, companyID string, filter DailyFilter) (DailyViewResponse, error)
	RangeView(ctx context.Context, companyID string, filter RangeFilter) (RangeViewResponse, error)
	Create(ctx context.Context, companyID string, req CreateCheckClockRequest) (AttendanceRow, error)
	GetByID(ctx context.Context, companyID string, id string) (AttendanceRow, error)
	Approve(ctx context.Context, companyID string, id string) (AttendanceRow, error)
	Reject(ctx context.Context, companyID string, id string) (AttendanceRow, error)
	Delete(ctx context.Context, companyID string, id string) error
	ListEmployees(ctx context.Context, companyID string) ([]employee.Option, error)
}
