package checkclock

import (
	"context"
	"time"
)

type CheckClockRepository interface {
	Create(ctx context.Context, c CheckClock) (CheckClock, error)
	GetByID(ctx context.Context, id string, companyID string) (CheckClock, error)
	UpdateDecision(ctx context.Context, id string, companyID string, approved bool, status Status) error
	SoftDelete(ctx context.Context, id string, companyID string) error

	// FindCheckInsByDateRange returns check-in rows in [start, end] joined with the
	// employee name and position, newest date first.
	FindCheckInsByDateRange(ctx context.Context, companyID string, start, end time.Time, positions []string, statuses []string) ([]CheckClock, error)
	FindCheckOutsByDateRange(ctx context.Context, companyID string, start, end time.Time) ([]CheckClock, error)
	FindCheckOuts(ctx context.Context, companyID string, employeeID string, date time.Time) ([]CheckClock, error)
	FindByEmployeeAndDate(ctx context.Context, companyID string, employeeID string, date time.Time) ([]CheckClock, error)
	FindEmployeeIDsWithEvents(ctx context.Context, companyID string, date time.Time) ([]string, error)
}

// DecisionPublisher forwards approval decisions to downstream consumers.
type DecisionPublisher interface {
	PublishDecision(ctx context.Context, event DecisionEvent) error
}
