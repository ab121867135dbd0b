package response

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/hris-checkclock-go/internal/domain/auth"
	"github.com/cmlabs-hris/hris-checkclock-go/internal/domain/checkclock"
	"github.com/cmlabs-hris/hris-checkclock-go/internal/domain/employee"
	"github.com/cmlabs-hris/hris-checkclock-go/internal/domain/setting"
	"github.com/cmlabs-hris/hris-checkclock-go/internal/domain/user"
	"github.com/cmlabs-hris/hris-checkclock-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	// Auth domain errors
	case errors.Is(err, auth.ErrInvalidCredentials):
		Unauthorized(w, err.Error())
	case errors.Is(err, auth.ErrInvalidToken):
		Unauthorized(w, "Invalid or expired token")
	case errors.Is(err, user.ErrInsufficientPermissions):
		Forbidden(w, "Insufficient permissions")
	case errors.Is(err, user.ErrCompanyIDRequired), errors.Is(err, setting.ErrCompanyIDMissing):
		Forbidden(w, "Company context is required")

	// Check clock domain errors
	case errors.Is(err, checkclock.ErrCheckClockNotFound):
		NotFound(w, "Check clock not found")
	case errors.Is(err, employee.ErrEmployeeNotFound):
		NotFound(w, "Employee not found")
	case errors.Is(err, checkclock.ErrBranchNotFound):
		NotFound(w, "Branch not found")
	case errors.Is(err, checkclock.ErrCheckInRequired):
		UnprocessableEntity(w, "Employee must check in before checking out")
	case errors.Is(err, checkclock.ErrAlreadyCheckedIn):
		Conflict(w, "Employee already checked in today")
	case errors.Is(err, checkclock.ErrAlreadyCheckedOut):
		Conflict(w, "Employee already checked out today")
	case errors.Is(err, checkclock.ErrMultipleCheckOuts):
		Conflict(w, "More than one check-out recorded for the same day")
	case errors.Is(err, checkclock.ErrAlreadyDecided):
		Conflict(w, "Check clock has already been rejected")

	// Setting domain errors
	case errors.Is(err, setting.ErrSettingNotFound):
		NotFound(w, "Check clock setting not found")
	case errors.Is(err, setting.ErrWindowNotFound):
		NotFound(w, "Schedule window not found")
	case errors.Is(err, setting.ErrSettingExists):
		Conflict(w, "Check clock setting already exists for this branch")

	// Default
	default:
		slog.Error("Unhandled error", "error", err)
		InternalServerError(w, "An unexpected error occurred")
	}
}
