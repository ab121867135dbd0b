package response

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/cmlabs-hris/hris-checkclock-go/internal/domain/auth"
	"github.com/cmlabs-hris/hris-checkclock-go/internal/domain/checkclock"
	"github.com/cmlabs-hris/hris-checkclock-go/internal/domain/employee"
	"github.com/cmlabs-hris/hris-checkclock-go/internal/domain/setting"
	"github.com/cmlabs-hris/hris-checkclock-go/internal/pkg/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandleError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"validation", validator.ValidationErrors{{Field: "check_clock_type", Message: "required"}}, http.StatusUnprocessableEntity, "VALIDATION_ERROR"},
		{"invalid credentials", auth.ErrInvalidCredentials, http.StatusUnauthorized, "UNAUTHORIZED"},
		{"check clock not found", checkclock.ErrCheckClockNotFound, http.StatusNotFound, "NOT_FOUND"},
		{"wrapped employee not found", fmt.Errorf("lookup: %w", employee.ErrEmployeeNotFound), http.StatusNotFound, "NOT_FOUND"},
		{"branch not found", checkclock.ErrBranchNotFound, http.StatusNotFound, "NOT_FOUND"},
		{"check in required", checkclock.ErrCheckInRequired, http.StatusUnprocessableEntity, "UNPROCESSABLE_ENTITY"},
		{"already checked in", checkclock.ErrAlreadyCheckedIn, http.StatusConflict, "CONFLICT"},
		{"already checked out", checkclock.ErrAlreadyCheckedOut, http.StatusConflict, "CONFLICT"},
		{"multiple check-outs", checkclock.ErrMultipleCheckOuts, http.StatusConflict, "CONFLICT"},
		{"already decided", checkclock.ErrAlreadyDecided, http.StatusConflict, "CONFLICT"},
		{"setting exists", setting.ErrSettingExists, http.StatusConflict, "CONFLICT"},
		{"missing company", setting.ErrCompanyIDMissing, http.StatusForbidden, "FORBIDDEN"},
		{"store failure", errors.New("connection refused"), http.StatusInternalServerError, "INTERNAL_SERVER_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			HandleError(rec, tt.err)

			assert.Equal(t, tt.wantStatus, rec.Code)

			var body Response
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
			assert.False(t, body.Success)
			require.NotNil(t, body.Error)
			assert.Equal(t, tt.wantCode, body.Error.Code)
		})
	}
}

func TestHandleError_ValidationDetails(t *testing.T) {
	rec := httptest.NewRecorder()
	HandleError(rec, validator.ValidationErrors{{Field: "latitude", Message: "latitude must be between -90 and 90"}})

	var body Response
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, "latitude must be between -90 and 90", body.Error.Details["latitude"])
}

func TestFile(t *testing.T) {
	rec := httptest.NewRecorder()
	File(rec, "check_clocks.xlsx", "application/octet-stream", []byte("abc"))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, `attachment; filename="check_clocks.xlsx"`, rec.Header().Get("Content-Disposition"))
	assert.Equal(t, "3", rec.Header().Get("Content-Length"))
	assert.Equal(t, "abc", rec.Body.String())
}
