package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/cmlabs-hris/hris-checkclock-go/internal/domain/auth"
	"github.com/cmlabs-hris/hris-checkclock-go/internal/domain/checkclock"
	"github.com/cmlabs-hris/hris-checkclock-go/internal/domain/employee"
	"github.com/cmlabs-hris/hris-checkclock-go/internal/domain/report"
	"github.com/cmlabs-hris/hris-checkclock-go/internal/domain/setting"
	"github.com/cmlabs-hris/hris-checkclock-go/internal/domain/user"
	"github.com/cmlabs-hris/hris-checkclock-go/internal/handler/http/response"
	"github.com/cmlabs-hris/hris-checkclock-go/internal/pkg/jwt"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testCompanyID  = "0190a1b2-0000-7000-8000-000000000001"
	testEmployeeID = "0190a1b2-0000-7000-8000-000000000002"
	testEventID    = "0190a1b2-0000-7000-8000-000000000003"
	testSettingID  = "0190a1b2-0000-7000-8000-000000000004"
)

type stubAuthService struct {
	jwtService *jwt.JWTService
}

func (s *stubAuthService) Login(_ context.Context, req auth.LoginRequest) (auth.TokenResponse, error) {
	if req.Password != "correct-password" {
		return auth.TokenResponse{}, auth.ErrInvalidCredentials
	}
	token, exp, err := s.jwtService.GenerateAccessToken("user-1", req.Email, nil, strPtr(testCompanyID), user.RoleAdmin)
	return auth.TokenResponse{AccessToken: token, AccessTokenExpiresIn: exp, Role: string(user.RoleAdmin)}, err
}

func (s *stubAuthService) Logout(_ context.Context, token string) error {
	s.jwtService.RevokeToken(token, time.Now().Add(time.Hour).Unix())
	return nil
}

type stubCheckClockService struct {
	companyIDs  []string
	dailyFilter checkclock.DailyFilter
	rangeFilter checkclock.RangeFilter
	created     checkclock.CreateCheckClockRequest
	createErr   error
	approveErr  error
}

func (s *stubCheckClockService) record(companyID string) { s.companyIDs = append(s.companyIDs, companyID) }

func (s *stubCheckClockService) DailyView(_ context.Context, companyID string, filter checkclock.DailyFilter) (checkclock.DailyViewResponse, error) {
	s.record(companyID)
	s.dailyFilter = filter
	return checkclock.DailyViewResponse{
		Date: "2024-05-20",
		CheckClocks: []checkclock.AttendanceRow{
			{EmployeeID: testEmployeeID, EmployeeName: "Alice", Date: "2024-05-20", Status: checkclock.StatusAbsent, ApprovalLabel: checkclock.ApprovalPending},
		},
	}, nil
}

func (s *stubCheckClockService) RangeView(_ context.Context, companyID string, filter checkclock.RangeFilter) (checkclock.RangeViewResponse, error) {
	s.record(companyID)
	s.rangeFilter = filter
	return checkclock.RangeViewResponse{
		CheckClocks:    []checkclock.AttendanceRow{},
		FiltersApplied: checkclock.FiltersApplied{StartDate: "2024-05-01", EndDate: "2024-05-31", Positions: []string{}, Statuses: []string{}},
	}, nil
}

func (s *stubCheckClockService) Create(_ context.Context, companyID string, req checkclock.CreateCheckClockRequest) (checkclock.AttendanceRow, error) {
	s.record(companyID)
	s.created = req
	if s.createErr != nil {
		return checkclock.AttendanceRow{}, s.createErr
	}
	return checkclock.AttendanceRow{ID: strPtr(testEventID), EmployeeID: req.EmployeeID, Status: checkclock.StatusOnTime}, nil
}

func (s *stubCheckClockService) GetByID(_ context.Context, companyID string, id string) (checkclock.AttendanceRow, error) {
	s.record(companyID)
	if id != testEventID {
		return checkclock.AttendanceRow{}, checkclock.ErrCheckClockNotFound
	}
	return checkclock.AttendanceRow{ID: strPtr(id)}, nil
}

func (s *stubCheckClockService) Approve(_ context.Context, companyID string, id string) (checkclock.AttendanceRow, error) {
	s.record(companyID)
	if s.approveErr != nil {
		return checkclock.AttendanceRow{}, s.approveErr
	}
	approved := true
	return checkclock.AttendanceRow{ID: strPtr(id), Approved: &approved, ApprovalLabel: checkclock.ApprovalApproved, Status: checkclock.StatusLate}, nil
}

func (s *stubCheckClockService) Reject(_ context.Context, companyID string, id string) (checkclock.AttendanceRow, error) {
	s.record(companyID)
	approved := false
	return checkclock.AttendanceRow{ID: strPtr(id), Approved: &approved, ApprovalLabel: checkclock.ApprovalRejected}, nil
}

func (s *stubCheckClockService) Delete(_ context.Context, companyID string, _ string) error {
	s.record(companyID)
	return nil
}

func (s *stubCheckClockService) ListEmployees(_ context.Context, companyID string) ([]employee.Option, error) {
	s.record(companyID)
	return []employee.Option{{ID: testEmployeeID, FullName: "Alice"}}, nil
}

type stubSettingService struct {
	setting.SettingService
	defaultBranch *string
	createErr     error
}

func (s *stubSettingService) List(context.Context, string) ([]setting.SettingResponse, error) {
	return []setting.SettingResponse{{ID: testSettingID, LocationName: "Head Office"}}, nil
}

func (s *stubSettingService) Create(_ context.Context, companyID string, req setting.SaveSettingRequest) (setting.SettingResponse, error) {
	if s.createErr != nil {
		return setting.SettingResponse{}, s.createErr
	}
	return setting.SettingResponse{ID: testSettingID, CompanyID: companyID}, nil
}

func (s *stubSettingService) GetOrCreateDefault(_ context.Context, companyID string, branchID *string) (setting.SettingResponse, error) {
	s.defaultBranch = branchID
	return setting.SettingResponse{ID: testSettingID, CompanyID: companyID, BranchID: branchID}, nil
}

type stubReportService struct {
	filter checkclock.RangeFilter
}

func (s *stubReportService) ExportCheckClocks(_ context.Context, _ string, filter checkclock.RangeFilter) (report.ExportFile, error) {
	s.filter = filter
	return report.ExportFile{
		FileName:    "check_clocks_2024-05-20_10-00-00_2024-05.xlsx",
		ContentType: report.ContentTypeXLSX,
		Content:     []byte("xlsx-bytes"),
	}, nil
}

func strPtr(s string) *string { return &s }

type testServer struct {
	router     *chi.Mux
	jwtService *jwt.JWTService
	checkClock *stubCheckClockService
	setting    *stubSettingService
	report     *stubReportService
}

func newTestServer() *testServer {
	jwtService := jwt.NewJWTService("handler-test-secret", time.Hour)
	ts := &testServer{
		jwtService: jwtService,
		checkClock: &stubCheckClockService{},
		setting:    &stubSettingService{},
		report:     &stubReportService{},
	}
	ts.router = NewRouter(RouterConfig{AllowedOrigins: []string{"http://localhost:3000"}}, jwtService, Handlers{
		Auth:       NewAuthHandler(&stubAuthService{jwtService: jwtService}),
		CheckClock: NewCheckClockHandler(ts.checkClock),
		Setting:    NewSettingHandler(ts.setting),
		Report:     NewReportHandler(ts.report),
	})
	return ts
}

func (ts *testServer) token(t *testing.T, role user.Role, employeeID *string) string {
	t.Helper()
	token, _, err := ts.jwtService.GenerateAccessToken("user-1", "user@example.com", employeeID, strPtr(testCompanyID), role)
	require.NoError(t, err)
	return token
}

func (ts *testServer) do(method, path, token string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	ts.router.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) response.Response {
	t.Helper()
	var body response.Response
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	return body
}

func TestAuthHandler_LoginLogout(t *testing.T) {
	ts := newTestServer()

	rec := ts.do(http.MethodPost, "/api/v1/auth/login", "", map[string]string{"email": "admin@example.com", "password": "wrong"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = ts.do(http.MethodPost, "/api/v1/auth/login", "", map[string]string{"email": "admin@example.com", "password": "correct-password"})
	require.Equal(t, http.StatusOK, rec.Code)

	body := decode(t, rec)
	data, ok := body.Data.(map[string]interface{})
	require.True(t, ok)
	token, _ := data["access_token"].(string)
	require.NotEmpty(t, token)

	assert.Equal(t, http.StatusOK, ts.do(http.MethodGet, "/api/v1/check-clocks", token, nil).Code)
	assert.Equal(t, http.StatusOK, ts.do(http.MethodPost, "/api/v1/auth/logout", token, nil).Code)
	assert.Equal(t, http.StatusUnauthorized, ts.do(http.MethodGet, "/api/v1/check-clocks", token, nil).Code)
}

func TestAuthHandler_LoginBadBody(t *testing.T) {
	ts := newTestServer()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", bytes.NewBufferString("{not json"))
	rec := httptest.NewRecorder()
	ts.router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCheckClockHandler_Daily(t *testing.T) {
	ts := newTestServer()
	token := ts.token(t, user.RoleManager, nil)

	rec := ts.do(http.MethodGet, "/api/v1/check-clocks?date=2024-05-20&employee_ids=a,,b", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	body := decode(t, rec)
	assert.True(t, body.Success)
	require.NotNil(t, body.Meta)
	assert.Equal(t, 1, body.Meta.TotalItems)
	assert.Equal(t, "2024-05-20", ts.checkClock.dailyFilter.Date)
	assert.Equal(t, []string{"a", "b"}, ts.checkClock.dailyFilter.EmployeeIDs)
	assert.Equal(t, []string{testCompanyID}, ts.checkClock.companyIDs)
}

func TestCheckClockHandler_Filter(t *testing.T) {
	ts := newTestServer()
	token := ts.token(t, user.RoleAdmin, nil)

	rec := ts.do(http.MethodGet, "/api/v1/check-clocks/filter?month=5&year=2024&positions=Engineer,Designer&statuses=Late", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	assert.Equal(t, checkclock.RangeFilter{
		Month:     "5",
		Year:      "2024",
		Positions: []string{"Engineer", "Designer"},
		Statuses:  []string{"Late"},
	}, ts.checkClock.rangeFilter)

	var raw map[string]interface{}
	require.NoError(t, json.Unmarshal(ts.do(http.MethodGet, "/api/v1/check-clocks/filter", token, nil).Body.Bytes(), &raw))
	data := raw["data"].(map[string]interface{})
	assert.Contains(t, data, "filters_applied")
	assert.Equal(t, []interface{}{}, data["check_clocks"])
}

func TestCheckClockHandler_Permissions(t *testing.T) {
	ts := newTestServer()
	employeeToken := ts.token(t, user.RoleEmployee, strPtr(testEmployeeID))
	managerToken := ts.token(t, user.RoleManager, nil)

	tests := []struct {
		name       string
		method     string
		path       string
		token      string
		wantStatus int
	}{
		{"anonymous daily", http.MethodGet, "/api/v1/check-clocks", "", http.StatusUnauthorized},
		{"employee daily", http.MethodGet, "/api/v1/check-clocks", employeeToken, http.StatusForbidden},
		{"employee approve", http.MethodPut, "/api/v1/check-clocks/" + testEventID + "/approve", employeeToken, http.StatusForbidden},
		{"employee export", http.MethodGet, "/api/v1/check-clocks/export", employeeToken, http.StatusForbidden},
		{"manager settings", http.MethodGet, "/api/v1/check-clock-settings", managerToken, http.StatusForbidden},
		{"manager export", http.MethodGet, "/api/v1/check-clocks/export", managerToken, http.StatusOK},
		{"manager approve", http.MethodPut, "/api/v1/check-clocks/" + testEventID + "/approve", managerToken, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantStatus, ts.do(tt.method, tt.path, tt.token, nil).Code)
		})
	}
}

func TestCheckClockHandler_Create(t *testing.T) {
	t.Run("employee records own attendance", func(t *testing.T) {
		ts := newTestServer()
		token := ts.token(t, user.RoleEmployee, strPtr(testEmployeeID))

		rec := ts.do(http.MethodPost, "/api/v1/check-clocks", token, map[string]interface{}{
			"employee_id":      "0190a1b2-0000-7000-8000-0000000000ff",
			"check_clock_type": "check-in",
			"check_clock_date": "2024-05-20",
			"check_clock_time": "08:00",
		})
		require.Equal(t, http.StatusCreated, rec.Code)
		assert.Equal(t, testEmployeeID, ts.checkClock.created.EmployeeID)
		assert.Equal(t, "check-in", ts.checkClock.created.Type)
	})

	t.Run("employee cannot decide own leave", func(t *testing.T) {
		ts := newTestServer()
		token := ts.token(t, user.RoleEmployee, strPtr(testEmployeeID))

		rec := ts.do(http.MethodPost, "/api/v1/check-clocks", token, map[string]interface{}{
			"check_clock_type": "annual-leave",
			"check_clock_date": "2024-05-20",
			"start_date":       "2024-05-20",
			"end_date":         "2024-05-22",
			"approved":         true,
			"ck_settings_id":   "0190a1b2-0000-7000-8000-0000000000aa",
		})
		require.Equal(t, http.StatusCreated, rec.Code)
		assert.Equal(t, testEmployeeID, ts.checkClock.created.EmployeeID)
		assert.Nil(t, ts.checkClock.created.Approved)
		assert.Nil(t, ts.checkClock.created.SettingID)
	})

	t.Run("admin may record a decided leave", func(t *testing.T) {
		ts := newTestServer()
		token := ts.token(t, user.RoleAdmin, nil)

		rec := ts.do(http.MethodPost, "/api/v1/check-clocks", token, map[string]interface{}{
			"employee_id":      "0190a1b2-0000-7000-8000-0000000000ff",
			"check_clock_type": "sick-leave",
			"check_clock_date": "2024-05-20",
			"approved":         true,
		})
		require.Equal(t, http.StatusCreated, rec.Code)
		require.NotNil(t, ts.checkClock.created.Approved)
		assert.True(t, *ts.checkClock.created.Approved)
	})

	t.Run("admin records for any employee", func(t *testing.T) {
		ts := newTestServer()
		token := ts.token(t, user.RoleAdmin, nil)

		rec := ts.do(http.MethodPost, "/api/v1/check-clocks", token, map[string]interface{}{
			"employee_id":      "0190a1b2-0000-7000-8000-0000000000ff",
			"check_clock_type": "check-in",
			"check_clock_date": "2024-05-20",
			"check_clock_time": "08:00",
		})
		require.Equal(t, http.StatusCreated, rec.Code)
		assert.Equal(t, "0190a1b2-0000-7000-8000-0000000000ff", ts.checkClock.created.EmployeeID)
	})

	t.Run("employee without employee record", func(t *testing.T) {
		ts := newTestServer()
		token := ts.token(t, user.RoleEmployee, nil)
		rec := ts.do(http.MethodPost, "/api/v1/check-clocks", token, map[string]interface{}{"check_clock_type": "check-in"})
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("conflict", func(t *testing.T) {
		ts := newTestServer()
		ts.checkClock.createErr = checkclock.ErrAlreadyCheckedIn
		token := ts.token(t, user.RoleAdmin, nil)
		rec := ts.do(http.MethodPost, "/api/v1/check-clocks", token, map[string]interface{}{"check_clock_type": "check-in"})
		assert.Equal(t, http.StatusConflict, rec.Code)
	})

	t.Run("check in required", func(t *testing.T) {
		ts := newTestServer()
		ts.checkClock.createErr = checkclock.ErrCheckInRequired
		token := ts.token(t, user.RoleAdmin, nil)
		rec := ts.do(http.MethodPost, "/api/v1/check-clocks", token, map[string]interface{}{"check_clock_type": "check-out"})
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	})
}

func TestCheckClockHandler_ByID(t *testing.T) {
	ts := newTestServer()
	token := ts.token(t, user.RoleAdmin, nil)

	assert.Equal(t, http.StatusOK, ts.do(http.MethodGet, "/api/v1/check-clocks/"+testEventID, token, nil).Code)
	assert.Equal(t, http.StatusNotFound, ts.do(http.MethodGet, "/api/v1/check-clocks/0190a1b2-0000-7000-8000-0000000000aa", token, nil).Code)
	assert.Equal(t, http.StatusBadRequest, ts.do(http.MethodGet, "/api/v1/check-clocks/not-a-uuid", token, nil).Code)
	assert.Equal(t, http.StatusOK, ts.do(http.MethodPut, "/api/v1/check-clocks/"+testEventID+"/reject", token, nil).Code)
	assert.Equal(t, http.StatusOK, ts.do(http.MethodDelete, "/api/v1/check-clocks/"+testEventID, token, nil).Code)

	ts.checkClock.approveErr = checkclock.ErrAlreadyDecided
	assert.Equal(t, http.StatusConflict, ts.do(http.MethodPut, "/api/v1/check-clocks/"+testEventID+"/approve", token, nil).Code)
}

func TestCheckClockHandler_Employees(t *testing.T) {
	ts := newTestServer()
	rec := ts.do(http.MethodGet, "/api/v1/check-clocks/employees", ts.token(t, user.RoleManager, nil), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Alice")
}

func TestReportHandler_Export(t *testing.T) {
	ts := newTestServer()
	rec := ts.do(http.MethodGet, "/api/v1/check-clocks/export?month=5&year=2024", ts.token(t, user.RoleAdmin, nil), nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, report.ContentTypeXLSX, rec.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="check_clocks_2024-05-20_10-00-00_2024-05.xlsx"`, rec.Header().Get("Content-Disposition"))
	assert.Equal(t, "xlsx-bytes", rec.Body.String())
	assert.Equal(t, "5", ts.report.filter.Month)
	assert.Equal(t, "2024", ts.report.filter.Year)
}

func TestSettingHandler(t *testing.T) {
	ts := newTestServer()
	token := ts.token(t, user.RoleAdmin, nil)

	rec := ts.do(http.MethodGet, "/api/v1/check-clock-settings", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Head Office")

	rec = ts.do(http.MethodPost, "/api/v1/check-clock-settings", token, map[string]interface{}{"latitude": -6.2})
	assert.Equal(t, http.StatusCreated, rec.Code)

	ts.setting.createErr = setting.ErrSettingExists
	rec = ts.do(http.MethodPost, "/api/v1/check-clock-settings", token, map[string]interface{}{"latitude": -6.2})
	assert.Equal(t, http.StatusConflict, rec.Code)

	branchID := "0190a1b2-0000-7000-8000-0000000000bb"
	rec = ts.do(http.MethodGet, "/api/v1/check-clock-settings/default?branch_id="+branchID, token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, ts.setting.defaultBranch)
	assert.Equal(t, branchID, *ts.setting.defaultBranch)

	rec = ts.do(http.MethodGet, "/api/v1/check-clock-settings/default?branch_id=nope", token, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = ts.do(http.MethodGet, "/api/v1/check-clock-settings/nope", token, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
