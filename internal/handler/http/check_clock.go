package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/hris-checkclock-go/internal/domain/checkclock"
	"github.com/cmlabs-hris/hris-checkclock-go/internal/domain/user"
	"github.com/cmlabs-hris/hris-checkclock-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/hris-checkclock-go/internal/handler/http/response"
	"github.com/cmlabs-hris/hris-checkclock-go/internal/pkg/validator"
	"github.com/go-chi/chi/v5"
)

type CheckClockHandler interface {
	Daily(w http.ResponseWriter, r *http.Request)
	Filter(w http.ResponseWriter, r *http.Request)
	Employees(w http.ResponseWriter, r *http.Request)
	Create(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	Approve(w http.ResponseWriter, r *http.Request)
	Reject(w http.ResponseWriter, r *http.Request)
	Delete(w http.ResponseWriter, r *http.Request)
}

type checkClockHandlerImpl struct {
	checkClockService checkclock.CheckClockService
}

func NewCheckClockHandler(checkClockService checkclock.CheckClockService) CheckClockHandler {
	return &checkClockHandlerImpl{
		checkClockService: checkClockService,
	}
}

// Daily handles GET /check-clocks
func (h *checkClockHandlerImpl) Daily(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := checkclock.DailyFilter{
		Date:        q.Get("date"),
		EmployeeIDs: validator.SplitList(q.Get("employee_ids")),
	}

	result, err := h.checkClockService.DailyView(r.Context(), middleware.CompanyIDFromContext(r.Context()), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMeta(w, result, &response.Meta{TotalItems: len(result.CheckClocks)})
}

// Filter handles GET /check-clocks/filter
func (h *checkClockHandlerImpl) Filter(w http.ResponseWriter, r *http.Request) {
	result, err := h.checkClockService.RangeView(r.Context(), middleware.CompanyIDFromContext(r.Context()), rangeFilterFromQuery(r))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMeta(w, result, &response.Meta{TotalItems: len(result.CheckClocks)})
}

// Employees handles GET /check-clocks/employees
func (h *checkClockHandlerImpl) Employees(w http.ResponseWriter, r *http.Request) {
	result, err := h.checkClockService.ListEmployees(r.Context(), middleware.CompanyIDFromContext(r.Context()))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// Create handles POST /check-clocks
func (h *checkClockHandlerImpl) Create(w http.ResponseWriter, r *http.Request) {
	var req checkclock.CreateCheckClockRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Create check clock decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	// Employees may only record their own attendance, undecided and on their
	// resolved schedule.
	if middleware.RoleFromContext(r) == user.RoleEmployee {
		employeeID := middleware.EmployeeIDFromContext(r)
		if employeeID == "" {
			response.HandleError(w, user.ErrInsufficientPermissions)
			return
		}
		req.EmployeeID = employeeID
		req.Approved = nil
		req.SettingID = nil
	}

	result, err := h.checkClockService.Create(r.Context(), middleware.CompanyIDFromContext(r.Context()), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Check clock recorded successfully", result)
}

// Get handles GET /check-clocks/{id}
func (h *checkClockHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := checkClockID(w, r)
	if !ok {
		return
	}

	result, err := h.checkClockService.GetByID(r.Context(), middleware.CompanyIDFromContext(r.Context()), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// Approve handles PUT /check-clocks/{id}/approve
func (h *checkClockHandlerImpl) Approve(w http.ResponseWriter, r *http.Request) {
	id, ok := checkClockID(w, r)
	if !ok {
		return
	}

	result, err := h.checkClockService.Approve(r.Context(), middleware.CompanyIDFromContext(r.Context()), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Check clock approved", result)
}

// Reject handles PUT /check-clocks/{id}/reject
func (h *checkClockHandlerImpl) Reject(w http.ResponseWriter, r *http.Request) {
	id, ok := checkClockID(w, r)
	if !ok {
		return
	}

	result, err := h.checkClockService.Reject(r.Context(), middleware.CompanyIDFromContext(r.Context()), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Check clock rejected", result)
}

// Delete handles DELETE /check-clocks/{id}
func (h *checkClockHandlerImpl) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := checkClockID(w, r)
	if !ok {
		return
	}

	if err := h.checkClockService.Delete(r.Context(), middleware.CompanyIDFromContext(r.Context()), id); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Check clock deleted", nil)
}

func checkClockID(w http.ResponseWriter, r *http.Request) (string, bool) {
	id := chi.URLParam(r, "id")
	if !validator.IsValidUUID(id) {
		response.BadRequest(w, "Invalid check clock id", map[string]string{"id": "id must be a valid UUID"})
		return "", false
	}
	return id, true
}

func rangeFilterFromQuery(r *http.Request) checkclock.RangeFilter {
	q := r.URL.Query()
	return checkclock.RangeFilter{
		StartDate: q.Get("start_date"),
		EndDate:   q.Get("end_date"),
		Month:     q.Get("month"),
		Year:      q.Get("year"),
		Positions: validator.SplitList(q.Get("positions")),
		Statuses:  validator.SplitList(q.Get("statuses")),
	}
}
