package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/hris-checkclock-go/internal/domain/setting"
	"github.com/cmlabs-hris/hris-checkclock-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/hris-checkclock-go/internal/handler/http/response"
	"github.com/cmlabs-hris/hris-checkclock-go/internal/pkg/validator"
	"github.com/go-chi/chi/v5"
)

type SettingHandler interface {
	List(w http.ResponseWriter, r *http.Request)
	Create(w http.ResponseWriter, r *http.Request)
	Default(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	Update(w http.ResponseWriter, r *http.Request)
	Delete(w http.ResponseWriter, r *http.Request)
}

type settingHandlerImpl struct {
	settingService setting.SettingService
}

func NewSettingHandler(settingService setting.SettingService) SettingHandler {
	return &settingHandlerImpl{
		settingService: settingService,
	}
}

// List handles GET /check-clock-settings
func (h *settingHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	result, err := h.settingService.List(r.Context(), middleware.CompanyIDFromContext(r.Context()))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// Create handles POST /check-clock-settings
func (h *settingHandlerImpl) Create(w http.ResponseWriter, r *http.Request) {
	var req setting.SaveSettingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Create setting decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := h.settingService.Create(r.Context(), middleware.CompanyIDFromContext(r.Context()), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Check clock setting created successfully", result)
}

// Default handles GET /check-clock-settings/default
func (h *settingHandlerImpl) Default(w http.ResponseWriter, r *http.Request) {
	var branchID *string
	if b := r.URL.Query().Get("branch_id"); b != "" {
		if !validator.IsValidUUID(b) {
			response.BadRequest(w, "Invalid branch id", map[string]string{"branch_id": "branch_id must be a valid UUID"})
			return
		}
		branchID = &b
	}

	result, err := h.settingService.GetOrCreateDefault(r.Context(), middleware.CompanyIDFromContext(r.Context()), branchID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// Get handles GET /check-clock-settings/{id}
func (h *settingHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := settingID(w, r)
	if !ok {
		return
	}

	result, err := h.settingService.Get(r.Context(), middleware.CompanyIDFromContext(r.Context()), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// Update handles PUT /check-clock-settings/{id}
func (h *settingHandlerImpl) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := settingID(w, r)
	if !ok {
		return
	}

	var req setting.SaveSettingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Update setting decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := h.settingService.Update(r.Context(), middleware.CompanyIDFromContext(r.Context()), id, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Check clock setting updated successfully", result)
}

// Delete handles DELETE /check-clock-settings/{id}
func (h *settingHandlerImpl) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := settingID(w, r)
	if !ok {
		return
	}

	if err := h.settingService.Delete(r.Context(), middleware.CompanyIDFromContext(r.Context()), id); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Check clock setting deleted successfully", nil)
}

func settingID(w http.ResponseWriter, r *http.Request) (string, bool) {
	id := chi.URLParam(r, "id")
	if !validator.IsValidUUID(id) {
		response.BadRequest(w, "Invalid setting id", map[string]string{"id": "id must be a valid UUID"})
		return "", false
	}
	return id, true
}
