package http

import (
	"net/http"

	"github.com/cmlabs-hris/hris-checkclock-go/internal/domain/report"
	"github.com/cmlabs-hris/hris-checkclock-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/hris-checkclock-go/internal/handler/http/response"
)

type ReportHandler interface {
	ExportCheckClocks(w http.ResponseWriter, r *http.Request)
}

type reportHandlerImpl struct {
	reportService report.ReportService
}

func NewReportHandler(reportService report.ReportService) ReportHandler {
	return &reportHandlerImpl{
		reportService: reportService,
	}
}

// ExportCheckClocks handles GET /check-clocks/export. It accepts the same
// query parameters as the range view.
func (h *reportHandlerImpl) ExportCheckClocks(w http.ResponseWriter, r *http.Request) {
	file, err := h.reportService.ExportCheckClocks(r.Context(), middleware.CompanyIDFromContext(r.Context()), rangeFilterFromQuery(r))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.File(w, file.FileName, file.ContentType, file.Content)
}
