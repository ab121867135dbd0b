package report

import (
	"context"

	"github.com/cmlabs-hris/hris-checkclock-go/internal/domain/checkclock"
)

const ContentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ExportFile is a rendered download.
type ExportFile struct {
	FileName    string
	ContentType string
	Content     []byte
}

type ReportService interface {
	// ExportCheckClocks renders the range view selected by filter as an xlsx workbook.
	ExportCheckClocks(ctx context.Context, companyID string, filter checkclock.RangeFilter) (ExportFile, error)
}
