package report

import "errors"

var ErrExportFailed = errors.New("failed to generate export file")
