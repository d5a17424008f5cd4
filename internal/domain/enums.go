package domain

// FailureKind classifies why a single upload produced no result.
type FailureKind string

const (
	FailureQuota FailureKind = "quota"
	FailureOther FailureKind = "other"
)

// ExportFormat selects how a batch outcome is returned to the caller.
type ExportFormat string

const (
	ExportJSON ExportFormat = "json"
	ExportZip  ExportFormat = "zip"
	ExportCSV  ExportFormat = "csv"
	ExportXLSX ExportFormat = "xlsx"
)

// ParseExportFormat maps a query value to an ExportFormat. Empty means JSON.
func ParseExportFormat(s string) (ExportFormat, error) {
	switch ExportFormat(s) {
	case "", ExportJSON:
		return ExportJSON, nil
	case ExportZip, ExportCSV, ExportXLSX:
		return ExportFormat(s), nil
	default:
		return "", ErrUnsupportedFormat
	}
}

// AllowedExtensions lists the image extensions offered by the upload surfaces.
// Anything else is still attempted; it simply fails to decode.
var AllowedExtensions = map[string]string{
	"jpg":  "image/jpeg",
	"jpeg": "image/jpeg",
	"png":  "image/png",
}
