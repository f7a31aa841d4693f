package export

import (
	"fmt"
	"io"
	"strings"
	"time"

	"glrfill/internal/domain"
)

// ParseFormat resolves a format name, defaulting to CSV when empty.
func ParseFormat(s string) (domain.ExportFormat, error) {
	switch domain.ExportFormat(strings.ToLower(strings.TrimSpace(s))) {
	case "", domain.ExportFormatCSV:
		return domain.ExportFormatCSV, nil
	case domain.ExportFormatXLSX:
		return domain.ExportFormatXLSX, nil
	default:
		return "", fmt.Errorf("%w: %q", domain.ErrUnsupportedFormat, s)
	}
}

// Write writes fields to out in the given format.
func Write(out io.Writer, format domain.ExportFormat, fields domain.FieldMapping) error {
	switch format {
	case domain.ExportFormatCSV:
		return WriteCSV(out, fields)
	case domain.ExportFormatXLSX:
		return WriteXLSX(out, fields)
	default:
		return fmt.Errorf("%w: %q", domain.ErrUnsupportedFormat, format)
	}
}

// ContentType returns the MIME type for format.
func ContentType(format domain.ExportFormat) string {
	if format == domain.ExportFormatXLSX {
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}
	return "text/csv; charset=utf-8"
}

// BuildFilename returns the Content-Disposition filename for an export.
// Format: fields_{YYYY-MM-DD}.{format}
func BuildFilename(format domain.ExportFormat, now time.Time) string {
	return fmt.Sprintf("fields_%s.%s", now.Format("2006-01-02"), format)
}
