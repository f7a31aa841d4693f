package domain

// FileKind distinguishes the two upload slots.
type FileKind string

const (
	FileKindTemplate FileKind = "template"
	FileKindReport   FileKind = "report"
)

// AllowedExtensions maps each upload slot to the file extension it accepts.
var AllowedExtensions = map[FileKind]string{
	FileKindTemplate: ".docx",
	FileKindReport:   ".pdf",
}

// ExportFormat is an output format for a field mapping export.
type ExportFormat string

const (
	ExportFormatCSV  ExportFormat = "csv"
	ExportFormatXLSX ExportFormat = "xlsx"
)

// Pipeline stages reported while a fill run progresses.
const (
	StageExtractReports = "Extracting PDF text..."
	StageReadTemplate   = "Reading template..."
	StageCallLLM        = "Calling LLM..."
	StageGenerateDocx   = "Generating DOCX..."
)
