package domain

import "errors"

var (
	ErrTemplateRequired    = errors.New("template file is required")
	ErrReportsRequired     = errors.New("at least one report file is required")
	ErrUnsupportedFileType = errors.New("unsupported file type")
	ErrFileTooLarge        = errors.New("file exceeds maximum allowed size")
	ErrExtractionFailed    = errors.New("text extraction failed")
	ErrLLMNotConfigured    = errors.New("llm credential is not configured")
	ErrLLMRequestFailed    = errors.New("llm request failed")
	ErrInvalidLLMResponse  = errors.New("llm response is not a valid field mapping")
	ErrUnknownProvider     = errors.New("unknown llm provider")
	ErrUnsupportedFormat   = errors.New("unsupported export format")
	ErrInvalidRequest      = errors.New("invalid request")
)
