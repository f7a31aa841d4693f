package port

import (
	"context"

	"glrfill/internal/domain"
)

// TextExtractor turns uploaded files into the text blobs sent to the LLM.
type TextExtractor interface {
	ReportText(ctx context.Context, reports []domain.Upload) (string, error)
	TemplateText(data []byte) (string, error)
}

// FieldInferrer asks the LLM for a placeholder → value mapping.
type FieldInferrer interface {
	InferFields(ctx context.Context, templateText, reportText string) (domain.FieldMapping, error)
}

// TemplateFiller substitutes placeholders in a template and serializes the result.
type TemplateFiller interface {
	Fill(template []byte, fields domain.FieldMapping) ([]byte, error)
}
