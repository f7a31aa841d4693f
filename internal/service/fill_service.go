package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"glrfill/internal/config"
	"glrfill/internal/domain"
	"glrfill/internal/port"
)

// FillInput is the DTO for one fill run. Template is nil when no template
// was uploaded.
type FillInput struct {
	Template *domain.Upload
	Reports  []domain.Upload
	// Progress, if set, receives each stage label as the run reaches it.
	Progress func(stage string)
}

// FillService defines the fill pipeline contract.
type FillService interface {
	Run(ctx context.Context, input FillInput) (*domain.FillResult, error)
}

type fillService struct {
	extractor port.TextExtractor
	inferrer  port.FieldInferrer
	filler    port.TemplateFiller
	maxBytes  int64
	logger    *slog.Logger
}

// NewFillService creates a new FillService implementation.
func NewFillService(
	extractor port.TextExtractor,
	inferrer port.FieldInferrer,
	filler port.TemplateFiller,
	uploadCfg *config.UploadConfig,
	logger *slog.Logger,
) FillService {
	if logger == nil {
		logger = slog.Default()
	}
	return &fillService{
		extractor: extractor,
		inferrer:  inferrer,
		filler:    filler,
		maxBytes:  uploadCfg.MaxFileSizeBytes(),
		logger:    logger.With("component", "fill"),
	}
}

func (s *fillService) Run(ctx context.Context, input FillInput) (*domain.FillResult, error) {
	if input.Template == nil {
		return nil, domain.ErrTemplateRequired
	}
	if len(input.Reports) == 0 {
		return nil, domain.ErrReportsRequired
	}

	if err := CheckUpload(domain.FileKindTemplate, *input.Template, s.maxBytes); err != nil {
		return nil, err
	}
	for _, r := range input.Reports {
		if err := CheckUpload(domain.FileKindReport, r, s.maxBytes); err != nil {
			return nil, err
		}
	}

	start := time.Now()
	log := s.logger.With("template", input.Template.Name, "reports", len(input.Reports))

	s.stage(log, input.Progress, domain.StageExtractReports)
	reportText, err := s.extractor.ReportText(ctx, input.Reports)
	if err != nil {
		log.Error("report extraction failed", "error", err)
		return nil, err
	}

	s.stage(log, input.Progress, domain.StageReadTemplate)
	templateText, err := s.extractor.TemplateText(input.Template.Data)
	if err != nil {
		log.Error("template extraction failed", "error", err)
		return nil, err
	}

	s.stage(log, input.Progress, domain.StageCallLLM)
	fields, err := s.inferrer.InferFields(ctx, templateText, reportText)
	if err != nil {
		log.Error("field inference failed", "error", err)
		return nil, err
	}

	s.stage(log, input.Progress, domain.StageGenerateDocx)
	doc, err := s.filler.Fill(input.Template.Data, fields)
	if err != nil {
		log.Error("template fill failed", "error", err)
		return nil, fmt.Errorf("filling template: %w", err)
	}

	log.Info("fill completed",
		"fields", len(fields),
		"report_chars", len(reportText),
		"output_bytes", len(doc),
		"duration", time.Since(start),
	)

	return &domain.FillResult{
		Fields:   fields,
		Document: doc,
		FileName: domain.OutputFileName,
	}, nil
}

func (s *fillService) stage(log *slog.Logger, progress func(string), stage string) {
	log.Info("fill stage", "stage", stage)
	if progress != nil {
		progress(stage)
	}
}
