// Package cli implements the glrfill command line: a one-shot fill run over
// local files plus helper subcommands.
package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"glrfill/internal/config"
	"glrfill/internal/domain"
	"glrfill/internal/export"
	"glrfill/internal/extract"
	"glrfill/internal/filler"
	"glrfill/internal/llm"
	"glrfill/internal/logging"
	"glrfill/internal/service"
)

type fillOptions struct {
	template  string
	reports   []string
	out       string
	fieldsOut string
	verbose   bool
}

// NewRootCmd builds the glrfill command tree. Stage progress and logs go to
// stderr; stdout carries only command output.
func NewRootCmd() *cobra.Command {
	opts := &fillOptions{}

	cmd := &cobra.Command{
		Use:   "glrfill",
		Short: "Fill a DOCX report template from PDF reports using an LLM",
		Long: "glrfill extracts text from one or more PDF reports and a DOCX template,\n" +
			"asks the configured LLM for a placeholder to value mapping, and writes\n" +
			"the template with every placeholder substituted.",
		SilenceUsage: true,
		Args:         cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFill(cmd.Context(), cmd.OutOrStdout(), cmd.ErrOrStderr(), opts)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.template, "template", "t", "", "DOCX template containing placeholders")
	f.StringArrayVarP(&opts.reports, "report", "r", nil, "PDF report (repeatable)")
	f.StringVarP(&opts.out, "out", "o", domain.OutputFileName, "path of the filled document")
	f.StringVar(&opts.fieldsOut, "fields-out", "", "also write the field mapping (.json, .csv or .xlsx)")
	f.BoolVarP(&opts.verbose, "verbose", "v", false, "log at debug level")

	cmd.AddCommand(newExtractCmd())
	cmd.AddCommand(newVersionCmd())
	return cmd
}

func runFill(ctx context.Context, stdout, stderr io.Writer, opts *fillOptions) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if opts.verbose {
		cfg.Log.Level = "debug"
	}
	logger := logging.New(stderr, cfg.Log)

	var fieldsFormat string
	if opts.fieldsOut != "" {
		fieldsFormat, err = fieldsOutputFormat(opts.fieldsOut)
		if err != nil {
			return err
		}
	}

	input := service.FillInput{
		Progress: func(stage string) { fmt.Fprintln(stderr, stage) },
	}
	if opts.template != "" {
		u, err := readUpload(opts.template)
		if err != nil {
			return err
		}
		input.Template = &u
	}
	for _, path := range opts.reports {
		u, err := readUpload(path)
		if err != nil {
			return err
		}
		input.Reports = append(input.Reports, u)
	}

	gateway, err := llm.NewGateway(cfg.LLM, logger)
	if err != nil {
		return err
	}
	svc := service.NewFillService(
		extract.NewExtractor(logger),
		gateway,
		filler.New(),
		&cfg.Upload,
		logger,
	)

	result, err := svc.Run(ctx, input)
	if err != nil {
		return err
	}

	if err := os.WriteFile(opts.out, result.Document, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", opts.out, err)
	}
	if opts.fieldsOut != "" {
		if err := writeFields(opts.fieldsOut, fieldsFormat, result.Fields); err != nil {
			return err
		}
	}

	fmt.Fprintf(stdout, "Wrote %s (%d fields)\n", opts.out, len(result.Fields))
	logger.Debug("fill written", "out", opts.out, "fields_out", opts.fieldsOut)
	return nil
}

func readUpload(path string) (domain.Upload, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return domain.Upload{}, fmt.Errorf("read %s: %w", path, err)
	}
	return domain.Upload{Name: filepath.Base(path), Data: data}, nil
}

func fieldsOutputFormat(path string) (string, error) {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	if ext == "json" {
		return ext, nil
	}
	format, err := export.ParseFormat(ext)
	if err != nil || ext == "" {
		return "", fmt.Errorf("%w: %s", domain.ErrUnsupportedFormat, path)
	}
	return string(format), nil
}

func writeFields(path, format string, fields domain.FieldMapping) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer func() {
		err = errors.Join(err, f.Close())
	}()

	if format == "json" {
		enc := json.NewEncoder(f)
		enc.SetIndent("", "  ")
		return enc.Encode(map[string]domain.FieldMapping{"fields": fields})
	}
	return export.Write(f, domain.ExportFormat(format), fields)
}

// Execute runs the root command and returns the process exit code. Cobra
// prints the error itself.
func Execute(ctx context.Context) int {
	if err := NewRootCmd().ExecuteContext(ctx); err != nil {
		return 1
	}
	return 0
}
