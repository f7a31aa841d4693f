package cli

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"glrfill/internal/domain"
	"glrfill/internal/extract"
)

func newExtractCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "extract FILE...",
		Short: "Print the text the LLM would see for PDF reports or a DOCX template",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e := extract.NewExtractor(nil)
			var reports []domain.Upload
			for _, path := range args {
				u, err := readUpload(path)
				if err != nil {
					return err
				}
				switch strings.ToLower(filepath.Ext(path)) {
				case ".pdf":
					reports = append(reports, u)
				case ".docx":
					text, err := e.TemplateText(u.Data)
					if err != nil {
						return err
					}
					fmt.Fprintln(cmd.OutOrStdout(), text)
				default:
					return fmt.Errorf("%w: %s", domain.ErrUnsupportedFileType, path)
				}
			}
			if len(reports) == 0 {
				return nil
			}
			text, err := e.ReportText(cmd.Context(), reports)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), text)
			return nil
		},
	}
}
