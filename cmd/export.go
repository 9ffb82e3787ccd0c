package cmd

import (
	"fmt"
	"path/filepath"
	"strings"

	"gopontos/export"
	"gopontos/storage"

	"github.com/spf13/cobra"
)

var (
	exportFormat string
	exportMode   string
	exportOutput string
	exportDBPath string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export points-ledger records from SQLite to CSV/Excel",
	Long: `Export the points ledger from SQLite.

Modes:
- raw: export each imported ledger row
- summary: export per-CNPJ aggregates (sale date range, total points, row count)

Output format can be selected explicitly via --format or inferred from --output extension.`,
	Example: `
  # Export raw rows to CSV
  gopontos export --mode raw --db ./gopontos.db --output ./pontos.csv

  # Export raw rows to Excel
  gopontos export --mode raw --output ./pontos.xlsx

  # Export per-CNPJ summary to CSV
  gopontos export --mode summary --output ./resumo.csv

  # Force Excel format independent of extension
  gopontos export --mode summary --format excel --output ./resumo.out
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		format := exportFormat
		if strings.TrimSpace(format) == "" {
			format = detectExportFormat(exportOutput)
		}

		store, err := storage.OpenSQLite(exportDBPath)
		if err != nil {
			return err
		}
		defer store.Close()

		sources, err := store.ListSources()
		if err != nil {
			return err
		}

		mode := strings.TrimSpace(strings.ToLower(exportMode))
		switch mode {
		case "", "raw":
			writer, writerErr := export.WriterForFormat(format)
			if writerErr != nil {
				return writerErr
			}
			if err := writer.Write(exportOutput, sources); err != nil {
				return err
			}
			fmt.Printf("Export completed. Rows: %d, Mode: raw, Format: %s, File: %s\n", len(sources), format, exportOutput)
		case "summary":
			summaries := export.BuildCNPJSummaries(sources)
			if err := export.WriteCNPJSummaries(exportOutput, format, summaries); err != nil {
				return err
			}
			fmt.Printf("Export completed. Partners: %d, Mode: summary, Format: %s, File: %s\n", len(summaries), format, exportOutput)
		default:
			return fmt.Errorf("unsupported export mode: %s (supported: raw, summary)", exportMode)
		}
		return nil
	},
}

func detectExportFormat(path string) string {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	switch ext {
	case "csv":
		return "csv"
	case "xlsx", "xlsm", "xls":
		return "excel"
	default:
		return "csv"
	}
}

func init() {
	rootCmd.AddCommand(exportCmd)

	exportCmd.Flags().StringVar(&exportMode, "mode", "raw", "Export mode: raw|summary")
	exportCmd.Flags().StringVarP(&exportFormat, "format", "f", "", "Output format: csv|excel (optional, inferred from output extension)")
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "Output file path")
	exportCmd.Flags().StringVar(&exportDBPath, "db", "./gopontos.db", "Path to local SQLite database")

	_ = exportCmd.MarkFlagRequired("output")
}
