package cmd

import (
	"fmt"
	"path/filepath"

	"gopontos/ledger"
	"gopontos/spreadsheet"
	"gopontos/storage"

	"github.com/spf13/cobra"
)

var (
	importInputs  []string
	importDBPath  string
	importVerbose bool
)

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Import CSV/Excel sales spreadsheets into the local points ledger",
	Long: `Read partner sales exports, normalize each row into a points-ledger record,
and persist valid rows in SQLite.

Header position and column spellings are detected automatically. Rows that fail
validation are reported individually and never abort the remaining rows; the
import only fails outright when the file is unreadable or the mandatory CNPJ
and points columns cannot be found.`,
	Example: `
  # Import one spreadsheet
  gopontos import -i VendasMarco2024.xlsx

  # Import several files into an explicit database
  gopontos import -i vendas1.xlsx -i vendas2.csv --db ./gopontos.db

  # Print each row-level diagnostic
  gopontos import -i VendasMarco2024.xlsx --verbose
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := storage.OpenSQLite(importDBPath)
		if err != nil {
			return err
		}
		defer store.Close()

		options := spreadsheet.Options{}
		if importVerbose {
			options.Log = func(format string, args ...any) {
				fmt.Printf(format+"\n", args...)
			}
		}

		for _, input := range importInputs {
			result, err := spreadsheet.Process(input, options)
			if err != nil {
				return err
			}

			inserted, err := store.InsertSources(ledger.SourcesFromResult(result, filepath.Base(input)))
			if err != nil {
				return err
			}

			fmt.Printf("Import completed for %s. Rows: %d, Valid: %d, Errors: %d, Persisted: %d\n",
				input,
				result.TotalRows,
				result.ValidRows,
				result.ErrorRows,
				inserted,
			)
			for _, row := range result.Rows {
				if row.Error != "" {
					fmt.Printf("  row %d: %s\n", row.RowNumber, row.Error)
				}
			}
		}

		return nil
	},
}

func init() {
	rootCmd.AddCommand(importCmd)

	importCmd.Flags().StringArrayVarP(&importInputs, "input", "i", nil, "Input file path (repeatable)")
	importCmd.Flags().StringVar(&importDBPath, "db", "./gopontos.db", "Path to local SQLite database")
	importCmd.Flags().BoolVar(&importVerbose, "verbose", false, "Print per-row pipeline diagnostics")

	_ = importCmd.MarkFlagRequired("input")
}
