package export

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"

	"gopontos/ledger"
)

type CSVWriter struct{}

func (w *CSVWriter) Write(path string, sources []ledger.Source) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create csv output %s: %w", path, err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	if err := writer.Write(sourceHeaders); err != nil {
		return fmt.Errorf("write csv headers: %w", err)
	}

	for _, source := range sources {
		if err := writer.Write(sourceValues(source)); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}

	if err := writer.Error(); err != nil {
		return fmt.Errorf("flush csv output: %w", err)
	}

	return nil
}

var sourceHeaders = []string{
	"SaleID",
	"SaleDate",
	"CNPJ",
	"AgencyName",
	"Branch",
	"Store",
	"ExecutiveName",
	"Supplier",
	"ProductName",
	"Company",
	"Points",
	"SourceFile",
	"RowNumber",
}

func sourceValues(source ledger.Source) []string {
	return []string{
		source.SaleID,
		source.SaleDate,
		source.CNPJ,
		source.AgencyName,
		source.Branch,
		source.Store,
		source.ExecutiveName,
		source.Supplier,
		source.ProductName,
		source.Company,
		strconv.FormatFloat(source.Points, 'f', -1, 64),
		source.SourceFile,
		strconv.Itoa(source.RowNumber),
	}
}
