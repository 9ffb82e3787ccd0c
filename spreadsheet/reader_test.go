package spreadsheet

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/xuri/excelize/v2"
)

func writeTestWorkbook(t *testing.T, rows [][]any) string {
	t.Helper()

	file := excelize.NewFile()
	defer file.Close()

	sheet := file.GetSheetName(0)
	for r, row := range rows {
		for c, value := range row {
			cell, err := excelize.CoordinatesToCellName(c+1, r+1)
			if err != nil {
				t.Fatalf("cell name: %v", err)
			}
			if err := file.SetCellValue(sheet, cell, value); err != nil {
				t.Fatalf("set cell %s: %v", cell, err)
			}
		}
	}

	path := filepath.Join(t.TempDir(), "vendas.xlsx")
	if err := file.SaveAs(path); err != nil {
		t.Fatalf("save workbook: %v", err)
	}
	return path
}

func TestProcess_ExcelFile(t *testing.T) {
	t.Parallel()

	path := writeTestWorkbook(t, [][]any{
		{"Relatório de Vendas"},
		{},
		{},
		{"DATA", "CNPJ/CPF", "PROMOTOR", "PONTOS"},
		{"15/03/2024", "12345678901", "João", "100,50"},
		{44927, "98765432100", "", 25},
	})

	result, err := Process(path, Options{})
	if err != nil {
		t.Fatalf("process: %v", err)
	}

	if result.TotalRows != 2 || result.ValidRows != 2 || result.ErrorRows != 0 {
		t.Fatalf("unexpected counts: total=%d valid=%d error=%d", result.TotalRows, result.ValidRows, result.ErrorRows)
	}

	first := result.Rows[0].Item
	if first.SaleDate != "2024-03-15" || first.CNPJ != "12345678901" || first.Points != 100.5 || first.ExecutiveName != "João" {
		t.Fatalf("unexpected first item: %+v", first)
	}

	second := result.Rows[1].Item
	if second.SaleDate != "2023-01-01" {
		t.Fatalf("day-count date not converted: %+v", second)
	}
	if second.ExecutiveName != DefaultExecutiveName {
		t.Fatalf("blank promoter not defaulted: %+v", second)
	}
	if second.Points != 25 {
		t.Fatalf("unexpected points: %+v", second)
	}
}

func TestProcess_CSVFile(t *testing.T) {
	t.Parallel()

	content := "data,cnpj,pontos\n15/03/2024,111,10\n,222,20\n"
	path := filepath.Join(t.TempDir(), "vendas.csv")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write csv: %v", err)
	}

	result, err := Process(path, Options{})
	if err != nil {
		t.Fatalf("process: %v", err)
	}
	if result.TotalRows != 2 || result.ValidRows != 1 || result.ErrorRows != 1 {
		t.Fatalf("unexpected counts: total=%d valid=%d error=%d", result.TotalRows, result.ValidRows, result.ErrorRows)
	}
}

func TestProcess_MissingFileIsFatal(t *testing.T) {
	t.Parallel()

	if _, err := Process(filepath.Join(t.TempDir(), "missing.xlsx"), Options{}); err == nil {
		t.Fatalf("expected error for missing file")
	}
}

func TestProcess_UnsupportedExtension(t *testing.T) {
	t.Parallel()

	if _, err := Process("vendas.txt", Options{}); err == nil {
		t.Fatalf("expected error for unsupported extension")
	}
}

func TestReaderForPath(t *testing.T) {
	t.Parallel()

	if _, err := ReaderForPath("a.xlsx"); err != nil {
		t.Fatalf("xlsx reader: %v", err)
	}
	if _, err := ReaderForPath("a.csv"); err != nil {
		t.Fatalf("csv reader: %v", err)
	}
	if _, err := ReaderForPath("a.pdf"); err == nil {
		t.Fatalf("expected unsupported extension error")
	}
}
