package spreadsheet

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

type ExcelReader struct{}

// Read loads the first sheet of the workbook. Raw cell values are requested
// so date cells arrive as their native day-count numbers instead of
// locale-formatted text.
func (r *ExcelReader) Read(path string) (RawWorksheet, error) {
	file, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open excel file %s: %w", path, err)
	}
	defer file.Close()

	sheetName := file.GetSheetName(0)
	if sheetName == "" {
		return nil, fmt.Errorf("excel file has no sheets: %s", path)
	}

	rows, err := file.GetRows(sheetName, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("read rows from sheet %s: %w", sheetName, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("sheet %s is empty", sheetName)
	}

	ws := make(RawWorksheet, 0, len(rows))
	for _, row := range rows {
		cells := make([]Cell, len(row))
		for i, raw := range row {
			cells[i] = classifyCell(raw)
		}
		ws = append(ws, cells)
	}

	return ws, nil
}
