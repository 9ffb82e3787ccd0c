package spreadsheet

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
)

type CSVReader struct{}

func (r *CSVReader) Read(path string) (RawWorksheet, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open csv file %s: %w", path, err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1

	ws := make(RawWorksheet, 0, 128)
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv row %d: %w", len(ws)+1, err)
		}

		cells := make([]Cell, len(row))
		for i, raw := range row {
			cells[i] = classifyCell(raw)
		}
		ws = append(ws, cells)
	}

	if len(ws) == 0 {
		return nil, fmt.Errorf("csv file %s is empty", path)
	}

	return ws, nil
}
