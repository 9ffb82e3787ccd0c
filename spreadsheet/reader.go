package spreadsheet

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Reader loads a source file into a raw worksheet.
type Reader interface {
	Read(path string) (RawWorksheet, error)
}

// ReaderForPath selects a reader by file extension.
func ReaderForPath(path string) (Reader, error) {
	extension := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	switch extension {
	case "csv":
		return &CSVReader{}, nil
	case "xlsx", "xlsm", "xls":
		return &ExcelReader{}, nil
	default:
		return nil, fmt.Errorf("unsupported spreadsheet extension for %s", path)
	}
}
