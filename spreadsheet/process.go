package spreadsheet

import "fmt"

// DefaultExecutiveName is recorded when a row carries no promoter value or
// the promoter column is absent from the file entirely.
const DefaultExecutiveName = "Sem Promotor"

// ImportItem is one validated sales row, ready to become a points-ledger
// source record.
type ImportItem struct {
	SaleID        string  `json:"saleId,omitempty"`
	SaleDate      string  `json:"saleDate"` // YYYY-MM-DD
	CNPJ          string  `json:"cnpj"`
	AgencyName    string  `json:"agencyName,omitempty"`
	Branch        string  `json:"branch,omitempty"`
	Store         string  `json:"store,omitempty"`
	ExecutiveName string  `json:"executiveName"`
	Supplier      string  `json:"supplier,omitempty"`
	ProductName   string  `json:"productName,omitempty"`
	Company       string  `json:"company,omitempty"`
	Points        float64 `json:"points"`
}

// ProcessedRow is the outcome for one data row. Exactly one of Item and
// Error is populated. RowNumber is the absolute 1-indexed sheet position.
type ProcessedRow struct {
	RowNumber int         `json:"rowNumber"`
	Item      *ImportItem `json:"data,omitempty"`
	Error     string      `json:"error,omitempty"`
}

// Result aggregates all processed rows of one file. Fully blank rows are
// excluded from Rows and from every count.
type Result struct {
	Rows      []ProcessedRow `json:"rows"`
	TotalRows int            `json:"totalRows"`
	ValidRows int            `json:"validRows"`
	ErrorRows int            `json:"errorRows"`
}

// Options carries optional collaborators for one processing run.
type Options struct {
	// Log receives diagnostic events; nil disables diagnostics entirely.
	Log func(format string, args ...any)
}

func (o Options) logf(format string, args ...any) {
	if o.Log != nil {
		o.Log(format, args...)
	}
}

// Process reads the spreadsheet at path and normalizes every data row. It
// returns an error, and no partial result, for file-level failures: an
// unreadable file, a workbook without sheets or rows, or unresolvable
// mandatory columns. Row-level problems never fail the file; they are
// reported per row in the result.
func Process(path string, opts Options) (*Result, error) {
	reader, err := ReaderForPath(path)
	if err != nil {
		return nil, err
	}

	ws, err := reader.Read(path)
	if err != nil {
		return nil, fmt.Errorf("read spreadsheet %s: %w", path, err)
	}

	result, err := ProcessWorksheet(ws, opts)
	if err != nil {
		return nil, fmt.Errorf("process spreadsheet %s: %w", path, err)
	}
	return result, nil
}

// ProcessWorksheet runs the pipeline on an in-memory worksheet: header
// discovery, column resolution, then per-row normalization and validation.
func ProcessWorksheet(ws RawWorksheet, opts Options) (*Result, error) {
	if len(ws) == 0 {
		return nil, fmt.Errorf("worksheet has no rows")
	}

	headerIndex, headers := locateHeader(ws)
	columns, err := resolveColumns(headers)
	if err != nil {
		return nil, err
	}
	opts.logf("header at row %d, %d columns resolved", headerIndex+1, len(columns))

	result := &Result{Rows: make([]ProcessedRow, 0, len(ws))}
	for i := headerIndex + 1; i < len(ws); i++ {
		if rowIsBlank(ws[i]) {
			continue
		}

		processed := processRow(i+1, ws[i], columns)
		if processed.Error != "" {
			result.ErrorRows++
			opts.logf("row %d rejected: %s", processed.RowNumber, processed.Error)
		} else {
			result.ValidRows++
		}
		result.Rows = append(result.Rows, processed)
	}
	result.TotalRows = len(result.Rows)

	return result, nil
}

// processRow validates one data row. Unexpected panics are converted into a
// row error so a single malformed row can never abort the file.
func processRow(rowNumber int, row []Cell, columns map[Field]int) (processed ProcessedRow) {
	processed = ProcessedRow{RowNumber: rowNumber}
	defer func() {
		if r := recover(); r != nil {
			processed.Item = nil
			processed.Error = fmt.Sprintf("unexpected failure processing row: %v", r)
		}
	}()

	cnpjIndex, cnpjOK := columns[FieldCNPJ]
	pointsIndex, pointsOK := columns[FieldPoints]
	if !cnpjOK || !pointsOK {
		processed.Error = "required column indices not found"
		return processed
	}

	cnpj, ok := normalizeString(cellAt(row, cnpjIndex))
	if !ok {
		processed.Error = "CNPJ/CPF is required"
		return processed
	}

	executive := DefaultExecutiveName
	if index, resolved := columns[FieldExecutiveName]; resolved {
		if value, present := normalizeString(cellAt(row, index)); present {
			executive = value
		}
	}

	points, ok := normalizePoints(cellAt(row, pointsIndex))
	if !ok {
		processed.Error = "points missing or invalid"
		return processed
	}

	rawDate := EmptyCell()
	if index, resolved := columns[FieldSaleDate]; resolved {
		rawDate = cellAt(row, index)
	}
	saleDate, ok := normalizeDate(rawDate)
	if !ok {
		processed.Error = fmt.Sprintf("invalid sale date %q", rawDate.String())
		return processed
	}

	processed.Item = &ImportItem{
		SaleID:        optionalField(row, columns, FieldSaleID),
		SaleDate:      saleDate,
		CNPJ:          cnpj,
		AgencyName:    optionalField(row, columns, FieldAgencyName),
		Branch:        optionalField(row, columns, FieldBranch),
		Store:         optionalField(row, columns, FieldStore),
		ExecutiveName: executive,
		Supplier:      optionalField(row, columns, FieldSupplier),
		ProductName:   optionalField(row, columns, FieldProductName),
		Company:       optionalField(row, columns, FieldCompany),
		Points:        points,
	}
	return processed
}

func optionalField(row []Cell, columns map[Field]int, field Field) string {
	index, ok := columns[field]
	if !ok {
		return ""
	}
	value, ok := normalizeString(cellAt(row, index))
	if !ok {
		return ""
	}
	return value
}

func cellAt(row []Cell, index int) Cell {
	if index < 0 || index >= len(row) {
		return EmptyCell()
	}
	return row[index]
}

func rowIsBlank(row []Cell) bool {
	for _, cell := range row {
		if !cell.IsBlank() {
			return false
		}
	}
	return true
}
