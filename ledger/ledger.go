package ledger

import "gopontos/spreadsheet"

// Source is one persisted points-ledger record produced from a spreadsheet row.
type Source struct {
	ID            int64
	SaleID        string
	SaleDate      string
	CNPJ          string
	AgencyName    string
	Branch        string
	Store         string
	ExecutiveName string
	Supplier      string
	ProductName   string
	Company       string
	Points        float64
	SourceFile    string
	RowNumber     int
}

// Redemption records points spent by a partner on one catalog product.
type Redemption struct {
	ID        int64
	CNPJ      string
	ProductID int64
	Points    float64
}

// Balance is the current points position of one CNPJ.
type Balance struct {
	CNPJ      string  `json:"cnpj"`
	Earned    float64 `json:"earned"`
	Redeemed  float64 `json:"redeemed"`
	Available float64 `json:"available"`
}

// SourcesFromResult converts the valid rows of a processing result into
// ledger sources. Error rows are skipped; they stay in the report only.
func SourcesFromResult(result *spreadsheet.Result, sourceFile string) []Source {
	if result == nil {
		return nil
	}

	sources := make([]Source, 0, result.ValidRows)
	for _, row := range result.Rows {
		if row.Item == nil {
			continue
		}
		sources = append(sources, Source{
			SaleID:        row.Item.SaleID,
			SaleDate:      row.Item.SaleDate,
			CNPJ:          row.Item.CNPJ,
			AgencyName:    row.Item.AgencyName,
			Branch:        row.Item.Branch,
			Store:         row.Item.Store,
			ExecutiveName: row.Item.ExecutiveName,
			Supplier:      row.Item.Supplier,
			ProductName:   row.Item.ProductName,
			Company:       row.Item.Company,
			Points:        row.Item.Points,
			SourceFile:    sourceFile,
			RowNumber:     row.RowNumber,
		})
	}
	return sources
}
