package export

import (
	"fmt"
	"math"
	"sort"

	"gopontos/ledger"
)

// CNPJSummary aggregates one partner's imported point sources.
type CNPJSummary struct {
	CNPJ          string
	FirstSaleDate string
	LastSaleDate  string
	TotalPoints   float64
	SourceCount   int
}

func BuildCNPJSummaries(sources []ledger.Source) []CNPJSummary {
	if len(sources) == 0 {
		return []CNPJSummary{}
	}

	byCNPJ := make(map[string][]ledger.Source)
	for _, source := range sources {
		byCNPJ[source.CNPJ] = append(byCNPJ[source.CNPJ], source)
	}

	cnpjs := make([]string, 0, len(byCNPJ))
	for cnpj := range byCNPJ {
		cnpjs = append(cnpjs, cnpj)
	}
	sort.Strings(cnpjs)

	summaries := make([]CNPJSummary, 0, len(cnpjs))
	for _, cnpj := range cnpjs {
		summaries = append(summaries, summarizeCNPJ(cnpj, byCNPJ[cnpj]))
	}

	return summaries
}

func summarizeCNPJ(cnpj string, sources []ledger.Source) CNPJSummary {
	// ISO dates sort lexicographically, so min/max on the string is enough.
	first := sources[0].SaleDate
	last := sources[0].SaleDate
	total := 0.0

	for _, source := range sources {
		if source.SaleDate < first {
			first = source.SaleDate
		}
		if source.SaleDate > last {
			last = source.SaleDate
		}
		total += source.Points
	}

	return CNPJSummary{
		CNPJ:          cnpj,
		FirstSaleDate: first,
		LastSaleDate:  last,
		TotalPoints:   roundPoints(total),
		SourceCount:   len(sources),
	}
}

func roundPoints(value float64) float64 {
	return math.Round(value*100) / 100
}

func WriteCNPJSummaries(path, format string, summaries []CNPJSummary) error {
	switch normalizeFormat(format) {
	case "csv":
		return writeCNPJSummariesCSV(path, summaries)
	case "excel", "xlsx":
		return writeCNPJSummariesExcel(path, summaries)
	default:
		return fmt.Errorf("unsupported output format for cnpj summaries: %s", format)
	}
}
