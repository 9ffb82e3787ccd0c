package spreadsheet

import (
	"fmt"
	"strings"

	"gopontos/internal/textutil"
)

// Field identifies one canonical record field that header spellings map onto.
type Field string

const (
	FieldSaleID        Field = "saleId"
	FieldSaleDate      Field = "saleDate"
	FieldCNPJ          Field = "cnpj"
	FieldAgencyName    Field = "agencyName"
	FieldBranch        Field = "branch"
	FieldStore         Field = "store"
	FieldExecutiveName Field = "executiveName"
	FieldSupplier      Field = "supplier"
	FieldProductName   Field = "productName"
	FieldCompany       Field = "company"
	FieldPoints        Field = "points"
)

// fieldOrder fixes the resolution order so the same file always resolves the
// same way regardless of map iteration.
var fieldOrder = []Field{
	FieldSaleID,
	FieldSaleDate,
	FieldCNPJ,
	FieldAgencyName,
	FieldBranch,
	FieldStore,
	FieldExecutiveName,
	FieldSupplier,
	FieldProductName,
	FieldCompany,
	FieldPoints,
}

// mandatoryFields must resolve to a column for a file to be processable.
var mandatoryFields = []Field{FieldCNPJ, FieldPoints}

// columnSpellings maps each canonical field to the header labels seen in
// partner exports. Labels match lower-cased first; the fallback pass also
// ignores accents, spacing and punctuation, so "CNPJ/CPF", "cnpjcpf" and
// "CNPJ-CPF" are all equivalent.
var columnSpellings = map[Field][]string{
	FieldSaleID:        {"vendaid", "venda id", "id venda", "idvenda", "venda", "nr venda", "numero venda", "número venda"},
	FieldSaleDate:      {"data", "data venda", "data da venda", "dt venda", "data de venda", "date"},
	FieldCNPJ:          {"cnpj", "cnpj/cpf", "cnpjcpf", "cnpj-cpf", "cpf", "cnpj cpf", "documento"},
	FieldAgencyName:    {"agencia", "agência", "nome agencia", "nome da agencia", "nome agência"},
	FieldBranch:        {"filial", "nome filial"},
	FieldStore:         {"posto", "loja", "ponto de venda", "pdv"},
	FieldExecutiveName: {"promotor", "nome promotor", "executivo", "nome executivo", "vendedor"},
	FieldSupplier:      {"fornecedor", "nome fornecedor"},
	FieldProductName:   {"produto", "nome produto", "descricao produto", "descrição produto"},
	FieldCompany:       {"empresa", "nome empresa"},
	FieldPoints:        {"pontos", "ponto", "pontuacao", "pontuação", "qtd pontos", "quantidade pontos", "points"},
}

// MissingColumnsError is the fatal error raised when a mandatory canonical
// field never resolves to any header column.
type MissingColumnsError struct {
	Missing  []Field
	Searched map[Field][]string
	Headers  []string
}

func (e *MissingColumnsError) Error() string {
	parts := make([]string, 0, len(e.Missing))
	for _, field := range e.Missing {
		parts = append(parts, fmt.Sprintf("%s (searched: %s)", field, strings.Join(e.Searched[field], ", ")))
	}
	return fmt.Sprintf(
		"required columns not found: %s; header cells found: %s",
		strings.Join(parts, "; "),
		strings.Join(e.Headers, ", "),
	)
}

// resolveColumns maps canonical fields to column indices within the header
// row. Headers are expected lower-cased and trimmed (see locateHeader). The
// first matching column wins per field and is never overwritten.
func resolveColumns(headers []string) (map[Field]int, error) {
	resolved := make(map[Field]int, len(fieldOrder))
	for _, field := range fieldOrder {
		spellings := columnSpellings[field]
		if index, ok := matchColumn(headers, spellings, exactHeaderKey); ok {
			resolved[field] = index
			continue
		}
		if index, ok := matchColumn(headers, spellings, foldHeaderKey); ok {
			resolved[field] = index
		}
	}

	missing := make([]Field, 0, len(mandatoryFields))
	for _, field := range mandatoryFields {
		if _, ok := resolved[field]; !ok {
			missing = append(missing, field)
		}
	}
	if len(missing) > 0 {
		searched := make(map[Field][]string, len(missing))
		for _, field := range missing {
			searched[field] = columnSpellings[field]
		}
		return nil, &MissingColumnsError{Missing: missing, Searched: searched, Headers: headers}
	}

	return resolved, nil
}

// matchColumn returns the first header index whose canonical form equals the
// canonical form of any recognized spelling.
func matchColumn(headers []string, spellings []string, canon func(string) string) (int, bool) {
	keys := make(map[string]bool, len(spellings))
	for _, spelling := range spellings {
		keys[canon(spelling)] = true
	}
	for index, header := range headers {
		key := canon(header)
		if key == "" {
			continue
		}
		if keys[key] {
			return index, true
		}
	}
	return 0, false
}

func exactHeaderKey(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}

var headerPunctuation = strings.NewReplacer(" ", "", "/", "", "-", "", "_", "", ".", "")

// foldHeaderKey is the stronger normalization: case, whitespace, punctuation
// and accents are all ignored.
func foldHeaderKey(value string) string {
	return headerPunctuation.Replace(textutil.Fold(strings.TrimSpace(value)))
}

// matchesKnownColumn reports whether the label folds onto any recognized
// spelling of any canonical field.
func matchesKnownColumn(label string) bool {
	key := foldHeaderKey(label)
	if key == "" {
		return false
	}
	for _, field := range fieldOrder {
		for _, spelling := range columnSpellings[field] {
			if foldHeaderKey(spelling) == key {
				return true
			}
		}
	}
	return false
}
