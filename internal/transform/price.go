package transform

import (
	"regexp"
	"strconv"
)

// maxPriceLength limita o texto convertido; acima disso o CAST para FLOAT
// pode estourar (SQLSTATE 22003)
const maxPriceLength = 300

var (
	nonNumericRegexp = regexp.MustCompile(`[^0-9.]`)
	// numericRegexp aceita apenas o que o PostgreSQL consegue converter para FLOAT
	numericRegexp = regexp.MustCompile(`^([0-9]+\.?[0-9]*|\.[0-9]+)$`)
)

// ParsePrice aplica a mesma normalização usada em SQL: remove tudo que não for
// dígito ou ponto e converte o restante. Retorna false quando o preço é nulo.
//
//	"$1,234.50" → 1234.50
//	""          → nulo
func ParsePrice(raw string) (float64, bool) {
	stripped := nonNumericRegexp.ReplaceAllString(raw, "")
	if len(stripped) > maxPriceLength || !numericRegexp.MatchString(stripped) {
		return 0, false
	}

	price, err := strconv.ParseFloat(stripped, 64)
	if err != nil {
		return 0, false
	}

	return price, true
}

// priceExpr gera a expressão SQL equivalente a ParsePrice para a coluna informada
func priceExpr(column string) string {
	stripped := "regexp_replace(" + column + "::TEXT, '[^0-9.]', '', 'g')"
	return "CASE WHEN " + stripped + ` ~ '^([0-9]+\.?[0-9]*|\.[0-9]+)$'` +
		" AND length(" + stripped + ") <= " + strconv.Itoa(maxPriceLength) +
		" THEN CAST(" + stripped + " AS FLOAT) END"
}
