// Package exporter grava os conjuntos de dados analíticos em CSV e XLSX
package exporter

import (
	"fmt"
	"strconv"
	"time"
)

// Dataset é uma tabela pronta para exportação
type Dataset struct {
	Name   string // nome do arquivo (sem extensão) e da aba do workbook
	Header []string
	Rows   [][]any
}

// Len retorna o número de linhas de dados
func (d Dataset) Len() int {
	return len(d.Rows)
}

// formatCell converte um valor de célula para texto no formato do CSV
func formatCell(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case *float64:
		if v == nil {
			return ""
		}
		return strconv.FormatFloat(*v, 'f', -1, 64)
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case bool:
		return strconv.FormatBool(v)
	case time.Time:
		return v.Format(time.RFC3339)
	default:
		return fmt.Sprint(v)
	}
}
