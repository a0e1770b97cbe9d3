package exporter

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
)

// WriteCSV grava o dataset em <dir>/<name>.csv, sobrescrevendo o arquivo anterior
func WriteCSV(dir string, ds Dataset) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("csv: erro ao criar diretório de saída: %w", err)
	}

	path := filepath.Join(dir, ds.Name+".csv")
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("csv: erro ao criar arquivo %q: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(ds.Header); err != nil {
		return "", fmt.Errorf("csv: erro ao escrever cabeçalho: %w", err)
	}

	record := make([]string, len(ds.Header))
	for _, row := range ds.Rows {
		for i := range record {
			record[i] = ""
			if i < len(row) {
				record[i] = formatCell(row[i])
			}
		}
		if err := w.Write(record); err != nil {
			return "", fmt.Errorf("csv: erro ao escrever linha: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return "", fmt.Errorf("csv: erro ao finalizar %q: %w", path, err)
	}

	return path, f.Close()
}
