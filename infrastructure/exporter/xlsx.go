package exporter

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"
)

const defaultSheet = "Sheet1"

// WriteXLSX grava um workbook com uma aba por dataset e cabeçalho em negrito
func WriteXLSX(path string, datasets ...Dataset) error {
	if len(datasets) == 0 {
		return fmt.Errorf("xlsx: nenhum dataset para exportar")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("xlsx: erro ao criar diretório de saída: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	headerStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("xlsx: erro ao criar estilo do cabeçalho: %w", err)
	}

	for i, ds := range datasets {
		if i == 0 {
			if err := f.SetSheetName(defaultSheet, ds.Name); err != nil {
				return fmt.Errorf("xlsx: erro ao renomear aba: %w", err)
			}
		} else if _, err := f.NewSheet(ds.Name); err != nil {
			return fmt.Errorf("xlsx: erro ao criar aba %s: %w", ds.Name, err)
		}

		if err := writeSheet(f, ds); err != nil {
			return err
		}
		if err := f.SetRowStyle(ds.Name, 1, 1, headerStyle); err != nil {
			return fmt.Errorf("xlsx: erro ao aplicar estilo em %s: %w", ds.Name, err)
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("xlsx: erro ao salvar %q: %w", path, err)
	}
	return nil
}

func writeSheet(f *excelize.File, ds Dataset) error {
	header := make([]any, len(ds.Header))
	for i, column := range ds.Header {
		header[i] = column
	}
	if err := f.SetSheetRow(ds.Name, "A1", &header); err != nil {
		return fmt.Errorf("xlsx: erro ao escrever cabeçalho de %s: %w", ds.Name, err)
	}

	for i, row := range ds.Rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		values := make([]any, len(row))
		for j, value := range row {
			values[j] = sheetValue(value)
		}
		if err := f.SetSheetRow(ds.Name, cell, &values); err != nil {
			return fmt.Errorf("xlsx: erro ao escrever linha %d de %s: %w", i+2, ds.Name, err)
		}
	}
	return nil
}

// sheetValue mantém números como números; ponteiros nulos viram célula vazia
func sheetValue(value any) any {
	if v, ok := value.(*float64); ok {
		if v == nil {
			return nil
		}
		return *v
	}
	return value
}
