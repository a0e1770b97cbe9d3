package reporting

import (
	"errors"
	"fmt"

	"github.com/vfg2006/rental-analytics/infrastructure/repository"
	"github.com/vfg2006/rental-analytics/pkg/apiErrors"
)

// Erros específicos para os relatórios
var (
	// Erros de validação
	ErrInvalidCity  = errors.New("invalid city code")
	ErrInvalidLimit = errors.New("invalid limit")

	// Erros de consulta
	ErrListingNotFound = errors.New("listing not found in yield analysis")
	ErrRunNotFound     = errors.New("no pipeline run recorded")
	ErrNotMaterialized = errors.New("derived table not materialized yet")
	ErrFetchReport     = errors.New("error fetching report data")
)

// ReportError é um erro com o código da API associado
type ReportError struct {
	Err     error  // Erro base
	Code    string // Código de erro para API
	Details string // Detalhes adicionais
}

func (e *ReportError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s", e.Err.Error(), e.Details)
	}
	return e.Err.Error()
}

func (e *ReportError) Unwrap() error {
	return e.Err
}

func NewReportError(err error, code string, details string) *ReportError {
	return &ReportError{
		Err:     err,
		Code:    code,
		Details: details,
	}
}

// fromRepository traduz os erros de repositório para erros de relatório
func fromRepository(err error) *ReportError {
	if errors.Is(err, repository.ErrTableNotFound) {
		return NewReportError(ErrNotMaterialized, apiErrors.ErrNotMaterialized, err.Error())
	}
	return NewReportError(ErrFetchReport, apiErrors.ErrDatabaseOperation, err.Error())
}
