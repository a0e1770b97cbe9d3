// Package repository contém as implementações dos repositórios para acesso aos dados
package repository

import (
	"errors"
	"fmt"

	"github.com/lib/pq"
)

// ErrTableNotFound indica que a tabela derivada ainda não foi materializada
var ErrTableNotFound = errors.New("table not materialized yet")

const undefinedTable = pq.ErrorCode("42P01")

// queryError traduz relation does not exist para ErrTableNotFound
func queryError(table string, err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == undefinedTable {
		return fmt.Errorf("%s: %w", table, ErrTableNotFound)
	}
	return fmt.Errorf("erro ao executar a query: %w", err)
}
