package transform

import (
	"errors"
	"fmt"

	"github.com/lib/pq"
)

// describePQError resume o erro do PostgreSQL com o código SQLSTATE
func describePQError(err error) string {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return fmt.Sprintf("erro do PostgreSQL %s (%s)", pqErr.Code, pqErr.Code.Name())
	}
	return "erro ao executar statement"
}
