package transform

import (
	"context"
	"database/sql"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/vfg2006/rental-analytics/internal/domain"
)

// Stage é uma etapa do pipeline que reconstrói uma única tabela derivada
type Stage struct {
	Name      string
	Table     string
	DependsOn []string
	// Critical indica que a falha da etapa interrompe o pipeline
	Critical bool
	// Plan monta os statements da etapa; pode consultar o catálogo para
	// decidir quais tabelas brutas participam
	Plan func(ctx context.Context, catalog Catalog) ([]string, error)
}

// Transactor executa fn dentro de uma transação
type Transactor interface {
	RunInTransaction(ctx context.Context, fn func(*sql.Tx) error) error
}

// materialize executa a etapa inteira em uma transação. Em caso de falha o
// rollback preserva a versão anterior da tabela.
func materialize(ctx context.Context, tx Transactor, catalog Catalog, stage *Stage) (result domain.StageResult, err error) {
	result = domain.StageResult{
		Stage:     stage.Name,
		Table:     stage.Table,
		Critical:  stage.Critical,
		StartedAt: time.Now(),
	}
	defer func() {
		result.FinishedAt = time.Now()
		result.Duration = result.FinishedAt.Sub(result.StartedAt)
		if err != nil {
			result.Error = err.Error()
		}
	}()

	statements, err := stage.Plan(ctx, catalog)
	if err != nil {
		if errors.Is(err, ErrSourceMissing) && !stage.Critical {
			result.Status = domain.StageStatusSkipped
			return result, err
		}
		result.Status = domain.StageStatusFailed
		return result, &StageError{Stage: stage.Name, Table: stage.Table, Err: err}
	}

	err = tx.RunInTransaction(ctx, func(tx *sql.Tx) error {
		for _, statement := range statements {
			logrus.WithFields(logrus.Fields{
				"stage": stage.Name,
				"table": stage.Table,
			}).Debug(statement)

			if _, err := tx.ExecContext(ctx, statement); err != nil {
				return errors.Wrap(err, describePQError(err))
			}
		}
		return nil
	})
	if err != nil {
		result.Status = domain.StageStatusFailed
		return result, &StageError{Stage: stage.Name, Table: stage.Table, Err: err}
	}

	result.Status = domain.StageStatusSucceeded
	return result, nil
}
