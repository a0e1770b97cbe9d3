package transform

import (
	"errors"
	"fmt"
)

var (
	// Erros de configuração do pipeline
	ErrNoCities          = errors.New("no cities configured")
	ErrInvalidCity       = errors.New("invalid city code")
	ErrDuplicateStage    = errors.New("duplicate stage")
	ErrUnknownDependency = errors.New("unknown stage dependency")
	ErrCyclicGraph       = errors.New("stage graph has a cycle")

	// Erros de execução
	ErrSourceMissing  = errors.New("source table missing")
	ErrPipelineLocked = errors.New("another pipeline run holds the lock")
)

// StageError identifica a etapa que falhou e a tabela que ela materializa
type StageError struct {
	Stage string
	Table string
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("stage %q (%s) failed: %v", e.Stage, e.Table, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}
