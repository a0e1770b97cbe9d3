package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	jsoniter "github.com/json-iterator/go"
	"github.com/lib/pq"

	"github.com/vfg2006/rental-analytics/infrastructure/database/postgres"
	"github.com/vfg2006/rental-analytics/internal/domain"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const (
	pipelineRunsTable = "pipeline_runs"

	createPipelineRunsTable = `CREATE TABLE IF NOT EXISTS pipeline_runs (
	id           TEXT PRIMARY KEY,
	trigger      TEXT NOT NULL,
	status       TEXT NOT NULL,
	cities       TEXT[] NOT NULL DEFAULT '{}',
	failed_stage TEXT,
	error        TEXT,
	stages       JSONB NOT NULL DEFAULT '[]',
	violations   JSONB NOT NULL DEFAULT '[]',
	started_at   TIMESTAMPTZ NOT NULL,
	finished_at  TIMESTAMPTZ
)`
)

const upsertPipelineRun = `ON CONFLICT (id) DO UPDATE SET
	status = EXCLUDED.status,
	failed_stage = EXCLUDED.failed_stage,
	error = EXCLUDED.error,
	stages = EXCLUDED.stages,
	violations = EXCLUDED.violations,
	finished_at = EXCLUDED.finished_at`

var pipelineRunColumns = []string{
	"id",
	"trigger",
	"status",
	"cities",
	"failed_stage",
	"error",
	"stages",
	"violations",
	"started_at",
	"finished_at",
}

// PipelineRunRepository mantém o histórico de execuções. A tabela nunca é recriada pelo pipeline.
type PipelineRunRepository interface {
	EnsureTable(ctx context.Context) error
	Create(ctx context.Context, run *domain.PipelineRun) error
	Update(ctx context.Context, run *domain.PipelineRun) error
	List(ctx context.Context, limit uint64) ([]*domain.PipelineRun, error)
	GetLatest(ctx context.Context) (*domain.PipelineRun, error)
}

type pipelineRunRepository struct {
	conn postgres.Queryer
}

func NewPipelineRunRepository(conn postgres.Queryer) PipelineRunRepository {
	return &pipelineRunRepository{
		conn: conn,
	}
}

func (r *pipelineRunRepository) EnsureTable(ctx context.Context) error {
	if _, err := r.conn.Exec(ctx, createPipelineRunsTable); err != nil {
		return fmt.Errorf("erro ao criar tabela %s: %w", pipelineRunsTable, err)
	}
	return nil
}

func (r *pipelineRunRepository) Create(ctx context.Context, run *domain.PipelineRun) error {
	stages, violations, err := marshalRunDetails(run)
	if err != nil {
		return err
	}

	query, args, err := squirrel.
		Insert(pipelineRunsTable).
		Columns(pipelineRunColumns...).
		Values(
			run.ID,
			run.Trigger,
			run.Status,
			pq.Array(run.Cities),
			nullString(run.FailedStage),
			nullString(run.Error),
			stages,
			violations,
			run.StartedAt,
			run.FinishedAt,
		).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("erro ao construir query de inserção: %w", err)
	}

	if _, err := r.conn.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("erro ao executar query de inserção: %w", err)
	}

	return nil
}

// Update grava o estado final. Usa upsert porque o registro inicial pode não
// ter sido gravado quando Create falhou.
func (r *pipelineRunRepository) Update(ctx context.Context, run *domain.PipelineRun) error {
	stages, violations, err := marshalRunDetails(run)
	if err != nil {
		return err
	}

	query, args, err := squirrel.
		Insert(pipelineRunsTable).
		Columns(pipelineRunColumns...).
		Values(
			run.ID,
			run.Trigger,
			run.Status,
			pq.Array(run.Cities),
			nullString(run.FailedStage),
			nullString(run.Error),
			stages,
			violations,
			run.StartedAt,
			run.FinishedAt,
		).
		Suffix(upsertPipelineRun).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("erro ao construir query de atualização: %w", err)
	}

	if _, err := r.conn.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("erro ao executar query de atualização: %w", err)
	}

	return nil
}

// List retorna as execuções mais recentes primeiro
func (r *pipelineRunRepository) List(ctx context.Context, limit uint64) ([]*domain.PipelineRun, error) {
	query, args, err := squirrel.
		Select(pipelineRunColumns...).
		From(pipelineRunsTable).
		OrderBy("started_at DESC").
		Limit(limit).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("erro ao construir a query: %w", err)
	}

	rows, err := r.conn.Query(ctx, query, args...)
	if err != nil {
		return nil, queryError(pipelineRunsTable, err)
	}
	defer rows.Close()

	runs := make([]*domain.PipelineRun, 0)
	for rows.Next() {
		run, err := scanPipelineRun(rows)
		if err != nil {
			return nil, fmt.Errorf("erro ao escanear execução: %w", err)
		}
		runs = append(runs, run)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("erro durante a iteração de linhas: %w", err)
	}

	return runs, nil
}

// GetLatest retorna nil quando nenhuma execução foi registrada
func (r *pipelineRunRepository) GetLatest(ctx context.Context) (*domain.PipelineRun, error) {
	query, args, err := squirrel.
		Select(pipelineRunColumns...).
		From(pipelineRunsTable).
		OrderBy("started_at DESC").
		Limit(1).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("erro ao construir a query: %w", err)
	}

	run, err := scanPipelineRun(r.conn.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, queryError(pipelineRunsTable, err)
	}

	return run, nil
}

func scanPipelineRun(row rowScanner) (*domain.PipelineRun, error) {
	var (
		run         domain.PipelineRun
		failedStage sql.NullString
		errMessage  sql.NullString
		stages      []byte
		violations  []byte
		finishedAt  sql.NullTime
	)

	err := row.Scan(
		&run.ID,
		&run.Trigger,
		&run.Status,
		pq.Array(&run.Cities),
		&failedStage,
		&errMessage,
		&stages,
		&violations,
		&run.StartedAt,
		&finishedAt,
	)
	if err != nil {
		return nil, err
	}

	run.FailedStage = failedStage.String
	run.Error = errMessage.String
	if finishedAt.Valid {
		run.FinishedAt = &finishedAt.Time
	}

	if err := json.Unmarshal(stages, &run.Stages); err != nil {
		return nil, fmt.Errorf("erro ao decodificar etapas: %w", err)
	}
	if err := json.Unmarshal(violations, &run.Violations); err != nil {
		return nil, fmt.Errorf("erro ao decodificar violações: %w", err)
	}

	return &run, nil
}

func marshalRunDetails(run *domain.PipelineRun) (string, string, error) {
	stages := run.Stages
	if stages == nil {
		stages = []domain.StageResult{}
	}
	stagesJSON, err := json.Marshal(stages)
	if err != nil {
		return "", "", fmt.Errorf("erro ao codificar etapas: %w", err)
	}

	violations := run.Violations
	if violations == nil {
		violations = []string{}
	}
	violationsJSON, err := json.Marshal(violations)
	if err != nil {
		return "", "", fmt.Errorf("erro ao codificar violações: %w", err)
	}

	return string(stagesJSON), string(violationsJSON), nil
}

func nullString(value string) sql.NullString {
	return sql.NullString{String: value, Valid: value != ""}
}
