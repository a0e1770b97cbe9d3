package domain

import "time"

type RunStatus string

const (
	RunStatusRunning   RunStatus = "running"
	RunStatusSucceeded RunStatus = "succeeded"
	RunStatusFailed    RunStatus = "failed"
)

type RunTrigger string

const (
	RunTriggerCLI    RunTrigger = "cli"
	RunTriggerCron   RunTrigger = "cron"
	RunTriggerManual RunTrigger = "manual"
)

type StageStatus string

const (
	StageStatusSucceeded StageStatus = "succeeded"
	StageStatusFailed    StageStatus = "failed"
	StageStatusSkipped   StageStatus = "skipped"
)

// StageResult descreve o resultado de uma etapa dentro de uma execução
type StageResult struct {
	Stage      string        `json:"stage"`
	Table      string        `json:"table"`
	Status     StageStatus   `json:"status"`
	Critical   bool          `json:"critical"`
	Duration   time.Duration `json:"duration"`
	Error      string        `json:"error,omitempty"`
	StartedAt  time.Time     `json:"started_at"`
	FinishedAt time.Time     `json:"finished_at"`
}

// PipelineRun é o registro de uma execução do pipeline (tabela pipeline_runs)
type PipelineRun struct {
	ID          string        `json:"id"`
	Trigger     RunTrigger    `json:"trigger"`
	Status      RunStatus     `json:"status"`
	Cities      []string      `json:"cities"`
	FailedStage string        `json:"failed_stage,omitempty"`
	Error       string        `json:"error,omitempty"`
	Stages      []StageResult `json:"stages"`
	Violations  []string      `json:"violations,omitempty"`
	StartedAt   time.Time     `json:"started_at"`
	FinishedAt  *time.Time    `json:"finished_at,omitempty"`
}
