package transform

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"sync"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/vfg2006/rental-analytics/infrastructure/database/postgres"
	"github.com/vfg2006/rental-analytics/infrastructure/repository/mocks"
	"github.com/vfg2006/rental-analytics/internal/config"
	"github.com/vfg2006/rental-analytics/internal/domain"
)

const testLockKey = int64(7)

func testPipelineConfig() config.Pipeline {
	return config.Pipeline{
		Cities:       []string{"nyc"},
		LockKey:      testLockKey,
		StageTimeout: time.Minute,
	}
}

func newSQLMockStore(t *testing.T) (*postgres.Connection, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return postgres.NewFromDB(db), mock
}

func expectLock(mock sqlmock.Sqlmock, acquired bool) {
	mock.ExpectQuery(regexp.QuoteMeta("SELECT pg_try_advisory_lock($1)")).
		WithArgs(testLockKey).
		WillReturnRows(sqlmock.NewRows([]string{"pg_try_advisory_lock"}).AddRow(acquired))
}

func expectUnlock(mock sqlmock.Sqlmock) {
	mock.ExpectExec(regexp.QuoteMeta("SELECT pg_advisory_unlock($1)")).
		WithArgs(testLockKey).
		WillReturnResult(sqlmock.NewResult(0, 0))
}

func expectRebuild(mock sqlmock.Sqlmock, table string) {
	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("DROP TABLE IF EXISTS " + table)).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(regexp.QuoteMeta("CREATE TABLE " + table + " AS SELECT")).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()
}

func expectOutliers(mock sqlmock.Sqlmock) {
	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("ALTER TABLE clean_listings ADD COLUMN IF NOT EXISTS is_outlier")).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE clean_listings SET is_outlier = FALSE")).WillReturnResult(sqlmock.NewResult(0, 5))
	mock.ExpectExec(regexp.QuoteMeta("WITH city_stats AS")).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()
}

func stageStatuses(run *domain.PipelineRun) map[string]domain.StageStatus {
	statuses := make(map[string]domain.StageStatus, len(run.Stages))
	for _, stage := range run.Stages {
		statuses[stage.Stage] = stage.Status
	}
	return statuses
}

func TestPipeline_Run(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name     string
		setup    func(mock sqlmock.Sqlmock, catalog *mocks.MockSourceRepository, runs *mocks.MockPipelineRunRepository)
		validate func(t *testing.T, run *domain.PipelineRun, err error)
	}{
		{
			name: "Execução completa reconstrói todas as tabelas na ordem",
			setup: func(mock sqlmock.Sqlmock, catalog *mocks.MockSourceRepository, runs *mocks.MockPipelineRunRepository) {
				catalog.EXPECT().TableExists(gomock.Any(), "raw_listings_nyc").Return(true, nil)
				catalog.EXPECT().TableExists(gomock.Any(), "raw_calendar_nyc").Return(true, nil)
				runs.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil)
				runs.EXPECT().Update(gomock.Any(), gomock.Any()).Return(nil)

				expectLock(mock, true)
				expectRebuild(mock, TableCleanListings)
				expectOutliers(mock)
				expectRebuild(mock, TableYieldAnalysis)
				expectRebuild(mock, TableSeasonalityStats)
				expectRebuild(mock, TableNeighbourhoodStats)
				expectUnlock(mock)
			},
			validate: func(t *testing.T, run *domain.PipelineRun, err error) {
				require.NoError(t, err)
				assert.Equal(t, domain.RunStatusSucceeded, run.Status)
				assert.Empty(t, run.FailedStage)
				require.NotNil(t, run.FinishedAt)

				var order []string
				for _, stage := range run.Stages {
					order = append(order, stage.Stage)
					assert.Equal(t, domain.StageStatusSucceeded, stage.Status, stage.Stage)
				}
				assert.Equal(t, []string{StageCleansing, StageOutliers, StageYield, StageSeasonality, StageNeighbourhood}, order)
			},
		},
		{
			name: "Calendário ausente ignora sazonalidade e continua",
			setup: func(mock sqlmock.Sqlmock, catalog *mocks.MockSourceRepository, runs *mocks.MockPipelineRunRepository) {
				catalog.EXPECT().TableExists(gomock.Any(), "raw_listings_nyc").Return(true, nil)
				catalog.EXPECT().TableExists(gomock.Any(), "raw_calendar_nyc").Return(false, nil)
				runs.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil)
				runs.EXPECT().Update(gomock.Any(), gomock.Any()).Return(nil)

				expectLock(mock, true)
				expectRebuild(mock, TableCleanListings)
				expectOutliers(mock)
				expectRebuild(mock, TableYieldAnalysis)
				expectRebuild(mock, TableNeighbourhoodStats)
				expectUnlock(mock)
			},
			validate: func(t *testing.T, run *domain.PipelineRun, err error) {
				require.NoError(t, err)
				assert.Equal(t, domain.RunStatusSucceeded, run.Status)

				statuses := stageStatuses(run)
				assert.Equal(t, domain.StageStatusSkipped, statuses[StageSeasonality])
				assert.Equal(t, domain.StageStatusSucceeded, statuses[StageNeighbourhood])
			},
		},
		{
			name: "Falha crítica no yield interrompe o pipeline e faz rollback",
			setup: func(mock sqlmock.Sqlmock, catalog *mocks.MockSourceRepository, runs *mocks.MockPipelineRunRepository) {
				catalog.EXPECT().TableExists(gomock.Any(), "raw_listings_nyc").Return(true, nil)
				runs.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil)
				runs.EXPECT().Update(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, run *domain.PipelineRun) error {
						assert.Equal(t, domain.RunStatusFailed, run.Status)
						assert.Equal(t, StageYield, run.FailedStage)
						return nil
					})

				expectLock(mock, true)
				expectRebuild(mock, TableCleanListings)
				expectOutliers(mock)
				mock.ExpectBegin()
				mock.ExpectExec(regexp.QuoteMeta("DROP TABLE IF EXISTS yield_analysis")).WillReturnResult(sqlmock.NewResult(0, 0))
				mock.ExpectExec(regexp.QuoteMeta("CREATE TABLE yield_analysis AS SELECT")).
					WillReturnError(&pq.Error{Code: "42703", Message: `column "is_outlier" does not exist`})
				mock.ExpectRollback()
				expectUnlock(mock)
			},
			validate: func(t *testing.T, run *domain.PipelineRun, err error) {
				require.Error(t, err)

				var stageErr *StageError
				require.ErrorAs(t, err, &stageErr)
				assert.Equal(t, StageYield, stageErr.Stage)
				assert.Equal(t, TableYieldAnalysis, stageErr.Table)
				assert.Contains(t, err.Error(), `stage "yield" (yield_analysis) failed`)
				assert.Contains(t, err.Error(), "42703")

				assert.Equal(t, domain.RunStatusFailed, run.Status)
				assert.Equal(t, StageYield, run.FailedStage)
				assert.Len(t, run.Stages, 3)
				assert.Equal(t, domain.StageStatusFailed, stageStatuses(run)[StageYield])
			},
		},
		{
			name: "Tabela bruta ausente falha na limpeza sem executar SQL",
			setup: func(mock sqlmock.Sqlmock, catalog *mocks.MockSourceRepository, runs *mocks.MockPipelineRunRepository) {
				catalog.EXPECT().TableExists(gomock.Any(), "raw_listings_nyc").Return(false, nil)
				runs.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil)
				runs.EXPECT().Update(gomock.Any(), gomock.Any()).Return(nil)

				expectLock(mock, true)
				expectUnlock(mock)
			},
			validate: func(t *testing.T, run *domain.PipelineRun, err error) {
				assert.ErrorIs(t, err, ErrSourceMissing)
				assert.Contains(t, err.Error(), "raw_listings_nyc")
				assert.Equal(t, StageCleansing, run.FailedStage)
			},
		},
		{
			name: "Lock ocupado por outra execução",
			setup: func(mock sqlmock.Sqlmock, catalog *mocks.MockSourceRepository, runs *mocks.MockPipelineRunRepository) {
				runs.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil)
				runs.EXPECT().Update(gomock.Any(), gomock.Any()).Return(nil)

				expectLock(mock, false)
			},
			validate: func(t *testing.T, run *domain.PipelineRun, err error) {
				assert.ErrorIs(t, err, ErrPipelineLocked)
				assert.Equal(t, domain.RunStatusFailed, run.Status)
				assert.Empty(t, run.Stages)
			},
		},
		{
			name: "Erro ao registrar a execução não impede o pipeline",
			setup: func(mock sqlmock.Sqlmock, catalog *mocks.MockSourceRepository, runs *mocks.MockPipelineRunRepository) {
				catalog.EXPECT().TableExists(gomock.Any(), "raw_listings_nyc").Return(true, nil)
				catalog.EXPECT().TableExists(gomock.Any(), "raw_calendar_nyc").Return(true, nil)
				runs.EXPECT().Create(gomock.Any(), gomock.Any()).Return(errors.New("pipeline_runs unavailable"))
				runs.EXPECT().Update(gomock.Any(), gomock.Any()).Return(errors.New("pipeline_runs unavailable"))

				expectLock(mock, true)
				expectRebuild(mock, TableCleanListings)
				expectOutliers(mock)
				expectRebuild(mock, TableYieldAnalysis)
				expectRebuild(mock, TableSeasonalityStats)
				expectRebuild(mock, TableNeighbourhoodStats)
				expectUnlock(mock)
			},
			validate: func(t *testing.T, run *domain.PipelineRun, err error) {
				require.NoError(t, err)
				assert.Equal(t, domain.RunStatusSucceeded, run.Status)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			catalog := mocks.NewMockSourceRepository(ctrl)
			runs := mocks.NewMockPipelineRunRepository(ctrl)
			store, mock := newSQLMockStore(t)

			tt.setup(mock, catalog, runs)

			pipeline, err := New(store, catalog, runs, testPipelineConfig())
			require.NoError(t, err)

			run, err := pipeline.Run(ctx, domain.RunTriggerCLI)
			require.NotNil(t, run)
			assert.NotEmpty(t, run.ID)
			assert.Equal(t, domain.RunTriggerCLI, run.Trigger)

			tt.validate(t, run, err)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestNew_InvalidConfiguration(t *testing.T) {
	cfg := testPipelineConfig()

	cfg.Cities = nil
	_, err := New(nil, nil, nil, cfg)
	assert.ErrorIs(t, err, ErrNoCities)

	cfg.Cities = []string{"new york"}
	_, err = New(nil, nil, nil, cfg)
	assert.ErrorIs(t, err, ErrInvalidCity)

	cfg.Cities = []string{"nyc"}
	_, err = New(nil, nil, nil, cfg, WithStages(
		&Stage{Name: "a", DependsOn: []string{"b"}},
		&Stage{Name: "b", DependsOn: []string{"a"}},
	))
	assert.ErrorIs(t, err, ErrCyclicGraph)
}

// fakeStore executa as etapas sem banco; as etapas de teste não geram statements
type fakeStore struct{}

func (fakeStore) RunInTransaction(ctx context.Context, fn func(*sql.Tx) error) error {
	return fn(nil)
}

func (fakeStore) WithAdvisoryLock(ctx context.Context, key int64, fn func(context.Context) error) error {
	return fn(ctx)
}

type executionLog struct {
	mu    sync.Mutex
	order []string
}

func (l *executionLog) stage(name string, critical bool, err error, deps ...string) *Stage {
	return &Stage{
		Name:      name,
		Table:     name + "_table",
		DependsOn: deps,
		Critical:  critical,
		Plan: func(context.Context, Catalog) ([]string, error) {
			l.mu.Lock()
			l.order = append(l.order, name)
			l.mu.Unlock()
			return nil, err
		},
	}
}

func (l *executionLog) index(name string) int {
	for i, executed := range l.order {
		if executed == name {
			return i
		}
	}
	return -1
}

type fakeVerifier struct {
	report *AuditReport
	err    error
}

func (v fakeVerifier) Audit(context.Context) (*AuditReport, error) {
	return v.report, v.err
}

func TestPipeline_RunStages(t *testing.T) {
	ctx := context.Background()

	for _, parallel := range []bool{false, true} {
		name := "sequencial"
		if parallel {
			name = "paralelo"
		}

		t.Run(name+": falha não crítica ignora apenas os dependentes", func(t *testing.T) {
			ctrl := gomock.NewController(t)
			runs := mocks.NewMockPipelineRunRepository(ctrl)
			runs.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil)
			runs.EXPECT().Update(gomock.Any(), gomock.Any()).Return(nil)

			log := &executionLog{}
			cfg := testPipelineConfig()
			cfg.Parallel = parallel

			pipeline, err := New(fakeStore{}, nil, runs, cfg, WithStages(
				log.stage("a", true, nil),
				log.stage("b", true, nil, "a"),
				log.stage("c", false, errors.New("calendar unreadable")),
				log.stage("d", false, nil, "c"),
				log.stage("e", true, nil, "b"),
			))
			require.NoError(t, err)

			run, err := pipeline.Run(ctx, domain.RunTriggerManual)
			require.NoError(t, err)

			statuses := stageStatuses(run)
			assert.Equal(t, domain.StageStatusSucceeded, statuses["a"])
			assert.Equal(t, domain.StageStatusSucceeded, statuses["b"])
			assert.Equal(t, domain.StageStatusFailed, statuses["c"])
			assert.Equal(t, domain.StageStatusSkipped, statuses["d"])
			assert.Equal(t, domain.StageStatusSucceeded, statuses["e"])

			assert.Equal(t, -1, log.index("d"))
			assert.Less(t, log.index("a"), log.index("b"))
			assert.Less(t, log.index("b"), log.index("e"))
			assert.Equal(t, domain.RunStatusSucceeded, run.Status)
		})

		t.Run(name+": falha crítica não executa dependentes", func(t *testing.T) {
			ctrl := gomock.NewController(t)
			runs := mocks.NewMockPipelineRunRepository(ctrl)
			runs.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil)
			runs.EXPECT().Update(gomock.Any(), gomock.Any()).Return(nil)

			log := &executionLog{}
			cfg := testPipelineConfig()
			cfg.Parallel = parallel

			boom := errors.New("disk full")
			pipeline, err := New(fakeStore{}, nil, runs, cfg, WithStages(
				log.stage("a", true, nil),
				log.stage("b", true, boom, "a"),
				log.stage("c", true, nil, "b"),
			))
			require.NoError(t, err)

			run, err := pipeline.Run(ctx, domain.RunTriggerCron)

			assert.ErrorIs(t, err, boom)
			assert.Equal(t, "b", run.FailedStage)
			assert.Equal(t, -1, log.index("c"))
			assert.Equal(t, domain.RunStatusFailed, run.Status)
		})
	}

	t.Run("auditoria registra violações na execução", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		runs := mocks.NewMockPipelineRunRepository(ctrl)
		runs.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil)
		runs.EXPECT().Update(gomock.Any(), gomock.Any()).Return(nil)

		log := &executionLog{}
		verifier := fakeVerifier{report: &AuditReport{Violations: []string{"yield row NYC/1 has no eligible clean listing"}}}

		pipeline, err := New(fakeStore{}, nil, runs, testPipelineConfig(),
			WithStages(log.stage("a", true, nil)),
			WithVerifier(verifier),
		)
		require.NoError(t, err)

		run, err := pipeline.Run(ctx, domain.RunTriggerCLI)
		require.NoError(t, err)

		assert.Equal(t, domain.RunStatusSucceeded, run.Status)
		assert.Equal(t, verifier.report.Violations, run.Violations)
	})

	t.Run("erro na auditoria não falha a execução", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		runs := mocks.NewMockPipelineRunRepository(ctrl)
		runs.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil)
		runs.EXPECT().Update(gomock.Any(), gomock.Any()).Return(nil)

		log := &executionLog{}
		pipeline, err := New(fakeStore{}, nil, runs, testPipelineConfig(),
			WithStages(log.stage("a", true, nil)),
			WithVerifier(fakeVerifier{err: errors.New("clean_listings: table not materialized yet")}),
		)
		require.NoError(t, err)

		run, err := pipeline.Run(ctx, domain.RunTriggerCLI)
		require.NoError(t, err)
		assert.Empty(t, run.Violations)
	})
}
