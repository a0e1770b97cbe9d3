package repository

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vfg2006/rental-analytics/infrastructure/database/postgres"
	"github.com/vfg2006/rental-analytics/internal/domain"
)

func newMockConn(t *testing.T) (*postgres.Connection, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return postgres.NewFromDB(db), mock
}

var undefinedTableErr = &pq.Error{Code: undefinedTable, Message: `relation "seasonality_stats" does not exist`}

func TestYieldRepository_GetByListing(t *testing.T) {
	ctx := context.Background()

	t.Run("retorna o registro do anúncio", func(t *testing.T) {
		conn, mock := newMockConn(t)
		rows := sqlmock.NewRows(yieldColumns).
			AddRow("NYC", nil, int64(7), 100.0, 0.2, 20.0, 14600.0, 21900.0, 29200.0)

		mock.ExpectQuery("SELECT city, neighbourhood, id, .* FROM yield_analysis WHERE").
			WithArgs("NYC", int64(7)).
			WillReturnRows(rows)

		record, err := NewYieldRepository(conn).GetByListing(ctx, "NYC", 7)

		require.NoError(t, err)
		require.NotNil(t, record)
		assert.Equal(t, int64(7), record.ID)
		assert.Empty(t, record.Neighbourhood)
		assert.Equal(t, 21900.0, record.RevenueBase)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("retorna nil quando não há linha", func(t *testing.T) {
		conn, mock := newMockConn(t)

		mock.ExpectQuery("FROM yield_analysis").
			WithArgs("NYC", int64(8)).
			WillReturnRows(sqlmock.NewRows(yieldColumns))

		record, err := NewYieldRepository(conn).GetByListing(ctx, "NYC", 8)

		assert.NoError(t, err)
		assert.Nil(t, record)
	})
}

func TestYieldRepository_ListValuationRows(t *testing.T) {
	conn, mock := newMockConn(t)
	rows := sqlmock.NewRows([]string{
		"id", "city", "neighbourhood", "latitude", "longitude", "room_type", "property_type",
		"accommodates", "rating", "reviews", "occupancy_rate", "revpar", "price_clean",
		"revenue_bear", "revenue_base", "revenue_bull",
	}).AddRow(int64(1), "TOKYO", "Shibuya", 35.66, 139.70, "Entire home/apt", nil, int64(4), 4.8, 12, 0.2, 20.0, 100.0, 14600.0, 21900.0, 29200.0)

	mock.ExpectQuery("FROM clean_listings cl JOIN yield_analysis ya ON cl.city = ya.city AND cl.id = ya.id").
		WillReturnRows(rows)

	valuations, err := NewYieldRepository(conn).ListValuationRows(context.Background())

	require.NoError(t, err)
	require.Len(t, valuations, 1)
	assert.Equal(t, "Shibuya", valuations[0].Neighbourhood)
	assert.Empty(t, valuations[0].PropertyType)
	assert.Equal(t, 4, valuations[0].Accommodates)
	assert.Equal(t, 100.0, valuations[0].NightlyRate)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSeasonalityRepository_List(t *testing.T) {
	ctx := context.Background()

	t.Run("ordena por mês e preserva média nula", func(t *testing.T) {
		conn, mock := newMockConn(t)
		rows := sqlmock.NewRows([]string{"month_year", "avg_price"}).
			AddRow("2024-01", 120.5).
			AddRow("2024-02", nil)

		mock.ExpectQuery("SELECT month_year, avg_price FROM seasonality_stats ORDER BY month_year ASC").
			WillReturnRows(rows)

		records, err := NewSeasonalityRepository(conn).List(ctx)

		require.NoError(t, err)
		require.Len(t, records, 2)
		assert.Equal(t, 120.5, *records[0].AvgPrice)
		assert.Nil(t, records[1].AvgPrice)
	})

	t.Run("tabela ausente vira ErrTableNotFound", func(t *testing.T) {
		conn, mock := newMockConn(t)

		mock.ExpectQuery("FROM seasonality_stats").WillReturnError(undefinedTableErr)

		records, err := NewSeasonalityRepository(conn).List(ctx)

		assert.ErrorIs(t, err, ErrTableNotFound)
		assert.Contains(t, err.Error(), seasonalityStatsTable)
		assert.Nil(t, records)
	})
}

func TestNeighbourhoodStatsRepository_List(t *testing.T) {
	ctx := context.Background()
	columns := []string{"city", "neighbourhood", "total_listings", "avg_price", "avg_annual_revenue", "avg_rating"}

	t.Run("filtra pela cidade", func(t *testing.T) {
		conn, mock := newMockConn(t)

		mock.ExpectQuery("FROM neighbourhood_stats WHERE city = \\$1 ORDER BY city ASC, avg_annual_revenue DESC").
			WithArgs("NYC").
			WillReturnRows(sqlmock.NewRows(columns).AddRow("NYC", "Harlem", 3, 80.0, 17520.0, 4.5))

		stats, err := NewNeighbourhoodStatsRepository(conn).List(ctx, "NYC")

		require.NoError(t, err)
		require.Len(t, stats, 1)
		assert.Equal(t, "Harlem", stats[0].Neighbourhood)
		assert.Equal(t, 3, stats[0].TotalListings)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("sem cidade não filtra", func(t *testing.T) {
		conn, mock := newMockConn(t)

		mock.ExpectQuery("FROM neighbourhood_stats ORDER BY").
			WithoutArgs().
			WillReturnRows(sqlmock.NewRows(columns))

		stats, err := NewNeighbourhoodStatsRepository(conn).List(ctx, "")

		require.NoError(t, err)
		assert.Empty(t, stats)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestSourceRepository_TableExists(t *testing.T) {
	conn, mock := newMockConn(t)

	mock.ExpectQuery("SELECT EXISTS \\( SELECT 1 FROM information_schema.tables").
		WithArgs("raw_calendar_nyc").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))

	exists, err := NewSourceRepository(conn).TableExists(context.Background(), "raw_calendar_nyc")

	require.NoError(t, err)
	assert.False(t, exists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPipelineRunRepository(t *testing.T) {
	ctx := context.Background()
	startedAt := time.Date(2024, 3, 1, 3, 0, 0, 0, time.UTC)

	t.Run("Create grava etapas como JSON", func(t *testing.T) {
		conn, mock := newMockConn(t)
		run := &domain.PipelineRun{
			ID:        "abc123",
			Trigger:   domain.RunTriggerCLI,
			Status:    domain.RunStatusRunning,
			Cities:    []string{"nyc"},
			StartedAt: startedAt,
		}

		mock.ExpectExec("INSERT INTO pipeline_runs").
			WithArgs("abc123", domain.RunTriggerCLI, domain.RunStatusRunning, sqlmock.AnyArg(),
				nil, nil, "[]", "[]", startedAt, nil).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := NewPipelineRunRepository(conn).Create(ctx, run)

		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Update grava mesmo sem registro inicial", func(t *testing.T) {
		conn, mock := newMockConn(t)
		finishedAt := startedAt.Add(time.Minute)
		run := &domain.PipelineRun{
			ID:          "abc123",
			Trigger:     domain.RunTriggerCron,
			Status:      domain.RunStatusFailed,
			Cities:      []string{"nyc"},
			FailedStage: "yield",
			Error:       "boom",
			Stages:      []domain.StageResult{},
			StartedAt:   startedAt,
			FinishedAt:  &finishedAt,
		}

		mock.ExpectExec("INSERT INTO pipeline_runs .* ON CONFLICT \\(id\\) DO UPDATE SET\\s+status = EXCLUDED.status").
			WithArgs("abc123", domain.RunTriggerCron, domain.RunStatusFailed, sqlmock.AnyArg(),
				"yield", "boom", "[]", "[]", startedAt, finishedAt).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := NewPipelineRunRepository(conn).Update(ctx, run)

		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("GetLatest decodifica etapas e violações", func(t *testing.T) {
		conn, mock := newMockConn(t)
		finishedAt := startedAt.Add(time.Minute)
		rows := sqlmock.NewRows(pipelineRunColumns).AddRow(
			"abc123", "cron", "failed", []byte("{nyc,tokyo}"), "yield", "boom",
			[]byte(`[{"stage":"cleansing","table":"clean_listings","status":"succeeded"}]`),
			[]byte(`["NYC 1: occupancy_rate fora do intervalo"]`),
			startedAt, finishedAt,
		)

		mock.ExpectQuery("FROM pipeline_runs ORDER BY started_at DESC LIMIT 1").WillReturnRows(rows)

		run, err := NewPipelineRunRepository(conn).GetLatest(ctx)

		require.NoError(t, err)
		require.NotNil(t, run)
		assert.Equal(t, []string{"nyc", "tokyo"}, run.Cities)
		assert.Equal(t, "yield", run.FailedStage)
		require.Len(t, run.Stages, 1)
		assert.Equal(t, "cleansing", run.Stages[0].Stage)
		assert.Len(t, run.Violations, 1)
		require.NotNil(t, run.FinishedAt)
	})

	t.Run("GetLatest sem execuções retorna nil", func(t *testing.T) {
		conn, mock := newMockConn(t)

		mock.ExpectQuery("FROM pipeline_runs").WillReturnRows(sqlmock.NewRows(pipelineRunColumns))

		run, err := NewPipelineRunRepository(conn).GetLatest(ctx)

		assert.NoError(t, err)
		assert.Nil(t, run)
	})
}
