package main

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vfg2006/rental-analytics/internal/config"
	"github.com/vfg2006/rental-analytics/internal/domain"
	"github.com/vfg2006/rental-analytics/internal/transform"
	"github.com/vfg2006/rental-analytics/internal/usecases/authenticating"
)

func withConfig(t *testing.T, cfg *config.Config, err error) {
	t.Helper()

	original := loadConfig
	loadConfig = func() (*config.Config, error) { return cfg, err }
	t.Cleanup(func() { loadConfig = original })
}

func execute(args ...string) (string, error) {
	var out bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)

	err := root.Execute()
	return out.String(), err
}

func TestPhaseError(t *testing.T) {
	cause := &transform.StageError{Stage: "yield", Table: "yield_analysis", Err: errors.New("division by zero")}
	err := failedAt("transformation", cause)

	assert.Equal(t, `Pipeline failed at transformation: stage "yield" (yield_analysis) failed: division by zero`, err.Error())

	var stageErr *transform.StageError
	assert.True(t, errors.As(err, &stageErr))
}

func TestTokenCommand(t *testing.T) {
	t.Run("emite token válido", func(t *testing.T) {
		cfg := &config.Config{Auth: config.Auth{Secret: "cli-secret"}}
		withConfig(t, cfg, nil)

		out, err := execute("token", "--name", "ops", "--role", "admin", "--ttl", "1h")
		require.NoError(t, err)

		claims, err := authenticating.NewService(cfg.Auth).ValidateToken(strings.TrimSpace(out))
		require.NoError(t, err)
		assert.Equal(t, "ops", claims.Name)
		assert.Equal(t, domain.RoleAdmin, claims.Role)
	})

	t.Run("sem AUTH_SECRET", func(t *testing.T) {
		withConfig(t, &config.Config{}, nil)

		_, err := execute("token")
		assert.ErrorIs(t, err, authenticating.ErrAuthDisabled)
	})

	t.Run("falha ao carregar configuração", func(t *testing.T) {
		withConfig(t, nil, errors.New("bad env"))

		_, err := execute("token")
		assert.EqualError(t, err, "Pipeline failed at configuration: bad env")
	})
}

func TestRunCommand_FalhaDeConfiguracao(t *testing.T) {
	withConfig(t, nil, errors.New("bad env"))

	_, err := execute("run", "--parallel")

	var phaseErr *phaseError
	require.True(t, errors.As(err, &phaseErr))
	assert.Equal(t, "configuration", phaseErr.phase)
}

func TestRunCommand_ParaleloExigePoolMaior(t *testing.T) {
	cfg := &config.Config{
		Database: config.Database{MaxOpenConns: 2},
		Pipeline: config.Pipeline{Cities: []string{"nyc"}},
	}
	withConfig(t, cfg, nil)

	_, err := execute("run", "--parallel")

	var phaseErr *phaseError
	require.True(t, errors.As(err, &phaseErr))
	assert.Equal(t, "configuration", phaseErr.phase)
	assert.Contains(t, err.Error(), "DATABASE_MAX_OPEN_CONNS=2")
}
