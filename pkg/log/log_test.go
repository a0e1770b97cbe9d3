package log

import (
	"bytes"
	"context"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

func TestCorrelationID(t *testing.T) {
	ctx, id := WithCorrelationID(context.Background())

	assert.NotEmpty(t, id)
	assert.Equal(t, id, GetCorrelationID(ctx))
	assert.Empty(t, GetCorrelationID(context.Background()))
}

func TestLogger_DevelopmentFilter(t *testing.T) {
	t.Setenv("APP_ENV", "development")

	var buf bytes.Buffer
	base := logrus.New()
	base.SetOutput(&buf)
	base.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true, DisableColors: true})

	l := &logger{entry: logrus.NewEntry(base)}
	l.WithFields(Fields{"run_id": "abc123", "user_agent": "curl"}).Info("ok")

	assert.Contains(t, buf.String(), "run_id=abc123")
	assert.NotContains(t, buf.String(), "user_agent")
}

func TestLogger_ProductionKeepsAllFields(t *testing.T) {
	t.Setenv("APP_ENV", "production")

	var buf bytes.Buffer
	base := logrus.New()
	base.SetOutput(&buf)
	base.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true, DisableColors: true})

	l := &logger{entry: logrus.NewEntry(base)}
	ctx, id := WithCorrelationID(context.Background())
	l.WithContext(ctx).WithField("user_agent", "curl").Info("ok")

	assert.Contains(t, buf.String(), "user_agent=curl")
	assert.Contains(t, buf.String(), "correlation_id="+id)
}
