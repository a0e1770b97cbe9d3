package log

import (
	"context"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Fields é um alias para logrus.Fields
type Fields logrus.Fields

// Logger é a interface de log usada pela camada HTTP
type Logger interface {
	WithField(key string, value interface{}) Logger
	WithFields(fields Fields) Logger
	WithError(err error) Logger
	WithContext(ctx context.Context) Logger

	Debug(args ...interface{})
	Info(args ...interface{})
	Infof(format string, args ...interface{})
	Warn(args ...interface{})
	Warnf(format string, args ...interface{})
	Error(args ...interface{})
	Errorf(format string, args ...interface{})
}

type contextKey string

// CorrelationIDKey é a chave do ID de correlação no contexto
const CorrelationIDKey contextKey = "correlation_id"

const correlationIDField = "correlation_id"

// devFields são os campos mantidos em desenvolvimento; os demais poluem o console
var devFields = map[string]struct{}{
	correlationIDField: {},
	"method":           {},
	"path":             {},
	"status_code":      {},
	"duration_ms":      {},
	"error":            {},
	"run_id":           {},
	"stage":            {},
}

type logger struct {
	entry *logrus.Entry
}

// L é a instância global de Logger
var L Logger = &logger{entry: logrus.NewEntry(logrus.StandardLogger())}

// Configure aplica o formato padrão e o nível configurado em LOG_LEVEL
func Configure(level string) {
	logrus.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: time.RFC3339,
	})

	logLevel, err := logrus.ParseLevel(level)
	if err != nil {
		logrus.Warnf("Nível de log inválido: %s, usando 'info'", level)
		logLevel = logrus.InfoLevel
	}
	logrus.SetLevel(logLevel)
	logrus.Debugf("Nível de log configurado para: %s", logLevel)
}

// IsDevelopment retorna verdadeiro se estamos em ambiente de desenvolvimento
func IsDevelopment() bool {
	env := os.Getenv("APP_ENV")
	return env == "" || env == "development" || env == "dev"
}

func keepField(key string) bool {
	if !IsDevelopment() {
		return true
	}
	_, ok := devFields[key]
	return ok || strings.HasPrefix(key, "pipeline_")
}

func (l *logger) WithField(key string, value interface{}) Logger {
	if !keepField(key) {
		return l
	}
	return &logger{entry: l.entry.WithField(key, value)}
}

func (l *logger) WithFields(fields Fields) Logger {
	kept := make(logrus.Fields, len(fields))
	for k, v := range fields {
		if keepField(k) {
			kept[k] = v
		}
	}
	if len(kept) == 0 {
		return l
	}
	return &logger{entry: l.entry.WithFields(kept)}
}

func (l *logger) WithError(err error) Logger {
	return &logger{entry: l.entry.WithError(err)}
}

// WithContext adiciona o ID de correlação da requisição, se houver
func (l *logger) WithContext(ctx context.Context) Logger {
	if ctx == nil {
		return l
	}
	if correlationID := GetCorrelationID(ctx); correlationID != "" {
		return l.WithField(correlationIDField, correlationID)
	}
	return l
}

func (l *logger) Debug(args ...interface{}) {
	l.entry.Debug(args...)
}

func (l *logger) Info(args ...interface{}) {
	l.entry.Info(args...)
}

func (l *logger) Infof(format string, args ...interface{}) {
	l.entry.Infof(format, args...)
}

func (l *logger) Warn(args ...interface{}) {
	l.entry.Warn(args...)
}

func (l *logger) Warnf(format string, args ...interface{}) {
	l.entry.Warnf(format, args...)
}

func (l *logger) Error(args ...interface{}) {
	l.entry.Error(args...)
}

func (l *logger) Errorf(format string, args ...interface{}) {
	l.entry.Errorf(format, args...)
}

// WithCorrelationID adiciona um ID de correlação ao contexto
func WithCorrelationID(ctx context.Context) (context.Context, string) {
	correlationID := uuid.New().String()
	return context.WithValue(ctx, CorrelationIDKey, correlationID), correlationID
}

// GetCorrelationID obtém o ID de correlação do contexto
func GetCorrelationID(ctx context.Context) string {
	if correlationID, ok := ctx.Value(CorrelationIDKey).(string); ok {
		return correlationID
	}
	return ""
}
