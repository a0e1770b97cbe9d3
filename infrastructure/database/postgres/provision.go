package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/lib/pq"
	"github.com/sirupsen/logrus"

	"github.com/vfg2006/rental-analytics/internal/config"
)

const maintenanceDatabase = "postgres"

// EnsureDatabase cria o banco configurado em DATABASE_URL caso ainda não exista.
// A conexão é feita no banco de manutenção, já que não é possível criar o banco estando conectado a ele.
func EnsureDatabase(ctx context.Context, cfg config.Database) (bool, error) {
	host, name, err := splitDatabaseURL(cfg.URL)
	if err != nil {
		return false, err
	}

	dsn := fmt.Sprintf("%s://%s:%s@%s/%s?sslmode=%s",
		cfg.Driver, cfg.User, cfg.Password, host, maintenanceDatabase, cfg.SSLMode)

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return false, err
	}
	defer db.Close()

	return CreateDatabaseIfMissing(ctx, db, name)
}

// CreateDatabaseIfMissing devolve true quando o banco foi criado
func CreateDatabaseIfMissing(ctx context.Context, db *sql.DB, name string) (bool, error) {
	var exists bool
	err := db.QueryRowContext(ctx,
		"SELECT EXISTS (SELECT 1 FROM pg_catalog.pg_database WHERE datname = $1)", name,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("erro ao consultar pg_database: %w", err)
	}

	if exists {
		logrus.WithField("database", name).Info("Banco de dados já existe")
		return false, nil
	}

	if _, err := db.ExecContext(ctx, "CREATE DATABASE "+pq.QuoteIdentifier(name)); err != nil {
		return false, fmt.Errorf("erro ao criar banco %s: %w", name, err)
	}

	logrus.WithField("database", name).Info("Banco de dados criado com sucesso")
	return true, nil
}

// splitDatabaseURL separa "host:porta/banco" em endereço e nome do banco
func splitDatabaseURL(url string) (string, string, error) {
	idx := strings.LastIndex(url, "/")
	if idx <= 0 || idx == len(url)-1 {
		return "", "", fmt.Errorf("DATABASE_URL inválida %q: esperado host:porta/banco", url)
	}
	return url[:idx], url[idx+1:], nil
}
