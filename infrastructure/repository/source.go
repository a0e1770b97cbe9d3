package repository

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/vfg2006/rental-analytics/infrastructure/database/postgres"
)

// SourceRepository consulta o catálogo do banco para descobrir as tabelas brutas carregadas
type SourceRepository interface {
	TableExists(ctx context.Context, table string) (bool, error)
}

type sourceRepository struct {
	conn postgres.Queryer
}

func NewSourceRepository(conn postgres.Queryer) SourceRepository {
	return &sourceRepository{
		conn: conn,
	}
}

func (r *sourceRepository) TableExists(ctx context.Context, table string) (bool, error) {
	query, args, err := squirrel.
		Select("1").
		From("information_schema.tables").
		Where("table_schema = current_schema()").
		Where(squirrel.Eq{"table_name": table}).
		Prefix("SELECT EXISTS (").
		Suffix(")").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("erro ao construir a query: %w", err)
	}

	var exists bool
	if err := r.conn.QueryRow(ctx, query, args...).Scan(&exists); err != nil {
		return false, fmt.Errorf("erro ao consultar tabela %s: %w", table, err)
	}

	return exists, nil
}
