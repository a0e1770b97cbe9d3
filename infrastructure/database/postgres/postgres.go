// Package postgres encapsula o acesso ao PostgreSQL usado pelo pipeline e pela API
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/lib/pq"

	"github.com/vfg2006/rental-analytics/internal/config"
)

// Queryer é o subconjunto usado pelos repositórios
type Queryer interface {
	Exec(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	Query(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRow(ctx context.Context, query string, args ...interface{}) *sql.Row
}

type Conn interface {
	Queryer
	RunInTransaction(context.Context, func(*sql.Tx) error) error
	WithAdvisoryLock(context.Context, int64, func(context.Context) error) error
	Ping(context.Context) error
	Close() error
}

var _ Conn = (*Connection)(nil)

type Connection struct {
	DB *sql.DB
}

func NewConnection(
	ctx context.Context,
	cfg config.Database,
) (*Connection, error) {
	db, err := sql.Open("postgres", cfg.DSN)
	if err != nil {
		return nil, err
	}

	// o advisory lock prende uma conexão durante toda a execução
	if cfg.MaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.MaxOpenConns)
		db.SetMaxIdleConns(cfg.MaxOpenConns)
	}
	db.SetConnMaxIdleTime(5 * time.Minute)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Connection{DB: db}, nil
}

// NewFromDB embrulha um *sql.DB já aberto
func NewFromDB(db *sql.DB) *Connection {
	return &Connection{DB: db}
}

func (c *Connection) Ping(ctx context.Context) error {
	return c.DB.PingContext(ctx)
}

func (c *Connection) Close() error {
	return c.DB.Close()
}

func (c *Connection) Exec(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	return c.DB.ExecContext(ctx, query, args...)
}

func (c *Connection) Query(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error) {
	return c.DB.QueryContext(ctx, query, args...)
}

func (c *Connection) QueryRow(ctx context.Context, query string, args ...interface{}) *sql.Row {
	return c.DB.QueryRowContext(ctx, query, args...)
}

// RunInTransaction executa fn em uma transação: commit se fn retornar nil, rollback caso contrário
func (c *Connection) RunInTransaction(ctx context.Context, fn func(*sql.Tx) error) error {
	tx, err := c.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("erro ao iniciar transação: %w", err)
	}

	defer func() {
		if err := recover(); err != nil {
			_ = tx.Rollback()
			panic(err)
		}
	}()

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
			return fmt.Errorf("%w (rollback: %v)", err, rbErr)
		}
		return err
	}

	return tx.Commit()
}
