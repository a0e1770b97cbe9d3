package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
)

// ErrLockNotAcquired indica que outra sessão já detém o advisory lock
var ErrLockNotAcquired = errors.New("postgres: advisory lock held by another session")

// WithAdvisoryLock executa fn enquanto mantém um advisory lock de sessão.
// O lock fica preso a uma única conexão do pool até fn retornar.
func (c *Connection) WithAdvisoryLock(ctx context.Context, key int64, fn func(context.Context) error) error {
	conn, err := c.DB.Conn(ctx)
	if err != nil {
		return fmt.Errorf("erro ao reservar conexão para o lock: %w", err)
	}
	defer conn.Close()

	var acquired bool
	if err := conn.QueryRowContext(ctx, "SELECT pg_try_advisory_lock($1)", key).Scan(&acquired); err != nil {
		return fmt.Errorf("erro ao obter advisory lock: %w", err)
	}
	if !acquired {
		return ErrLockNotAcquired
	}

	defer func() {
		// contexto próprio: o lock precisa ser liberado mesmo após cancelamento
		if _, err := conn.ExecContext(context.Background(), "SELECT pg_advisory_unlock($1)", key); err != nil {
			logrus.WithError(err).WithField("lock_key", key).Error("Erro ao liberar advisory lock")
		}
	}()

	return fn(ctx)
}
