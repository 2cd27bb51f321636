package service

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
)

// TxManager выполняет функцию внутри транзакции БД. Каждая строка CSV
// фиксируется своей транзакцией, поэтому ошибка одной строки не
// откатывает уже записанные.
type TxManager interface {
	WithTx(ctx context.Context, fn func(pgx.Tx) error) error
}

type PgxPoolIface interface {
	BeginTx(ctx context.Context, txOptions pgx.TxOptions) (pgx.Tx, error)
}

type PgxTxManager struct {
	pool PgxPoolIface
}

func NewPgxTxManager(pool PgxPoolIface) *PgxTxManager {
	return &PgxTxManager{pool: pool}
}

// WithTx открывает транзакцию, выполняет fn и коммитит. Ошибка fn
// возвращается как есть, чтобы вызывающий мог сматчить sentinel-ошибки
// через errors.Is.
func (m *PgxTxManager) WithTx(ctx context.Context, fn func(tx pgx.Tx) error) error {
	tx, err := m.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback(ctx)
			panic(p)
		}
	}()

	if err := fn(tx); err != nil {
		_ = tx.Rollback(ctx)
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit: %w", err)
	}

	return nil
}
