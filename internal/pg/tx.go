package pg

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// ErrTxFailed помечает сбой самой транзакции (begin/commit), а не запроса внутри неё.
var ErrTxFailed = errors.New("transaction failed")

// DBTX: общее подмножество *sql.DB и *sql.Tx.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

var (
	_ DBTX = (*sql.DB)(nil)
	_ DBTX = (*sql.Tx)(nil)
)

// ReadOnly: снимок для сборки агрегата: все чтения видят одно состояние.
var ReadOnly = &sql.TxOptions{Isolation: sql.LevelRepeatableRead, ReadOnly: true}

// InTx выполняет fn в одной транзакции: commit при успехе, rollback при ошибке или панике.
func InTx(ctx context.Context, db *sql.DB, opts *sql.TxOptions, fn func(tx *sql.Tx) error) error {
	if db == nil {
		return fmt.Errorf("%w: nil database handle", ErrTxFailed)
	}
	tx, err := db.BeginTx(ctx, opts)
	if err != nil {
		return fmt.Errorf("%w: begin: %w", ErrTxFailed, err)
	}
	done := false
	defer func() {
		if !done {
			_ = tx.Rollback()
		}
	}()

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		done = true // после неудачного Commit транзакция уже закрыта драйвером
		return fmt.Errorf("%w: commit: %w", ErrTxFailed, err)
	}
	done = true
	return nil
}
