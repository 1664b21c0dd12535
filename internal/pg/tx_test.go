package pg

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMock(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db, mock
}

func TestInTx_CommitsOnSuccess(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM x").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := InTx(context.Background(), db, nil, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(context.Background(), "DELETE FROM x")
		return err
	})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestInTx_RollsBackOnError(t *testing.T) {
	db, mock := newMock(t)
	boom := errors.New("boom")
	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM x").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("DELETE FROM y").WillReturnError(boom)
	mock.ExpectRollback()

	err := InTx(context.Background(), db, nil, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(context.Background(), "DELETE FROM x"); err != nil {
			return err
		}
		_, err := tx.ExecContext(context.Background(), "DELETE FROM y")
		return err
	})
	assert.ErrorIs(t, err, boom)
	assert.NotErrorIs(t, err, ErrTxFailed)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestInTx_RollsBackOnPanic(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectBegin()
	mock.ExpectRollback()

	assert.Panics(t, func() {
		_ = InTx(context.Background(), db, nil, func(tx *sql.Tx) error {
			panic("mid-operation")
		})
	})
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestInTx_BeginFailure(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectBegin().WillReturnError(errors.New("no connection"))

	called := false
	err := InTx(context.Background(), db, nil, func(tx *sql.Tx) error {
		called = true
		return nil
	})
	assert.ErrorIs(t, err, ErrTxFailed)
	assert.False(t, called)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestInTx_CommitFailure(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectBegin()
	mock.ExpectCommit().WillReturnError(errors.New("serialization failure"))

	err := InTx(context.Background(), db, nil, func(tx *sql.Tx) error { return nil })
	assert.ErrorIs(t, err, ErrTxFailed)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestInTx_NilDB(t *testing.T) {
	err := InTx(context.Background(), nil, nil, func(tx *sql.Tx) error { return nil })
	assert.ErrorIs(t, err, ErrTxFailed)
}
