package postgres

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTxManagerCommitsOnSuccess(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE accounts").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	tm := NewTxManager(db)
	err = tm.WithinTx(context.Background(), func(ctx context.Context) error {
		_, err := conn(ctx, db).ExecContext(ctx, "UPDATE accounts SET balance = balance + $1 WHERE id = $2", "1", "acc")
		return err
	})

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTxManagerRollsBackOnError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectRollback()

	tm := NewTxManager(db)
	boom := errors.New("boom")
	err = tm.WithinTx(context.Background(), func(ctx context.Context) error {
		return boom
	})

	assert.ErrorIs(t, err, boom)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTxManagerNestedCallJoinsAmbientTx(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	// Exactly one begin/commit pair despite two WithinTx calls.
	mock.ExpectBegin()
	mock.ExpectCommit()

	tm := NewTxManager(db)
	err = tm.WithinTx(context.Background(), func(ctx context.Context) error {
		return tm.WithinTx(ctx, func(ctx context.Context) error {
			return nil
		})
	})

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
