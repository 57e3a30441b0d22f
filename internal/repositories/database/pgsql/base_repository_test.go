package pgsql

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
)

// stubTx overrides only the commit/rollback surface of pgx.Tx; the embedded
// interface stays nil and must not be reached by these tests.
type stubTx struct {
	pgx.Tx
	commitErr   error
	rollbackErr error
}

func (s *stubTx) Commit(ctx context.Context) error   { return s.commitErr }
func (s *stubTx) Rollback(ctx context.Context) error { return s.rollbackErr }

func TestBaseRepositoryCommit(t *testing.T) {
	repo := BaseRepository{}

	assert.NoError(t, repo.Commit(context.Background(), &stubTx{}), "Clean commit should pass through")

	boom := errors.New("connection reset")
	err := repo.Commit(context.Background(), &stubTx{commitErr: boom})
	assert.Error(t, err, "Commit failure should surface")
	assert.ErrorIs(t, err, boom, "Commit failure should wrap the driver error")
	assert.Contains(t, err.Error(), "failed to commit transaction")
}

func TestBaseRepositoryRollback(t *testing.T) {
	repo := BaseRepository{}

	assert.NoError(t, repo.Rollback(context.Background(), &stubTx{}), "Clean rollback should pass through")
	assert.NoError(t, repo.Rollback(context.Background(), &stubTx{rollbackErr: sql.ErrTxDone}),
		"Rollback after commit is not an error")

	boom := errors.New("connection reset")
	err := repo.Rollback(context.Background(), &stubTx{rollbackErr: boom})
	assert.Error(t, err, "Rollback failure should surface")
	assert.ErrorIs(t, err, boom, "Rollback failure should wrap the driver error")
}

func TestRepositoriesEmbedBaseRepository(t *testing.T) {
	// The tx helpers are reachable from every repository, not just the one
	// that currently runs multi-statement deletes.
	var instrumentRepo PgxInstrumentRepository
	var transactionRepo PgxTransactionRepository
	var userRepo PgxUserRepository

	assert.Nil(t, instrumentRepo.Pool)
	assert.Nil(t, transactionRepo.Pool)
	assert.Nil(t, userRepo.Pool)
}
