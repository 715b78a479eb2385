package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nikolayk812/shopcore/internal/db"
)

var txOptions = pgx.TxOptions{
	IsoLevel:       pgx.ReadCommitted,
	AccessMode:     pgx.ReadWrite,
	DeferrableMode: pgx.NotDeferrable,
}

// snapshotTxOptions give every statement of the transaction the same snapshot,
// so a listing page and its total count agree.
var snapshotTxOptions = pgx.TxOptions{
	IsoLevel:       pgx.RepeatableRead,
	AccessMode:     pgx.ReadOnly,
	DeferrableMode: pgx.NotDeferrable,
}

// withTx executes fn within a transaction if the repository was created with a pool,
// or uses the existing transaction if the repository was created with a transaction
func withTx[T any](ctx context.Context, dbtx db.DBTX, fn func(q *db.Queries) (T, error)) (T, error) {
	return inTx(ctx, dbtx, func(tx pgx.Tx) (T, error) {
		return fn(db.New(tx))
	})
}

// withSnapshot is withTx for reads spanning several statements.
func withSnapshot[T any](ctx context.Context, dbtx db.DBTX, fn func(q *db.Queries) (T, error)) (T, error) {
	return beginTx(ctx, dbtx, snapshotTxOptions, func(tx pgx.Tx) (T, error) {
		return fn(db.New(tx))
	})
}

// inTx is withTx for callers that need the transaction itself, e.g. to open savepoints.
func inTx[T any](ctx context.Context, dbtx db.DBTX, fn func(tx pgx.Tx) (T, error)) (T, error) {
	return beginTx(ctx, dbtx, txOptions, fn)
}

func beginTx[T any](ctx context.Context, dbtx db.DBTX, opts pgx.TxOptions, fn func(tx pgx.Tx) (T, error)) (T, error) {
	var zero T

	// Already in a transaction, just use it
	if tx, ok := dbtx.(pgx.Tx); ok {
		return fn(tx)
	}

	pool, ok := dbtx.(*pgxpool.Pool)
	if !ok {
		return zero, fmt.Errorf("dbtx is neither pgx.Tx nor *pgxpool.Pool: %T", dbtx)
	}

	tx, err := pool.BeginTx(ctx, opts)
	if err != nil {
		return zero, fmt.Errorf("pool.BeginTx: %w", err)
	}

	return runTx(ctx, tx, fn)
}

// withSubTx always opens a new unit that can fail on its own: a savepoint when
// dbtx is already a transaction, a fresh transaction otherwise. A failed
// statement inside it does not abort the enclosing transaction.
func withSubTx[T any](ctx context.Context, dbtx db.DBTX, fn func(q *db.Queries) (T, error)) (T, error) {
	var zero T

	var (
		tx  pgx.Tx
		err error
	)

	switch v := dbtx.(type) {
	case pgx.Tx:
		tx, err = v.Begin(ctx)
	case *pgxpool.Pool:
		tx, err = v.BeginTx(ctx, txOptions)
	default:
		return zero, fmt.Errorf("dbtx is neither pgx.Tx nor *pgxpool.Pool: %T", dbtx)
	}
	if err != nil {
		return zero, fmt.Errorf("begin: %w", err)
	}

	return runTx(ctx, tx, func(tx pgx.Tx) (T, error) {
		return fn(db.New(tx))
	})
}

func runTx[T any](ctx context.Context, tx pgx.Tx, fn func(tx pgx.Tx) (T, error)) (_ T, txErr error) {
	var zero T

	// Ensure proper rollback handling, also when ctx is already cancelled
	defer func() {
		if txErr != nil {
			rollbackErr := tx.Rollback(context.WithoutCancel(ctx))
			if rollbackErr != nil && !errors.Is(rollbackErr, pgx.ErrTxClosed) {
				txErr = errors.Join(txErr, fmt.Errorf("tx.Rollback: %w", rollbackErr))
			}
		}
	}()

	result, err := fn(tx)
	if err != nil {
		return zero, err
	}

	if err := tx.Commit(ctx); err != nil {
		return zero, fmt.Errorf("tx.Commit: %w", err)
	}

	return result, nil
}
