package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"
)

var (
	// ErrNotFound is returned when a row does not exist
	ErrNotFound = errors.New("record not found")

	// ErrDuplicate is returned on a unique constraint violation
	ErrDuplicate = errors.New("record already exists")

	// ErrOverlap is returned when the reservations exclusion constraint rejects a write
	ErrOverlap = errors.New("reservation overlaps an existing stay")

	// ErrInUse is returned when a row is still referenced by other rows
	ErrInUse = errors.New("record is still referenced")
)

type txKey struct{}

// Transactor runs work inside a transaction carried by the context.
// Repositories built on the same *sqlx.DB pick the transaction up automatically.
type Transactor struct {
	db *sqlx.DB
}

// NewTransactor creates a transactor for db
func NewTransactor(db *sqlx.DB) *Transactor {
	return &Transactor{db: db}
}

// WithTx runs fn in a transaction, joining an outer one if ctx already has it
func (t *Transactor) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if txFromContext(ctx) != nil {
		return fn(ctx)
	}

	tx, err := t.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := fn(context.WithValue(ctx, txKey{}, tx)); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func txFromContext(ctx context.Context) *sqlx.Tx {
	tx, _ := ctx.Value(txKey{}).(*sqlx.Tx)
	return tx
}

// conn returns the transaction in ctx, or db
func conn(ctx context.Context, db *sqlx.DB) sqlx.ExtContext {
	if tx := txFromContext(ctx); tx != nil {
		return tx
	}
	return db
}

func pgCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

// mapError converts driver errors to the package sentinels
func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	switch pgCode(err) {
	case "23P01":
		return ErrOverlap
	case "23505":
		return ErrDuplicate
	case "23503":
		return ErrInUse
	case "22P02":
		return ErrNotFound
	}
	return err
}

// wrap maps err and adds context, keeping the sentinel reachable via errors.Is
func wrap(err error, msg string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", msg, mapError(err))
}

// expectRow turns a zero-row update into ErrNotFound
func expectRow(result sql.Result, entity string) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%s: %w", entity, ErrNotFound)
	}
	return nil
}
