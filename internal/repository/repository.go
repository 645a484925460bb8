package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrNotFound is returned when a lookup matches no row.
var ErrNotFound = errors.New("record not found")

// pgUniqueViolation is the SQLSTATE for unique_violation.
const pgUniqueViolation = "23505"

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation
}

func notFound(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	return err
}

// queryPage sends the count and the row slice to the store in one batch so a
// page and its total travel in a single round trip. The two statements are
// not run in a snapshot; the total may drift from the page under concurrent writes.
func queryPage[T any](
	ctx context.Context,
	pool *pgxpool.Pool,
	countSQL string, countArgs []any,
	listSQL string, listArgs []any,
	scan pgx.RowToFunc[T],
) ([]T, int64, error) {
	batch := &pgx.Batch{}
	batch.Queue(countSQL, countArgs...)
	batch.Queue(listSQL, listArgs...)

	br := pool.SendBatch(ctx, batch)
	defer br.Close()

	var total int64
	if err := br.QueryRow().Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count: %w", err)
	}

	rows, err := br.Query()
	if err != nil {
		return nil, 0, fmt.Errorf("list: %w", err)
	}
	items, err := pgx.CollectRows(rows, scan)
	if err != nil {
		return nil, 0, fmt.Errorf("scan: %w", err)
	}

	if err := br.Close(); err != nil {
		return nil, 0, err
	}
	return items, total, nil
}
