package store

import (
	"context"
	"errors"
	"fmt"
)

const (
	PlayersTable     = "players"
	TournamentsTable = "tournaments"
)

var ErrUnknownTable = errors.New("unknown table")

// Record is one stored document and the id the store assigned to it.
type Record struct {
	ID  int    `db:"id"`
	Doc []byte `db:"doc"`
}

// DocumentStore keeps named tables of JSON documents keyed by integer ids.
type DocumentStore interface {
	Begin(ctx context.Context) (Tx, error)
	// All returns a table's records in id order.
	All(ctx context.Context, table string) ([]Record, error)
	Close() error
}

// Tx groups writes so they land together or not at all.
type Tx interface {
	Truncate(ctx context.Context, table string) error
	// InsertMany returns the new ids in the same order as docs.
	InsertMany(ctx context.Context, table string, docs [][]byte) ([]int, error)
	Commit() error
	Rollback() error
}

func checkTable(table string) error {
	switch table {
	case PlayersTable, TournamentsTable:
		return nil
	default:
		return fmt.Errorf("%w: %q", ErrUnknownTable, table)
	}
}
