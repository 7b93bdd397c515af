package store

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

type tableQueries struct {
	truncate string
	insert   string
	all      string
}

// Table names can't be bound as parameters, so every table gets its own
// fixed set of statements.
var sqlQueries = map[string]tableQueries{
	PlayersTable: {
		truncate: "DELETE FROM players",
		insert:   "INSERT INTO players (doc) VALUES (?) RETURNING id",
		all:      "SELECT id, doc FROM players ORDER BY id ASC",
	},
	TournamentsTable: {
		truncate: "DELETE FROM tournaments",
		insert:   "INSERT INTO tournaments (doc) VALUES (?) RETURNING id",
		all:      "SELECT id, doc FROM tournaments ORDER BY id ASC",
	},
}

func queriesFor(table string) (tableQueries, error) {
	if err := checkTable(table); err != nil {
		return tableQueries{}, err
	}
	return sqlQueries[table], nil
}

// SQLStore keeps documents in SQLite tables created by the migrations.
type SQLStore struct {
	db *sqlx.DB
}

func NewSQLStore(db *sqlx.DB) *SQLStore {
	return &SQLStore{db: db}
}

func (s *SQLStore) Begin(ctx context.Context) (Tx, error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	return &sqlTx{tx: tx}, nil
}

func (s *SQLStore) All(ctx context.Context, table string) ([]Record, error) {
	q, err := queriesFor(table)
	if err != nil {
		return nil, err
	}
	var records []Record
	if err := s.db.SelectContext(ctx, &records, q.all); err != nil {
		return nil, fmt.Errorf("select %s: %w", table, err)
	}
	return records, nil
}

// Close is a no-op: the connection belongs to whoever opened it.
func (s *SQLStore) Close() error {
	return nil
}

type sqlTx struct {
	tx *sqlx.Tx
}

func (t *sqlTx) Truncate(ctx context.Context, table string) error {
	q, err := queriesFor(table)
	if err != nil {
		return err
	}
	if _, err := t.tx.ExecContext(ctx, q.truncate); err != nil {
		return fmt.Errorf("truncate %s: %w", table, err)
	}
	return nil
}

func (t *sqlTx) InsertMany(ctx context.Context, table string, docs [][]byte) ([]int, error) {
	q, err := queriesFor(table)
	if err != nil {
		return nil, err
	}
	ids := make([]int, 0, len(docs))
	for _, doc := range docs {
		var id int
		if err := t.tx.GetContext(ctx, &id, q.insert, string(doc)); err != nil {
			return nil, fmt.Errorf("insert into %s: %w", table, err)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func (t *sqlTx) Commit() error {
	return t.tx.Commit()
}

func (t *sqlTx) Rollback() error {
	return t.tx.Rollback()
}
