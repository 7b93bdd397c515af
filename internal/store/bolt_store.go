package store

import (
	"context"
	"fmt"

	"github.com/asdine/storm"
)

type boltRecord struct {
	ID  int `storm:"id,increment"`
	Doc []byte
}

// BoltStore keeps each table in its own storm node inside a single Bolt file.
type BoltStore struct {
	*storm.DB
}

func NewBoltStore(path string) (*BoltStore, error) {
	db, err := storm.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open bolt store %s: %w", path, err)
	}
	for _, table := range []string{PlayersTable, TournamentsTable} {
		if err := db.From(table).Init(&boltRecord{}); err != nil {
			db.Close()
			return nil, fmt.Errorf("init %s: %w", table, err)
		}
	}
	return &BoltStore{DB: db}, nil
}

func (s *BoltStore) Begin(ctx context.Context) (Tx, error) {
	node, err := s.DB.Begin(true)
	if err != nil {
		return nil, err
	}
	return &boltTx{node: node}, nil
}

func (s *BoltStore) All(ctx context.Context, table string) ([]Record, error) {
	if err := checkTable(table); err != nil {
		return nil, err
	}
	var stored []boltRecord
	if err := s.From(table).All(&stored); err != nil {
		return nil, fmt.Errorf("read %s: %w", table, err)
	}
	return toRecords(stored), nil
}

func toRecords(stored []boltRecord) []Record {
	records := make([]Record, 0, len(stored))
	for _, r := range stored {
		records = append(records, Record{ID: r.ID, Doc: r.Doc})
	}
	return records
}

type boltTx struct {
	node storm.Node
}

func (t *boltTx) Truncate(ctx context.Context, table string) error {
	if err := checkTable(table); err != nil {
		return err
	}
	node := t.node.From(table)
	var stored []boltRecord
	if err := node.All(&stored); err != nil {
		return fmt.Errorf("read %s: %w", table, err)
	}
	for i := range stored {
		if err := node.DeleteStruct(&stored[i]); err != nil {
			return fmt.Errorf("truncate %s: %w", table, err)
		}
	}
	return nil
}

func (t *boltTx) InsertMany(ctx context.Context, table string, docs [][]byte) ([]int, error) {
	if err := checkTable(table); err != nil {
		return nil, err
	}
	node := t.node.From(table)
	ids := make([]int, 0, len(docs))
	for _, doc := range docs {
		r := boltRecord{Doc: doc}
		if err := node.Save(&r); err != nil {
			return nil, fmt.Errorf("insert into %s: %w", table, err)
		}
		ids = append(ids, r.ID)
	}
	return ids, nil
}

func (t *boltTx) Commit() error {
	return t.node.Commit()
}

func (t *boltTx) Rollback() error {
	return t.node.Rollback()
}
