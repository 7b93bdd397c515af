package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/AdamBeresnev/swiss-chess/internal/swiss"
	"github.com/google/uuid"
)

// TournamentStore writes the player registry and the tournaments to a
// DocumentStore and reads them back.
type TournamentStore struct {
	docs DocumentStore
}

func NewTournamentStore(docs DocumentStore) *TournamentStore {
	return &TournamentStore{docs: docs}
}

// Save replaces everything stored with players and tournaments. Players are
// written first so tournaments can refer to them by their new ids. On failure
// the previous contents are kept and in-memory ids are left as they were.
func (s *TournamentStore) Save(ctx context.Context, players []*swiss.Player, tournaments []*swiss.Tournament) (err error) {
	playerIDs := make([]int, len(players))
	for i, p := range players {
		playerIDs[i] = p.DocID
	}
	tournamentIDs := make([]int, len(tournaments))
	for i, t := range tournaments {
		tournamentIDs[i] = t.DocID
	}
	defer func() {
		if err == nil {
			return
		}
		for i, p := range players {
			p.DocID = playerIDs[i]
		}
		for i, t := range tournaments {
			t.DocID = tournamentIDs[i]
		}
	}()

	if err := checkRoster(players, tournaments); err != nil {
		return err
	}

	tx, err := s.docs.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	docs := make([][]byte, 0, len(players))
	for _, p := range players {
		raw, err := marshal[swiss.PlayerDoc](p)
		if err != nil {
			return err
		}
		docs = append(docs, raw)
	}
	ids, err := replaceTable(ctx, tx, PlayersTable, docs)
	if err != nil {
		return err
	}
	for i, p := range players {
		p.DocID = ids[i]
	}

	docs = make([][]byte, 0, len(tournaments))
	for _, t := range tournaments {
		raw, err := marshal[swiss.TournamentDoc](t)
		if err != nil {
			return err
		}
		docs = append(docs, raw)
	}
	ids, err = replaceTable(ctx, tx, TournamentsTable, docs)
	if err != nil {
		return err
	}
	for i, t := range tournaments {
		t.DocID = ids[i]
	}

	return tx.Commit()
}

// checkRoster makes sure every tournament only refers to players that are
// about to be written.
func checkRoster(players []*swiss.Player, tournaments []*swiss.Tournament) error {
	saved := make(map[uuid.UUID]bool, len(players))
	for _, p := range players {
		saved[p.ID] = true
	}
	for _, t := range tournaments {
		for _, p := range t.Players() {
			if !saved[p.ID] {
				return fmt.Errorf("tournament %q: %w: %s", t.Name, swiss.ErrUnsavedPlayer, p.FullName())
			}
		}
	}
	return nil
}

func marshal[D any](v swiss.Serializable[D]) ([]byte, error) {
	doc, err := v.Serialize()
	if err != nil {
		return nil, err
	}
	return json.Marshal(doc)
}

func replaceTable(ctx context.Context, tx Tx, table string, docs [][]byte) ([]int, error) {
	if err := tx.Truncate(ctx, table); err != nil {
		return nil, err
	}
	ids, err := tx.InsertMany(ctx, table, docs)
	if err != nil {
		return nil, err
	}
	if len(ids) != len(docs) {
		return nil, fmt.Errorf("insert into %s: got %d ids for %d documents", table, len(ids), len(docs))
	}
	return ids, nil
}

func (s *TournamentStore) LoadPlayers(ctx context.Context) ([]*swiss.Player, error) {
	records, err := s.docs.All(ctx, PlayersTable)
	if err != nil {
		return nil, err
	}
	players := make([]*swiss.Player, 0, len(records))
	for _, r := range records {
		var doc swiss.PlayerDoc
		if err := unmarshal(r, &doc); err != nil {
			return nil, err
		}
		p, err := swiss.DeserializePlayer(doc, r.ID)
		if err != nil {
			return nil, fmt.Errorf("player %d: %w", r.ID, err)
		}
		players = append(players, p)
	}
	return players, nil
}

// LoadTournaments resolves player references through idx, which should
// come from the players returned by LoadPlayers.
func (s *TournamentStore) LoadTournaments(ctx context.Context, idx swiss.PlayerIndex) ([]*swiss.Tournament, error) {
	records, err := s.docs.All(ctx, TournamentsTable)
	if err != nil {
		return nil, err
	}
	tournaments := make([]*swiss.Tournament, 0, len(records))
	for _, r := range records {
		var doc swiss.TournamentDoc
		if err := unmarshal(r, &doc); err != nil {
			return nil, err
		}
		t, err := swiss.DeserializeTournament(doc, r.ID, idx)
		if err != nil {
			return nil, fmt.Errorf("tournament %d: %w", r.ID, err)
		}
		tournaments = append(tournaments, t)
	}
	return tournaments, nil
}

func unmarshal(r Record, v any) error {
	if err := json.Unmarshal(r.Doc, v); err != nil {
		return fmt.Errorf("%w: record %d: %v", swiss.ErrInvalidDocument, r.ID, err)
	}
	return nil
}
