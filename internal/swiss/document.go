package swiss

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Serializable is implemented by every entity that is persisted as a document.
type Serializable[D any] interface {
	Serialize() (D, error)
}

var (
	_ Serializable[PlayerDoc]     = (*Player)(nil)
	_ Serializable[MatchDoc]      = (*Match)(nil)
	_ Serializable[RoundDoc]      = (*Round)(nil)
	_ Serializable[TournamentDoc] = (*Tournament)(nil)
)

// PlayerIndex resolves store ids back to players while deserializing.
type PlayerIndex map[int]*Player

func NewPlayerIndex(players []*Player) PlayerIndex {
	idx := make(PlayerIndex, len(players))
	for _, p := range players {
		if p.DocID != 0 {
			idx[p.DocID] = p
		}
	}
	return idx
}

func (idx PlayerIndex) Resolve(id int) (*Player, error) {
	p, ok := idx[id]
	if !ok {
		return nil, fmt.Errorf("%w: player %d", ErrUnresolvedReference, id)
	}
	return p, nil
}

func docID(p *Player) (int, error) {
	if p.DocID == 0 {
		return 0, fmt.Errorf("%w: %s", ErrUnsavedPlayer, p.FullName())
	}
	return p.DocID, nil
}

// PlayerDoc stores the birth date twice: DD/MM/YY and, in BirthDateFull,
// with its century.
type PlayerDoc struct {
	UUID          string `json:"uuid,omitempty"`
	FamilyName    string `json:"family_name"`
	FirstName     string `json:"first_name"`
	BirthDate     string `json:"birthdate"`
	BirthDateFull string `json:"birthdate_full,omitempty"`
	Sex           int    `json:"sex"`
	Elo           int    `json:"elo"`
}

func (p *Player) Serialize() (PlayerDoc, error) {
	return PlayerDoc{
		UUID:          p.ID.String(),
		FamilyName:    p.FamilyName,
		FirstName:     p.FirstName,
		BirthDate:     p.BirthDate.Format(DateLayout),
		BirthDateFull: p.BirthDate.Format(FullDateLayout),
		Sex:           int(p.Sex),
		Elo:           p.Elo,
	}, nil
}

// DeserializePlayer rebuilds a player stored under storeID. Documents written
// before identifiers were persisted get a fresh one.
func DeserializePlayer(doc PlayerDoc, storeID int) (*Player, error) {
	birthDate, err := parseDocDate(doc.BirthDateFull, doc.BirthDate)
	if err != nil {
		return nil, fmt.Errorf("%w: birthdate: %v", ErrInvalidDocument, err)
	}
	id, err := parseUUID(doc.UUID)
	if err != nil {
		return nil, err
	}
	return &Player{
		ID:         id,
		DocID:      storeID,
		FamilyName: doc.FamilyName,
		FirstName:  doc.FirstName,
		BirthDate:  birthDate,
		Sex:        SexFromIndex(doc.Sex),
		Elo:        doc.Elo,
	}, nil
}

// parseDocDate prefers the dated-with-century form and falls back to DD/MM/YY
// for documents that only carry the short one.
func parseDocDate(full, short string) (time.Time, error) {
	if full != "" {
		return time.Parse(FullDateLayout, full)
	}
	return time.Parse(DateLayout, short)
}

func parseUUID(s string) (uuid.UUID, error) {
	if s == "" {
		return uuid.New(), nil
	}
	id, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: uuid %q: %v", ErrInvalidDocument, s, err)
	}
	return id, nil
}

type MatchDoc struct {
	Player1 int  `json:"player1"`
	Player2 int  `json:"player2"`
	Score1  *int `json:"score1"`
	Score2  *int `json:"score2"`
}

func (m *Match) Serialize() (MatchDoc, error) {
	player1, err := docID(m.players[0])
	if err != nil {
		return MatchDoc{}, err
	}
	player2, err := docID(m.players[1])
	if err != nil {
		return MatchDoc{}, err
	}
	return MatchDoc{
		Player1: player1,
		Player2: player2,
		Score1:  m.scores[0],
		Score2:  m.scores[1],
	}, nil
}

func DeserializeMatch(doc MatchDoc, idx PlayerIndex) (*Match, error) {
	player1, err := idx.Resolve(doc.Player1)
	if err != nil {
		return nil, err
	}
	player2, err := idx.Resolve(doc.Player2)
	if err != nil {
		return nil, err
	}

	m := NewMatch(player1, player2)
	switch {
	case doc.Score1 != nil && doc.Score2 != nil:
		m.SetScore(*doc.Score1, *doc.Score2)
	case doc.Score1 != nil || doc.Score2 != nil:
		return nil, fmt.Errorf("%w: match %d vs %d has a single score", ErrInvalidDocument, doc.Player1, doc.Player2)
	}
	return m, nil
}

type RoundDoc struct {
	Name    string     `json:"name"`
	Matches []MatchDoc `json:"matches"`
	Start   string     `json:"start"`
	End     *string    `json:"end"`
	Bye     *int       `json:"bye"`
}

func (r *Round) Serialize() (RoundDoc, error) {
	doc := RoundDoc{
		Name:    r.Name,
		Matches: make([]MatchDoc, 0, len(r.matches)),
		Start:   r.Start.Format(TimestampLayout),
	}
	for _, m := range r.matches {
		md, err := m.Serialize()
		if err != nil {
			return RoundDoc{}, fmt.Errorf("round %q: %w", r.Name, err)
		}
		doc.Matches = append(doc.Matches, md)
	}
	if r.End != nil {
		end := r.End.Format(TimestampLayout)
		doc.End = &end
	}
	if r.bye != nil {
		id, err := docID(r.bye)
		if err != nil {
			return RoundDoc{}, fmt.Errorf("round %q: %w", r.Name, err)
		}
		doc.Bye = &id
	}
	return doc, nil
}

// DeserializeRound rebuilds a round. A closed round is taken as already
// folded into the standings it was saved with.
func DeserializeRound(doc RoundDoc, idx PlayerIndex) (*Round, error) {
	start, err := time.ParseInLocation(TimestampLayout, doc.Start, time.Local)
	if err != nil {
		return nil, fmt.Errorf("%w: round %q start: %v", ErrInvalidDocument, doc.Name, err)
	}
	r := &Round{Name: doc.Name, Start: start}

	allEnded := true
	for _, md := range doc.Matches {
		m, err := DeserializeMatch(md, idx)
		if err != nil {
			return nil, fmt.Errorf("round %q: %w", doc.Name, err)
		}
		allEnded = allEnded && m.Ended()
		r.matches = append(r.matches, m)
	}

	if doc.End != nil {
		end, err := time.ParseInLocation(TimestampLayout, *doc.End, time.Local)
		if err != nil {
			return nil, fmt.Errorf("%w: round %q end: %v", ErrInvalidDocument, doc.Name, err)
		}
		r.End = &end
	}
	if allEnded != r.Ended() {
		return nil, fmt.Errorf("%w: round %q end does not match its matches", ErrInvalidDocument, doc.Name)
	}

	if doc.Bye != nil {
		if r.bye, err = idx.Resolve(*doc.Bye); err != nil {
			return nil, fmt.Errorf("round %q bye: %w", doc.Name, err)
		}
	}
	r.folded = r.Ended()
	return r, nil
}

type TournamentDoc struct {
	UUID          string          `json:"uuid,omitempty"`
	Name          string          `json:"name"`
	Place         string          `json:"place"`
	Dates         []string        `json:"dates"`
	DatesFull     []string        `json:"dates_full,omitempty"`
	TimeControl   string          `json:"time_control"`
	NbRounds      int             `json:"nb_rounds"`
	Description   string          `json:"description"`
	Players       []int           `json:"players"`
	Rounds        []RoundDoc      `json:"rounds"`
	Points        map[int]float64 `json:"points"`
	AlreadyPlayed map[int][]int   `json:"already_played"`
}

func (t *Tournament) Serialize() (TournamentDoc, error) {
	doc := TournamentDoc{
		UUID:          t.ID.String(),
		Name:          t.Name,
		Place:         t.Place,
		Dates:         make([]string, 0, len(t.Dates)),
		DatesFull:     make([]string, 0, len(t.Dates)),
		TimeControl:   string(t.TimeControl),
		NbRounds:      t.MaxRounds,
		Description:   t.Description,
		Players:       make([]int, 0, len(t.players)),
		Rounds:        make([]RoundDoc, 0, len(t.rounds)),
		Points:        make(map[int]float64, len(t.players)),
		AlreadyPlayed: make(map[int][]int, len(t.players)),
	}
	for _, d := range t.Dates {
		doc.Dates = append(doc.Dates, d.Format(DateLayout))
		doc.DatesFull = append(doc.DatesFull, d.Format(FullDateLayout))
	}

	for _, p := range t.players {
		id, err := docID(p)
		if err != nil {
			return TournamentDoc{}, fmt.Errorf("tournament %q: %w", t.Name, err)
		}
		doc.Players = append(doc.Players, id)
		doc.Points[id] = t.points[p.ID]

		opponents := make([]int, 0, len(t.alreadyPlayed[p.ID]))
		for _, o := range t.alreadyPlayed[p.ID] {
			oid, err := docID(o)
			if err != nil {
				return TournamentDoc{}, fmt.Errorf("tournament %q: %w", t.Name, err)
			}
			opponents = append(opponents, oid)
		}
		doc.AlreadyPlayed[id] = opponents
	}

	for _, r := range t.rounds {
		rd, err := r.Serialize()
		if err != nil {
			return TournamentDoc{}, fmt.Errorf("tournament %q: %w", t.Name, err)
		}
		doc.Rounds = append(doc.Rounds, rd)
	}
	return doc, nil
}

func DeserializeTournament(doc TournamentDoc, storeID int, idx PlayerIndex) (*Tournament, error) {
	dates := make([]time.Time, 0, len(doc.Dates))
	full := doc.DatesFull
	if len(full) != len(doc.Dates) {
		full = make([]string, len(doc.Dates))
	}
	for i, s := range doc.Dates {
		d, err := parseDocDate(full[i], s)
		if err != nil {
			return nil, fmt.Errorf("%w: tournament %q date %q: %v", ErrInvalidDocument, doc.Name, s, err)
		}
		dates = append(dates, d)
	}

	t := NewTournament(doc.Name, doc.Place, dates, TimeControl(doc.TimeControl), doc.NbRounds, doc.Description)
	t.DocID = storeID
	id, err := parseUUID(doc.UUID)
	if err != nil {
		return nil, err
	}
	t.ID = id

	for _, pid := range doc.Players {
		p, err := idx.Resolve(pid)
		if err != nil {
			return nil, fmt.Errorf("tournament %q: %w", doc.Name, err)
		}
		if err := t.AddPlayer(p); err != nil {
			return nil, fmt.Errorf("tournament %q: %w", doc.Name, err)
		}
		t.points[p.ID] = doc.Points[pid]
		for _, oid := range doc.AlreadyPlayed[pid] {
			o, err := idx.Resolve(oid)
			if err != nil {
				return nil, fmt.Errorf("tournament %q: %w", doc.Name, err)
			}
			t.alreadyPlayed[p.ID] = append(t.alreadyPlayed[p.ID], o)
		}
	}

	if len(doc.Rounds) > t.MaxRounds {
		return nil, fmt.Errorf("%w: tournament %q has %d rounds for a limit of %d", ErrInvalidDocument, doc.Name, len(doc.Rounds), t.MaxRounds)
	}
	for _, rd := range doc.Rounds {
		r, err := DeserializeRound(rd, idx)
		if err != nil {
			return nil, fmt.Errorf("tournament %q: %w", doc.Name, err)
		}
		t.rounds = append(t.rounds, r)
	}
	return t, nil
}
