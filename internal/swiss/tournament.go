package swiss

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

type TimeControl string

const (
	Bullet TimeControl = "bullet"
	Blitz  TimeControl = "blitz"
	Rapid  TimeControl = "rapid"
)

var TimeControls = []TimeControl{Bullet, Blitz, Rapid}

// DefaultMaxRounds applies when a tournament is created without a round count.
const DefaultMaxRounds = 4

// ByePoints is what a player sitting out a round is credited.
const ByePoints = 1.0

// TimeControlFromIndex falls back to the first category when i is out of range.
func TimeControlFromIndex(i int) TimeControl {
	if i < 0 || i >= len(TimeControls) {
		return TimeControls[0]
	}
	return TimeControls[i]
}

// ParseTimeControl accepts either a category name or its menu index.
// Unknown input falls back to the first category.
func ParseTimeControl(s string) TimeControl {
	s = strings.ToLower(strings.TrimSpace(s))
	if i, err := strconv.Atoi(s); err == nil {
		return TimeControlFromIndex(i)
	}
	for _, tc := range TimeControls {
		if string(tc) == s {
			return tc
		}
	}
	return TimeControls[0]
}

// Tournament is the aggregate root: roster, rounds and running standings.
type Tournament struct {
	ID          uuid.UUID
	DocID       int
	Name        string
	Place       string
	Dates       []time.Time
	TimeControl TimeControl
	MaxRounds   int
	Description string

	players       []*Player
	rounds        []*Round
	points        map[uuid.UUID]float64
	alreadyPlayed map[uuid.UUID][]*Player
}

func NewTournament(name, place string, dates []time.Time, timeControl TimeControl, maxRounds int, description string) *Tournament {
	if maxRounds <= 0 {
		maxRounds = DefaultMaxRounds
	}
	return &Tournament{
		ID:            uuid.New(),
		Name:          name,
		Place:         place,
		Dates:         dates,
		TimeControl:   ParseTimeControl(string(timeControl)),
		MaxRounds:     maxRounds,
		Description:   description,
		points:        make(map[uuid.UUID]float64),
		alreadyPlayed: make(map[uuid.UUID][]*Player),
	}
}

// StartDate is the first tournament date, or the zero time if none was given.
func (t *Tournament) StartDate() time.Time {
	if len(t.Dates) == 0 {
		return time.Time{}
	}
	return t.Dates[0]
}

func (t *Tournament) Players() []*Player {
	return slices.Clone(t.players)
}

func (t *Tournament) Rounds() []*Round {
	return slices.Clone(t.rounds)
}

func (t *Tournament) LastRound() *Round {
	if len(t.rounds) == 0 {
		return nil
	}
	return t.rounds[len(t.rounds)-1]
}

func (t *Tournament) HasPlayer(p *Player) bool {
	return slices.ContainsFunc(t.players, p.is)
}

// AddPlayer registers p with no points and no opponents, however many rounds
// have already been played.
func (t *Tournament) AddPlayer(p *Player) error {
	if t.HasPlayer(p) {
		return fmt.Errorf("%w: %s", ErrAlreadyRegistered, p.FullName())
	}
	t.players = append(t.players, p)
	t.points[p.ID] = 0
	t.alreadyPlayed[p.ID] = []*Player{}
	return nil
}

func (t *Tournament) Points(p *Player) float64 {
	return t.points[p.ID]
}

// AlreadyPlayed lists the opponents p has faced in closed rounds, oldest first.
func (t *Tournament) AlreadyPlayed(p *Player) []*Player {
	return slices.Clone(t.alreadyPlayed[p.ID])
}

// IsOver reports whether every allowed round has been played out.
func (t *Tournament) IsOver() bool {
	last := t.LastRound()
	return len(t.rounds) >= t.MaxRounds && last != nil && last.Ended()
}

func (t *Tournament) byes() map[uuid.UUID]bool {
	had := make(map[uuid.UUID]bool)
	for _, r := range t.rounds {
		if r.bye != nil {
			had[r.bye.ID] = true
		}
	}
	return had
}

// LaunchNewRound pairs the current standings into a new round and appends it.
// Nothing is appended while the previous round is open, once the round limit
// is reached, or when the pairing pass fails.
func (t *Tournament) LaunchNewRound() (*Round, error) {
	if last := t.LastRound(); last != nil && !last.Ended() {
		return nil, fmt.Errorf("%w: %s", ErrRoundInProgress, last.Name)
	}
	if len(t.rounds) >= t.MaxRounds {
		return nil, ErrTournamentOver
	}

	number := len(t.rounds) + 1
	pairing, err := Pair(PairingInput{
		Ranked:     t.RankedByPoints(),
		History:    t.alreadyPlayed,
		HadBye:     t.byes(),
		FirstRound: number == 1,
	})
	if err != nil {
		return nil, fmt.Errorf("pairing round %d: %w", number, err)
	}

	r := NewRound(fmt.Sprintf("Round %d", number))
	for _, pair := range pairing.Pairs {
		r.matches = append(r.matches, NewMatch(pair[0], pair[1]))
	}
	r.bye = pairing.Bye
	t.rounds = append(t.rounds, r)

	// a round with nothing to play (one player, or none) is over at once
	if r.closeIfComplete() {
		if err := t.RecordResults(r); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// RecordScore scores a match of the current round. When that closes the
// round its results are folded into the standings.
func (t *Tournament) RecordScore(m *Match, score1, score2 int) (bool, error) {
	last := t.LastRound()
	if last == nil {
		return false, ErrUnknownMatch
	}
	closed, err := last.RecordScore(m, score1, score2)
	if err != nil {
		return false, err
	}
	if closed {
		if err := t.RecordResults(last); err != nil {
			return false, err
		}
	}
	return closed, nil
}

// RecordResults folds a closed round into points and opponent history.
// A round is only ever folded once; later calls are no-ops.
func (t *Tournament) RecordResults(r *Round) error {
	if !slices.Contains(t.rounds, r) {
		return ErrUnknownRound
	}
	if !r.Ended() {
		return fmt.Errorf("%w: %s", ErrRoundInProgress, r.Name)
	}
	if r.folded {
		return nil
	}

	for _, m := range r.matches {
		for _, p := range m.players {
			result, err := m.Result(p)
			if err != nil {
				return err
			}
			opponent, err := m.Opponent(p)
			if err != nil {
				return err
			}
			t.points[p.ID] += result
			t.alreadyPlayed[p.ID] = append(t.alreadyPlayed[p.ID], opponent)
		}
	}
	if r.bye != nil {
		t.points[r.bye.ID] += ByePoints
	}

	r.folded = true
	return nil
}

func (t *Tournament) String() string {
	return t.Name
}
