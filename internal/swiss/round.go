package swiss

import (
	"slices"
	"time"
)

// TimestampLayout is the layout of round start and end timestamps in documents.
const TimestampLayout = "2006-01-02 15:04:05"

// now is the round clock, kept at whole seconds.
var now = func() time.Time {
	return time.Now().Truncate(time.Second)
}

// Round is an ordered set of matches played together. It is open until the
// last match gets its score, at which point End is stamped once.
type Round struct {
	Name  string
	Start time.Time
	End   *time.Time

	matches []*Match
	bye     *Player

	// folded is set once the round's results are part of the standings
	folded bool
}

func NewRound(name string) *Round {
	return &Round{Name: name, Start: now()}
}

func (r *Round) Ended() bool {
	return r.End != nil
}

func (r *Round) AddMatch(m *Match) error {
	if r.Ended() {
		return ErrRoundClosed
	}
	r.matches = append(r.matches, m)
	return nil
}

func (r *Round) Matches() []*Match {
	return slices.Clone(r.matches)
}

// Match returns the i-th match (0-based) in creation order.
func (r *Round) Match(i int) (*Match, error) {
	if i < 0 || i >= len(r.matches) {
		return nil, ErrUnknownMatch
	}
	return r.matches[i], nil
}

// Bye returns the player sitting out this round, if any.
func (r *Round) Bye() *Player {
	return r.bye
}

// RecordScore scores one of the round's matches and reports whether that
// closed the round.
func (r *Round) RecordScore(m *Match, score1, score2 int) (bool, error) {
	if !slices.Contains(r.matches, m) {
		return false, ErrUnknownMatch
	}
	if r.Ended() {
		return false, ErrRoundClosed
	}

	m.SetScore(score1, score2)
	return r.closeIfComplete(), nil
}

func (r *Round) closeIfComplete() bool {
	if r.Ended() {
		return false
	}
	for _, m := range r.matches {
		if !m.Ended() {
			return false
		}
	}
	end := now()
	r.End = &end
	return true
}

// Duration is measured up to End, or up to now while the round is open.
func (r *Round) Duration() time.Duration {
	end := now()
	if r.End != nil {
		end = *r.End
	}
	return end.Sub(r.Start).Truncate(time.Second)
}
