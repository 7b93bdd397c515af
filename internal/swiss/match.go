package swiss

import (
	"fmt"

	"github.com/AdamBeresnev/swiss-chess/internal/utils"
)

// Match pairs two players. Both scores are recorded together, so a match is
// either in progress (no scores) or ended (both scores).
type Match struct {
	players [2]*Player
	scores  [2]*int
}

func NewMatch(player1, player2 *Player) *Match {
	return &Match{players: [2]*Player{player1, player2}}
}

// SetScore records both scores at once. Calling it again overwrites them.
func (m *Match) SetScore(score1, score2 int) {
	m.scores = [2]*int{utils.Ptr(score1), utils.Ptr(score2)}
}

func (m *Match) Ended() bool {
	return m.scores[0] != nil && m.scores[1] != nil
}

// Players returns the participants in the order they were paired.
func (m *Match) Players() (*Player, *Player) {
	return m.players[0], m.players[1]
}

func (m *Match) Scores() (*int, *int) {
	return m.scores[0], m.scores[1]
}

func (m *Match) slot(p *Player) (int, error) {
	for i, occupant := range m.players {
		if occupant.is(p) {
			return i, nil
		}
	}
	return 0, ErrNotAParticipant
}

func (m *Match) Opponent(p *Player) (*Player, error) {
	slot, err := m.slot(p)
	if err != nil {
		return nil, err
	}
	return m.players[1-slot], nil
}

// Result returns 1 for a win, 0 for a loss and 0.5 for a draw, seen from p.
func (m *Match) Result(p *Player) (float64, error) {
	slot, err := m.slot(p)
	if err != nil {
		return 0, err
	}
	if !m.Ended() {
		return 0, ErrMatchInProgress
	}

	own, other := *m.scores[slot], *m.scores[1-slot]
	switch {
	case own > other:
		return 1, nil
	case own < other:
		return 0, nil
	default:
		return 0.5, nil
	}
}

func (m *Match) ScoreLabel() string {
	if !m.Ended() {
		return "in progress"
	}
	return fmt.Sprintf("%d - %d", *m.scores[0], *m.scores[1])
}

func (m *Match) String() string {
	return fmt.Sprintf("%s vs %s   %s", m.players[0], m.players[1], m.ScoreLabel())
}
