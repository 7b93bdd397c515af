package swiss

import (
	"fmt"
	"testing"
	"time"
)

// newTestPlayers creates one player per Elo, named A, B, C... in that order.
func newTestPlayers(t *testing.T, elos ...int) []*Player {
	t.Helper()

	players := make([]*Player, 0, len(elos))
	for i, elo := range elos {
		name := string(rune('A' + i))
		p := NewPlayer("Family"+name, name, time.Date(1990, time.March, i+1, 0, 0, 0, 0, time.UTC), Male, elo)
		players = append(players, p)
	}
	return players
}

func newTestTournament(t *testing.T, maxRounds int, players ...*Player) *Tournament {
	t.Helper()

	tournament := NewTournament("Open", "Lyon", []time.Time{time.Date(2024, time.May, 4, 0, 0, 0, 0, time.UTC)}, Blitz, maxRounds, "")
	for _, p := range players {
		if err := tournament.AddPlayer(p); err != nil {
			t.Fatalf("add player: %v", err)
		}
	}
	return tournament
}

// fixClock makes the round clock return the given instants in order,
// repeating the last one.
func fixClock(t *testing.T, instants ...time.Time) {
	t.Helper()

	original := now
	i := 0
	now = func() time.Time {
		at := instants[min(i, len(instants)-1)]
		i++
		return at
	}
	t.Cleanup(func() { now = original })
}

func pairNames(pairs [][2]*Player) []string {
	names := make([]string, 0, len(pairs))
	for _, p := range pairs {
		names = append(names, fmt.Sprintf("%s-%s", p[0].FirstName, p[1].FirstName))
	}
	return names
}

func matchNames(r *Round) []string {
	names := make([]string, 0, len(r.matches))
	for _, m := range r.matches {
		a, b := m.Players()
		names = append(names, fmt.Sprintf("%s-%s", a.FirstName, b.FirstName))
	}
	return names
}
