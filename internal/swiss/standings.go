package swiss

import (
	"cmp"
	"slices"
	"strings"
)

// Standing is one row of the tournament ranking table.
type Standing struct {
	Rank   int
	Player *Player
	Elo    int
	Points float64
}

// RankedByPoints orders the roster by points then Elo, both descending.
// Players equal on both keep their registration order.
func (t *Tournament) RankedByPoints() []*Player {
	ranked := slices.Clone(t.players)
	slices.SortStableFunc(ranked, func(a, b *Player) int {
		return cmp.Or(
			cmp.Compare(t.points[b.ID], t.points[a.ID]),
			cmp.Compare(b.Elo, a.Elo),
		)
	})
	return ranked
}

func (t *Tournament) RankedByName() []*Player {
	return PlayersByName(t.players)
}

func (t *Tournament) Standings() []Standing {
	ranked := t.RankedByPoints()
	standings := make([]Standing, 0, len(ranked))
	for i, p := range ranked {
		standings = append(standings, Standing{
			Rank:   i + 1,
			Player: p,
			Elo:    p.Elo,
			Points: t.points[p.ID],
		})
	}
	return standings
}

// PlayersByName sorts by family name, ignoring case.
func PlayersByName(players []*Player) []*Player {
	sorted := slices.Clone(players)
	slices.SortStableFunc(sorted, func(a, b *Player) int {
		return cmp.Compare(strings.ToLower(a.FamilyName), strings.ToLower(b.FamilyName))
	})
	return sorted
}

// PlayersByElo sorts by Elo, strongest first.
func PlayersByElo(players []*Player) []*Player {
	sorted := slices.Clone(players)
	slices.SortStableFunc(sorted, func(a, b *Player) int {
		return cmp.Compare(b.Elo, a.Elo)
	})
	return sorted
}
