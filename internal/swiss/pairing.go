package swiss

import (
	"fmt"
	"slices"

	"github.com/google/uuid"
)

// PairingInput is everything a pairing pass reads. It is never modified.
type PairingInput struct {
	// Ranked is the roster by points then Elo, best first.
	Ranked []*Player
	// History maps a player to the opponents already faced.
	History map[uuid.UUID][]*Player
	// HadBye marks players who already sat out a round.
	HadBye     map[uuid.UUID]bool
	FirstRound bool
}

// Pairing is the outcome of one pairing pass.
type Pairing struct {
	Pairs [][2]*Player
	Bye   *Player
}

// Pair builds the matches of the next round.
//
// With an odd roster the lowest ranked player without a previous bye sits
// out. The rest are paired greedily: a player left with a single legal
// opponent is paired first; otherwise the top ranked player meets the player
// halfway down the pool in the first round, or the best ranked opponent not
// met yet in later rounds. Rematches only happen for the last two players.
func Pair(in PairingInput) (Pairing, error) {
	var out Pairing

	ranked := slices.Clone(in.Ranked)
	if len(ranked)%2 == 1 {
		i := byeCandidate(ranked, in.HadBye)
		out.Bye = ranked[i]
		ranked = slices.Delete(ranked, i, i+1)
	}

	pool := newPairingPool(ranked, in.History)
	for len(pool.remaining) > 0 {
		a, b, err := pool.next(in.FirstRound)
		if err != nil {
			return Pairing{}, err
		}
		out.Pairs = append(out.Pairs, [2]*Player{a, b})
		pool.remove(a)
		pool.remove(b)
	}
	return out, nil
}

func byeCandidate(ranked []*Player, hadBye map[uuid.UUID]bool) int {
	for i := len(ranked) - 1; i >= 0; i-- {
		if !hadBye[ranked[i].ID] {
			return i
		}
	}
	return len(ranked) - 1
}

// pairingPool is owned by a single pairing pass. legal[p] holds the players
// p may still meet; both shrink as pairs are made.
type pairingPool struct {
	remaining []*Player
	legal     map[uuid.UUID]map[uuid.UUID]*Player
}

func newPairingPool(ranked []*Player, history map[uuid.UUID][]*Player) *pairingPool {
	pool := &pairingPool{
		remaining: slices.Clone(ranked),
		legal:     make(map[uuid.UUID]map[uuid.UUID]*Player, len(ranked)),
	}
	for _, p := range ranked {
		candidates := make(map[uuid.UUID]*Player, len(ranked)-1)
		for _, q := range ranked {
			if !p.is(q) {
				candidates[q.ID] = q
			}
		}
		for _, met := range history[p.ID] {
			delete(candidates, met.ID)
		}
		pool.legal[p.ID] = candidates
	}
	return pool
}

func (pool *pairingPool) next(firstRound bool) (*Player, *Player, error) {
	n := len(pool.remaining)
	if n == 2 {
		return pool.remaining[0], pool.remaining[1], nil
	}

	for _, p := range pool.remaining {
		if candidates := pool.legal[p.ID]; len(candidates) == 1 {
			for _, only := range candidates {
				return p, only, nil
			}
		}
	}

	top := pool.remaining[0]
	if firstRound {
		return top, pool.remaining[(n+1)/2], nil
	}
	for _, q := range pool.remaining[1:] {
		if _, ok := pool.legal[top.ID][q.ID]; ok {
			return top, q, nil
		}
	}
	return nil, nil, fmt.Errorf("%w: %s has no opponent left among %d players", ErrUnpairablePlayer, top.FullName(), n)
}

func (pool *pairingPool) remove(p *Player) {
	pool.remaining = slices.DeleteFunc(pool.remaining, p.is)
	delete(pool.legal, p.ID)
	for _, candidates := range pool.legal {
		delete(candidates, p.ID)
	}
}
