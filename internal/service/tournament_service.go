package service

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/AdamBeresnev/swiss-chess/internal/swiss"
	"github.com/google/uuid"
)

// TournamentInput describes a new tournament. A zero MaxRounds means the
// default round count.
type TournamentInput struct {
	Name        string
	Place       string
	Dates       []time.Time
	TimeControl swiss.TimeControl
	MaxRounds   int
	Description string
}

func (m *Manager) CreateTournament(in TournamentInput) (TournamentData, error) {
	if strings.TrimSpace(in.Name) == "" {
		return TournamentData{}, fmt.Errorf("%w: a tournament needs a name", ErrInvalidInput)
	}
	if in.MaxRounds < 0 {
		return TournamentData{}, fmt.Errorf("%w: negative round count %d", ErrInvalidInput, in.MaxRounds)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	t := swiss.NewTournament(strings.TrimSpace(in.Name), strings.TrimSpace(in.Place), in.Dates, in.TimeControl, in.MaxRounds, in.Description)
	m.tournaments = append(m.tournaments, t)

	slog.Info("tournament created", "id", t.ID, "tournament", t.Name, "rounds", t.MaxRounds, "time_control", t.TimeControl)
	return newTournamentData(t), nil
}

func (m *Manager) Tournament(id uuid.UUID) (TournamentData, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	t, err := m.tournament(id)
	if err != nil {
		return TournamentData{}, err
	}
	return newTournamentData(t), nil
}

// Tournaments lists every tournament, most recent start date first.
func (m *Manager) Tournaments() []TournamentData {
	m.mu.Lock()
	defer m.mu.Unlock()

	sorted := slices.Clone(m.tournaments)
	slices.SortStableFunc(sorted, func(a, b *swiss.Tournament) int {
		return b.StartDate().Compare(a.StartDate())
	})

	data := make([]TournamentData, 0, len(sorted))
	for _, t := range sorted {
		data = append(data, newTournamentData(t))
	}
	return data
}

func (m *Manager) RegisterPlayer(tournamentID, playerID uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	t, err := m.tournament(tournamentID)
	if err != nil {
		return err
	}
	p, err := m.player(playerID)
	if err != nil {
		return err
	}
	if err := t.AddPlayer(p); err != nil {
		return err
	}

	slog.Info("player registered", "tournament", t.Name, "player", p.FullName(), "round", len(t.Rounds()))
	return nil
}

// AvailablePlayers lists, by name, the registry players not yet in the
// tournament.
func (m *Manager) AvailablePlayers(tournamentID uuid.UUID) ([]PlayerData, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	t, err := m.tournament(tournamentID)
	if err != nil {
		return nil, err
	}
	available := slices.DeleteFunc(slices.Clone(m.players), t.HasPlayer)
	return newPlayersData(swiss.PlayersByName(available)), nil
}

func (m *Manager) LaunchNewRound(tournamentID uuid.UUID) (RoundData, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	t, err := m.tournament(tournamentID)
	if err != nil {
		return RoundData{}, err
	}

	r, err := t.LaunchNewRound()
	if err != nil {
		if errors.Is(err, swiss.ErrUnpairablePlayer) {
			m.metrics.PairingFailed()
			slog.Warn("pairing failed", "tournament", t.Name, "error", err)
		}
		return RoundData{}, err
	}
	m.metrics.RoundLaunched()

	attrs := []any{"tournament", t.Name, "round", r.Name, "matches", len(r.Matches())}
	if bye := r.Bye(); bye != nil {
		attrs = append(attrs, "bye", bye.FullName())
	}
	slog.Info("round launched", attrs...)
	return newRoundData(len(t.Rounds()), r), nil
}

func (m *Manager) CurrentRound(tournamentID uuid.UUID) (RoundData, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	t, err := m.tournament(tournamentID)
	if err != nil {
		return RoundData{}, err
	}
	r := t.LastRound()
	if r == nil {
		return RoundData{}, fmt.Errorf("%w: %s", ErrRoundNotFound, t.Name)
	}
	return newRoundData(len(t.Rounds()), r), nil
}

// RecordScore scores the matchIndex-th match (0-based) of the current round.
// The returned round tells whether that closed it.
func (m *Manager) RecordScore(tournamentID uuid.UUID, matchIndex, score1, score2 int) (RoundData, error) {
	if score1 < 0 || score2 < 0 {
		return RoundData{}, fmt.Errorf("%w: negative score %d - %d", ErrInvalidInput, score1, score2)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	t, err := m.tournament(tournamentID)
	if err != nil {
		return RoundData{}, err
	}
	r := t.LastRound()
	if r == nil {
		return RoundData{}, fmt.Errorf("%w: %s", ErrRoundNotFound, t.Name)
	}
	match, err := r.Match(matchIndex)
	if err != nil {
		return RoundData{}, fmt.Errorf("%w: %s has no match %d", ErrMatchNotFound, r.Name, matchIndex+1)
	}

	closed, err := t.RecordScore(match, score1, score2)
	if err != nil {
		return RoundData{}, err
	}
	m.metrics.ResultRecorded()

	slog.Info("score recorded", "tournament", t.Name, "round", r.Name, "match", match.String())
	if closed {
		slog.Info("round closed", "tournament", t.Name, "round", r.Name, "duration", r.Duration(), "over", t.IsOver())
	}
	return newRoundData(len(t.Rounds()), r), nil
}

func (m *Manager) Standings(tournamentID uuid.UUID) ([]StandingData, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	t, err := m.tournament(tournamentID)
	if err != nil {
		return nil, err
	}

	standings := t.Standings()
	data := make([]StandingData, 0, len(standings))
	for _, s := range standings {
		data = append(data, StandingData{
			Rank:   s.Rank,
			Player: newPlayerData(s.Player),
			Elo:    s.Elo,
			Points: s.Points,
		})
	}
	return data, nil
}

func (m *Manager) tournament(id uuid.UUID) (*swiss.Tournament, error) {
	i := slices.IndexFunc(m.tournaments, func(t *swiss.Tournament) bool { return t.ID == id })
	if i < 0 {
		return nil, fmt.Errorf("%w: %s", ErrTournamentNotFound, id)
	}
	return m.tournaments[i], nil
}
