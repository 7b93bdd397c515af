package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/AdamBeresnev/swiss-chess/internal/metrics"
	"github.com/AdamBeresnev/swiss-chess/internal/store"
	"github.com/AdamBeresnev/swiss-chess/internal/swiss"
	"github.com/google/uuid"
)

// Manager holds the player registry and every tournament in memory. All
// operations take the same lock, so they run one at a time.
type Manager struct {
	mu          sync.Mutex
	store       *store.TournamentStore
	metrics     *metrics.Manager
	players     []*swiss.Player
	tournaments []*swiss.Tournament
}

func NewManager(store *store.TournamentStore, metrics *metrics.Manager) *Manager {
	return &Manager{store: store, metrics: metrics}
}

type PlayerInput struct {
	FamilyName string
	FirstName  string
	BirthDate  time.Time
	Sex        swiss.Sex
	Elo        int
}

func (in PlayerInput) validate() error {
	if strings.TrimSpace(in.FamilyName) == "" || strings.TrimSpace(in.FirstName) == "" {
		return fmt.Errorf("%w: a player needs a family name and a first name", ErrInvalidInput)
	}
	if in.Elo < 0 {
		return fmt.Errorf("%w: negative elo %d", ErrInvalidInput, in.Elo)
	}
	return nil
}

// CreatePlayer adds a player to the registry. When enrolIn is set the player
// is also registered in that tournament; nothing is created if it is unknown.
func (m *Manager) CreatePlayer(in PlayerInput, enrolIn *uuid.UUID) (PlayerData, error) {
	if err := in.validate(); err != nil {
		return PlayerData{}, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	var tournament *swiss.Tournament
	if enrolIn != nil {
		t, err := m.tournament(*enrolIn)
		if err != nil {
			return PlayerData{}, err
		}
		tournament = t
	}

	p := swiss.NewPlayer(strings.TrimSpace(in.FamilyName), strings.TrimSpace(in.FirstName), in.BirthDate, in.Sex, in.Elo)
	m.players = append(m.players, p)
	m.metrics.SetRegisteredPlayers(len(m.players))

	if tournament != nil {
		if err := tournament.AddPlayer(p); err != nil {
			return PlayerData{}, err
		}
		slog.Info("player enrolled", "player", p.FullName(), "tournament", tournament.Name)
	}

	slog.Info("player created", "id", p.ID, "player", p.FullName(), "elo", p.Elo)
	return newPlayerData(p), nil
}

// UpdatePlayer edits a registered player. The birth date can't change.
func (m *Manager) UpdatePlayer(id uuid.UUID, in PlayerInput) (PlayerData, error) {
	if err := in.validate(); err != nil {
		return PlayerData{}, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	p, err := m.player(id)
	if err != nil {
		return PlayerData{}, err
	}
	p.Update(strings.TrimSpace(in.FamilyName), strings.TrimSpace(in.FirstName), in.Sex, in.Elo)

	slog.Info("player updated", "id", p.ID, "player", p.FullName(), "elo", p.Elo)
	return newPlayerData(p), nil
}

func (m *Manager) Player(id uuid.UUID) (PlayerData, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	p, err := m.player(id)
	if err != nil {
		return PlayerData{}, err
	}
	return newPlayerData(p), nil
}

// Players lists the registry in creation order.
func (m *Manager) Players() []PlayerData {
	m.mu.Lock()
	defer m.mu.Unlock()

	return newPlayersData(m.players)
}

func (m *Manager) PlayersByName() []PlayerData {
	m.mu.Lock()
	defer m.mu.Unlock()

	return newPlayersData(swiss.PlayersByName(m.players))
}

func (m *Manager) PlayersByElo() []PlayerData {
	m.mu.Lock()
	defer m.mu.Unlock()

	return newPlayersData(swiss.PlayersByElo(m.players))
}

func (m *Manager) player(id uuid.UUID) (*swiss.Player, error) {
	i := slices.IndexFunc(m.players, func(p *swiss.Player) bool { return p.ID == id })
	if i < 0 {
		return nil, fmt.Errorf("%w: %s", ErrPlayerNotFound, id)
	}
	return m.players[i], nil
}

// Save writes the registry and every tournament, replacing what was stored.
func (m *Manager) Save(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	start := time.Now()
	err := m.store.Save(ctx, m.players, m.tournaments)
	m.metrics.SaveCompleted(time.Since(start), err)
	if err != nil {
		return fmt.Errorf("failed to save: %w", err)
	}

	slog.Info("state saved", "players", len(m.players), "tournaments", len(m.tournaments), "duration", time.Since(start))
	return nil
}

// Load replaces the in-memory state with what is stored. The current state
// is kept if anything fails to load.
func (m *Manager) Load(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	players, err := m.store.LoadPlayers(ctx)
	if err != nil {
		return fmt.Errorf("failed to load players: %w", err)
	}
	tournaments, err := m.store.LoadTournaments(ctx, swiss.NewPlayerIndex(players))
	if err != nil {
		return fmt.Errorf("failed to load tournaments: %w", err)
	}

	m.players = players
	m.tournaments = tournaments
	m.metrics.SetRegisteredPlayers(len(players))

	slog.Info("state loaded", "players", len(players), "tournaments", len(tournaments))
	return nil
}

// IsNotFound reports whether err is about an unknown player, tournament,
// round or match.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrPlayerNotFound) ||
		errors.Is(err, ErrTournamentNotFound) ||
		errors.Is(err, ErrRoundNotFound) ||
		errors.Is(err, ErrMatchNotFound)
}
