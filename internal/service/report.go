package service

import (
	"github.com/AdamBeresnev/swiss-chess/internal/swiss"
	"github.com/AdamBeresnev/swiss-chess/internal/utils"
	"github.com/google/uuid"
)

// The *Data types are snapshots and share no memory with the live state.

type PlayerData struct {
	ID         uuid.UUID `json:"id"`
	FamilyName string    `json:"family_name"`
	FirstName  string    `json:"first_name"`
	FullName   string    `json:"full_name"`
	BirthDate  string    `json:"birthdate"`
	Sex        string    `json:"sex"`
	Elo        int       `json:"elo"`
}

func newPlayerData(p *swiss.Player) PlayerData {
	return PlayerData{
		ID:         p.ID,
		FamilyName: p.FamilyName,
		FirstName:  p.FirstName,
		FullName:   p.FullName(),
		BirthDate:  p.BirthDate.Format(swiss.LongDateLayout),
		Sex:        p.Sex.String(),
		Elo:        p.Elo,
	}
}

func newPlayersData(players []*swiss.Player) []PlayerData {
	data := make([]PlayerData, 0, len(players))
	for _, p := range players {
		data = append(data, newPlayerData(p))
	}
	return data
}

type MatchData struct {
	// Number is 1-based, in pairing order.
	Number  int        `json:"number"`
	Player1 PlayerData `json:"player1"`
	Player2 PlayerData `json:"player2"`
	Score1  *int       `json:"score1"`
	Score2  *int       `json:"score2"`
	Result  string     `json:"result"`
	Ended   bool       `json:"ended"`
}

func newMatchData(i int, m *swiss.Match) MatchData {
	p1, p2 := m.Players()
	s1, s2 := m.Scores()
	data := MatchData{
		Number:  i + 1,
		Player1: newPlayerData(p1),
		Player2: newPlayerData(p2),
		Result:  m.ScoreLabel(),
		Ended:   m.Ended(),
	}
	if data.Ended {
		data.Score1 = utils.Ptr(utils.OrZero(s1))
		data.Score2 = utils.Ptr(utils.OrZero(s2))
	}
	return data
}

type RoundData struct {
	Number   int         `json:"number"`
	Name     string      `json:"name"`
	Start    string      `json:"start"`
	End      *string     `json:"end"`
	Duration string      `json:"duration"`
	Ended    bool        `json:"ended"`
	Matches  []MatchData `json:"matches"`
	Bye      *PlayerData `json:"bye,omitempty"`
}

func newRoundData(number int, r *swiss.Round) RoundData {
	data := RoundData{
		Number:   number,
		Name:     r.Name,
		Start:    r.Start.Format(swiss.TimestampLayout),
		End:      utils.FormatOrNil(r.End, swiss.TimestampLayout),
		Duration: r.Duration().String(),
		Ended:    r.Ended(),
	}
	for i, m := range r.Matches() {
		data.Matches = append(data.Matches, newMatchData(i, m))
	}
	if bye := r.Bye(); bye != nil {
		data.Bye = utils.Ptr(newPlayerData(bye))
	}
	return data
}

type StandingData struct {
	Rank   int        `json:"rank"`
	Player PlayerData `json:"player"`
	Elo    int        `json:"elo"`
	Points float64    `json:"points"`
}

type TournamentData struct {
	ID          uuid.UUID    `json:"id"`
	Name        string       `json:"name"`
	Place       string       `json:"place"`
	Dates       []string     `json:"dates"`
	TimeControl string       `json:"time_control"`
	MaxRounds   int          `json:"max_rounds"`
	Description string       `json:"description"`
	Over        bool         `json:"over"`
	Players     []PlayerData `json:"players"`
	Rounds      []RoundData  `json:"rounds"`
}

func newTournamentData(t *swiss.Tournament) TournamentData {
	data := TournamentData{
		ID:          t.ID,
		Name:        t.Name,
		Place:       t.Place,
		Dates:       make([]string, 0, len(t.Dates)),
		TimeControl: string(t.TimeControl),
		MaxRounds:   t.MaxRounds,
		Description: t.Description,
		Over:        t.IsOver(),
		Players:     newPlayersData(t.RankedByName()),
		Rounds:      []RoundData{},
	}
	for _, d := range t.Dates {
		data.Dates = append(data.Dates, d.Format(swiss.LongDateLayout))
	}
	for i, r := range t.Rounds() {
		data.Rounds = append(data.Rounds, newRoundData(i+1, r))
	}
	return data
}
