package swiss

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/AdamBeresnev/swiss-chess/internal/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// saved gives players the store ids 1, 2, 3... in order.
func saved(players []*Player) []*Player {
	for i, p := range players {
		p.DocID = i + 1
	}
	return players
}

// jsonRoundTrip pushes v through its JSON form, as a store would.
func jsonRoundTrip[D any](t *testing.T, v D) D {
	t.Helper()

	raw, err := json.Marshal(v)
	require.NoError(t, err)
	var out D
	require.NoError(t, json.Unmarshal(raw, &out))
	return out
}

func TestPlayerDocumentRoundTrip(t *testing.T) {
	p := NewPlayer("Polgar", "Judit", time.Date(1976, time.July, 23, 0, 0, 0, 0, time.UTC), Female, 2735)

	doc, err := p.Serialize()
	require.NoError(t, err)
	assert.Equal(t, "23/07/76", doc.BirthDate)
	assert.Equal(t, 1, doc.Sex)

	restored, err := DeserializePlayer(jsonRoundTrip(t, doc), 7)
	require.NoError(t, err)

	assert.Equal(t, p.ID, restored.ID)
	assert.Equal(t, 7, restored.DocID)
	assert.Equal(t, p.FamilyName, restored.FamilyName)
	assert.Equal(t, p.FirstName, restored.FirstName)
	assert.True(t, p.BirthDate.Equal(restored.BirthDate))
	assert.Equal(t, p.Sex, restored.Sex)
	assert.Equal(t, p.Elo, restored.Elo)
}

func TestPlayerDocumentKeepsTheCentury(t *testing.T) {
	p := NewPlayer("Spassky", "Boris", time.Date(1937, time.January, 30, 0, 0, 0, 0, time.UTC), Male, 2690)

	doc, err := p.Serialize()
	require.NoError(t, err)
	assert.Equal(t, "30/01/37", doc.BirthDate)
	assert.Equal(t, "1937-01-30", doc.BirthDateFull)

	restored, err := DeserializePlayer(jsonRoundTrip(t, doc), 1)
	require.NoError(t, err)
	assert.True(t, p.BirthDate.Equal(restored.BirthDate), "got %s", restored.BirthDate)
}

func TestDeserializePlayer(t *testing.T) {
	t.Run("legacy document without uuid", func(t *testing.T) {
		p, err := DeserializePlayer(PlayerDoc{FamilyName: "Tal", FirstName: "Mikhail", BirthDate: "09/11/36", Sex: 9, Elo: 2705}, 3)
		require.NoError(t, err)
		assert.NotEqual(t, [16]byte{}, [16]byte(p.ID))
		assert.Equal(t, Unspecified, p.Sex)
	})

	t.Run("bad birthdate", func(t *testing.T) {
		_, err := DeserializePlayer(PlayerDoc{BirthDate: "1936-11-09"}, 3)
		require.ErrorIs(t, err, ErrInvalidDocument)
	})

	t.Run("full birthdate wins over the short one", func(t *testing.T) {
		p, err := DeserializePlayer(PlayerDoc{BirthDate: "09/11/36", BirthDateFull: "1936-11-09"}, 3)
		require.NoError(t, err)
		assert.Equal(t, 1936, p.BirthDate.Year())
	})

	t.Run("bad full birthdate", func(t *testing.T) {
		_, err := DeserializePlayer(PlayerDoc{BirthDate: "09/11/36", BirthDateFull: "09/11/1936"}, 3)
		require.ErrorIs(t, err, ErrInvalidDocument)
	})

	t.Run("bad uuid", func(t *testing.T) {
		_, err := DeserializePlayer(PlayerDoc{UUID: "not-a-uuid", BirthDate: "09/11/36"}, 3)
		require.ErrorIs(t, err, ErrInvalidDocument)
	})
}

func TestTournamentDocumentRoundTrip(t *testing.T) {
	start := time.Date(2024, time.May, 4, 10, 0, 0, 0, time.Local)
	fixClock(t,
		start, start.Add(45*time.Minute),
		start.Add(time.Hour), start.Add(2*time.Hour),
		start.Add(3*time.Hour),
	)

	players := saved(newTestPlayers(t, 1800, 1700, 1600, 1500, 1400))
	tournament := newTestTournament(t, 4, players...)
	tournament.Description = "spring open"

	_, err := tournament.LaunchNewRound()
	require.NoError(t, err)
	scoreRound(t, tournament, [2]int{1, 0}, [2]int{1, 1})
	_, err = tournament.LaunchNewRound()
	require.NoError(t, err)
	scoreRound(t, tournament, [2]int{0, 1}, [2]int{1, 0})
	open, err := tournament.LaunchNewRound()
	require.NoError(t, err)
	first, err := open.Match(0)
	require.NoError(t, err)
	_, err = tournament.RecordScore(first, 2, 1)
	require.NoError(t, err)

	doc, err := tournament.Serialize()
	require.NoError(t, err)
	doc = jsonRoundTrip(t, doc)

	idx := make([]*Player, 0, len(players))
	for _, p := range players {
		pd, err := p.Serialize()
		require.NoError(t, err)
		restored, err := DeserializePlayer(jsonRoundTrip(t, pd), p.DocID)
		require.NoError(t, err)
		idx = append(idx, restored)
	}

	restored, err := DeserializeTournament(doc, 11, NewPlayerIndex(idx))
	require.NoError(t, err)

	assert.Equal(t, tournament.ID, restored.ID)
	assert.Equal(t, 11, restored.DocID)
	assert.Equal(t, tournament.Name, restored.Name)
	assert.Equal(t, tournament.Place, restored.Place)
	assert.Equal(t, tournament.TimeControl, restored.TimeControl)
	assert.Equal(t, tournament.MaxRounds, restored.MaxRounds)
	assert.Equal(t, tournament.Description, restored.Description)
	require.Len(t, restored.Dates, 1)
	assert.True(t, tournament.StartDate().Equal(restored.StartDate()))

	restoredPlayers := restored.Players()
	require.Len(t, restoredPlayers, len(players))
	for i, p := range players {
		rp := restoredPlayers[i]
		assert.Equal(t, p.ID, rp.ID)
		assert.Equal(t, tournament.Points(p), restored.Points(rp), p.FirstName)

		var want, got []string
		for _, o := range tournament.AlreadyPlayed(p) {
			want = append(want, o.ID.String())
		}
		for _, o := range restored.AlreadyPlayed(rp) {
			got = append(got, o.ID.String())
		}
		assert.Equal(t, want, got, p.FirstName)
	}

	rounds, restoredRounds := tournament.Rounds(), restored.Rounds()
	require.Len(t, restoredRounds, 3)
	for i, r := range rounds {
		rr := restoredRounds[i]
		assert.Equal(t, r.Name, rr.Name)
		assert.True(t, r.Start.Equal(rr.Start), r.Name)
		assert.Equal(t, r.Ended(), rr.Ended(), r.Name)
		if r.Ended() {
			assert.True(t, r.End.Equal(*rr.End), r.Name)
		}
		assert.Equal(t, matchNames(r), matchNames(rr))
		require.NotNil(t, rr.Bye())
		assert.Equal(t, r.Bye().ID, rr.Bye().ID)

		for j, m := range r.Matches() {
			rm, err := rr.Match(j)
			require.NoError(t, err)
			assert.Equal(t, m.ScoreLabel(), rm.ScoreLabel())
		}
	}

	// the open round carries on where it was left
	last := restored.LastRound()
	assert.False(t, last.Ended())
	second, err := last.Match(1)
	require.NoError(t, err)
	closed, err := restored.RecordScore(second, 0, 1)
	require.NoError(t, err)
	assert.True(t, closed)
}

func TestTournamentSerializeUnsavedPlayer(t *testing.T) {
	players := newTestPlayers(t, 1800, 1700)
	players[0].DocID = 1
	tournament := newTestTournament(t, 4, players...)

	_, err := tournament.Serialize()
	require.ErrorIs(t, err, ErrUnsavedPlayer)
}

func TestDeserializeTournament_Errors(t *testing.T) {
	players := saved(newTestPlayers(t, 1800, 1700))
	idx := NewPlayerIndex(players)
	ended := "2024-05-04 11:00:00"

	testCases := []struct {
		name     string
		doc      TournamentDoc
		expected error
	}{
		{
			name:     "unknown player",
			doc:      TournamentDoc{Name: "Open", NbRounds: 4, Players: []int{1, 9}},
			expected: ErrUnresolvedReference,
		},
		{
			name: "unknown opponent",
			doc: TournamentDoc{
				Name: "Open", NbRounds: 4, Players: []int{1, 2},
				AlreadyPlayed: map[int][]int{1: {5}},
			},
			expected: ErrUnresolvedReference,
		},
		{
			name:     "bad date",
			doc:      TournamentDoc{Name: "Open", NbRounds: 4, Dates: []string{"2024-05-04"}},
			expected: ErrInvalidDocument,
		},
		{
			name:     "bad full date",
			doc:      TournamentDoc{Name: "Open", NbRounds: 4, Dates: []string{"04/05/24"}, DatesFull: []string{"04/05/2024"}},
			expected: ErrInvalidDocument,
		},
		{
			name: "single score",
			doc: TournamentDoc{
				Name: "Open", NbRounds: 4, Players: []int{1, 2},
				Rounds: []RoundDoc{{
					Name:    "Round 1",
					Start:   "2024-05-04 10:00:00",
					Matches: []MatchDoc{{Player1: 1, Player2: 2, Score1: utils.Ptr(1)}},
				}},
			},
			expected: ErrInvalidDocument,
		},
		{
			name: "end stamped on an unfinished round",
			doc: TournamentDoc{
				Name: "Open", NbRounds: 4, Players: []int{1, 2},
				Rounds: []RoundDoc{{
					Name:    "Round 1",
					Start:   "2024-05-04 10:00:00",
					End:     &ended,
					Matches: []MatchDoc{{Player1: 1, Player2: 2}},
				}},
			},
			expected: ErrInvalidDocument,
		},
		{
			name: "finished round without end",
			doc: TournamentDoc{
				Name: "Open", NbRounds: 4, Players: []int{1, 2},
				Rounds: []RoundDoc{{
					Name:    "Round 1",
					Start:   "2024-05-04 10:00:00",
					Matches: []MatchDoc{{Player1: 1, Player2: 2, Score1: utils.Ptr(1), Score2: utils.Ptr(0)}},
				}},
			},
			expected: ErrInvalidDocument,
		},
		{
			name: "more rounds than allowed",
			doc: TournamentDoc{
				Name: "Open", NbRounds: 1, Players: []int{1, 2},
				Rounds: []RoundDoc{
					{Name: "Round 1", Start: "2024-05-04 10:00:00", End: &ended},
					{Name: "Round 2", Start: "2024-05-04 11:00:00", End: &ended},
				},
			},
			expected: ErrInvalidDocument,
		},
		{
			name: "unknown bye",
			doc: TournamentDoc{
				Name: "Open", NbRounds: 4, Players: []int{1, 2},
				Rounds: []RoundDoc{{Name: "Round 1", Start: "2024-05-04 10:00:00", End: &ended, Bye: utils.Ptr(4)}},
			},
			expected: ErrUnresolvedReference,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := DeserializeTournament(tc.doc, 1, idx)
			require.ErrorIs(t, err, tc.expected)
		})
	}
}

func TestTournamentDocumentDates(t *testing.T) {
	dates := []time.Time{
		time.Date(1966, time.April, 9, 0, 0, 0, 0, time.UTC),
		time.Date(1966, time.April, 10, 0, 0, 0, 0, time.UTC),
	}
	tournament := NewTournament("Piatigorsky Cup", "Santa Monica", dates, Rapid, 2, "")

	doc, err := tournament.Serialize()
	require.NoError(t, err)
	assert.Equal(t, []string{"09/04/66", "10/04/66"}, doc.Dates)
	assert.Equal(t, []string{"1966-04-09", "1966-04-10"}, doc.DatesFull)

	restored, err := DeserializeTournament(jsonRoundTrip(t, doc), 1, NewPlayerIndex(nil))
	require.NoError(t, err)
	require.Len(t, restored.Dates, 2)
	for i, d := range dates {
		assert.True(t, d.Equal(restored.Dates[i]), "got %s", restored.Dates[i])
	}

	t.Run("short dates only", func(t *testing.T) {
		legacy, err := DeserializeTournament(TournamentDoc{Name: "Open", NbRounds: 4, Dates: []string{"04/05/24"}}, 1, NewPlayerIndex(nil))
		require.NoError(t, err)
		assert.Equal(t, 2024, legacy.StartDate().Year())
	})
}

func TestParseDate(t *testing.T) {
	testCases := []struct {
		input    string
		expected time.Time
	}{
		{"30/01/1937", time.Date(1937, time.January, 30, 0, 0, 0, 0, time.UTC)},
		{" 30/01/37 ", time.Date(2037, time.January, 30, 0, 0, 0, 0, time.UTC)},
		{"23/07/76", time.Date(1976, time.July, 23, 0, 0, 0, 0, time.UTC)},
	}

	for _, tc := range testCases {
		t.Run(tc.input, func(t *testing.T) {
			d, err := ParseDate(tc.input)
			require.NoError(t, err)
			assert.True(t, tc.expected.Equal(d), "got %s", d)
		})
	}

	_, err := ParseDate("1937-01-30")
	require.Error(t, err)
}
