package syncer

import (
	"testing"
	"time"

	"github.com/mauv0809/tennis-oracle/internal/provider"
	"github.com/mauv0809/tennis-oracle/internal/tennis"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildBatch(t *testing.T) {
	rankings := []provider.RankingSnapshot{
		{Tour: "ATP", PlayerName: " Novak Djokovic ", Country: "srb", Rank: 1, Points: 12415, AsOfDate: "2019-07-15"},
	}
	tournaments := []provider.TournamentSnapshot{
		{
			ID: "2019-540", Name: "Wimbledon", Tour: "ATP", Season: 2019, Level: "Grand Slam", Surface: "Grass", StartDate: "2019-07-01",
			Matches: []provider.MatchSnapshot{
				{
					ID: "2019-540-F", Round: "Final", Date: "2019-07-14",
					Winner:      provider.PlayerRef{Name: "Novak Djokovic", Country: "SRB"},
					Loser:       provider.PlayerRef{Name: "Roger Federer", Country: "SUI"},
					Score:       "7-6 1-6 7-6 4-6 13-12",
					WinnerStats: provider.ServeStats{Aces: 10, ServePoints: 200},
				},
				{ID: "2019-540-W", Round: "R128", Winner: provider.PlayerRef{Name: "Someone"}},
			},
		},
	}

	batch := buildBatch(tennis.TourATP, rankings, tournaments)

	assert.Equal(t, tennis.TourATP, batch.Tour)
	require.Len(t, batch.Rankings, 1)
	assert.Equal(t, "Novak Djokovic", batch.Rankings[0].PlayerName)
	assert.Equal(t, "SRB", batch.Rankings[0].Country)

	require.Len(t, batch.Tournaments, 1)
	assert.Equal(t, tennis.LevelGrandSlam, batch.Tournaments[0].Level)
	assert.Equal(t, "grass", batch.Tournaments[0].Surface)
	assert.Equal(t, tennis.TourATP, batch.Tournaments[0].Tour)

	require.Len(t, batch.Matches, 1, "matches without two players are dropped")
	m := batch.Matches[0]
	assert.Equal(t, "2019-540", m.TournamentID)
	assert.Equal(t, tennis.RoundFinal, m.Round)
	assert.Equal(t, 10, m.WinnerStats.Aces)
	assert.Equal(t, 200, m.WinnerStats.ServePoints)
}

func TestNormalizeLevel(t *testing.T) {
	cases := map[string]string{
		"G":            tennis.LevelGrandSlam,
		"Grand Slam":   tennis.LevelGrandSlam,
		"grand-slam":   tennis.LevelGrandSlam,
		"Masters 1000": "masters",
		"ATP Finals":   "finals",
		"":             "other",
		"ATP 500":      "atp_500",
	}
	for in, want := range cases {
		assert.Equal(t, want, normalizeLevel(in), "level %q", in)
	}
}

func TestNormalizeRound(t *testing.T) {
	cases := map[string]string{
		"F":             "F",
		"final":         "F",
		"Semi-Final":    "SF",
		"quarterfinals": "QF",
		"r16":           "R16",
		"Round of 32":   "R32",
		"Round Robin":   "RR",
		"q1":            "Q1",
	}
	for in, want := range cases {
		assert.Equal(t, want, normalizeRound(in), "round %q", in)
	}
}

func TestParseSchedule(t *testing.T) {
	base := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

	t.Run("integer seconds", func(t *testing.T) {
		s, err := ParseSchedule("3600")
		require.NoError(t, err)
		assert.True(t, base.Add(time.Hour).Equal(s.Next(base)))
	})

	t.Run("cron expression", func(t *testing.T) {
		s, err := ParseSchedule("0 */6 * * *")
		require.NoError(t, err)
		assert.True(t, time.Date(2024, 1, 1, 18, 0, 0, 0, time.UTC).Equal(s.Next(base)))
	})

	t.Run("rejects non-positive intervals", func(t *testing.T) {
		_, err := ParseSchedule("0")
		assert.Error(t, err)
	})

	t.Run("rejects garbage", func(t *testing.T) {
		_, err := ParseSchedule("every now and then")
		assert.Error(t, err)
	})
}
