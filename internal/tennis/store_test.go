package tennis_test

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/mauv0809/tennis-oracle/internal/database"
	"github.com/mauv0809/tennis-oracle/internal/tennis"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupTestDB creates a temporary SQLite database for testing.
func setupTestDB(t *testing.T) tennis.Store {
	t.Helper()

	db, teardown, err := database.InitDB(filepath.Join(t.TempDir(), "tennis.db"), "", "")
	require.NoError(t, err)
	t.Cleanup(teardown)

	return tennis.New(db)
}

func wimbledon2019() tennis.Batch {
	return tennis.Batch{
		Tour: tennis.TourATP,
		Rankings: []tennis.Ranking{
			{PlayerName: "Novak Djokovic", Country: "SRB", Rank: 1, Points: 12415, AsOfDate: "2019-07-15"},
			{PlayerName: "Rafael Nadal", Country: "ESP", Rank: 2, Points: 7945, AsOfDate: "2019-07-15"},
			{PlayerName: "Roger Federer", Country: "SUI", Rank: 3, Points: 6950, AsOfDate: "2019-07-15"},
		},
		Tournaments: []tennis.Tournament{
			{ID: "2019-540", Name: "Wimbledon", Season: 2019, Level: tennis.LevelGrandSlam, Surface: "Grass", StartDate: "2019-07-01"},
		},
		Matches: []tennis.Match{
			{
				ID: "2019-540-SF2", TournamentID: "2019-540", Round: "SF", Date: "2019-07-12",
				Winner: "Roger Federer", Loser: "Rafael Nadal", Score: "7-6 1-6 6-3 6-4",
				WinnerStats: tennis.ServiceStats{Aces: 14, ServePoints: 100, FirstServeIn: 60, FirstServeWon: 45, SecondServeWon: 25, BreakPointsSaved: 4, BreakPointsFaced: 5},
			},
			{
				ID: "2019-540-F", TournamentID: "2019-540", Round: "F", Date: "2019-07-14",
				Winner: "Novak Djokovic", Loser: "Roger Federer", Score: "7-6 1-6 7-6 4-6 13-12",
				WinnerStats: tennis.ServiceStats{Aces: 10, DoubleFaults: 3, ServePoints: 200, FirstServeIn: 120, FirstServeWon: 90, SecondServeWon: 40, BreakPointsSaved: 3, BreakPointsFaced: 5},
				LoserStats:  tennis.ServiceStats{Aces: 25, DoubleFaults: 6, ServePoints: 220, FirstServeIn: 140, FirstServeWon: 110, SecondServeWon: 40, BreakPointsSaved: 5, BreakPointsFaced: 8},
			},
		},
	}
}

func TestApplyBatch(t *testing.T) {
	ctx := context.Background()

	t.Run("reports counts per entity", func(t *testing.T) {
		store := setupTestDB(t)

		counts, err := store.ApplyBatch(ctx, wimbledon2019())
		require.NoError(t, err)
		assert.Equal(t, tennis.Counts{Players: 3, Rankings: 3, Tournaments: 1, Matches: 2}, counts)
	})

	t.Run("is idempotent", func(t *testing.T) {
		store := setupTestDB(t)

		_, err := store.ApplyBatch(ctx, wimbledon2019())
		require.NoError(t, err)
		first, err := store.Counts(ctx)
		require.NoError(t, err)

		_, err = store.ApplyBatch(ctx, wimbledon2019())
		require.NoError(t, err)
		second, err := store.Counts(ctx)
		require.NoError(t, err)

		assert.Equal(t, first, second)
		assert.Equal(t, tennis.Counts{Players: 3, Rankings: 3, Tournaments: 1, Matches: 2}, second)
	})

	t.Run("updates records on conflict", func(t *testing.T) {
		store := setupTestDB(t)

		_, err := store.ApplyBatch(ctx, wimbledon2019())
		require.NoError(t, err)

		batch := wimbledon2019()
		batch.Matches[1].Score = "corrected"
		batch.Rankings[0].Points = 13000
		_, err = store.ApplyBatch(ctx, batch)
		require.NoError(t, err)

		final, err := store.FinalMatch(ctx, "Wimbledon", 2019)
		require.NoError(t, err)
		assert.Equal(t, "corrected", final.Score)

		top, err := store.TopRanked(ctx, tennis.TourATP, 1)
		require.NoError(t, err)
		require.Len(t, top, 1)
		assert.Equal(t, 13000, top[0].Points)
	})

	t.Run("player names are matched case-insensitively", func(t *testing.T) {
		store := setupTestDB(t)

		batch := wimbledon2019()
		batch.Matches[0].Winner = "ROGER FEDERER"
		counts, err := store.ApplyBatch(ctx, batch)
		require.NoError(t, err)
		assert.Equal(t, 3, counts.Players)

		stored, err := store.Counts(ctx)
		require.NoError(t, err)
		assert.Equal(t, 3, stored.Players)
	})

	t.Run("invalid record rolls back the whole batch", func(t *testing.T) {
		store := setupTestDB(t)

		batch := wimbledon2019()
		batch.Matches = append(batch.Matches, tennis.Match{
			ID: "bad", TournamentID: "2019-540", Round: "R128", Winner: "Same Player", Loser: "same player",
		})
		_, err := store.ApplyBatch(ctx, batch)
		require.Error(t, err)

		var writeErr *tennis.StoreWriteError
		require.ErrorAs(t, err, &writeErr)
		assert.Equal(t, "match", writeErr.Entity)
		assert.ErrorIs(t, err, tennis.ErrInvalidRecord)

		counts, err := store.Counts(ctx)
		require.NoError(t, err)
		assert.Equal(t, tennis.Counts{}, counts, "nothing from a failed batch should be visible")
	})

	t.Run("unknown tournament aborts the batch", func(t *testing.T) {
		store := setupTestDB(t)

		batch := wimbledon2019()
		batch.Matches[0].TournamentID = "missing"
		_, err := store.ApplyBatch(ctx, batch)

		var writeErr *tennis.StoreWriteError
		require.ErrorAs(t, err, &writeErr)
		assert.Equal(t, "2019-540-SF2", writeErr.Key)

		counts, err := store.Counts(ctx)
		require.NoError(t, err)
		assert.Zero(t, counts.Tournaments)
	})

	t.Run("non-positive rank is rejected", func(t *testing.T) {
		store := setupTestDB(t)

		batch := wimbledon2019()
		batch.Rankings[2].Rank = 0
		_, err := store.ApplyBatch(ctx, batch)
		assert.ErrorIs(t, err, tennis.ErrInvalidRecord)
	})
}

func TestApplyBatchIsSeenWhole(t *testing.T) {
	ctx := context.Background()
	store := setupTestDB(t)

	rivalry := func(season int) tennis.Batch {
		id := fmt.Sprintf("%d-rome", season)
		return tennis.Batch{
			Tour:        tennis.TourATP,
			Tournaments: []tennis.Tournament{{ID: id, Name: "Rome Masters", Season: season, Level: "masters_1000", StartDate: fmt.Sprintf("%d-05-10", season)}},
			Matches: []tennis.Match{
				{ID: id + "-SF", TournamentID: id, Round: "SF", Date: fmt.Sprintf("%d-05-17", season), Winner: "Novak Djokovic", Loser: "Rafael Nadal", Score: "6-4 6-4"},
				{ID: id + "-F", TournamentID: id, Round: tennis.RoundFinal, Date: fmt.Sprintf("%d-05-18", season), Winner: "Novak Djokovic", Loser: "Rafael Nadal", Score: "7-5 6-3"},
			},
		}
	}
	_, err := store.ApplyBatch(ctx, rivalry(1999))
	require.NoError(t, err)

	var wg sync.WaitGroup
	done := make(chan struct{})
	wg.Add(1)
	go func() {
		defer wg.Done()
		defer close(done)
		for season := 2000; season < 2020; season++ {
			_, err := store.ApplyBatch(ctx, rivalry(season))
			assert.NoError(t, err)
		}
	}()

	var odd []int
	for reading := true; reading; {
		select {
		case <-done:
			reading = false
		default:
		}
		h2h, err := store.HeadToHead(ctx, "Djokovic", "Nadal")
		require.NoError(t, err)
		if h2h.WinsA%2 != 0 {
			odd = append(odd, h2h.WinsA)
		}
	}
	wg.Wait()

	assert.Empty(t, odd, "a read observed half of a batch")
	h2h, err := store.HeadToHead(ctx, "Djokovic", "Nadal")
	require.NoError(t, err)
	assert.Equal(t, 42, h2h.WinsA)
}

func TestFinalMatch(t *testing.T) {
	ctx := context.Background()
	store := setupTestDB(t)
	_, err := store.ApplyBatch(ctx, wimbledon2019())
	require.NoError(t, err)

	t.Run("case-insensitive substring", func(t *testing.T) {
		final, err := store.FinalMatch(ctx, "wimbledon", 2019)
		require.NoError(t, err)
		assert.Equal(t, "Novak Djokovic", final.Winner)
		assert.Equal(t, "Roger Federer", final.Loser)
		assert.Equal(t, "Wimbledon", final.TournamentName)
		assert.Equal(t, tennis.TourATP, final.Tour)

		final, err = store.FinalMatch(ctx, "BLED", 2019)
		require.NoError(t, err)
		assert.Equal(t, "Novak Djokovic", final.Winner)
	})

	t.Run("missing year", func(t *testing.T) {
		_, err := store.FinalMatch(ctx, "Wimbledon", 2018)
		assert.ErrorIs(t, err, tennis.ErrNotFound)
	})

	t.Run("ambiguous name resolves to the latest edition", func(t *testing.T) {
		_, err := store.ApplyBatch(ctx, tennis.Batch{
			Tour: tennis.TourATP,
			Tournaments: []tennis.Tournament{
				{ID: "2019-580", Name: "Australian Open", Season: 2019, Level: tennis.LevelGrandSlam, StartDate: "2019-01-14"},
				{ID: "2019-560", Name: "US Open", Season: 2019, Level: tennis.LevelGrandSlam, StartDate: "2019-08-26"},
			},
			Matches: []tennis.Match{
				{ID: "2019-580-F", TournamentID: "2019-580", Round: "F", Date: "2019-01-27", Winner: "Novak Djokovic", Loser: "Rafael Nadal"},
				{ID: "2019-560-F", TournamentID: "2019-560", Round: "F", Date: "2019-09-08", Winner: "Rafael Nadal", Loser: "Daniil Medvedev"},
			},
		})
		require.NoError(t, err)

		final, err := store.FinalMatch(ctx, "open", 2019)
		require.NoError(t, err)
		assert.Equal(t, "US Open", final.TournamentName)
		assert.Equal(t, "Rafael Nadal", final.Winner)
	})

	t.Run("like wildcards are literal", func(t *testing.T) {
		_, err := store.FinalMatch(ctx, "%", 2019)
		assert.ErrorIs(t, err, tennis.ErrNotFound)
	})
}

func TestHeadToHead(t *testing.T) {
	ctx := context.Background()
	store := setupTestDB(t)
	_, err := store.ApplyBatch(ctx, wimbledon2019())
	require.NoError(t, err)

	ab, err := store.HeadToHead(ctx, "Novak Djokovic", "roger federer")
	require.NoError(t, err)
	assert.Equal(t, "Novak Djokovic", ab.PlayerA)
	assert.Equal(t, "Roger Federer", ab.PlayerB)
	assert.Equal(t, 1, ab.WinsA)
	assert.Equal(t, 0, ab.WinsB)
	require.Len(t, ab.Matches, 1)

	ba, err := store.HeadToHead(ctx, "Federer", "Djokovic")
	require.NoError(t, err)
	assert.Equal(t, ab.WinsA, ba.WinsB)
	assert.Equal(t, ab.WinsB, ba.WinsA)
	assert.Equal(t, ab.Swap(), *ba)

	_, err = store.HeadToHead(ctx, "Novak Djokovic", "Rafael Nadal")
	assert.ErrorIs(t, err, tennis.ErrNotFound, "players who never met")

	_, err = store.HeadToHead(ctx, "Novak Djokovic", "Nobody")
	assert.ErrorIs(t, err, tennis.ErrNotFound)

	_, err = store.HeadToHead(ctx, "Djokovic", "novak djokovic")
	assert.ErrorIs(t, err, tennis.ErrNotFound)
}

func TestCareerStats(t *testing.T) {
	ctx := context.Background()
	store := setupTestDB(t)
	_, err := store.ApplyBatch(ctx, wimbledon2019())
	require.NoError(t, err)

	stats, err := store.CareerStats(ctx, "federer")
	require.NoError(t, err)
	assert.Equal(t, "Roger Federer", stats.PlayerName)
	assert.Equal(t, "SUI", stats.Country)
	assert.Equal(t, 2, stats.MatchesPlayed)
	assert.Equal(t, 1, stats.MatchesWon)
	assert.Equal(t, 1, stats.MatchesLost)
	assert.Equal(t, 0, stats.Titles)
	assert.Equal(t, 50.0, stats.WinPercentage)
	assert.Equal(t, 39, stats.Service.Aces)
	assert.Equal(t, 320, stats.Service.ServePoints)
	assert.Equal(t, 62.5, stats.FirstServePct)
	require.NotNil(t, stats.CurrentRank)
	assert.Equal(t, 3, *stats.CurrentRank)

	champ, err := store.CareerStats(ctx, "Novak Djokovic")
	require.NoError(t, err)
	assert.Equal(t, 1, champ.Titles)
	assert.Equal(t, 100.0, champ.WinPercentage)

	_, err = store.CareerStats(ctx, "Andy Murray")
	assert.ErrorIs(t, err, tennis.ErrNotFound)
}

func TestGrandSlamFinals(t *testing.T) {
	ctx := context.Background()
	store := setupTestDB(t)
	_, err := store.ApplyBatch(ctx, wimbledon2019())
	require.NoError(t, err)

	finals, err := store.GrandSlamFinals(ctx, 2019, tennis.TourATP)
	require.NoError(t, err)
	require.Len(t, finals, 1)
	assert.Equal(t, "Wimbledon", finals[0].TournamentName)

	finals, err = store.GrandSlamFinals(ctx, 1877, tennis.TourATP)
	require.NoError(t, err)
	assert.Empty(t, finals)

	finals, err = store.GrandSlamFinals(ctx, 2019, tennis.TourWTA)
	require.NoError(t, err)
	assert.Empty(t, finals)
}

func TestMostWins(t *testing.T) {
	ctx := context.Background()
	store := setupTestDB(t)

	wins := map[string]int{"Zed Zulu": 10, "Adam Alpha": 10, "Mia Mid": 7, "Tom Three": 3, "Una One": 1}
	batch := tennis.Batch{
		Tour:        tennis.TourATP,
		Tournaments: []tennis.Tournament{{ID: "t1", Name: "Practice Cup", Season: 2020}},
	}
	for name, n := range wins {
		for i := 0; i < n; i++ {
			batch.Matches = append(batch.Matches, tennis.Match{
				ID: fmt.Sprintf("%s-%d", name, i), TournamentID: "t1", Round: "R32",
				Winner: name, Loser: "Sparring Partner",
			})
		}
	}
	_, err := store.ApplyBatch(ctx, batch)
	require.NoError(t, err)

	top, err := store.MostWins(ctx, 5)
	require.NoError(t, err)
	require.Len(t, top, 5)
	assert.Equal(t, "Adam Alpha", top[0].PlayerName)
	assert.Equal(t, "Zed Zulu", top[1].PlayerName)
	assert.Equal(t, []int{10, 10, 7, 3, 1}, []int{top[0].Wins, top[1].Wins, top[2].Wins, top[3].Wins, top[4].Wins})

	two, err := store.MostWins(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, two, 2)
}

func TestTopRanked(t *testing.T) {
	ctx := context.Background()
	store := setupTestDB(t)
	_, err := store.ApplyBatch(ctx, wimbledon2019())
	require.NoError(t, err)

	_, err = store.ApplyBatch(ctx, tennis.Batch{
		Tour: tennis.TourATP,
		Rankings: []tennis.Ranking{
			{PlayerName: "Rafael Nadal", Rank: 1, Points: 10235, AsOfDate: "2019-11-04"},
			{PlayerName: "Novak Djokovic", Rank: 2, Points: 9945, AsOfDate: "2019-11-04"},
		},
	})
	require.NoError(t, err)

	top, err := store.TopRanked(ctx, tennis.TourATP, 10)
	require.NoError(t, err)
	require.Len(t, top, 2, "only the latest snapshot is returned")
	assert.Equal(t, "Rafael Nadal", top[0].PlayerName)
	assert.Equal(t, "ESP", top[0].Country)
	assert.Equal(t, "2019-11-04", top[0].AsOfDate)

	wta, err := store.TopRanked(ctx, tennis.TourWTA, 10)
	require.NoError(t, err)
	assert.Empty(t, wta)
}

func TestSyncRuns(t *testing.T) {
	ctx := context.Background()
	store := setupTestDB(t)

	_, err := store.LastSuccessfulSync(ctx)
	assert.ErrorIs(t, err, tennis.ErrNotFound)

	start := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	ok := tennis.SyncRun{
		ID: "run-1", Trigger: "manual", StartedAt: start, FinishedAt: start.Add(2 * time.Second),
		Success: true, Counts: tennis.Counts{Players: 3, Matches: 2},
	}
	failed := tennis.SyncRun{
		ID: "run-2", Trigger: "schedule", StartedAt: start.Add(time.Hour), FinishedAt: start.Add(time.Hour + time.Second),
		Error: "provider timeout",
	}
	require.NoError(t, store.RecordSyncRun(ctx, ok))
	require.NoError(t, store.RecordSyncRun(ctx, failed))

	last, err := store.LastSuccessfulSync(ctx)
	require.NoError(t, err)
	assert.Equal(t, "run-1", last.ID)
	assert.True(t, last.FinishedAt.Equal(ok.FinishedAt))
	assert.Equal(t, ok.Counts, last.Counts)

	runs, err := store.RecentSyncRuns(ctx, 10)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, "run-2", runs[0].ID)
	assert.False(t, runs[0].Success)
	assert.Equal(t, "provider timeout", runs[0].Error)
}

func TestParseTour(t *testing.T) {
	tour, err := tennis.ParseTour(" wta ")
	require.NoError(t, err)
	assert.Equal(t, tennis.TourWTA, tour)

	_, err = tennis.ParseTour("ITF")
	assert.Error(t, err)
}
