package syncer

import (
	"strings"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/tennis-oracle/internal/provider"
	"github.com/mauv0809/tennis-oracle/internal/tennis"
)

// buildBatch maps provider snapshots for one tour onto store records.
func buildBatch(tour tennis.Tour, rankings []provider.RankingSnapshot, tournaments []provider.TournamentSnapshot) tennis.Batch {
	batch := tennis.Batch{Tour: tour}

	for _, r := range rankings {
		batch.Rankings = append(batch.Rankings, tennis.Ranking{
			Tour:       tour,
			PlayerName: strings.TrimSpace(r.PlayerName),
			Country:    strings.ToUpper(strings.TrimSpace(r.Country)),
			Rank:       r.Rank,
			Points:     r.Points,
			AsOfDate:   r.AsOfDate,
		})
	}

	for _, t := range tournaments {
		batch.Tournaments = append(batch.Tournaments, tennis.Tournament{
			ID:        t.ID,
			Name:      strings.TrimSpace(t.Name),
			Tour:      tour,
			Season:    t.Season,
			Level:     normalizeLevel(t.Level),
			Surface:   strings.ToLower(strings.TrimSpace(t.Surface)),
			StartDate: t.StartDate,
		})
		for _, m := range t.Matches {
			if strings.TrimSpace(m.Winner.Name) == "" || strings.TrimSpace(m.Loser.Name) == "" {
				// Walkovers and unplayed slots come through without both players.
				log.Debug("Dropping match without two players", "match_id", m.ID, "tournament", t.Name)
				continue
			}
			batch.Matches = append(batch.Matches, tennis.Match{
				ID:            m.ID,
				TournamentID:  t.ID,
				Round:         normalizeRound(m.Round),
				Date:          m.Date,
				Winner:        strings.TrimSpace(m.Winner.Name),
				WinnerCountry: strings.ToUpper(strings.TrimSpace(m.Winner.Country)),
				Loser:         strings.TrimSpace(m.Loser.Name),
				LoserCountry:  strings.ToUpper(strings.TrimSpace(m.Loser.Country)),
				Score:         strings.TrimSpace(m.Score),
				WinnerStats:   serviceStats(m.WinnerStats),
				LoserStats:    serviceStats(m.LoserStats),
			})
		}
	}

	return batch
}

func serviceStats(s provider.ServeStats) tennis.ServiceStats {
	return tennis.ServiceStats{
		Aces:             s.Aces,
		DoubleFaults:     s.DoubleFaults,
		ServePoints:      s.ServePoints,
		FirstServeIn:     s.FirstServeIn,
		FirstServeWon:    s.FirstServeWon,
		SecondServeWon:   s.SecondServeWon,
		BreakPointsSaved: s.BreakPointsSaved,
		BreakPointsFaced: s.BreakPointsFaced,
	}
}

// normalizeLevel folds the provider's level labels onto a small fixed set.
func normalizeLevel(level string) string {
	l := strings.ToLower(strings.TrimSpace(level))
	l = strings.NewReplacer("-", "_", " ", "_").Replace(l)
	switch l {
	case "g", "grand_slam", "slam", "major":
		return tennis.LevelGrandSlam
	case "m", "masters", "masters_1000", "wta_1000", "1000":
		return "masters"
	case "f", "finals", "tour_finals", "atp_finals", "wta_finals":
		return "finals"
	case "":
		return "other"
	default:
		return l
	}
}

// normalizeRound maps round labels onto short codes. Finals are always "F".
func normalizeRound(round string) string {
	r := strings.ToLower(strings.TrimSpace(round))
	switch r {
	case "f", "final", "finals", "championship":
		return tennis.RoundFinal
	case "sf", "semifinal", "semifinals", "semi-final", "semi-finals":
		return "SF"
	case "qf", "quarterfinal", "quarterfinals", "quarter-final", "quarter-finals":
		return "QF"
	case "rr", "round robin", "round-robin":
		return "RR"
	}
	if strings.HasPrefix(r, "r") {
		if n := strings.TrimPrefix(r, "r"); n != "" && strings.Trim(n, "0123456789") == "" {
			return "R" + n
		}
	}
	if strings.HasPrefix(r, "round of ") {
		return "R" + strings.TrimPrefix(r, "round of ")
	}
	return strings.ToUpper(r)
}
