package tennis

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"
)

// ErrInvalidRecord marks an upstream record that cannot be stored.
var ErrInvalidRecord = errors.New("invalid record")

// New creates a new Store.
func New(db *sql.DB) Store {
	return &store{
		db: db,
	}
}

// ApplyBatch writes a tour batch in one transaction under the write lock.
// Read queries wait for the lock, so they see either none or all of a batch.
func (s *store) ApplyBatch(ctx context.Context, batch Batch) (Counts, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return Counts{}, &StoreWriteError{Tour: batch.Tour, Entity: "batch", Err: err}
	}
	// Rollback after a successful commit is a no-op.
	defer tx.Rollback()

	w := &batchWriter{tx: tx, tour: batch.Tour, players: make(map[string]int64)}

	for _, r := range batch.Rankings {
		if err := w.upsertRanking(ctx, r); err != nil {
			return Counts{}, err
		}
	}
	for _, t := range batch.Tournaments {
		if err := w.upsertTournament(ctx, t); err != nil {
			return Counts{}, err
		}
	}
	for _, m := range batch.Matches {
		if err := w.upsertMatch(ctx, m); err != nil {
			return Counts{}, err
		}
	}

	if err := tx.Commit(); err != nil {
		return Counts{}, &StoreWriteError{Tour: batch.Tour, Entity: "batch", Err: err}
	}

	counts := Counts{
		Players:     len(w.players),
		Rankings:    len(batch.Rankings),
		Tournaments: len(batch.Tournaments),
		Matches:     len(batch.Matches),
	}
	log.Debug("Applied tour batch", "tour", batch.Tour, "players", counts.Players, "rankings", counts.Rankings, "tournaments", counts.Tournaments, "matches", counts.Matches)
	return counts, nil
}

// batchWriter carries the open transaction and the player ids resolved so far.
type batchWriter struct {
	tx      *sql.Tx
	tour    Tour
	players map[string]int64
}

func (w *batchWriter) fail(entity, key string, err error) error {
	return &StoreWriteError{Tour: w.tour, Entity: entity, Key: key, Err: err}
}

// upsertPlayer returns the id for name, creating the player if needed. A
// non-empty country or tour overwrites the stored value.
func (w *batchWriter) upsertPlayer(ctx context.Context, name, country string) (int64, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return 0, w.fail("player", name, fmt.Errorf("%w: empty player name", ErrInvalidRecord))
	}
	key := strings.ToLower(name)
	if id, ok := w.players[key]; ok && country == "" {
		return id, nil
	}

	var id int64
	err := w.tx.QueryRowContext(ctx, `
		INSERT INTO players (name, country, tour)
		VALUES (?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET
			country = CASE WHEN excluded.country != '' THEN excluded.country ELSE players.country END,
			tour = CASE WHEN excluded.tour != '' THEN excluded.tour ELSE players.tour END
		RETURNING id
	`, name, strings.TrimSpace(country), string(w.tour)).Scan(&id)
	if err != nil {
		return 0, w.fail("player", name, err)
	}
	w.players[key] = id
	return id, nil
}

func (w *batchWriter) upsertRanking(ctx context.Context, r Ranking) error {
	if r.Rank <= 0 || r.Points < 0 || r.AsOfDate == "" {
		return w.fail("ranking", r.PlayerName, fmt.Errorf("%w: rank=%d points=%d as_of=%q", ErrInvalidRecord, r.Rank, r.Points, r.AsOfDate))
	}
	tour := r.Tour
	if tour == "" {
		tour = w.tour
	}
	playerID, err := w.upsertPlayer(ctx, r.PlayerName, r.Country)
	if err != nil {
		return err
	}
	_, err = w.tx.ExecContext(ctx, `
		INSERT INTO rankings (tour, player_id, as_of_date, rank, points)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(tour, player_id, as_of_date) DO UPDATE SET
			rank = excluded.rank,
			points = excluded.points
	`, string(tour), playerID, r.AsOfDate, r.Rank, r.Points)
	if err != nil {
		return w.fail("ranking", r.PlayerName, err)
	}
	return nil
}

func (w *batchWriter) upsertTournament(ctx context.Context, t Tournament) error {
	if t.ID == "" || strings.TrimSpace(t.Name) == "" {
		return w.fail("tournament", t.ID, fmt.Errorf("%w: tournament needs an id and a name", ErrInvalidRecord))
	}
	tour := t.Tour
	if tour == "" {
		tour = w.tour
	}
	_, err := w.tx.ExecContext(ctx, `
		INSERT INTO tournaments (id, name, tour, season, level, surface, start_date)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			tour = excluded.tour,
			season = excluded.season,
			level = excluded.level,
			surface = excluded.surface,
			start_date = excluded.start_date
	`, t.ID, strings.TrimSpace(t.Name), string(tour), t.Season, t.Level, t.Surface, t.StartDate)
	if err != nil {
		return w.fail("tournament", t.ID, err)
	}
	return nil
}

func (w *batchWriter) upsertMatch(ctx context.Context, m Match) error {
	if m.ID == "" || m.TournamentID == "" {
		return w.fail("match", m.ID, fmt.Errorf("%w: match needs an id and a tournament", ErrInvalidRecord))
	}
	if strings.EqualFold(strings.TrimSpace(m.Winner), strings.TrimSpace(m.Loser)) {
		return w.fail("match", m.ID, fmt.Errorf("%w: winner and loser are the same player", ErrInvalidRecord))
	}
	winnerID, err := w.upsertPlayer(ctx, m.Winner, m.WinnerCountry)
	if err != nil {
		return err
	}
	loserID, err := w.upsertPlayer(ctx, m.Loser, m.LoserCountry)
	if err != nil {
		return err
	}
	ws, ls := m.WinnerStats, m.LoserStats
	_, err = w.tx.ExecContext(ctx, `
		INSERT INTO matches (
			id, tournament_id, round, match_date, winner_id, loser_id, score,
			w_aces, w_double_faults, w_serve_points, w_first_in, w_first_won, w_second_won, w_bp_saved, w_bp_faced,
			l_aces, l_double_faults, l_serve_points, l_first_in, l_first_won, l_second_won, l_bp_saved, l_bp_faced
		)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			tournament_id = excluded.tournament_id,
			round = excluded.round,
			match_date = excluded.match_date,
			winner_id = excluded.winner_id,
			loser_id = excluded.loser_id,
			score = excluded.score,
			w_aces = excluded.w_aces,
			w_double_faults = excluded.w_double_faults,
			w_serve_points = excluded.w_serve_points,
			w_first_in = excluded.w_first_in,
			w_first_won = excluded.w_first_won,
			w_second_won = excluded.w_second_won,
			w_bp_saved = excluded.w_bp_saved,
			w_bp_faced = excluded.w_bp_faced,
			l_aces = excluded.l_aces,
			l_double_faults = excluded.l_double_faults,
			l_serve_points = excluded.l_serve_points,
			l_first_in = excluded.l_first_in,
			l_first_won = excluded.l_first_won,
			l_second_won = excluded.l_second_won,
			l_bp_saved = excluded.l_bp_saved,
			l_bp_faced = excluded.l_bp_faced
	`,
		m.ID, m.TournamentID, strings.ToUpper(strings.TrimSpace(m.Round)), m.Date, winnerID, loserID, m.Score,
		ws.Aces, ws.DoubleFaults, ws.ServePoints, ws.FirstServeIn, ws.FirstServeWon, ws.SecondServeWon, ws.BreakPointsSaved, ws.BreakPointsFaced,
		ls.Aces, ls.DoubleFaults, ls.ServePoints, ls.FirstServeIn, ls.FirstServeWon, ls.SecondServeWon, ls.BreakPointsSaved, ls.BreakPointsFaced,
	)
	if err != nil {
		return w.fail("match", m.ID, err)
	}
	return nil
}

// RecordSyncRun stores the outcome of a sync attempt.
func (s *store) RecordSyncRun(ctx context.Context, run SyncRun) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO sync_runs (id, trigger_source, started_at, finished_at, success, error, players, rankings, tournaments, matches)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			finished_at = excluded.finished_at,
			success = excluded.success,
			error = excluded.error,
			players = excluded.players,
			rankings = excluded.rankings,
			tournaments = excluded.tournaments,
			matches = excluded.matches
	`, run.ID, run.Trigger, run.StartedAt.UnixMilli(), run.FinishedAt.UnixMilli(), run.Success, run.Error,
		run.Counts.Players, run.Counts.Rankings, run.Counts.Tournaments, run.Counts.Matches)
	return err
}

const syncRunColumns = `id, trigger_source, started_at, finished_at, success, error, players, rankings, tournaments, matches`

func scanSyncRun(scanner interface{ Scan(...any) error }) (*SyncRun, error) {
	var run SyncRun
	var started, finished int64
	err := scanner.Scan(&run.ID, &run.Trigger, &started, &finished, &run.Success, &run.Error,
		&run.Counts.Players, &run.Counts.Rankings, &run.Counts.Tournaments, &run.Counts.Matches)
	if err != nil {
		return nil, err
	}
	run.StartedAt = time.UnixMilli(started).UTC()
	run.FinishedAt = time.UnixMilli(finished).UTC()
	return &run, nil
}

// LastSuccessfulSync returns the most recent successful run, or ErrNotFound.
func (s *store) LastSuccessfulSync(ctx context.Context) (*SyncRun, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx, `SELECT `+syncRunColumns+` FROM sync_runs WHERE success = 1 ORDER BY finished_at DESC, rowid DESC LIMIT 1`)
	run, err := scanSyncRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return run, err
}

// RecentSyncRuns returns up to limit runs, newest first.
func (s *store) RecentSyncRuns(ctx context.Context, limit int) ([]SyncRun, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `SELECT `+syncRunColumns+` FROM sync_runs ORDER BY started_at DESC, rowid DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []SyncRun
	for rows.Next() {
		run, err := scanSyncRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, *run)
	}
	return runs, rows.Err()
}

// Counts returns the number of stored rows per entity.
func (s *store) Counts(ctx context.Context) (Counts, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var c Counts
	err := s.db.QueryRowContext(ctx, `
		SELECT
			(SELECT COUNT(*) FROM players),
			(SELECT COUNT(*) FROM rankings),
			(SELECT COUNT(*) FROM tournaments),
			(SELECT COUNT(*) FROM matches)
	`).Scan(&c.Players, &c.Rankings, &c.Tournaments, &c.Matches)
	return c, err
}

const matchColumns = `
	m.id, t.id, t.name, t.season, t.tour, m.round, m.match_date,
	w.name, w.country, l.name, l.country, m.score,
	m.w_aces, m.w_double_faults, m.w_serve_points, m.w_first_in, m.w_first_won, m.w_second_won, m.w_bp_saved, m.w_bp_faced,
	m.l_aces, m.l_double_faults, m.l_serve_points, m.l_first_in, m.l_first_won, m.l_second_won, m.l_bp_saved, m.l_bp_faced
	FROM matches m
	JOIN tournaments t ON t.id = m.tournament_id
	JOIN players w ON w.id = m.winner_id
	JOIN players l ON l.id = m.loser_id`

// scanMatch is a helper function to scan a single match row.
func scanMatch(scanner interface{ Scan(...any) error }) (*Match, error) {
	var m Match
	ws, ls := &m.WinnerStats, &m.LoserStats
	err := scanner.Scan(
		&m.ID, &m.TournamentID, &m.TournamentName, &m.Season, &m.Tour, &m.Round, &m.Date,
		&m.Winner, &m.WinnerCountry, &m.Loser, &m.LoserCountry, &m.Score,
		&ws.Aces, &ws.DoubleFaults, &ws.ServePoints, &ws.FirstServeIn, &ws.FirstServeWon, &ws.SecondServeWon, &ws.BreakPointsSaved, &ws.BreakPointsFaced,
		&ls.Aces, &ls.DoubleFaults, &ls.ServePoints, &ls.FirstServeIn, &ls.FirstServeWon, &ls.SecondServeWon, &ls.BreakPointsSaved, &ls.BreakPointsFaced,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (s *store) queryMatches(ctx context.Context, query string, args ...any) ([]Match, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var matches []Match
	for rows.Next() {
		m, err := scanMatch(rows)
		if err != nil {
			return nil, err
		}
		matches = append(matches, *m)
	}
	return matches, rows.Err()
}

// likePattern builds a case-insensitive substring pattern for LIKE ... ESCAPE '\'.
func likePattern(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(strings.TrimSpace(s)) + "%"
}

// FinalMatch returns the final of the tournament whose name contains the given
// text. When several editions match, the one that started last wins.
func (s *store) FinalMatch(ctx context.Context, tournament string, season int) (*Match, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx, `
		SELECT `+matchColumns+`
		WHERE t.name LIKE ? ESCAPE '\' AND t.season = ? AND m.round = ?
		ORDER BY t.start_date DESC, m.match_date DESC
		LIMIT 1
	`, likePattern(tournament), season, RoundFinal)
	m, err := scanMatch(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return m, err
}

type playerRef struct {
	id      int64
	name    string
	country string
}

// findPlayer resolves a free-text name. An exact case-insensitive match beats a
// substring match, and between substring matches the player with more recorded
// matches wins.
func (s *store) findPlayer(ctx context.Context, name string) (*playerRef, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrNotFound
	}
	var p playerRef
	err := s.db.QueryRowContext(ctx, `
		SELECT p.id, p.name, p.country
		FROM players p
		WHERE p.name LIKE ? ESCAPE '\'
		ORDER BY
			(p.name = ?) DESC,
			(SELECT COUNT(*) FROM matches m WHERE m.winner_id = p.id OR m.loser_id = p.id) DESC,
			p.name
		LIMIT 1
	`, likePattern(name), name).Scan(&p.id, &p.name, &p.country)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// HeadToHead returns every match between the two players, oldest first.
func (s *store) HeadToHead(ctx context.Context, playerA, playerB string) (*HeadToHead, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	a, err := s.findPlayer(ctx, playerA)
	if err != nil {
		return nil, err
	}
	b, err := s.findPlayer(ctx, playerB)
	if err != nil {
		return nil, err
	}
	if a.id == b.id {
		return nil, ErrNotFound
	}

	matches, err := s.queryMatches(ctx, `
		SELECT `+matchColumns+`
		WHERE (m.winner_id = ? AND m.loser_id = ?) OR (m.winner_id = ? AND m.loser_id = ?)
		ORDER BY m.match_date, m.id
	`, a.id, b.id, b.id, a.id)
	if err != nil {
		return nil, err
	}
	if len(matches) == 0 {
		return nil, ErrNotFound
	}

	h2h := &HeadToHead{PlayerA: a.name, PlayerB: b.name, Matches: matches}
	for _, m := range matches {
		if m.Winner == a.name {
			h2h.WinsA++
		} else {
			h2h.WinsB++
		}
	}
	return h2h, nil
}

// CareerStats aggregates all recorded matches of a player.
func (s *store) CareerStats(ctx context.Context, player string) (*CareerStats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, err := s.findPlayer(ctx, player)
	if err != nil {
		return nil, err
	}

	stats := &CareerStats{PlayerName: p.name, Country: p.country}
	sv := &stats.Service
	err = s.db.QueryRowContext(ctx, `
		WITH pm AS (
			SELECT round, 1 AS won, w_aces AS aces, w_double_faults AS dfs, w_serve_points AS svpt,
				w_first_in AS first_in, w_first_won AS first_won, w_second_won AS second_won,
				w_bp_saved AS bp_saved, w_bp_faced AS bp_faced
			FROM matches WHERE winner_id = ?
			UNION ALL
			SELECT round, 0, l_aces, l_double_faults, l_serve_points,
				l_first_in, l_first_won, l_second_won, l_bp_saved, l_bp_faced
			FROM matches WHERE loser_id = ?
		)
		SELECT
			COUNT(*),
			COALESCE(SUM(won), 0),
			COALESCE(SUM(CASE WHEN won = 1 AND round = ? THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(aces), 0),
			COALESCE(SUM(dfs), 0),
			COALESCE(SUM(svpt), 0),
			COALESCE(SUM(first_in), 0),
			COALESCE(SUM(first_won), 0),
			COALESCE(SUM(second_won), 0),
			COALESCE(SUM(bp_saved), 0),
			COALESCE(SUM(bp_faced), 0)
		FROM pm
	`, p.id, p.id, RoundFinal).Scan(
		&stats.MatchesPlayed, &stats.MatchesWon, &stats.Titles,
		&sv.Aces, &sv.DoubleFaults, &sv.ServePoints, &sv.FirstServeIn, &sv.FirstServeWon, &sv.SecondServeWon,
		&sv.BreakPointsSaved, &sv.BreakPointsFaced,
	)
	if err != nil {
		return nil, err
	}

	var rank int
	err = s.db.QueryRowContext(ctx, `SELECT rank FROM rankings WHERE player_id = ? ORDER BY as_of_date DESC LIMIT 1`, p.id).Scan(&rank)
	switch {
	case err == nil:
		stats.CurrentRank = &rank
	case !errors.Is(err, sql.ErrNoRows):
		return nil, err
	}

	stats.MatchesLost = stats.MatchesPlayed - stats.MatchesWon
	stats.WinPercentage = percent(stats.MatchesWon, stats.MatchesPlayed)
	stats.FirstServePct = percent(sv.FirstServeIn, sv.ServePoints)
	stats.FirstServeWonPct = percent(sv.FirstServeWon, sv.FirstServeIn)
	stats.SecondServeWonPct = percent(sv.SecondServeWon, sv.ServePoints-sv.FirstServeIn)
	stats.BreakPointsSavedPct = percent(sv.BreakPointsSaved, sv.BreakPointsFaced)
	return stats, nil
}

// percent returns part/total as a percentage rounded to one decimal, or 0.
func percent(part, total int) float64 {
	if total <= 0 {
		return 0
	}
	v := float64(part) * 1000 / float64(total)
	return float64(int64(v+0.5)) / 10
}

// GrandSlamFinals returns the finals of major tournaments in a season, by start date.
func (s *store) GrandSlamFinals(ctx context.Context, season int, tour Tour) ([]Match, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.queryMatches(ctx, `
		SELECT `+matchColumns+`
		WHERE t.season = ? AND t.tour = ? AND m.round = ?
			AND (
				t.level = ?
				OR t.name LIKE '%australian open%'
				OR t.name LIKE '%roland garros%'
				OR t.name LIKE '%french open%'
				OR t.name LIKE '%wimbledon%'
				OR t.name LIKE '%us open%'
			)
		ORDER BY t.start_date, m.match_date
	`, season, string(tour), RoundFinal, LevelGrandSlam)
}

// MostWins ranks players by recorded wins, ties broken alphabetically.
func (s *store) MostWins(ctx context.Context, limit int) ([]PlayerWins, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT p.name, p.country, COUNT(m.id) AS wins
		FROM players p
		JOIN matches m ON m.winner_id = p.id
		GROUP BY p.id, p.name, p.country
		ORDER BY wins DESC, p.name ASC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []PlayerWins
	for rows.Next() {
		var pw PlayerWins
		if err := rows.Scan(&pw.PlayerName, &pw.Country, &pw.Wins); err != nil {
			return nil, err
		}
		out = append(out, pw)
	}
	return out, rows.Err()
}

// TopRanked returns the head of the latest ranking snapshot for a tour.
func (s *store) TopRanked(ctx context.Context, tour Tour, limit int) ([]Ranking, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT r.tour, p.name, p.country, r.rank, r.points, r.as_of_date
		FROM rankings r
		JOIN players p ON p.id = r.player_id
		WHERE r.tour = ? AND r.as_of_date = (SELECT MAX(as_of_date) FROM rankings WHERE tour = ?)
		ORDER BY r.rank
		LIMIT ?
	`, string(tour), string(tour), limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Ranking
	for rows.Next() {
		var r Ranking
		if err := rows.Scan(&r.Tour, &r.PlayerName, &r.Country, &r.Rank, &r.Points, &r.AsOfDate); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
