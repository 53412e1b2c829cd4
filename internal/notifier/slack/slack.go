package slack

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/tennis-oracle/internal/metrics"
	"github.com/mauv0809/tennis-oracle/internal/notifier"
	"github.com/mauv0809/tennis-oracle/internal/resolver"
	"github.com/mauv0809/tennis-oracle/internal/syncer"
	"github.com/mauv0809/tennis-oracle/internal/tennis"
	"github.com/slack-go/slack"
)

// slackClient is an interface that contains the methods from the slack.Client that we use.
// This allows for easy mocking in tests.
type slackClient interface {
	PostMessageContext(ctx context.Context, channelID string, options ...slack.MsgOption) (string, string, error)
}

var (
	_ notifier.Notifier = &Notifier{}
	_ syncer.Notifier   = &Notifier{}
)

// maxListedMatches caps the match list in head-to-head replies.
const maxListedMatches = 10

// Notifier handles sending notifications to Slack.
type Notifier struct {
	api       slackClient
	channelID string
	metrics   metrics.Metrics
	dryRun    bool
}

// NewNotifier creates a new Notifier. Without a token every message is only logged.
func NewNotifier(token, channelID string, metrics metrics.Metrics) *Notifier {
	if token == "" {
		log.Warn("Slack token not set, sync reports will only be logged")
	}
	api := slack.New(token)
	return &Notifier{
		api:       api,
		channelID: channelID,
		metrics:   metrics,
		dryRun:    token == "",
	}
}

// NewNotifierWithAPI creates a new Notifier with a specific slack.Client instance.
// Useful for tests that need to intercept API calls.
func NewNotifierWithAPI(api slackClient, channelID string, metrics metrics.Metrics) *Notifier {
	return &Notifier{
		api:       api,
		channelID: channelID,
		metrics:   metrics,
	}
}

func (s *Notifier) sendMessage(ctx context.Context, message slack.Message, dryRun bool) (string, string, error) {
	if dryRun {
		jsonMsg, _ := json.MarshalIndent(message, "", "  ")
		log.Info("[Dry Run] Would send Slack message", "channel", s.channelID, "message", string(jsonMsg))
		return "dry-run-ts", "dry-run-thread-ts", nil
	}

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	channelID, timestamp, err := s.api.PostMessageContext(
		ctx,
		s.channelID,
		slack.MsgOptionBlocks(message.Blocks.BlockSet...),
		slack.MsgOptionAsUser(true),
	)

	if err != nil {
		s.metrics.IncSlackNotifFailed()
		log.Error("Failed to send Slack message", "error", err, "channel", s.channelID)
		return "", "", fmt.Errorf("failed to post message: %w", err)
	}

	s.metrics.IncSlackNotifSent()
	log.Info("Successfully sent Slack message", "channel", channelID, "timestamp", timestamp)
	return channelID, timestamp, nil
}

// SendSyncReport posts the outcome of a sync run to the configured channel.
func (s *Notifier) SendSyncReport(ctx context.Context, run tennis.SyncRun) error {
	msg := s.formatSyncReport(run)
	_, _, err := s.sendMessage(ctx, msg, s.dryRun)
	return err
}

// FormatQueryResponse formats a resolver result for a slash command response.
func (s *Notifier) FormatQueryResponse(result resolver.Result) (any, error) {
	blocks, err := s.formatResultBlocks(result.Data)
	if err != nil {
		return nil, err
	}
	if result.Cached {
		footer := fmt.Sprintf("Cached result from %s", result.ComputedAt.UTC().Format("2 Jan 2006 15:04 MST"))
		blocks = append(blocks, slack.NewContextBlock("", slack.NewTextBlockObject("plain_text", footer, false, false)))
	}
	return slack.NewBlockMessage(blocks...), nil
}

// FormatNoDataResponse formats the reply for a query the store has no data for.
func (s *Notifier) FormatNoDataResponse(query string) (any, error) {
	text := fmt.Sprintf("No data available for *%s*. Try a different name or year.", query)
	return slack.NewBlockMessage(
		slack.NewSectionBlock(slack.NewTextBlockObject("mrkdwn", text, false, false), nil, nil),
	), nil
}

// FormatErrorResponse formats a usage or validation error.
func (s *Notifier) FormatErrorResponse(message string) (any, error) {
	return slack.NewBlockMessage(
		slack.NewSectionBlock(slack.NewTextBlockObject("mrkdwn", ":warning: "+message, false, false), nil, nil),
	), nil
}

// FormatSyncStatusResponse formats the sync engine status.
func (s *Notifier) FormatSyncStatusResponse(status syncer.Status) (any, error) {
	return s.formatSyncStatus(status), nil
}

// FormatSyncStartedResponse formats the immediate reply to a sync request.
func (s *Notifier) FormatSyncStartedResponse(result syncer.Result) (any, error) {
	var text string
	switch result.Outcome {
	case syncer.OutcomeStarted:
		text = ":arrows_counterclockwise: Sync started. Results will be posted when it finishes."
	case syncer.OutcomeAlreadyRunning:
		text = ":hourglass_flowing_sand: A sync is already in progress."
	case syncer.OutcomeSkipped:
		text = ":no_entry: Sync skipped, the data provider is not configured."
	default:
		text = fmt.Sprintf("Sync %s: %s", result.Outcome, result.Message)
	}
	return slack.NewBlockMessage(
		slack.NewSectionBlock(slack.NewTextBlockObject("mrkdwn", text, false, false), nil, nil),
	), nil
}

// formatSyncReport creates the Slack message for a finished sync run using Block Kit.
func (s *Notifier) formatSyncReport(run tennis.SyncRun) slack.Message {
	blocks := make([]slack.Block, 0)

	headerText := "✅ Tennis data sync finished"
	if !run.Success {
		headerText = "❌ Tennis data sync failed"
	}
	blocks = append(blocks, header(headerText))

	counts := fmt.Sprintf("Players: %d\nRankings: %d\nTournaments: %d\nMatches: %d",
		run.Counts.Players,
		run.Counts.Rankings,
		run.Counts.Tournaments,
		run.Counts.Matches,
	)
	blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject("plain_text", counts, true, false), nil, nil))

	if run.Error != "" {
		errText := fmt.Sprintf("*Error*\n```%s```", run.Error)
		blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject("mrkdwn", errText, false, false), nil, nil))
	}

	footer := fmt.Sprintf("Run %s • trigger: %s • took %s",
		run.ID,
		run.Trigger,
		run.FinishedAt.Sub(run.StartedAt).Round(time.Millisecond),
	)
	blocks = append(blocks, slack.NewContextBlock("", slack.NewTextBlockObject("plain_text", footer, true, false)))

	return slack.NewBlockMessage(blocks...)
}

func (s *Notifier) formatSyncStatus(status syncer.Status) slack.Message {
	blocks := make([]slack.Block, 0)
	blocks = append(blocks, header("🎾 Sync status"))

	state := "Idle"
	if status.IsRunning {
		state = "Running"
	}
	providerState := "available"
	if !status.ProviderAvailable {
		providerState = "not configured"
	}
	lastSync := "never"
	if status.LastSyncAt != nil {
		lastSync = status.LastSyncAt.UTC().Format("2 Jan 2006 15:04 MST")
	}
	lines := []string{
		fmt.Sprintf("*State*: %s", state),
		fmt.Sprintf("*Provider*: %s", providerState),
		fmt.Sprintf("*Last successful sync*: %s", lastSync),
	}
	if status.NextRunAt != nil {
		lines = append(lines, fmt.Sprintf("*Next run*: %s", status.NextRunAt.UTC().Format("2 Jan 2006 15:04 MST")))
	}
	if status.LastError != "" {
		lines = append(lines, fmt.Sprintf("*Last error*: %s", status.LastError))
	}
	blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject("mrkdwn", strings.Join(lines, "\n"), false, false), nil, nil))

	return slack.NewBlockMessage(blocks...)
}

// formatResultBlocks renders each resolver payload type.
func (s *Notifier) formatResultBlocks(data any) ([]slack.Block, error) {
	switch d := data.(type) {
	case resolver.TournamentWinner:
		return formatTournamentWinner(d), nil
	case tennis.HeadToHead:
		return formatHeadToHead(d), nil
	case tennis.CareerStats:
		return formatCareerStats(d), nil
	case []resolver.SlamWinner:
		return formatSlamWinners(d), nil
	case []tennis.PlayerWins:
		return formatMostWins(d), nil
	case []tennis.Ranking:
		return formatRankings(d), nil
	default:
		return nil, fmt.Errorf("unsupported result type %T", data)
	}
}

func header(text string) slack.Block {
	return slack.NewHeaderBlock(slack.NewTextBlockObject("plain_text", text, true, false))
}

func section(mrkdwn string) slack.Block {
	return slack.NewSectionBlock(slack.NewTextBlockObject("mrkdwn", mrkdwn, false, false), nil, nil)
}

func medal(rank int) string {
	switch rank {
	case 1:
		return "🥇"
	case 2:
		return "🥈"
	case 3:
		return "🥉"
	}
	return ""
}

func withCountry(name, country string) string {
	if country == "" {
		return name
	}
	return fmt.Sprintf("%s (%s)", name, country)
}

func formatTournamentWinner(w resolver.TournamentWinner) []slack.Block {
	text := fmt.Sprintf("*Winner*: %s\n*Runner-up*: %s\n*Score*: %s",
		withCountry(w.Winner, w.WinnerCountry),
		w.RunnerUp,
		w.Score,
	)
	return []slack.Block{
		header(fmt.Sprintf("🏆 %s %d", w.Tournament, w.Year)),
		section(text),
		slack.NewContextBlock("", slack.NewTextBlockObject("plain_text", fmt.Sprintf("%s final played %s", w.Tour, w.Date), false, false)),
	}
}

func formatHeadToHead(h tennis.HeadToHead) []slack.Block {
	var summary string
	switch {
	case h.WinsA > h.WinsB:
		summary = fmt.Sprintf("*%s* leads %d-%d", h.PlayerA, h.WinsA, h.WinsB)
	case h.WinsB > h.WinsA:
		summary = fmt.Sprintf("*%s* leads %d-%d", h.PlayerB, h.WinsB, h.WinsA)
	default:
		summary = fmt.Sprintf("Level at %d-%d", h.WinsA, h.WinsB)
	}
	blocks := []slack.Block{
		header(fmt.Sprintf("%s vs %s", h.PlayerA, h.PlayerB)),
		section(summary),
	}

	var lines []string
	for i, m := range h.Matches {
		if i == maxListedMatches {
			lines = append(lines, fmt.Sprintf("…and %d more", len(h.Matches)-maxListedMatches))
			break
		}
		lines = append(lines, fmt.Sprintf("• %s %s %d (%s): %s d. %s %s", m.Date, m.TournamentName, m.Season, m.Round, m.Winner, m.Loser, m.Score))
	}
	if len(lines) > 0 {
		blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject("plain_text", strings.Join(lines, "\n"), true, false), nil, nil))
	}
	return blocks
}

func formatCareerStats(c tennis.CareerStats) []slack.Block {
	title := fmt.Sprintf("📊 %s", withCountry(c.PlayerName, c.Country))
	record := fmt.Sprintf("> *Record*: %d-%d (%.1f%%) in %d matches\n> *Titles*: %d",
		c.MatchesWon,
		c.MatchesLost,
		c.WinPercentage,
		c.MatchesPlayed,
		c.Titles,
	)
	if c.CurrentRank != nil {
		record += fmt.Sprintf("\n> *Current rank*: %d", *c.CurrentRank)
	}
	service := fmt.Sprintf("> *Aces*: %d | *Double faults*: %d\n> *1st serve in*: %.1f%% | *1st serve won*: %.1f%% | *2nd serve won*: %.1f%%\n> *Break points saved*: %.1f%%",
		c.Service.Aces,
		c.Service.DoubleFaults,
		c.FirstServePct,
		c.FirstServeWonPct,
		c.SecondServeWonPct,
		c.BreakPointsSavedPct,
	)
	return []slack.Block{header(title), section(record), section(service)}
}

func formatSlamWinners(winners []resolver.SlamWinner) []slack.Block {
	blocks := []slack.Block{header("🏆 Grand Slam champions")}
	if len(winners) == 0 {
		return append(blocks, section("No Grand Slam finals recorded for that season."))
	}
	lines := make([]string, 0, len(winners))
	for _, w := range winners {
		lines = append(lines, fmt.Sprintf("*%s*: %s d. %s %s", w.Major, w.Winner, w.RunnerUp, w.Score))
	}
	return append(blocks, section(strings.Join(lines, "\n")))
}

func formatMostWins(players []tennis.PlayerWins) []slack.Block {
	blocks := []slack.Block{header("🏆 Most match wins")}
	if len(players) == 0 {
		return append(blocks, section("No matches recorded yet."))
	}
	lines := make([]string, 0, len(players))
	for i, p := range players {
		lines = append(lines, fmt.Sprintf("%d. %s %s: %d wins", i+1, medal(i+1), withCountry(p.PlayerName, p.Country), p.Wins))
	}
	return append(blocks, section(strings.Join(lines, "\n")))
}

func formatRankings(rankings []tennis.Ranking) []slack.Block {
	if len(rankings) == 0 {
		return []slack.Block{header("📈 Rankings"), section("No rankings recorded yet.")}
	}
	blocks := []slack.Block{header(fmt.Sprintf("📈 %s rankings", rankings[0].Tour))}
	lines := make([]string, 0, len(rankings))
	for _, r := range rankings {
		lines = append(lines, fmt.Sprintf("%d. %s %s: %d pts", r.Rank, medal(r.Rank), withCountry(r.PlayerName, r.Country), r.Points))
	}
	blocks = append(blocks, section(strings.Join(lines, "\n")))
	blocks = append(blocks, slack.NewContextBlock("", slack.NewTextBlockObject("plain_text", "As of "+rankings[0].AsOfDate, false, false)))
	return blocks
}
