package syncer

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/mauv0809/tennis-oracle/internal/metrics"
	"github.com/mauv0809/tennis-oracle/internal/provider"
	"github.com/mauv0809/tennis-oracle/internal/pubsub"
	"github.com/mauv0809/tennis-oracle/internal/tennis"
	"github.com/sethvargo/go-retry"
)

const (
	defaultSchedule        = "21600"
	defaultControlInterval = 5 * time.Second
	defaultRetryBackoff    = 500 * time.Millisecond
)

// New creates a new Engine. A nil notifier disables sync reports and a nil
// pubsub client disables data-synced events.
func New(p provider.Client, store Store, cache Invalidator, metrics metrics.Metrics, notifier Notifier, ps pubsub.PubSubClient, opts Options) *Engine {
	if len(opts.Tours) == 0 {
		opts.Tours = []tennis.Tour{tennis.TourATP, tennis.TourWTA}
	}
	if len(opts.Seasons) == 0 {
		opts.Seasons = []int{time.Now().Year()}
	}
	if opts.RetryBackoff <= 0 {
		opts.RetryBackoff = defaultRetryBackoff
	}
	if opts.ControlInterval <= 0 {
		opts.ControlInterval = defaultControlInterval
	}
	if opts.Schedule == "" {
		opts.Schedule = defaultSchedule
	}
	schedule, err := ParseSchedule(opts.Schedule)
	if err != nil {
		log.Warn("Invalid sync schedule, falling back to default", "schedule", opts.Schedule, "error", err)
		opts.Schedule = defaultSchedule
		schedule, _ = ParseSchedule(defaultSchedule)
	}
	if ps == nil {
		ps = pubsub.NewLocal()
	}

	e := &Engine{
		provider: p,
		store:    store,
		cache:    cache,
		metrics:  metrics,
		notifier: notifier,
		pubsub:   ps,
		opts:     opts,
		schedule: schedule,
		now:      time.Now,
	}
	e.status.ProviderAvailable = p.IsConfigured()
	return e
}

// Status returns a snapshot of the engine state. It never waits for a running sync.
func (e *Engine) Status() Status {
	e.mu.RLock()
	defer e.mu.RUnlock()

	s := e.status
	s.IsRunning = e.running.Load()
	return s
}

// RestoreStatus seeds the status from the last persisted successful run.
func (e *Engine) RestoreStatus(ctx context.Context) error {
	run, err := e.store.LastSuccessfulSync(ctx)
	if errors.Is(err, tennis.ErrNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to load last sync: %w", err)
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	finished := run.FinishedAt
	e.status.LastSyncAt = &finished
	e.status.LastRunID = run.ID
	e.status.LastTrigger = run.Trigger
	e.status.LastCounts = run.Counts
	e.status.LastDuration = run.FinishedAt.Sub(run.StartedAt)
	log.Info("Restored sync status", "last_sync_at", finished, "run_id", run.ID)
	return nil
}

// ForceSync runs a sync now and returns its result. If a sync is already
// running it returns immediately with OutcomeAlreadyRunning.
func (e *Engine) ForceSync(ctx context.Context) Result {
	return e.Sync(ctx, TriggerManual)
}

// Sync is ForceSync with an explicit trigger label. Cancelling ctx does not
// stop a sync that has started.
func (e *Engine) Sync(ctx context.Context, trigger string) Result {
	if res, ok := e.acquire(trigger); !ok {
		return res
	}
	defer e.running.Store(false)
	return e.execute(context.WithoutCancel(ctx), trigger)
}

// StartSync begins a sync in the background and returns without waiting for it.
func (e *Engine) StartSync(trigger string) Result {
	if res, ok := e.acquire(trigger); !ok {
		return res
	}
	e.wg.Add(1)
	go func() {
		defer e.wg.Done()
		defer e.running.Store(false)
		e.execute(context.Background(), trigger)
	}()
	return Result{Outcome: OutcomeStarted, Message: "sync started"}
}

// Wait blocks until syncs started with StartSync have finished.
func (e *Engine) Wait() {
	e.wg.Wait()
}

// acquire takes the single-sync slot. On false the returned result explains why.
func (e *Engine) acquire(trigger string) (Result, bool) {
	if !e.provider.IsConfigured() {
		e.mu.Lock()
		e.status.ProviderAvailable = false
		e.mu.Unlock()
		e.metrics.IncSyncRuns(metrics.OutcomeSkipped)
		log.Warn("Sync skipped, provider is not configured", "trigger", trigger)
		return Result{Outcome: OutcomeSkipped, Message: provider.ErrProviderUnavailable.Error()}, false
	}
	if !e.running.CompareAndSwap(false, true) {
		e.metrics.IncSyncRuns(metrics.OutcomeBusy)
		log.Info("Sync request ignored, a sync is already running", "trigger", trigger)
		return Result{Outcome: OutcomeAlreadyRunning, Message: MsgAlreadyRunning}, false
	}
	return Result{}, true
}

// execute performs one sync. The caller holds the running flag.
func (e *Engine) execute(ctx context.Context, trigger string) Result {
	runID := uuid.NewString()
	started := e.now().UTC()

	e.mu.Lock()
	e.status.ProviderAvailable = true
	e.status.LastStartedAt = &started
	e.status.LastTrigger = trigger
	e.mu.Unlock()

	log.Info("Starting sync", "run_id", runID, "trigger", trigger, "tours", e.opts.Tours, "seasons", e.opts.Seasons)

	var (
		total     tennis.Counts
		errs      []error
		committed bool
	)
	for _, tour := range e.opts.Tours {
		batch, err := e.fetchTour(ctx, tour)
		if err != nil {
			log.Error("Failed to fetch tour", "run_id", runID, "tour", tour, "error", err)
			errs = append(errs, fmt.Errorf("%s: %w", tour, err))
			continue
		}
		counts, err := e.store.ApplyBatch(ctx, batch)
		if err != nil {
			log.Error("Tour batch rolled back", "run_id", runID, "tour", tour, "error", err)
			errs = append(errs, fmt.Errorf("%s: %w", tour, err))
			continue
		}
		committed = true
		total = total.Add(counts)
		log.Info("Tour synced", "run_id", runID, "tour", tour, "rankings", counts.Rankings, "tournaments", counts.Tournaments, "matches", counts.Matches)
	}

	if committed {
		e.cache.InvalidateAll()
		e.metrics.IncCacheInvalidations()
		e.metrics.SetCacheSize(0)
	}

	finished := e.now().UTC()
	runErr := errors.Join(errs...)
	run := tennis.SyncRun{
		ID:         runID,
		Trigger:    trigger,
		StartedAt:  started,
		FinishedAt: finished,
		Success:    runErr == nil,
		Counts:     total,
	}
	if runErr != nil {
		run.Error = runErr.Error()
	}

	e.mu.Lock()
	e.status.LastRunID = runID
	e.status.LastDuration = finished.Sub(started)
	e.status.LastCounts = total
	if runErr == nil {
		e.status.LastSyncAt = &finished
		e.status.LastError = ""
	} else {
		e.status.LastError = run.Error
	}
	e.mu.Unlock()

	e.report(ctx, run, committed)

	res := Result{RunID: runID, Counts: total, Duration: finished.Sub(started)}
	if runErr != nil {
		log.Error("Sync failed", "run_id", runID, "error", runErr, "duration", res.Duration)
		res.Outcome = OutcomeFailed
		res.Message = "sync failed"
		res.Error = run.Error
		return res
	}
	log.Info("Sync finished", "run_id", runID, "duration", res.Duration, "players", total.Players, "rankings", total.Rankings, "tournaments", total.Tournaments, "matches", total.Matches)
	res.Outcome = OutcomeSuccess
	res.Message = "sync completed"
	return res
}

// report fans a finished run out to metrics, the store, Slack and Pub/Sub.
// Failures here are logged and never change the sync outcome.
func (e *Engine) report(ctx context.Context, run tennis.SyncRun, committed bool) {
	e.metrics.ObserveSyncDuration(run.FinishedAt.Sub(run.StartedAt).Seconds())
	e.metrics.AddRowsUpserted("players", run.Counts.Players)
	e.metrics.AddRowsUpserted("rankings", run.Counts.Rankings)
	e.metrics.AddRowsUpserted("tournaments", run.Counts.Tournaments)
	e.metrics.AddRowsUpserted("matches", run.Counts.Matches)
	if run.Success {
		e.metrics.IncSyncRuns(metrics.OutcomeSuccess)
		e.metrics.SetLastSyncTimestamp(float64(run.FinishedAt.Unix()))
	} else {
		e.metrics.IncSyncRuns(metrics.OutcomeFailed)
	}

	if err := e.store.RecordSyncRun(ctx, run); err != nil {
		log.Error("Failed to record sync run", "run_id", run.ID, "error", err)
	}

	if e.notifier != nil && (!run.Success || e.opts.NotifySuccess) {
		if err := e.notifier.SendSyncReport(ctx, run); err != nil {
			log.Error("Failed to send sync report", "run_id", run.ID, "error", err)
		}
	}

	if committed {
		event := pubsub.DataSyncedEvent{
			RunID:       run.ID,
			Trigger:     run.Trigger,
			FinishedAt:  run.FinishedAt,
			Success:     run.Success,
			Players:     run.Counts.Players,
			Rankings:    run.Counts.Rankings,
			Tournaments: run.Counts.Tournaments,
			Matches:     run.Counts.Matches,
		}
		if err := e.pubsub.SendMessage(pubsub.EventDataSynced, event); err != nil {
			log.Error("Failed to publish data-synced event", "run_id", run.ID, "error", err)
		}
	}
}

// fetchTour pulls rankings and every configured season for one tour.
func (e *Engine) fetchTour(ctx context.Context, tour tennis.Tour) (tennis.Batch, error) {
	var rankings []provider.RankingSnapshot
	err := e.withRetry(ctx, "rankings", func(ctx context.Context) error {
		var err error
		rankings, err = e.provider.GetRankings(ctx, string(tour))
		return err
	})
	if err != nil {
		return tennis.Batch{}, err
	}

	var tournaments []provider.TournamentSnapshot
	for _, season := range e.opts.Seasons {
		var page []provider.TournamentSnapshot
		err := e.withRetry(ctx, "tournaments", func(ctx context.Context) error {
			var err error
			page, err = e.provider.GetTournaments(ctx, string(tour), season)
			return err
		})
		if err != nil {
			return tennis.Batch{}, fmt.Errorf("season %d: %w", season, err)
		}
		tournaments = append(tournaments, page...)
	}

	return buildBatch(tour, rankings, tournaments), nil
}

// withRetry retries transient provider failures with exponential backoff.
func (e *Engine) withRetry(ctx context.Context, op string, fn func(ctx context.Context) error) error {
	backoff := retry.WithMaxRetries(e.opts.MaxRetries, retry.NewExponential(e.opts.RetryBackoff))
	attempt := 0
	return retry.Do(ctx, backoff, func(ctx context.Context) error {
		attempt++
		err := fn(ctx)
		if err != nil && provider.IsRetryable(err) {
			log.Warn("Provider call failed", "op", op, "attempt", attempt, "error", err)
			return retry.RetryableError(err)
		}
		return err
	})
}
