package syncer

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/robfig/cron/v3"
)

// ParseSchedule accepts either a number of seconds or a standard five-field
// cron expression.
func ParseSchedule(setting string) (cron.Schedule, error) {
	setting = strings.TrimSpace(setting)
	if v, err := strconv.Atoi(setting); err == nil {
		if v <= 0 {
			return nil, fmt.Errorf("sync interval must be positive, got %d", v)
		}
		return cron.Every(time.Duration(v) * time.Second), nil
	}
	sched, err := cron.ParseStandard(setting)
	if err != nil {
		return nil, fmt.Errorf("invalid sync schedule %q: %w", setting, err)
	}
	return sched, nil
}

// Run drives background syncs until ctx is cancelled. Runs that come due
// while a sync is in flight are skipped, not queued.
func (e *Engine) Run(ctx context.Context) error {
	ticker := time.NewTicker(e.opts.ControlInterval)
	defer ticker.Stop()

	trigger := TriggerBackground
	nextRun := e.schedule.Next(e.now())
	if e.opts.OnStartup {
		trigger = TriggerStartup
		nextRun = e.now()
	}
	e.setNextRun(nextRun)

	log.Info("Background sync loop starting", "schedule", e.opts.Schedule, "next_run", nextRun, "on_startup", e.opts.OnStartup)

	for {
		select {
		case <-ctx.Done():
			log.Info("Background sync loop stopped")
			return ctx.Err()
		case <-ticker.C:
			now := e.now()
			if now.Before(nextRun) {
				continue
			}

			res := e.StartSync(trigger)
			switch res.Outcome {
			case OutcomeAlreadyRunning:
				log.Info("Scheduled sync skipped, previous run still in progress")
			case OutcomeSkipped:
				log.Warn("Scheduled sync skipped", "reason", res.Message)
			}

			trigger = TriggerBackground
			nextRun = e.schedule.Next(now)
			e.setNextRun(nextRun)
		}
	}
}

// Start runs the background loop in its own goroutine. The returned wait func
// blocks until the loop has exited after ctx is cancelled and every sync it
// or anyone else started has finished. No sync starts after wait returns.
func (e *Engine) Start(ctx context.Context) (wait func()) {
	done := make(chan struct{})
	go func() {
		defer close(done)
		if err := e.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			log.Error("Background sync loop stopped", "error", err)
		}
	}()
	return func() {
		<-done
		e.Wait()
	}
}

func (e *Engine) setNextRun(t time.Time) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.status.NextRunAt = &t
}
