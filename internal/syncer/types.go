package syncer

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/mauv0809/tennis-oracle/internal/metrics"
	"github.com/mauv0809/tennis-oracle/internal/provider"
	"github.com/mauv0809/tennis-oracle/internal/pubsub"
	"github.com/mauv0809/tennis-oracle/internal/tennis"
	"github.com/robfig/cron/v3"
)

// Triggers recorded on each run.
const (
	TriggerManual     = "manual"
	TriggerBackground = "background"
	TriggerStartup    = "startup"
	TriggerSlack      = "slack"
	TriggerWorkflow   = "workflow"
)

// MsgAlreadyRunning is returned to callers that ask for a sync while one is in flight.
const MsgAlreadyRunning = "sync already in progress"

// Outcome classifies the result of a sync request.
type Outcome string

const (
	OutcomeSuccess        Outcome = "success"
	OutcomeFailed         Outcome = "failed"
	OutcomeSkipped        Outcome = "skipped"
	OutcomeAlreadyRunning Outcome = "already_running"
	OutcomeStarted        Outcome = "started"
)

// Result is returned by every sync request.
type Result struct {
	Outcome  Outcome       `json:"outcome"`
	Message  string        `json:"message"`
	RunID    string        `json:"run_id,omitempty"`
	Counts   tennis.Counts `json:"counts"`
	Error    string        `json:"error,omitempty"`
	Duration time.Duration `json:"duration_ns,omitempty"`
}

// Status is a snapshot of the engine state.
type Status struct {
	IsRunning         bool          `json:"is_running"`
	ProviderAvailable bool          `json:"provider_available"`
	LastSyncAt        *time.Time    `json:"last_sync_at,omitempty"`
	LastError         string        `json:"last_error,omitempty"`
	LastStartedAt     *time.Time    `json:"last_started_at,omitempty"`
	LastRunID         string        `json:"last_run_id,omitempty"`
	LastTrigger       string        `json:"last_trigger,omitempty"`
	LastDuration      time.Duration `json:"last_duration_ns,omitempty"`
	LastCounts        tennis.Counts `json:"last_counts"`
	NextRunAt         *time.Time    `json:"next_run_at,omitempty"`
}

// Options configures an Engine.
type Options struct {
	Tours         []tennis.Tour
	Seasons       []int
	Schedule      string
	OnStartup     bool
	MaxRetries    uint64
	RetryBackoff  time.Duration
	NotifySuccess bool
	// ControlInterval is how often the background loop checks whether a run is due.
	ControlInterval time.Duration
}

// Engine pulls provider snapshots into the store and keeps the query cache coherent.
type Engine struct {
	provider provider.Client
	store    Store
	cache    Invalidator
	metrics  metrics.Metrics
	notifier Notifier
	pubsub   pubsub.PubSubClient

	opts     Options
	schedule cron.Schedule

	running atomic.Bool
	wg      sync.WaitGroup

	mu     sync.RWMutex
	status Status

	now func() time.Time
}
