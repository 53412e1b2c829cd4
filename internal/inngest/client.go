package inngest

import (
	"context"
	"fmt"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/inngest/inngestgo"
	"github.com/inngest/inngestgo/step"
	"github.com/mauv0809/tennis-oracle/internal/syncer"
)

// New registers the sync workflow on inngestClient.
func New(inngestClient inngestgo.Client, engine Syncer) (InngestClient, error) {
	c := &client{
		inngestClient: inngestClient,
		engine:        engine,
	}
	if _, err := c.createSyncFunction(); err != nil {
		return nil, err
	}
	return c, nil
}

// NewClient builds the inngestgo client from the app settings.
func NewClient(appID, signingKey, eventKey string, dev bool) (inngestgo.Client, error) {
	opts := inngestgo.ClientOpts{
		AppID: appID,
		Dev:   &dev,
	}
	if signingKey != "" {
		opts.SigningKey = &signingKey
	}
	if eventKey != "" {
		opts.EventKey = &eventKey
	}
	return inngestgo.NewClient(opts)
}

func (i *client) createSyncFunction() (inngestgo.ServableFunction, error) {
	config := inngestgo.FunctionOpts{
		ID:   "tennis-data-sync",
		Name: "Sync tennis data",
	}
	f, err := inngestgo.CreateFunction(
		i.inngestClient,
		config,
		inngestgo.EventTrigger(EventSyncRequested, nil),
		func(ctx context.Context, input inngestgo.Input[SyncRequest]) (any, error) {
			log.Info("Workflow sync requested", "requested_by", input.Event.Data.RequestedBy)
			// A step is retried by the runner when it returns an error.
			res, err := step.Run(ctx, "force-sync", func(ctx context.Context) (syncer.Result, error) {
				return runSync(ctx, i.engine)
			})
			if err != nil {
				return nil, err
			}
			return res, nil
		},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create sync function: %w", err)
	}
	return f, nil
}

// runSync maps a sync result onto the workflow's retry semantics. Only a
// failed run is an error; a skipped or busy engine is a normal outcome.
func runSync(ctx context.Context, engine Syncer) (syncer.Result, error) {
	res := engine.Sync(ctx, syncer.TriggerWorkflow)
	if res.Outcome == syncer.OutcomeFailed {
		return res, fmt.Errorf("sync %s failed: %s", res.RunID, res.Error)
	}
	return res, nil
}

func (i *client) Serve() http.Handler {
	return i.inngestClient.Serve()
}

// RequestSync publishes EventSyncRequested.
func (i *client) RequestSync(ctx context.Context, requestedBy string) error {
	_, err := i.inngestClient.Send(ctx, inngestgo.Event{
		Name: EventSyncRequested,
		Data: map[string]any{"requestedBy": requestedBy},
	})
	if err != nil {
		return fmt.Errorf("failed to send %s: %w", EventSyncRequested, err)
	}
	return nil
}
