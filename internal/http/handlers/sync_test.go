package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/mauv0809/tennis-oracle/internal/inngest"
	"github.com/mauv0809/tennis-oracle/internal/notifier"
	"github.com/mauv0809/tennis-oracle/internal/syncer"
	"github.com/slack-go/slack"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubEngine struct {
	startCalls []string
	forceCalls int
}

func (s *stubEngine) ForceSync(ctx context.Context) syncer.Result {
	s.forceCalls++
	return syncer.Result{Outcome: syncer.OutcomeSuccess}
}

func (s *stubEngine) StartSync(trigger string) syncer.Result {
	s.startCalls = append(s.startCalls, trigger)
	return syncer.Result{Outcome: syncer.OutcomeStarted, Message: "sync started"}
}

func (s *stubEngine) Status() syncer.Status {
	return syncer.Status{}
}

func TestForceSyncHandlerWorkflow(t *testing.T) {
	post := func(h http.Handler) (*httptest.ResponseRecorder, syncer.Result) {
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/sync?async=true", nil))
		var res syncer.Result
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &res))
		return rr, res
	}

	t.Run("async sync is queued on the workflow", func(t *testing.T) {
		engine := &stubEngine{}
		workflow := inngest.NewMock()

		rr, res := post(ForceSyncHandler(engine, workflow))

		assert.Equal(t, http.StatusAccepted, rr.Code)
		assert.Equal(t, syncer.OutcomeStarted, res.Outcome)
		assert.Equal(t, []string{syncer.TriggerManual}, workflow.Requests())
		assert.Empty(t, engine.startCalls)
	})

	t.Run("unreachable workflow falls back to the engine", func(t *testing.T) {
		engine := &stubEngine{}
		workflow := inngest.NewMock()
		workflow.RequestSyncFunc = func(ctx context.Context, requestedBy string) error {
			return errors.New("connection refused")
		}

		rr, _ := post(ForceSyncHandler(engine, workflow))

		assert.Equal(t, http.StatusAccepted, rr.Code)
		assert.Equal(t, []string{syncer.TriggerManual}, engine.startCalls)
	})

	t.Run("without a workflow the engine starts the sync", func(t *testing.T) {
		engine := &stubEngine{}

		rr, _ := post(ForceSyncHandler(engine, nil))

		assert.Equal(t, http.StatusAccepted, rr.Code)
		assert.Equal(t, []string{syncer.TriggerManual}, engine.startCalls)
	})

	t.Run("blocking sync never uses the workflow", func(t *testing.T) {
		engine := &stubEngine{}
		workflow := inngest.NewMock()

		rr := httptest.NewRecorder()
		ForceSyncHandler(engine, workflow).ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/sync", nil))

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, 1, engine.forceCalls)
		assert.Empty(t, workflow.Requests())
	})
}

func TestTennisSyncCommandWorkflow(t *testing.T) {
	engine := &stubEngine{}
	workflow := inngest.NewMock()
	n := notifier.NewMock()
	n.FormatSyncStartedResponseFunc = func(result syncer.Result) (any, error) {
		return slack.Message{}, nil
	}

	form := url.Values{"command": {"/tennis"}, "text": {"sync"}, "user_name": {"umpire"}}
	req := httptest.NewRequest(http.MethodPost, "/slack/command/tennis", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rr := httptest.NewRecorder()

	TennisCommandHandler(nil, engine, workflow, n).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, []string{syncer.TriggerSlack}, workflow.Requests())
	assert.Empty(t, engine.startCalls)
	require.Len(t, n.FormatSyncStartedCalls, 1)
	assert.Equal(t, syncer.OutcomeStarted, n.FormatSyncStartedCalls[0].Outcome)
}
