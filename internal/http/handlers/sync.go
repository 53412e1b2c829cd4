package handlers

import (
	"context"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/tennis-oracle/internal/syncer"
	"github.com/mauv0809/tennis-oracle/internal/tennis"
)

const defaultRunHistory = 20

// SyncStatusHandler serves GET /sync/status.
func SyncStatusHandler(engine SyncEngine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, engine.Status())
	}
}

// startSync requests a background sync. With a workflow runner configured the
// sync is queued there, otherwise it starts in process. A workflow that cannot
// be reached falls back to the local engine.
func startSync(ctx context.Context, engine SyncEngine, workflow SyncRequester, trigger string) syncer.Result {
	if workflow != nil {
		err := workflow.RequestSync(ctx, trigger)
		if err == nil {
			log.Info("Sync handed to workflow", "trigger", trigger)
			return syncer.Result{Outcome: syncer.OutcomeStarted, Message: "sync requested"}
		}
		log.Error("Failed to request workflow sync, starting locally", "trigger", trigger, "error", err)
	}
	return engine.StartSync(trigger)
}

// ForceSyncHandler serves POST /sync. With ?async=true it returns as soon as
// the sync has started or been queued on workflow, which may be nil.
func ForceSyncHandler(engine SyncEngine, workflow SyncRequester) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("async") == "true" {
			res := startSync(r.Context(), engine, workflow, syncer.TriggerManual)
			status := http.StatusOK
			if res.Outcome == syncer.OutcomeStarted {
				status = http.StatusAccepted
			}
			writeJSON(w, status, res)
			return
		}

		log.Info("Forced sync requested")
		res := engine.ForceSync(r.Context())
		writeJSON(w, http.StatusOK, res)
	}
}

// SyncRunsHandler serves GET /sync/runs?limit=.
func SyncRunsHandler(history SyncHistory) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, err := intParam(r, "limit", defaultRunHistory)
		if err != nil || limit <= 0 {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "limit must be a positive integer"})
			return
		}
		runs, err := history.RecentSyncRuns(r.Context(), limit)
		if err != nil {
			log.Error("Failed to list sync runs", "error", err)
			writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
			return
		}
		if runs == nil {
			runs = []tennis.SyncRun{}
		}
		writeJSON(w, http.StatusOK, runs)
	}
}
