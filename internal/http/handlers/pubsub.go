package handlers

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/tennis-oracle/internal/metrics"
	"github.com/mauv0809/tennis-oracle/internal/pubsub"
)

// DataSyncedHandler receives data-synced push messages and drops the local
// query cache so replicas never serve results older than the last commit.
func DataSyncedHandler(cache Invalidator, pubsubClient pubsub.PubSubClient, metrics metrics.Metrics) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		bodyBytes, err := io.ReadAll(r.Body)
		if err != nil {
			log.Error("Failed to read request body", "error", err)
			http.Error(w, "Failed to read request body", http.StatusInternalServerError)
			return
		}
		log.Debug("Received data synced message", "body", string(bodyBytes))

		var envelope pubsub.PushEnvelope
		if err := json.Unmarshal(bodyBytes, &envelope); err != nil {
			log.Error("Failed to unmarshal wrapper JSON", "error", err)
			http.Error(w, "Invalid JSON", http.StatusBadRequest)
			return
		}

		var event pubsub.DataSyncedEvent
		if err := pubsubClient.ProcessMessage(envelope.Message.Data, &event); err != nil {
			log.Error("Failed to decode data synced event", "error", err)
			http.Error(w, "Invalid message data", http.StatusBadRequest)
			return
		}

		cache.InvalidateAll()
		metrics.IncCacheInvalidations()
		metrics.SetCacheSize(0)
		log.Info("Query cache invalidated by data synced event", "run_id", event.RunID, "trigger", event.Trigger)
		w.Write([]byte("OK"))
	}
}
