package inngest

import (
	"github.com/inngest/inngestgo"
)

// EventSyncRequested asks the workflow runner for a forced sync.
const EventSyncRequested = "tennis/sync.requested"

type client struct {
	inngestClient inngestgo.Client
	engine        Syncer
}

// SyncRequest is the payload of EventSyncRequested.
type SyncRequest struct {
	RequestedBy string `json:"requestedBy"`
}
