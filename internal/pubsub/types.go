package pubsub

import (
	"time"

	"cloud.google.com/go/pubsub"
)

type client struct {
	client *pubsub.Client
	topics map[EventType]string
}

// EventType represents the type of event/message sent via pubsub.
type EventType string

const (
	EventDataSynced EventType = "data-synced"
)

// DataSyncedEvent announces that a sync committed new data. Replicas drop
// their query caches when they receive it.
type DataSyncedEvent struct {
	RunID       string    `msgpack:"run_id" json:"run_id"`
	Trigger     string    `msgpack:"trigger" json:"trigger"`
	FinishedAt  time.Time `msgpack:"finished_at" json:"finished_at"`
	Success     bool      `msgpack:"success" json:"success"`
	Players     int       `msgpack:"players" json:"players"`
	Rankings    int       `msgpack:"rankings" json:"rankings"`
	Tournaments int       `msgpack:"tournaments" json:"tournaments"`
	Matches     int       `msgpack:"matches" json:"matches"`
}

// PushEnvelope is the body of a Pub/Sub push subscription request.
type PushEnvelope struct {
	Message struct {
		Data       []byte            `json:"data"`
		Attributes map[string]string `json:"attributes"`
		ID         string            `json:"messageId"`
	} `json:"message"`
	Subscription string `json:"subscription"`
}
