package pubsub

import (
	"context"
	"fmt"

	"cloud.google.com/go/pubsub"
	"github.com/charmbracelet/log"
	"github.com/vmihailenco/msgpack/v5"
)

// New creates a Pub/Sub client for projectID. topics maps event types to topic
// ids; unmapped events are published to a topic named after the event type.
// The returned teardown closes the underlying client.
func New(ctx context.Context, projectID string, topics map[EventType]string) (PubSubClient, func(), error) {
	pubSubC, err := pubsub.NewClient(ctx, projectID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create pubsub client: %w", err)
	}
	teardown := func() {
		if err := pubSubC.Close(); err != nil {
			log.Error("Failed to close pubsub client", "error", err)
		}
	}

	return &client{
		client: pubSubC,
		topics: topics,
	}, teardown, nil
}

func (c *client) topicID(event EventType) string {
	if id, ok := c.topics[event]; ok && id != "" {
		return id
	}
	return string(event)
}

func (c *client) SendMessage(topic EventType, data any) error {
	ctx := context.Background()
	msgpackData, err := msgpack.Marshal(data)
	if err != nil {
		log.Error("MessagePack marshal error", "error", err)
		return err
	}
	message := &pubsub.Message{
		Data:       msgpackData,
		Attributes: map[string]string{"event": string(topic)},
	}
	topicID := c.topicID(topic)
	result := c.client.Topic(topicID).Publish(ctx, message)
	serverID, err := result.Get(ctx)
	if err != nil {
		log.Error("Failed to publish message", "error", err, "topic", topicID)
		return err
	}
	log.Info("SendMessage", "serverID", serverID, "topic", topicID)
	return nil
}

func (c *client) ProcessMessage(data []byte, returnValue any) error {
	return decode(data, returnValue)
}

// decode unmarshals MessagePack data into the provided pointer.
func decode(data []byte, returnValue any) error {
	err := msgpack.Unmarshal(data, returnValue)
	if err != nil {
		log.Error("MessagePack unmarshal error", "error", err)
		return err
	}
	return nil
}

// local is used when no GCP project is configured. Events are logged and
// dropped, decoding still works so push handlers stay testable.
type local struct{}

// NewLocal returns a client that never leaves the process.
func NewLocal() PubSubClient {
	return local{}
}

func (local) SendMessage(topic EventType, data any) error {
	log.Debug("Pub/Sub disabled, dropping event", "event", topic)
	return nil
}

func (local) ProcessMessage(data []byte, returnValue any) error {
	return decode(data, returnValue)
}
