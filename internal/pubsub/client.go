package pubsub

import (
	"context"
	"fmt"

	"cloud.google.com/go/pubsub"
	"github.com/charmbracelet/log"
	"github.com/vmihailenco/msgpack/v5"
)

var (
	_ PubSubClient = (*client)(nil)
	_ PubSubClient = (*LocalClient)(nil)
)

// New creates a client publishing to Google Cloud Pub/Sub topics named after the event types.
func New(ctx context.Context, projectID string) (PubSubClient, error) {
	pubSubC, err := pubsub.NewClient(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to create pubsub client: %w", err)
	}
	return &client{client: pubSubC}, nil
}

func (c *client) SendMessage(ctx context.Context, topic EventType, data any) error {
	msgpackData, err := msgpack.Marshal(data)
	if err != nil {
		log.Error("MessagePack marshal error", "error", err)
		return err
	}
	message := &pubsub.Message{
		Data: msgpackData,
	}
	result := c.client.Topic(string(topic)).Publish(ctx, message)
	serverID, err := result.Get(ctx)
	if err != nil {
		log.Error("Failed to publish message", "error", err, "topic", topic)
		return err
	}
	log.Info("SendMessage", "topic", topic, "serverID", serverID)
	return nil
}

func (c *client) ProcessMessage(data []byte, returnValue any) error {
	return decode(data, returnValue)
}

func (c *client) Close() error {
	return c.client.Close()
}

// NewLocal creates a client that delivers messages synchronously to subscribers.
func NewLocal() *LocalClient {
	return &LocalClient{subscribers: make(map[EventType][]Subscriber)}
}

// Subscribe registers fn for messages sent to topic.
func (c *LocalClient) Subscribe(topic EventType, fn Subscriber) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.subscribers[topic] = append(c.subscribers[topic], fn)
}

func (c *LocalClient) SendMessage(ctx context.Context, topic EventType, data any) error {
	msgpackData, err := msgpack.Marshal(data)
	if err != nil {
		log.Error("MessagePack marshal error", "error", err)
		return err
	}

	c.mu.RLock()
	subs := append([]Subscriber(nil), c.subscribers[topic]...)
	c.mu.RUnlock()

	log.Debug("Delivering local message", "topic", topic, "subscribers", len(subs))
	for _, fn := range subs {
		if err := fn(ctx, msgpackData); err != nil {
			return fmt.Errorf("subscriber for %s failed: %w", topic, err)
		}
	}
	return nil
}

func (c *LocalClient) ProcessMessage(data []byte, returnValue any) error {
	return decode(data, returnValue)
}

func (c *LocalClient) Close() error {
	return nil
}

func decode(data []byte, returnValue any) error {
	// Unmarshal the MessagePack data into the provided pointer struct
	if err := msgpack.Unmarshal(data, returnValue); err != nil {
		log.Error("MessagePack unmarshal error", "error", err)
		return err
	}
	return nil
}
