package pubsub

import "context"

type PubSubClient interface {
	SendMessage(ctx context.Context, topic EventType, data any) error
	ProcessMessage(data []byte, returnValue any) error
	Close() error
}

// Subscriber handles the raw MessagePack payload of a delivered message.
type Subscriber func(ctx context.Context, data []byte) error
