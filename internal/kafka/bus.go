package kafka

import "context"

// Bus publishes payloads wrapped in an Envelope. msgType ends up in
// Envelope.Type and is what consumers switch on.
type Bus interface {
	Publish(ctx context.Context, topic string, msgType string, payload any) error
}
