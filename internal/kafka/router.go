package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/IBM/sarama"
	"github.com/ThreeDotsLabs/watermill-kafka/v3/pkg/kafka"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/garsue/watermillzap"

	"github.com/tommy-mor/spare/internal/config"
	"github.com/tommy-mor/spare/internal/logging"
)

type Router struct {
	router *message.Router
}

// NewRouter subscribes to the users topic and audit-logs every event.
// It returns an inert router when Kafka is disabled.
func NewRouter(
	ctx context.Context,
	cfg config.KafkaConfig,
	baseLogger logging.Logger,
) (*Router, error) {
	if !cfg.Enabled {
		return &Router{router: nil}, nil
	}

	wmlogger := watermillzap.NewLogger(logging.AsZap(baseLogger))

	subCfg := kafka.SubscriberConfig{
		Brokers:       cfg.Brokers,
		Unmarshaler:   kafka.DefaultMarshaler{},
		ConsumerGroup: cfg.GroupID,
		InitializeTopicDetails: &sarama.TopicDetail{
			NumPartitions:     3,
			ReplicationFactor: 1,
		},
		NackResendSleep:     5 * time.Second,
		ReconnectRetrySleep: 10 * time.Second,
	}

	subscriber, err := kafka.NewSubscriber(subCfg, wmlogger)
	if err != nil {
		return nil, fmt.Errorf("create kafka subscriber: %w", err)
	}

	return newRouter(subscriber, usersTopic(cfg.TopicPrefix), baseLogger)
}

func newRouter(subscriber message.Subscriber, topic string, baseLogger logging.Logger) (*Router, error) {
	wmlogger := watermillzap.NewLogger(logging.AsZap(baseLogger))

	router, err := message.NewRouter(message.RouterConfig{}, wmlogger)
	if err != nil {
		return nil, fmt.Errorf("create watermill router: %w", err)
	}

	router.AddNoPublisherHandler(
		"user-events-audit",
		topic,
		subscriber,
		userEventHandler(baseLogger.With("component", "user_events_consumer", "topic", topic)),
	)

	return &Router{router: router}, nil
}

// userEventHandler acks everything, including envelopes it cannot decode;
// redelivering a malformed message would never succeed.
func userEventHandler(logger logging.Logger) message.NoPublishHandlerFunc {
	return func(msg *message.Message) error {
		env, err := decodeEnvelope(msg.Payload)
		if err != nil {
			logger.Error("dropping malformed user event", "uuid", msg.UUID, "error", err)
			return nil
		}

		var payload struct {
			ID string `json:"id"`
		}
		if err := json.Unmarshal(env.Payload, &payload); err != nil {
			logger.Error("dropping user event with bad payload", "uuid", msg.UUID, "type", env.Type, "error", err)
			return nil
		}

		switch env.Type {
		case UserCreatedType, UserUpdatedType, UserDeletedType:
			logger.Info("user event",
				"type", env.Type,
				"user_id", payload.ID,
				"message_id", env.MessageID,
				"correlation_id", env.CorrelationID,
				"occurred_at", env.OccurredAt,
			)
		default:
			logger.Warn("unknown user event type", "type", env.Type, "message_id", env.MessageID)
		}
		return nil
	}
}

func (r *Router) Run(ctx context.Context) error {
	if r.router == nil {
		return nil // Kafka disabled
	}
	return r.router.Run(ctx)
}

// Running is closed once the router has started its handlers.
func (r *Router) Running() <-chan struct{} {
	if r.router == nil {
		ch := make(chan struct{})
		close(ch)
		return ch
	}
	return r.router.Running()
}

func (r *Router) Close(ctx context.Context) error {
	if r.router == nil {
		return nil
	}
	return r.router.Close()
}
