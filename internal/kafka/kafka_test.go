package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	appuser "github.com/tommy-mor/spare/internal/app/user"
	"github.com/tommy-mor/spare/internal/config"
	"github.com/tommy-mor/spare/internal/logging"
)

func newPubSub(t *testing.T) *gochannel.GoChannel {
	t.Helper()
	ps := gochannel.NewGoChannel(gochannel.Config{Persistent: true}, watermill.NopLogger{})
	t.Cleanup(func() { _ = ps.Close() })
	return ps
}

func receive(t *testing.T, ch <-chan *message.Message) (*message.Message, Envelope) {
	t.Helper()
	select {
	case msg := <-ch:
		msg.Ack()
		var env Envelope
		require.NoError(t, json.Unmarshal(msg.Payload, &env))
		return msg, env
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for message")
		return nil, Envelope{}
	}
}

func TestUserEventsPublishEnvelopes(t *testing.T) {
	ps := newPubSub(t)
	bus := NewPublisherBus(ps, logging.NewNop())
	events := NewUserEvents(bus, config.KafkaConfig{TopicPrefix: "test."}, logging.NewNop())

	msgs, err := ps.Subscribe(context.Background(), "test.users")
	require.NoError(t, err)

	ctx := context.WithValue(context.Background(), middleware.RequestIDKey, "req-1")
	require.NoError(t, events.UserCreated(ctx, &appuser.UserDto{Id: "u1", Email: "test@example.com", Name: "Test User"}))
	require.NoError(t, events.UserUpdated(ctx, &appuser.UserDto{Id: "u1", Name: "Updated Name"}))
	require.NoError(t, events.UserDeleted(context.Background(), "u1"))

	// gochannel delivers each message on its own goroutine, so order is not fixed
	byType := map[string]*message.Message{}
	envs := map[string]Envelope{}
	for i := 0; i < 3; i++ {
		msg, env := receive(t, msgs)
		byType[env.Type] = msg
		envs[env.Type] = env
	}
	require.Len(t, envs, 3)

	created := envs[UserCreatedType]
	require.Equal(t, "req-1", created.CorrelationID)
	require.Equal(t, "req-1", byType[UserCreatedType].Metadata.Get(correlationIDKey))
	require.Equal(t, created.MessageID, byType[UserCreatedType].UUID)
	require.False(t, created.OccurredAt.IsZero())
	var dto appuser.UserDto
	require.NoError(t, json.Unmarshal(created.Payload, &dto))
	require.Equal(t, "test@example.com", dto.Email)

	require.Equal(t, "req-1", envs[UserUpdatedType].CorrelationID)

	deleted := envs[UserDeletedType]
	require.Empty(t, deleted.CorrelationID)
	require.JSONEq(t, `{"id":"u1"}`, string(deleted.Payload))
}

type failingPublisher struct{}

func (failingPublisher) Publish(string, ...*message.Message) error { return errors.New("broker down") }
func (failingPublisher) Close() error                              { return nil }

func TestPublishFailureIsWrapped(t *testing.T) {
	events := NewUserEvents(NewPublisherBus(failingPublisher{}, logging.NewNop()), config.KafkaConfig{}, logging.NewNop())

	err := events.UserDeleted(context.Background(), "u1")
	require.ErrorContains(t, err, "publish UserDeleted")
	require.ErrorContains(t, err, "broker down")
}

func TestDisabledKafka(t *testing.T) {
	bus, closeBus, err := NewBus(config.KafkaConfig{Enabled: false}, logging.NewNop())
	require.NoError(t, err)
	require.NoError(t, bus.Publish(context.Background(), "users", UserCreatedType, map[string]string{"id": "u1"}))
	require.NoError(t, closeBus(context.Background()))

	r, err := NewRouter(context.Background(), config.KafkaConfig{Enabled: false}, logging.NewNop())
	require.NoError(t, err)
	require.NoError(t, r.Run(context.Background()))
	<-r.Running()
	require.NoError(t, r.Close(context.Background()))
}

func TestUserEventHandler(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	handler := userEventHandler(logging.FromZap(zap.New(core)))

	body, err := json.Marshal(Envelope{
		MessageID: "m1",
		Type:      UserDeletedType,
		Payload:   json.RawMessage(`{"id":"u1"}`),
	})
	require.NoError(t, err)

	require.NoError(t, handler(message.NewMessage("m1", body)))
	require.NoError(t, handler(message.NewMessage("m2", []byte("not json"))))

	unknown, err := json.Marshal(Envelope{MessageID: "m3", Type: "UserRenamed", Payload: json.RawMessage(`{}`)})
	require.NoError(t, err)
	require.NoError(t, handler(message.NewMessage("m3", unknown)))

	entries := logs.All()
	require.Len(t, entries, 3)
	require.Equal(t, "user event", entries[0].Message)
	require.Equal(t, "u1", entries[0].ContextMap()["user_id"])
	require.Equal(t, "dropping malformed user event", entries[1].Message)
	require.Equal(t, "unknown user event type", entries[2].Message)
}

func TestRouterConsumesPublishedEvents(t *testing.T) {
	ps := newPubSub(t)
	core, logs := observer.New(zap.InfoLevel)
	logger := logging.FromZap(zap.New(core))

	r, err := newRouter(ps, usersTopic(""), logger)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = r.Run(ctx) }()
	<-r.Running()

	events := NewUserEvents(NewPublisherBus(ps, logging.NewNop()), config.KafkaConfig{}, logging.NewNop())
	require.NoError(t, events.UserCreated(context.Background(), &appuser.UserDto{Id: "u42"}))

	require.Eventually(t, func() bool {
		return logs.FilterMessage("user event").FilterField(zap.String("user_id", "u42")).Len() == 1
	}, 5*time.Second, 10*time.Millisecond)

	require.NoError(t, r.Close(context.Background()))
}
