package kafka

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/IBM/sarama"
	"go.uber.org/zap/zaptest"

	"github.com/arklim/social-platform-accounts/internal/core/domain"
	"github.com/arklim/social-platform-accounts/internal/infra/config"
)

type fakeAsyncProducer struct {
	input  chan *sarama.ProducerMessage
	errors chan *sarama.ProducerError
}

func newFakeAsyncProducer() *fakeAsyncProducer {
	return &fakeAsyncProducer{
		input:  make(chan *sarama.ProducerMessage, 1),
		errors: make(chan *sarama.ProducerError, 1),
	}
}

func (f *fakeAsyncProducer) AsyncClose() {}

func (f *fakeAsyncProducer) Close() error { return nil }

func (f *fakeAsyncProducer) Input() chan<- *sarama.ProducerMessage { return f.input }

func (f *fakeAsyncProducer) Successes() <-chan *sarama.ProducerMessage { return nil }

func (f *fakeAsyncProducer) Errors() <-chan *sarama.ProducerError { return f.errors }

func (f *fakeAsyncProducer) IsTransactional() bool { return false }

func (f *fakeAsyncProducer) BeginTxn() error { return nil }

func (f *fakeAsyncProducer) CommitTxn() error { return nil }

func (f *fakeAsyncProducer) AbortTxn() error { return nil }

func (f *fakeAsyncProducer) AddOffsetsToTxn(offsets map[string][]*sarama.PartitionOffsetMetadata, groupID string) error {
	return nil
}

func (f *fakeAsyncProducer) AddMessageToTxn(msg *sarama.ConsumerMessage, groupID string, metadata *string) error {
	return nil
}

func (f *fakeAsyncProducer) TxnStatus() sarama.ProducerTxnStatusFlag {
	return sarama.ProducerTxnStatusFlag(0)
}

func newTestPublisher(t *testing.T) (*EventPublisher, *fakeAsyncProducer) {
	t.Helper()

	asyncProducer := newFakeAsyncProducer()
	producer := &Producer{
		producer: asyncProducer,
		logger:   zaptest.NewLogger(t),
		cfg: config.KafkaSettings{
			TopicPrefix: "accounts-svc",
		},
		errChan: make(chan error, 1),
		done:    make(chan struct{}),
	}

	publisher := NewEventPublisher(producer, config.AppSettings{
		Name: "accounts-service",
		Env:  "test",
	}, zaptest.NewLogger(t))

	return publisher, asyncProducer
}

func TestPublishUserCreated(t *testing.T) {
	publisher, asyncProducer := newTestPublisher(t)

	createdAt := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	event := domain.UserCreatedEvent{
		UserID:    "user-1",
		Email:     "alice@example.com",
		Username:  "alice",
		CreatedAt: createdAt,
	}

	if err := publisher.PublishUserCreated(context.Background(), event); err != nil {
		t.Fatalf("PublishUserCreated returned error: %v", err)
	}

	msg := <-asyncProducer.input
	if msg.Topic != "accounts-svc.accounts.user.created" {
		t.Fatalf("unexpected topic: %s", msg.Topic)
	}

	raw, err := msg.Value.Encode()
	if err != nil {
		t.Fatalf("encode message: %v", err)
	}

	var envelope struct {
		EventID   string                  `json:"event_id"`
		EventType string                  `json:"event_type"`
		UserID    string                  `json:"user_id"`
		Version   string                  `json:"version"`
		Payload   domain.UserCreatedEvent `json:"payload"`
		Metadata  map[string]string       `json:"metadata"`
	}
	if err := json.Unmarshal(raw, &envelope); err != nil {
		t.Fatalf("unmarshal envelope: %v", err)
	}

	if envelope.EventID == "" {
		t.Fatalf("expected generated event id")
	}
	if envelope.EventType != "accounts.user.created" {
		t.Fatalf("unexpected event type: %s", envelope.EventType)
	}
	if envelope.UserID != "user-1" || envelope.Payload.Username != "alice" {
		t.Fatalf("unexpected payload: %+v", envelope)
	}
	if envelope.Metadata["service"] != "accounts-service" || envelope.Metadata["environment"] != "test" {
		t.Fatalf("unexpected metadata: %v", envelope.Metadata)
	}
}

func TestPublishLoginLockoutOmitsUserID(t *testing.T) {
	publisher, asyncProducer := newTestPublisher(t)

	event := domain.LoginLockoutEvent{
		Identity:   "alice@example.com",
		Attempts:   10,
		OccurredAt: time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC),
	}

	if err := publisher.PublishLoginLockout(context.Background(), event); err != nil {
		t.Fatalf("PublishLoginLockout returned error: %v", err)
	}

	msg := <-asyncProducer.input
	raw, err := msg.Value.Encode()
	if err != nil {
		t.Fatalf("encode message: %v", err)
	}

	var envelope map[string]any
	if err := json.Unmarshal(raw, &envelope); err != nil {
		t.Fatalf("unmarshal envelope: %v", err)
	}
	if _, present := envelope["user_id"]; present {
		t.Fatalf("expected user_id omitted for lockout events")
	}
}

func TestPublishRespectsContextCancellation(t *testing.T) {
	publisher, asyncProducer := newTestPublisher(t)

	// Fill the input buffer so the next publish blocks.
	asyncProducer.input <- &sarama.ProducerMessage{}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := publisher.PublishUserDeleted(ctx, domain.UserDeletedEvent{UserID: "user-1"})
	if err == nil {
		t.Fatalf("expected context error")
	}
}
