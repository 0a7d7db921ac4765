package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/IBM/sarama"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/arklim/social-platform-accounts/internal/core/domain"
	"github.com/arklim/social-platform-accounts/internal/core/port"
	"github.com/arklim/social-platform-accounts/internal/infra/config"
)

const schemaVersion = "1.0"

const (
	topicUserCreated    = "accounts.user.created"
	topicUserUpdated    = "accounts.user.updated"
	topicUserBanChanged = "accounts.user.ban_changed"
	topicUserDeleted    = "accounts.user.deleted"
	topicLoginLockout   = "accounts.login.lockout"
)

// EventPublisher implements port.EventPublisher using Kafka.
type EventPublisher struct {
	producer *Producer
	logger   *zap.Logger
	appCfg   config.AppSettings
}

// NewEventPublisher constructs a Kafka-backed event publisher.
func NewEventPublisher(producer *Producer, appCfg config.AppSettings, logger *zap.Logger) *EventPublisher {
	return &EventPublisher{producer: producer, appCfg: appCfg, logger: logger}
}

type eventEnvelope struct {
	EventID   string            `json:"event_id"`
	EventType string            `json:"event_type"`
	UserID    string            `json:"user_id,omitempty"`
	Timestamp time.Time         `json:"timestamp"`
	Version   string            `json:"version"`
	Payload   any               `json:"payload"`
	Metadata  map[string]string `json:"metadata,omitempty"`
}

func (p *EventPublisher) publish(ctx context.Context, eventType, userID string, ts time.Time, payload any) error {
	if ts.IsZero() {
		ts = time.Now().UTC()
	}

	envelope := eventEnvelope{
		EventID:   uuid.NewString(),
		EventType: eventType,
		UserID:    userID,
		Timestamp: ts.UTC(),
		Version:   schemaVersion,
		Payload:   payload,
		Metadata: map[string]string{
			"service":     p.appCfg.Name,
			"environment": p.appCfg.Env,
		},
	}

	bytes, err := json.Marshal(envelope)
	if err != nil {
		return fmt.Errorf("marshal event envelope: %w", err)
	}

	message := &sarama.ProducerMessage{
		Topic: p.producer.TopicName(eventType),
		Value: sarama.ByteEncoder(bytes),
	}

	select {
	case p.producer.Producer().Input() <- message:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// PublishUserCreated publishes accounts.user.created events.
func (p *EventPublisher) PublishUserCreated(ctx context.Context, event domain.UserCreatedEvent) error {
	return p.publish(ctx, topicUserCreated, event.UserID, event.CreatedAt, event)
}

// PublishUserUpdated publishes accounts.user.updated events. The payload
// names the changed fields only; values stay out of the stream.
func (p *EventPublisher) PublishUserUpdated(ctx context.Context, event domain.UserUpdatedEvent) error {
	return p.publish(ctx, topicUserUpdated, event.UserID, event.UpdatedAt, event)
}

// PublishUserBanStateChanged publishes accounts.user.ban_changed events.
func (p *EventPublisher) PublishUserBanStateChanged(ctx context.Context, event domain.UserBanStateChangedEvent) error {
	return p.publish(ctx, topicUserBanChanged, event.UserID, event.ChangedAt, event)
}

// PublishUserDeleted publishes accounts.user.deleted events.
func (p *EventPublisher) PublishUserDeleted(ctx context.Context, event domain.UserDeletedEvent) error {
	return p.publish(ctx, topicUserDeleted, event.UserID, event.DeletedAt, event)
}

// PublishLoginLockout publishes accounts.login.lockout events. The identity
// is the submitted login string and may not belong to any account, so the
// envelope carries no user id.
func (p *EventPublisher) PublishLoginLockout(ctx context.Context, event domain.LoginLockoutEvent) error {
	return p.publish(ctx, topicLoginLockout, "", event.OccurredAt, event)
}

var _ port.EventPublisher = (*EventPublisher)(nil)
