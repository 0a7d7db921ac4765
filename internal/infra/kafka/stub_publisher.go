package kafka

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/arklim/social-platform-accounts/internal/core/domain"
	"github.com/arklim/social-platform-accounts/internal/core/port"
)

// StubPublisher logs events instead of sending them to Kafka. Useful for development environments.
type StubPublisher struct {
	logger *zap.Logger
}

// NewStubPublisher constructs a development-friendly event publisher.
func NewStubPublisher(logger *zap.Logger) *StubPublisher {
	return &StubPublisher{logger: logger}
}

func (p *StubPublisher) logEvent(eventType, userID string, at time.Time, payload any) {
	if at.IsZero() {
		at = time.Now().UTC()
	}

	p.logger.Info("Stub event published",
		zap.String("event_type", eventType),
		zap.String("user_id", userID),
		zap.Time("timestamp", at.UTC()),
		zap.Any("payload", payload),
	)
}

// PublishUserCreated logs accounts.user.created events.
func (p *StubPublisher) PublishUserCreated(_ context.Context, event domain.UserCreatedEvent) error {
	p.logEvent(topicUserCreated, event.UserID, event.CreatedAt, event)
	return nil
}

// PublishUserUpdated logs accounts.user.updated events.
func (p *StubPublisher) PublishUserUpdated(_ context.Context, event domain.UserUpdatedEvent) error {
	p.logEvent(topicUserUpdated, event.UserID, event.UpdatedAt, event)
	return nil
}

// PublishUserBanStateChanged logs accounts.user.ban_changed events.
func (p *StubPublisher) PublishUserBanStateChanged(_ context.Context, event domain.UserBanStateChangedEvent) error {
	p.logEvent(topicUserBanChanged, event.UserID, event.ChangedAt, event)
	return nil
}

// PublishUserDeleted logs accounts.user.deleted events.
func (p *StubPublisher) PublishUserDeleted(_ context.Context, event domain.UserDeletedEvent) error {
	p.logEvent(topicUserDeleted, event.UserID, event.DeletedAt, event)
	return nil
}

// PublishLoginLockout logs accounts.login.lockout events.
func (p *StubPublisher) PublishLoginLockout(_ context.Context, event domain.LoginLockoutEvent) error {
	p.logEvent(topicLoginLockout, "", event.OccurredAt, event)
	return nil
}

var _ port.EventPublisher = (*StubPublisher)(nil)
