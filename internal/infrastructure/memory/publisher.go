package memory

import (
	"context"

	"github.com/baechuer/real-time-ressys/services/access-service/internal/application/auth"
	"github.com/baechuer/real-time-ressys/services/access-service/internal/logger"
)

// NoopPublisher logs events instead of sending them. Used when no broker is configured.
type NoopPublisher struct{}

func NewNoopPublisher() *NoopPublisher { return &NoopPublisher{} }

func (p *NoopPublisher) PublishUserRegistered(ctx context.Context, evt auth.UserRegisteredEvent) error {
	logger.WithCtx(ctx).Debug().
		Str("user_id", evt.UserID).
		Str("role", evt.Role).
		Msg("[noop-pub] user registered")
	return nil
}

func (p *NoopPublisher) PublishWhitelistChanged(ctx context.Context, evt auth.WhitelistChangedEvent) error {
	logger.WithCtx(ctx).Debug().
		Str("action", string(evt.Action)).
		Str("role", evt.Role).
		Str("actor_id", evt.ActorID).
		Msg("[noop-pub] whitelist changed")
	return nil
}
