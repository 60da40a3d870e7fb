package service

import (
	"context"
	"time"

	"github.com/kommerce/shop/internal/logging"
)

const (
	TopicUserEvents    = "user_events"
	TopicProductEvents = "product_events"
	TopicCartEvents    = "cart_events"
	TopicOrderEvents   = "order_events"
)

type EventPublisher interface {
	PublishEvent(ctx context.Context, topic, key string, event interface{}) error
}

// publish fires a domain event without ever failing the request: a broker
// outage costs an event, not a mutation.
func publish(ctx context.Context, p EventPublisher, topic, key string, event map[string]interface{}) {
	if p == nil {
		return
	}
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := p.PublishEvent(ctx, topic, key, event); err != nil {
		logging.FromContext(ctx).Error("event publish failed", "topic", topic, "error", err)
	}
}
