package notify

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Channel Redis channel carrying changes between instances
const Channel = "staffdesk:changes"

// Broker is the slice of the Redis client the bridge needs
type Broker interface {
	Publish(ctx context.Context, channel string, payload []byte) error
	Subscribe(ctx context.Context, channel string, fn func(payload []byte)) error
}

// RedisBridge publishes local changes to Redis and relays changes from
// other instances into the local hub.
type RedisBridge struct {
	hub    *Hub
	broker Broker
	origin string
	logger *zap.Logger
}

// NewRedisBridge wraps hub
func NewRedisBridge(hub *Hub, broker Broker, logger *zap.Logger) *RedisBridge {
	return &RedisBridge{
		hub:    hub,
		broker: broker,
		origin: uuid.NewString(),
		logger: logger,
	}
}

// Notify delivers locally and publishes to other instances. A broker failure
// is logged; local subscribers still receive the change.
func (b *RedisBridge) Notify(ctx context.Context, c Change) {
	if c.At.IsZero() {
		c.At = time.Now()
	}
	c.Origin = b.origin
	b.hub.Publish(c)

	payload, err := json.Marshal(c)
	if err != nil {
		b.logger.Error("encode change failed", zap.Error(err))
		return
	}
	if err := b.broker.Publish(ctx, Channel, payload); err != nil {
		b.logger.Warn("publish change failed",
			zap.String("collection", c.Collection),
			zap.String("entity_id", c.EntityID),
			zap.Error(err),
		)
	}
}

// Run relays remote changes until ctx is done
func (b *RedisBridge) Run(ctx context.Context) error {
	return b.broker.Subscribe(ctx, Channel, b.relay)
}

func (b *RedisBridge) relay(payload []byte) {
	var c Change
	if err := json.Unmarshal(payload, &c); err != nil {
		b.logger.Warn("malformed change dropped", zap.Error(err))
		return
	}
	if c.Origin == b.origin {
		return
	}
	b.hub.Publish(c)
}
