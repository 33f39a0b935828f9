package notify

import (
	"context"
	"encoding/json"
	"fmt"

	"creator-platform/internal/domain/access"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type envelope struct {
	Origin  string                  `json:"origin"`
	Request access.RecomputeRequest `json:"request"`
}

// RedisRelay mirrors a Bus over a redis pub/sub channel so that every
// instance's subscribers see every recompute request.
type RedisRelay struct {
	rdb     *redis.Client
	channel string
	origin  string
	bus     *Bus
	log     *zap.Logger
}

func NewRedisRelay(rdb *redis.Client, channel string, bus *Bus, log *zap.Logger) *RedisRelay {
	r := &RedisRelay{
		rdb:     rdb,
		channel: channel,
		origin:  uuid.NewString(),
		bus:     bus,
		log:     log,
	}
	bus.SetForwarder(r.Forward)
	return r
}

func (r *RedisRelay) Forward(ctx context.Context, req access.RecomputeRequest) error {
	raw, err := json.Marshal(envelope{Origin: r.origin, Request: req})
	if err != nil {
		return fmt.Errorf("encode recompute request: %w", err)
	}
	if err := r.rdb.Publish(ctx, r.channel, raw).Err(); err != nil {
		return fmt.Errorf("relay recompute request: %w", err)
	}
	return nil
}

// Run delivers requests published by other instances until ctx is done.
func (r *RedisRelay) Run(ctx context.Context) error {
	sub := r.rdb.Subscribe(ctx, r.channel)
	defer sub.Close()

	if _, err := sub.Receive(ctx); err != nil {
		return fmt.Errorf("subscribe %s: %w", r.channel, err)
	}

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-ch:
			if !ok {
				return nil
			}
			var env envelope
			if err := json.Unmarshal([]byte(msg.Payload), &env); err != nil {
				r.log.Warn("dropping malformed relay message", zap.Error(err))
				continue
			}
			if env.Origin == r.origin {
				continue
			}
			r.bus.Deliver(env.Request)
		}
	}
}
