package cache

import (
	"context"
	"fmt"

	"github.com/comitanigiacomo/habittrack/internal/core/domain"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

var _ domain.ChangeFeed = (*RedisChangeFeed)(nil)

// RedisChangeFeed fans events out over one pub/sub channel per user, so
// every API replica can notify its own connected clients.
type RedisChangeFeed struct {
	rdb    *redis.Client
	logger *zap.Logger
}

func NewRedisChangeFeed(rdb *redis.Client, logger *zap.Logger) *RedisChangeFeed {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RedisChangeFeed{rdb: rdb, logger: logger}
}

func eventsChannel(userID string) string {
	return fmt.Sprintf("events:%s", userID)
}

func (f *RedisChangeFeed) Publish(ctx context.Context, userID, event string) error {
	if err := f.rdb.Publish(ctx, eventsChannel(userID), event).Err(); err != nil {
		return fmt.Errorf("change feed: publish: %w", err)
	}
	return nil
}

// Subscribe returns a channel of event names that closes when ctx ends or
// the returned cancel func is called.
func (f *RedisChangeFeed) Subscribe(ctx context.Context, userID string) (<-chan string, func(), error) {
	sub := f.rdb.Subscribe(ctx, eventsChannel(userID))

	// Events published before the confirmation are not delivered.
	if _, err := sub.Receive(ctx); err != nil {
		sub.Close()
		return nil, nil, fmt.Errorf("change feed: subscribe: %w", err)
	}

	ctx, cancel := context.WithCancel(ctx)
	out := make(chan string, 8)

	go func() {
		defer close(out)
		defer sub.Close()

		msgs := sub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-msgs:
				if !ok {
					return
				}
				select {
				case out <- msg.Payload:
				default:
					f.logger.Debug("[CACHE] slow subscriber, dropping event", zap.String("user_id", userID))
				}
			}
		}
	}()

	return out, cancel, nil
}
