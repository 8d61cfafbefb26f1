package notifier

import (
	"context"
	"encoding/json"

	"bakery-pos-api/config"

	"github.com/go-redis/redis/v8"
)

// RedisNotifier publishes events as JSON on redis pub/sub channels. Display
// clients subscribe to "<prefix>:queue" and "<prefix>:display".
type RedisNotifier struct {
	client *redis.Client
	prefix string
}

func NewRedisNotifier(cfg *config.RedisConfig) *RedisNotifier {
	return &RedisNotifier{
		client: redis.NewClient(&redis.Options{
			Addr:     cfg.Addr,
			Password: cfg.Password,
			DB:       cfg.DB,
		}),
		prefix: cfg.Channel,
	}
}

func (n *RedisNotifier) Ping(ctx context.Context) error {
	return n.client.Ping(ctx).Err()
}

func (n *RedisNotifier) Broadcast(ctx context.Context, topic string, event Event) error {
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}
	return n.client.Publish(ctx, n.prefix+":"+topic, data).Err()
}

func (n *RedisNotifier) Close() error {
	return n.client.Close()
}
