package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	redis "github.com/redis/go-redis/v9"

	"askgate/internal/config"
	"askgate/internal/models"
)

// RedisStore keeps conversation histories as Redis lists so they survive
// restarts. The per-conversation lock is still in-process: the deployment is
// single-instance, and the lock only has to serialize dispatches inside it.
type RedisStore struct {
	client *redis.Client
	locks  keyedMutex
}

// NewRedisStore connects to Redis using app config and verifies the
// connection before returning.
func NewRedisStore(cfg *config.Config) (*RedisStore, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config required")
	}
	host := cfg.Redis.Host
	if host == "" {
		host = "127.0.0.1"
	}
	port := cfg.Redis.Port
	if port == 0 {
		port = 6379
	}

	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", host, port),
		Username: cfg.Redis.Username,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return &RedisStore{client: client}, nil
}

func conversationKey(conversationID string) string {
	return "conv:" + conversationID
}

func (s *RedisStore) History(ctx context.Context, conversationID string) ([]models.Message, error) {
	entries, err := s.client.LRange(ctx, conversationKey(conversationID), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("read history: %w", err)
	}
	messages := make([]models.Message, 0, len(entries))
	for _, entry := range entries {
		var msg models.Message
		if err := json.Unmarshal([]byte(entry), &msg); err != nil {
			return nil, fmt.Errorf("decode history entry: %w", err)
		}
		messages = append(messages, msg)
	}
	return messages, nil
}

func (s *RedisStore) Append(ctx context.Context, conversationID string, msgs ...models.Message) error {
	if len(msgs) == 0 {
		return nil
	}
	entries := make([]interface{}, 0, len(msgs))
	for _, msg := range msgs {
		data, err := json.Marshal(msg)
		if err != nil {
			return fmt.Errorf("encode history entry: %w", err)
		}
		entries = append(entries, data)
	}
	if err := s.client.RPush(ctx, conversationKey(conversationID), entries...).Err(); err != nil {
		return fmt.Errorf("append history: %w", err)
	}
	return nil
}

func (s *RedisStore) Acquire(conversationID string) func() {
	return s.locks.acquire(conversationID)
}

// Close releases the underlying client.
func (s *RedisStore) Close() error {
	return s.client.Close()
}
