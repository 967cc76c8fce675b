package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/ZABarton/idle-artifice-sub000/pkg/modal"
	"github.com/ZABarton/idle-artifice-sub000/pkg/transcript"
)

const (
	seenTutorialsKey = "tutorials:seen"
	dialogHistoryKey = "dialog:history"
)

// RedisProgress implements modal.ProgressStore using Redis. Each of the
// two records is one string key holding JSON, read once at startup and
// rewritten in full on every mutation.
type RedisProgress struct {
	client *redis.Client
	logger *slog.Logger
}

// Ensure RedisProgress implements ProgressStore interface
var _ modal.ProgressStore = (*RedisProgress)(nil)

// NewRedisProgress creates a new Redis-backed progress store.
func NewRedisProgress(redisURL string, logger *slog.Logger) (*RedisProgress, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis URL: %w", err)
	}

	return &RedisProgress{
		client: redis.NewClient(opt),
		logger: logger,
	}, nil
}

func (r *RedisProgress) Ping(ctx context.Context) error {
	if err := r.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping failed: %w", err)
	}
	return nil
}

func (r *RedisProgress) Close() error {
	if err := r.client.Close(); err != nil {
		r.logger.Error("Failed to close Redis connection", "error", err)
		return err
	}
	r.logger.Info("Redis connection closed")
	return nil
}

// WaitForConnection waits for Redis to become available (used during startup)
func (r *RedisProgress) WaitForConnection(ctx context.Context) error {
	maxRetries := 30
	retryDelay := 2 * time.Second

	for i := 0; i < maxRetries; i++ {
		if err := r.Ping(ctx); err != nil {
			r.logger.Debug("Redis not ready yet", "error", err, "attempt", i+1)

			select {
			case <-ctx.Done():
				return fmt.Errorf("context cancelled while waiting for redis: %w", ctx.Err())
			case <-time.After(retryDelay):
				continue
			}
		}

		r.logger.Info("Redis connection established")
		return nil
	}

	return fmt.Errorf("redis did not become available after %d attempts", maxRetries)
}

func (r *RedisProgress) LoadSeenTutorials(ctx context.Context) ([]string, error) {
	data, err := r.client.Get(ctx, seenTutorialsKey).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, nil // nothing saved yet
		}
		return nil, fmt.Errorf("failed to load seen tutorials: %w", err)
	}

	var ids []string
	if err := json.Unmarshal([]byte(data), &ids); err != nil {
		return nil, fmt.Errorf("failed to unmarshal seen tutorials: %w", err)
	}
	return ids, nil
}

func (r *RedisProgress) SaveSeenTutorials(ctx context.Context, ids []string) error {
	data, err := json.Marshal(ids)
	if err != nil {
		return fmt.Errorf("failed to marshal seen tutorials: %w", err)
	}

	if err := r.client.Set(ctx, seenTutorialsKey, string(data), 0).Err(); err != nil {
		r.logger.Error("Failed to save seen tutorials", "error", err)
		return fmt.Errorf("failed to save seen tutorials: %w", err)
	}
	return nil
}

func (r *RedisProgress) LoadHistory(ctx context.Context) ([]*transcript.ConversationRecord, error) {
	data, err := r.client.Get(ctx, dialogHistoryKey).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to load dialog history: %w", err)
	}

	var history []*transcript.ConversationRecord
	if err := json.Unmarshal([]byte(data), &history); err != nil {
		return nil, fmt.Errorf("failed to unmarshal dialog history: %w", err)
	}
	return history, nil
}

func (r *RedisProgress) SaveHistory(ctx context.Context, history []*transcript.ConversationRecord) error {
	data, err := json.Marshal(history)
	if err != nil {
		return fmt.Errorf("failed to marshal dialog history: %w", err)
	}

	if err := r.client.Set(ctx, dialogHistoryKey, string(data), 0).Err(); err != nil {
		r.logger.Error("Failed to save dialog history", "error", err)
		return fmt.Errorf("failed to save dialog history: %w", err)
	}
	return nil
}
