package repositories

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/pvolkov2019/user-portal/internal/logger"
	"github.com/pvolkov2019/user-portal/internal/models"
)

// FlashRepository stores per-session flash message queues in Redis.
// Each session id maps to a list that is drained when the next page
// renders.
type FlashRepository struct {
	client *redis.Client
	exp    time.Duration // expiration for abandoned queues
}

// NewFlashRepository creates a new repository instance. The expiration
// bounds how long an undrained queue survives.
func NewFlashRepository(client *redis.Client, expiration time.Duration) *FlashRepository {
	return &FlashRepository{
		client: client,
		exp:    expiration,
	}
}

func flashKey(sessionID string) string {
	return fmt.Sprintf("flash:%s", sessionID)
}

// Push appends a message to the session's queue.
func (r *FlashRepository) Push(ctx context.Context, sessionID string, msg models.FlashMessage) error {
	key := flashKey(sessionID)

	data, err := json.Marshal(msg)
	if err != nil {
		return err
	}

	pipe := r.client.TxPipeline()
	pipe.RPush(ctx, key, data)
	pipe.Expire(ctx, key, r.exp)
	_, err = pipe.Exec(ctx)

	logger.Log.Infow(
		"key", key,
		"category", msg.Category,
		"error", err,
	)

	return err
}

// Drain returns the session's queued messages in push order and clears
// the queue. The read and the delete run in one MULTI/EXEC block, so a
// second drain within the same request sees an empty queue.
func (r *FlashRepository) Drain(ctx context.Context, sessionID string) ([]models.FlashMessage, error) {
	key := flashKey(sessionID)

	pipe := r.client.TxPipeline()
	rangeCmd := pipe.LRange(ctx, key, 0, -1)
	pipe.Del(ctx, key)
	if _, err := pipe.Exec(ctx); err != nil {
		logger.Log.Infow(
			"key", key,
			"error", err,
		)
		return nil, err
	}

	raw := rangeCmd.Val()
	messages := make([]models.FlashMessage, 0, len(raw))
	for _, item := range raw {
		var msg models.FlashMessage
		if err := json.Unmarshal([]byte(item), &msg); err != nil {
			logger.Log.Errorw("skipping malformed flash message", "key", key, "error", err)
			continue
		}
		messages = append(messages, msg)
	}

	logger.Log.Infow(
		"key", key,
		"count", len(messages),
		"error", nil,
	)

	return messages, nil
}
