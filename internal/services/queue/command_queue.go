package queue

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/jwebster45206/vignette-engine/pkg/queue"
)

// CommandQueue holds player commands for a session between steps. Each
// session has its own Redis list; a step drains it whole.
type CommandQueue struct {
	client *Client
	logger *slog.Logger
}

func NewCommandQueue(client *Client, logger *slog.Logger) *CommandQueue {
	return &CommandQueue{
		client: client,
		logger: logger,
	}
}

func queueKey(sessionID uuid.UUID) string {
	return fmt.Sprintf("session-commands:%s", sessionID.String())
}

// Enqueue adds a command to the end of the session's queue
func (cq *CommandQueue) Enqueue(ctx context.Context, sessionID uuid.UUID, command string) (*queue.Request, error) {
	req := queue.NewRequest(sessionID, command)
	data, err := req.ToJSON()
	if err != nil {
		return nil, fmt.Errorf("failed to serialize command: %w", err)
	}

	if err := cq.client.rdb.RPush(ctx, queueKey(sessionID), data).Err(); err != nil {
		return nil, fmt.Errorf("failed to enqueue command: %w", err)
	}

	cq.logger.Debug("Command enqueued",
		"session_id", sessionID.String(),
		"request_id", req.RequestID,
		"command", command)
	return req, nil
}

// Drain removes and returns every queued command for a session, oldest
// first. The read and delete happen in one transaction so a concurrent
// Enqueue is never lost.
func (cq *CommandQueue) Drain(ctx context.Context, sessionID uuid.UUID) ([]*queue.Request, error) {
	key := queueKey(sessionID)

	var entries *redis.StringSliceCmd
	_, err := cq.client.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		entries = pipe.LRange(ctx, key, 0, -1)
		pipe.Del(ctx, key)
		return nil
	})
	if err != nil && !errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("failed to drain command queue: %w", err)
	}

	return cq.decode(sessionID, entries.Val()), nil
}

// Peek returns queued commands without removing them
func (cq *CommandQueue) Peek(ctx context.Context, sessionID uuid.UUID, limit int) ([]*queue.Request, error) {
	end := int64(limit - 1)
	if limit <= 0 {
		end = -1 // Get all
	}
	entries, err := cq.client.rdb.LRange(ctx, queueKey(sessionID), 0, end).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("failed to peek command queue: %w", err)
	}
	return cq.decode(sessionID, entries), nil
}

// Clear removes all queued commands for a session
func (cq *CommandQueue) Clear(ctx context.Context, sessionID uuid.UUID) error {
	if err := cq.client.rdb.Del(ctx, queueKey(sessionID)).Err(); err != nil {
		return fmt.Errorf("failed to clear command queue: %w", err)
	}
	return nil
}

// Depth returns the number of commands queued for a session
func (cq *CommandQueue) Depth(ctx context.Context, sessionID uuid.UUID) (int, error) {
	count, err := cq.client.rdb.LLen(ctx, queueKey(sessionID)).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to get queue depth: %w", err)
	}
	return int(count), nil
}

func (cq *CommandQueue) decode(sessionID uuid.UUID, entries []string) []*queue.Request {
	reqs := make([]*queue.Request, 0, len(entries))
	for _, entry := range entries {
		req, err := queue.FromJSON([]byte(entry))
		if err != nil {
			cq.logger.Warn("Dropping malformed queued command",
				"session_id", sessionID.String(),
				"error", err)
			continue
		}
		reqs = append(reqs, req)
	}
	return reqs
}
