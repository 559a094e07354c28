package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/jwebster45206/vignette-engine/pkg/session"
)

// Event is the envelope published for every session event
type Event struct {
	Type      session.EventType      `json:"type"`
	SessionID string                 `json:"session_id"`
	Data      map[string]interface{} `json:"data,omitempty"`
}

// Broadcaster publishes session events to Redis Pub/Sub
type Broadcaster struct {
	redisClient *redis.Client
	logger      *slog.Logger
}

// NewBroadcaster creates a new event broadcaster
func NewBroadcaster(redisClient *redis.Client, logger *slog.Logger) *Broadcaster {
	return &Broadcaster{
		redisClient: redisClient,
		logger:      logger,
	}
}

// Channel is the Pub/Sub channel for a session's events
func Channel(sessionID uuid.UUID) string {
	return fmt.Sprintf("session-events:%s", sessionID.String())
}

// PublishStep publishes the events of one step in order. It stops at the
// first failure.
func (b *Broadcaster) PublishStep(ctx context.Context, sessionID uuid.UUID, evts []session.Event) error {
	for _, e := range evts {
		if err := b.Publish(ctx, sessionID, e); err != nil {
			return err
		}
	}
	return nil
}

// Publish publishes a single session event
func (b *Broadcaster) Publish(ctx context.Context, sessionID uuid.UUID, e session.Event) error {
	return b.publishToSession(ctx, sessionID, Event{
		Type:      e.Type,
		SessionID: sessionID.String(),
		Data:      e.Data,
	})
}

// publishToSession publishes an event to the session-specific channel
func (b *Broadcaster) publishToSession(ctx context.Context, sessionID uuid.UUID, event Event) error {
	channel := Channel(sessionID)

	data, err := json.Marshal(event)
	if err != nil {
		b.logger.Error("Failed to marshal event", "error", err, "event_type", event.Type)
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	if err := b.redisClient.Publish(ctx, channel, data).Err(); err != nil {
		b.logger.Error("Failed to publish event", "error", err, "channel", channel)
		return fmt.Errorf("failed to publish event: %w", err)
	}

	b.logger.Debug("Event published",
		"channel", channel,
		"event_type", event.Type,
	)

	return nil
}
