package consumer

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"catalog-search/metrics"
)

// Event represents a domain event from the stream.
type Event struct {
	// MessageID is the Redis Stream message ID.
	MessageID string
	// EventID is the unique event identifier.
	EventID string
	// EventType is the type of event.
	EventType string
	// Source is the service that produced the event.
	Source string
	// CreatedAt is when the event was created.
	CreatedAt time.Time
	// Payload is the event-specific data.
	Payload json.RawMessage
	// Metadata contains additional context.
	Metadata map[string]string
}

// EventHandler processes events from the stream.
type EventHandler interface {
	// HandleEvent processes a single event.
	HandleEvent(ctx context.Context, event Event) error
}

// Consumer consumes events from Redis Streams.
type Consumer struct {
	client   *redis.Client
	config   Config
	handler  EventHandler
	logger   *slog.Logger
	stopOnce sync.Once
	done     chan struct{}
}

// NewConsumer creates a new Redis Streams consumer.
func NewConsumer(config Config, handler EventHandler, logger *slog.Logger) (*Consumer, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if !config.Enabled {
		return &Consumer{config: config, logger: logger}, nil
	}

	opts, err := redis.ParseURL(config.RedisURL)
	if err != nil {
		return nil, err
	}

	return &Consumer{
		client:  redis.NewClient(opts),
		config:  config,
		handler: handler,
		logger:  logger,
		done:    make(chan struct{}),
	}, nil
}

// Start creates the consumer group if needed and begins consuming in the
// background.
func (c *Consumer) Start(ctx context.Context) error {
	if !c.config.Enabled {
		c.logger.Info("consumer disabled, not starting")
		return nil
	}

	if err := c.ensureConsumerGroup(ctx); err != nil {
		return err
	}

	c.logger.Info("starting consumer",
		"stream", c.config.StreamKey,
		"group", c.config.GroupName,
		"consumer", c.config.ConsumerName,
	)

	go c.consumeLoop(ctx)
	return nil
}

// Stop gracefully stops the consumer. It is safe to call more than once.
func (c *Consumer) Stop() {
	c.stopOnce.Do(func() {
		if c.done != nil {
			close(c.done)
		}
		if c.client != nil {
			if err := c.client.Close(); err != nil {
				c.logger.Warn("failed to close redis client", "error", err)
			}
		}
	})
}

// IsEnabled returns true if the consumer is enabled.
func (c *Consumer) IsEnabled() bool {
	return c.config.Enabled
}

func (c *Consumer) ensureConsumerGroup(ctx context.Context) error {
	err := c.client.XGroupCreateMkStream(ctx, c.config.StreamKey, c.config.GroupName, "0").Err()
	if err != nil && !strings.HasPrefix(err.Error(), "BUSYGROUP") {
		return err
	}
	return nil
}

func (c *Consumer) consumeLoop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			c.logger.Info("consumer context cancelled, stopping")
			return
		case <-c.done:
			c.logger.Info("consumer shutdown requested, stopping")
			return
		default:
		}

		if err := c.claimPending(ctx); err != nil && !c.stopping(ctx) {
			c.logger.Error("error claiming pending events", "error", err)
		}
		if err := c.readAndProcess(ctx); err != nil && !c.stopping(ctx) {
			c.logger.Error("error processing events", "error", err)
			select {
			case <-time.After(time.Second):
			case <-ctx.Done():
			case <-c.done:
			}
		}
	}
}

func (c *Consumer) stopping(ctx context.Context) bool {
	if ctx.Err() != nil {
		return true
	}
	select {
	case <-c.done:
		return true
	default:
		return false
	}
}

// readAndProcess reads new messages for this consumer and handles them one
// at a time.
func (c *Consumer) readAndProcess(ctx context.Context) error {
	streams, err := c.client.XReadGroup(ctx, &redis.XReadGroupArgs{
		Group:    c.config.GroupName,
		Consumer: c.config.ConsumerName,
		Streams:  []string{c.config.StreamKey, ">"},
		Count:    c.config.BatchSize,
		Block:    c.config.BlockTimeout,
	}).Result()
	if errors.Is(err, redis.Nil) {
		return nil
	}
	if err != nil {
		return err
	}

	for _, stream := range streams {
		for _, message := range stream.Messages {
			c.process(ctx, message)
		}
	}
	return nil
}

// claimPending takes over messages that stayed unacknowledged for longer
// than ClaimIdleTime and handles them again.
func (c *Consumer) claimPending(ctx context.Context) error {
	messages, _, err := c.client.XAutoClaim(ctx, &redis.XAutoClaimArgs{
		Stream:   c.config.StreamKey,
		Group:    c.config.GroupName,
		Consumer: c.config.ConsumerName,
		MinIdle:  c.config.ClaimIdleTime,
		Start:    "0-0",
		Count:    c.config.BatchSize,
	}).Result()
	if errors.Is(err, redis.Nil) {
		return nil
	}
	if err != nil {
		return err
	}

	for _, message := range messages {
		c.process(ctx, message)
	}
	return nil
}

func (c *Consumer) process(ctx context.Context, message redis.XMessage) {
	event := parseEvent(message)

	status := "processed"
	if err := c.handler.HandleEvent(ctx, event); err != nil {
		var perm *PermanentError
		switch {
		case errors.Is(err, ErrUnknownEventType):
			status = "skipped"
			c.logger.Warn("unknown event type, skipping",
				"message_id", message.ID,
				"event_type", event.EventType,
				"event_id", event.EventID,
			)
		case errors.As(err, &perm):
			status = "dropped"
			c.logger.Warn("dropping unprocessable event",
				"message_id", message.ID,
				"event_type", event.EventType,
				"error", err,
			)
		default:
			metrics.RecordEvent(event.EventType, "failed")
			c.logger.Error("failed to process event",
				"message_id", message.ID,
				"event_type", event.EventType,
				"error", err,
			)
			// Left pending; claimPending redelivers it.
			return
		}
	}
	metrics.RecordEvent(event.EventType, status)

	if err := c.client.XAck(ctx, c.config.StreamKey, c.config.GroupName, message.ID).Err(); err != nil {
		c.logger.Error("failed to acknowledge message",
			"message_id", message.ID,
			"error", err,
		)
	}
}

// parseEvent converts a Redis Stream message to an Event.
func parseEvent(message redis.XMessage) Event {
	event := Event{
		MessageID: message.ID,
		Metadata:  make(map[string]string),
	}

	if v, ok := message.Values["event_id"].(string); ok {
		event.EventID = v
	}
	if v, ok := message.Values["event_type"].(string); ok {
		event.EventType = v
	}
	if v, ok := message.Values["source"].(string); ok {
		event.Source = v
	}
	if v, ok := message.Values["created_at"].(string); ok {
		event.CreatedAt, _ = time.Parse(time.RFC3339, v)
	}
	if v, ok := message.Values["payload"].(string); ok {
		event.Payload = json.RawMessage(v)
	}
	if v, ok := message.Values["metadata"].(string); ok {
		_ = json.Unmarshal([]byte(v), &event.Metadata)
	}

	return event
}
