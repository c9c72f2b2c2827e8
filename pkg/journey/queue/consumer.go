// Package queue carries prompt requests in and generation results out
// over Kafka topics.
package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/segmentio/kafka-go"
)

type MessageReader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type MessageHandler interface {
	HandleMessage(ctx context.Context, msg *PromptMessage) error
}

type Consumer struct {
	reader  MessageReader
	handler MessageHandler
}

type ConsumerOptions struct {
	Brokers []string
	Topic   string
	GroupID string
}

// NewReader opens a group reader with manual commits.
func NewReader(opts ConsumerOptions) *kafka.Reader {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:        opts.Brokers,
		Topic:          opts.Topic,
		GroupID:        opts.GroupID,
		MinBytes:       1,
		MaxBytes:       10e6,
		CommitInterval: 0,
		StartOffset:    kafka.FirstOffset,
	})

	slog.Info("kafka consumer initialized", "brokers", opts.Brokers, "topic", opts.Topic, "groupId", opts.GroupID)

	return reader
}

func NewConsumer(reader MessageReader, handler MessageHandler) *Consumer {
	return &Consumer{
		reader:  reader,
		handler: handler,
	}
}

// Start handles messages one at a time until ctx is done. Every fetched
// message is committed once handled, whether or not handling succeeded.
func (c *Consumer) Start(ctx context.Context) error {
	slog.Info("starting kafka consumer")

	for {
		msg, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return fmt.Errorf("failed to fetch message: %w", err)
		}

		if err := c.processMessage(ctx, msg); err != nil {
			slog.Error("failed to process message", "topic", msg.Topic, "partition", msg.Partition, "offset", msg.Offset, "error", err)
		}

		if err := c.reader.CommitMessages(ctx, msg); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			slog.Error("failed to commit message", "offset", msg.Offset, "error", err)
		}
	}
}

func (c *Consumer) processMessage(ctx context.Context, msg kafka.Message) error {
	slog.Debug("processing message", "topic", msg.Topic, "partition", msg.Partition, "offset", msg.Offset)

	var prompt PromptMessage
	if err := json.Unmarshal(msg.Value, &prompt); err != nil {
		return fmt.Errorf("failed to unmarshal message: %w", err)
	}

	if prompt.RequestID == "" {
		prompt.RequestID = string(msg.Key)
	}

	if err := c.handler.HandleMessage(ctx, &prompt); err != nil {
		return fmt.Errorf("handler error: %w", err)
	}

	slog.Info("message processed", "requestId", prompt.RequestID)

	return nil
}

func (c *Consumer) Close() error {
	slog.Info("closing kafka consumer")
	return c.reader.Close()
}
