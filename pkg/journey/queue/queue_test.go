package queue_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NethermindEth/gojourney/pkg/journey/queue"
)

type mockReader struct {
	messages  []kafka.Message
	committed []int64
	closed    bool
}

func (m *mockReader) FetchMessage(ctx context.Context) (kafka.Message, error) {
	if len(m.messages) == 0 {
		<-ctx.Done()
		return kafka.Message{}, ctx.Err()
	}
	msg := m.messages[0]
	m.messages = m.messages[1:]
	return msg, nil
}

func (m *mockReader) CommitMessages(ctx context.Context, msgs ...kafka.Message) error {
	for _, msg := range msgs {
		m.committed = append(m.committed, msg.Offset)
	}
	return nil
}

func (m *mockReader) Close() error {
	m.closed = true
	return nil
}

type mockHandler struct {
	handleMessage func(ctx context.Context, msg *queue.PromptMessage) error
}

func (m *mockHandler) HandleMessage(ctx context.Context, msg *queue.PromptMessage) error {
	return m.handleMessage(ctx, msg)
}

type mockWriter struct {
	messages []kafka.Message
	err      error
}

func (m *mockWriter) WriteMessages(ctx context.Context, msgs ...kafka.Message) error {
	if m.err != nil {
		return m.err
	}
	m.messages = append(m.messages, msgs...)
	return nil
}

func (m *mockWriter) Close() error {
	return nil
}

func TestConsumer_Start(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	reader := &mockReader{
		messages: []kafka.Message{
			{Offset: 1, Value: []byte(`{"request_id":"a","prompt":"a cat","num_images":2}`)},
			{Offset: 2, Value: []byte(`not json`)},
			{Offset: 3, Key: []byte("c"), Value: []byte(`{"prompt":"a dog","num_images":1,"aspect_ratio":"1:1"}`)},
		},
	}

	var handled []queue.PromptMessage
	handler := &mockHandler{
		handleMessage: func(ctx context.Context, msg *queue.PromptMessage) error {
			handled = append(handled, *msg)
			if len(handled) == 2 {
				cancel()
			}
			return nil
		},
	}

	consumer := queue.NewConsumer(reader, handler)
	err := consumer.Start(ctx)
	assert.ErrorIs(t, err, context.Canceled)

	require.Len(t, handled, 2)
	assert.Equal(t, queue.PromptMessage{RequestID: "a", Prompt: "a cat", NumImages: 2}, handled[0])
	assert.Equal(t, queue.PromptMessage{RequestID: "c", Prompt: "a dog", NumImages: 1, AspectRatio: "1:1"}, handled[1])
	assert.Equal(t, []int64{1, 2, 3}, reader.committed)

	require.NoError(t, consumer.Close())
	assert.True(t, reader.closed)
}

func TestConsumer_HandlerErrorIsCommitted(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	reader := &mockReader{
		messages: []kafka.Message{{Offset: 7, Value: []byte(`{"request_id":"x","prompt":"p","num_images":1}`)}},
	}
	calls := 0
	handler := &mockHandler{
		handleMessage: func(ctx context.Context, msg *queue.PromptMessage) error {
			calls++
			cancel()
			return errors.New("boom")
		},
	}

	err := queue.NewConsumer(reader, handler).Start(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, calls)
	assert.Equal(t, []int64{7}, reader.committed)
}

func TestProducer_PublishResult(t *testing.T) {
	writer := &mockWriter{}
	producer := queue.NewProducerWithWriter(writer, "results")

	err := producer.PublishResult(context.Background(), &queue.ResultMessage{
		RequestID: "r1",
		Status:    queue.StatusFailed,
		Error:     "no reply",
		Kind:      "timeout",
	})
	require.NoError(t, err)
	require.Len(t, writer.messages, 1)

	assert.Equal(t, []byte("r1"), writer.messages[0].Key)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(writer.messages[0].Value, &decoded))
	assert.Equal(t, map[string]any{
		"request_id": "r1",
		"status":     "failed",
		"error":      "no reply",
		"kind":       "timeout",
	}, decoded)
}

func TestProducer_WriteError(t *testing.T) {
	producer := queue.NewProducerWithWriter(&mockWriter{err: assert.AnError}, "results")
	err := producer.PublishResult(context.Background(), &queue.ResultMessage{RequestID: "r1"})
	assert.ErrorIs(t, err, assert.AnError)
}
