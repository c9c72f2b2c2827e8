package journey

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"

	"github.com/NethermindEth/gojourney/pkg/journey/art"
	"github.com/NethermindEth/gojourney/pkg/journey/queue"
)

var _ queue.MessageHandler = (*Journey)(nil)

// StartWorker consumes prompt messages until ctx is done.
func (j *Journey) StartWorker(ctx context.Context) error {
	if j.consumer == nil {
		return errors.New("queue is not configured")
	}
	return j.consumer.Start(ctx)
}

// HandleMessage generates one queued prompt and reports the outcome on the
// results topic. Generation failures are reported, not returned.
func (j *Journey) HandleMessage(ctx context.Context, msg *queue.PromptMessage) error {
	requestId := msg.RequestID
	if requestId == "" {
		requestId = uuid.NewString()
	}

	req := art.Request{
		Prompt:      msg.Prompt,
		NumImages:   msg.NumImages,
		AspectRatio: msg.AspectRatio,
	}

	result := &queue.ResultMessage{RequestID: requestId}

	generation, err := j.imagine(ctx, requestId, req)
	if err != nil {
		slog.Error("failed to generate queued prompt", "requestId", requestId, "error", err)
		result.Status = queue.StatusFailed
		result.Error = err.Error()
		result.Kind = art.KindName(err)
	} else {
		result.Status = queue.StatusSucceeded
		result.SourceURL = generation.Result.SourceURL
		result.Cached = generation.Result.Cached
		if generation.Publication != nil {
			result.Locations = generation.Publication.Locations
			result.IpfsHash = generation.Publication.IpfsHash
		}
	}

	if j.producer == nil {
		slog.Warn("no result producer configured, dropping result", "requestId", requestId)
		return nil
	}

	return j.producer.PublishResult(ctx, result)
}
