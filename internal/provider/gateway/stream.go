package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"

	"github.com/openai/openai-go/packages/ssestream"

	"github.com/nvoss/hearth/internal/domain"
	"github.com/nvoss/hearth/internal/observability"
)

// doneSentinel terminates a stream cleanly; it is not an error.
var doneSentinel = []byte("[DONE]")

// streamFrame is the per-event body shape. Deltas arrive under
// choices[0].delta; some gateways place the final text under .message.
type streamFrame struct {
	Choices []struct {
		Delta struct {
			Content string `json:"content"`
		} `json:"delta"`
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
		FinishReason *string `json:"finish_reason"`
	} `json:"choices"`
}

// relay decodes the provider's server-sent-event stream and forwards text
// deltas until the [DONE] sentinel, a finish reason, or a decode failure.
// Closing the response body is owned here.
func relay(ctx context.Context, resp *http.Response, chunks chan<- domain.StreamChunk) {
	defer close(chunks)

	logger := observability.FromContext(ctx)

	decoder := ssestream.NewDecoder(resp)
	defer decoder.Close()

	for decoder.Next() {
		data := bytes.TrimSpace(decoder.Event().Data)
		if bytes.Equal(data, doneSentinel) {
			emit(ctx, chunks, domain.StreamChunk{Done: true})
			return
		}

		var frame streamFrame
		if err := json.Unmarshal(data, &frame); err != nil {
			// Gateways interleave keep-alive and metadata events; skip them.
			continue
		}
		if len(frame.Choices) == 0 {
			continue
		}

		choice := frame.Choices[0]
		delta := choice.Delta.Content
		if delta == "" {
			delta = choice.Message.Content
		}
		done := choice.FinishReason != nil && *choice.FinishReason != ""

		if !emit(ctx, chunks, domain.StreamChunk{Delta: delta, Done: done}) {
			return
		}
		if done {
			return
		}
	}

	if err := decoder.Err(); err != nil {
		logger.Error("stream decode failed", observability.Error(err))
		emit(ctx, chunks, domain.StreamChunk{Error: err})
	}
}

// emit delivers a chunk unless the consumer has gone away.
func emit(ctx context.Context, chunks chan<- domain.StreamChunk, chunk domain.StreamChunk) bool {
	select {
	case chunks <- chunk:
		return true
	case <-ctx.Done():
		return false
	}
}
