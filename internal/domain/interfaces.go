package domain

import (
	"context"
	"time"
)

// Secret names resolved through the CredentialProvider.
const (
	SecretPrimary      = "primary"
	SecretLegacy       = "legacy"
	SecretReplicate    = "replicate"
	SecretToolPassword = "tool_password"
)

// CredentialProvider supplies named secrets. Credentials are process-wide
// configuration, read-only at request time.
type CredentialProvider interface {
	// Secret returns the named secret, or "" when it is not configured.
	Secret(name string) string
}

// ChatCaller performs a single completion attempt against one backend target.
// Failures reported by the backend are returned as *UpstreamError; anything
// else is a network-level error.
type ChatCaller interface {
	// Complete issues a buffered call and returns the normalized response.
	Complete(ctx context.Context, target BackendTarget, req *CompletionRequest) (*CompletionResponse, error)

	// Stream issues a streaming call and returns a channel of text deltas.
	// Once the channel is returned the attempt counts as successful; mid-stream
	// errors are delivered in-band.
	Stream(ctx context.Context, target BackendTarget, req *CompletionRequest) (<-chan StreamChunk, error)
}

// MediaGenerator produces an image or video from a prompt.
type MediaGenerator interface {
	Generate(ctx context.Context, req *MediaRequest) (*MediaResult, error)
}

// MediaCache caches media generation results by exact request identity.
type MediaCache interface {
	// Get retrieves a cached result, or ErrCacheMiss.
	Get(ctx context.Context, req *MediaRequest) (*MediaResult, error)

	// Set stores a result with a TTL.
	Set(ctx context.Context, req *MediaRequest, res *MediaResult, ttl time.Duration) error
}

// PredictionRunner starts an asynchronous generation job and awaits its
// terminal state.
type PredictionRunner interface {
	StartAndAwait(ctx context.Context, modelKey string, input map[string]any) ([]string, error)
}

// EventPublisher publishes orchestration events for observability.
type EventPublisher interface {
	Publish(ctx context.Context, eventType string, data map[string]any)
}
