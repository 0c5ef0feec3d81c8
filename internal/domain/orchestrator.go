package domain

import (
	"context"
	"errors"
	"time"

	"github.com/nvoss/hearth/internal/observability"
)

// Orchestrator walks the resolver's candidate targets in order and owns the
// outcome classification for each attempt: success, retryable failure, fatal
// failure, or safety-filter substitution. Attempts are strictly sequential;
// at most one target is in flight per request.
type Orchestrator struct {
	resolver       *TargetResolver
	caller         ChatCaller
	events         EventPublisher
	attemptTimeout time.Duration
}

// NewOrchestrator creates a new completion orchestrator (DI constructor).
func NewOrchestrator(
	resolver *TargetResolver,
	caller ChatCaller,
	events EventPublisher,
	attemptTimeout time.Duration,
) *Orchestrator {
	return &Orchestrator{
		resolver:       resolver,
		caller:         caller,
		events:         events,
		attemptTimeout: attemptTimeout,
	}
}

// Complete executes a buffered completion request across the target cascade.
func (o *Orchestrator) Complete(ctx context.Context, req *CompletionRequest) (*CompletionResponse, error) {
	if req == nil {
		return nil, errors.New("request cannot be nil")
	}

	var resp *CompletionResponse
	err := o.cascade(ctx, req, func(ctx context.Context, target BackendTarget, req *CompletionRequest) error {
		attemptCtx := ctx
		if o.attemptTimeout > 0 {
			var cancel context.CancelFunc
			attemptCtx, cancel = context.WithTimeout(ctx, o.attemptTimeout)
			defer cancel()
		}

		var callErr error
		resp, callErr = o.caller.Complete(attemptCtx, target, req)
		return callErr
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

// Stream executes a streaming completion request across the target cascade.
// Failover covers only the connection attempt; once a stream is established,
// mid-stream errors are delivered in-band on the returned channel.
func (o *Orchestrator) Stream(ctx context.Context, req *CompletionRequest) (<-chan StreamChunk, error) {
	if req == nil {
		return nil, errors.New("request cannot be nil")
	}

	var chunks <-chan StreamChunk
	err := o.cascade(ctx, req, func(ctx context.Context, target BackendTarget, req *CompletionRequest) error {
		var callErr error
		chunks, callErr = o.caller.Stream(ctx, target, req)
		return callErr
	})
	if err != nil {
		return nil, err
	}
	return chunks, nil
}

// attemptFunc performs one call against one target and reports its error.
type attemptFunc func(ctx context.Context, target BackendTarget, req *CompletionRequest) error

// cascade runs the fallback state machine over the resolved targets.
//
// Classification rules:
//   - 5xx from the primary is retryable: the error is recorded and the next
//     target is tried; with no next target the recorded error is final.
//   - 4xx stops the cascade, except the one safety-filter case: a matching
//     error message on the primary for a safety-prone model triggers a single
//     reissue against the same target with the substitute model. The
//     substitute's own failure surfaces the original error.
//   - A response embedding an error inside a 2xx status, or a malformed 2xx
//     body, is fatal.
//   - Network-level errors are retryable while a further target exists.
//   - Any non-primary failure is fatal; if a retryable error was already
//     recorded, that first error is what surfaces.
func (o *Orchestrator) cascade(ctx context.Context, req *CompletionRequest, attempt attemptFunc) error {
	targets := o.resolver.ResolveTargets(req.Model)
	if len(targets) == 0 {
		return ErrNoTargets
	}

	var firstRetryable error

	for i, target := range targets {
		ctx := observability.WithTarget(ctx, target.Name)
		logger := observability.FromContext(ctx)
		hasNext := i < len(targets)-1

		o.publish(ctx, "orchestrator.attempt", map[string]any{
			"target": target.Name,
			"model":  req.Model,
		})

		err := attempt(ctx, target, req)
		if err == nil {
			return nil
		}

		if target.Name != TargetPrimary {
			logger.Error("fallback target failed", observability.Error(err))
			if firstRetryable != nil {
				// Preserve the original diagnostic from the primary.
				return firstRetryable
			}
			return err
		}

		var upstream *UpstreamError
		switch {
		case errors.As(err, &upstream) && upstream.ServerError():
			logger.Warn("primary target unhealthy",
				observability.Int("status", upstream.StatusCode))
			o.publish(ctx, "orchestrator.retryable_failure", map[string]any{
				"target": target.Name,
				"status": upstream.StatusCode,
			})
			if firstRetryable == nil {
				firstRetryable = err
			}
			if hasNext {
				continue
			}
			return err

		case errors.As(err, &upstream) && upstream.ClientError():
			if IsSafetyFiltered(upstream.Message) && SafetyProne(req.Model) {
				logger.Warn("safety filter triggered, substituting model",
					observability.String("substitute", SafetyFallbackModel))
				o.publish(ctx, "orchestrator.safety_fallback", map[string]any{
					"target":     target.Name,
					"model":      req.Model,
					"substitute": SafetyFallbackModel,
				})
				if subErr := attempt(ctx, target, req.WithModel(SafetyFallbackModel)); subErr == nil {
					return nil
				}
				// The substitute attempt is never surfaced to the caller.
				return err
			}
			logger.Error("request rejected by primary target", observability.Error(err))
			return err

		case errors.As(err, &upstream) || errors.Is(err, ErrMalformedResponse):
			// Embedded error inside 2xx, or a 2xx body missing the expected
			// content path. Both stop the cascade.
			logger.Error("unusable success response", observability.Error(err))
			return err

		default:
			// Network-level failure: DNS, timeout, connection reset.
			logger.Warn("primary target unreachable", observability.Error(err))
			if firstRetryable == nil {
				firstRetryable = err
			}
			if hasNext {
				continue
			}
			return err
		}
	}

	return firstRetryable
}

func (o *Orchestrator) publish(ctx context.Context, eventType string, data map[string]any) {
	if o.events == nil {
		return
	}
	o.events.Publish(ctx, eventType, data)
}
