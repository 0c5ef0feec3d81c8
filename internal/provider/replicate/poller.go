package replicate

import (
	"context"
	"fmt"
	"time"

	"github.com/nvoss/hearth/internal/domain"
	"github.com/nvoss/hearth/internal/observability"
)

// JobFetcher retrieves the current snapshot of a generation job.
type JobFetcher interface {
	FetchJob(ctx context.Context, job *domain.GenerationJob) (*domain.GenerationJob, error)
}

// PollPolicy bounds a polling loop: a fixed interval between fetches and an
// attempt budget.
type PollPolicy struct {
	Interval    time.Duration
	MaxAttempts int
}

// Polling classes per workload. Video generation runs for minutes, so it
// polls slower with a larger budget.
var (
	videoPolicy   = PollPolicy{Interval: 4 * time.Second, MaxAttempts: 150}
	defaultPolicy = PollPolicy{Interval: 2 * time.Second, MaxAttempts: 60}
)

// PolicyFor returns the polling policy for a logical model key.
func PolicyFor(modelKey string) PollPolicy {
	if domain.IsVideoModel(modelKey) {
		return videoPolicy
	}
	return defaultPolicy
}

// Poller drives a job to a terminal state.
type Poller struct {
	fetcher JobFetcher
}

// NewPoller creates a new job poller.
func NewPoller(fetcher JobFetcher) *Poller {
	return &Poller{fetcher: fetcher}
}

// PollUntilTerminal fetches the job status on a fixed interval until it is
// terminal or the attempt budget is exhausted. Each iteration sleeps first,
// then replaces the in-memory snapshot with the fetched one. A failing poll
// endpoint is an inability to continue, not a job failure; an exhausted
// budget is reported as ErrJobTimeout, distinct from a provider-reported
// failure.
func (p *Poller) PollUntilTerminal(
	ctx context.Context,
	job *domain.GenerationJob,
	policy PollPolicy,
) (*domain.GenerationJob, error) {
	logger := observability.FromContext(observability.WithJobID(ctx, job.ID))

	for attempt := 1; attempt <= policy.MaxAttempts; attempt++ {
		select {
		case <-ctx.Done():
			return job, ctx.Err()
		case <-time.After(policy.Interval):
		}

		next, err := p.fetcher.FetchJob(ctx, job)
		if err != nil {
			return job, fmt.Errorf("polling failed: %w", err)
		}
		job = next

		if job.Status.Terminal() {
			logger.Info("job reached terminal state",
				observability.String("status", string(job.Status)),
				observability.Int("polls", attempt))
			return job, nil
		}
	}

	logger.Warn("job polling budget exhausted",
		observability.Int("attempts", policy.MaxAttempts))
	return job, domain.ErrJobTimeout
}
