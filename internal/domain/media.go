package domain

import (
	"context"
	"errors"
	"time"

	"github.com/nvoss/hearth/internal/observability"
)

// MediaService wraps a media generator with an optional result cache.
type MediaService struct {
	generator MediaGenerator
	cache     MediaCache
	cacheTTL  time.Duration
}

// NewMediaService creates a new media service (DI constructor). A nil cache
// disables caching entirely.
func NewMediaService(generator MediaGenerator, cache MediaCache, cacheTTL time.Duration) *MediaService {
	return &MediaService{
		generator: generator,
		cache:     cache,
		cacheTTL:  cacheTTL,
	}
}

// Generate produces a media result, serving from cache when possible.
// Cache failures are tolerated: the request proceeds to the generator.
func (s *MediaService) Generate(ctx context.Context, req *MediaRequest) (*MediaResult, error) {
	if req == nil {
		return nil, errors.New("request cannot be nil")
	}
	if req.Prompt == "" {
		return nil, errors.New("prompt cannot be empty")
	}

	logger := observability.FromContext(observability.WithModel(ctx, req.Model))

	if s.cache != nil {
		cached, err := s.cache.Get(ctx, req)
		if err != nil && !errors.Is(err, ErrCacheMiss) {
			logger.Warn("cache get failed, continuing without cache",
				observability.Error(err))
		}
		if cached != nil {
			logger.Info("media cache hit")
			cached.Cached = true
			return cached, nil
		}
	}

	result, err := s.generator.Generate(ctx, req)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if setErr := s.cache.Set(ctx, req, result, s.cacheTTL); setErr != nil {
			logger.Warn("failed to store media result in cache",
				observability.Error(setErr))
		}
	}

	return result, nil
}
