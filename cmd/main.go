package main

import (
	"context"
	"log"
	"time"

	"go.uber.org/dig"
	"go.uber.org/zap"

	cacheredis "github.com/nvoss/hearth/internal/cache/redis"
	"github.com/nvoss/hearth/internal/config"
	"github.com/nvoss/hearth/internal/domain"
	"github.com/nvoss/hearth/internal/http"
	"github.com/nvoss/hearth/internal/http/middleware"
	"github.com/nvoss/hearth/internal/observability"
	"github.com/nvoss/hearth/internal/provider/gateway"
	"github.com/nvoss/hearth/internal/provider/pollinations"
	"github.com/nvoss/hearth/internal/provider/replicate"
)

func main() {
	container := buildContainer()

	err := container.Invoke(func(server *http.Server) {
		if err := server.Start(); err != nil {
			log.Fatalf("Server failed to start: %v", err)
		}
	})
	if err != nil {
		log.Fatalf("Failed to start application: %v", err)
	}
}

func buildContainer() *dig.Container {
	container := dig.New()

	// Configuration
	if err := container.Provide(config.Load); err != nil {
		log.Fatalf("Failed to provide config: %v", err)
	}
	if err := container.Provide(config.ParseDependenciesConfig); err != nil {
		log.Fatalf("Failed to provide config dependencies: %v", err)
	}

	// Observability
	if err := container.Provide(observability.InitLogger); err != nil {
		log.Fatalf("Failed to provide logger: %v", err)
	}
	// Force logger construction so the global instance exists before any
	// request handling.
	if err := container.Invoke(func(*zap.Logger) {}); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	if err := container.Provide(func() domain.EventPublisher {
		return observability.NewEventBus()
	}); err != nil {
		log.Fatalf("Failed to provide event bus: %v", err)
	}

	// Credentials
	if err := container.Provide(func(cfg *config.Config) domain.CredentialProvider {
		return config.NewSecrets(cfg)
	}); err != nil {
		log.Fatalf("Failed to provide credentials: %v", err)
	}

	// Target resolution and orchestration
	if err := container.Provide(func(cfg *config.Config, creds domain.CredentialProvider) *domain.TargetResolver {
		return domain.NewTargetResolver(creds, domain.ResolverConfig{
			PrimaryBaseURL: cfg.Gateway.PrimaryBaseURL,
			LegacyBaseURL:  cfg.Gateway.LegacyBaseURL,
		})
	}); err != nil {
		log.Fatalf("Failed to provide target resolver: %v", err)
	}
	if err := container.Provide(func(cfg *config.Config) domain.ChatCaller {
		return gateway.NewClient(gateway.Config{
			Timeout:       cfg.Gateway.AttemptTimeout,
			HeaderTimeout: cfg.Gateway.HeaderTimeout,
		})
	}); err != nil {
		log.Fatalf("Failed to provide gateway client: %v", err)
	}
	if err := container.Provide(func(
		cfg *config.Config,
		resolver *domain.TargetResolver,
		caller domain.ChatCaller,
		events domain.EventPublisher,
	) *domain.Orchestrator {
		return domain.NewOrchestrator(
			resolver,
			caller,
			events,
			time.Duration(cfg.Gateway.AttemptTimeout)*time.Second,
		)
	}); err != nil {
		log.Fatalf("Failed to provide orchestrator: %v", err)
	}

	// Media generation
	if err := container.Provide(func(cfg *config.Config) domain.MediaGenerator {
		return pollinations.NewClient(pollinations.Config{
			BaseURL: cfg.Image.BaseURL,
			Timeout: cfg.Image.Timeout,
			APIKey:  cfg.Gateway.PrimaryAPIKey,
		})
	}); err != nil {
		log.Fatalf("Failed to provide image client: %v", err)
	}
	if err := container.Provide(func(cfg *config.Config) domain.MediaCache {
		if !cfg.Cache.Enabled {
			return nil
		}
		cache, err := cacheredis.NewMediaCache(context.Background(), cacheredis.Config{
			Addr:     cfg.Cache.RedisAddr,
			Password: cfg.Cache.RedisPassword,
			DB:       cfg.Cache.RedisDB,
		})
		if err != nil {
			log.Printf("media cache unavailable, continuing without it: %v", err)
			return nil
		}
		return cache
	}); err != nil {
		log.Fatalf("Failed to provide media cache: %v", err)
	}
	if err := container.Provide(func(cfg *config.Config, generator domain.MediaGenerator, cache domain.MediaCache) *domain.MediaService {
		return domain.NewMediaService(generator, cache, time.Duration(cfg.Cache.TTLHours)*time.Hour)
	}); err != nil {
		log.Fatalf("Failed to provide media service: %v", err)
	}

	// Prediction service
	if err := container.Provide(func(cfg *config.Config) domain.PredictionRunner {
		return replicate.NewClient(replicate.Config{
			BaseURL: cfg.Replicate.BaseURL,
			Token:   cfg.Replicate.APIToken,
			Timeout: cfg.Replicate.Timeout,
		})
	}); err != nil {
		log.Fatalf("Failed to provide prediction client: %v", err)
	}

	// HTTP Layer
	if err := container.Provide(middleware.BuildMiddlewareChain); err != nil {
		log.Fatalf("Failed to provide middleware chain: %v", err)
	}
	if err := container.Provide(http.NewHandler); err != nil {
		log.Fatalf("Failed to provide HTTP handler: %v", err)
	}
	if err := container.Provide(http.NewServer); err != nil {
		log.Fatalf("Failed to provide HTTP server: %v", err)
	}

	return container
}
