package cmd

import (
	"context"
	"fmt"

	"github.com/venturely/venturely/internal/agent"
	"github.com/venturely/venturely/internal/config"
	"github.com/venturely/venturely/internal/conversation"
	"github.com/venturely/venturely/internal/log"
	"github.com/venturely/venturely/internal/observability"
	"github.com/venturely/venturely/internal/session"
	"github.com/venturely/venturely/internal/storage"
	"github.com/venturely/venturely/internal/tools"
)

// runtime wires the full pipeline: config, logging, local storage,
// session identity, transport, conversation store, and tool registry.
type runtime struct {
	cfg      *config.Config
	logger   log.Logger
	client   *agent.Client
	store    *conversation.Store
	registry *tools.Registry

	// shutdown flushes tracing; call on exit.
	shutdown func(context.Context) error
}

// newRuntime loads configuration and constructs every component.
func newRuntime(ctx context.Context) (*runtime, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	level, err := cfg.SlogLevel()
	if err != nil {
		return nil, err
	}
	logger := log.New(log.Config{Level: level, JSON: cfg.LogJSON})

	shutdown := func(context.Context) error { return nil }
	if cfg.TracingEnabled {
		shutdown, err = observability.Setup(ctx, observability.Config{
			Endpoint:    cfg.OTLPEndpoint,
			Environment: cfg.Environment,
			ServiceName: cfg.ServiceName,
		}, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to set up tracing: %w", err)
		}
	}

	store, err := storage.NewFile(cfg.StorageDir, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to open local storage: %w", err)
	}

	sessions := session.NewProvider(store, logger)

	client, err := agent.NewClient(cfg, sessions, logger)
	if err != nil {
		return nil, err
	}

	conv, err := conversation.New(client, store, logger)
	if err != nil {
		return nil, err
	}

	registry, err := tools.NewRegistry(logger)
	if err != nil {
		return nil, fmt.Errorf("failed to build tool registry: %w", err)
	}

	return &runtime{
		cfg:      cfg,
		logger:   logger,
		client:   client,
		store:    conv,
		registry: registry,
		shutdown: shutdown,
	}, nil
}

// close disposes the conversation store and flushes tracing.
func (r *runtime) close(ctx context.Context) {
	if err := r.store.Close(); err != nil {
		r.logger.Warn("failed to close conversation store", "error", err)
	}
	if err := r.shutdown(ctx); err != nil {
		r.logger.Warn("failed to flush traces", "error", err)
	}
}
