// Package app wires the registry, adapters, front-ends and executor into a
// runnable application instance.
package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/blockflow/blockflow/internal/ctxlog"
	"github.com/blockflow/blockflow/internal/metrics"
	"github.com/blockflow/blockflow/internal/registry"
	"github.com/blockflow/blockflow/modules/engineblocks"
	"github.com/blockflow/blockflow/modules/kvblocks"
	"github.com/blockflow/blockflow/modules/mediablocks"
	"github.com/blockflow/blockflow/modules/queueblocks"
	"github.com/blockflow/blockflow/modules/webblocks"
)

// App encapsulates the application's dependencies, configuration, and
// lifecycle.
type App struct {
	outW     io.Writer
	logger   *slog.Logger
	config   *Config
	registry *registry.Registry
	adapters map[string]any
	metrics  *metrics.Metrics
	promReg  *prometheus.Registry
	closers  []func() error
}

// New constructs a fully initialized App: isolated logger, sealed registry,
// and the adapters the effectful blocks need. External adapters are only
// dialed when the config asks for them.
func New(ctx context.Context, outW io.Writer, cfg *Config, providers ...registry.Provider) (*App, error) {
	logger := newLogger(cfg.LogLevel, cfg.LogFormat, outW)
	ctx = ctxlog.WithLogger(ctx, logger)
	logger.Debug("Logger configured successfully.")

	reg := registry.New()
	if len(providers) == 0 {
		providers = coreProviders
	}
	for _, p := range providers {
		if err := p.Register(reg); err != nil {
			return nil, fmt.Errorf("registering blocks: %w", err)
		}
	}
	reg.Seal()
	logger.Debug("All block providers registered.", "blocks", len(reg.IDs()))

	a := &App{
		outW:     outW,
		logger:   logger,
		config:   cfg,
		registry: reg,
		promReg:  prometheus.NewRegistry(),
	}
	a.metrics = metrics.New(a.promReg)

	if err := a.buildAdapters(ctx); err != nil {
		a.Close()
		return nil, err
	}
	return a, nil
}

// buildAdapters assembles the adapter map effectful blocks resolve against.
func (a *App) buildAdapters(ctx context.Context) error {
	adapters := map[string]any{
		engineblocks.App: engineblocks.NewRecordingEngine(),
		mediablocks.App:  mediablocks.NewFakeTranscoder(),
		webblocks.App:    http.DefaultClient,
	}

	if a.config.KVDSN != "" {
		store, err := kvblocks.NewPGStore(ctx, a.config.KVDSN)
		if err != nil {
			return fmt.Errorf("building kv adapter: %w", err)
		}
		a.closers = append(a.closers, func() error { store.Close(); return nil })
		adapters[kvblocks.App] = store
		a.logger.Debug("KV adapter backed by postgres.")
	} else {
		adapters[kvblocks.App] = kvblocks.NewMemoryStore()
	}

	if a.config.AMQPURL != "" {
		pub, err := queueblocks.NewAMQPPublisher(a.config.AMQPURL)
		if err != nil {
			return fmt.Errorf("building queue adapter: %w", err)
		}
		a.closers = append(a.closers, pub.Close)
		adapters[queueblocks.App] = pub
		a.logger.Debug("Queue adapter backed by amqp broker.")
	} else {
		adapters[queueblocks.App] = queueblocks.NewMemoryPublisher()
	}

	a.adapters = adapters
	return nil
}

// Registry returns the application's registry. This is primarily for
// testing.
func (a *App) Registry() *registry.Registry {
	return a.registry
}

// Close releases every external adapter the app dialed.
func (a *App) Close() {
	for _, c := range a.closers {
		if err := c(); err != nil {
			a.logger.Warn("Adapter close failed.", "error", err)
		}
	}
	a.closers = nil
}
