package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Veraticus/spicewatch/internal/common"
	"github.com/Veraticus/spicewatch/internal/config"
	"github.com/Veraticus/spicewatch/internal/dedupe"
	"github.com/Veraticus/spicewatch/internal/enrich"
	"github.com/Veraticus/spicewatch/internal/extract"
	"github.com/Veraticus/spicewatch/internal/filter"
	"github.com/Veraticus/spicewatch/internal/llm"
	"github.com/Veraticus/spicewatch/internal/pipeline"
	"github.com/Veraticus/spicewatch/internal/sink"
	"github.com/Veraticus/spicewatch/internal/storage"
	"github.com/Veraticus/spicewatch/internal/submit"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/viper"
)

// app holds every long-lived component a command needs.
type app struct {
	cfg      config.Config
	logger   *slog.Logger
	store    *storage.SQLiteStorage
	llm      *llm.Client
	dedupe   *dedupe.Deduplicator
	events   *sink.MemorySink
	registry *prometheus.Registry
	pipeline *pipeline.Pipeline
}

func loadConfig() (config.Config, error) {
	cfg, err := config.Load(viper.GetViper())
	if err != nil {
		return config.Config{}, common.NewUserError("Invalid configuration", err)
	}
	return cfg, nil
}

// openStorage opens and migrates the configured database.
func openStorage(ctx context.Context, cfg config.Config) (*storage.SQLiteStorage, error) {
	store, err := storage.NewSQLiteStorage(cfg.Storage.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := store.Migrate(ctx); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	return store, nil
}

// buildApp wires the pipeline from configuration. Status events go to the
// in-memory ring, the log and every extra sink.
func buildApp(ctx context.Context, cfg config.Config, extra ...sink.EventSink) (*app, error) {
	if err := cfg.RequireEndpoint(); err != nil {
		return nil, common.NewUserError("Set submit.endpoint (or SPICEWATCH_SUBMIT_ENDPOINT) to the scoring service URL", err)
	}

	logger := slog.Default()
	a := &app{
		cfg:      cfg,
		logger:   logger,
		events:   sink.NewMemorySink(sink.DefaultMemoryCapacity),
		registry: prometheus.NewRegistry(),
	}
	a.registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	store, err := openStorage(ctx, cfg)
	if err != nil {
		return nil, err
	}
	a.store = store

	f, err := filter.New(cfg.Filter.Policy, cfg.Filter.Sources)
	if err != nil {
		a.Close()
		return nil, err
	}

	var completer llm.Completer
	if cfg.Extract.Strategy == config.StrategyLanguageModel {
		client, clientErr := llm.NewClient(llm.Config{
			Provider:    cfg.LLM.Provider,
			APIKey:      cfg.LLM.APIKey,
			Model:       cfg.LLM.Model,
			BaseURL:     cfg.LLM.BaseURL,
			Temperature: cfg.LLM.Temperature,
			MaxTokens:   cfg.LLM.MaxTokens,
			Timeout:     cfg.LLM.Timeout,
			CacheTTL:    cfg.LLM.CacheTTL,
			RateLimit:   cfg.LLM.RateLimit,
		}, logger)
		if clientErr != nil {
			a.Close()
			return nil, common.NewUserError("Cannot create the language model client", clientErr)
		}
		a.llm = client
		completer = client
	}

	extractor, err := extract.New(cfg.Extract.Strategy, completer, logger)
	if err != nil {
		a.Close()
		return nil, err
	}

	var enrichOpts []enrich.Option
	if cfg.Location.Enabled {
		enrichOpts = append(enrichOpts, enrich.WithLocation(enrich.NewStaticLocation(cfg.Location.Latitude, cfg.Location.Longitude)))
	}

	submitter, err := submit.New(submit.Config{
		Endpoint: cfg.Submit.Endpoint,
		Token:    cfg.Submit.Token,
		Timeout:  cfg.Submit.Timeout,
	}, logger)
	if err != nil {
		a.Close()
		return nil, err
	}

	a.dedupe = dedupe.New(dedupe.WithSweepBatch(cfg.Dedupe.SweepBatch))
	a.dedupe.Start(ctx)

	sinks := sink.Fanout{a.events, sink.NewLogSink(logger)}
	sinks = append(sinks, extra...)

	a.pipeline, err = pipeline.New(pipeline.Deps{
		Filter:    f,
		Extractor: extractor,
		Dedupe:    a.dedupe,
		Enricher:  enrich.New(store, logger, enrichOpts...),
		Submitter: submitter,
		Sink:      sinks,
		Journal:   store,
		Metrics:   pipeline.NewMetrics(a.registry),
		Logger:    logger,
	}, pipeline.Options{
		Workers:     cfg.Pipeline.Workers,
		DebugEvents: cfg.Filter.DebugEvents,
	})
	if err != nil {
		a.Close()
		return nil, err
	}

	logger.Debug("pipeline ready",
		"policy", f.Policy(),
		"extractor", extractor.Name(),
		"endpoint", cfg.Submit.Endpoint,
		"workers", cfg.Pipeline.Workers)
	return a, nil
}

// Close drains the pipeline and releases resources.
func (a *app) Close() {
	if a.pipeline != nil {
		a.pipeline.Wait()
	}
	if a.llm != nil {
		a.llm.Close()
	}
	if a.store != nil {
		if err := a.store.Close(); err != nil {
			a.logger.Warn("failed to close database", "error", err)
		}
	}
}
