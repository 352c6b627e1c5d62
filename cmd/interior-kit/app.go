package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"google.golang.org/genai"

	"github.com/shouni/gemini-interior-kit/pkg/adapters"
	"github.com/shouni/gemini-interior-kit/pkg/config"
	"github.com/shouni/gemini-interior-kit/pkg/generator"
	"github.com/shouni/gemini-interior-kit/pkg/httpclient"
	"github.com/shouni/gemini-interior-kit/pkg/usage"
)

// app はサブコマンド共通の依存関係です。
type app struct {
	cfg      config.Config
	logger   *slog.Logger
	registry *prometheus.Registry
	stats    *usage.Stats
	core     *adapters.GeminiImageCore
	pipeline *generator.Pipeline
}

func newApp(ctx context.Context, cmd *cobra.Command) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if lvl, _ := cmd.Flags().GetString("log-level"); strings.TrimSpace(lvl) != "" {
		cfg.LogLevel = strings.ToLower(strings.TrimSpace(lvl))
	}

	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: cfg.SlogLevel(),
	}))
	slog.SetDefault(logger)

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.GeminiAPIKey,
		Backend: genai.BackendGeminiAPI,
		HTTPClient: httpclient.New(httpclient.Options{
			PreferIPv4: cfg.PreferIPv4,
			Timeout:    cfg.HTTPTimeout,
		}),
		HTTPOptions: genai.HTTPOptions{
			BaseURL:    cfg.GeminiBaseURL,
			APIVersion: cfg.GeminiAPIVersion,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("genaiクライアントの初期化に失敗しました: %w", err)
	}

	core, err := adapters.NewGeminiImageCore(client.Models,
		adapters.WithMaxDimension(cfg.MaxImageDimension),
		adapters.WithLogger(logger),
	)
	if err != nil {
		return nil, err
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	stats, err := usage.NewStats(usage.WithRegisterer(registry))
	if err != nil {
		return nil, fmt.Errorf("利用集計の初期化に失敗しました: %w", err)
	}

	pipeline, err := generator.NewPipeline(core, stats,
		generator.WithTextImagePriority(cfg.TextImageModels),
		generator.WithImagenPriority(cfg.ImagenModels),
		generator.WithTextPriority(cfg.TextModels),
		generator.WithSampleCount(cfg.SampleCount),
		generator.WithLogger(logger),
	)
	if err != nil {
		return nil, err
	}

	return &app{
		cfg:      cfg,
		logger:   logger,
		registry: registry,
		stats:    stats,
		core:     core,
		pipeline: pipeline,
	}, nil
}
