package main

import (
	"context"
	"log"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/mitraarka27/Meteo-Chat/core"
	"github.com/mitraarka27/Meteo-Chat/figures"
	"github.com/mitraarka27/Meteo-Chat/llm"
	"github.com/mitraarka27/Meteo-Chat/pkg/cache"
	"github.com/mitraarka27/Meteo-Chat/pkg/logging"
	"github.com/mitraarka27/Meteo-Chat/pkg/metrics"
	"github.com/mitraarka27/Meteo-Chat/pkg/tracing"
	"github.com/mitraarka27/Meteo-Chat/service"
	"github.com/mitraarka27/Meteo-Chat/writer"
)

func main() {
	cfg := service.LoadConfig()

	logger, err := logging.New(logging.Config{Level: cfg.LogLevel, Format: "json"})
	if err != nil {
		log.Fatalf("failed to create logger: %v", err)
	}
	defer logger.Sync()

	reg := prometheus.NewRegistry()
	m := metrics.New(reg)

	answerCache, err := cache.New(cfg.CacheSize, cfg.CacheTTL)
	if err != nil {
		log.Fatalf("failed to create cache: %v", err)
	}

	var tracer *tracing.Tracer
	if cfg.TracingEnabled {
		tracer, err = tracing.New(tracing.Config{
			ServiceName:    "writerd",
			ServiceVersion: "v1",
			JaegerEndpoint: cfg.JaegerEndpoint,
			Environment:    "production",
		})
		if err != nil {
			logger.Warn("tracing disabled", zap.Error(err))
		} else {
			defer tracer.Shutdown(context.Background())
		}
	}

	var renderer core.FigureRenderer = figures.NopRenderer{}
	if cfg.FiguresEnabled {
		renderer = figures.NewRenderer()
	}

	det := &writer.Deterministic{Renderer: renderer, Logger: logger, Metrics: m}
	gen := &writer.Generative{
		Gen:      buildGenerator(cfg, logger, m),
		Fallback: det,
		Logger:   logger,
		Metrics:  m,
	}

	svc := service.New(cfg, logger, m, answerCache, tracer, det, gen)

	logger.Info("writerd starting",
		zap.String("port", cfg.Port),
		zap.String("strategy", cfg.Strategy),
		zap.String("llm_mode", cfg.LLMMode),
	)
	log.Fatal(http.ListenAndServe(":"+cfg.Port, svc.Routes(reg)))
}

func buildGenerator(cfg *service.Config, logger *zap.Logger, m *metrics.Metrics) core.TextGenerator {
	switch cfg.LLMMode {
	case "http":
		return llm.NewHTTPGenerator(cfg.LLMBaseURL,
			llm.WithLogger(logger),
			llm.WithMetrics(m),
			llm.WithTokenBudget(cfg.TokenBudget),
		)
	case "openai":
		return llm.NewOpenAIGenerator(cfg.OpenAIBaseURL, cfg.OpenAIAPIKey, cfg.Model, m)
	default:
		return llm.NewMock()
	}
}
