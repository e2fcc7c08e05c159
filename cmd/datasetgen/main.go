package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/mitraarka27/Meteo-Chat/dataset"
	"github.com/mitraarka27/Meteo-Chat/pkg/logging"
)

func main() {
	var (
		mcpBase     = flag.String("mcp", "http://127.0.0.1:8081", "MCP server base URL")
		outPath     = flag.String("out", "data/writer_train.jsonl", "output JSONL path")
		maxExamples = flag.Int("max", 1000, "maximum number of examples to generate")
		concurrency = flag.Int("concurrency", 4, "concurrent plan/execute requests")
		shuffle     = flag.Bool("shuffle", true, "shuffle the place x bundle x mode sweep")
		seed        = flag.Int64("seed", 13, "shuffle seed")
		logLevel    = flag.String("log-level", "info", "log level")
	)
	flag.Parse()

	logger, err := logging.New(logging.Config{Level: *logLevel, Format: "console"})
	if err != nil {
		log.Fatalf("failed to create logger: %v", err)
	}
	defer logger.Sync()

	w, err := dataset.Create(*outPath)
	if err != nil {
		logger.Fatal("open output", zap.String("path", *outPath), zap.Error(err))
	}
	defer w.Close()

	b := dataset.NewBuilder(*mcpBase, w, logger)
	b.MaxExamples = *maxExamples
	b.Concurrency = *concurrency
	b.Shuffle = *shuffle
	b.Seed = *seed

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	written, err := b.Run(ctx)
	if err != nil {
		logger.Fatal("sweep failed", zap.Int("written", written), zap.Error(err))
	}
	logger.Info("dataset written", zap.String("path", *outPath), zap.Int("records", written))
}
