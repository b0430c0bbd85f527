// Command aggregate counts users and sums their values across JSON files.
//
// Usage:
//
//	aggregate [-manifest paths.json] [file.json ...]
//
// The manifest, when given, must hold a JSON array of file paths ("-" reads it
// from stdin). Results are printed to stdout as JSON. Files that fail are
// listed under "errors" and do not change the exit code.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/dtroode/userintake/internal/config"
	"github.com/dtroode/userintake/internal/logger"
	"github.com/dtroode/userintake/internal/model"
	"github.com/dtroode/userintake/internal/service"
)

const exitUsage = 2

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, os.Interrupt)
	defer stop()

	cfg, err := config.NewConfig()
	if err != nil {
		log.Fatalf("failed to parse config: %v", err)
	}
	// stdout carries the result document, logs go to stderr
	lg := logger.New(cfg.LogLevel, logger.WithFormat(cfg.LogFormat), logger.WithWriter(os.Stderr))

	os.Exit(run(ctx, os.Args[1:], os.Stdin, os.Stdout, lg, cfg.Batch.MaxFileBytes))
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout io.Writer, lg *logger.Logger, maxFileBytes int64) int {
	fs := flag.NewFlagSet("aggregate", flag.ContinueOnError)
	manifest := fs.String("manifest", "", "JSON file with an array of paths to process, - for stdin")
	if err := fs.Parse(args); err != nil {
		return exitUsage
	}

	agg := service.NewAggregator(lg, maxFileBytes)

	if *manifest == "" {
		return writeResult(stdout, lg, agg.ProcessUserFiles(ctx, fs.Args()))
	}

	if fs.NArg() > 0 {
		lg.Error("paths can not be combined with -manifest")
		return exitUsage
	}

	result, err := processManifest(ctx, agg, *manifest, stdin)
	if err != nil {
		lg.Error("failed to process manifest", "manifest", *manifest, "error", err)
		return exitUsage
	}

	return writeResult(stdout, lg, result)
}

func processManifest(ctx context.Context, agg model.BatchProcessor, path string, stdin io.Reader) (model.BatchResult, error) {
	if path == "-" {
		return agg.ProcessManifest(ctx, stdin)
	}

	f, err := os.Open(path)
	if err != nil {
		return model.BatchResult{}, fmt.Errorf("failed to open manifest: %w", err)
	}
	defer f.Close()

	return agg.ProcessManifest(ctx, f)
}

func writeResult(w io.Writer, lg *logger.Logger, result model.BatchResult) int {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(result); err != nil {
		lg.Error("failed to write result", "error", err)
		return 1
	}
	return 0
}
