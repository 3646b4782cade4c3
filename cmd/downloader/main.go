package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/quantlayer/ivol-data/internal/archive"
	"github.com/quantlayer/ivol-data/internal/chain"
	"github.com/quantlayer/ivol-data/internal/config"
	"github.com/quantlayer/ivol-data/internal/download"
	"github.com/quantlayer/ivol-data/internal/ivol"
	"github.com/quantlayer/ivol-data/internal/mapper"
	"github.com/quantlayer/ivol-data/internal/model"
	"github.com/quantlayer/ivol-data/internal/provider"
	"github.com/quantlayer/ivol-data/internal/refdata"
	"github.com/quantlayer/ivol-data/internal/retry"
	"github.com/quantlayer/ivol-data/internal/version"
)

const dateLayout = "2006-01-02"

func main() {
	configPath := flag.String("config", "configs/downloader.local.yaml", "path to config file")
	ticker := flag.String("symbol", "", "underlying ticker (e.g. SPX)")
	secType := flag.String("type", "index", "underlying security type: equity or index")
	canonical := flag.Bool("expand", true, "expand the option root to its full contract set")
	startStr := flag.String("start", "", "range start, inclusive (YYYY-MM-DD)")
	endStr := flag.String("end", "", "range end (YYYY-MM-DD)")
	tick := flag.String("tick", "trade", "tick type: trade or openinterest")
	dropZero := flag.Bool("drop-zero-volume", false, "drop merged bars with zero volume")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	logger.Info("starting downloader",
		"version", version.Version,
		"commit", version.Commit,
		"config", *configPath,
	)

	cfg, err := config.LoadAndValidate(*configPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// Rebuild the logger at the configured level.
	logger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel(cfg.Logging.Level),
	}))
	slog.SetDefault(logger)

	req, err := buildRequest(*ticker, *secType, *canonical, *startStr, *endStr, *tick)
	if err != nil {
		logger.Error("invalid arguments", "error", err)
		flag.Usage()
		os.Exit(2)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	client := ivol.NewClient(
		cfg.API.BaseURL,
		cfg.API.APIKey,
		ivol.WithTimeout(cfg.API.Timeout),
		ivol.WithRateLimit(cfg.API.RateLimit.Requests, cfg.API.RateLimit.Window),
		ivol.WithLogger(logger),
	)
	defer client.Close()

	policy := retry.Policy{
		MaxAttempts: cfg.API.MaxRetries,
		Delay:       cfg.API.RetryDelay,
		Logger:      logger,
	}

	resolver := refdata.NewResolver(refdata.Config{
		BatchSize:   cfg.Downloader.BatchSize,
		Parallelism: cfg.Downloader.BatchParallelism,
	}, client, policy, logger)

	symMapper := mapper.NewMapper(mapper.NewCache(), mapper.NewCache(), logger)
	symMapper.BindResolver(resolver)

	chains := chain.NewFetcher(client, symMapper, policy, logger)

	prov := provider.NewProvider()
	err = prov.Initialize(provider.Config{
		Series:         client,
		IDs:            symMapper,
		Chains:         chains,
		Retry:          policy,
		Logger:         logger,
		DropZeroVolume: *dropZero,
	})
	if err != nil {
		logger.Error("failed to initialize provider", "error", err)
		os.Exit(1)
	}

	var archiver download.Archiver
	if cfg.Archive.Enabled {
		writer, werr := archive.NewWriter(cfg.Archive.Dir, cfg.Archive.Format, logger)
		if werr != nil {
			logger.Error("failed to set up archive", "error", werr)
			os.Exit(1)
		}
		archiver = writer
		logger.Info("archiving enabled", "dir", cfg.Archive.Dir, "format", cfg.Archive.Format)
	}

	dl := download.NewDownloader(download.Config{
		ContractParallelism: cfg.Downloader.ContractParallelism,
	}, prov, archiver, logger)

	result, err := dl.Download(ctx, req)
	if err != nil {
		logger.Error("download failed", "error", err)
		os.Exit(1)
	}

	logger.Info("downloader finished",
		"symbol", req.Symbol.String(),
		"bars", len(result.TradeBars),
		"open_interest", len(result.OpenInterest),
	)
}

// buildRequest assembles the history request from CLI flags.
func buildRequest(ticker, secType string, canonical bool, startStr, endStr, tick string) (model.HistoryRequest, error) {
	var req model.HistoryRequest

	if ticker == "" {
		return req, fmt.Errorf("-symbol is required")
	}

	var underlying *model.Symbol
	switch secType {
	case "equity":
		underlying = model.NewEquity(ticker)
	case "index":
		underlying = model.NewIndex(ticker)
	default:
		return req, fmt.Errorf("-type must be equity or index, got %q", secType)
	}

	req.Symbol = underlying
	if canonical {
		req.Symbol = model.NewCanonicalOption(underlying)
	}

	switch tick {
	case "trade":
		req.TickType = model.TickTrade
	case "openinterest":
		req.TickType = model.TickOpenInterest
	default:
		return req, fmt.Errorf("-tick must be trade or openinterest, got %q", tick)
	}

	start, err := time.Parse(dateLayout, startStr)
	if err != nil {
		return req, fmt.Errorf("-start: %w", err)
	}
	end, err := time.Parse(dateLayout, endStr)
	if err != nil {
		return req, fmt.Errorf("-end: %w", err)
	}
	if !end.After(start) {
		return req, fmt.Errorf("-end must be after -start")
	}

	req.Resolution = model.ResolutionDaily
	req.Start = start.UTC()
	req.End = end.UTC()
	return req, nil
}

func logLevel(name string) slog.Level {
	switch name {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
