package download

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/quantlayer/ivol-data/internal/model"
)

// HistorySource is the provider surface the downloader drives.
// Implemented by *provider.Provider.
type HistorySource interface {
	History(ctx context.Context, req model.HistoryRequest) ([]model.TradeBar, error)
	OpenInterestHistory(ctx context.Context, req model.HistoryRequest) ([]model.OpenInterest, error)
	OptionChain(ctx context.Context, sym *model.Symbol, date time.Time) ([]*model.Symbol, error)
}

// Archiver persists fetched batches when raw-data archiving is enabled.
// Implemented by *archive.Writer; nil disables archiving.
type Archiver interface {
	SaveTradeBars(sym *model.Symbol, resolution model.Resolution, bars []model.TradeBar) error
	SaveOpenInterest(sym *model.Symbol, resolution model.Resolution, points []model.OpenInterest) error
}

// Result is the union of everything one Download call produced. Only the
// slice matching the request's tick type is populated.
type Result struct {
	TradeBars    []model.TradeBar
	OpenInterest []model.OpenInterest
}

// Config holds downloader settings.
type Config struct {
	// ContractParallelism bounds concurrent per-contract history fetches
	// during canonical-root expansion.
	ContractParallelism int
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{ContractParallelism: 16}
}

// Downloader produces history data sets for offline consumption.
type Downloader struct {
	cfg     Config
	source  HistorySource
	archive Archiver
	logger  *slog.Logger
}

// NewDownloader creates a Downloader. archive may be nil.
func NewDownloader(cfg Config, source HistorySource, archive Archiver, logger *slog.Logger) *Downloader {
	if cfg.ContractParallelism < 1 {
		cfg.ContractParallelism = DefaultConfig().ContractParallelism
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Downloader{
		cfg:     cfg,
		source:  source,
		archive: archive,
		logger:  logger,
	}
}

// Download fetches history for one request. Canonical option symbols are
// expanded to their dated contract set first; everything else delegates
// to the provider as-is. The result is ordered by bar end time, then
// contract expiry for bars sharing a time.
func (d *Downloader) Download(ctx context.Context, req model.HistoryRequest) (*Result, error) {
	if req.Symbol == nil {
		return nil, fmt.Errorf("%w: download request needs a symbol", model.ErrInvalidArgument)
	}

	started := time.Now()
	contracts := []*model.Symbol{req.Symbol}
	if req.Symbol.IsCanonicalOption() {
		expanded, err := d.expandRoot(ctx, req)
		if err != nil {
			return nil, err
		}
		contracts = expanded
	}

	result, err := d.fetchContracts(ctx, req, contracts)
	if err != nil {
		return nil, err
	}

	sortResult(result)
	d.logger.Info("download complete",
		"symbol", req.Symbol.String(),
		"tick", req.TickType.String(),
		"contracts", len(contracts),
		"bars", len(result.TradeBars),
		"open_interest", len(result.OpenInterest),
		"elapsed", time.Since(started).Round(time.Millisecond),
	)
	return result, nil
}

// expandRoot collects the distinct contracts trading on any weekday in
// the request range for a canonical option root.
func (d *Downloader) expandRoot(ctx context.Context, req model.HistoryRequest) ([]*model.Symbol, error) {
	days := model.TradingDays(req.Start, req.End)

	seen := make(map[string]struct{})
	var contracts []*model.Symbol
	for _, dayStart := range days {
		chain, err := d.source.OptionChain(ctx, req.Symbol, dayStart)
		if err != nil {
			return nil, fmt.Errorf("expand %s on %s: %w",
				req.Symbol.Ticker, dayStart.Format("2006-01-02"), err)
		}
		for _, sym := range chain {
			key := sym.Key()
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}
			contracts = append(contracts, sym)
		}
	}

	d.logger.Debug("expanded option root",
		"root", req.Symbol.Ticker,
		"days", len(days),
		"contracts", len(contracts),
	)
	return contracts, nil
}

func (d *Downloader) fetchContracts(ctx context.Context, req model.HistoryRequest, contracts []*model.Symbol) (*Result, error) {
	result := &Result{}
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(d.cfg.ContractParallelism)

	for _, contract := range contracts {
		contract := contract
		g.Go(func() error {
			creq := req
			creq.Symbol = contract

			switch req.TickType {
			case model.TickOpenInterest:
				points, err := d.source.OpenInterestHistory(gctx, creq)
				if err != nil {
					return err
				}
				if points == nil {
					return nil
				}
				if err := d.archiveOpenInterest(contract, req.Resolution, points); err != nil {
					return err
				}
				mu.Lock()
				result.OpenInterest = append(result.OpenInterest, points...)
				mu.Unlock()
			default:
				bars, err := d.source.History(gctx, creq)
				if err != nil {
					return err
				}
				if bars == nil {
					return nil
				}
				if err := d.archiveTradeBars(contract, req.Resolution, bars); err != nil {
					return err
				}
				mu.Lock()
				result.TradeBars = append(result.TradeBars, bars...)
				mu.Unlock()
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return result, nil
}

func (d *Downloader) archiveTradeBars(sym *model.Symbol, res model.Resolution, bars []model.TradeBar) error {
	if d.archive == nil || len(bars) == 0 {
		return nil
	}
	return d.archive.SaveTradeBars(sym, res, bars)
}

func (d *Downloader) archiveOpenInterest(sym *model.Symbol, res model.Resolution, points []model.OpenInterest) error {
	if d.archive == nil || len(points) == 0 {
		return nil
	}
	return d.archive.SaveOpenInterest(sym, res, points)
}

// sortResult orders by end time, breaking ties by contract expiry so
// interleaved contract histories come out deterministically.
func sortResult(r *Result) {
	sort.SliceStable(r.TradeBars, func(i, j int) bool {
		a, b := r.TradeBars[i], r.TradeBars[j]
		if !a.Time.Equal(b.Time) {
			return a.Time.Before(b.Time)
		}
		return a.Symbol.Expiry.Before(b.Symbol.Expiry)
	})
	sort.SliceStable(r.OpenInterest, func(i, j int) bool {
		a, b := r.OpenInterest[i], r.OpenInterest[j]
		if !a.Time.Equal(b.Time) {
			return a.Time.Before(b.Time)
		}
		return a.Symbol.Expiry.Before(b.Symbol.Expiry)
	})
}
