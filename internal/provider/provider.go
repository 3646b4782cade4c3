package provider

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/quantlayer/ivol-data/internal/model"
	"github.com/quantlayer/ivol-data/internal/retry"
	"github.com/quantlayer/ivol-data/internal/series"
)

// SeriesSource is the vendor's daily series endpoints. Implemented by
// *ivol.Client.
type SeriesSource interface {
	GetDailyPrices(ctx context.Context, fosID string, from, to time.Time) ([]model.PricePoint, error)
	GetDailyVolumes(ctx context.Context, fosID string, from, to time.Time) ([]model.VolumePoint, error)
}

// IDResolver turns a canonical symbol into the vendor's opaque id.
// Implemented by *mapper.Mapper.
type IDResolver interface {
	ToVendorFosId(ctx context.Context, sym *model.Symbol) (string, error)
}

// ChainSource fetches the contract set for one underlying and date.
// Implemented by *chain.Fetcher.
type ChainSource interface {
	Fetch(ctx context.Context, underlying *model.Symbol, date time.Time, filter *model.Symbol) ([]*model.Symbol, error)
}

// Config wires the provider's collaborators.
type Config struct {
	Series SeriesSource
	IDs    IDResolver
	Chains ChainSource
	Retry  retry.Policy
	Logger *slog.Logger

	// DropZeroVolume drops merged bars with zero volume, matching the
	// behavior of newer vendor data versions.
	DropZeroVolume bool
}

// Provider is the history and option-chain provider facade. Construct
// with NewProvider, then Initialize before use; data methods called
// before initialization fail with ErrInvalidOperation.
type Provider struct {
	mu          sync.Mutex
	initialized bool
	cfg         Config
	logger      *slog.Logger

	warnedMu sync.Mutex
	warned   map[string]struct{}
}

// NewProvider creates an uninitialized Provider.
func NewProvider() *Provider {
	return &Provider{warned: make(map[string]struct{})}
}

// Initialize wires the provider. The transition is one-way and
// idempotent: a second call is a no-op, not an error.
func (p *Provider) Initialize(cfg Config) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.initialized {
		return nil
	}
	if cfg.Series == nil || cfg.IDs == nil || cfg.Chains == nil {
		return fmt.Errorf("%w: provider requires series, id and chain sources", model.ErrInvalidArgument)
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	p.cfg = cfg
	p.logger = cfg.Logger
	p.initialized = true
	return nil
}

func (p *Provider) requireInit() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.initialized {
		return fmt.Errorf("%w: provider not initialized", model.ErrInvalidOperation)
	}
	return nil
}

// History returns daily trade bars for one contract. A request the
// adapter does not support yields (nil, nil) without touching the
// vendor; a vendor failure after retries also yields nil, logged. A
// supported request the vendor has no data for yields an empty non-nil
// slice.
func (p *Provider) History(ctx context.Context, req model.HistoryRequest) ([]model.TradeBar, error) {
	if err := p.requireInit(); err != nil {
		return nil, err
	}
	if reason := p.validateHistory(req, model.TickTrade); reason != "" {
		p.warnOnce(reason, req)
		return nil, nil
	}

	bars, ok := p.fetchMergedBars(ctx, req)
	if !ok {
		return nil, nil
	}

	out := make([]model.TradeBar, 0, len(bars))
	for _, bar := range bars {
		out = append(out, model.TradeBar{
			Symbol: req.Symbol,
			Time:   bar.Date.Add(24 * time.Hour),
			Open:   bar.Open,
			High:   bar.High,
			Low:    bar.Low,
			Close:  bar.Close,
			Volume: bar.Volume,
		})
	}
	return out, nil
}

// OpenInterestHistory returns daily open-interest points for one
// contract. Result semantics match History.
func (p *Provider) OpenInterestHistory(ctx context.Context, req model.HistoryRequest) ([]model.OpenInterest, error) {
	if err := p.requireInit(); err != nil {
		return nil, err
	}
	if reason := p.validateHistory(req, model.TickOpenInterest); reason != "" {
		p.warnOnce(reason, req)
		return nil, nil
	}

	fosID, ok := p.resolveFos(ctx, req.Symbol)
	if !ok {
		return nil, nil
	}

	var volumes []model.VolumePoint
	err := p.cfg.Retry.Do(ctx, "daily volumes", func() error {
		points, verr := p.cfg.Series.GetDailyVolumes(ctx, fosID, req.Start, req.End)
		if verr != nil {
			return verr
		}
		volumes = points
		return nil
	})
	if err != nil {
		p.logger.Warn("open interest fetch failed",
			"symbol", req.Symbol.String(),
			"error", err,
		)
		return nil, nil
	}

	out := make([]model.OpenInterest, 0, len(volumes))
	for _, v := range volumes {
		if v.IsSentinel() || v.OpenInterest == nil {
			continue
		}
		pointEnd := v.Date.Add(24 * time.Hour)
		if pointEnd.Before(req.Start) || v.Date.After(req.End) {
			continue
		}
		out = append(out, model.OpenInterest{
			Symbol: req.Symbol,
			Time:   pointEnd,
			Value:  *v.OpenInterest,
		})
	}
	return out, nil
}

// OptionChain returns the contract symbols trading on the given symbol's
// chain as of date. Unlike History it accepts the broader security type
// set: underlyings directly, dated contracts and canonical options
// through their underlying.
func (p *Provider) OptionChain(ctx context.Context, sym *model.Symbol, date time.Time) ([]*model.Symbol, error) {
	if err := p.requireInit(); err != nil {
		return nil, err
	}
	if sym == nil || !sym.SecurityType.Supported() {
		return nil, fmt.Errorf("%w: unsupported chain symbol", model.ErrInvalidArgument)
	}
	if sym.IsUniverse() {
		return nil, fmt.Errorf("%w: universe symbols have no single chain", model.ErrInvalidArgument)
	}

	underlying := sym
	var filter *model.Symbol
	if sym.SecurityType.IsOption() {
		if sym.Underlying == nil {
			return nil, fmt.Errorf("%w: option %s has no underlying", model.ErrInvalidArgument, sym.Ticker)
		}
		underlying = sym.Underlying
		if sym.IsCanonicalOption() {
			filter = sym
		}
	}

	return p.cfg.Chains.Fetch(ctx, underlying, date, filter)
}

// validateHistory returns a rejection reason, or "" when the request is
// serviceable. Only index options have vendor history in this
// integration.
func (p *Provider) validateHistory(req model.HistoryRequest, want model.TickType) string {
	switch {
	case req.Symbol == nil:
		return "nil symbol"
	case req.Symbol.IsUniverse():
		return "universe symbols have no history"
	case req.Symbol.SecurityType != model.SecurityIndexOption:
		return fmt.Sprintf("security type %s not supported for history", req.Symbol.SecurityType)
	case req.Symbol.IsCanonicalOption():
		return "canonical options must be expanded to contracts first"
	case req.Resolution != model.ResolutionDaily:
		return fmt.Sprintf("resolution %s not supported", req.Resolution)
	case req.TickType != want:
		return fmt.Sprintf("tick type %s not supported here", req.TickType)
	case !req.End.After(req.Start):
		return "empty or inverted time range"
	case req.Start.After(time.Now().UTC()):
		return "future-dated time range"
	}
	return ""
}

// warnOnce logs each distinct rejection reason at most once per provider
// instance.
func (p *Provider) warnOnce(reason string, req model.HistoryRequest) {
	p.warnedMu.Lock()
	_, seen := p.warned[reason]
	p.warned[reason] = struct{}{}
	p.warnedMu.Unlock()
	if seen {
		return
	}

	attrs := []any{"reason", reason}
	if req.Symbol != nil {
		attrs = append(attrs, "symbol", req.Symbol.String())
	}
	p.logger.Warn("history request not supported", attrs...)
}

// resolveFos resolves the vendor id for a symbol, treating both lookup
// failure and an unknown symbol as "no data here".
func (p *Provider) resolveFos(ctx context.Context, sym *model.Symbol) (string, bool) {
	fosID, err := p.cfg.IDs.ToVendorFosId(ctx, sym)
	if err != nil {
		p.logger.Warn("vendor id resolution failed",
			"symbol", sym.String(),
			"error", err,
		)
		return "", false
	}
	if fosID == "" {
		p.logger.Debug("vendor has no reference data", "symbol", sym.String())
		return "", false
	}
	return fosID, true
}

// fetchMergedBars runs the price and volume legs and reconciles them.
// The bool result is false when the vendor call failed outright.
func (p *Provider) fetchMergedBars(ctx context.Context, req model.HistoryRequest) ([]model.MergedBar, bool) {
	fosID, ok := p.resolveFos(ctx, req.Symbol)
	if !ok {
		return nil, false
	}

	var prices []model.PricePoint
	err := p.cfg.Retry.Do(ctx, "daily prices", func() error {
		points, perr := p.cfg.Series.GetDailyPrices(ctx, fosID, req.Start, req.End)
		if perr != nil {
			return perr
		}
		prices = points
		return nil
	})
	if err != nil {
		p.logger.Warn("price fetch failed", "symbol", req.Symbol.String(), "error", err)
		return nil, false
	}

	var volumes []model.VolumePoint
	err = p.cfg.Retry.Do(ctx, "daily volumes", func() error {
		points, verr := p.cfg.Series.GetDailyVolumes(ctx, fosID, req.Start, req.End)
		if verr != nil {
			return verr
		}
		volumes = points
		return nil
	})
	if err != nil {
		p.logger.Warn("volume fetch failed", "symbol", req.Symbol.String(), "error", err)
		return nil, false
	}

	merged := series.Reconcile(prices, volumes, series.Options{DropZeroVolume: p.cfg.DropZeroVolume})
	return series.FilterWindow(merged, req.Start, req.End), true
}
