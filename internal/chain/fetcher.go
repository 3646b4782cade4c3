package chain

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/quantlayer/ivol-data/internal/model"
	"github.com/quantlayer/ivol-data/internal/retry"
)

// Screener is the vendor chain-screening call for one option right.
// Implemented by *ivol.Client.
type Screener interface {
	ScreenChain(ctx context.Context, underlying string, right model.OptionRight, date time.Time) ([]string, error)
}

// SymbolResolver resolves opaque vendor ids to canonical symbols.
// Implemented by *mapper.Mapper.
type SymbolResolver interface {
	FromVendorFosIds(ctx context.Context, fosIDs []string, secType model.SecurityType) ([]*model.Symbol, error)
}

// Fetcher assembles option chains from the vendor's per-right screening
// endpoint.
type Fetcher struct {
	screener Screener
	resolver SymbolResolver
	retry    retry.Policy
	logger   *slog.Logger
}

// NewFetcher creates a Fetcher.
func NewFetcher(screener Screener, resolver SymbolResolver, policy retry.Policy, logger *slog.Logger) *Fetcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Fetcher{
		screener: screener,
		resolver: resolver,
		retry:    policy,
		logger:   logger,
	}
}

// Fetch returns the contract symbols trading on the given underlying as
// of date. When filter is a canonical option, only contracts sharing its
// root are returned. Output order is unspecified.
//
// A leg that fails after retries, or a failed id resolution, degrades
// the fetch to an empty result with a warning. Callers cannot
// distinguish "no chain" from "chain unavailable today"; both come back
// empty.
func (f *Fetcher) Fetch(ctx context.Context, underlying *model.Symbol, date time.Time, filter *model.Symbol) ([]*model.Symbol, error) {
	if underlying == nil || !underlying.SecurityType.IsUnderlying() {
		return nil, fmt.Errorf("%w: chain underlying must be an equity or index", model.ErrInvalidArgument)
	}

	legs := make([][]string, 2)
	g, gctx := errgroup.WithContext(ctx)
	for i, right := range []model.OptionRight{model.RightCall, model.RightPut} {
		i, right := i, right
		g.Go(func() error {
			return f.retry.Do(gctx, "chain screen "+right.String(), func() error {
				ids, err := f.screener.ScreenChain(gctx, underlying.Ticker, right, date)
				if err != nil {
					return err
				}
				legs[i] = ids
				return nil
			})
		})
	}
	if err := g.Wait(); err != nil {
		f.logger.Warn("chain screening failed, returning empty chain",
			"underlying", underlying.Ticker,
			"date", date.Format("2006-01-02"),
			"error", err,
		)
		return []*model.Symbol{}, nil
	}

	ids := unionIDs(legs[0], legs[1])
	if len(ids) == 0 {
		return []*model.Symbol{}, nil
	}

	secType := model.SecurityOption
	if underlying.SecurityType == model.SecurityIndex {
		secType = model.SecurityIndexOption
	}

	symbols, err := f.resolver.FromVendorFosIds(ctx, ids, secType)
	if err != nil {
		f.logger.Warn("chain id resolution failed, returning empty chain",
			"underlying", underlying.Ticker,
			"ids", len(ids),
			"error", err,
		)
		return []*model.Symbol{}, nil
	}

	if filter != nil && filter.IsCanonicalOption() {
		symbols = filterByRoot(symbols, filter.Ticker)
	}
	return symbols, nil
}

// unionIDs merges both legs, dropping duplicates while keeping first
// appearance order.
func unionIDs(calls, puts []string) []string {
	seen := make(map[string]struct{}, len(calls)+len(puts))
	out := make([]string, 0, len(calls)+len(puts))
	for _, id := range calls {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	for _, id := range puts {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

func filterByRoot(symbols []*model.Symbol, root string) []*model.Symbol {
	out := make([]*model.Symbol, 0, len(symbols))
	for _, sym := range symbols {
		if sym.Ticker == root {
			out = append(out, sym)
		}
	}
	return out
}
