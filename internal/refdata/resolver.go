// Package refdata implements bulk reference-data resolution: large id
// lists are split into bounded batches resolved concurrently against the
// vendor's reference endpoint.
package refdata

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/quantlayer/ivol-data/internal/ivol"
	"github.com/quantlayer/ivol-data/internal/model"
	"github.com/quantlayer/ivol-data/internal/retry"
)

// BatchLookup is the single-batch vendor lookup. Implemented by
// *ivol.Client; stubbed in tests.
type BatchLookup interface {
	GetOptionReference(ctx context.Context, symbols []string) ([]ivol.ReferenceRecord, error)
}

// Config holds resolver settings.
type Config struct {
	BatchSize   int // Ids per vendor call
	Parallelism int // Concurrent in-flight batches
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		BatchSize:   100,
		Parallelism: 10,
	}
}

// Resolver fans a large id list out over bounded parallel reference
// lookups. Ids may be OCC21 symbols or FOS ids.
type Resolver struct {
	cfg    Config
	lookup BatchLookup
	retry  retry.Policy
	logger *slog.Logger
}

// NewResolver creates a Resolver.
func NewResolver(cfg Config, lookup BatchLookup, policy retry.Policy, logger *slog.Logger) *Resolver {
	if cfg.BatchSize < 1 {
		cfg.BatchSize = DefaultConfig().BatchSize
	}
	if cfg.Parallelism < 1 {
		cfg.Parallelism = DefaultConfig().Parallelism
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Resolver{
		cfg:    cfg,
		lookup: lookup,
		retry:  policy,
		logger: logger,
	}
}

// ResolveAll resolves every id, preserving per-batch ordering on output
// (batch slots are concatenated in input order). A batch that exhausts its
// retries fails the whole operation: in-flight siblings are cancelled,
// completed batches are discarded, and the caller gets ErrInvalidOperation
// wrapping the first batch failure. Partial results are never returned.
func (r *Resolver) ResolveAll(ctx context.Context, ids []string) ([]ivol.ReferenceRecord, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	batches := partition(ids, r.cfg.BatchSize)
	r.logger.Debug("resolving reference batches",
		"ids", len(ids),
		"batches", len(batches),
		"parallelism", r.cfg.Parallelism,
	)

	// One slot per batch, each written by exactly one worker; the Wait
	// below is the join barrier before any slot is read.
	slots := make([][]ivol.ReferenceRecord, len(batches))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.cfg.Parallelism)

	for i, batch := range batches {
		i, batch := i, batch
		g.Go(func() error {
			var records []ivol.ReferenceRecord
			err := r.retry.Do(gctx, "option reference batch", func() error {
				recs, lerr := r.lookup.GetOptionReference(gctx, batch)
				if lerr != nil {
					return lerr
				}
				records = recs
				return nil
			})
			if err != nil {
				return fmt.Errorf("batch %d of %d: %w", i+1, len(batches), err)
			}
			slots[i] = records
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("reference resolution: %w: %w", model.ErrInvalidOperation, err)
	}

	var out []ivol.ReferenceRecord
	for _, slot := range slots {
		out = append(out, slot...)
	}
	return out, nil
}

// partition splits ids into chunks of at most size.
func partition(ids []string, size int) [][]string {
	var batches [][]string
	for start := 0; start < len(ids); start += size {
		end := start + size
		if end > len(ids) {
			end = len(ids)
		}
		batches = append(batches, ids[start:end])
	}
	return batches
}
