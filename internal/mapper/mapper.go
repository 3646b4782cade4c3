package mapper

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/quantlayer/ivol-data/internal/ivol"
	"github.com/quantlayer/ivol-data/internal/model"
)

// ReferenceResolver resolves vendor ids (OCC21 or FOS) to reference
// records. Implemented by refdata.Resolver.
type ReferenceResolver interface {
	ResolveAll(ctx context.Context, ids []string) ([]ivol.ReferenceRecord, error)
}

// Mapper is the bidirectional symbol translator. The OCC21 direction is
// pure; the FOS direction needs the bound reference resolver.
type Mapper struct {
	occCache *Cache
	fosCache *Cache
	logger   *slog.Logger

	mu       sync.Mutex
	resolver ReferenceResolver
}

// NewMapper creates a Mapper over the two injected caches.
func NewMapper(occCache, fosCache *Cache, logger *slog.Logger) *Mapper {
	if logger == nil {
		logger = slog.Default()
	}
	return &Mapper{
		occCache: occCache,
		fosCache: fosCache,
		logger:   logger,
	}
}

// BindResolver attaches the reference resolver used by the FOS direction.
func (m *Mapper) BindResolver(r ReferenceResolver) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.resolver = r
}

func (m *Mapper) boundResolver() (ReferenceResolver, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.resolver == nil {
		return nil, fmt.Errorf("%w: reference resolver not bound", model.ErrInvalidOperation)
	}
	return m.resolver, nil
}

// ToVendorOcc21 renders the vendor's OCC21 encoding for a symbol. Pure and
// deterministic; cached so repeated calls do not re-format.
func (m *Mapper) ToVendorOcc21(sym *model.Symbol) (string, error) {
	if sym != nil {
		if occ21, ok := m.occCache.VendorID(sym); ok {
			return occ21, nil
		}
	}

	occ21, err := formatOcc21(sym)
	if err != nil {
		return "", err
	}

	m.occCache.Put(sym, occ21)
	return occ21, nil
}

// FromVendorOcc21 parses an OCC21 string back into a canonical symbol.
// Cache hits skip the parse entirely and return the original resolution.
func (m *Mapper) FromVendorOcc21(occ21 string, secType model.SecurityType, market string, style model.OptionStyle) (*model.Symbol, error) {
	if sym, ok := m.occCache.Symbol(occ21); ok {
		return sym, nil
	}

	sym, err := parseOcc21(occ21, secType, market, style)
	if err != nil {
		return nil, err
	}

	m.occCache.Put(sym, occ21)
	return sym, nil
}

// ToVendorFosId resolves the opaque vendor id for a symbol. Returns ""
// with a nil error when the vendor has no reference data for it.
func (m *Mapper) ToVendorFosId(ctx context.Context, sym *model.Symbol) (string, error) {
	resolver, err := m.boundResolver()
	if err != nil {
		return "", err
	}

	if sym != nil {
		if fos, ok := m.fosCache.VendorID(sym); ok {
			return fos, nil
		}
	}

	occ21, err := m.ToVendorOcc21(sym)
	if err != nil {
		return "", err
	}

	records, err := resolver.ResolveAll(ctx, []string{occ21})
	if err != nil {
		return "", err
	}
	if len(records) == 0 || records[0].Fos() == "" {
		m.logger.Debug("no vendor reference data", "symbol", sym.String(), "occ21", occ21)
		return "", nil
	}

	fos := records[0].Fos()
	m.fosCache.Put(sym, fos)
	return fos, nil
}

// FromVendorFosId resolves a FOS id back to a canonical symbol. A failed
// vendor lookup, or a valid-looking id the vendor cannot identify, is an
// ErrInvalidOperation: unlike the batch variant there is no silent skip.
func (m *Mapper) FromVendorFosId(ctx context.Context, fosID string, secType model.SecurityType) (*model.Symbol, error) {
	resolver, err := m.boundResolver()
	if err != nil {
		return nil, err
	}

	if sym, ok := m.fosCache.Symbol(fosID); ok {
		return sym, nil
	}

	records, err := resolver.ResolveAll(ctx, []string{fosID})
	if err != nil {
		return nil, fmt.Errorf("%w: resolve FOS id %s: %v", model.ErrInvalidOperation, fosID, err)
	}
	if len(records) == 0 || records[0].Occ21() == "" {
		return nil, fmt.Errorf("%w: vendor has no reference data for FOS id %s", model.ErrInvalidOperation, fosID)
	}

	sym, err := m.symbolFromRecord(records[0], secType)
	if err != nil {
		return nil, err
	}
	m.fosCache.Put(sym, fosID)
	return sym, nil
}

// FromVendorFosIds is the batch variant. Entries the vendor returns with
// no identifying data are skipped rather than failing the batch; every
// successful resolution populates the cache as a side effect.
func (m *Mapper) FromVendorFosIds(ctx context.Context, fosIDs []string, secType model.SecurityType) ([]*model.Symbol, error) {
	resolver, err := m.boundResolver()
	if err != nil {
		return nil, err
	}

	records, err := resolver.ResolveAll(ctx, fosIDs)
	if err != nil {
		return nil, err
	}

	return m.SymbolsFromRecords(records, secType), nil
}

// SymbolsFromRecords converts already-resolved reference records, caching
// each success and skipping records without identity.
func (m *Mapper) SymbolsFromRecords(records []ivol.ReferenceRecord, secType model.SecurityType) []*model.Symbol {
	symbols := make([]*model.Symbol, 0, len(records))
	for _, rec := range records {
		if rec.IsSentinel() || rec.Occ21() == "" {
			continue
		}
		sym, err := m.symbolFromRecord(rec, secType)
		if err != nil {
			m.logger.Debug("skipping unparsable reference record",
				"occ21", rec.Occ21(),
				"error", err,
			)
			continue
		}
		if fos := rec.Fos(); fos != "" {
			m.fosCache.Put(sym, fos)
		}
		symbols = append(symbols, sym)
	}
	return symbols
}

func (m *Mapper) symbolFromRecord(rec ivol.ReferenceRecord, secType model.SecurityType) (*model.Symbol, error) {
	style, _ := rec.Style()
	return m.FromVendorOcc21(rec.Occ21(), secType, model.MarketDomestic, style)
}
