package mapper

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/quantlayer/ivol-data/internal/ivol"
	"github.com/quantlayer/ivol-data/internal/model"
)

func newTestMapper() *Mapper {
	return NewMapper(NewCache(), NewCache(), nil)
}

// stubResolver answers ResolveAll from a fixed table keyed by requested id.
type stubResolver struct {
	mu      sync.Mutex
	calls   int
	records map[string]ivol.ReferenceRecord
	err     error
}

func (s *stubResolver) ResolveAll(_ context.Context, ids []string) ([]ivol.ReferenceRecord, error) {
	s.mu.Lock()
	s.calls++
	s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	var out []ivol.ReferenceRecord
	for _, id := range ids {
		if rec, ok := s.records[id]; ok {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (s *stubResolver) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

func record(occ21, fos string, styleCode int) ivol.ReferenceRecord {
	return ivol.ReferenceRecord{Symbol: &occ21, FosID: &fos, StyleCode: &styleCode}
}

func TestToVendorOcc21(t *testing.T) {
	m := newTestMapper()
	expiry := time.Date(2024, 1, 19, 0, 0, 0, 0, time.UTC)

	t.Run("option encoding", func(t *testing.T) {
		sym := model.NewOption(model.NewEquity("AAPL"), 190, expiry, model.RightCall, model.StyleAmerican)
		occ21, err := m.ToVendorOcc21(sym)
		if err != nil {
			t.Fatalf("ToVendorOcc21 failed: %v", err)
		}
		want := "AAPL  #240119C00190000"
		if occ21 != want {
			t.Errorf("occ21 = %q, want %q", occ21, want)
		}
	})

	t.Run("fractional strike", func(t *testing.T) {
		sym := model.NewOption(model.NewEquity("F"), 12.5, expiry, model.RightPut, model.StyleAmerican)
		occ21, err := m.ToVendorOcc21(sym)
		if err != nil {
			t.Fatalf("ToVendorOcc21 failed: %v", err)
		}
		want := "F     #240119P00012500"
		if occ21 != want {
			t.Errorf("occ21 = %q, want %q", occ21, want)
		}
	})

	t.Run("equity and index use bare ticker", func(t *testing.T) {
		for _, sym := range []*model.Symbol{model.NewEquity("SPY"), model.NewIndex("SPX")} {
			occ21, err := m.ToVendorOcc21(sym)
			if err != nil {
				t.Fatalf("ToVendorOcc21(%v) failed: %v", sym, err)
			}
			if occ21 != sym.Ticker {
				t.Errorf("occ21 = %q, want %q", occ21, sym.Ticker)
			}
		}
	})

	t.Run("rejects bad input", func(t *testing.T) {
		cases := map[string]*model.Symbol{
			"nil symbol":       nil,
			"empty ticker":     {SecurityType: model.SecurityEquity, Market: model.MarketDomestic},
			"unsupported type": {SecurityType: model.SecurityUnknown, Ticker: "X"},
			"canonical option": model.NewCanonicalOption(model.NewEquity("SPY")),
		}
		for name, sym := range cases {
			t.Run(name, func(t *testing.T) {
				if _, err := m.ToVendorOcc21(sym); !errors.Is(err, model.ErrInvalidArgument) {
					t.Errorf("err = %v, want ErrInvalidArgument", err)
				}
			})
		}
	})
}

func TestOcc21RoundTrip(t *testing.T) {
	m := newTestMapper()
	expiry := time.Date(2025, 6, 20, 0, 0, 0, 0, time.UTC)

	symbols := []*model.Symbol{
		model.NewOption(model.NewEquity("AAPL"), 190, expiry, model.RightCall, model.StyleAmerican),
		model.NewOption(model.NewEquity("GOOGL"), 151.25, expiry, model.RightPut, model.StyleAmerican),
		model.NewOption(model.NewIndex("SPX"), 5400, expiry, model.RightCall, model.StyleEuropean),
		model.NewOption(model.NewIndex("VIX"), 22.5, expiry, model.RightPut, model.StyleEuropean),
	}

	for _, sym := range symbols {
		occ21, err := m.ToVendorOcc21(sym)
		if err != nil {
			t.Fatalf("ToVendorOcc21(%v) failed: %v", sym, err)
		}
		back, err := m.FromVendorOcc21(occ21, sym.SecurityType, model.MarketDomestic, sym.Style)
		if err != nil {
			t.Fatalf("FromVendorOcc21(%q) failed: %v", occ21, err)
		}
		if !back.Equal(sym) {
			t.Errorf("round trip of %v produced %v", sym, back)
		}
	}
}

func TestFromVendorOcc21CacheIdempotence(t *testing.T) {
	m := newTestMapper()

	first, err := m.FromVendorOcc21("SPX   #240315C05000000", model.SecurityIndexOption, model.MarketDomestic, model.StyleEuropean)
	if err != nil {
		t.Fatalf("first resolution failed: %v", err)
	}
	second, err := m.FromVendorOcc21("SPX   #240315C05000000", model.SecurityIndexOption, model.MarketDomestic, model.StyleEuropean)
	if err != nil {
		t.Fatalf("second resolution failed: %v", err)
	}

	if second != first {
		t.Error("cache hit should return the original resolution, not a re-parse")
	}
}

func TestFromVendorOcc21Rejections(t *testing.T) {
	m := newTestMapper()

	tests := []struct {
		name    string
		occ21   string
		secType model.SecurityType
	}{
		{"empty string", "", model.SecurityOption},
		{"missing separator", "AAPL240119C00190000", model.SecurityOption},
		{"double separator", "AAPL#2401#19", model.SecurityOption},
		{"empty suffix", "AAPL  #", model.SecurityOption},
		{"short suffix", "AAPL  #240119C", model.SecurityOption},
		{"bad right letter", "AAPL  #240119X00190000", model.SecurityOption},
		{"equity with suffix", "AAPL#X", model.SecurityEquity},
		{"unsupported type", "AAPL", model.SecurityUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := m.FromVendorOcc21(tt.occ21, tt.secType, model.MarketDomestic, model.StyleAmerican)
			if !errors.Is(err, model.ErrInvalidArgument) {
				t.Errorf("err = %v, want ErrInvalidArgument", err)
			}
		})
	}
}

func TestFromVendorOcc21ExchangeQualifier(t *testing.T) {
	m := newTestMapper()

	t.Run("domestic qualifier stripped", func(t *testing.T) {
		sym, err := m.FromVendorOcc21("AAPL  #240119C00190000-US", model.SecurityOption, model.MarketDomestic, model.StyleAmerican)
		if err != nil {
			t.Fatalf("FromVendorOcc21 failed: %v", err)
		}
		if sym.Strike != 190 {
			t.Errorf("Strike = %v, want 190", sym.Strike)
		}
	})

	t.Run("foreign qualifier rejected", func(t *testing.T) {
		_, err := m.FromVendorOcc21("AAPL  #240119C00190000-LSE", model.SecurityOption, model.MarketDomestic, model.StyleAmerican)
		if !errors.Is(err, model.ErrInvalidArgument) {
			t.Errorf("err = %v, want ErrInvalidArgument", err)
		}
	})
}

func TestToVendorFosId(t *testing.T) {
	expiry := time.Date(2024, 1, 19, 0, 0, 0, 0, time.UTC)
	aapl := model.NewOption(model.NewEquity("AAPL"), 190, expiry, model.RightCall, model.StyleAmerican)

	t.Run("unbound resolver", func(t *testing.T) {
		m := newTestMapper()
		_, err := m.ToVendorFosId(context.Background(), aapl)
		if !errors.Is(err, model.ErrInvalidOperation) {
			t.Errorf("err = %v, want ErrInvalidOperation", err)
		}
	})

	t.Run("resolves and caches", func(t *testing.T) {
		m := newTestMapper()
		resolver := &stubResolver{records: map[string]ivol.ReferenceRecord{
			"AAPL  #240119C00190000": record("AAPL  #240119C00190000", "AAPL.US#C229V", 0),
		}}
		m.BindResolver(resolver)

		fos, err := m.ToVendorFosId(context.Background(), aapl)
		if err != nil {
			t.Fatalf("ToVendorFosId failed: %v", err)
		}
		if fos != "AAPL.US#C229V" {
			t.Errorf("fos = %q, want AAPL.US#C229V", fos)
		}

		// Second call must come from cache.
		if _, err := m.ToVendorFosId(context.Background(), aapl); err != nil {
			t.Fatalf("cached ToVendorFosId failed: %v", err)
		}
		if resolver.callCount() != 1 {
			t.Errorf("resolver called %d times, want 1", resolver.callCount())
		}
	})

	t.Run("no reference data is not an error", func(t *testing.T) {
		m := newTestMapper()
		m.BindResolver(&stubResolver{records: map[string]ivol.ReferenceRecord{}})

		fos, err := m.ToVendorFosId(context.Background(), aapl)
		if err != nil {
			t.Fatalf("ToVendorFosId failed: %v", err)
		}
		if fos != "" {
			t.Errorf("fos = %q, want empty", fos)
		}
	})
}

func TestFromVendorFosId(t *testing.T) {
	t.Run("resolves via reference data", func(t *testing.T) {
		m := newTestMapper()
		m.BindResolver(&stubResolver{records: map[string]ivol.ReferenceRecord{
			"SPX.US#Q1": record("SPX   #240315C05000000", "SPX.US#Q1", 2),
		}})

		sym, err := m.FromVendorFosId(context.Background(), "SPX.US#Q1", model.SecurityIndexOption)
		if err != nil {
			t.Fatalf("FromVendorFosId failed: %v", err)
		}
		if sym.Ticker != "SPX" || sym.Strike != 5000 {
			t.Errorf("resolved %v", sym)
		}
		if sym.Style != model.StyleEuropean {
			t.Errorf("Style = %v, want european (style code 2)", sym.Style)
		}
	})

	t.Run("lookup failure", func(t *testing.T) {
		m := newTestMapper()
		m.BindResolver(&stubResolver{err: errors.New("vendor down")})

		_, err := m.FromVendorFosId(context.Background(), "X.US#1", model.SecurityOption)
		if !errors.Is(err, model.ErrInvalidOperation) {
			t.Errorf("err = %v, want ErrInvalidOperation", err)
		}
	})

	t.Run("unknown id", func(t *testing.T) {
		m := newTestMapper()
		m.BindResolver(&stubResolver{records: map[string]ivol.ReferenceRecord{}})

		_, err := m.FromVendorFosId(context.Background(), "X.US#1", model.SecurityOption)
		if !errors.Is(err, model.ErrInvalidOperation) {
			t.Errorf("err = %v, want ErrInvalidOperation", err)
		}
	})
}

func TestFromVendorFosIdsSkipsPartialMisses(t *testing.T) {
	m := newTestMapper()
	m.BindResolver(&stubResolver{records: map[string]ivol.ReferenceRecord{
		"A.US#1": record("AAPL  #240119C00190000", "A.US#1", 0),
		"B.US#2": {}, // sentinel: vendor knows nothing about this one
		"C.US#3": record("MSFT  #240119P00400000", "C.US#3", 0),
	}})

	symbols, err := m.FromVendorFosIds(context.Background(),
		[]string{"A.US#1", "B.US#2", "C.US#3"}, model.SecurityOption)
	if err != nil {
		t.Fatalf("FromVendorFosIds failed: %v", err)
	}
	if len(symbols) != 2 {
		t.Fatalf("got %d symbols, want 2 (sentinel skipped)", len(symbols))
	}

	// Successful entries populate the FOS cache.
	if _, ok := m.fosCache.Symbol("A.US#1"); !ok {
		t.Error("A.US#1 missing from cache")
	}
	if _, ok := m.fosCache.Symbol("C.US#3"); !ok {
		t.Error("C.US#3 missing from cache")
	}
	if _, ok := m.fosCache.Symbol("B.US#2"); ok {
		t.Error("sentinel entry should not be cached")
	}
}

func TestMapperConcurrentAccess(t *testing.T) {
	m := newTestMapper()
	m.BindResolver(&stubResolver{records: map[string]ivol.ReferenceRecord{
		"AAPL  #240119C00190000": record("AAPL  #240119C00190000", "AAPL.US#C229V", 0),
	}})
	expiry := time.Date(2024, 1, 19, 0, 0, 0, 0, time.UTC)
	sym := model.NewOption(model.NewEquity("AAPL"), 190, expiry, model.RightCall, model.StyleAmerican)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			fos, err := m.ToVendorFosId(context.Background(), sym)
			if err != nil || fos != "AAPL.US#C229V" {
				t.Errorf("ToVendorFosId = %q, %v", fos, err)
			}
		}()
	}
	wg.Wait()

	if m.fosCache.Len() != 1 {
		t.Errorf("fos cache has %d entries, want 1", m.fosCache.Len())
	}
}
