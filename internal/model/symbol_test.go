package model

import (
	"testing"
	"time"
)

func TestSymbolKey(t *testing.T) {
	spy := NewEquity("SPY")
	expiry := time.Date(2024, 1, 19, 0, 0, 0, 0, time.UTC)

	t.Run("equity key is stable", func(t *testing.T) {
		if NewEquity("spy").Key() != spy.Key() {
			t.Errorf("ticker case should not affect identity")
		}
	})

	t.Run("option key includes contract fields", func(t *testing.T) {
		call := NewOption(spy, 470, expiry, RightCall, StyleAmerican)
		put := NewOption(spy, 470, expiry, RightPut, StyleAmerican)
		if call.Key() == put.Key() {
			t.Error("call and put should have distinct keys")
		}

		other := NewOption(spy, 475, expiry, RightCall, StyleAmerican)
		if call.Key() == other.Key() {
			t.Error("strikes should have distinct keys")
		}
	})

	t.Run("equal contracts compare equal", func(t *testing.T) {
		a := NewOption(spy, 470, expiry, RightCall, StyleAmerican)
		b := NewOption(NewEquity("SPY"), 470, expiry, RightCall, StyleAmerican)
		if !a.Equal(b) {
			t.Errorf("a = %v, b = %v, want equal", a, b)
		}
	})

	t.Run("expiry truncated to date", func(t *testing.T) {
		late := NewOption(spy, 470, expiry.Add(15*time.Hour), RightCall, StyleAmerican)
		exact := NewOption(spy, 470, expiry, RightCall, StyleAmerican)
		if !late.Equal(exact) {
			t.Error("intraday expiry component should not affect identity")
		}
	})
}

func TestIsCanonicalOption(t *testing.T) {
	spx := NewIndex("SPX")
	expiry := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		sym  *Symbol
		want bool
	}{
		{"canonical equity option", NewCanonicalOption(NewEquity("AAPL")), true},
		{"canonical index option", NewCanonicalOption(spx), true},
		{"dated contract", NewOption(spx, 5000, expiry, RightCall, StyleEuropean), false},
		{"equity", NewEquity("AAPL"), false},
		{"index", spx, false},
		{"nil", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.sym.IsCanonicalOption(); got != tt.want {
				t.Errorf("IsCanonicalOption() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCanonicalIndexOptionType(t *testing.T) {
	canon := NewCanonicalOption(NewIndex("VIX"))
	if canon.SecurityType != SecurityIndexOption {
		t.Errorf("SecurityType = %v, want %v", canon.SecurityType, SecurityIndexOption)
	}
	if canon.UnderlyingTicker() != "VIX" {
		t.Errorf("UnderlyingTicker() = %q, want VIX", canon.UnderlyingTicker())
	}
}

func TestIsUniverse(t *testing.T) {
	u := NewEquity("QC-UNIVERSE-OPTION-SPY")
	if !u.IsUniverse() {
		t.Error("universe pseudo-symbol not detected")
	}
	if NewEquity("SPY").IsUniverse() {
		t.Error("plain equity flagged as universe")
	}
}

func TestStyleFromVendorCode(t *testing.T) {
	tests := []struct {
		code int
		want OptionStyle
	}{
		{0, StyleAmerican},
		{1, StyleEuropean},
		{2, StyleEuropean}, // observed for index options, undocumented
	}
	for _, tt := range tests {
		if got := StyleFromVendorCode(tt.code); got != tt.want {
			t.Errorf("StyleFromVendorCode(%d) = %v, want %v", tt.code, got, tt.want)
		}
	}
}

func TestTradingDays(t *testing.T) {
	// 2024-01-05 is a Friday; the range spans one weekend.
	start := time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 1, 9, 0, 0, 0, 0, time.UTC)

	days := TradingDays(start, end)
	if len(days) != 3 {
		t.Fatalf("got %d days, want 3", len(days))
	}
	want := []string{"2024-01-05", "2024-01-08", "2024-01-09"}
	for i, d := range days {
		if d.Format("2006-01-02") != want[i] {
			t.Errorf("day[%d] = %s, want %s", i, d.Format("2006-01-02"), want[i])
		}
	}

	if got := TradingDays(end, start); len(got) != 0 {
		t.Errorf("inverted range returned %d days, want 0", len(got))
	}
}

func TestPointSentinels(t *testing.T) {
	if !(PricePoint{}).IsSentinel() {
		t.Error("null price point should be a sentinel")
	}
	d := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	if (VolumePoint{Date: &d}).IsSentinel() {
		t.Error("dated volume point should not be a sentinel")
	}
}
