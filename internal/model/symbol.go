package model

import (
	"fmt"
	"strings"
	"time"
)

// MarketDomestic is the only market this adapter serves.
const MarketDomestic = "usa"

// Symbol is the canonical identity of an instrument.
//
// Symbols are immutable once constructed: callers must not mutate fields.
// Use Key() when a Symbol identifies a map entry; two symbols are the same
// instrument iff their keys are equal.
type Symbol struct {
	SecurityType SecurityType
	Market       string
	Ticker       string // Underlying ticker for options, own ticker otherwise

	// Underlying is a weak back-reference for options; nil for
	// equities/indices. Not part of identity.
	Underlying *Symbol

	// Contract fields, zero-valued for non-options and canonical options.
	Strike float64
	Expiry time.Time // UTC midnight
	Right  OptionRight
	Style  OptionStyle
}

// NewEquity creates an equity symbol.
func NewEquity(ticker string) *Symbol {
	return &Symbol{
		SecurityType: SecurityEquity,
		Market:       MarketDomestic,
		Ticker:       strings.ToUpper(ticker),
	}
}

// NewIndex creates an index symbol.
func NewIndex(ticker string) *Symbol {
	return &Symbol{
		SecurityType: SecurityIndex,
		Market:       MarketDomestic,
		Ticker:       strings.ToUpper(ticker),
	}
}

// NewOption creates a dated, struck option contract on the given underlying.
// The security type is derived from the underlying (index -> index option).
func NewOption(underlying *Symbol, strike float64, expiry time.Time, right OptionRight, style OptionStyle) *Symbol {
	secType := SecurityOption
	if underlying != nil && underlying.SecurityType == SecurityIndex {
		secType = SecurityIndexOption
	}
	ticker := ""
	if underlying != nil {
		ticker = underlying.Ticker
	}
	return &Symbol{
		SecurityType: secType,
		Market:       MarketDomestic,
		Ticker:       ticker,
		Underlying:   underlying,
		Strike:       strike,
		Expiry:       day(expiry),
		Right:        right,
		Style:        style,
	}
}

// NewCanonicalOption creates the root symbol representing an entire option
// chain for an underlying (no strike, no expiry).
func NewCanonicalOption(underlying *Symbol) *Symbol {
	secType := SecurityOption
	if underlying != nil && underlying.SecurityType == SecurityIndex {
		secType = SecurityIndexOption
	}
	ticker := ""
	if underlying != nil {
		ticker = underlying.Ticker
	}
	return &Symbol{
		SecurityType: secType,
		Market:       MarketDomestic,
		Ticker:       ticker,
		Underlying:   underlying,
	}
}

// Key returns a stable string identity suitable for map keys.
func (s *Symbol) Key() string {
	if s == nil {
		return ""
	}
	if !s.SecurityType.IsOption() {
		return fmt.Sprintf("%s|%s|%s", s.SecurityType, s.Market, s.Ticker)
	}
	return fmt.Sprintf("%s|%s|%s|%s|%s|%.4f",
		s.SecurityType, s.Market, s.Ticker,
		s.Expiry.Format("2006-01-02"), s.Right.Letter(), s.Strike)
}

// Equal reports value equality of two symbols.
func (s *Symbol) Equal(other *Symbol) bool {
	if s == nil || other == nil {
		return s == other
	}
	return s.Key() == other.Key()
}

// IsCanonicalOption reports whether the symbol is an option root (the
// chain identity, with no strike or expiry of its own).
func (s *Symbol) IsCanonicalOption() bool {
	return s != nil && s.SecurityType.IsOption() && s.Expiry.IsZero() && s.Strike == 0
}

// IsUniverse reports whether the symbol is a synthetic universe-selection
// pseudo-symbol injected by the host engine. Those never reach the vendor.
func (s *Symbol) IsUniverse() bool {
	return s != nil && strings.Contains(strings.ToLower(s.Ticker), "universe")
}

// IsEmpty reports whether the symbol carries no usable identity.
func (s *Symbol) IsEmpty() bool {
	return s == nil || s.Ticker == ""
}

// UnderlyingTicker returns the underlying's ticker, falling back to the
// option's own root ticker when the back-reference is unset.
func (s *Symbol) UnderlyingTicker() string {
	if s == nil {
		return ""
	}
	if s.Underlying != nil {
		return s.Underlying.Ticker
	}
	return s.Ticker
}

func (s *Symbol) String() string {
	if s == nil {
		return "<nil>"
	}
	if !s.SecurityType.IsOption() {
		return s.Ticker
	}
	if s.IsCanonicalOption() {
		return "?" + s.Ticker
	}
	return fmt.Sprintf("%s %s%s %.2f", s.Ticker, s.Expiry.Format("060102"), s.Right.Letter(), s.Strike)
}

// day truncates t to UTC midnight.
func day(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// TradingDays returns the weekdays in [start, end], one time.Time per day
// at UTC midnight. Holiday calendars live in the host engine's market-hours
// database; weekends-only is the documented approximation here.
func TradingDays(start, end time.Time) []time.Time {
	var days []time.Time
	for d := day(start); !d.After(day(end)); d = d.AddDate(0, 0, 1) {
		if wd := d.Weekday(); wd == time.Saturday || wd == time.Sunday {
			continue
		}
		days = append(days, d)
	}
	return days
}
