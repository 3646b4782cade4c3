package model

import "time"

// -----------------------------------------------------------------------------
// Vendor-side points
// -----------------------------------------------------------------------------

// PricePoint is one row of the vendor's daily price series. Fields are
// pointers because the vendor signals "no data for this request" with a
// single row whose identifying fields are all null.
type PricePoint struct {
	Date  *time.Time
	Open  *float64
	High  *float64
	Low   *float64
	Close *float64
}

// IsSentinel reports whether the point is the vendor's no-data marker.
func (p PricePoint) IsSentinel() bool {
	return p.Date == nil
}

// VolumePoint is one row of the vendor's daily volume series.
type VolumePoint struct {
	Date         *time.Time
	Volume       *int64
	OpenInterest *int64
}

// IsSentinel reports whether the point is the vendor's no-data marker.
func (v VolumePoint) IsSentinel() bool {
	return v.Date == nil
}

// MergedBar is a price and a volume point zipped on a shared date.
type MergedBar struct {
	Date   time.Time
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume int64
}

// -----------------------------------------------------------------------------
// Engine-side points
// -----------------------------------------------------------------------------

// TradeBar is a daily OHLCV bar adapted to the host engine's data model.
// Time is the bar end time (UTC midnight of the following day for daily).
type TradeBar struct {
	Symbol *Symbol
	Time   time.Time
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume int64
}

// OpenInterest is a daily open-interest point.
type OpenInterest struct {
	Symbol *Symbol
	Time   time.Time
	Value  int64
}

// HistoryRequest is the host engine's inbound request shape.
type HistoryRequest struct {
	Symbol     *Symbol
	Resolution Resolution
	TickType   TickType
	Start      time.Time // UTC, inclusive
	End        time.Time // UTC, exclusive
}
