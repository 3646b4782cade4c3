package ivol

import (
	"time"

	"github.com/quantlayer/ivol-data/internal/model"
)

// ReferenceResponse from GET /options/reference
type ReferenceResponse struct {
	Data []ReferenceRecord `json:"data"`
}

// ReferenceRecord is contract metadata for one option. Fields are pointers:
// the vendor answers an unknown symbol batch with a single all-null row.
type ReferenceRecord struct {
	Symbol    *string `json:"symbol"`    // OCC21 symbol
	FosID     *string `json:"fosId"`     // Opaque vendor id (e.g. "AAPL.US#C229V")
	StyleCode *int    `json:"styleCode"` // 0 = American; non-zero observed as European
	Region    *string `json:"region"`
}

// IsSentinel reports whether the record is the vendor's no-data marker.
func (r ReferenceRecord) IsSentinel() bool {
	return r.Symbol == nil && r.FosID == nil
}

// Occ21 returns the OCC21 symbol, empty when absent.
func (r ReferenceRecord) Occ21() string {
	if r.Symbol == nil {
		return ""
	}
	return *r.Symbol
}

// Fos returns the FOS id, empty when absent.
func (r ReferenceRecord) Fos() string {
	if r.FosID == nil {
		return ""
	}
	return *r.FosID
}

// Style returns the decoded option style and the raw vendor code.
func (r ReferenceRecord) Style() (model.OptionStyle, int) {
	if r.StyleCode == nil {
		return model.StyleAmerican, 0
	}
	return model.StyleFromVendorCode(*r.StyleCode), *r.StyleCode
}

// ChainResponse from GET /options/chain
type ChainResponse struct {
	Data []ChainEntry `json:"data"`
	Next string       `json:"next,omitempty"` // Continuation URL path, empty on last page
}

// ChainEntry is one contract id in a screening result.
type ChainEntry struct {
	OptionID *string `json:"optionId"`
}

// PriceSeriesResponse from GET /options/eod/prices
type PriceSeriesResponse struct {
	Data []PriceRow `json:"data"`
}

// PriceRow is one daily OHLC row on the wire.
type PriceRow struct {
	Date  *string  `json:"date"` // "2006-01-02"
	Open  *float64 `json:"open"`
	High  *float64 `json:"high"`
	Low   *float64 `json:"low"`
	Close *float64 `json:"close"`
}

// VolumeSeriesResponse from GET /options/eod/volumes
type VolumeSeriesResponse struct {
	Data []VolumeRow `json:"data"`
}

// VolumeRow is one daily volume/open-interest row on the wire.
type VolumeRow struct {
	Date         *string `json:"date"`
	Volume       *int64  `json:"volume"`
	OpenInterest *int64  `json:"openInterest"`
}

// parseDate parses the vendor's date format, nil on absence or garbage.
func parseDate(s *string) *time.Time {
	if s == nil {
		return nil
	}
	t, err := time.Parse("2006-01-02", *s)
	if err != nil {
		return nil
	}
	t = t.UTC()
	return &t
}

// toPricePoint converts a wire row to the model point.
func (r PriceRow) toPricePoint() model.PricePoint {
	return model.PricePoint{
		Date:  parseDate(r.Date),
		Open:  r.Open,
		High:  r.High,
		Low:   r.Low,
		Close: r.Close,
	}
}

// toVolumePoint converts a wire row to the model point.
func (r VolumeRow) toVolumePoint() model.VolumePoint {
	return model.VolumePoint{
		Date:         parseDate(r.Date),
		Volume:       r.Volume,
		OpenInterest: r.OpenInterest,
	}
}
