package series

import (
	"time"

	"github.com/quantlayer/ivol-data/internal/model"
)

// Options controls merge policy.
type Options struct {
	// DropZeroVolume drops merged bars whose volume is zero. Some vendor
	// data versions report placeholder rows with zero volume; callers
	// opt in per data set.
	DropZeroVolume bool
}

// Reconcile zips a price series and a volume series on shared dates.
// Both inputs must be sorted ascending by date with no duplicate dates.
// Unmatched dates are dropped from the output, as are points carrying
// the vendor's null-date marker.
func Reconcile(prices []model.PricePoint, volumes []model.VolumePoint, opts Options) []model.MergedBar {
	bars := make([]model.MergedBar, 0, min(len(prices), len(volumes)))

	i, j := 0, 0
	for i < len(prices) && j < len(volumes) {
		p := prices[i]
		if p.IsSentinel() {
			i++
			continue
		}
		v := volumes[j]
		if v.IsSentinel() {
			j++
			continue
		}

		pd, vd := p.Date.Truncate(24*time.Hour), v.Date.Truncate(24*time.Hour)
		switch {
		case pd.Before(vd):
			i++
		case vd.Before(pd):
			j++
		default:
			bar := mergeBar(pd, p, v)
			if !(opts.DropZeroVolume && bar.Volume == 0) {
				bars = append(bars, bar)
			}
			i++
			j++
		}
	}

	return bars
}

func mergeBar(date time.Time, p model.PricePoint, v model.VolumePoint) model.MergedBar {
	bar := model.MergedBar{Date: date}
	if p.Open != nil {
		bar.Open = *p.Open
	}
	if p.High != nil {
		bar.High = *p.High
	}
	if p.Low != nil {
		bar.Low = *p.Low
	}
	if p.Close != nil {
		bar.Close = *p.Close
	}
	if v.Volume != nil {
		bar.Volume = *v.Volume
	}
	return bar
}

// FilterWindow keeps bars that overlap the requested window: a daily bar
// dated D spans [D, D+24h), so it is kept when its end falls after the
// window start and its start falls before the window end.
func FilterWindow(bars []model.MergedBar, start, end time.Time) []model.MergedBar {
	out := make([]model.MergedBar, 0, len(bars))
	for _, bar := range bars {
		barEnd := bar.Date.Add(24 * time.Hour)
		if !barEnd.Before(start) && !bar.Date.After(end) {
			out = append(out, bar)
		}
	}
	return out
}
