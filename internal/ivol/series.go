package ivol

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/quantlayer/ivol-data/internal/model"
)

// GetDailyPrices fetches the daily OHLC series for one contract.
// The vendor's no-data sentinel row yields an empty, non-nil slice.
func (c *Client) GetDailyPrices(ctx context.Context, fosID string, from, to time.Time) ([]model.PricePoint, error) {
	var resp PriceSeriesResponse
	if err := c.get(ctx, "/options/eod/prices", seriesQuery(fosID, from, to), &resp); err != nil {
		return nil, fmt.Errorf("get daily prices %s: %w", fosID, err)
	}

	if len(resp.Data) == 1 && resp.Data[0].Date == nil {
		c.logger.Debug("vendor returned no-data sentinel",
			"endpoint", "/options/eod/prices",
			"id", fosID,
		)
		return []model.PricePoint{}, nil
	}

	points := make([]model.PricePoint, 0, len(resp.Data))
	for _, row := range resp.Data {
		points = append(points, row.toPricePoint())
	}
	return points, nil
}

// GetDailyVolumes fetches the daily volume/open-interest series for one
// contract. Sentinel handling matches GetDailyPrices.
func (c *Client) GetDailyVolumes(ctx context.Context, fosID string, from, to time.Time) ([]model.VolumePoint, error) {
	var resp VolumeSeriesResponse
	if err := c.get(ctx, "/options/eod/volumes", seriesQuery(fosID, from, to), &resp); err != nil {
		return nil, fmt.Errorf("get daily volumes %s: %w", fosID, err)
	}

	if len(resp.Data) == 1 && resp.Data[0].Date == nil {
		c.logger.Debug("vendor returned no-data sentinel",
			"endpoint", "/options/eod/volumes",
			"id", fosID,
		)
		return []model.VolumePoint{}, nil
	}

	points := make([]model.VolumePoint, 0, len(resp.Data))
	for _, row := range resp.Data {
		points = append(points, row.toVolumePoint())
	}
	return points, nil
}

func seriesQuery(fosID string, from, to time.Time) url.Values {
	query := url.Values{}
	query.Set("id", fosID)
	query.Set("from", from.UTC().Format("2006-01-02"))
	query.Set("to", to.UTC().Format("2006-01-02"))
	return query
}
