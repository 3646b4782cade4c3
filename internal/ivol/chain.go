package ivol

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/quantlayer/ivol-data/internal/model"
)

// ScreenChain fetches the opaque contract ids for one underlying, option
// right and as-of date, following continuation pages. Each page acquires
// its own rate permit.
func (c *Client) ScreenChain(ctx context.Context, underlying string, right model.OptionRight, date time.Time) ([]string, error) {
	query := url.Values{}
	query.Set("underlying", underlying)
	query.Set("right", right.Letter())
	query.Set("date", date.UTC().Format("2006-01-02"))

	var ids []string
	path := "/options/chain"

	for path != "" {
		var resp ChainResponse
		if err := c.get(ctx, path, query, &resp); err != nil {
			return nil, fmt.Errorf("screen chain %s %s: %w", underlying, right, err)
		}

		if len(resp.Data) == 1 && resp.Data[0].OptionID == nil {
			c.logger.Debug("vendor returned no-data sentinel",
				"endpoint", "/options/chain",
				"underlying", underlying,
				"right", right.String(),
			)
			break
		}

		for _, entry := range resp.Data {
			if entry.OptionID == nil {
				continue
			}
			ids = append(ids, *entry.OptionID)
		}

		path = resp.Next
		query = nil // continuation path carries its own parameters
	}

	return ids, nil
}
