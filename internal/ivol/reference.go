package ivol

import (
	"context"
	"fmt"
	"net/url"
	"strings"
)

// GetOptionReference fetches contract metadata for a batch of vendor
// symbols. Symbols may be OCC21 strings or FOS ids; the endpoint accepts
// both addressing schemes. A batch the vendor knows nothing about comes
// back as a single sentinel record, which is returned as an empty slice.
func (c *Client) GetOptionReference(ctx context.Context, symbols []string) ([]ReferenceRecord, error) {
	if len(symbols) == 0 {
		return nil, nil
	}

	query := url.Values{}
	query.Set("symbols", strings.Join(symbols, ","))

	var resp ReferenceResponse
	if err := c.get(ctx, "/options/reference", query, &resp); err != nil {
		return nil, fmt.Errorf("get option reference: %w", err)
	}

	if len(resp.Data) == 1 && resp.Data[0].IsSentinel() {
		c.logger.Debug("vendor returned no-data sentinel", "endpoint", "/options/reference")
		return []ReferenceRecord{}, nil
	}

	return resp.Data, nil
}
