package config

import (
	"errors"
	"fmt"
)

// Validate checks that all required fields are set and values are valid.
func (c *AdapterConfig) Validate() error {
	if c.API.APIKey == "" {
		return errors.New("api.api_key is required")
	}
	if c.API.MaxRetries < 1 {
		return errors.New("api.max_retries must be >= 1")
	}
	if c.API.RetryDelay < 0 {
		return errors.New("api.retry_delay must be >= 0")
	}
	if c.API.RateLimit.Requests < 1 {
		return errors.New("api.rate_limit.requests must be >= 1")
	}
	if c.API.RateLimit.Window <= 0 {
		return errors.New("api.rate_limit.window must be > 0")
	}

	if c.Downloader.BatchSize < 1 {
		return errors.New("downloader.batch_size must be >= 1")
	}
	if c.Downloader.BatchParallelism < 1 {
		return errors.New("downloader.batch_parallelism must be >= 1")
	}
	if c.Downloader.ContractParallelism < 1 {
		return errors.New("downloader.contract_parallelism must be >= 1")
	}

	if c.Archive.Enabled && c.Archive.Dir == "" {
		return errors.New("archive.dir is required when archive.enabled")
	}
	switch c.Archive.Format {
	case "", "json", "parquet":
	default:
		return fmt.Errorf("archive.format %q not supported (use json or parquet)", c.Archive.Format)
	}

	return nil
}
