package config

import "time"

// Default values for optional configuration fields.
const (
	DefaultBaseURL             = "https://restapi.ivolatility.com"
	DefaultAPITimeout          = 30 * time.Second
	DefaultMaxRetries          = 5
	DefaultRetryDelay          = 5 * time.Second
	DefaultRateRequests        = 40
	DefaultRateWindow          = time.Minute
	DefaultBatchSize           = 100
	DefaultBatchParallelism    = 10
	DefaultContractParallelism = 16
	DefaultArchiveDir          = "raw"
	DefaultArchiveFormat       = "json"
	DefaultLogLevel            = "info"
)

func (c *AdapterConfig) applyDefaults() {
	// API defaults
	if c.API.BaseURL == "" {
		c.API.BaseURL = DefaultBaseURL
	}
	if c.API.Timeout == 0 {
		c.API.Timeout = DefaultAPITimeout
	}
	if c.API.MaxRetries == 0 {
		c.API.MaxRetries = DefaultMaxRetries
	}
	if c.API.RetryDelay == 0 {
		c.API.RetryDelay = DefaultRetryDelay
	}
	if c.API.RateLimit.Requests == 0 {
		c.API.RateLimit.Requests = DefaultRateRequests
	}
	if c.API.RateLimit.Window == 0 {
		c.API.RateLimit.Window = DefaultRateWindow
	}

	// Downloader defaults
	if c.Downloader.BatchSize == 0 {
		c.Downloader.BatchSize = DefaultBatchSize
	}
	if c.Downloader.BatchParallelism == 0 {
		c.Downloader.BatchParallelism = DefaultBatchParallelism
	}
	if c.Downloader.ContractParallelism == 0 {
		c.Downloader.ContractParallelism = DefaultContractParallelism
	}

	// Archive defaults
	if c.Archive.Dir == "" {
		c.Archive.Dir = DefaultArchiveDir
	}
	if c.Archive.Format == "" {
		c.Archive.Format = DefaultArchiveFormat
	}

	// Logging defaults
	if c.Logging.Level == "" {
		c.Logging.Level = DefaultLogLevel
	}
}
