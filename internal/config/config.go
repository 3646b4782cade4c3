package config

import "time"

// AdapterConfig is the root configuration for the data adapter.
type AdapterConfig struct {
	API        APIConfig        `yaml:"api"`
	Downloader DownloaderConfig `yaml:"downloader"`
	Archive    ArchiveConfig    `yaml:"archive"`
	Logging    LoggingConfig    `yaml:"logging"`
}

// APIConfig holds vendor API settings.
type APIConfig struct {
	BaseURL    string        `yaml:"base_url"`
	APIKey     string        `yaml:"api_key"`
	Timeout    time.Duration `yaml:"timeout"`
	MaxRetries int           `yaml:"max_retries"` // Total attempts, including the first
	RetryDelay time.Duration `yaml:"retry_delay"` // Fixed delay before each retry
	RateLimit  RateConfig    `yaml:"rate_limit"`
}

// RateConfig describes the permit budget for outbound vendor calls.
type RateConfig struct {
	Requests int           `yaml:"requests"` // Permits per window
	Window   time.Duration `yaml:"window"`
}

// DownloaderConfig holds batch orchestration settings.
type DownloaderConfig struct {
	BatchSize           int `yaml:"batch_size"`           // Ids per reference-lookup batch
	BatchParallelism    int `yaml:"batch_parallelism"`    // Concurrent reference batches
	ContractParallelism int `yaml:"contract_parallelism"` // Concurrent per-contract history fetches
}

// ArchiveConfig holds raw-response archiving settings.
type ArchiveConfig struct {
	Enabled bool   `yaml:"enabled"`
	Dir     string `yaml:"dir"`
	Format  string `yaml:"format"` // "json" or "parquet"
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error
}
