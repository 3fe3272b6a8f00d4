package config

// File mirrors the structure of the bnss.yaml configuration file.
// All fields are optional; absent values keep their defaults.
type File struct {
	DataRoot string `yaml:"data_root"`

	Portal PortalSection `yaml:"portal"`
	Retry  RetrySection  `yaml:"retry"`

	// KeepVersions is a pointer so "explicitly false" can be told apart
	// from "not set".
	KeepVersions *bool `yaml:"keep_versions"`
}

// PortalSection configures the HTTP client.
type PortalSection struct {
	UserAgent      string `yaml:"user_agent"`
	AcceptLanguage string `yaml:"accept_language"`
	IndexURL       string `yaml:"index_url"`
	TableURL       string `yaml:"table_url"`
	RequestTimeout string `yaml:"request_timeout"`
}

// RetrySection configures pacing and the backoff schedule.
// Durations use Go syntax ("500ms", "2s").
type RetrySection struct {
	MaxAttempts       int     `yaml:"max_attempts"`
	MinDelay          string  `yaml:"min_delay"`
	BackoffMin        string  `yaml:"backoff_min"`
	BackoffMax        string  `yaml:"backoff_max"`
	BackoffMultiplier float64 `yaml:"backoff_multiplier"`
	BackoffJitter     string  `yaml:"backoff_jitter"`
	RetryableStatuses []int   `yaml:"retryable_statuses"`
}
