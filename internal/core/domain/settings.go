package domain

import (
	"path/filepath"
	"time"
)

// Settings is the immutable pipeline configuration shared by all components.
// It is produced once by the config loader and passed by value.
type Settings struct {
	// DataRoot anchors the raw, manifests and datasets directories.
	DataRoot string

	UserAgent      string
	AcceptLanguage string

	// SourceIndexURL and SourceTableURL are the cytrain portal pages.
	SourceIndexURL string
	SourceTableURL string

	RequestTimeout time.Duration
	MaxAttempts    int
	MinDelay       time.Duration

	BackoffMin        time.Duration
	BackoffMax        time.Duration
	BackoffMultiplier float64
	BackoffJitter     time.Duration

	// RetryableStatuses lists the HTTP status codes treated as transient.
	RetryableStatuses []int

	// KeepVersions retains older as-of cache directories for audit. When
	// false, `bnss clean --cache` is expected to prune them.
	KeepVersions bool
}

// DefaultSettings returns the settings used when no bnss.yaml exists.
func DefaultSettings() Settings {
	return Settings{
		DataRoot:          ".",
		UserAgent:         "bnss-pipeline/0.1 (+https://github.com/lexindex/bnss)",
		AcceptLanguage:    "en-IN,en;q=0.9",
		SourceIndexURL:    "https://cytrain.ncrb.gov.in/staticpage/web_pages/IndexBNSS.html",
		SourceTableURL:    "https://cytrain.ncrb.gov.in/staticpage/web_pages/SectionTableBNSS.html",
		RequestTimeout:    30 * time.Second,
		MaxAttempts:       5,
		MinDelay:          time.Second,
		BackoffMin:        time.Second,
		BackoffMax:        30 * time.Second,
		BackoffMultiplier: 2.0,
		BackoffJitter:     500 * time.Millisecond,
		RetryableStatuses: []int{408, 429, 500, 502, 503, 504},
		KeepVersions:      true,
	}
}

// RawDir returns the cache directory for page bodies.
func (s Settings) RawDir() string {
	return filepath.Join(s.DataRoot, RawDirName)
}

// ManifestsDir returns the directory of the manifest and fetch reports.
func (s Settings) ManifestsDir() string {
	return filepath.Join(s.DataRoot, ManifestsDirName)
}

// DatasetsDir returns the directory of derived datasets.
func (s Settings) DatasetsDir() string {
	return filepath.Join(s.DataRoot, DatasetsDirName)
}

// RetryPolicy derives the fetch retry policy from the settings.
func (s Settings) RetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts: s.MaxAttempts,
		MinDelay:    s.BackoffMin,
		MaxDelay:    s.BackoffMax,
		Multiplier:  s.BackoffMultiplier,
		Jitter:      s.BackoffJitter,
	}
}

// SeedURLs resolves a source preset to the URLs it covers.
func (s Settings) SeedURLs(source string) ([]string, error) {
	if source != "cytrain" {
		return nil, ErrUnknownSource
	}
	return []string{s.SourceIndexURL, s.SourceTableURL}, nil
}

// Validate checks that the settings are usable for a fetch run.
func (s Settings) Validate() error {
	if s.MaxAttempts < 1 {
		return ErrConfigInvalid
	}
	if s.BackoffMin <= 0 || s.BackoffMax < s.BackoffMin {
		return ErrConfigInvalid
	}
	if s.BackoffMultiplier < 1 {
		return ErrConfigInvalid
	}
	if s.RequestTimeout <= 0 {
		return ErrConfigInvalid
	}
	if s.MinDelay < 0 {
		return ErrConfigInvalid
	}
	return nil
}
