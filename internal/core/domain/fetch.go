// Package domain contains the core types of the bnss pipeline: fetch
// outcomes, the URL manifest, the retry policy, and dataset rows.
package domain

import (
	"time"
)

// FetchStatus describes how a single URL fetch ended.
type FetchStatus string

const (
	// StatusFetched indicates a fresh body was retrieved and cached.
	StatusFetched FetchStatus = "fetched"
	// StatusNotModified indicates the portal confirmed the cached copy is current.
	StatusNotModified FetchStatus = "not_modified"
	// StatusError indicates the fetch failed after exhausting its options.
	StatusError FetchStatus = "error"
)

// FetchOutcome is the per-URL result of one fetch attempt sequence.
// It is produced by the fetch engine and consumed by the batch report;
// it is not persisted beyond the per-run report document.
type FetchOutcome struct {
	URL         string      `json:"url"`
	Succeeded   bool        `json:"succeeded"`
	Status      FetchStatus `json:"status"`
	ErrorDetail string      `json:"error_detail,omitempty"`
	Attempts    int         `json:"attempts"`
	ContentHash string      `json:"content_hash,omitempty"`
	LocalPath   string      `json:"local_path,omitempty"`
	FetchedAt   time.Time   `json:"fetched_at"`
}

// BatchReport aggregates the outcomes of one FetchMany invocation.
type BatchReport struct {
	AsOf     string         `json:"as_of"`
	Outcomes []FetchOutcome `json:"outcomes"`
}

// Counts returns the number of fetched, not-modified and error outcomes.
func (r BatchReport) Counts() (fetched, notModified, errored int) {
	for _, o := range r.Outcomes {
		switch o.Status {
		case StatusFetched:
			fetched++
		case StatusNotModified:
			notModified++
		case StatusError:
			errored++
		}
	}
	return fetched, notModified, errored
}

// HasFailures reports whether any outcome in the batch ended in error.
func (r BatchReport) HasFailures() bool {
	_, _, errored := r.Counts()
	return errored > 0
}

// ValidateAsOf checks that an as-of version label is a YYYY-MM-DD date.
func ValidateAsOf(asOf string) error {
	if _, err := time.Parse("2006-01-02", asOf); err != nil {
		return ErrInvalidAsOf
	}
	return nil
}

// TodayAsOf returns today's date in UTC as an as-of label.
func TodayAsOf(now time.Time) string {
	return now.UTC().Format("2006-01-02")
}

// VersionLabel returns the dataset version string for an as-of date,
// e.g. "bnss@2026-01-10".
func VersionLabel(asOf string) string {
	return "bnss@" + asOf
}
