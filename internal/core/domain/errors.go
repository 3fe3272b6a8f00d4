package domain

import "go.trai.ch/zerr"

var (
	// ErrInvalidAsOf is returned when an as-of version label is not a YYYY-MM-DD date.
	ErrInvalidAsOf = zerr.New("as-of must be a YYYY-MM-DD date")

	// ErrUnknownSource is returned when a source preset is not recognized.
	ErrUnknownSource = zerr.New("unknown source preset")

	// ErrFetchRequestFailed is returned when an HTTP request could not be issued or completed.
	ErrFetchRequestFailed = zerr.New("fetch request failed")

	// ErrRetryableStatus is returned when the portal answered with a retryable status code.
	ErrRetryableStatus = zerr.New("retryable status from portal")

	// ErrRateLimited is returned when the portal answered with a rate-limit status.
	ErrRateLimited = zerr.New("rate limited by portal")

	// ErrPermanentStatus is returned when the portal answered with a non-retryable error status.
	ErrPermanentStatus = zerr.New("permanent error status from portal")

	// ErrPermanentRequest is returned when the request can never succeed:
	// bad URL, failed name resolution, malformed response.
	ErrPermanentRequest = zerr.New("permanent request failure")

	// ErrNotModifiedWithoutCache is returned when the portal answered 304 but no cached copy exists.
	ErrNotModifiedWithoutCache = zerr.New("not-modified response without a cached copy")

	// ErrAttemptsExhausted is returned when the retry budget for a URL is spent.
	ErrAttemptsExhausted = zerr.New("retry attempts exhausted")

	// ErrCacheWriteFailed is returned when a cached page body cannot be written.
	ErrCacheWriteFailed = zerr.New("failed to write cache entry")

	// ErrCacheReadFailed is returned when a cached page body cannot be read.
	ErrCacheReadFailed = zerr.New("failed to read cache entry")

	// ErrCacheDirUnavailable is returned when the cache directory cannot be created.
	ErrCacheDirUnavailable = zerr.New("failed to create cache directory")

	// ErrManifestCorrupt is returned when the manifest document cannot be parsed.
	// Fatal to a whole batch: without validators there is no safe way to proceed.
	ErrManifestCorrupt = zerr.New("manifest document is corrupt")

	// ErrManifestReadFailed is returned when the manifest document cannot be read.
	ErrManifestReadFailed = zerr.New("failed to read manifest")

	// ErrManifestWriteFailed is returned when the manifest document cannot be written.
	ErrManifestWriteFailed = zerr.New("failed to write manifest")

	// ErrManifestEntryMissing is returned when a URL has no manifest record.
	ErrManifestEntryMissing = zerr.New("no manifest record for url")

	// ErrFetchBatchHadFailures is returned by the fetch command when at least
	// one URL in the batch ended in an error outcome.
	ErrFetchBatchHadFailures = zerr.New("fetch batch completed with failures")

	// ErrConfigNotFound is returned when no bnss.yaml could be located.
	ErrConfigNotFound = zerr.New("could not find bnss.yaml")

	// ErrConfigReadFailed is returned when the config file cannot be read.
	ErrConfigReadFailed = zerr.New("failed to read config file")

	// ErrConfigParseFailed is returned when the config file cannot be parsed.
	ErrConfigParseFailed = zerr.New("failed to parse config file")

	// ErrConfigInvalid is returned when a configuration value is out of range.
	ErrConfigInvalid = zerr.New("invalid configuration value")

	// ErrParseNoChapters is returned when the section index HTML contains no chapter headings.
	ErrParseNoChapters = zerr.New("no chapter headings found in section index")

	// ErrParseNoSections is returned when the section index HTML yields zero section rows.
	ErrParseNoSections = zerr.New("section index parse produced no rows")

	// ErrParseNoTable is returned when the crosswalk HTML contains no table.
	ErrParseNoTable = zerr.New("no table found in crosswalk page")

	// ErrParseNoCrosswalkRows is returned when the crosswalk table yields zero rows.
	ErrParseNoCrosswalkRows = zerr.New("crosswalk parse produced no rows")

	// ErrDatasetWriteFailed is returned when a dataset file cannot be written.
	ErrDatasetWriteFailed = zerr.New("failed to write dataset")

	// ErrDatasetReadFailed is returned when a dataset file cannot be read.
	ErrDatasetReadFailed = zerr.New("failed to read dataset")

	// ErrValidationFailed is returned when one or more dataset checks failed.
	ErrValidationFailed = zerr.New("dataset validation failed")

	// ErrEtlFailed is returned when the etl step fails.
	ErrEtlFailed = zerr.New("etl failed")
)
