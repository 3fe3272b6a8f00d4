// Package config provides the configuration loader for bnss.
package config

import (
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/lexindex/bnss/internal/core/domain"
	"github.com/lexindex/bnss/internal/core/ports"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

// Loader implements ports.ConfigLoader using a YAML file plus BNSS_*
// environment overrides.
type Loader struct {
	Logger ports.Logger
}

// NewLoader creates a new Loader with the given logger.
func NewLoader(logger ports.Logger) *Loader {
	return &Loader{Logger: logger}
}

// Load builds the effective settings: bnss.yaml values layered over the
// defaults, then environment overrides on top. A missing config file is not
// an error; the defaults anchored at cwd apply.
func (l *Loader) Load(cwd string) (*domain.Settings, error) {
	settings := domain.DefaultSettings()
	settings.DataRoot = cwd

	configPath, err := l.findConfiguration(cwd)
	if err == nil {
		if err := applyFile(configPath, &settings); err != nil {
			return nil, err
		}
	}

	if err := applyEnv(&settings); err != nil {
		return nil, err
	}

	if err := settings.Validate(); err != nil {
		return nil, err
	}
	return &settings, nil
}

// DiscoverRoot walks up from cwd to the directory containing bnss.yaml.
// Falls back to cwd when no config file exists anywhere above.
func (l *Loader) DiscoverRoot(cwd string) (string, error) {
	configPath, err := l.findConfiguration(cwd)
	if err != nil {
		return cwd, nil
	}
	return filepath.Dir(configPath), nil
}

func (l *Loader) findConfiguration(cwd string) (string, error) {
	currentDir := cwd
	for {
		configPath := filepath.Join(currentDir, domain.ConfigFileName)
		if _, err := os.Stat(configPath); err == nil {
			return configPath, nil
		}

		parentDir := filepath.Dir(currentDir)
		if parentDir == currentDir {
			// Reached root
			break
		}
		currentDir = parentDir
	}

	return "", zerr.With(domain.ErrConfigNotFound, "cwd", cwd)
}

func applyFile(configPath string, settings *domain.Settings) error {
	//nolint:gosec // Path was discovered by walking up from the working directory
	data, err := os.ReadFile(configPath)
	if err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrConfigReadFailed.Error()), "path", configPath)
	}

	var file File
	if err := yaml.Unmarshal(data, &file); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrConfigParseFailed.Error()), "path", configPath)
	}

	configDir := filepath.Dir(configPath)
	switch {
	case file.DataRoot == "":
		settings.DataRoot = configDir
	case filepath.IsAbs(file.DataRoot):
		settings.DataRoot = file.DataRoot
	default:
		settings.DataRoot = filepath.Join(configDir, file.DataRoot)
	}

	setString(&settings.UserAgent, file.Portal.UserAgent)
	setString(&settings.AcceptLanguage, file.Portal.AcceptLanguage)
	setString(&settings.SourceIndexURL, file.Portal.IndexURL)
	setString(&settings.SourceTableURL, file.Portal.TableURL)
	if err := setDuration(&settings.RequestTimeout, "portal.request_timeout", file.Portal.RequestTimeout); err != nil {
		return err
	}

	if file.Retry.MaxAttempts != 0 {
		settings.MaxAttempts = file.Retry.MaxAttempts
	}
	if err := setDuration(&settings.MinDelay, "retry.min_delay", file.Retry.MinDelay); err != nil {
		return err
	}
	if err := setDuration(&settings.BackoffMin, "retry.backoff_min", file.Retry.BackoffMin); err != nil {
		return err
	}
	if err := setDuration(&settings.BackoffMax, "retry.backoff_max", file.Retry.BackoffMax); err != nil {
		return err
	}
	if err := setDuration(&settings.BackoffJitter, "retry.backoff_jitter", file.Retry.BackoffJitter); err != nil {
		return err
	}
	if file.Retry.BackoffMultiplier != 0 {
		settings.BackoffMultiplier = file.Retry.BackoffMultiplier
	}
	if len(file.Retry.RetryableStatuses) > 0 {
		settings.RetryableStatuses = file.Retry.RetryableStatuses
	}

	if file.KeepVersions != nil {
		settings.KeepVersions = *file.KeepVersions
	}

	return nil
}

// Environment override names. Each takes precedence over bnss.yaml.
const (
	EnvDataRoot       = "BNSS_DATA_ROOT"
	EnvUserAgent      = "BNSS_USER_AGENT"
	EnvAcceptLanguage = "BNSS_ACCEPT_LANGUAGE"
	EnvIndexURL       = "BNSS_INDEX_URL"
	EnvTableURL       = "BNSS_TABLE_URL"
	EnvRequestTimeout = "BNSS_REQUEST_TIMEOUT"
	EnvMaxAttempts    = "BNSS_MAX_ATTEMPTS"
	EnvMinDelay       = "BNSS_MIN_DELAY"
	EnvKeepVersions   = "BNSS_KEEP_VERSIONS"
)

func applyEnv(settings *domain.Settings) error {
	setString(&settings.DataRoot, os.Getenv(EnvDataRoot))
	setString(&settings.UserAgent, os.Getenv(EnvUserAgent))
	setString(&settings.AcceptLanguage, os.Getenv(EnvAcceptLanguage))
	setString(&settings.SourceIndexURL, os.Getenv(EnvIndexURL))
	setString(&settings.SourceTableURL, os.Getenv(EnvTableURL))

	if err := setDuration(&settings.RequestTimeout, EnvRequestTimeout, os.Getenv(EnvRequestTimeout)); err != nil {
		return err
	}
	if err := setDuration(&settings.MinDelay, EnvMinDelay, os.Getenv(EnvMinDelay)); err != nil {
		return err
	}

	if v := os.Getenv(EnvMaxAttempts); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return zerr.With(zerr.Wrap(err, domain.ErrConfigParseFailed.Error()), "field", EnvMaxAttempts)
		}
		settings.MaxAttempts = n
	}

	if v := os.Getenv(EnvKeepVersions); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return zerr.With(zerr.Wrap(err, domain.ErrConfigParseFailed.Error()), "field", EnvKeepVersions)
		}
		settings.KeepVersions = b
	}

	return nil
}

func setString(dst *string, value string) {
	if value != "" {
		*dst = value
	}
}

func setDuration(dst *time.Duration, field, value string) error {
	if value == "" {
		return nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrConfigParseFailed.Error()), "field", field)
	}
	*dst = d
	return nil
}
