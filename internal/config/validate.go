package config

import (
	"fmt"
	"net/url"
)

// Validate performs business-rule validation on the loaded configuration.
// It must be called after loading; Load calls it automatically.
func (c *Config) Validate() error {
	if len(c.Corpus.TextbookNotes) == 0 {
		return fmt.Errorf("corpus.textbook_notes must list at least one file")
	}
	if c.Corpus.PageSize <= 0 {
		return fmt.Errorf("corpus.page_size must be > 0 (got %d)", c.Corpus.PageSize)
	}

	if err := c.Frequency.validate(); err != nil {
		return fmt.Errorf("frequency: %w", err)
	}

	if c.RateLimit.Enabled && c.RateLimit.RequestsPerMinute <= 0 {
		return fmt.Errorf("rate_limit.requests_per_minute must be > 0 (got %d)", c.RateLimit.RequestsPerMinute)
	}

	if c.Zdic.Enabled {
		if err := c.Zdic.validate(); err != nil {
			return fmt.Errorf("zdic: %w", err)
		}
	}

	return nil
}

func (f *FrequencyConfig) validate() error {
	if f.TextbookWeight < 0 || f.DatasetWeight < 0 || f.QueryWeight < 0 {
		return fmt.Errorf("weights must be >= 0 (got %d/%d/%d)", f.TextbookWeight, f.DatasetWeight, f.QueryWeight)
	}
	if f.TextbookWeight+f.DatasetWeight+f.QueryWeight == 0 {
		return fmt.Errorf("at least one weight must be > 0")
	}
	return nil
}

func (z *ZdicConfig) validate() error {
	u, err := url.Parse(z.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("base_url must be an absolute URL (got %q)", z.BaseURL)
	}
	if z.Timeout <= 0 {
		return fmt.Errorf("timeout must be > 0 (got %v)", z.Timeout)
	}
	switch z.Cache {
	case CachePostgres:
	case CacheSQLite:
		if z.SQLitePath == "" {
			return fmt.Errorf("sqlite_path is required for the sqlite cache")
		}
	default:
		return fmt.Errorf("cache must be %q or %q (got %q)", CachePostgres, CacheSQLite, z.Cache)
	}
	return nil
}
