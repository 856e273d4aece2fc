package config

import (
	"errors"
	"fmt"
	"path/filepath"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateIndex(); err != nil {
		return err
	}
	if err := c.validateResolve(); err != nil {
		return err
	}
	if c.Enrich.SnippetContext < 0 {
		return errors.New("enrich.snippet_context must be zero or positive")
	}
	return c.validateLogging()
}

func (c *Config) validateIndex() error {
	switch c.Index.Format {
	case "", "json", "sqlite":
	default:
		return fmt.Errorf("index.format: unsupported value %q (want json or sqlite)", c.Index.Format)
	}
	for _, pattern := range c.Index.Exclude {
		if _, err := filepath.Match(pattern, ""); err != nil {
			return fmt.Errorf("index.exclude: invalid pattern %q: %w", pattern, err)
		}
	}
	return nil
}

func (c *Config) validateResolve() error {
	for i, rw := range c.Resolve.Rewrites {
		if rw.FromDir == "" && rw.FromExt == "" {
			return fmt.Errorf("resolve.rewrites[%d]: from_dir or from_ext must be set", i)
		}
		if rw.ToExt != "" && rw.FromExt == "" {
			return fmt.Errorf("resolve.rewrites[%d]: to_ext requires from_ext", i)
		}
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json", "auto":
	default:
		return fmt.Errorf("logging.format: unsupported value %q (want console, json or auto)", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}
	return nil
}
