package config

import (
	"fmt"
	"os"
	"strings"
)

// Environment overrides applied after the file is read.
const (
	EnvMapPath = "LOGDOC_MAP"
	EnvService = "LOGDOC_SERVICE"
)

func (c *Config) normalize() error {
	if err := c.normalizeIndex(); err != nil {
		return err
	}
	if err := c.normalizeResolve(); err != nil {
		return err
	}
	c.normalizeEnrich()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizeIndex() error {
	if value, ok := os.LookupEnv(EnvMapPath); ok && strings.TrimSpace(value) != "" {
		c.Index.MapPath = strings.TrimSpace(value)
	}
	if strings.TrimSpace(c.Index.Root) == "" {
		c.Index.Root = defaultIndexRoot
	}
	if strings.TrimSpace(c.Index.MapPath) == "" {
		c.Index.MapPath = defaultMapPath
	}
	var err error
	if c.Index.Root, err = expandPath(c.Index.Root); err != nil {
		return fmt.Errorf("index.root: %w", err)
	}
	if c.Index.MapPath, err = expandPath(c.Index.MapPath); err != nil {
		return fmt.Errorf("index.map_path: %w", err)
	}
	c.Index.Format = strings.ToLower(strings.TrimSpace(c.Index.Format))
	exclude := c.Index.Exclude[:0]
	for _, pattern := range c.Index.Exclude {
		if pattern = strings.TrimSpace(pattern); pattern != "" {
			exclude = append(exclude, pattern)
		}
	}
	c.Index.Exclude = exclude
	return nil
}

func (c *Config) normalizeResolve() error {
	if strings.TrimSpace(c.Resolve.Root) == "" {
		c.Resolve.Root = c.Index.Root
	} else {
		var err error
		if c.Resolve.Root, err = expandPath(c.Resolve.Root); err != nil {
			return fmt.Errorf("resolve.root: %w", err)
		}
	}
	c.Resolve.ModulePrefix = strings.Trim(strings.TrimSpace(c.Resolve.ModulePrefix), "/")
	for i := range c.Resolve.Rewrites {
		rw := &c.Resolve.Rewrites[i]
		rw.FromDir = strings.TrimSpace(rw.FromDir)
		rw.ToDir = strings.TrimSpace(rw.ToDir)
		rw.FromExt = strings.TrimSpace(rw.FromExt)
		rw.ToExt = strings.TrimSpace(rw.ToExt)
	}
	return nil
}

func (c *Config) normalizeEnrich() {
	if value, ok := os.LookupEnv(EnvService); ok && strings.TrimSpace(value) != "" {
		c.Enrich.Service = value
	}
	c.Enrich.Service = strings.TrimSpace(c.Enrich.Service)
	if c.Enrich.Service == "" {
		c.Enrich.Service = defaultService
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
