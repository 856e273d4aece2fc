package main

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"logdoc/internal/config"
	"logdoc/internal/docmap"
	"logdoc/internal/logging"
)

type commandContext struct {
	configFlag *string
	quietFlag  *bool

	configOnce sync.Once
	config     *config.Config
	configPath string
	configSeen bool
	configErr  error

	loggerOnce sync.Once
	logger     *slog.Logger
	loggerErr  error
}

func newCommandContext(configFlag *string, quietFlag *bool) *commandContext {
	return &commandContext{
		configFlag: configFlag,
		quietFlag:  quietFlag,
	}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, resolved, exists, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
		c.configPath = resolved
		c.configSeen = exists
	})
	return c.config, c.configErr
}

// ensureLogger builds the diagnostics logger from the [logging] section.
func (c *commandContext) ensureLogger() (*slog.Logger, error) {
	c.loggerOnce.Do(func() {
		cfg, err := c.ensureConfig()
		if err != nil {
			c.loggerErr = err
			return
		}
		logger, err := logging.NewFromConfig(cfg)
		if err != nil {
			c.loggerErr = fmt.Errorf("init logging: %w", err)
			return
		}
		if c.quietFlag != nil && *c.quietFlag {
			logger = logging.WithLevelOverride(logger, slog.LevelWarn)
		}
		c.logger = logger
	})
	return c.logger, c.loggerErr
}

// mapFormat resolves the map format, letting a non-empty flag win over config.
func (c *commandContext) mapFormat(flag, path string) (docmap.Format, error) {
	value := strings.TrimSpace(flag)
	if value == "" && c.config != nil && path == c.config.Index.MapPath {
		value = c.config.Index.Format
	}
	return docmap.ParseFormat(value, path)
}

// loadMap reads the configured declaration map. Unlike the runtime engine
// the CLI treats a missing map as an error.
func (c *commandContext) loadMap(ctx context.Context) (docmap.Map, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	format, err := c.mapFormat("", cfg.Index.MapPath)
	if err != nil {
		return nil, err
	}
	m, err := docmap.Load(ctx, cfg.Index.MapPath, format)
	if err != nil {
		return nil, fmt.Errorf("load declaration map (run `logdoc index` first): %w", err)
	}
	return m, nil
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}
