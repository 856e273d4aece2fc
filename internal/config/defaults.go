package config

const (
	defaultUserConfig     = "~/.config/logdoc/config.toml"
	projectConfigName     = "logdoc.toml"
	defaultIndexRoot      = "."
	defaultMapPath        = "logdoc.json"
	defaultService        = "logdoc"
	defaultSnippetContext = 3
	defaultLogFormat      = "auto"
	defaultLogLevel       = "info"
)

// Default returns a Config populated with defaults. Paths are not yet
// expanded.
func Default() Config {
	return Config{
		Index: Index{
			Root:    defaultIndexRoot,
			MapPath: defaultMapPath,
		},
		Enrich: Enrich{
			Service:        defaultService,
			SnippetContext: defaultSnippetContext,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
