package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"logdoc/internal/config"
	"logdoc/internal/logging"
	"logdoc/internal/testsupport"
)

const handlerSource = `package app

// Serve handles one request.
//
// More detail.
func Serve() {}

//logdoc:nolog
// Quiet does nothing.
func Quiet() {}

func Bare() {}
`

type cliTestEnv struct {
	cfg        *config.Config
	configPath string
	sourcePath string
}

func setupCLITestEnv(t *testing.T, opts ...testsupport.ConfigOption) *cliTestEnv {
	t.Helper()

	t.Setenv("HOME", t.TempDir())
	t.Setenv(config.EnvConfigPath, "")
	t.Setenv(config.EnvMapPath, "")
	t.Setenv(config.EnvService, "")
	t.Setenv(logging.EnvLevel, "")

	cfg := testsupport.NewConfig(t, opts...)
	source := testsupport.WriteSource(t, cfg.Index.Root, "app/handler.go", handlerSource)

	configPath := filepath.Join(filepath.Dir(cfg.Index.MapPath), "logdoc.toml")
	writeTestConfig(t, configPath, cfg)

	return &cliTestEnv{cfg: cfg, configPath: configPath, sourcePath: source}
}

func writeTestConfig(t *testing.T, path string, cfg *config.Config) {
	t.Helper()
	data, err := toml.Marshal(cfg)
	if err != nil {
		t.Fatalf("marshal config: %v", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
}

func runCLI(t *testing.T, args []string, configPath string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	var flags []string
	if configPath != "" {
		flags = append(flags, "--config", configPath)
	}
	cmd.SetArgs(append(flags, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}
