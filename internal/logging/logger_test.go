package logging_test

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"logdoc/internal/config"
	"logdoc/internal/logging"
)

func readLines(t *testing.T, path string) []string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	return strings.Split(strings.TrimRight(string(content), "\n"), "\n")
}

func TestFileOutputIsAlwaysJSON(t *testing.T) {
	t.Setenv(logging.EnvLevel, "")
	logPath := filepath.Join(t.TempDir(), "nested", "logdoc.log")

	logger, err := logging.New(logging.Options{
		Format:      "console",
		Level:       "info",
		OutputPaths: []string{logPath},
		RunID:       "run-7",
	})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	logger.Debug("hidden")
	logger.Info("visible", logging.String("k", "v"))

	lines := readLines(t, logPath)
	if len(lines) != 1 {
		t.Fatalf("expected exactly one record, got %q", lines)
	}
	var record map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &record); err != nil {
		t.Fatalf("file output is not JSON: %v", err)
	}
	if record["msg"] != "visible" || record["k"] != "v" || record[logging.FieldRunID] != "run-7" {
		t.Fatalf("unexpected record %v", record)
	}
	if _, ok := record["source"]; ok {
		t.Fatalf("expected no source at info level, got %v", record["source"])
	}
}

func TestEnvLevelOverridesConfiguredLevel(t *testing.T) {
	t.Setenv(logging.EnvLevel, "debug")
	logPath := filepath.Join(t.TempDir(), "debug.log")

	logger, err := logging.New(logging.Options{Format: "json", Level: "error", OutputPaths: []string{logPath}})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	logger.Debug("now visible")

	lines := readLines(t, logPath)
	if len(lines) != 1 || !strings.Contains(lines[0], "now visible") {
		t.Fatalf("expected debug record, got %q", lines)
	}
	if !strings.Contains(lines[0], `"source":"logger_test.go:`) {
		t.Fatalf("expected caller at debug level, got %q", lines[0])
	}
}

func TestNewRejectsUnknownFormat(t *testing.T) {
	if _, err := logging.New(logging.Options{Format: "xml"}); err == nil {
		t.Fatal("expected error for unsupported format")
	}
}

func TestNewInvalidLevelDefaultsToInfo(t *testing.T) {
	t.Setenv(logging.EnvLevel, "")
	logPath := filepath.Join(t.TempDir(), "info.log")
	logger, err := logging.New(logging.Options{Format: "json", Level: "invalid", OutputPaths: []string{logPath}})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	logger.Debug("dropped")
	logger.Info("kept")
	if lines := readLines(t, logPath); len(lines) != 1 || !strings.Contains(lines[0], "kept") {
		t.Fatalf("expected only the info record, got %q", lines)
	}
}

func TestNewFromConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Logging.Format = "json"
	logger, err := logging.NewFromConfig(&cfg)
	if err != nil {
		t.Fatalf("NewFromConfig returned error: %v", err)
	}
	if logger == nil {
		t.Fatal("expected logger instance")
	}
	if _, err := logging.NewFromConfig(nil); err != nil {
		t.Fatalf("NewFromConfig(nil) returned error: %v", err)
	}
}

func TestWarnWithContextInjectsDefaults(t *testing.T) {
	t.Setenv(logging.EnvLevel, "")
	logPath := filepath.Join(t.TempDir(), "warn.log")
	logger, err := logging.New(logging.Options{Format: "json", OutputPaths: []string{logPath}})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	logging.WarnWithContext(logger, "file skipped", "index_skip", logging.String(logging.FieldImpact, "file has no descriptions"))
	logging.WarnWithContext(nil, "ignored", "noop")

	var record map[string]any
	if err := json.Unmarshal([]byte(readLines(t, logPath)[0]), &record); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if record[logging.FieldEventType] != "index_skip" {
		t.Errorf("unexpected event type %v", record[logging.FieldEventType])
	}
	if record[logging.FieldImpact] != "file has no descriptions" {
		t.Errorf("explicit impact was replaced: %v", record[logging.FieldImpact])
	}
	if hint, _ := record[logging.FieldErrorHint].(string); hint == "" {
		t.Error("expected default error hint")
	}
	if record["level"] != "warn" {
		t.Errorf("unexpected level %v", record["level"])
	}
}

func TestNewComponentLoggerNilBase(t *testing.T) {
	logging.NewComponentLogger(nil, "docindex").Info("discarded")
}
