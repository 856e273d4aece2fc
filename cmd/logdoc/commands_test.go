package main

import (
	"encoding/json"
	"strconv"
	"strings"
	"testing"

	"logdoc/internal/testsupport"
)

func TestIndexShowLookupFlow(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"index"}, env.configPath)
	if err != nil {
		t.Fatalf("index: %v", err)
	}
	requireContains(t, out, "Indexed 1 of 1 files (3 spans)")
	requireContains(t, out, "Wrote json map to "+env.cfg.Index.MapPath)

	out, _, err = runCLI(t, []string{"show"}, env.configPath)
	if err != nil {
		t.Fatalf("show: %v", err)
	}
	requireContains(t, out, "app/handler.go")
	requireContains(t, out, "1 files, 3 spans")

	out, _, err = runCLI(t, []string{"show", "app/handler.go"}, env.configPath)
	if err != nil {
		t.Fatalf("show file: %v", err)
	}
	requireContains(t, out, "Serve handles one request.")
	requireContains(t, out, "(suppressed)")

	cases := []struct {
		line int
		want string
	}{
		{6, "Serve handles one request."},
		{10, "is suppressed"},
		{12, "has no doc comment"},
		{2, "no enclosing function"},
	}
	for _, tc := range cases {
		out, _, err := runCLI(t, []string{"lookup", env.sourcePath + ":" + strconv.Itoa(tc.line)}, env.configPath)
		if err != nil {
			t.Fatalf("lookup line %d: %v", tc.line, err)
		}
		requireContains(t, out, "app/handler.go:"+strconv.Itoa(tc.line))
		requireContains(t, out, tc.want)
	}
}

func TestLookupJSONWithSQLiteMap(t *testing.T) {
	env := setupCLITestEnv(t, testsupport.WithSQLiteMap())

	if _, _, err := runCLI(t, []string{"index"}, env.configPath); err != nil {
		t.Fatalf("index: %v", err)
	}
	out, _, err := runCLI(t, []string{"lookup", "--json", env.sourcePath + ":6"}, env.configPath)
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	var result lookupResult
	if err := json.Unmarshal([]byte(out), &result); err != nil {
		t.Fatalf("decode lookup output %q: %v", out, err)
	}
	if !result.Found || result.Key != "app/handler.go" || result.Desc != "Serve handles one request." {
		t.Fatalf("unexpected lookup result %+v", result)
	}
	if result.Span == nil || result.Span.Name != "Serve" {
		t.Fatalf("expected Serve span, got %+v", result.Span)
	}
}

func TestCommandsRequireMap(t *testing.T) {
	env := setupCLITestEnv(t)

	_, _, err := runCLI(t, []string{"show"}, env.configPath)
	if err == nil || !strings.Contains(err.Error(), "logdoc index") {
		t.Fatalf("expected missing map error, got %v", err)
	}
	if _, _, err := runCLI(t, []string{"lookup", "handler.go"}, env.configPath); err == nil {
		t.Fatal("expected malformed location to fail")
	}
}

func TestEmitWritesEnrichedRecord(t *testing.T) {
	env := setupCLITestEnv(t, testsupport.WithService("checkout"))
	if _, _, err := runCLI(t, []string{"index"}, env.configPath); err != nil {
		t.Fatalf("index: %v", err)
	}

	out, _, err := runCLI(t, []string{
		"emit", "page_loaded", "user=alice", "count=3",
		"--run-id", "run-1", "--model", "m1", "--tag", "a", "--tag", "b",
	}, env.configPath)
	if err != nil {
		t.Fatalf("emit: %v", err)
	}

	var record map[string]any
	if err := json.Unmarshal([]byte(out), &record); err != nil {
		t.Fatalf("decode record %q: %v", out, err)
	}
	if record["event"] != "page_loaded" || record["level"] != "info" {
		t.Errorf("event = %v level = %v, want page_loaded at info", record["event"], record["level"])
	}
	if record["service"] != "checkout" || record["runId"] != "run-1" || record["model"] != "m1" {
		t.Errorf("unexpected run fields: %v", record)
	}
	if record["user"] != "alice" || record["count"] != float64(3) {
		t.Errorf("unexpected payload fields: %v", record)
	}
	tags, ok := record["tags"].([]any)
	if !ok || len(tags) != 2 || tags[0] != "a" || tags[1] != "b" {
		t.Errorf("unexpected tags %v", record["tags"])
	}
	if _, ok := record["functionName"]; !ok {
		t.Errorf("expected functionName in %v", record)
	}
	if _, ok := record["msg"]; ok {
		t.Errorf("record should not carry a msg key: %v", record)
	}
	if _, ok := record["codeSnippet"]; ok {
		t.Errorf("snippet should be absent without --snippet: %v", record)
	}
}

func TestEmitRejectsBadPayload(t *testing.T) {
	env := setupCLITestEnv(t)
	_, _, err := runCLI(t, []string{"emit", "page_loaded", "=oops"}, env.configPath)
	if err == nil || !strings.Contains(err.Error(), "key=value") {
		t.Fatalf("expected payload error, got %v", err)
	}
}

func TestEmitGeneratesRunID(t *testing.T) {
	env := setupCLITestEnv(t)
	out, _, err := runCLI(t, []string{"emit", "started", "--session", "s-1"}, env.configPath)
	if err != nil {
		t.Fatalf("emit: %v", err)
	}
	var record map[string]any
	if err := json.Unmarshal([]byte(out), &record); err != nil {
		t.Fatalf("decode record %q: %v", out, err)
	}
	if id, _ := record["runId"].(string); id == "" {
		t.Fatalf("expected generated runId, got %v", record)
	}
	if record["sessionId"] != "s-1" || record["event"] != "started" {
		t.Fatalf("unexpected record %v", record)
	}
}
