package main

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
)

// writeJSON encodes v as indented JSON to the command's stdout.
func writeJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// parseLocation splits "path:line".
func parseLocation(value string) (string, int, error) {
	idx := strings.LastIndexByte(value, ':')
	if idx <= 0 || idx == len(value)-1 {
		return "", 0, fmt.Errorf("location %q: want <file>:<line>", value)
	}
	line, err := strconv.Atoi(value[idx+1:])
	if err != nil || line <= 0 {
		return "", 0, fmt.Errorf("location %q: line must be a positive integer", value)
	}
	return value[:idx], line, nil
}

// parsePayload turns key=value arguments into a payload. Values that parse as
// JSON (numbers, booleans, null, arrays, objects, quoted strings) keep their
// type; anything else is a plain string.
func parsePayload(args []string) (map[string]any, error) {
	payload := make(map[string]any, len(args))
	for _, arg := range args {
		key, raw, ok := strings.Cut(arg, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, fmt.Errorf("payload %q: want key=value", arg)
		}
		var value any
		if err := json.Unmarshal([]byte(raw), &value); err != nil {
			value = raw
		}
		payload[key] = value
	}
	return payload, nil
}

func truncate(value string, limit int) string {
	runes := []rune(value)
	if len(runes) <= limit {
		return value
	}
	return string(runes[:limit-1]) + "…"
}
