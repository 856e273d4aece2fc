package enrich

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Fixed record keys, in the order they are composed.
const (
	KeyTS          = "ts"
	KeyService     = "service"
	KeyEvent       = "event"
	KeyRunID       = "runId"
	KeyModel       = "model"
	KeySessionID   = "sessionId"
	KeyUserID      = "userId"
	KeyTags        = "tags"
	KeyFunction    = "functionName"
	KeyFile        = "file"
	KeyLine        = "line"
	KeyColumn      = "column"
	KeyDesc        = "desc"
	KeyCodeSnippet = "codeSnippet"
	KeyStack       = "stack"
)

// Field is one key/value pair of a Record.
type Field struct {
	Key   string
	Value any
}

// Record is an ordered set of fields. Setting an existing key replaces its
// value without changing its position. The zero value is empty and ready to
// use.
type Record struct {
	fields []Field
	index  map[string]int
}

// Set adds key or replaces its value in place.
func (r *Record) Set(key string, value any) {
	if r.index == nil {
		r.index = make(map[string]int)
	}
	if pos, ok := r.index[key]; ok {
		r.fields[pos].Value = value
		return
	}
	r.index[key] = len(r.fields)
	r.fields = append(r.fields, Field{Key: key, Value: value})
}

// Get returns the value stored under key.
func (r Record) Get(key string) (any, bool) {
	pos, ok := r.index[key]
	if !ok {
		return nil, false
	}
	return r.fields[pos].Value, true
}

// Has reports whether key is present.
func (r Record) Has(key string) bool {
	_, ok := r.index[key]
	return ok
}

func (r Record) Len() int { return len(r.fields) }

// Fields returns a copy of the fields in record order.
func (r Record) Fields() []Field {
	return append([]Field(nil), r.fields...)
}

// Keys returns the keys in record order.
func (r Record) Keys() []string {
	keys := make([]string, len(r.fields))
	for i, f := range r.fields {
		keys[i] = f.Key
	}
	return keys
}

// Map returns the fields as an unordered map.
func (r Record) Map() map[string]any {
	out := make(map[string]any, len(r.fields))
	for _, f := range r.fields {
		out[f.Key] = f.Value
	}
	return out
}

// MarshalJSON encodes the record as a JSON object preserving field order.
func (r Record) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, f := range r.fields {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(f.Key)
		if err != nil {
			return nil, err
		}
		value, err := json.Marshal(f.Value)
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", f.Key, err)
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
