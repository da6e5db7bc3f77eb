// Package normalize coerces loosely-typed JSON, usually model output or
// previously stored state, into the strict shapes in package models.
//
// Only a non-object top level is an error. Field-level drift is resolved by
// falling back to per-field defaults: wrong-typed scalars are discarded, never
// converted across types, and list elements of the wrong type are dropped one
// by one.
package normalize

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// ErrFormat is returned when the payload is not a JSON object.
var ErrFormat = errors.New("格式错误：模型返回的内容不是有效的 JSON 对象")

var (
	leadingFence  = regexp.MustCompile("(?i)^```(?:json)?\\s*")
	trailingFence = regexp.MustCompile("\\s*```$")
)

// StripFences removes a markdown code fence wrapped around raw.
func StripFences(raw string) string {
	s := strings.TrimSpace(raw)
	s = leadingFence.ReplaceAllString(s, "")
	s = trailingFence.ReplaceAllString(s, "")
	return strings.TrimSpace(s)
}

// Decode parses one JSON value. Numbers are kept as json.Number, so a
// number outside float64 range only affects the field holding it.
func Decode(data []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, errors.New("unexpected data after JSON value")
	}
	return v, nil
}

// DecodeObject parses raw as a JSON object after fence stripping.
func DecodeObject(raw string) (map[string]any, error) {
	v, err := Decode([]byte(StripFences(raw)))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFormat, err)
	}
	obj, ok := v.(map[string]any)
	if !ok {
		return nil, ErrFormat
	}
	return obj, nil
}

// String returns obj[key] when it is a string, def otherwise.
func String(obj map[string]any, key, def string) string {
	if s, ok := obj[key].(string); ok {
		return s
	}
	return def
}

// StringSlice keeps the string elements of v. Non-lists yield an empty,
// non-nil slice.
func StringSlice(v any) []string {
	list, ok := v.([]any)
	if !ok {
		return []string{}
	}
	out := make([]string, 0, len(list))
	for _, item := range list {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

// Number returns v when it is a finite JSON number, def otherwise.
func Number(v any, def float64) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case json.Number:
		f, err := strconv.ParseFloat(n.String(), 64)
		if err != nil {
			return def
		}
		return f
	}
	return def
}

// Bool is true only for a literal JSON true.
func Bool(v any) bool {
	b, ok := v.(bool)
	return ok && b
}

// Time parses an RFC 3339 string, returning def for anything else.
func Time(v any, def time.Time) time.Time {
	s, ok := v.(string)
	if !ok {
		return def
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return def
	}
	return t
}

func object(v any) (map[string]any, bool) {
	obj, ok := v.(map[string]any)
	return obj, ok
}
