// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package validation

import (
	"math"
	"net/url"
	"strconv"
	"strings"

	"github.com/goccy/go-json"
)

// Source yields raw submitted values by field name
type Source interface {
	// Lookup returns the raw text of field and whether it was submitted
	Lookup(field string) (string, bool)
}

// Form adapts submitted form values
type Form url.Values

func (f Form) Lookup(field string) (string, bool) {
	vs, ok := f[field]
	if !ok || len(vs) == 0 {
		return "", false
	}
	return vs[0], true
}

// JSON adapts a decoded JSON object. Strings are unquoted, null counts as
// missing, any other value is returned as its literal text.
type JSON map[string]json.RawMessage

func (j JSON) Lookup(field string) (string, bool) {
	raw, ok := j[field]
	if !ok {
		return "", false
	}
	text := strings.TrimSpace(string(raw))
	if text == "null" {
		return "", false
	}
	if strings.HasPrefix(text, `"`) {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return text, true
		}
		return s, true
	}
	return text, true
}

// Float parses field as a number. Missing or blank values return nil so
// a "required" tag reports them; malformed and non-finite values are
// recorded in errs.
func Float(src Source, field string, errs *Errors) *float64 {
	raw, ok := src.Lookup(field)
	raw = strings.TrimSpace(raw)
	if !ok || raw == "" {
		return nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		errs.Add(field, MsgInvalidNumber)
		return nil
	}
	return &v
}

// Int parses field as an integer, with the same rules as Float
func Int(src Source, field string, errs *Errors) *int {
	raw, ok := src.Lookup(field)
	raw = strings.TrimSpace(raw)
	if !ok || raw == "" {
		return nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		errs.Add(field, MsgInvalidInt)
		return nil
	}
	return &v
}

// String returns the trimmed text of field, or nil when it was not submitted
func String(src Source, field string) *string {
	raw, ok := src.Lookup(field)
	if !ok {
		return nil
	}
	s := strings.TrimSpace(raw)
	return &s
}
