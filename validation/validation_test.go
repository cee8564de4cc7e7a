// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package validation

import (
	"net/url"
	"strings"
	"testing"

	"github.com/goccy/go-json"
)

type pointInput struct {
	X *float64 `json:"x" validate:"required"`
	Y *float64 `json:"y" validate:"required"`
}

type boardInput struct {
	Name string `json:"name" validate:"required,max=100"`
	Rows *int   `json:"rows" validate:"required,gte=1,lte=50"`
}

func decodeJSON(t *testing.T, body string) JSON {
	t.Helper()
	var src JSON
	if err := json.Unmarshal([]byte(body), &src); err != nil {
		t.Fatalf("bad test body: %v", err)
	}
	return src
}

func TestFloatAndStruct(t *testing.T) {
	testCases := []struct {
		name       string
		body       string
		wantFields []string
	}{
		{"valid numbers", `{"x": 10, "y": 20.5}`, nil},
		{"numeric strings", `{"x": "10", "y": "-3"}`, nil},
		{"zero is a value", `{"x": 0, "y": 0}`, nil},
		{"missing y", `{"x": 10}`, []string{"y"}},
		{"both missing", `{}`, []string{"x", "y"}},
		{"bad x", `{"x": "bad", "y": 20}`, []string{"x"}},
		{"null x", `{"x": null, "y": 1}`, []string{"x"}},
		{"NaN x", `{"x": "NaN", "y": 1}`, []string{"x"}},
		{"infinite y", `{"x": 1, "y": "Inf"}`, []string{"y"}},
		{"negative infinity", `{"x": "-Infinity", "y": "+inf"}`, []string{"x", "y"}},
		{"object x and missing y", `{"x": {"a": 1}}`, []string{"x", "y"}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			src := decodeJSON(t, tc.body)
			var errs Errors
			in := pointInput{
				X: Float(src, "x", &errs),
				Y: Float(src, "y", &errs),
			}
			Struct(&in, &errs)

			if len(errs.Fields()) != len(tc.wantFields) {
				t.Fatalf("expected %d field errors, got %v", len(tc.wantFields), errs.Fields())
			}
			for _, f := range tc.wantFields {
				if len(errs.Fields()[f]) != 1 {
					t.Errorf("expected exactly one message for %s, got %v", f, errs.Fields()[f])
				}
			}
		})
	}
}

func TestParseErrorWinsOverRequired(t *testing.T) {
	src := Form(url.Values{"x": {"abc"}, "y": {"1"}})
	var errs Errors
	in := pointInput{X: Float(src, "x", &errs), Y: Float(src, "y", &errs)}
	Struct(&in, &errs)

	if got := errs.First("x"); got != MsgInvalidNumber {
		t.Errorf("expected %q, got %q", MsgInvalidNumber, got)
	}
}

func TestStructBounds(t *testing.T) {
	src := Form(url.Values{"name": {strings.Repeat("n", 101)}, "rows": {"0"}})
	var errs Errors
	in := boardInput{Rows: Int(src, "rows", &errs)}
	if s := String(src, "name"); s != nil {
		in.Name = *s
	}
	Struct(&in, &errs)

	if !errs.Has("name") {
		t.Error("expected name error")
	}
	if !strings.Contains(errs.First("rows"), "greater than or equal to 1") {
		t.Errorf("unexpected rows message %q", errs.First("rows"))
	}
	if errs.Err() == nil {
		t.Error("expected non-nil Err")
	}
}

func TestIntRejectsFloat(t *testing.T) {
	var errs Errors
	if v := Int(Form(url.Values{"rows": {"2.5"}}), "rows", &errs); v != nil {
		t.Errorf("expected nil, got %d", *v)
	}
	if errs.First("rows") != MsgInvalidInt {
		t.Errorf("expected integer message, got %q", errs.First("rows"))
	}
}

func TestVarRGBColor(t *testing.T) {
	for _, c := range []string{"#fff", "#e41a1c", "#ABCDEF"} {
		if !Var(c, "rgbcolor") {
			t.Errorf("expected %s to be valid", c)
		}
	}
	for _, c := range []string{"red", "#12345", "", "#ffff", "#e41a1cff", "fff"} {
		if Var(c, "rgbcolor") {
			t.Errorf("expected %q to be invalid", c)
		}
	}
}

func TestEmptyErrors(t *testing.T) {
	var errs Errors
	if errs.Err() != nil {
		t.Error("expected nil error for empty Errors")
	}
	if errs.First("x") != "" {
		t.Error("expected empty first message")
	}
}
