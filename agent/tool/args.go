package tool

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/spf13/cast"

	contractx "github.com/tanpawarit/Northwind-Tool-Assistant/agent/contract"
)

// CoerceInt converts a required argument to int64 the way int() does: numbers truncate
// toward zero, strings must be base 10 integer literals.
func CoerceInt(args map[string]any, key string) (int64, error) {
	raw, ok := args[key]
	if !ok || raw == nil {
		return 0, fmt.Errorf("%w: missing required parameter %q", contractx.ErrToolArgs, key)
	}

	switch v := raw.(type) {
	case json.Number:
		return parseIntNumber(key, v.String())
	case string:
		return parseIntString(key, v)
	case float64:
		return truncate(key, v)
	case float32:
		return truncate(key, float64(v))
	}

	n, err := cast.ToInt64E(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: parameter %q: %v", contractx.ErrToolArgs, key, err)
	}
	return n, nil
}

func parseIntString(key, s string) (int64, error) {
	s = strings.TrimSpace(s)
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: parameter %q: invalid literal for integer: %q", contractx.ErrToolArgs, key, s)
	}
	return n, nil
}

// parseIntNumber reads a JSON number; fractional or exponent forms truncate.
func parseIntNumber(key, s string) (int64, error) {
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return n, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: parameter %q: invalid number %q", contractx.ErrToolArgs, key, s)
	}
	return truncate(key, f)
}

func truncate(key string, f float64) (int64, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) || f >= math.MaxInt64 || f < math.MinInt64 {
		return 0, fmt.Errorf("%w: parameter %q: %v is not representable as an integer", contractx.ErrToolArgs, key, f)
	}
	return int64(math.Trunc(f)), nil
}

// ParseArgs decodes a JSON object of tool arguments. Blank input and null mean no arguments.
func ParseArgs(raw []byte) (map[string]any, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return map[string]any{}, nil
	}

	dec := json.NewDecoder(bytes.NewReader(trimmed))
	dec.UseNumber()
	var args map[string]any
	if err := dec.Decode(&args); err != nil {
		return nil, fmt.Errorf("%w: arguments must be a JSON object: %v", contractx.ErrToolArgs, err)
	}
	if dec.More() {
		return nil, fmt.Errorf("%w: trailing data after arguments", contractx.ErrToolArgs)
	}
	if args == nil {
		args = map[string]any{}
	}
	return args, nil
}

// CoerceOptionalString returns "" when the argument is absent or null.
func CoerceOptionalString(args map[string]any, key string) (string, error) {
	raw, ok := args[key]
	if !ok || raw == nil {
		return "", nil
	}
	s, err := cast.ToStringE(raw)
	if err != nil {
		return "", fmt.Errorf("%w: parameter %q: %v", contractx.ErrToolArgs, key, err)
	}
	return strings.TrimSpace(s), nil
}
