package summarizer

import (
	"encoding/json"
	"strings"

	"github.com/spf13/cast"
	"gopkg.in/yaml.v3"

	contractx "github.com/tanpawarit/Northwind-Tool-Assistant/agent/contract"
)

// Coerce interprets raw tool output text. Bracketed text is decoded as a literal
// structure first, then as JSON; anything else stays an opaque scalar.
func Coerce(raw string) contractx.Result {
	text := strings.TrimSpace(raw)
	if text == "" {
		return contractx.Scalar{Value: text}
	}

	if text[0] == '[' || text[0] == '{' {
		if v, ok := decodeLiteral(text); ok {
			return fromValue(v, text)
		}
		if v, ok := decodeJSON(text); ok {
			return fromValue(v, text)
		}
		return contractx.Scalar{Value: text}
	}

	if text[0] == '"' || text[0] == '\'' {
		if v, ok := decodeLiteral(text); ok {
			if s, isStr := v.(string); isStr {
				return contractx.Scalar{Value: s}
			}
		}
	}
	return contractx.Scalar{Value: text}
}

func fromValue(v any, text string) contractx.Result {
	switch t := v.(type) {
	case []any:
		rows := make(contractx.Rows, 0, len(t))
		for _, item := range t {
			m, ok := item.(map[string]any)
			if !ok {
				return contractx.List(t)
			}
			rows = append(rows, contractx.Row(m))
		}
		if len(rows) == 0 {
			return contractx.List(t)
		}
		return rows
	case map[string]any:
		return contractx.Record(t)
	default:
		return contractx.Scalar{Value: text}
	}
}

func decodeLiteral(text string) (any, bool) {
	var v any
	if err := yaml.Unmarshal([]byte(text), &v); err != nil {
		return nil, false
	}
	return normalize(v), true
}

func decodeJSON(text string) (any, bool) {
	dec := json.NewDecoder(strings.NewReader(text))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil || dec.More() {
		return nil, false
	}
	return v, true
}

// normalize rewrites non-string mapping keys so the value can be marshaled to JSON.
func normalize(v any) any {
	switch t := v.(type) {
	case map[string]any:
		for k, item := range t {
			t[k] = normalize(item)
		}
		return t
	case map[any]any:
		out := make(map[string]any, len(t))
		for k, item := range t {
			out[cast.ToString(k)] = normalize(item)
		}
		return out
	case []any:
		for i, item := range t {
			t[i] = normalize(item)
		}
		return t
	default:
		return v
	}
}
