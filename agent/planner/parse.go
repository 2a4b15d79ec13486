package planner

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cast"
	"gopkg.in/yaml.v3"

	contractx "github.com/tanpawarit/Northwind-Tool-Assistant/agent/contract"
)

var ErrNoArray = errors.New("no json array in model output")

// DecodeStrategy turns a candidate array span into its elements.
type DecodeStrategy struct {
	Name   string
	Decode func(span string) ([]any, error)
}

// DecodeStrategies are tried in order; the first one that decodes wins.
var DecodeStrategies = []DecodeStrategy{
	{Name: "json", Decode: decodeJSON},
	{Name: "unicode_escape", Decode: decodeUnescaped},
	{Name: "literal", Decode: decodeLiteral},
}

// ExtractArraySpan returns the text between the first '[' and the last ']', inclusive.
func ExtractArraySpan(text string) (string, bool) {
	start := strings.Index(text, "[")
	end := strings.LastIndex(text, "]")
	if start < 0 || end < start {
		return "", false
	}
	return text[start : end+1], true
}

// Parse extracts and decodes the tool-call array embedded in model output.
func Parse(text string) ([]contractx.ToolCall, int, error) {
	span, ok := ExtractArraySpan(text)
	if !ok {
		return nil, 0, ErrNoArray
	}
	return ParseCalls(span)
}

// ParseCalls decodes span with DecodeStrategies. It returns the calls and the
// number of array elements that were not objects and got dropped.
func ParseCalls(span string) ([]contractx.ToolCall, int, error) {
	var errs []error
	for _, strategy := range DecodeStrategies {
		items, err := strategy.Decode(span)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", strategy.Name, err))
			continue
		}
		calls, dropped := toCalls(items)
		return calls, dropped, nil
	}
	return nil, 0, errors.Join(errs...)
}

func toCalls(items []any) ([]contractx.ToolCall, int) {
	calls := make([]contractx.ToolCall, 0, len(items))
	dropped := 0
	for _, item := range items {
		obj, ok := item.(map[string]any)
		if !ok {
			dropped++
			continue
		}

		name, _ := obj["tool"].(string)
		if name == "" && obj["tool"] != nil {
			name = cast.ToString(obj["tool"])
		}
		params, ok := obj["params"].(map[string]any)
		if !ok || params == nil {
			params = map[string]any{}
		}
		calls = append(calls, contractx.ToolCall{
			Tool:   strings.TrimSpace(name),
			Params: params,
		})
	}
	return calls, dropped
}

func decodeJSON(span string) ([]any, error) {
	dec := json.NewDecoder(strings.NewReader(span))
	dec.UseNumber()

	var items []any
	if err := dec.Decode(&items); err != nil {
		return nil, err
	}
	if dec.More() {
		return nil, errors.New("trailing data after array")
	}
	return items, nil
}

func decodeUnescaped(span string) ([]any, error) {
	fixed := unescape(span)
	if fixed == span {
		return nil, errors.New("no escape sequences to decode")
	}
	return decodeJSON(fixed)
}

func decodeLiteral(span string) ([]any, error) {
	var items []any
	if err := yaml.Unmarshal([]byte(span), &items); err != nil {
		return nil, err
	}
	return items, nil
}

// unescape interprets backslash escapes (\" \' \n \uXXXX \xNN ...) in s.
// Invalid sequences are kept as written.
func unescape(s string) string {
	var b strings.Builder
	b.Grow(len(s))

	for len(s) > 0 {
		idx := strings.IndexByte(s, '\\')
		if idx < 0 {
			b.WriteString(s)
			break
		}
		b.WriteString(s[:idx])
		s = s[idx:]

		if len(s) > 1 && (s[1] == '"' || s[1] == '\'') {
			b.WriteByte(s[1])
			s = s[2:]
			continue
		}
		r, _, tail, err := strconv.UnquoteChar(s, '"')
		if err != nil {
			b.WriteByte('\\')
			s = s[1:]
			continue
		}
		b.WriteRune(r)
		s = tail
	}
	return b.String()
}
