package contract

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// ParamType is the declared type tag of a tool parameter.
type ParamType string

const (
	ParamString  ParamType = "string"
	ParamInteger ParamType = "integer"
)

// ToolDescriptor is what the planner sees of a tool.
type ToolDescriptor struct {
	Description string               `json:"description"`
	Params      map[string]ParamType `json:"params"`
}

// ToolCall is one planned invocation.
type ToolCall struct {
	Tool   string         `json:"tool"`
	Params map[string]any `json:"params"`
}

// Result is the closed set of values a tool dispatch can produce:
// Scalar, List, Rows, Record or ErrorMarker.
type Result interface {
	isResult()
}

// Scalar holds a number or a string.
type Scalar struct {
	Value any
}

// List is a sequence of scalars.
type List []any

// Row is one record of a Rows result.
type Row map[string]any

// Rows is a sequence of records.
type Rows []Row

// Record is a single record; an empty Record means "not found".
type Record map[string]any

// ErrorMarker carries a recoverable failure through normal data flow.
type ErrorMarker string

func (Scalar) isResult()      {}
func (List) isResult()        {}
func (Rows) isResult()        {}
func (Record) isResult()      {}
func (ErrorMarker) isResult() {}

func (s Scalar) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Value)
}

func (s Scalar) String() string {
	if v, ok := s.Value.(string); ok {
		return v
	}
	return fmt.Sprint(s.Value)
}

func (l List) MarshalJSON() ([]byte, error) {
	if l == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]any(l))
}

func (r Rows) MarshalJSON() ([]byte, error) {
	if r == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]Row(r))
}

func (r Record) MarshalJSON() ([]byte, error) {
	if r == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(map[string]any(r))
}

// IsStructured reports whether r needs model-assisted rendering.
func IsStructured(r Result) bool {
	switch r.(type) {
	case List, Rows, Record:
		return true
	case Scalar, ErrorMarker:
		return false
	default:
		return false
	}
}

// Text is the plain rendering of r: scalars and markers as is, structured values as JSON.
func Text(r Result) (string, error) {
	switch v := r.(type) {
	case nil:
		return "", nil
	case Scalar:
		return v.String(), nil
	case ErrorMarker:
		return string(v), nil
	}
	data, err := json.Marshal(r)
	if err != nil {
		return "", fmt.Errorf("render result: %w", err)
	}
	return string(data), nil
}

// Entry pairs a tool name with the result it produced.
type Entry struct {
	Tool   string
	Result Result
}

// Batch is the ordered output of executing a plan.
type Batch []Entry

// MarshalJSON renders the batch as [{"<tool>": <result>}, ...].
func (b Batch) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('[')
	for i, e := range b {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(e.Tool)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(e.Result)
		if err != nil {
			return nil, fmt.Errorf("marshal result of tool=%s: %w", e.Tool, err)
		}
		buf.WriteByte('{')
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
		buf.WriteByte('}')
	}
	buf.WriteByte(']')
	return buf.Bytes(), nil
}
