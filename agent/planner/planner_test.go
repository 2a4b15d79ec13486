package planner

import (
	"context"
	"errors"
	"strings"
	"testing"

	contractx "github.com/tanpawarit/Northwind-Tool-Assistant/agent/contract"
	promptx "github.com/tanpawarit/Northwind-Tool-Assistant/agent/prompt"
)

type fakeGenerator struct {
	out     string
	err     error
	prompts []string
}

func (f *fakeGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	f.prompts = append(f.prompts, prompt)
	if f.err != nil {
		return "", f.err
	}
	return f.out, nil
}

type fakeCatalog struct{}

func (fakeCatalog) Describe() map[string]string {
	return map[string]string{"list_countries": "List all countries with customers."}
}

func (fakeCatalog) DescribeWithSchema() map[string]contractx.ToolDescriptor {
	return map[string]contractx.ToolDescriptor{
		"list_countries":     {Description: "List all countries with customers.", Params: map[string]contractx.ParamType{}},
		"find_invoice_by_id": {Description: "Get invoice details.", Params: map[string]contractx.ParamType{"id": contractx.ParamInteger}},
	}
}

func newTestPlanner(t *testing.T, gen *fakeGenerator) *Planner {
	t.Helper()

	p, err := New(gen, fakeCatalog{}, promptx.LoadPromptSet())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return p
}

func TestDecideEmptyArray(t *testing.T) {
	t.Parallel()

	calls := newTestPlanner(t, &fakeGenerator{out: "[]"}).Decide(context.Background(), "hello")
	if calls == nil || len(calls) != 0 {
		t.Fatalf("expected empty non-nil plan, got %#v", calls)
	}
}

func TestDecideWithProse(t *testing.T) {
	t.Parallel()

	gen := &fakeGenerator{out: "Here is the plan:\n```json\n[\n  {\"tool\": \"find_invoice_by_id\", \"params\": {\"id\": 10248}}\n]\n```\nLet me know!"}
	calls := newTestPlanner(t, gen).Decide(context.Background(), "get invoice details for order 10248")

	if len(calls) != 1 || calls[0].Tool != "find_invoice_by_id" {
		t.Fatalf("unexpected plan: %#v", calls)
	}

	prompt := gen.prompts[0]
	if !strings.Contains(prompt, "get invoice details for order 10248") {
		t.Fatalf("query missing from prompt:\n%s", prompt)
	}
	if !strings.Contains(prompt, `"find_invoice_by_id"`) || !strings.Contains(prompt, `"id": "integer"`) {
		t.Fatalf("tool schema missing from prompt:\n%s", prompt)
	}
}

func TestDecideInvalidOutput(t *testing.T) {
	t.Parallel()

	for _, out := range []string{"", "I don't know.", `[{"tool": "list_countries", {{]`} {
		calls := newTestPlanner(t, &fakeGenerator{out: out}).Decide(context.Background(), "x")
		if len(calls) != 0 {
			t.Fatalf("output %q: expected empty plan, got %#v", out, calls)
		}
	}
}

func TestDecideEscapedOutput(t *testing.T) {
	t.Parallel()

	gen := &fakeGenerator{out: `[{\"tool\": \"list_countries\", \"params\": {}}]`}
	calls := newTestPlanner(t, gen).Decide(context.Background(), "List countries")
	if len(calls) != 1 || calls[0].Tool != "list_countries" {
		t.Fatalf("unexpected plan: %#v", calls)
	}
}

func TestDecideModelFailure(t *testing.T) {
	t.Parallel()

	calls := newTestPlanner(t, &fakeGenerator{err: errors.New("upstream 503")}).Decide(context.Background(), "x")
	if len(calls) != 0 {
		t.Fatalf("expected empty plan, got %#v", calls)
	}
}

func TestDecideMissingPrompt(t *testing.T) {
	t.Parallel()

	gen := &fakeGenerator{out: `[{"tool": "list_countries"}]`}
	p, err := New(gen, fakeCatalog{}, promptx.PromptSet{})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if calls := p.Decide(context.Background(), "x"); len(calls) != 0 {
		t.Fatalf("expected empty plan, got %#v", calls)
	}
	if len(gen.prompts) != 0 {
		t.Fatal("model must not be called without a prompt")
	}
}

func TestNewValidation(t *testing.T) {
	t.Parallel()

	if _, err := New(nil, fakeCatalog{}, promptx.LoadPromptSet()); err == nil {
		t.Fatal("expected error for nil generator")
	}
	if _, err := New(&fakeGenerator{}, nil, promptx.LoadPromptSet()); err == nil {
		t.Fatal("expected error for nil catalog")
	}
}
