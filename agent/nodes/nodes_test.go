package chatnode

import (
	"context"
	"errors"
	"testing"

	contractx "github.com/tanpawarit/Northwind-Tool-Assistant/agent/contract"
)

type stubPlanner struct{ calls []contractx.ToolCall }

func (s stubPlanner) Decide(context.Context, string) []contractx.ToolCall { return s.calls }

type stubExecutor struct{ seen []contractx.ToolCall }

func (s *stubExecutor) Run(ctx context.Context, calls []contractx.ToolCall) contractx.Batch {
	s.seen = calls
	return contractx.Batch{{Tool: "list_countries", Result: contractx.List{"France"}}}
}

type stubSummarizer struct{}

func (stubSummarizer) SummarizeBatch(context.Context, contractx.Batch) string { return "  France.  " }
func (stubSummarizer) SummarizeText(context.Context, string) string          { return "" }

func TestPrepareRequest(t *testing.T) {
	t.Parallel()

	st := PrepareRequest(GraphInput{RequestID: " r1 ", Query: "  List countries \n"})
	if st.Query != "List countries" || st.RequestID != "r1" {
		t.Fatalf("unexpected state: %#v", st)
	}

	blank := PrepareRequest(GraphInput{Query: "   "})
	if blank == nil || blank.Query != "" {
		t.Fatalf("blank query should yield an empty query state, got %#v", blank)
	}
}

func TestPipelineNodes(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	calls := []contractx.ToolCall{{Tool: "list_countries", Params: map[string]any{}}}
	exec := &stubExecutor{}

	st, err := PlanTools(ctx, &GraphState{Query: "List countries"}, stubPlanner{calls: calls})
	if err != nil {
		t.Fatalf("PlanTools() error = %v", err)
	}
	if st, err = ExecuteTools(ctx, st, exec); err != nil {
		t.Fatalf("ExecuteTools() error = %v", err)
	}
	if len(exec.seen) != 1 || len(st.Batch) != 1 {
		t.Fatalf("unexpected execution: seen=%#v batch=%#v", exec.seen, st.Batch)
	}
	if st, err = SummarizeResults(ctx, st, stubSummarizer{}); err != nil {
		t.Fatalf("SummarizeResults() error = %v", err)
	}

	out, err := FinalizeReply(st)
	if err != nil {
		t.Fatalf("FinalizeReply() error = %v", err)
	}
	if out.Reply != "France." {
		t.Fatalf("unexpected reply: %q", out.Reply)
	}
}

func TestNodesRejectNilState(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	if _, err := PlanTools(ctx, nil, stubPlanner{}); !errors.Is(err, contractx.ErrValidation) {
		t.Fatalf("PlanTools: expected ErrValidation, got %v", err)
	}
	if _, err := ExecuteTools(ctx, nil, &stubExecutor{}); !errors.Is(err, contractx.ErrValidation) {
		t.Fatalf("ExecuteTools: expected ErrValidation, got %v", err)
	}
	if _, err := SummarizeResults(ctx, nil, stubSummarizer{}); !errors.Is(err, contractx.ErrValidation) {
		t.Fatalf("SummarizeResults: expected ErrValidation, got %v", err)
	}
	if _, err := FinalizeReply(nil); !errors.Is(err, contractx.ErrValidation) {
		t.Fatalf("FinalizeReply: expected ErrValidation, got %v", err)
	}
}
