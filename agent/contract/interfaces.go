package contract

import "context"

// Generator is the language-model capability: prompt text in, completion text out.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

type Planner interface {
	Decide(ctx context.Context, userQuery string) []ToolCall
}

type Dispatcher interface {
	Dispatch(ctx context.Context, name string, args map[string]any) Result
}

type Summarizer interface {
	SummarizeBatch(ctx context.Context, batch Batch) string
	SummarizeText(ctx context.Context, raw string) string
}

// ToolCatalog is the read-only view of the tool registry.
type ToolCatalog interface {
	Describe() map[string]string
	DescribeWithSchema() map[string]ToolDescriptor
}

// Executor runs a plan in order and collects one entry per call.
type Executor interface {
	Run(ctx context.Context, calls []ToolCall) Batch
}
