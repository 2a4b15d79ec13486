package prompt

import (
	"context"
	_ "embed"
	"fmt"
	"strings"

	einoprompt "github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/schema"

	contractx "github.com/tanpawarit/Northwind-Tool-Assistant/agent/contract"
)

var (
	//go:embed template/planner.txt
	plannerRaw string

	//go:embed template/summarizer.txt
	summarizerRaw string
)

// PromptSet holds loaded prompt content.
type PromptSet struct {
	Planner    string
	Summarizer string
}

// LoadPromptSet returns a PromptSet with trimmed prompt strings.
func LoadPromptSet() PromptSet {
	return PromptSet{
		Planner:    strings.TrimSpace(plannerRaw),
		Summarizer: strings.TrimSpace(summarizerRaw),
	}
}

// RenderPlanner fills the planner template. tools is the JSON tool schema.
func (p PromptSet) RenderPlanner(ctx context.Context, tools string, query string) (string, error) {
	return render(ctx, p.Planner, map[string]any{
		"tools": tools,
		"query": query,
	})
}

// RenderSummarizer fills the summarizer template with the JSON-encoded data.
func (p PromptSet) RenderSummarizer(ctx context.Context, data string) (string, error) {
	return render(ctx, p.Summarizer, map[string]any{
		"data": data,
	})
}

func render(ctx context.Context, tpl string, vars map[string]any) (string, error) {
	if strings.TrimSpace(tpl) == "" {
		return "", contractx.ErrPromptMissing
	}

	template := einoprompt.FromMessages(schema.FString, schema.UserMessage(tpl))
	msgs, err := template.Format(ctx, vars)
	if err != nil {
		return "", fmt.Errorf("format prompt: %w", err)
	}
	if len(msgs) == 0 || msgs[0] == nil {
		return "", fmt.Errorf("%w: template produced no message", contractx.ErrPromptMissing)
	}
	return msgs[0].Content, nil
}
