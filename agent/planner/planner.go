package planner

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	contractx "github.com/tanpawarit/Northwind-Tool-Assistant/agent/contract"
	promptx "github.com/tanpawarit/Northwind-Tool-Assistant/agent/prompt"
	logx "github.com/tanpawarit/Northwind-Tool-Assistant/pkg/logger"
)

// Planner turns a user query into tool calls through one model round trip.
type Planner struct {
	gen     contractx.Generator
	catalog contractx.ToolCatalog
	prompts promptx.PromptSet
}

var _ contractx.Planner = (*Planner)(nil)

func New(gen contractx.Generator, catalog contractx.ToolCatalog, prompts promptx.PromptSet) (*Planner, error) {
	if gen == nil {
		return nil, errors.New("generator is required")
	}
	if catalog == nil {
		return nil, errors.New("tool catalog is required")
	}
	return &Planner{gen: gen, catalog: catalog, prompts: prompts}, nil
}

// Decide never fails: any problem degrades to an empty plan.
func (p *Planner) Decide(ctx context.Context, userQuery string) []contractx.ToolCall {
	log := logx.From(ctx)
	empty := []contractx.ToolCall{}

	prompt, err := p.buildPrompt(ctx, userQuery)
	if err != nil {
		log.Error().Err(err).Msg("build planner prompt")
		return empty
	}

	out, err := p.gen.Generate(ctx, prompt)
	if err != nil {
		log.Error().Err(err).Msg("planner model call failed")
		return empty
	}

	calls, dropped, err := Parse(out)
	if err != nil {
		log.Warn().Err(err).Str("completion", out).Msg("planner output not parseable, no tools selected")
		return empty
	}
	if dropped > 0 {
		log.Warn().Int("dropped", dropped).Msg("planner output contained non-object entries")
	}

	names := make([]string, 0, len(calls))
	for _, c := range calls {
		names = append(names, c.Tool)
	}
	log.Info().Strs("tools", names).Msg("planned tool calls")
	return calls
}

func (p *Planner) buildPrompt(ctx context.Context, userQuery string) (string, error) {
	schema, err := json.MarshalIndent(p.catalog.DescribeWithSchema(), "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal tool schema: %w", err)
	}
	return p.prompts.RenderPlanner(ctx, string(schema), userQuery)
}
