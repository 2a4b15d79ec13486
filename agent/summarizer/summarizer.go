package summarizer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	contractx "github.com/tanpawarit/Northwind-Tool-Assistant/agent/contract"
	promptx "github.com/tanpawarit/Northwind-Tool-Assistant/agent/prompt"
	logx "github.com/tanpawarit/Northwind-Tool-Assistant/pkg/logger"
)

// Summarizer renders tool results as a natural-language answer.
type Summarizer struct {
	gen     contractx.Generator
	prompts promptx.PromptSet
}

var _ contractx.Summarizer = (*Summarizer)(nil)

func New(gen contractx.Generator, prompts promptx.PromptSet) (*Summarizer, error) {
	if gen == nil {
		return nil, errors.New("generator is required")
	}
	return &Summarizer{gen: gen, prompts: prompts}, nil
}

func FormatError(err error) string {
	return fmt.Sprintf("Error formatting result: %v", err)
}

// SummarizeBatch always goes through the model: a batch is a sequence.
func (s *Summarizer) SummarizeBatch(ctx context.Context, batch contractx.Batch) string {
	if batch == nil {
		batch = contractx.Batch{}
	}
	data, err := json.Marshal(batch)
	if err != nil {
		return s.fail(ctx, fmt.Errorf("marshal batch: %w", err))
	}
	return s.render(ctx, string(data))
}

// SummarizeText returns scalar text as is and sends structured text to the model.
func (s *Summarizer) SummarizeText(ctx context.Context, raw string) string {
	res := Coerce(raw)
	if !contractx.IsStructured(res) {
		text, err := contractx.Text(res)
		if err != nil {
			return s.fail(ctx, err)
		}
		return text
	}

	data, err := json.Marshal(res)
	if err != nil {
		return s.fail(ctx, fmt.Errorf("marshal result: %w", err))
	}
	return s.render(ctx, string(data))
}

func (s *Summarizer) render(ctx context.Context, data string) string {
	prompt, err := s.prompts.RenderSummarizer(ctx, data)
	if err != nil {
		return s.fail(ctx, err)
	}

	out, err := s.gen.Generate(ctx, prompt)
	if err != nil {
		return s.fail(ctx, err)
	}
	return strings.TrimSpace(out)
}

func (s *Summarizer) fail(ctx context.Context, err error) string {
	logx.From(ctx).Error().Err(err).Msg("summarize results")
	return FormatError(err)
}
