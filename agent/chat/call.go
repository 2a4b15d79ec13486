package chat

import (
	"context"
	"errors"
	"time"

	contractx "github.com/tanpawarit/Northwind-Tool-Assistant/agent/contract"
	summarizerx "github.com/tanpawarit/Northwind-Tool-Assistant/agent/summarizer"
	logx "github.com/tanpawarit/Northwind-Tool-Assistant/pkg/logger"
)

// ToolCaller invokes one named tool directly, without planning, and renders its
// raw result text through the summarizer.
type ToolCaller struct {
	dispatcher contractx.Dispatcher
	summarizer contractx.Summarizer
}

func NewToolCaller(dispatcher contractx.Dispatcher, summarizer contractx.Summarizer) (*ToolCaller, error) {
	if dispatcher == nil {
		return nil, errors.New("dispatcher is required")
	}
	if summarizer == nil {
		return nil, errors.New("summarizer is required")
	}
	return &ToolCaller{dispatcher: dispatcher, summarizer: summarizer}, nil
}

// Call never fails: unknown tools and tool errors come back as marker text.
func (c *ToolCaller) Call(ctx context.Context, name string, params map[string]any) string {
	if params == nil {
		params = map[string]any{}
	}
	log := logx.From(ctx).With().Str("tool", name).Logger()
	started := time.Now()

	res := c.dispatcher.Dispatch(ctx, name, params)
	text, err := contractx.Text(res)
	if err != nil {
		log.Error().Err(err).Msg("render tool result")
		return summarizerx.FormatError(err)
	}

	reply := c.summarizer.SummarizeText(ctx, text)
	log.Info().Bool("structured", contractx.IsStructured(res)).Dur("elapsed", time.Since(started)).Msg("tool called directly")
	return reply
}
