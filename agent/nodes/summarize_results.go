package chatnode

import (
	"context"
	"fmt"

	contractx "github.com/tanpawarit/Northwind-Tool-Assistant/agent/contract"
)

func SummarizeResults(
	ctx context.Context,
	in *GraphState,
	summarizer contractx.Summarizer,
) (*GraphState, error) {
	if in == nil {
		return nil, fmt.Errorf("%w: graph state is nil", contractx.ErrValidation)
	}

	in.Reply = summarizer.SummarizeBatch(ctx, in.Batch)
	return in, nil
}
