package chatnode

import (
	"context"
	"fmt"

	contractx "github.com/tanpawarit/Northwind-Tool-Assistant/agent/contract"
)

func ExecuteTools(
	ctx context.Context,
	in *GraphState,
	executor contractx.Executor,
) (*GraphState, error) {
	if in == nil {
		return nil, fmt.Errorf("%w: graph state is nil", contractx.ErrValidation)
	}

	in.Batch = executor.Run(ctx, in.Calls)
	return in, nil
}
