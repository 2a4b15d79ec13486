package chatnode

import (
	"context"
	"fmt"

	contractx "github.com/tanpawarit/Northwind-Tool-Assistant/agent/contract"
)

func PlanTools(
	ctx context.Context,
	in *GraphState,
	planner contractx.Planner,
) (*GraphState, error) {
	if in == nil {
		return nil, fmt.Errorf("%w: graph state is nil", contractx.ErrValidation)
	}

	in.Calls = planner.Decide(ctx, in.Query)
	return in, nil
}
