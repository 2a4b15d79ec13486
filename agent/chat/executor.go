package chat

import (
	"context"
	"errors"

	contractx "github.com/tanpawarit/Northwind-Tool-Assistant/agent/contract"
)

// Executor dispatches every planned call in order. Failures are already values,
// so one failing call never stops the rest.
type Executor struct {
	dispatcher contractx.Dispatcher
}

var _ contractx.Executor = (*Executor)(nil)

func NewExecutor(dispatcher contractx.Dispatcher) (*Executor, error) {
	if dispatcher == nil {
		return nil, errors.New("dispatcher is required")
	}
	return &Executor{dispatcher: dispatcher}, nil
}

func (e *Executor) Run(ctx context.Context, calls []contractx.ToolCall) contractx.Batch {
	batch := make(contractx.Batch, 0, len(calls))
	for _, call := range calls {
		params := call.Params
		if params == nil {
			params = map[string]any{}
		}
		batch = append(batch, contractx.Entry{
			Tool:   call.Tool,
			Result: e.dispatcher.Dispatch(ctx, call.Tool, params),
		})
	}
	return batch
}
