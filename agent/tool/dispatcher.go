package tool

import (
	"context"
	"errors"
	"fmt"

	contractx "github.com/tanpawarit/Northwind-Tool-Assistant/agent/contract"
	logx "github.com/tanpawarit/Northwind-Tool-Assistant/pkg/logger"
)

// Dispatcher executes single tool calls and turns every failure into an ErrorMarker.
type Dispatcher struct {
	registry *Registry
}

var _ contractx.Dispatcher = (*Dispatcher)(nil)

func NewDispatcher(registry *Registry) (*Dispatcher, error) {
	if registry == nil {
		return nil, errors.New("tool registry is required")
	}
	return &Dispatcher{registry: registry}, nil
}

func UnknownToolMarker(name string) contractx.ErrorMarker {
	return contractx.ErrorMarker(fmt.Sprintf("Error: Unknown tool '%s'", name))
}

func ExecutionErrorMarker(name string, err error) contractx.ErrorMarker {
	return contractx.ErrorMarker(fmt.Sprintf("Error executing tool '%s': %v", name, err))
}

func (d *Dispatcher) Dispatch(ctx context.Context, name string, args map[string]any) contractx.Result {
	invoke, ok := d.registry.Resolve(name)
	if !ok {
		logx.From(ctx).Warn().Err(contractx.ErrUnknownTool).Str("tool", name).Msg("planner requested unknown tool")
		return UnknownToolMarker(name)
	}
	if args == nil {
		args = map[string]any{}
	}

	res, err := safeInvoke(ctx, invoke, args)
	if err == nil && res == nil {
		err = errors.New("tool returned no result")
	}
	if err != nil {
		logx.From(ctx).Error().Err(err).Str("tool", name).Interface("args", args).Msg("tool execution failed")
		return ExecutionErrorMarker(name, err)
	}
	return res
}

func safeInvoke(ctx context.Context, invoke Invoker, args map[string]any) (res contractx.Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			res, err = nil, fmt.Errorf("panic: %v", r)
		}
	}()
	return invoke(ctx, args)
}
