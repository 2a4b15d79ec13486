package chatnode

import (
	"strings"

	contractx "github.com/tanpawarit/Northwind-Tool-Assistant/agent/contract"
)

type GraphInput struct {
	RequestID string
	Query     string
}

type GraphOutput struct {
	Reply string
}

type GraphState struct {
	RequestID string
	Query     string

	Calls []contractx.ToolCall
	Batch contractx.Batch
	Reply string
}

// PrepareRequest seeds the graph state. A blank query is still planned and answered.
func PrepareRequest(in GraphInput) *GraphState {
	return &GraphState{
		RequestID: strings.TrimSpace(in.RequestID),
		Query:     strings.TrimSpace(in.Query),
	}
}
