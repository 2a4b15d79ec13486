package chat

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/cloudwego/eino/compose"
	"github.com/google/uuid"

	contractx "github.com/tanpawarit/Northwind-Tool-Assistant/agent/contract"
	nodex "github.com/tanpawarit/Northwind-Tool-Assistant/agent/nodes"
	logx "github.com/tanpawarit/Northwind-Tool-Assistant/pkg/logger"
)

type requestIDKey struct{}

// WithRequestID attaches an externally assigned request id to ctx.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

func RequestIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return strings.TrimSpace(id)
}

// Service answers one query per call: plan, execute, summarize.
type Service struct {
	planner    contractx.Planner
	executor   contractx.Executor
	summarizer contractx.Summarizer

	graphRunner compose.Runnable[nodex.GraphInput, nodex.GraphOutput]
}

func NewService(
	planner contractx.Planner,
	executor contractx.Executor,
	summarizer contractx.Summarizer,
) (*Service, error) {
	if planner == nil {
		return nil, errors.New("planner is required")
	}
	if executor == nil {
		return nil, errors.New("executor is required")
	}
	if summarizer == nil {
		return nil, errors.New("summarizer is required")
	}

	s := &Service{
		planner:    planner,
		executor:   executor,
		summarizer: summarizer,
	}

	graphRunner, err := s.compileHandleQueryGraph(context.Background())
	if err != nil {
		return nil, err
	}
	s.graphRunner = graphRunner

	return s, nil
}

// HandleQuery always answers in text, blank queries included. An error means the graph itself failed.
func (s *Service) HandleQuery(ctx context.Context, query string) (string, error) {
	requestID := RequestIDFrom(ctx)
	if requestID == "" {
		requestID = uuid.NewString()
	}
	ctx = logx.WithRequestID(ctx, requestID)
	log := logx.From(ctx)

	started := time.Now()
	log.Info().Str("query", query).Msg("chat query received")

	out, err := s.graphRunner.Invoke(ctx, nodex.GraphInput{
		RequestID: requestID,
		Query:     query,
	})
	if err != nil {
		log.Error().Err(err).Msg("chat pipeline failed")
		return "", err
	}

	log.Info().Dur("elapsed", time.Since(started)).Msg("chat query answered")
	return out.Reply, nil
}
