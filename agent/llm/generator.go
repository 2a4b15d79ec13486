package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	einomodel "github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"
	openaisdk "github.com/openai/openai-go"

	contractx "github.com/tanpawarit/Northwind-Tool-Assistant/agent/contract"
	openrouterx "github.com/tanpawarit/Northwind-Tool-Assistant/pkg/openrouter"
)

// NewGenerator builds the Generator of one role using the configured backend.
func NewGenerator(ctx context.Context, cfg Config, role Role) (contractx.Generator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	routerCfg := cfg.OpenRouterFor(role)

	switch cfg.Backend {
	case BackendOpenAI:
		client := openrouterx.NewClient(routerCfg)
		if client == nil {
			return nil, fmt.Errorf("%w: openai client for role=%s", contractx.ErrModelInvoke, role)
		}
		gen, err := NewClientGenerator(client, routerCfg)
		if err != nil {
			return nil, err
		}
		return gen, nil
	default:
		chatModel, err := routerCfg.NewChatModel(ctx)
		if err != nil {
			return nil, fmt.Errorf("%w: create %s model: %v", contractx.ErrModelInvoke, role, err)
		}
		gen, err := NewChatModelGenerator(ctx, chatModel)
		if err != nil {
			return nil, err
		}
		return gen, nil
	}
}

// ChatModelGenerator runs a prompt through an eino chat model graph.
type ChatModelGenerator struct {
	runner compose.Runnable[string, string]
}

var _ contractx.Generator = (*ChatModelGenerator)(nil)

func NewChatModelGenerator(ctx context.Context, chatModel einomodel.BaseChatModel) (*ChatModelGenerator, error) {
	if chatModel == nil {
		return nil, errors.New("chat model is required")
	}

	graph := compose.NewGraph[string, string]()
	if err := graph.AddLambdaNode("to_messages",
		compose.InvokableLambda(func(ctx context.Context, prompt string) ([]*schema.Message, error) {
			return []*schema.Message{schema.UserMessage(prompt)}, nil
		}),
	); err != nil {
		return nil, fmt.Errorf("add generate input node: %w", err)
	}
	if err := graph.AddChatModelNode("model", chatModel); err != nil {
		return nil, fmt.Errorf("add generate model node: %w", err)
	}
	if err := graph.AddLambdaNode("extract_text",
		compose.InvokableLambda(func(ctx context.Context, msg *schema.Message) (string, error) {
			return MessageText(msg)
		}),
	); err != nil {
		return nil, fmt.Errorf("add generate output node: %w", err)
	}

	edges := [][2]string{
		{compose.START, "to_messages"},
		{"to_messages", "model"},
		{"model", "extract_text"},
		{"extract_text", compose.END},
	}
	for _, edge := range edges {
		if err := graph.AddEdge(edge[0], edge[1]); err != nil {
			return nil, fmt.Errorf("add generate edge %s->%s: %w", edge[0], edge[1], err)
		}
	}

	runner, err := graph.Compile(ctx, compose.WithGraphName("llm.generate"))
	if err != nil {
		return nil, fmt.Errorf("compile generate graph: %w", err)
	}
	return &ChatModelGenerator{runner: runner}, nil
}

func (g *ChatModelGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	out, err := g.runner.Invoke(ctx, prompt)
	if err != nil {
		return "", fmt.Errorf("%w: %v", contractx.ErrModelInvoke, err)
	}
	return out, nil
}

// MessageText returns the flat content of msg, or its first text part for multi-part replies.
func MessageText(msg *schema.Message) (string, error) {
	if msg == nil {
		return "", fmt.Errorf("%w: empty model response", contractx.ErrModelInvoke)
	}
	if strings.TrimSpace(msg.Content) != "" {
		return msg.Content, nil
	}
	for _, part := range msg.MultiContent {
		if part.Type == schema.ChatMessagePartTypeText && part.Text != "" {
			return part.Text, nil
		}
	}
	return msg.Content, nil
}

// ClientGenerator calls the chat completions endpoint through the openai-go SDK.
type ClientGenerator struct {
	client      *openaisdk.Client
	model       string
	maxTokens   int
	temperature float32
}

var _ contractx.Generator = (*ClientGenerator)(nil)

func NewClientGenerator(client *openaisdk.Client, cfg openrouterx.Config) (*ClientGenerator, error) {
	if client == nil {
		return nil, errors.New("openai client is required")
	}
	modelName := strings.TrimSpace(cfg.Model)
	if modelName == "" {
		return nil, fmt.Errorf("%w: model is required", contractx.ErrValidation)
	}

	g := &ClientGenerator{
		client:      client,
		model:       modelName,
		temperature: cfg.Temperature,
	}
	if cfg.MaxCompletionToken != nil {
		g.maxTokens = *cfg.MaxCompletionToken
	}
	return g, nil
}

func (g *ClientGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	params := openaisdk.ChatCompletionNewParams{
		Model: openaisdk.ChatModel(g.model),
		Messages: []openaisdk.ChatCompletionMessageParamUnion{
			openaisdk.UserMessage(prompt),
		},
		Temperature: openaisdk.Float(float64(g.temperature)),
	}
	if g.maxTokens > 0 {
		params.MaxCompletionTokens = openaisdk.Int(int64(g.maxTokens))
	}

	resp, err := g.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("%w: chat completion: %v", contractx.ErrModelInvoke, err)
	}
	if resp == nil || len(resp.Choices) == 0 {
		return "", fmt.Errorf("%w: chat completion returned no choices", contractx.ErrModelInvoke)
	}
	return resp.Choices[0].Message.Content, nil
}
