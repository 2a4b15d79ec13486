package llm

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	einomodel "github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	openaisdk "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	contractx "github.com/tanpawarit/Northwind-Tool-Assistant/agent/contract"
	openrouterx "github.com/tanpawarit/Northwind-Tool-Assistant/pkg/openrouter"
)

type fakeChatModel struct {
	response *schema.Message
	err      error
	inputs   [][]*schema.Message
}

func (f *fakeChatModel) Generate(ctx context.Context, input []*schema.Message, opts ...einomodel.Option) (*schema.Message, error) {
	f.inputs = append(f.inputs, input)
	if f.err != nil {
		return nil, f.err
	}
	return f.response, nil
}

func (f *fakeChatModel) Stream(ctx context.Context, input []*schema.Message, opts ...einomodel.Option) (*schema.StreamReader[*schema.Message], error) {
	return nil, errors.New("stream not implemented in fake model")
}

func TestChatModelGeneratorGenerate(t *testing.T) {
	t.Parallel()

	fake := &fakeChatModel{response: schema.AssistantMessage(`[{"tool": "list_countries", "params": {}}]`, nil)}
	gen, err := NewChatModelGenerator(context.Background(), fake)
	if err != nil {
		t.Fatalf("NewChatModelGenerator() error = %v", err)
	}

	out, err := gen.Generate(context.Background(), "which countries?")
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if out != `[{"tool": "list_countries", "params": {}}]` {
		t.Fatalf("unexpected output: %q", out)
	}
	if len(fake.inputs) != 1 || len(fake.inputs[0]) != 1 {
		t.Fatalf("expected a single user message, got %#v", fake.inputs)
	}
	if msg := fake.inputs[0][0]; msg.Role != schema.User || msg.Content != "which countries?" {
		t.Fatalf("unexpected model input: %#v", msg)
	}
}

func TestChatModelGeneratorModelFailure(t *testing.T) {
	t.Parallel()

	gen, err := NewChatModelGenerator(context.Background(), &fakeChatModel{err: errors.New("rate limited")})
	if err != nil {
		t.Fatalf("NewChatModelGenerator() error = %v", err)
	}

	_, err = gen.Generate(context.Background(), "hello")
	if !errors.Is(err, contractx.ErrModelInvoke) {
		t.Fatalf("expected ErrModelInvoke, got %v", err)
	}
	if !strings.Contains(err.Error(), "rate limited") {
		t.Fatalf("expected cause in error, got %v", err)
	}
}

func TestNewChatModelGeneratorRequiresModel(t *testing.T) {
	t.Parallel()

	if _, err := NewChatModelGenerator(context.Background(), nil); err == nil {
		t.Fatal("expected error for nil chat model")
	}
}

func TestMessageText(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		msg  *schema.Message
		want string
	}{
		{name: "flat", msg: &schema.Message{Content: "France"}, want: "France"},
		{
			name: "multi part",
			msg: &schema.Message{MultiContent: []schema.ChatMessagePart{
				{Type: schema.ChatMessagePartTypeImageURL},
				{Type: schema.ChatMessagePartTypeText, Text: "Germany"},
			}},
			want: "Germany",
		},
		{name: "empty", msg: &schema.Message{}, want: ""},
	}

	for _, tc := range cases {
		got, err := MessageText(tc.msg)
		if err != nil {
			t.Fatalf("%s: MessageText() error = %v", tc.name, err)
		}
		if got != tc.want {
			t.Fatalf("%s: got %q, want %q", tc.name, got, tc.want)
		}
	}

	if _, err := MessageText(nil); !errors.Is(err, contractx.ErrModelInvoke) {
		t.Fatalf("expected ErrModelInvoke for nil message, got %v", err)
	}
}

func newCompletionServer(t *testing.T, status int, body string, seen *map[string]any) *httptest.Server {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/chat/completions") {
			http.NotFound(w, r)
			return
		}
		if seen != nil {
			raw, _ := io.ReadAll(r.Body)
			_ = json.Unmarshal(raw, seen)
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestClientGeneratorGenerate(t *testing.T) {
	t.Parallel()

	var seen map[string]any
	srv := newCompletionServer(t, http.StatusOK, `{
		"id": "cmpl-1",
		"object": "chat.completion",
		"created": 1,
		"model": "test-model",
		"choices": [{"index": 0, "finish_reason": "stop", "message": {"role": "assistant", "content": "The total is 109.82."}}]
	}`, &seen)

	client := openaisdk.NewClient(option.WithAPIKey("test"), option.WithBaseURL(srv.URL+"/"), option.WithMaxRetries(0))
	maxTokens := 128
	gen, err := NewClientGenerator(&client, openrouterx.Config{Model: "test-model", MaxCompletionToken: &maxTokens, Temperature: 0.2})
	if err != nil {
		t.Fatalf("NewClientGenerator() error = %v", err)
	}

	out, err := gen.Generate(context.Background(), "summarize")
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if out != "The total is 109.82." {
		t.Fatalf("unexpected output: %q", out)
	}
	if seen["model"] != "test-model" {
		t.Fatalf("unexpected model in request: %#v", seen["model"])
	}
	if seen["max_completion_tokens"] != float64(128) {
		t.Fatalf("unexpected max tokens in request: %#v", seen["max_completion_tokens"])
	}
}

func TestClientGeneratorNoChoices(t *testing.T) {
	t.Parallel()

	srv := newCompletionServer(t, http.StatusOK, `{"id": "cmpl-2", "object": "chat.completion", "created": 1, "model": "m", "choices": []}`, nil)
	client := openaisdk.NewClient(option.WithAPIKey("test"), option.WithBaseURL(srv.URL+"/"), option.WithMaxRetries(0))
	gen, err := NewClientGenerator(&client, openrouterx.Config{Model: "m"})
	if err != nil {
		t.Fatalf("NewClientGenerator() error = %v", err)
	}

	if _, err := gen.Generate(context.Background(), "x"); !errors.Is(err, contractx.ErrModelInvoke) {
		t.Fatalf("expected ErrModelInvoke, got %v", err)
	}
}

func TestClientGeneratorHTTPFailure(t *testing.T) {
	t.Parallel()

	srv := newCompletionServer(t, http.StatusUnauthorized, `{"error": {"message": "bad key", "type": "auth"}}`, nil)
	client := openaisdk.NewClient(option.WithAPIKey("test"), option.WithBaseURL(srv.URL+"/"), option.WithMaxRetries(0))
	gen, err := NewClientGenerator(&client, openrouterx.Config{Model: "m"})
	if err != nil {
		t.Fatalf("NewClientGenerator() error = %v", err)
	}

	if _, err := gen.Generate(context.Background(), "x"); !errors.Is(err, contractx.ErrModelInvoke) {
		t.Fatalf("expected ErrModelInvoke, got %v", err)
	}
}

func TestNewClientGeneratorValidation(t *testing.T) {
	t.Parallel()

	if _, err := NewClientGenerator(nil, openrouterx.Config{Model: "m"}); err == nil {
		t.Fatal("expected error for nil client")
	}
	client := openaisdk.NewClient(option.WithAPIKey("test"))
	if _, err := NewClientGenerator(&client, openrouterx.Config{Model: " "}); !errors.Is(err, contractx.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}
