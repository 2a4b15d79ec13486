// Package openrouter configures chat clients for the OpenRouter OpenAI-compatible API.
// Both the eino chat model and the openai-go client send the same attribution headers.
package openrouter

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	openaimodel "github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/cloudwego/eino/components/model"
	openaisdk "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/rs/zerolog/log"
)

const (
	headerReferer = "HTTP-Referer"
	headerTitle   = "X-Title"
)

type ChatModelBuilder interface {
	NewChatModel(ctx context.Context) (model.BaseChatModel, error)
}

var _ ChatModelBuilder = (*Config)(nil)

// Models whose reasoning traces would otherwise leak into the completion text.
var reasoningExcluded = map[string]bool{
	"x-ai/grok-4.1-fast": true,
}

type Config struct {
	BaseURL            string        `envconfig:"BASE_URL" split_words:"true" default:"https://openrouter.ai/api/v1"`
	APIKey             string        `envconfig:"API_KEY" split_words:"true" required:"true"`
	Model              string        `envconfig:"MODEL" split_words:"true" required:"true"`
	MaxCompletionToken *int          `envconfig:"MAX_COMPLETION_TOKEN" split_words:"true" default:"2000"`
	Temperature        float32       `envconfig:"TEMPERATURE" split_words:"true" default:"0.5"`
	Timeout            time.Duration `envconfig:"TIMEOUT" split_words:"true" default:"30s"`
	SiteURL            string        `envconfig:"SITE_URL" split_words:"true"`
	SiteName           string        `envconfig:"SITE_NAME" split_words:"true"`

	// Role names the caller (planner, summarizer) in logs.
	Role string `ignored:"true"`
}

func (c Config) endpoint() string {
	return strings.TrimRight(strings.TrimSpace(c.BaseURL), "/")
}

// Headers are the OpenRouter app attribution headers; empty settings are omitted.
func (c Config) Headers() http.Header {
	h := http.Header{}
	if v := strings.TrimSpace(c.SiteURL); v != "" {
		h.Set(headerReferer, v)
	}
	if v := strings.TrimSpace(c.SiteName); v != "" {
		h.Set(headerTitle, v)
	}
	return h
}

// ReasoningFields returns the request overrides for model, or nil.
func ReasoningFields(modelName string) map[string]any {
	if !reasoningExcluded[strings.TrimSpace(modelName)] {
		return nil
	}
	return map[string]any{
		"reasoning": map[string]any{
			"exclude": true,
			"effort":  "none",
		},
	}
}

// HTTPClient applies the timeout and injects Headers into every request.
func (c Config) HTTPClient() *http.Client {
	return &http.Client{
		Timeout:   c.Timeout,
		Transport: headerTransport{headers: c.Headers(), next: http.DefaultTransport},
	}
}

type headerTransport struct {
	headers http.Header
	next    http.RoundTripper
}

func (t headerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if len(t.headers) == 0 {
		return t.next.RoundTrip(req)
	}
	req = req.Clone(req.Context())
	for k, vs := range t.headers {
		req.Header[k] = append([]string(nil), vs...)
	}
	return t.next.RoundTrip(req)
}

// ChatModelConfig is the eino model configuration for c.
func (c Config) ChatModelConfig() *openaimodel.ChatModelConfig {
	temperature := c.Temperature
	return &openaimodel.ChatModelConfig{
		BaseURL:     c.endpoint(),
		APIKey:      strings.TrimSpace(c.APIKey),
		Model:       strings.TrimSpace(c.Model),
		MaxTokens:   c.MaxCompletionToken,
		Temperature: &temperature,
		HTTPClient:  c.HTTPClient(),
		ExtraFields: ReasoningFields(c.Model),
	}
}

func (c Config) NewChatModel(ctx context.Context) (model.BaseChatModel, error) {
	conf := c.ChatModelConfig()
	m, err := openaimodel.NewChatModel(ctx, conf)
	if err != nil {
		return nil, fmt.Errorf("openrouter: create %s chat model: %w", c.roleLabel(), err)
	}

	log.Debug().
		Str("role", c.roleLabel()).
		Str("model", conf.Model).
		Bool("reasoning_excluded", conf.ExtraFields != nil).
		Msg("openrouter chat model ready")
	return m, nil
}

// RequestOptions are the openai-go options equivalent to ChatModelConfig.
func (c Config) RequestOptions() []option.RequestOption {
	opts := []option.RequestOption{
		option.WithAPIKey(strings.TrimSpace(c.APIKey)),
	}
	if base := c.endpoint(); base != "" {
		opts = append(opts, option.WithBaseURL(base+"/"))
	}
	if c.Timeout > 0 {
		opts = append(opts, option.WithRequestTimeout(c.Timeout))
	}
	headers := c.Headers()
	for k := range headers {
		opts = append(opts, option.WithHeader(k, headers.Get(k)))
	}
	for k, v := range ReasoningFields(c.Model) {
		opts = append(opts, option.WithJSONSet(k, v))
	}
	return opts
}

// NewClient returns nil without an API key.
func NewClient(cfg Config) *openaisdk.Client {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil
	}
	client := openaisdk.NewClient(cfg.RequestOptions()...)
	return &client
}

func (c Config) roleLabel() string {
	if c.Role == "" {
		return "default"
	}
	return c.Role
}
