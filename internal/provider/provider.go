// Package provider adapts one model invocation to the wire shape of the
// provider behind it and recovers a structured analysis from whatever text
// comes back. An invocation never fails the caller: any error along the way
// is folded into a degraded ModelResult.
package provider

import (
	"context"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/surveyworks/surveyqc-cli/internal/llmjson"
	"github.com/surveyworks/surveyqc-cli/internal/model"
	"github.com/surveyworks/surveyqc-cli/internal/prompt"
	"github.com/surveyworks/surveyqc-cli/pkg/anthropic"
	"github.com/surveyworks/surveyqc-cli/pkg/chatapi"
	"github.com/surveyworks/surveyqc-cli/pkg/gemini"
)

// Default endpoints for providers that speak the OpenAI-compatible wire shape.
const (
	deepSeekBaseURL   = "https://api.deepseek.com"
	openRouterBaseURL = "https://openrouter.ai/api/v1"
	genericBaseURL    = "https://api.openai.com/v1"
)

const (
	defaultTimeout   = 120 * time.Second
	defaultMaxTokens = 8192
)

// Invoker sends survey content to one configured model and turns the reply
// into a ModelResult. Safe for concurrent use.
type Invoker struct {
	timeout  time.Duration
	limiters map[model.Provider]*rate.Limiter

	// Client factories, replaceable in tests.
	newChat      func(apiKey, baseURL string) chatapi.Client
	newGemini    func(apiKey string) gemini.Client
	newAnthropic func(apiKey string) anthropic.Client
}

// Option configures the Invoker.
type Option func(*Invoker)

// WithTimeout sets the per-request deadline.
func WithTimeout(d time.Duration) Option {
	return func(inv *Invoker) {
		if d > 0 {
			inv.timeout = d
		}
	}
}

// WithChatFactory overrides how OpenAI-compatible clients are built.
func WithChatFactory(f func(apiKey, baseURL string) chatapi.Client) Option {
	return func(inv *Invoker) {
		inv.newChat = f
	}
}

// WithGeminiFactory overrides how Gemini clients are built.
func WithGeminiFactory(f func(apiKey string) gemini.Client) Option {
	return func(inv *Invoker) {
		inv.newGemini = f
	}
}

// WithAnthropicFactory overrides how Anthropic clients are built.
func WithAnthropicFactory(f func(apiKey string) anthropic.Client) Option {
	return func(inv *Invoker) {
		inv.newAnthropic = f
	}
}

// defaultRateLimiters returns the per-provider request limiters. The shared
// limiter per provider keeps a parallel fan-out from bursting one upstream.
func defaultRateLimiters() map[model.Provider]*rate.Limiter {
	return map[model.Provider]*rate.Limiter{
		model.ProviderDeepSeek:   rate.NewLimiter(5, 5),
		model.ProviderGemini:     rate.NewLimiter(5, 5),
		model.ProviderOpenRouter: rate.NewLimiter(5, 5),
		model.ProviderAnthropic:  rate.NewLimiter(5, 5),
		model.ProviderGeneric:    rate.NewLimiter(5, 5),
	}
}

// NewInvoker creates an Invoker with default clients and limits.
func NewInvoker(opts ...Option) *Invoker {
	inv := &Invoker{
		timeout:  defaultTimeout,
		limiters: defaultRateLimiters(),
		newChat: func(apiKey, baseURL string) chatapi.Client {
			return chatapi.NewClient(apiKey, baseURL)
		},
		newGemini: func(apiKey string) gemini.Client {
			return gemini.NewClient(apiKey)
		},
		newAnthropic: func(apiKey string) anthropic.Client {
			return anthropic.NewClient(apiKey)
		},
	}
	for _, o := range opts {
		o(inv)
	}
	return inv
}

// Invoke asks one configured model to evaluate the given survey content.
// On any failure the returned ModelResult carries the error description; a
// reply without recoverable JSON still succeeds, wrapped as a fallback
// analysis with the raw text preserved.
func (inv *Invoker) Invoke(ctx context.Context, content string, cfg model.ModelConfig) model.ModelResult {
	raw, err := inv.complete(ctx, content, cfg)
	if err != nil {
		zap.L().Warn("model invocation failed",
			zap.String("model", cfg.Name),
			zap.String("provider", string(cfg.Provider)),
			zap.Error(err),
		)
		return model.ModelResult{ModelName: cfg.Name, Err: err.Error()}
	}

	return model.ModelResult{ModelName: cfg.Name, Analysis: recoverAnalysis(raw)}
}

// complete performs the provider-specific request and returns the raw reply
// text. A single attempt per request: transient upstream failures surface as
// a degraded result rather than a retry.
func (inv *Invoker) complete(ctx context.Context, content string, cfg model.ModelConfig) (string, error) {
	if !cfg.Provider.Valid() {
		return "", eris.Errorf("provider: unknown provider %q for model %s", cfg.Provider, cfg.Name)
	}
	if cfg.APIKey == "" {
		return "", eris.Errorf("provider: no API key configured for model %s", cfg.Name)
	}

	if lim, ok := inv.limiters[cfg.Provider]; ok {
		if err := lim.Wait(ctx); err != nil {
			return "", eris.Wrap(err, "provider: rate limit wait")
		}
	}

	ctx, cancel := context.WithTimeout(ctx, inv.timeout)
	defer cancel()

	switch cfg.Provider {
	case model.ProviderGemini:
		return inv.completeGemini(ctx, content, cfg)
	case model.ProviderAnthropic:
		return inv.completeAnthropic(ctx, content, cfg)
	case model.ProviderOpenRouter:
		return inv.completeChat(ctx, content, cfg, baseURLFor(cfg, openRouterBaseURL), false)
	case model.ProviderDeepSeek:
		return inv.completeChat(ctx, content, cfg, baseURLFor(cfg, deepSeekBaseURL), true)
	default:
		return inv.completeChat(ctx, content, cfg, baseURLFor(cfg, genericBaseURL), true)
	}
}

// completeChat handles the OpenAI-compatible providers. jsonMode asks the
// upstream for a json_object response; OpenRouter routes to backends that
// reject the hint, so it gets the instructions and content in one user
// message instead.
func (inv *Invoker) completeChat(ctx context.Context, content string, cfg model.ModelConfig, baseURL string, jsonMode bool) (string, error) {
	client := inv.newChat(cfg.APIKey, baseURL)

	req := chatapi.ChatCompletionRequest{
		Model:       cfg.ModelName,
		Temperature: &cfg.Temperature,
	}
	if jsonMode {
		req.Messages = []chatapi.Message{
			{Role: "system", Content: prompt.System()},
			{Role: "user", Content: prompt.User(content)},
		}
		req.ResponseFormat = &chatapi.ResponseFormat{Type: "json_object"}
	} else {
		req.Messages = []chatapi.Message{
			{Role: "user", Content: prompt.Combined(content)},
		}
	}

	resp, err := client.ChatCompletion(ctx, req)
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", eris.Errorf("provider: model %s returned no choices", cfg.Name)
	}
	return resp.Choices[0].Message.Content, nil
}

func (inv *Invoker) completeGemini(ctx context.Context, content string, cfg model.ModelConfig) (string, error) {
	client := inv.newGemini(cfg.APIKey)

	resp, err := client.GenerateContent(ctx, cfg.ModelName, gemini.GenerateRequest{
		Contents: []gemini.Content{
			{Role: "user", Parts: []gemini.Part{{Text: prompt.Combined(content)}}},
		},
		GenerationConfig: &gemini.GenerationConfig{
			Temperature:      &cfg.Temperature,
			ResponseMimeType: "application/json",
		},
	})
	if err != nil {
		return "", err
	}

	text := resp.Text()
	if text == "" {
		return "", eris.Errorf("provider: model %s returned no candidates", cfg.Name)
	}
	return text, nil
}

func (inv *Invoker) completeAnthropic(ctx context.Context, content string, cfg model.ModelConfig) (string, error) {
	client := inv.newAnthropic(cfg.APIKey)

	resp, err := client.CreateMessage(ctx, anthropic.MessageRequest{
		Model:       cfg.ModelName,
		MaxTokens:   defaultMaxTokens,
		System:      prompt.System(),
		Messages:    []anthropic.Message{{Role: "user", Content: prompt.User(content)}},
		Temperature: &cfg.Temperature,
	})
	if err != nil {
		return "", err
	}

	text := resp.Text()
	if text == "" {
		return "", eris.Errorf("provider: model %s returned no content", cfg.Name)
	}
	return text, nil
}

// recoverAnalysis turns raw reply text into an Analysis, falling back to the
// raw-text wrapper when no JSON can be recovered or decoded.
func recoverAnalysis(raw string) *model.Analysis {
	v, ok := llmjson.Recover(raw)
	if !ok {
		return model.FallbackAnalysis(raw)
	}
	a, err := model.DecodeAnalysis(v)
	if err != nil {
		zap.L().Debug("recovered JSON did not decode as analysis", zap.Error(err))
		return model.FallbackAnalysis(raw)
	}
	return a
}

func baseURLFor(cfg model.ModelConfig, fallback string) string {
	if cfg.Endpoint != "" {
		return cfg.Endpoint
	}
	return fallback
}
