// Package analysis produces the markdown risk report for a token.
package analysis

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"github.com/sirupsen/logrus"

	"token-rugcheck/internal/domain"
	"token-rugcheck/internal/observability"
)

// Default completion settings.
const (
	DefaultBaseURL     = "https://api.deepseek.com/v1"
	DefaultModel       = "deepseek-chat"
	DefaultTemperature = 0.3
	DefaultMaxTokens   = 4000
	DefaultTimeout     = 120 * time.Second
)

// ChatClient is the subset of the OpenAI-compatible client used here.
type ChatClient interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// Generator sends token data to the LLM and returns its markdown report.
type Generator struct {
	client      ChatClient
	model       string
	temperature float32
	maxTokens   int
	timeout     time.Duration
	logger      logrus.FieldLogger
}

// Option configures Generator.
type Option func(*Generator)

// WithModel sets the completion model.
func WithModel(model string) Option {
	return func(g *Generator) {
		g.model = model
	}
}

// WithMaxTokens bounds the completion length.
func WithMaxTokens(n int) Option {
	return func(g *Generator) {
		g.maxTokens = n
	}
}

// WithTimeout bounds the completion request.
func WithTimeout(d time.Duration) Option {
	return func(g *Generator) {
		g.timeout = d
	}
}

// WithLogger sets the logger.
func WithLogger(l logrus.FieldLogger) Option {
	return func(g *Generator) {
		g.logger = l
	}
}

// NewClient creates an OpenAI-compatible client for the given provider.
func NewClient(apiKey, baseURL string) *openai.Client {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return openai.NewClientWithConfig(cfg)
}

// NewGenerator creates a report generator.
func NewGenerator(client ChatClient, opts ...Option) *Generator {
	g := &Generator{
		client:      client,
		model:       DefaultModel,
		temperature: DefaultTemperature,
		maxTokens:   DefaultMaxTokens,
		timeout:     DefaultTimeout,
		logger:      logrus.StandardLogger(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Generate asks the model for a risk report. The markdown is returned as is.
func (g *Generator) Generate(ctx context.Context, data *domain.TokenData) (string, error) {
	payload, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return "", &domain.AnalysisError{Reason: "encode token data", Err: err}
	}

	req := openai.ChatCompletionRequest{
		Model: g.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: fmt.Sprintf(userPromptFormat, payload)},
		},
		Temperature: g.temperature,
		MaxTokens:   g.maxTokens,
	}

	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	start := time.Now()
	resp, err := g.client.CreateChatCompletion(ctx, req)
	if err != nil {
		observability.RecordAnalysis("error", time.Since(start).Seconds())
		return "", &domain.AnalysisError{Reason: "completion request", Err: err}
	}

	if len(resp.Choices) == 0 || strings.TrimSpace(resp.Choices[0].Message.Content) == "" {
		observability.RecordAnalysis("empty", time.Since(start).Seconds())
		return "", &domain.AnalysisError{Reason: "empty completion"}
	}

	observability.RecordAnalysis("success", time.Since(start).Seconds())
	g.logger.WithFields(logrus.Fields{
		"model":             g.model,
		"completion_tokens": resp.Usage.CompletionTokens,
		"duration":          time.Since(start).String(),
	}).Info("analysis generated")

	return resp.Choices[0].Message.Content, nil
}
