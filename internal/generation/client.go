package generation

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/suykerbuyk/habit-hawk/internal/config"
)

const systemPrompt = `You are the AI "Hawk Eye". You write short analytical reports about a
person's activity log. Always refer to yourself in the third person as Hawk
("Hawk observes that ..."). Do not use emotional language. Use "### " for
section headings and plain lines for body text. Respond in %s.`

// Client calls an OpenAI-compatible chat completions endpoint.
type Client struct {
	api         openai.Client
	model       string
	temperature float64
	system      string
}

// NewClient builds a client for cfg using apiKey. The SDK retry loop is
// disabled; a failed call is reported once and the report continues.
func NewClient(cfg config.GenerationConfig, apiKey, language string) *Client {
	if language == "" {
		language = "English"
	}

	opts := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithMaxRetries(0),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(strings.TrimRight(cfg.BaseURL, "/")+"/"))
	}
	if t := cfg.Timeout(); t > 0 {
		opts = append(opts, option.WithRequestTimeout(t))
	}

	return &Client{
		api:         openai.NewClient(opts...),
		model:       cfg.Model,
		temperature: cfg.Temperature,
		system:      fmt.Sprintf(systemPrompt, language),
	}
}

// Generate sends prompt as a single user turn and returns the first choice.
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := c.api.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(c.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(c.system),
			openai.UserMessage(prompt),
		},
		Temperature: openai.Float(c.temperature),
	})
	if err != nil {
		var apiErr *openai.Error
		if errors.As(err, &apiErr) {
			return "", &Error{Status: apiErr.StatusCode, Err: err}
		}
		return "", &Error{Err: err}
	}

	if len(resp.Choices) == 0 {
		return "", &Error{Err: ErrEmptyResponse}
	}
	text := strings.TrimSpace(resp.Choices[0].Message.Content)
	if text == "" {
		return "", &Error{Err: ErrEmptyResponse}
	}
	return text, nil
}
