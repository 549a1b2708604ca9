// Package anthropic adapts the Anthropic Messages API to the text generator port.
package anthropic

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	sdk "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/kirillkom/ticket-analyzer/internal/core/domain"
	"github.com/kirillkom/ticket-analyzer/internal/infrastructure/llm/httpjson"
	"github.com/kirillkom/ticket-analyzer/internal/infrastructure/resilience"
)

type Options struct {
	BaseURL            string
	Timeout            time.Duration
	ResilienceExecutor *resilience.Executor
}

type Client struct {
	client   sdk.Client
	model    string
	executor *resilience.Executor
}

// New fails with domain.ErrConfiguration when apiKey is empty. SDK-level
// retries are disabled; retry policy belongs to the resilience executor.
func New(apiKey, model string, options Options) (*Client, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, domain.WrapError(domain.ErrConfiguration, "init anthropic client", errors.New("api key is empty"))
	}
	timeout := options.Timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	opts := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithMaxRetries(0),
		option.WithHTTPClient(&http.Client{Timeout: timeout}),
	}
	if options.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(options.BaseURL))
	}
	return &Client{
		client:   sdk.NewClient(opts...),
		model:    model,
		executor: options.ResilienceExecutor,
	}, nil
}

func (c *Client) Generate(ctx context.Context, msg domain.PromptMessage, opts domain.GenerationOptions) (string, error) {
	params := sdk.MessageNewParams{
		Model:       sdk.Model(c.model),
		MaxTokens:   int64(opts.MaxTokens),
		Temperature: sdk.Float(opts.Temperature),
	}
	if system := msg.System(); system != "" {
		params.System = []sdk.TextBlockParam{{Text: system}}
	}
	for _, block := range msg.Blocks {
		if block.Role == domain.RoleUser {
			params.Messages = append(params.Messages, sdk.NewUserMessage(sdk.NewTextBlock(block.Content)))
		}
	}

	var reply string
	call := func(callCtx context.Context) error {
		message, err := c.client.Messages.New(callCtx, params)
		if err != nil {
			return fmt.Errorf("anthropic messages request: %w", err)
		}
		for _, content := range message.Content {
			if content.Type == "text" {
				reply = content.Text
				return nil
			}
		}
		return errors.New("anthropic messages: no text content in response")
	}

	if err := httpjson.Run(ctx, c.executor, "anthropic.messages", call, classifyError); err != nil {
		return "", resilience.WrapTemporaryIfNeeded("anthropic messages", err, classifyError)
	}
	return reply, nil
}

func classifyError(err error) resilience.ErrorClassification {
	var apiErr *sdk.Error
	if errors.As(err, &apiErr) {
		return httpjson.ClassifyStatus(apiErr.StatusCode)
	}
	return httpjson.ClassifyError(err)
}
