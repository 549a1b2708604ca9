// Package huggingface talks to the Hugging Face inference router through its
// OpenAI-compatible chat completions endpoint.
package huggingface

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/kirillkom/ticket-analyzer/internal/core/domain"
	"github.com/kirillkom/ticket-analyzer/internal/infrastructure/llm/httpjson"
	"github.com/kirillkom/ticket-analyzer/internal/infrastructure/resilience"
)

const backendName = "huggingface"

type Options struct {
	Timeout            time.Duration
	ResilienceExecutor *resilience.Executor
}

type Client struct {
	baseURL    string
	apiKey     string
	model      string
	httpClient *http.Client
	executor   *resilience.Executor
}

// New fails with domain.ErrConfiguration when apiKey is empty.
func New(baseURL, apiKey, model string, options Options) (*Client, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, domain.WrapError(domain.ErrConfiguration, "init huggingface client", errors.New("api key is empty"))
	}
	timeout := options.Timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		model:      model,
		httpClient: &http.Client{Timeout: timeout},
		executor:   options.ResilienceExecutor,
	}, nil
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens"`
	Temperature float64       `json:"temperature"`
	Stream      bool          `json:"stream"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Usage *struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
	} `json:"usage"`
}

func (c *Client) Generate(ctx context.Context, msg domain.PromptMessage, opts domain.GenerationOptions) (string, error) {
	req := chatRequest{
		Model:       c.model,
		Messages:    make([]chatMessage, 0, len(msg.Blocks)),
		MaxTokens:   opts.MaxTokens,
		Temperature: opts.Temperature,
	}
	for _, block := range msg.Blocks {
		req.Messages = append(req.Messages, chatMessage{Role: string(block.Role), Content: block.Content})
	}

	var reply string
	call := func(callCtx context.Context) error {
		var response chatResponse
		err := httpjson.PostJSON(callCtx, c.httpClient, httpjson.Request{
			Backend:   backendName,
			Operation: "chat_completion",
			URL:       c.baseURL + "/chat/completions",
			Headers:   map[string]string{"Authorization": "Bearer " + c.apiKey},
			Payload:   req,
		}, &response)
		if err != nil {
			return err
		}
		if len(response.Choices) == 0 {
			return fmt.Errorf("huggingface chat_completion: no choices in response")
		}
		reply = response.Choices[0].Message.Content
		return nil
	}

	if err := httpjson.Run(ctx, c.executor, "huggingface.chat_completion", call, httpjson.ClassifyError); err != nil {
		return "", resilience.WrapTemporaryIfNeeded("huggingface chat_completion", err, httpjson.ClassifyError)
	}
	return reply, nil
}
