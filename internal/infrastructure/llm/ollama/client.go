package ollama

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/kirillkom/ticket-analyzer/internal/core/domain"
	"github.com/kirillkom/ticket-analyzer/internal/infrastructure/llm/httpjson"
	"github.com/kirillkom/ticket-analyzer/internal/infrastructure/resilience"
)

const backendName = "ollama"

type Options struct {
	Timeout            time.Duration
	ResilienceExecutor *resilience.Executor
}

type Client struct {
	baseURL    string
	model      string
	httpClient *http.Client
	executor   *resilience.Executor
}

func New(baseURL, model string, options Options) *Client {
	timeout := options.Timeout
	if timeout <= 0 {
		timeout = 120 * time.Second
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		model:      model,
		httpClient: &http.Client{Timeout: timeout},
		executor:   options.ResilienceExecutor,
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model    string         `json:"model"`
	Messages []chatMessage  `json:"messages"`
	Stream   bool           `json:"stream"`
	Format   string         `json:"format,omitempty"`
	Options  map[string]any `json:"options"`
}

type chatResponse struct {
	Message chatMessage `json:"message"`
	Done    bool        `json:"done"`
}

// Generate sends the prompt to /api/chat and returns the assistant reply.
func (c *Client) Generate(ctx context.Context, msg domain.PromptMessage, opts domain.GenerationOptions) (string, error) {
	req := chatRequest{
		Model:    c.model,
		Messages: make([]chatMessage, 0, len(msg.Blocks)),
		Stream:   false,
		Format:   "json",
		Options: map[string]any{
			"temperature": opts.Temperature,
			"num_predict": opts.MaxTokens,
		},
	}
	for _, block := range msg.Blocks {
		req.Messages = append(req.Messages, chatMessage{Role: string(block.Role), Content: block.Content})
	}

	var reply string
	call := func(callCtx context.Context) error {
		var response chatResponse
		err := httpjson.PostJSON(callCtx, c.httpClient, httpjson.Request{
			Backend:   backendName,
			Operation: "chat",
			URL:       c.baseURL + "/api/chat",
			Payload:   req,
		}, &response)
		if err != nil {
			return err
		}
		if response.Message.Role != "" && response.Message.Role != "assistant" {
			return errors.New("ollama chat: unexpected reply role " + response.Message.Role)
		}
		reply = strings.TrimSpace(response.Message.Content)
		return nil
	}

	if err := httpjson.Run(ctx, c.executor, "ollama.chat", call, httpjson.ClassifyError); err != nil {
		return "", resilience.WrapTemporaryIfNeeded("ollama chat", err, httpjson.ClassifyError)
	}
	return reply, nil
}
