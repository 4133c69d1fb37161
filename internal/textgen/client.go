package textgen

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v5"

	"github.com/ericogr/pikabattle/internal/constants"
	"github.com/ericogr/pikabattle/internal/logging"
)

// ClientConfig configures the chat completions client.
type ClientConfig struct {
	// BaseURL is the provider root, e.g. https://api.openai.com or an
	// Ollama server. The chat completions path is appended.
	BaseURL string
	APIKey  string
	// RequireKey rejects calls without an API key. Local providers accept
	// anonymous requests.
	RequireKey bool
	HTTPClient *http.Client
	// Timeout bounds a single attempt.
	Timeout time.Duration
	// Retries is the number of extra attempts after a retryable failure.
	Retries int
	// InitialBackoff is the first wait between attempts.
	InitialBackoff time.Duration
}

// Client calls an OpenAI-compatible /v1/chat/completions endpoint.
type Client struct {
	cfg ClientConfig
}

// NewClient fills defaults and returns a Client.
func NewClient(cfg ClientConfig) *Client {
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = &http.Client{}
	}
	if strings.TrimSpace(cfg.BaseURL) == "" {
		cfg.BaseURL = constants.OpenAIBaseURL
	}
	cfg.BaseURL = strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if cfg.Timeout <= 0 {
		cfg.Timeout = constants.DefaultTimeout
	}
	if cfg.Retries < 0 {
		cfg.Retries = 0
	}
	if cfg.InitialBackoff <= 0 {
		cfg.InitialBackoff = 500 * time.Millisecond
	}
	return &Client{cfg: cfg}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
	Temperature float64       `json:"temperature,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// StatusError is returned for non-2xx responses.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("chat completion failed: %d %s", e.Code, e.Body)
}

func retryable(code int) bool {
	return code == http.StatusTooManyRequests || code >= 500
}

// Generate sends req and returns the first choice's content, trimmed.
// Transport errors, 429 and 5xx responses are retried with exponential
// backoff; other failures return immediately.
func (c *Client) Generate(ctx context.Context, req Request) (string, error) {
	if c.cfg.RequireKey && strings.TrimSpace(c.cfg.APIKey) == "" {
		return "", fmt.Errorf("%s: %w", constants.EnvOpenAIAPIKey, ErrNoAPIKey)
	}
	if strings.TrimSpace(req.User) == "" {
		return "", ErrEmptyPrompt
	}
	if req.Model == "" {
		req.Model = constants.OpenAIDecisionModel
	}

	payload := chatRequest{Model: req.Model, MaxTokens: req.MaxTokens, Temperature: req.Temperature}
	if req.System != "" {
		payload.Messages = append(payload.Messages, chatMessage{Role: "system", Content: req.System})
	}
	payload.Messages = append(payload.Messages, chatMessage{Role: "user", Content: req.User})
	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("marshal chat request: %w", err)
	}

	eb := backoff.NewExponentialBackOff()
	eb.InitialInterval = c.cfg.InitialBackoff
	attempt := 0
	op := func() (string, error) {
		attempt++
		out, err := c.do(ctx, body)
		if err == nil {
			return out, nil
		}
		var se *StatusError
		if ctx.Err() != nil || errors.Is(err, ErrEmptyResponse) || (errors.As(err, &se) && !retryable(se.Code)) {
			return "", backoff.Permanent(err)
		}
		logging.Warn("chat completion attempt failed", err, logging.Fields{constants.LogFieldModel: req.Model, constants.LogFieldAttempt: attempt})
		return "", err
	}
	return backoff.Retry(ctx, op,
		backoff.WithBackOff(eb),
		backoff.WithMaxTries(uint(c.cfg.Retries+1)),
	)
}

func (c *Client) do(ctx context.Context, body []byte) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+constants.OpenAIChatCompletionsPath, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build chat request: %w", err)
	}
	httpReq.Header.Set(constants.HeaderContentType, constants.ContentTypeJSON)
	if key := strings.TrimSpace(c.cfg.APIKey); key != "" {
		httpReq.Header.Set(constants.HeaderAuthorization, constants.BearerPrefix+key)
	}

	resp, err := c.cfg.HTTPClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("chat request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", &StatusError{Code: resp.StatusCode, Body: strings.TrimSpace(string(b))}
	}

	var out chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("decode chat response: %w", err)
	}
	if len(out.Choices) == 0 {
		return "", ErrEmptyResponse
	}
	text := strings.TrimSpace(out.Choices[0].Message.Content)
	if text == "" {
		return "", ErrEmptyResponse
	}
	return text, nil
}
