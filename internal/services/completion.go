package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"
)

// Completer issues a single system+user prompt against a language model.
type Completer interface {
	Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error)
	// HasCredential reports whether an API credential is available for calls.
	HasCredential() bool
}

const defaultCompletionTimeout = 60 * time.Second

type ChatCompletionConfig struct {
	BaseURL string
	Path    string
	APIKey  string
	Model   string
	Timeout time.Duration
}

// ChatCompletionClient talks to an OpenAI-compatible chat completions endpoint.
type ChatCompletionClient struct {
	endpoint   string
	apiKey     string
	model      string
	timeout    time.Duration
	httpClient *http.Client
}

func NewChatCompletionClient(cfg ChatCompletionConfig) *ChatCompletionClient {
	tr := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   10 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		ForceAttemptHTTP2:     true,
		MaxIdleConns:          100,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
	}
	return NewChatCompletionClientWithHTTPClient(cfg, &http.Client{Transport: tr})
}

// NewChatCompletionClientWithHTTPClient lets tests swap the transport.
func NewChatCompletionClientWithHTTPClient(cfg ChatCompletionConfig, httpClient *http.Client) *ChatCompletionClient {
	path := strings.TrimSpace(cfg.Path)
	if path == "" {
		path = "/v1/chat/completions"
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultCompletionTimeout
	}

	return &ChatCompletionClient{
		endpoint:   strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/") + path,
		apiKey:     strings.TrimSpace(cfg.APIKey),
		model:      cfg.Model,
		timeout:    timeout,
		httpClient: httpClient,
	}
}

func (c *ChatCompletionClient) HasCredential() bool {
	return c.apiKey != ""
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatCompletionRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatCompletionResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

func (c *ChatCompletionClient) Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	if !c.HasCredential() {
		return "", &ConfigurationError{Message: "completion API key not configured"}
	}

	reqBody := chatCompletionRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: userPrompt},
		},
	}

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(reqBody); err != nil {
		return "", err
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, &buf)
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return "", &UpstreamError{StatusCode: http.StatusGatewayTimeout, Err: err}
		}
		return "", &UpstreamError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
		return "", &UpstreamError{StatusCode: resp.StatusCode, Body: string(raw)}
	}

	var out chatCompletionResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return "", &UpstreamError{StatusCode: http.StatusGatewayTimeout, Err: err}
		}
		return "", &UpstreamError{StatusCode: resp.StatusCode, Err: fmt.Errorf("decode completion response: %w", err)}
	}
	if len(out.Choices) == 0 {
		return "", &UpstreamError{StatusCode: resp.StatusCode, Err: errors.New("completion response has no choices")}
	}

	return out.Choices[0].Message.Content, nil
}
