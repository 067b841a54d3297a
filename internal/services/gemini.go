package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"github.com/googleapis/gax-go/v2/apierror"
	"google.golang.org/api/option"
)

// GeminiCompleter answers prompts through the Gemini SDK instead of a chat completions gateway.
type GeminiCompleter struct {
	client  *genai.Client
	model   string
	timeout time.Duration
}

// NewGeminiCompleter returns a completer without a client when apiKey is empty,
// so a missing credential surfaces per request instead of at startup.
func NewGeminiCompleter(ctx context.Context, apiKey, model string, timeout time.Duration) (*GeminiCompleter, error) {
	if timeout <= 0 {
		timeout = defaultCompletionTimeout
	}
	g := &GeminiCompleter{model: model, timeout: timeout}

	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return g, nil
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	g.client = client
	return g, nil
}

func (g *GeminiCompleter) HasCredential() bool {
	return g.client != nil
}

func (g *GeminiCompleter) Close() {
	if g.client != nil {
		g.client.Close()
	}
}

func (g *GeminiCompleter) Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	if g.client == nil {
		return "", &ConfigurationError{Message: "Gemini API key not configured"}
	}

	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	model := g.client.GenerativeModel(g.model)
	model.SystemInstruction = &genai.Content{Parts: []genai.Part{genai.Text(systemPrompt)}}

	resp, err := model.GenerateContent(ctx, genai.Text(userPrompt))
	if err != nil {
		return "", geminiUpstreamError(err)
	}

	text := extractText(resp)
	if strings.TrimSpace(text) == "" {
		return "", &UpstreamError{Err: errors.New("Gemini returned empty text")}
	}
	return text, nil
}

func geminiUpstreamError(err error) *UpstreamError {
	if errors.Is(err, context.DeadlineExceeded) {
		return &UpstreamError{StatusCode: http.StatusGatewayTimeout, Err: err}
	}
	var apiErr *apierror.APIError
	if errors.As(err, &apiErr) && apiErr.HTTPCode() > 0 {
		return &UpstreamError{StatusCode: apiErr.HTTPCode(), Err: err}
	}
	return &UpstreamError{Err: fmt.Errorf("Gemini API error: %w", err)}
}

func extractText(resp *genai.GenerateContentResponse) string {
	if resp == nil {
		return ""
	}
	var text strings.Builder
	for _, cand := range resp.Candidates {
		if cand.Content != nil {
			for _, part := range cand.Content.Parts {
				if t, ok := part.(genai.Text); ok {
					text.WriteString(string(t))
				}
			}
		}
	}
	return text.String()
}
