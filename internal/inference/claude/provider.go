package claude

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"

	"labelscan/internal/config"
	"labelscan/internal/inference"
	"labelscan/internal/port"
)

const (
	providerName = "claude"

	apiURL       = "https://api.anthropic.com/v1/messages"
	apiVersion   = "2023-06-01"
	defaultModel = "claude-sonnet-4-20250514"
	maxTokens    = 8192
)

func init() {
	inference.RegisterProvider(providerName, func(cfg *config.InferenceConfig) (port.CompletionProvider, error) {
		return NewProvider(cfg), nil
	})
}

// Provider implements port.CompletionProvider using the Anthropic Messages API.
type Provider struct {
	textModel   string
	visionModel string
	endpoint    string
	client      *http.Client

	mu     sync.RWMutex
	apiKey string
}

// NewProvider creates a Claude provider from the inference config. A non-empty
// cfg.BaseURL replaces the public endpoint.
func NewProvider(cfg *config.InferenceConfig) *Provider {
	endpoint := cfg.BaseURL
	if endpoint == "" {
		endpoint = apiURL
	}
	return &Provider{
		textModel:   modelOrDefault(cfg.TextModel),
		visionModel: modelOrDefault(cfg.VisionModel),
		endpoint:    endpoint,
		client:      &http.Client{Timeout: cfg.Timeout()},
		apiKey:      cfg.APIKey,
	}
}

// Gemini model names are meaningless here, so they fall back to the default.
func modelOrDefault(model string) string {
	if model == "" || !strings.HasPrefix(model, "claude") {
		return defaultModel
	}
	return model
}

// Name returns "claude".
func (p *Provider) Name() string {
	return providerName
}

// Rebind replaces the API key used by subsequent calls.
func (p *Provider) Rebind(apiKey string) error {
	p.mu.Lock()
	p.apiKey = apiKey
	p.mu.Unlock()
	return nil
}

func (p *Provider) key() string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.apiKey
}

func (p *Provider) GenerateText(ctx context.Context, prompt string) (string, error) {
	blocks := []map[string]interface{}{
		{"type": "text", "text": prompt},
	}
	return p.send(ctx, p.textModel, blocks)
}

func (p *Provider) GenerateFromImage(ctx context.Context, img port.Image) (string, error) {
	return p.send(ctx, p.visionModel, []map[string]interface{}{imageBlock(img)})
}

func (p *Provider) GenerateFromPromptAndImage(ctx context.Context, prompt string, img port.Image) (string, error) {
	blocks := []map[string]interface{}{
		{"type": "text", "text": prompt},
		imageBlock(img),
	}
	return p.send(ctx, p.visionModel, blocks)
}

func imageBlock(img port.Image) map[string]interface{} {
	return map[string]interface{}{
		"type": "image",
		"source": map[string]interface{}{
			"type":       "base64",
			"media_type": img.MIMEType,
			"data":       base64.StdEncoding.EncodeToString(img.Data),
		},
	}
}

func (p *Provider) send(ctx context.Context, model string, blocks []map[string]interface{}) (string, error) {
	reqBody := map[string]interface{}{
		"model":      model,
		"max_tokens": maxTokens,
		"messages": []map[string]interface{}{
			{
				"role":    "user",
				"content": blocks,
			},
		},
	}

	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.endpoint, bytes.NewReader(bodyBytes))
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", p.key())
	req.Header.Set("anthropic-version", apiVersion)

	resp, err := p.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("calling anthropic API: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		baseErr := fmt.Errorf("anthropic API error (status %d): %s", resp.StatusCode, string(respBody))
		if resp.StatusCode == http.StatusTooManyRequests {
			retryAfter := inference.ParseRetryAfterHeader(resp.Header.Get("Retry-After"))
			return "", inference.NewQuotaError(providerName, baseErr, retryAfter)
		}
		return "", baseErr
	}

	return parseResponse(respBody)
}

// apiResponse models the Anthropic Messages API response.
type apiResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	StopReason string `json:"stop_reason"`
}

func parseResponse(body []byte) (string, error) {
	var resp apiResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("unmarshaling response: %w", err)
	}

	var sb strings.Builder
	for _, block := range resp.Content {
		if block.Type == "text" {
			sb.WriteString(block.Text)
		}
	}
	if sb.Len() == 0 {
		return "", fmt.Errorf("empty response from API")
	}
	return sb.String(), nil
}
