package gemini

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"

	"google.golang.org/genai"

	"labelscan/internal/config"
	"labelscan/internal/inference"
	"labelscan/internal/port"
)

const (
	providerName = "gemini"

	defaultTextModel   = "gemini-2.0-flash-exp"
	defaultVisionModel = "gemini-2.0-flash-thinking-exp-01-21"
)

func init() {
	inference.RegisterProvider(providerName, func(cfg *config.InferenceConfig) (port.CompletionProvider, error) {
		return NewProvider(context.Background(), cfg)
	})
}

// Provider implements port.CompletionProvider using the Google GenAI SDK.
type Provider struct {
	textModel   string
	visionModel string
	httpClient  *http.Client
	httpOptions genai.HTTPOptions

	mu     sync.RWMutex
	client *genai.Client
}

// NewProvider creates a Gemini provider. An empty cfg.APIKey is allowed: calls
// fail until Rebind supplies a key.
func NewProvider(ctx context.Context, cfg *config.InferenceConfig) (*Provider, error) {
	p := &Provider{
		textModel:   cfg.TextModel,
		visionModel: cfg.VisionModel,
		httpClient:  &http.Client{Timeout: cfg.Timeout()},
		httpOptions: genai.HTTPOptions{BaseURL: cfg.BaseURL},
	}
	if p.textModel == "" {
		p.textModel = defaultTextModel
	}
	if p.visionModel == "" {
		p.visionModel = defaultVisionModel
	}
	if cfg.APIKey == "" {
		return p, nil
	}

	client, err := p.newClient(ctx, cfg.APIKey)
	if err != nil {
		return nil, err
	}
	p.client = client
	return p, nil
}

func (p *Provider) newClient(ctx context.Context, apiKey string) (*genai.Client, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:      apiKey,
		Backend:     genai.BackendGeminiAPI,
		HTTPClient:  p.httpClient,
		HTTPOptions: p.httpOptions,
	})
	if err != nil {
		return nil, fmt.Errorf("creating genai client: %w", err)
	}
	return client, nil
}

// Name returns "gemini".
func (p *Provider) Name() string {
	return providerName
}

// Rebind swaps the SDK client for one using apiKey. Calls already running keep
// the client they started with.
func (p *Provider) Rebind(apiKey string) error {
	client, err := p.newClient(context.Background(), apiKey)
	if err != nil {
		return err
	}
	p.mu.Lock()
	p.client = client
	p.mu.Unlock()
	return nil
}

func (p *Provider) current() (*genai.Client, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.client == nil {
		return nil, errors.New("gemini: no API key configured")
	}
	return p.client, nil
}

func (p *Provider) GenerateText(ctx context.Context, prompt string) (string, error) {
	return p.generate(ctx, p.textModel, genai.Text(prompt))
}

func (p *Provider) GenerateFromImage(ctx context.Context, img port.Image) (string, error) {
	parts := []*genai.Part{
		genai.NewPartFromBytes(img.Data, img.MIMEType),
	}
	return p.generate(ctx, p.visionModel, []*genai.Content{genai.NewContentFromParts(parts, genai.RoleUser)})
}

func (p *Provider) GenerateFromPromptAndImage(ctx context.Context, prompt string, img port.Image) (string, error) {
	parts := []*genai.Part{
		genai.NewPartFromText(prompt),
		genai.NewPartFromBytes(img.Data, img.MIMEType),
	}
	return p.generate(ctx, p.visionModel, []*genai.Content{genai.NewContentFromParts(parts, genai.RoleUser)})
}

func (p *Provider) generate(ctx context.Context, model string, contents []*genai.Content) (string, error) {
	client, err := p.current()
	if err != nil {
		return "", err
	}

	resp, err := client.Models.GenerateContent(ctx, model, contents, nil)
	if err != nil {
		return "", classifyError(err)
	}

	if len(resp.Candidates) == 0 {
		return "", fmt.Errorf("empty response from API: no candidates")
	}
	if resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("empty response from API: no parts (finish reason %s)", resp.Candidates[0].FinishReason)
	}
	return resp.Text(), nil
}

// classifyError maps SDK errors onto the inference error taxonomy.
func classifyError(err error) error {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		if apiErr.Code == http.StatusTooManyRequests || apiErr.Status == "RESOURCE_EXHAUSTED" {
			return inference.NewQuotaError(providerName, err, 0)
		}
	}
	return fmt.Errorf("calling gemini API: %w", err)
}
