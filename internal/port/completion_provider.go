package port

import "context"

// Image is a decoded upload re-encoded for transmission to a model.
type Image struct {
	Data     []byte
	MIMEType string
	Width    int
	Height   int
}

// CompletionProvider abstracts a generative model service.
type CompletionProvider interface {
	// Name identifies the provider in logs and health output.
	Name() string
	GenerateText(ctx context.Context, prompt string) (string, error)
	GenerateFromImage(ctx context.Context, img Image) (string, error)
	GenerateFromPromptAndImage(ctx context.Context, prompt string, img Image) (string, error)
	// Rebind replaces the credential used by subsequent calls.
	Rebind(apiKey string) error
}
