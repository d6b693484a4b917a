package llm

import "context"

// Provider is the hosted completion backend. One attempt per call, errors
// propagate to the caller unretried.
type Provider interface {
	Complete(ctx context.Context, systemPrompt string, userPrompt string) (string, error)

	// CompleteWithImage sends a vision request. imageB64 is a base64-encoded
	// image payload without the data-URL prefix.
	CompleteWithImage(ctx context.Context, systemPrompt string, userPrompt string, imageB64 string) (string, error)
}
