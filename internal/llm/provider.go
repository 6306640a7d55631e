package llm

import "net/http"

// Provider defines the contract for completion provider implementations.
type Provider interface {
	// Name returns the provider identifier (e.g. "openai", "ollama").
	Name() string

	// BuildURL constructs the full chat completions endpoint URL.
	// An empty baseURL selects the provider's default host.
	BuildURL(baseURL string) string

	// SetHeaders adds provider-specific headers to the request.
	SetHeaders(req *http.Request)

	// BuildRequestBody creates the JSON request body.
	BuildRequestBody(model string, messages []Message, temperature *float64, maxTokens int) ([]byte, error)

	// ParseResponse extracts the completion from provider-specific JSON.
	ParseResponse(body []byte, model string) (*Response, error)
}
