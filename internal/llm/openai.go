package llm

import (
	"net/http"
	"strings"
)

// openAIProvider targets the OpenAI API directly. It shares the
// OpenAI-compatible request and response format with ollamaProvider.
type openAIProvider struct {
	ollamaProvider
	apiKey string
}

func (o *openAIProvider) Name() string {
	return "openai"
}

func (o *openAIProvider) BuildURL(baseURL string) string {
	if baseURL == "" {
		baseURL = "https://api.openai.com/v1"
	}
	baseURL = strings.TrimSuffix(baseURL, "/")

	if strings.HasSuffix(baseURL, "/chat/completions") {
		return baseURL
	}

	return baseURL + "/chat/completions"
}

func (o *openAIProvider) SetHeaders(req *http.Request) {
	if o.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+o.apiKey)
	}
}
