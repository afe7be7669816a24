// Package providers wraps the hosted LLM APIs an LLM-backed agent can consult.
package providers

import (
	"context"
	"fmt"
	"os"
	"strings"
)

// Client completes a single prompt with the given model.
type Client interface {
	Complete(ctx context.Context, model string, prompt string) (string, error)
}

type ProviderParams struct {
	BaseURL string
	APIKey  string
}

type ProviderOption func(*ProviderParams)

func WithBaseURL(baseURL string) ProviderOption {
	return func(p *ProviderParams) {
		p.BaseURL = baseURL
	}
}

func WithAPIKey(apiKey string) ProviderOption {
	return func(p *ProviderParams) {
		p.APIKey = apiKey
	}
}

const (
	ProviderOpenAI = "openai"
	ProviderGemini = "gemini"
)

// DefaultModel is the model used for a provider when none is configured.
func DefaultModel(name string) string {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case ProviderOpenAI, "":
		return "gpt-4o-mini"
	case ProviderGemini:
		return "gemini-2.0-flash"
	default:
		return ""
	}
}

// New returns the client for a provider name.
func New(ctx context.Context, name string, opts ...ProviderOption) (Client, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case ProviderOpenAI, "":
		return OpenAi(ctx, opts...), nil
	case ProviderGemini:
		c, err := Gemini(ctx, opts...)
		if err != nil {
			return nil, err
		}
		return c, nil
	default:
		return nil, fmt.Errorf("unknown provider %q", name)
	}
}

func applyOptions(opts []ProviderOption, keyEnv string) ProviderParams {
	params := ProviderParams{}
	for _, opt := range opts {
		opt(&params)
	}
	if params.APIKey == "" {
		params.APIKey = os.Getenv(keyEnv)
	}
	return params
}
