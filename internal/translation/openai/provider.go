// Package openai translates batches with OpenAI chat models. Glossaries
// are kept in a local glossarydb store and injected into the prompt.
package openai

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sashabaranov/go-openai"

	"github.com/SimonOfHH/deepl-helper/internal/glossarydb"
	"github.com/SimonOfHH/deepl-helper/internal/translation"
	"github.com/SimonOfHH/deepl-helper/internal/translation/prompt"
)

const providerName = "openai"

// DefaultModel is used when no model is configured.
const DefaultModel = openai.GPT4oMini

// Config holds the OpenAI provider settings
type Config struct {
	APIKey  string
	Model   string
	BaseURL string // optional, for compatible endpoints
}

// Provider implements translation.Provider with chat completions
type Provider struct {
	*glossarydb.Store
	client *openai.Client
	model  string
}

// New creates an OpenAI provider. Glossary operations go to store.
func New(cfg Config, store *glossarydb.Store) (*Provider, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("OpenAI API key is required")
	}
	if store == nil {
		return nil, fmt.Errorf("glossary store is required")
	}

	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	}

	model := cfg.Model
	if model == "" {
		model = DefaultModel
	}

	return &Provider{
		Store:  store,
		client: openai.NewClientWithConfig(clientConfig),
		model:  model,
	}, nil
}

// Name returns the provider name
func (p *Provider) Name() string {
	return providerName
}

// Model returns the chat model in use
func (p *Provider) Model() string {
	return p.model
}

// TranslateBatch sends all texts in one chat completion and expects a JSON
// array of the same length back.
func (p *Provider) TranslateBatch(ctx context.Context, texts []string, sourceLang, targetLang string, opts translation.Options) ([]string, error) {
	if len(texts) == 0 {
		return []string{}, nil
	}

	var glossary translation.Glossary
	if opts.GlossaryID != "" {
		g, err := p.GlossaryEntries(ctx, opts.GlossaryID)
		if err != nil {
			return nil, err
		}
		glossary = g
	}

	user, err := prompt.Build(texts, sourceLang, targetLang, opts.Formality, glossary)
	if err != nil {
		return nil, &translation.ProviderError{Provider: providerName, Err: err}
	}

	req := openai.ChatCompletionRequest{
		Model: p.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: prompt.System},
			{Role: openai.ChatMessageRoleUser, Content: user},
		},
		Temperature: 0.3,
	}

	resp, err := p.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return nil, classify(err)
	}

	if len(resp.Choices) == 0 {
		return nil, &translation.ProviderError{Provider: providerName, Message: "no translation returned"}
	}

	out, err := prompt.Parse(strings.TrimSpace(resp.Choices[0].Message.Content), len(texts))
	if err != nil {
		return nil, &translation.ProviderError{Provider: providerName, Status: 502, Message: err.Error(), Err: err}
	}
	return out, nil
}

// classify maps go-openai errors to provider errors carrying the HTTP status.
func classify(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return &translation.ProviderError{Provider: providerName, Status: apiErr.HTTPStatusCode, Message: apiErr.Message, Err: err}
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return &translation.ProviderError{Provider: providerName, Status: reqErr.HTTPStatusCode, Err: err}
	}
	return &translation.ProviderError{Provider: providerName, Err: err}
}
