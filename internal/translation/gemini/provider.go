// Package gemini translates batches with Google Gemini models through the
// genai SDK. Glossaries are kept in a local glossarydb store.
package gemini

import (
	"context"
	"errors"
	"fmt"

	"google.golang.org/genai"

	"github.com/SimonOfHH/deepl-helper/internal/glossarydb"
	"github.com/SimonOfHH/deepl-helper/internal/translation"
	"github.com/SimonOfHH/deepl-helper/internal/translation/prompt"
)

const providerName = "gemini"

// DefaultModel is used when no model is configured.
const DefaultModel = "gemini-2.0-flash"

// Config holds the Gemini provider settings
type Config struct {
	APIKey string
	Model  string
}

// generateFunc sends one prompt and returns the model's text reply.
type generateFunc func(ctx context.Context, model, system, user string) (string, error)

// Provider implements translation.Provider with Gemini content generation
type Provider struct {
	*glossarydb.Store
	model    string
	generate generateFunc
}

// New creates a Gemini provider. Glossary operations go to store.
func New(ctx context.Context, cfg Config, store *glossarydb.Store) (*Provider, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("Gemini API key is required")
	}
	if store == nil {
		return nil, fmt.Errorf("glossary store is required")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return newProvider(cfg.Model, store, clientGenerator(client)), nil
}

func newProvider(model string, store *glossarydb.Store, generate generateFunc) *Provider {
	if model == "" {
		model = DefaultModel
	}
	return &Provider{Store: store, model: model, generate: generate}
}

func clientGenerator(client *genai.Client) generateFunc {
	return func(ctx context.Context, model, system, user string) (string, error) {
		config := &genai.GenerateContentConfig{
			SystemInstruction: genai.NewContentFromText(system, genai.RoleUser),
			Temperature:       genai.Ptr[float32](0.3),
			ResponseMIMEType:  "application/json",
		}
		resp, err := client.Models.GenerateContent(ctx, model, genai.Text(user), config)
		if err != nil {
			return "", err
		}
		return resp.Text(), nil
	}
}

// Name returns the provider name
func (p *Provider) Name() string {
	return providerName
}

// Model returns the Gemini model in use
func (p *Provider) Model() string {
	return p.model
}

// TranslateBatch sends all texts in one request and expects a JSON array of
// the same length back.
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

	reply, err := p.generate(ctx, p.model, prompt.System, user)
	if err != nil {
		return nil, classify(err)
	}

	out, err := prompt.Parse(reply, len(texts))
	if err != nil {
		return nil, &translation.ProviderError{Provider: providerName, Status: 502, Message: err.Error(), Err: err}
	}
	return out, nil
}

func classify(err error) error {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return &translation.ProviderError{Provider: providerName, Status: apiErr.Code, Message: apiErr.Message, Err: err}
	}
	return &translation.ProviderError{Provider: providerName, Err: err}
}
