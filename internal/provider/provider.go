// Package provider selects and configures the translation backend.
package provider

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/SimonOfHH/deepl-helper/internal/glossarydb"
	"github.com/SimonOfHH/deepl-helper/internal/translation"
	"github.com/SimonOfHH/deepl-helper/internal/translation/deepl"
	"github.com/SimonOfHH/deepl-helper/internal/translation/gemini"
	"github.com/SimonOfHH/deepl-helper/internal/translation/openai"
)

// Names lists the supported providers.
var Names = []string{"deepl", "openai", "gemini"}

// Config holds the settings needed to build any provider
type Config struct {
	Provider   string // "deepl", "openai" or "gemini"
	APIKey     string
	Model      string // LLM providers only
	GlossaryDB string // LLM providers only; local glossary database
	Retry      translation.RetryConfig
}

// DefaultConfig returns the DeepL configuration without retries
func DefaultConfig() *Config {
	return &Config{
		Provider:   "deepl",
		GlossaryDB: glossarydb.DefaultPath(),
		Retry:      translation.DefaultRetryConfig(),
	}
}

// EnvVar returns the environment variable holding the API key of a provider.
func EnvVar(name string) string {
	switch strings.ToLower(name) {
	case "openai":
		return "OPENAI_API_KEY"
	case "gemini":
		return "GEMINI_API_KEY"
	default:
		return "DEEPL_AUTH_KEY"
	}
}

// New creates the configured provider wrapped in a ResilientProvider. The
// returned closer releases local resources and must be closed after use.
func New(ctx context.Context, config *Config) (translation.Provider, io.Closer, error) {
	if config == nil {
		config = DefaultConfig()
	}
	if config.APIKey == "" {
		return nil, nil, fmt.Errorf("%s API key is required", config.Provider)
	}

	var (
		p      translation.Provider
		closer io.Closer = nopCloser{}
	)

	switch strings.ToLower(config.Provider) {
	case "deepl", "":
		client, err := deepl.NewClient(config.APIKey)
		if err != nil {
			return nil, nil, err
		}
		p = client

	case "openai":
		store, err := glossarydb.Open(config.glossaryDB(), "openai")
		if err != nil {
			return nil, nil, err
		}
		op, err := openai.New(openai.Config{APIKey: config.APIKey, Model: config.Model}, store)
		if err != nil {
			store.Close()
			return nil, nil, err
		}
		p, closer = op, store

	case "gemini":
		store, err := glossarydb.Open(config.glossaryDB(), "gemini")
		if err != nil {
			return nil, nil, err
		}
		gp, err := gemini.New(ctx, gemini.Config{APIKey: config.APIKey, Model: config.Model}, store)
		if err != nil {
			store.Close()
			return nil, nil, err
		}
		p, closer = gp, store

	default:
		return nil, nil, fmt.Errorf("unknown translation provider: %s", config.Provider)
	}

	return translation.NewResilientProvider(p, config.Retry), closer, nil
}

func (c *Config) glossaryDB() string {
	if c.GlossaryDB == "" {
		return glossarydb.DefaultPath()
	}
	return c.GlossaryDB
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
