package models

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/sashabaranov/go-openai"
)

// Lister handles listing available OpenAI models
type Lister struct {
	apiKey string
	client *openai.Client
}

// NewLister creates a new model lister. baseURL may be empty.
func NewLister(apiKey, baseURL string) *Lister {
	config := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		config.BaseURL = baseURL
	}
	return &Lister{
		apiKey: apiKey,
		client: openai.NewClientWithConfig(config),
	}
}

// ChatModels returns the sorted ids of the chat models for the API key.
func (l *Lister) ChatModels(ctx context.Context) ([]string, error) {
	if l.apiKey == "" {
		return nil, fmt.Errorf("OpenAI API key not found. Set OPENAI_API_KEY environment variable or configure openai.api_key in .deepl-helper.yaml")
	}

	models, err := l.client.ListModels(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list models: %w", err)
	}

	chatModels := []string{}
	for _, model := range models.Models {
		if isChatModel(model.ID) {
			chatModels = append(chatModels, model.ID)
		}
	}
	sort.Strings(chatModels)
	return chatModels, nil
}

// PrintChatModels writes the chat models to w, marking the default.
func (l *Lister) PrintChatModels(ctx context.Context, w io.Writer, defaultModel string) error {
	chatModels, err := l.ChatModels(ctx)
	if err != nil {
		return err
	}

	fmt.Fprintln(w, "Chat models usable with --provider openai --model <id>:")
	if len(chatModels) == 0 {
		fmt.Fprintln(w, "  No chat models found")
		return nil
	}
	for _, model := range chatModels {
		marker := ""
		if model == defaultModel {
			marker = " (default)"
		}
		fmt.Fprintf(w, "  %s%s\n", model, marker)
	}
	return nil
}

// isChatModel excludes audio, image, embedding and moderation models.
func isChatModel(id string) bool {
	for _, skip := range []string{"tts", "audio", "realtime", "transcribe", "dall-e", "image", "embedding", "moderation", "whisper", "search"} {
		if strings.Contains(id, skip) {
			return false
		}
	}
	return strings.HasPrefix(id, "gpt-") || strings.HasPrefix(id, "o1") || strings.HasPrefix(id, "o3") || strings.HasPrefix(id, "o4") || strings.Contains(id, "chat")
}
