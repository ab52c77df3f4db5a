package gemini

import (
	"context"
	"errors"
	"os"
	"reflect"
	"strings"
	"testing"

	"google.golang.org/genai"

	"github.com/SimonOfHH/deepl-helper/internal/glossarydb"
	"github.com/SimonOfHH/deepl-helper/internal/translation"
)

func newTestStore(t *testing.T) *glossarydb.Store {
	t.Helper()

	store, err := glossarydb.Open(":memory:", providerName)
	if err != nil {
		t.Fatalf("Failed to open glossary store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestNew_MissingKey(t *testing.T) {
	if _, err := New(context.Background(), Config{}, newTestStore(t)); err == nil {
		t.Error("Expected error for missing API key")
	}
}

func TestTranslateBatch(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	g, err := store.CreateGlossary(ctx, translation.Glossary{"cat": "Katze"}, "G", "en", "de")
	if err != nil {
		t.Fatalf("CreateGlossary failed: %v", err)
	}

	var gotModel, gotUser string
	p := newProvider("", store, func(ctx context.Context, model, system, user string) (string, error) {
		gotModel, gotUser = model, user
		return `["Katze","Hund"]`, nil
	})

	got, err := p.TranslateBatch(ctx, []string{"cat", "dog"}, "en", "de", translation.Options{GlossaryID: g.ID})
	if err != nil {
		t.Fatalf("TranslateBatch failed: %v", err)
	}
	if !reflect.DeepEqual(got, []string{"Katze", "Hund"}) {
		t.Errorf("Unexpected translations %v", got)
	}
	if gotModel != DefaultModel {
		t.Errorf("Expected model %s, got %s", DefaultModel, gotModel)
	}
	if !strings.Contains(gotUser, `"cat" => "Katze"`) {
		t.Errorf("Glossary missing from prompt:\n%s", gotUser)
	}
}

func TestTranslateBatch_APIError(t *testing.T) {
	p := newProvider("gemini-test", newTestStore(t), func(ctx context.Context, model, system, user string) (string, error) {
		return "", genai.APIError{Code: 503, Message: "overloaded"}
	})

	_, err := p.TranslateBatch(context.Background(), []string{"a"}, "en", "de", translation.Options{})
	var perr *translation.ProviderError
	if !errors.As(err, &perr) {
		t.Fatalf("Expected ProviderError, got %v", err)
	}
	if perr.Status != 503 || !perr.Temporary() {
		t.Errorf("Expected temporary 503, got %+v", perr)
	}
}

func TestTranslateBatch_Empty(t *testing.T) {
	called := false
	p := newProvider("", newTestStore(t), func(ctx context.Context, model, system, user string) (string, error) {
		called = true
		return "[]", nil
	})

	got, err := p.TranslateBatch(context.Background(), nil, "en", "de", translation.Options{})
	if err != nil || len(got) != 0 {
		t.Errorf("Expected empty result, got %v, %v", got, err)
	}
	if called {
		t.Error("Expected no model call for an empty batch")
	}
}

func TestTranslateBatch_Integration(t *testing.T) {
	apiKey := os.Getenv("GEMINI_API_KEY")
	if apiKey == "" {
		t.Skip("Skipping integration test: GEMINI_API_KEY not set")
	}

	p, err := New(context.Background(), Config{APIKey: apiKey}, newTestStore(t))
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	got, err := p.TranslateBatch(context.Background(), []string{"cat", "dog"}, "en", "de", translation.Options{})
	if err != nil {
		t.Fatalf("TranslateBatch failed: %v", err)
	}
	if len(got) != 2 {
		t.Errorf("Expected 2 translations, got %v", got)
	}
}
