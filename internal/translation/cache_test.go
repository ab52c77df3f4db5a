package translation

import (
	"errors"
	"reflect"
	"testing"
)

func TestTranslationCache(t *testing.T) {
	cache := NewTranslationCache()

	// Test empty cache
	_, found := cache.Get("hello")
	if found {
		t.Error("Expected not found in empty cache")
	}

	if err := cache.Put("hello", "bonjour"); err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	if err := cache.Put("cat", "chat"); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	translation, found := cache.Get("hello")
	if !found {
		t.Error("Expected to find 'hello' in cache")
	}
	if translation != "bonjour" {
		t.Errorf("Expected 'bonjour', got '%s'", translation)
	}

	// Entries are write-once
	err := cache.Put("hello", "salut")
	if !errors.Is(err, ErrAlreadyCached) {
		t.Errorf("Expected ErrAlreadyCached, got %v", err)
	}
	translation, _ = cache.Get("hello")
	if translation != "bonjour" {
		t.Errorf("Expected first translation to be kept, got '%s'", translation)
	}

	if cache.Len() != 2 {
		t.Errorf("Expected 2 entries, got %d", cache.Len())
	}
}

func TestTranslationCache_EmptyTranslation(t *testing.T) {
	cache := NewTranslationCache()

	if err := cache.Put("blank", ""); err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	if _, found := cache.Get("blank"); !found {
		t.Error("An empty translation is still a cache entry")
	}
	if misses := cache.UniqueMisses([]string{"blank"}); len(misses) != 0 {
		t.Errorf("Expected no misses, got %v", misses)
	}
}

func TestTranslationCache_UniqueMisses(t *testing.T) {
	cache := NewTranslationCache()
	cache.Put("cached", "im cache")

	tests := []struct {
		name  string
		input []string
		want  []string
	}{
		{"empty", nil, nil},
		{"all cached", []string{"cached", "cached"}, nil},
		{"first-seen order", []string{"b", "a", "b", "cached", "c", "a"}, []string{"b", "a", "c"}},
		{"single", []string{"x"}, []string{"x"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := cache.UniqueMisses(tt.input)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("UniqueMisses(%v) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestTranslationCache_GetAll(t *testing.T) {
	cache := NewTranslationCache()

	cache.Put("hello", "bonjour")
	cache.Put("cat", "chat")
	cache.Put("dog", "chien")

	all := cache.GetAll()

	expected := map[string]string{
		"hello": "bonjour",
		"cat":   "chat",
		"dog":   "chien",
	}

	if !reflect.DeepEqual(all, expected) {
		t.Errorf("GetAll() = %v, want %v", all, expected)
	}

	// Test that modifying returned map doesn't affect cache
	all["hello"] = "modified"

	translation, _ := cache.Get("hello")
	if translation != "bonjour" {
		t.Error("Cache was modified through returned map")
	}
}
