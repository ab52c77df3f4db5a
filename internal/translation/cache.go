package translation

import "fmt"

// TranslationCache stores translations obtained during one run. Entries
// are write-once.
type TranslationCache struct {
	translations map[string]string
}

// NewTranslationCache creates a new translation cache
func NewTranslationCache() *TranslationCache {
	return &TranslationCache{
		translations: make(map[string]string),
	}
}

// Get retrieves a translation from the cache
func (tc *TranslationCache) Get(text string) (string, bool) {
	translation, ok := tc.translations[text]
	return translation, ok
}

// Put stores the translation of text. A text that is already cached keeps
// its first translation and ErrAlreadyCached is returned.
func (tc *TranslationCache) Put(text, translation string) error {
	if _, ok := tc.translations[text]; ok {
		return fmt.Errorf("%w: %q", ErrAlreadyCached, text)
	}
	tc.translations[text] = translation
	return nil
}

// UniqueMisses returns the distinct texts that are not cached, in the order
// they first appear.
func (tc *TranslationCache) UniqueMisses(texts []string) []string {
	seen := make(map[string]struct{}, len(texts))
	var misses []string
	for _, text := range texts {
		if _, ok := tc.translations[text]; ok {
			continue
		}
		if _, ok := seen[text]; ok {
			continue
		}
		seen[text] = struct{}{}
		misses = append(misses, text)
	}
	return misses
}

// Len returns the number of cached texts
func (tc *TranslationCache) Len() int {
	return len(tc.translations)
}

// GetAll returns all cached translations
func (tc *TranslationCache) GetAll() map[string]string {
	// Return a copy to prevent external modification
	result := make(map[string]string, len(tc.translations))
	for k, v := range tc.translations {
		result[k] = v
	}
	return result
}
