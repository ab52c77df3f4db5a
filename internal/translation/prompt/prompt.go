// Package prompt builds batch translation prompts for language-model
// providers and parses their JSON array replies.
package prompt

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/SimonOfHH/deepl-helper/internal/translation"
)

// System is the instruction sent ahead of every batch.
const System = `You are a professional translator for spreadsheet content.
You receive a JSON array of strings and reply with a JSON array of their translations.
The reply must contain exactly one translation per input string, in the same order.
Keep placeholders, numbers, punctuation and surrounding whitespace unchanged.
Reply with the JSON array only, without explanations.`

var markdownCodeBlock = regexp.MustCompile("(?s)```(?:json)?\\s*(.*?)\\s*```")

// Build renders the user message for one batch. Glossary entries, when
// given, are listed as mandatory term translations.
func Build(texts []string, sourceLang, targetLang string, formality translation.Formality, glossary translation.Glossary) (string, error) {
	payload, err := json.Marshal(texts)
	if err != nil {
		return "", fmt.Errorf("failed to encode texts: %w", err)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Translate from %s to %s.\n", languageName(sourceLang), languageName(targetLang))

	switch formality {
	case translation.FormalityMore, translation.FormalityPreferMore:
		b.WriteString("Use the formal form of address.\n")
	case translation.FormalityLess, translation.FormalityPreferLess:
		b.WriteString("Use the informal form of address.\n")
	}

	if len(glossary) > 0 {
		b.WriteString("Always translate these terms as given:\n")
		for _, e := range glossary.Entries() {
			fmt.Fprintf(&b, "- %q => %q\n", e.Source, e.Target)
		}
	}

	fmt.Fprintf(&b, "Input (%d strings):\n%s\n", len(texts), payload)
	return b.String(), nil
}

// Parse extracts the translations from a model reply. Code fences and
// text around the array are ignored.
func Parse(content string, expected int) ([]string, error) {
	content = strings.TrimSpace(content)

	if m := markdownCodeBlock.FindStringSubmatch(content); len(m) > 1 {
		content = m[1]
	}

	start := strings.Index(content, "[")
	end := strings.LastIndex(content, "]")
	if start >= 0 && end > start {
		content = content[start : end+1]
	}

	var out []string
	if err := json.Unmarshal([]byte(content), &out); err != nil {
		return nil, fmt.Errorf("failed to parse response as JSON array: %w", err)
	}
	if len(out) != expected {
		return nil, fmt.Errorf("got %d translations, expected %d", len(out), expected)
	}
	return out, nil
}

var languageNames = map[string]string{
	"bg": "Bulgarian",
	"cs": "Czech",
	"da": "Danish",
	"de": "German",
	"el": "Greek",
	"en": "English",
	"es": "Spanish",
	"fi": "Finnish",
	"fr": "French",
	"hu": "Hungarian",
	"it": "Italian",
	"ja": "Japanese",
	"nl": "Dutch",
	"pl": "Polish",
	"pt": "Portuguese",
	"ro": "Romanian",
	"ru": "Russian",
	"sv": "Swedish",
	"tr": "Turkish",
	"uk": "Ukrainian",
	"zh": "Chinese",
}

// languageName spells out a language code, keeping any region: "en-GB"
// becomes "English (GB)". Unknown codes are returned unchanged.
func languageName(code string) string {
	base, region, _ := strings.Cut(strings.ReplaceAll(code, "_", "-"), "-")
	name, ok := languageNames[strings.ToLower(base)]
	if !ok {
		return code
	}
	if region != "" {
		return fmt.Sprintf("%s (%s)", name, strings.ToUpper(region))
	}
	return name
}
