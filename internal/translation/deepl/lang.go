package deepl

import (
	"strings"

	"github.com/SimonOfHH/deepl-helper/internal/translation"
)

// sourceLanguageCode uppercases and strips the region: DeepL source
// languages carry no variant.
func sourceLanguageCode(lang string) string {
	return strings.ToUpper(baseLanguage(lang))
}

// targetLanguageCode keeps variants such as EN-GB.
func targetLanguageCode(lang string) string {
	lang = strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(lang), "_", "-"))
	switch lang {
	case "EN":
		return "EN-US"
	case "PT":
		return "PT-PT"
	}
	return lang
}

func baseLanguage(lang string) string {
	lang = strings.TrimSpace(lang)
	if i := strings.IndexAny(lang, "-_"); i >= 0 {
		return lang[:i]
	}
	return lang
}

// EncodeTSV renders entries in DeepL's tab-separated glossary format.
// Tabs and newlines inside terms are replaced by spaces.
func EncodeTSV(g translation.Glossary) string {
	clean := strings.NewReplacer("\t", " ", "\r", " ", "\n", " ")

	var b strings.Builder
	for _, e := range g.Entries() {
		b.WriteString(clean.Replace(strings.TrimSpace(e.Source)))
		b.WriteByte('\t')
		b.WriteString(clean.Replace(strings.TrimSpace(e.Target)))
		b.WriteByte('\n')
	}
	return b.String()
}

// DecodeTSV parses tab-separated glossary entries. Malformed lines are
// skipped.
func DecodeTSV(s string) translation.Glossary {
	g := translation.Glossary{}
	for _, line := range strings.Split(s, "\n") {
		line = strings.TrimRight(line, "\r")
		source, target, ok := strings.Cut(line, "\t")
		if !ok || source == "" {
			continue
		}
		// DeepL never returns repeated sources, keep the first if it does.
		_ = g.Add(source, target)
	}
	return g
}
