package glossary

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/SimonOfHH/deepl-helper/internal/sheet"
	"github.com/SimonOfHH/deepl-helper/internal/translation"
)

// ReadMapping builds a glossary from columns A (source) and B (target) of
// every row. Terms are trimmed, rows missing either side are skipped and a repeated source
// term keeps its first target. A document without shared strings yields an
// empty glossary.
func ReadMapping(doc *sheet.Document, skipHeader bool) translation.Glossary {
	g := translation.Glossary{}
	if doc == nil || !doc.HasSharedStrings() {
		return g
	}

	for _, row := range doc.Rows() {
		if skipHeader && row.Index == 1 {
			continue
		}
		source := strings.TrimSpace(sheet.ReadText(doc, sheet.CellRef{Column: 1, Row: row.Index}))
		target := strings.TrimSpace(sheet.ReadText(doc, sheet.CellRef{Column: 2, Row: row.Index}))
		if source == "" || target == "" {
			continue
		}
		if err := g.Add(source, target); err != nil {
			slog.Debug("skipping glossary row", "row", row.Index, "error", err)
		}
	}
	return g
}

// ReadMappingFile reads a glossary from an xlsx workbook or a YAML file.
//
// YAML files hold either a list of {source, target} entries or a plain
// mapping of source to target terms. skipHeader applies to workbooks only.
func ReadMappingFile(path string, skipHeader bool) (translation.Glossary, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return readYAML(path)
	default:
		doc, err := sheet.OpenFile(path, sheet.ReadOnly)
		if err != nil {
			return nil, err
		}
		return ReadMapping(doc, skipHeader), nil
	}
}

func readYAML(path string) (translation.Glossary, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read glossary file: %w", err)
	}

	var node yaml.Node
	if err := yaml.Unmarshal(data, &node); err != nil {
		return nil, fmt.Errorf("failed to parse glossary file: %w", err)
	}

	g := translation.Glossary{}
	if len(node.Content) == 0 {
		return g, nil
	}
	root := node.Content[0]

	switch root.Kind {
	case yaml.SequenceNode:
		var entries []translation.GlossaryEntry
		if err := root.Decode(&entries); err != nil {
			return nil, fmt.Errorf("failed to parse glossary entries: %w", err)
		}
		for _, e := range entries {
			addTerm(g, e.Source, e.Target)
		}
	case yaml.MappingNode:
		var terms map[string]string
		if err := root.Decode(&terms); err != nil {
			return nil, fmt.Errorf("failed to parse glossary terms: %w", err)
		}
		sources := make([]string, 0, len(terms))
		for source := range terms {
			sources = append(sources, source)
		}
		sort.Strings(sources)
		for _, source := range sources {
			addTerm(g, source, terms[source])
		}
	default:
		return nil, fmt.Errorf("glossary file %s must contain a list or a mapping", path)
	}
	return g, nil
}

// addTerm adds a trimmed pair, skipping empty sides and repeated sources.
func addTerm(g translation.Glossary, source, target string) {
	source, target = strings.TrimSpace(source), strings.TrimSpace(target)
	if source == "" || target == "" {
		return
	}
	if err := g.Add(source, target); err != nil {
		slog.Debug("skipping glossary entry", "error", err)
	}
}
