// Package glossary reads term mappings from spreadsheets or YAML files and
// manages glossaries held by a translation provider.
package glossary
