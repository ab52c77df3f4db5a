// Package processor implements the interactive menu of deepl-helper. It
// reads choices and file names from an input stream, calls the glossary
// and translation packages and renders their results as text.
package processor
