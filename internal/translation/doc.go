// Package translation defines the provider contract used to translate
// batches of text and manage glossaries, together with the per-run
// translation cache and a retrying, circuit-breaking provider wrapper.
// Concrete providers live in the deepl, openai and gemini subpackages.
package translation
