// Package models lists the OpenAI chat models that can be used with the
// openai translation provider.
package models
