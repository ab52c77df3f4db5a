package cli

import (
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/SimonOfHH/deepl-helper/internal/translation"
)

func TestNewFlags(t *testing.T) {
	flags := NewFlags()

	// Test default values
	tests := []struct {
		name     string
		got      interface{}
		expected interface{}
	}{
		{"Provider", flags.Provider, "deepl"},
		{"SourceLang", flags.SourceLang, "en"},
		{"TargetLang", flags.TargetLang, "de"},
		{"SourceColumn", flags.SourceColumn, 0},
		{"ResultColumn", flags.ResultColumn, 1},
		{"BatchSize", flags.BatchSize, 50},
		{"GlossaryName", flags.GlossaryName, "Glossary"},
		{"Retries", flags.Retries, 0},
		{"Timeout", flags.Timeout, 60 * time.Second},
		{"LogLevel", flags.LogLevel, "warn"},
		{"LogFormat", flags.LogFormat, "text"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !reflect.DeepEqual(tt.got, tt.expected) {
				t.Errorf("%s = %v, want %v", tt.name, tt.got, tt.expected)
			}
		})
	}

	// Test boolean defaults (should be false)
	if flags.Backup || flags.ListModels {
		t.Error("Expected boolean flags to default to false")
	}

	// Test string defaults (should be empty)
	stringTests := []struct {
		name  string
		value string
	}{
		{"CfgFile", flags.CfgFile},
		{"Formality", flags.Formality},
		{"Model", flags.Model},
	}

	for _, tt := range stringTests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.value != "" {
				t.Errorf("%s = %v, want empty string", tt.name, tt.value)
			}
		})
	}
}

func TestProviderConfig(t *testing.T) {
	flags := NewFlags()
	flags.Provider = "openai"
	flags.Model = "gpt-test"
	flags.Retries = 2

	config := flags.ProviderConfig("sk-test")

	if config.Provider != "openai" || config.APIKey != "sk-test" || config.Model != "gpt-test" {
		t.Errorf("Unexpected provider config %+v", config)
	}
	if config.Retry.MaxAttempts != 3 {
		t.Errorf("Expected 3 attempts for 2 retries, got %d", config.Retry.MaxAttempts)
	}

	flags.Retries = 0
	if got := flags.ProviderConfig("k").Retry.MaxAttempts; got != 1 {
		t.Errorf("Expected a single attempt without retries, got %d", got)
	}
}

func TestPipelineConfig(t *testing.T) {
	flags := NewFlags()
	flags.Formality = "less"
	flags.BatchSize = 10

	config, err := flags.PipelineConfig("g-1")
	if err != nil {
		t.Fatalf("PipelineConfig failed: %v", err)
	}
	if config.GlossaryID != "g-1" || config.BatchSize != 10 || !config.SkipHeader {
		t.Errorf("Unexpected pipeline config %+v", config)
	}
	if config.Formality != translation.FormalityLess {
		t.Errorf("Expected formality less, got %q", config.Formality)
	}
	if config.CallTimeout != flags.Timeout {
		t.Errorf("Expected call timeout %v, got %v", flags.Timeout, config.CallTimeout)
	}
}

func TestPipelineConfig_Invalid(t *testing.T) {
	flags := NewFlags()
	flags.Formality = "rude"

	_, err := flags.PipelineConfig("")
	var ferr *FlagError
	if !errors.As(err, &ferr) || ferr.Flag != "formality" {
		t.Errorf("Expected FlagError for formality, got %v", err)
	}

	flags = NewFlags()
	flags.ResultColumn = flags.SourceColumn
	if _, err := flags.PipelineConfig(""); err == nil {
		t.Error("Expected error when result and source column are equal")
	}
}
