package cli

import (
	"fmt"
	"time"

	"github.com/SimonOfHH/deepl-helper/internal/glossarydb"
	"github.com/SimonOfHH/deepl-helper/internal/pipeline"
	"github.com/SimonOfHH/deepl-helper/internal/provider"
	"github.com/SimonOfHH/deepl-helper/internal/translation"
)

// Flags holds all command-line flag values
type Flags struct {
	// General flags
	CfgFile    string
	Provider   string
	Backup     bool
	ListModels bool

	// Translation flags
	SourceLang   string
	TargetLang   string
	SourceColumn int // 0-based
	ResultColumn int // 0-based
	BatchSize    int
	Formality    string
	GlossaryName string

	// Provider flags
	Model      string
	GlossaryDB string
	Retries    int
	Timeout    time.Duration

	// Logging flags
	LogLevel  string
	LogFormat string
}

// NewFlags creates a new Flags instance with default values
func NewFlags() *Flags {
	return &Flags{
		Provider:     "deepl",
		SourceLang:   "en",
		TargetLang:   "de",
		SourceColumn: 0,
		ResultColumn: 1,
		BatchSize:    50,
		GlossaryName: "Glossary",
		GlossaryDB:   glossarydb.DefaultPath(),
		Retries:      0,
		Timeout:      60 * time.Second,
		LogLevel:     "warn",
		LogFormat:    "text",
	}
}

// ProviderConfig returns the provider settings for apiKey. Retries counts
// additional attempts, so zero keeps a single attempt per call.
func (f *Flags) ProviderConfig(apiKey string) *provider.Config {
	retry := translation.DefaultRetryConfig()
	retry.MaxAttempts = f.Retries + 1

	return &provider.Config{
		Provider:   f.Provider,
		APIKey:     apiKey,
		Model:      f.Model,
		GlossaryDB: f.GlossaryDB,
		Retry:      retry,
	}
}

// PipelineConfig returns the translation run settings. The header row is
// always skipped.
func (f *Flags) PipelineConfig(glossaryID string) (pipeline.Config, error) {
	formality, ok := translation.ParseFormality(f.Formality)
	if !ok {
		return pipeline.Config{}, &FlagError{Flag: "formality", Value: f.Formality}
	}

	config := pipeline.DefaultConfig()
	config.SourceLang = f.SourceLang
	config.TargetLang = f.TargetLang
	config.SourceColumn = f.SourceColumn
	config.ResultColumn = f.ResultColumn
	config.BatchSize = f.BatchSize
	config.GlossaryID = glossaryID
	config.Formality = formality
	config.CallTimeout = f.Timeout
	return config, config.Validate()
}

// FlagError reports an invalid flag value
type FlagError struct {
	Flag  string
	Value string
}

func (e *FlagError) Error() string {
	return fmt.Sprintf("invalid value %q for --%s", e.Value, e.Flag)
}
