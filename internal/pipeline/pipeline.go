package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/SimonOfHH/deepl-helper/internal/batch"
	"github.com/SimonOfHH/deepl-helper/internal/logging"
	"github.com/SimonOfHH/deepl-helper/internal/sheet"
	"github.com/SimonOfHH/deepl-helper/internal/translation"
)

var (
	// ErrPipelineDone is returned by Run on a pipeline that already ran.
	ErrPipelineDone = errors.New("pipeline already ran")

	// ErrResultMismatch is returned when the provider returns a different
	// number of translations than texts sent.
	ErrResultMismatch = errors.New("provider returned wrong number of translations")
)

// FinalizeError is returned when all batches were translated but the
// document could not be saved.
type FinalizeError struct {
	Path string
	Err  error
}

func (e *FinalizeError) Error() string {
	return fmt.Sprintf("failed to save %s: %v", e.Path, e.Err)
}

func (e *FinalizeError) Unwrap() error {
	return e.Err
}

// State is the lifecycle stage of a pipeline.
type State int

const (
	Idle State = iota
	Scanning
	Flushing
	Finalizing
	Done
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Scanning:
		return "scanning"
	case Flushing:
		return "flushing"
	case Finalizing:
		return "finalizing"
	case Done:
		return "done"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Config holds the settings of one translation run
type Config struct {
	SourceLang   string
	TargetLang   string
	SourceColumn int // 0-based
	ResultColumn int // 0-based
	BatchSize    int
	SkipHeader   bool

	GlossaryID string
	// Formality overrides the default derived from TargetLang.
	Formality translation.Formality

	// CallTimeout bounds each provider call; zero means no limit.
	CallTimeout time.Duration

	Logger *slog.Logger
}

// DefaultConfig returns English to German, column A into column B, with
// the header row skipped.
func DefaultConfig() Config {
	return Config{
		SourceLang:   "en",
		TargetLang:   "de",
		SourceColumn: 0,
		ResultColumn: 1,
		BatchSize:    50,
		SkipHeader:   true,
		CallTimeout:  60 * time.Second,
	}
}

// Validate checks the configuration.
func (c Config) Validate() error {
	switch {
	case c.BatchSize < 1:
		return fmt.Errorf("batch size must be at least 1, got %d", c.BatchSize)
	case c.SourceLang == "" || c.TargetLang == "":
		return fmt.Errorf("source and target language are required")
	case c.SourceColumn < 0 || c.ResultColumn < 0:
		return fmt.Errorf("columns must not be negative")
	case c.SourceColumn == c.ResultColumn:
		return fmt.Errorf("result column must differ from source column %d", c.SourceColumn)
	}
	return nil
}

// Result summarises a run
type Result struct {
	Rows          int // rows read, header excluded
	Flushes       int
	ProviderCalls int
	TextsSent     int
	CacheHits     int // pairs answered without sending their text
	Written       int
	Duration      time.Duration
}

// Pipeline translates one document once.
type Pipeline struct {
	provider translation.Provider
	doc      *sheet.Document
	config   Config
	opts     translation.Options
	cache    *translation.TranslationCache
	state    State
	result   Result
	log      *slog.Logger
}

// New creates a pipeline writing into doc.
func New(provider translation.Provider, doc *sheet.Document, config Config) (*Pipeline, error) {
	if provider == nil {
		return nil, fmt.Errorf("provider is required")
	}
	if doc == nil {
		return nil, fmt.Errorf("document is required")
	}
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid pipeline config: %w", err)
	}

	opts := translation.DefaultOptions(config.TargetLang, config.GlossaryID)
	if config.Formality != translation.FormalityDefault {
		opts.Formality = config.Formality
	}

	return &Pipeline{
		provider: provider,
		doc:      doc,
		config:   config,
		opts:     opts,
		cache:    translation.NewTranslationCache(),
		state:    Idle,
		log:      config.Logger,
	}, nil
}

// State returns the current lifecycle stage.
func (p *Pipeline) State() State {
	return p.state
}

// Options returns the options attached to every provider call.
func (p *Pipeline) Options() translation.Options {
	return p.opts
}

// Run translates all rows and saves the document. Errors from scanning or
// translating are returned unchanged and nothing is saved; a failed save
// is returned as *FinalizeError.
func (p *Pipeline) Run(ctx context.Context) (Result, error) {
	if p.state != Idle {
		return Result{}, ErrPipelineDone
	}
	defer func() { p.state = Done }()

	if logging.RunID(ctx) == "" {
		ctx = logging.NewRun(ctx)
	}
	log := logging.FromContext(ctx, p.log).With("document", p.doc.Path())
	start := time.Now()

	planner, err := batch.NewPlanner(p.doc, batch.Config{
		SourceColumn: p.config.SourceColumn,
		BatchSize:    p.config.BatchSize,
		SkipHeader:   p.config.SkipHeader,
	})
	if err != nil {
		return p.result, err
	}

	p.state = Scanning
	log.Info("translation started",
		"source_lang", p.config.SourceLang,
		"target_lang", p.config.TargetLang,
		"batch_size", p.config.BatchSize,
		"glossary_id", p.opts.GlossaryID)

	for {
		sig, err := planner.Accept()
		if err != nil {
			return p.result, err
		}
		if sig == batch.Continue {
			continue
		}

		if pending := planner.Drain(); len(pending) > 0 {
			if err := p.flush(ctx, log, pending); err != nil {
				p.result.Rows = planner.RowsRead()
				return p.result, err
			}
		}
		if sig == batch.EndOfStream {
			break
		}
	}
	p.result.Rows = planner.RowsRead()

	p.state = Finalizing
	if err := p.doc.Save(); err != nil {
		log.Error("save failed", "error", err)
		return p.result, &FinalizeError{Path: p.doc.Path(), Err: err}
	}

	p.result.Duration = time.Since(start)
	log.Info("translation finished",
		"rows", p.result.Rows,
		"flushes", p.result.Flushes,
		"texts_sent", p.result.TextsSent,
		"cache_hits", p.result.CacheHits,
		"duration", p.result.Duration)

	return p.result, nil
}

// flush translates the unique uncached texts of pending in one call and
// writes a translation for every pair.
func (p *Pipeline) flush(ctx context.Context, log *slog.Logger, pending []batch.Pending) error {
	p.state = Flushing
	p.result.Flushes++

	misses := p.cache.UniqueMisses(batch.Texts(pending))
	p.result.CacheHits += len(pending) - len(misses)

	if len(misses) > 0 {
		translated, err := p.translate(ctx, log, misses)
		if err != nil {
			return err
		}
		for i, text := range misses {
			if err := p.cache.Put(text, translated[i]); err != nil {
				return err
			}
		}
	}

	for _, pair := range pending {
		text, ok := p.cache.Get(pair.Text)
		if !ok {
			return fmt.Errorf("no translation for row %d", pair.Row)
		}
		ref := sheet.CellRef{Column: p.config.ResultColumn + 1, Row: pair.Row}
		if err := sheet.WriteText(p.doc, ref, text); err != nil {
			return err
		}
		p.result.Written++
	}

	p.state = Scanning
	return nil
}

// translate performs the provider call under the configured timeout.
func (p *Pipeline) translate(ctx context.Context, log *slog.Logger, texts []string) ([]string, error) {
	if p.config.CallTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.config.CallTimeout)
		defer cancel()
	}

	p.result.ProviderCalls++
	p.result.TextsSent += len(texts)

	start := time.Now()
	out, err := p.provider.TranslateBatch(ctx, texts, p.config.SourceLang, p.config.TargetLang, p.opts)
	elapsed := time.Since(start)
	if err != nil {
		log.Warn("provider call failed", "provider", p.provider.Name(), "texts", len(texts), "duration", elapsed, "error", err)
		return nil, err
	}
	log.Debug("provider call", "provider", p.provider.Name(), "texts", len(texts), "duration", elapsed)

	if len(out) != len(texts) {
		return nil, fmt.Errorf("%w: sent %d, got %d", ErrResultMismatch, len(texts), len(out))
	}
	return out, nil
}
