package batch

import (
	"errors"
	"fmt"

	"github.com/SimonOfHH/deepl-helper/internal/sheet"
)

// ErrFlushRequired is returned by Accept while the batch is full.
var ErrFlushRequired = errors.New("batch is full, flush required")

// Signal tells the caller what to do after Accept.
type Signal int

const (
	// Continue means the planner can take another row.
	Continue Signal = iota
	// FlushNeeded means the batch is full and must be drained.
	FlushNeeded
	// EndOfStream means all rows have been consumed. The batch may still
	// hold pairs that need a final flush.
	EndOfStream
)

func (s Signal) String() string {
	switch s {
	case Continue:
		return "continue"
	case FlushNeeded:
		return "flush-needed"
	case EndOfStream:
		return "end-of-stream"
	default:
		return fmt.Sprintf("signal(%d)", int(s))
	}
}

// Config controls which rows are read and how many pairs form a batch.
type Config struct {
	SourceColumn int // 0-based; 0 is column A
	BatchSize    int
	SkipHeader   bool // skip row 1
}

// Pending is a row waiting for the translation of its source text.
type Pending struct {
	Row  int
	Text string
}

// Planner feeds rows of a document into bounded batches.
type Planner struct {
	doc    *sheet.Document
	config Config
	rows   []int
	next   int
	batch  []Pending
	read   int
}

// NewPlanner creates a planner over the rows present in doc when called.
func NewPlanner(doc *sheet.Document, config Config) (*Planner, error) {
	if config.BatchSize < 1 {
		return nil, fmt.Errorf("batch size must be at least 1, got %d", config.BatchSize)
	}
	if config.SourceColumn < 0 {
		return nil, fmt.Errorf("source column must not be negative, got %d", config.SourceColumn)
	}

	var rows []int
	for _, row := range doc.Rows() {
		if config.SkipHeader && row.Index == 1 {
			continue
		}
		rows = append(rows, row.Index)
	}

	return &Planner{
		doc:    doc,
		config: config,
		rows:   rows,
		batch:  make([]Pending, 0, config.BatchSize),
	}, nil
}

// Accept consumes the next row. Rows with an empty source text are
// consumed without being queued.
func (p *Planner) Accept() (Signal, error) {
	if len(p.batch) >= p.config.BatchSize {
		return FlushNeeded, ErrFlushRequired
	}
	if p.next >= len(p.rows) {
		return EndOfStream, nil
	}

	index := p.rows[p.next]
	p.next++
	p.read++

	text := sheet.ReadText(p.doc, sheet.CellRef{Column: p.config.SourceColumn + 1, Row: index})
	if text == "" {
		return Continue, nil
	}

	p.batch = append(p.batch, Pending{Row: index, Text: text})
	if len(p.batch) >= p.config.BatchSize {
		return FlushNeeded, nil
	}
	return Continue, nil
}

// Drain returns the queued pairs and empties the batch.
func (p *Planner) Drain() []Pending {
	out := p.batch
	p.batch = make([]Pending, 0, p.config.BatchSize)
	return out
}

// Pending returns a copy of the queued pairs.
func (p *Planner) Pending() []Pending {
	out := make([]Pending, len(p.batch))
	copy(out, p.batch)
	return out
}

// RowsRead returns how many rows Accept has consumed.
func (p *Planner) RowsRead() int {
	return p.read
}

// Texts returns the texts of batch in order, duplicates included.
func Texts(batch []Pending) []string {
	texts := make([]string, len(batch))
	for i, pending := range batch {
		texts[i] = pending.Text
	}
	return texts
}
