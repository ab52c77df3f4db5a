package processor

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/SimonOfHH/deepl-helper/internal/archive"
	"github.com/SimonOfHH/deepl-helper/internal/cli"
	"github.com/SimonOfHH/deepl-helper/internal/glossary"
	"github.com/SimonOfHH/deepl-helper/internal/logging"
	"github.com/SimonOfHH/deepl-helper/internal/pipeline"
	"github.com/SimonOfHH/deepl-helper/internal/sheet"
	"github.com/SimonOfHH/deepl-helper/internal/translation"
)

// Processor runs the menu loop
type Processor struct {
	flags    *cli.Flags
	provider translation.Provider
	builder  *glossary.Builder
	in       *bufio.Scanner
	out      io.Writer
}

// NewProcessor creates a menu processor reading from in and writing to out
func NewProcessor(flags *cli.Flags, provider translation.Provider, in io.Reader, out io.Writer) *Processor {
	return &Processor{
		flags:    flags,
		provider: provider,
		builder:  glossary.NewBuilder(provider, nil),
		in:       bufio.NewScanner(in),
		out:      out,
	}
}

// Run shows the menu until Q is chosen or the input ends. choice and
// filename, when given, answer the first menu prompt and the first file
// prompt. Failed operations are reported and the loop continues.
func (p *Processor) Run(ctx context.Context, choice, filename string) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		p.printMenu()

		input := choice
		choice = ""
		if input == "" {
			line, ok := p.readLine()
			if !ok {
				return nil
			}
			input = line
		}

		opCtx := logging.NewRun(ctx)
		var err error
		switch strings.ToUpper(strings.TrimSpace(input)) {
		case "S":
			err = p.ShowGlossaries(opCtx)
		case "C":
			err = p.CreateGlossary(opCtx, p.takeFilename(&filename))
		case "D":
			err = p.DeleteGlossary(opCtx)
		case "T":
			err = p.TranslateFile(opCtx, p.takeFilename(&filename))
		case "Q":
			return nil
		}
		if err != nil {
			fmt.Fprintf(p.out, "Error: %v\n", err)
		}
	}
}

func (p *Processor) printMenu() {
	fmt.Fprintln(p.out, "==================================")
	fmt.Fprintln(p.out, "Select Option: ")
	fmt.Fprintln(p.out, "  [S] Show Glossaries")
	fmt.Fprintln(p.out, "  [C] Create Glossary from file")
	fmt.Fprintln(p.out, "  [D] Delete Glossary")
	fmt.Fprintln(p.out, "  [T] Translate Excel")
	fmt.Fprintln(p.out, "  [Q] Quit")
	fmt.Fprintln(p.out, "==================================")
	fmt.Fprintln(p.out, "")
}

// ShowGlossaries lists the glossaries and optionally prints the entries of
// one of them.
func (p *Processor) ShowGlossaries(ctx context.Context) error {
	list, err := p.listGlossaries(ctx)
	if err != nil || len(list) == 0 {
		return err
	}

	g, ok := p.selectGlossary(list, "Show entries for (Default: 0): ")
	if !ok {
		return nil
	}

	entries, err := p.builder.Entries(ctx, g.ID)
	if err != nil {
		return err
	}
	for _, e := range entries.Entries() {
		fmt.Fprintf(p.out, "    %-30s %s\n", e.Source, e.Target)
	}
	return nil
}

// CreateGlossary creates a glossary from a two-column workbook or YAML file.
func (p *Processor) CreateGlossary(ctx context.Context, filename string) error {
	path, ok := p.resolveFilename(filename)
	if !ok {
		return nil
	}

	mapping, err := glossary.ReadMappingFile(path, true)
	if err != nil {
		return err
	}

	g, err := p.builder.Create(ctx, mapping, p.flags.GlossaryName, p.flags.SourceLang, p.flags.TargetLang)
	if errors.Is(err, glossary.ErrEmptyGlossary) {
		fmt.Fprintln(p.out, "No glossary entries found in file.")
		return nil
	}
	if err != nil {
		return err
	}

	fmt.Fprintf(p.out, "Successfully created glossary %s (%s) with %d entries.\n", g.Name, g.ID, g.EntryCount)
	return nil
}

// DeleteGlossary deletes a glossary chosen from the list.
func (p *Processor) DeleteGlossary(ctx context.Context) error {
	list, err := p.listGlossaries(ctx)
	if err != nil || len(list) == 0 {
		return err
	}

	g, ok := p.selectGlossary(list, "Select Glossary to delete (Default: 0): ")
	if !ok {
		return nil
	}

	if err := p.builder.Delete(ctx, g.ID); err != nil {
		return err
	}
	fmt.Fprintf(p.out, "Deleted glossary %s (%s).\n", g.Name, g.ID)
	return nil
}

// TranslateFile translates the source column of a workbook into the result
// column, optionally with a glossary, and saves it in place.
func (p *Processor) TranslateFile(ctx context.Context, filename string) error {
	path, ok := p.resolveFilename(filename)
	if !ok {
		return nil
	}

	var glossaryID string
	fmt.Fprint(p.out, "Do you want to use an existing glossary for translation? (y/n) (Default: n): ")
	if answer, _ := p.readLine(); strings.EqualFold(strings.TrimSpace(answer), "y") {
		list, err := p.listGlossaries(ctx)
		if err != nil || len(list) == 0 {
			return err
		}
		g, ok := p.selectGlossary(list, "Select glossary (Default: 0): ")
		if !ok {
			fmt.Fprintln(p.out, "No glossary selected.")
			return nil
		}
		glossaryID = g.ID
	}

	config, err := p.flags.PipelineConfig(glossaryID)
	if err != nil {
		return err
	}

	if p.flags.Backup {
		backup, err := archive.Backup(path)
		if err != nil {
			return err
		}
		fmt.Fprintf(p.out, "Backup saved to: %s\n", backup)
	}

	doc, err := sheet.OpenFile(path, sheet.ReadWrite)
	if err != nil {
		return err
	}

	run, err := pipeline.New(p.provider, doc, config)
	if err != nil {
		return err
	}

	fmt.Fprintf(p.out, "Translating %s from %s to %s...\n", path, config.SourceLang, config.TargetLang)
	result, err := run.Run(ctx)
	if err != nil {
		var ferr *pipeline.FinalizeError
		if errors.As(err, &ferr) {
			return fmt.Errorf("translation finished but the file was not saved: %w", err)
		}
		return fmt.Errorf("translation aborted, file left unchanged: %w", err)
	}

	fmt.Fprintf(p.out, "Translated %d rows: %d texts sent in %d calls, %d answered from cache.\n",
		result.Rows, result.TextsSent, result.ProviderCalls, result.CacheHits)
	fmt.Fprintf(p.out, "Saved %s\n", path)
	return nil
}

// listGlossaries prints the numbered list of glossaries.
func (p *Processor) listGlossaries(ctx context.Context) ([]translation.RemoteGlossary, error) {
	list, err := p.builder.List(ctx)
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		fmt.Fprintln(p.out, "No Glossaries exist at the moment")
		return list, nil
	}

	for i, g := range list {
		fmt.Fprintf(p.out, "[%d]  %s %s (%s -> %s, %d entries)\n",
			i+1, g.ID, g.Name, g.SourceLang, g.TargetLang, g.EntryCount)
	}
	return list, nil
}

// selectGlossary reads a 1-based index. Zero, non-numeric and out of range
// answers select nothing.
func (p *Processor) selectGlossary(list []translation.RemoteGlossary, prompt string) (translation.RemoteGlossary, bool) {
	fmt.Fprintln(p.out, prompt)
	fmt.Fprintln(p.out, "")

	line, _ := p.readLine()
	n, err := strconv.Atoi(strings.TrimSpace(line))
	if err != nil || n < 1 || n > len(list) {
		return translation.RemoteGlossary{}, false
	}
	return list[n-1], true
}

// takeFilename returns the pending command line filename once.
func (p *Processor) takeFilename(filename *string) string {
	name := *filename
	*filename = ""
	return name
}

// resolveFilename asks for a file name when none is given and checks that
// the file exists.
func (p *Processor) resolveFilename(filename string) (string, bool) {
	if filename == "" {
		fmt.Fprint(p.out, "Filename: ")
		line, _ := p.readLine()
		filename = strings.TrimSpace(line)
	}
	if filename == "" {
		fmt.Fprintln(p.out, "No file specified.")
		return "", false
	}
	if _, err := os.Stat(filename); err != nil {
		fmt.Fprintln(p.out, "File does not exist.")
		return "", false
	}
	return filename, true
}

func (p *Processor) readLine() (string, bool) {
	if !p.in.Scan() {
		return "", false
	}
	return p.in.Text(), true
}
