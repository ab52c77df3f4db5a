package processor_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/SimonOfHH/deepl-helper/internal/cli"
	"github.com/SimonOfHH/deepl-helper/internal/processor"
	"github.com/SimonOfHH/deepl-helper/internal/testutil"
	"github.com/SimonOfHH/deepl-helper/internal/translation"
)

// run executes the menu with input and returns its output.
func run(t *testing.T, provider translation.Provider, flags *cli.Flags, input, choice, filename string) string {
	t.Helper()

	var out bytes.Buffer
	p := processor.NewProcessor(flags, provider, strings.NewReader(input), &out)
	if err := p.Run(context.Background(), choice, filename); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	return out.String()
}

func TestRun_EndOfInput(t *testing.T) {
	provider := testutil.NewMockProvider(nil)

	out := run(t, provider, cli.NewFlags(), "", "", "")

	if !strings.Contains(out, "[T] Translate Excel") {
		t.Errorf("Menu not printed:\n%s", out)
	}
	if len(provider.Calls) != 0 {
		t.Error("Expected no provider calls")
	}
}

func TestRun_Quit(t *testing.T) {
	provider := testutil.NewMockProvider(nil)

	out := run(t, provider, cli.NewFlags(), "q\nS\n", "", "")

	if strings.Contains(out, "No Glossaries exist") {
		t.Error("Expected the loop to stop at Q")
	}
}

func TestRun_InvalidChoice(t *testing.T) {
	provider := testutil.NewMockProvider(nil)

	out := run(t, provider, cli.NewFlags(), "X\n\n", "", "")

	if strings.Count(out, "Select Option") != 3 {
		t.Errorf("Expected the menu three times, got:\n%s", out)
	}
	if strings.Contains(out, "Error") {
		t.Errorf("Invalid choice should not report an error:\n%s", out)
	}
}

func TestShowGlossaries(t *testing.T) {
	provider := testutil.NewMockProvider(nil)
	g, _ := provider.CreateGlossary(context.Background(), translation.Glossary{"cat": "Katze"}, "Animals", "en", "de")

	out := run(t, provider, cli.NewFlags(), "1\n", "S", "")

	if !strings.Contains(out, "[1]  "+g.ID+" Animals") {
		t.Errorf("Glossary not listed:\n%s", out)
	}
	if !strings.Contains(out, "cat") || !strings.Contains(out, "Katze") {
		t.Errorf("Entries not shown:\n%s", out)
	}
}

func TestShowGlossaries_None(t *testing.T) {
	out := run(t, testutil.NewMockProvider(nil), cli.NewFlags(), "", "s", "")

	if !strings.Contains(out, "No Glossaries exist at the moment") {
		t.Errorf("Expected empty list message:\n%s", out)
	}
}

func TestCreateGlossary(t *testing.T) {
	path := testutil.CreateTestWorkbook(t, [][]string{
		{"English", "German"},
		{"cat", "Katze"},
		{"dog", "Hund"},
	})
	provider := testutil.NewMockProvider(nil)
	flags := cli.NewFlags()
	flags.GlossaryName = "Pets"

	out := run(t, provider, flags, "", "C", path)

	if !strings.Contains(out, "Successfully created glossary Pets") {
		t.Errorf("Expected success message:\n%s", out)
	}
	if len(provider.Glossaries) != 1 {
		t.Fatalf("Expected 1 glossary, got %d", len(provider.Glossaries))
	}
	for id, g := range provider.Glossaries {
		if g.SourceLang != "en" || g.TargetLang != "de" {
			t.Errorf("Unexpected languages %s -> %s", g.SourceLang, g.TargetLang)
		}
		if provider.Entries[id]["dog"] != "Hund" || len(provider.Entries[id]) != 2 {
			t.Errorf("Unexpected entries %v", provider.Entries[id])
		}
	}
}

func TestCreateGlossary_FilenamePrompt(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "missing.xlsx")

	out := run(t, testutil.NewMockProvider(nil), cli.NewFlags(), "C\n"+missing+"\nC\n\n", "", "")

	if !strings.Contains(out, "File does not exist.") {
		t.Errorf("Expected missing file message:\n%s", out)
	}
	if !strings.Contains(out, "No file specified.") {
		t.Errorf("Expected no file message:\n%s", out)
	}
}

func TestDeleteGlossary(t *testing.T) {
	provider := testutil.NewMockProvider(nil)
	g, _ := provider.CreateGlossary(context.Background(), translation.Glossary{"a": "b"}, "G", "en", "de")

	out := run(t, provider, cli.NewFlags(), "1\n", "D", "")

	if !strings.Contains(out, "Deleted glossary G") {
		t.Errorf("Expected delete message:\n%s", out)
	}
	if len(provider.Deleted) != 1 || provider.Deleted[0] != g.ID {
		t.Errorf("Expected delete of %s, got %v", g.ID, provider.Deleted)
	}
}

func TestDeleteGlossary_InvalidSelection(t *testing.T) {
	tests := []string{"abc", "0", "5", ""}

	for _, answer := range tests {
		t.Run("answer_"+answer, func(t *testing.T) {
			provider := testutil.NewMockProvider(nil)
			provider.CreateGlossary(context.Background(), translation.Glossary{"a": "b"}, "G", "en", "de")

			run(t, provider, cli.NewFlags(), answer+"\n", "D", "")

			if len(provider.Deleted) != 0 {
				t.Errorf("Expected no delete for answer %q", answer)
			}
		})
	}
}

func TestDeleteGlossary_ProviderError(t *testing.T) {
	provider := testutil.NewMockProvider(nil)
	provider.CreateGlossary(context.Background(), translation.Glossary{"a": "b"}, "G", "en", "de")
	provider.Err = &translation.ProviderError{Provider: "mock", Status: 403, Message: "forbidden"}

	out := run(t, provider, cli.NewFlags(), "S\n", "D", "")

	if !strings.Contains(out, "Error: mock: status 403: forbidden") {
		t.Errorf("Expected provider error to be reported:\n%s", out)
	}
	if strings.Count(out, "Select Option") != 3 {
		t.Errorf("Expected the loop to continue after the error:\n%s", out)
	}
}

func TestTranslateFile(t *testing.T) {
	path := testutil.CreateTestWorkbook(t, [][]string{
		{"Source", "Target"},
		{"hello"},
		{"world"},
		{"hello"},
	})
	provider := testutil.NewMockProvider(map[string]string{"hello": "Hallo", "world": "Welt"})

	out := run(t, provider, cli.NewFlags(), "n\n", "T", path)

	if !strings.Contains(out, "Translated 3 rows: 2 texts sent in 1 calls, 1 answered from cache.") {
		t.Errorf("Unexpected summary:\n%s", out)
	}
	for address, want := range map[string]string{"B1": "Target", "B2": "Hallo", "B3": "Welt", "B4": "Hallo"} {
		if got := testutil.CellText(t, path, address); got != want {
			t.Errorf("%s = %q, want %q", address, got, want)
		}
	}
	if got := provider.Calls[0].Options; got.GlossaryID != "" || got.Formality != translation.FormalityMore {
		t.Errorf("Unexpected options %+v", got)
	}
}

func TestTranslateFile_WithGlossary(t *testing.T) {
	path := testutil.CreateTestWorkbook(t, [][]string{{"Source"}, {"cat"}})
	provider := testutil.NewMockProvider(nil)
	g, _ := provider.CreateGlossary(context.Background(), translation.Glossary{"cat": "Katze"}, "G", "en", "de")

	run(t, provider, cli.NewFlags(), "y\n1\n", "T", path)

	if len(provider.Calls) != 1 || provider.Calls[0].Options.GlossaryID != g.ID {
		t.Errorf("Expected glossary %s on the call, got %+v", g.ID, provider.Calls)
	}
}

func TestTranslateFile_NoGlossarySelected(t *testing.T) {
	path := testutil.CreateTestWorkbook(t, [][]string{{"Source"}, {"cat"}})
	provider := testutil.NewMockProvider(nil)
	provider.CreateGlossary(context.Background(), translation.Glossary{"cat": "Katze"}, "G", "en", "de")

	out := run(t, provider, cli.NewFlags(), "y\n0\n", "T", path)

	if !strings.Contains(out, "No glossary selected.") {
		t.Errorf("Expected no selection message:\n%s", out)
	}
	if len(provider.Calls) != 0 {
		t.Error("Expected no translation without a selection")
	}
}

func TestTranslateFile_Backup(t *testing.T) {
	path := testutil.CreateTestWorkbook(t, [][]string{{"Source"}, {"cat"}})
	flags := cli.NewFlags()
	flags.Backup = true

	out := run(t, testutil.NewMockProvider(nil), flags, "n\n", "T", path)

	if !strings.Contains(out, "Backup saved to: ") {
		t.Errorf("Expected backup message:\n%s", out)
	}
	entries, err := os.ReadDir(filepath.Join(filepath.Dir(path), "archive"))
	if err != nil || len(entries) != 1 {
		t.Fatalf("Expected one backup, got %v, %v", entries, err)
	}

	backup := filepath.Join(filepath.Dir(path), "archive", entries[0].Name())
	if got := testutil.CellText(t, backup, "B2"); got != "" {
		t.Errorf("Backup should hold the untranslated file, B2 = %q", got)
	}
}

func TestTranslateFile_ProviderError(t *testing.T) {
	path := testutil.CreateTestWorkbook(t, [][]string{{"Source"}, {"a"}, {"b"}})
	provider := testutil.NewMockProvider(nil)
	provider.TranslateErrs = []error{&translation.ProviderError{Provider: "mock", Status: 456, Message: "quota exceeded"}}

	flags := cli.NewFlags()
	flags.BatchSize = 1

	out := run(t, provider, flags, "n\n", "T", path)

	if !strings.Contains(out, "file left unchanged") || !strings.Contains(out, "quota exceeded") {
		t.Errorf("Expected abort message:\n%s", out)
	}
	if got := testutil.CellText(t, path, "B2"); got != "" {
		t.Errorf("Expected file unchanged, B2 = %q", got)
	}
}

func TestTranslateFile_InvalidFormality(t *testing.T) {
	path := testutil.CreateTestWorkbook(t, [][]string{{"Source"}, {"a"}})
	provider := testutil.NewMockProvider(nil)
	flags := cli.NewFlags()
	flags.Formality = "casual"

	out := run(t, provider, flags, "n\n", "T", path)

	if !strings.Contains(out, `invalid value "casual" for --formality`) {
		t.Errorf("Expected flag error:\n%s", out)
	}
	if len(provider.Calls) != 0 {
		t.Error("Expected no provider calls")
	}
}
