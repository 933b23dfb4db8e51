package discovery

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/spboyer/parbench/internal/models"
)

// writeFile creates an empty file at path, creating parent directories.
func writeFile(t *testing.T, path string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("2 2\n0 1 1 1\n1 1 0 1\n"), 0o644); err != nil {
		t.Fatal(err)
	}
}

func collect(ws *[]models.ResolutionWarning) Option {
	return WithWarningHandler(func(w models.ResolutionWarning) {
		*ws = append(*ws, w)
	})
}

func TestResolveSortedAndFiltered(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "b.jss"))
	writeFile(t, filepath.Join(root, "a.fss"))
	writeFile(t, filepath.Join(root, "c.jss"))
	writeFile(t, filepath.Join(root, "notes.txt"))
	if err := os.MkdirAll(filepath.Join(root, "dir.jss"), 0o755); err != nil {
		t.Fatal(err)
	}

	var warnings []models.ResolutionWarning
	files, err := Resolve([]string{filepath.Join(root, "*")}, collect(&warnings))
	if err != nil {
		t.Fatal(err)
	}

	want := []string{
		filepath.Join(root, "a.fss"),
		filepath.Join(root, "b.jss"),
		filepath.Join(root, "c.jss"),
	}
	if got := models.FilePaths(files); !reflect.DeepEqual(got, want) {
		t.Fatalf("files = %v, want %v", got, want)
	}

	reasons := map[string]string{}
	for _, w := range warnings {
		reasons[filepath.Base(w.Path)] = w.Reason
	}
	if reasons["notes.txt"] != ReasonBadExtension {
		t.Errorf("notes.txt reason = %q, want %q", reasons["notes.txt"], ReasonBadExtension)
	}
	if reasons["dir.jss"] != ReasonNotRegularFile {
		t.Errorf("dir.jss reason = %q, want %q", reasons["dir.jss"], ReasonNotRegularFile)
	}
}

func TestResolveEmptyPatternIsWarning(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "ft06.jss"))

	var warnings []models.ResolutionWarning
	files, err := Resolve([]string{
		filepath.Join(root, "missing", "*.jss"),
		filepath.Join(root, "*.jss"),
	}, collect(&warnings))
	if err != nil {
		t.Fatal(err)
	}
	if len(files) != 1 || files[0].Stem() != "ft06" {
		t.Fatalf("files = %v, want only ft06.jss", files)
	}
	if len(warnings) != 1 || warnings[0].Reason != ReasonNoMatches {
		t.Fatalf("warnings = %v, want one %q warning", warnings, ReasonNoMatches)
	}
}

func TestResolveDeduplicatesAcrossPatterns(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "a.jss"))
	writeFile(t, filepath.Join(root, "b.jss"))

	files, err := Resolve([]string{
		filepath.Join(root, "*.jss"),
		filepath.Join(root, "a.jss"),
	}, WithWarningHandler(nil))
	if err != nil {
		t.Fatal(err)
	}
	if len(files) != 2 {
		t.Fatalf("expected 2 files, got %d: %v", len(files), files)
	}
}

func TestResolveNoValidFilesIsFatal(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "readme.md"))

	var warnings []models.ResolutionWarning
	files, err := Resolve([]string{
		filepath.Join(root, "*.md"),
		filepath.Join(root, "*.jss"),
	}, collect(&warnings))

	var resErr *models.ResolutionError
	if !errors.As(err, &resErr) {
		t.Fatalf("expected ResolutionError, got %v", err)
	}
	if files != nil {
		t.Errorf("expected no files, got %v", files)
	}
	if len(warnings) != 2 {
		t.Errorf("expected 2 warnings, got %d", len(warnings))
	}
}

func TestResolveDefaultPattern(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "data", "la01.jss"))
	writeFile(t, filepath.Join(root, "data", "la02.fss"))

	files, err := Resolve(nil, WithDefaultPattern(filepath.Join(root, "data", "*.jss")), WithWarningHandler(nil))
	if err != nil {
		t.Fatal(err)
	}
	if len(files) != 1 || files[0].Stem() != "la01" {
		t.Fatalf("files = %v, want only la01.jss", files)
	}
}

func TestResolveBadPattern(t *testing.T) {
	_, warnings, err := ResolveWithWarnings([]string{"[unterminated"}, WithWarningHandler(nil))
	if err == nil {
		t.Fatal("expected resolution error")
	}
	if len(warnings) != 1 || warnings[0].Reason != ReasonBadPattern {
		t.Fatalf("warnings = %v, want one %q warning", warnings, ReasonBadPattern)
	}
}

func TestFormatWarning(t *testing.T) {
	got := FormatWarning(models.ResolutionWarning{Pattern: "data/*.jss", Reason: ReasonNoMatches})
	if got != "Warning: no files found matching pattern: data/*.jss" {
		t.Errorf("unexpected warning text %q", got)
	}
}
