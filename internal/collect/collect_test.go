package collect

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeFile(t *testing.T, root, rel, content string) {
	t.Helper()
	path := filepath.Join(root, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func setupTree(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	writeFile(t, root, "essays/one.txt", "first essay")
	writeFile(t, root, "essays/two.html", "<p>second</p>")
	writeFile(t, root, "essays/deep/three.txt", "third")
	writeFile(t, root, "essays/notes.md", "not allowed")
	writeFile(t, root, "essays/node_modules/skip.txt", "ignored dir")
	writeFile(t, root, "big.txt", strings.Repeat("x", 64))
	return root
}

func names(files []File, root string) []string {
	var out []string
	for _, f := range files {
		rel, _ := filepath.Rel(root, f.Path)
		out = append(out, filepath.ToSlash(rel))
	}
	return out
}

func TestCollectDoublestar(t *testing.T) {
	root := setupTree(t)

	res, err := Collect(Config{Patterns: []string{filepath.Join(root, "essays", "**", "*.txt")}})
	if err != nil {
		t.Fatalf("Collect: %v", err)
	}

	got := names(res.Files, root)
	want := []string{"essays/deep/three.txt", "essays/node_modules/skip.txt", "essays/one.txt"}
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestCollectDirectoryFiltersExtensionsAndExcludedDirs(t *testing.T) {
	root := setupTree(t)

	res, err := Collect(Config{Patterns: []string{filepath.Join(root, "essays")}})
	if err != nil {
		t.Fatalf("Collect: %v", err)
	}

	got := names(res.Files, root)
	want := []string{"essays/deep/three.txt", "essays/one.txt", "essays/two.html"}
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Errorf("got %v, want %v", got, want)
	}

	if len(res.Skipped) != 1 || !strings.HasSuffix(res.Skipped[0].Name, "notes.md") {
		t.Errorf("skipped = %+v", res.Skipped)
	}
}

func TestCollectDeduplicates(t *testing.T) {
	root := setupTree(t)
	one := filepath.Join(root, "essays", "one.txt")

	res, err := Collect(Config{Patterns: []string{one, one, filepath.Join(root, "essays", "*.txt")}})
	if err != nil {
		t.Fatalf("Collect: %v", err)
	}
	if len(res.Files) != 1 {
		t.Errorf("expected 1 file, got %v", names(res.Files, root))
	}
}

func TestCollectSizeCap(t *testing.T) {
	root := setupTree(t)

	res, err := Collect(Config{
		Patterns:    []string{filepath.Join(root, "big.txt")},
		MaxFileSize: 10,
	})
	if err != nil {
		t.Fatalf("Collect: %v", err)
	}
	if len(res.Files) != 0 {
		t.Errorf("oversized file collected: %+v", res.Files)
	}
	if len(res.Skipped) != 1 || !strings.Contains(res.Skipped[0].Reason, "larger") {
		t.Errorf("skipped = %+v", res.Skipped)
	}
}

func TestCollectExclude(t *testing.T) {
	root := setupTree(t)

	res, err := Collect(Config{
		Patterns: []string{filepath.Join(root, "essays")},
		Exclude:  []string{"*.html", "three.txt"},
	})
	if err != nil {
		t.Fatalf("Collect: %v", err)
	}
	got := names(res.Files, root)
	if len(got) != 1 || got[0] != "essays/one.txt" {
		t.Errorf("got %v", got)
	}
}

func TestCollectNoMatch(t *testing.T) {
	root := t.TempDir()
	if _, err := Collect(Config{Patterns: []string{filepath.Join(root, "*.txt")}}); err == nil {
		t.Error("expected error for pattern matching nothing")
	}
}

func TestHasExtension(t *testing.T) {
	if !hasExtension("A.TXT", []string{".txt"}) {
		t.Error("extension match should be case-insensitive")
	}
	if !hasExtension("a.pdf", []string{"pdf"}) {
		t.Error("extension without dot should match")
	}
	if hasExtension("a.exe", DefaultExtensions) {
		t.Error(".exe should not be allowed")
	}
}
