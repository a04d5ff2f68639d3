// Package collect expands command-line patterns into the files a batch
// analysis should upload.
package collect

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// DefaultMaxFileSize caps uploads at 10 MB.
const DefaultMaxFileSize int64 = 10 << 20

// DefaultExtensions mirrors the dashboard's upload accept list.
var DefaultExtensions = []string{".txt", ".pdf", ".docx", ".html"}

// File is one discovered input.
type File struct {
	Path string // Absolute path on disk.
	Name string // Path as shown to the user, slash separated.
	Size int64
}

// Config controls which files Collect returns.
type Config struct {
	Patterns    []string // Files, directories or doublestar globs.
	Exclude     []string // Globs matched against the display name and basename.
	Extensions  []string // Allowed extensions; empty means DefaultExtensions.
	MaxFileSize int64    // 0 means DefaultMaxFileSize.
}

// Skipped records a file that matched a pattern but was rejected.
type Skipped struct {
	Name   string
	Reason string
}

// Result is the outcome of Collect.
type Result struct {
	Files   []File
	Skipped []Skipped
}

// Collect resolves every pattern. A directory is walked recursively,
// skipping DefaultExcludes. The result is sorted by name with duplicates
// removed. A pattern matching nothing is an error.
func Collect(cfg Config) (*Result, error) {
	exts := cfg.Extensions
	if len(exts) == 0 {
		exts = DefaultExtensions
	}
	maxSize := cfg.MaxFileSize
	if maxSize <= 0 {
		maxSize = DefaultMaxFileSize
	}

	seen := make(map[string]bool)
	res := &Result{}

	add := func(path string) {
		abs, err := filepath.Abs(path)
		if err != nil || seen[abs] {
			return
		}
		seen[abs] = true

		name := filepath.ToSlash(path)
		if MatchesExclude(name, cfg.Exclude) {
			return
		}
		info, err := os.Stat(abs)
		if err != nil || !info.Mode().IsRegular() {
			return
		}
		if !hasExtension(name, exts) {
			res.Skipped = append(res.Skipped, Skipped{Name: name, Reason: "unsupported extension"})
			return
		}
		if info.Size() > maxSize {
			res.Skipped = append(res.Skipped, Skipped{
				Name:   name,
				Reason: fmt.Sprintf("larger than %d bytes", maxSize),
			})
			return
		}
		res.Files = append(res.Files, File{Path: abs, Name: name, Size: info.Size()})
	}

	for _, pattern := range cfg.Patterns {
		matches, err := expand(pattern)
		if err != nil {
			return nil, err
		}
		if len(matches) == 0 {
			return nil, fmt.Errorf("collect: no files match %q", pattern)
		}
		for _, m := range matches {
			add(m)
		}
	}

	sort.Slice(res.Files, func(i, j int) bool { return res.Files[i].Name < res.Files[j].Name })
	return res, nil
}

// expand turns one pattern into candidate paths.
func expand(pattern string) ([]string, error) {
	if info, err := os.Stat(pattern); err == nil {
		if !info.IsDir() {
			return []string{pattern}, nil
		}
		return walkDir(pattern)
	}

	matches, err := glob(pattern)
	if err != nil {
		return nil, fmt.Errorf("collect: bad pattern %q: %w", pattern, err)
	}
	return matches, nil
}

func walkDir(root string) ([]string, error) {
	var paths []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return nil
		}
		if d.IsDir() {
			if path != root && shouldExcludeDir(d.Name()) {
				return filepath.SkipDir
			}
			return nil
		}
		if d.Type().IsRegular() {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("collect: walk %s: %w", root, err)
	}
	return paths, nil
}

func hasExtension(name string, exts []string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, e := range exts {
		if !strings.HasPrefix(e, ".") {
			e = "." + e
		}
		if strings.EqualFold(ext, e) {
			return true
		}
	}
	return false
}
