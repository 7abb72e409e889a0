//go:build mage

package main

import (
	"bytes"
	"fmt"
	"io/fs"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strings"
)

// Stats prints Go line counts and the reports exported under reports/.
func Stats() error {
	prod, tests, err := goLines(".")
	if err != nil {
		return err
	}
	runs, formats, err := exportCounts("reports")
	if err != nil {
		return err
	}

	fmt.Printf("Lines of code (Go, production): %d\n", prod)
	fmt.Printf("Lines of code (Go, tests):      %d\n", tests)
	fmt.Printf("Exported runs:                  %d\n", runs)
	for _, ext := range slices.Sorted(maps.Keys(formats)) {
		fmt.Printf("  %-10s %d\n", ext, formats[ext])
	}
	return nil
}

// goLines counts non-blank lines in production and test Go files under
// root. Hidden directories and those starting with an underscore are skipped.
func goLines(root string) (prod, tests int, err error) {
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			name := d.Name()
			if path != root && (strings.HasPrefix(name, ".") || strings.HasPrefix(name, "_")) {
				return filepath.SkipDir
			}
			return nil
		}
		if filepath.Ext(path) != ".go" {
			return nil
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("reading %s: %w", path, err)
		}
		n := 0
		for line := range bytes.Lines(data) {
			if len(bytes.TrimSpace(line)) > 0 {
				n++
			}
		}
		if strings.HasSuffix(path, "_test.go") {
			tests += n
		} else {
			prod += n
		}
		return nil
	})
	return prod, tests, err
}

// exportCounts counts the distinct runs and the files per format among the
// report-<id>.<ext> files in dir. A missing dir counts as empty.
func exportCounts(dir string) (int, map[string]int, error) {
	formats := map[string]int{}
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return 0, formats, nil
	}
	if err != nil {
		return 0, nil, fmt.Errorf("reading %s: %w", dir, err)
	}
	runs := map[string]bool{}
	for _, e := range entries {
		name, ok := strings.CutPrefix(e.Name(), "report-")
		if e.IsDir() || !ok {
			continue
		}
		id, ext, ok := strings.Cut(name, ".")
		if !ok || id == "" || ext == "" {
			continue
		}
		runs[id] = true
		formats[ext]++
	}
	return len(runs), formats, nil
}
