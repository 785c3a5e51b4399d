package cli

import (
	"bufio"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"testing"
)

// moduleRoot returns the directory holding go.mod, two levels above this file.
func moduleRoot(t *testing.T) string {
	t.Helper()
	_, filename, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatal("cannot locate test file")
	}
	return filepath.Dir(filepath.Dir(filepath.Dir(filename)))
}

// moduleTestFiles lists the module's _test.go files, skipping directories
// the go tool ignores.
func moduleTestFiles(t *testing.T) []string {
	t.Helper()
	var files []string
	err := filepath.WalkDir(moduleRoot(t), func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			name := d.Name()
			if path != moduleRoot(t) && (strings.HasPrefix(name, ".") || strings.HasPrefix(name, "_") || name == "vendor" || name == "testdata") {
				return filepath.SkipDir
			}
			return nil
		}
		if strings.HasSuffix(path, "_test.go") {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("Failed to walk module: %v", err)
	}
	return files
}

// TestNoSkippedTests ensures no test files contain t.Skip() calls.
// Tests should either pass or fail, never skip.
func TestNoSkippedTests(t *testing.T) {
	forbidden := []string{
		"t." + "Skip(",
		"t." + "SkipNow(",
		"testing." + "Short()",
	}

	var violations []string
	for _, path := range moduleTestFiles(t) {
		f, err := os.Open(path)
		if err != nil {
			t.Fatalf("Failed to open %s: %v", path, err)
		}

		scanner := bufio.NewScanner(f)
		lineNum := 0
		for scanner.Scan() {
			lineNum++
			line := scanner.Text()
			if strings.HasPrefix(strings.TrimSpace(line), "//") {
				continue
			}
			for _, p := range forbidden {
				if strings.Contains(line, p) {
					violations = append(violations, path+":"+strconv.Itoa(lineNum)+": contains "+p)
				}
			}
		}
		f.Close()

		if err := scanner.Err(); err != nil {
			t.Fatalf("Error scanning %s: %v", path, err)
		}
	}

	for _, v := range violations {
		t.Errorf("skipped test: %s", v)
	}
}

// TestEveryPackageHasTests ensures each package directory with Go sources
// has at least one test file.
func TestEveryPackageHasTests(t *testing.T) {
	tested := map[string]bool{}
	for _, path := range moduleTestFiles(t) {
		tested[filepath.Dir(path)] = true
	}
	if len(tested) == 0 {
		t.Fatal("No test files found - something is wrong with test discovery")
	}

	for _, dir := range []string{"pkg/pattern", "pkg/tz", "pkg/rewriter", "pkg/parser", "pkg/filter", "pkg/config", "pkg/output", "pkg/detector", "internal/log", "internal/cli"} {
		if !tested[filepath.Join(moduleRoot(t), dir)] {
			t.Errorf("package %s has no tests", dir)
		}
	}
}
