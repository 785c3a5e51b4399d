package filter

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/cjappl/trtz/pkg/parser"
)

// OutputPath returns where RunFiles writes the conversion of input.
func OutputPath(outDir, input string) string {
	return filepath.Join(outDir, filepath.Base(input))
}

// CheckOutputs verifies that files can be converted into outDir: stdin is not
// allowed, no two inputs may share a base name and no output may overwrite
// its input.
func CheckOutputs(files []string, outDir string) error {
	seen := make(map[string]string, len(files))
	for _, in := range files {
		if in == parser.StdinName {
			return errors.New("standard input cannot be converted into an output directory")
		}

		out := OutputPath(outDir, in)
		if prev, ok := seen[out]; ok {
			return fmt.Errorf("inputs %s and %s would both be written to %s", prev, in, out)
		}
		seen[out] = in

		absIn, err := filepath.Abs(in)
		if err != nil {
			return fmt.Errorf("resolving %s: %w", in, err)
		}
		absOut, err := filepath.Abs(out)
		if err != nil {
			return fmt.Errorf("resolving %s: %w", out, err)
		}
		if absIn == absOut {
			return fmt.Errorf("output %s would overwrite its input", out)
		}
	}
	return nil
}

// RunFiles converts each file into outDir/<basename>. Up to jobs files are
// converted at once (jobs <= 0 means no limit). Each file is still processed
// line by line in order. The first failure cancels the remaining files.
func (f *Filter) RunFiles(ctx context.Context, files []string, outDir string, jobs int) (*Stats, error) {
	total := &Stats{}

	if err := CheckOutputs(files, outDir); err != nil {
		return total, err
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return total, fmt.Errorf("creating output directory: %w", err)
	}

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	if jobs > 0 {
		g.SetLimit(jobs)
	}

	for _, in := range files {
		g.Go(func() error {
			stats, err := f.runFile(gctx, in, OutputPath(outDir, in))

			mu.Lock()
			total.Add(stats)
			mu.Unlock()

			return err
		})
	}

	err := g.Wait()
	return total, err
}

// runFile converts in through a temporary file beside out, renamed into
// place only when the whole input converted. On failure nothing is left at out.
func (f *Filter) runFile(ctx context.Context, in, out string) (*Stats, error) {
	src := parser.NewFileSource([]string{in}, nil)
	defer src.Close()

	w, err := os.CreateTemp(filepath.Dir(out), "."+filepath.Base(out)+".*.tmp")
	if err != nil {
		return nil, fmt.Errorf("creating output file: %w", err)
	}
	tmp := w.Name()

	stats, err := f.Run(ctx, src, NewWriterSink(w))
	if err == nil {
		err = w.Chmod(0o644)
	}
	if cerr := w.Close(); cerr != nil && err == nil {
		err = fmt.Errorf("closing %s: %w", out, cerr)
	}
	if err == nil {
		err = os.Rename(tmp, out)
	}
	if err != nil {
		_ = os.Remove(tmp)
		return stats, err
	}

	stats.Files = 1
	f.logger.Debug().Str("input", in).Str("output", out).Int("lines", stats.Lines).Msg("converted file")
	return stats, nil
}
