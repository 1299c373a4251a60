// Package scan runs grade extraction over a folder of semester screenshots.
package scan

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"time"

	"grade-estimator/internal/grades"
	"grade-estimator/internal/screenshot"
)

// ErrTimeout is recorded for a source whose extraction did not finish in time.
var ErrTimeout = errors.New("extraction timed out")

// Source is one semester screenshot.
type Source struct {
	Name string // Semester name derived from the file name, e.g. "SoSe23"
	Path string
}

// Discover lists the screenshots in dir, sorted by file name. A semester
// has one screenshot: when several files share a stem the first by path is
// kept and the others are returned as duplicates.
func Discover(dir string) (sources []Source, duplicates []string, err error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read image folder: %w", err)
	}

	var found []Source
	for _, e := range entries {
		if e.IsDir() || !screenshot.IsScreenshot(e.Name()) {
			continue
		}
		path := filepath.Join(dir, e.Name())
		found = append(found, Source{Name: screenshot.Stem(path), Path: path})
	}

	sort.Slice(found, func(i, j int) bool {
		return found[i].Path < found[j].Path
	})

	seen := make(map[string]bool, len(found))
	for _, src := range found {
		if seen[src.Name] {
			duplicates = append(duplicates, src.Path)
			continue
		}
		seen[src.Name] = true
		sources = append(sources, src)
	}
	return sources, duplicates, nil
}

// Select keeps the sources named in names, in the order given. An empty
// names list selects everything. Names without a screenshot are returned
// as missing.
func Select(sources []Source, names []string) (selected []Source, missing []string) {
	if len(names) == 0 {
		return sources, nil
	}

	byName := make(map[string]Source, len(sources))
	for _, s := range sources {
		if _, dup := byName[s.Name]; !dup {
			byName[s.Name] = s
		}
	}
	for _, n := range names {
		if s, ok := byName[n]; ok {
			selected = append(selected, s)
		} else {
			missing = append(missing, n)
		}
	}
	return selected, missing
}

// Extractor turns a screenshot into grade counts.
type Extractor interface {
	Extract(ctx context.Context, path string) (grades.Vector, error)
	Close() error
}

// OpenFunc creates a fresh Extractor for a single source.
type OpenFunc func() (Extractor, error)

// Result is the outcome of extracting one source.
type Result struct {
	Source   string        `json:"source" yaml:"source"`
	Path     string        `json:"path" yaml:"path"`
	Counts   grades.Vector `json:"counts,omitempty" yaml:"counts,omitempty"`
	Err      error         `json:"-" yaml:"-"`
	Error    string        `json:"error,omitempty" yaml:"error,omitempty"`
	Duration time.Duration `json:"-" yaml:"-"`
	Elapsed  string        `json:"duration" yaml:"duration"` // Duration for display, e.g. "1.234s"
}

// OK reports whether counts were extracted.
func (r Result) OK() bool { return r.Err == nil }

// Runner extracts sources one after another. Each source gets its own
// Extractor and its own deadline; a failing source never stops the batch.
type Runner struct {
	Open    OpenFunc
	Timeout time.Duration // Per source; zero means no limit
	Logger  *slog.Logger
}

// Run extracts every source in order.
func (r *Runner) Run(ctx context.Context, sources []Source) []Result {
	logger := r.Logger
	if logger == nil {
		logger = slog.Default()
	}

	results := make([]Result, 0, len(sources))
	for _, src := range sources {
		start := time.Now()
		counts, err := r.runOne(ctx, src)
		res := Result{
			Source:   src.Name,
			Path:     src.Path,
			Counts:   counts,
			Err:      err,
			Duration: time.Since(start),
		}
		res.Elapsed = res.Duration.Round(time.Millisecond).String()
		if err != nil {
			res.Counts = nil
			res.Error = err.Error()
			logger.Warn("source failed", "source", src.Name, "path", src.Path, "error", err)
		} else {
			logger.Info("scanned source", "source", src.Name, "counts", []int(counts), "duration", res.Duration)
		}
		results = append(results, res)
	}
	return results
}

type outcome struct {
	counts grades.Vector
	err    error
}

func (r *Runner) runOne(ctx context.Context, src Source) (grades.Vector, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if r.Open == nil {
		return nil, errors.New("scan: no extractor configured")
	}

	ex, err := r.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open extractor: %w", err)
	}

	sctx := ctx
	if r.Timeout > 0 {
		var cancel context.CancelFunc
		sctx, cancel = context.WithTimeout(ctx, r.Timeout)
		defer cancel()
	}

	// Buffered so an abandoned extraction can still finish and exit.
	done := make(chan outcome, 1)
	go func() {
		defer ex.Close()
		defer func() {
			if p := recover(); p != nil {
				done <- outcome{err: fmt.Errorf("extractor panic: %v", p)}
			}
		}()
		counts, err := ex.Extract(sctx, src.Path)
		done <- outcome{counts: counts, err: err}
	}()

	select {
	case o := <-done:
		return o.counts, o.err
	case <-sctx.Done():
		if errors.Is(sctx.Err(), context.DeadlineExceeded) {
			return nil, fmt.Errorf("%w after %s", ErrTimeout, r.Timeout)
		}
		return nil, sctx.Err()
	}
}

// Vectors maps every result to its counts. Failed sources map to nil so that
// aggregation treats them as absent.
func Vectors(results []Result) map[string]grades.Vector {
	out := make(map[string]grades.Vector, len(results))
	for _, r := range results {
		if r.OK() {
			out[r.Source] = r.Counts
		} else if _, seen := out[r.Source]; !seen {
			out[r.Source] = nil
		}
	}
	return out
}
