// Package app ties configuration, extraction, persistence and aggregation
// together into the steps the CLI runs.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"

	"grade-estimator/internal/config"
	"grade-estimator/internal/grades"
	"grade-estimator/internal/scan"
	"grade-estimator/internal/store"
)

// ErrNoStore is returned by steps that need a database when none was given.
var ErrNoStore = errors.New("no database configured")

// Pipeline runs the scan and aggregation steps for one configuration.
type Pipeline struct {
	cfg    *config.Config
	scale  *grades.Scale
	open   scan.OpenFunc
	store  *store.Store
	logger *slog.Logger
}

// Options configures a Pipeline. Open and Store are optional; steps that
// need them fail when they are missing.
type Options struct {
	Config *config.Config
	Open   scan.OpenFunc
	Store  *store.Store
	Logger *slog.Logger
}

// New validates the configuration and builds a Pipeline.
func New(opts Options) (*Pipeline, error) {
	if opts.Config == nil {
		return nil, errors.New("app: config is required")
	}
	if err := opts.Config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	scale, err := opts.Config.GradeScale()
	if err != nil {
		return nil, err
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	return &Pipeline{
		cfg:    opts.Config,
		scale:  scale,
		open:   opts.Open,
		store:  opts.Store,
		logger: opts.Logger,
	}, nil
}

// Scale returns the configured grade scale.
func (p *Pipeline) Scale() *grades.Scale { return p.scale }

// Report is the outcome of scanning the images folder.
type Report struct {
	Results    []scan.Result `json:"results" yaml:"results"`
	Missing    []string      `json:"missing,omitempty" yaml:"missing,omitempty"`
	Duplicates []string      `json:"duplicates,omitempty" yaml:"duplicates,omitempty"`
}

// Failed returns the number of sources that produced no counts, including
// selected sources without a screenshot.
func (r *Report) Failed() int {
	n := len(r.Missing)
	for _, res := range r.Results {
		if !res.OK() {
			n++
		}
	}
	return n
}

// Vectors returns the per-source counts. Failed and missing sources are
// present with a nil vector.
func (r *Report) Vectors() map[string]grades.Vector {
	out := scan.Vectors(r.Results)
	for _, name := range r.Missing {
		if _, ok := out[name]; !ok {
			out[name] = nil
		}
	}
	return out
}

// Scan discovers the screenshots in the images folder, keeps the configured
// sources and extracts each of them.
func (p *Pipeline) Scan(ctx context.Context) (*Report, error) {
	if p.open == nil {
		return nil, errors.New("app: no extractor configured")
	}

	found, duplicates, err := scan.Discover(p.cfg.ImagesDir)
	if err != nil {
		return nil, err
	}
	for _, path := range duplicates {
		p.logger.Warn("skipping duplicate screenshot", "path", path)
	}
	selected, missing := scan.Select(found, p.cfg.Sources)
	for _, name := range missing {
		p.logger.Warn("source has no screenshot", "source", name, "dir", p.cfg.ImagesDir)
	}
	if len(selected) == 0 {
		p.logger.Warn("no screenshots to scan", "dir", p.cfg.ImagesDir)
	}

	runner := &scan.Runner{
		Open:    p.open,
		Timeout: p.cfg.ExtractTimeout,
		Logger:  p.logger,
	}
	return &Report{
		Results:    runner.Run(ctx, selected),
		Missing:    missing,
		Duplicates: duplicates,
	}, nil
}

// Import scans the folder and stores every successfully extracted source,
// replacing earlier imports of the same semester.
func (p *Pipeline) Import(ctx context.Context) (*Report, error) {
	if p.store == nil {
		return nil, ErrNoStore
	}

	report, err := p.Scan(ctx)
	if err != nil {
		return nil, err
	}
	for _, res := range report.Results {
		if !res.OK() {
			continue
		}
		if err := p.store.Save(ctx, res.Source, p.scale, res.Counts); err != nil {
			return report, fmt.Errorf("failed to save %s: %w", res.Source, err)
		}
		p.logger.Debug("saved source", "source", res.Source)
	}
	return report, nil
}

// Stored loads the persisted vectors. When sources are configured only
// those are returned, with nil for semesters that were never imported.
func (p *Pipeline) Stored(ctx context.Context) (map[string]grades.Vector, error) {
	if p.store == nil {
		return nil, ErrNoStore
	}

	all, err := p.store.Load(ctx, p.scale)
	if err != nil {
		return nil, err
	}
	if len(p.cfg.Sources) == 0 {
		return all, nil
	}

	out := make(map[string]grades.Vector, len(p.cfg.Sources))
	for _, name := range p.cfg.Sources {
		v, ok := all[name]
		if !ok {
			p.logger.Warn("source not imported", "source", name)
		}
		out[name] = v
	}
	return out, nil
}

// Distribution builds the combined distribution, either from the database
// or by scanning the images folder.
func (p *Pipeline) Distribution(ctx context.Context, fromDB bool) (*grades.Distribution, error) {
	var vectors map[string]grades.Vector
	if fromDB {
		v, err := p.Stored(ctx)
		if err != nil {
			return nil, err
		}
		vectors = v
	} else {
		report, err := p.Scan(ctx)
		if err != nil {
			return nil, err
		}
		vectors = report.Vectors()
	}

	dist, err := grades.Aggregate(p.scale, vectors)
	if err != nil {
		return nil, err
	}

	absent := absentSources(vectors)
	p.logger.Info("distribution ready",
		"students", dist.Total(), "sources", dist.Sources(), "absent", absent)
	return dist, nil
}

func absentSources(vectors map[string]grades.Vector) []string {
	var out []string
	for name, v := range vectors {
		if v == nil {
			out = append(out, name)
		}
	}
	sort.Strings(out)
	return out
}
