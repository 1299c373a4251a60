package app

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"grade-estimator/internal/config"
	"grade-estimator/internal/grades"
	"grade-estimator/internal/layout"
	"grade-estimator/internal/scan"
	"grade-estimator/internal/store"
)

// fakeExtractor returns canned counts keyed by file name.
type fakeExtractor struct {
	counts map[string]grades.Vector
}

func (f *fakeExtractor) Extract(ctx context.Context, path string) (grades.Vector, error) {
	v, ok := f.counts[filepath.Base(path)]
	if !ok {
		return nil, layout.ErrAnchorNotFound
	}
	return v, nil
}

func (f *fakeExtractor) Close() error { return nil }

func setup(t *testing.T, files ...string) *config.Config {
	t.Helper()
	dir := t.TempDir()
	for _, name := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("png"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return &config.Config{
		ImagesDir:      dir,
		Anchor:         "Anzahl",
		Scale:          []string{"1.0", "2.0", "3.0"},
		ExtractTimeout: time.Second,
	}
}

func newPipeline(t *testing.T, cfg *config.Config, st *store.Store) *Pipeline {
	t.Helper()
	fake := &fakeExtractor{counts: map[string]grades.Vector{
		"SoSe23.png":   {1, 2, 3},
		"WiSe2425.png": {4, 5, 6},
	}}
	p, err := New(Options{
		Config: cfg,
		Open:   func() (scan.Extractor, error) { return fake, nil },
		Store:  st,
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return p
}

func openStore(t *testing.T) *store.Store {
	t.Helper()
	st, err := store.Open(":memory:")
	if err != nil {
		t.Fatalf("store.Open() error = %v", err)
	}
	t.Cleanup(func() { st.Close() })
	return st
}

func TestNew_InvalidConfig(t *testing.T) {
	if _, err := New(Options{}); err == nil {
		t.Error("expected error without config")
	}
	cfg := &config.Config{Anchor: "Anzahl", Scale: []string{"1.0", "1.0"}}
	if _, err := New(Options{Config: cfg}); err == nil {
		t.Error("expected error for duplicate grades")
	}
}

func TestDistribution_FromScan(t *testing.T) {
	cfg := setup(t, "SoSe23.png", "WiSe2425.png", "broken.png", "notes.txt")
	p := newPipeline(t, cfg, nil)

	dist, err := p.Distribution(context.Background(), false)
	if err != nil {
		t.Fatalf("Distribution() error = %v", err)
	}
	if got := dist.Counts(); !reflect.DeepEqual(got, []int{5, 7, 9}) {
		t.Errorf("expected [5 7 9], got %v", got)
	}
	if got := dist.Sources(); !reflect.DeepEqual(got, []string{"SoSe23", "WiSe2425"}) {
		t.Errorf("unexpected sources %v", got)
	}
}

func TestScan_SelectedSources(t *testing.T) {
	cfg := setup(t, "SoSe23.png", "WiSe2425.png")
	cfg.Sources = []string{"WiSe2425", "SoSe24"}
	p := newPipeline(t, cfg, nil)

	report, err := p.Scan(context.Background())
	if err != nil {
		t.Fatalf("Scan() error = %v", err)
	}
	if len(report.Results) != 1 || report.Results[0].Source != "WiSe2425" {
		t.Fatalf("unexpected results %+v", report.Results)
	}
	if !reflect.DeepEqual(report.Missing, []string{"SoSe24"}) {
		t.Errorf("expected SoSe24 missing, got %v", report.Missing)
	}
	if report.Failed() != 1 {
		t.Errorf("expected 1 failed source, got %d", report.Failed())
	}

	vectors := report.Vectors()
	if v, ok := vectors["SoSe24"]; !ok || v != nil {
		t.Errorf("missing source should be absent, got %v (present=%v)", v, ok)
	}
}

func TestScan_DuplicateStem(t *testing.T) {
	cfg := setup(t, "SoSe23.jpg", "SoSe23.png")
	fake := &fakeExtractor{counts: map[string]grades.Vector{
		"SoSe23.jpg": {1, 1, 1},
		"SoSe23.png": {9, 9, 9},
	}}

	for _, sources := range [][]string{nil, {"SoSe23"}} {
		cfg.Sources = sources
		p, err := New(Options{
			Config: cfg,
			Open:   func() (scan.Extractor, error) { return fake, nil },
			Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		})
		if err != nil {
			t.Fatal(err)
		}

		report, err := p.Scan(context.Background())
		if err != nil {
			t.Fatalf("Scan() error = %v", err)
		}
		if len(report.Results) != 1 {
			t.Fatalf("sources %v: expected one extraction, got %+v", sources, report.Results)
		}
		if got := report.Vectors()["SoSe23"]; !reflect.DeepEqual(got, grades.Vector{1, 1, 1}) {
			t.Errorf("sources %v: expected SoSe23.jpg counts, got %v", sources, got)
		}
		if len(report.Duplicates) != 1 || filepath.Base(report.Duplicates[0]) != "SoSe23.png" {
			t.Errorf("sources %v: expected SoSe23.png reported as duplicate, got %v", sources, report.Duplicates)
		}
	}
}

func TestScan_MissingFolder(t *testing.T) {
	cfg := setup(t)
	cfg.ImagesDir = filepath.Join(cfg.ImagesDir, "nope")
	p := newPipeline(t, cfg, nil)

	if _, err := p.Scan(context.Background()); err == nil {
		t.Error("expected error for missing images folder")
	}
}

func TestImport_ThenDistributionFromDB(t *testing.T) {
	cfg := setup(t, "SoSe23.png", "WiSe2425.png", "broken.png")
	st := openStore(t)
	p := newPipeline(t, cfg, st)
	ctx := context.Background()

	report, err := p.Import(ctx)
	if err != nil {
		t.Fatalf("Import() error = %v", err)
	}
	if report.Failed() != 1 {
		t.Errorf("expected broken.png to fail, got %d failures", report.Failed())
	}

	semesters, err := st.List(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(semesters) != 2 {
		t.Fatalf("expected 2 stored semesters, got %+v", semesters)
	}

	dist, err := p.Distribution(ctx, true)
	if err != nil {
		t.Fatalf("Distribution() error = %v", err)
	}
	if dist.Total() != 21 {
		t.Errorf("expected 21 students, got %d", dist.Total())
	}
	if got := dist.Percentile("2.0"); got != 57 {
		t.Errorf("expected 57%%, got %d", got)
	}
}

func TestStored_FiltersSources(t *testing.T) {
	cfg := setup(t, "SoSe23.png", "WiSe2425.png")
	st := openStore(t)
	p := newPipeline(t, cfg, st)
	ctx := context.Background()

	if _, err := p.Import(ctx); err != nil {
		t.Fatal(err)
	}

	cfg.Sources = []string{"SoSe23", "SoSe99"}
	vectors, err := p.Stored(ctx)
	if err != nil {
		t.Fatalf("Stored() error = %v", err)
	}
	want := map[string]grades.Vector{"SoSe23": {1, 2, 3}, "SoSe99": nil}
	if !reflect.DeepEqual(vectors, want) {
		t.Errorf("expected %v, got %v", want, vectors)
	}
}

func TestStored_NoStore(t *testing.T) {
	p := newPipeline(t, setup(t), nil)
	if _, err := p.Import(context.Background()); !errors.Is(err, ErrNoStore) {
		t.Errorf("expected ErrNoStore, got %v", err)
	}
	if _, err := p.Distribution(context.Background(), true); !errors.Is(err, ErrNoStore) {
		t.Errorf("expected ErrNoStore, got %v", err)
	}
}

func TestDistribution_StoredScaleMismatch(t *testing.T) {
	cfg := setup(t)
	st := openStore(t)
	ctx := context.Background()

	other := grades.MustScale([]string{"A", "B", "C"})
	if err := st.Save(ctx, "SoSe23", other, grades.Vector{1, 1, 1}); err != nil {
		t.Fatal(err)
	}

	p := newPipeline(t, cfg, st)
	if _, err := p.Distribution(ctx, true); !errors.Is(err, grades.ErrScaleMismatch) {
		t.Errorf("expected ErrScaleMismatch, got %v", err)
	}
}
