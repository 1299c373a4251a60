package main

import (
	"log/slog"
	"os"

	"grade-estimator/internal/app"
	"grade-estimator/internal/grades"
	"grade-estimator/internal/ocr"
	"grade-estimator/internal/scan"
	"grade-estimator/internal/store"
)

// newLogger logs to stderr so structured output on stdout stays clean.
func newLogger() *slog.Logger {
	return cfg.Logger(os.Stderr)
}

// openPipeline builds the pipeline for the loaded configuration. The
// database is only opened when withStore is set. The returned func releases
// the database.
func openPipeline(logger *slog.Logger, withStore bool) (*app.Pipeline, func(), error) {
	scale, err := cfg.GradeScale()
	if err != nil {
		return nil, nil, err
	}

	var st *store.Store
	cleanup := func() {}
	if withStore {
		st, err = store.Open(cfg.DBPath)
		if err != nil {
			return nil, nil, err
		}
		cleanup = func() {
			if err := st.Close(); err != nil {
				logger.Warn("failed to close database", "error", err)
			}
		}
	}

	p, err := app.New(app.Options{
		Config: cfg,
		Open:   tesseractExtractor(scale),
		Store:  st,
		Logger: logger,
	})
	if err != nil {
		cleanup()
		return nil, nil, err
	}
	return p, cleanup, nil
}

// tesseractExtractor opens a new OCR extractor per source.
func tesseractExtractor(scale *grades.Scale) scan.OpenFunc {
	return func() (scan.Extractor, error) {
		x, err := ocr.NewExtractor(ocr.ExtractorConfig{
			Scale:     scale,
			Anchor:    cfg.Anchor,
			Languages: cfg.Languages,
		})
		if err != nil {
			return nil, err
		}
		return x, nil
	}
}
