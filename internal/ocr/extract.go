package ocr

import (
	"context"
	"fmt"
	"image"

	"grade-estimator/internal/grades"
	"grade-estimator/internal/layout"
	"grade-estimator/internal/screenshot"
)

// ExtractorConfig configures an Extractor.
type ExtractorConfig struct {
	Scale     *grades.Scale
	Anchor    string   // Row label of the count row (default "Anzahl")
	Languages []string // Tesseract languages (default deu+eng)
}

// Extractor reads the grade count row from report screenshots.
// It owns a Tesseract client and is not safe for concurrent use.
type Extractor struct {
	engine *Engine
	scale  *grades.Scale
	anchor string
}

// NewExtractor creates an Extractor with its own OCR engine.
func NewExtractor(cfg ExtractorConfig) (*Extractor, error) {
	if cfg.Scale == nil {
		return nil, fmt.Errorf("extractor: grade scale is required")
	}
	if cfg.Anchor == "" {
		cfg.Anchor = layout.DefaultAnchor
	}

	engine, err := NewEngine(cfg.Languages...)
	if err != nil {
		return nil, err
	}

	return &Extractor{
		engine: engine,
		scale:  cfg.Scale,
		anchor: cfg.Anchor,
	}, nil
}

// Close releases the OCR engine.
func (x *Extractor) Close() error {
	return x.engine.Close()
}

// Extract loads the screenshot at path and returns its grade counts.
func (x *Extractor) Extract(ctx context.Context, path string) (grades.Vector, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	shot, err := screenshot.Load(path)
	if err != nil {
		return nil, err
	}
	return x.ExtractImage(shot.Image)
}

// ExtractImage returns the grade counts of a decoded screenshot.
func (x *Extractor) ExtractImage(img image.Image) (grades.Vector, error) {
	row, err := x.Row(img)
	if err != nil {
		return nil, err
	}
	return grades.Build(row, x.scale)
}

// Row returns the recognized words of the anchor row, left to right.
func (x *Extractor) Row(img image.Image) ([]layout.Token, error) {
	mat, err := ToMat(img)
	if err != nil {
		return nil, err
	}
	defer mat.Close()

	normalized, err := Normalize(mat)
	if err != nil {
		return nil, err
	}
	defer normalized.Close()

	tokens, err := x.engine.Recognize(normalized)
	if err != nil {
		return nil, err
	}

	row, err := layout.AnchorRow(tokens, x.anchor)
	if err != nil {
		return nil, fmt.Errorf("%q in %d recognized words: %w", x.anchor, len(tokens), err)
	}
	return row, nil
}
