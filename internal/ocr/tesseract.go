// Package ocr provides OCR (Optical Character Recognition) for grade report screenshots.
package ocr

import (
	"fmt"
	"strings"

	"grade-estimator/internal/layout"

	"github.com/otiai10/gosseract/v2"
	"gocv.io/x/gocv"
)

// DefaultLanguages are the Tesseract languages the reports are written in.
var DefaultLanguages = []string{"deu", "eng"}

// Engine provides word recognition using Tesseract.
// An Engine is not safe for concurrent use.
type Engine struct {
	client *gosseract.Client
}

// NewEngine creates a new OCR engine for the given languages.
func NewEngine(languages ...string) (*Engine, error) {
	if len(languages) == 0 {
		languages = DefaultLanguages
	}

	client := gosseract.NewClient()

	if err := client.SetLanguage(languages...); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to set OCR language: %w", err)
	}

	// PSM 6 = Assume a single uniform block of text
	if err := client.SetPageSegMode(gosseract.PSM_SINGLE_BLOCK); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to set PSM: %w", err)
	}

	return &Engine{client: client}, nil
}

// Close releases OCR resources.
func (e *Engine) Close() error {
	if e.client != nil {
		err := e.client.Close()
		e.client = nil
		return err
	}
	return nil
}

// Recognize runs OCR over a normalized image and returns every recognized
// word with its block, paragraph and line numbers.
func (e *Engine) Recognize(img gocv.Mat) ([]layout.Token, error) {
	if img.Empty() {
		return nil, fmt.Errorf("%w: empty image", ErrInvalidImage)
	}

	// Convert to image bytes (PNG format)
	buf, err := gocv.IMEncode(gocv.PNGFileExt, img)
	if err != nil {
		return nil, fmt.Errorf("failed to encode image: %w", err)
	}
	defer buf.Close()

	if err := e.client.SetImageFromBytes(buf.GetBytes()); err != nil {
		return nil, fmt.Errorf("failed to set image: %w", err)
	}

	boxes, err := e.client.GetBoundingBoxesVerbose()
	if err != nil {
		return nil, fmt.Errorf("OCR failed: %w", err)
	}

	return tokensFromBoxes(boxes), nil
}

// tokensFromBoxes converts word boxes into layout tokens, skipping blank words.
func tokensFromBoxes(boxes []gosseract.BoundingBox) []layout.Token {
	tokens := make([]layout.Token, 0, len(boxes))
	for _, box := range boxes {
		if strings.TrimSpace(box.Word) == "" {
			continue
		}
		tokens = append(tokens, layout.Token{
			Text: box.Word,
			Address: layout.Address{
				Block:     box.BlockNum,
				Paragraph: box.ParNum,
				Line:      box.LineNum,
			},
			Left:       box.Box.Min.X,
			Bounds:     box.Box,
			Confidence: box.Confidence,
		})
	}
	return tokens
}
