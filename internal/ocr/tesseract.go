//go:build cgo

package ocr

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/otiai10/gosseract/v2"
)

// TesseractEngine recognizes text via the native Tesseract bindings.
type TesseractEngine struct {
	language string
}

// NewEngine creates the Tesseract-backed engine. language is a Tesseract
// language code ("eng" etc.); empty defaults to English.
func NewEngine(language string) Engine {
	if language == "" {
		language = "eng"
	}
	return &TesseractEngine{language: language}
}

// Recognize runs Tesseract over a preprocessed copy of the image.
func (e *TesseractEngine) Recognize(ctx context.Context, imagePath string) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	prepared, err := prepareImage(imagePath)
	if err != nil {
		return nil, err
	}
	defer os.Remove(prepared)

	client := gosseract.NewClient()
	defer client.Close()

	if err := client.SetLanguage(e.language); err != nil {
		return nil, fmt.Errorf("failed to set language: %w", err)
	}

	if err := client.SetImage(prepared); err != nil {
		return nil, fmt.Errorf("failed to set image: %w", err)
	}

	text, err := client.Text()
	if err != nil {
		return nil, fmt.Errorf("OCR failed: %w", err)
	}

	return &Result{Text: strings.TrimSpace(text)}, nil
}

// Info reports the Tesseract version, probing a throwaway client.
func (e *TesseractEngine) Info() Info {
	client := gosseract.NewClient()
	defer client.Close()

	version := client.Version()
	if version == "" {
		return Info{
			Available: false,
			Backend:   "gosseract",
			Error:     "tesseract library not responding",
		}
	}

	return Info{
		Available: true,
		Backend:   "gosseract",
		Version:   version,
	}
}
