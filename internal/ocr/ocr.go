// Package ocr wraps the Tesseract OCR engine behind a narrow
// request/response contract. The rest of the system treats recognition as
// a black box: image path in, raw text out. Builds without cgo get a stub
// engine that reports itself unavailable instead of failing to compile.
package ocr

import (
	"context"
	"errors"
	"fmt"
	"image/png"
	"os"
	"path/filepath"

	"github.com/disintegration/imaging"
)

// ErrUnavailable is returned by the stub engine in builds without
// Tesseract support.
var ErrUnavailable = errors.New("ocr engine not available in this build")

// Result holds the output of a recognition call.
type Result struct {
	// Text is all recognized text with original line breaks preserved.
	Text string `json:"text"`
}

// Info describes the OCR backend compiled into this binary.
type Info struct {
	Available bool   `json:"available"`
	Backend   string `json:"backend"`
	Version   string `json:"version,omitempty"`
	Error     string `json:"error,omitempty"`
}

// Engine converts a label image into raw text.
type Engine interface {
	// Recognize runs OCR on the image at the given path. The context is
	// checked before the (non-interruptible) recognition starts.
	Recognize(ctx context.Context, imagePath string) (*Result, error)

	// Info reports backend availability for health checks.
	Info() Info
}

// prepareImage normalizes a label photo before recognition: grayscale
// conversion and upscaling of small images noticeably improve Tesseract
// accuracy on phone photos. Returns the path of a temporary PNG the
// caller must remove.
func prepareImage(imagePath string) (string, error) {
	img, err := imaging.Open(imagePath, imaging.AutoOrientation(true))
	if err != nil {
		return "", fmt.Errorf("failed to open image: %w", err)
	}

	processed := imaging.Grayscale(img)
	if processed.Bounds().Dx() < 1000 {
		processed = imaging.Resize(processed, 1000, 0, imaging.Lanczos)
	}

	tmpFile, err := os.CreateTemp("", "label-ocr-*.png")
	if err != nil {
		return "", fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	if err := png.Encode(tmpFile, processed); err != nil {
		tmpFile.Close()
		os.Remove(tmpPath)
		return "", fmt.Errorf("failed to encode temp image: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		os.Remove(tmpPath)
		return "", err
	}

	return filepath.Clean(tmpPath), nil
}
