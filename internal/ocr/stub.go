//go:build !cgo

package ocr

import "context"

type stubEngine struct{}

// NewEngine returns a stub engine in builds without cgo. Recognition
// always fails with ErrUnavailable; the rest of the system keeps working
// for text submitted directly.
func NewEngine(language string) Engine {
	return stubEngine{}
}

func (stubEngine) Recognize(ctx context.Context, imagePath string) (*Result, error) {
	return nil, ErrUnavailable
}

func (stubEngine) Info() Info {
	return Info{
		Available: false,
		Backend:   "none",
		Error:     "built without cgo; OCR requires the Tesseract bindings",
	}
}
