// Package barcode decodes tracking barcodes from label images. Decoding
// is best-effort: most phone photos crop or blur the barcode, so callers
// treat a miss as an empty value rather than an error.
package barcode

import (
	"errors"
	"fmt"

	"github.com/disintegration/imaging"
	"github.com/makiuchi-d/gozxing"
	"github.com/makiuchi-d/gozxing/oned"
	"github.com/makiuchi-d/gozxing/qrcode"
)

// ErrNotFound is returned when no supported barcode is present in the image.
var ErrNotFound = errors.New("no barcode found")

// Detector scans images for 1D shipping barcodes and QR codes.
type Detector struct {
	readers []gozxing.Reader
	hints   map[gozxing.DecodeHintType]interface{}
}

// NewDetector creates a detector covering the formats carriers actually
// print. The 1D readers are tried in rough order of how common the
// symbology is on shipping labels, QR last.
func NewDetector() *Detector {
	hints := map[gozxing.DecodeHintType]interface{}{
		gozxing.DecodeHintType_TRY_HARDER: true,
	}
	return &Detector{
		readers: []gozxing.Reader{
			oned.NewCode128Reader(),
			oned.NewITFReader(),
			oned.NewCode39Reader(),
			oned.NewMultiFormatUPCEANReader(hints),
			qrcode.NewQRCodeReader(),
		},
		hints: hints,
	}
}

// DetectFile decodes the first barcode found in the image file.
// Returns ErrNotFound when the image loads but contains no readable code.
func (d *Detector) DetectFile(imagePath string) (string, error) {
	img, err := imaging.Open(imagePath, imaging.AutoOrientation(true))
	if err != nil {
		return "", fmt.Errorf("failed to open image: %w", err)
	}

	bmp, err := gozxing.NewBinaryBitmapFromImage(img)
	if err != nil {
		return "", fmt.Errorf("failed to binarize image: %w", err)
	}

	for _, reader := range d.readers {
		if result, err := reader.Decode(bmp, d.hints); err == nil {
			return result.GetText(), nil
		}
	}

	return "", ErrNotFound
}
