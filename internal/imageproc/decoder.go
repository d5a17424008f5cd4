package imageproc

import (
	"bytes"
	"fmt"
	"image"

	"github.com/disintegration/imaging"

	"labelscan/internal/config"
	"labelscan/internal/port"
)

// Decoder validates uploads and prepares them for a vision model.
type Decoder struct {
	maxDimension int
	jpegQuality  int
}

// NewDecoder creates a Decoder from the image config.
func NewDecoder(cfg *config.ImageConfig) *Decoder {
	quality := cfg.JPEGQuality
	if quality <= 0 {
		quality = 95
	}
	return &Decoder{
		maxDimension: cfg.MaxDimension,
		jpegQuality:  quality,
	}
}

// Decode decodes data, applies EXIF orientation, fits the image inside
// maxDimension when set, and re-encodes it. PNG sources stay PNG; everything
// else becomes JPEG.
func (d *Decoder) Decode(filename string, data []byte) (*port.Image, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("decoding %s: empty file", filename)
	}

	_, sourceFormat, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", filename, err)
	}

	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", filename, err)
	}

	if d.maxDimension > 0 {
		b := img.Bounds()
		if b.Dx() > d.maxDimension || b.Dy() > d.maxDimension {
			img = imaging.Fit(img, d.maxDimension, d.maxDimension, imaging.Lanczos)
		}
	}

	format, mimeType := outputFormat(sourceFormat)

	buf := &bytes.Buffer{}
	if err := imaging.Encode(buf, img, format, imaging.JPEGQuality(d.jpegQuality)); err != nil {
		return nil, fmt.Errorf("encoding %s: %w", filename, err)
	}

	b := img.Bounds()
	return &port.Image{
		Data:     buf.Bytes(),
		MIMEType: mimeType,
		Width:    b.Dx(),
		Height:   b.Dy(),
	}, nil
}

func outputFormat(sourceFormat string) (imaging.Format, string) {
	if sourceFormat == "png" {
		return imaging.PNG, "image/png"
	}
	return imaging.JPEG, "image/jpeg"
}
