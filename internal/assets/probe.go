package assets

import (
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"strings"

	"github.com/gen2brain/go-fitz"
)

// ProbeAspect returns the width/height ratio of an asset's artwork. PDFs are
// measured on their first page; raster images by their header only.
func ProbeAspect(path string) (float64, error) {
	var w, h float64
	var err error
	switch strings.ToLower(filepath.Ext(path)) {
	case ".pdf":
		w, h, err = pdfDimensions(path)
	default:
		w, h, err = imageDimensions(path)
	}
	if err != nil {
		return 0, fmt.Errorf("probe %s: %w", path, err)
	}
	if w <= 0 || h <= 0 {
		return 0, fmt.Errorf("probe %s: degenerate size %vx%v", path, w, h)
	}
	return w / h, nil
}

func pdfDimensions(path string) (float64, float64, error) {
	doc, err := fitz.New(path)
	if err != nil {
		return 0, 0, err
	}
	defer doc.Close()

	if doc.NumPage() == 0 {
		return 0, 0, fmt.Errorf("no pages")
	}
	rect, err := doc.Bound(0)
	if err != nil {
		return 0, 0, err
	}
	return float64(rect.Dx()), float64(rect.Dy()), nil
}

func imageDimensions(path string) (float64, float64, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, 0, err
	}
	defer f.Close()

	cfg, _, err := image.DecodeConfig(f)
	if err != nil {
		return 0, 0, err
	}
	return float64(cfg.Width), float64(cfg.Height), nil
}
