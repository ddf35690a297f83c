// Package preview renders icon SVGs to PNG images.
package preview

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"
)

// DefaultSize is the edge length of a preview in pixels.
const DefaultSize = 64

// Render draws the SVG read from r centered in a transparent size x size image,
// keeping its aspect ratio.
func Render(r io.Reader, size int) (*image.RGBA, error) {
	if size <= 0 {
		return nil, fmt.Errorf("preview size %d is not positive", size)
	}
	icon, err := oksvg.ReadIconStream(r, oksvg.IgnoreErrorMode)
	if err != nil {
		return nil, err
	}
	w, h := icon.ViewBox.W, icon.ViewBox.H
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("svg has no usable viewBox")
	}

	s := float64(size) / max(w, h)
	tw, th := w*s, h*s
	icon.SetTarget((float64(size)-tw)/2, (float64(size)-th)/2, tw, th)

	img := image.NewRGBA(image.Rect(0, 0, size, size))
	scanner := rasterx.NewScannerGV(size, size, img, img.Bounds())
	icon.Draw(rasterx.NewDasher(size, size, scanner), 1)
	return img, nil
}

// File renders the SVG in the named file to a PNG file.
func File(in, out string, size int) error {
	data, err := os.ReadFile(in)
	if err != nil {
		return err
	}
	img, err := Render(bytes.NewReader(data), size)
	if err != nil {
		return fmt.Errorf("rendering %s: %w", in, err)
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return err
	}
	return os.WriteFile(out, buf.Bytes(), 0o644)
}

// Dir renders every .svg in dir to a PNG of the same name in outDir. Progress, when
// not nil, is called with each file name before it is rendered.
func Dir(ctx context.Context, dir, outDir string, size int, progress func(fn string)) ([]string, error) {
	files, err := filepath.Glob(filepath.Join(dir, "*.svg"))
	if err != nil {
		return nil, err
	}
	sort.Strings(files)
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return nil, err
	}

	var res []string
	for _, fn := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if progress != nil {
			progress(fn)
		}
		out := filepath.Join(outDir, strings.TrimSuffix(filepath.Base(fn), ".svg")+".png")
		if err := File(fn, out, size); err != nil {
			return nil, err
		}
		res = append(res, out)
	}
	return res, nil
}
