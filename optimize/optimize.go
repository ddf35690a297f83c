// Package optimize strips non-portable attributes from icon SVGs and minifies them.
package optimize

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"sort"

	"github.com/srwiley/oksvg"
	"github.com/tdewolff/minify/v2"
	"github.com/tdewolff/minify/v2/css"
	minsvg "github.com/tdewolff/minify/v2/svg"

	"github.com/jphsd/iconsprite/svg"
	"github.com/jphsd/iconsprite/xml"
)

const svgMime = "image/svg+xml"

// Options controls an Optimizer.
type Options struct {
	Precision       int      // Significant digits kept in numbers, 0 keeps all. Raised for documents far from the origin
	StripAttributes []string // Attributes and style properties removed from every element
}

// DefaultOptions returns the settings used when nothing is configured.
func DefaultOptions() Options {
	return Options{Precision: 5, StripAttributes: []string{"shape-rendering"}}
}

// Decimals that survive minification at any distance from the origin, matching the
// precision of cropped viewBoxes
const decimals = 3

// Optimizer rewrites SVG documents in place.
type Optimizer struct {
	opts Options
	ms   map[int]*minify.M // By precision
}

// New returns an optimizer for opts.
func New(opts Options) *Optimizer {
	return &Optimizer{opts: opts, ms: make(map[int]*minify.M)}
}

func (o *Optimizer) minifier(prec int) *minify.M {
	if m, ok := o.ms[prec]; ok {
		return m
	}
	m := minify.New()
	m.Add(svgMime, &minsvg.Minifier{Precision: prec})
	m.Add("text/css", &css.Minifier{Precision: prec})
	o.ms[prec] = m
	return m
}

// precision returns the significant digits needed to keep three decimals in every
// coordinate of the viewBox of dom.
func (o *Optimizer) precision(dom *xml.Element) int {
	if o.opts.Precision == 0 {
		return 0
	}
	vb, err := svg.ParseViewBox(dom.Get("viewBox"))
	if err != nil {
		return o.opts.Precision
	}
	m := max(math.Abs(vb.X), math.Abs(vb.Y), math.Abs(vb.X+vb.W), math.Abs(vb.Y+vb.H))
	digits := 1
	if m >= 1 {
		digits = int(math.Floor(math.Log10(m))) + 1
	}
	return max(o.opts.Precision, digits+decimals)
}

// Optimize reads an SVG document from r and writes the optimized document to w.
func (o *Optimizer) Optimize(r io.Reader, w io.Writer) error {
	dom, err := xml.Parse(r)
	if err != nil {
		return err
	}
	o.Strip(dom)

	var out bytes.Buffer
	m := o.minifier(o.precision(dom))
	if err := m.Minify(svgMime, &out, bytes.NewReader(dom.Bytes())); err != nil {
		return fmt.Errorf("minifying: %w", err)
	}
	if err := Check(out.Bytes()); err != nil {
		return err
	}
	_, err = w.Write(out.Bytes())
	return err
}

// Strip removes the configured attributes from dom and its descendants, including
// declarations of the same name in style attributes.
func (o *Optimizer) Strip(dom *xml.Element) {
	dom.Walk(func(elt *xml.Element) bool {
		for _, name := range o.opts.StripAttributes {
			elt.Remove(name)
		}
		style, ok := elt.Attribute("style")
		if !ok {
			return true
		}
		props := svg.ParseStyle(style)
		n := len(props)
		for _, name := range o.opts.StripAttributes {
			delete(props, name)
		}
		if len(props) == n {
			return true
		}
		if len(props) == 0 {
			elt.Remove("style")
		} else {
			elt.Set("style", svg.FormatStyle(style, props))
		}
		return true
	})
}

// Check parses data with an independent SVG renderer and reports whether it still
// describes a drawable icon.
func Check(data []byte) error {
	icon, err := oksvg.ReadIconStream(bytes.NewReader(data), oksvg.IgnoreErrorMode)
	if err != nil {
		return fmt.Errorf("optimized svg does not parse: %w", err)
	}
	if icon.ViewBox.W <= 0 || icon.ViewBox.H <= 0 {
		return fmt.Errorf("optimized svg has no usable viewBox")
	}
	return nil
}

// File optimizes the named file in place.
func (o *Optimizer) File(fn string) error {
	data, err := os.ReadFile(fn)
	if err != nil {
		return err
	}
	var out bytes.Buffer
	if err := o.Optimize(bytes.NewReader(data), &out); err != nil {
		return fmt.Errorf("optimizing %s: %w", fn, err)
	}
	return os.WriteFile(fn, out.Bytes(), 0o644)
}

// Dir optimizes every .svg file in dir, in name order. Progress, when not nil, is
// called with each file name before it is processed.
func (o *Optimizer) Dir(ctx context.Context, dir string, progress func(fn string)) ([]string, error) {
	files, err := filepath.Glob(filepath.Join(dir, "*.svg"))
	if err != nil {
		return nil, err
	}
	sort.Strings(files)
	for _, fn := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if progress != nil {
			progress(fn)
		}
		if err := o.File(fn); err != nil {
			return nil, err
		}
	}
	return files, nil
}
