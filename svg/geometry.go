package svg

import (
	"errors"
	"fmt"
	"strings"

	g2d "github.com/jphsd/graphics2d"
	"github.com/jphsd/iconsprite/xml"
)

// ErrUnresolvedRef is returned when a <use> names an element that does not exist.
var ErrUnresolvedRef = errors.New("unresolved reference")

// Maximum depth of nested <use> references
const maxRefDepth = 16

// Elements that never draw anything themselves
var nonRendering = map[string]bool{
	"defs": true, "symbol": true, "title": true, "desc": true, "metadata": true,
	"clipPath": true, "mask": true, "pattern": true, "marker": true, "filter": true,
	"linearGradient": true, "radialGradient": true, "style": true, "script": true,
}

// Geometry walks an SVG element tree and collects the outline of every shape
// it would draw, mapped through the transforms in effect.
type Geometry struct {
	Xfm   *g2d.Aff3
	Refs  map[string]*xml.Element // id index used to resolve <use>
	paths *[]*g2d.Path
	depth int
}

// NewGeometry creates a walker starting with the identity transform. Refs may be nil
// when the tree has no <use> elements.
func NewGeometry(refs map[string]*xml.Element) *Geometry {
	return &Geometry{g2d.NewAff3(), refs, &[]*g2d.Path{}, 0}
}

// Copy returns a walker sharing the collected paths but with its own transform.
func (g *Geometry) Copy() *Geometry {
	return &Geometry{g.Xfm.Copy(), g.Refs, g.paths, g.depth}
}

// Paths returns the outlines collected so far.
func (g *Geometry) Paths() []*g2d.Path {
	return *g.paths
}

// Bounds returns the bounding box of the outlines collected so far.
func (g *Geometry) Bounds() (Rect, bool) {
	return Bounds(*g.paths)
}

// Process adds the geometry of elt and its descendants.
func (g *Geometry) Process(elt *xml.Element) error {
	if elt.Type != xml.Node || Hidden(elt) {
		return nil
	}

	name := elt.Name.Local
	if nonRendering[name] {
		return nil
	}
	switch name {
	case "svg", "g", "a", "switch":
		return g.GroupElt(elt)
	case "use":
		return g.UseElt(elt)
	case "path", "rect", "circle", "ellipse", "line", "polyline", "polygon":
		return g.ShapeElt(elt)
	}
	// Non-rendering and unsupported elements (text, image) contribute nothing
	return nil
}

func (g *Geometry) GroupElt(elt *xml.Element) error {
	ng, err := g.enter(elt)
	if err != nil {
		return err
	}
	for _, c := range elt.Children {
		if err := ng.Process(c); err != nil {
			return err
		}
	}
	return nil
}

func (g *Geometry) ShapeElt(elt *xml.Element) error {
	paths, err := ShapePaths(elt)
	if err != nil {
		return fmt.Errorf("<%s>: %w", elt.QName(), err)
	}
	if len(paths) == 0 {
		return nil
	}
	ng, err := g.enter(elt)
	if err != nil {
		return err
	}
	*g.paths = append(*g.paths, TransformPaths(ng.Xfm, paths...)...)
	return nil
}

// UseElt draws the referenced element as if it were a child group offset by x and y.
// A symbol is also mapped from its viewBox into the viewport of the use.
func (g *Geometry) UseElt(elt *xml.Element) error {
	ref, err := Resolve(elt, g.Refs)
	if err != nil {
		return err
	}
	if g.depth >= maxRefDepth {
		return fmt.Errorf("<use> nested deeper than %d, reference cycle at %q", maxRefDepth, elt.Href())
	}
	ng, err := g.enter(elt)
	if err != nil {
		return err
	}
	ox, err := ParseValue(elt.Get("x"))
	if err != nil {
		return err
	}
	oy, err := ParseValue(elt.Get("y"))
	if err != nil {
		return err
	}
	ng.Xfm = Multiply(ng.Xfm, Translate(ox, oy))
	ng.depth++
	if ref.Is("symbol") {
		vp, err := SymbolViewport(elt, ref)
		if err != nil {
			return err
		}
		ng.Xfm = Multiply(ng.Xfm, vp)
		for _, c := range ref.Children {
			if err := ng.Process(c); err != nil {
				return err
			}
		}
		return nil
	}
	return ng.Process(ref)
}

// enter returns a walker with the transform of elt appended.
func (g *Geometry) enter(elt *xml.Element) (*Geometry, error) {
	ng := g.Copy()
	if str, ok := elt.Attribute("transform"); ok {
		xfm, err := ParseTransform(str)
		if err != nil {
			return nil, err
		}
		ng.Xfm = Multiply(ng.Xfm, xfm)
	}
	return ng, nil
}

// Resolve looks up the element a <use> points at.
func Resolve(use *xml.Element, refs map[string]*xml.Element) (*xml.Element, error) {
	href := use.Href()
	if !strings.HasPrefix(href, "#") {
		return nil, fmt.Errorf("%w: %q is not a local reference", ErrUnresolvedRef, href)
	}
	ref, ok := refs[href[1:]]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnresolvedRef, href)
	}
	return ref, nil
}

// ShapePaths converts a basic shape or path element into untransformed outlines.
// Shapes that render nothing, such as a zero width rect, yield no paths.
func ShapePaths(elt *xml.Element) ([]*g2d.Path, error) {
	num := func(names ...string) ([]float64, error) {
		res := make([]float64, len(names))
		for i, n := range names {
			v, err := ParseValue(elt.Get(n))
			if err != nil {
				return nil, err
			}
			res[i] = v
		}
		return res, nil
	}

	switch elt.Name.Local {
	case "path":
		return PathsFromDescription(elt.Get("d"))
	case "rect":
		v, err := num("x", "y", "width", "height", "rx", "ry")
		if err != nil {
			return nil, err
		}
		_, hasRx := elt.Attribute("rx")
		_, hasRy := elt.Attribute("ry")
		rx, ry := v[4], v[5]
		if !hasRx {
			rx = ry
		}
		if !hasRy {
			ry = rx
		}
		return rectPaths(v[0], v[1], v[2], v[3], rx, ry), nil
	case "circle":
		v, err := num("cx", "cy", "r")
		if err != nil {
			return nil, err
		}
		if v[2] <= 0 {
			return nil, nil
		}
		return []*g2d.Path{g2d.Circle([]float64{v[0], v[1]}, v[2])}, nil
	case "ellipse":
		v, err := num("cx", "cy", "rx", "ry")
		if err != nil {
			return nil, err
		}
		if v[2] <= 0 || v[3] <= 0 {
			return nil, nil
		}
		return []*g2d.Path{g2d.Ellipse([]float64{v[0], v[1]}, v[2], v[3], 0)}, nil
	case "line":
		v, err := num("x1", "y1", "x2", "y2")
		if err != nil {
			return nil, err
		}
		return []*g2d.Path{g2d.Line([]float64{v[0], v[1]}, []float64{v[2], v[3]})}, nil
	case "polyline", "polygon":
		coords, err := ParseNumbers(elt.Get("points"))
		if err != nil {
			return nil, err
		}
		if len(coords) < 4 {
			return nil, nil
		}
		path := g2d.NewPath([]float64{coords[0], coords[1]})
		for i := 2; i+1 < len(coords); i += 2 {
			path.AddStep([]float64{coords[i], coords[i+1]})
		}
		if elt.Name.Local == "polygon" {
			path.Close()
		}
		return []*g2d.Path{path}, nil
	}
	return nil, nil
}

// Circle quadrant control point distance
const kappa = 0.5522847498307936

func rectPaths(x, y, w, h, rx, ry float64) []*g2d.Path {
	if w <= 0 || h <= 0 {
		return nil
	}
	rx, ry = min(max(rx, 0), w/2), min(max(ry, 0), h/2)
	if rx == 0 || ry == 0 {
		path := g2d.NewPath([]float64{x, y})
		path.AddStep([]float64{x + w, y})
		path.AddStep([]float64{x + w, y + h})
		path.AddStep([]float64{x, y + h})
		path.Close()
		return []*g2d.Path{path}
	}
	kx, ky := rx*kappa, ry*kappa
	r, b := x+w, y+h
	path := g2d.NewPath([]float64{x + rx, y})
	path.AddStep([]float64{r - rx, y})
	path.AddStep([]float64{r - rx + kx, y}, []float64{r, y + ry - ky}, []float64{r, y + ry})
	path.AddStep([]float64{r, b - ry})
	path.AddStep([]float64{r, b - ry + ky}, []float64{r - rx + kx, b}, []float64{r - rx, b})
	path.AddStep([]float64{x + rx, b})
	path.AddStep([]float64{x + rx - kx, b}, []float64{x, b - ry + ky}, []float64{x, b - ry})
	path.AddStep([]float64{x, y + ry})
	path.AddStep([]float64{x, y + ry - ky}, []float64{x + rx - kx, y}, []float64{x + rx, y})
	path.Close()
	return []*g2d.Path{path}
}

// Property returns the effective value of a presentation property. A declaration
// in the style attribute stomps on the attribute of the same name.
func Property(elt *xml.Element, name string) (string, bool) {
	if style, ok := elt.Attribute("style"); ok {
		if v, ok := ParseStyle(style)[name]; ok {
			return v, true
		}
	}
	v, ok := elt.Attribute(name)
	return strings.TrimSpace(v), ok
}

// FillNone reports whether elt is an unpainted hit-box: fill:none or a fully
// transparent fill color.
func FillNone(elt *xml.Element) bool {
	v, ok := Property(elt, "fill")
	if !ok {
		return false
	}
	if v == "none" {
		return true
	}
	c := ParseColor(v)
	if c == nil {
		return false
	}
	_, _, _, a := c.RGBA()
	return a == 0
}

// Hidden reports whether elt is excluded from rendering by display:none.
func Hidden(elt *xml.Element) bool {
	v, ok := Property(elt, "display")
	return ok && v == "none"
}
