package font

import (
	"fmt"
	"math"
	"path/filepath"
	"strings"

	"github.com/jphsd/iconsprite/svg"
	"github.com/jphsd/iconsprite/xml"
)

// Maximum distance, in font units, between a cubic and its quadratic approximation
const tolerance = 0.5

// Limit on cubic subdivision, at most 32 quadratics per cubic
const maxSplits = 5

// Point is a glyph outline point in font units, y up.
type Point struct {
	X, Y int16
	On   bool // On the curve, as opposed to a quadratic control point
}

// Glyph is one icon outline scaled to the em square.
type Glyph struct {
	Name      string
	Codepoint rune
	Advance   uint16
	Contours  [][]Point

	XMin, YMin, XMax, YMax int16
}

// Empty reports whether the glyph has no outline.
func (g *Glyph) Empty() bool {
	return len(g.Contours) == 0
}

// LoadGlyph reads the SVG in the named file. The glyph is named after the file.
func LoadGlyph(fn string, opts Options) (*Glyph, error) {
	dom, err := xml.ParseFile(fn)
	if err != nil {
		return nil, err
	}
	name := strings.TrimSuffix(filepath.Base(fn), filepath.Ext(fn))
	g, err := GlyphFromSVG(name, dom, opts)
	if err != nil {
		return nil, fmt.Errorf("glyph %s: %w", fn, err)
	}
	return g, nil
}

// GlyphFromSVG converts the outline of an SVG document to a glyph. The viewBox height
// maps to the em square with the bottom of the viewBox on the descent line.
func GlyphFromSVG(name string, dom *xml.Element, opts Options) (*Glyph, error) {
	vb, err := viewBox(dom)
	if err != nil {
		return nil, err
	}

	geo := svg.NewGeometry(dom.IDs())
	if err := geo.Process(dom); err != nil {
		return nil, err
	}

	upem := float64(opts.UnitsPerEm)
	s := upem / vb.H
	width := vb.W * s
	dx := 0.0
	if opts.FixedWidth {
		dx = (upem - width) / 2
		width = upem
	}
	m := mapping{s: s, dx: dx, x0: vb.X, y0: vb.Y, ascent: float64(opts.ascent())}

	g := &Glyph{Name: name, Advance: clampU16(math.Round(width))}
	for _, p := range geo.Paths() {
		steps := p.Steps()
		if len(steps) == 0 {
			continue
		}
		cur := m.apply(steps[0][0])
		c := &contour{}
		c.on(cur)
		for _, step := range steps[1:] {
			switch len(step) {
			case 1:
				cur = m.apply(step[0])
				c.on(cur)
			case 2:
				ctrl, end := m.apply(step[0]), m.apply(step[1])
				c.off(ctrl)
				c.on(end)
				cur = end
			case 3:
				p1, p2, p3 := m.apply(step[0]), m.apply(step[1]), m.apply(step[2])
				cubicToQuads(cur, p1, p2, p3, 0, func(ctrl, end vec) {
					c.off(ctrl)
					c.on(end)
				})
				cur = p3
			}
		}
		if pts := c.points(); len(pts) >= 3 {
			g.Contours = append(g.Contours, pts)
		}
	}
	g.bounds()
	return g, nil
}

func viewBox(dom *xml.Element) (svg.Rect, error) {
	if str, ok := dom.Attribute("viewBox"); ok {
		vb, err := svg.ParseViewBox(str)
		if err != nil {
			return vb, err
		}
		if vb.W <= 0 || vb.H <= 0 {
			return vb, fmt.Errorf("empty viewBox %q", str)
		}
		return vb, nil
	}
	w, err := svg.ParseValue(dom.Get("width"))
	if err != nil {
		return svg.Rect{}, err
	}
	h, err := svg.ParseValue(dom.Get("height"))
	if err != nil {
		return svg.Rect{}, err
	}
	if w <= 0 || h <= 0 {
		return svg.Rect{}, fmt.Errorf("no viewBox and no usable width and height")
	}
	return svg.Rect{W: w, H: h}, nil
}

func (g *Glyph) bounds() {
	first := true
	for _, c := range g.Contours {
		for _, p := range c {
			if first {
				g.XMin, g.XMax, g.YMin, g.YMax = p.X, p.X, p.Y, p.Y
				first = false
				continue
			}
			g.XMin, g.XMax = min(g.XMin, p.X), max(g.XMax, p.X)
			g.YMin, g.YMax = min(g.YMin, p.Y), max(g.YMax, p.Y)
		}
	}
}

type vec [2]float64

// mapping takes SVG user space to font units
type mapping struct {
	s, dx, x0, y0, ascent float64
}

func (m mapping) apply(p []float64) vec {
	return vec{(p[0]-m.x0)*m.s + m.dx, m.ascent - (p[1]-m.y0)*m.s}
}

// cubicToQuads approximates the cubic p0..p3 with quadratics, calling emit with the
// control and end point of each.
func cubicToQuads(p0, p1, p2, p3 vec, depth int, emit func(ctrl, end vec)) {
	// Distance bound between the cubic and the quadratic through the midpoint
	// of its control polygon
	ex := p3[0] - 3*p2[0] + 3*p1[0] - p0[0]
	ey := p3[1] - 3*p2[1] + 3*p1[1] - p0[1]
	if math.Hypot(ex, ey)*math.Sqrt(3)/36 <= tolerance || depth >= maxSplits {
		q := vec{
			(3*(p1[0]+p2[0]) - p0[0] - p3[0]) / 4,
			(3*(p1[1]+p2[1]) - p0[1] - p3[1]) / 4,
		}
		emit(q, p3)
		return
	}

	mid := func(a, b vec) vec { return vec{(a[0] + b[0]) / 2, (a[1] + b[1]) / 2} }
	p01, p12, p23 := mid(p0, p1), mid(p1, p2), mid(p2, p3)
	p012, p123 := mid(p01, p12), mid(p12, p23)
	pm := mid(p012, p123)
	cubicToQuads(p0, p01, p012, pm, depth+1, emit)
	cubicToQuads(pm, p123, p23, p3, depth+1, emit)
}

// contour collects rounded outline points
type contour struct {
	pts []Point
}

func (c *contour) on(p vec) {
	pt := Point{clamp16(p[0]), clamp16(p[1]), true}
	if n := len(c.pts); n > 0 && c.pts[n-1] == pt {
		return
	}
	c.pts = append(c.pts, pt)
}

func (c *contour) off(p vec) {
	c.pts = append(c.pts, Point{clamp16(p[0]), clamp16(p[1]), false})
}

// points returns the contour without a trailing copy of its start point. Contours
// are closed implicitly.
func (c *contour) points() []Point {
	pts := c.pts
	for len(pts) > 1 && pts[len(pts)-1] == pts[0] {
		pts = pts[:len(pts)-1]
	}
	return pts
}

func clamp16(v float64) int16 {
	return int16(max(math.MinInt16, min(math.MaxInt16, math.Round(v))))
}

func clampU16(v float64) uint16 {
	return uint16(max(0, min(math.MaxUint16, v)))
}
