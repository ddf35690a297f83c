package svg

import (
	"math"
	"strings"

	g2d "github.com/jphsd/graphics2d"
)

// Rect is an axis aligned rectangle in user units.
type Rect struct {
	X, Y, W, H float64
}

// String formats r as the value of a viewBox attribute.
func (r Rect) String() string {
	return strings.Join([]string{FormatNumber(r.X), FormatNumber(r.Y), FormatNumber(r.W), FormatNumber(r.H)}, " ")
}

type extent struct {
	minX, minY, maxX, maxY float64
	empty                  bool
}

func (e *extent) add(x, y float64) {
	if e.empty {
		e.minX, e.minY, e.maxX, e.maxY = x, y, x, y
		e.empty = false
		return
	}
	e.minX, e.maxX = min(e.minX, x), max(e.maxX, x)
	e.minY, e.maxY = min(e.minY, y), max(e.maxY, y)
}

// Bounds returns the tight bounding box of paths. Curves contribute their extrema
// rather than their control points. The result is false when there are no points.
func Bounds(paths []*g2d.Path) (Rect, bool) {
	e := &extent{empty: true}
	for _, p := range paths {
		var cur []float64
		for i, step := range p.Steps() {
			if i == 0 {
				cur = step[0]
				e.add(cur[0], cur[1])
				continue
			}
			last := step[len(step)-1]
			e.add(last[0], last[1])
			switch len(step) {
			case 2:
				quadExtrema(e, cur, step[0], step[1])
			case 3:
				cubicExtrema(e, cur, step[0], step[1], step[2])
			}
			cur = last
		}
	}
	if e.empty {
		return Rect{}, false
	}
	return Rect{e.minX, e.minY, e.maxX - e.minX, e.maxY - e.minY}, true
}

func quadExtrema(e *extent, p0, p1, p2 []float64) {
	for axis := 0; axis < 2; axis++ {
		den := p0[axis] - 2*p1[axis] + p2[axis]
		if den == 0 {
			continue
		}
		t := (p0[axis] - p1[axis]) / den
		if t <= 0 || t >= 1 {
			continue
		}
		mt := 1 - t
		e.add(mt*mt*p0[0]+2*mt*t*p1[0]+t*t*p2[0], mt*mt*p0[1]+2*mt*t*p1[1]+t*t*p2[1])
	}
}

func cubicExtrema(e *extent, p0, p1, p2, p3 []float64) {
	for axis := 0; axis < 2; axis++ {
		// Roots of the derivative a*t^2 + b*t + c
		a := 3 * (-p0[axis] + 3*p1[axis] - 3*p2[axis] + p3[axis])
		b := 6 * (p0[axis] - 2*p1[axis] + p2[axis])
		c := 3 * (p1[axis] - p0[axis])
		for _, t := range quadRoots(a, b, c) {
			if t <= 0 || t >= 1 {
				continue
			}
			mt := 1 - t
			w0, w1, w2, w3 := mt*mt*mt, 3*mt*mt*t, 3*mt*t*t, t*t*t
			e.add(w0*p0[0]+w1*p1[0]+w2*p2[0]+w3*p3[0], w0*p0[1]+w1*p1[1]+w2*p2[1]+w3*p3[1])
		}
	}
}

func quadRoots(a, b, c float64) []float64 {
	const eps = 1e-12
	if math.Abs(a) < eps {
		if math.Abs(b) < eps {
			return nil
		}
		return []float64{-c / b}
	}
	d := b*b - 4*a*c
	if d < 0 {
		return nil
	}
	sd := math.Sqrt(d)
	return []float64{(-b + sd) / (2 * a), (-b - sd) / (2 * a)}
}
