package svg

import (
	"fmt"
	"math"
	"regexp"
	"strings"

	g2d "github.com/jphsd/graphics2d"
	"github.com/jphsd/graphics2d/util"
)

var xfmpat = regexp.MustCompile(`([a-zA-Z]+)\s*\(([^)]*)\)`)

// An Aff3 holds [a c e b d f] for the SVG matrix(a b c d e f), so that
// x' = a*x + c*y + e and y' = b*x + d*y + f.

// ParseTransform converts an SVG transform list into a single affine transform.
// An empty list yields the identity.
func ParseTransform(str string) (*g2d.Aff3, error) {
	res := g2d.NewAff3()
	rest := strings.TrimSpace(str)
	for rest != "" {
		loc := xfmpat.FindStringSubmatchIndex(rest)
		if loc == nil || strings.Trim(rest[:loc[0]], " ,\t\r\n") != "" {
			return nil, fmt.Errorf("invalid transform %q", str)
		}
		name := rest[loc[2]:loc[3]]
		args, err := ParseNumbers(rest[loc[4]:loc[5]])
		if err != nil {
			return nil, fmt.Errorf("transform %s: %w", name, err)
		}
		xfm, err := transformFunc(name, args)
		if err != nil {
			return nil, err
		}
		// Later entries in the list apply first
		res = Multiply(res, xfm)
		rest = strings.TrimSpace(rest[loc[1]:])
		rest = strings.TrimLeft(rest, ", \t\r\n")
	}
	return res, nil
}

func transformFunc(name string, args []float64) (*g2d.Aff3, error) {
	bad := func() (*g2d.Aff3, error) {
		return nil, fmt.Errorf("transform %s: unexpected %d arguments", name, len(args))
	}
	switch name {
	case "matrix":
		if len(args) != 6 {
			return bad()
		}
		return &g2d.Aff3{args[0], args[2], args[4], args[1], args[3], args[5]}, nil
	case "translate":
		switch len(args) {
		case 1:
			return Translate(args[0], 0), nil
		case 2:
			return Translate(args[0], args[1]), nil
		}
		return bad()
	case "scale":
		switch len(args) {
		case 1:
			return Scale(args[0], args[0]), nil
		case 2:
			return Scale(args[0], args[1]), nil
		}
		return bad()
	case "rotate":
		th := 0.0
		if len(args) > 0 {
			th = args[0] / 180 * math.Pi
		}
		sin, cos := math.Sincos(th)
		rot := &g2d.Aff3{cos, -sin, 0, sin, cos, 0}
		switch len(args) {
		case 1:
			return rot, nil
		case 3:
			cx, cy := args[1], args[2]
			return Multiply(Translate(cx, cy), Multiply(rot, Translate(-cx, -cy))), nil
		}
		return bad()
	case "skewX":
		if len(args) != 1 {
			return bad()
		}
		return &g2d.Aff3{1, math.Tan(args[0] / 180 * math.Pi), 0, 0, 1, 0}, nil
	case "skewY":
		if len(args) != 1 {
			return bad()
		}
		return &g2d.Aff3{1, 0, 0, math.Tan(args[0] / 180 * math.Pi), 1, 0}, nil
	}
	return nil, fmt.Errorf("unknown transform %q", name)
}

// Translate returns a translation by (x, y).
func Translate(x, y float64) *g2d.Aff3 {
	return &g2d.Aff3{1, 0, x, 0, 1, y}
}

// Scale returns a scaling about the origin.
func Scale(sx, sy float64) *g2d.Aff3 {
	return &g2d.Aff3{sx, 0, 0, 0, sy, 0}
}

// Multiply returns a*b, the transform that applies b first and then a.
func Multiply(a, b *g2d.Aff3) *g2d.Aff3 {
	return &g2d.Aff3{
		a[0]*b[0] + a[1]*b[3],
		a[0]*b[1] + a[1]*b[4],
		a[0]*b[2] + a[1]*b[5] + a[2],
		a[3]*b[0] + a[4]*b[3],
		a[3]*b[1] + a[4]*b[4],
		a[3]*b[2] + a[4]*b[5] + a[5],
	}
}

// Apply maps the point (x, y) through xfm.
func Apply(xfm *g2d.Aff3, x, y float64) (float64, float64) {
	return xfm[0]*x + xfm[1]*y + xfm[2], xfm[3]*x + xfm[4]*y + xfm[5]
}

// IsIdentity reports whether xfm leaves every point in place.
func IsIdentity(xfm *g2d.Aff3) bool {
	id := [6]float64{1, 0, 0, 0, 1, 0}
	for i, v := range id {
		if !util.Equals(xfm[i], v) {
			return false
		}
	}
	return true
}

// TransformPaths returns copies of paths with every point mapped through xfm.
func TransformPaths(xfm *g2d.Aff3, paths ...*g2d.Path) []*g2d.Path {
	res := make([]*g2d.Path, 0, len(paths))
	for _, p := range paths {
		var np *g2d.Path
		for i, step := range p.Steps() {
			pts := make([][]float64, len(step))
			for j, pt := range step {
				x, y := Apply(xfm, pt[0], pt[1])
				pts[j] = []float64{x, y}
			}
			if i == 0 {
				np = g2d.NewPath(pts[0])
				continue
			}
			np.AddStep(pts...)
		}
		if np == nil {
			continue
		}
		if p.Closed() {
			np.Close()
		}
		res = append(res, np)
	}
	return res
}
