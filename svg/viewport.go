package svg

import (
	"fmt"
	"strings"

	g2d "github.com/jphsd/graphics2d"
	"github.com/jphsd/iconsprite/xml"
)

// SymbolViewport returns the transform that maps the viewBox of symbol into the
// viewport established by use. The viewport size comes from the width and height of
// use, then of symbol. A missing or percentage size falls back to the viewBox size.
// A symbol without a viewBox draws in the user space of use.
func SymbolViewport(use, symbol *xml.Element) (*g2d.Aff3, error) {
	str, ok := symbol.Attribute("viewBox")
	if !ok {
		return g2d.NewAff3(), nil
	}
	vb, err := ParseViewBox(str)
	if err != nil {
		return nil, err
	}
	if vb.W == 0 || vb.H == 0 {
		return g2d.NewAff3(), nil
	}

	w, err := viewportSize(use, symbol, "width", vb.W)
	if err != nil {
		return nil, err
	}
	h, err := viewportSize(use, symbol, "height", vb.H)
	if err != nil {
		return nil, err
	}

	align, slice, err := parseAspect(symbol.Get("preserveAspectRatio"))
	if err != nil {
		return nil, err
	}
	sx, sy := w/vb.W, h/vb.H
	if align != "none" {
		s := min(sx, sy)
		if slice {
			s = max(sx, sy)
		}
		sx, sy = s, s
	}

	// Alignment of the scaled viewBox within the viewport
	dx, dy := 0.0, 0.0
	if align != "none" {
		free := [2]float64{w - vb.W*sx, h - vb.H*sy}
		for axis, name := range [2]string{align[1:4], align[5:8]} {
			switch name {
			case "Mid":
				free[axis] /= 2
			case "Min":
				free[axis] = 0
			}
		}
		dx, dy = free[0], free[1]
	}
	return Multiply(Translate(dx, dy), Multiply(Scale(sx, sy), Translate(-vb.X, -vb.Y))), nil
}

func viewportSize(use, symbol *xml.Element, name string, fallback float64) (float64, error) {
	for _, elt := range []*xml.Element{use, symbol} {
		str, ok := elt.Attribute(name)
		if !ok {
			continue
		}
		v, u, err := ParseValueUnit(str)
		if err != nil {
			return 0, err
		}
		if u == "%" {
			return fallback, nil
		}
		return v, nil
	}
	return fallback, nil
}

// parseAspect reads preserveAspectRatio, defaulting to xMidYMid meet.
func parseAspect(str string) (string, bool, error) {
	fields := strings.Fields(str)
	if len(fields) == 0 {
		return "xMidYMid", false, nil
	}
	align := fields[0]
	if align != "none" && (len(align) != 8 || align[0] != 'x' || align[4] != 'Y' ||
		!validAlign(align[1:4]) || !validAlign(align[5:8])) {
		return "", false, fmt.Errorf("invalid preserveAspectRatio %q", str)
	}
	slice := false
	if len(fields) > 1 {
		switch fields[1] {
		case "meet":
		case "slice":
			slice = true
		default:
			return "", false, fmt.Errorf("invalid preserveAspectRatio %q", str)
		}
	}
	return align, slice, nil
}

func validAlign(s string) bool {
	return s == "Min" || s == "Mid" || s == "Max"
}
