package svg

import (
	"fmt"
	stdcol "image/color"
	"math"
	"regexp"
	"strconv"
	"strings"

	g2d "github.com/jphsd/graphics2d"
	"github.com/jphsd/graphics2d/color"
	"github.com/jphsd/graphics2d/util"
)

var (
	wscpat = regexp.MustCompile(`[, \n\r\t]+`) // Whitespace and comma pattern
	lcapat = regexp.MustCompile(`([a-z%]+)$`)  // Trailing unit pattern
)

// Number of arguments consumed by one repetition of each path command
var argCount = map[byte]int{
	'M': 2, 'L': 2, 'T': 2,
	'H': 1, 'V': 1,
	'S': 4, 'Q': 4,
	'C': 6,
	'A': 7,
	'Z': 0,
}

type command struct {
	c      byte
	coords []float64
}

// PathsFromDescription converts SVG path data into one path per subpath.
func PathsFromDescription(desc string) ([]*g2d.Path, error) {
	cmds, err := commands(desc)
	if err != nil {
		return nil, err
	}
	cx, cy := 0.0, 0.0 // Current point
	sx, sy := 0.0, 0.0 // Start of current subpath
	res := []*g2d.Path{}
	var path *g2d.Path
	var cp, qp []float64

	// Drawing commands after a close start a new subpath at the old start point
	ensure := func() {
		if path == nil {
			path = g2d.NewPath([]float64{cx, cy})
		}
	}

	for _, cmd := range cmds {
		c, coords := cmd.c, cmd.coords
		switch c {
		case 'M': // MoveTo
			if path != nil {
				res = append(res, path)
			}
			for i := 0; i < len(coords); i += 2 {
				cx, cy = coords[i], coords[i+1]
				if i == 0 {
					path = g2d.NewPath([]float64{cx, cy})
					sx, sy = cx, cy
				} else {
					// Additional pairs treated as L
					path.AddStep([]float64{cx, cy})
				}
			}
			qp, cp = nil, nil
		case 'm':
			if path != nil {
				res = append(res, path)
			}
			for i := 0; i < len(coords); i += 2 {
				cx, cy = cx+coords[i], cy+coords[i+1]
				if i == 0 {
					path = g2d.NewPath([]float64{cx, cy})
					sx, sy = cx, cy
				} else {
					// Additional pairs treated as l
					path.AddStep([]float64{cx, cy})
				}
			}
			qp, cp = nil, nil
		case 'L': // LineTo
			ensure()
			for i := 0; i < len(coords); i += 2 {
				cx, cy = coords[i], coords[i+1]
				path.AddStep([]float64{cx, cy})
			}
			qp, cp = nil, nil
		case 'l':
			ensure()
			for i := 0; i < len(coords); i += 2 {
				cx, cy = cx+coords[i], cy+coords[i+1]
				path.AddStep([]float64{cx, cy})
			}
			qp, cp = nil, nil
		case 'H': // HorizontalTo
			ensure()
			for _, v := range coords {
				cx = v
				path.AddStep([]float64{cx, cy})
			}
			qp, cp = nil, nil
		case 'h':
			ensure()
			for _, v := range coords {
				cx = cx + v
				path.AddStep([]float64{cx, cy})
			}
			qp, cp = nil, nil
		case 'V': // VerticalTo
			ensure()
			for _, v := range coords {
				cy = v
				path.AddStep([]float64{cx, cy})
			}
			qp, cp = nil, nil
		case 'v':
			ensure()
			for _, v := range coords {
				cy = cy + v
				path.AddStep([]float64{cx, cy})
			}
			qp, cp = nil, nil
		case 'Q': // QuadTo
			ensure()
			for i := 0; i < len(coords); i += 4 {
				p1 := []float64{coords[i], coords[i+1]}
				qp = p1
				p2 := []float64{coords[i+2], coords[i+3]}
				cx, cy = p2[0], p2[1]
				path.AddStep(p1, p2)
			}
			cp = nil
		case 'q':
			ensure()
			for i := 0; i < len(coords); i += 4 {
				p1 := []float64{cx + coords[i], cy + coords[i+1]}
				qp = p1
				cx, cy = cx+coords[i+2], cy+coords[i+3]
				p2 := []float64{cx, cy}
				path.AddStep(p1, p2)
			}
			cp = nil
		case 'T', 't': // SmoothQuadTo
			ensure()
			for i := 0; i < len(coords); i += 2 {
				// Infer p1 from reflected control point of previous Q/T step, else use current
				var p1 []float64
				if qp == nil {
					p1 = []float64{cx, cy}
				} else {
					p1 = []float64{2*cx - qp[0], 2*cy - qp[1]}
				}
				qp = p1
				if c == 'T' {
					cx, cy = coords[i], coords[i+1]
				} else {
					cx, cy = cx+coords[i], cy+coords[i+1]
				}
				path.AddStep(p1, []float64{cx, cy})
			}
			cp = nil
		case 'C': // CubicTo
			ensure()
			for i := 0; i < len(coords); i += 6 {
				p1 := []float64{coords[i], coords[i+1]}
				p2 := []float64{coords[i+2], coords[i+3]}
				cp = p2
				p3 := []float64{coords[i+4], coords[i+5]}
				cx, cy = p3[0], p3[1]
				path.AddStep(p1, p2, p3)
			}
			qp = nil
		case 'c':
			ensure()
			for i := 0; i < len(coords); i += 6 {
				p1 := []float64{cx + coords[i], cy + coords[i+1]}
				p2 := []float64{cx + coords[i+2], cy + coords[i+3]}
				cp = p2
				cx, cy = cx+coords[i+4], cy+coords[i+5]
				p3 := []float64{cx, cy}
				path.AddStep(p1, p2, p3)
			}
			qp = nil
		case 'S', 's': // SmoothCubicTo
			ensure()
			for i := 0; i < len(coords); i += 4 {
				// Infer p1 from reflected penultimate value of previous C/S step, else use current
				var p1 []float64
				if cp == nil {
					p1 = []float64{cx, cy}
				} else {
					p1 = []float64{2*cx - cp[0], 2*cy - cp[1]}
				}
				var p2 []float64
				if c == 'S' {
					p2 = []float64{coords[i], coords[i+1]}
					cx, cy = coords[i+2], coords[i+3]
				} else {
					p2 = []float64{cx + coords[i], cy + coords[i+1]}
					cx, cy = cx+coords[i+2], cy+coords[i+3]
				}
				cp = p2
				path.AddStep(p1, p2, []float64{cx, cy})
			}
			qp = nil
		case 'A', 'a': // ArcTo
			ensure()
			for i := 0; i < len(coords); i += 7 {
				p1 := []float64{cx, cy}
				if c == 'A' {
					cx, cy = coords[i+5], coords[i+6]
				} else {
					cx, cy = cx+coords[i+5], cy+coords[i+6]
				}
				p2 := []float64{cx, cy}
				rx, ry := math.Abs(coords[i]), math.Abs(coords[i+1])
				if util.Equals(rx, 0) || util.Equals(ry, 0) {
					// Degenerate radii draw a straight line
					path.AddStep(p2)
					continue
				}
				xang := coords[i+2] / 180 * math.Pi // value is in degrees
				la, swp := !util.Equals(coords[i+3], 0), !util.Equals(coords[i+4], 0)
				eap := g2d.EllipticalArcFromPoints2(p1, p2, rx, ry, xang, la, swp, g2d.ArcOpen)
				path.Concatenate(eap)
			}
			qp, cp = nil, nil
		case 'Z', 'z':
			if path != nil {
				path.Close()
				res = append(res, path)
				path = nil
			}
			cx, cy = sx, sy
			qp, cp = nil, nil
		}
	}
	if path != nil {
		res = append(res, path)
	}
	return res, nil
}

// Parse into commands that start with one of ACHLMQSTVZ (and lower case versions)
func commands(str string) ([]command, error) {
	var res []command
	i, n := 0, len(str)
	for {
		i = skipSeparators(str, i)
		if i >= n {
			break
		}
		c := str[i]
		uc := c &^ 0x20 // upper case
		cnt, ok := argCount[uc]
		if !ok {
			return nil, fmt.Errorf("path data: unexpected %q at offset %d", c, i)
		}
		if len(res) == 0 && uc != 'M' {
			return nil, fmt.Errorf("path data must start with a moveto, found %q", c)
		}
		i++

		var coords []float64
		for cnt > 0 {
			j := skipSeparators(str, i)
			if j >= n || !startsNumber(str[j]) {
				break
			}
			i = j
			for k := 0; k < cnt; k++ {
				var v float64
				var err error
				i = skipSeparators(str, i)
				if uc == 'A' && (k == 3 || k == 4) {
					v, i, err = scanFlag(str, i)
				} else {
					v, i, err = scanNumber(str, i)
				}
				if err != nil {
					return nil, fmt.Errorf("path data %q command: %w", c, err)
				}
				coords = append(coords, v)
			}
		}
		if cnt > 0 && len(coords) == 0 {
			return nil, fmt.Errorf("path data: %q command has no arguments", c)
		}
		res = append(res, command{c, coords})
	}
	return res, nil
}

func skipSeparators(str string, i int) int {
	for i < len(str) {
		switch str[i] {
		case ' ', '\t', '\n', '\r', ',':
			i++
		default:
			return i
		}
	}
	return i
}

func startsNumber(b byte) bool {
	return (b >= '0' && b <= '9') || b == '.' || b == '-' || b == '+'
}

// scanNumber reads one number starting at i. A second '.' or a sign ends the number,
// so compact forms such as "1.5.5" and "1-2" are split correctly.
func scanNumber(str string, i int) (float64, int, error) {
	start := i
	n := len(str)
	if i < n && (str[i] == '-' || str[i] == '+') {
		i++
	}
	digits := false
	for i < n && str[i] >= '0' && str[i] <= '9' {
		i++
		digits = true
	}
	if i < n && str[i] == '.' {
		i++
		for i < n && str[i] >= '0' && str[i] <= '9' {
			i++
			digits = true
		}
	}
	if !digits {
		return 0, start, fmt.Errorf("expected number at offset %d", start)
	}
	if i < n && (str[i] == 'e' || str[i] == 'E') {
		j := i + 1
		if j < n && (str[j] == '-' || str[j] == '+') {
			j++
		}
		if j < n && str[j] >= '0' && str[j] <= '9' {
			for j < n && str[j] >= '0' && str[j] <= '9' {
				j++
			}
			i = j
		}
	}
	v, err := strconv.ParseFloat(str[start:i], 64)
	if err != nil {
		return 0, start, err
	}
	return v, i, nil
}

// Arc flags are a single 0 or 1 and need no separator
func scanFlag(str string, i int) (float64, int, error) {
	if i < len(str) {
		switch str[i] {
		case '0':
			return 0, i + 1, nil
		case '1':
			return 1, i + 1, nil
		}
	}
	return 0, i, fmt.Errorf("expected arc flag at offset %d", i)
}

// ParseNumbers splits a list of numbers such as the points attribute of a polygon.
func ParseNumbers(str string) ([]float64, error) {
	var res []float64
	i := skipSeparators(str, 0)
	for i < len(str) {
		v, j, err := scanNumber(str, i)
		if err != nil {
			return nil, err
		}
		res = append(res, v)
		i = skipSeparators(str, j)
	}
	return res, nil
}

func ParseValue(str string) (float64, error) {
	v, _, err := ParseValueUnit(str)
	return v, err
}

// ParseValueUnit splits a length such as "24px" into its value and unit.
func ParseValueUnit(str string) (float64, string, error) {
	str = strings.TrimSpace(str)
	if str == "" {
		return 0, "", nil
	}
	var u string
	if loc := lcapat.FindStringIndex(str); loc != nil {
		u = str[loc[0]:]
		str = str[:loc[0]]
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(str), 64)
	if err != nil {
		return 0, "", fmt.Errorf("invalid length %q", str+u)
	}
	return v, u, nil
}

// ParseViewBox reads the four numbers of a viewBox attribute.
func ParseViewBox(str string) (Rect, error) {
	vals, err := ParseNumbers(wscpat.ReplaceAllString(str, " "))
	if err != nil {
		return Rect{}, err
	}
	if len(vals) != 4 {
		return Rect{}, fmt.Errorf("viewBox %q needs 4 numbers", str)
	}
	if vals[2] < 0 || vals[3] < 0 {
		return Rect{}, fmt.Errorf("viewBox %q has a negative size", str)
	}
	return Rect{vals[0], vals[1], vals[2], vals[3]}, nil
}

// ParseColor reads a paint color: #RGB, #RGBA, #RRGGBB, #RRGGBBAA, transparent or a
// named color. It returns nil for none and for anything it cannot read.
func ParseColor(str string) stdcol.Color {
	str = strings.TrimSpace(str)
	switch str {
	case "none":
		return nil
	case "transparent":
		return stdcol.RGBA{}
	}
	// #XXX, #XXXX, #XXXXXX or #XXXXXXXX
	if strings.Index(str, "#") == 0 {
		str = str[1:]
		l := len(str)
		v := 0
		if _, err := fmt.Sscanf(str, "%x", &v); err != nil {
			return nil
		}
		a := 0xff
		switch l {
		case 4:
			a = (v & 0xf) * 0x11
			v >>= 4
			fallthrough
		case 3:
			r := ((v & 0xf00) >> 8) * 0x11
			g := ((v & 0xf0) >> 4) * 0x11
			b := (v & 0xf) * 0x11
			return nrgba(r, g, b, a)
		case 8:
			a = v & 0xff
			v >>= 8
			fallthrough
		case 6:
			r := (v & 0xff0000) >> 16
			g := (v & 0xff00) >> 8
			b := v & 0xff
			return nrgba(r, g, b, a)
		default:
			return nil
		}
	}
	// Named color
	col, err := color.ByName(str)
	if err != nil {
		return nil
	}
	return col.Color
}

func nrgba(r, g, b, a int) stdcol.Color {
	return stdcol.NRGBA{uint8(r), uint8(g), uint8(b), uint8(a)}
}

// ParseStyle splits a style attribute into its properties.
func ParseStyle(str string) map[string]string {
	res := make(map[string]string)
	for _, decl := range strings.Split(str, ";") {
		k, v, ok := strings.Cut(decl, ":")
		if !ok {
			continue
		}
		k = strings.TrimSpace(k)
		if k == "" {
			continue
		}
		res[k] = strings.TrimSpace(v)
	}
	return res
}

// FormatStyle is the inverse of ParseStyle, keeping the property order of the original style.
func FormatStyle(orig string, props map[string]string) string {
	var parts []string
	for _, decl := range strings.Split(orig, ";") {
		k, _, ok := strings.Cut(decl, ":")
		if !ok {
			continue
		}
		k = strings.TrimSpace(k)
		if v, ok := props[k]; ok {
			parts = append(parts, k+":"+v)
		}
	}
	return strings.Join(parts, ";")
}
