package svg

import (
	"math"
	"strconv"
	"strings"

	g2d "github.com/jphsd/graphics2d"
)

// Decimal places kept when writing coordinates
const precision = 3

// FormatNumber rounds v to three decimals and prints it without trailing zeros.
func FormatNumber(v float64) string {
	p := math.Pow10(precision)
	v = math.Round(v*p) / p
	if v == 0 {
		// Avoids "-0"
		return "0"
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// FormatPathData writes paths as absolute SVG path data using M, L, Q, C and Z.
func FormatPathData(paths []*g2d.Path) string {
	var sb strings.Builder
	for _, p := range paths {
		for i, step := range p.Steps() {
			switch {
			case i == 0:
				sb.WriteByte('M')
			case len(step) == 1:
				sb.WriteByte('L')
			case len(step) == 2:
				sb.WriteByte('Q')
			default:
				sb.WriteByte('C')
			}
			for j, pt := range step {
				if j > 0 {
					sb.WriteByte(' ')
				}
				sb.WriteString(FormatNumber(pt[0]))
				sb.WriteByte(' ')
				sb.WriteString(FormatNumber(pt[1]))
			}
		}
		if p.Closed() {
			sb.WriteByte('Z')
		}
	}
	return sb.String()
}
