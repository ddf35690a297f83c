package svg

import (
	"fmt"

	g2d "github.com/jphsd/graphics2d"
	"github.com/jphsd/iconsprite/xml"
)

// Attributes that describe shape geometry and are dropped when a shape becomes a path
var geometryAttrs = []string{
	"x", "y", "width", "height", "rx", "ry", "cx", "cy", "r",
	"x1", "y1", "x2", "y2", "points", "d", "transform",
}

// Flatten collapses nested transforms below root into absolute coordinates, in place.
// Shapes under a non-identity transform are rewritten as paths and every group loses
// its transform. Elements that cannot be rewritten, such as text, keep the accumulated
// transform as a matrix.
func Flatten(root *xml.Element) error {
	return flatten(root, g2d.NewAff3())
}

// FlattenFile flattens the SVG document in the named file and writes it back.
func FlattenFile(fn string) error {
	dom, err := xml.ParseFile(fn)
	if err != nil {
		return err
	}
	if err = Flatten(dom); err != nil {
		return fmt.Errorf("flattening %s: %w", fn, err)
	}
	return dom.WriteFile(fn)
}

func flatten(elt *xml.Element, acc *g2d.Aff3) error {
	for _, c := range elt.Nodes() {
		xfm := acc
		if str, ok := c.Attribute("transform"); ok {
			own, err := ParseTransform(str)
			if err != nil {
				return err
			}
			xfm = Multiply(acc, own)
		}

		name := c.Name.Local
		switch {
		case name == "g" || name == "a":
			c.Remove("transform")
			if err := flatten(c, xfm); err != nil {
				return err
			}
		case isShape(name):
			if err := flattenShape(c, xfm); err != nil {
				return err
			}
		case nonRendering[name]:
			// Referenced content is positioned by whoever references it
		default:
			if IsIdentity(xfm) {
				c.Remove("transform")
			} else {
				c.Set("transform", FormatMatrix(xfm))
			}
		}
	}
	return nil
}

func flattenShape(elt *xml.Element, xfm *g2d.Aff3) error {
	if IsIdentity(xfm) {
		elt.Remove("transform")
		return nil
	}
	paths, err := ShapePaths(elt)
	if err != nil {
		return fmt.Errorf("<%s>: %w", elt.QName(), err)
	}
	if len(paths) == 0 {
		return nil
	}
	for _, a := range geometryAttrs {
		elt.Remove(a)
	}
	elt.Name.Local = "path"
	elt.Set("d", FormatPathData(TransformPaths(xfm, paths...)))
	return nil
}

func isShape(name string) bool {
	switch name {
	case "path", "rect", "circle", "ellipse", "line", "polyline", "polygon":
		return true
	}
	return false
}

// FormatMatrix writes xfm as an SVG matrix() transform.
func FormatMatrix(xfm *g2d.Aff3) string {
	return fmt.Sprintf("matrix(%s %s %s %s %s %s)",
		FormatNumber(xfm[0]), FormatNumber(xfm[3]),
		FormatNumber(xfm[1]), FormatNumber(xfm[4]),
		FormatNumber(xfm[2]), FormatNumber(xfm[5]))
}
