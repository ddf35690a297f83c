package extract

import (
	"fmt"
	"strings"

	"github.com/jphsd/iconsprite/svg"
	"github.com/jphsd/iconsprite/xml"
)

// Maximum depth of nested <use> references
const maxRefDepth = 16

// Attributes of a <use> that are consumed when it is inlined
var useAttrs = map[string]bool{
	"href": true, "xlink:href": true, "x": true, "y": true,
	"width": true, "height": true, "transform": true,
}

// Attributes of a <symbol> that only make sense on a viewport
var symbolAttrs = []string{"viewBox", "preserveAspectRatio", "x", "y", "width", "height", "refX", "refY", "transform"}

// inline replaces every <use> in elt, elt included, by a clone of what it references.
// The returned element takes the place of elt.
func (e *Extractor) inline(elt *xml.Element, depth int) (*xml.Element, error) {
	if elt.Type != xml.Node {
		return elt, nil
	}

	if !elt.Is("use") {
		for i, c := range elt.Children {
			nc, err := e.inline(c, depth)
			if err != nil {
				return nil, err
			}
			nc.Parent = elt
			elt.Children[i] = nc
		}
		return elt, nil
	}

	if depth >= maxRefDepth {
		return nil, fmt.Errorf("<use> nested deeper than %d, reference cycle at %q", maxRefDepth, elt.Href())
	}
	ref, err := svg.Resolve(elt, e.refs)
	if err != nil {
		return nil, err
	}

	clone := ref.Copy()
	clone.Remove("id")
	if clone.Is("symbol") {
		vp, err := svg.SymbolViewport(elt, ref)
		if err != nil {
			return nil, err
		}
		clone.Name.Local = "g"
		for _, a := range symbolAttrs {
			clone.Remove(a)
		}
		if !svg.IsIdentity(vp) {
			clone.Set("transform", svg.FormatMatrix(vp))
		}
	}
	inner, err := e.inline(clone, depth+1)
	if err != nil {
		return nil, err
	}

	wrap := xml.NewNode("g")
	for _, a := range elt.Attr {
		name := a.Name.Local
		if a.Name.Space != "" {
			name = a.Name.Space + ":" + name
		}
		if !useAttrs[name] {
			wrap.Attr = append(wrap.Attr, a)
		}
	}

	xfm := strings.TrimSpace(elt.Get("transform"))
	x, err := svg.ParseValue(elt.Get("x"))
	if err != nil {
		return nil, err
	}
	y, err := svg.ParseValue(elt.Get("y"))
	if err != nil {
		return nil, err
	}
	if x != 0 || y != 0 {
		xfm = strings.TrimSpace(fmt.Sprintf("%s translate(%s %s)", xfm, svg.FormatNumber(x), svg.FormatNumber(y)))
	}
	if xfm != "" {
		wrap.Set("transform", xfm)
	}

	if len(wrap.Attr) == 0 {
		inner.Parent = elt.Parent
		return inner, nil
	}
	wrap.Parent = elt.Parent
	wrap.AppendChild(inner)
	return wrap, nil
}

// referenced collects clones of every element the <use> elements in kept point at,
// following references transitively. It returns nil when nothing outside kept is
// referenced.
func (e *Extractor) referenced(kept []*xml.Element) (*xml.Element, error) {
	known := make(map[string]bool)
	for _, c := range kept {
		for id := range c.IDs() {
			known[id] = true
		}
	}

	defs := xml.NewNode("defs")
	var visit func(elt *xml.Element) error
	visit = func(elt *xml.Element) error {
		var err error
		elt.Walk(func(n *xml.Element) bool {
			if err != nil {
				return false
			}
			if !n.Is("use") {
				return true
			}
			ref, rerr := svg.Resolve(n, e.refs)
			if rerr != nil {
				err = rerr
				return false
			}
			if known[n.Href()[1:]] {
				return true
			}
			clone := ref.Copy()
			for id := range clone.IDs() {
				known[id] = true
			}
			defs.AppendChild(clone)
			err = visit(clone)
			return true
		})
		return err
	}

	for _, c := range kept {
		if err := visit(c); err != nil {
			return nil, err
		}
	}
	if len(defs.Children) == 0 {
		return nil, nil
	}
	return defs, nil
}
