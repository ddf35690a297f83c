// Package extract crops the titled groups of an icon sprite into standalone SVG documents.
package extract

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/jphsd/iconsprite/svg"
	"github.com/jphsd/iconsprite/xml"
)

const svgNS = "http://www.w3.org/2000/svg"
const xlinkNS = "http://www.w3.org/1999/xlink"

// Reason says why a title did not produce an icon.
type Reason string

const (
	HasSpace   Reason = "title contains a space"
	EmptyTitle Reason = "title is empty"
	BadName    Reason = "title is not a valid file name"
	NotGroup   Reason = "title parent is not a group"
	Duplicate  Reason = "title seen before"
	NoGeometry Reason = "group draws nothing"
)

// Warn reports whether the skip points at a problem in the sprite rather than an
// intentionally private or nested title.
func (r Reason) Warn() bool {
	switch r {
	case EmptyTitle, BadName, NoGeometry:
		return true
	}
	return false
}

// Skip records a title that was passed over.
type Skip struct {
	Title  string
	Reason Reason
}

// Icon is a single cropped icon.
type Icon struct {
	Name    string
	Aliases []string
	Box     svg.Rect     // Bounding box of the group, also the viewBox of Doc
	Doc     *xml.Element // Standalone <svg> root
}

// Result holds the icons in document order and the titles that were skipped.
type Result struct {
	Icons   []*Icon
	Skipped []Skip
}

// Options controls extraction.
type Options struct {
	// Revision selects the extraction rules. Revision 1 lets a repeated title replace
	// the earlier icon and keeps <use> elements, carrying what they reference in a
	// <defs> block. Revision 2 skips repeated titles and inlines <use> references.
	Revision int
	Aliases  Aliases
}

// Extractor crops icons out of a sprite document.
type Extractor struct {
	doc  *xml.Element
	opts Options
	refs map[string]*xml.Element
}

// Children of an icon group that are never copied
var dropped = map[string]bool{"title": true, "desc": true, "metadata": true}

// New returns an extractor over the sprite rooted at doc.
func New(doc *xml.Element, opts Options) *Extractor {
	if opts.Revision == 0 {
		opts.Revision = 2
	}
	if opts.Aliases == nil {
		opts.Aliases = Aliases{}
	}
	return &Extractor{doc, opts, doc.IDs()}
}

// Extract visits every <title> in document order and crops its group.
func (e *Extractor) Extract() (*Result, error) {
	res := &Result{}
	seen := make(map[string]int)

	for _, title := range e.doc.FindAll("title") {
		name := strings.TrimSpace(title.Text())
		skip := func(r Reason) {
			res.Skipped = append(res.Skipped, Skip{name, r})
		}

		switch {
		case name == "":
			skip(EmptyTitle)
			continue
		case strings.IndexFunc(name, unicode.IsSpace) >= 0:
			skip(HasSpace)
			continue
		case strings.ContainsAny(name, `/\`) || name == "." || name == "..":
			skip(BadName)
			continue
		}

		group := title.Parent
		if group == nil || !group.Is("g") {
			skip(NotGroup)
			continue
		}

		prev, dup := seen[name]
		if dup && e.opts.Revision >= 2 {
			skip(Duplicate)
			continue
		}

		icon, err := e.crop(name, group)
		if err != nil {
			return nil, fmt.Errorf("icon %q: %w", name, err)
		}
		if icon == nil {
			skip(NoGeometry)
			continue
		}

		if dup {
			res.Icons[prev] = icon
			continue
		}
		seen[name] = len(res.Icons)
		res.Icons = append(res.Icons, icon)
	}

	return res, nil
}

// crop builds the standalone document for group. It returns nil when the group has
// no geometry.
func (e *Extractor) crop(name string, group *xml.Element) (*Icon, error) {
	root := xml.NewNode("svg")
	root.Set("xmlns", svgNS)

	var kept []*xml.Element
	for _, c := range group.Nodes() {
		if dropped[c.Name.Local] || svg.FillNone(c) || svg.Hidden(c) {
			continue
		}
		clone := c.Copy()
		if e.opts.Revision >= 2 {
			var err error
			if clone, err = e.inline(clone, 0); err != nil {
				return nil, err
			}
		}
		kept = append(kept, clone)
	}

	geo := svg.NewGeometry(e.refs)
	for _, c := range kept {
		if err := geo.Process(c); err != nil {
			return nil, err
		}
	}
	box, ok := geo.Bounds()
	if !ok || box.W <= 0 || box.H <= 0 {
		return nil, nil
	}
	root.Set("viewBox", box.String())

	if e.opts.Revision < 2 {
		defs, err := e.referenced(kept)
		if err != nil {
			return nil, err
		}
		if defs != nil {
			root.AppendChild(defs)
		}
	}
	for _, c := range kept {
		root.AppendChild(c)
	}
	if usesXlink(root) {
		root.Set("xmlns:xlink", xlinkNS)
	}

	return &Icon{
		Name:    name,
		Aliases: e.opts.Aliases.For(name),
		Box:     box,
		Doc:     root,
	}, nil
}

func usesXlink(root *xml.Element) bool {
	found := false
	root.Walk(func(elt *xml.Element) bool {
		for _, a := range elt.Attr {
			if a.Name.Space == "xlink" {
				found = true
			}
		}
		return !found
	})
	return found
}

// WriteAll writes each icon to <dir>/<name>.svg and returns the file names written.
func WriteAll(dir string, icons []*Icon) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	res := make([]string, 0, len(icons))
	for _, icon := range icons {
		fn := filepath.Join(dir, icon.Name+".svg")
		if err := icon.Doc.WriteFile(fn); err != nil {
			return nil, fmt.Errorf("writing icon %q: %w", icon.Name, err)
		}
		res = append(res, fn)
	}
	return res, nil
}
