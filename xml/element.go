package xml

import (
	"encoding/xml"
	"strings"
)

// TT represents the element type.
type TT int

const (
	Node TT = iota
	Content
)

// Element is used to form the tree structure of the Document Object Model.
//
// Names are raw: Name.Space holds the prefix as written ("xlink" in xlink:href),
// not a namespace URL.
type Element struct {
	Type     TT           // Node or Content
	Name     xml.Name     // Node name
	Attr     []xml.Attr   // Node attributes, in document order
	Content  xml.CharData // CDATA content
	Parent   *Element     // Parent node
	Children []*Element   // List of child nodes and contents for this node
}

// NewNode creates a detached node element. The name may carry a prefix, as in "xlink:href".
func NewNode(name string) *Element {
	return &Element{Node, splitName(name), nil, nil, nil, nil}
}

// Copy returns a deep copy of this element and its children.
func (elt *Element) Copy() *Element {
	var attrs []xml.Attr
	if elt.Attr != nil {
		attrs = make([]xml.Attr, len(elt.Attr))
		copy(attrs, elt.Attr)
	}

	res := &Element{elt.Type, elt.Name, attrs, nil, elt.Parent, nil}

	nc := len(elt.Children)
	if nc > 0 {
		children := make([]*Element, nc)
		for i := 0; i < nc; i++ {
			children[i] = elt.Children[i].Copy()
			children[i].Parent = res
		}
		res.Children = children
	}

	if elt.Content != nil {
		res.Content = elt.Content.Copy()
	}

	return res
}

// Is reports whether elt is a node with the given local name.
func (elt *Element) Is(local string) bool {
	return elt.Type == Node && elt.Name.Local == local
}

// QName returns the element name with its prefix, if any.
func (elt *Element) QName() string {
	return qname(elt.Name)
}

// Attribute returns the value of the named attribute and whether it is present.
func (elt *Element) Attribute(name string) (string, bool) {
	n := splitName(name)
	for _, a := range elt.Attr {
		if a.Name == n {
			return a.Value, true
		}
	}
	return "", false
}

// Get returns the value of the named attribute, or "" when absent.
func (elt *Element) Get(name string) string {
	v, _ := elt.Attribute(name)
	return v
}

// Set replaces the named attribute's value, appending it when absent.
func (elt *Element) Set(name, value string) {
	n := splitName(name)
	for i, a := range elt.Attr {
		if a.Name == n {
			elt.Attr[i].Value = value
			return
		}
	}
	elt.Attr = append(elt.Attr, xml.Attr{Name: n, Value: value})
}

// Remove deletes the named attribute and reports whether it was present.
func (elt *Element) Remove(name string) bool {
	n := splitName(name)
	for i, a := range elt.Attr {
		if a.Name == n {
			elt.Attr = append(elt.Attr[:i], elt.Attr[i+1:]...)
			return true
		}
	}
	return false
}

// Href returns the link target of elt, preferring href over xlink:href.
func (elt *Element) Href() string {
	if v, ok := elt.Attribute("href"); ok {
		return v
	}
	return elt.Get("xlink:href")
}

// Nodes returns the node children of elt, skipping content.
func (elt *Element) Nodes() []*Element {
	var res []*Element
	for _, c := range elt.Children {
		if c.Type == Node {
			res = append(res, c)
		}
	}
	return res
}

// AppendChild adds child as the last child of elt.
func (elt *Element) AppendChild(child *Element) {
	child.Parent = elt
	elt.Children = append(elt.Children, child)
}

// Text returns the concatenated content of elt and its descendants.
func (elt *Element) Text() string {
	if elt.Type == Content {
		return string(elt.Content)
	}
	var sb strings.Builder
	for _, c := range elt.Children {
		sb.WriteString(c.Text())
	}
	return sb.String()
}

func splitName(name string) xml.Name {
	if i := strings.IndexByte(name, ':'); i >= 0 {
		return xml.Name{Space: name[:i], Local: name[i+1:]}
	}
	return xml.Name{Local: name}
}

func qname(n xml.Name) string {
	if n.Space == "" {
		return n.Local
	}
	return n.Space + ":" + n.Local
}
