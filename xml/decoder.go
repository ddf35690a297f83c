package xml

import (
	"bufio"
	"encoding/xml"
	"fmt"
	"io"
	"os"
)

// XMLDecoder is a wrapper around xml.Decoder and holds the functions to be called when tokens are encountered.
// Functions that are left as nil are skipped by Process().
//
// Tokens are read raw: namespace prefixes are kept in Name.Space rather than being
// resolved to URLs, so a tree can be written back out with the same prefixes.
type XMLDecoder struct {
	Decoder      *xml.Decoder
	StartElement func(token xml.StartElement) error
	EndElement   func(token xml.EndElement) error
	CharData     func(token xml.CharData) error
	Comment      func(token xml.Comment) error
	ProcInst     func(token xml.ProcInst) error
	Directive    func(token xml.Directive) error
}

// NewXMLDecoder creates a new XMLDecoder that will read from the supplied io.Reader.
func NewXMLDecoder(r io.Reader) *XMLDecoder {
	d := xml.NewDecoder(r)
	d.Strict = true
	return &XMLDecoder{d, nil, nil, nil, nil, nil, nil}
}

// Process performs the tokenization of the reader data and calls the user supplied functions.
func (d *XMLDecoder) Process() error {
	depth := 0
	for {
		tok, err := d.Decoder.RawToken()
		if tok == nil {
			if err == io.EOF {
				break
			}
			return err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			depth++
			if d.StartElement != nil {
				err = d.StartElement(t.Copy())
			}
		case xml.EndElement:
			depth--
			if depth < 0 {
				return fmt.Errorf("unexpected end element </%s>", qname(t.Name))
			}
			if d.EndElement != nil {
				err = d.EndElement(t)
			}
		case xml.CharData:
			if d.CharData != nil {
				err = d.CharData(t.Copy())
			}
		case xml.Comment:
			if d.Comment != nil {
				err = d.Comment(t.Copy())
			}
		case xml.ProcInst:
			if d.ProcInst != nil {
				err = d.ProcInst(t.Copy())
			}
		case xml.Directive:
			if d.Directive != nil {
				err = d.Directive(t.Copy())
			}
		}
		if err != nil {
			return err
		}
	}
	if depth != 0 {
		return io.ErrUnexpectedEOF
	}
	return nil
}

// BuildDOM inserts its own functions into the decoder in order to build the Domain Object Model.
func (d *XMLDecoder) BuildDOM() (*Element, error) {
	var root, cur *Element

	// Save existing functions
	sef := d.StartElement
	eef := d.EndElement
	cdf := d.CharData

	d.StartElement = func(se xml.StartElement) error {
		if root == nil {
			root = &Element{Node, se.Name, se.Attr, nil, nil, nil}
			cur = root
		} else {
			if cur == nil {
				return fmt.Errorf("second root element <%s>", qname(se.Name))
			}
			tmp := &Element{Node, se.Name, se.Attr, nil, cur, nil}
			cur.Children = append(cur.Children, tmp)
			cur = tmp
		}
		return nil
	}
	d.EndElement = func(ee xml.EndElement) error {
		if cur == nil || cur.Name != ee.Name {
			return fmt.Errorf("element </%s> closes nothing open", qname(ee.Name))
		}
		cur = cur.Parent
		return nil
	}
	d.CharData = func(cd xml.CharData) error {
		if cur == nil {
			// Ignore CDATA outside of a Node
			return nil
		}
		tmp := &Element{Content, xml.Name{}, nil, cd, cur, nil}
		cur.Children = append(cur.Children, tmp)
		return nil
	}

	err := d.Process()

	// Restore previous functions
	d.StartElement = sef
	d.EndElement = eef
	d.CharData = cdf

	if err != nil {
		return nil, err
	}
	if root == nil {
		return nil, fmt.Errorf("no root element")
	}
	return root, nil
}

// Parse reads a whole document from r and returns its root element.
func Parse(r io.Reader) (*Element, error) {
	return NewXMLDecoder(bufio.NewReader(r)).BuildDOM()
}

// ParseFile reads the named file and returns its root element.
func ParseFile(fn string) (*Element, error) {
	f, err := os.Open(fn)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	dom, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", fn, err)
	}
	return dom, nil
}
