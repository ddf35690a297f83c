package xml

import (
	"bufio"
	"bytes"
	"io"
	"os"
	"strings"
)

var (
	textEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")
	attrEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;", `"`, "&quot;",
		"\n", "&#xA;", "\r", "&#xD;", "\t", "&#x9;")
)

// Encode writes elt and its children as XML. Nodes without children are self-closed.
func (elt *Element) Encode(w io.Writer) error {
	bw := bufio.NewWriter(w)
	encode(bw, elt)
	return bw.Flush()
}

// Bytes returns the XML encoding of elt.
func (elt *Element) Bytes() []byte {
	var buf bytes.Buffer
	_ = elt.Encode(&buf)
	return buf.Bytes()
}

// WriteFile encodes elt into the named file, replacing any existing content.
func (elt *Element) WriteFile(fn string) error {
	f, err := os.Create(fn)
	if err != nil {
		return err
	}
	if err = elt.Encode(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func encode(w *bufio.Writer, elt *Element) {
	if elt.Type == Content {
		textEscaper.WriteString(w, string(elt.Content))
		return
	}

	name := qname(elt.Name)
	w.WriteByte('<')
	w.WriteString(name)
	for _, a := range elt.Attr {
		w.WriteByte(' ')
		w.WriteString(qname(a.Name))
		w.WriteString(`="`)
		attrEscaper.WriteString(w, a.Value)
		w.WriteByte('"')
	}
	if len(elt.Children) == 0 {
		w.WriteString("/>")
		return
	}
	w.WriteByte('>')
	for _, c := range elt.Children {
		encode(w, c)
	}
	w.WriteString("</")
	w.WriteString(name)
	w.WriteByte('>')
}
