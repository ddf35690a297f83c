package xml

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sample = `<?xml version="1.0"?>
<svg xmlns="http://www.w3.org/2000/svg" xmlns:xlink="http://www.w3.org/1999/xlink" viewBox="0 0 10 10">
<defs><path id="dot" d="M0 0h1v1z"/></defs>
<g id="a"><title>home</title><use xlink:href="#dot" x="2"/></g>
<!-- comment -->
<text>a &amp; b</text>
</svg>`

func TestBuildDOM(t *testing.T) {
	dom, err := Parse(strings.NewReader(sample))
	require.NoError(t, err)

	assert.Equal(t, "svg", dom.Name.Local)
	assert.Nil(t, dom.Parent)
	assert.Equal(t, "0 0 10 10", dom.Get("viewBox"))

	uses := dom.FindAll("use")
	require.Len(t, uses, 1)
	assert.Equal(t, "#dot", uses[0].Href())
	assert.Equal(t, "xlink", uses[0].Attr[0].Name.Space)

	titles := dom.FindAll("title")
	require.Len(t, titles, 1)
	assert.Equal(t, "home", titles[0].Text())
	assert.True(t, titles[0].Parent.Is("g"))

	text := dom.FindAll("text")
	require.Len(t, text, 1)
	assert.Equal(t, "a & b", text[0].Text())
}

func TestBuildDOMErrors(t *testing.T) {
	for name, doc := range map[string]string{
		"empty":      "",
		"unclosed":   "<svg><g></svg>",
		"unbalanced": "<svg></g></svg>",
		"two roots":  "<a/><b/>",
	} {
		t.Run(name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(doc))
			assert.Error(t, err)
		})
	}
}

func TestEncodeRoundTrip(t *testing.T) {
	dom, err := Parse(strings.NewReader(sample))
	require.NoError(t, err)

	out := string(dom.Bytes())
	assert.Contains(t, out, `<svg xmlns="http://www.w3.org/2000/svg" xmlns:xlink="http://www.w3.org/1999/xlink" viewBox="0 0 10 10">`)
	assert.Contains(t, out, `<use xlink:href="#dot" x="2"/>`)
	assert.Contains(t, out, `<text>a &amp; b</text>`)
	assert.NotContains(t, out, "comment")

	again, err := Parse(strings.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, out, string(again.Bytes()))
}

func TestAttributes(t *testing.T) {
	elt := NewNode("rect")
	elt.Set("width", "1")
	elt.Set("height", "2")
	elt.Set("width", "3")
	elt.Set("xlink:href", `a"b`)

	assert.Equal(t, "3", elt.Get("width"))
	assert.Equal(t, `a"b`, elt.Href())
	assert.Equal(t, `<rect width="3" height="2" xlink:href="a&quot;b"/>`, string(elt.Bytes()))

	assert.True(t, elt.Remove("height"))
	assert.False(t, elt.Remove("height"))
	_, ok := elt.Attribute("height")
	assert.False(t, ok)
}

func TestCopyIsDeep(t *testing.T) {
	dom, err := Parse(strings.NewReader(sample))
	require.NoError(t, err)

	g := dom.IDs()["a"]
	require.NotNil(t, g)
	c := g.Copy()
	c.Set("id", "b")
	c.Nodes()[1].Set("x", "9")

	assert.Equal(t, "a", g.Get("id"))
	assert.Equal(t, "2", g.Nodes()[1].Get("x"))
	assert.Same(t, c, c.Nodes()[0].Parent)
}

func TestAppendChild(t *testing.T) {
	g := NewNode("g")
	a, b := NewNode("a"), NewNode("xlink:b")
	g.AppendChild(a)
	g.AppendChild(b)

	assert.Same(t, g, b.Parent)
	assert.Equal(t, []*Element{a, b}, g.Nodes())
	assert.Equal(t, "xlink:b", b.QName())
}

func TestWriteFile(t *testing.T) {
	fn := filepath.Join(t.TempDir(), "out.svg")
	elt := NewNode("svg")
	elt.AppendChild(NewNode("g"))
	require.NoError(t, elt.WriteFile(fn))

	back, err := ParseFile(fn)
	require.NoError(t, err)
	assert.Equal(t, "<svg><g/></svg>", string(back.Bytes()))

	_, err = ParseFile(filepath.Join(t.TempDir(), "missing.svg"))
	assert.Error(t, err)
}
