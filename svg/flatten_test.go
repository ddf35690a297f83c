package svg

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jphsd/iconsprite/xml"
)

func TestFlattenBakesShapes(t *testing.T) {
	doc := `<svg viewBox="0 0 24 24"><g transform="translate(10 0)"><g transform="scale(2)"><rect id="a" width="2" height="3" fill="red"/><circle cx="1" cy="1" r="1"/></g></g></svg>`
	dom := parseDoc(t, doc)
	before := bounds(t, dom)

	require.NoError(t, Flatten(dom))

	for _, g := range dom.FindAll("g") {
		_, ok := g.Attribute("transform")
		assert.False(t, ok)
	}
	paths := dom.FindAll("path")
	require.Len(t, paths, 2)
	assert.Empty(t, dom.FindAll("rect"))

	rect := paths[0]
	assert.Equal(t, "a", rect.Get("id"))
	assert.Equal(t, "red", rect.Get("fill"))
	_, ok := rect.Attribute("width")
	assert.False(t, ok)
	assert.True(t, strings.HasPrefix(rect.Get("d"), "M10 0L14 0L14 6L10 6"))

	after := bounds(t, dom)
	assert.Equal(t, before.String(), after.String())
	assert.Equal(t, "10 0 4 6", after.String())
}

func TestFlattenIdentity(t *testing.T) {
	dom := parseDoc(t, `<svg><g transform="translate(0 0)"><rect width="1" height="1" transform="scale(1)"/></g></svg>`)
	require.NoError(t, Flatten(dom))

	rects := dom.FindAll("rect")
	require.Len(t, rects, 1)
	_, ok := rects[0].Attribute("transform")
	assert.False(t, ok)
	assert.Equal(t, "1", rects[0].Get("width"))
}

func TestFlattenKeepsMatrix(t *testing.T) {
	dom := parseDoc(t, `<svg><g transform="translate(5 6)"><text>hi</text><defs><rect id="r" width="1" height="1"/></defs></g></svg>`)
	require.NoError(t, Flatten(dom))

	text := dom.FindAll("text")
	require.Len(t, text, 1)
	assert.Equal(t, "matrix(1 0 0 1 5 6)", text[0].Get("transform"))

	// Content under defs is left in its own coordinates
	rect := dom.FindAll("rect")
	require.Len(t, rect, 1)
	assert.Equal(t, "1", rect[0].Get("width"))
}

func TestFlattenErrors(t *testing.T) {
	dom := parseDoc(t, `<svg><g transform="bogus"><rect width="1" height="1"/></g></svg>`)
	assert.Error(t, Flatten(dom))
}

func TestFlattenFile(t *testing.T) {
	fn := filepath.Join(t.TempDir(), "icon.svg")
	doc := `<svg xmlns="http://www.w3.org/2000/svg"><g transform="translate(1 1)"><line x1="0" y1="0" x2="2" y2="0"/></g></svg>`
	require.NoError(t, os.WriteFile(fn, []byte(doc), 0o644))

	require.NoError(t, FlattenFile(fn))

	dom, err := xml.ParseFile(fn)
	require.NoError(t, err)
	paths := dom.FindAll("path")
	require.Len(t, paths, 1)
	assert.Equal(t, "M1 1L3 1", paths[0].Get("d"))
}

func TestFormatPathData(t *testing.T) {
	paths, err := PathsFromDescription("M0 0L1.23456 2Q3 4 5 6C7 8 9 10 11 12")
	require.NoError(t, err)
	assert.Equal(t, "M0 0L1.235 2Q3 4 5 6C7 8 9 10 11 12", FormatPathData(paths))
}
