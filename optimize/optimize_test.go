package optimize

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jphsd/iconsprite/svg"
	"github.com/jphsd/iconsprite/xml"
)

const icon = `<svg xmlns="http://www.w3.org/2000/svg" viewBox="2 3 10 20">
  <!-- comment -->
  <rect x="2.000" y="3.000" width="10.000" height="20.000" shape-rendering="crispEdges" style="shape-rendering: geometricPrecision; fill: #000000"/>
  <path d="M 2 3 L 12 3 L 12 23 Z" style="shape-rendering:auto"/>
</svg>`

func bounds(t *testing.T, data []byte) svg.Rect {
	t.Helper()
	dom, err := xml.Parse(bytes.NewReader(data))
	require.NoError(t, err)
	g := svg.NewGeometry(dom.IDs())
	require.NoError(t, g.Process(dom))
	r, ok := g.Bounds()
	require.True(t, ok)
	return r
}

func TestStrip(t *testing.T) {
	dom, err := xml.Parse(strings.NewReader(icon))
	require.NoError(t, err)

	New(DefaultOptions()).Strip(dom)

	rect := dom.FindAll("rect")[0]
	_, ok := rect.Attribute("shape-rendering")
	assert.False(t, ok)
	assert.Equal(t, "fill:#000000", rect.Get("style"))

	path := dom.FindAll("path")[0]
	_, ok = path.Attribute("style")
	assert.False(t, ok)
}

func TestOptimize(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, New(DefaultOptions()).Optimize(strings.NewReader(icon), &out))

	res := out.String()
	assert.NotContains(t, res, "shape-rendering")
	assert.NotContains(t, res, "comment")
	assert.Less(t, len(res), len(icon))

	dom, err := xml.Parse(strings.NewReader(res))
	require.NoError(t, err)
	vb, err := svg.ParseViewBox(dom.Get("viewBox"))
	require.NoError(t, err)
	assert.Equal(t, svg.Rect{X: 2, Y: 3, W: 10, H: 20}, vb)

	assert.Equal(t, bounds(t, []byte(icon)).String(), bounds(t, out.Bytes()).String())
}

func TestOptimizeFarFromOrigin(t *testing.T) {
	far := `<svg xmlns="http://www.w3.org/2000/svg" viewBox="12000.25 3000.5 16 16">
  <path d="M12008.25 3008.5h4.125v4.125h-4.125z"/>
</svg>`
	var out bytes.Buffer
	require.NoError(t, New(DefaultOptions()).Optimize(strings.NewReader(far), &out))

	dom, err := xml.Parse(bytes.NewReader(out.Bytes()))
	require.NoError(t, err)
	vb, err := svg.ParseViewBox(dom.Get("viewBox"))
	require.NoError(t, err)
	assert.Equal(t, svg.Rect{X: 12000.25, Y: 3000.5, W: 16, H: 16}, vb)

	// The shape stays 8 units into the viewBox
	r := bounds(t, out.Bytes())
	assert.InDelta(t, 8, r.X-vb.X, 1e-3)
	assert.InDelta(t, 8, r.Y-vb.Y, 1e-3)
	assert.InDelta(t, 4.125, r.W, 1e-3)
}

func TestPrecision(t *testing.T) {
	for _, tc := range []struct {
		viewBox string
		opts    int
		want    int
	}{
		{"0 0 24 24", 5, 5},
		{"2 3 10 20", 5, 5},
		{"12000.25 3000.5 16 16", 5, 8},
		{"-150000 0 10 10", 5, 9},
		{"12000 0 16 16", 0, 0},
		{"", 5, 5},
	} {
		t.Run(tc.viewBox, func(t *testing.T) {
			dom := xml.NewNode("svg")
			if tc.viewBox != "" {
				dom.Set("viewBox", tc.viewBox)
			}
			o := New(Options{Precision: tc.opts})
			assert.Equal(t, tc.want, o.precision(dom))
		})
	}
}

func TestOptimizeErrors(t *testing.T) {
	o := New(DefaultOptions())
	var out bytes.Buffer
	assert.Error(t, o.Optimize(strings.NewReader(`<svg><rect></svg>`), &out))
	assert.Error(t, o.Optimize(strings.NewReader(`<svg xmlns="http://www.w3.org/2000/svg"><rect width="1" height="1"/></svg>`), &out))
}

func TestCheck(t *testing.T) {
	assert.NoError(t, Check([]byte(icon)))
	assert.Error(t, Check([]byte(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 0 0"/>`)))
}

func TestDir(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b.svg", "a.svg"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(icon), 0o644))
	}
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("skip me"), 0o644))

	var seen []string
	files, err := New(DefaultOptions()).Dir(context.Background(), dir, func(fn string) {
		seen = append(seen, filepath.Base(fn))
	})
	require.NoError(t, err)
	assert.Len(t, files, 2)
	assert.Equal(t, []string{"a.svg", "b.svg"}, seen)

	data, err := os.ReadFile(filepath.Join(dir, "a.svg"))
	require.NoError(t, err)
	assert.NotContains(t, string(data), "shape-rendering")

	txt, err := os.ReadFile(filepath.Join(dir, "notes.txt"))
	require.NoError(t, err)
	assert.Equal(t, "skip me", string(txt))
}

func TestDirCancelled(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.svg"), []byte(icon), 0o644))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := New(DefaultOptions()).Dir(ctx, dir, nil)
	assert.ErrorIs(t, err, context.Canceled)
}
