package font

import (
	"context"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/font/sfnt"
	"seehuhn.de/go/postscript/funit"

	"github.com/jphsd/iconsprite/xml"
)

func glyph(t *testing.T, name, doc string, opts Options) *Glyph {
	t.Helper()
	dom, err := xml.Parse(strings.NewReader(doc))
	require.NoError(t, err)
	g, err := GlyphFromSVG(name, dom, opts)
	require.NoError(t, err)
	return g
}

const square = `<svg viewBox="0 0 24 24"><rect width="24" height="24"/></svg>`

func TestGlyphFromSVG(t *testing.T) {
	g := glyph(t, "square", square, DefaultOptions())
	assert.Equal(t, uint16(1000), g.Advance)
	require.Len(t, g.Contours, 1)
	assert.Equal(t, []Point{{0, 1000, true}, {1000, 1000, true}, {1000, 0, true}, {0, 0, true}}, g.Contours[0])
	assert.Equal(t, [4]int16{0, 0, 1000, 1000}, [4]int16{g.XMin, g.YMin, g.XMax, g.YMax})
}

func TestGlyphMetrics(t *testing.T) {
	opts := DefaultOptions()
	opts.FixedWidth = true
	g := glyph(t, "narrow", `<svg viewBox="0 0 12 24"><rect width="12" height="24"/></svg>`, opts)
	assert.Equal(t, uint16(1000), g.Advance)
	assert.Equal(t, int16(250), g.XMin)
	assert.Equal(t, int16(750), g.XMax)

	opts = DefaultOptions()
	opts.Descent = 200
	g = glyph(t, "low", `<svg width="10" height="10"><rect x="5" y="5" width="5" height="5"/></svg>`, opts)
	assert.Equal(t, uint16(1000), g.Advance)
	assert.Equal(t, [4]int16{500, -200, 1000, 300}, [4]int16{g.XMin, g.YMin, g.XMax, g.YMax})

	dom, err := xml.Parse(strings.NewReader(`<svg><rect width="1" height="1"/></svg>`))
	require.NoError(t, err)
	_, err = GlyphFromSVG("nosize", dom, DefaultOptions())
	assert.Error(t, err)
}

func TestCubicsBecomeQuadratics(t *testing.T) {
	g := glyph(t, "dot", `<svg viewBox="0 0 24 24"><circle cx="12" cy="12" r="12"/></svg>`, DefaultOptions())
	require.Len(t, g.Contours, 1)

	off := 0
	for _, p := range g.Contours[0] {
		if !p.On {
			off++
			continue
		}
		r := math.Hypot(float64(p.X)-500, float64(p.Y)-500)
		assert.InDelta(t, 500, r, 1.5)
	}
	assert.Greater(t, off, 3)
	assert.InDelta(t, 0, g.XMin, 2)
	assert.InDelta(t, 1000, g.YMax, 2)
}

func TestOutline(t *testing.T) {
	g := glyph(t, "square", square, DefaultOptions())
	out := g.outline()
	require.NotNil(t, out)
	assert.Equal(t, funit.Rect16{LLx: 0, LLy: 0, URx: 1000, URy: 1000}, out.Rect16)

	blank := glyph(t, "blank", `<svg viewBox="0 0 24 24"/>`, DefaultOptions())
	assert.Nil(t, blank.outline())
}

func TestAssign(t *testing.T) {
	cps, err := Assign([]string{"star", "home"}, nil, 0xF101)
	require.NoError(t, err)
	assert.Equal(t, Codepoints{"home": 0xF101, "star": 0xF102}, cps)

	cps, err = Assign([]string{"star", "home", "alpha"}, cps, 0xF101)
	require.NoError(t, err)
	assert.Equal(t, Codepoints{"home": 0xF101, "star": 0xF102, "alpha": 0xF103}, cps)

	// A removed icon frees its codepoint, a clash keeps the first name in order
	prev := Codepoints{"alpha": 0xF101, "beta": 0xF101, "gone": 0xF102}
	cps, err = Assign([]string{"alpha", "beta"}, prev, 0xF101)
	require.NoError(t, err)
	assert.Equal(t, Codepoints{"alpha": 0xF101, "beta": 0xF102}, cps)

	_, err = Assign([]string{"a"}, nil, 0x1F600)
	assert.Error(t, err)
	_, err = Assign([]string{"a", "b"}, nil, 0xFFFE)
	assert.Error(t, err)
}

func TestCodepointsFile(t *testing.T) {
	fn := filepath.Join(t.TempDir(), "icons.json")
	cps, err := LoadCodepoints(fn)
	require.NoError(t, err)
	assert.Empty(t, cps)

	require.NoError(t, Codepoints{"home": 0xF101}.Write(fn))
	data, err := os.ReadFile(fn)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"home": 61697`)

	cps, err = LoadCodepoints(fn)
	require.NoError(t, err)
	assert.Equal(t, Codepoints{"home": 0xF101}, cps)
}

func buildFont(t *testing.T) ([]byte, map[string][]byte, []*Glyph) {
	t.Helper()
	opts := DefaultOptions()
	glyphs := []*Glyph{
		glyph(t, "square", square, opts),
		glyph(t, "dot", `<svg viewBox="0 0 24 24"><circle cx="12" cy="12" r="10"/></svg>`, opts),
		glyph(t, "blank", `<svg viewBox="0 0 20 10"/>`, opts),
	}
	glyphs[0].Codepoint = 0xF101
	glyphs[1].Codepoint = 0xF103
	glyphs[2].Codepoint = 0xF102
	sortGlyphs(glyphs)

	ttf, tables, err := Build(glyphs, opts)
	require.NoError(t, err)
	return ttf, tables, glyphs
}

func TestBuildAndVerify(t *testing.T) {
	ttf, tables, glyphs := buildFont(t)
	require.NoError(t, Verify(ttf, glyphs))
	assert.Equal(t, uint32(0xB1B0AFBA), checksum(ttf))
	for _, tag := range []string{"cmap", "glyf", "head", "hhea", "hmtx", "loca", "maxp", "name", "post"} {
		assert.Contains(t, tables, tag)
	}

	f, err := sfnt.Parse(ttf)
	require.NoError(t, err)
	assert.Equal(t, sfnt.Units(1000), f.UnitsPerEm())

	var buf sfnt.Buffer
	family, err := f.Name(&buf, sfnt.NameIDFamily)
	require.NoError(t, err)
	assert.Equal(t, "icons", family)

	gi, err := f.GlyphIndex(&buf, 0xF103)
	require.NoError(t, err)
	name, err := f.GlyphName(&buf, gi)
	require.NoError(t, err)
	assert.Equal(t, "dot", name)

	// blank is 20 units wide at 10 units high
	gi, err = f.GlyphIndex(&buf, 0xF102)
	require.NoError(t, err)
	adv, err := f.GlyphAdvance(&buf, gi, 1000, 0)
	require.NoError(t, err)
	assert.EqualValues(t, 2000, adv)

	gi, err = f.GlyphIndex(&buf, 'A')
	require.NoError(t, err)
	assert.Zero(t, gi)

	// Glyphs out of order no longer match their indices
	assert.Error(t, Verify(ttf, []*Glyph{glyphs[2], glyphs[1], glyphs[0]}))
}

func TestPackedFormats(t *testing.T) {
	ttf, tables, _ := buildFont(t)

	got, err := ReadTables(ttf)
	require.NoError(t, err)
	assert.Equal(t, tables, got)

	for name, pack := range map[string]func(map[string][]byte) ([]byte, error){
		"woff":  writeWOFF,
		"woff2": writeWOFF2,
	} {
		t.Run(name, func(t *testing.T) {
			data, err := pack(tables)
			require.NoError(t, err)
			assert.Zero(t, len(data)%4)

			got, err := ReadTables(data)
			require.NoError(t, err)
			assert.Equal(t, tables, got)
		})
	}

	_, err = ReadTables([]byte("not a font at all"))
	assert.Error(t, err)
}

func TestBase128(t *testing.T) {
	for _, v := range []uint32{0, 1, 127, 128, 16383, 16384, 1 << 28, math.MaxUint32} {
		b := base128(v)
		got, n, err := readBase128(b)
		require.NoError(t, err)
		assert.Equal(t, v, got)
		assert.Equal(t, len(b), n)
	}
	assert.Equal(t, []byte{0x81, 0x00}, base128(128))

	_, _, err := readBase128([]byte{0x80, 0x01})
	assert.Error(t, err)
}

func TestGlyphName(t *testing.T) {
	assert.Equal(t, "arrow-left", GlyphName("arrow-left"))
	assert.Equal(t, "cafe_b", GlyphName("café b"))
	assert.Equal(t, "_", GlyphName("★"))
	assert.Equal(t, "_", GlyphName(""))
	assert.Len(t, GlyphName(strings.Repeat("x", 80)), 63)
}

func TestCSS(t *testing.T) {
	opts := DefaultOptions()
	glyphs := []*Glyph{{Name: "home", Codepoint: 0xF101}, {Name: "a.b", Codepoint: 0xF102}}
	css, err := CSS(glyphs, map[string][]string{"home": {"start", "house"}}, "abc", opts)
	require.NoError(t, err)

	s := string(css)
	assert.Contains(t, s, `font-family: "icons";`)
	assert.Contains(t, s, `url("./icons.woff2?abc") format("woff2"),`)
	assert.Contains(t, s, `url("./icons.ttf?abc") format("truetype");`)
	assert.Contains(t, s, ".icon-home:before {\n  content: \"\\f101\";")
	assert.Contains(t, s, ".icon-house:before")
	assert.Contains(t, s, `.icon-a\.b:before`)
	assert.Less(t, strings.Index(s, "icon-house"), strings.Index(s, "icon-start"))

	opts.Formats = []string{WOFF2}
	opts.MinifyCSS = true
	css, err = CSS(glyphs, nil, "abc", opts)
	require.NoError(t, err)
	assert.NotContains(t, string(css), "truetype")
	assert.NotContains(t, string(css), "\n  ")
	assert.Contains(t, string(css), "@font-face{")
}

func TestGenerate(t *testing.T) {
	dir := t.TempDir()
	in, out := filepath.Join(dir, "svg"), filepath.Join(dir, "fonts")
	require.NoError(t, os.MkdirAll(in, 0o755))
	write := func(name, doc string) {
		require.NoError(t, os.WriteFile(filepath.Join(in, name+".svg"), []byte(doc), 0o644))
	}
	write("home", square)
	write("star", `<svg viewBox="0 0 24 24"><path d="M12 2l3 7h7l-6 4 2 7-6-4-6 4 2-7-6-4h7z"/></svg>`)

	ctx := context.Background()
	res, err := Generate(ctx, in, out, map[string][]string{"home": {"house"}}, DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, Codepoints{"home": 0xF101, "star": 0xF102}, res.Codepoints)
	assert.Len(t, res.Files, 5)
	for _, ext := range []string{"ttf", "woff", "woff2", "css", "json"} {
		assert.FileExists(t, filepath.Join(out, "icons."+ext))
	}

	css, err := os.ReadFile(filepath.Join(out, "icons.css"))
	require.NoError(t, err)
	assert.Contains(t, string(css), ".icon-house:before")

	// A new icon sorting first leaves existing codepoints alone
	write("alarm", square)
	res, err = Generate(ctx, in, out, nil, DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, Codepoints{"home": 0xF101, "star": 0xF102, "alarm": 0xF103}, res.Codepoints)

	ttf, err := os.ReadFile(filepath.Join(out, "icons.ttf"))
	require.NoError(t, err)
	require.NoError(t, Verify(ttf, res.Glyphs))
}

func TestGenerateErrors(t *testing.T) {
	ctx := context.Background()
	_, err := Generate(ctx, t.TempDir(), t.TempDir(), nil, DefaultOptions())
	assert.Error(t, err)

	opts := DefaultOptions()
	opts.Formats = []string{"otf"}
	_, err = Generate(ctx, t.TempDir(), t.TempDir(), nil, opts)
	assert.Error(t, err)
}
