package font

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
	"seehuhn.de/go/postscript/funit"
	"seehuhn.de/go/sfnt"
	"seehuhn.de/go/sfnt/cmap"
	"seehuhn.de/go/sfnt/glyf"
	sfntglyph "seehuhn.de/go/sfnt/glyph"
	"seehuhn.de/go/sfnt/header"
	"seehuhn.de/go/sfnt/maxp"
	"seehuhn.de/go/sfnt/os2"
)

// newFont describes a TrueType font holding glyphs, which must be sorted by name.
// Glyph 0 is an empty .notdef.
func newFont(glyphs []*Glyph, opts Options) (*sfnt.Font, error) {
	n := len(glyphs) + 1
	if n > math.MaxUint16 {
		return nil, fmt.Errorf("%d glyphs do not fit in a font", len(glyphs))
	}

	outlines := &glyf.Outlines{
		Glyphs: make(glyf.Glyphs, n),
		Widths: make([]funit.Int16, n),
		Names:  make([]string, n),
		Maxp:   &maxp.TTFInfo{MaxZones: 1},
	}
	outlines.Names[0] = ".notdef"
	outlines.Widths[0] = funit.Int16(opts.UnitsPerEm / 2)

	cmap4 := cmap.Format4{}
	for i, g := range glyphs {
		gid := i + 1
		outlines.Glyphs[gid] = g.outline()
		outlines.Widths[gid] = funit.Int16(min(int(g.Advance), math.MaxInt16))
		outlines.Names[gid] = GlyphName(g.Name)
		cmap4[uint16(g.Codepoint)] = sfntglyph.ID(gid)

		points := 0
		for _, c := range g.Contours {
			points += len(c)
		}
		outlines.Maxp.MaxPoints = max(outlines.Maxp.MaxPoints, uint16(points))
		outlines.Maxp.MaxContours = max(outlines.Maxp.MaxContours, uint16(len(g.Contours)))
	}

	ts := opts.Timestamp
	if ts.IsZero() {
		ts = time.Unix(0, 0)
	}
	f := &sfnt.Font{
		FamilyName:       opts.Name,
		Width:            os2.WidthNormal,
		Weight:           os2.WeightNormal,
		IsRegular:        true,
		UnitsPerEm:       uint16(opts.UnitsPerEm),
		Ascent:           funit.Int16(opts.ascent()),
		Descent:          -funit.Int16(opts.Descent),
		CreationTime:     ts.UTC(),
		ModificationTime: ts.UTC(),
		CMapTable: cmap.Table{
			{PlatformID: 0, EncodingID: 3}: cmap4.Encode(0),
			{PlatformID: 3, EncodingID: 1}: cmap4.Encode(0),
		},
		Outlines: outlines,
	}
	return f, nil
}

// outline converts g to a simple glyph. Empty glyphs have no glyf entry.
func (g *Glyph) outline() *glyf.Glyph {
	if g.Empty() {
		return nil
	}
	contours := make([]glyf.Contour, len(g.Contours))
	for i, c := range g.Contours {
		pts := make(glyf.Contour, len(c))
		for j, p := range c {
			pts[j] = glyf.Point{X: funit.Int16(p.X), Y: funit.Int16(p.Y), OnCurve: p.On}
		}
		contours[i] = pts
	}
	simple := glyf.SimpleUnpacked{Contours: contours}
	return &glyf.Glyph{
		Rect16: funit.Rect16{
			LLx: funit.Int16(g.XMin),
			LLy: funit.Int16(g.YMin),
			URx: funit.Int16(g.XMax),
			URy: funit.Int16(g.YMax),
		},
		Data: simple.Pack(),
	}
}

// readSFNT splits a TrueType file into its tables.
func readSFNT(data []byte) (map[string][]byte, error) {
	info, err := header.Read(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	if info.ScalerType != header.ScalerTypeTrueType {
		return nil, fmt.Errorf("not a TrueType font")
	}
	res := make(map[string][]byte, len(info.Toc))
	for tag, rec := range info.Toc {
		b, err := slice(data, rec.Offset, rec.Length)
		if err != nil {
			return nil, err
		}
		res[tag] = b
	}
	return res, nil
}

// Strips accents so that café is named cafe
var asciiFold = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// GlyphName returns the post table name recorded for an icon: printable ASCII
// letters, digits, '.', '-' and '_', at most 63 characters.
func GlyphName(name string) string {
	if folded, _, err := transform.String(asciiFold, name); err == nil {
		name = folded
	}
	n := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '.', r == '-', r == '_':
			return r
		}
		return '_'
	}, name)
	if len(n) > 63 {
		n = n[:63]
	}
	if n == "" || n == ".notdef" {
		n = "_" + n
	}
	return n
}

// pack encodes v big endian.
func pack(v any) []byte {
	var buf bytes.Buffer
	_ = binary.Write(&buf, binary.BigEndian, v)
	return buf.Bytes()
}

// checksum is the table checksum: the sum of big endian uint32 words, zero padded.
func checksum(b []byte) uint32 {
	var sum uint32
	for len(b) >= 4 {
		sum += binary.BigEndian.Uint32(b)
		b = b[4:]
	}
	if len(b) > 0 {
		var tail [4]byte
		copy(tail[:], b)
		sum += binary.BigEndian.Uint32(tail[:])
	}
	return sum
}

func pad4(n int) int {
	return (n + 3) &^ 3
}

// sortedTags returns the table tags in the byte order table directories require.
func sortedTags(tables map[string][]byte) []string {
	tags := make([]string, 0, len(tables))
	for t := range tables {
		tags = append(tags, t)
	}
	sort.Strings(tags)
	return tags
}

// tableChecksum is the checksum recorded for a table. The head table is summed with
// its checkSumAdjustment zeroed.
func tableChecksum(tag string, data []byte) uint32 {
	if tag == "head" && len(data) >= 12 {
		c := append([]byte(nil), data...)
		binary.BigEndian.PutUint32(c[8:], 0)
		return checksum(c)
	}
	return checksum(data)
}

// sfntSize is the length of a TrueType file holding tables.
func sfntSize(tables map[string][]byte) int {
	n := 12 + 16*len(tables)
	for _, data := range tables {
		n += pad4(len(data))
	}
	return n
}
