package font

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	xfont "golang.org/x/image/font"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"
)

// Result describes a generated font.
type Result struct {
	Glyphs     []*Glyph
	Codepoints Codepoints
	Files      []string // Every file written, fonts first
}

// Generate compiles every .svg in dir into the font formats selected by opts and
// writes them to outDir with a stylesheet and a codepoints JSON file. Codepoints
// recorded by a previous run in outDir are kept.
func Generate(ctx context.Context, dir, outDir string, aliases map[string][]string, opts Options) (*Result, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	files, err := filepath.Glob(filepath.Join(dir, "*.svg"))
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no svg files in %s", dir)
	}
	sort.Strings(files)

	names := make([]string, len(files))
	for i, fn := range files {
		names[i] = strings.TrimSuffix(filepath.Base(fn), filepath.Ext(fn))
	}
	cpFile := filepath.Join(outDir, opts.Name+".json")
	prev, err := LoadCodepoints(cpFile)
	if err != nil {
		return nil, err
	}
	cps, err := Assign(names, prev, opts.StartCodepoint)
	if err != nil {
		return nil, err
	}

	res := &Result{Codepoints: cps}
	for _, fn := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		g, err := LoadGlyph(fn, opts)
		if err != nil {
			return nil, err
		}
		g.Codepoint = cps[g.Name]
		res.Glyphs = append(res.Glyphs, g)
	}
	sortGlyphs(res.Glyphs)

	ttf, tables, err := Build(res.Glyphs, opts)
	if err != nil {
		return nil, err
	}
	if err := Verify(ttf, res.Glyphs); err != nil {
		return nil, fmt.Errorf("verifying font: %w", err)
	}

	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return nil, err
	}
	write := func(ext string, data []byte) error {
		fn := filepath.Join(outDir, opts.Name+"."+ext)
		if err := os.WriteFile(fn, data, 0o644); err != nil {
			return err
		}
		res.Files = append(res.Files, fn)
		return nil
	}

	if opts.has(TTF) {
		if err := write(TTF, ttf); err != nil {
			return nil, err
		}
	}
	for _, f := range []struct {
		ext  string
		pack func(map[string][]byte) ([]byte, error)
	}{{WOFF, writeWOFF}, {WOFF2, writeWOFF2}} {
		if !opts.has(f.ext) {
			continue
		}
		data, err := f.pack(tables)
		if err != nil {
			return nil, fmt.Errorf("packing %s: %w", f.ext, err)
		}
		if err := compareTables(data, tables); err != nil {
			return nil, fmt.Errorf("verifying %s: %w", f.ext, err)
		}
		if err := write(f.ext, data); err != nil {
			return nil, err
		}
	}

	css, err := CSS(res.Glyphs, aliases, Hash(ttf), opts)
	if err != nil {
		return nil, err
	}
	if err := write("css", css); err != nil {
		return nil, err
	}
	if err := cps.Write(cpFile); err != nil {
		return nil, err
	}
	res.Files = append(res.Files, cpFile)
	return res, nil
}

// Build compiles glyphs into a TrueType font. It returns the file and its tables.
func Build(glyphs []*Glyph, opts Options) ([]byte, map[string][]byte, error) {
	sorted := append([]*Glyph(nil), glyphs...)
	sortGlyphs(sorted)
	f, err := newFont(sorted, opts)
	if err != nil {
		return nil, nil, err
	}
	var buf bytes.Buffer
	if _, err := f.Write(&buf); err != nil {
		return nil, nil, fmt.Errorf("writing font: %w", err)
	}
	ttf := buf.Bytes()
	tables, err := readSFNT(ttf)
	if err != nil {
		return nil, nil, fmt.Errorf("reading back font: %w", err)
	}
	return ttf, tables, nil
}

func sortGlyphs(glyphs []*Glyph) {
	sort.SliceStable(glyphs, func(i, j int) bool { return glyphs[i].Name < glyphs[j].Name })
}

// Verify parses ttf and checks that every glyph is reachable from its codepoint with
// the expected advance and name. Glyphs must be sorted by name, the order Build
// assigns glyph indices in.
func Verify(ttf []byte, glyphs []*Glyph) error {
	f, err := sfnt.Parse(ttf)
	if err != nil {
		return err
	}
	if n := f.NumGlyphs(); n != len(glyphs)+1 {
		return fmt.Errorf("font has %d glyphs, want %d", n, len(glyphs)+1)
	}

	// A ppem of unitsPerEm/64 pixels scales font units to themselves
	ppem := fixed.Int26_6(f.UnitsPerEm())
	var buf sfnt.Buffer
	for i, g := range glyphs {
		gi, err := f.GlyphIndex(&buf, g.Codepoint)
		if err != nil {
			return fmt.Errorf("glyph %q: %w", g.Name, err)
		}
		if want := sfnt.GlyphIndex(i + 1); gi != want {
			return fmt.Errorf("glyph %q: U+%04X maps to glyph %d, want %d", g.Name, g.Codepoint, gi, want)
		}
		adv, err := f.GlyphAdvance(&buf, gi, ppem, xfont.HintingNone)
		if err != nil {
			return fmt.Errorf("glyph %q: %w", g.Name, err)
		}
		if adv != fixed.Int26_6(g.Advance) {
			return fmt.Errorf("glyph %q: advance %d, want %d", g.Name, adv, g.Advance)
		}
		if _, err := f.LoadGlyph(&buf, gi, ppem, nil); err != nil {
			return fmt.Errorf("glyph %q: %w", g.Name, err)
		}
		name, err := f.GlyphName(&buf, gi)
		if err != nil {
			return fmt.Errorf("glyph %q: %w", g.Name, err)
		}
		if want := GlyphName(g.Name); name != want {
			return fmt.Errorf("glyph %q: named %q, want %q", g.Name, name, want)
		}
	}
	return nil
}

// compareTables checks that packed unpacks to exactly tables.
func compareTables(packed []byte, tables map[string][]byte) error {
	got, err := ReadTables(packed)
	if err != nil {
		return err
	}
	if len(got) != len(tables) {
		return fmt.Errorf("%d tables, want %d", len(got), len(tables))
	}
	for tag, want := range tables {
		if !bytes.Equal(got[tag], want) {
			return fmt.Errorf("table %q differs", tag)
		}
	}
	return nil
}
