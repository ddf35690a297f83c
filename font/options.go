// Package font compiles a directory of single glyph SVGs into an icon font with CSS
// and JSON bindings.
package font

import (
	"fmt"
	"time"
)

// Output formats
const (
	TTF   = "ttf"
	WOFF  = "woff"
	WOFF2 = "woff2"
)

// Options controls font generation.
type Options struct {
	Name           string    // Family name, also the base name of every output file
	Formats        []string  // Any of ttf, woff and woff2
	StartCodepoint rune      // First codepoint handed out to new glyphs
	UnitsPerEm     int       // Em square size in font units
	Descent        int       // Font units below the baseline
	FixedWidth     bool      // Every glyph advances by one em and is centered
	CSSPrefix      string    // Class prefix, as in .icon-home
	MinifyCSS      bool      // Minify the generated stylesheet
	Timestamp      time.Time // Creation time recorded in the head table, zero for the Unix epoch
}

// DefaultOptions returns the settings used when nothing is configured.
func DefaultOptions() Options {
	return Options{
		Name:           "icons",
		Formats:        []string{TTF, WOFF, WOFF2},
		StartCodepoint: 0xF101,
		UnitsPerEm:     1000,
		CSSPrefix:      "icon",
	}
}

// Validate checks opts for values the font tables cannot represent.
func (o Options) Validate() error {
	if o.Name == "" {
		return fmt.Errorf("font name is empty")
	}
	if o.UnitsPerEm < 16 || o.UnitsPerEm > 16384 {
		return fmt.Errorf("units per em %d outside 16..16384", o.UnitsPerEm)
	}
	if o.Descent < 0 || o.Descent >= o.UnitsPerEm {
		return fmt.Errorf("descent %d outside 0..%d", o.Descent, o.UnitsPerEm-1)
	}
	if len(o.Formats) == 0 {
		return fmt.Errorf("no font formats selected")
	}
	for _, f := range o.Formats {
		switch f {
		case TTF, WOFF, WOFF2:
		default:
			return fmt.Errorf("unknown font format %q", f)
		}
	}
	return nil
}

func (o Options) has(format string) bool {
	for _, f := range o.Formats {
		if f == format {
			return true
		}
	}
	return false
}

// Ascent of the font in font units
func (o Options) ascent() int {
	return o.UnitsPerEm - o.Descent
}
