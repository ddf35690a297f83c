package font

import (
	"bytes"
	"fmt"
	"sort"
	"strings"
	"text/template"

	"github.com/cespare/xxhash/v2"
	"github.com/tdewolff/minify/v2"
	"github.com/tdewolff/minify/v2/css"
)

var cssTemplate = template.Must(template.New("css").Parse(`@font-face {
  font-family: "{{.Name}}";
  src: {{range $i, $s := .Sources}}{{if $i}},
       {{end}}url("./{{$s.File}}?{{$.Hash}}") format("{{$s.Format}}"){{end}};
}

[class^="{{.Prefix}}-"]:before,
[class*=" {{.Prefix}}-"]:before {
  font-family: "{{.Name}}" !important;
  font-style: normal;
  font-weight: normal !important;
  font-variant: normal;
  text-transform: none;
  line-height: 1;
  -webkit-font-smoothing: antialiased;
  -moz-osx-font-smoothing: grayscale;
}
{{range .Rules}}
.{{$.Prefix}}-{{.Class}}:before {
  content: "\{{.Hex}}";
}
{{end}}`))

type cssSource struct {
	File   string
	Format string
}

type cssRule struct {
	Class string
	Hex   string
}

// CSS returns the stylesheet binding a class per glyph and per alias to the font.
// Hash busts caches when the font changes.
func CSS(glyphs []*Glyph, aliases map[string][]string, hash string, opts Options) ([]byte, error) {
	data := struct {
		Name    string
		Prefix  string
		Hash    string
		Sources []cssSource
		Rules   []cssRule
	}{Name: opts.Name, Prefix: cssIdent(opts.CSSPrefix), Hash: hash}

	for _, f := range []struct{ ext, format string }{
		{WOFF2, "woff2"}, {WOFF, "woff"}, {TTF, "truetype"},
	} {
		if opts.has(f.ext) {
			data.Sources = append(data.Sources, cssSource{opts.Name + "." + f.ext, f.format})
		}
	}

	for _, g := range glyphs {
		hex := fmt.Sprintf("%x", g.Codepoint)
		data.Rules = append(data.Rules, cssRule{cssIdent(g.Name), hex})
		names := append([]string(nil), aliases[g.Name]...)
		sort.Strings(names)
		for _, a := range names {
			data.Rules = append(data.Rules, cssRule{cssIdent(a), hex})
		}
	}

	var buf bytes.Buffer
	if err := cssTemplate.Execute(&buf, data); err != nil {
		return nil, err
	}
	if !opts.MinifyCSS {
		return buf.Bytes(), nil
	}

	m := minify.New()
	var out bytes.Buffer
	if err := css.Minify(m, &out, &buf, nil); err != nil {
		return nil, fmt.Errorf("minifying css: %w", err)
	}
	return out.Bytes(), nil
}

// Hash returns a short content hash of data for cache busting.
func Hash(data []byte) string {
	return fmt.Sprintf("%016x", xxhash.Sum64(data))
}

// cssIdent escapes name for use after the class prefix in a selector.
func cssIdent(name string) string {
	var sb strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9',
			r == '_', r == '-', r >= 0x80:
			sb.WriteRune(r)
		default:
			sb.WriteByte('\\')
			sb.WriteRune(r)
		}
	}
	return sb.String()
}
