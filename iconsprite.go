// Package iconsprite turns an SVG sprite sheet into individual icon files and an
// icon font.
package iconsprite

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jphsd/iconsprite/extract"
	"github.com/jphsd/iconsprite/font"
	"github.com/jphsd/iconsprite/internal/config"
	"github.com/jphsd/iconsprite/internal/output"
	"github.com/jphsd/iconsprite/optimize"
	"github.com/jphsd/iconsprite/preview"
	"github.com/jphsd/iconsprite/svg"
	"github.com/jphsd/iconsprite/xml"
)

// Report summarizes a build.
type Report struct {
	Icons    []string // Icon names in sprite order
	Skipped  []extract.Skip
	Manifest string
	Fonts    []string // Font, stylesheet and codepoint files
	Previews []string
}

// Run executes the whole pipeline for cfg. Stages run in order and the first
// failure ends the run.
func Run(ctx context.Context, cfg *config.Config) (*Report, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	rep := &Report{}

	output.Debug("loading sprite", "file", cfg.Sprite)
	doc, err := xml.ParseFile(cfg.Sprite)
	if err != nil {
		return nil, fmt.Errorf("loading sprite: %w", err)
	}
	aliases, err := extract.LoadAliases(cfg.Aliases)
	if err != nil {
		return nil, err
	}

	opts := cfg.ExtractOptions()
	opts.Aliases = aliases
	res, err := extract.New(doc, opts).Extract()
	if err != nil {
		return nil, fmt.Errorf("extracting icons: %w", err)
	}
	logSkips(res.Skipped)
	rep.Skipped = res.Skipped
	if len(res.Icons) == 0 {
		return nil, fmt.Errorf("no icons found in %s", cfg.Sprite)
	}
	for _, icon := range res.Icons {
		rep.Icons = append(rep.Icons, icon.Name)
	}

	svgDir := cfg.SVGDir()
	if err := clean(svgDir, "*.svg"); err != nil {
		return nil, err
	}
	if _, err := extract.WriteAll(svgDir, res.Icons); err != nil {
		return nil, err
	}
	output.Info("extracted icons", "count", len(res.Icons), "skipped", len(res.Skipped), "dir", svgDir)

	rep.Manifest = cfg.ManifestPath()
	if err := extract.NewManifest(res.Icons).Write(rep.Manifest); err != nil {
		return nil, fmt.Errorf("writing manifest: %w", err)
	}
	output.Debug("wrote manifest", "file", rep.Manifest)

	err = output.RunWithSpinner(ctx, "Optimizing icons", func() error {
		files, err := optimize.New(cfg.OptimizeOptions()).Dir(ctx, svgDir, progress("optimizing"))
		if err != nil {
			return err
		}
		if cfg.Revision < 2 {
			return nil
		}
		for _, fn := range files {
			if err := ctx.Err(); err != nil {
				return err
			}
			output.Debug("flattening", "file", fn)
			if err := svg.FlattenFile(fn); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("optimizing icons: %w", err)
	}
	output.Info("optimized icons", "count", len(res.Icons))

	err = output.RunWithSpinner(ctx, "Generating font", func() error {
		fres, err := font.Generate(ctx, svgDir, cfg.FontDir(), aliases, cfg.FontOptions())
		if err != nil {
			return err
		}
		rep.Fonts = fres.Files
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("generating font: %w", err)
	}
	output.Info("generated font", "name", cfg.Font.Name, "files", len(rep.Fonts), "dir", cfg.FontDir())

	if !cfg.Preview.Enabled {
		return rep, nil
	}
	err = output.RunWithSpinner(ctx, "Rendering previews", func() error {
		if err := clean(cfg.PreviewDir(), "*.png"); err != nil {
			return err
		}
		files, err := preview.Dir(ctx, svgDir, cfg.PreviewDir(), cfg.Preview.Size, progress("rendering"))
		rep.Previews = files
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("rendering previews: %w", err)
	}
	output.Info("rendered previews", "count", len(rep.Previews), "dir", cfg.PreviewDir())
	return rep, nil
}

// Entry is one titled element of a sprite as the extractor classifies it.
type Entry struct {
	Title  string
	Status string // "public" or the skip reason
	Warn   bool
	Box    string // Bounding box of public icons
}

// Inspect classifies every title in the sprite without writing anything. Public
// icons come first, in sprite order, followed by the skipped titles.
func Inspect(doc *xml.Element, revision int) ([]Entry, error) {
	res, err := extract.New(doc, extract.Options{Revision: revision}).Extract()
	if err != nil {
		return nil, err
	}
	entries := make([]Entry, 0, len(res.Icons)+len(res.Skipped))
	for _, icon := range res.Icons {
		entries = append(entries, Entry{Title: icon.Name, Status: "public", Box: icon.Box.String()})
	}
	for _, s := range res.Skipped {
		entries = append(entries, Entry{Title: s.Title, Status: string(s.Reason), Warn: s.Reason.Warn()})
	}
	return entries, nil
}

func logSkips(skips []extract.Skip) {
	for _, s := range skips {
		if s.Reason.Warn() {
			output.Warn("skipped title", "title", s.Title, "reason", s.Reason)
		} else {
			output.Debug("skipped title", "title", s.Title, "reason", s.Reason)
		}
	}
}

func progress(verb string) func(string) {
	return func(fn string) {
		output.Debug(verb, "file", fn)
	}
}

// clean removes files left in dir by an earlier build.
func clean(dir, pattern string) error {
	files, err := filepath.Glob(filepath.Join(dir, pattern))
	if err != nil {
		return err
	}
	for _, fn := range files {
		if err := os.Remove(fn); err != nil {
			return err
		}
	}
	return nil
}
