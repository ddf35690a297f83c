// Package config holds the iconsprite build configuration.
package config

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/jphsd/iconsprite/extract"
	"github.com/jphsd/iconsprite/font"
	"github.com/jphsd/iconsprite/optimize"
	"github.com/jphsd/iconsprite/preview"
)

// ErrNoSprite is returned when no sprite sheet is configured.
var ErrNoSprite = errors.New("no sprite file configured")

// Config is the complete build configuration.
type Config struct {
	Sprite   string         `mapstructure:"sprite" yaml:"sprite"`
	Aliases  string         `mapstructure:"aliases" yaml:"aliases"`
	OutDir   string         `mapstructure:"out_dir" yaml:"out_dir"`
	Manifest string         `mapstructure:"manifest" yaml:"manifest"` // Relative to OutDir unless absolute
	Revision int            `mapstructure:"revision" yaml:"revision"`
	Optimize OptimizeConfig `mapstructure:"optimize" yaml:"optimize"`
	Font     FontConfig     `mapstructure:"font" yaml:"font"`
	Preview  PreviewConfig  `mapstructure:"preview" yaml:"preview"`
	Verbose  bool           `mapstructure:"verbose" yaml:"verbose"`
}

// OptimizeConfig configures the optimizer stage.
type OptimizeConfig struct {
	Precision       int      `mapstructure:"precision" yaml:"precision"`
	StripAttributes []string `mapstructure:"strip_attributes" yaml:"strip_attributes"`
}

// FontConfig configures the font stage.
type FontConfig struct {
	Name           string   `mapstructure:"name" yaml:"name"`
	Formats        []string `mapstructure:"formats" yaml:"formats"`
	StartCodepoint int      `mapstructure:"start_codepoint" yaml:"start_codepoint"`
	UnitsPerEm     int      `mapstructure:"units_per_em" yaml:"units_per_em"`
	Descent        int      `mapstructure:"descent" yaml:"descent"`
	FixedWidth     bool     `mapstructure:"fixed_width" yaml:"fixed_width"`
	CSSPrefix      string   `mapstructure:"css_prefix" yaml:"css_prefix"`
	MinifyCSS      bool     `mapstructure:"minify_css" yaml:"minify_css"`
}

// PreviewConfig configures PNG previews.
type PreviewConfig struct {
	Enabled bool `mapstructure:"enabled" yaml:"enabled"`
	Size    int  `mapstructure:"size" yaml:"size"`
}

// Defaults returns the configuration used when nothing is set.
func Defaults() *Config {
	o := optimize.DefaultOptions()
	f := font.DefaultOptions()
	return &Config{
		OutDir:   "dist",
		Manifest: "icons.json",
		Revision: 2,
		Optimize: OptimizeConfig{Precision: o.Precision, StripAttributes: o.StripAttributes},
		Font: FontConfig{
			Name:           f.Name,
			Formats:        f.Formats,
			StartCodepoint: int(f.StartCodepoint),
			UnitsPerEm:     f.UnitsPerEm,
			Descent:        f.Descent,
			CSSPrefix:      f.CSSPrefix,
		},
		Preview: PreviewConfig{Size: preview.DefaultSize},
	}
}

// Validate checks the configuration before a build.
func (c *Config) Validate() error {
	if c.Sprite == "" {
		return ErrNoSprite
	}
	if c.OutDir == "" {
		return fmt.Errorf("out_dir is empty")
	}
	if c.Revision != 1 && c.Revision != 2 {
		return fmt.Errorf("revision %d is not 1 or 2", c.Revision)
	}
	if c.Optimize.Precision < 0 {
		return fmt.Errorf("optimize.precision %d is negative", c.Optimize.Precision)
	}
	if c.Preview.Enabled && c.Preview.Size <= 0 {
		return fmt.Errorf("preview.size %d is not positive", c.Preview.Size)
	}
	if err := c.FontOptions().Validate(); err != nil {
		return fmt.Errorf("font: %w", err)
	}
	return nil
}

// ExtractOptions returns the extractor settings. Aliases are loaded separately.
func (c *Config) ExtractOptions() extract.Options {
	return extract.Options{Revision: c.Revision}
}

// OptimizeOptions returns the optimizer settings.
func (c *Config) OptimizeOptions() optimize.Options {
	return optimize.Options{Precision: c.Optimize.Precision, StripAttributes: c.Optimize.StripAttributes}
}

// FontOptions returns the font generator settings.
func (c *Config) FontOptions() font.Options {
	return font.Options{
		Name:           c.Font.Name,
		Formats:        c.Font.Formats,
		StartCodepoint: rune(c.Font.StartCodepoint),
		UnitsPerEm:     c.Font.UnitsPerEm,
		Descent:        c.Font.Descent,
		FixedWidth:     c.Font.FixedWidth,
		CSSPrefix:      c.Font.CSSPrefix,
		MinifyCSS:      c.Font.MinifyCSS,
	}
}

// Output locations

func (c *Config) SVGDir() string     { return filepath.Join(c.OutDir, "svg") }
func (c *Config) FontDir() string    { return filepath.Join(c.OutDir, "fonts") }
func (c *Config) PreviewDir() string { return filepath.Join(c.OutDir, "preview") }

// ManifestPath returns where the manifest is written.
func (c *Config) ManifestPath() string {
	if filepath.IsAbs(c.Manifest) {
		return c.Manifest
	}
	return filepath.Join(c.OutDir, c.Manifest)
}
