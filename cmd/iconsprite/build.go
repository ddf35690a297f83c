package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jphsd/iconsprite"
	"github.com/jphsd/iconsprite/internal/output"
)

// Flags of the build command and the configuration keys they set
var buildFlags = map[string]string{
	"out-dir":     "out_dir",
	"revision":    "revision",
	"manifest":    "manifest",
	"font-name":   "font.name",
	"formats":     "font.formats",
	"fixed-width": "font.fixed_width",
	"minify-css":  "font.minify_css",
	"preview":     "preview.enabled",
}

func newBuildCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "build [sprite.svg] [aliases.json]",
		Short: "Extract icons and generate the icon font",
		Long: `Extract every public icon from the sprite, optimize it, and generate the
icon font, stylesheet, codepoints and manifest under the output directory.

Titles containing whitespace are private and skipped. Codepoints assigned by
an earlier build in the same output directory are kept.

Examples:
  # Build from iconsprite.yaml
  iconsprite build

  # Build a sprite with aliases into ./public
  iconsprite build icons.svg aliases.json --out-dir public`,
		Args: cobra.MaximumNArgs(2),
		RunE: runBuild,
	}

	cmd.Flags().String("out-dir", "", "output directory (default: dist)")
	cmd.Flags().Int("revision", 2, "extraction rules, 1 or 2")
	cmd.Flags().String("manifest", "", "manifest path relative to the output directory (default: icons.json)")
	cmd.Flags().String("font-name", "", "font family and file name (default: icons)")
	cmd.Flags().StringSlice("formats", nil, "font formats: ttf, woff, woff2 (default: all)")
	cmd.Flags().Bool("fixed-width", false, "give every glyph a one em advance")
	cmd.Flags().Bool("minify-css", false, "minify the generated stylesheet")
	cmd.Flags().Bool("preview", false, "render PNG previews of every icon")
	return cmd
}

func runBuild(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, buildFlags)
	if err != nil {
		return err
	}
	if len(args) > 0 {
		cfg.Sprite = args[0]
	}
	if len(args) > 1 {
		cfg.Aliases = args[1]
	}

	rep, err := iconsprite.Run(cmd.Context(), cfg)
	if err != nil {
		return err
	}

	rows := []output.Row{
		{Label: "icons", Value: fmt.Sprint(len(rep.Icons))},
		{Label: "skipped", Value: fmt.Sprint(len(rep.Skipped))},
		{Label: "svg", Value: cfg.SVGDir()},
		{Label: "manifest", Value: rep.Manifest},
		{Label: "fonts", Value: fmt.Sprintf("%s (%d files)", cfg.FontDir(), len(rep.Fonts))},
	}
	if len(rep.Previews) > 0 {
		rows = append(rows, output.Row{Label: "previews", Value: cfg.PreviewDir()})
	}
	output.Println(output.FormatCheckmark("Build complete"))
	output.Println(output.FormatSummary(cfg.Font.Name, rows))
	return nil
}
