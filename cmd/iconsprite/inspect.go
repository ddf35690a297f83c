package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jphsd/iconsprite"
	"github.com/jphsd/iconsprite/internal/output"
	"github.com/jphsd/iconsprite/xml"
)

func newInspectCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "inspect [sprite.svg]",
		Short: "List the titles of a sprite and how they would be extracted",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runInspect,
	}
	cmd.Flags().Int("revision", 2, "extraction rules, 1 or 2")
	return cmd
}

func runInspect(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, map[string]string{"revision": "revision"})
	if err != nil {
		return err
	}
	if len(args) > 0 {
		cfg.Sprite = args[0]
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	doc, err := xml.ParseFile(cfg.Sprite)
	if err != nil {
		return err
	}
	entries, err := iconsprite.Inspect(doc, cfg.Revision)
	if err != nil {
		return err
	}

	public := 0
	for _, e := range entries {
		if e.Status == "public" {
			public++
		}
		fmt.Fprintln(cmd.OutOrStdout(), output.FormatEntry(e.Title, e.Status, e.Warn, e.Box))
	}
	fmt.Fprintln(cmd.OutOrStdout(), output.StyleSummary.Render(fmt.Sprintf("%d public, %d skipped", public, len(entries)-public)))
	return nil
}
