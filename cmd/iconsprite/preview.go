package main

import (
	"github.com/spf13/cobra"

	"github.com/jphsd/iconsprite/internal/output"
	"github.com/jphsd/iconsprite/preview"
)

func newPreviewCmd() *cobra.Command {
	var size int
	cmd := &cobra.Command{
		Use:   "preview <icon.svg> <out.png>",
		Short: "Render one icon to a PNG",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := preview.File(args[0], args[1], size); err != nil {
				return err
			}
			output.Debug("rendered preview", "file", args[1], "size", size)
			return nil
		},
	}
	cmd.Flags().IntVarP(&size, "size", "s", preview.DefaultSize, "edge length in pixels")
	return cmd
}
