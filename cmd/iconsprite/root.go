package main

import (
	"github.com/spf13/cobra"

	"github.com/jphsd/iconsprite/internal/config"
	"github.com/jphsd/iconsprite/internal/output"
)

var (
	// Global flags
	flagConfig  string
	flagVerbose bool
)

// rootCmd is the base command for the iconsprite CLI.
var rootCmd = &cobra.Command{
	Use:   "iconsprite",
	Short: "Build icons and an icon font from an SVG sprite",
	Long: `iconsprite extracts every titled group of an SVG sprite sheet into its own
optimized SVG file and compiles the results into an icon font with CSS and
JSON bindings.

Configuration is read from iconsprite.yaml (or --config), ICONSPRITE_*
environment variables and flags, in increasing order of precedence.`,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		output.SetupLogging(flagVerbose)
		return nil
	},
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&flagConfig, "config", "c", "", "path to config file (default: ./"+config.DefaultFile+" if present)")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "log every icon (env: ICONSPRITE_VERBOSE)")

	rootCmd.AddCommand(newBuildCmd())
	rootCmd.AddCommand(newInspectCmd())
	rootCmd.AddCommand(newPreviewCmd())
}

// loadConfig merges the configuration sources with the flags of cmd and applies
// the resulting verbosity. The global --verbose flag is always bound.
func loadConfig(cmd *cobra.Command, flags map[string]string) (*config.Config, error) {
	l := config.NewLoader()
	if err := l.BindFlags(cmd.Flags(), map[string]string{"verbose": "verbose"}); err != nil {
		return nil, err
	}
	if err := l.BindFlags(cmd.Flags(), flags); err != nil {
		return nil, err
	}
	cfg, err := l.Load(flagConfig)
	if err != nil {
		return nil, err
	}
	output.SetupLogging(cfg.Verbose)
	return cfg, nil
}
