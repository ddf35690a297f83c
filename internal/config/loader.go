package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Environment variable prefix, as in ICONSPRITE_FONT_NAME.
const envPrefix = "ICONSPRITE"

// DefaultFile is read from the working directory when no file is named.
const DefaultFile = "iconsprite.yaml"

// Loader merges configuration from defaults, a YAML file, the environment and
// command line flags, in increasing order of precedence.
type Loader struct {
	v *viper.Viper
}

// NewLoader creates a loader with every key defaulted.
func NewLoader() *Loader {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Unmarshal only sees environment variables for known keys
	d := Defaults()
	v.SetDefault("sprite", d.Sprite)
	v.SetDefault("aliases", d.Aliases)
	v.SetDefault("out_dir", d.OutDir)
	v.SetDefault("manifest", d.Manifest)
	v.SetDefault("revision", d.Revision)
	v.SetDefault("optimize.precision", d.Optimize.Precision)
	v.SetDefault("optimize.strip_attributes", d.Optimize.StripAttributes)
	v.SetDefault("font.name", d.Font.Name)
	v.SetDefault("font.formats", d.Font.Formats)
	v.SetDefault("font.start_codepoint", d.Font.StartCodepoint)
	v.SetDefault("font.units_per_em", d.Font.UnitsPerEm)
	v.SetDefault("font.descent", d.Font.Descent)
	v.SetDefault("font.fixed_width", d.Font.FixedWidth)
	v.SetDefault("font.css_prefix", d.Font.CSSPrefix)
	v.SetDefault("font.minify_css", d.Font.MinifyCSS)
	v.SetDefault("preview.enabled", d.Preview.Enabled)
	v.SetDefault("preview.size", d.Preview.Size)
	v.SetDefault("verbose", d.Verbose)

	return &Loader{v: v}
}

// BindFlags binds command line flags to configuration keys. Flags maps a flag name
// to its key; flags missing from fs are ignored. A flag only overrides the other
// sources when it is set on the command line.
func (l *Loader) BindFlags(fs *pflag.FlagSet, flags map[string]string) error {
	for name, key := range flags {
		f := fs.Lookup(name)
		if f == nil {
			continue
		}
		if err := l.v.BindPFlag(key, f); err != nil {
			return fmt.Errorf("binding flag --%s: %w", name, err)
		}
	}
	return nil
}

// Load reads the named YAML file and returns the merged configuration. An empty
// name reads DefaultFile when it exists.
func (l *Loader) Load(file string) (*Config, error) {
	explicit := file != ""
	if !explicit {
		file = DefaultFile
	}
	l.v.SetConfigFile(file)
	l.v.SetConfigType("yaml")

	if err := l.v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		missing := errors.As(err, &notFound) || errors.Is(err, fs.ErrNotExist)
		if explicit || !missing {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	var cfg Config
	if err := l.v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}
	return &cfg, nil
}
