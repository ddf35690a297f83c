package extract

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Manifest maps each extracted icon to its aliases.
type Manifest map[string][]string

// NewManifest builds the manifest for icons. Icons without aliases map to an empty list.
func NewManifest(icons []*Icon) Manifest {
	res := make(Manifest, len(icons))
	for _, icon := range icons {
		aliases := icon.Aliases
		if aliases == nil {
			aliases = []string{}
		}
		res[icon.Name] = aliases
	}
	return res
}

// Marshal encodes the manifest as indented JSON with sorted keys.
func (m Manifest) Marshal() ([]byte, error) {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}

// Write saves the manifest to path, as YAML when the path ends in .yaml or .yml and
// as JSON otherwise.
func (m Manifest) Write(path string) error {
	var (
		data []byte
		err  error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		data, err = yaml.Marshal(map[string][]string(m))
	default:
		data, err = m.Marshal()
	}
	if err != nil {
		return fmt.Errorf("encoding manifest: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
