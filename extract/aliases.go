package extract

import (
	"encoding/json"
	"fmt"
	"os"
)

// Aliases maps a canonical icon name to its alternate names.
type Aliases map[string][]string

// LoadAliases reads an alias table from a JSON object file. An empty path yields an
// empty table.
func LoadAliases(path string) (Aliases, error) {
	if path == "" {
		return Aliases{}, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading aliases: %w", err)
	}
	var res Aliases
	if err := json.Unmarshal(data, &res); err != nil {
		return nil, fmt.Errorf("parsing aliases %s: %w", path, err)
	}
	if res == nil {
		res = Aliases{}
	}
	return res, nil
}

// For returns the aliases configured for name, never nil.
func (a Aliases) For(name string) []string {
	res := make([]string, 0, len(a[name]))
	return append(res, a[name]...)
}
