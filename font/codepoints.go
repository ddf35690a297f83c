package font

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sort"
)

// Highest codepoint a format 4 cmap can carry; U+FFFF itself is reserved for the
// terminating segment.
const maxCodepoint = 0xFFFE

// Codepoints maps a glyph name to its codepoint.
type Codepoints map[string]rune

// LoadCodepoints reads a codepoints JSON file written by a previous build. A missing
// file yields an empty map.
func LoadCodepoints(fn string) (Codepoints, error) {
	data, err := os.ReadFile(fn)
	if errors.Is(err, fs.ErrNotExist) {
		return Codepoints{}, nil
	}
	if err != nil {
		return nil, err
	}
	var res Codepoints
	if err := json.Unmarshal(data, &res); err != nil {
		return nil, fmt.Errorf("parsing codepoints %s: %w", fn, err)
	}
	if res == nil {
		res = Codepoints{}
	}
	return res, nil
}

// Assign gives every name a codepoint. Names found in prev keep their codepoint;
// the rest take the lowest free codepoint at or above start, in name order.
func Assign(names []string, prev Codepoints, start rune) (Codepoints, error) {
	if start <= 0 || start > maxCodepoint {
		return nil, fmt.Errorf("start codepoint U+%04X outside the basic multilingual plane", start)
	}

	sorted := append([]string(nil), names...)
	sort.Strings(sorted)

	res := make(Codepoints, len(sorted))
	used := make(map[rune]string)
	for _, name := range sorted {
		cp, ok := prev[name]
		if !ok || cp <= 0 || cp > maxCodepoint {
			continue
		}
		if _, taken := used[cp]; taken {
			continue
		}
		used[cp] = name
		res[name] = cp
	}

	next := start
	for _, name := range sorted {
		if _, ok := res[name]; ok {
			continue
		}
		for used[next] != "" {
			next++
		}
		if next > maxCodepoint {
			return nil, fmt.Errorf("no codepoint left for %q below U+FFFF", name)
		}
		used[next] = name
		res[name] = next
		next++
	}
	return res, nil
}

// Write saves the map as JSON with sorted keys and decimal codepoints.
func (c Codepoints) Write(fn string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(fn, append(data, '\n'), 0o644)
}
