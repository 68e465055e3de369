package scenario

import (
	"fmt"
	"os"
	"path/filepath"

	"facette.io/natsort"
)

// Discover expands directories to the scenario files they contain (*.yaml and *.yml, not
// recursive) in natural order, so "step2" sorts before "step10". File arguments are kept
// as given.
func Discover(paths []string) ([]string, error) {
	var out []string

	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return nil, fmt.Errorf("discovering scenarios: %w", err)
		}

		if !info.IsDir() {
			out = append(out, p)

			continue
		}

		var found []string

		for _, pattern := range []string{"*.yaml", "*.yml"} {
			matches, err := filepath.Glob(filepath.Join(p, pattern))
			if err != nil {
				return nil, fmt.Errorf("discovering scenarios: %w", err)
			}

			found = append(found, matches...)
		}

		natsort.Sort(found)

		out = append(out, found...)
	}

	return out, nil
}
