// Package resolver expands configured target-location strings into absolute
// filesystem paths: a leading ~ becomes the user's home directory and $VAR /
// ${VAR} references are substituted from the environment.
package resolver

import (
	"os"
	"strings"

	"gitlab.com/tozd/go/errors"
)

// ErrExpand indicates a target-location string could not be expanded.
var ErrExpand = errors.New("path expansion failed")

// Resolve expands a target-location string. Referencing an unset environment
// variable is an error rather than a silent empty substitution, since the
// result designates where files get written.
func Resolve(raw string) (string, error) {
	path := raw

	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", errors.Errorf("%w: resolving home directory for %q: %v", ErrExpand, raw, err)
		}
		path = home + path[1:]
	}

	var missing string
	path = os.Expand(path, func(name string) string {
		value, ok := os.LookupEnv(name)
		if !ok && missing == "" {
			missing = name
		}
		return value
	})
	if missing != "" {
		return "", errors.Errorf("%w: %q references unset variable $%s", ErrExpand, raw, missing)
	}

	return path, nil
}
