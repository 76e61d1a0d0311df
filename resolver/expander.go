package resolver

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/pterm/pterm"
)

// Expander turns path tokens into concrete regular-file paths.
type Expander struct {
	cwd string
}

// NewExpander creates an Expander resolving paths against cwd.
func NewExpander(cwd string) *Expander {
	return &Expander{cwd: cwd}
}

// HasGlobMeta reports whether token contains a glob metacharacter.
func HasGlobMeta(token string) bool {
	return strings.ContainsAny(token, "*?[{")
}

// Expand resolves one path token.
//
// When exact is true the token is treated as an exact reference: the named
// file is returned as-is when it exists, and a missing file yields an empty
// result rather than an error. Otherwise the token is glob-expanded, with
// dotfiles matched at this layer (ignore rules are applied later, by the
// selector). Directory matches are discarded; a match that fails to stat is
// dropped and logged in debug mode.
func (e *Expander) Expand(token string, recursive bool, exact bool) ([]string, error) {
	if exact {
		info, err := os.Stat(e.abs(token))
		if err != nil || info.IsDir() {
			return nil, nil
		}
		return []string{e.normalize(token)}, nil
	}

	pattern := token
	if recursive {
		pattern = rewriteRecursive(pattern)
	}

	matches, err := doublestar.FilepathGlob(e.abs(pattern))
	if err != nil {
		return nil, fmt.Errorf("invalid pattern %q: %w", token, err)
	}

	paths := make([]string, 0, len(matches))
	for _, match := range matches {
		info, statErr := os.Stat(match)
		if statErr != nil {
			pterm.Debug.Printfln("dropping %s: %v", match, statErr)
			continue
		}
		if info.IsDir() {
			continue
		}
		paths = append(paths, e.normalize(match))
	}

	return paths, nil
}

// rewriteRecursive rewrites a pattern without a "**" marker so it searches
// all subdirectories. A leading "./" stays in front of the inserted marker to
// avoid a doubled separator.
func rewriteRecursive(pattern string) string {
	if strings.Contains(pattern, "**") {
		return pattern
	}
	if rest, ok := strings.CutPrefix(pattern, "./"); ok {
		return "./**/" + rest
	}
	return "**/" + pattern
}

// abs anchors a relative token or pattern at the working directory.
func (e *Expander) abs(pattern string) string {
	if filepath.IsAbs(pattern) {
		return pattern
	}
	return filepath.Join(e.cwd, filepath.FromSlash(pattern))
}

// normalize converts a matched path to a slash-separated path relative to the
// working directory.
func (e *Expander) normalize(path string) string {
	if filepath.IsAbs(path) {
		if rel, err := filepath.Rel(e.cwd, path); err == nil && !strings.HasPrefix(rel, "..") {
			path = rel
		}
	}
	path = filepath.ToSlash(filepath.Clean(path))
	return strings.TrimPrefix(path, "./")
}
