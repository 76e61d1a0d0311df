package resolver

import (
	"os"
	"path"
	"sort"

	"github.com/thisismy-go/thisismy/ignore"
)

// NoLimit disables the size ceiling. Distinct from a ceiling of zero, which
// excludes every non-empty file.
const NoLimit int64 = -1

// SizeRejection records a file excluded because it exceeded the size ceiling.
type SizeRejection struct {
	Path string
	Size int64
}

// SelectOptions carries the resolution flags, constructed once at startup.
type SelectOptions struct {
	// Recursive rewrites non-recursive patterns to search all subdirectories.
	Recursive bool
	// Greedy disables ignore filtering for every matched path.
	Greedy bool
	// MaxSizeBytes is the hard size ceiling; NoLimit disables it.
	MaxSizeBytes int64
}

// Selection is the deterministic result of resolving user tokens.
type Selection struct {
	// Resources is the final deduplicated ordered list: URLs in supplied
	// order, then kept paths in lexicographic order.
	Resources []Resource
	// IgnoredByRule lists paths excluded by the ignore policy.
	IgnoredByRule []string
	// IgnoredBySize lists paths excluded by the size ceiling.
	IgnoredBySize []SizeRejection
	// Directories is the sorted set of parent directories of kept paths,
	// for diagnostic reporting only.
	Directories []string
	// Warnings collects non-fatal per-token resolution problems.
	Warnings []string
}

// Selector resolves tokens into a Selection.
type Selector struct {
	expander *Expander
	cwd      string
}

// NewSelector creates a Selector rooted at cwd.
func NewSelector(cwd string) *Selector {
	return &Selector{expander: NewExpander(cwd), cwd: cwd}
}

// Select turns raw tokens into the final resource list.
//
// A single non-wildcard path token with no sibling tokens and no recursion
// request is an exact reference: it bypasses the ignore policy but not the
// size ceiling. Per-token expansion failures are recorded as warnings and
// never abort resolution of sibling tokens.
func (s *Selector) Select(tokens []string, policy *ignore.Policy, opts SelectOptions) (*Selection, error) {
	sel := &Selection{}

	var urls []Resource
	var pathTokens []string
	for _, token := range tokens {
		if IsURL(token) {
			urls = append(urls, Resource{Identifier: token, Kind: KindURL})
			continue
		}
		pathTokens = append(pathTokens, token)
	}

	exact := len(tokens) == 1 && len(pathTokens) == 1 &&
		!opts.Recursive && !HasGlobMeta(pathTokens[0])

	seen := make(map[string]struct{})
	var candidates []string
	for _, token := range pathTokens {
		matches, err := s.expander.Expand(token, opts.Recursive, exact)
		if err != nil {
			sel.Warnings = append(sel.Warnings, err.Error())
			continue
		}
		for _, match := range matches {
			if _, ok := seen[match]; ok {
				continue
			}
			seen[match] = struct{}{}
			candidates = append(candidates, match)
		}
	}
	sort.Strings(candidates)

	var kept []string
	for _, candidate := range candidates {
		if !exact && !opts.Greedy && policy.Excluded(candidate) {
			sel.IgnoredByRule = append(sel.IgnoredByRule, candidate)
			continue
		}
		kept = append(kept, candidate)
	}

	if opts.MaxSizeBytes != NoLimit {
		kept = s.applySizeCeiling(kept, opts.MaxSizeBytes, sel)
	}

	sel.Resources = urls
	dirs := make(map[string]struct{})
	for _, p := range kept {
		sel.Resources = append(sel.Resources, Resource{Identifier: p, Kind: KindFile})
		dirs[path.Dir(p)] = struct{}{}
	}

	for dir := range dirs {
		sel.Directories = append(sel.Directories, dir)
	}
	sort.Strings(sel.Directories)

	return sel, nil
}

// applySizeCeiling drops files strictly larger than ceiling bytes. A file of
// exactly the ceiling size is kept. Stat failures drop the path with a
// warning rather than aborting.
func (s *Selector) applySizeCeiling(paths []string, ceiling int64, sel *Selection) []string {
	kept := paths[:0]
	for _, p := range paths {
		info, err := os.Stat(s.expander.abs(p))
		if err != nil {
			sel.Warnings = append(sel.Warnings, "cannot stat "+p+": "+err.Error())
			continue
		}
		if info.Size() > ceiling {
			sel.IgnoredBySize = append(sel.IgnoredBySize, SizeRejection{Path: p, Size: info.Size()})
			continue
		}
		kept = append(kept, p)
	}
	return kept
}
