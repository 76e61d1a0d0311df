package ignore

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/woozymasta/pathrules"
)

// Rule-set provenance reported in debug output.
const (
	SourceDefault        = "default"
	SourceThisismyIgnore = ".thisismyignore"
	SourceGitignore      = ".gitignore"
)

// ignoreFileNames are the candidate repo ignore files, in priority order.
var ignoreFileNames = []string{".thisismyignore", ".gitignore"}

// DefaultBinaryExtensions lists file extensions excluded by the default rules.
// It is a plain table so callers can extend it without code changes.
var DefaultBinaryExtensions = []string{
	// images
	"png", "jpg", "jpeg", "gif", "bmp", "ico", "webp", "tiff", "svg",
	// audio
	"mp3", "wav", "aac", "flac", "ogg", "m4a",
	// video
	"mp4", "mkv", "avi", "mov", "wmv", "webm",
	// archives
	"zip", "tar", "gz", "bz2", "xz", "7z", "rar",
	// executables and libraries
	"exe", "dll", "so", "dylib", "bin", "class", "pyc",
	// fonts
	"ttf", "otf", "woff", "woff2", "eot",
	// office documents
	"pdf", "doc", "docx", "xls", "xlsx", "ppt", "pptx",
	// design files
	"psd", "ai", "sketch", "fig", "drawio", "excalidraw",
	// databases
	"db", "sqlite", "sqlite3", "mdb",
}

// Options controls how a Policy is built.
type Options struct {
	// UseDefaults layers the default dotfile/binary/dependency rules underneath
	// any repo ignore file rules.
	UseDefaults bool
	// RepoRules is the raw content of a repo ignore file, gitignore syntax.
	RepoRules string
	// RepoSource tags where RepoRules came from, for diagnostics only.
	RepoSource string
	// Greedy disables all filtering: Excluded always reports false.
	Greedy bool
}

// Policy is the combined exclusion predicate applied by the resource selector.
// Immutable after New.
type Policy struct {
	matcher *pathrules.Matcher
	source  string
	greedy  bool
}

// New builds a Policy from defaults and optional repo ignore rules.
// Repo rules are evaluated after the defaults, so a negated repo rule
// (`!important.log`) can re-include a path a default rule excluded.
func New(opts Options) (*Policy, error) {
	if opts.Greedy {
		return &Policy{greedy: true, source: "greedy"}, nil
	}

	var rules []pathrules.Rule
	if opts.UseDefaults {
		rules = defaultRules()
	}

	source := SourceDefault
	if opts.RepoRules != "" {
		repoRules, err := pathrules.ParseRulesString(opts.RepoRules, pathrules.ParseOptions{})
		if err != nil {
			return nil, fmt.Errorf("parse ignore rules: %w", err)
		}
		rules = pathrules.MergeRules(rules, repoRules)
		if opts.RepoSource != "" {
			source = opts.RepoSource
		}
	}

	matcher, err := pathrules.NewMatcher(rules, pathrules.MatcherOptions{
		DefaultAction: pathrules.ActionInclude,
	})
	if err != nil {
		return nil, fmt.Errorf("compile ignore rules: %w", err)
	}

	return &Policy{matcher: matcher, source: source}, nil
}

// Excluded reports whether relPath is excluded by the policy.
// Paths are matched with forward slashes relative to the working directory.
func (p *Policy) Excluded(relPath string) bool {
	if p == nil || p.greedy || p.matcher == nil {
		return false
	}

	path := filepath.ToSlash(relPath)
	path = strings.TrimPrefix(path, "./")
	if path == "" {
		return false
	}

	return p.matcher.Excluded(path, false)
}

// Source reports which rule source the policy was built from.
func (p *Policy) Source() string {
	return p.source
}

// LoadRepoRules reads the first existing repo ignore file in cwd.
// Absence of both candidates is not an error.
func LoadRepoRules(cwd string) (content string, source string, err error) {
	for _, name := range ignoreFileNames {
		data, readErr := os.ReadFile(filepath.Join(cwd, name))
		if readErr != nil {
			if os.IsNotExist(readErr) {
				continue
			}
			return "", "", fmt.Errorf("read %s: %w", name, readErr)
		}
		return string(data), name, nil
	}

	return "", "", nil
}

// defaultRules builds the default exclusion rule set: dotfiles and
// dot-directories at any depth, the binary extension table, and
// package-manager artifacts.
func defaultRules() []pathrules.Rule {
	rules := make([]pathrules.Rule, 0, len(DefaultBinaryExtensions)+4)

	rules = append(rules,
		pathrules.Rule{Action: pathrules.ActionExclude, Pattern: ".*"},
		pathrules.Rule{Action: pathrules.ActionExclude, Pattern: ".*/"},
		pathrules.Rule{Action: pathrules.ActionExclude, Pattern: "node_modules/"},
		pathrules.Rule{Action: pathrules.ActionExclude, Pattern: "package-lock.json"},
	)

	for _, ext := range DefaultBinaryExtensions {
		rules = append(rules, pathrules.Rule{
			Action:  pathrules.ActionExclude,
			Pattern: "*." + ext,
		})
	}

	return rules
}
