package magickit

import (
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/gobwas/glob"
)

// globMeta are the characters that make a database path a pattern
// rather than a literal file.
const globMeta = "*?[{"

// ResolveDatabases expands rule database patterns into concrete file
// paths. Literal paths pass through untouched (existing or not — the
// library reports missing databases itself); patterns are matched
// against the filesystem below their longest literal prefix.
//
// A pattern that matches nothing resolves to nothing; resolving only
// patterns and matching none of them is reported as an error, since a
// handle loaded with zero databases silently falls back to the default.
func ResolveDatabases(patterns ...string) ([]string, error) {
	var resolved []string
	literal := false

	for _, pattern := range patterns {
		if !strings.ContainsAny(pattern, globMeta) {
			resolved = append(resolved, pattern)
			literal = true
			continue
		}

		matches, err := expandPattern(pattern)
		if err != nil {
			return nil, err
		}
		resolved = append(resolved, matches...)
	}

	if len(resolved) == 0 && !literal && len(patterns) > 0 {
		return nil, &Error{
			Op:      "resolve databases",
			Message: "no rule database matched " + strings.Join(patterns, ", "),
		}
	}
	return resolved, nil
}

// expandPattern walks from the pattern's literal prefix and collects
// matching files.
func expandPattern(pattern string) ([]string, error) {
	g, err := glob.Compile(pattern, filepath.Separator)
	if err != nil {
		return nil, &Error{Op: "resolve databases", Message: "bad pattern " + pattern, Err: err}
	}

	root := literalPrefix(pattern)
	if root == "" {
		root = "."
	}

	var matches []string
	walkErr := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			// Unreadable subtrees cannot contain loadable databases.
			return nil
		}
		if !d.IsDir() && g.Match(path) {
			matches = append(matches, path)
		}
		return nil
	})
	if walkErr != nil {
		return nil, walkErr
	}
	return matches, nil
}

// literalPrefix returns the directory part of pattern before its first
// metacharacter.
func literalPrefix(pattern string) string {
	i := strings.IndexAny(pattern, globMeta)
	if i < 0 {
		return filepath.Dir(pattern)
	}
	slash := strings.LastIndex(pattern[:i], string(filepath.Separator))
	if slash < 0 {
		return "."
	}
	if slash == 0 {
		return string(filepath.Separator)
	}
	return pattern[:slash]
}
