package testfile

import (
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/spf13/afero"
)

// Discover expands every pattern in testPatterns under skillPath, drops any
// path whose relative form matches an excludePatterns entry, and returns a
// de-duplicated, sorted list of test file paths.
func Discover(fs afero.Fs, skillPath string, testPatterns, excludePatterns []string) ([]string, error) {
	seen := make(map[string]bool)
	var matches []string

	// doublestar.Glob over an io/fs.FS always returns slash-relative matches
	// with no leading slash. Only re-root them when skillPath itself was
	// absolute; a relative skillPath (e.g. "." for the cwd) must come back
	// relative too, or it no longer names the file afero actually holds.
	abs := filepath.IsAbs(skillPath)

	iofs := afero.NewIOFS(fs)
	for _, pattern := range testPatterns {
		full := strings.TrimPrefix(filepath.ToSlash(filepath.Join(skillPath, pattern)), "/")
		found, err := doublestar.Glob(iofs, full)
		if err != nil {
			return nil, err
		}
		for _, m := range found {
			if abs {
				m = "/" + m
			}
			if seen[m] {
				continue
			}
			seen[m] = true
			matches = append(matches, m)
		}
	}

	var kept []string
	for _, m := range matches {
		rel, err := filepath.Rel(skillPath, m)
		if err != nil {
			rel = m
		}
		rel = filepath.ToSlash(rel)
		if matchesAnyExclude(rel, excludePatterns) {
			continue
		}
		kept = append(kept, m)
	}

	sort.Strings(kept)
	return kept, nil
}

func matchesAnyExclude(rel string, patterns []string) bool {
	for _, p := range patterns {
		if strings.ContainsAny(p, "*?[") {
			if ok, _ := doublestar.Match(p, rel); ok {
				return true
			}
			continue
		}
		if strings.Contains(rel, p) {
			return true
		}
	}
	return false
}
