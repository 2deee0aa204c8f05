// Package extract discovers the translation keys a Nuxt code base uses.
//
// Keys are found by a regular-expression pass over raw source text; only
// literal arguments of $t and $tc are recognized. Pages are attributed the
// keys of every component they reference in their markup, followed
// transitively through the components directory.
package extract

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/gobwas/glob"
)

// sourcePattern selects the files that are scanned for keys and components.
var sourcePattern = glob.MustCompile("*.{js,ts,vue}")

// skipDirs contains directory names to skip during source file scanning.
var skipDirs = map[string]bool{
	".git":         true,
	".nuxt":        true,
	".output":      true,
	"node_modules": true,
	"dist":         true,
}

// IsSource reports whether name (a base name or path) is a .js, .ts or .vue
// file.
func IsSource(name string) bool {
	return sourcePattern.Match(filepath.Base(name))
}

// FindSources recursively finds all source files in dirs. Missing
// directories are skipped; node_modules and build output are never entered.
func FindSources(dirs []string) ([]string, error) {
	var files []string
	seen := make(map[string]bool)

	for _, dir := range dirs {
		if _, err := os.Stat(dir); os.IsNotExist(err) {
			continue
		}
		err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
			if err != nil {
				return nil // skip unreadable entries
			}
			if info.IsDir() {
				if skipDirs[info.Name()] {
					return filepath.SkipDir
				}
				return nil
			}
			if IsSource(path) && !seen[path] {
				seen[path] = true
				files = append(files, path)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("scanning %s: %w", dir, err)
		}
	}

	sort.Strings(files)
	return files, nil
}
