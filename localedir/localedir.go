// Package localedir maps locale codes and pages to files in a translation
// directory:
//
//	<dir>/<code>.json                global translations
//	<dir>/pages/<page>/<code>.json   translations of one page
package localedir

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
)

// PagesDir is the directory below the translation directory that holds
// page translations.
const PagesDir = "pages"

// Dir is a translation directory.
type Dir struct {
	Root string
}

// New returns the translation directory at root.
func New(root string) Dir {
	return Dir{Root: root}
}

// Global returns the path of the global tree of code.
func (d Dir) Global(code string) string {
	return filepath.Join(d.Root, code+".json")
}

// Page returns the path of the tree of code for page.
func (d Dir) Page(page, code string) string {
	return filepath.Join(d.Root, PagesDir, page, code+".json")
}

// PagesRoot returns the directory holding page translations.
func (d Dir) PagesRoot() string {
	return filepath.Join(d.Root, PagesDir)
}

// Rel returns path relative to the translation directory, slash separated.
func (d Dir) Rel(path string) string {
	rel, err := filepath.Rel(d.Root, path)
	if err != nil {
		return filepath.ToSlash(path)
	}
	return filepath.ToSlash(rel)
}

// Scope names the scope a translation file belongs to: "global" for a
// top-level file, "pages/<page>" for a page file.
func (d Dir) Scope(path string) string {
	rel := d.Rel(filepath.Dir(path))
	if rel == "." {
		return "global"
	}
	return rel
}

// Files returns every <code>.json below the directory in lexical order:
// the global file, when present, and every page file.
func (d Dir) Files(code string) ([]string, error) {
	name := code + ".json"
	var files []string
	err := filepath.WalkDir(d.Root, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			if os.IsNotExist(err) && path == d.Root {
				return filepath.SkipDir
			}
			return err
		}
		if !entry.IsDir() && entry.Name() == name {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("listing %s files: %w", code, err)
	}
	sort.Strings(files)
	return files, nil
}

// Pages returns the names of the page directories in lexical order.
func (d Dir) Pages() ([]string, error) {
	entries, err := os.ReadDir(d.PagesRoot())
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("listing pages: %w", err)
	}
	var pages []string
	for _, e := range entries {
		if e.IsDir() {
			pages = append(pages, e.Name())
		}
	}
	return pages, nil
}

// Counterpart returns the file of locale to that sits next to path, a file
// of locale from. A path not named <from>.json is returned unchanged.
func Counterpart(path, from, to string) string {
	dir, name := filepath.Split(path)
	if name != from+".json" {
		return path
	}
	return dir + to + ".json"
}
