package extract

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
)

// Directories scanned below the project root.
var (
	PagesDir      = "pages"
	ComponentsDir = "components"
	GlobalDirs    = []string{"layouts", "components", "plugins", "composables"}
)

var (
	dynamicSegment = regexp.MustCompile(`\[.*?\]`)
	nonWord        = regexp.MustCompile(`[^\w\s-]`)
	whitespace     = regexp.MustCompile(`\s+`)
	dashRun        = regexp.MustCompile(`-{2,}`)
	edgeDash       = regexp.MustCompile(`-$|^-`)
	scriptExt      = regexp.MustCompile(`\.[jt]s$`)
)

// PageKey turns a page path relative to pages/ into the directory name its
// translations live under: blog/[slug].vue becomes "blog", users/[id]/edit.vue
// becomes "users-edit" and index.vue stays "index".
func PageKey(rel string) string {
	s := filepath.ToSlash(rel)
	s = scriptExt.ReplaceAllString(s, "")
	s = strings.TrimSuffix(s, ".vue")
	s = strings.ReplaceAll(s, "/", "-")
	s = dynamicSegment.ReplaceAllString(s, "")
	s = nonWord.ReplaceAllString(s, "")
	s = whitespace.ReplaceAllString(s, "_")
	s = dashRun.ReplaceAllString(s, "-")
	s = edgeDash.ReplaceAllString(s, "")
	s = strings.ReplaceAll(s, "-index", "")
	return strings.ToLower(s)
}

// Result holds the keys found in a project.
type Result struct {
	// Global holds keys used by layouts, components, plugins and composables.
	Global KeySet
	// Pages maps a page key to the keys its page and components use.
	Pages map[string]KeySet
}

// PageNames returns the page keys in lexical order.
func (r *Result) PageNames() []string {
	names := make([]string, 0, len(r.Pages))
	for name := range r.Pages {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Scan extracts the keys of the project rooted at root. Pages whose paths
// normalize to the same key share one key set.
func Scan(root string, logger *slog.Logger) (*Result, error) {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	resolver, err := LoadResolver(filepath.Join(root, ComponentsDir))
	if err != nil {
		return nil, fmt.Errorf("indexing components: %w", err)
	}
	logger.Debug("indexed components", "names", resolver.Len())
	walker := &Walker{Resolver: resolver, Logger: logger}

	res := &Result{Global: make(KeySet), Pages: make(map[string]KeySet)}

	pagesRoot := filepath.Join(root, PagesDir)
	pages, err := FindSources([]string{pagesRoot})
	if err != nil {
		return nil, err
	}
	for _, file := range pages {
		data, err := os.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", file, err)
		}
		rel, err := filepath.Rel(pagesRoot, file)
		if err != nil {
			return nil, err
		}
		key := PageKey(rel)
		keys := walker.Collect(string(data))
		if existing, ok := res.Pages[key]; ok {
			existing.Merge(keys)
		} else {
			res.Pages[key] = keys
		}
		logger.Debug("scanned page", "file", file, "page", key, "keys", len(keys))
	}

	dirs := make([]string, len(GlobalDirs))
	for i, d := range GlobalDirs {
		dirs[i] = filepath.Join(root, d)
	}
	globals, err := FindSources(dirs)
	if err != nil {
		return nil, err
	}
	for _, file := range globals {
		data, err := os.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", file, err)
		}
		res.Global.Merge(Keys(string(data)))
	}
	logger.Debug("scanned global sources", "files", len(globals), "keys", len(res.Global))

	return res, nil
}
