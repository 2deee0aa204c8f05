package extract

import (
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"
)

var (
	// Opening tags that can only be custom components: PascalCase or
	// hyphenated lower-case names.
	componentTag = regexp.MustCompile(`<([A-Z][a-zA-Z0-9]*|[a-z]+(?:-[a-z]+)+)`)
	camelHump    = regexp.MustCompile(`([a-z])([A-Z])`)
)

// ComponentNames lists every source file under dir and the two names a
// template can use to reference it: the kebab-case and the PascalCase
// rendering of its directory segments joined with its base name.
// components/user/Card.vue yields "user-card" and "UserCard".
func ComponentNames(dir string) (map[string][]string, error) {
	files, err := FindSources([]string{dir})
	if err != nil {
		return nil, err
	}
	names := make(map[string][]string, len(files))
	for _, f := range files {
		rel, err := filepath.Rel(dir, f)
		if err != nil {
			continue
		}
		names[f] = candidateNames(rel)
	}
	return names, nil
}

func candidateNames(rel string) []string {
	var parts []string
	for _, p := range strings.Split(filepath.ToSlash(filepath.Dir(rel)), "/") {
		if strings.TrimSpace(p) == "" || p == "." || p == ".." {
			continue
		}
		parts = append(parts, p)
	}
	base := filepath.Base(rel)
	parts = append(parts, strings.TrimSuffix(base, filepath.Ext(base)))

	kebab := make([]string, len(parts))
	var pascal strings.Builder
	for i, p := range parts {
		kebab[i] = strings.ToLower(camelHump.ReplaceAllString(p, "$1-$2"))
		r, size := utf8.DecodeRuneInString(p)
		pascal.WriteRune(unicode.ToUpper(r))
		pascal.WriteString(p[size:])
	}
	return []string{strings.Join(kebab, "-"), pascal.String()}
}

// Resolver maps template tag names to component files.
//
// Two files can produce the same name (components/UserCard.vue and
// components/user/Card.vue both answer to <UserCard>). Such collisions are
// not disambiguated: every matching file is returned, in path order.
type Resolver struct {
	index map[string][]string
}

// NewResolver indexes the output of ComponentNames.
func NewResolver(names map[string][]string) *Resolver {
	files := make([]string, 0, len(names))
	for f := range names {
		files = append(files, f)
	}
	sort.Strings(files)

	r := &Resolver{index: make(map[string][]string)}
	for _, f := range files {
		seen := make(map[string]bool, 2)
		for _, n := range names[f] {
			if seen[n] {
				continue
			}
			seen[n] = true
			r.index[n] = append(r.index[n], f)
		}
	}
	return r
}

// LoadResolver scans dir and indexes its components. A missing directory
// yields an empty resolver.
func LoadResolver(dir string) (*Resolver, error) {
	names, err := ComponentNames(dir)
	if err != nil {
		return nil, err
	}
	return NewResolver(names), nil
}

// Resolve returns the files answering to tag. The tag matches exactly, or
// through its lower-cased form (so <user-card> and <UserCard> both work).
func (r *Resolver) Resolve(tag string) []string {
	if r == nil {
		return nil
	}
	if files, ok := r.index[tag]; ok {
		return files
	}
	return r.index[strings.ToLower(tag)]
}

// Len returns the number of indexed names.
func (r *Resolver) Len() int {
	if r == nil {
		return 0
	}
	return len(r.index)
}

// Tags returns the distinct component tag names opened in text, in order of
// first appearance.
func Tags(text string) []string {
	var tags []string
	seen := make(map[string]bool)
	for _, m := range componentTag.FindAllStringSubmatch(text, -1) {
		if seen[m[1]] {
			continue
		}
		seen[m[1]] = true
		tags = append(tags, m[1])
	}
	return tags
}
