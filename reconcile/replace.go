package reconcile

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/minios-linux/nuxtkit/tree"
)

var groupRef = regexp.MustCompile(`\$(\d+)`)

// Change is one rewritten translation value.
type Change struct {
	Key string
	Old string
	New string
}

// Replacer rewrites translation values. In literal mode only the first
// occurrence of the search text is replaced; in regexp mode every match is
// replaced and $N in the replacement expands to capture group N (an absent
// or non-participating group expands to "").
type Replacer struct {
	search  string
	replace string
	re      *regexp.Regexp
}

// NewReplacer compiles the search pattern when useRegex is set.
func NewReplacer(search, replace string, useRegex bool) (*Replacer, error) {
	if search == "" {
		return nil, fmt.Errorf("empty search pattern")
	}
	r := &Replacer{search: search, replace: replace}
	if useRegex {
		re, err := regexp.Compile(search)
		if err != nil {
			return nil, fmt.Errorf("compiling %q: %w", search, err)
		}
		r.re = re
	}
	return r, nil
}

// Replace applies the replacement to a single value.
func (r *Replacer) Replace(value string) string {
	if r.re == nil {
		return strings.Replace(value, r.search, r.replace, 1)
	}

	var b strings.Builder
	last := 0
	for _, m := range r.re.FindAllStringSubmatchIndex(value, -1) {
		b.WriteString(value[last:m[0]])
		b.WriteString(r.expand(value, m))
		last = m[1]
	}
	b.WriteString(value[last:])
	return b.String()
}

func (r *Replacer) expand(value string, match []int) string {
	return groupRef.ReplaceAllStringFunc(r.replace, func(ref string) string {
		n, err := strconv.Atoi(ref[1:])
		if err != nil || n < 1 || 2*n+1 >= len(match) {
			return ""
		}
		start, end := match[2*n], match[2*n+1]
		if start < 0 {
			return ""
		}
		return value[start:end]
	})
}

// Apply rewrites every string leaf of n in place and returns what changed.
func (r *Replacer) Apply(n *tree.Node) []Change {
	var changes []Change
	for _, e := range tree.Entries(n) {
		updated := r.Replace(e.Value)
		if updated == e.Value {
			continue
		}
		tree.SetString(n, e.Key, updated)
		changes = append(changes, Change{Key: e.Key, Old: e.Value, New: updated})
	}
	return changes
}
