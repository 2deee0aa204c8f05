package extract

import (
	"regexp"
	"sort"
	"strings"
)

var (
	// $t('key') with any quote style.
	plainCall = regexp.MustCompile("\\$t\\(['\"`]([^'\"`]+)['\"`]\\)")
	// $tc('key', 3)
	pluralCall = regexp.MustCompile("\\$tc\\(['\"`]([^'\"`]+)['\"`],\\s*\\d+\\)")
)

// KeySet is an unordered set of translation keys.
type KeySet map[string]struct{}

// Add inserts key.
func (s KeySet) Add(key string) { s[key] = struct{}{} }

// Has reports whether key is in the set.
func (s KeySet) Has(key string) bool {
	_, ok := s[key]
	return ok
}

// Merge adds every key of other to s.
func (s KeySet) Merge(other KeySet) {
	for k := range other {
		s[k] = struct{}{}
	}
}

// Sorted returns the keys in lexical order.
func (s KeySet) Sorted() []string {
	out := make([]string, 0, len(s))
	for k := range s {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Keys returns the literal keys passed to $t and $tc in text.
// Computed keys ($t(prefix + name), $t(`a.${b}`)) are skipped.
func Keys(text string) KeySet {
	keys := make(KeySet)
	for _, re := range []*regexp.Regexp{plainCall, pluralCall} {
		for _, m := range re.FindAllStringSubmatch(text, -1) {
			if strings.Contains(m[1], "${") {
				continue
			}
			keys.Add(m[1])
		}
	}
	return keys
}
