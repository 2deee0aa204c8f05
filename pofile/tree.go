package pofile

import (
	"fmt"
	"os"
	"sort"

	"github.com/leonelquinteros/gotext"

	"github.com/minios-linux/nuxtkit/tree"
)

// FromTree builds a PO file with one entry per string leaf of n, in tree
// order.
func FromTree(n *tree.Node, language string) *File {
	f := NewFile(language)
	for _, e := range tree.Entries(n) {
		f.Add(e.Key, e.Value)
	}
	return f
}

// ToTree parses PO data into a locale tree. An entry with a context is
// stored under "msgctxt.msgid", any other under its msgid. The value is
// the first msgstr; untranslated entries become "". The header entry is
// skipped. Keys are added in lexical order.
func ToTree(data []byte) *tree.Node {
	po := gotext.NewPo()
	po.Parse(data)
	domain := po.GetDomain()

	var entries []tree.Entry
	for id, tr := range domain.GetTranslations() {
		if id == "" {
			continue
		}
		entries = append(entries, tree.Entry{Key: id, Value: tr.Trs[0]})
	}
	for ctx, trs := range domain.GetCtxTranslations() {
		for id, tr := range trs {
			if id == "" {
				continue
			}
			entries = append(entries, tree.Entry{Key: ctx + tree.Sep + id, Value: tr.Trs[0]})
		}
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Key < entries[j].Key })
	return tree.FromEntries(entries)
}

// ReadFile parses the PO file at path into a locale tree.
func ReadFile(path string) (*tree.Node, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return ToTree(data), nil
}
