// Package pofile converts locale trees to and from GNU gettext PO files.
// Every string leaf becomes one entry whose msgid is the dot-separated
// translation key and whose msgstr is the value.
package pofile

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Entry is a single message of a PO file.
type Entry struct {
	MsgID  string
	MsgStr string
}

// File is a PO file: a header entry followed by the messages.
type File struct {
	// Header is the metadata entry (msgid "").
	Header *Entry
	// Entries are the messages in write order.
	Entries []*Entry
}

// NewFile creates an empty PO file whose header declares UTF-8 content
// and, when language is set, the Language and Plural-Forms fields.
func NewFile(language string) *File {
	header := "Content-Type: text/plain; charset=utf-8\n" +
		"Content-Transfer-Encoding: 8bit\n"
	if language != "" {
		header += "Language: " + language + "\n" +
			"Plural-Forms: " + PluralFormsForLang(language) + "\n"
	}
	return &File{Header: &Entry{MsgStr: header}}
}

// Add appends a message.
func (f *File) Add(msgid, msgstr string) {
	f.Entries = append(f.Entries, &Entry{MsgID: msgid, MsgStr: msgstr})
}

// ---------------------------------------------------------------------------
// Writing
// ---------------------------------------------------------------------------

// Write writes the PO file to a writer.
func (f *File) Write(w io.Writer) error {
	bw := bufio.NewWriter(w)

	if f.Header != nil {
		writeEntry(bw, f.Header)
	}
	for _, e := range f.Entries {
		fmt.Fprintln(bw)
		writeEntry(bw, e)
	}

	return bw.Flush()
}

// WriteFile writes the PO file to disk, creating parent directories.
func (f *File) WriteFile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating directory: %w", err)
	}
	out, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := f.Write(out); err != nil {
		out.Close()
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return out.Close()
}

func writeEntry(w *bufio.Writer, e *Entry) {
	writeQuotedField(w, "msgid", e.MsgID)
	writeQuotedField(w, "msgstr", e.MsgStr)
}

// writeQuotedField writes a PO field with proper multiline quoting.
func writeQuotedField(w *bufio.Writer, field, value string) {
	if !strings.Contains(value, "\n") {
		fmt.Fprintf(w, "%s %s\n", field, quote(value))
		return
	}

	// Multiline: use empty string on first line
	fmt.Fprintf(w, "%s \"\"\n", field)
	parts := strings.Split(value, "\n")
	for i, part := range parts {
		if i < len(parts)-1 {
			fmt.Fprintf(w, "%s\n", quote(part+"\n"))
		} else if part != "" {
			fmt.Fprintf(w, "%s\n", quote(part))
		}
	}
}

// quote produces a PO-style quoted string.
func quote(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `"`, `\"`)
	s = strings.ReplaceAll(s, "\n", `\n`)
	s = strings.ReplaceAll(s, "\t", `\t`)
	return `"` + s + `"`
}

// PluralFormsForLang returns the standard Plural-Forms header for a language code.
func PluralFormsForLang(lang string) string {
	base := strings.ToLower(lang)
	if idx := strings.IndexAny(base, "_-"); idx > 0 {
		base = base[:idx]
	}

	switch base {
	case "ja", "ko", "zh", "vi", "th", "id", "ms":
		return "nplurals=1; plural=0;"
	case "fr", "pt":
		return "nplurals=2; plural=(n > 1);"
	case "ru", "uk", "be", "hr", "sr", "bs":
		return "nplurals=3; plural=(n%10==1 && n%100!=11 ? 0 : n%10>=2 && n%10<=4 && (n%100<10 || n%100>=20) ? 1 : 2);"
	case "pl":
		return "nplurals=3; plural=(n==1 ? 0 : n%10>=2 && n%10<=4 && (n%100<10 || n%100>=20) ? 1 : 2);"
	case "cs", "sk":
		return "nplurals=3; plural=(n==1 ? 0 : n>=2 && n<=4 ? 1 : 2);"
	case "ro":
		return "nplurals=3; plural=(n==1 ? 0 : (n==0 || (n%100 > 0 && n%100 < 20)) ? 1 : 2);"
	case "lt":
		return "nplurals=3; plural=(n%10==1 && n%100!=11 ? 0 : n%10>=2 && (n%100<10 || n%100>=20) ? 1 : 2);"
	case "lv":
		return "nplurals=3; plural=(n%10==1 && n%100!=11 ? 0 : n != 0 ? 1 : 2);"
	case "ar":
		return "nplurals=6; plural=(n==0 ? 0 : n==1 ? 1 : n==2 ? 2 : n%100>=3 && n%100<=10 ? 3 : n%100>=11 ? 4 : 5);"
	default:
		return "nplurals=2; plural=(n != 1);"
	}
}
