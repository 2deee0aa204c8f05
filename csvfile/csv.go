// Package csvfile reads and writes the per-locale CSV exchange format: one
// row per translation with the file it belongs to (relative to the
// translation directory), the dot-separated key and the value.
package csvfile

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Header is the first record written by Export.
var Header = []string{"File", "Key", "Translation"}

// Row is one translation.
type Row struct {
	File        string
	Key         string
	Translation string
}

// Export writes the header followed by rows.
func Export(w io.Writer, rows []Row) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return err
	}
	for _, r := range rows {
		if err := cw.Write([]string{r.File, r.Key, r.Translation}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// Import reads rows. A leading header record is skipped, as are blank
// lines and records without a key. A missing third column reads as "".
func Import(r io.Reader) ([]Row, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	var rows []Row
	first := true
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		if first {
			first = false
			if isHeader(rec) {
				continue
			}
		}
		if len(rec) < 2 || strings.TrimSpace(rec[1]) == "" {
			continue
		}
		row := Row{File: rec[0], Key: rec[1]}
		if len(rec) > 2 {
			row.Translation = rec[2]
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func isHeader(rec []string) bool {
	if len(rec) < len(Header) {
		return false
	}
	for i, h := range Header {
		if !strings.EqualFold(strings.TrimSpace(rec[i]), h) {
			return false
		}
	}
	return true
}

// WriteFile exports rows to path, creating parent directories.
func WriteFile(path string, rows []Row) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating directory: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := Export(f, rows); err != nil {
		f.Close()
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return f.Close()
}

// ReadFile imports the rows of the CSV file at path.
func ReadFile(path string) ([]Row, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	rows, err := Import(f)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return rows, nil
}

// Group splits rows by file, keeping the order in which files first appear.
func Group(rows []Row) (files []string, byFile map[string][]Row) {
	byFile = make(map[string][]Row)
	for _, r := range rows {
		if _, ok := byFile[r.File]; !ok {
			files = append(files, r.File)
		}
		byFile[r.File] = append(byFile[r.File], r)
	}
	return files, byFile
}
