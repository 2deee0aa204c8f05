package main

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/minios-linux/nuxtkit/config"
	"github.com/minios-linux/nuxtkit/csvfile"
	"github.com/minios-linux/nuxtkit/localedir"
	"github.com/minios-linux/nuxtkit/pofile"
	"github.com/minios-linux/nuxtkit/tree"
)

const (
	defaultCSVDir  = "csv_exports"
	defaultPotsDir = "pots"
)

// localPath joins a slash-separated relative path read from an exchange
// file to dir, refusing paths that leave dir.
func localPath(dir, rel string) (string, error) {
	p := filepath.FromSlash(rel)
	if !filepath.IsLocal(p) {
		return "", fmt.Errorf("path %q escapes %s", rel, dir)
	}
	return filepath.Join(dir, p), nil
}

// ---------------------------------------------------------------------------
// export-csv / import-csv
// ---------------------------------------------------------------------------

func newExportCSVCmd() *cobra.Command {
	var csvDir string

	cmd := &cobra.Command{
		Use:   "export-csv",
		Short: "Export translations to CSV files",
		Long: `Write <csvDir>/<locale>.csv for every locale with one row per key of the
global file and every page file: File, Key, Translation.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := loadProject()
			if err != nil {
				return err
			}
			return runExportCSV(p, resolvePath(p, csvDir))
		},
	}

	cmd.Flags().StringVar(&csvDir, "csvDir", defaultCSVDir, "Directory to write CSV files to")

	return cmd
}

func runExportCSV(p *config.Project, csvDir string) error {
	dir := projectDir(p)
	for _, code := range p.Codes() {
		files, err := dir.Files(code)
		if err != nil {
			return err
		}
		var rows []csvfile.Row
		for _, f := range files {
			rel := dir.Rel(f)
			for _, e := range tree.Entries(loadTree(f)) {
				rows = append(rows, csvfile.Row{File: rel, Key: e.Key, Translation: e.Value})
			}
		}
		path := filepath.Join(csvDir, code+".csv")
		if err := csvfile.WriteFile(path, rows); err != nil {
			return err
		}
		logSuccess("Exported %d translations for %s to %s", len(rows), code, path)
	}
	return nil
}

func newImportCSVCmd() *cobra.Command {
	var csvDir string

	cmd := &cobra.Command{
		Use:   "import-csv",
		Short: "Import translations from CSV files",
		Long: `Read <csvDir>/<locale>.csv for every locale and store each row's value under
its key in the file the row names. Locales without a CSV file are skipped.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := loadProject()
			if err != nil {
				return err
			}
			return runImportCSV(p, resolvePath(p, csvDir))
		},
	}

	cmd.Flags().StringVar(&csvDir, "csvDir", defaultCSVDir, "Directory containing CSV files")

	return cmd
}

func runImportCSV(p *config.Project, csvDir string) error {
	for _, code := range p.Codes() {
		path := filepath.Join(csvDir, code+".csv")
		if !fileExists(path) {
			logWarning("CSV file not found: %s", path)
			continue
		}
		rows, err := csvfile.ReadFile(path)
		if err != nil {
			return err
		}

		files, byFile := csvfile.Group(rows)
		for _, file := range files {
			target, err := localPath(p.TranslationDir, file)
			if err != nil {
				logWarning("Skipping rows of %s: %v", path, err)
				continue
			}
			n := loadTree(target)
			for _, r := range byFile[file] {
				tree.SetString(n, r.Key, r.Translation)
			}
			if err := saveTree(target, n); err != nil {
				return err
			}
			logger.Debug("imported rows", "file", target, "rows", len(byFile[file]))
		}
		logSuccess("Imported %d translations for %s from %s", len(rows), code, path)
	}
	return nil
}

// ---------------------------------------------------------------------------
// export / import (PO)
// ---------------------------------------------------------------------------

func newExportPOCmd() *cobra.Command {
	var potsDir string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export translations to PO files",
		Long: `Convert every translation file to a PO file at the same relative path below
--potsDir. Each key becomes a msgid, each value its msgstr.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := loadProject()
			if err != nil {
				return err
			}
			return runExportPO(p, resolvePath(p, potsDir))
		},
	}

	cmd.Flags().StringVar(&potsDir, "potsDir", defaultPotsDir, "Directory to write PO files to")

	return cmd
}

func runExportPO(p *config.Project, potsDir string) error {
	dir := projectDir(p)
	count := 0
	for _, code := range p.Codes() {
		files, err := dir.Files(code)
		if err != nil {
			return err
		}
		for _, f := range files {
			rel := strings.TrimSuffix(dir.Rel(f), ".json") + ".po"
			out := filepath.Join(potsDir, filepath.FromSlash(rel))
			if err := pofile.FromTree(loadTree(f), code).WriteFile(out); err != nil {
				return err
			}
			count++
		}
	}
	logSuccess("Exported %d PO files to %s", count, potsDir)
	return nil
}

func newImportPOCmd() *cobra.Command {
	var potsDir string

	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import translations from PO files",
		Long: `Convert every **/*.po file below --potsDir to a JSON translation file at the
same relative path below the translation directory. Keys come from msgid,
prefixed with msgctxt when present; values from msgstr.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := loadProject()
			if err != nil {
				return err
			}
			return runImportPO(p, resolvePath(p, potsDir))
		},
	}

	cmd.Flags().StringVar(&potsDir, "potsDir", defaultPotsDir, "Directory containing PO files")

	return cmd
}

func runImportPO(p *config.Project, potsDir string) error {
	files, err := findPOFiles(potsDir)
	if err != nil {
		return err
	}
	dir := localedir.New(p.TranslationDir)
	for _, rel := range files {
		n, err := pofile.ReadFile(filepath.Join(potsDir, rel))
		if err != nil {
			return err
		}
		out := filepath.Join(dir.Root, strings.TrimSuffix(rel, ".po")+".json")
		if err := saveTree(out, n); err != nil {
			return err
		}
		logger.Debug("imported PO file", "file", rel, "keys", len(tree.Keys(n)))
	}
	logSuccess("Converted %d PO files to JSON in %s", len(files), p.TranslationDir)
	return nil
}

// findPOFiles lists every *.po below dir, relative to dir.
func findPOFiles(dir string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || filepath.Ext(path) != ".po" {
			return nil
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		files = append(files, rel)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("listing PO files: %w", err)
	}
	return files, nil
}
