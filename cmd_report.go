package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/minios-linux/nuxtkit/config"
	"github.com/minios-linux/nuxtkit/localedir"
	"github.com/minios-linux/nuxtkit/reconcile"
)

// ---------------------------------------------------------------------------
// diff (keys of the default locale missing elsewhere)
// ---------------------------------------------------------------------------

// fileDiff is one entry of the diff report.
type fileDiff struct {
	// File is the default-locale file, relative to the translation directory.
	File   string `json:"file"`
	Locale string `json:"locale"`
	// Type is "missing_in_locale" when the locale has no counterpart file.
	Type            string                 `json:"type,omitempty"`
	MissingInLocale []reconcile.MissingKey `json:"missingInLocale,omitempty"`
}

func newDiffCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "diff",
		Short: "Show keys of the default locale missing from other locales",
		Long: `Compare every translation file of the default locale, global and page
files alike, with the same file of each other locale. Reports the missing
keys with their default-locale value, and files a locale lacks entirely.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if output != "text" && output != "json" {
				return fmt.Errorf("unknown output format %q (want text or json)", output)
			}
			p, err := loadProject()
			if err != nil {
				return err
			}
			if _, err := os.Stat(p.TranslationDir); err != nil {
				return fmt.Errorf("source directory %q does not exist", p.TranslationDir)
			}
			diffs, err := computeDiff(projectDir(p), p.DefaultLocale, otherLocales(p, p.DefaultLocale))
			if err != nil {
				return err
			}
			if output == "json" {
				return writeDiffJSON(cmd.OutOrStdout(), diffs)
			}
			printDiff(diffs)
			return nil
		},
	}

	cmd.Flags().StringVar(&output, "output", "text", "Output format: text or json")

	return cmd
}

func computeDiff(dir localedir.Dir, defaultLocale string, codes []string) ([]fileDiff, error) {
	files, err := dir.Files(defaultLocale)
	if err != nil {
		return nil, err
	}

	diffs := []fileDiff{}
	for _, code := range codes {
		for _, file := range files {
			rel := dir.Rel(file)
			target := localedir.Counterpart(file, defaultLocale, code)
			if !fileExists(target) {
				diffs = append(diffs, fileDiff{File: rel, Locale: code, Type: "missing_in_locale"})
				continue
			}
			report := reconcile.Diff(loadTree(file), loadTree(target))
			if len(report.Missing) > 0 {
				diffs = append(diffs, fileDiff{File: rel, Locale: code, MissingInLocale: report.Missing})
			}
		}
	}
	return diffs, nil
}

func writeDiffJSON(w io.Writer, diffs []fileDiff) error {
	data, err := json.MarshalIndent(diffs, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

func printDiff(diffs []fileDiff) {
	if len(diffs) == 0 {
		logSuccess("No missing keys")
		return
	}
	for _, d := range diffs {
		if d.Type == "missing_in_locale" {
			logError("Missing locale file for %s: %s", d.Locale, d.File)
			continue
		}
		var b strings.Builder
		fmt.Fprintf(&b, "Missing in %s file: %s", d.Locale, d.File)
		for _, m := range d.MissingInLocale {
			fmt.Fprintf(&b, "\n - Key: %s | Default Value: %q", m.Key, m.DefaultValue)
		}
		logInfo("%s", b.String())
	}
}

// ---------------------------------------------------------------------------
// stats (coverage per locale)
// ---------------------------------------------------------------------------

func newStatsCmd() *cobra.Command {
	var full bool

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Display translation statistics for each locale",
		Long: `Show how many keys of the reference locale each locale translates, over
the global file and every page file combined. --full adds one line per
page and for the global file.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := loadProject()
			if err != nil {
				return err
			}
			return runStats(cmd.OutOrStdout(), p, full)
		},
	}

	cmd.Flags().BoolVar(&full, "full", false, "Show per-page and global statistics")

	return cmd
}

// localeStats is the coverage of one locale.
type localeStats struct {
	Global   reconcile.Coverage
	Pages    map[string]reconcile.Coverage
	Combined reconcile.Coverage
}

func computeStats(dir localedir.Dir, ref, code string, pages []string) localeStats {
	s := localeStats{
		Global: reconcile.Measure(loadTree(dir.Global(ref)), loadTree(dir.Global(code))),
		Pages:  make(map[string]reconcile.Coverage),
	}
	s.Combined = s.Global
	for _, page := range pages {
		refPath := dir.Page(page, ref)
		if !fileExists(refPath) {
			continue
		}
		c := reconcile.Measure(loadTree(refPath), loadTree(dir.Page(page, code)))
		s.Pages[page] = c
		s.Combined.Add(c)
	}
	return s
}

func runStats(w io.Writer, p *config.Project, full bool) error {
	dir := projectDir(p)
	ref := p.Reference().Code
	pages, err := dir.Pages()
	if err != nil {
		return err
	}

	bold := color.New(color.Bold)
	for _, l := range p.Locales {
		s := computeStats(dir, ref, l.Code, pages)

		bold.Fprintf(w, "%s (%s)\n", displayName(l), l.Code)
		if full {
			for _, page := range pages {
				if c, ok := s.Pages[page]; ok {
					fmt.Fprintf(w, "  %-24s %s\n", "pages/"+page, coverageLine(c))
				}
			}
			fmt.Fprintf(w, "  %-24s %s\n", "global", coverageLine(s.Global))
		}
		fmt.Fprintf(w, "  %-24s %s\n", "combined", coverageLine(s.Combined))
	}
	return nil
}

func coverageLine(c reconcile.Coverage) string {
	return fmt.Sprintf("%s %d/%d", coverageBar(c.Percent(), 20), c.Translated, c.Total)
}

// coverageBar renders percent as a bar of width cells followed by the
// percentage: red below 50%, yellow below 100%, green when complete.
func coverageBar(percent float64, width int) string {
	if percent < 0 {
		percent = 0
	}
	if percent > 100 {
		percent = 100
	}
	filled := int(percent * float64(width) / 100)

	c := color.New(color.FgGreen)
	switch {
	case percent < 50:
		c = color.New(color.FgRed)
	case percent < 100:
		c = color.New(color.FgYellow)
	}
	bar := strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
	return c.Sprint(bar) + fmt.Sprintf(" %6.2f%%", percent)
}

// ---------------------------------------------------------------------------
// check-duplicates
// ---------------------------------------------------------------------------

func newCheckDuplicatesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check-duplicates",
		Short: "Find translation values used under several keys",
		Long: `For each locale, collect the values of the global file and every page file
and report each value that appears under more than one key.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := loadProject()
			if err != nil {
				return err
			}
			dir := projectDir(p)
			for _, code := range p.Codes() {
				dups, err := findDuplicates(dir, code)
				if err != nil {
					return err
				}
				if len(dups) == 0 {
					logSuccess("No duplicate values found for locale %s", code)
					continue
				}
				for _, d := range dups {
					logWarning("Duplicate translation value %q found in locale %s:\n - %s",
						d.Value, code, strings.Join(d.Locations, "\n - "))
				}
				logWarning("%d duplicate values detected for locale %s", len(dups), code)
			}
			return nil
		},
	}
}

func findDuplicates(dir localedir.Dir, code string) ([]reconcile.Duplicate, error) {
	files, err := dir.Files(code)
	if err != nil {
		return nil, err
	}
	d := reconcile.NewDuplicates()
	for _, f := range files {
		d.Add(dir.Scope(f), loadTree(f))
	}
	return d.Report(), nil
}
