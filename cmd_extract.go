package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/text/language"
	"golang.org/x/text/language/display"

	"github.com/minios-linux/nuxtkit/config"
	"github.com/minios-linux/nuxtkit/extract"
	"github.com/minios-linux/nuxtkit/reconcile"
	"github.com/minios-linux/nuxtkit/tree"
)

// ---------------------------------------------------------------------------
// init (write .nuxtkit.yaml from the existing locale files)
// ---------------------------------------------------------------------------

func newInitCmd() *cobra.Command {
	var (
		defaultLocale string
		locales       []string
		force         bool
	)

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create " + config.FileName,
		Long: `Create a project file in the --cwd directory.

Without --locales, the locale list is detected from the <code>.json files
found in the translation directory.

Examples:
  nuxtkit init
  nuxtkit init --locales en,de,fr --defaultLocale en`,
		RunE: func(cmd *cobra.Command, args []string) error {
			root, err := filepath.Abs(cwd)
			if err != nil {
				return err
			}
			dir := translationDir
			if dir == "" {
				dir = config.DefaultTranslationDir
			}
			f := buildProjectFile(dir, defaultLocale, locales, config.Detect(filepath.Join(root, dir)))
			if len(f.Locales) == 0 {
				return fmt.Errorf("no locale files found in %s, pass --locales", dir)
			}
			path, err := config.WriteFile(root, f, force)
			if err != nil {
				return err
			}
			logSuccess("Wrote %s with %d locales", path, len(f.Locales))
			return nil
		},
	}

	cmd.Flags().StringVar(&defaultLocale, "defaultLocale", "", "Default locale (default: en when present, else the first locale)")
	cmd.Flags().StringSliceVar(&locales, "locales", nil, "Locale codes (comma-separated, default: detected)")
	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing project file")

	return cmd
}

// buildProjectFile lists codes, or the detected ones when codes is empty,
// with their native display names. The default locale is moved first so it
// is also the reference locale.
func buildProjectFile(dir, defaultLocale string, codes, detected []string) *config.File {
	if len(codes) == 0 {
		codes = detected
	}
	if defaultLocale == "" && len(codes) > 0 {
		defaultLocale = codes[0]
		for _, c := range codes {
			if c == config.DefaultLocale {
				defaultLocale = c
			}
		}
	}

	f := &config.File{DefaultLocale: defaultLocale, TranslationDir: filepath.ToSlash(dir)}
	add := func(code string) {
		f.Locales = append(f.Locales, config.Locale{Code: code, Name: displayName(config.Locale{Code: code})})
	}
	for _, c := range codes {
		if c = strings.TrimSpace(c); c == defaultLocale {
			add(c)
		}
	}
	for _, c := range codes {
		if c = strings.TrimSpace(c); c != "" && c != defaultLocale {
			add(c)
		}
	}
	return f
}

// displayName returns the configured name of l, or the native name of its
// language, or its code.
func displayName(l config.Locale) string {
	if l.Name != "" {
		return l.Name
	}
	tag, err := l.Tag()
	if err != nil || tag == language.Und {
		return l.Code
	}
	if name := display.Self.Name(tag); name != "" {
		return name
	}
	return l.Code
}

// ---------------------------------------------------------------------------
// extract (scan sources, write key skeletons)
// ---------------------------------------------------------------------------

func newExtractCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "extract",
		Short: "Extract translation keys from the project sources",
		Long: `Scan pages, layouts, components, plugins and composables for $t and $tc
calls and add every key found to the translation files of every locale.

Keys used by layouts, components, plugins and composables go to the global
file <translationDir>/<locale>.json. Keys used by a page, or by the
components it renders, go to <translationDir>/pages/<page>/<locale>.json.
Existing values are never changed.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := loadProject()
			if err != nil {
				return err
			}
			return runExtract(p)
		},
	}
}

func runExtract(p *config.Project) error {
	res, err := extract.Scan(p.Root, logger)
	if err != nil {
		return err
	}
	dir := projectDir(p)

	global := tree.FromKeys(res.Global.Sorted())
	pages := make(map[string]*tree.Node, len(res.Pages))
	for name, keys := range res.Pages {
		pages[name] = tree.FromKeys(keys.Sorted())
	}

	for _, code := range p.Codes() {
		path := dir.Global(code)
		if err := saveTree(path, reconcile.Fill(global, loadTree(path))); err != nil {
			return err
		}
		for _, name := range res.PageNames() {
			path := dir.Page(name, code)
			if err := saveTree(path, reconcile.Fill(pages[name], loadTree(path))); err != nil {
				return err
			}
		}
	}

	logSuccess("Extracted %d global keys and %d pages for %d locales",
		len(res.Global), len(res.Pages), len(p.Locales))
	return nil
}

// ---------------------------------------------------------------------------
// sync (align locales with the reference locale)
// ---------------------------------------------------------------------------

func newSyncCmd() *cobra.Command {
	var pages bool

	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Synchronize translation files across locales",
		Long: `Rewrite the global file of every locale so that it has exactly the keys of
the reference locale (the first configured one). Existing non-empty values
are kept, new keys get an empty value and extra keys are dropped.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := loadProject()
			if err != nil {
				return err
			}
			return runSync(p, pages)
		},
	}

	cmd.Flags().BoolVar(&pages, "pages", false, "Also synchronize page translation files")

	return cmd
}

func runSync(p *config.Project, withPages bool) error {
	dir := projectDir(p)
	ref := p.Reference().Code
	refTree := loadTree(dir.Global(ref))

	var names []string
	if withPages {
		var err error
		if names, err = dir.Pages(); err != nil {
			return err
		}
	}

	for _, code := range otherLocales(p, ref) {
		path := dir.Global(code)
		if err := saveTree(path, reconcile.Synchronize(refTree, loadTree(path))); err != nil {
			return err
		}
		for _, name := range names {
			refPath := dir.Page(name, ref)
			if !fileExists(refPath) {
				continue
			}
			path := dir.Page(name, code)
			if err := saveTree(path, reconcile.Synchronize(loadTree(refPath), loadTree(path))); err != nil {
				return err
			}
		}
		logInfo("Translations for locale %s have been synchronized", code)
	}
	return nil
}

// ---------------------------------------------------------------------------
// validate (missing and extra keys, exit 1 on drift)
// ---------------------------------------------------------------------------

func newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Validate translation files for missing or extra keys",
		Long: `Compare the global file of every locale with the reference locale and
report missing and extra keys. Exits with status 1 when any are found.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := loadProject()
			if err != nil {
				return err
			}
			return runValidate(p)
		},
	}
}

func runValidate(p *config.Project) error {
	dir := projectDir(p)
	ref := p.Reference().Code
	refTree := loadTree(dir.Global(ref))

	failed := false
	for _, code := range otherLocales(p, ref) {
		report := reconcile.Diff(refTree, loadTree(dir.Global(code)))
		if len(report.Missing) > 0 {
			failed = true
			keys := make([]string, len(report.Missing))
			for i, m := range report.Missing {
				keys[i] = m.Key
			}
			logWarning("Locale %s is missing keys:\n%s", code, strings.Join(keys, "\n"))
		}
		if len(report.Extra) > 0 {
			failed = true
			logWarning("Locale %s has extra keys:\n%s", code, strings.Join(report.Extra, "\n"))
		}
	}

	if failed {
		return errValidationFailed
	}
	logSuccess("All translation files are valid")
	return nil
}
