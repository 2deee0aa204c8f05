package main

import (
	"fmt"

	"github.com/gobwas/glob"
	"github.com/spf13/cobra"

	"github.com/minios-linux/nuxtkit/config"
	"github.com/minios-linux/nuxtkit/extract"
	"github.com/minios-linux/nuxtkit/lockfile"
	"github.com/minios-linux/nuxtkit/reconcile"
	"github.com/minios-linux/nuxtkit/tree"
)

// ---------------------------------------------------------------------------
// clean (remove keys no source uses)
// ---------------------------------------------------------------------------

func newCleanCmd() *cobra.Command {
	var (
		keep   []string
		dryRun bool
	)

	cmd := &cobra.Command{
		Use:   "clean",
		Short: "Remove unused translation keys from translation files",
		Long: `Scan the project sources like extract does and remove from every global
and page file the keys no source uses.

--keep protects keys matching a glob pattern; "*" stops at dots, "**" does
not.

Examples:
  nuxtkit clean --dry-run
  nuxtkit clean --keep 'errors.**' --keep 'meta.*'`,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := loadProject()
			if err != nil {
				return err
			}
			keepFn, err := compileKeep(keep)
			if err != nil {
				return err
			}
			return runClean(p, keepFn, dryRun)
		},
	}

	cmd.Flags().StringArrayVar(&keep, "keep", nil, "Glob pattern of keys to keep (repeatable)")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Report unused keys without writing files")

	return cmd
}

// compileKeep builds a key matcher from glob patterns using "." as the
// separator. No patterns match nothing.
func compileKeep(patterns []string) (func(string) bool, error) {
	if len(patterns) == 0 {
		return nil, nil
	}
	globs := make([]glob.Glob, 0, len(patterns))
	for _, p := range patterns {
		g, err := glob.Compile(p, '.')
		if err != nil {
			return nil, fmt.Errorf("invalid --keep pattern %q: %w", p, err)
		}
		globs = append(globs, g)
	}
	return func(key string) bool {
		for _, g := range globs {
			if g.Match(key) {
				return true
			}
		}
		return false
	}, nil
}

func runClean(p *config.Project, keep func(string) bool, dryRun bool) error {
	res, err := extract.Scan(p.Root, logger)
	if err != nil {
		return err
	}
	dir := projectDir(p)
	pages, err := dir.Pages()
	if err != nil {
		return err
	}

	globalCleaner := reconcile.NewCleaner(res.Global.Sorted(), keep)
	pageCleaners := make(map[string]*reconcile.Cleaner, len(pages))
	for _, page := range pages {
		var used []string
		if keys, ok := res.Pages[page]; ok {
			used = keys.Sorted()
		}
		pageCleaners[page] = reconcile.NewCleaner(used, keep)
	}

	var lock *lockfile.LockFile
	if !dryRun {
		if lock, err = lockfile.Load(p.Root); err != nil {
			return err
		}
	}

	total, pruned := 0, 0
	clean := func(path, scope, code string, c *reconcile.Cleaner) error {
		if !fileExists(path) {
			return nil
		}
		cleaned, removed := c.Clean(loadTree(path))
		total += len(removed)
		for _, k := range removed {
			logger.Debug("unused key", "locale", code, "scope", scope, "key", k)
		}
		if len(removed) == 0 {
			return nil
		}
		if dryRun {
			logInfo("Would remove %d keys from %s", len(removed), path)
			return nil
		}
		if err := saveTree(path, cleaned); err != nil {
			return err
		}
		pruned += lock.Clean(lockfile.Target(p.Root, path), tree.Keys(cleaned))
		logInfo("Removed %d keys from %s", len(removed), path)
		return nil
	}

	for _, code := range p.Codes() {
		if err := clean(dir.Global(code), "global", code, globalCleaner); err != nil {
			return err
		}
		for _, page := range pages {
			if err := clean(dir.Page(page, code), "pages/"+page, code, pageCleaners[page]); err != nil {
				return err
			}
		}
	}

	if pruned > 0 {
		if err := lock.Save(); err != nil {
			return err
		}
		logger.Debug("pruned lock file", "path", lock.Path(), "checksums", pruned)
	}

	if dryRun {
		logSuccess("%d unused keys found", total)
	} else {
		logSuccess("Removed %d unused translation keys", total)
	}
	return nil
}

// ---------------------------------------------------------------------------
// replace-values
// ---------------------------------------------------------------------------

func newReplaceValuesCmd() *cobra.Command {
	var (
		search   string
		replace  string
		useRegex bool
	)

	cmd := &cobra.Command{
		Use:   "replace-values",
		Short: "Bulk replace translation values across all locales",
		Long: `Replace text in every value of every global and page file of every locale.

Without --useRegex the first occurrence of --search in each value is
replaced. With --useRegex every match is replaced and $1, $2... in
--replace refer to capture groups.

Examples:
  nuxtkit replace-values --search Nuxt3 --replace Nuxt
  nuxtkit replace-values --useRegex --search '(\d+) items' --replace '$1 elements'`,
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := reconcile.NewReplacer(search, replace, useRegex)
			if err != nil {
				return err
			}
			p, err := loadProject()
			if err != nil {
				return err
			}
			return runReplaceValues(p, r)
		},
	}

	cmd.Flags().StringVar(&search, "search", "", "Text or regular expression to search for (required)")
	cmd.Flags().StringVar(&replace, "replace", "", "Replacement text (required)")
	cmd.Flags().BoolVar(&useRegex, "useRegex", false, "Treat --search as a regular expression")
	_ = cmd.MarkFlagRequired("search")
	_ = cmd.MarkFlagRequired("replace")

	return cmd
}

func runReplaceValues(p *config.Project, r *reconcile.Replacer) error {
	dir := projectDir(p)
	total := 0
	for _, code := range p.Codes() {
		files, err := dir.Files(code)
		if err != nil {
			return err
		}
		for _, f := range files {
			n := loadTree(f)
			changes := r.Apply(n)
			if len(changes) == 0 {
				continue
			}
			for _, c := range changes {
				logInfo("Locale: %s, %s - Updated translation for key %q: %q => %q",
					code, dir.Scope(f), c.Key, c.Old, c.New)
			}
			if err := saveTree(f, n); err != nil {
				return err
			}
			total += len(changes)
		}
	}
	logSuccess("Updated %d translation values", total)
	return nil
}

