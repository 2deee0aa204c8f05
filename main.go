// nuxtkit: translation-file toolkit for Nuxt i18n projects.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Version information (set via -ldflags during build)
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// ---------------------------------------------------------------------------
// Global flags
// ---------------------------------------------------------------------------

var (
	cwd            string
	translationDir string
	logLevel       = levelFlag{name: "info"}
)

// errValidationFailed makes validate exit with status 1.
var errValidationFailed = errors.New("validation failed with errors")

// ---------------------------------------------------------------------------
// Root command
// ---------------------------------------------------------------------------

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "nuxtkit",
		Short: "Translation-file toolkit for Nuxt i18n projects",
		Long: `nuxtkit manages the JSON translation files of a Nuxt i18n project.

Global translations live in <translationDir>/<locale>.json, page
translations in <translationDir>/pages/<page>/<locale>.json.

Commands:
  extract           Collect $t/$tc keys from pages and components
  sync              Align every locale with the reference locale
  validate          Report missing and extra keys (exit 1 on drift)
  diff              Show keys missing from each locale
  stats             Translation coverage per locale
  clean             Remove keys no source file uses
  translate         Fill missing keys with a translation service
  export-csv        Export translations to CSV
  import-csv        Import translations from CSV
  export            Export translations to PO files
  import            Import translations from PO files
  check-duplicates  Find values used under several keys
  replace-values    Bulk-replace translation values
  auth              Manage stored service credentials
  services          List translation services`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			setLogger(newLogger(os.Stderr, logLevel.Level(), logLevel.Silent()))
		},
	}

	// Global persistent flags, inherited by all subcommands
	root.PersistentFlags().StringVar(&cwd, "cwd", ".", "Project root directory")
	root.PersistentFlags().StringVar(&translationDir, "translationDir", "", "Directory containing JSON translation files (default from config)")
	root.PersistentFlags().Var(&logLevel, "logLevel", "Log level: debug, info, warn, error, silent")

	root.AddCommand(
		newInitCmd(),
		newExtractCmd(),
		newSyncCmd(),
		newValidateCmd(),
		newDiffCmd(),
		newStatsCmd(),
		newCleanCmd(),
		newTranslateCmd(),
		newServicesCmd(),
		newExportCSVCmd(),
		newImportCSVCmd(),
		newExportPOCmd(),
		newImportPOCmd(),
		newCheckDuplicatesCmd(),
		newReplaceValuesCmd(),
		newAuthCmd(),
		newVersionCmd(),
	)

	return root
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		logError("%v", err)
		os.Exit(1)
	}
}

// ---------------------------------------------------------------------------
// version (display version information)
// ---------------------------------------------------------------------------

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Long:  `Display version, commit hash, and build date.`,
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "nuxtkit version %s\n", version)
			fmt.Fprintf(out, "  commit:    %s\n", commit)
			fmt.Fprintf(out, "  built:     %s\n", date)
		},
	}
}
