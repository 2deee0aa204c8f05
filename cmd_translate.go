package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/minios-linux/nuxtkit/config"
	"github.com/minios-linux/nuxtkit/localedir"
	"github.com/minios-linux/nuxtkit/lockfile"
	"github.com/minios-linux/nuxtkit/settings"
	"github.com/minios-linux/nuxtkit/translate"
)

// ---------------------------------------------------------------------------
// translate
// ---------------------------------------------------------------------------

type translateArgs struct {
	service, token, options string
	replace, incremental    bool
	concurrency             int
}

func newTranslateCmd() *cobra.Command {
	var a translateArgs

	cmd := &cobra.Command{
		Use:   "translate",
		Short: "Translate missing keys with a translation service",
		Long: `Translate the keys of the default locale that other locales lack, in the
global file and every page file, with a machine-translation service.

The credential comes from --token, NUXTKIT_TOKEN, the credential stored
with "nuxtkit auth login", or an interactive prompt, in that order. A key
that fails to translate is logged and skipped; every touched file is
written once.

Examples:
  nuxtkit translate --service deepl --token $DEEPL_KEY
  nuxtkit translate --service googlefree --concurrency 4
  nuxtkit translate --service openai --options model:gpt-4o-mini,temperature:0
  nuxtkit translate --service google --replace`,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := loadProject()
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()
			return runTranslate(ctx, p, a, bufio.NewReader(stdin))
		},
	}

	cmd.Flags().StringVar(&a.service, "service", "", "Translation service (see 'nuxtkit services')")
	cmd.Flags().StringVar(&a.token, "token", "", "Credential of the service (or NUXTKIT_TOKEN)")
	cmd.Flags().StringVar(&a.options, "options", "", "Service options as key:value pairs, comma-separated")
	cmd.Flags().BoolVar(&a.replace, "replace", false, "Translate every key, replacing existing translations")
	cmd.Flags().BoolVar(&a.incremental, "incremental", false, "Also re-translate keys whose source text changed (uses "+lockfile.FileName+")")
	cmd.Flags().IntVar(&a.concurrency, "concurrency", 0, "Number of files translated in parallel (default from config, else 1)")

	_ = cmd.RegisterFlagCompletionFunc("service", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		var out []string
		for _, d := range translate.Services.Descriptors() {
			out = append(out, d.Name+"\t"+d.Title)
		}
		return out, cobra.ShellCompDirectiveNoFileComp
	})

	return cmd
}

func runTranslate(ctx context.Context, p *config.Project, a translateArgs, in *bufio.Reader) error {
	desc, err := resolveService(p, a.service, in)
	if err != nil {
		return err
	}
	credential, storedOptions, err := resolveCredential(p, desc, a.token, in)
	if err != nil {
		return err
	}

	concurrency := a.concurrency
	if concurrency < 1 {
		concurrency = p.Concurrency
	}
	runner := &translate.Runner{
		Service:     desc.Name,
		Credential:  credential,
		Options:     mergeOptions(p.Options, storedOptions, a.options),
		From:        p.DefaultLocale,
		Replace:     a.replace,
		Concurrency: concurrency,
		Logger:      logger,
	}

	var lock *lockfile.LockFile
	if a.incremental {
		if lock, err = lockfile.Load(p.Root); err != nil {
			return err
		}
		runner.Lock = lock
		runner.LockRoot = p.Root
		logger.Debug("loaded lock file", "path", lock.Path(), "summary", lock.Summary())
	}

	jobs, err := translationJobs(projectDir(p), p.DefaultLocale, otherLocales(p, p.DefaultLocale))
	if err != nil {
		return err
	}

	total := runner.Total(jobs)
	if total > 0 && !logLevel.Silent() {
		bar := progressbar.NewOptions(total,
			progressbar.OptionSetWriter(os.Stderr),
			progressbar.OptionSetDescription("Translating"),
			progressbar.OptionShowCount(),
			progressbar.OptionClearOnFinish(),
		)
		runner.Progress = func(translate.Job, string, error) { _ = bar.Add(1) }
		defer bar.Finish()
	}
	logInfo("Translating %d keys in %d files with %s", total, len(jobs), desc.Title)

	results, runErr := runner.Run(ctx, jobs)
	if lock != nil && results != nil {
		if err := lock.Save(); err != nil {
			logError("Failed to save lock file: %v", err)
		}
	}
	if results == nil {
		return runErr
	}

	translated, failed := 0, 0
	for _, r := range results {
		translated += r.Translated
		failed += r.Failed
	}
	if runErr != nil {
		return runErr
	}
	if failed > 0 {
		logWarning("Translated %d keys, %d failed", translated, failed)
		return nil
	}
	logSuccess("Translated %d keys", translated)
	return nil
}

// translationJobs pairs every file of from with the file of each code at the
// same place.
func translationJobs(dir localedir.Dir, from string, codes []string) ([]translate.Job, error) {
	files, err := dir.Files(from)
	if err != nil {
		return nil, err
	}
	var jobs []translate.Job
	for _, code := range codes {
		for _, f := range files {
			target := localedir.Counterpart(f, from, code)
			jobs = append(jobs, translate.Job{
				Scope:  dir.Scope(f),
				Locale: code,
				Source: loadTree(f),
				Target: loadTree(target),
				Path:   target,
			})
		}
	}
	return jobs, nil
}

// mergeOptions parses option strings and overlays them left to right.
func mergeOptions(layers ...string) translate.Options {
	out := translate.Options{}
	for _, l := range layers {
		for k, v := range translate.ParseOptions(l) {
			out[k] = v
		}
	}
	return out
}

// resolveService picks the service from the flag, the project file or a
// prompt.
func resolveService(p *config.Project, service string, in *bufio.Reader) (translate.Descriptor, error) {
	if service == "" {
		service = p.Service
	}
	if service == "" {
		var err error
		if service, err = promptService(in); err != nil {
			return translate.Descriptor{}, err
		}
	}
	d, ok := translate.Services.Lookup(service)
	if !ok {
		return translate.Descriptor{}, fmt.Errorf("%w: %s", translate.ErrUnsupportedService, service)
	}
	return d, nil
}

func promptService(in *bufio.Reader) (string, error) {
	descs := translate.Services.Descriptors()
	fmt.Fprintln(os.Stderr, "Choose a translation service:")
	for i, d := range descs {
		fmt.Fprintf(os.Stderr, "  %2d) %-16s %s\n", i+1, d.Name, d.Title)
	}
	answer, err := prompt(in, "Service: ")
	if err != nil {
		return "", err
	}
	if n, err := strconv.Atoi(answer); err == nil {
		if n < 1 || n > len(descs) {
			return "", fmt.Errorf("no service numbered %d", n)
		}
		return descs[n-1].Name, nil
	}
	return answer, nil
}

// needsCredential reports whether d cannot work without a credential.
func needsCredential(d translate.Descriptor) bool {
	return d.Credential != "" && !strings.Contains(d.Credential, "optional")
}

// resolveCredential returns the credential of d from the flag, the
// environment, the credential store or a prompt, together with the options
// stored with it.
func resolveCredential(p *config.Project, d translate.Descriptor, token string, in *bufio.Reader) (string, string, error) {
	if token != "" {
		return token, "", nil
	}
	if p.Token != "" {
		return p.Token, "", nil
	}
	info, err := settings.Get(d.Name)
	if err != nil {
		logWarning("Ignoring stored credentials: %v", err)
	} else if info != nil {
		logger.Debug("using stored credential", "service", d.Name, "key", settings.MaskKey(info.Credential))
		return info.Credential, info.Options, nil
	}
	if !needsCredential(d) {
		return "", "", nil
	}
	cred, err := prompt(in, fmt.Sprintf("Enter %s for %s: ", d.Credential, d.Title))
	if err != nil {
		return "", "", err
	}
	if cred == "" {
		return "", "", fmt.Errorf("%s is required for %s", d.Credential, d.Name)
	}
	return cred, "", nil
}

// ---------------------------------------------------------------------------
// services
// ---------------------------------------------------------------------------

func newServicesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "services",
		Short: "List the available translation services",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := settings.Load()
			if err != nil {
				logWarning("Ignoring stored credentials: %v", err)
				store = settings.Store{}
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "SERVICE\tNAME\tCREDENTIAL\tSTORED")
			for _, d := range translate.Services.Descriptors() {
				cred := d.Credential
				if cred == "" {
					cred = "none"
				}
				stored := ""
				if _, ok := store[d.Name]; ok {
					stored = color.GreenString("yes")
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", d.Name, d.Title, cred, stored)
			}
			return w.Flush()
		},
	}
}
