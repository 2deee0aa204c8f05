package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/minios-linux/nuxtkit/config"
	"github.com/minios-linux/nuxtkit/settings"
	"github.com/minios-linux/nuxtkit/translate"
)

// ---------------------------------------------------------------------------
// auth (stored service credentials)
// ---------------------------------------------------------------------------

func newAuthCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Manage stored service credentials",
		Long: `Store translation-service credentials so that translate does not need
--token. Credentials are kept in ` + "`$XDG_DATA_HOME/nuxtkit/credentials.yaml`" + `
with owner-only permissions.

Examples:
  nuxtkit auth login --service deepl
  nuxtkit auth login --service baidu --token appId:key --options timeout:5000
  nuxtkit auth logout --service deepl
  nuxtkit auth logout                  Remove all credentials
  nuxtkit auth list`,
	}

	cmd.AddCommand(
		newAuthLoginCmd(),
		newAuthLogoutCmd(),
		newAuthListCmd(),
	)

	return cmd
}

func newAuthLoginCmd() *cobra.Command {
	var service, token, options string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Store the credential of a service",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAuthLogin(service, token, options, bufio.NewReader(stdin))
		},
	}

	cmd.Flags().StringVar(&service, "service", "", "Translation service (prompted when empty)")
	cmd.Flags().StringVar(&token, "token", "", "Credential (prompted when empty)")
	cmd.Flags().StringVar(&options, "options", "", "Default service options as key:value pairs")

	return cmd
}

func runAuthLogin(service, token, options string, in *bufio.Reader) error {
	if service == "" {
		var err error
		if service, err = promptService(in); err != nil {
			return err
		}
	}
	d, ok := translate.Services.Lookup(service)
	if !ok {
		return fmt.Errorf("%w: %s", translate.ErrUnsupportedService, service)
	}
	if d.Credential == "" {
		logInfo("%s needs no credential", d.Title)
		return nil
	}

	if token == "" {
		existing, err := settings.Get(d.Name)
		if err != nil {
			return err
		}
		question := fmt.Sprintf("Enter %s for %s: ", d.Credential, d.Title)
		if existing != nil {
			fmt.Fprintf(os.Stderr, "Current credential: %s\n", color.YellowString(settings.MaskKey(existing.Credential)))
			question = "Enter a new credential, or press Enter to keep it: "
		}
		if token, err = prompt(in, question); err != nil {
			return err
		}
		if token == "" {
			if existing != nil {
				logInfo("Keeping existing credential")
				return nil
			}
			return fmt.Errorf("no credential provided")
		}
	}

	if err := settings.Set(d.Name, &settings.Info{Credential: token, Options: options}); err != nil {
		return fmt.Errorf("saving credential: %w", err)
	}
	logSuccess("%s credential saved to %s", d.Title, settings.FilePath())
	return nil
}

func newAuthLogoutCmd() *cobra.Command {
	var service string

	cmd := &cobra.Command{
		Use:   "logout",
		Short: "Remove stored credentials",
		Long: `Remove the stored credential of one service, or of all services when
--service is not given.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if service == "" {
				if err := settings.RemoveAll(); err != nil {
					return err
				}
				logSuccess("All stored credentials removed")
				return nil
			}
			removed, err := settings.Remove(service)
			if err != nil {
				return err
			}
			if !removed {
				logWarning("No credential stored for %s", service)
				return nil
			}
			logSuccess("%s credential removed", service)
			return nil
		},
	}

	cmd.Flags().StringVar(&service, "service", "", "Service to log out of (default: all)")

	return cmd
}

func newAuthListCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "Show stored credentials",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := settings.Load()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			fmt.Fprintf(out, "%s\n", color.New(color.Bold).Sprintf("Stored credentials (%s)", settings.FilePath()))
			fmt.Fprintln(out, strings.Repeat("─", 60))
			if len(store) == 0 {
				fmt.Fprintln(out, "  none")
			}
			for _, name := range store.Services() {
				info := store[name]
				line := fmt.Sprintf("  %-16s %s", name, settings.MaskKey(info.Credential))
				if info.Options != "" {
					line += "  options: " + info.Options
				}
				fmt.Fprintln(out, line)
			}

			if env := os.Getenv(config.EnvPrefix + "TOKEN"); env != "" {
				fmt.Fprintf(out, "\n  %sTOKEN: %s (overrides stored credentials)\n", config.EnvPrefix, color.GreenString(settings.MaskKey(env)))
			}
			return nil
		},
	}
}
