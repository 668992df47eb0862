package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"runtime"
	"runtime/debug"
	"time"

	"github.com/spf13/cobra"

	"salonathome.in/cli/internal/apiclient"
	"salonathome.in/cli/internal/config"
	"salonathome.in/cli/internal/interfaces/di"
	"salonathome.in/cli/internal/logging"
)

var (
	Version   = "dev"     // Overridden by ldflags
	BuildTime = "unknown" // Overridden by ldflags
)

// Exit codes beyond the generic failure.
const (
	exitFailure        = 1
	exitSessionExpired = 3
	exitUnreachable    = 4
)

// app carries global flag values and the container built from them.
type app struct {
	configPath string
	apiURL     string
	timeout    time.Duration
	debug      bool
	jsonOut    bool

	cfg       *config.Config
	container *di.Container
}

func (a *app) printer(cmd *cobra.Command) printer {
	return printer{out: cmd.OutOrStdout(), json: a.jsonOut}
}

// NewRootCommand builds the sah command tree.
func NewRootCommand() *cobra.Command {
	return newRootCommand(&app{})
}

func newRootCommand(a *app) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "sah",
		Short: "Salon at Home - book home beauty services from the terminal",
		Long: `sah talks to the Salon at Home backend: browse the service catalog,
book and manage visits, apply promo codes, spend loyalty points and
complete online payments.

The session lives in cookies stored under ~/.salonathome; an expired
access token is refreshed automatically.`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
	}

	rootCmd.SetVersionTemplate(fmt.Sprintf("{{.Name}} version {{.Version}}\nBuild time: %s\nGo version: %s\nPlatform: %s/%s\n",
		BuildTime, goVersion(), runtime.GOOS, runtime.GOARCH))

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&a.configPath, "config", "", "Config file path (default is $HOME/.salonathome/config.yaml)")
	flags.StringVar(&a.apiURL, "api-url", config.DefaultAPIEndpoint, "Backend API base URL")
	flags.DurationVar(&a.timeout, "timeout", apiclient.DefaultTimeout, "Per-request timeout")
	flags.BoolVar(&a.debug, "debug", false, "Enable debug logging")
	flags.BoolVar(&a.jsonOut, "json", false, "Print results as JSON")

	rootCmd.AddCommand(newAuthCommand(a))
	rootCmd.AddCommand(newCatalogCommand(a))
	rootCmd.AddCommand(newBookingsCommand(a))
	rootCmd.AddCommand(newPromoCommand(a))
	rootCmd.AddCommand(newLoyaltyCommand(a))
	rootCmd.AddCommand(newPaymentsCommand(a))
	rootCmd.AddCommand(newGeoCommand(a))
	rootCmd.AddCommand(newConfigCommand(a))

	return rootCmd
}

// setup loads configuration, applies flag overrides and builds the container.
func (a *app) setup(cmd *cobra.Command) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) || cmd.Annotations["creates-config"] != "true" {
			return err
		}
		cfg = config.DefaultConfig()
	}
	if err := applyConfigurationOverrides(cmd, cfg, a); err != nil {
		return fmt.Errorf("failed to apply configuration overrides: %w", err)
	}
	a.cfg = cfg

	if !needsBackend(cmd) {
		return nil
	}

	logger, err := logging.NewConsoleLogger(cfg.LogLevel, a.debug)
	if err != nil {
		return err
	}
	container, err := di.NewContainer(cfg, logger)
	if err != nil {
		return err
	}
	if cmd.Annotations["reports-session"] != "true" {
		errOut := cmd.ErrOrStderr()
		container.OnSessionExpired(func(string) {
			fmt.Fprintln(errOut, errorStyle.Render(apiclient.MsgSessionExpired))
		})
	}
	a.container = container
	return nil
}

// teardown runs even when the command failed, so a pending logout signal
// is reported and the cookie jar is persisted.
func (a *app) teardown(ctx context.Context) error {
	if a.container == nil {
		return nil
	}
	err := a.container.Shutdown(ctx)
	_ = a.container.Logger.Sync()
	a.container = nil
	return err
}

// needsBackend is false for commands that only read or write local config.
func needsBackend(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations["offline"] == "true" {
			return false
		}
	}
	return true
}

var offline = map[string]string{"offline": "true"}

// applyConfigurationOverrides applies flags that were set explicitly.
func applyConfigurationOverrides(cmd *cobra.Command, cfg *config.Config, a *app) error {
	flags := cmd.Flags()
	if flags.Changed("api-url") {
		if a.apiURL == "" {
			return errors.New("API URL cannot be empty")
		}
		cfg.APIEndpoint = a.apiURL
	}
	if flags.Changed("timeout") {
		cfg.Timeout = a.timeout
	}
	if a.debug {
		cfg.LogLevel = "debug"
	}
	return cfg.Validate()
}

// goVersion returns the Go version used to build the binary
func goVersion() string {
	if info, ok := debug.ReadBuildInfo(); ok {
		return info.GoVersion
	}
	return "unknown"
}

// exitCode maps an error to the process exit status.
func exitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case apiclient.IsSessionExpired(err):
		return exitSessionExpired
	case errors.Is(err, apiclient.ErrTimeout), errors.Is(err, apiclient.ErrNetwork):
		return exitUnreachable
	default:
		return exitFailure
	}
}

// Run executes the command tree and returns the exit status.
func Run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	a := &app{}
	rootCmd := newRootCommand(a)
	rootCmd.SetArgs(args)
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)

	err := rootCmd.ExecuteContext(ctx)
	if terr := a.teardown(context.WithoutCancel(ctx)); err == nil {
		err = terr
	}
	if err != nil {
		if apiclient.IsSessionExpired(err) {
			fmt.Fprintln(stderr, mutedStyle.Render("Run 'sah auth login' to sign in again."))
		} else {
			fmt.Fprintln(stderr, errorStyle.Render("Error: "+err.Error()))
		}
	}
	return exitCode(err)
}
