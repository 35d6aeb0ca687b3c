package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/bashhack/tltp/internal/config"
	"github.com/bashhack/tltp/internal/errs"
	"github.com/bashhack/tltp/internal/flagfile"
)

// Version information (set by ldflags during build)
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// Exit codes
const (
	exitOK     = 0
	exitConfig = 1
	exitCrypto = 2
)

func main() {
	app := NewDefaultApp()
	run(app, os.Args)
}

// run is the testable entrypoint for the application
func run(app *App, args []string) {
	argv, err := flagfile.Expand(args[1:])
	if err != nil {
		app.fail(err)
		return
	}
	if argv == nil {
		argv = []string{}
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cmd := newRootCmd(app)
	cmd.SetArgs(argv)
	if err := cmd.ExecuteContext(ctx); err != nil {
		app.fail(err)
	}
}

func newRootCmd(app *App) *cobra.Command {
	var listGenerators bool

	cmd := &cobra.Command{
		Use:   "tltp [flags] NAME [NAME...]",
		Short: "Generate time-derived passwords",
		Long: `Generate a time-derived password for the given name. The name may be any
string, such as a service, domain, URI, or an arbitrary value. Names must be
remembered, as this password manager stores no state: the name and the master
password uniquely determine the derived password at the current time.
Names are used exactly as typed: case and whitespace change the password.

Every flag may also be set in the environment as TLTP_<FLAG>, for example
TLTP_INTERVAL=30. ` + flagfile.EnvVar + ` names a file of default arguments.`,
		Version:       fmt.Sprintf("%s (%s) built on %s", app.VersionInfo.Version, app.VersionInfo.Commit, app.VersionInfo.Date),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if listGenerators {
				app.ListGenerators()
				return nil
			}
			return app.Generate(cmd.Context(), cmd, args)
		},
	}

	cmd.SetOut(app.Stdout)
	cmd.SetErr(app.Stderr)
	cmd.SetVersionTemplate("tltp version {{.Version}}\n")

	config.RegisterFlags(cmd.Flags())
	cmd.Flags().BoolVar(&listGenerators, "list-generators", false, "list the built-in password generators")

	return cmd
}

// fail reports err and exits with the code for its kind.
func (a *App) fail(err error) {
	fmt.Fprintf(a.Stderr, "❌ %v\n", err)
	a.Exit(exitCode(err))
}

func exitCode(err error) int {
	switch {
	case err == nil:
		return exitOK
	case errors.Is(err, errs.ErrCrypto):
		return exitCrypto
	default:
		return exitConfig
	}
}
