package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/bashhack/tltp/internal/clipboard"
	"github.com/bashhack/tltp/internal/clock"
	"github.com/bashhack/tltp/internal/config"
	"github.com/bashhack/tltp/internal/errs"
	"github.com/bashhack/tltp/internal/generator"
	"github.com/bashhack/tltp/internal/kdf"
	"github.com/bashhack/tltp/internal/logging"
	"github.com/bashhack/tltp/internal/password"
	"github.com/bashhack/tltp/internal/prompt"
	"github.com/bashhack/tltp/internal/secure"
)

// ExitFunc is a function type for exiting the program
type ExitFunc func(code int)

// App represents the main application
type App struct {
	Registry  *generator.Registry
	Clock     clock.Clocker
	Secrets   prompt.SecretReader
	Clipboard clipboard.Copier
	// Params, when set, replaces the stretching parameters chosen by --kdf.
	Params      *kdf.Params
	Exit        ExitFunc
	Stdout      io.Writer
	Stderr      io.Writer
	VersionInfo VersionInfo
}

// VersionInfo contains version information
type VersionInfo struct {
	Version string
	Commit  string
	Date    string
}

// NewDefaultApp creates a new App with default dependencies
func NewDefaultApp() *App {
	return &App{
		Registry:  generator.NewDefaultRegistry(),
		Clock:     clock.System{},
		Secrets:   prompt.NewTerminal(os.Stdin, os.Stderr),
		Clipboard: clipboard.System{},
		Exit:      os.Exit,
		Stdout:    os.Stdout,
		Stderr:    os.Stderr,
		VersionInfo: VersionInfo{
			Version: version,
			Commit:  commit,
			Date:    date,
		},
	}
}

// ListGenerators lists the registered password generators
func (a *App) ListGenerators() {
	fmt.Fprintln(a.Stdout, "Available generators:")

	for _, e := range a.Registry.List() {
		fmt.Fprintf(a.Stdout, "  %-14s %s\n", e.Ref, e.Description)
	}
}

// Generate derives and prints the passwords for names. Every setting is
// checked before the master password is requested.
func (a *App) Generate(ctx context.Context, cmd *cobra.Command, names []string) error {
	if len(names) == 0 {
		return errs.Input("at least one NAME is required (see --help)")
	}

	v, err := config.NewViper(cmd.Flags())
	if err != nil {
		return err
	}
	cfg, err := config.Load(v, names)
	if err != nil {
		return err
	}

	validator, err := config.NewValidator()
	if err != nil {
		return fmt.Errorf("failed to initialize validator: %w", err)
	}
	if err := validator.Validate(cfg); err != nil {
		return err
	}

	level, err := cfg.Level()
	if err != nil {
		return err
	}
	logger := logging.New(a.Stderr, level)

	gen, err := cfg.ResolveGenerator(a.Registry)
	if err != nil {
		return err
	}

	params, err := cfg.Params()
	if err != nil {
		return err
	}
	if a.Params != nil {
		params = *a.Params
	}

	req := password.Request{
		Interval:  cfg.Interval(),
		Offset:    cfg.Offset,
		Size:      cfg.Size,
		Generator: gen,
	}
	for _, name := range cfg.Names {
		r := req
		r.Name = name
		if err := password.Validate(r); err != nil {
			return err
		}
	}

	logger.Debug("configuration loaded",
		"names", len(cfg.Names),
		"interval", cfg.Interval(),
		"offset", cfg.Offset,
		"size", cfg.Size,
		"kdf", params.String(),
	)

	secret, err := prompt.ReadMaster(a.Secrets, cfg.Confirm)
	if err != nil {
		return err
	}
	defer secure.Zero(secret)

	manager := password.NewManager(a.Clock, params, logger)
	start := time.Now()

	var results []password.Result
	if cfg.Adjacent {
		for _, name := range cfg.Names {
			r := req
			r.Name = name
			adjacent, err := manager.DeriveAdjacent(ctx, secret, r)
			if err != nil {
				return err
			}
			results = append(results, adjacent...)
		}
	} else {
		results, err = manager.DeriveNames(ctx, secret, cfg.Names, req)
		if err != nil {
			return err
		}
	}

	logger.Info("passwords derived", "count", len(results), "elapsed", time.Since(start))

	lines := formatResults(results, len(cfg.Names) > 1, cfg.Adjacent, cfg.Offset)
	if cfg.Show {
		for _, line := range lines {
			fmt.Fprintln(a.Stdout, line)
		}
	}

	if cfg.Clip {
		if err := a.copyResults(results, lines); err != nil {
			return err
		}
	}

	if cfg.Remaining {
		a.printRemaining(results[0].Window)
	}

	return nil
}

// formatResults renders one line per result. A lone password is printed
// bare so it can be piped; anything else is labelled.
func formatResults(results []password.Result, multiName, adjacent bool, offset int64) []string {
	lines := make([]string, 0, len(results))
	for _, res := range results {
		var label []string
		if multiName {
			label = append(label, res.Name)
		}
		if adjacent {
			label = append(label, windowLabel(res.Offset-offset))
		}
		if len(label) == 0 {
			lines = append(lines, res.Password)
			continue
		}
		lines = append(lines, fmt.Sprintf("%s: %s", strings.Join(label, " "), res.Password))
	}
	return lines
}

func windowLabel(delta int64) string {
	switch delta {
	case -1:
		return "previous"
	case 1:
		return "next"
	default:
		return "current"
	}
}

// copyResults puts a single password on the clipboard as is, or the
// labelled lines when there are several.
func (a *App) copyResults(results []password.Result, lines []string) error {
	text := strings.Join(lines, "\n")
	desc := "Passwords"
	if len(results) == 1 {
		text = results[0].Password
		desc = "Password"
	}

	if err := a.Clipboard.Copy(text); err != nil {
		return fmt.Errorf("failed to copy to clipboard: %w", err)
	}
	fmt.Fprintf(a.Stderr, "✅ %s copied to clipboard\n", desc)
	return nil
}

// printRemaining writes the rotation time to stderr so stdout stays
// pipeable. It always describes the live window, whatever the offset.
func (a *App) printRemaining(w clock.Window) {
	now := w.RotatesAt.Add(-w.Remaining)
	fmt.Fprintf(a.Stderr, "Your passwords will rotate %s at %s.\n",
		humanize.RelTime(w.RotatesAt, now, "ago", "from now"),
		w.RotatesAt.UTC().Format("2006-01-02 15:04:05 MST"))
	fmt.Fprintln(a.Stderr, "Use --offset=1 to get the next password or --offset=-1 to get the previous one.")
}
