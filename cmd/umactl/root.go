package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/latoulicious/umaroster/internal/bootstrap"
	"github.com/latoulicious/umaroster/internal/config"
	"github.com/latoulicious/umaroster/internal/version"
	"github.com/spf13/cobra"
)

// opener builds a runtime from configuration; tests swap it out
type opener func(*config.Config) (*bootstrap.Runtime, error)

// app carries state shared by every subcommand of one invocation
type app struct {
	configDir string
	timeout   time.Duration
	open      opener
	rt        *bootstrap.Runtime
}

func newRootCmd(open opener) *cobra.Command {
	a := &app{open: open}

	rootCmd := &cobra.Command{
		Use:   "umactl",
		Short: "Inspect and edit the Umamusume roster",
		Long: `umactl loads the roster and spark catalogs and runs store operations locally.

Favourites are written to the configured backend. Saves and deletes only
live for the duration of one command.`,
		SilenceUsage: true,
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return a.close()
		},
	}

	rootCmd.PersistentFlags().StringVar(&a.configDir, "config-dir", ".", "directory containing config/uma.yaml, config/uma.toml or .env")
	rootCmd.PersistentFlags().DurationVar(&a.timeout, "timeout", time.Minute, "deadline for catalog and persistence calls")

	rootCmd.AddCommand(
		newRosterCmd(a),
		newSparksCmd(a),
		newLoadoutCmd(a),
		newDBCmd(a),
		newVersionCmd(),
	)

	return rootCmd
}

// runtime lazily opens the configured backends
func (a *app) runtime() (*bootstrap.Runtime, error) {
	if a.rt != nil {
		return a.rt, nil
	}

	cfg, err := config.LoadFrom(a.configDir)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	rt, err := a.open(cfg)
	if err != nil {
		return nil, err
	}
	a.rt = rt
	return rt, nil
}

// loaded opens the runtime and loads both catalogs.
// A partial failure is returned only when nothing usable was loaded.
func (a *app) loaded(ctx context.Context) (*bootstrap.Runtime, error) {
	rt, err := a.runtime()
	if err != nil {
		return nil, err
	}

	if err := rt.Store.Load(ctx); err != nil {
		if rt.Store.Count() == 0 && len(rt.Store.Sparks()) == 0 {
			return nil, fmt.Errorf("failed to load catalog: %w", err)
		}
		return rt, &partialLoadError{err: err}
	}
	return rt, nil
}

// context returns a context bounded by --timeout
func (a *app) context(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	parent := cmd.Context()
	if parent == nil {
		parent = context.Background()
	}
	return context.WithTimeout(parent, a.timeout)
}

func (a *app) close() error {
	if a.rt == nil {
		return nil
	}
	err := a.rt.Close()
	a.rt = nil
	return err
}

// partialLoadError reports that one catalog failed while the other loaded
type partialLoadError struct {
	err error
}

func (e *partialLoadError) Error() string {
	return fmt.Sprintf("catalog partially loaded: %v", e.err)
}

func (e *partialLoadError) Unwrap() error {
	return e.err
}

// warnPartial prints a partial load warning and clears it
func warnPartial(cmd *cobra.Command, err error) error {
	var partial *partialLoadError
	if errors.As(err, &partial) {
		fmt.Fprintln(cmd.ErrOrStderr(), warnStyle.Render("warning: "+partial.Error()))
		return nil
	}
	return err
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), version.Get().String())
		},
	}
}
