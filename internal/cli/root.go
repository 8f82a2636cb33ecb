// Package cli implements the scatterbrush command line.
package cli

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/muesli/termenv"
	"github.com/spf13/cobra"

	"github.com/piwi3910/ScatterBrush/internal/logx"
	"github.com/piwi3910/ScatterBrush/internal/model"
	"github.com/piwi3910/ScatterBrush/internal/project"
)

const maxRecentCollections = 10

// App holds the state shared by all commands of one invocation.
type App struct {
	ConfigPath string
	Config     model.AppConfig
	Log        *slog.Logger

	stdout io.Writer
	stderr io.Writer
	out    *termenv.Output

	verbose, veryVerbose, quiet bool
}

// NewRootCmd builds the command tree writing to stdout and stderr.
func NewRootCmd(stdout, stderr io.Writer) *cobra.Command {
	a := &App{stdout: stdout, stderr: stderr}

	root := &cobra.Command{
		Use:           "scatterbrush",
		Short:         "Scatter objects onto scene surfaces with brush collections",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
	}
	root.SetOut(stdout)
	root.SetErr(stderr)

	pf := root.PersistentFlags()
	pf.BoolVarP(&a.verbose, "verbose", "v", false, "log informational messages")
	pf.BoolVar(&a.veryVerbose, "vv", false, "log debug messages")
	pf.BoolVarP(&a.quiet, "quiet", "q", false, "log errors only")
	pf.StringVar(&a.ConfigPath, "config", "", "config file (default ~/.scatterbrush/config.toml)")

	root.AddCommand(newCollectionCmd(a), newPresetCmd(a), newPaintCmd(a))
	return root
}

// Execute runs the command line and returns the process exit code.
func Execute() int {
	root := NewRootCmd(os.Stdout, os.Stderr)
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, termenv.NewOutput(os.Stderr).String("error: "+err.Error()).Foreground(termenv.ANSIRed))
		return 1
	}
	return 0
}

func (a *App) setup(cmd *cobra.Command) error {
	if a.ConfigPath == "" {
		a.ConfigPath = project.DefaultConfigPath()
	}
	cfg, err := project.LoadAppConfig(a.ConfigPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	a.Config = cfg

	level := logx.ParseLevel(cfg.LogLevel)
	if a.veryVerbose || a.verbose || a.quiet {
		level = logx.LevelFromFlags(a.veryVerbose, a.verbose, a.quiet)
	}
	a.Log = logx.New(a.stderr, level)
	a.out = termenv.NewOutput(a.stdout)
	a.Log.Debug("config loaded", "path", a.ConfigPath, "collections", project.CollectionDir(a.Config))
	return nil
}

func (a *App) saveConfig() {
	if err := project.SaveAppConfig(a.ConfigPath, a.Config); err != nil {
		a.Log.Warn("could not save config", "path", a.ConfigPath, "err", err)
	}
}

// resolveCollection opens a collection by file path or by id in the
// collection directory. An empty ref opens the last used collection.
func (a *App) resolveCollection(ref string) (*model.BrushCollection, string, error) {
	if ref == "" {
		return project.LastUsedCollection(&a.Config)
	}
	path := ref
	if _, err := os.Stat(ref); err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return nil, "", err
		}
		p, ferr := project.FindCollection(project.CollectionDir(a.Config), ref)
		if ferr != nil {
			return nil, "", ferr
		}
		path = p
	}
	c, err := project.LoadCollection(path)
	if err != nil {
		return nil, "", err
	}
	a.Config.TouchRecent(c.ID, maxRecentCollections)
	return c, path, nil
}

// Output helpers. Colours are dropped automatically when stdout is not a
// terminal.

func (a *App) printf(format string, args ...any) {
	fmt.Fprintf(a.stdout, format, args...)
}

func (a *App) heading(s string) string {
	return a.out.String(s).Bold().String()
}

func (a *App) good(s string) string {
	return a.out.String(s).Foreground(a.out.Color("2")).Bold().String()
}

func (a *App) warn(s string) string {
	return a.out.String(s).Foreground(a.out.Color("3")).String()
}

func (a *App) faint(s string) string {
	return a.out.String(s).Faint().String()
}
