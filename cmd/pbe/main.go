package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"runtime/debug"
	"strings"
	"syscall"

	cli "github.com/urfave/cli/v3"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"pbe/config"
	"pbe/editor"
	"pbe/misc"
	"pbe/state"
	"pbe/store"
	"pbe/theme"
)

// initializeAppContext prepares application context before command execution but
// after command line has been parsed
func initializeAppContext(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	var err error

	if cmd.NArg() == 0 {
		// nothing to do, just return
		return ctx, nil
	}

	env := state.EnvFromContext(ctx)

	configFile := cmd.String("config")
	if env.Cfg, err = config.LoadConfiguration(configFile); err != nil {
		return ctx, fmt.Errorf("unable to prepare configuration: %w", err)
	}
	if cmd.Bool("debug") {
		if env.Rpt, err = env.Cfg.Reporting.Prepare(); err != nil {
			return ctx, fmt.Errorf("unable to prepare debug reporter: %w", err)
		}
		// save complete processed configuration if external configuration was provided
		if len(configFile) > 0 {
			// we do not want any of your secrets!
			if data, err := config.Dump(env.Cfg); err == nil {
				env.Rpt.StoreData(fmt.Sprintf("config/%s", filepath.Base(configFile)), data)
			}
		}
	}
	if env.Log, err = env.Cfg.Logging.Prepare(env.Rpt); err != nil {
		return ctx, fmt.Errorf("unable to prepare logs: %w", err)
	}
	env.RedirectStdLog()

	env.Log.Debug("Program started", zap.Strings("args", os.Args), zap.String("ver", misc.GetVersion()), zap.String("runtime", runtime.Version()), zap.String("hash", misc.GetGitHash()))

	if env.Rpt != nil {
		env.Log.Info("Creating debug report", zap.String("location", env.Rpt.Name()))
	}
	if len(configFile) == 0 && env.Log != nil {
		env.Log.Info("Using defaults (no configuration file)")
	}

	if env.Store, err = store.Open(env.Cfg.Editor.StorePath, env.Log.Named("store")); err != nil {
		return ctx, fmt.Errorf("unable to open page store: %w", err)
	}
	if env.Rpt != nil {
		if err := env.Rpt.StoreCopy(fmt.Sprintf("store/%s", filepath.Base(env.Cfg.Editor.StorePath)), env.Cfg.Editor.StorePath); err != nil {
			env.Log.Warn("Unable to copy page store into debug report", zap.Error(err))
		}
	}
	env.Session = editor.NewSession(env.Store, editor.Options{
		ProjectRef: env.Cfg.Editor.ProjectRef,
		Credential: string(env.Cfg.Editor.APIToken),
		Assets:     env.Cfg.Assets.Limits(),
		Log:        env.Log,
	})
	return ctx, nil
}

func destroyAppContext(ctx context.Context, cmd *cli.Command) (err error) {
	env := state.EnvFromContext(ctx)

	if env.Log != nil {
		env.Log.Debug("Program ended", zap.Duration("elapsed", env.Uptime()), zap.Strings("parsed args", cmd.Args().Slice()))
	}

	if env.Store != nil {
		if er := env.Store.Close(); er != nil {
			err = multierr.Append(err, fmt.Errorf("unable to close page store: %w", er))
		}
	}

	// close logging
	env.RestoreStdLog()

	// log is synced now and result can be used in report if necessary, errors
	// must be reported directly to stderr from now on
	if env.Rpt != nil {
		if er := env.Rpt.Close(); er != nil {
			err = multierr.Append(err, fmt.Errorf("unable to close debug report: %w", er))
		}
	}
	// reporting is closed now - remove empty panic file if any
	if env.Cfg != nil && len(env.Cfg.Logging.FileLogger.Destination) > 0 {
		debug.SetCrashOutput(nil, debug.CrashOptions{})
		fname := filepath.Join(filepath.Dir(env.Cfg.Logging.FileLogger.Destination), misc.GetAppName()+"-panic.log")
		if fi, er := os.Stat(fname); er == nil && fi.Size() == 0 {
			if er := os.Remove(fname); er != nil {
				err = multierr.Append(err, fmt.Errorf("unable to remove empty panic log file '%s': %w", fname, er))
			}
		}
	}
	return
}

// Ignore urfave/cli default error handling - cli.Exit() is non-transparent,
// subcommands return regular errors.
var errWasHandled bool

// this is called before appContext is destroyed, so we have a chance to
// properly log any error from subcommand
func exitErrHandler(ctx context.Context, _ *cli.Command, err error) {
	env := state.EnvFromContext(ctx)

	if env.Log != nil {
		env.Log.Error("Program ended with error", zap.Error(err))
		errWasHandled = true
	}
}

func usageErrorHandler(_ context.Context, _ *cli.Command, err error, _ bool) error {
	// do nothing special, error is reported either by exitErrHandler or on
	// exit directly to stderr.
	return err
}

func subcommandNotFoundHandler(ctx context.Context, _ *cli.Command, name string) {
	state.EnvFromContext(ctx).Log.Warn("Unknown command, nothing to do", zap.String("command", name))
}

func main() {

	// allow graceful shutdown on interrupt
	ctx, stop := signal.NotifyContext(state.ContextWithEnv(context.Background()), os.Interrupt, syscall.SIGTERM)

	app := &cli.Command{
		Name:            misc.GetAppName(),
		Usage:           "page builder engine for visual website editing",
		Version:         misc.GetVersion() + " (" + runtime.Version() + ") : " + misc.GetGitHash(),
		HideHelpCommand: true,
		Before:          initializeAppContext,
		After:           destroyAppContext,
		OnUsageError:    usageErrorHandler,
		ExitErrHandler:  exitErrHandler,
		CommandNotFound: subcommandNotFoundHandler,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Aliases: []string{"c"}, DefaultText: "", Usage: "load configuration from `FILE` (YAML)"},
			&cli.BoolFlag{Name: "debug", Aliases: []string{"d"}, Usage: "changes program behavior to help troubleshooting, produces report archive"},
		},
		Commands: []*cli.Command{
			{
				Name:         "new",
				Usage:        "Creates a new page with starter sections and saves it",
				OnUsageError: usageErrorHandler,
				Action:       runNew,
				ArgsUsage:    "REF [NAME]",
			},
			{
				Name:         "list",
				Usage:        "Lists stored pages in natural name order",
				OnUsageError: usageErrorHandler,
				Action:       runList,
			},
			{
				Name:         "delete",
				Usage:        "Deletes a stored page",
				OnUsageError: usageErrorHandler,
				Action:       runDelete,
				ArgsUsage:    "REF",
			},
			{
				Name:         "rename",
				Usage:        "Renames a stored page",
				OnUsageError: usageErrorHandler,
				Action:       runRename,
				ArgsUsage:    "REF NAME",
			},
			{
				Name:         "set",
				Usage:        "Updates section content or styles on a stored page",
				OnUsageError: usageErrorHandler,
				Action:       runSet,
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "styles", Usage: "target the section's styles instead of its content"},
					&cli.StringFlag{Name: "element", Usage: "target element `ID` inside the section"},
				},
				ArgsUsage: "REF SECTION_ID KEY=VALUE [KEY=VALUE...]",
			},
			{
				Name:         "apply-theme",
				Usage:        "Applies a theme preset to a stored page (presets: " + strings.Join(theme.PresetNames(), ", ") + ")",
				OnUsageError: usageErrorHandler,
				Action:       runApplyTheme,
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "detach", Usage: "switch to a custom palette keeping the applied colors"},
				},
				ArgsUsage: "REF [PRESET]",
			},
			{
				Name:         "resolve",
				Usage:        "Prints resolved styles for a page, section or element",
				OnUsageError: usageErrorHandler,
				Action:       runResolve,
				ArgsUsage:    "REF [SECTION_ID [ELEMENT_ID]]",
			},
			{
				Name:         "export",
				Usage:        "Exports all pages and theme settings as a project bundle",
				OnUsageError: usageErrorHandler,
				Action:       runExport,
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "overwrite", Aliases: []string{"ow"}, Usage: "continue even if destination exists, overwrite files"},
				},
				ArgsUsage: "[DESTINATION]",
			},
			{
				Name:         "import",
				Usage:        "Imports a project bundle into the store",
				OnUsageError: usageErrorHandler,
				Action:       runImport,
				ArgsUsage:    "BUNDLE",
			},
			{
				Name:  "dumpconfig",
				Usage: "Dumps either default or actual configuration (YAML)",
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "default", Usage: "output default embedded configuration"},
				},
				OnUsageError: usageErrorHandler,
				Action:       outputConfiguration,
				ArgsUsage:    "DESTINATION",
			},
		},
	}

	var err error
	// NOTE: os.Exit is called at the end of main to set exit code, make sure
	// there are no other deferred functions after that
	defer func() {
		stop()
		if err != nil {
			// It may happen that log is either not set yet (argument parsing) or already closed,
			// report errors to stderr directly
			if !errWasHandled {
				fmt.Fprintf(os.Stderr, "Program ended with error: %v\n", err)
			}
			os.Exit(1)
		}
	}()
	err = app.Run(ctx, os.Args)
}

func outputConfiguration(ctx context.Context, cmd *cli.Command) error {

	env := state.EnvFromContext(ctx)
	if cmd.Args().Len() > 1 {
		env.Log.Warn("Malformed command line, too many destinations", zap.Strings("ignoring", cmd.Args().Slice()[1:]))
	}

	fname := cmd.Args().Get(0)

	var (
		err    error
		data   []byte
		source string
	)

	out := os.Stdout
	if len(fname) > 0 {
		out, err = os.Create(fname)
		if err != nil {
			return fmt.Errorf("unable to create destination file '%s': %w", fname, err)
		}
		defer out.Close()
	}

	if cmd.Bool("default") {
		source = "default"
		data, err = config.Prepare()
	} else {
		source = "actual"
		data, err = config.Dump(env.Cfg)
	}
	if err != nil {
		return fmt.Errorf("unable to get configuration: %w", err)
	}

	if len(fname) == 0 {
		fname = "STDOUT"
	}
	env.Log.Info("Outputing configuration", zap.String("state", source), zap.String("file", fname))

	_, err = out.Write(data)
	if err != nil {
		return fmt.Errorf("unable to write configuration: %w", err)
	}
	return nil
}
