package cli

import (
	"os"

	"github.com/rileyhilliard/shellkit/internal/config"
	"github.com/rileyhilliard/shellkit/internal/logger"
	"github.com/rileyhilliard/shellkit/internal/ui"
	"github.com/rileyhilliard/shellkit/pkg/shell"
	"github.com/rileyhilliard/shellkit/pkg/shell/history"
)

// logPrefix tags every line written by the CLI's loggers.
const logPrefix = "[shellkit]"

// rootFlags holds the persistent flags shared by every subcommand.
type rootFlags struct {
	configPath   string
	noColor      bool
	verbose      bool
	historyStore string
}

// appOptions selects how an app is wired to the terminal.
type appOptions struct {
	flags    *rootFlags
	renderer shell.Renderer
	prompter shell.Prompter
	// interactive is set when the bubbletea prompt owns the terminal.
	interactive bool
}

// app is a configured shell together with the resources it owns.
type app struct {
	cfg     *config.Config
	cfgPath string
	log     logger.Logger
	history *history.History
	shell   *shell.Shell
	closers []func() error
}

// newApp loads config, opens the history store and builds a shell with
// the demo commands and config tasks registered.
func newApp(opts appOptions) (*app, error) {
	flags := opts.flags
	if flags == nil {
		flags = &rootFlags{}
	}

	cfg, path, err := config.LoadOrDefault(flags.configPath)
	if err != nil {
		return nil, err
	}
	if flags.historyStore != "" {
		cfg.History.Store = flags.historyStore
	}
	if flags.verbose {
		cfg.Log.Level = "debug"
	}
	if err := config.Validate(cfg); err != nil {
		return nil, err
	}

	applyColor(cfg.Prompt.Color, flags.noColor)

	a := &app{cfg: cfg, cfgPath: path}
	a.log = a.newLogger(opts.interactive, flags.verbose)
	logger.SetDefault(a.log)
	if path != "" {
		a.log.Debug("loaded config from %s", path)
	}

	st, err := cfg.HistoryStore()
	if err != nil {
		a.Close()
		return nil, err
	}
	a.closers = append(a.closers, st.Close)

	a.history, err = history.New(
		history.WithMax(cfg.History.Max),
		history.WithStore(st, cfg.History.Key),
		history.WithLogger(a.log),
	)
	if err != nil {
		a.Close()
		return nil, err
	}

	sessionOpts := []shell.SessionOption{shell.WithHistory(a.history)}
	if opts.prompter != nil {
		sessionOpts = append(sessionOpts, shell.WithPrompter(opts.prompter))
	}
	shellOpts := []shell.ShellOption{
		shell.WithLogger(a.log),
		shell.WithDelimiter(cfg.Prompt.Delimiter),
		shell.WithLocalSession(sessionOpts...),
	}
	if opts.renderer != nil {
		shellOpts = append(shellOpts, shell.WithRenderer(opts.renderer))
	}
	a.shell = shell.New(shellOpts...)

	if err := registerCommands(a.shell); err != nil {
		a.Close()
		return nil, err
	}
	if err := registerTasks(a.shell, cfg); err != nil {
		a.Close()
		return nil, err
	}
	return a, nil
}

// newLogger picks the rotating file logger when log.file is set. Without
// one, the interactive prompt stays quiet unless --verbose asks otherwise,
// since stderr lines would tear through the prompt.
func (a *app) newLogger(interactive, verbose bool) logger.Logger {
	lc := a.cfg.Log
	if lc.File != "" {
		fl := logger.NewFileLogger(logPrefix, lc.File, logger.ParseLevel(lc.Level), logger.Rotation{
			MaxSizeMB:  lc.MaxSizeMB,
			MaxBackups: lc.MaxBackups,
			MaxAgeDays: lc.MaxAgeDays,
		})
		a.closers = append(a.closers, fl.Close)
		return fl
	}
	if verbose {
		os.Setenv(logger.DebugEnv, "1")
	} else if interactive {
		return logger.Noop()
	}
	return logger.NewEnvLogger(logPrefix)
}

// Close shuts the shell down, flushes history and releases stores and
// log files in reverse order of opening.
func (a *app) Close() {
	if a.shell != nil {
		a.shell.Close()
	}
	if a.history != nil {
		if err := a.history.Flush(); err != nil {
			a.log.Warn("saving history: %v", err)
		}
	}
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil && a.log != nil {
			a.log.Warn("closing: %v", err)
		}
	}
	a.closers = nil
}

func applyColor(mode string, noColor bool) {
	switch {
	case noColor || mode == config.ColorNever:
		ui.DisableColors()
	case mode == config.ColorAlways:
		ui.ForceColors()
	}
}
