package testcaldav

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/nobleread/testcaldav/exitcodes"
	"github.com/nobleread/testcaldav/runner"
	"github.com/nobleread/testcaldav/scripts"
	"github.com/nobleread/testcaldav/serverinfo"
)

// Launcher performs a single launch of the external test runner.
type Launcher struct {
	config  *Config
	version string
	out     io.Writer
}

// New creates a launcher from a resolved config.
func New(config *Config, version string) (*Launcher, error) {
	if config == nil {
		return nil, errors.New("config is required")
	}

	config.Log.Debug("Creating launcher with config",
		"testroot", config.TestRoot,
		"serverinfo", config.ServerInfo,
		"interpreter", config.Interpreter,
		"ordered", config.Ordered,
		"ssl", config.SSL,
		"targets", config.Targets)

	return &Launcher{
		config:  config,
		version: version,
		out:     os.Stdout,
	}, nil
}

// Run executes one launch and returns the exit code to report: 0 for list
// and dry-run modes, otherwise whatever the delegated process exits with.
// A non-nil error means the process could not be started.
func (l *Launcher) Run(ctx context.Context) (int, error) {
	cfg := l.config

	if cfg.List {
		catalog, err := scripts.NewCatalog(scripts.Config{
			Log:      cfg.Log,
			TestRoot: cfg.TestRoot,
			Subdir:   cfg.Subdir,
		})
		if err != nil {
			return 0, err
		}
		catalog.RenderTable(l.out)
		return exitcodes.Success, nil
	}

	l.checkTargets()
	l.logServerInfo()

	run, err := runner.NewRunner(runner.Config{
		Log:         cfg.Log,
		Interpreter: cfg.Interpreter,
		Script:      RunnerScript,
		WorkDir:     cfg.TestRoot,
		Args:        BuildArgs(cfg),
		LogDir:      cfg.LogDir,
	})
	if err != nil {
		return 0, err
	}

	if cfg.DryRun {
		cfg.Log.Debug("Dry run", "dir", cfg.TestRoot)
		fmt.Fprintln(l.out, strings.Join(run.CommandLine(), " "))
		return exitcodes.Success, nil
	}

	cfg.Log.Info("Starting test run",
		"run_id", run.RunID(),
		"version", l.version,
		"testroot", cfg.TestRoot)

	code, err := run.Run(ctx)
	if err != nil {
		return 0, NewExecError(err)
	}
	if code == exitcodes.Success {
		cfg.Log.Info("Test run passed", "run_id", run.RunID())
	} else {
		cfg.Log.Warn("Test run exited nonzero", "run_id", run.RunID(), "code", code)
	}
	return code, nil
}

// checkTargets warns about positional targets that do not resolve to a
// discovered script. The external runner stays authoritative, so this never
// fails the launch; a missing or foreign suite layout only logs at debug.
func (l *Launcher) checkTargets() {
	cfg := l.config
	catalog, err := scripts.NewCatalog(scripts.Config{
		Log:      cfg.Log,
		TestRoot: cfg.TestRoot,
	})
	if err != nil {
		cfg.Log.Debug("Skipping target check", "err", err)
		return
	}
	for _, target := range cfg.Targets {
		if !catalog.Known(target) {
			cfg.Log.Warn("Target does not match a known test script", "target", target)
		}
	}
}

// logServerInfo reports where the run is pointed. The descriptor's schema is
// owned by the external runner, so parse failures are logged and ignored.
func (l *Launcher) logServerInfo() {
	cfg := l.config
	info, err := serverinfo.Load(cfg.ServerInfo)
	if err != nil {
		cfg.Log.Warn("Server info not readable", "path", cfg.ServerInfo, "err", err)
		return
	}
	cfg.Log.Info("Target server", "addr", info.Addr(cfg.SSL), "serverinfo", cfg.ServerInfo)
}
