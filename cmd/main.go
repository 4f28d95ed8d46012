package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/ethereum/go-ethereum/log"
	"github.com/urfave/cli/v2"
	"golang.org/x/term"

	testcaldav "github.com/nobleread/testcaldav"
	"github.com/nobleread/testcaldav/exitcodes"
	"github.com/nobleread/testcaldav/flags"
)

var (
	Version   = "v1.0.0"
	GitCommit = ""
	GitDate   = ""
)

func newApp() *cli.App {
	// The default version flag claims -v, which belongs to verbose mode.
	cli.VersionFlag = &cli.BoolFlag{
		Name:  "version",
		Usage: "print the version",
	}

	app := cli.NewApp()
	app.Version = fmt.Sprintf("%s-%s-%s", Version, GitCommit, GitDate)
	app.Name = "testcaldav"
	app.Usage = "CalDAV/CardDAV protocol test-suite launcher"
	app.Description = "testcaldav locates a CalDAVTester tree and a server-info descriptor, builds the runner's argument list, and delegates the run to it"
	app.ArgsUsage = "[test scripts]"
	app.Flags = flags.Flags
	app.Action = run
	app.OnUsageError = onUsageError
	app.ExitErrHandler = exitErrHandler
	return app
}

func main() {
	app := newApp()
	if err := app.RunContext(context.Background(), os.Args); err != nil {
		// ExitErrHandler terminates for every error it sees; this is
		// only reached if it ever declines to.
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx *cli.Context) error {
	logger, err := setupLogger(ctx)
	if err != nil {
		return testcaldav.NewUsageError(err)
	}
	log.SetDefault(logger)

	cfg, err := testcaldav.NewConfig(ctx, logger, os.Args[1:])
	if err != nil {
		return testcaldav.NewUsageError(err)
	}

	launcher, err := testcaldav.New(cfg, Version)
	if err != nil {
		return err
	}

	code, err := launcher.Run(ctx.Context)
	if err != nil {
		return err
	}
	if code != exitcodes.Success {
		// The delegated process's status passes through unreinterpreted.
		return cli.Exit("", code)
	}
	return nil
}

// onUsageError prints usage to stderr for malformed invocations; the exit
// code mapping happens in exitErrHandler.
func onUsageError(ctx *cli.Context, err error, _ bool) error {
	cli.HelpPrinter(ctx.App.ErrWriter, cli.AppHelpTemplate, ctx.App)
	return testcaldav.NewUsageError(err)
}

func exitErrHandler(ctx *cli.Context, err error) {
	if err == nil {
		return
	}
	var exitErr cli.ExitCoder
	if errors.As(err, &exitErr) {
		cli.HandleExitCoder(exitErr)
		return
	}
	cli.HandleExitCoder(cli.Exit(err.Error(), exitCode(err)))
}

// exitCode maps launcher errors to the exit status the process reports.
func exitCode(err error) int {
	switch {
	case testcaldav.IsUsageError(err):
		return exitcodes.Usage
	case testcaldav.IsExecError(err):
		return exitcodes.ExecFailure
	default:
		return 1
	}
}

func setupLogger(ctx *cli.Context) (log.Logger, error) {
	level, err := parseLogLevel(ctx.String(flags.LogLevel.Name))
	if err != nil {
		return nil, err
	}
	if ctx.Bool(flags.Verbose.Name) && level > log.LevelDebug {
		level = log.LevelDebug
	}

	var handler slog.Handler
	switch format := ctx.String(flags.LogFormat.Name); format {
	case "terminal":
		useColor := term.IsTerminal(int(os.Stderr.Fd()))
		handler = log.NewTerminalHandlerWithLevel(os.Stderr, level, useColor)
	case "logfmt":
		handler = log.LogfmtHandlerWithLevel(os.Stderr, level)
	case "json":
		handler = log.JSONHandlerWithLevel(os.Stderr, level)
	default:
		return nil, fmt.Errorf("unrecognized log format: %q", format)
	}
	return log.NewLogger(handler), nil
}

func parseLogLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "trace":
		return log.LevelTrace, nil
	case "debug":
		return log.LevelDebug, nil
	case "info":
		return log.LevelInfo, nil
	case "warn":
		return log.LevelWarn, nil
	case "error":
		return log.LevelError, nil
	case "crit":
		return log.LevelCrit, nil
	default:
		return log.LevelInfo, fmt.Errorf("unrecognized log level: %q", s)
	}
}
