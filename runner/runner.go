// Package runner spawns the external test runner and propagates its exit
// status. The launcher does no interpretation of the run's outcome; whatever
// the delegated process exits with is what the caller reports.
package runner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/ethereum/go-ethereum/log"
	"github.com/google/uuid"
)

// RunDirectoryPrefix is the standardized prefix for per-run log directories.
const RunDirectoryPrefix = "testrun-"

// OutputFilename is the name of the per-run output copy.
const OutputFilename = "output.log"

// Config contains runner configuration
type Config struct {
	Log         log.Logger
	Interpreter string   // Interpreter binary, eg. "python"
	Script      string   // Runner entry point, relative to WorkDir
	WorkDir     string   // Directory the runner is started in
	Args        []string // Arguments after the script name
	LogDir      string   // Optional directory for per-run output copies

	// Stdout and Stderr receive the child's streams; nil means the
	// launcher's own streams.
	Stdout io.Writer
	Stderr io.Writer
}

// Runner executes one delegated test run.
type Runner struct {
	config Config
	runID  string
}

// NewRunner creates a runner for a single invocation.
func NewRunner(cfg Config) (*Runner, error) {
	if cfg.Interpreter == "" {
		return nil, errors.New("interpreter is required")
	}
	if cfg.Script == "" {
		return nil, errors.New("runner script is required")
	}
	if cfg.Log == nil {
		cfg.Log = log.Root()
	}
	if cfg.Stdout == nil {
		cfg.Stdout = os.Stdout
	}
	if cfg.Stderr == nil {
		cfg.Stderr = os.Stderr
	}
	return &Runner{
		config: cfg,
		runID:  uuid.New().String(),
	}, nil
}

// RunID returns the identifier of this run, used for the log directory name.
func (r *Runner) RunID() string {
	return r.runID
}

// CommandLine returns the full command line of the delegated process.
func (r *Runner) CommandLine() []string {
	return append([]string{r.config.Interpreter, r.config.Script}, r.config.Args...)
}

// Run starts the delegated process and waits for it. The returned code is
// the child's exit status; a non-nil error means the child could not be
// started at all.
func (r *Runner) Run(ctx context.Context) (int, error) {
	argv := r.CommandLine()
	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	cmd.Dir = r.config.WorkDir
	cmd.Stdin = os.Stdin
	cmd.Stdout = r.config.Stdout
	cmd.Stderr = r.config.Stderr

	var runLog *runLogFile
	if r.config.LogDir != "" {
		var err error
		runLog, err = newRunLogFile(r.config.LogDir, r.runID)
		if err != nil {
			r.config.Log.Warn("Run log disabled", "err", err)
		} else {
			// The streams are combined so the log file keeps one ordered
			// record; exec then serializes writes to the shared writer.
			tee := io.MultiWriter(r.config.Stdout, runLog)
			cmd.Stdout = tee
			cmd.Stderr = tee
			defer func() {
				if err := runLog.Close(); err != nil {
					r.config.Log.Warn("Failed to close run log", "err", err)
				}
			}()
			r.config.Log.Info("Writing run output", "path", runLog.Path())
		}
	}

	r.config.Log.Debug("Delegating", "dir", cmd.Dir, "argv", argv)

	err := cmd.Run()
	if err == nil {
		return 0, nil
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode(), nil
	}
	return 0, fmt.Errorf("failed to start %s: %w", r.config.Interpreter, err)
}

// runLogFile is the ANSI-stripped per-run output copy.
type runLogFile struct {
	path  string
	file  *os.File
	strip *ansiStripWriter
}

func newRunLogFile(logDir, runID string) (*runLogFile, error) {
	runDir := filepath.Join(logDir, RunDirectoryPrefix+runID)
	if err := os.MkdirAll(runDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create run directory: %w", err)
	}
	path := filepath.Join(runDir, OutputFilename)
	file, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create run log: %w", err)
	}
	return &runLogFile{
		path:  path,
		file:  file,
		strip: newANSIStripWriter(file),
	}, nil
}

func (f *runLogFile) Path() string {
	return f.path
}

func (f *runLogFile) Write(p []byte) (int, error) {
	return f.strip.Write(p)
}

func (f *runLogFile) Close() error {
	if err := f.strip.Flush(); err != nil {
		_ = f.file.Close()
		return err
	}
	return f.file.Close()
}
