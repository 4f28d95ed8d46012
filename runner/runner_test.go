package runner

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/ethereum/go-ethereum/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() log.Logger {
	return log.NewLogger(log.DiscardHandler())
}

// writeScript drops a shell script into dir and returns its name.
func writeScript(t *testing.T, dir, body string) string {
	t.Helper()
	name := "run.sh"
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("#!/bin/sh\n"+body+"\n"), 0o755))
	return name
}

func newTestRunner(t *testing.T, cfg Config) *Runner {
	t.Helper()
	if cfg.Log == nil {
		cfg.Log = testLogger()
	}
	if cfg.Stdout == nil {
		cfg.Stdout = &bytes.Buffer{}
	}
	if cfg.Stderr == nil {
		cfg.Stderr = &bytes.Buffer{}
	}
	r, err := NewRunner(cfg)
	require.NoError(t, err)
	return r
}

func TestRunnerPropagatesSuccess(t *testing.T) {
	dir := t.TempDir()
	script := writeScript(t, dir, "exit 0")

	r := newTestRunner(t, Config{Interpreter: "sh", Script: script, WorkDir: dir})
	code, err := r.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, code)
}

func TestRunnerPropagatesFailureCode(t *testing.T) {
	dir := t.TempDir()
	script := writeScript(t, dir, "exit 3")

	r := newTestRunner(t, Config{Interpreter: "sh", Script: script, WorkDir: dir})
	code, err := r.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, code)
}

func TestRunnerStartFailure(t *testing.T) {
	dir := t.TempDir()

	r := newTestRunner(t, Config{
		Interpreter: filepath.Join(dir, "no-such-interpreter"),
		Script:      "run.sh",
		WorkDir:     dir,
	})
	_, err := r.Run(context.Background())
	assert.Error(t, err)
}

func TestRunnerForwardsArgsAndWorkDir(t *testing.T) {
	dir := t.TempDir()
	script := writeScript(t, dir, `echo "$@"; pwd`)

	var out bytes.Buffer
	r := newTestRunner(t, Config{
		Interpreter: "sh",
		Script:      script,
		WorkDir:     dir,
		Args:        []string{"--random", "-s", "serverinfo.xml", "--all"},
		Stdout:      &out,
	})
	code, err := r.Run(context.Background())
	require.NoError(t, err)
	require.Equal(t, 0, code)

	assert.Contains(t, out.String(), "--random -s serverinfo.xml --all")
	assert.Contains(t, out.String(), filepath.Base(dir))
}

func TestRunnerWritesStrippedRunLog(t *testing.T) {
	dir := t.TempDir()
	logDir := t.TempDir()
	script := writeScript(t, dir, `printf '\033[32mgreen\033[0m\n'`)

	var out bytes.Buffer
	r := newTestRunner(t, Config{
		Interpreter: "sh",
		Script:      script,
		WorkDir:     dir,
		LogDir:      logDir,
		Stdout:      &out,
	})
	code, err := r.Run(context.Background())
	require.NoError(t, err)
	require.Equal(t, 0, code)

	// Terminal keeps the escapes, the run log does not.
	assert.Contains(t, out.String(), "\x1b[32m")

	logPath := filepath.Join(logDir, RunDirectoryPrefix+r.RunID(), OutputFilename)
	data, err := os.ReadFile(logPath)
	require.NoError(t, err)
	assert.Equal(t, "green\n", string(data))
}

func TestRunnerCommandLine(t *testing.T) {
	r := newTestRunner(t, Config{
		Interpreter: "python",
		Script:      "testcaldav.py",
		WorkDir:     "/opt/caldav/src/caldavtester",
		Args:        []string{"--all"},
	})
	assert.Equal(t, []string{"python", "testcaldav.py", "--all"}, r.CommandLine())
}

func TestRunnerRequiresInterpreter(t *testing.T) {
	_, err := NewRunner(Config{Script: "testcaldav.py"})
	assert.Error(t, err)

	_, err = NewRunner(Config{Interpreter: "python"})
	assert.Error(t, err)
}
