// Package exitcodes defines the standard exit codes used by testcaldav.
package exitcodes

// Exit code constants used by testcaldav
// These constants define the exit codes the launcher itself produces:
//
// * Success (0): Used for help output and for a passing delegated run
// * Usage (64): Used for unrecognized flags or malformed invocations (EX_USAGE)
// * ExecFailure (127): Used when the delegated interpreter cannot be started
//
// Any other exit code is the delegated test runner's own status, passed
// through unchanged.
const (
	Success     = 0   // Help, list, dry-run, or a passing delegated run
	Usage       = 64  // Bad flags or malformed invocation
	ExecFailure = 127 // Delegated interpreter could not be started
)
