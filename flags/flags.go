package flags

import (
	"github.com/urfave/cli/v2"
)

const EnvVarPrefix = "TESTCALDAV"

func prefixEnvVars(name string) []string {
	return []string{EnvVarPrefix + "_" + name}
}

var (
	TestRoot = &cli.StringFlag{
		Name:    "testroot",
		Aliases: []string{"t"},
		Value:   "",
		EnvVars: prefixEnvVars("TESTROOT"),
		Usage:   "Path to the CalDAVTester tree containing the test scripts",
	}
	ServerInfo = &cli.StringFlag{
		Name:    "serverinfo",
		Aliases: []string{"s"},
		Value:   "",
		EnvVars: prefixEnvVars("SERVERINFO"),
		Usage:   "Path to the server-info XML descriptor to hand to the test runner",
	}
	Subdir = &cli.StringFlag{
		Name:    "subdir",
		Aliases: []string{"d"},
		Value:   "",
		EnvVars: prefixEnvVars("SUBDIR"),
		Usage:   "Restrict the run to test scripts below this subdirectory",
	}
	RandomSeed = &cli.StringFlag{
		Name:    "random-seed",
		Aliases: []string{"x"},
		Value:   "",
		EnvVars: prefixEnvVars("RANDOM_SEED"),
		Usage:   "Seed for the randomized test ordering",
	}
	Ordered = &cli.BoolFlag{
		Name:    "ordered",
		Aliases: []string{"o"},
		Value:   false,
		EnvVars: prefixEnvVars("ORDERED"),
		Usage:   "Run test scripts in listed order instead of randomizing",
	}
	Verbose = &cli.BoolFlag{
		Name:    "verbose",
		Aliases: []string{"v"},
		Value:   false,
		EnvVars: prefixEnvVars("VERBOSE"),
		Usage:   "Enable verbose launcher logging",
	}
	PrintHTTP = &cli.BoolFlag{
		Name:    "print-http",
		Aliases: []string{"r"},
		Value:   false,
		EnvVars: prefixEnvVars("PRINT_HTTP"),
		Usage:   "Print every request and response, not just failing ones",
	}
	SSL = &cli.BoolFlag{
		Name:    "ssl",
		Aliases: []string{"z"},
		Value:   false,
		EnvVars: prefixEnvVars("SSL"),
		Usage:   "Run the tests against the server's SSL port",
	}
	Interpreter = &cli.StringFlag{
		Name:    "interpreter",
		Value:   "python",
		EnvVars: prefixEnvVars("INTERPRETER"),
		Usage:   "Interpreter used to run the external test runner",
	}
	List = &cli.BoolFlag{
		Name:    "list",
		Value:   false,
		EnvVars: prefixEnvVars("LIST"),
		Usage:   "List the discovered test scripts and exit",
	}
	DryRun = &cli.BoolFlag{
		Name:    "dry-run",
		Value:   false,
		EnvVars: prefixEnvVars("DRY_RUN"),
		Usage:   "Print the delegated command line without running it",
	}
	LogDir = &cli.StringFlag{
		Name:    "logdir",
		Value:   "",
		EnvVars: prefixEnvVars("LOGDIR"),
		Usage:   "Directory for per-run copies of the test runner output; empty disables",
	}
	ConfigFile = &cli.StringFlag{
		Name:    "config",
		Value:   "",
		EnvVars: prefixEnvVars("CONFIG"),
		Usage:   "Path to a YAML file with launcher defaults (eg. 'testcaldav.yaml')",
	}
	LogLevel = &cli.StringFlag{
		Name:    "log.level",
		Value:   "info",
		EnvVars: prefixEnvVars("LOG_LEVEL"),
		Usage:   "The lowest log level that will be output",
	}
	LogFormat = &cli.StringFlag{
		Name:    "log.format",
		Value:   "terminal",
		EnvVars: prefixEnvVars("LOG_FORMAT"),
		Usage:   "Format the log output. Supported formats: 'terminal', 'logfmt', 'json'",
	}
)

var runnerFlags = []cli.Flag{
	TestRoot,
	ServerInfo,
	Subdir,
	RandomSeed,
	Ordered,
	PrintHTTP,
	SSL,
}

var launcherFlags = []cli.Flag{
	Verbose,
	Interpreter,
	List,
	DryRun,
	LogDir,
	ConfigFile,
	LogLevel,
	LogFormat,
}

// Flags contains the list of configuration options available to the launcher.
var Flags []cli.Flag

func init() {
	Flags = append(Flags, runnerFlags...)
	Flags = append(Flags, launcherFlags...)
}
