package testcaldav

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/ethereum/go-ethereum/log"
	"github.com/urfave/cli/v2"
	"gopkg.in/yaml.v3"

	"github.com/nobleread/testcaldav/flags"
)

// DefaultsFilename is looked up next to the launcher executable when no
// --config flag is given.
const DefaultsFilename = "testcaldav.yaml"

// serverInfoRelPath is where CalDAVTester keeps its stock server-info
// descriptor, relative to the test-suite root.
var serverInfoRelPath = filepath.Join("scripts", "server", "serverinfo.xml")

// Config holds the launcher configuration for a single invocation.
type Config struct {
	TestRoot    string   // Test-suite root the runner is started in
	ServerInfo  string   // Server-info descriptor handed to the runner
	Subdir      string   // Optional test subdirectory filter
	RandomSeed  string   // Optional seed for randomized ordering
	Ordered     bool     // Disable randomized ordering
	Verbose     bool     // Verbose launcher logging; not forwarded
	PrintHTTP   bool     // Forward request/response printing toggles
	SSL         bool     // Run against the SSL port
	Interpreter string   // Interpreter for the delegated runner
	List        bool     // List discovered test scripts and exit
	DryRun      bool     // Print the delegated command line and exit
	LogDir      string   // Per-run output copies; empty disables
	Targets     []string // Test selectors forwarded to the runner
	Log         log.Logger
}

// fileDefaults mirrors the optional YAML defaults file. Flags and
// environment variables always win over values found here.
type fileDefaults struct {
	TestRoot    string `yaml:"testroot"`
	ServerInfo  string `yaml:"serverinfo"`
	Interpreter string `yaml:"interpreter"`
	SSL         *bool  `yaml:"ssl"`
	LogDir      string `yaml:"logdir"`
}

// NewConfig creates a new Config from the cli context. rawArgs is the
// argument vector as passed to the process (without the program name); it is
// needed to preserve the order-dependent interaction between -t and -s.
func NewConfig(ctx *cli.Context, logger log.Logger, rawArgs []string) (*Config, error) {
	defaults, err := loadDefaults(ctx.String(flags.ConfigFile.Name))
	if err != nil {
		return nil, fmt.Errorf("failed to load defaults file: %w", err)
	}

	testRoot := ctx.String(flags.TestRoot.Name)
	if !ctx.IsSet(flags.TestRoot.Name) {
		if defaults.TestRoot != "" {
			testRoot = defaults.TestRoot
		} else {
			testRoot = defaultTestRoot()
		}
	}
	testRoot, err = filepath.Abs(testRoot)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve absolute path for test root '%s': %w", testRoot, err)
	}

	serverInfo := resolveServerInfo(ctx, defaults, rawArgs, testRoot)
	serverInfo, err = filepath.Abs(serverInfo)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve absolute path for server info '%s': %w", serverInfo, err)
	}

	interpreter := ctx.String(flags.Interpreter.Name)
	if !ctx.IsSet(flags.Interpreter.Name) && defaults.Interpreter != "" {
		interpreter = defaults.Interpreter
	}

	ssl := ctx.Bool(flags.SSL.Name)
	if !ctx.IsSet(flags.SSL.Name) && defaults.SSL != nil {
		ssl = *defaults.SSL
	}

	logDir := ctx.String(flags.LogDir.Name)
	if !ctx.IsSet(flags.LogDir.Name) && defaults.LogDir != "" {
		logDir = defaults.LogDir
	}
	if logDir != "" {
		logDir, err = filepath.Abs(logDir)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve absolute path for log directory '%s': %w", logDir, err)
		}
	}

	targets := ctx.Args().Slice()
	if len(targets) == 0 {
		targets = []string{"--all"}
	}

	if _, err := os.Stat(testRoot); err != nil {
		// Not fatal here; the spawn reports the authoritative failure.
		logger.Warn("Test root not accessible", "testroot", testRoot, "err", err)
	}

	return &Config{
		TestRoot:    testRoot,
		ServerInfo:  serverInfo,
		Subdir:      ctx.String(flags.Subdir.Name),
		RandomSeed:  ctx.String(flags.RandomSeed.Name),
		Ordered:     ctx.Bool(flags.Ordered.Name),
		Verbose:     ctx.Bool(flags.Verbose.Name),
		PrintHTTP:   ctx.Bool(flags.PrintHTTP.Name),
		SSL:         ssl,
		Interpreter: interpreter,
		List:        ctx.Bool(flags.List.Name),
		DryRun:      ctx.Bool(flags.DryRun.Name),
		LogDir:      logDir,
		Targets:     targets,
		Log:         logger,
	}, nil
}

// resolveServerInfo decides which server-info path wins. Setting the test
// root re-derives the descriptor path, clobbering an earlier explicit one;
// an explicit descriptor given later wins. This mirrors sequential flag
// processing, so the outcome depends on the order of -t and -s on the
// command line. Values that arrive through the environment or the defaults
// file have no position and lose to any flag given on the command line.
func resolveServerInfo(ctx *cli.Context, defaults fileDefaults, rawArgs []string, testRoot string) string {
	derived := filepath.Join(testRoot, serverInfoRelPath)

	explicit := ctx.String(flags.ServerInfo.Name)
	explicitSet := ctx.IsSet(flags.ServerInfo.Name)
	if !explicitSet && defaults.ServerInfo != "" {
		explicit = defaults.ServerInfo
		explicitSet = true
	}
	testRootSet := ctx.IsSet(flags.TestRoot.Name) || defaults.TestRoot != ""

	switch {
	case !explicitSet:
		return derived
	case !testRootSet:
		return explicit
	default:
		takesValue := valueFlagNames()
		tPos := lastFlagPosition(rawArgs, flags.TestRoot.Names(), takesValue)
		sPos := lastFlagPosition(rawArgs, flags.ServerInfo.Names(), takesValue)
		if tPos > sPos {
			return derived
		}
		return explicit
	}
}

// valueFlagNames collects the names of every flag that consumes a following
// argument, so the argv scan can step over flag values and recognize where
// the positionals begin.
func valueFlagNames() map[string]bool {
	takesValue := make(map[string]bool)
	for _, f := range flags.Flags {
		if _, ok := f.(*cli.BoolFlag); ok {
			continue
		}
		for _, name := range f.Names() {
			takesValue[name] = true
		}
	}
	return takesValue
}

// lastFlagPosition returns the index of the last occurrence of any of the
// given flag names in args, or -1 if none appears. The scan ends where flag
// parsing ends: at the "--" terminator or at the first positional argument,
// so a trailing target that merely looks like a flag is not counted.
func lastFlagPosition(args []string, names []string, takesValue map[string]bool) int {
	last := -1
	for i := 0; i < len(args); i++ {
		arg := args[i]
		if arg == "--" {
			break
		}
		if !strings.HasPrefix(arg, "-") || arg == "-" {
			break
		}
		name := strings.TrimLeft(arg, "-")
		inlineValue := false
		if eq := strings.IndexByte(name, '='); eq >= 0 {
			name = name[:eq]
			inlineValue = true
		}
		if slices.Contains(names, name) {
			last = i
		}
		if takesValue[name] && !inlineValue {
			i++
		}
	}
	return last
}

// defaultTestRoot resolves the stock CalDAVTester location relative to the
// launcher's own install: the launcher lives in <install>/bin, the suite in
// <install>/src/caldavtester.
func defaultTestRoot() string {
	exe, err := os.Executable()
	if err != nil {
		return filepath.Join("src", "caldavtester")
	}
	install := filepath.Dir(filepath.Dir(exe))
	return filepath.Join(install, "src", "caldavtester")
}

// loadDefaults reads the optional YAML defaults file. An explicitly
// configured path must exist; the implicit one next to the executable may be
// absent.
func loadDefaults(path string) (fileDefaults, error) {
	var defaults fileDefaults

	implicit := path == ""
	if implicit {
		exe, err := os.Executable()
		if err != nil {
			return defaults, nil
		}
		path = filepath.Join(filepath.Dir(exe), DefaultsFilename)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if implicit && os.IsNotExist(err) {
			return defaults, nil
		}
		return defaults, err
	}
	if err := yaml.Unmarshal(data, &defaults); err != nil {
		return defaults, fmt.Errorf("malformed defaults file %s: %w", path, err)
	}
	return defaults, nil
}
