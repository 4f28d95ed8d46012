package testcaldav

// RunnerScript is the entry point of the external test runner, relative to
// the test-suite root.
const RunnerScript = "testcaldav.py"

// BuildArgs assembles the argument list handed to the external test runner.
// The order is fixed: ordering toggle, seed, SSL, failure detail printing,
// request/response printing, server-info path, subdirectory filter, then the
// test targets.
func BuildArgs(cfg *Config) []string {
	args := make([]string, 0, len(cfg.Targets)+10)
	if !cfg.Ordered {
		args = append(args, "--random")
	}
	if cfg.RandomSeed != "" {
		args = append(args, "--random-seed", cfg.RandomSeed)
	}
	if cfg.SSL {
		args = append(args, "--ssl")
	}
	args = append(args, "--print-details-onfail")
	if cfg.PrintHTTP {
		args = append(args, "--always-print-request", "--always-print-response")
	}
	args = append(args, "-s", cfg.ServerInfo)
	if cfg.Subdir != "" {
		args = append(args, "--subdir="+cfg.Subdir)
	}
	args = append(args, cfg.Targets...)
	return args
}
