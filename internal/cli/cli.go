package cli

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/specialistvlad/bsseqgrid/internal/app"
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

// stringList is a repeatable flag.
type stringList []string

func (s *stringList) String() string {
	return strings.Join(*s, ",")
}

func (s *stringList) Set(v string) error {
	*s = append(*s, v)
	return nil
}

// Parse processes command-line arguments. It returns a populated app.Config,
// a boolean indicating if the program should exit cleanly, or an ExitError.
func Parse(args []string, output io.Writer) (*app.Config, bool, error) {
	slog.Debug("CLI parser started.")
	flagSet := flag.NewFlagSet("bsseqgrid", flag.ContinueOnError)
	flagSet.SetOutput(output)

	// Custom usage/help text function
	flagSet.Usage = func() {
		fmt.Fprint(output, `
bsseqgrid - Bisulfite sequencing pipeline runner.

Usage:
  bsseqgrid [options] [CONFIG_PATH...]

Arguments:
  CONFIG_PATH
    A .hcl or settings .yaml file, or a directory containing them.

Examples:
  bsseqgrid --target help
  bsseqgrid -c settings.yaml --target final-report
  bsseqgrid -c conf/ --target diffmeth --dry-run

Options:
`)
		flagSet.PrintDefaults()
	}

	var configFlags, targetFlags stringList
	flagSet.Var(&configFlags, "config", "Path to a configuration file or directory. Repeatable.")
	flagSet.Var(&configFlags, "c", "Path to a configuration file or directory (shorthand).")
	flagSet.Var(&targetFlags, "target", "Target to build. Repeatable; overrides execution targets from the configuration.")
	flagSet.Var(&targetFlags, "t", "Target to build (shorthand).")
	healthPortFlag := flagSet.Int("healthcheck-port", 0, "Port for the HTTP health check server. 0 is disabled.")
	logFormatFlag := flagSet.String("log-format", "text", "Log output format. Options: 'text' or 'json'.")
	logLevelFlag := flagSet.String("log-level", "info", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")
	workersFlag := flagSet.Int("workers", 0, "Number of rules run concurrently. 0 uses execution.jobs from the configuration.")
	dryRunFlag := flagSet.Bool("dry-run", false, "Print the commands that would run without running them.")
	listFlag := flagSet.Bool("list", false, "Print the files the selected targets produce and exit.")
	eventsURLFlag := flagSet.String("events-url", "", "Socket.IO server to stream progress events to, e.g. http://localhost:3000.")

	if err := flagSet.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}
	slog.Debug("Arguments parsed successfully.")

	paths := append([]string(nil), configFlags...)
	paths = append(paths, flagSet.Args()...)
	slog.Debug("Config paths determined.", "paths", paths)

	if len(paths) == 0 && len(targetFlags) == 0 {
		slog.Debug("No config path provided, printing usage and exiting.")
		flagSet.Usage()
		return nil, true, nil
	}

	logFormat := strings.ToLower(*logFormatFlag)
	if logFormat != "text" && logFormat != "json" {
		return nil, false, &ExitError{Code: 2, Message: "invalid log-format: must be 'text' or 'json'"}
	}

	logLevel := strings.ToLower(*logLevelFlag)
	switch logLevel {
	case "debug", "info", "warn", "error":
		// valid
	default:
		return nil, false, &ExitError{Code: 2, Message: "invalid log-level: must be 'debug', 'info', 'warn', or 'error'"}
	}

	if *healthPortFlag < 0 || *healthPortFlag > 65535 {
		return nil, false, &ExitError{Code: 2, Message: fmt.Sprintf("invalid healthcheck-port: %d", *healthPortFlag)}
	}
	slog.Debug("CLI parameter validation complete.")

	config, err := app.NewConfig(app.Config{
		ConfigPaths:     paths,
		Targets:         []string(targetFlags),
		HealthcheckPort: *healthPortFlag,
		LogFormat:       logFormat,
		LogLevel:        logLevel,
		Workers:         *workersFlag,
		DryRun:          *dryRunFlag,
		List:            *listFlag,
		EventsURL:       *eventsURLFlag,
	})

	if err != nil {
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	slog.Debug("CLI parser finished successfully.", "config", config)
	return config, false, nil
}
