// Package cli parses command-line arguments, validates user input, and
// handles process-level concerns like exit codes. It translates CLI flags
// and the optional YAML config file into the application's configuration.
package cli

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/blockflow/blockflow/internal/app"
	"github.com/blockflow/blockflow/internal/executor"
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

// Parse processes command-line arguments. It returns a populated Config, a
// boolean indicating if the program should exit cleanly, or an ExitError.
// Flags the user sets explicitly win over values from the config file.
func Parse(args []string, output io.Writer) (*app.Config, bool, error) {
	slog.Debug("CLI parser started.")
	flagSet := flag.NewFlagSet("blockflow", flag.ContinueOnError)
	flagSet.SetOutput(output)

	flagSet.Usage = func() {
		fmt.Fprint(output, `
blockflow - A typed dataflow execution engine.

Usage:
  blockflow [options] [FLOW_PATH]

Arguments:
  FLOW_PATH
    Path to a flow file: .hcl for the structured syntax, anything else is
    treated as script syntax.

Options:
`)
		flagSet.PrintDefaults()
	}

	flowFlag := flagSet.String("flow", "", "Path to the flow file.")
	configFlag := flagSet.String("config", "", "Path to a YAML config file.")
	logFormatFlag := flagSet.String("log-format", "json", "Log output format. Options: 'text' or 'json'.")
	logLevelFlag := flagSet.String("log-level", "info", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")
	workersFlag := flagSet.Int("workers", executor.DefaultWorkers, "Number of concurrent workers per stage.")
	metricsPortFlag := flagSet.Int("metrics-port", 0, "Port for the HTTP health and metrics server. 0 is disabled.")
	kvDSNFlag := flagSet.String("kv-dsn", "", "Postgres DSN for the kv adapter. Empty uses the in-memory store.")
	amqpURLFlag := flagSet.String("amqp-url", "", "AMQP broker URL for the queue adapter. Empty uses the in-memory publisher.")

	if err := flagSet.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}
	slog.Debug("Arguments parsed successfully.")

	cfg := app.Config{
		FlowPath:    *flowFlag,
		LogFormat:   *logFormatFlag,
		LogLevel:    *logLevelFlag,
		Workers:     *workersFlag,
		MetricsPort: *metricsPortFlag,
		KVDSN:       *kvDSNFlag,
		AMQPURL:     *amqpURLFlag,
	}

	if *configFlag != "" {
		fileCfg, err := app.LoadConfigFile(*configFlag)
		if err != nil {
			return nil, false, &ExitError{Code: 2, Message: err.Error()}
		}
		cfg = mergeConfig(cfg, fileCfg, explicitFlags(flagSet))
	}

	if cfg.FlowPath == "" && flagSet.NArg() > 0 {
		cfg.FlowPath = flagSet.Arg(0)
	}
	slog.Debug("Flow path determined.", "path", cfg.FlowPath)

	if cfg.FlowPath == "" {
		slog.Debug("No flow path provided, printing usage and exiting.")
		flagSet.Usage()
		return nil, true, nil
	}

	cfg.LogFormat = strings.ToLower(cfg.LogFormat)
	if cfg.LogFormat != "text" && cfg.LogFormat != "json" {
		return nil, false, &ExitError{Code: 2, Message: "invalid log-format: must be 'text' or 'json'"}
	}

	cfg.LogLevel = strings.ToLower(cfg.LogLevel)
	switch cfg.LogLevel {
	case "debug", "info", "warn", "error":
		// valid
	default:
		return nil, false, &ExitError{Code: 2, Message: "invalid log-level: must be 'debug', 'info', 'warn', or 'error'"}
	}
	slog.Debug("CLI parameter validation complete.")

	config, err := app.NewConfig(cfg)
	if err != nil {
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	slog.Debug("CLI parser finished successfully.", "config", config)
	return config, false, nil
}

// explicitFlags collects the names of flags the user set on the command
// line.
func explicitFlags(fs *flag.FlagSet) map[string]bool {
	set := make(map[string]bool)
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })
	return set
}

// mergeConfig overlays file values onto flag values, keeping any flag the
// user set explicitly.
func mergeConfig(flags, file app.Config, explicit map[string]bool) app.Config {
	merged := flags
	if !explicit["flow"] && file.FlowPath != "" {
		merged.FlowPath = file.FlowPath
	}
	if !explicit["log-format"] && file.LogFormat != "" {
		merged.LogFormat = file.LogFormat
	}
	if !explicit["log-level"] && file.LogLevel != "" {
		merged.LogLevel = file.LogLevel
	}
	if !explicit["workers"] && file.Workers != 0 {
		merged.Workers = file.Workers
	}
	if !explicit["metrics-port"] && file.MetricsPort != 0 {
		merged.MetricsPort = file.MetricsPort
	}
	if !explicit["kv-dsn"] && file.KVDSN != "" {
		merged.KVDSN = file.KVDSN
	}
	if !explicit["amqp-url"] && file.AMQPURL != "" {
		merged.AMQPURL = file.AMQPURL
	}
	return merged
}
