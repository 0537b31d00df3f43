package cli

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/specialistvlad/viewparams/internal/app"
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

// Parse processes command-line arguments. It returns a validated Config, a
// boolean indicating if the program should exit cleanly, or an ExitError.
//
// Values come from the defaults, then the -config file, then flags that are
// set explicitly, then the LOCATION argument.
func Parse(args []string, output io.Writer) (*app.Config, bool, error) {
	slog.Debug("CLI parser started.")
	flagSet := flag.NewFlagSet("viewparams", flag.ContinueOnError)
	flagSet.SetOutput(output)

	flagSet.Usage = func() {
		fmt.Fprint(output, `
viewparams - keeps typed view state and the location fragment in step.

Usage:
  viewparams [options] [LOCATION]

Arguments:
  LOCATION
    A location such as "one/tab=TAB_ONE" or "three/selectedItems=(1,2)".
    Empty shows the default view.

Options:
`)
		flagSet.PrintDefaults()
	}

	defaults := app.DefaultConfig()
	var manifests []string
	flagSet.Func("manifests", "Manifest file or directory; repeat or separate with commas.", func(v string) error {
		for _, p := range strings.Split(v, ",") {
			if p = strings.TrimSpace(p); p != "" {
				manifests = append(manifests, p)
			}
		}
		return nil
	})
	configFlag := flagSet.String("config", "", "Path to a TOML config file.")
	locationFlag := flagSet.String("location", "", "Location to show at startup.")
	lFlag := flagSet.String("l", "", "Location to show at startup (shorthand).")
	defaultViewFlag := flagSet.String("default-view", "", "View shown for an empty location.")
	logFormatFlag := flagSet.String("log-format", defaults.LogFormat, "Log output format. Options: 'text' or 'json'.")
	logLevelFlag := flagSet.String("log-level", defaults.LogLevel, "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")
	httpPortFlag := flagSet.Int("http-port", 0, "Port for the /health and /location HTTP endpoints. 0 is disabled.")
	bridgeURLFlag := flagSet.String("bridge-url", "", "socket.io server that mirrors the location, e.g. http://localhost:3000.")
	bridgeNamespaceFlag := flagSet.String("bridge-namespace", defaults.BridgeNamespace, "socket.io namespace of the bridge.")
	bridgeInsecureFlag := flagSet.Bool("bridge-insecure", false, "Skip TLS certificate verification for the bridge.")
	serveFlag := flagSet.Bool("serve", false, "Keep serving the HTTP endpoints and the bridge until interrupted.")

	if err := flagSet.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}
	slog.Debug("Arguments parsed successfully.")

	if flagSet.NArg() > 1 {
		return nil, false, &ExitError{Code: 2, Message: fmt.Sprintf("expected at most one LOCATION, got %d", flagSet.NArg())}
	}

	cfg := defaults
	if *configFlag != "" {
		fromFile, err := app.LoadFile(*configFlag, cfg)
		if err != nil {
			return nil, false, &ExitError{Code: 2, Message: err.Error()}
		}
		cfg = fromFile
		slog.Debug("Config file loaded.", "path", *configFlag)
	}

	flagSet.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "manifests":
			cfg.ManifestPaths = manifests
		case "location":
			cfg.Location = *locationFlag
		case "l":
			cfg.Location = *lFlag
		case "default-view":
			cfg.DefaultView = *defaultViewFlag
		case "log-format":
			cfg.LogFormat = *logFormatFlag
		case "log-level":
			cfg.LogLevel = *logLevelFlag
		case "http-port":
			cfg.HTTPPort = *httpPortFlag
		case "bridge-url":
			cfg.BridgeURL = *bridgeURLFlag
		case "bridge-namespace":
			cfg.BridgeNamespace = *bridgeNamespaceFlag
		case "bridge-insecure":
			cfg.BridgeInsecure = *bridgeInsecureFlag
		case "serve":
			cfg.Serve = *serveFlag
		}
	})
	if flagSet.NArg() == 1 {
		cfg.Location = flagSet.Arg(0)
	}
	slog.Debug("Location determined.", "location", cfg.Location)

	config, err := app.NewConfig(cfg)
	if err != nil {
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	slog.Debug("CLI parser finished successfully.", "config", config)
	return config, false, nil
}
