package commands

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/moolen/eventmodel/internal/logging"
)

const Version = "0.1.0"

var logLevelFlags []string

var rootCmd = &cobra.Command{
	Use:     "eventmodel",
	Short:   "Mine behavioral models and temporal invariants from event logs",
	Version: Version,
}

// Execute runs the command tree; callers should os.Exit(1) on a non-nil
// return.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringSliceVar(&logLevelFlags, "log-level",
		[]string{"info"},
		"Log level. Use 'default=level' for the default, or 'package.name=level' for a per-package override.\n"+
			"Examples: --log-level debug (all), --log-level refine=debug --log-level coarsen=warn")

	rootCmd.AddCommand(mineCmd)
}

// HandleError prints msg and err to stderr and exits 1.
func HandleError(err error, msg string) {
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", msg, err)
		os.Exit(1)
	}
}

// setupLog initializes the logging system from the --log-level flags.
func setupLog(flags []string) error {
	defaultLevel, packageLevels := parseLogLevelFlags(flags)
	return logging.Initialize(defaultLevel, packageLevels)
}

// parseLogLevelFlags splits "debug" / "refine=debug" style flags into a
// default level and a per-package override map.
func parseLogLevelFlags(flags []string) (string, map[string]string) {
	result := make(map[string]string)
	for _, flag := range flags {
		if !strings.Contains(flag, "=") {
			result["default"] = flag
			continue
		}
		parts := strings.SplitN(flag, "=", 2)
		if len(parts) == 2 {
			result[parts[0]] = parts[1]
		}
	}

	defaultLevel := "info"
	if level, ok := result["default"]; ok {
		defaultLevel = level
		delete(result, "default")
	}
	return defaultLevel, result
}
