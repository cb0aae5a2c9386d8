package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"setup-cpp/internal/logger"
	"setup-cpp/internal/report"
)

var (
	// debug enables debug logging via the `--debug` flag.
	debug bool

	// configPath is the optional YAML configuration file (`--config`/`-c`).
	// Without it the built-in defaults and SETUP_CPP_* variables apply.
	configPath string

	// reportPath is where each run's JSON report is written (`--report`).
	reportPath string
)

// rootCmd is the base command for the CLI tool `setup-cpp`.
var rootCmd = &cobra.Command{
	Use:   "setup-cpp",
	Short: "Provision a C/C++ development environment",
	Long: `setup-cpp installs a compiler toolchain and an editor, adds the toolchain
to the machine-wide search path, installs the C/C++ editor extension and writes
the editor configuration files into a workspace folder.`,
	SilenceUsage:  true,
	SilenceErrors: true,

	// PersistentPreRun runs before any subcommand and sets up logging.
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logger.Init(debug)
	},
}

// Execute registers the global flags and runs the selected command.
// Any command error exits the process with status 1.
func Execute() {
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to configuration file")
	rootCmd.PersistentFlags().StringVar(&reportPath, "report", report.DefaultPath, "Path of the run report")

	if err := rootCmd.Execute(); err != nil {
		logger.Error("[ERROR] %v\n", err)
		os.Exit(1)
	}
}
