package cmd

import (
	"github.com/spf13/cobra"

	"setup-cpp/internal/pipeline"
)

// runCmd provisions everything: toolchain, editor, extension and workspace files.
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the full provisioning pipeline",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runPlan(cmd.Context())
	},
}

// configsCmd only (re)writes the editor configuration files.
var configsCmd = &cobra.Command{
	Use:   "configs",
	Short: "Create the workspace and write the editor configuration files",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runPlan(cmd.Context(), pipeline.InitWorkspace, pipeline.WriteConfigFiles)
	},
}

// verifyCmd checks that the editor lists the C/C++ extension.
var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Check that the editor extension is installed",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runPlan(cmd.Context(), pipeline.VerifyEditorExtension)
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(configsCmd)
	rootCmd.AddCommand(verifyCmd)
}
