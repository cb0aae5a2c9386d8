package cmd

import (
	"fmt"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"setup-cpp/internal/report"
)

// statusCmd prints the report of the last run.
var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the result of the last run",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		r, err := report.Load(afero.NewOsFs(), reportPath)
		if err != nil {
			return err
		}
		data, err := yaml.Marshal(r)
		if err != nil {
			return fmt.Errorf("failed to render report: %w", err)
		}
		_, err = fmt.Fprint(cmd.OutOrStdout(), string(data))
		return err
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
