package cmd

import (
	"github.com/september-cli/september/internal/reporter"
	"github.com/spf13/cobra"
)

// newStatusCmd creates the status command.
func newStatusCmd() *cobra.Command {
	var (
		statusTmpDir  string
		statusOutput  string
		statusVerbose bool
	)
	cmd := &cobra.Command{
		Use:   "status <repository>",
		Short: "Show the cached processing state without touching anything",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newContainer(containerOptions{
				repository: args[0],
				tmpDir:     statusTmpDir,
				verbose:    statusVerbose,
			})
			if err != nil {
				return err
			}
			defer c.close()
			status, err := c.newOrchestrator().Status(cmd.Context())
			if err != nil {
				return err
			}
			rep, err := reporter.New(reporter.Format(statusOutput))
			if err != nil {
				return err
			}
			return rep.Render(cmd.OutOrStdout(), status)
		},
	}
	cmd.Flags().StringVarP(&statusTmpDir, "tmp-dir", "t", "", "Workspace directory holding the cache (default under the system temp dir)")
	cmd.Flags().StringVarP(&statusOutput, "output", "o", "text", "Output format (text, json or yaml)")
	cmd.Flags().BoolVarP(&statusVerbose, "verbose", "v", false, "Enable debug logging")
	return cmd
}
