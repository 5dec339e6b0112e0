package cmd

import (
	"fmt"

	"github.com/september-cli/september/internal/orchestrator"
	"github.com/spf13/cobra"
)

// newScanCmd creates the scan command.
func newScanCmd() *cobra.Command {
	var (
		scanTmpDir        string
		scanSCM           string
		scanConfigFile    string
		scanFirstTag      string
		scanTagPattern    string
		scanPurgeFiltered bool
		scanVerbose       bool
	)
	cmd := &cobra.Command{
		Use:   "scan <repository>",
		Short: "Reconcile the tag listing into the cache without running commands",
		Long: `Refresh the working copy and fold its tag listing into the cached
processing state. Nothing is executed; pending tags stay pending until a
later run picks them up.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newContainer(containerOptions{
				repository:   args[0],
				scm:          scanSCM,
				tmpDir:       scanTmpDir,
				configFile:   scanConfigFile,
				verbose:      scanVerbose,
				withProvider: true,
			})
			if err != nil {
				return err
			}
			defer c.close()
			cfg := orchestrator.ReplayConfig{
				Repository: args[0],
				ConfigFile: scanConfigFile,
				ScanOnly:   true,
				FirstTag:   scanFirstTag,
				TagPattern: scanTagPattern,
			}
			if cmd.Flags().Changed("purge-filtered") {
				cfg.PurgeFiltered = &scanPurgeFiltered
			}
			result, err := c.newOrchestrator().Execute(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(),
				"🔍 Scan complete: %d tags observed (%d added, %d moved, %d removed)\n",
				result.Scan.Observed, result.Scan.Added, result.Scan.Moved, result.Scan.Removed)
			return nil
		},
	}
	cmd.Flags().StringVarP(&scanTmpDir, "tmp-dir", "t", "", "Workspace directory for the clone, cache and lock (default under the system temp dir)")
	cmd.Flags().StringVar(&scanSCM, "scm", "guess", "Source control system of the repository (guess, git or mercurial)")
	cmd.Flags().StringVar(&scanConfigFile, "config", "", "Config file to use instead of the one inside the clone")
	cmd.Flags().StringVar(&scanFirstTag, "first-tag", "", "Oldest tag of interest; anything older is not tracked")
	cmd.Flags().StringVar(&scanTagPattern, "tag-pattern", "", "Regular expression selecting which tags are tracked")
	cmd.Flags().BoolVar(&scanPurgeFiltered, "purge-filtered", false, "Drop cached tags that no longer match the tag pattern")
	cmd.Flags().BoolVarP(&scanVerbose, "verbose", "v", false, "Enable debug logging")
	return cmd
}
