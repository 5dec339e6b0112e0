package cmd

import (
	"fmt"

	"github.com/september-cli/september/internal/orchestrator"
	"github.com/spf13/cobra"
)

// newRunCmd creates the run command.
func newRunCmd() *cobra.Command {
	var (
		runTmpDir        string
		runSCM           string
		runConfigFile    string
		runCommand       string
		runFirstTag      string
		runTagPattern    string
		runUseShell      bool
		runPurgeFiltered bool
		runVerbose       bool
	)
	cmd := &cobra.Command{
		Use:   "run <repository>",
		Short: "Replay the tag history, running the configured command once per tag",
		Long: `Replay the repository's tag history.

The repository is cloned (or refreshed) inside the workspace, its tag listing
is reconciled against the cached processing state, and the configured command
runs once for every tag not processed yet, in the order they entered the
cache. Progress is checkpointed after each tag, so an interrupted run resumes
without repeating completed work.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newContainer(containerOptions{
				repository:   args[0],
				scm:          runSCM,
				tmpDir:       runTmpDir,
				configFile:   runConfigFile,
				verbose:      runVerbose,
				withProvider: true,
			})
			if err != nil {
				return err
			}
			defer c.close()
			cfg := orchestrator.ReplayConfig{
				Repository: args[0],
				ConfigFile: runConfigFile,
				Command:    runCommand,
				FirstTag:   runFirstTag,
				TagPattern: runTagPattern,
			}
			if cmd.Flags().Changed("use-shell") {
				cfg.UseShell = &runUseShell
			}
			if cmd.Flags().Changed("purge-filtered") {
				cfg.PurgeFiltered = &runPurgeFiltered
			}
			result, err := c.newOrchestrator().Execute(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(),
				"✅ Replay complete: %d tags observed (%d added, %d moved, %d removed), %d processed, %d skipped\n",
				result.Scan.Observed, result.Scan.Added, result.Scan.Moved, result.Scan.Removed,
				result.Process.Processed, result.Process.Skipped)
			return nil
		},
	}
	cmd.Flags().StringVarP(&runTmpDir, "tmp-dir", "t", "", "Workspace directory for the clone, cache and lock (default under the system temp dir)")
	cmd.Flags().StringVar(&runSCM, "scm", "guess", "Source control system of the repository (guess, git or mercurial)")
	cmd.Flags().StringVar(&runConfigFile, "config", "", "Config file to use instead of the one inside the clone")
	cmd.Flags().StringVar(&runCommand, "command", "", "Command template to run for each tag (overrides the config file)")
	cmd.Flags().StringVar(&runFirstTag, "first-tag", "", "Oldest tag of interest; anything older is not tracked")
	cmd.Flags().StringVar(&runTagPattern, "tag-pattern", "", "Regular expression selecting which tags are tracked")
	cmd.Flags().BoolVar(&runUseShell, "use-shell", false, "Run the command through a shell")
	cmd.Flags().BoolVar(&runPurgeFiltered, "purge-filtered", false, "Drop cached tags that no longer match the tag pattern")
	cmd.Flags().BoolVarP(&runVerbose, "verbose", "v", false, "Enable debug logging")
	return cmd
}
