package cmd

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "september",
	Short: "Replay a repository's tag history, one command per tag",
	Long: `september walks a repository's tags and runs a configured command once
for each tagged revision, remembering durably which tags are already done so
an interrupted run picks up exactly where it stopped.`,
}

func Execute() error {
	return rootCmd.Execute()
}
