package main

import (
	"fmt"
	"os"

	"github.com/september-cli/september/cmd"
)

func main() {
	cmd.InitCommands()
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
