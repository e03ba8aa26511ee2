// ABOUTME: Entry point for liftlog CLI.
// ABOUTME: Invokes the root Cobra command and maps schema failures to exit code 2.
package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"

	"github.com/harperreed/liftlog/internal/storage"
)

func main() {
	if err := Execute(); err != nil {
		if storage.IsSchemaError(err) {
			color.New(color.FgRed).Fprintln(os.Stderr, "Database schema could not be prepared; nothing was written.")
			fmt.Fprintln(os.Stderr, err)
			os.Exit(2)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Execute runs the root command. Resources opened by the pre-run hook are
// released even when the command fails.
func Execute() error {
	defer closeAll()
	return rootCmd.Execute()
}
