package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	root := &cobra.Command{
		Use:           "gdtypes",
		Short:         "Inspect the semantic type universe of a GDScript project",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringP("config", "c", "project.types.yaml", "project configuration file")
	root.PersistentFlags().Bool("debug", false, "enable debug logging")

	root.AddCommand(newTypesCommand())
	root.AddCommand(newReportCommand())
	root.AddCommand(newSceneCommand())
	root.AddCommand(newCheckCommand())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
