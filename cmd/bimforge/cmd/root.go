package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "bimforge",
	Short: "Assemble building models from Lisp scripts",
	Long: `bimforge evaluates a building description script into an entity
graph, annotates it with fire rating and fire safety properties according
to a national standard, and writes the result as a textual exchange file.`,
}

// Execute adds all child commands to the root command and sets flags
// appropriately. This is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
