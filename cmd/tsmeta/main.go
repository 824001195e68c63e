package main

import (
	"os"

	"github.com/spf13/cobra"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "tsmeta",
		Short: "Recover component metadata from compiled TypeScript output",
	}

	rootCmd.AddCommand(newParseCmd())
	rootCmd.AddCommand(newExtractCmd())
	rootCmd.AddCommand(newScanCmd())
	rootCmd.AddCommand(newLSPCmd())
	rootCmd.AddCommand(newUICmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
