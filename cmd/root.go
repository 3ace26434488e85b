package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "adminrag",
	Short: "Question answering over administrative procedure documents",
	Long: `adminrag indexes administrative procedure documents (PDF, text,
web pages) into a vector store and answers natural-language questions in
French, grounded on the retrieved passages.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	settingDefaultConfig()
}
