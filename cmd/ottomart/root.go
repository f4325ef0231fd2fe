package main

import (
	"github.com/spf13/cobra"
)

var (
	cfgFile string
	verbose bool
	quiet   bool
	logFile string
)

// rootCmd runs the interactive shell when called without a subcommand.
var rootCmd = &cobra.Command{
	Use:   "ottomart",
	Short: "Cart-aware recipe recommender",
	Long: `ottomart keeps a grocery cart and recommends recipes from it.

Example usage:
  ottomart                          # interactive shell
  ottomart recommend -p P001,P002   # one-shot recommendation for a cart
  ottomart search 감자               # product search
  ottomart catalog                  # list recipes
  ottomart schema                   # create the postgres tables
  ottomart index                    # embed recipes for vector search`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runShell,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (default: ottomart.yaml or $OTTOMART_CONFIG)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose/debug logging")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "disable all logging")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", `file to write logs to, "stderr" for the console (overrides logging.file)`)
}
