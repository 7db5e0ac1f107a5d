package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var version = "dev"

// errUnclean makes --strict runs exit non-zero.
var errUnclean = errors.New("anomalies or rename failures found")

func newRootCmd() *cobra.Command {
	rootCmd := runCmd()
	rootCmd.Version = version
	rootCmd.SilenceErrors = true
	rootCmd.PersistentFlags().StringVar(&globals.configPath, "config", "", "Config file (default ~/.config/fseq/config.toml)")
	rootCmd.PersistentFlags().BoolVarP(&globals.verbose, "verbose", "v", false, "Log debug output")

	rootCmd.AddCommand(planCmd())
	rootCmd.AddCommand(historyCmd())
	rootCmd.AddCommand(openCmd())
	rootCmd.AddCommand(doctorCmd())
	return rootCmd
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
