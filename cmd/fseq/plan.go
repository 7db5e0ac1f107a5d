package main

import (
	"fmt"

	"github.com/Zuo-Peng/file-sequencer/internal/render"
	"github.com/Zuo-Peng/file-sequencer/internal/sequence"
	"github.com/Zuo-Peng/file-sequencer/internal/tui"
	"github.com/spf13/cobra"
)

func planCmd() *cobra.Command {
	var noTUI bool

	cmd := &cobra.Command{
		Use:   "plan [dir]",
		Short: "Show the chains and planned renames without touching any file",
		Long:  `Builds the chains for dir and checks every planned rename. Opens an interactive browser when stdout is a terminal; prints a plain report otherwise.`,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			opts := sequenceOptions(cfg, targetDir(cfg, args))
			opts.DryRun = true
			opts.Logger = newLogger(cfg)

			interactive := stdoutIsTerminal() && !noTUI
			if interactive {
				// the browser shows anomalies; keep the log off the alt screen
				opts.Logger = nil
			}

			rep, err := sequence.Run(opts)
			if err != nil {
				return err
			}

			if interactive {
				return tui.Run(rep, true)
			}
			fmt.Fprint(cmd.OutOrStdout(), render.Report(rep, render.Options{DryRun: true}))
			return nil
		},
	}

	cmd.Flags().BoolVar(&noTUI, "no-tui", false, "Print the plan instead of opening the browser")

	return cmd
}
