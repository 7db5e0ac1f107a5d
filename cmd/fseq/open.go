package main

import (
	"github.com/Zuo-Peng/file-sequencer/internal/open"
	"github.com/Zuo-Peng/file-sequencer/internal/sequence"
	"github.com/spf13/cobra"
)

func openCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "open <revision_id> [dir]",
		Short: "Open the file carrying a revision id in $EDITOR",
		Long:  `Opens the file whose revision_id equals the argument, or the only one it is a prefix of, at the line that assigns it.`,
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			col, err := sequence.Collect(targetDir(cfg, args[1:]), cfg.Extensions, fields(cfg))
			if err != nil {
				return err
			}

			rec, err := open.FindRevision(col.Records, args[0])
			if err != nil {
				return err
			}
			return open.OpenFile(rec.Path, rec.Line)
		},
	}
}
