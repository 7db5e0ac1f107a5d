package main

import (
	"fmt"

	"github.com/Zuo-Peng/file-sequencer/internal/render"
	"github.com/Zuo-Peng/file-sequencer/internal/sequence"
	"github.com/spf13/cobra"
)

func runCmd() *cobra.Command {
	var dryRun, strict, noJournal bool

	cmd := &cobra.Command{
		Use:   "fseq [dir]",
		Short: "Rename revision files so their names follow the revises_id chain",
		Long: `Reads revision_id and revises_id from every candidate file in dir, rebuilds
the revision chain(s) they describe and prefixes each file name with its
zero-padded position, e.g. 001_init.py, 002_add_users.py.

Problems such as duplicate ids, dangling references or loops are reported
and the affected files are left alone; the rest are still renamed.
Re-running on an already sequenced directory changes nothing.`,
		Args:         cobra.MaximumNArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			db, err := openJournal(cfg, noJournal)
			if err != nil {
				return fmt.Errorf("open journal: %w", err)
			}
			if db != nil {
				defer db.Close()
			}

			opts := sequenceOptions(cfg, targetDir(cfg, args))
			opts.DryRun = dryRun
			opts.Logger = newLogger(cfg)
			opts.Journal = db

			rep, err := sequence.Run(opts)
			if err != nil {
				return err
			}

			fmt.Fprint(cmd.OutOrStdout(), render.Report(rep, render.Options{
				Color:  stdoutIsTerminal(),
				DryRun: dryRun,
			}))

			if strict && !rep.Clean() {
				return errUnclean
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&dryRun, "dry-run", "n", false, "Show what would be renamed without renaming")
	cmd.Flags().BoolVar(&strict, "strict", false, "Exit non-zero when anomalies or rename failures occur")
	cmd.Flags().BoolVar(&noJournal, "no-journal", false, "Do not record this run in the journal")

	return cmd
}
