package main

import (
	"fmt"
	"path/filepath"

	"github.com/Zuo-Peng/file-sequencer/internal/index"
	"github.com/Zuo-Peng/file-sequencer/internal/render"
	"github.com/Zuo-Peng/file-sequencer/internal/search"
	"github.com/spf13/cobra"
)

func historyCmd() *cobra.Command {
	var limit int
	var runID int64
	var file, status string

	cmd := &cobra.Command{
		Use:   "history [dir]",
		Short: "List journaled runs, optionally for one directory",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			db, err := index.OpenDB(cfg.DBPath)
			if err != nil {
				return fmt.Errorf("open journal: %w", err)
			}
			defer db.Close()

			opts := render.Options{Color: stdoutIsTerminal()}
			out := cmd.OutOrStdout()

			if runID > 0 {
				run, err := db.GetRun(runID)
				if err != nil {
					return err
				}
				if run == nil {
					return fmt.Errorf("run not found: %d", runID)
				}
				renames, err := db.GetRenames(runID)
				if err != nil {
					return err
				}
				anomalies, err := db.GetAnomalies(runID)
				if err != nil {
					return err
				}
				fmt.Fprint(out, render.RunDetail(*run, renames, anomalies, opts))
				return nil
			}

			dir := ""
			if len(args) > 0 {
				if dir, err = filepath.Abs(args[0]); err != nil {
					return err
				}
			}

			if file != "" {
				results, err := search.Renames(db, search.Options{
					Query:  file,
					Dir:    dir,
					Status: status,
					Limit:  limit,
				})
				if err != nil {
					return err
				}
				opts.Query = file
				fmt.Fprint(out, render.Renames(results, opts))
				return nil
			}

			runs, err := db.ListRuns(dir, limit)
			if err != nil {
				return err
			}
			fmt.Fprint(out, render.History(runs, opts))
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "Max runs to list (0 = no limit)")
	cmd.Flags().Int64Var(&runID, "run", 0, "Show the renames and anomalies of one run")
	cmd.Flags().StringVar(&file, "file", "", "Trace renames of files whose name contains this text, or of this revision id")
	cmd.Flags().StringVar(&status, "status", "", "With --file, only show this status (renamed/unchanged/failed)")

	return cmd
}
