package main

import (
	"fmt"
	"os"

	"github.com/Zuo-Peng/file-sequencer/internal/chain"
	"github.com/Zuo-Peng/file-sequencer/internal/config"
	"github.com/Zuo-Peng/file-sequencer/internal/index"
	"github.com/Zuo-Peng/file-sequencer/internal/sequence"
	"github.com/spf13/cobra"
)

func doctorCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "doctor [dir]",
		Short: "Self-check: verify config, directory, extraction and journal",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return fmt.Errorf("config: %w", err)
			}

			fmt.Println("=== Config ===")
			path := globals.configPath
			if path == "" {
				if home, err := os.UserHomeDir(); err == nil {
					path = config.DefaultPath(home)
				}
			}
			if _, err := os.Stat(path); err != nil {
				fmt.Printf("  File: %s (not found, using defaults)\n", path)
			} else {
				fmt.Printf("  File: %s (OK)\n", path)
			}
			fmt.Printf("  Fields: %s / %s\n", cfg.RevisionField, cfg.RevisesField)
			fmt.Printf("  Extensions: %v\n", cfg.Extensions)

			dir := targetDir(cfg, args)
			fmt.Println("\n=== Directory ===")
			checkDir(dir)

			col, err := sequence.Collect(dir, cfg.Extensions, fields(cfg))
			if err != nil {
				fmt.Printf("  scan error: %v\n", err)
			} else {
				fmt.Printf("  Candidate files: %d\n", col.Files)
				fmt.Printf("  Records:         %d\n", len(col.Records))
				fmt.Printf("  Unreadable:      %d\n", len(col.Failures))

				chains, anomalies := chain.Build(col.Records, nil)
				counts := make(map[chain.Kind]int)
				for _, a := range anomalies {
					counts[a.Kind]++
				}
				fmt.Printf("  Chains:          %d\n", len(chains))
				for _, k := range []chain.Kind{chain.DuplicateID, chain.DanglingReference, chain.CycleDetected, chain.Branch} {
					if counts[k] > 0 {
						fmt.Printf("  %-16s %d\n", k.String()+":", counts[k])
					}
				}
			}

			fmt.Println("\n=== Journal ===")
			if !cfg.Journal {
				fmt.Println("  Status: disabled")
				return nil
			}
			fmt.Printf("  Path: %s\n", cfg.DBPath)
			if _, err := os.Stat(cfg.DBPath); os.IsNotExist(err) {
				fmt.Println("  Status: NOT FOUND (created on first run)")
				return nil
			}

			db, err := index.OpenDB(cfg.DBPath)
			if err != nil {
				return fmt.Errorf("open journal: %w", err)
			}
			defer db.Close()

			n, err := db.RunCount()
			if err != nil {
				return fmt.Errorf("count runs: %w", err)
			}
			fmt.Printf("  Runs: %d\n", n)

			if info, err := os.Stat(cfg.DBPath); err == nil {
				fmt.Printf("  Size: %.1f KB\n", float64(info.Size())/1024)
			}
			return nil
		},
	}
}

func checkDir(path string) {
	if info, err := os.Stat(path); err != nil {
		fmt.Printf("  %s (NOT FOUND)\n", path)
	} else if !info.IsDir() {
		fmt.Printf("  %s (NOT A DIRECTORY)\n", path)
	} else {
		fmt.Printf("  %s (OK)\n", path)
	}
}
