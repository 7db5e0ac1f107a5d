package main

import (
	"log/slog"
	"os"
	"strings"

	"github.com/Zuo-Peng/file-sequencer/internal/config"
	"github.com/Zuo-Peng/file-sequencer/internal/index"
	"github.com/Zuo-Peng/file-sequencer/internal/parse"
	"github.com/Zuo-Peng/file-sequencer/internal/rename"
	"github.com/Zuo-Peng/file-sequencer/internal/sequence"
	"golang.org/x/term"
)

var globals struct {
	configPath string
	verbose    bool
}

func loadConfig() (*config.Config, error) {
	return config.Load(globals.configPath)
}

func newLogger(cfg *config.Config) *slog.Logger {
	var level slog.Level
	if globals.verbose {
		level = slog.LevelDebug
	} else if err := level.UnmarshalText([]byte(strings.ToLower(cfg.LogLevel))); err != nil {
		level = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// targetDir is the positional directory argument, or the configured default.
func targetDir(cfg *config.Config, args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return cfg.Dir
}

func sequenceOptions(cfg *config.Config, dir string) sequence.Options {
	return sequence.Options{
		Dir:        dir,
		Extensions: cfg.Extensions,
		Fields:     fields(cfg),
		Rename: rename.Options{
			Separator: cfg.Separator,
			MinWidth:  cfg.MinWidth,
		},
	}
}

func fields(cfg *config.Config) parse.Fields {
	return parse.Fields{Revision: cfg.RevisionField, Revises: cfg.RevisesField}
}

// openJournal returns nil when journaling is switched off.
func openJournal(cfg *config.Config, disabled bool) (*index.DB, error) {
	if disabled || !cfg.Journal {
		return nil, nil
	}
	return index.OpenDB(cfg.DBPath)
}

func stdoutIsTerminal() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}
