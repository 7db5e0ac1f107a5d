package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

type Config struct {
	Dir           string   `toml:"dir"`
	Extensions    []string `toml:"extensions"`
	RevisionField string   `toml:"revision_field"`
	RevisesField  string   `toml:"revises_field"`
	Separator     string   `toml:"separator"`
	MinWidth      int      `toml:"min_width"`
	Journal       bool     `toml:"journal"`
	DBPath        string   `toml:"db_path"`
	LogLevel      string   `toml:"log_level"`
}

// Default returns the configuration used when no config file exists.
func Default(home string) *Config {
	return &Config{
		Dir:           "migrations",
		Extensions:    []string{".py"},
		RevisionField: "revision_id",
		RevisesField:  "revises_id",
		Separator:     "_",
		MinWidth:      3,
		Journal:       true,
		DBPath:        filepath.Join(home, ".config", "fseq", "journal.db"),
		LogLevel:      "info",
	}
}

// DefaultPath is where Load looks when no explicit path is given.
func DefaultPath(home string) string {
	return filepath.Join(home, ".config", "fseq", "config.toml")
}

// Load reads the config at path, or the default location when path is
// empty. A missing default file is not an error; a missing explicit one is.
func Load(path string) (*Config, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}
	return LoadFrom(home, path)
}

func LoadFrom(home, path string) (*Config, error) {
	cfg := Default(home)

	cfgPath := path
	if cfgPath == "" {
		cfgPath = DefaultPath(home)
	}
	cfgPath = expandHome(cfgPath, home)

	if _, err := os.Stat(cfgPath); err == nil {
		if _, err := toml.DecodeFile(cfgPath, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", cfgPath, err)
		}
	} else if path != "" {
		return nil, fmt.Errorf("config %s: %w", cfgPath, err)
	}

	// expand ~ in paths
	cfg.Dir = expandHome(cfg.Dir, home)
	cfg.DBPath = expandHome(cfg.DBPath, home)

	for i, ext := range cfg.Extensions {
		if ext != "" && !strings.HasPrefix(ext, ".") {
			cfg.Extensions[i] = "." + ext
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", cfgPath, err)
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	var errs []error
	if c.RevisionField == "" || c.RevisesField == "" {
		errs = append(errs, errors.New("revision_field and revises_field must be set"))
	}
	if c.RevisionField == c.RevisesField {
		errs = append(errs, errors.New("revision_field and revises_field must differ"))
	}
	if c.Separator == "" {
		errs = append(errs, errors.New("separator must not be empty"))
	}
	if strings.ContainsAny(c.Separator, `/\0123456789`) {
		errs = append(errs, fmt.Errorf("separator %q must not contain digits or path separators", c.Separator))
	}
	if c.MinWidth < 1 || c.MinWidth > 9 {
		errs = append(errs, fmt.Errorf("min_width %d out of range 1..9", c.MinWidth))
	}
	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Errorf("unknown log_level %q", c.LogLevel))
	}
	return errors.Join(errs...)
}

func expandHome(path, home string) string {
	if len(path) > 1 && path[0] == '~' && path[1] == '/' {
		return filepath.Join(home, path[2:])
	}
	return path
}
