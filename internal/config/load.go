package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/pelletier/go-toml/v2"
)

// ParseError reports where a configuration file failed to parse.
type ParseError struct {
	Path    string
	Line    int
	Column  int
	Message string
	Err     error
}

func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("config: parse error in %s at line %d, column %d: %s", e.Path, e.Line, e.Column, e.Message)
	}
	return fmt.Sprintf("config: parse error in %s: %s", e.Path, e.Message)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Load builds the effective configuration: defaults, then the TOML file
// at path when it exists, then environment overrides. An empty path
// skips the file layer; a missing file is not an error.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		if err := loadFile(&cfg, path); err != nil {
			return Config{}, err
		}
	}
	applyEnv(&cfg)
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func loadFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("config: reading %s: %w", path, err)
	}
	if err := toml.Unmarshal(data, cfg); err != nil {
		perr := &ParseError{Path: path, Message: err.Error(), Err: err}
		var derr *toml.DecodeError
		if errors.As(err, &derr) {
			perr.Line, perr.Column = derr.Position()
			perr.Message = derr.Error()
		}
		return perr
	}
	return nil
}

// applyEnv layers CODEFIT_* environment overrides on top of the loaded
// values. Unparsable numeric values are ignored.
func applyEnv(cfg *Config) {
	if v, ok := os.LookupEnv("CODEFIT_THEME"); ok {
		cfg.Viewer.Theme = v
	}
	if v, ok := os.LookupEnv("CODEFIT_WIDTH"); ok {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Layout.ForcedColumns = n
		}
	}
	if v, ok := os.LookupEnv("CODEFIT_LOG_LEVEL"); ok {
		cfg.Logging.Level = v
	}
}
