// Package config loads calculator settings from a TOML or JSON file.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/tidwall/gjson"

	"github.com/bond-kaneko/go-calc/calc"
	"github.com/bond-kaneko/go-calc/theme"
)

// MaxHistoryCap is the largest accepted history_cap
const MaxHistoryCap = 1000

var (
	// ErrInvalidHistoryCap indicates history_cap is out of range
	ErrInvalidHistoryCap = errors.New("history_cap must be between 1 and 1000")
	// ErrInvalidMaxDigits indicates max_digits is out of range
	ErrInvalidMaxDigits = errors.New("max_digits must be between 1 and 100")
	// ErrInvalidChain indicates chain is neither "replace" nor "evaluate"
	ErrInvalidChain = errors.New(`chain must be "replace" or "evaluate"`)
	// ErrInvalidTheme indicates theme is neither "light" nor "dark"
	ErrInvalidTheme = errors.New(`theme must be "light" or "dark"`)
	// ErrInvalidLogLevel indicates log_level is not a slog level name
	ErrInvalidLogLevel = errors.New("log_level must be debug, info, warn or error")
)

// Config holds every setting a front-end needs
type Config struct {
	HistoryCap int    `toml:"history_cap"`
	MaxDigits  int    `toml:"max_digits"`
	Chain      string `toml:"chain"`
	Theme      string `toml:"theme"`
	LogLevel   string `toml:"log_level"`
}

// Default returns the built-in settings
func Default() Config {
	return Config{
		HistoryCap: calc.DefaultHistoryCap,
		MaxDigits:  calc.DefaultMaxDigits,
		Chain:      calc.ChainReplace.String(),
		Theme:      theme.Light.String(),
		LogLevel:   "info",
	}
}

// ParseError reports a malformed config file
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parsing config %s: %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Load reads path over the defaults. A missing file is not an error.
// Files ending in .json are read as JSON, anything else as TOML.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config file %s: %w", path, err)
	}

	if strings.EqualFold(filepath.Ext(path), ".json") {
		err = decodeJSON(data, &cfg)
	} else {
		err = toml.Unmarshal(data, &cfg)
	}
	if err != nil {
		return Default(), &ParseError{Path: path, Err: err}
	}

	if err := cfg.Validate(); err != nil {
		return Default(), fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// decodeJSON overlays the keys present in data onto cfg
func decodeJSON(data []byte, cfg *Config) error {
	if !gjson.ValidBytes(data) {
		return errors.New("malformed JSON")
	}
	doc := gjson.ParseBytes(data)
	if !doc.IsObject() {
		return errors.New("top level must be an object")
	}

	if v := doc.Get("history_cap"); v.Exists() {
		if v.Type != gjson.Number {
			return fmt.Errorf("history_cap: expected number, got %s", v.Type)
		}
		cfg.HistoryCap = int(v.Int())
	}
	if v := doc.Get("max_digits"); v.Exists() {
		if v.Type != gjson.Number {
			return fmt.Errorf("max_digits: expected number, got %s", v.Type)
		}
		cfg.MaxDigits = int(v.Int())
	}
	for key, dst := range map[string]*string{
		"chain":     &cfg.Chain,
		"theme":     &cfg.Theme,
		"log_level": &cfg.LogLevel,
	} {
		if v := doc.Get(key); v.Exists() {
			if v.Type != gjson.String {
				return fmt.Errorf("%s: expected string, got %s", key, v.Type)
			}
			*dst = v.String()
		}
	}
	return nil
}

// Validate checks every field
func (c Config) Validate() error {
	var errs []error
	if c.HistoryCap < 1 || c.HistoryCap > MaxHistoryCap {
		errs = append(errs, ErrInvalidHistoryCap)
	}
	if c.MaxDigits < 1 || c.MaxDigits > 100 {
		errs = append(errs, ErrInvalidMaxDigits)
	}
	if _, err := ParseChain(c.Chain); err != nil {
		errs = append(errs, err)
	}
	if _, err := theme.ParseMode(c.Theme); err != nil {
		errs = append(errs, ErrInvalidTheme)
	}
	if _, err := ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// Engine returns the engine options described by c
func (c Config) Engine() calc.Options {
	chain, _ := ParseChain(c.Chain)
	return calc.Options{
		HistoryCap: c.HistoryCap,
		MaxDigits:  c.MaxDigits,
		Chain:      chain,
	}
}

// ThemeMode returns the configured theme, light if unset or invalid
func (c Config) ThemeMode() theme.Mode {
	m, _ := theme.ParseMode(c.Theme)
	return m
}

// Level returns the configured log level, info if unset or invalid
func (c Config) Level() slog.Level {
	l, _ := ParseLevel(c.LogLevel)
	return l
}

// Apply pushes the engine settings of c into e without resetting its state
func (c Config) Apply(e *calc.Engine) {
	opts := c.Engine()
	e.SetHistoryCap(opts.HistoryCap)
	e.SetMaxDigits(opts.MaxDigits)
	e.SetChainPolicy(opts.Chain)
}

// Overrides are settings given on the command line. Non-zero fields win
// over the file at startup and on every reload.
type Overrides struct {
	HistoryCap int
	Chain      string
	Theme      string
	LogLevel   string
}

// Apply returns cfg with the overrides set
func (o Overrides) Apply(cfg Config) Config {
	if o.HistoryCap != 0 {
		cfg.HistoryCap = o.HistoryCap
	}
	if o.Chain != "" {
		cfg.Chain = o.Chain
	}
	if o.Theme != "" {
		cfg.Theme = o.Theme
	}
	if o.LogLevel != "" {
		cfg.LogLevel = o.LogLevel
	}
	return cfg
}

// ParseChain parses a chain policy name
func ParseChain(s string) (calc.ChainPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "replace":
		return calc.ChainReplace, nil
	case "evaluate":
		return calc.ChainEvaluate, nil
	default:
		return calc.ChainReplace, ErrInvalidChain
	}
}

// ParseLevel parses a log level name
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, ErrInvalidLogLevel
	}
}
