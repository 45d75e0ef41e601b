package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/mattn/go-isatty"

	"github.com/bond-kaneko/go-calc/calc"
	"github.com/bond-kaneko/go-calc/config"
	"github.com/bond-kaneko/go-calc/filenotify"
	"github.com/bond-kaneko/go-calc/ui"
	"github.com/bond-kaneko/go-calc/watcher"
)

func main() {
	// Configure command line arguments
	configFlag := flag.String("c", defaultConfigPath(), "Config file (TOML, or JSON with a .json extension)")
	modeFlag := flag.String("mode", "auto", "Front-end: auto, screen, live or batch")
	keysFlag := flag.String("k", "", "Key sequence to evaluate in batch mode (e.g. \"7+3=\")")
	jsonFlag := flag.Bool("json", false, "Print a JSON snapshot per line in batch mode")
	themeFlag := flag.String("theme", "", "Theme override: light or dark")
	historyFlag := flag.Int("history", 0, "History size override")
	chainFlag := flag.String("chain", "", "Operator chaining override: replace or evaluate")
	logFlag := flag.String("log", "", "Write logs to this file")
	levelFlag := flag.String("log-level", "", "Log level override: debug, info, warn or error")
	pollFlag := flag.Duration("poll", 0, "Poll the config file at this interval instead of using fs events")
	watchFlag := flag.Bool("w", true, "Reload the config file when it changes")
	flag.Parse()

	cfg, err := config.Load(*configFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	// Flags override the file, now and on every reload
	overrides := config.Overrides{
		HistoryCap: *historyFlag,
		Chain:      *chainFlag,
		Theme:      *themeFlag,
		LogLevel:   *levelFlag,
	}
	cfg = overrides.Apply(cfg)
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error in settings: %v\n", err)
		os.Exit(1)
	}

	logger, closeLog, err := newLogger(*logFlag, cfg.Level())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening log: %v\n", err)
		os.Exit(1)
	}
	defer closeLog()

	engine := calc.New(cfg.Engine())

	mode := *modeFlag
	if mode == "auto" {
		mode = detectMode(*keysFlag)
	}
	logger.Debug("starting", "mode", mode, "config", *configFlag)

	if mode == "batch" {
		if err := runBatch(engine, *keysFlag, *jsonFlag); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	var front ui.Frontend
	switch mode {
	case "screen":
		front, err = ui.NewTerminalScreen(engine, cfg.ThemeMode(), logger)
	case "live":
		live := ui.NewLive(os.Stdin, os.Stdout, engine, cfg.ThemeMode(), logger)
		live.SetColor(isatty.IsTerminal(os.Stdout.Fd()))
		front = live
	default:
		err = fmt.Errorf("unknown mode %q", mode)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	// Set up signal handling for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	signalChan := make(chan os.Signal, 1)
	signal.Notify(signalChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		select {
		case <-signalChan:
			cancel()
		case <-ctx.Done():
		}
	}()

	// Watch the config in a goroutine
	if *watchFlag && *configFlag != "" {
		var opts []filenotify.Option
		if *pollFlag > 0 {
			opts = append(opts, filenotify.WithPolling(*pollFlag))
		}
		cw, err := watcher.NewConfigWatcher(*configFlag, withOverrides(overrides, front.Reload, logger), logger, opts...)
		if err != nil {
			logger.Warn("config reload disabled", "err", err)
		} else {
			defer cw.Close()
			go func() {
				if err := cw.Watch(ctx); err != nil {
					logger.Warn("config watch stopped", "err", err)
				}
			}()
		}
	}

	if err := front.Run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// withOverrides wraps deliver so reloaded configs keep the command line
// overrides. A config that is invalid once overridden is dropped.
func withOverrides(overrides config.Overrides, deliver func(config.Config), logger *slog.Logger) func(config.Config) {
	return func(cfg config.Config) {
		cfg = overrides.Apply(cfg)
		if err := cfg.Validate(); err != nil {
			logger.Warn("ignoring reloaded config", "err", err)
			return
		}
		deliver(cfg)
	}
}

// detectMode picks batch for scripted or piped input, the full screen
// keypad on a terminal, and the line display otherwise
func detectMode(keys string) string {
	switch {
	case keys != "":
		return "batch"
	case !isatty.IsTerminal(os.Stdin.Fd()) && !isatty.IsCygwinTerminal(os.Stdin.Fd()):
		return "batch"
	case isatty.IsTerminal(os.Stdout.Fd()):
		return "screen"
	default:
		return "live"
	}
}

func runBatch(engine *calc.Engine, keys string, asJSON bool) error {
	b := &ui.Batch{Engine: engine, Out: os.Stdout, JSON: asJSON}
	if keys != "" {
		return b.Run(strings.NewReader(keys))
	}
	return b.Run(os.Stdin)
}

// defaultConfigPath returns the per-user config file location
func defaultConfigPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "go-calc", "config.toml")
}

// newLogger writes text logs to path, or discards them when path is empty.
// The interactive front-ends own the terminal, so logs never go to stderr.
func newLogger(path string, level slog.Level) (*slog.Logger, func(), error) {
	if path == "" {
		return slog.New(slog.DiscardHandler), func() {}, nil
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open log file: %w", err)
	}
	handler := slog.NewTextHandler(f, &slog.HandlerOptions{
		Level: level,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey && len(groups) == 0 {
				return slog.String(slog.TimeKey, a.Value.Time().Format(time.RFC3339))
			}
			return a
		},
	})
	return slog.New(handler), func() { f.Close() }, nil
}
