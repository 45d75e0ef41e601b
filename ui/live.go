package ui

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/gosuri/uilive"
	colorful "github.com/lucasb-eyer/go-colorful"
	"golang.org/x/term"

	"github.com/bond-kaneko/go-calc/calc"
	"github.com/bond-kaneko/go-calc/config"
	"github.com/bond-kaneko/go-calc/keypad"
	"github.com/bond-kaneko/go-calc/theme"
)

// clearRune is what Delete and Esc are translated to
const clearRune = 'c'

const liveHelp = "0-9 . + - * / = enter · c clear · ⌫ · n ± · % · t theme · q quit"

// Live redraws a compact calculator block in place after every key.
// It reads single keystrokes, switching the terminal to raw mode when
// the input is a terminal.
type Live struct {
	in       io.Reader
	writer   *uilive.Writer
	engine   *calc.Engine
	mode     theme.Mode
	// fileMode is the theme of the last applied config
	fileMode theme.Mode
	color    bool
	logger   *slog.Logger
	reloads  chan config.Config
}

// NewLive creates a line-mode front-end reading keys from in and drawing to out
func NewLive(in io.Reader, out io.Writer, e *calc.Engine, mode theme.Mode, logger *slog.Logger) *Live {
	writer := uilive.New()
	writer.Out = out

	return &Live{
		in:       in,
		writer:   writer,
		engine:   e,
		mode:     mode,
		fileMode: mode,
		color:    true,
		logger:   orDiscard(logger),
		reloads:  make(chan config.Config, 1),
	}
}

// SetColor enables or disables ANSI colours
func (l *Live) SetColor(enabled bool) {
	l.color = enabled
}

// Reload queues cfg for the loop, replacing any reload not yet applied
func (l *Live) Reload(cfg config.Config) {
	for {
		select {
		case l.reloads <- cfg:
			return
		default:
		}
		select {
		case <-l.reloads:
		default:
		}
	}
}

// Run reads keys until q, Ctrl+C, Ctrl+D, end of input or ctx is done
func (l *Live) Run(ctx context.Context) error {
	if f, ok := l.in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		state, err := term.MakeRaw(int(f.Fd()))
		if err != nil {
			return fmt.Errorf("failed to enter raw mode: %w", err)
		}
		defer term.Restore(int(f.Fd()), state)
	}

	done := make(chan struct{})
	defer close(done)
	keys := make(chan rune)
	readErr := make(chan error, 1)
	go l.readKeys(done, keys, readErr)

	l.applyPending()
	if err := l.render(); err != nil {
		return err
	}
	for {
		select {
		case <-ctx.Done():
			return nil

		case err := <-readErr:
			if err == io.EOF {
				return nil
			}
			return fmt.Errorf("reading keys: %w", err)

		case r := <-keys:
			l.applyPending()
			if err := l.handleRune(r); err != nil {
				if err == ErrQuit {
					return nil
				}
				return err
			}

		case cfg := <-l.reloads:
			l.apply(cfg)
			if err := l.render(); err != nil {
				return err
			}
		}
	}
}

// applyPending applies a queued reload, if any, so it takes effect before the next key
func (l *Live) applyPending() {
	select {
	case cfg := <-l.reloads:
		l.apply(cfg)
	default:
	}
}

func (l *Live) apply(cfg config.Config) {
	cfg.Apply(l.engine)
	if m := cfg.ThemeMode(); m != l.fileMode {
		l.mode, l.fileMode = m, m
	}
	l.logger.Info("applied config", "history_cap", cfg.HistoryCap, "theme", cfg.Theme)
}

func (l *Live) readKeys(done <-chan struct{}, keys chan<- rune, errs chan<- error) {
	r := bufio.NewReader(l.in)
	for {
		c, ok, err := readKey(r)
		if err != nil {
			errs <- err
			return
		}
		if !ok {
			continue
		}
		select {
		case keys <- c:
		case <-done:
			return
		}
	}
}

// readKey returns the next keystroke. Escape sequences sent for cursor and
// function keys are consumed whole and reported as !ok, except Delete and
// a lone Esc, which clear like they do on the full screen.
func readKey(r *bufio.Reader) (rune, bool, error) {
	c, _, err := r.ReadRune()
	if err != nil || c != 0x1b {
		return c, err == nil, err
	}
	if r.Buffered() == 0 {
		return clearRune, true, nil
	}

	intro, err := r.ReadByte()
	if err != nil {
		return 0, false, err
	}
	switch intro {
	case '[':
	case 'O':
		// SS3 carries a single final byte
		_, err := r.ReadByte()
		return 0, false, err
	default:
		// Alt-modified key
		return 0, false, nil
	}

	var params []byte
	for {
		b, err := r.ReadByte()
		if err != nil {
			return 0, false, err
		}
		if b >= 0x40 && b <= 0x7e {
			if b == '~' && string(params) == "3" {
				return clearRune, true, nil
			}
			return 0, false, nil
		}
		params = append(params, b)
	}
}

func (l *Live) handleRune(r rune) error {
	switch r {
	case 'q', 0x03, 0x04:
		return ErrQuit
	}
	k, ok := keypad.FromRune(r)
	if !ok {
		return nil
	}

	if k == keypad.KeyTheme {
		l.mode = l.mode.Toggle()
	} else {
		keypad.Dispatch(l.engine, k)
	}
	l.logger.Debug("key", "key", k.String(), "display", l.engine.Display())
	return l.render()
}

// render writes the block; lines end in CRLF because raw mode disables
// output newline translation
func (l *Live) render() error {
	p := theme.For(l.mode)
	const width = 32

	var b strings.Builder
	line := func(c colorful.Color, bold bool, s string) {
		if l.color {
			r, g, bl := c.RGB255()
			if bold {
				b.WriteString("\x1b[1m")
			}
			fmt.Fprintf(&b, "\x1b[38;2;%d;%d;%dm%s\x1b[0m\r\n", r, g, bl, s)
			return
		}
		b.WriteString(s + "\r\n")
	}

	line(p.Text, false, padLeft(l.mode.Icon(), width))
	for _, h := range l.engine.HistoryStrings() {
		line(p.Muted, false, fitRight(h, width))
	}
	line(p.Muted, false, padLeft(fitLeft(l.engine.Expression(), width), width))
	line(p.Operator, true, padLeft(fitLeft(l.engine.Display(), width), width))
	line(p.Muted, false, fitRight(liveHelp, width*2))

	if _, err := io.WriteString(l.writer, b.String()); err != nil {
		return err
	}
	return l.writer.Flush()
}
