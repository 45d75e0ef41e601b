package ui

import (
	"context"
	"log/slog"
	"sync"

	"github.com/gdamore/tcell/v2"
	colorful "github.com/lucasb-eyer/go-colorful"
	"github.com/rivo/uniseg"

	"github.com/bond-kaneko/go-calc/calc"
	"github.com/bond-kaneko/go-calc/config"
	"github.com/bond-kaneko/go-calc/keypad"
	"github.com/bond-kaneko/go-calc/theme"
)

// quitRequest is posted to the event queue when ctx is cancelled
type quitRequest struct{}

// button is a keypad key and the screen cells it covers
type button struct {
	key        keypad.Key
	x, y, w, h int
}

func (b button) contains(x, y int) bool {
	return x >= b.x && x < b.x+b.w && y >= b.y && y < b.y+b.h
}

// Screen is the full-screen keypad front-end
type Screen struct {
	screen   tcell.Screen
	engine   *calc.Engine
	mode     theme.Mode
	// fileMode is the theme of the last applied config
	fileMode theme.Mode
	logger   *slog.Logger

	// mu guards running and pending. Reloads arriving before Run are
	// kept in pending, latest wins.
	mu      sync.Mutex
	running bool
	pending *config.Config

	buttons   []button
	themeX    int
	lastKey   keypad.Key
	hasLast   bool
	mouseDown bool
}

// NewScreen creates a front-end drawing on s. Run initializes and finalizes s.
func NewScreen(s tcell.Screen, e *calc.Engine, mode theme.Mode, logger *slog.Logger) *Screen {
	return &Screen{
		screen:   s,
		engine:   e,
		mode:     mode,
		fileMode: mode,
		logger:   orDiscard(logger),
	}
}

// NewTerminalScreen creates a front-end on the process terminal
func NewTerminalScreen(e *calc.Engine, mode theme.Mode, logger *slog.Logger) (*Screen, error) {
	s, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	return NewScreen(s, e, mode, logger), nil
}

// Run takes over the terminal until the user quits or ctx is done
func (s *Screen) Run(ctx context.Context) error {
	if err := s.screen.Init(); err != nil {
		return err
	}
	defer s.screen.Fini()

	s.mu.Lock()
	s.running = true
	pending := s.pending
	s.pending = nil
	s.mu.Unlock()
	defer func() {
		s.mu.Lock()
		s.running = false
		s.mu.Unlock()
	}()
	if pending != nil {
		s.apply(*pending)
	}

	s.screen.EnableMouse()
	s.screen.HideCursor()
	s.draw()

	go func() {
		<-ctx.Done()
		_ = s.screen.PostEvent(tcell.NewEventInterrupt(quitRequest{}))
	}()

	for {
		ev := s.screen.PollEvent()
		if ev == nil {
			return nil
		}
		if s.handleEvent(ev) {
			return nil
		}
		s.draw()
	}
}

// Reload queues cfg for the event loop. Before Run starts it is held and
// applied when the loop begins.
func (s *Screen) Reload(cfg config.Config) {
	s.mu.Lock()
	if !s.running {
		s.pending = &cfg
		s.mu.Unlock()
		return
	}
	s.mu.Unlock()

	if err := s.screen.PostEvent(tcell.NewEventInterrupt(cfg)); err != nil {
		s.logger.Warn("dropping config reload", "err", err)
	}
}

// Mode returns the current theme
func (s *Screen) Mode() theme.Mode {
	return s.mode
}

// press applies a keypad key. The theme key never reaches the engine.
func (s *Screen) press(k keypad.Key) {
	s.lastKey, s.hasLast = k, true
	if k == keypad.KeyTheme {
		s.mode = s.mode.Toggle()
		s.logger.Debug("theme toggled", "mode", s.mode.String())
		return
	}
	keypad.Dispatch(s.engine, k)
	s.logger.Debug("key", "key", k.String(), "display", s.engine.Display(), "state", s.engine.State().String())
}

// handleEvent processes one event and reports whether to quit
func (s *Screen) handleEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		return s.handleKey(ev)

	case *tcell.EventMouse:
		down := ev.Buttons()&tcell.Button1 != 0
		if down && !s.mouseDown {
			x, y := ev.Position()
			s.click(x, y)
		}
		s.mouseDown = down

	case *tcell.EventResize:
		s.screen.Sync()

	case *tcell.EventInterrupt:
		switch data := ev.Data().(type) {
		case quitRequest:
			return true
		case config.Config:
			s.apply(data)
		}
	}
	return false
}

// apply takes the engine settings of cfg. The theme only follows the file
// when the file's theme changed, so a runtime toggle survives other edits.
func (s *Screen) apply(cfg config.Config) {
	cfg.Apply(s.engine)
	if m := cfg.ThemeMode(); m != s.fileMode {
		s.mode, s.fileMode = m, m
	}
	s.logger.Info("applied config", "history_cap", cfg.HistoryCap, "theme", cfg.Theme)
}

func (s *Screen) handleKey(ev *tcell.EventKey) bool {
	switch ev.Key() {
	case tcell.KeyCtrlC, tcell.KeyCtrlD:
		return true
	case tcell.KeyEnter:
		s.press(keypad.KeyEquals)
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		s.press(keypad.KeyBackspace)
	case tcell.KeyEscape, tcell.KeyDelete:
		s.press(keypad.KeyClear)
	case tcell.KeyRune:
		if ev.Rune() == 'q' {
			return true
		}
		if k, ok := keypad.FromRune(ev.Rune()); ok {
			s.press(k)
		}
	}
	return false
}

func (s *Screen) click(x, y int) {
	if y == 0 && x >= s.themeX {
		s.press(keypad.KeyTheme)
		return
	}
	for _, b := range s.buttons {
		if b.contains(x, y) {
			s.press(b.key)
			return
		}
	}
}

func tcellColor(c colorful.Color) tcell.Color {
	r, g, b := c.RGB255()
	return tcell.NewRGBColor(int32(r), int32(g), int32(b))
}

// draw paints the whole screen from the engine's current outputs
func (s *Screen) draw() {
	p := theme.For(s.mode)
	base := tcell.StyleDefault.Background(tcellColor(p.Background)).Foreground(tcellColor(p.Text))
	muted := base.Foreground(tcellColor(p.Muted))

	s.screen.SetStyle(base)
	s.screen.Clear()
	w, h := s.screen.Size()
	if w <= 0 || h <= 0 {
		return
	}

	// Keypad takes the lower part of the screen, five rows of keys.
	keyH := max(1, (h*3/5)/len(keypad.Layout))
	gridTop := h - keyH*len(keypad.Layout)
	displayY := gridTop - 2
	exprY := gridTop - 3

	icon := s.mode.Icon()
	s.themeX = w - uniseg.StringWidth(icon) - 1
	s.drawText(s.themeX, 0, icon, base)

	history := s.engine.HistoryStrings()
	if len(history) > 0 {
		s.drawText(1, 0, fitRight("History", s.themeX-2), base.Bold(true))
		for i, line := range history {
			y := 1 + i
			if y >= exprY {
				break
			}
			s.drawText(1, y, fitRight(line, w-2), muted)
		}
	}

	if exprY > 0 {
		s.drawText(0, exprY, padLeft(fitLeft(s.engine.Expression(), w-1), w-1), muted)
	}
	if displayY > 0 {
		s.drawText(0, displayY, padLeft(fitLeft(s.engine.Display(), w-1), w-1), base.Bold(true))
	}

	s.drawKeypad(p, gridTop, keyH, w)
	s.screen.Show()
}

func (s *Screen) drawKeypad(p theme.Palette, top, keyH, w int) {
	s.buttons = s.buttons[:0]
	keyW := max(1, w/4)

	for row, keys := range keypad.Layout {
		for col, k := range keys {
			b := button{key: k, x: col * keyW, y: top + row*keyH, w: keyW, h: keyH}
			if col == len(keys)-1 {
				b.w = w - b.x
			}
			s.buttons = append(s.buttons, b)

			bg, fg := p.Key, p.KeyText
			if k.IsFunction() {
				bg, fg = p.Operator, p.OperatorText
			}
			if s.hasLast && k == s.lastKey {
				bg = theme.Pressed(bg)
			}
			style := tcell.StyleDefault.Background(tcellColor(bg)).Foreground(tcellColor(fg)).Bold(true)

			// One cell gap between keys keeps the grid readable.
			inner := button{x: b.x, y: b.y, w: max(1, b.w-1), h: b.h}
			if keyH > 1 {
				inner.h = keyH - 1
			}
			s.fill(inner, style)

			label := k.Label()
			lx := inner.x + (inner.w-uniseg.StringWidth(label))/2
			ly := inner.y + inner.h/2
			s.drawText(lx, ly, label, style)
		}
	}
}

func (s *Screen) fill(r button, style tcell.Style) {
	for y := r.y; y < r.y+r.h; y++ {
		for x := r.x; x < r.x+r.w; x++ {
			s.screen.SetContent(x, y, ' ', nil, style)
		}
	}
}

// drawText writes str one grapheme cluster at a time starting at x
func (s *Screen) drawText(x, y int, str string, style tcell.Style) {
	g := uniseg.NewGraphemes(str)
	for g.Next() {
		runes := g.Runes()
		s.screen.SetContent(x, y, runes[0], runes[1:], style)
		x += max(1, g.Width())
	}
}
