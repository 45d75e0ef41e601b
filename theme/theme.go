// Package theme holds the light and dark colour schemes of the calculator.
package theme

import (
	"fmt"
	"strings"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// Mode selects a colour scheme
type Mode int

const (
	Light Mode = iota
	Dark
)

// ParseMode parses "light" or "dark"
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "light":
		return Light, nil
	case "dark":
		return Dark, nil
	default:
		return Light, fmt.Errorf("unknown theme %q", s)
	}
}

// String returns "light" or "dark"
func (m Mode) String() string {
	if m == Dark {
		return "dark"
	}
	return "light"
}

// Toggle returns the other mode
func (m Mode) Toggle() Mode {
	if m == Dark {
		return Light
	}
	return Dark
}

// Icon is drawn on the theme switch
func (m Mode) Icon() string {
	if m == Dark {
		return "☾"
	}
	return "☀"
}

// Palette is the set of colours a front-end paints with
type Palette struct {
	Background   colorful.Color
	Text         colorful.Color
	Key          colorful.Color
	KeyText      colorful.Color
	Operator     colorful.Color
	OperatorText colorful.Color
	// Muted is used for history and the expression label
	Muted colorful.Color
}

var accent = mustHex("#ff9500")

// For returns the palette of mode m
func For(m Mode) Palette {
	var p Palette
	if m == Dark {
		p = Palette{
			Background: mustHex("#000000"),
			Text:       mustHex("#ffffff"),
			Key:        mustHex("#333333"),
			KeyText:    mustHex("#ffffff"),
		}
	} else {
		p = Palette{
			Background: mustHex("#ffffff"),
			Text:       mustHex("#000000"),
			Key:        mustHex("#eeeeee"),
			KeyText:    mustHex("#000000"),
		}
	}
	p.Operator = accent
	p.OperatorText = mustHex("#ffffff")
	p.Muted = p.Text.BlendLab(p.Background, 0.45).Clamped()
	return p
}

// Pressed returns the colour a key flashes when it is activated
func Pressed(c colorful.Color) colorful.Color {
	h, s, l := c.Hsl()
	if l > 0.5 {
		return colorful.Hsl(h, s, l-0.15).Clamped()
	}
	return colorful.Hsl(h, s, l+0.15).Clamped()
}

func mustHex(s string) colorful.Color {
	c, err := colorful.Hex(s)
	if err != nil {
		panic(err)
	}
	return c
}
