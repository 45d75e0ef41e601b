package ui

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/tidwall/sjson"

	"github.com/bond-kaneko/go-calc/calc"
	"github.com/bond-kaneko/go-calc/keypad"
)

// Batch applies scripted key sequences to an engine, one per line, and
// prints the display after each line. Blank lines and lines starting
// with # are skipped. The theme key is accepted and ignored.
type Batch struct {
	Engine *calc.Engine
	Out    io.Writer
	// JSON prints a snapshot object per line instead of the bare display
	JSON bool
}

// Run processes every line of r
func (b *Batch) Run(r io.Reader) error {
	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if err := b.Line(line); err != nil {
			return fmt.Errorf("line %d: %w", lineNo, err)
		}
	}
	return scanner.Err()
}

// Line applies one key sequence and writes the result
func (b *Batch) Line(seq string) error {
	keys, err := keypad.Parse(seq)
	if err != nil {
		return err
	}
	for _, k := range keys {
		keypad.Dispatch(b.Engine, k)
	}

	if !b.JSON {
		_, err = fmt.Fprintln(b.Out, b.Engine.Display())
		return err
	}
	out, err := SnapshotJSON(b.Engine.Snapshot())
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(b.Out, out)
	return err
}

// SnapshotJSON renders a snapshot as a single-line JSON object
func SnapshotJSON(s calc.Snapshot) (string, error) {
	history := s.History
	if history == nil {
		history = []string{}
	}

	out := "{}"
	var err error
	for _, field := range []struct {
		path  string
		value any
	}{
		{"display", s.Display},
		{"expression", s.Expression},
		{"state", s.State.String()},
		{"history", history},
	} {
		if out, err = sjson.Set(out, field.path, field.value); err != nil {
			return "", fmt.Errorf("encoding %s: %w", field.path, err)
		}
	}
	return out, nil
}
