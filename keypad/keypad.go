// Package keypad maps keyboard input and scripted key sequences onto
// calculator buttons, and buttons onto engine operations.
package keypad

import (
	"fmt"
	"unicode"

	"github.com/bond-kaneko/go-calc/calc"
)

// Key is a button on the calculator keypad
type Key int

const (
	Key0 Key = iota
	Key1
	Key2
	Key3
	Key4
	Key5
	Key6
	Key7
	Key8
	Key9
	KeyDecimal
	KeyAdd
	KeySubtract
	KeyMultiply
	KeyDivide
	KeyEquals
	KeyClear
	KeyBackspace
	KeyToggleSign
	KeyPercent
	// KeyTheme switches between light and dark; it never reaches the engine
	KeyTheme
)

// Layout is the button grid, top row first
var Layout = [][]Key{
	{KeyClear, KeyBackspace, KeyPercent, KeyDivide},
	{Key7, Key8, Key9, KeyMultiply},
	{Key4, Key5, Key6, KeySubtract},
	{Key1, Key2, Key3, KeyAdd},
	{KeyToggleSign, Key0, KeyDecimal, KeyEquals},
}

// Label returns the text printed on the button
func (k Key) Label() string {
	switch {
	case k.IsDigit():
		return string(rune('0' + k))
	case k == KeyDecimal:
		return "."
	case k == KeyEquals:
		return "="
	case k == KeyClear:
		return "C"
	case k == KeyBackspace:
		return "⌫"
	case k == KeyToggleSign:
		return "±"
	case k == KeyPercent:
		return "%"
	case k == KeyTheme:
		return "◐"
	}
	if op, ok := k.Operator(); ok {
		return op.String()
	}
	return "?"
}

// String returns the label, so keys print readably in logs
func (k Key) String() string {
	return k.Label()
}

// IsDigit reports whether k is one of 0-9
func (k Key) IsDigit() bool {
	return k >= Key0 && k <= Key9
}

// Operator returns the engine operator for an operator key
func (k Key) Operator() (calc.Operator, bool) {
	switch k {
	case KeyAdd:
		return calc.Add, true
	case KeySubtract:
		return calc.Subtract, true
	case KeyMultiply:
		return calc.Multiply, true
	case KeyDivide:
		return calc.Divide, true
	default:
		return 0, false
	}
}

// IsFunction reports whether k is drawn in the accent colour
// (operators, equals and the editing keys on the top row)
func (k Key) IsFunction() bool {
	if _, ok := k.Operator(); ok {
		return true
	}
	switch k {
	case KeyEquals, KeyClear, KeyBackspace, KeyPercent, KeyToggleSign:
		return true
	}
	return false
}

// FromRune maps a typed character to a key
func FromRune(r rune) (Key, bool) {
	if r >= '0' && r <= '9' {
		return Key(r - '0'), true
	}
	switch unicode.ToLower(r) {
	case '.', ',':
		return KeyDecimal, true
	case '+':
		return KeyAdd, true
	case '-', '−':
		return KeySubtract, true
	case '*', 'x', '×':
		return KeyMultiply, true
	case '/', '÷':
		return KeyDivide, true
	case '=', '\r', '\n':
		return KeyEquals, true
	case 'c':
		return KeyClear, true
	case '\b', 0x7f, '⌫':
		return KeyBackspace, true
	case 'n', '~', '±':
		return KeyToggleSign, true
	case '%':
		return KeyPercent, true
	case 't', '◐':
		return KeyTheme, true
	}
	return 0, false
}

// UnknownKeyError reports a character in a key sequence with no button
type UnknownKeyError struct {
	Rune   rune
	Offset int
}

func (e *UnknownKeyError) Error() string {
	return fmt.Sprintf("unknown key %q at offset %d", e.Rune, e.Offset)
}

// Parse converts a scripted sequence such as "7+3=" into keys.
// Spaces and tabs are ignored.
func Parse(seq string) ([]Key, error) {
	keys := make([]Key, 0, len(seq))
	for i, r := range seq {
		if r == ' ' || r == '\t' {
			continue
		}
		k, ok := FromRune(r)
		if !ok {
			return nil, &UnknownKeyError{Rune: r, Offset: i}
		}
		keys = append(keys, k)
	}
	return keys, nil
}

// Dispatch applies k to the engine. It returns false for keys the engine
// does not handle (KeyTheme), leaving the engine untouched.
func Dispatch(e *calc.Engine, k Key) bool {
	if k.IsDigit() {
		e.AppendDigit(int(k - Key0))
		return true
	}
	if op, ok := k.Operator(); ok {
		e.SetOperation(op)
		return true
	}

	switch k {
	case KeyDecimal:
		e.AppendDecimalPoint()
	case KeyEquals:
		e.Evaluate()
	case KeyClear:
		e.Clear()
	case KeyBackspace:
		e.Backspace()
	case KeyToggleSign:
		e.ToggleSign()
	case KeyPercent:
		e.Percentage()
	default:
		return false
	}
	return true
}
