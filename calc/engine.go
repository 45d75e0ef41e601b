// Package calc implements the calculator's input state machine.
// An Engine turns key presses into a display string, an optional pending
// operation and a bounded history of completed calculations.
package calc

import "strconv"

// ErrorSentinel is shown after a division by zero.
// A digit, Clear or Backspace leaves it. SetOperation behaves like Clear.
const ErrorSentinel = "Tora mai ke choco"

// DefaultMaxDigits is the longest numeral accepted while typing
const DefaultMaxDigits = 15

// State is the engine's macro-state
type State int

const (
	// Entering means no operation is pending
	Entering State = iota
	// Pending means an operator is waiting for its right operand
	Pending
	// Error means the display shows ErrorSentinel
	Error
)

// String returns the state name
func (s State) String() string {
	switch s {
	case Entering:
		return "entering"
	case Pending:
		return "pending"
	case Error:
		return "error"
	default:
		return "unknown"
	}
}

// ChainPolicy decides what an operator press does while another operation is pending
type ChainPolicy int

const (
	// ChainReplace captures the display as the new left operand and drops the pending operation
	ChainReplace ChainPolicy = iota
	// ChainEvaluate completes the pending operation first and carries its result forward
	ChainEvaluate
)

// String returns the policy name used in configuration
func (p ChainPolicy) String() string {
	if p == ChainEvaluate {
		return "evaluate"
	}
	return "replace"
}

// Options configures an Engine
type Options struct {
	// HistoryCap bounds the history log. Values below 1 mean DefaultHistoryCap.
	HistoryCap int
	// MaxDigits bounds typed numerals. Values below 1 mean DefaultMaxDigits.
	MaxDigits int
	// Chain selects the operator chaining policy
	Chain ChainPolicy
}

// Snapshot is a copy of everything a front-end reads after a key press
type Snapshot struct {
	Display    string
	Expression string
	State      State
	History    []string
}

// Engine is the calculator state machine. It is not safe for concurrent use;
// front-ends drive one engine from a single goroutine.
type Engine struct {
	display   string
	operand   float64
	op        Operator
	pending   bool
	typed     bool // a right operand has been typed since the operator press
	maxDigits int
	chain     ChainPolicy
	history   *History
}

// New creates an engine showing "0" with nothing pending and an empty history
func New(opts Options) *Engine {
	e := &Engine{
		display: "0",
		chain:   opts.Chain,
		history: NewHistory(opts.HistoryCap),
	}
	e.SetMaxDigits(opts.MaxDigits)
	return e
}

// AppendDigit types digit d. Values outside 0-9 are ignored.
func (e *Engine) AppendDigit(d int) {
	if d < 0 || d > 9 {
		return
	}
	digit := strconv.Itoa(d)

	if e.display == "0" || e.display == ErrorSentinel || !isFinite(e.display) {
		e.display = digit
		e.typed = true
		return
	}
	if countDigits(e.display) >= e.maxDigits {
		return
	}
	e.display += digit
	e.typed = true
}

// AppendDecimalPoint types "." unless the display already has one
func (e *Engine) AppendDecimalPoint() {
	if e.display == ErrorSentinel || !isFinite(e.display) || hasPoint(e.display) {
		return
	}
	e.display += "."
	e.typed = true
}

// SetOperation selects op as the pending operation.
// On the error display the operator is discarded and the engine is cleared.
func (e *Engine) SetOperation(op Operator) {
	if !op.Valid() {
		return
	}
	if e.display == ErrorSentinel {
		e.Clear()
		return
	}

	if e.chain == ChainEvaluate && e.pending {
		if !e.typed {
			e.op = op
			return
		}
		e.Evaluate()
		if e.display == ErrorSentinel {
			return
		}
	}

	e.operand = ParseNumber(e.display)
	e.op = op
	e.pending = true
	e.typed = false
	e.display = "0"
}

// Evaluate completes the pending operation ("=").
// Division by zero shows ErrorSentinel and records nothing.
func (e *Engine) Evaluate() {
	if !e.pending {
		return
	}

	right := ParseNumber(e.display)
	if e.op == Divide && right == 0 {
		e.display = ErrorSentinel
		e.resetPending()
		return
	}

	result := e.op.Apply(e.operand, right)
	e.history.Push(Entry{
		Operand1: e.operand,
		Operator: e.op,
		Operand2: right,
		Result:   result,
	})
	e.display = FormatNumber(result)
	e.resetPending()
}

// Clear resets the display and pending operation. History is kept.
func (e *Engine) Clear() {
	e.display = "0"
	e.resetPending()
}

// ToggleSign negates the displayed value
func (e *Engine) ToggleSign() {
	if e.display == "0" || e.display == ErrorSentinel {
		return
	}
	e.display = FormatNumber(-ParseNumber(e.display))
	e.typed = true
}

// Percentage divides the displayed value by 100
func (e *Engine) Percentage() {
	if e.display == ErrorSentinel {
		return
	}
	e.display = FormatNumber(ParseNumber(e.display) / 100)
	e.typed = true
}

// Backspace removes the last typed character.
// On the error display it returns to "0" without restoring earlier digits.
func (e *Engine) Backspace() {
	if e.display == ErrorSentinel || !isFinite(e.display) || len(e.display) <= 1 {
		e.display = "0"
		return
	}
	e.display = e.display[:len(e.display)-1]
	if e.display == "-" {
		e.display = "0"
	}
	e.typed = true
}

// Display returns the text currently shown
func (e *Engine) Display() string {
	return e.display
}

// Pending returns the left operand and operator awaiting a right operand
func (e *Engine) Pending() (float64, Operator, bool) {
	return e.operand, e.op, e.pending
}

// Expression returns the calculation-in-progress label, e.g. "7 +".
// It is empty when nothing is pending.
func (e *Engine) Expression() string {
	if !e.pending {
		return ""
	}
	return FormatNumber(e.operand) + " " + e.op.String()
}

// State returns the current macro-state
func (e *Engine) State() State {
	switch {
	case e.display == ErrorSentinel:
		return Error
	case e.pending:
		return Pending
	default:
		return Entering
	}
}

// IsError reports whether the error display is showing
func (e *Engine) IsError() bool {
	return e.display == ErrorSentinel
}

// History returns the completed calculations, newest first
func (e *Engine) History() []Entry {
	return e.history.Entries()
}

// HistoryStrings returns the rendered history, newest first
func (e *Engine) HistoryStrings() []string {
	return e.history.Strings()
}

// Snapshot copies the engine's outputs
func (e *Engine) Snapshot() Snapshot {
	return Snapshot{
		Display:    e.display,
		Expression: e.Expression(),
		State:      e.State(),
		History:    e.history.Strings(),
	}
}

// SetHistoryCap changes the history bound, evicting the oldest entries if needed
func (e *Engine) SetHistoryCap(n int) {
	e.history.SetCap(n)
}

// HistoryCap returns the history bound
func (e *Engine) HistoryCap() int {
	return e.history.Cap()
}

// SetMaxDigits changes the longest numeral accepted while typing.
// Values below 1 restore DefaultMaxDigits.
func (e *Engine) SetMaxDigits(n int) {
	if n < 1 {
		n = DefaultMaxDigits
	}
	e.maxDigits = n
}

// SetChainPolicy changes the operator chaining policy
func (e *Engine) SetChainPolicy(p ChainPolicy) {
	e.chain = p
}

func (e *Engine) resetPending() {
	e.operand = 0
	e.op = Add
	e.pending = false
	e.typed = false
}
