package calc

// Operator is one of the four binary operations on the keypad
type Operator int

const (
	// Add is "+"
	Add Operator = iota
	// Subtract is "-"
	Subtract
	// Multiply is "×"
	Multiply
	// Divide is "÷"
	Divide
)

// Operators lists every operator in keypad order
var Operators = []Operator{Add, Subtract, Multiply, Divide}

// String returns the symbol shown on the key and in history entries
func (o Operator) String() string {
	switch o {
	case Add:
		return "+"
	case Subtract:
		return "-"
	case Multiply:
		return "×"
	case Divide:
		return "÷"
	default:
		return "?"
	}
}

// Valid reports whether o is one of the four operators
func (o Operator) Valid() bool {
	return o >= Add && o <= Divide
}

// Apply computes a o b with plain float64 arithmetic.
// Division by zero is not special-cased here; the engine checks it first.
func (o Operator) Apply(a, b float64) float64 {
	switch o {
	case Add:
		return a + b
	case Subtract:
		return a - b
	case Multiply:
		return a * b
	case Divide:
		return a / b
	default:
		return 0
	}
}
