package calc

import "fmt"

// DefaultHistoryCap is the number of entries kept when no cap is configured
const DefaultHistoryCap = 5

// Entry is one completed calculation
type Entry struct {
	Operand1 float64
	Operator Operator
	Operand2 float64
	Result   float64
}

// String renders the entry as "a op b = result"
func (e Entry) String() string {
	return fmt.Sprintf("%s %s %s = %s",
		FormatNumber(e.Operand1), e.Operator, FormatNumber(e.Operand2), FormatNumber(e.Result))
}

// History is a newest-first log of entries bounded by a cap.
// Once the cap is exceeded the oldest entries are dropped.
type History struct {
	entries []Entry
	limit   int
}

// NewHistory creates an empty history holding at most limit entries.
// A cap below 1 falls back to DefaultHistoryCap.
func NewHistory(limit int) *History {
	if limit < 1 {
		limit = DefaultHistoryCap
	}
	return &History{
		entries: make([]Entry, 0, limit),
		limit:   limit,
	}
}

// Push prepends e and evicts the oldest entries past the cap
func (h *History) Push(e Entry) {
	h.entries = append(h.entries, Entry{})
	copy(h.entries[1:], h.entries)
	h.entries[0] = e
	h.trim()
}

// Entries returns a copy of the log, newest first
func (h *History) Entries() []Entry {
	out := make([]Entry, len(h.entries))
	copy(out, h.entries)
	return out
}

// Strings returns the rendered entries, newest first
func (h *History) Strings() []string {
	out := make([]string, len(h.entries))
	for i, e := range h.entries {
		out[i] = e.String()
	}
	return out
}

// Len returns the number of entries
func (h *History) Len() int {
	return len(h.entries)
}

// Cap returns the maximum number of entries
func (h *History) Cap() int {
	return h.limit
}

// SetCap changes the cap, evicting the oldest entries if the log shrinks.
// Values below 1 are ignored.
func (h *History) SetCap(limit int) {
	if limit < 1 {
		return
	}
	h.limit = limit
	h.trim()
}

func (h *History) trim() {
	if len(h.entries) > h.limit {
		clear(h.entries[h.limit:])
		h.entries = h.entries[:h.limit]
	}
}
