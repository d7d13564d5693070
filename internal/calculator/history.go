package calculator

import "fmt"

// DefaultHistoryCapacity is the number of completed operations kept by a
// history-enabled engine.
const DefaultHistoryCapacity = 10

// Entry records one completed computation. Operands are kept as text, the
// way the engine held them before computing.
type Entry struct {
	Left     string
	Operator Operator
	Right    string
	Result   string
}

func (e Entry) String() string {
	return fmt.Sprintf("%s %s %s = %s", e.Left, e.Operator.Symbol(), e.Right, e.Result)
}

// History is a bounded list of entries, most recent first.
type History struct {
	entries  []Entry
	capacity int
}

// NewHistory returns an empty history holding at most capacity entries.
// A capacity below one is treated as one.
func NewHistory(capacity int) *History {
	if capacity < 1 {
		capacity = 1
	}
	return &History{
		entries:  make([]Entry, 0, capacity),
		capacity: capacity,
	}
}

// Push prepends e, evicting the oldest entry when full.
func (h *History) Push(e Entry) {
	if len(h.entries) == h.capacity {
		h.entries = h.entries[:h.capacity-1]
	}
	h.entries = append(h.entries, Entry{})
	copy(h.entries[1:], h.entries)
	h.entries[0] = e
}

// Entries returns a copy of the entries, most recent first.
func (h *History) Entries() []Entry {
	out := make([]Entry, len(h.entries))
	copy(out, h.entries)
	return out
}

// Latest returns the most recent entry.
func (h *History) Latest() (Entry, bool) {
	if len(h.entries) == 0 {
		return Entry{}, false
	}
	return h.entries[0], true
}

func (h *History) Len() int {
	return len(h.entries)
}

func (h *History) Cap() int {
	return h.capacity
}

func (h *History) Clear() {
	h.entries = h.entries[:0]
}
