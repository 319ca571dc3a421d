// Package event is the static registry of ranked events.
package event

// Count is the number of ranked event slots.
const Count = 18

// Index identifies an event slot in [0, Count).
type Index int

// Event codes with special parsing rules.
const (
	CodeFewestMoves = "333fm"
	CodeMultiBlind  = "333mbf"
	// CodeMultiBlindOld is the retired encoding of the multi-blind event.
	// It shares the slot of CodeMultiBlind.
	CodeMultiBlindOld = "333mbo"
)

// Slots with special aggregation rules.
const (
	MultiBlind  Index = 5
	FewestMoves Index = 6
)

// Descriptor describes one event slot.
type Descriptor struct {
	Index Index
	Code  string
	Label string
}

var descriptors = [Count]Descriptor{
	{0, "skewb", "Skewb"},
	{1, "222", "2x2x2 Cube"},
	{2, "333", "3x3x3 Cube"},
	{3, "333bf", "3x3x3 Blindfolded"},
	{4, "333oh", "3x3x3 One-Handed"},
	{5, CodeMultiBlind, "3x3x3 Multi-Blind"},
	{6, CodeFewestMoves, "3x3x3 Fewest Moves"},
	{7, "333ft", "3x3x3 With Feet"},
	{8, "444", "4x4x4 Cube"},
	{9, "444bf", "4x4x4 Blindfolded"},
	{10, "555", "5x5x5 Cube"},
	{11, "555bf", "5x5x5 Blindfolded"},
	{12, "666", "6x6x6 Cube"},
	{13, "777", "7x7x7 Cube"},
	{14, "sq1", "Square-1"},
	{15, "pyram", "Pyraminx"},
	{16, "minx", "Megaminx"},
	{17, "clock", "Clock"},
}

var byCode = func() map[string]Index {
	m := make(map[string]Index, Count+1)
	for _, d := range descriptors {
		m[d.Code] = d.Index
	}
	m[CodeMultiBlindOld] = MultiBlind
	return m
}()

// Lookup returns the slot for an event code. ok is false for codes outside the catalog.
func Lookup(code string) (Index, bool) {
	idx, ok := byCode[code]
	return idx, ok
}

// Get returns the descriptor of idx. It panics if idx is out of range.
func Get(idx Index) Descriptor {
	return descriptors[idx]
}

// All returns the descriptors in slot order.
func All() [Count]Descriptor {
	return descriptors
}

// Codes returns the canonical codes in slot order.
func Codes() []string {
	out := make([]string, Count)
	for i, d := range descriptors {
		out[i] = d.Code
	}
	return out
}

// Valid reports whether idx names a slot.
func (i Index) Valid() bool { return i >= 0 && i < Count }

func (i Index) String() string {
	if !i.Valid() {
		return "unknown"
	}
	return descriptors[i].Code
}
