// Package result models a single competition result as a comparable value.
//
// A Value is a closed tagged union over the result kinds found in the
// results export: timed results, move counts, multi-attempt composites and
// the three absence markers. Every consumer switches on Kind; new kinds must
// be handled everywhere, which the exhaustive linter in .golangci.yml checks.
package result

import (
	"fmt"
)

// Kind tags the active variant of a Value.
type Kind uint8

// Result kinds. KindNone is the zero value so that an unset Value means "no result".
const (
	KindNone Kind = iota
	KindTime
	KindMoves
	KindMulti
	KindDNF
	KindDNS
)

func (k Kind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindTime:
		return "time"
	case KindMoves:
		return "moves"
	case KindMulti:
		return "multi"
	case KindDNF:
		return "dnf"
	case KindDNS:
		return "dns"
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

// MultiAttempt is the payload of a multi-attempt result.
type MultiAttempt struct {
	Seconds   int
	Solved    int
	Attempted int
}

// Points is the official score of the attempt: solved minus missed.
func (m MultiAttempt) Points() int { return 2*m.Solved - m.Attempted }

// Value is an immutable result. Only the payload of the active kind is set.
type Value struct {
	kind  Kind
	n     int // centiseconds for KindTime, moves for KindMoves
	multi MultiAttempt
}

// Constructors.
var (
	DNF  = Value{kind: KindDNF}
	DNS  = Value{kind: KindDNS}
	None = Value{}
)

// Time returns a timed result in hundredths of a second.
func Time(centiseconds int) Value { return Value{kind: KindTime, n: centiseconds} }

// Moves returns a move-count result.
func Moves(moves int) Value { return Value{kind: KindMoves, n: moves} }

// Multi returns a multi-attempt result.
func Multi(seconds, solved, attempted int) Value {
	return Value{kind: KindMulti, multi: MultiAttempt{Seconds: seconds, Solved: solved, Attempted: attempted}}
}

// Kind returns the active variant.
func (v Value) Kind() Kind { return v.kind }

// Centiseconds returns the payload of a timed result and false for any other kind.
func (v Value) Centiseconds() (int, bool) { return v.n, v.kind == KindTime }

// MoveCount returns the payload of a move-count result and false for any other kind.
func (v Value) MoveCount() (int, bool) { return v.n, v.kind == KindMoves }

// MultiAttempt returns the payload of a multi-attempt result and false for any other kind.
func (v Value) MultiAttempt() (MultiAttempt, bool) { return v.multi, v.kind == KindMulti }

// Valid reports whether v is a rankable result. Absence markers are never valid;
// a multi-attempt result claiming more solved than attempted cubes is corrupt.
func (v Value) Valid() bool {
	switch v.kind {
	case KindNone, KindDNF, KindDNS:
		return false
	case KindMulti:
		return v.multi.Attempted >= v.multi.Solved
	case KindTime, KindMoves:
		return true
	}
	return false
}

// Category ranks used by the ordering projection.
const (
	categoryTime    = 1
	categoryMulti   = 2
	categoryMoves   = 3
	categoryInvalid = 4
)

// key is the ordering projection (category, moves, negative points, time).
type key [4]int

func (v Value) key() key {
	if !v.Valid() {
		return key{categoryInvalid, 0, 0, 0}
	}
	switch v.kind {
	case KindTime:
		return key{categoryTime, 0, 0, v.n}
	case KindMulti:
		return key{categoryMulti, 0, -v.multi.Points(), v.multi.Seconds}
	case KindMoves:
		return key{categoryMoves, v.n, 0, 0}
	case KindNone, KindDNF, KindDNS:
	}
	return key{categoryInvalid, 0, 0, 0}
}

// Compare returns -1 if v ranks before other, +1 if after and 0 if they tie.
// The order is total. Categories only keep it total; values compared for a
// ranking always come from one event and metric.
func (v Value) Compare(other Value) int {
	a, b := v.key(), other.key()
	for i := range a {
		switch {
		case a[i] < b[i]:
			return -1
		case a[i] > b[i]:
			return 1
		}
	}
	return 0
}

// Less reports whether v ranks strictly before other.
func (v Value) Less(other Value) bool { return v.Compare(other) < 0 }

// Min returns the better of a and b, preferring a on ties.
func Min(a, b Value) Value {
	if b.Less(a) {
		return b
	}
	return a
}

// String renders v the way result listings show it. NoResult renders empty.
func (v Value) String() string {
	switch v.kind {
	case KindNone:
		return ""
	case KindDNF:
		return "DNF"
	case KindDNS:
		return "DNS"
	case KindMoves:
		return fmt.Sprintf("%d", v.n)
	case KindTime:
		return formatCentiseconds(v.n)
	case KindMulti:
		return fmt.Sprintf("%d/%d %s", v.multi.Solved, v.multi.Attempted, formatSeconds(v.multi.Seconds))
	}
	return ""
}

func formatCentiseconds(cs int) string {
	if cs < 0 {
		return fmt.Sprintf("%d", cs)
	}
	secs, frac := cs/100, cs%100
	if secs < 60 {
		return fmt.Sprintf("%d.%02d", secs, frac)
	}
	return fmt.Sprintf("%s.%02d", formatSeconds(secs), frac)
}

func formatSeconds(secs int) string {
	if secs < 0 {
		return fmt.Sprintf("%d", secs)
	}
	h, m, s := secs/3600, secs/60%60, secs%60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%d:%02d", m, s)
}
