package result

import (
	"strconv"
	"strings"
)

// Event codes that change how a raw value is decoded.
const (
	codeFewestMoves   = "333fm"
	codeMultiBlind    = "333mbf"
	codeMultiBlindOld = "333mbo"
)

// Sentinel encodings for single-value events.
const (
	rawDNF  = -1
	rawDNS  = -2
	rawNone = 0
)

// multiWidth is the fixed width of an encoded multi-attempt value.
const multiWidth = 10

// Parse decodes the raw export value of eventCode. It never fails:
// anything it cannot decode is None.
func Parse(eventCode, raw string) Value {
	raw = strings.TrimSpace(raw)
	switch eventCode {
	case codeMultiBlindOld:
		return parseMultiOld(raw)
	case codeMultiBlind:
		return parseMultiNew(raw)
	}

	n, err := strconv.Atoi(raw)
	if err != nil {
		return None
	}
	switch {
	case n == rawDNF:
		return DNF
	case n == rawDNS:
		return DNS
	case n == rawNone:
		return None
	case eventCode == codeFewestMoves:
		return Moves(n)
	default:
		return Time(n)
	}
}

// ParseAverage decodes an average. Multi-attempt events have no average.
func ParseAverage(eventCode, raw string) Value {
	if IsMultiAttempt(eventCode) {
		return None
	}
	return Parse(eventCode, raw)
}

// IsMultiAttempt reports whether eventCode uses the composite encoding.
func IsMultiAttempt(eventCode string) bool {
	return eventCode == codeMultiBlind || eventCode == codeMultiBlindOld
}

// parseMultiOld decodes 1SSAATTTTT: solved = 99-SS, AA attempted, TTTTT seconds.
func parseMultiOld(raw string) Value {
	s, ok := normalizeMulti(raw)
	if !ok {
		return None
	}
	diff, err1 := strconv.Atoi(s[1:3])
	attempted, err2 := strconv.Atoi(s[3:5])
	seconds, err3 := strconv.Atoi(s[5:10])
	if err1 != nil || err2 != nil || err3 != nil {
		return None
	}
	return Multi(seconds, 99-diff, attempted)
}

// parseMultiNew decodes 0DDTTTTTMM: difference = 99-DD, TTTTT seconds, MM missed.
func parseMultiNew(raw string) Value {
	s, ok := normalizeMulti(raw)
	if !ok {
		return None
	}
	diff, err1 := strconv.Atoi(s[1:3])
	seconds, err2 := strconv.Atoi(s[3:8])
	missed, err3 := strconv.Atoi(s[8:10])
	if err1 != nil || err2 != nil || err3 != nil {
		return None
	}
	solved := 99 - diff + missed
	return Multi(seconds, solved, solved+missed)
}

// normalizeMulti restores the leading zero the export drops from all-digit values.
func normalizeMulti(raw string) (string, bool) {
	if len(raw) < multiWidth && raw != "" && isDigits(raw) {
		raw = strings.Repeat("0", multiWidth-len(raw)) + raw
	}
	return raw, len(raw) == multiWidth
}

func isDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
