package table

import (
	"strconv"
	"strings"
	"time"
)

// Kind identifies the concrete type held by a Value.
type Kind uint8

const (
	KindMissing Kind = iota
	KindNumber
	KindString
	KindTime
)

// Value is a single heterogeneous cell: a number, a string, a timestamp, or
// the missing marker. Values are immutable.
type Value struct {
	kind Kind
	num  float64
	str  string
	ts   time.Time
}

// Missing returns the missing-value marker.
func Missing() Value {
	return Value{kind: KindMissing}
}

// Number wraps a float64 as a Value.
func Number(f float64) Value {
	return Value{kind: KindNumber, num: f}
}

// String wraps a string as a Value.
func String(s string) Value {
	return Value{kind: KindString, str: s}
}

// Timestamp wraps a time.Time as a Value.
func Timestamp(t time.Time) Value {
	return Value{kind: KindTime, ts: t}
}

// Kind returns the concrete kind of the value.
func (v Value) Kind() Kind {
	return v.kind
}

// IsMissing reports whether the value is the missing marker.
func (v Value) IsMissing() bool {
	return v.kind == KindMissing
}

// Float returns the numeric payload without coercion.
func (v Value) Float() (float64, bool) {
	if v.kind != KindNumber {
		return 0, false
	}
	return v.num, true
}

// AsFloat coerces the value to a float64. Numeric values pass through;
// strings are parsed; everything else (including missing) fails.
func (v Value) AsFloat() (float64, bool) {
	switch v.kind {
	case KindNumber:
		return v.num, true
	case KindString:
		f, err := strconv.ParseFloat(strings.TrimSpace(v.str), 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

// dateLayouts are tried in order when coercing strings to timestamps.
var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	time.RFC3339,
	"01/02/2006",
	"1/2/2006",
	"2006/01/02",
	"01-02-2006",
	"02-Jan-2006",
	"Jan 2, 2006",
}

// AsTime coerces the value to a timestamp. Time values pass through; strings
// are parsed against a catalogue of common layouts.
func (v Value) AsTime() (time.Time, bool) {
	switch v.kind {
	case KindTime:
		return v.ts, true
	case KindString:
		s := strings.TrimSpace(v.str)
		for _, layout := range dateLayouts {
			if t, err := time.Parse(layout, s); err == nil {
				return t, true
			}
		}
		return time.Time{}, false
	default:
		return time.Time{}, false
	}
}

// Str returns the string form of the value. Missing renders as the empty
// string; numbers format without trailing zeros.
func (v Value) Str() string {
	switch v.kind {
	case KindNumber:
		return strconv.FormatFloat(v.num, 'f', -1, 64)
	case KindString:
		return v.str
	case KindTime:
		if v.ts.Hour() == 0 && v.ts.Minute() == 0 && v.ts.Second() == 0 {
			return v.ts.Format("2006-01-02")
		}
		return v.ts.Format("2006-01-02 15:04:05")
	default:
		return ""
	}
}

// Label returns the display form used in group labels and report cells.
// Missing renders as "NaN" to keep empty cells distinguishable from blanks.
func (v Value) Label() string {
	if v.kind == KindMissing {
		return "NaN"
	}
	return v.Str()
}

// Equal reports whether two values compare equal. Missing equals nothing,
// including another missing. Values comparable as numbers compare
// numerically; otherwise string forms are compared.
func (v Value) Equal(other Value) bool {
	if v.IsMissing() || other.IsMissing() {
		return false
	}
	if a, ok := v.AsFloat(); ok {
		if b, ok := other.AsFloat(); ok {
			return a == b
		}
	}
	return v.Str() == other.Str()
}

// Compare orders two values: -1, 0 or +1. The second return is false when
// either side is missing (missing is incomparable). Values comparable as
// numbers order numerically; otherwise lexically by string form.
func (v Value) Compare(other Value) (int, bool) {
	if v.IsMissing() || other.IsMissing() {
		return 0, false
	}
	if a, ok := v.AsFloat(); ok {
		if b, ok := other.AsFloat(); ok {
			switch {
			case a < b:
				return -1, true
			case a > b:
				return 1, true
			default:
				return 0, true
			}
		}
	}
	a, b := v.Str(), other.Str()
	switch {
	case a < b:
		return -1, true
	case a > b:
		return 1, true
	default:
		return 0, true
	}
}
