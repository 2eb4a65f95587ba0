// Package models defines the in-memory workbook model and the
// format-agnostic description exchanged with codecs.
package models

import (
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"
	"time"
)

// Kind identifies the variant held by a Value.
type Kind int

const (
	// KindEmpty is an unset cell.
	KindEmpty Kind = iota
	// KindText is a string value.
	KindText
	// KindNumber is a numeric value.
	KindNumber
	// KindBool is a boolean value.
	KindBool
	// KindFormula is a formula with its last computed result.
	KindFormula
)

// String returns the string representation of the kind.
func (k Kind) String() string {
	switch k {
	case KindEmpty:
		return "empty"
	case KindText:
		return "text"
	case KindNumber:
		return "number"
	case KindBool:
		return "boolean"
	case KindFormula:
		return "formula"
	default:
		return "unknown"
	}
}

// ValueMode selects which side of a formula cell exporters surface.
type ValueMode string

const (
	// ValueModeValue renders the cached result of formula cells.
	ValueModeValue ValueMode = "value"
	// ValueModeFormula renders the formula text of formula cells.
	ValueModeFormula ValueMode = "formula"
)

// Value is an immutable cell value. The zero Value is empty.
type Value struct {
	kind   Kind
	str    string // text, or formula expression without the leading '='
	num    float64
	b      bool
	cached *Value
}

// Empty returns the empty value.
func Empty() Value { return Value{} }

// Text returns a text value.
func Text(s string) Value { return Value{kind: KindText, str: s} }

// Number returns a numeric value.
func Number(f float64) Value { return Value{kind: KindNumber, num: f} }

// Bool returns a boolean value.
func Bool(b bool) Value { return Value{kind: KindBool, b: b} }

// Formula returns a formula value carrying both the expression and its last
// computed result. A leading '=' on expr is optional. A cached formula
// result is flattened to its own cached side.
func Formula(expr string, cached Value) Value {
	if cached.kind == KindFormula {
		cached = cached.Cached()
	}
	return Value{kind: KindFormula, str: strings.TrimPrefix(expr, "="), cached: &cached}
}

// ValueOf converts a Go value into a Value. Integers and floats become
// numbers, fmt.Stringer and unknown types become text and nil becomes empty.
func ValueOf(v any) Value {
	switch x := v.(type) {
	case nil:
		return Empty()
	case Value:
		return x
	case *Value:
		if x == nil {
			return Empty()
		}
		return *x
	case string:
		return Text(x)
	case bool:
		return Bool(x)
	case float64:
		return Number(x)
	case float32:
		return Number(float64(x))
	case int:
		return Number(float64(x))
	case int8:
		return Number(float64(x))
	case int16:
		return Number(float64(x))
	case int32:
		return Number(float64(x))
	case int64:
		return Number(float64(x))
	case uint:
		return Number(float64(x))
	case uint8:
		return Number(float64(x))
	case uint16:
		return Number(float64(x))
	case uint32:
		return Number(float64(x))
	case uint64:
		return Number(float64(x))
	case time.Time:
		return Text(x.Format(time.RFC3339))
	case fmt.Stringer:
		return Text(x.String())
	}

	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return Empty()
		}
		return ValueOf(rv.Elem().Interface())
	}
	return Text(fmt.Sprint(v))
}

// Kind returns the variant held by v.
func (v Value) Kind() Kind { return v.kind }

// IsEmpty reports whether v holds no value.
func (v Value) IsEmpty() bool { return v.kind == KindEmpty }

// AsText returns the string of a text value.
func (v Value) AsText() (string, bool) { return v.str, v.kind == KindText }

// AsNumber returns the number of a numeric value.
func (v Value) AsNumber() (float64, bool) { return v.num, v.kind == KindNumber }

// AsBool returns the boolean of a boolean value.
func (v Value) AsBool() (bool, bool) { return v.b, v.kind == KindBool }

// Formula returns the expression of a formula value, without '='.
func (v Value) Formula() (string, bool) {
	if v.kind != KindFormula {
		return "", false
	}
	return v.str, true
}

// Cached returns the last computed result of a formula value, or v itself
// for any other kind.
func (v Value) Cached() Value {
	if v.kind != KindFormula {
		return v
	}
	if v.cached == nil {
		return Empty()
	}
	return *v.cached
}

// Resolve returns the side of v surfaced under mode. Formula values become
// their cached result in value mode and "=expr" text in formula mode. Other
// kinds are returned unchanged.
func (v Value) Resolve(mode ValueMode) Value {
	if v.kind != KindFormula {
		return v
	}
	if mode == ValueModeFormula {
		return Text("=" + v.str)
	}
	return v.Cached()
}

// Display returns the plain display representation: numbers without
// style-dependent formatting, booleans as TRUE/FALSE and formulas as their
// cached result.
func (v Value) Display() string {
	switch v.kind {
	case KindText:
		return v.str
	case KindNumber:
		return FormatNumber(v.num)
	case KindBool:
		if v.b {
			return "TRUE"
		}
		return "FALSE"
	case KindFormula:
		return v.Cached().Display()
	default:
		return ""
	}
}

// Interface returns v as nil, string, float64 or bool. Formula values
// return their cached result.
func (v Value) Interface() any {
	switch v.kind {
	case KindText:
		return v.str
	case KindNumber:
		return v.num
	case KindBool:
		return v.b
	case KindFormula:
		return v.Cached().Interface()
	default:
		return nil
	}
}

// Equal reports whether v and o hold the same variant and content.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindText:
		return v.str == o.str
	case KindNumber:
		return v.num == o.num
	case KindBool:
		return v.b == o.b
	case KindFormula:
		return v.str == o.str && v.Cached().Equal(o.Cached())
	default:
		return true
	}
}

// String implements fmt.Stringer.
func (v Value) String() string {
	if v.kind == KindFormula {
		return "=" + v.str
	}
	return v.Display()
}

// FormatNumber renders a float without exponent for ordinary magnitudes and
// without trailing zeros.
func FormatNumber(f float64) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "+Inf"
	case math.IsInf(f, -1):
		return "-Inf"
	}
	abs := math.Abs(f)
	if abs != 0 && (abs >= 1e21 || abs < 1e-9) {
		return strconv.FormatFloat(f, 'g', -1, 64)
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// Hyperlink is a link attached to a cell independently of its value.
type Hyperlink struct {
	// URL is the link target.
	URL string `json:"url" yaml:"url"`
	// Display is the optional link text.
	Display string `json:"display,omitempty" yaml:"display,omitempty"`
}

// Cell is the content of one grid slot.
type Cell struct {
	Value     Value
	Style     *Style
	Hyperlink *Hyperlink
}

// IsBlank reports whether the cell carries neither a value nor a hyperlink.
// Styled blank cells are still blank.
func (c Cell) IsBlank() bool {
	return c.Value.IsEmpty() && c.Hyperlink == nil
}

// LinkText returns the text shown for a hyperlinked cell: the hyperlink's
// display text when present, else the cell's display value, else the URL.
func (c Cell) LinkText(mode ValueMode) string {
	if c.Hyperlink != nil && c.Hyperlink.Display != "" {
		return c.Hyperlink.Display
	}
	if s := c.Value.Resolve(mode).Display(); s != "" {
		return s
	}
	if c.Hyperlink != nil {
		return c.Hyperlink.URL
	}
	return ""
}

// Text returns the cell rendered as plain text under mode. Hyperlinks
// contribute only their display text, so a link with neither display text
// nor a value renders empty.
func (c Cell) Text(mode ValueMode) string {
	if c.Hyperlink != nil && c.Hyperlink.Display != "" {
		return c.Hyperlink.Display
	}
	return c.Value.Resolve(mode).Display()
}

func (c Cell) clone() Cell {
	if c.Hyperlink != nil {
		h := *c.Hyperlink
		c.Hyperlink = &h
	}
	return c
}
