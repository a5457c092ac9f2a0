package bdf

import (
	"fmt"
	"math"
	"strconv"
)

// FieldKind discriminates the value held by a Field.
type FieldKind uint8

const (
	KindBlank FieldKind = iota
	KindInt
	KindFloat
	KindString
)

// String returns the kind name used in error messages.
func (k FieldKind) String() string {
	switch k {
	case KindBlank:
		return "blank"
	case KindInt:
		return "integer"
	case KindFloat:
		return "real"
	case KindString:
		return "character"
	default:
		return "unknown"
	}
}

// Field is one card field value: blank, integer, real, or character.
// Blank is distinct from zero; a blank field resolves to its schema
// default, never to an implicit 0.
type Field struct {
	kind FieldKind
	i    int
	f    float64
	s    string
}

// Blank returns the unset field value.
func Blank() Field {
	return Field{}
}

// IntField creates an integer field value.
func IntField(v int) Field {
	return Field{kind: KindInt, i: v}
}

// FloatField creates a real field value.
func FloatField(v float64) Field {
	return Field{kind: KindFloat, f: v}
}

// StrField creates a character field value.
func StrField(v string) Field {
	return Field{kind: KindString, s: v}
}

// Kind returns the field's kind.
func (f Field) Kind() FieldKind {
	return f.kind
}

// IsBlank reports whether the field is unset.
func (f Field) IsBlank() bool {
	return f.kind == KindBlank
}

// AsInt returns the integer value.
func (f Field) AsInt() (int, error) {
	if f.kind != KindInt {
		return 0, fmt.Errorf("bdf: expected integer, got %s", f.kind)
	}
	return f.i, nil
}

// AsFloat returns the real value. Integer fields do not coerce: the
// format distinguishes 3 from 3.0 and so does the model.
func (f Field) AsFloat() (float64, error) {
	if f.kind != KindFloat {
		return 0, fmt.Errorf("bdf: expected real, got %s", f.kind)
	}
	return f.f, nil
}

// AsString returns the character value.
func (f Field) AsString() (string, error) {
	if f.kind != KindString {
		return "", fmt.Errorf("bdf: expected character, got %s", f.kind)
	}
	return f.s, nil
}

// Int returns the integer value or def when the field is blank.
func (f Field) Int(def int) int {
	if f.kind == KindInt {
		return f.i
	}
	return def
}

// Float returns the real value or def when the field is blank.
func (f Field) Float(def float64) float64 {
	if f.kind == KindFloat {
		return f.f
	}
	return def
}

// Str returns the character value or def when the field is blank.
func (f Field) Str(def string) string {
	if f.kind == KindString {
		return f.s
	}
	return def
}

// Number returns the numeric value of an integer or real field.
func (f Field) Number() (float64, bool) {
	switch f.kind {
	case KindInt:
		return float64(f.i), true
	case KindFloat:
		return f.f, true
	default:
		return 0, false
	}
}

// Equal reports value equality. Reals compare within tol relative
// tolerance (absolute near zero), so values surviving a width-limited
// encoding still compare equal to their source.
func (f Field) Equal(o Field, tol float64) bool {
	if f.kind != o.kind {
		return false
	}
	switch f.kind {
	case KindBlank:
		return true
	case KindInt:
		return f.i == o.i
	case KindFloat:
		if f.f == o.f {
			return true
		}
		scale := math.Max(math.Abs(f.f), math.Abs(o.f))
		if scale < 1 {
			scale = 1
		}
		return math.Abs(f.f-o.f) <= tol*scale
	case KindString:
		return f.s == o.s
	}
	return false
}

// String returns a debug representation, not the wire encoding.
func (f Field) String() string {
	switch f.kind {
	case KindBlank:
		return "<blank>"
	case KindInt:
		return strconv.Itoa(f.i)
	case KindFloat:
		return strconv.FormatFloat(f.f, 'g', -1, 64)
	case KindString:
		return f.s
	default:
		return "<invalid>"
	}
}

// fieldsFromInts builds integer fields from ids, a helper for the
// node-list style cards.
func fieldsFromInts(ids []int) []Field {
	out := make([]Field, len(ids))
	for i, id := range ids {
		out[i] = IntField(id)
	}
	return out
}

// fieldsFromFloats builds real fields from values.
func fieldsFromFloats(vals []float64) []Field {
	out := make([]Field, len(vals))
	for i, v := range vals {
		out[i] = FloatField(v)
	}
	return out
}

// intOrBlank wraps an ID where 0 means "not set" in the source card.
func intOrBlank(v int) Field {
	if v == 0 {
		return Blank()
	}
	return IntField(v)
}

// floatOrBlank wraps a real where 0 means "not set" in the source
// card.
func floatOrBlank(v float64) Field {
	if v == 0 {
		return Blank()
	}
	return FloatField(v)
}
