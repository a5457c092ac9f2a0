package bdf

import (
	"strconv"
	"strings"
)

// DecodeField interprets one raw field token as a typed value.
//
// Blank or all-space tokens decode to a blank field. Tokens opening
// with a digit, sign or decimal point must decode as numbers; integers
// and reals stay distinct, with no silent coercion between them. A
// real carries a decimal point or an exponent, where the exponent
// marker may be E, the Fortran double marker D, or omitted entirely
// with the sign standing in ("1.5+3" is 1.5e3, "12.-4" is 12e-4).
// Anything else is a symbol and is uppercased.
func DecodeField(token string) (Field, error) {
	f, reason := decodeToken(token)
	if reason != "" {
		return Field{}, &FieldError{Raw: strings.TrimSpace(token), Reason: reason}
	}
	return f, nil
}

func decodeToken(token string) (Field, string) {
	tok := strings.TrimSpace(token)
	if tok == "" {
		return Blank(), ""
	}
	c := tok[0]
	if c == '+' || c == '-' || c == '.' || (c >= '0' && c <= '9') {
		return decodeNumber(tok)
	}
	if !validSymbol(tok) {
		return Field{}, "malformed token"
	}
	return StrField(strings.ToUpper(tok)), ""
}

func decodeNumber(tok string) (Field, string) {
	if i, err := strconv.Atoi(tok); err == nil {
		return IntField(i), ""
	}
	v, err := strconv.ParseFloat(normalizeReal(tok), 64)
	if err != nil {
		return Field{}, "malformed number"
	}
	return FloatField(v), ""
}

// normalizeReal rewrites engineering shorthand into strconv syntax.
// The Fortran double marker D becomes E, and a bare embedded sign
// gains the E it implies.
func normalizeReal(tok string) string {
	t := strings.ToUpper(tok)
	t = strings.ReplaceAll(t, "D", "E")
	if strings.ContainsRune(t, 'E') {
		return t
	}
	if i := strings.LastIndexAny(t[1:], "+-"); i >= 0 {
		i++
		return t[:i] + "E" + t[i:]
	}
	return t
}

// validSymbol accepts character tokens: a leading letter followed by
// letters, digits and a little punctuation.
func validSymbol(tok string) bool {
	for i := 0; i < len(tok); i++ {
		c := tok[i]
		switch {
		case c >= 'A' && c <= 'Z' || c >= 'a' && c <= 'z':
		case i > 0 && c >= '0' && c <= '9':
		case i > 0 && (c == '.' || c == '-' || c == '+' || c == '_'):
		default:
			return false
		}
	}
	return true
}

// keywordOf normalizes a keyword cell: trimmed, the large-field tag
// stripped, uppercased.
func keywordOf(cell string) string {
	return strings.ToUpper(strings.TrimSuffix(strings.TrimSpace(cell), "*"))
}

// lastFieldIndex returns the index of the last non-blank cell, or 0
// when the record carries no data.
func lastFieldIndex(raw []string) int {
	for i := len(raw) - 1; i > 0; i-- {
		if strings.TrimSpace(raw[i]) != "" {
			return i
		}
	}
	return 0
}

// CardRec is one stitched record decoded against its card schema: the
// fixed slots kind-checked with defaults in place, the tail fields
// decoded, ready for the card's hook to assemble the typed result.
// Slot 0 is the keyword; data slots start at 1, matching the column
// layout in the card descriptions.
type CardRec struct {
	def    CardDef
	card   string
	raw    []string
	fields []Field
	tail   []Field
}

// decodeCard checks a record's raw cells against the card's schema
// and hands the checked record to the card's hook. Schema failures
// name the card, the slot and the offending text; the hook only sees
// records whose fixed slots already carry their declared kinds.
func decodeCard(def CardDef, raw []string) (Card, error) {
	rec, err := newCardRec(def, raw)
	if err != nil {
		return nil, err
	}
	return def.Parse(rec)
}

func newCardRec(def CardDef, raw []string) (*CardRec, error) {
	card := ""
	if len(raw) > 0 {
		card = keywordOf(raw[0])
	}
	rec := &CardRec{def: def, card: card, raw: raw}

	last := lastFieldIndex(raw)
	if def.Tail == nil && last > len(def.Fields) {
		return nil, rec.Errf(last, "", "card takes "+strconv.Itoa(len(def.Fields))+" fields")
	}

	rec.fields = make([]Field, len(def.Fields)+1)
	rec.fields[0] = StrField(card)
	for i, spec := range def.Fields {
		slot := i + 1
		f, err := rec.decodeSlot(slot, spec)
		if err != nil {
			return nil, err
		}
		rec.fields[slot] = f
	}

	if def.Tail != nil && last > len(def.Fields) {
		group := def.Tail.Group
		for slot := len(def.Fields) + 1; slot <= last; slot++ {
			spec := group[(slot-len(def.Fields)-1)%len(group)]
			f, err := rec.decodeSlot(slot, spec)
			if err != nil {
				return nil, err
			}
			rec.tail = append(rec.tail, f)
		}
	}
	return rec, nil
}

// decodeSlot decodes one cell against its spec. A blank is an error
// for required slots and resolves to the declared default otherwise; the
// tail never carries required slots or defaults, so blanks there stay
// blank for the hook to judge.
func (c *CardRec) decodeSlot(slot int, spec FieldSpec) (Field, error) {
	f := Blank()
	if slot < len(c.raw) {
		var reason string
		if f, reason = decodeToken(c.raw[slot]); reason != "" {
			return Field{}, c.Errf(slot, spec.Name, reason)
		}
	}
	if f.IsBlank() {
		if spec.Required {
			return Field{}, c.Errf(slot, spec.Name, "required "+spec.Kind.String()+" is blank")
		}
		return spec.Default, nil
	}
	if reason := kindReason(spec.Kind, f); reason != "" {
		return Field{}, c.Errf(slot, spec.Name, reason)
	}
	return f, nil
}

// kindReason checks a non-blank value against a slot kind, returning
// the reason it fails or "".
func kindReason(kind SlotKind, f Field) string {
	switch kind {
	case SlotInt:
		if f.Kind() != KindInt {
			return "integer required, found " + f.Kind().String()
		}
	case SlotReal:
		switch f.Kind() {
		case KindFloat:
		case KindInt:
			return "real required, found integer (reals carry a decimal point or exponent)"
		default:
			return "real required, found " + f.Kind().String()
		}
	case SlotChar:
		if f.Kind() != KindString {
			return "symbol required, found " + f.Kind().String()
		}
	case SlotBlank:
		return "unused field must stay blank"
	}
	return ""
}

// Errf builds a FieldError for slot i. An empty name is filled from
// the schema.
func (c *CardRec) Errf(i int, name, reason string) *FieldError {
	if name == "" {
		name = c.def.slotName(i)
	}
	raw := ""
	if i < len(c.raw) {
		raw = strings.TrimSpace(c.raw[i])
	}
	return &FieldError{Card: c.card, Field: name, Raw: raw, Reason: reason}
}

// FieldAt returns the decoded value of a fixed slot, with the schema
// default already in place of a blank. Indexes outside the fixed
// slots are blank.
func (c *CardRec) FieldAt(i int) Field {
	if i < 0 || i >= len(c.fields) {
		return Blank()
	}
	return c.fields[i]
}

// Int, Float and Str read a fixed slot as its schema kind.
func (c *CardRec) Int(i int) int       { return c.FieldAt(i).Int(0) }
func (c *CardRec) Float(i int) float64 { return c.FieldAt(i).Float(0) }
func (c *CardRec) Str(i int) string    { return c.FieldAt(i).Str("") }

// IntOr reads an integer slot whose default depends on another field,
// like a property id falling back to the element id.
func (c *CardRec) IntOr(i, def int) int {
	f := c.FieldAt(i)
	if f.IsBlank() {
		return def
	}
	return f.Int(0)
}

// Blank reports whether the raw cell at i was blank or absent, before
// any default was applied.
func (c *CardRec) Blank(i int) bool {
	return i >= len(c.raw) || strings.TrimSpace(c.raw[i]) == ""
}

// Components reads a digit-set slot as its string form: blank is "",
// 123 is "123".
func (c *CardRec) Components(i int) string {
	f := c.FieldAt(i)
	if f.IsBlank() {
		return ""
	}
	return strconv.Itoa(f.Int(0))
}

// Tail returns the decoded fields past the fixed slots, through the
// last non-blank cell.
func (c *CardRec) Tail() []Field { return c.tail }

// TailStart returns the slot index of the first tail position.
func (c *CardRec) TailStart() int { return len(c.def.Fields) + 1 }

// IntList reads the tail as an integer list with THRU expansion:
// "1 THRU 5" yields 1 2 3 4 5. Interior blanks are skipped.
func (c *CardRec) IntList() ([]int, error) {
	var out []int
	for j := 0; j < len(c.tail); j++ {
		f := c.tail[j]
		slot := c.TailStart() + j
		if f.IsBlank() {
			continue
		}
		switch f.Kind() {
		case KindInt:
			out = append(out, f.Int(0))
		case KindString:
			if v := f.Str(""); v != "THRU" {
				return nil, c.Errf(slot, "", "integer or THRU required, found "+v)
			}
			if len(out) == 0 {
				return nil, c.Errf(slot, "", "THRU with no starting value")
			}
			j++
			slot++
			if j >= len(c.tail) || c.tail[j].IsBlank() {
				return nil, c.Errf(slot, "", "required integer is blank")
			}
			if c.tail[j].Kind() != KindInt {
				return nil, c.Errf(slot, "", "integer required, found "+c.tail[j].Kind().String())
			}
			lo, hi := out[len(out)-1], c.tail[j].Int(0)
			if hi < lo {
				return nil, c.Errf(slot, "", "descending THRU range")
			}
			for v := lo + 1; v <= hi; v++ {
				out = append(out, v)
			}
		default:
			return nil, c.Errf(slot, "", "integer required, found "+f.Kind().String())
		}
	}
	return out, nil
}
