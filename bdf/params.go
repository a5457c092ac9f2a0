package bdf

import "strings"

// Param sets a named solver parameter. Unlike every other card the
// key is the name, not an integer id; values ride the field type
// system so a parameter may hold an integer, a real or a symbol.
type Param struct {
	baseCard
	name  string
	Value Field
}

// NewParam builds a parameter card. The name is uppercased.
func NewParam(name string, value Field) *Param {
	return &Param{name: strings.ToUpper(name), Value: value}
}

func (p *Param) Type() string { return "PARAM" }
func (p *Param) ID() int      { return 0 }
func (p *Param) Name() string { return p.name }

func (p *Param) RawFields() []Field {
	return []Field{StrField("PARAM"), StrField(p.name), p.Value}
}

func (p *Param) References() []Ref { return noRefs }

// paramKinds lists the expected value kind for well-known parameters.
var paramKinds = map[string]FieldKind{
	"POST":     KindInt,
	"GRDPNT":   KindInt,
	"COUPMASS": KindInt,
	"WTMASS":   KindFloat,
	"K6ROT":    KindFloat,
	"SNORM":    KindFloat,
	"AUTOSPC":  KindString,
	"PRTMAXIM": KindString,
}

func (p *Param) Validate() []Issue {
	var issues []Issue
	if p.name == "" {
		issues = append(issues, issuef("PARAM", 0, "N", "name required"))
	}
	if len(p.name) > 8 {
		issues = append(issues, issuef("PARAM", 0, "N", "name %q longer than 8 characters", p.name))
	}
	if p.Value.IsBlank() {
		issues = append(issues, issuef("PARAM", 0, "V1", "%s has no value", p.name))
	}
	if want, known := paramKinds[p.name]; known && !p.Value.IsBlank() && p.Value.Kind() != want {
		issues = append(issues, warnf("PARAM", 0, "V1", "%s usually holds a %s value, got %s",
			p.name, want, p.Value.Kind()))
	}
	return issues
}

func parseParam(c *CardRec) (Card, error) {
	return &Param{name: c.Str(1), Value: c.FieldAt(2)}, nil
}
