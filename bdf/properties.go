package bdf

import (
	"fmt"
	"strings"
)

// PRod carries the section values of a rod element: area, torsional
// constant, stress coefficient and nonstructural mass.
type PRod struct {
	baseCard
	id  int
	MID int
	A   float64
	J   float64
	C   float64
	NSM float64
}

// NewPRod builds a rod property with area a.
func NewPRod(id, mid int, a float64) *PRod {
	return &PRod{id: id, MID: mid, A: a}
}

func (p *PRod) Type() string { return "PROD" }
func (p *PRod) ID() int      { return p.id }

func (p *PRod) RawFields() []Field {
	return []Field{
		StrField("PROD"), IntField(p.id), IntField(p.MID),
		FloatField(p.A), floatOrBlank(p.J), floatOrBlank(p.C), floatOrBlank(p.NSM),
	}
}

func (p *PRod) References() []Ref {
	return []Ref{{SpaceMaterial, p.MID, "MID"}}
}

func (p *PRod) Validate() []Issue {
	issues := schemaIssues(p)
	if p.A <= 0 {
		issues = append(issues, warnf("PROD", p.id, "A", "area is not positive"))
	}
	return issues
}

func parsePRod(c *CardRec) (Card, error) {
	return &PRod{
		id: c.Int(1), MID: c.Int(2),
		A: c.Float(3), J: c.Float(4), C: c.Float(5), NSM: c.Float(6),
	}, nil
}

// pbarlDims maps a library section name to its dimension count.
var pbarlDims = map[string]int{
	"ROD": 1, "TUBE": 2, "I": 6, "CHAN": 4, "T": 4, "BOX": 4,
	"BAR": 2, "CROSS": 4, "H": 4, "T1": 4, "I1": 4, "CHAN1": 4,
	"Z": 4, "CHAN2": 4, "T2": 4, "BOX1": 6, "HEXA": 3, "HAT": 4,
	"HAT1": 5, "DBOX": 10,
}

// PBarL describes a bar section picked from the cross-section library
// by name, with one dimension value per slot the section defines.
type PBarL struct {
	baseCard
	id      int
	MID     int
	Group   string // section library, default MSCBML0
	Section string // library section name, e.g. BOX
	Dims    []float64
	NSM     float64
}

// NewPBarL builds a library section property. The dimension count
// must match what the named section defines.
func NewPBarL(id, mid int, section string, dims []float64) (*PBarL, error) {
	section = strings.ToUpper(section)
	want, ok := pbarlDims[section]
	if !ok {
		return nil, &StructuralError{Card: "PBARL", ID: id, Reason: fmt.Sprintf("unknown section type %q", section)}
	}
	if len(dims) != want {
		return nil, &StructuralError{
			Card: "PBARL", ID: id,
			Reason: fmt.Sprintf("section %s takes %d dimensions, got %d", section, want, len(dims)),
		}
	}
	d := make([]float64, len(dims))
	copy(d, dims)
	return &PBarL{id: id, MID: mid, Group: "MSCBML0", Section: section, Dims: d}, nil
}

func (p *PBarL) Type() string { return "PBARL" }
func (p *PBarL) ID() int      { return p.id }

func (p *PBarL) RawFields() []Field {
	fields := []Field{
		StrField("PBARL"), IntField(p.id), IntField(p.MID),
		StrField(p.Group), StrField(p.Section),
		Blank(), Blank(), Blank(), Blank(),
	}
	fields = append(fields, fieldsFromFloats(p.Dims)...)
	fields = append(fields, floatOrBlank(p.NSM))
	return fields
}

func (p *PBarL) References() []Ref {
	return []Ref{{SpaceMaterial, p.MID, "MID"}}
}

func (p *PBarL) Validate() []Issue {
	issues := schemaIssues(p)
	if want, ok := pbarlDims[p.Section]; ok && len(p.Dims) != want {
		issues = append(issues, issuef("PBARL", p.id, "DIM", "section %s takes %d dimensions, got %d", p.Section, want, len(p.Dims)))
	}
	for i, d := range p.Dims {
		if d <= 0 {
			issues = append(issues, issuef("PBARL", p.id, fmt.Sprintf("DIM%d", i+1), "dimension must be positive"))
		}
	}
	return issues
}

func parsePBarL(c *CardRec) (Card, error) {
	p := &PBarL{id: c.Int(1), MID: c.Int(2), Group: c.Str(3), Section: c.Str(4)}
	want, ok := pbarlDims[p.Section]
	if !ok {
		return nil, c.Errf(4, "TYPE", fmt.Sprintf("unknown section type %q", p.Section))
	}
	dims := c.Tail()
	for i := 0; i < want; i++ {
		if i >= len(dims) || dims[i].IsBlank() {
			return nil, c.Errf(c.TailStart()+i, fmt.Sprintf("DIM%d", i+1), "required real is blank")
		}
		p.Dims = append(p.Dims, dims[i].Float(0))
	}
	if want < len(dims) {
		p.NSM = dims[want].Float(0)
	}
	for j := want + 1; j < len(dims); j++ {
		if !dims[j].IsBlank() {
			return nil, c.Errf(c.TailStart()+j, "", fmt.Sprintf("section %s takes %d dimensions", p.Section, want))
		}
	}
	return p, nil
}

// PShell carries the thickness and material bindings of a shell
// element: membrane, bending, transverse shear and coupling layers.
type PShell struct {
	baseCard
	id        int
	MID1      int     // membrane material
	T         float64 // default thickness
	MID2      int     // bending material, 0 = none
	TwelveIT3 float64 // bending stiffness ratio 12I/T^3, default 1
	MID3      int     // transverse shear material, 0 = none
	TST       float64 // shear thickness ratio Ts/T, default .833333
	NSM       float64
	Z1, Z2    float64 // fiber distances, 0 = default
	MID4      int     // coupling material, 0 = none
}

const defaultTST = 0.833333

// NewPShell builds a shell property of thickness t with one material
// for both membrane and bending.
func NewPShell(id, mid int, t float64) *PShell {
	return &PShell{id: id, MID1: mid, T: t, MID2: mid, TwelveIT3: 1, TST: defaultTST}
}

func (p *PShell) Type() string { return "PSHELL" }
func (p *PShell) ID() int      { return p.id }

func (p *PShell) RawFields() []Field {
	twelve := Blank()
	if p.TwelveIT3 != 1 {
		twelve = FloatField(p.TwelveIT3)
	}
	tst := Blank()
	if p.TST != defaultTST {
		tst = FloatField(p.TST)
	}
	return []Field{
		StrField("PSHELL"), IntField(p.id), intOrBlank(p.MID1), FloatField(p.T),
		intOrBlank(p.MID2), twelve, intOrBlank(p.MID3), tst, floatOrBlank(p.NSM),
		floatOrBlank(p.Z1), floatOrBlank(p.Z2), intOrBlank(p.MID4),
	}
}

func (p *PShell) References() []Ref {
	var refs []Ref
	mids := [4]int{p.MID1, p.MID2, p.MID3, p.MID4}
	names := [4]string{"MID1", "MID2", "MID3", "MID4"}
	for i, mid := range mids {
		if mid > 0 {
			refs = append(refs, Ref{SpaceMaterial, mid, names[i]})
		}
	}
	return refs
}

func (p *PShell) Validate() []Issue {
	issues := schemaIssues(p)
	if p.MID1 == 0 && p.MID2 == 0 {
		issues = append(issues, issuef("PSHELL", p.id, "MID1", "needs a membrane or bending material"))
	}
	return issues
}

func parsePShell(c *CardRec) (Card, error) {
	return &PShell{
		id: c.Int(1), MID1: c.Int(2), T: c.Float(3), MID2: c.Int(4),
		TwelveIT3: c.Float(5), MID3: c.Int(6), TST: c.Float(7),
		NSM: c.Float(8), Z1: c.Float(9), Z2: c.Float(10), MID4: c.Int(11),
	}, nil
}
