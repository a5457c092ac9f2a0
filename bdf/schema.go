package bdf

import (
	"sort"
	"strconv"
	"strings"
)

// SlotKind is the semantic type a card schema assigns to one field
// slot.
type SlotKind uint8

const (
	SlotInt SlotKind = iota
	SlotReal
	SlotChar
	// SlotAny admits any kind, for dual-typed slots like an angle or
	// a frame id. SlotBlank marks an unused column that must stay
	// blank.
	SlotAny
	SlotBlank
)

// String returns the wording used in decode errors.
func (k SlotKind) String() string {
	switch k {
	case SlotInt:
		return "integer"
	case SlotReal:
		return "real"
	case SlotChar:
		return "symbol"
	case SlotAny:
		return "field"
	case SlotBlank:
		return "blank"
	default:
		return "unknown"
	}
}

// ConstraintKind names the validity predicate a schema attaches to a
// slot.
type ConstraintKind uint8

const (
	ConstraintNone ConstraintKind = iota
	ConstraintPositive
	ConstraintNonNegative
	ConstraintEnum
	ConstraintComponents
)

// Constraint is one slot validity predicate. Enum carries the allowed
// symbols for ConstraintEnum; the other kinds need no argument.
// Constraints judge values, never blankness: a blank slot is governed
// by Required and Default alone.
type Constraint struct {
	Kind ConstraintKind
	Enum []string
}

// admit checks a non-blank value against the predicate, returning the
// reason it fails or "".
func (c Constraint) admit(f Field) string {
	switch c.Kind {
	case ConstraintPositive:
		if v, ok := f.Number(); ok && v <= 0 {
			return "must be positive"
		}
	case ConstraintNonNegative:
		if v, ok := f.Number(); ok && v < 0 {
			return "must not be negative"
		}
	case ConstraintEnum:
		v := f.Str("")
		for _, allowed := range c.Enum {
			if v == allowed {
				return ""
			}
		}
		return "must be one of " + strings.Join(c.Enum, ", ")
	case ConstraintComponents:
		if !validComponents(strconv.Itoa(f.Int(0))) {
			return "components must be unique digits 1-6"
		}
	}
	return ""
}

// FieldSpec describes one fixed slot of a card: its name, semantic
// kind, the default a blank resolves to, whether a blank is a decode
// error, and the validity predicate validation applies to the value.
// A zero Default keeps blanks blank, for slots like MAT1's moduli
// where absence is meaningful.
type FieldSpec struct {
	Name     string
	Kind     SlotKind
	Required bool
	Default  Field
	Check    Constraint
}

// Slot constructors and options keep the card tables compact.

func req(name string, kind SlotKind) FieldSpec {
	return FieldSpec{Name: name, Kind: kind, Required: true}
}

func opt(name string, kind SlotKind) FieldSpec {
	return FieldSpec{Name: name, Kind: kind}
}

func pad() FieldSpec {
	return FieldSpec{Kind: SlotBlank}
}

// or sets the default a blank slot resolves to.
func (f FieldSpec) or(def Field) FieldSpec {
	f.Default = def
	return f
}

func (f FieldSpec) pos() FieldSpec {
	f.Check = Constraint{Kind: ConstraintPositive}
	return f
}

func (f FieldSpec) nonneg() FieldSpec {
	f.Check = Constraint{Kind: ConstraintNonNegative}
	return f
}

func (f FieldSpec) enum(allowed ...string) FieldSpec {
	f.Check = Constraint{Kind: ConstraintEnum, Enum: allowed}
	return f
}

func (f FieldSpec) comps() FieldSpec {
	f.Check = Constraint{Kind: ConstraintComponents}
	return f
}

// TailSpec describes the open-ended fields past the fixed slots. The
// group repeats in order for as long as data is present: a single slot
// for node lists, a pair for the scale-and-set or variable-and-weight
// cards.
type TailSpec struct {
	Group []FieldSpec
}

// slotName names a field position from the schema: fixed slots by
// their spec, tail positions by the group slot they cycle onto,
// anything else by its column number.
func (d CardDef) slotName(i int) string {
	if i >= 1 && i <= len(d.Fields) {
		if name := d.Fields[i-1].Name; name != "" {
			return name
		}
		return strconv.Itoa(i)
	}
	if d.Tail != nil && i > len(d.Fields) {
		g := d.Tail.Group
		return g[(i-len(d.Fields)-1)%len(g)].Name
	}
	return strconv.Itoa(i)
}

// arityProblem reports a rendered field list that diverges from the
// schema: data past the fixed slots on a card with no tail, or a
// ragged final tail group. The writer refuses such a card rather than
// emit columns the decoder would misread.
func (d CardDef) arityProblem(raw []Field) string {
	n := len(raw) - 1
	if d.Tail == nil {
		if n > len(d.Fields) {
			return "renders " + strconv.Itoa(n) + " fields, schema defines " + strconv.Itoa(len(d.Fields))
		}
		return ""
	}
	if extra := n - len(d.Fields); extra > 0 && extra%len(d.Tail.Group) != 0 {
		return "tail of " + strconv.Itoa(extra) + " fields does not fill groups of " + strconv.Itoa(len(d.Tail.Group))
	}
	return ""
}

// schemaIssues checks a card's rendered fields against the slot
// constraints of its registered schema. The card's own Validate keeps
// the rules that need more than one field in view.
func schemaIssues(c Card) []Issue {
	def, ok := defaultRegistry.Lookup(c.Type())
	if !ok {
		return nil
	}
	var issues []Issue
	raw := c.RawFields()
	for i, spec := range def.Fields {
		slot := i + 1
		if spec.Check.Kind == ConstraintNone || slot >= len(raw) || raw[slot].IsBlank() {
			continue
		}
		if reason := spec.Check.admit(raw[slot]); reason != "" {
			issues = append(issues, issuef(c.Type(), c.ID(), spec.Name, "%s", reason))
		}
	}
	return issues
}

// pbarlSections lists the section library names, sorted, for the TYPE
// slot's enum.
func pbarlSections() []string {
	out := make([]string, 0, len(pbarlDims))
	for name := range pbarlDims {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// registerBuiltins installs the supported card set. The table is the
// one place a card type, its namespace, its field layout and its
// parse hook meet; decode checks fields against the layout before the
// hook runs, and the writer checks rendered cards against the same
// layout, so the two sides cannot drift apart.
func registerBuiltins(r *Registry) {
	zero := FloatField(0)

	pointSlots := func(names ...string) []FieldSpec {
		var out []FieldSpec
		for _, p := range names {
			for i := 1; i <= 3; i++ {
				out = append(out, opt(p+strconv.Itoa(i), SlotReal).or(zero))
			}
		}
		return out
	}

	forceFields := []FieldSpec{
		req("SID", SlotInt).pos(),
		req("G", SlotInt),
		opt("CID", SlotInt).or(IntField(0)).nonneg(),
		opt("F", SlotReal).or(zero),
		opt("N1", SlotReal).or(zero),
		opt("N2", SlotReal).or(zero),
		opt("N3", SlotReal).or(zero),
	}

	for _, def := range []CardDef{
		{
			Type: "GRID", Space: SpaceNode, Doc: "structural node",
			Fields: []FieldSpec{
				req("NID", SlotInt).pos(),
				opt("CP", SlotInt).or(IntField(0)).nonneg(),
				opt("X1", SlotReal).or(zero),
				opt("X2", SlotReal).or(zero),
				opt("X3", SlotReal).or(zero),
				opt("CD", SlotInt).or(IntField(0)).nonneg(),
				opt("PS", SlotInt).comps(),
				opt("SEID", SlotInt).or(IntField(0)).nonneg(),
			},
			Parse: parseGrid,
		},
		{
			Type: "CORD2R", Space: SpaceCoord, Doc: "rectangular coordinate frame",
			Fields: append([]FieldSpec{
				req("CID", SlotInt).pos(),
				opt("RID", SlotInt).or(IntField(0)).nonneg(),
			}, pointSlots("A", "B", "C")...),
			Parse: parseCord2R,
		},

		{
			Type: "CROD", Space: SpaceElement, Doc: "rod element",
			Fields: []FieldSpec{
				req("EID", SlotInt).pos(),
				opt("PID", SlotInt),
				req("G1", SlotInt),
				req("G2", SlotInt),
			},
			Parse: parseCRod,
		},
		{
			Type: "CBAR", Space: SpaceElement, Doc: "beam element",
			Fields: []FieldSpec{
				req("EID", SlotInt).pos(),
				opt("PID", SlotInt),
				req("GA", SlotInt),
				req("GB", SlotInt),
				opt("X1/G0", SlotAny),
				opt("X2", SlotReal).or(zero),
				opt("X3", SlotReal).or(zero),
				opt("OFFT", SlotChar).or(StrField("GGG")),
				opt("PA", SlotInt).comps(),
				opt("PB", SlotInt).comps(),
				opt("W1A", SlotReal).or(zero),
				opt("W2A", SlotReal).or(zero),
				opt("W3A", SlotReal).or(zero),
				opt("W1B", SlotReal).or(zero),
				opt("W2B", SlotReal).or(zero),
				opt("W3B", SlotReal).or(zero),
			},
			Parse: parseCBar,
		},
		{
			Type: "CQUAD4", Space: SpaceElement, Doc: "quadrilateral shell element",
			Fields: []FieldSpec{
				req("EID", SlotInt).pos(),
				opt("PID", SlotInt),
				req("G1", SlotInt),
				req("G2", SlotInt),
				req("G3", SlotInt),
				req("G4", SlotInt),
				opt("THETA/MCID", SlotAny),
				opt("ZOFFS", SlotReal).or(zero),
				pad(),
				opt("TFLAG", SlotInt).or(IntField(0)),
				opt("T1", SlotReal).or(zero).nonneg(),
				opt("T2", SlotReal).or(zero).nonneg(),
				opt("T3", SlotReal).or(zero).nonneg(),
				opt("T4", SlotReal).or(zero).nonneg(),
			},
			Parse: parseCQuad4,
		},

		{
			Type: "PROD", Space: SpaceProperty, Doc: "rod section values",
			Fields: []FieldSpec{
				req("PID", SlotInt).pos(),
				req("MID", SlotInt),
				opt("A", SlotReal).or(zero),
				opt("J", SlotReal).or(zero).nonneg(),
				opt("C", SlotReal).or(zero),
				opt("NSM", SlotReal).or(zero),
			},
			Parse: parsePRod,
		},
		{
			Type: "PBARL", Space: SpaceProperty, Doc: "library bar section",
			Fields: []FieldSpec{
				req("PID", SlotInt).pos(),
				req("MID", SlotInt),
				opt("GROUP", SlotChar).or(StrField("MSCBML0")),
				req("TYPE", SlotChar).enum(pbarlSections()...),
				pad(), pad(), pad(), pad(),
			},
			Tail:  &TailSpec{Group: []FieldSpec{opt("DIM", SlotReal)}},
			Parse: parsePBarL,
		},
		{
			Type: "PSHELL", Space: SpaceProperty, Doc: "shell thickness and materials",
			Fields: []FieldSpec{
				req("PID", SlotInt).pos(),
				opt("MID1", SlotInt).or(IntField(0)),
				opt("T", SlotReal).or(zero).pos(),
				opt("MID2", SlotInt).or(IntField(0)),
				opt("12I/T**3", SlotReal).or(FloatField(1)).pos(),
				opt("MID3", SlotInt).or(IntField(0)),
				opt("TS/T", SlotReal).or(FloatField(defaultTST)).pos(),
				opt("NSM", SlotReal).or(zero),
				opt("Z1", SlotReal).or(zero),
				opt("Z2", SlotReal).or(zero),
				opt("MID4", SlotInt).or(IntField(0)),
			},
			Parse: parsePShell,
		},

		{
			Type: "MAT1", Space: SpaceMaterial, Doc: "linear isotropic material",
			Fields: []FieldSpec{
				req("MID", SlotInt).pos(),
				opt("E", SlotReal),
				opt("G", SlotReal),
				opt("NU", SlotReal),
				opt("RHO", SlotReal).or(zero).nonneg(),
				opt("A", SlotReal).or(zero),
				opt("TREF", SlotReal).or(zero),
				opt("GE", SlotReal).or(zero),
				opt("ST", SlotReal).or(zero),
				opt("SC", SlotReal).or(zero),
				opt("SS", SlotReal).or(zero),
				opt("MCSID", SlotInt).or(IntField(0)),
			},
			Parse: parseMat1,
		},

		{
			Type: "SPC1", Space: SpaceConstraint, Doc: "single-point constraint set",
			Fields: []FieldSpec{
				req("SID", SlotInt).pos(),
				opt("C", SlotInt).comps(),
			},
			Tail:  &TailSpec{Group: []FieldSpec{opt("G", SlotAny)}},
			Parse: parseSPC1,
		},

		{
			Type: "FORCE", Space: SpaceLoad, Doc: "concentrated force",
			Fields: forceFields, Parse: parseForce,
		},
		{
			Type: "MOMENT", Space: SpaceLoad, Doc: "concentrated moment",
			Fields: forceFields, Parse: parseMoment,
		},
		{
			Type: "LOAD", Space: SpaceLoad, Doc: "load combination",
			Fields: []FieldSpec{
				req("SID", SlotInt).pos(),
				req("S", SlotReal),
			},
			Tail: &TailSpec{Group: []FieldSpec{
				opt("S", SlotReal),
				opt("L", SlotInt),
			}},
			Parse: parseLoad,
		},

		{
			Type: "EIGRL", Space: SpaceMethod, Doc: "Lanczos eigenvalue request",
			Fields: []FieldSpec{
				req("SID", SlotInt).pos(),
				opt("V1", SlotReal),
				opt("V2", SlotReal),
				opt("ND", SlotInt).or(IntField(0)).nonneg(),
				opt("MSGLVL", SlotInt).or(IntField(0)),
				opt("MAXSET", SlotInt).or(IntField(0)),
				opt("SHFSCL", SlotReal),
				opt("NORM", SlotChar).enum("MASS", "MAX"),
			},
			Parse: parseEigrl,
		},
		{
			Type: "PARAM", Space: SpaceParam, Doc: "solver parameter",
			Fields: []FieldSpec{
				req("N", SlotChar),
				opt("V1", SlotAny),
			},
			Parse: parseParam,
		},

		{
			Type: "DESVAR", Space: SpaceDesVar, Doc: "design variable",
			Fields: []FieldSpec{
				req("ID", SlotInt).pos(),
				req("LABEL", SlotChar),
				req("XINIT", SlotReal),
				opt("XLB", SlotReal).or(FloatField(-unbounded)),
				opt("XUB", SlotReal).or(FloatField(unbounded)),
				opt("DELXV", SlotReal).pos(),
				opt("DDVAL", SlotInt).or(IntField(0)),
			},
			Parse: parseDesVar,
		},
		{
			Type: "DRESP1", Space: SpaceDResp, Doc: "design response",
			Fields: []FieldSpec{
				req("ID", SlotInt).pos(),
				req("LABEL", SlotChar),
				req("RTYPE", SlotChar),
				opt("PTYPE", SlotChar),
				opt("REGION", SlotInt).or(IntField(0)),
				opt("ATTA", SlotInt),
				opt("ATTB", SlotAny),
			},
			Tail:  &TailSpec{Group: []FieldSpec{opt("ATT", SlotAny)}},
			Parse: parseDResp1,
		},
		{
			Type: "DCONSTR", Space: SpaceDConstr, Doc: "design constraint",
			Fields: []FieldSpec{
				req("DCID", SlotInt).pos(),
				req("RID", SlotInt).pos(),
				opt("LALLOW", SlotReal).or(FloatField(-unbounded)),
				opt("UALLOW", SlotReal).or(FloatField(unbounded)),
				opt("LOWFQ", SlotReal).or(zero),
				opt("HIGHFQ", SlotReal).or(FloatField(unbounded)),
			},
			Parse: parseDConstr,
		},
		{
			Type: "DVPREL1", Space: SpaceDVPRel, Doc: "variable to property relation",
			Fields: []FieldSpec{
				req("ID", SlotInt).pos(),
				req("TYPE", SlotChar).enum("PBARL", "PROD", "PSHELL"),
				req("PID", SlotInt),
				opt("PNAME", SlotAny),
				opt("PMIN", SlotReal),
				opt("PMAX", SlotReal),
				opt("C0", SlotReal).or(zero),
				pad(),
			},
			Tail: &TailSpec{Group: []FieldSpec{
				opt("DVID", SlotInt),
				opt("COEF", SlotReal),
			}},
			Parse: parseDVPRel1,
		},
	} {
		r.mustRegister(def)
	}
}
