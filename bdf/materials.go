package bdf

import "math"

// Mat1 is a linear isotropic material. Any two of the elastic
// constants E, G and Nu define the third; the accessors derive the
// missing one on demand and the card stores only what was given.
type Mat1 struct {
	baseCard
	id    int
	E     Field // Young's modulus
	G     Field // shear modulus
	Nu    Field // Poisson's ratio
	Rho   float64
	A     float64 // thermal expansion coefficient
	TRef  float64
	GE    float64 // structural damping
	St    float64 // tension stress limit
	Sc    float64 // compression stress limit
	Ss    float64 // shear stress limit
	MCSID int
}

// NewMat1 builds an isotropic material from Young's modulus and
// Poisson's ratio. The shear modulus follows from the two.
func NewMat1(id int, e, nu float64) *Mat1 {
	return &Mat1{id: id, E: FloatField(e), Nu: FloatField(nu)}
}

func (m *Mat1) Type() string { return "MAT1" }
func (m *Mat1) ID() int      { return m.id }

// YoungsModulus returns E, deriving it from G and Nu when the card
// does not carry it. ok is false when the card underdefines the
// constants.
func (m *Mat1) YoungsModulus() (float64, bool) {
	if v, err := m.E.AsFloat(); err == nil {
		return v, true
	}
	g, err1 := m.G.AsFloat()
	nu, err2 := m.Nu.AsFloat()
	if err1 == nil && err2 == nil {
		return 2 * (1 + nu) * g, true
	}
	return 0, false
}

// ShearModulus returns G, deriving it from E and Nu when absent.
func (m *Mat1) ShearModulus() (float64, bool) {
	if v, err := m.G.AsFloat(); err == nil {
		return v, true
	}
	e, err1 := m.E.AsFloat()
	nu, err2 := m.Nu.AsFloat()
	if err1 == nil && err2 == nil && nu != -1 {
		return e / (2 * (1 + nu)), true
	}
	return 0, false
}

// PoissonRatio returns Nu, deriving it from E and G when absent.
func (m *Mat1) PoissonRatio() (float64, bool) {
	if v, err := m.Nu.AsFloat(); err == nil {
		return v, true
	}
	e, err1 := m.E.AsFloat()
	g, err2 := m.G.AsFloat()
	if err1 == nil && err2 == nil && g != 0 {
		return e/(2*g) - 1, true
	}
	return 0, false
}

func (m *Mat1) RawFields() []Field {
	return []Field{
		StrField("MAT1"), IntField(m.id), m.E, m.G, m.Nu,
		floatOrBlank(m.Rho), floatOrBlank(m.A), floatOrBlank(m.TRef), floatOrBlank(m.GE),
		floatOrBlank(m.St), floatOrBlank(m.Sc), floatOrBlank(m.Ss), intOrBlank(m.MCSID),
	}
}

func (m *Mat1) References() []Ref {
	if m.MCSID == 0 {
		return noRefs
	}
	return []Ref{{SpaceCoord, m.MCSID, "MCSID"}}
}

func (m *Mat1) Validate() []Issue {
	issues := schemaIssues(m)
	given := 0
	for _, f := range [3]Field{m.E, m.G, m.Nu} {
		if !f.IsBlank() {
			given++
		}
	}
	if given < 2 {
		issues = append(issues, issuef("MAT1", m.id, "E", "needs two of E, G and NU"))
	}
	if given == 3 {
		e, _ := m.E.AsFloat()
		g, _ := m.G.AsFloat()
		nu, _ := m.Nu.AsFloat()
		if want := 2 * (1 + nu) * g; math.Abs(e-want) > 1e-4*math.Abs(e) {
			issues = append(issues, warnf("MAT1", m.id, "G", "E, G and NU are inconsistent (E=%g, 2(1+NU)G=%g)", e, want))
		}
	}
	if nu, ok := m.PoissonRatio(); ok && (nu <= -1 || nu > 0.5) {
		issues = append(issues, warnf("MAT1", m.id, "NU", "Poisson's ratio %g outside (-1, 0.5]", nu))
	}
	if e, ok := m.YoungsModulus(); ok && e <= 0 {
		issues = append(issues, issuef("MAT1", m.id, "E", "modulus must be positive"))
	}
	return issues
}

func parseMat1(c *CardRec) (Card, error) {
	return &Mat1{
		id: c.Int(1), E: c.FieldAt(2), G: c.FieldAt(3), Nu: c.FieldAt(4),
		Rho: c.Float(5), A: c.Float(6), TRef: c.Float(7), GE: c.Float(8),
		St: c.Float(9), Sc: c.Float(10), Ss: c.Float(11), MCSID: c.Int(12),
	}, nil
}
