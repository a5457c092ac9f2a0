package bdf

// Eigrl requests real eigenvalues by the Lanczos method: a frequency
// range, a mode count, or both.
type Eigrl struct {
	baseCard
	id     int
	V1     Field // lower frequency bound, blank = open
	V2     Field // upper frequency bound, blank = open
	ND     int   // number of modes wanted, 0 = all in range
	MsgLvl int
	MaxSet int
	ShfScl Field  // shift scale estimate
	Norm   string // eigenvector normalization, "" = MASS
}

// NewEigrl requests the nd lowest modes.
func NewEigrl(id, nd int) *Eigrl {
	return &Eigrl{id: id, ND: nd}
}

func (e *Eigrl) Type() string { return "EIGRL" }
func (e *Eigrl) ID() int      { return e.id }

func (e *Eigrl) RawFields() []Field {
	norm := Blank()
	if e.Norm != "" {
		norm = StrField(e.Norm)
	}
	return []Field{
		StrField("EIGRL"), IntField(e.id), e.V1, e.V2, intOrBlank(e.ND),
		intOrBlank(e.MsgLvl), intOrBlank(e.MaxSet), e.ShfScl, norm,
	}
}

func (e *Eigrl) References() []Ref { return noRefs }

func (e *Eigrl) Validate() []Issue {
	issues := schemaIssues(e)
	v1, err1 := e.V1.AsFloat()
	v2, err2 := e.V2.AsFloat()
	if err1 == nil && err2 == nil && v1 > v2 {
		issues = append(issues, issuef("EIGRL", e.id, "V2", "range is inverted (V1 %g > V2 %g)", v1, v2))
	}
	return issues
}

func parseEigrl(c *CardRec) (Card, error) {
	return &Eigrl{
		id: c.Int(1), V1: c.FieldAt(2), V2: c.FieldAt(3), ND: c.Int(4),
		MsgLvl: c.Int(5), MaxSet: c.Int(6), ShfScl: c.FieldAt(7), Norm: c.Str(8),
	}, nil
}
