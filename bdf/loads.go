package bdf

// Force applies a concentrated force at a node: scale times a
// direction vector measured in frame CID.
type Force struct {
	baseCard
	id    int
	Node  int
	CID   int
	Scale float64
	N     [3]float64
}

// NewForce builds a force of magnitude scale along n at a node.
func NewForce(id, node int, scale float64, n [3]float64) *Force {
	return &Force{id: id, Node: node, Scale: scale, N: n}
}

func (l *Force) Type() string { return "FORCE" }
func (l *Force) ID() int      { return l.id }

func (l *Force) RawFields() []Field {
	return forceLikeFields("FORCE", l.id, l.Node, l.CID, l.Scale, l.N)
}

func (l *Force) References() []Ref {
	return forceLikeRefs(l.Node, l.CID)
}

func (l *Force) Validate() []Issue {
	return validateForceLike(l, l.N)
}

// Moment applies a concentrated moment at a node, with the same
// layout as a force.
type Moment struct {
	baseCard
	id    int
	Node  int
	CID   int
	Scale float64
	N     [3]float64
}

// NewMoment builds a moment of magnitude scale about n at a node.
func NewMoment(id, node int, scale float64, n [3]float64) *Moment {
	return &Moment{id: id, Node: node, Scale: scale, N: n}
}

func (l *Moment) Type() string { return "MOMENT" }
func (l *Moment) ID() int      { return l.id }

func (l *Moment) RawFields() []Field {
	return forceLikeFields("MOMENT", l.id, l.Node, l.CID, l.Scale, l.N)
}

func (l *Moment) References() []Ref {
	return forceLikeRefs(l.Node, l.CID)
}

func (l *Moment) Validate() []Issue {
	return validateForceLike(l, l.N)
}

func forceLikeFields(typ string, id, node, cid int, scale float64, n [3]float64) []Field {
	fields := []Field{
		StrField(typ), IntField(id), IntField(node), intOrBlank(cid), FloatField(scale),
	}
	return append(fields, fieldsFromFloats(n[:])...)
}

func forceLikeRefs(node, cid int) []Ref {
	refs := []Ref{{SpaceNode, node, "G"}}
	if cid != 0 {
		refs = append(refs, Ref{SpaceCoord, cid, "CID"})
	}
	return refs
}

func validateForceLike(c Card, n [3]float64) []Issue {
	issues := schemaIssues(c)
	if norm3(n) == 0 {
		issues = append(issues, issuef(c.Type(), c.ID(), "N1", "direction vector is zero"))
	}
	return issues
}

func parseForceLike(c *CardRec) (id, node, cid int, scale float64, n [3]float64) {
	id, node, cid, scale = c.Int(1), c.Int(2), c.Int(3), c.Float(4)
	n = [3]float64{c.Float(5), c.Float(6), c.Float(7)}
	return
}

func parseForce(c *CardRec) (Card, error) {
	id, node, cid, scale, n := parseForceLike(c)
	return &Force{id: id, Node: node, CID: cid, Scale: scale, N: n}, nil
}

func parseMoment(c *CardRec) (Card, error) {
	id, node, cid, scale, n := parseForceLike(c)
	return &Moment{id: id, Node: node, CID: cid, Scale: scale, N: n}, nil
}

// LoadFactor is one term of a load combination: a scale factor and
// the load set it scales.
type LoadFactor struct {
	Scale float64
	SID   int
}

// Load combines other load sets: overall scale times the sum of each
// factor times its set.
type Load struct {
	baseCard
	id      int
	Scale   float64
	Factors []LoadFactor
}

// NewLoad builds a load combination.
func NewLoad(id int, scale float64, factors []LoadFactor) *Load {
	f := make([]LoadFactor, len(factors))
	copy(f, factors)
	return &Load{id: id, Scale: scale, Factors: f}
}

func (l *Load) Type() string { return "LOAD" }
func (l *Load) ID() int      { return l.id }

func (l *Load) RawFields() []Field {
	fields := []Field{StrField("LOAD"), IntField(l.id), FloatField(l.Scale)}
	for _, f := range l.Factors {
		fields = append(fields, FloatField(f.Scale), IntField(f.SID))
	}
	return fields
}

func (l *Load) References() []Ref {
	refs := make([]Ref, 0, len(l.Factors))
	for _, f := range l.Factors {
		refs = append(refs, Ref{SpaceLoad, f.SID, "L"})
	}
	return refs
}

func (l *Load) Validate() []Issue {
	issues := schemaIssues(l)
	if len(l.Factors) == 0 {
		issues = append(issues, issuef("LOAD", l.id, "L1", "combination has no terms"))
	}
	for _, f := range l.Factors {
		if f.SID == l.id {
			issues = append(issues, issuef("LOAD", l.id, "L", "combination references its own set id"))
		}
	}
	return issues
}

func parseLoad(c *CardRec) (Card, error) {
	l := &Load{id: c.Int(1), Scale: c.Float(2)}
	tail := c.Tail()
	for j := 0; j < len(tail); j += 2 {
		if j+1 >= len(tail) {
			return nil, &StructuralError{Card: "LOAD", ID: l.id, Reason: "scale factor without a set id"}
		}
		if tail[j].IsBlank() {
			return nil, c.Errf(c.TailStart()+j, "", "required real is blank")
		}
		if tail[j+1].IsBlank() {
			return nil, c.Errf(c.TailStart()+j+1, "", "required integer is blank")
		}
		l.Factors = append(l.Factors, LoadFactor{Scale: tail[j].Float(0), SID: tail[j+1].Int(0)})
	}
	return l, nil
}
