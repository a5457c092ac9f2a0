package bdf

// CRod is a two-node tension-compression-torsion rod element.
type CRod struct {
	baseCard
	id  int
	PID int
	G   [2]int
}

// NewCRod builds a rod element over exactly two nodes.
func NewCRod(id, pid int, nids []int) (*CRod, error) {
	if len(nids) != 2 {
		return nil, &StructuralError{Card: "CROD", ID: id, Reason: "exactly 2 nodes required"}
	}
	return &CRod{id: id, PID: pid, G: [2]int{nids[0], nids[1]}}, nil
}

func (e *CRod) Type() string { return "CROD" }
func (e *CRod) ID() int      { return e.id }

func (e *CRod) RawFields() []Field {
	return []Field{
		StrField("CROD"), IntField(e.id), IntField(e.PID),
		IntField(e.G[0]), IntField(e.G[1]),
	}
}

func (e *CRod) References() []Ref {
	return []Ref{
		{SpaceProperty, e.PID, "PID"},
		{SpaceNode, e.G[0], "G1"},
		{SpaceNode, e.G[1], "G2"},
	}
}

func (e *CRod) Validate() []Issue {
	issues := schemaIssues(e)
	if e.G[0] == e.G[1] {
		issues = append(issues, issuef("CROD", e.id, "G2", "element nodes must be distinct"))
	}
	return issues
}

func parseCRod(c *CardRec) (Card, error) {
	e := &CRod{id: c.Int(1), G: [2]int{c.Int(3), c.Int(4)}}
	e.PID = c.IntOr(2, e.id)
	return e, nil
}

// CBar is a two-node beam element. Its orientation comes either from
// the vector X or, when G0 is set, from a third node.
type CBar struct {
	baseCard
	id   int
	PID  int
	GA   int
	GB   int
	G0   int        // orientation node, 0 when X is used
	X    [3]float64 // orientation vector in the frame of GA
	OFFT string     // offset interpretation, default GGG
	PA   string     // pin flags at A
	PB   string     // pin flags at B
	WA   [3]float64 // offset at A
	WB   [3]float64 // offset at B
}

// NewCBar builds a bar over exactly two nodes with an orientation
// vector.
func NewCBar(id, pid int, nids []int, orient [3]float64) (*CBar, error) {
	if len(nids) != 2 {
		return nil, &StructuralError{Card: "CBAR", ID: id, Reason: "exactly 2 nodes required"}
	}
	return &CBar{id: id, PID: pid, GA: nids[0], GB: nids[1], X: orient, OFFT: "GGG"}, nil
}

// NewCBarG0 builds a bar oriented by a third node.
func NewCBarG0(id, pid int, nids []int, g0 int) (*CBar, error) {
	if len(nids) != 2 {
		return nil, &StructuralError{Card: "CBAR", ID: id, Reason: "exactly 2 nodes required"}
	}
	return &CBar{id: id, PID: pid, GA: nids[0], GB: nids[1], G0: g0, OFFT: "GGG"}, nil
}

func (e *CBar) Type() string { return "CBAR" }
func (e *CBar) ID() int      { return e.id }

func (e *CBar) RawFields() []Field {
	fields := []Field{
		StrField("CBAR"), IntField(e.id), IntField(e.PID),
		IntField(e.GA), IntField(e.GB),
	}
	if e.G0 != 0 {
		fields = append(fields, IntField(e.G0), Blank(), Blank())
	} else {
		fields = append(fields, fieldsFromFloats(e.X[:])...)
	}
	offt := Blank()
	if e.OFFT != "" && e.OFFT != "GGG" {
		offt = StrField(e.OFFT)
	}
	fields = append(fields, offt,
		componentsField(e.PA), componentsField(e.PB))
	for _, w := range e.WA {
		fields = append(fields, floatOrBlank(w))
	}
	for _, w := range e.WB {
		fields = append(fields, floatOrBlank(w))
	}
	return fields
}

func (e *CBar) References() []Ref {
	refs := []Ref{
		{SpaceProperty, e.PID, "PID"},
		{SpaceNode, e.GA, "GA"},
		{SpaceNode, e.GB, "GB"},
	}
	if e.G0 != 0 {
		refs = append(refs, Ref{SpaceNode, e.G0, "G0"})
	}
	return refs
}

func (e *CBar) Validate() []Issue {
	issues := schemaIssues(e)
	if e.GA == e.GB {
		issues = append(issues, issuef("CBAR", e.id, "GB", "element nodes must be distinct"))
	}
	if e.G0 == 0 && norm3(e.X) == 0 {
		issues = append(issues, issuef("CBAR", e.id, "X1", "orientation needs a vector or a node"))
	}
	if e.G0 != 0 && (e.G0 == e.GA || e.G0 == e.GB) {
		issues = append(issues, issuef("CBAR", e.id, "G0", "orientation node must differ from GA and GB"))
	}
	if !validOFFT(e.OFFT) {
		issues = append(issues, issuef("CBAR", e.id, "OFFT", "invalid offset convention %q", e.OFFT))
	}
	return issues
}

// validOFFT accepts the offset conventions: three letters, each G, B
// or O, with the first G or B.
func validOFFT(offt string) bool {
	if offt == "" {
		return true
	}
	if len(offt) != 3 {
		return false
	}
	if offt[0] != 'G' && offt[0] != 'B' {
		return false
	}
	for i := 1; i < 3; i++ {
		switch offt[i] {
		case 'G', 'B', 'O':
		default:
			return false
		}
	}
	return true
}

func parseCBar(c *CardRec) (Card, error) {
	e := &CBar{id: c.Int(1), GA: c.Int(3), GB: c.Int(4)}
	e.PID = c.IntOr(2, e.id)
	// slot 5 carries either the orientation node or the first
	// component of the orientation vector
	f5 := c.FieldAt(5)
	switch f5.Kind() {
	case KindInt:
		e.G0 = f5.Int(0)
		for i, name := range [2]string{"X2", "X3"} {
			if !c.Blank(6 + i) {
				return nil, c.Errf(6+i, name, "not used with an orientation node")
			}
		}
	case KindBlank, KindFloat:
		e.X = [3]float64{f5.Float(0), c.Float(6), c.Float(7)}
	default:
		return nil, c.Errf(5, "X1", "real required, found "+f5.Kind().String())
	}
	e.OFFT = c.Str(8)
	e.PA, e.PB = c.Components(9), c.Components(10)
	for i := 0; i < 3; i++ {
		e.WA[i] = c.Float(11 + i)
		e.WB[i] = c.Float(14 + i)
	}
	return e, nil
}

// CQuad4 is a four-node quadrilateral shell element. The material
// orientation field is dual-typed: a real is an angle in degrees, an
// integer names a coordinate frame.
type CQuad4 struct {
	baseCard
	id        int
	PID       int
	Nodes     [4]int
	ThetaMcid Field      // blank, angle or frame id
	ZOffs     float64    // offset from the reference plane
	TFlag     int        // 0 absolute corner thickness, 1 relative
	T         [4]float64 // corner thickness, 0 = from property
}

// NewCQuad4 builds a shell element over exactly four corner nodes.
func NewCQuad4(id, pid int, nids []int) (*CQuad4, error) {
	if len(nids) != 4 {
		return nil, &StructuralError{Card: "CQUAD4", ID: id, Reason: "exactly 4 nodes required"}
	}
	e := &CQuad4{id: id, PID: pid}
	copy(e.Nodes[:], nids)
	return e, nil
}

func (e *CQuad4) Type() string { return "CQUAD4" }
func (e *CQuad4) ID() int      { return e.id }

func (e *CQuad4) RawFields() []Field {
	fields := []Field{StrField("CQUAD4"), IntField(e.id), IntField(e.PID)}
	fields = append(fields, fieldsFromInts(e.Nodes[:])...)
	fields = append(fields, e.ThetaMcid, floatOrBlank(e.ZOffs), Blank(), intOrBlank(e.TFlag))
	for _, t := range e.T {
		fields = append(fields, floatOrBlank(t))
	}
	return fields
}

func (e *CQuad4) References() []Ref {
	refs := []Ref{{SpaceProperty, e.PID, "PID"}}
	names := [4]string{"G1", "G2", "G3", "G4"}
	for i, n := range e.Nodes {
		refs = append(refs, Ref{SpaceNode, n, names[i]})
	}
	if mcid, err := e.ThetaMcid.AsInt(); err == nil && mcid != 0 {
		refs = append(refs, Ref{SpaceCoord, mcid, "MCID"})
	}
	return refs
}

func (e *CQuad4) Validate() []Issue {
	issues := schemaIssues(e)
	names := [4]string{"G1", "G2", "G3", "G4"}
	for i := 0; i < 4; i++ {
		for j := i + 1; j < 4; j++ {
			if e.Nodes[i] == e.Nodes[j] {
				issues = append(issues, issuef("CQUAD4", e.id, names[j], "corner nodes must be distinct"))
			}
		}
	}
	if mcid, err := e.ThetaMcid.AsInt(); err == nil && mcid < 0 {
		issues = append(issues, issuef("CQUAD4", e.id, "MCID", "frame id must not be negative"))
	}
	if e.TFlag != 0 && e.TFlag != 1 {
		issues = append(issues, issuef("CQUAD4", e.id, "TFLAG", "must be 0 or 1"))
	}
	return issues
}

func parseCQuad4(c *CardRec) (Card, error) {
	e := &CQuad4{id: c.Int(1), ZOffs: c.Float(8), TFlag: c.Int(10)}
	e.PID = c.IntOr(2, e.id)
	for i := range e.Nodes {
		e.Nodes[i] = c.Int(3 + i)
	}
	f := c.FieldAt(7)
	if f.Kind() == KindString {
		return nil, c.Errf(7, "THETA/MCID", "angle or frame id required")
	}
	e.ThetaMcid = f
	for i := range e.T {
		e.T[i] = c.Float(11 + i)
	}
	return e, nil
}
